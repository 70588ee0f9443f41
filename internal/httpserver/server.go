package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/fdg312/weight-tracker/internal/catalog"
	"github.com/fdg312/weight-tracker/internal/config"
	"github.com/fdg312/weight-tracker/internal/entries"
	"github.com/fdg312/weight-tracker/internal/events"
	"github.com/fdg312/weight-tracker/internal/health"
	"github.com/fdg312/weight-tracker/internal/mealplan"
	"github.com/fdg312/weight-tracker/internal/profiles"
	"github.com/fdg312/weight-tracker/internal/rollup"
	"github.com/fdg312/weight-tracker/internal/settings"
	"github.com/fdg312/weight-tracker/internal/storage"
	"github.com/fdg312/weight-tracker/internal/storage/memory"
	"github.com/fdg312/weight-tracker/internal/storage/postgres"
)

// Server представляет HTTP сервер
type Server struct {
	config  *config.Config
	mux     *http.ServeMux
	storage storage.Storage
	catalog *catalog.Catalog
	repo    *entries.Repository
	adapter *health.Adapter
	hub     *events.Hub
	http    *http.Server
}

// New создаёт новый HTTP сервер
func New(cfg *config.Config) *Server {
	s := &Server{
		config: cfg,
		mux:    http.NewServeMux(),
	}

	s.initStorage()
	s.initCatalog()

	s.routes()
	return s
}

// initStorage инициализирует storage (Memory или Postgres)
func (s *Server) initStorage() {
	if s.config.DatabaseURL == "" {
		log.Println("Используется in-memory storage")
		s.storage = memory.New()
		return
	}

	log.Println("Подключение к PostgreSQL...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pgStorage, err := postgres.New(ctx, s.config.DatabaseURL)
	if err != nil {
		log.Printf("Ошибка подключения к PostgreSQL: %v", err)
		log.Println("Fallback на in-memory storage")
		s.storage = memory.New()
		return
	}
	log.Println("PostgreSQL подключен успешно")
	s.storage = pgStorage
}

// initCatalog загружает каталог из CATALOG_PATH, иначе встроенный
func (s *Server) initCatalog() {
	if s.config.CatalogPath != "" {
		c, err := catalog.LoadFile(s.config.CatalogPath)
		if err == nil {
			log.Printf("Каталог загружен из %s", s.config.CatalogPath)
			s.catalog = c
			return
		}
		log.Printf("Ошибка загрузки каталога %s: %v; используется встроенный", s.config.CatalogPath, err)
	}
	s.catalog = catalog.MustLoad()
}

// routes регистрирует маршруты
func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealthz)

	// Profiles API
	profileService := profiles.NewService(s.storage)
	profileHandler := profiles.NewHandler(profileService)

	s.mux.HandleFunc("GET /v1/profiles", profileHandler.HandleList)
	s.mux.HandleFunc("PATCH /v1/profiles/{id}", profileHandler.HandleUpdate)
	s.mux.HandleFunc("POST /v1/profiles/{id}/primary", profileHandler.HandleSetPrimary)

	// Settings API
	settingsService := settings.NewService(s.storage, s.config.Defaults)
	settingsHandler := settings.NewHandler(settingsService)

	s.mux.HandleFunc("GET /v1/settings", settingsHandler.HandleGet)
	s.mux.HandleFunc("PUT /v1/settings", settingsHandler.HandlePut)

	// Entries + health sync
	s.repo = entries.NewRepository(s.storage, s.config)
	s.adapter = health.NewAdapter(health.NewProvider(s.config.Health), s.repo, settingsService, s.config.Health.CallTimeout())
	s.adapter.Start()

	entriesHandler := entries.NewHandler(s.repo, profileService).WithWeightHook(s.adapter.PushEntryWeight)

	s.mux.HandleFunc("GET /v1/entries/{user_id}/{date}", entriesHandler.HandleGet)
	s.mux.HandleFunc("PATCH /v1/entries/{user_id}/{date}", entriesHandler.HandlePatch)

	healthHandler := health.NewHandler(s.adapter, profileService, s.repo.ParseDate)

	s.mux.HandleFunc("GET /v1/health/state", healthHandler.HandleState)
	s.mux.HandleFunc("POST /v1/health/authorize", healthHandler.HandleAuthorize)
	s.mux.HandleFunc("POST /v1/health/sync-steps", healthHandler.HandleSyncSteps)

	// Meals API
	mealService := mealplan.NewService(mealplan.NewSelector(s.catalog), s.repo, settingsService)
	mealHandler := mealplan.NewHandler(mealService, s.repo, profileService)

	s.mux.HandleFunc("PUT /v1/entries/{user_id}/{date}/meals/{template_id}", mealHandler.HandleComplete)
	s.mux.HandleFunc("DELETE /v1/entries/{user_id}/{date}/meals/{template_id}", mealHandler.HandleUncomplete)
	s.mux.HandleFunc("GET /v1/meals/today", mealHandler.HandleToday)
	s.mux.HandleFunc("GET /v1/meals/plan", mealHandler.HandlePlan)
	s.mux.HandleFunc("GET /v1/meals/{template_id}/recipe", mealHandler.HandleRecipe)

	// Rollups API
	rollupService := rollup.NewService(s.repo, profileService, settingsService)
	rollupHandler := rollup.NewHandler(rollupService, profileService, s.repo.ParseDate)

	s.mux.HandleFunc("GET /v1/rollups/week", rollupHandler.HandleWeek)
	s.mux.HandleFunc("GET /v1/rollups/household", rollupHandler.HandleHousehold)

	// Change feed
	s.hub = events.NewHub(s.config.CORSAllowedOrigins)
	s.hub.Attach(s.repo, s.adapter)
	s.mux.Handle("GET /v1/events", s.hub)
}

// handleHealthz возвращает статус сервера
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":       "ok",
		"health_state": string(s.adapter.State()),
	})
}

// Handler returns the router wrapped in the middleware chain (outermost
// first): CORS → Rate Limit → Router.
func (s *Server) Handler() http.Handler {
	var handler http.Handler = s.mux
	handler = RateLimitMiddleware(s.config, handler)
	handler = CORSMiddleware(s.config, handler)
	return handler
}

// Start запускает HTTP сервер и блокируется до Shutdown
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("Сервер запущен на http://localhost%s\n", addr)
	log.Printf("Health check: http://localhost%s/healthz\n", addr)
	log.Printf("Entries API: http://localhost%s/v1/entries/{user_id}/{date}\n", addr)

	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown останавливает приём запросов и освобождает ресурсы
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if s.http != nil {
		err = s.http.Shutdown(ctx)
	}
	if closeErr := s.Close(); err == nil {
		err = closeErr
	}
	return err
}

// Close ждёт завершения вызовов провайдера и закрывает storage
func (s *Server) Close() error {
	if s.hub != nil {
		s.hub.Close()
	}
	if s.adapter != nil {
		s.adapter.Close()
	}
	if s.storage != nil {
		return s.storage.Close()
	}
	return nil
}
