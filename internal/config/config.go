package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	HealthModeNone = "none"
	HealthModeMock = "mock"
)

// TrackerDefaults are the initial values of the household settings.
type TrackerDefaults struct {
	ShowKidVariants      bool
	SyncStepsFromHealth  bool
	PushWeightToHealth   bool
	CloudSyncEnabled     bool
	SharedRollupsEnabled bool
}

// HealthConfig selects and tunes the external health-data provider.
type HealthConfig struct {
	Mode               string // none | mock
	MockState          string // authorized | denied | notDetermined
	MockSteps          int
	CallTimeoutSeconds int
}

func (c HealthConfig) CallTimeout() time.Duration {
	return time.Duration(c.CallTimeoutSeconds) * time.Second
}

// Config holds the application configuration.
type Config struct {
	Env      string // local | staging | production
	Port     int
	LogLevel string

	// Database
	DatabaseURL       string // runtime connection (resolved: pooled > url > direct)
	DatabaseURLRaw    string // DATABASE_URL as provided
	DatabaseURLPooled string // DATABASE_URL_POOLED as provided
	DatabaseURLDirect string // for migrations / DDL (may be empty)

	// CORS
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	// Rate Limiting
	RateLimitRPS   int
	RateLimitBurst int

	// Tracker
	TimeZone        string
	Location        *time.Location
	DefaultStepGoal int
	WaterServingOz  int
	CatalogPath     string
	Defaults        TrackerDefaults

	Health HealthConfig

	// Migrations
	RunMigrationsOnStartup bool
}

// Load reads the configuration from environment variables.
func Load() *Config {
	// APP_ENV (fallback to ENV for backward compat, default: local)
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = os.Getenv("ENV")
	}
	if env == "" {
		env = "local"
	}

	// PORT (default: 8080)
	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		if p, err := strconv.Atoi(portStr); err == nil {
			port = p
		}
	}

	// LOG_LEVEL (default: debug)
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "debug"
	}

	// ---------- Database ----------
	// Priority: DATABASE_URL_POOLED > DATABASE_URL > DATABASE_URL_DIRECT
	dbPooled := strings.TrimSpace(os.Getenv("DATABASE_URL_POOLED"))
	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	dbDirect := strings.TrimSpace(os.Getenv("DATABASE_URL_DIRECT"))

	runtimeDB := dbPooled
	if runtimeDB == "" {
		runtimeDB = dbURL
	}
	if runtimeDB == "" {
		runtimeDB = dbDirect
	}

	runMigrationsOnStartup := parseBoolEnv("RUN_MIGRATIONS_ON_STARTUP")

	// ---------- CORS ----------
	corsOrigins := parseCORSOrigins(os.Getenv("CORS_ALLOWED_ORIGINS"), env)
	corsAllowCreds := os.Getenv("CORS_ALLOW_CREDENTIALS") == "1"

	// ---------- Rate Limiting ----------
	rateLimitRPS := envInt("RATE_LIMIT_RPS", 0)
	rateLimitBurst := envInt("RATE_LIMIT_BURST", 0)

	// ---------- Tracker ----------
	timeZone := strings.TrimSpace(os.Getenv("TRACKER_TIME_ZONE"))
	location := time.Local
	if timeZone != "" {
		loc, err := time.LoadLocation(timeZone)
		if err != nil {
			log.Printf("WARNING: unknown TRACKER_TIME_ZONE=%q, fallback to Local", timeZone)
			timeZone = ""
		} else {
			location = loc
		}
	}

	// DEFAULT_STEP_GOAL (default: 9000)
	defaultStepGoal := envInt("DEFAULT_STEP_GOAL", 9000)
	if defaultStepGoal <= 0 {
		defaultStepGoal = 9000
	}

	// WATER_SERVING_OZ (default: 12)
	waterServingOz := envInt("WATER_SERVING_OZ", 12)
	if waterServingOz <= 0 {
		waterServingOz = 12
	}

	defaults := TrackerDefaults{
		ShowKidVariants:      envBool("SHOW_KID_VARIANTS", false),
		SyncStepsFromHealth:  envBool("SYNC_STEPS_FROM_HEALTH", true),
		PushWeightToHealth:   envBool("PUSH_WEIGHT_TO_HEALTH", true),
		CloudSyncEnabled:     envBool("CLOUD_SYNC_ENABLED", false),
		SharedRollupsEnabled: envBool("SHARED_ROLLUPS_ENABLED", true),
	}

	// ---------- Health provider ----------
	healthMode := strings.ToLower(strings.TrimSpace(os.Getenv("HEALTH_PROVIDER_MODE")))
	if healthMode == "" {
		healthMode = HealthModeNone
	}
	if healthMode != HealthModeNone && healthMode != HealthModeMock {
		log.Printf("WARNING: unknown HEALTH_PROVIDER_MODE=%q, fallback to %s", healthMode, HealthModeNone)
		healthMode = HealthModeNone
	}

	mockState := strings.TrimSpace(os.Getenv("HEALTH_MOCK_STATE"))
	switch mockState {
	case "":
		mockState = "notDetermined"
	case "authorized", "denied", "notDetermined":
	default:
		log.Printf("WARNING: unknown HEALTH_MOCK_STATE=%q, fallback to notDetermined", mockState)
		mockState = "notDetermined"
	}

	mockSteps := envInt("HEALTH_MOCK_STEPS", 0)
	if mockSteps < 0 {
		mockSteps = 0
	}

	callTimeout := envInt("HEALTH_CALL_TIMEOUT_SECONDS", 10)
	if callTimeout <= 0 {
		callTimeout = 10
	}

	return &Config{
		Env:               env,
		Port:              port,
		LogLevel:          logLevel,
		DatabaseURL:       runtimeDB,
		DatabaseURLRaw:    dbURL,
		DatabaseURLPooled: dbPooled,
		DatabaseURLDirect: dbDirect,

		CORSAllowedOrigins:   corsOrigins,
		CORSAllowCredentials: corsAllowCreds,

		RateLimitRPS:   rateLimitRPS,
		RateLimitBurst: rateLimitBurst,

		TimeZone:        timeZone,
		Location:        location,
		DefaultStepGoal: defaultStepGoal,
		WaterServingOz:  waterServingOz,
		CatalogPath:     strings.TrimSpace(os.Getenv("CATALOG_PATH")),
		Defaults:        defaults,

		Health: HealthConfig{
			Mode:               healthMode,
			MockState:          mockState,
			MockSteps:          mockSteps,
			CallTimeoutSeconds: callTimeout,
		},

		RunMigrationsOnStartup: runMigrationsOnStartup,
	}
}

// Loc returns the calendar location, defaulting to time.Local for
// hand-built configs.
func (c *Config) Loc() *time.Location {
	if c == nil || c.Location == nil {
		return time.Local
	}
	return c.Location
}

// StepGoal returns the default step goal, falling back to 9000.
func (c *Config) StepGoal() int {
	if c == nil || c.DefaultStepGoal <= 0 {
		return 9000
	}
	return c.DefaultStepGoal
}

// ServingOz returns the size of one water serving in ounces.
func (c *Config) ServingOz() int {
	if c == nil || c.WaterServingOz <= 0 {
		return 12
	}
	return c.WaterServingOz
}

// parseCORSOrigins parses CORS_ALLOWED_ORIGINS env var.
// In local mode, defaults to localhost origins if empty.
func parseCORSOrigins(raw, env string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if env == "local" {
			return []string{"http://localhost:3000", "http://localhost:8081"}
		}
		return nil // prod: deny by default
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

// envInt reads an int env var with a default value.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

// envBool reads a boolean env var; unset keeps the default.
func envBool(key string, defaultVal bool) bool {
	if strings.TrimSpace(os.Getenv(key)) == "" {
		return defaultVal
	}
	return parseBoolEnv(key)
}

func parseBoolEnv(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}
