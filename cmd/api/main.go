package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/fdg312/weight-tracker/internal/config"
	"github.com/fdg312/weight-tracker/internal/dbmigrate"
	"github.com/fdg312/weight-tracker/internal/httpserver"
)

func main() {
	cfg := config.Load()

	printStartupBanner(cfg)

	if cfg.RunMigrationsOnStartup {
		dbURL, source, _, err := dbmigrate.SelectDatabaseURL(cfg, true)
		if err != nil {
			log.Fatalf("FATAL startup migrations: %v", err)
		}

		log.Printf("startup migrations: command=up using=%s", source)
		if err := dbmigrate.Run("up", dbURL, ""); err != nil {
			log.Fatalf("FATAL startup migrations failed: %v", err)
		}
		log.Printf("startup migrations: completed")
	}

	validateProductionConfig(cfg)

	server := httpserver.New(cfg)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		server.Close()
		if err != nil {
			log.Fatal(err)
		}
	case sig := <-stop:
		log.Printf("shutdown: got %s, waiting for in-flight work", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Printf("shutdown: %v", err)
		}
		log.Println("shutdown: done")
	}
}

// printStartupBanner logs a one-time summary of the resolved configuration.
// Database URLs are printed as "set" / "not set" only.
func printStartupBanner(cfg *config.Config) {
	log.Println("========== Weight Tracker API ==========")
	log.Printf("  env              = %s", cfg.Env)
	log.Printf("  port             = %d", cfg.Port)

	// ---- Database ----
	log.Println("---- database ----")
	log.Printf("  runtime_url      = %s", describeDBURL(cfg.DatabaseURL, cfg.DatabaseURLPooled))
	log.Printf("  pooled           = %s", setOrNot(cfg.DatabaseURLPooled))
	log.Printf("  direct           = %s", setOrNot(cfg.DatabaseURLDirect))
	log.Printf("  migrations_on_startup = %t", cfg.RunMigrationsOnStartup)
	if cfg.RunMigrationsOnStartup {
		if cfg.DatabaseURLDirect != "" {
			log.Printf("  migrations_via   = DATABASE_URL_DIRECT")
		} else {
			log.Printf("  migrations_via   = (will fail, DATABASE_URL_DIRECT not set)")
		}
	}

	// ---- Tracker ----
	log.Println("---- tracker ----")
	log.Printf("  time_zone        = %s", cfg.Loc())
	log.Printf("  step_goal        = %d", cfg.StepGoal())
	log.Printf("  water_serving_oz = %d", cfg.ServingOz())
	log.Printf("  catalog          = %s", nonEmptyOrDash(cfg.CatalogPath))
	log.Printf("  kid_variants     = %t", cfg.Defaults.ShowKidVariants)
	log.Printf("  shared_rollups   = %t", cfg.Defaults.SharedRollupsEnabled)

	// ---- Health provider ----
	log.Println("---- health ----")
	log.Printf("  provider_mode    = %s", cfg.Health.Mode)
	if cfg.Health.Mode == config.HealthModeMock {
		log.Printf("  mock_state       = %s", cfg.Health.MockState)
		log.Printf("  mock_steps       = %d", cfg.Health.MockSteps)
	}
	log.Printf("  sync_steps       = %t", cfg.Defaults.SyncStepsFromHealth)
	log.Printf("  push_weight      = %t", cfg.Defaults.PushWeightToHealth)
	log.Printf("  call_timeout     = %s", cfg.Health.CallTimeout())

	// ---- HTTP ----
	log.Println("---- http ----")
	log.Printf("  cors_origins     = %s", nonEmptyOrDash(strings.Join(cfg.CORSAllowedOrigins, ",")))
	if cfg.RateLimitRPS > 0 {
		log.Printf("  rate_limit       = %d rps (burst %d)", cfg.RateLimitRPS, cfg.RateLimitBurst)
	} else {
		log.Printf("  rate_limit       = off")
	}

	log.Println("========================================")
}

// validateProductionConfig performs fatal checks that only matter in non-local envs.
func validateProductionConfig(cfg *config.Config) {
	isProd := cfg.Env == "production" || cfg.Env == "staging"
	if !isProd {
		return
	}

	// DATABASE_URL must be set in production
	if cfg.DatabaseURL == "" {
		log.Fatalf("FATAL db: no DATABASE_URL configured in %s", cfg.Env)
	}

	// Mock health data must not leak into real diaries
	if cfg.Health.Mode == config.HealthModeMock {
		log.Fatalf("FATAL health: HEALTH_PROVIDER_MODE=mock is not allowed in %s", cfg.Env)
	}

	for _, o := range cfg.CORSAllowedOrigins {
		if o == "*" {
			log.Fatalf("FATAL cors: wildcard CORS_ALLOWED_ORIGINS is not allowed in %s", cfg.Env)
		}
	}
}

// ---- helpers (no secrets) ----

func setOrNot(v string) string {
	if strings.TrimSpace(v) == "" {
		return "not set"
	}
	return "set"
}

func nonEmptyOrDash(v string) string {
	if strings.TrimSpace(v) == "" {
		return "-"
	}
	return v
}

func describeDBURL(runtime, pooled string) string {
	if runtime == "" {
		return "not set (will use in-memory storage)"
	}
	if pooled != "" && runtime == pooled {
		return "set (via DATABASE_URL_POOLED)"
	}
	return "set"
}
