package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"APP_ENV", "ENV", "PORT", "DATABASE_URL", "DATABASE_URL_POOLED", "DATABASE_URL_DIRECT",
		"TRACKER_TIME_ZONE", "DEFAULT_STEP_GOAL", "WATER_SERVING_OZ", "HEALTH_PROVIDER_MODE",
		"HEALTH_MOCK_STATE", "SHOW_KID_VARIANTS", "SYNC_STEPS_FROM_HEALTH", "PUSH_WEIGHT_TO_HEALTH",
		"CLOUD_SYNC_ENABLED", "SHARED_ROLLUPS_ENABLED",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Env != "local" || cfg.Port != 8080 {
		t.Fatalf("expected local/8080, got %s/%d", cfg.Env, cfg.Port)
	}
	if cfg.DefaultStepGoal != 9000 {
		t.Errorf("expected step goal 9000, got %d", cfg.DefaultStepGoal)
	}
	if cfg.WaterServingOz != 12 {
		t.Errorf("expected 12 oz serving, got %d", cfg.WaterServingOz)
	}
	if cfg.Health.Mode != HealthModeNone {
		t.Errorf("expected health mode none, got %s", cfg.Health.Mode)
	}

	want := TrackerDefaults{
		SyncStepsFromHealth:  true,
		PushWeightToHealth:   true,
		SharedRollupsEnabled: true,
	}
	if cfg.Defaults != want {
		t.Errorf("unexpected defaults: %+v", cfg.Defaults)
	}
}

func TestLoadDatabasePriority(t *testing.T) {
	t.Setenv("DATABASE_URL_POOLED", "postgres://pooled")
	t.Setenv("DATABASE_URL", "postgres://url")
	t.Setenv("DATABASE_URL_DIRECT", "postgres://direct")

	cfg := Load()
	if cfg.DatabaseURL != "postgres://pooled" {
		t.Fatalf("expected pooled runtime URL, got %q", cfg.DatabaseURL)
	}
	if cfg.DatabaseURLDirect != "postgres://direct" {
		t.Fatalf("expected direct URL kept, got %q", cfg.DatabaseURLDirect)
	}
}

func TestLoadFallbacks(t *testing.T) {
	t.Setenv("HEALTH_PROVIDER_MODE", "healthkit")
	t.Setenv("HEALTH_MOCK_STATE", "maybe")
	t.Setenv("DEFAULT_STEP_GOAL", "-5")
	t.Setenv("TRACKER_TIME_ZONE", "Mars/Olympus_Mons")
	t.Setenv("SHOW_KID_VARIANTS", "on")
	t.Setenv("SYNC_STEPS_FROM_HEALTH", "0")

	cfg := Load()

	if cfg.Health.Mode != HealthModeNone {
		t.Errorf("expected fallback to none, got %s", cfg.Health.Mode)
	}
	if cfg.Health.MockState != "notDetermined" {
		t.Errorf("expected fallback to notDetermined, got %s", cfg.Health.MockState)
	}
	if cfg.DefaultStepGoal != 9000 {
		t.Errorf("expected fallback step goal, got %d", cfg.DefaultStepGoal)
	}
	if cfg.Loc() != time.Local {
		t.Errorf("expected Local location after bad time zone")
	}
	if !cfg.Defaults.ShowKidVariants {
		t.Error("expected ShowKidVariants=true")
	}
	if cfg.Defaults.SyncStepsFromHealth {
		t.Error("expected SyncStepsFromHealth=false")
	}
}

func TestNilConfigHelpers(t *testing.T) {
	var cfg *Config
	if cfg.Loc() != time.Local {
		t.Error("nil config should use time.Local")
	}
	if cfg.StepGoal() != 9000 || cfg.ServingOz() != 12 {
		t.Error("nil config should use built-in defaults")
	}
}
