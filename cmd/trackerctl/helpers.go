package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fdg312/weight-tracker/internal/catalog"
	"github.com/fdg312/weight-tracker/internal/config"
	"github.com/fdg312/weight-tracker/internal/entries"
	"github.com/fdg312/weight-tracker/internal/mealplan"
	"github.com/fdg312/weight-tracker/internal/profiles"
	"github.com/fdg312/weight-tracker/internal/rollup"
	"github.com/fdg312/weight-tracker/internal/settings"
	"github.com/fdg312/weight-tracker/internal/storage"
	"github.com/fdg312/weight-tracker/internal/storage/memory"
	"github.com/fdg312/weight-tracker/internal/storage/postgres"
)

// app is the core wired for one command run.
type app struct {
	cfg      *config.Config
	profiles *profiles.Service
	settings *settings.Service
	repo     *entries.Repository
	meals    *mealplan.Service
	rollups  *rollup.Service
}

// openStore is replaced in tests to share one store across runs.
var openStore = func(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	if cfg.DatabaseURL == "" {
		return memory.New(), nil
	}
	return postgres.New(ctx, cfg.DatabaseURL)
}

func withApp(ctx context.Context, run func(*app) error) error {
	cfg := config.Load()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	c, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	profileService := profiles.NewService(store)
	settingsService := settings.NewService(store, cfg.Defaults)
	repo := entries.NewRepository(store, cfg)

	return run(&app{
		cfg:      cfg,
		profiles: profileService,
		settings: settingsService,
		repo:     repo,
		meals:    mealplan.NewService(mealplan.NewSelector(c), repo, settingsService),
		rollups:  rollup.NewService(repo, profileService, settingsService),
	})
}

func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	path := strings.TrimSpace(catalogPath)
	if path == "" {
		path = cfg.CatalogPath
	}
	if path == "" {
		return catalog.Load()
	}
	c, err := catalog.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	return c, nil
}

// resolveUser accepts a profile name or id; empty means the primary profile.
func (a *app) resolveUser(ctx context.Context, nameOrID string) (*profiles.Profile, error) {
	if strings.TrimSpace(nameOrID) == "" {
		return a.profiles.Primary(ctx)
	}
	p, err := a.profiles.Resolve(ctx, nameOrID)
	if err != nil {
		return nil, fmt.Errorf("unknown user %q", nameOrID)
	}
	return p, nil
}

func (a *app) parseDate(flag, value string) (time.Time, error) {
	day, err := a.repo.ParseDate(strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s %q (expected YYYY-MM-DD)", flag, value)
	}
	return day, nil
}

func formatWeight(w *float64) string {
	if w == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *w)
}

func formatChange(d *float64) string {
	if d == nil {
		return "-"
	}
	return fmt.Sprintf("%+.1f", *d)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
