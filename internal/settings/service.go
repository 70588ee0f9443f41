package settings

import (
	"context"
	"log"
	"sync"

	"github.com/fdg312/weight-tracker/internal/config"
	"github.com/fdg312/weight-tracker/internal/storage"
)

type Service struct {
	storage  storage.SettingsStorage
	defaults config.TrackerDefaults

	// serializes read-modify-write of the single settings row
	mu sync.Mutex
}

func NewService(settingsStorage storage.SettingsStorage, defaults config.TrackerDefaults) *Service {
	return &Service{
		storage:  settingsStorage,
		defaults: defaults,
	}
}

func (s *Service) GetOrDefault(ctx context.Context) (SettingsResponse, error) {
	row, found, err := s.storage.GetSettings(ctx)
	if err != nil {
		return SettingsResponse{}, err
	}

	if !found {
		return SettingsResponse{
			Settings:  fromDefaults(s.defaults),
			IsDefault: true,
		}, nil
	}

	return SettingsResponse{
		Settings:  fromStorage(row),
		IsDefault: false,
	}, nil
}

// Current returns the effective settings. A storage failure yields the
// defaults so callers on background paths never block on it.
func (s *Service) Current(ctx context.Context) Settings {
	resp, err := s.GetOrDefault(ctx)
	if err != nil {
		log.Printf("settings: read failed, using defaults: %v", err)
		return fromDefaults(s.defaults)
	}
	return resp.Settings
}

// Update applies a partial change; fields missing from the patch keep their value.
func (s *Service) Update(ctx context.Context, patch SettingsPatch) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.GetOrDefault(ctx)
	if err != nil {
		return Settings{}, err
	}

	row, err := s.storage.UpsertSettings(ctx, toStorage(patch.Apply(current.Settings)))
	if err != nil {
		return Settings{}, err
	}
	return fromStorage(row), nil
}
