package memory

import (
	"context"
	"sync"
	"time"

	"github.com/fdg312/weight-tracker/internal/storage"
)

type SettingsMemoryStorage struct {
	mu       sync.RWMutex
	settings *storage.Settings
}

func NewSettingsMemoryStorage() *SettingsMemoryStorage {
	return &SettingsMemoryStorage{}
}

func (s *SettingsMemoryStorage) GetSettings(ctx context.Context) (storage.Settings, bool, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.settings == nil {
		return storage.Settings{}, false, nil
	}
	return *s.settings, true, nil
}

func (s *SettingsMemoryStorage) UpsertSettings(ctx context.Context, in storage.Settings) (storage.Settings, error) {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	row := in
	row.UpdatedAt = time.Now()
	s.settings = &row
	return row, nil
}
