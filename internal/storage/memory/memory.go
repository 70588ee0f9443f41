package memory

import (
	"context"
	"sync"
	"time"

	"github.com/fdg312/weight-tracker/internal/storage"
	"github.com/google/uuid"
)

// MemoryStorage — in-memory реализация storage.Storage
type MemoryStorage struct {
	mu       sync.RWMutex
	profiles []storage.Profile
	entries  *EntriesMemoryStorage
	settings *SettingsMemoryStorage
}

// New создаёт MemoryStorage с профилями домохозяйства по умолчанию
func New() *MemoryStorage {
	now := time.Now()
	seed := storage.SeedProfiles()
	for i := range seed {
		seed[i].CreatedAt = now
		seed[i].UpdatedAt = now
	}

	return &MemoryStorage{
		profiles: seed,
		entries:  NewEntriesMemoryStorage(),
		settings: NewSettingsMemoryStorage(),
	}
}

func (m *MemoryStorage) ListProfiles(ctx context.Context) ([]storage.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	profiles := make([]storage.Profile, len(m.profiles))
	copy(profiles, m.profiles)
	return profiles, nil
}

func (m *MemoryStorage) GetProfile(ctx context.Context, id uuid.UUID) (*storage.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.indexOf(id)
	if i < 0 {
		return nil, storage.ErrNotFound
	}
	p := m.profiles[i]
	return &p, nil
}

func (m *MemoryStorage) UpdateProfile(ctx context.Context, profile *storage.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(profile.ID)
	if i < 0 {
		return storage.ErrNotFound
	}

	profile.IsPrimary = m.profiles[i].IsPrimary
	profile.CreatedAt = m.profiles[i].CreatedAt
	profile.UpdatedAt = time.Now()
	m.profiles[i] = *profile
	return nil
}

func (m *MemoryStorage) SetPrimary(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.indexOf(id) < 0 {
		return storage.ErrNotFound
	}
	now := time.Now()
	for i := range m.profiles {
		primary := m.profiles[i].ID == id
		if m.profiles[i].IsPrimary != primary {
			m.profiles[i].IsPrimary = primary
			m.profiles[i].UpdatedAt = now
		}
	}
	return nil
}

// indexOf expects m.mu to be held.
func (m *MemoryStorage) indexOf(id uuid.UUID) int {
	for i := range m.profiles {
		if m.profiles[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *MemoryStorage) Close() error {
	// no-op для memory
	return nil
}

// EntryStorage methods - делегируем к встроенному entries storage

func (m *MemoryStorage) GetOrCreateEntry(ctx context.Context, fresh storage.DayEntry) (storage.DayEntry, error) {
	return m.entries.GetOrCreateEntry(ctx, fresh)
}

func (m *MemoryStorage) UpdateEntry(ctx context.Context, fresh storage.DayEntry, mutate func(*storage.DayEntry)) (storage.DayEntry, error) {
	return m.entries.UpdateEntry(ctx, fresh, mutate)
}

// SettingsStorage methods - делегируем к встроенному settings storage

func (m *MemoryStorage) GetSettings(ctx context.Context) (storage.Settings, bool, error) {
	return m.settings.GetSettings(ctx)
}

func (m *MemoryStorage) UpsertSettings(ctx context.Context, in storage.Settings) (storage.Settings, error) {
	return m.settings.UpsertSettings(ctx, in)
}
