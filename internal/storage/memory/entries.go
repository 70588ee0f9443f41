package memory

import (
	"context"
	"sync"
	"time"

	"github.com/fdg312/weight-tracker/internal/storage"
	"github.com/google/uuid"
)

// EntriesMemoryStorage keeps entries as day -> user -> entry.
type EntriesMemoryStorage struct {
	mu      sync.RWMutex
	entries map[string]map[uuid.UUID]storage.DayEntry
}

func NewEntriesMemoryStorage() *EntriesMemoryStorage {
	return &EntriesMemoryStorage{
		entries: make(map[string]map[uuid.UUID]storage.DayEntry),
	}
}

func (s *EntriesMemoryStorage) GetOrCreateEntry(ctx context.Context, fresh storage.DayEntry) (storage.DayEntry, error) {
	_ = ctx
	key := storage.DayKey(fresh.Day)

	s.mu.RLock()
	row, ok := s.entries[key][fresh.UserID]
	s.mu.RUnlock()
	if ok {
		return row.Clone(), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadLocked(key, fresh).Clone(), nil
}

func (s *EntriesMemoryStorage) UpdateEntry(ctx context.Context, fresh storage.DayEntry, mutate func(*storage.DayEntry)) (storage.DayEntry, error) {
	_ = ctx
	key := storage.DayKey(fresh.Day)

	s.mu.Lock()
	defer s.mu.Unlock()

	working := s.loadLocked(key, fresh).Clone()
	id, day, userID := working.ID, working.Day, working.UserID
	mutate(&working)
	working.ID, working.Day, working.UserID = id, day, userID
	working.UpdatedAt = time.Now()

	s.entries[key][userID] = working.Clone()
	return working, nil
}

// loadLocked returns the stored row, inserting fresh first if absent.
func (s *EntriesMemoryStorage) loadLocked(key string, fresh storage.DayEntry) storage.DayEntry {
	byUser, ok := s.entries[key]
	if !ok {
		byUser = make(map[uuid.UUID]storage.DayEntry)
		s.entries[key] = byUser
	}
	row, ok := byUser[fresh.UserID]
	if !ok {
		row = fresh.Clone()
		if row.UpdatedAt.IsZero() {
			row.UpdatedAt = time.Now()
		}
		byUser[fresh.UserID] = row
	}
	return row
}
