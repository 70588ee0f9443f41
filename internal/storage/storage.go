package storage

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("not found")
)

// Profile — член семьи (строка хранилища)
type Profile struct {
	ID             uuid.UUID
	Name           string
	TargetCalories int
	TargetWaterOz  int
	TargetWeight   float64
	StartingWeight float64
	IsPrimary      bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ProfileStorage — интерфейс для работы с профилями
type ProfileStorage interface {
	// ListProfiles возвращает профили в порядке создания
	ListProfiles(ctx context.Context) ([]Profile, error)

	// GetProfile возвращает профиль по ID
	GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error)

	// UpdateProfile обновляет профиль (кроме IsPrimary)
	UpdateProfile(ctx context.Context, profile *Profile) error

	// SetPrimary flags id and clears every other profile in one step.
	SetPrimary(ctx context.Context, id uuid.UUID) error
}

// DayEntry — запись дневника за один календарный день одного пользователя
type DayEntry struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	Day              time.Time // local midnight
	Weight           *float64
	DidWorkout       bool
	MealsLogged      bool
	Steps            int
	StepGoal         int
	CompletedMealIDs []uuid.UUID
	WaterOunces      float64
	Notes            *string
	UpdatedAt        time.Time
}

// Clone returns a copy that shares no pointers or slices with e.
func (e DayEntry) Clone() DayEntry {
	out := e
	if e.Weight != nil {
		w := *e.Weight
		out.Weight = &w
	}
	if e.Notes != nil {
		n := *e.Notes
		out.Notes = &n
	}
	if e.CompletedMealIDs != nil {
		out.CompletedMealIDs = append([]uuid.UUID(nil), e.CompletedMealIDs...)
	}
	return out
}

// DayKey is the calendar-day part of a key, independent of the location.
func DayKey(day time.Time) string {
	return day.Format("2006-01-02")
}

// EntryStorage — хранилище записей дневника. Ключ: (fresh.UserID, fresh.Day).
type EntryStorage interface {
	// GetOrCreateEntry returns the stored row or stores fresh and returns it.
	GetOrCreateEntry(ctx context.Context, fresh DayEntry) (DayEntry, error)

	// UpdateEntry applies mutate to the stored row (fresh if none) and
	// writes it back. Concurrent readers see the old or the new row.
	UpdateEntry(ctx context.Context, fresh DayEntry, mutate func(*DayEntry)) (DayEntry, error)
}

// Settings — настройки домохозяйства (одна строка)
type Settings struct {
	ShowKidVariants      bool
	SyncStepsFromHealth  bool
	PushWeightToHealth   bool
	CloudSyncEnabled     bool
	SharedRollupsEnabled bool
	UpdatedAt            time.Time
}

// SettingsStorage — хранилище настроек
type SettingsStorage interface {
	GetSettings(ctx context.Context) (Settings, bool, error)
	UpsertSettings(ctx context.Context, in Settings) (Settings, error)
}

// Storage объединяет все хранилища трекера
type Storage interface {
	ProfileStorage
	EntryStorage
	SettingsStorage

	// Close закрывает соединение (для Postgres)
	Close() error
}

// SeedProfileID derives the stable id of a seeded household member.
func SeedProfileID(key string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/fdg312/weight-tracker/profiles/"+key))
}

// SeedProfiles returns the household created on first start.
func SeedProfiles() []Profile {
	return []Profile{
		{
			ID:             SeedProfileID("chris"),
			Name:           "Chris",
			TargetCalories: 2100,
			TargetWaterOz:  int(math.Round(198 * 0.5)),
			TargetWeight:   185,
			StartingWeight: 198,
			IsPrimary:      true,
		},
		{
			ID:             SeedProfileID("jill"),
			Name:           "Jill",
			TargetCalories: 1700,
			TargetWaterOz:  int(math.Round(155 * 0.5)),
			TargetWeight:   145,
			StartingWeight: 155,
		},
	}
}
