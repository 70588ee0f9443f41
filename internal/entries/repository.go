// Package entries is the per-user, per-day ledger. Every write goes through
// Repository.Update, which serializes on the backing store.
package entries

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fdg312/weight-tracker/internal/calendar"
	"github.com/fdg312/weight-tracker/internal/config"
	"github.com/fdg312/weight-tracker/internal/storage"
	"github.com/google/uuid"
)

type Repository struct {
	store     storage.EntryStorage
	loc       *time.Location
	stepGoal  int
	servingOz int
	now       func() time.Time

	subMu   sync.RWMutex
	subs    map[int]func(Change)
	nextSub int
}

func NewRepository(store storage.EntryStorage, cfg *config.Config) *Repository {
	return &Repository{
		store:     store,
		loc:       cfg.Loc(),
		stepGoal:  cfg.StepGoal(),
		servingOz: cfg.ServingOz(),
		now:       time.Now,
		subs:      make(map[int]func(Change)),
	}
}

// Location is the calendar location entries are keyed in.
func (r *Repository) Location() *time.Location { return r.loc }

// Today returns the current calendar day.
func (r *Repository) Today() time.Time {
	return calendar.StartOfDay(r.now(), r.loc)
}

// ParseDate parses YYYY-MM-DD in the tracker location; empty means today.
func (r *Repository) ParseDate(s string) (time.Time, error) {
	return calendar.ParseDate(s, r.loc, r.now())
}

func (r *Repository) fresh(userID uuid.UUID, day time.Time) storage.DayEntry {
	return storage.DayEntry{
		ID:       uuid.New(),
		UserID:   userID,
		Day:      day,
		StepGoal: r.stepGoal,
	}
}

// GetOrCreate returns the entry for the calendar day containing date,
// creating an empty one on first access.
func (r *Repository) GetOrCreate(ctx context.Context, userID uuid.UUID, date time.Time) (DayEntry, error) {
	day := calendar.StartOfDay(date, r.loc)

	row, err := r.store.GetOrCreateEntry(ctx, r.fresh(userID, day))
	if err != nil {
		return DayEntry{}, fmt.Errorf("get entry %s/%s: %w", userID, calendar.Format(day), err)
	}
	e := fromStorage(row)
	e.Date = day
	return e, nil
}

// Update runs mutator on a working copy of the entry and stores the result.
// The mutator cannot change the entry's id, date or user.
func (r *Repository) Update(ctx context.Context, userID uuid.UUID, date time.Time, mutator func(*DayEntry)) (DayEntry, error) {
	day := calendar.StartOfDay(date, r.loc)

	row, err := r.store.UpdateEntry(ctx, r.fresh(userID, day), func(row *storage.DayEntry) {
		e := fromStorage(*row)
		e.Date = day
		id := e.ID

		mutator(&e)

		e.ID, e.Date, e.UserID = id, day, userID
		*row = toStorage(e)
	})
	if err != nil {
		return DayEntry{}, fmt.Errorf("update entry %s/%s: %w", userID, calendar.Format(day), err)
	}

	e := fromStorage(row)
	e.Date = day
	r.publish(Change{Entry: e})
	return e, nil
}

// EntriesForLastWeek returns seven entries, end-6 through end, oldest first.
// Missing days are created empty.
func (r *Repository) EntriesForLastWeek(ctx context.Context, userID uuid.UUID, end time.Time) ([]DayEntry, error) {
	last := calendar.StartOfDay(end, r.loc)
	out := make([]DayEntry, 0, 7)
	for offset := -6; offset <= 0; offset++ {
		e, err := r.GetOrCreate(ctx, userID, calendar.AddDays(last, offset))
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// Subscribe registers fn for every committed change. fn runs on the writer's
// goroutine after the store has released the entry.
func (r *Repository) Subscribe(fn func(Change)) (cancel func()) {
	r.subMu.Lock()
	id := r.nextSub
	r.nextSub++
	r.subs[id] = fn
	r.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.subMu.Lock()
			delete(r.subs, id)
			r.subMu.Unlock()
		})
	}
}

func (r *Repository) publish(c Change) {
	r.subMu.RLock()
	fns := make([]func(Change), 0, len(r.subs))
	for _, fn := range r.subs {
		fns = append(fns, fn)
	}
	r.subMu.RUnlock()

	for _, fn := range fns {
		fn(Change{Entry: c.Entry.Clone()})
	}
}
