package health

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/fdg312/weight-tracker/internal/calendar"
	"github.com/fdg312/weight-tracker/internal/dispatch"
	"github.com/fdg312/weight-tracker/internal/entries"
	"github.com/fdg312/weight-tracker/internal/settings"
	"github.com/google/uuid"
)

// SettingsSource supplies the sync toggles at decision time.
type SettingsSource interface {
	Current(ctx context.Context) settings.Settings
}

// Adapter owns the authorization state. State transitions and every
// provider completion run on its queue; provider calls run on their own
// goroutines so callers never wait on the platform.
type Adapter struct {
	provider Provider
	repo     *entries.Repository
	settings SettingsSource
	queue    *dispatch.Queue
	timeout  time.Duration

	// state is only written on the queue
	state State

	snapMu   sync.RWMutex
	snapshot State

	inflight sync.WaitGroup

	subMu   sync.Mutex
	subs    map[int]func(State)
	nextSub int
}

func NewAdapter(provider Provider, repo *entries.Repository, src SettingsSource, timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Adapter{
		provider: provider,
		repo:     repo,
		settings: src,
		queue:    dispatch.NewQueue("health"),
		timeout:  timeout,
		state:    StateUnknown,
		snapshot: StateUnknown,
		subs:     make(map[int]func(State)),
	}
}

// State returns the last assigned authorization state.
func (a *Adapter) State() State {
	a.snapMu.RLock()
	defer a.snapMu.RUnlock()
	return a.snapshot
}

// Subscribe registers fn for state changes. fn runs on the adapter queue and
// must not block.
func (a *Adapter) Subscribe(fn func(State)) (cancel func()) {
	a.subMu.Lock()
	id := a.nextSub
	a.nextSub++
	a.subs[id] = fn
	a.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			a.subMu.Lock()
			delete(a.subs, id)
			a.subMu.Unlock()
		})
	}
}

// setState runs on the queue.
func (a *Adapter) setState(s State) {
	if a.state == s {
		return
	}
	a.state = s

	a.snapMu.Lock()
	a.snapshot = s
	a.snapMu.Unlock()

	a.subMu.Lock()
	fns := make([]func(State), 0, len(a.subs))
	for _, fn := range a.subs {
		fns = append(fns, fn)
	}
	a.subMu.Unlock()
	for _, fn := range fns {
		fn(s)
	}
}

// Start queries the platform once. The answer is applied only while the
// state is still unknown, so it never overrides a later request result.
func (a *Adapter) Start() {
	a.call(func(ctx context.Context) func() {
		s := a.provider.QueryAuthorization(ctx)
		return func() {
			if a.state == StateUnknown {
				a.setState(s)
			}
		}
	})
}

// RequestAuthorization prompts for access. onAuthorized runs on the adapter
// queue, and only when the result is authorized.
func (a *Adapter) RequestAuthorization(onAuthorized func()) {
	a.call(func(ctx context.Context) func() {
		s := a.provider.RequestAuthorization(ctx)
		return func() {
			a.setState(s)
			if s == StateAuthorized && onAuthorized != nil {
				onAuthorized()
			}
		}
	})
}

// SyncSteps pulls the day's step total into the user's entry. It does
// nothing unless step sync is enabled and access is authorized. The result
// is written to the (user, day) captured here even if it arrives late.
func (a *Adapter) SyncSteps(userID uuid.UUID, date time.Time) {
	day := calendar.StartOfDay(date, a.repo.Location())

	a.post(func() {
		if a.state != StateAuthorized || !a.settings.Current(context.Background()).SyncStepsFromHealth {
			return
		}
		a.call(func(ctx context.Context) func() {
			steps, ok := a.provider.FetchSteps(ctx, day)
			if !ok {
				return nil
			}
			return func() {
				_, err := a.repo.Update(context.Background(), userID, day, func(e *entries.DayEntry) {
					e.Steps = steps
				})
				if err != nil {
					log.Printf("health: storing synced steps failed: %v", err)
				}
			}
		})
	})
}

// PushWeight records the weight locally, then, if weight push is enabled and
// access is authorized, writes it to the platform without waiting. Push
// failures are logged only.
func (a *Adapter) PushWeight(ctx context.Context, userID uuid.UUID, date time.Time, weight *float64) (entries.DayEntry, error) {
	entry, err := a.repo.SetWeight(ctx, userID, date, weight)
	if err != nil {
		return entries.DayEntry{}, err
	}
	a.PushEntryWeight(entry)
	return entry, nil
}

// PushEntryWeight sends an already stored entry weight to the platform when
// weight push is enabled and access is authorized. It never blocks.
func (a *Adapter) PushEntryWeight(entry entries.DayEntry) {
	if entry.Weight == nil {
		return
	}

	pounds, day := *entry.Weight, entry.Date
	a.post(func() {
		if a.state != StateAuthorized || !a.settings.Current(context.Background()).PushWeightToHealth {
			return
		}
		a.call(func(ctx context.Context) func() {
			if !a.provider.SaveWeight(ctx, pounds, day) {
				log.Printf("health: weight push for %s failed", calendar.Format(day))
			}
			return nil
		})
	})
}

// Wait blocks until every in-flight provider call and its completion are done.
func (a *Adapter) Wait() {
	a.inflight.Wait()
}

// Close waits for in-flight work and stops the queue.
func (a *Adapter) Close() {
	a.Wait()
	a.queue.Close()
}

// post runs fn on the queue, tracked by Wait.
func (a *Adapter) post(fn func()) {
	a.inflight.Add(1)
	if !a.queue.Post(func() {
		defer a.inflight.Done()
		fn()
	}) {
		a.inflight.Done()
	}
}

// call runs a provider call on its own goroutine and posts the completion it
// returns, if any, back to the queue.
func (a *Adapter) call(provider func(ctx context.Context) func()) {
	a.inflight.Add(1)
	go func() {
		defer a.inflight.Done()

		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		complete := provider(ctx)
		cancel()

		if complete != nil {
			a.post(complete)
		}
	}()
}
