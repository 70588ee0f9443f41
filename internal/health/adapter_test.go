package health

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/fdg312/weight-tracker/internal/config"
	"github.com/fdg312/weight-tracker/internal/entries"
	"github.com/fdg312/weight-tracker/internal/settings"
	"github.com/fdg312/weight-tracker/internal/storage/memory"
	"github.com/google/uuid"
)

type staticSettings settings.Settings

func (s staticSettings) Current(ctx context.Context) settings.Settings { return settings.Settings(s) }

var syncAll = staticSettings{SyncStepsFromHealth: true, PushWeightToHealth: true}

var testDay = time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

func newTestAdapter(t *testing.T, p Provider, src SettingsSource) (*Adapter, *entries.Repository) {
	t.Helper()
	repo := entries.NewRepository(memory.New(), &config.Config{Location: time.UTC})
	a := NewAdapter(p, repo, src, time.Second)
	t.Cleanup(a.Close)
	return a, repo
}

// authorized returns an adapter whose state is already authorized.
func authorized(t *testing.T, src SettingsSource) (*Adapter, *entries.Repository, *MockProvider) {
	t.Helper()
	mock := NewMockProvider(StateAuthorized)
	a, repo := newTestAdapter(t, mock, src)
	a.Start()
	a.Wait()
	if a.State() != StateAuthorized {
		t.Fatalf("expected authorized, got %s", a.State())
	}
	return a, repo, mock
}

func TestStartAppliesQueriedState(t *testing.T) {
	a, _ := newTestAdapter(t, NewMockProvider(StateDenied), syncAll)
	if a.State() != StateUnknown {
		t.Fatalf("expected unknown before start, got %s", a.State())
	}
	a.Start()
	a.Wait()
	if a.State() != StateDenied {
		t.Fatalf("expected denied, got %s", a.State())
	}
}

// splitProvider answers the startup query and the request differently.
type splitProvider struct {
	Unavailable
	query, request State
}

func (p splitProvider) QueryAuthorization(ctx context.Context) State   { return p.query }
func (p splitProvider) RequestAuthorization(ctx context.Context) State { return p.request }

func TestStartDoesNotOverrideRequestResult(t *testing.T) {
	a, _ := newTestAdapter(t, splitProvider{query: StateNotDetermined, request: StateAuthorized}, syncAll)

	a.RequestAuthorization(nil)
	a.Wait()
	a.Start()
	a.Wait()

	if a.State() != StateAuthorized {
		t.Fatalf("expected authorized to survive a late startup query, got %s", a.State())
	}
}

func TestRequestAuthorizationContinuation(t *testing.T) {
	t.Run("granted", func(t *testing.T) {
		a, _ := newTestAdapter(t, NewMockProvider(StateNotDetermined), syncAll)
		called := 0
		a.RequestAuthorization(func() { called++ })
		a.Wait()
		if a.State() != StateAuthorized || called != 1 {
			t.Fatalf("expected one continuation after grant, state=%s called=%d", a.State(), called)
		}
	})

	t.Run("refused", func(t *testing.T) {
		mock := NewMockProvider(StateNotDetermined)
		mock.GrantOnRequest = StateDenied
		a, _ := newTestAdapter(t, mock, syncAll)
		called := false
		a.RequestAuthorization(func() { called = true })
		a.Wait()
		if a.State() != StateDenied || called {
			t.Fatalf("expected no continuation, state=%s called=%v", a.State(), called)
		}
	})

	t.Run("unavailable", func(t *testing.T) {
		a, _ := newTestAdapter(t, Unavailable{}, syncAll)
		called := false
		a.RequestAuthorization(func() { called = true })
		a.Wait()
		if a.State() != StateUnavailable || called {
			t.Fatalf("expected unavailable without continuation, state=%s called=%v", a.State(), called)
		}
	})
}

func TestRequestThenSyncSteps(t *testing.T) {
	mock := NewMockProvider(StateNotDetermined)
	mock.SetSteps(testDay, 7421)
	a, repo := newTestAdapter(t, mock, syncAll)
	user := uuid.New()

	a.RequestAuthorization(func() { a.SyncSteps(user, testDay) })
	a.Wait()

	e, _ := repo.GetOrCreate(context.Background(), user, testDay)
	if e.Steps != 7421 {
		t.Fatalf("expected 7421 synced steps, got %d", e.Steps)
	}
}

func TestSyncStepsGates(t *testing.T) {
	user := uuid.New()

	t.Run("not authorized", func(t *testing.T) {
		mock := NewMockProvider(StateDenied)
		mock.DefaultSteps = 5000
		a, repo := newTestAdapter(t, mock, syncAll)
		a.Start()
		a.SyncSteps(user, testDay)
		a.Wait()
		e, _ := repo.GetOrCreate(context.Background(), user, testDay)
		if e.Steps != 0 {
			t.Fatalf("expected no sync when denied, got %d", e.Steps)
		}
	})

	t.Run("sync disabled", func(t *testing.T) {
		a, repo, mock := authorized(t, staticSettings{PushWeightToHealth: true})
		mock.SetSteps(testDay, 5000)
		a.SyncSteps(user, testDay)
		a.Wait()
		e, _ := repo.GetOrCreate(context.Background(), user, testDay)
		if e.Steps != 0 {
			t.Fatalf("expected no sync when disabled, got %d", e.Steps)
		}
	})

	t.Run("no data", func(t *testing.T) {
		a, repo, _ := authorized(t, syncAll)
		repo.SetSteps(context.Background(), user, testDay, 1234)
		a.SyncSteps(user, testDay)
		a.Wait()
		e, _ := repo.GetOrCreate(context.Background(), user, testDay)
		if e.Steps != 1234 {
			t.Fatalf("expected steps untouched without data, got %d", e.Steps)
		}
	})
}

func TestLateStepSyncWritesCapturedDay(t *testing.T) {
	mock := NewMockProvider(StateAuthorized)
	mock.SetSteps(testDay, 8000)
	a, repo := newTestAdapter(t, mock, syncAll)
	a.Start()
	a.Wait()

	ctx := context.Background()
	user := uuid.New()
	nextDay := testDay.AddDate(0, 0, 1)

	block := make(chan struct{})
	mock.Block = block
	a.SyncSteps(user, testDay)

	// The user keeps editing while the fetch is outstanding.
	repo.SetSteps(ctx, user, testDay, 100)
	repo.SetSteps(ctx, user, nextDay, 200)

	close(block)
	a.Wait()

	e, _ := repo.GetOrCreate(ctx, user, testDay)
	if e.Steps != 8000 {
		t.Fatalf("expected the late result to win on its own day, got %d", e.Steps)
	}
	other, _ := repo.GetOrCreate(ctx, user, nextDay)
	if other.Steps != 200 {
		t.Fatalf("expected the other day untouched, got %d", other.Steps)
	}
}

func TestPushWeight(t *testing.T) {
	ctx := context.Background()
	w := 196.2

	t.Run("authorized", func(t *testing.T) {
		a, repo, mock := authorized(t, syncAll)
		user := uuid.New()
		if _, err := a.PushWeight(ctx, user, testDay, &w); err != nil {
			t.Fatalf("push weight: %v", err)
		}
		a.Wait()
		saved := mock.Saved()
		if len(saved) != 1 || saved[0].Pounds != 196.2 || !saved[0].Day.Equal(testDay) {
			t.Fatalf("unexpected saved weights: %+v", saved)
		}
		e, _ := repo.GetOrCreate(ctx, user, testDay)
		if e.Weight == nil || *e.Weight != 196.2 {
			t.Fatal("expected weight stored locally")
		}
	})

	t.Run("denied still stores locally", func(t *testing.T) {
		mock := NewMockProvider(StateDenied)
		a, repo := newTestAdapter(t, mock, syncAll)
		a.Start()
		user := uuid.New()
		if _, err := a.PushWeight(ctx, user, testDay, &w); err != nil {
			t.Fatalf("push weight: %v", err)
		}
		a.Wait()
		if len(mock.Saved()) != 0 {
			t.Fatal("expected nothing pushed when denied")
		}
		e, _ := repo.GetOrCreate(ctx, user, testDay)
		if e.Weight == nil || *e.Weight != 196.2 {
			t.Fatal("expected weight stored locally")
		}
	})

	t.Run("push disabled", func(t *testing.T) {
		a, _, mock := authorized(t, staticSettings{SyncStepsFromHealth: true})
		a.PushWeight(ctx, uuid.New(), testDay, &w)
		a.Wait()
		if len(mock.Saved()) != 0 {
			t.Fatal("expected nothing pushed when disabled")
		}
	})

	t.Run("push failure is not an error", func(t *testing.T) {
		a, _, mock := authorized(t, syncAll)
		mock.SaveFails = true
		if _, err := a.PushWeight(ctx, uuid.New(), testDay, &w); err != nil {
			t.Fatalf("expected no error on failed push, got %v", err)
		}
		a.Wait()
	})

	t.Run("malformed weight", func(t *testing.T) {
		a, _, mock := authorized(t, syncAll)
		bad := -5.0
		if _, err := a.PushWeight(ctx, uuid.New(), testDay, &bad); err != entries.ErrInvalidWeight {
			t.Fatalf("expected ErrInvalidWeight, got %v", err)
		}
		a.Wait()
		if len(mock.Saved()) != 0 {
			t.Fatal("expected nothing pushed for rejected input")
		}
	})
}

func TestSubscribeSeesTransitions(t *testing.T) {
	a, _ := newTestAdapter(t, NewMockProvider(StateNotDetermined), syncAll)

	var mu sync.Mutex
	var seen []State
	a.Subscribe(func(s State) {
		mu.Lock()
		seen = append(seen, s)
		mu.Unlock()
	})

	a.Start()
	a.Wait()
	a.RequestAuthorization(nil)
	a.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 2 || seen[0] != StateNotDetermined || seen[1] != StateAuthorized {
		t.Fatalf("unexpected transitions: %v", seen)
	}
}

func TestNewProvider(t *testing.T) {
	if _, ok := NewProvider(config.HealthConfig{Mode: config.HealthModeNone}).(Unavailable); !ok {
		t.Fatal("expected Unavailable for mode none")
	}

	p := NewProvider(config.HealthConfig{Mode: config.HealthModeMock, MockState: "authorized", MockSteps: 3000})
	mock, ok := p.(*MockProvider)
	if !ok {
		t.Fatalf("expected *MockProvider, got %T", p)
	}
	steps, ok := mock.FetchSteps(context.Background(), testDay)
	if !ok || steps != 3000 {
		t.Fatalf("expected default mock steps, got %d %v", steps, ok)
	}
}
