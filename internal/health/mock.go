package health

import (
	"context"
	"sync"
	"time"

	"github.com/fdg312/weight-tracker/internal/calendar"
)

// SavedWeight is one sample recorded by MockProvider.
type SavedWeight struct {
	Pounds float64
	Day    time.Time
}

// MockProvider is an in-process platform for local runs and tests.
type MockProvider struct {
	mu sync.Mutex

	state State
	// GrantOnRequest is the state RequestAuthorization moves to from
	// notDetermined. Decided states are returned unchanged.
	GrantOnRequest State
	// DefaultSteps is reported for days without explicit steps; 0 means no data.
	DefaultSteps int
	// SaveFails makes SaveWeight report failure.
	SaveFails bool
	// Block, when set, holds FetchSteps until a value is received.
	Block chan struct{}

	steps map[string]int
	saved []SavedWeight
}

func NewMockProvider(state State) *MockProvider {
	if state == StateUnknown {
		state = StateNotDetermined
	}
	return &MockProvider{
		state:          state,
		GrantOnRequest: StateAuthorized,
		steps:          make(map[string]int),
	}
}

// SetSteps sets the step total reported for a day.
func (m *MockProvider) SetSteps(day time.Time, steps int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps[calendar.Format(day)] = steps
}

// Saved returns the weights written so far.
func (m *MockProvider) Saved() []SavedWeight {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SavedWeight(nil), m.saved...)
}

func (m *MockProvider) QueryAuthorization(ctx context.Context) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *MockProvider) RequestAuthorization(ctx context.Context) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StateNotDetermined {
		m.state = m.GrantOnRequest
	}
	return m.state
}

func (m *MockProvider) FetchSteps(ctx context.Context, day time.Time) (int, bool) {
	m.mu.Lock()
	block := m.Block
	m.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return 0, false
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateAuthorized {
		return 0, false
	}
	if steps, ok := m.steps[calendar.Format(day)]; ok {
		return steps, true
	}
	if m.DefaultSteps > 0 {
		return m.DefaultSteps, true
	}
	return 0, false
}

func (m *MockProvider) SaveWeight(ctx context.Context, pounds float64, day time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateAuthorized || m.SaveFails {
		return false
	}
	m.saved = append(m.saved, SavedWeight{Pounds: pounds, Day: day})
	return true
}
