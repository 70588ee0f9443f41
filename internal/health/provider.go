// Package health bridges the tracker to an external health-data platform:
// it pulls step counts and pushes weights, degrading to no-ops when the
// platform is missing or access is refused.
package health

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/fdg312/weight-tracker/internal/config"
)

// State is the authorization state as seen by the tracker.
type State string

const (
	StateUnknown       State = "unknown"
	StateUnavailable   State = "unavailable"
	StateNotDetermined State = "notDetermined"
	StateAuthorized    State = "authorized"
	StateDenied        State = "denied"
)

// ParseState accepts the wire names; anything else is StateUnknown.
func ParseState(s string) State {
	switch State(strings.TrimSpace(s)) {
	case StateUnavailable:
		return StateUnavailable
	case StateNotDetermined:
		return StateNotDetermined
	case StateAuthorized:
		return StateAuthorized
	case StateDenied:
		return StateDenied
	default:
		return StateUnknown
	}
}

// Provider is the platform client. Calls block; the Adapter runs them off
// the caller's goroutine.
type Provider interface {
	// QueryAuthorization reports the current state without prompting.
	QueryAuthorization(ctx context.Context) State
	// RequestAuthorization asks for read steps / write weight access.
	RequestAuthorization(ctx context.Context) State
	// FetchSteps returns the step total for the calendar day, ok=false when
	// there is no data or the query failed.
	FetchSteps(ctx context.Context, day time.Time) (steps int, ok bool)
	// SaveWeight writes one weight sample in pounds dated at day.
	SaveWeight(ctx context.Context, pounds float64, day time.Time) bool
}

// Unavailable is the provider for hosts without a health platform.
type Unavailable struct{}

func (Unavailable) QueryAuthorization(ctx context.Context) State   { return StateUnavailable }
func (Unavailable) RequestAuthorization(ctx context.Context) State { return StateUnavailable }
func (Unavailable) FetchSteps(ctx context.Context, day time.Time) (int, bool) {
	return 0, false
}
func (Unavailable) SaveWeight(ctx context.Context, pounds float64, day time.Time) bool {
	return false
}

// NewProvider builds the provider selected by HEALTH_PROVIDER_MODE.
func NewProvider(cfg config.HealthConfig) Provider {
	switch cfg.Mode {
	case config.HealthModeMock:
		log.Printf("health: using mock provider (state=%s, steps=%d)", cfg.MockState, cfg.MockSteps)
		m := NewMockProvider(ParseState(cfg.MockState))
		m.DefaultSteps = cfg.MockSteps
		return m
	default:
		log.Println("health: no provider configured, sync disabled")
		return Unavailable{}
	}
}
