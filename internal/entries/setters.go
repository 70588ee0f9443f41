package entries

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidWeight = errors.New("weight must be a non-negative number")
	ErrInvalidValue  = errors.New("value must not be negative")
)

// Patch is a set of field edits applied in one Update. nil fields are left alone.
type Patch struct {
	Weight        *float64 `json:"weight,omitempty"`
	WeightText    *string  `json:"weight_text,omitempty"`
	ClearWeight   bool     `json:"clear_weight,omitempty"`
	DidWorkout    *bool    `json:"did_workout,omitempty"`
	MealsLogged   *bool    `json:"meals_logged,omitempty"`
	StepGoalHit   *bool    `json:"step_goal_hit,omitempty"`
	WaterServings *int     `json:"water_servings,omitempty"`
	WaterOunces   *float64 `json:"water_ounces,omitempty"`
	Steps         *int     `json:"steps,omitempty"`
	StepGoal      *int     `json:"step_goal,omitempty"`
	Notes         *string  `json:"notes,omitempty"`
}

// resolveWeight turns WeightText into Weight. Blank text clears the weight.
func (p *Patch) resolveWeight() error {
	if p.WeightText != nil {
		text := strings.TrimSpace(*p.WeightText)
		if text == "" {
			p.ClearWeight = true
			p.WeightText = nil
			return nil
		}
		w, err := strconv.ParseFloat(text, 64)
		if err != nil || !validWeight(w) {
			return ErrInvalidWeight
		}
		p.Weight = &w
		p.WeightText = nil
	}
	if p.Weight != nil && !validWeight(*p.Weight) {
		return ErrInvalidWeight
	}
	return nil
}

// Validate rejects the whole patch if any field is malformed.
func (p *Patch) Validate() error {
	if err := p.resolveWeight(); err != nil {
		return err
	}
	for _, v := range []*int{p.WaterServings, p.Steps, p.StepGoal} {
		if v != nil && *v < 0 {
			return ErrInvalidValue
		}
	}
	if p.WaterOunces != nil && *p.WaterOunces < 0 {
		return ErrInvalidValue
	}
	return nil
}

func (p Patch) apply(e *DayEntry, servingOz int) {
	switch {
	case p.ClearWeight:
		e.Weight = nil
	case p.Weight != nil:
		w := *p.Weight
		e.Weight = &w
	}
	if p.DidWorkout != nil {
		e.DidWorkout = *p.DidWorkout
	}
	if p.MealsLogged != nil {
		e.MealsLogged = *p.MealsLogged
	}
	if p.StepGoal != nil {
		e.StepGoal = *p.StepGoal
	}
	if p.Steps != nil {
		e.Steps = *p.Steps
	}
	if p.StepGoalHit != nil {
		applyStepGoalHit(e, *p.StepGoalHit)
	}
	if p.WaterServings != nil {
		e.WaterOunces = float64(*p.WaterServings * servingOz)
	}
	if p.WaterOunces != nil {
		e.WaterOunces = *p.WaterOunces
	}
	if p.Notes != nil {
		if strings.TrimSpace(*p.Notes) == "" {
			e.Notes = nil
		} else {
			n := *p.Notes
			e.Notes = &n
		}
	}
}

// applyStepGoalHit mirrors the manual toggle: turning it on raises steps to
// the goal, turning it off zeroes steps that were counting as a hit.
func applyStepGoalHit(e *DayEntry, hit bool) {
	if hit {
		if e.Steps < e.StepGoal {
			e.Steps = e.StepGoal
		}
		return
	}
	if e.StepGoalHit() {
		e.Steps = 0
	}
}

// Apply validates p and applies it in a single Update. On a validation error
// the entry is not touched.
func (r *Repository) Apply(ctx context.Context, userID uuid.UUID, date time.Time, p Patch) (DayEntry, error) {
	if err := p.Validate(); err != nil {
		return DayEntry{}, err
	}
	return r.Update(ctx, userID, date, func(e *DayEntry) {
		p.apply(e, r.servingOz)
	})
}

// SetWeight records a weight in pounds; nil clears it.
func (r *Repository) SetWeight(ctx context.Context, userID uuid.UUID, date time.Time, weight *float64) (DayEntry, error) {
	if weight == nil {
		return r.Apply(ctx, userID, date, Patch{ClearWeight: true})
	}
	return r.Apply(ctx, userID, date, Patch{Weight: weight})
}

// ParseWeight records typed weight text. Malformed text returns
// ErrInvalidWeight and keeps the previous value.
func (r *Repository) ParseWeight(ctx context.Context, userID uuid.UUID, date time.Time, text string) (DayEntry, error) {
	return r.Apply(ctx, userID, date, Patch{WeightText: &text})
}

func (r *Repository) SetWorkout(ctx context.Context, userID uuid.UUID, date time.Time, done bool) (DayEntry, error) {
	return r.Apply(ctx, userID, date, Patch{DidWorkout: &done})
}

// SetMealsLogged overrides the meals flag without touching completed ids.
func (r *Repository) SetMealsLogged(ctx context.Context, userID uuid.UUID, date time.Time, logged bool) (DayEntry, error) {
	return r.Apply(ctx, userID, date, Patch{MealsLogged: &logged})
}

func (r *Repository) SetStepGoalHit(ctx context.Context, userID uuid.UUID, date time.Time, hit bool) (DayEntry, error) {
	return r.Apply(ctx, userID, date, Patch{StepGoalHit: &hit})
}

// SetWaterServings sets water to n servings of the configured size.
func (r *Repository) SetWaterServings(ctx context.Context, userID uuid.UUID, date time.Time, n int) (DayEntry, error) {
	return r.Apply(ctx, userID, date, Patch{WaterServings: &n})
}

func (r *Repository) SetWaterOunces(ctx context.Context, userID uuid.UUID, date time.Time, oz float64) (DayEntry, error) {
	return r.Apply(ctx, userID, date, Patch{WaterOunces: &oz})
}

func (r *Repository) SetSteps(ctx context.Context, userID uuid.UUID, date time.Time, steps int) (DayEntry, error) {
	return r.Apply(ctx, userID, date, Patch{Steps: &steps})
}

func (r *Repository) SetStepGoal(ctx context.Context, userID uuid.UUID, date time.Time, goal int) (DayEntry, error) {
	return r.Apply(ctx, userID, date, Patch{StepGoal: &goal})
}

// SetNotes stores free text; blank text clears the notes.
func (r *Repository) SetNotes(ctx context.Context, userID uuid.UUID, date time.Time, notes string) (DayEntry, error) {
	return r.Apply(ctx, userID, date, Patch{Notes: &notes})
}

// ServingOz is the size of one water serving.
func (r *Repository) ServingOz() int { return r.servingOz }
