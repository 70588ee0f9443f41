// Package rollup derives weekly summaries from day entries.
package rollup

import (
	"github.com/fdg312/weight-tracker/internal/calendar"
	"github.com/fdg312/weight-tracker/internal/catalog"
	"github.com/fdg312/weight-tracker/internal/entries"
	"github.com/fdg312/weight-tracker/internal/profiles"
)

// Compute aggregates entries in the order given. Weight change is the last
// recorded weight minus the first; days without a weight are skipped.
func Compute(days []entries.DayEntry) WeekRollup {
	var r WeekRollup
	if len(days) == 0 {
		return r
	}

	var water float64
	var first, last *float64
	for _, e := range days {
		if e.DidWorkout {
			r.Workouts++
		}
		if e.MealsLogged {
			r.MealsLogged++
		}
		water += e.WaterOunces
		if e.Weight != nil {
			if first == nil {
				first = e.Weight
			}
			last = e.Weight
		}
	}

	r.AverageWater = water / float64(len(days))
	if first != nil {
		change := *last - *first
		r.WeightChange = &change
	}
	return r
}

// Summarize builds the per-day rows against a profile's water target.
func Summarize(p profiles.Profile, days []entries.DayEntry) []DaySummary {
	out := make([]DaySummary, len(days))
	for i, e := range days {
		out[i] = DaySummary{
			Date:         calendar.Format(e.Date),
			Weekday:      string(catalog.WeekdayOf(e.Date)),
			DidWorkout:   e.DidWorkout,
			MealsLogged:  e.MealsLogged,
			Steps:        e.Steps,
			StepGoalHit:  e.StepGoalHit(),
			WaterOunces:  e.WaterOunces,
			WaterGoalHit: e.WaterOunces >= float64(p.TargetWaterOz),
			Weight:       e.Weight,
		}
	}
	return out
}

// WeightFromStart is the entry's weight minus the profile's starting weight,
// or nil when the entry has no weight.
func WeightFromStart(p profiles.Profile, e entries.DayEntry) *float64 {
	if e.Weight == nil {
		return nil
	}
	d := *e.Weight - p.StartingWeight
	return &d
}

// latestWeighed returns the most recent entry carrying a weight.
func latestWeighed(days []entries.DayEntry) (entries.DayEntry, bool) {
	for i := len(days) - 1; i >= 0; i-- {
		if days[i].Weight != nil {
			return days[i], true
		}
	}
	return entries.DayEntry{}, false
}
