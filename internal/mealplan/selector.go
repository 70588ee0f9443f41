// Package mealplan answers which meals belong to a day and keeps an entry's
// meal completion in step with the plan.
package mealplan

import (
	"github.com/fdg312/weight-tracker/internal/catalog"
	"github.com/fdg312/weight-tracker/internal/entries"
	"github.com/google/uuid"
)

// Selector is a read-only view over the catalog.
type Selector struct {
	catalog *catalog.Catalog
}

func NewSelector(c *catalog.Catalog) *Selector {
	return &Selector{catalog: c}
}

// TemplatesFor returns the day's templates in plan order. Kid variants are
// dropped unless showKidVariants is set.
func (s *Selector) TemplatesFor(day catalog.Weekday, showKidVariants bool) []catalog.MealTemplate {
	var out []catalog.MealTemplate
	for _, t := range s.catalog.Templates() {
		if t.DayOfWeek != day {
			continue
		}
		if t.IsKidVariant && !showKidVariants {
			continue
		}
		out = append(out, t)
	}
	return out
}

// ToggleMealCompletion marks a template done or not done on e, then sets
// MealsLogged to whether every visible template of e's weekday is done.
// A weekday without templates never counts as logged.
func (s *Selector) ToggleMealCompletion(e *entries.DayEntry, templateID uuid.UUID, completed, showKidVariants bool) {
	e.SetCompleted(templateID, completed)

	templates := s.TemplatesFor(catalog.WeekdayOf(e.Date), showKidVariants)
	if len(templates) == 0 {
		e.MealsLogged = false
		return
	}
	for _, t := range templates {
		if !e.Completed(t.ID) {
			e.MealsLogged = false
			return
		}
	}
	e.MealsLogged = true
}

// RecipeFor returns the linked recipe, or nil when the template is unknown,
// has no link, or links a missing recipe.
func (s *Selector) RecipeFor(templateID uuid.UUID) *catalog.Recipe {
	t, ok := s.catalog.Template(templateID)
	if !ok || t.RecipeID == nil {
		return nil
	}
	r, ok := s.catalog.Recipe(*t.RecipeID)
	if !ok {
		return nil
	}
	return &r
}

// Template looks up a template by id.
func (s *Selector) Template(id uuid.UUID) (catalog.MealTemplate, bool) {
	return s.catalog.Template(id)
}

// WeekPlan groups the plan Mon..Sun with each day's workout suggestion.
func (s *Selector) WeekPlan(showKidVariants bool) []DayPlan {
	out := make([]DayPlan, 0, len(catalog.Weekdays))
	for _, day := range catalog.Weekdays {
		meals := s.TemplatesFor(day, showKidVariants)
		if meals == nil {
			meals = []catalog.MealTemplate{}
		}
		out = append(out, DayPlan{
			Day:      day,
			FullName: day.FullName(),
			Meals:    meals,
			Workout:  s.catalog.WorkoutFor(day),
		})
	}
	return out
}

// WorkoutFor returns the day's suggested session.
func (s *Selector) WorkoutFor(day catalog.Weekday) catalog.WorkoutPlan {
	return s.catalog.WorkoutFor(day)
}
