package mealplan

import (
	"testing"
	"time"

	"github.com/fdg312/weight-tracker/internal/catalog"
	"github.com/fdg312/weight-tracker/internal/entries"
	"github.com/google/uuid"
)

var (
	monday    = time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
	wednesday = time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)
	sunday    = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
)

func TestTemplatesFor(t *testing.T) {
	s := NewSelector(catalog.MustLoad())

	mon := s.TemplatesFor(catalog.Mon, false)
	if len(mon) != 3 {
		t.Fatalf("expected 3 Monday templates, got %d", len(mon))
	}
	if mon[0].MealType != catalog.Breakfast || mon[1].MealType != catalog.Lunch || mon[2].MealType != catalog.Dinner {
		t.Fatalf("expected plan order, got %v %v %v", mon[0].MealType, mon[1].MealType, mon[2].MealType)
	}

	if got := len(s.TemplatesFor(catalog.Wed, false)); got != 2 {
		t.Fatalf("expected kid variant hidden on Wednesday, got %d", got)
	}
	if got := len(s.TemplatesFor(catalog.Wed, true)); got != 3 {
		t.Fatalf("expected kid variant shown on Wednesday, got %d", got)
	}
	if got := len(s.TemplatesFor(catalog.Sun, false)); got != 0 {
		t.Fatalf("expected no adult Sunday templates, got %d", got)
	}
}

func TestToggleMealCompletion(t *testing.T) {
	s := NewSelector(catalog.MustLoad())
	mon := s.TemplatesFor(catalog.Mon, false)
	e := entries.DayEntry{Date: monday}

	s.ToggleMealCompletion(&e, mon[0].ID, true, false)
	s.ToggleMealCompletion(&e, mon[1].ID, true, false)
	if e.MealsLogged {
		t.Fatal("expected meals not logged with one meal left")
	}

	s.ToggleMealCompletion(&e, mon[2].ID, true, false)
	if !e.MealsLogged {
		t.Fatal("expected meals logged once every meal is done")
	}

	s.ToggleMealCompletion(&e, mon[1].ID, false, false)
	if e.MealsLogged || e.Completed(mon[1].ID) {
		t.Fatal("expected un-completing a meal to clear the flag")
	}
}

func TestToggleRespectsKidVariants(t *testing.T) {
	s := NewSelector(catalog.MustLoad())
	all := s.TemplatesFor(catalog.Wed, true)
	e := entries.DayEntry{Date: wednesday}

	for _, tpl := range all {
		if !tpl.IsKidVariant {
			s.ToggleMealCompletion(&e, tpl.ID, true, false)
		}
	}
	if !e.MealsLogged {
		t.Fatal("expected adult meals to be enough with kid variants hidden")
	}

	e = entries.DayEntry{Date: wednesday}
	for _, tpl := range all {
		if !tpl.IsKidVariant {
			s.ToggleMealCompletion(&e, tpl.ID, true, true)
		}
	}
	if e.MealsLogged {
		t.Fatal("expected kid dinner to be required when kid variants are shown")
	}
}

func TestToggleOnEmptyDayNeverLogs(t *testing.T) {
	s := NewSelector(catalog.MustLoad())
	e := entries.DayEntry{Date: sunday, MealsLogged: true}

	s.ToggleMealCompletion(&e, uuid.New(), true, false)
	if e.MealsLogged {
		t.Fatal("expected a day without templates to never count as logged")
	}
}

func TestRecipeFor(t *testing.T) {
	c := catalog.MustLoad()
	s := NewSelector(c)

	linked := catalog.SeedID("template", "mon-dinner")
	r := s.RecipeFor(linked)
	if r == nil || r.Title != "Sheet-Pan Chicken Tacos" {
		t.Fatalf("expected taco recipe, got %+v", r)
	}

	if s.RecipeFor(catalog.SeedID("template", "tue-dinner")) != nil {
		t.Fatal("expected nil for a template without a recipe")
	}
	if s.RecipeFor(uuid.New()) != nil {
		t.Fatal("expected nil for an unknown template")
	}
}

func TestWeekPlan(t *testing.T) {
	s := NewSelector(catalog.MustLoad())

	plan := s.WeekPlan(false)
	if len(plan) != 7 || plan[0].Day != catalog.Mon || plan[6].Day != catalog.Sun {
		t.Fatalf("unexpected plan days: %+v", plan)
	}
	if plan[6].Meals == nil || len(plan[6].Meals) != 0 {
		t.Fatalf("expected an empty, non-nil Sunday list, got %v", plan[6].Meals)
	}
	if plan[0].FullName != "Monday" || plan[0].Workout.Title == "" {
		t.Fatalf("unexpected Monday plan: %+v", plan[0])
	}

	total := 0
	for _, d := range s.WeekPlan(true) {
		total += len(d.Meals)
	}
	if total != 21 {
		t.Fatalf("expected 21 templates with kid variants, got %d", total)
	}
}
