package mealplan

import (
	"github.com/fdg312/weight-tracker/internal/catalog"
	"github.com/fdg312/weight-tracker/internal/entries"
)

// DayPlan is one day of the weekly plan view.
type DayPlan struct {
	Day      catalog.Weekday        `json:"day"`
	FullName string                 `json:"full_name"`
	Meals    []catalog.MealTemplate `json:"meals"`
	Workout  catalog.WorkoutPlan    `json:"workout"`
}

type PlanResponse struct {
	ShowKidVariants bool      `json:"show_kid_variants"`
	Days            []DayPlan `json:"days"`
}

// TodayMeal is a template with the day's completion state.
type TodayMeal struct {
	catalog.MealTemplate
	Completed bool `json:"completed"`
	HasRecipe bool `json:"has_recipe"`
}

// TodayView — ответ для GET /v1/meals/today
type TodayView struct {
	Date        string              `json:"date"`
	Weekday     catalog.Weekday     `json:"weekday"`
	Meals       []TodayMeal         `json:"meals"`
	MealsLogged bool                `json:"meals_logged"`
	Workout     catalog.WorkoutPlan `json:"workout"`
}

// RecipeResponse carries a null recipe when none is linked.
type RecipeResponse struct {
	Template         catalog.MealTemplate `json:"template"`
	Recipe           *catalog.Recipe      `json:"recipe"`
	DetailsAvailable bool                 `json:"details_available"`
}

// ToggleResponse — ответ для PUT/DELETE .../meals/{template_id}
type ToggleResponse struct {
	Entry entries.EntryDTO `json:"entry"`
}
