package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Weekday is the short weekday label used by the meal plan ("Mon".."Sun").
type Weekday string

const (
	Mon Weekday = "Mon"
	Tue Weekday = "Tue"
	Wed Weekday = "Wed"
	Thu Weekday = "Thu"
	Fri Weekday = "Fri"
	Sat Weekday = "Sat"
	Sun Weekday = "Sun"
)

// Weekdays lists the plan days in display order.
var Weekdays = []Weekday{Mon, Tue, Wed, Thu, Fri, Sat, Sun}

var fullNames = map[Weekday]string{
	Mon: "Monday",
	Tue: "Tuesday",
	Wed: "Wednesday",
	Thu: "Thursday",
	Fri: "Friday",
	Sat: "Saturday",
	Sun: "Sunday",
}

// WeekdayOf returns the plan day of t in its own location.
func WeekdayOf(t time.Time) Weekday {
	switch t.Weekday() {
	case time.Monday:
		return Mon
	case time.Tuesday:
		return Tue
	case time.Wednesday:
		return Wed
	case time.Thursday:
		return Thu
	case time.Friday:
		return Fri
	case time.Saturday:
		return Sat
	default:
		return Sun
	}
}

// ParseWeekday accepts short or full names, case-insensitive.
func ParseWeekday(s string) (Weekday, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	for _, d := range Weekdays {
		if norm == strings.ToLower(string(d)) || norm == strings.ToLower(fullNames[d]) {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidWeekday, s)
}

func (d Weekday) Valid() bool {
	_, ok := fullNames[d]
	return ok
}

// FullName returns "Monday" for Mon; unknown labels are returned unchanged.
func (d Weekday) FullName() string {
	if name, ok := fullNames[d]; ok {
		return name
	}
	return string(d)
}

// MealType is the slot a template fills in the day.
type MealType string

const (
	Breakfast MealType = "Breakfast"
	Lunch     MealType = "Lunch"
	Dinner    MealType = "Dinner"
)

func (m MealType) Valid() bool {
	return m == Breakfast || m == Lunch || m == Dinner
}

// MealTemplate is one planned meal of the static weekly plan.
type MealTemplate struct {
	ID            uuid.UUID  `json:"id"`
	DayOfWeek     Weekday    `json:"day_of_week"`
	MealType      MealType   `json:"meal_type"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	IsJillVariant bool       `json:"is_jill_variant"`
	IsKidVariant  bool       `json:"is_kid_variant"`
	RecipeID      *uuid.UUID `json:"recipe_id,omitempty"`
}

func (t MealTemplate) clone() MealTemplate {
	if t.RecipeID != nil {
		id := *t.RecipeID
		t.RecipeID = &id
	}
	return t
}

// Recipe is the detail behind a template. Templates reference recipes by id only.
type Recipe struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Category     string    `json:"category"`
	Ingredients  string    `json:"ingredients"`
	Instructions string    `json:"instructions"`
	Notes        string    `json:"notes"`
}

// WorkoutPlan is the suggested session for a weekday.
type WorkoutPlan struct {
	DayOfWeek Weekday `json:"day_of_week"`
	Title     string  `json:"title"`
	Detail    string  `json:"detail"`
}

// DefaultWorkout is returned for days without a planned session.
var DefaultWorkout = WorkoutPlan{
	Title:  "Movement day",
	Detail: "Stay loose with a short walk and stretching.",
}

// seedFile mirrors seed.yaml.
type seedFile struct {
	Recipes   []seedRecipe   `yaml:"recipes"`
	Templates []seedTemplate `yaml:"templates"`
	Workouts  []seedWorkout  `yaml:"workouts"`
}

type seedRecipe struct {
	Key          string `yaml:"key"`
	Title        string `yaml:"title"`
	Category     string `yaml:"category"`
	Ingredients  string `yaml:"ingredients"`
	Instructions string `yaml:"instructions"`
	Notes        string `yaml:"notes"`
}

type seedTemplate struct {
	Key         string `yaml:"key"`
	Day         string `yaml:"day"`
	Meal        string `yaml:"meal"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Jill        bool   `yaml:"jill"`
	Kid         bool   `yaml:"kid"`
	Recipe      string `yaml:"recipe"`
}

type seedWorkout struct {
	Day    string `yaml:"day"`
	Title  string `yaml:"title"`
	Detail string `yaml:"detail"`
}
