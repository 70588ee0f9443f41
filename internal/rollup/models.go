package rollup

import (
	"github.com/google/uuid"
)

// WeekRollup is derived from seven entries and never stored.
type WeekRollup struct {
	Workouts     int      `json:"workouts"`
	MealsLogged  int      `json:"meals_logged"`
	AverageWater float64  `json:"average_water"`
	WeightChange *float64 `json:"weight_change"`
}

// DaySummary is one row of the week view.
type DaySummary struct {
	Date         string   `json:"date"`
	Weekday      string   `json:"weekday"`
	DidWorkout   bool     `json:"did_workout"`
	MealsLogged  bool     `json:"meals_logged"`
	Steps        int      `json:"steps"`
	StepGoalHit  bool     `json:"step_goal_hit"`
	WaterOunces  float64  `json:"water_ounces"`
	WaterGoalHit bool     `json:"water_goal_hit"`
	Weight       *float64 `json:"weight"`
}

// WeekView — ответ для GET /v1/rollups/week
type WeekView struct {
	UserID          uuid.UUID    `json:"user_id"`
	Name            string       `json:"name"`
	End             string       `json:"end"`
	Days            []DaySummary `json:"days"`
	Rollup          WeekRollup   `json:"rollup"`
	WeightFromStart *float64     `json:"weight_from_start"`
}

// HouseholdView — ответ для GET /v1/rollups/household
type HouseholdView struct {
	Viewer WeekView   `json:"viewer"`
	Shared bool       `json:"shared"`
	Others []WeekView `json:"others"`
}
