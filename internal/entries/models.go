package entries

import (
	"bytes"
	"math"
	"sort"
	"time"

	"github.com/fdg312/weight-tracker/internal/calendar"
	"github.com/fdg312/weight-tracker/internal/storage"
	"github.com/google/uuid"
)

// DayEntry — всё, что записано за один день одним пользователем
type DayEntry struct {
	ID               uuid.UUID
	Date             time.Time // local midnight
	UserID           uuid.UUID
	Weight           *float64
	DidWorkout       bool
	MealsLogged      bool
	Steps            int
	StepGoal         int
	CompletedMealIDs map[uuid.UUID]struct{}
	WaterOunces      float64
	Notes            *string
}

// StepGoalHit is derived, never stored.
func (e DayEntry) StepGoalHit() bool {
	return e.Steps >= e.StepGoal
}

// Completed reports whether the meal template is marked done.
func (e DayEntry) Completed(templateID uuid.UUID) bool {
	_, ok := e.CompletedMealIDs[templateID]
	return ok
}

// SetCompleted adds or removes a template id.
func (e *DayEntry) SetCompleted(templateID uuid.UUID, completed bool) {
	if completed {
		if e.CompletedMealIDs == nil {
			e.CompletedMealIDs = make(map[uuid.UUID]struct{})
		}
		e.CompletedMealIDs[templateID] = struct{}{}
		return
	}
	delete(e.CompletedMealIDs, templateID)
}

// CompletedIDs returns the completed template ids in a stable order.
func (e DayEntry) CompletedIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(e.CompletedMealIDs))
	for id := range e.CompletedMealIDs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return bytes.Compare(ids[i][:], ids[j][:]) < 0 })
	return ids
}

// Clone returns a deep copy.
func (e DayEntry) Clone() DayEntry {
	out := e
	if e.Weight != nil {
		w := *e.Weight
		out.Weight = &w
	}
	if e.Notes != nil {
		n := *e.Notes
		out.Notes = &n
	}
	out.CompletedMealIDs = make(map[uuid.UUID]struct{}, len(e.CompletedMealIDs))
	for id := range e.CompletedMealIDs {
		out.CompletedMealIDs[id] = struct{}{}
	}
	return out
}

// Change is published after every successful write.
type Change struct {
	Entry DayEntry
}

func fromStorage(row storage.DayEntry) DayEntry {
	e := DayEntry{
		ID:               row.ID,
		Date:             row.Day,
		UserID:           row.UserID,
		Weight:           row.Weight,
		DidWorkout:       row.DidWorkout,
		MealsLogged:      row.MealsLogged,
		Steps:            row.Steps,
		StepGoal:         row.StepGoal,
		CompletedMealIDs: make(map[uuid.UUID]struct{}, len(row.CompletedMealIDs)),
		WaterOunces:      row.WaterOunces,
		Notes:            row.Notes,
	}
	for _, id := range row.CompletedMealIDs {
		e.CompletedMealIDs[id] = struct{}{}
	}
	return e.Clone()
}

func toStorage(e DayEntry) storage.DayEntry {
	row := storage.DayEntry{
		ID:               e.ID,
		UserID:           e.UserID,
		Day:              e.Date,
		Weight:           e.Weight,
		DidWorkout:       e.DidWorkout,
		MealsLogged:      e.MealsLogged,
		Steps:            e.Steps,
		StepGoal:         e.StepGoal,
		CompletedMealIDs: e.CompletedIDs(),
		WaterOunces:      e.WaterOunces,
		Notes:            e.Notes,
	}
	return row.Clone()
}

// EntryDTO — представление записи в API
type EntryDTO struct {
	ID               uuid.UUID   `json:"id"`
	Date             string      `json:"date"`
	UserID           uuid.UUID   `json:"user_id"`
	Weight           *float64    `json:"weight"`
	DidWorkout       bool        `json:"did_workout"`
	MealsLogged      bool        `json:"meals_logged"`
	Steps            int         `json:"steps"`
	StepGoal         int         `json:"step_goal"`
	StepGoalHit      bool        `json:"step_goal_hit"`
	CompletedMealIDs []uuid.UUID `json:"completed_meal_ids"`
	WaterOunces      float64     `json:"water_ounces"`
	Notes            *string     `json:"notes"`
}

func ToDTO(e DayEntry) EntryDTO {
	return EntryDTO{
		ID:               e.ID,
		Date:             calendar.Format(e.Date),
		UserID:           e.UserID,
		Weight:           e.Weight,
		DidWorkout:       e.DidWorkout,
		MealsLogged:      e.MealsLogged,
		Steps:            e.Steps,
		StepGoal:         e.StepGoal,
		StepGoalHit:      e.StepGoalHit(),
		CompletedMealIDs: e.CompletedIDs(),
		WaterOunces:      e.WaterOunces,
		Notes:            e.Notes,
	}
}

func validWeight(w float64) bool {
	return w >= 0 && !math.IsNaN(w) && !math.IsInf(w, 0)
}
