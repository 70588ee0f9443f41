package profiles

import (
	"math"

	"github.com/fdg312/weight-tracker/internal/storage"
	"github.com/google/uuid"
)

// Profile — член семьи, для которого ведётся дневник
type Profile struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	TargetCalories int       `json:"target_calories"`
	TargetWaterOz  int       `json:"target_water_oz"`
	TargetWeight   float64   `json:"target_weight"`
	StartingWeight float64   `json:"starting_weight"`
	IsPrimary      bool      `json:"is_primary"`

	// SuggestedWaterOz is derived from StartingWeight, never stored.
	SuggestedWaterOz int `json:"suggested_water_oz"`
}

// ProfilesResponse — ответ для GET /v1/profiles
type ProfilesResponse struct {
	Profiles []Profile `json:"profiles"`
}

// UpdateProfileRequest — запрос для PATCH /v1/profiles/{id}. nil keeps the field.
type UpdateProfileRequest struct {
	Name           *string  `json:"name,omitempty"`
	TargetCalories *int     `json:"target_calories,omitempty"`
	TargetWaterOz  *int     `json:"target_water_oz,omitempty"`
	TargetWeight   *float64 `json:"target_weight,omitempty"`
	StartingWeight *float64 `json:"starting_weight,omitempty"`
}

// ErrorResponse — формат ошибки
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SuggestedWaterOz is half the body weight in ounces, rounded.
func SuggestedWaterOz(weight float64) int {
	return int(math.Round(weight * 0.5))
}

func profileFromStorage(p storage.Profile) Profile {
	return Profile{
		ID:               p.ID,
		Name:             p.Name,
		TargetCalories:   p.TargetCalories,
		TargetWaterOz:    p.TargetWaterOz,
		TargetWeight:     p.TargetWeight,
		StartingWeight:   p.StartingWeight,
		IsPrimary:        p.IsPrimary,
		SuggestedWaterOz: SuggestedWaterOz(p.StartingWeight),
	}
}
