package rollup

import (
	"context"
	"time"

	"github.com/fdg312/weight-tracker/internal/calendar"
	"github.com/fdg312/weight-tracker/internal/entries"
	"github.com/fdg312/weight-tracker/internal/profiles"
	"github.com/fdg312/weight-tracker/internal/settings"
	"github.com/google/uuid"
)

type Service struct {
	repo     *entries.Repository
	profiles *profiles.Service
	settings *settings.Service
}

func NewService(repo *entries.Repository, profileService *profiles.Service, settingsService *settings.Service) *Service {
	return &Service{
		repo:     repo,
		profiles: profileService,
		settings: settingsService,
	}
}

// Week returns the seven days ending at end for one user.
func (s *Service) Week(ctx context.Context, userID uuid.UUID, end time.Time) (WeekView, error) {
	p, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return WeekView{}, err
	}
	return s.week(ctx, *p, end)
}

func (s *Service) week(ctx context.Context, p profiles.Profile, end time.Time) (WeekView, error) {
	days, err := s.repo.EntriesForLastWeek(ctx, p.ID, end)
	if err != nil {
		return WeekView{}, err
	}

	view := WeekView{
		UserID: p.ID,
		Name:   p.Name,
		End:    calendar.Format(days[len(days)-1].Date),
		Days:   Summarize(p, days),
		Rollup: Compute(days),
	}
	if latest, ok := latestWeighed(days); ok {
		view.WeightFromStart = WeightFromStart(p, latest)
	}
	return view, nil
}

// Household returns the viewer's week, plus everyone else's when shared
// roll-ups are enabled.
func (s *Service) Household(ctx context.Context, viewerID uuid.UUID, end time.Time) (HouseholdView, error) {
	viewer, err := s.Week(ctx, viewerID, end)
	if err != nil {
		return HouseholdView{}, err
	}

	out := HouseholdView{Viewer: viewer, Others: []WeekView{}}
	if !s.settings.Current(ctx).SharedRollupsEnabled {
		return out, nil
	}
	out.Shared = true

	all, err := s.profiles.ListProfiles(ctx)
	if err != nil {
		return HouseholdView{}, err
	}
	for _, p := range all {
		if p.ID == viewerID {
			continue
		}
		w, err := s.week(ctx, p, end)
		if err != nil {
			return HouseholdView{}, err
		}
		out.Others = append(out.Others, w)
	}
	return out, nil
}
