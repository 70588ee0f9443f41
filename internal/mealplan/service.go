package mealplan

import (
	"context"
	"errors"
	"time"

	"github.com/fdg312/weight-tracker/internal/calendar"
	"github.com/fdg312/weight-tracker/internal/catalog"
	"github.com/fdg312/weight-tracker/internal/entries"
	"github.com/fdg312/weight-tracker/internal/settings"
	"github.com/google/uuid"
)

var (
	ErrTemplateNotFound  = catalog.ErrTemplateNotFound
	ErrTemplateNotForDay = errors.New("meal template belongs to another weekday")
)

type Service struct {
	selector *Selector
	repo     *entries.Repository
	settings *settings.Service
}

func NewService(selector *Selector, repo *entries.Repository, settingsService *settings.Service) *Service {
	return &Service{
		selector: selector,
		repo:     repo,
		settings: settingsService,
	}
}

func (s *Service) Selector() *Selector { return s.selector }

func (s *Service) showKids(ctx context.Context) bool {
	return s.settings.Current(ctx).ShowKidVariants
}

// Toggle marks a template completed or not for the user's day and
// recomputes MealsLogged inside the same update.
func (s *Service) Toggle(ctx context.Context, userID uuid.UUID, date time.Time, templateID uuid.UUID, completed bool) (entries.DayEntry, error) {
	t, ok := s.selector.Template(templateID)
	if !ok {
		return entries.DayEntry{}, ErrTemplateNotFound
	}
	day := calendar.StartOfDay(date, s.repo.Location())
	if t.DayOfWeek != catalog.WeekdayOf(day) {
		return entries.DayEntry{}, ErrTemplateNotForDay
	}

	showKids := s.showKids(ctx)
	return s.repo.Update(ctx, userID, day, func(e *entries.DayEntry) {
		s.selector.ToggleMealCompletion(e, templateID, completed, showKids)
	})
}

// Today lists the day's visible templates with their completion state.
func (s *Service) Today(ctx context.Context, userID uuid.UUID, date time.Time) (TodayView, error) {
	entry, err := s.repo.GetOrCreate(ctx, userID, date)
	if err != nil {
		return TodayView{}, err
	}

	weekday := catalog.WeekdayOf(entry.Date)
	templates := s.selector.TemplatesFor(weekday, s.showKids(ctx))
	meals := make([]TodayMeal, 0, len(templates))
	for _, t := range templates {
		meals = append(meals, TodayMeal{
			MealTemplate: t,
			Completed:    entry.Completed(t.ID),
			HasRecipe:    s.selector.RecipeFor(t.ID) != nil,
		})
	}

	return TodayView{
		Date:        calendar.Format(entry.Date),
		Weekday:     weekday,
		Meals:       meals,
		MealsLogged: entry.MealsLogged,
		Workout:     s.selector.WorkoutFor(weekday),
	}, nil
}

// Plan returns the week grouped by day. A nil showKids uses the stored setting.
func (s *Service) Plan(ctx context.Context, showKids *bool) PlanResponse {
	kids := s.showKids(ctx)
	if showKids != nil {
		kids = *showKids
	}
	return PlanResponse{ShowKidVariants: kids, Days: s.selector.WeekPlan(kids)}
}

// Recipe returns the template with its recipe, if any.
func (s *Service) Recipe(templateID uuid.UUID) (RecipeResponse, error) {
	t, ok := s.selector.Template(templateID)
	if !ok {
		return RecipeResponse{}, ErrTemplateNotFound
	}
	r := s.selector.RecipeFor(templateID)
	return RecipeResponse{Template: t, Recipe: r, DetailsAvailable: r != nil}, nil
}
