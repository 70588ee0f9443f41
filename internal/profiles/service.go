package profiles

import (
	"context"
	"errors"
	"strings"

	"github.com/fdg312/weight-tracker/internal/storage"
	"github.com/google/uuid"
)

var (
	ErrEmptyName       = errors.New("name cannot be empty")
	ErrInvalidTarget   = errors.New("targets must not be negative")
	ErrProfileNotFound = errors.New("profile not found")
)

// Service содержит бизнес-логику профилей
type Service struct {
	storage storage.ProfileStorage
}

// NewService создаёт новый сервис
func NewService(st storage.ProfileStorage) *Service {
	return &Service{storage: st}
}

// ListProfiles возвращает все профили в порядке создания
func (s *Service) ListProfiles(ctx context.Context) ([]Profile, error) {
	rows, err := s.storage.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Profile, len(rows))
	for i, p := range rows {
		out[i] = profileFromStorage(p)
	}
	return out, nil
}

// GetProfile возвращает профиль по ID
func (s *Service) GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error) {
	row, err := s.storage.GetProfile(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	p := profileFromStorage(*row)
	return &p, nil
}

// Exists reports whether id names a household member.
func (s *Service) Exists(ctx context.Context, id uuid.UUID) bool {
	_, err := s.storage.GetProfile(ctx, id)
	return err == nil
}

// UpdateProfile applies a settings edit. Primary status is changed only via SetPrimary.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*Profile, error) {
	row, err := s.storage.GetProfile(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrEmptyName
		}
		row.Name = name
	}
	if req.TargetCalories != nil {
		if *req.TargetCalories < 0 {
			return nil, ErrInvalidTarget
		}
		row.TargetCalories = *req.TargetCalories
	}
	if req.TargetWaterOz != nil {
		if *req.TargetWaterOz < 0 {
			return nil, ErrInvalidTarget
		}
		row.TargetWaterOz = *req.TargetWaterOz
	}
	if req.TargetWeight != nil {
		if *req.TargetWeight < 0 {
			return nil, ErrInvalidTarget
		}
		row.TargetWeight = *req.TargetWeight
	}
	if req.StartingWeight != nil {
		if *req.StartingWeight < 0 {
			return nil, ErrInvalidTarget
		}
		row.StartingWeight = *req.StartingWeight
	}

	if err := s.storage.UpdateProfile(ctx, row); err != nil {
		return nil, err
	}
	p := profileFromStorage(*row)
	return &p, nil
}

// SetPrimary makes id the only primary profile and returns the household.
func (s *Service) SetPrimary(ctx context.Context, id uuid.UUID) ([]Profile, error) {
	if err := s.storage.SetPrimary(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return s.ListProfiles(ctx)
}

// Primary returns the primary profile, or the first one if none is flagged.
func (s *Service) Primary(ctx context.Context) (*Profile, error) {
	all, err := s.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, ErrProfileNotFound
	}
	for i := range all {
		if all[i].IsPrimary {
			return &all[i], nil
		}
	}
	return &all[0], nil
}

// Resolve finds a household member by id string or case-insensitive name.
func (s *Service) Resolve(ctx context.Context, nameOrID string) (*Profile, error) {
	nameOrID = strings.TrimSpace(nameOrID)
	if id, err := uuid.Parse(nameOrID); err == nil {
		return s.GetProfile(ctx, id)
	}

	all, err := s.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if strings.EqualFold(all[i].Name, nameOrID) {
			return &all[i], nil
		}
	}
	return nil, ErrProfileNotFound
}
