package service

import (
	"context"

	"github.com/xgym/backoffice-api/internal/domain/entity"
	"github.com/xgym/backoffice-api/internal/domain/repository"
	"github.com/xgym/backoffice-api/pkg/apperror"
)

// SettingsService manages the gym-wide settings singleton.
type SettingsService struct {
	repo repository.SettingsRepository
}

// NewSettingsService creates the settings service.
func NewSettingsService(repo repository.SettingsRepository) *SettingsService {
	return &SettingsService{repo: repo}
}

// UpdateSettingsInput holds the editable settings fields. Pointers
// distinguish "not provided" from zero values.
type UpdateSettingsInput struct {
	PointsEnabled       *bool    `json:"points_enabled"`
	PointsPerCheckIn    *int     `json:"points_per_check_in"`
	PointsPerInvitation *int     `json:"points_per_invitation"`
	PointsValueEGP      *float64 `json:"points_value_egp"`
	PointsPerEGPSpent   *float64 `json:"points_per_egp_spent"`

	NutritionEnabled     *bool `json:"nutrition_enabled"`
	PhysiotherapyEnabled *bool `json:"physiotherapy_enabled"`
	GroupClassEnabled    *bool `json:"group_class_enabled"`
	DayUseEnabled        *bool `json:"day_use_enabled"`
}

// Get returns the current settings, creating defaults on first access.
func (s *SettingsService) Get(ctx context.Context) (*entity.SystemSettings, error) {
	return s.repo.Get(ctx)
}

// Update applies the provided fields to the singleton.
func (s *SettingsService) Update(ctx context.Context, input *UpdateSettingsInput) (*entity.SystemSettings, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}

	if input.PointsEnabled != nil {
		settings.PointsEnabled = *input.PointsEnabled
	}
	if input.PointsPerCheckIn != nil {
		if *input.PointsPerCheckIn < 0 {
			return nil, apperror.NewBadRequestError("points per check-in must not be negative")
		}
		settings.PointsPerCheckIn = *input.PointsPerCheckIn
	}
	if input.PointsPerInvitation != nil {
		if *input.PointsPerInvitation < 0 {
			return nil, apperror.NewBadRequestError("points per invitation must not be negative")
		}
		settings.PointsPerInvitation = *input.PointsPerInvitation
	}
	if input.PointsValueEGP != nil {
		if *input.PointsValueEGP < 0 {
			return nil, apperror.NewBadRequestError("point value must not be negative")
		}
		settings.PointsValueEGP = *input.PointsValueEGP
	}
	if input.PointsPerEGPSpent != nil {
		if *input.PointsPerEGPSpent < 0 {
			return nil, apperror.NewBadRequestError("points per EGP spent must not be negative")
		}
		settings.PointsPerEGPSpent = *input.PointsPerEGPSpent
	}
	if input.NutritionEnabled != nil {
		settings.NutritionEnabled = *input.NutritionEnabled
	}
	if input.PhysiotherapyEnabled != nil {
		settings.PhysiotherapyEnabled = *input.PhysiotherapyEnabled
	}
	if input.GroupClassEnabled != nil {
		settings.GroupClassEnabled = *input.GroupClassEnabled
	}
	if input.DayUseEnabled != nil {
		settings.DayUseEnabled = *input.DayUseEnabled
	}

	if err := s.repo.Update(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
