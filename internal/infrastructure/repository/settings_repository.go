package repository

import (
	"context"
	"errors"

	"github.com/xgym/backoffice-api/internal/domain/entity"
	domainRepo "github.com/xgym/backoffice-api/internal/domain/repository"
	"gorm.io/gorm"
)

type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *gorm.DB) domainRepo.SettingsRepository {
	return &settingsRepository{db: db}
}

// Get returns the settings singleton, creating it with defaults on first use.
func (r *settingsRepository) Get(ctx context.Context) (*entity.SystemSettings, error) {
	var settings entity.SystemSettings
	err := r.db.WithContext(ctx).First(&settings, "id = ?", entity.SettingsSingletonID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = entity.SystemSettings{
			ID:                   entity.SettingsSingletonID,
			PointsEnabled:        true,
			PointsPerCheckIn:     1,
			PointsPerInvitation:  5,
			PointsValueEGP:       0.1,
			PointsPerEGPSpent:    0.1,
			NutritionEnabled:     true,
			PhysiotherapyEnabled: true,
			GroupClassEnabled:    true,
			DayUseEnabled:        true,
		}
		if err := r.db.WithContext(ctx).Create(&settings).Error; err != nil {
			return nil, err
		}
		return &settings, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *settingsRepository) Update(ctx context.Context, settings *entity.SystemSettings) error {
	settings.ID = entity.SettingsSingletonID
	return r.db.WithContext(ctx).Save(settings).Error
}
