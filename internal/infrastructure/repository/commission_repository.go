package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/xgym/backoffice-api/internal/domain/entity"
	domainRepo "github.com/xgym/backoffice-api/internal/domain/repository"
	"gorm.io/gorm"
)

type commissionRepository struct {
	db *gorm.DB
}

// NewCommissionRepository creates a new commission repository
func NewCommissionRepository(db *gorm.DB) domainRepo.CommissionRepository {
	return &commissionRepository{db: db}
}

func (r *commissionRepository) Create(ctx context.Context, commission *entity.Commission) error {
	return r.db.WithContext(ctx).Create(commission).Error
}

func (r *commissionRepository) ListByStaff(ctx context.Context, staffUserID uuid.UUID) ([]entity.Commission, error) {
	var commissions []entity.Commission
	err := r.db.WithContext(ctx).
		Where("staff_user_id = ?", staffUserID).
		Order("created_at DESC").
		Find(&commissions).Error
	return commissions, err
}
