package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/xgym/backoffice-api/internal/domain/entity"
	domainRepo "github.com/xgym/backoffice-api/internal/domain/repository"
	"gorm.io/gorm"
)

type pointsHistoryRepository struct {
	db *gorm.DB
}

// NewPointsHistoryRepository creates a new points history repository
func NewPointsHistoryRepository(db *gorm.DB) domainRepo.PointsHistoryRepository {
	return &pointsHistoryRepository{db: db}
}

func (r *pointsHistoryRepository) ListByMember(ctx context.Context, memberID uuid.UUID, limit int) ([]entity.PointsHistory, error) {
	if limit <= 0 {
		limit = 10
	}
	var entries []entity.PointsHistory
	err := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

// SumByMember returns the signed sum of all ledger entries for a member. At
// every commit boundary it equals the member's points balance.
func (r *pointsHistoryRepository) SumByMember(ctx context.Context, memberID uuid.UUID) (int, error) {
	var sum int
	err := r.db.WithContext(ctx).Model(&entity.PointsHistory{}).
		Select("COALESCE(SUM(points), 0)").
		Where("member_id = ?", memberID).
		Scan(&sum).Error
	return sum, err
}
