package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/xgym/backoffice-api/internal/domain/entity"
	domainRepo "github.com/xgym/backoffice-api/internal/domain/repository"
	"gorm.io/gorm"
)

type ptRepository struct {
	db *gorm.DB
}

// NewPTRepository creates a new personal-training repository
func NewPTRepository(db *gorm.DB) domainRepo.PTRepository {
	return &ptRepository{db: db}
}

func (r *ptRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.PT, error) {
	var pt entity.PT
	err := r.db.WithContext(ctx).Preload("Receipts").First(&pt, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &pt, err
}

func (r *ptRepository) GetByNumber(ctx context.Context, ptNumber int) (*entity.PT, error) {
	var pt entity.PT
	err := r.db.WithContext(ctx).First(&pt, "pt_number = ?", ptNumber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &pt, err
}

func (r *ptRepository) List(ctx context.Context, params *domainRepo.SubscriptionFilterParams) ([]entity.PT, int64, error) {
	var packages []entity.PT
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.PT{})
	if params.Search != "" {
		like := "%" + params.Search + "%"
		query = query.Where("client_name LIKE ? OR phone LIKE ?", like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("created_at DESC").
		Find(&packages).Error

	return packages, total, err
}

func (r *ptRepository) Update(ctx context.Context, pt *entity.PT) error {
	return r.db.WithContext(ctx).Save(pt).Error
}

func (r *ptRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.PT{}, "id = ?", id).Error
}
