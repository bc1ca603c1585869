package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/xgym/backoffice-api/internal/domain/entity"
	domainRepo "github.com/xgym/backoffice-api/internal/domain/repository"
	"gorm.io/gorm"
)

type physiotherapyRepository struct {
	db *gorm.DB
}

// NewPhysiotherapyRepository creates a new physiotherapy repository
func NewPhysiotherapyRepository(db *gorm.DB) domainRepo.PhysiotherapyRepository {
	return &physiotherapyRepository{db: db}
}

func (r *physiotherapyRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Physiotherapy, error) {
	var physio entity.Physiotherapy
	err := r.db.WithContext(ctx).Preload("Receipts").First(&physio, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &physio, err
}

func (r *physiotherapyRepository) GetByNumber(ctx context.Context, physioNumber int) (*entity.Physiotherapy, error) {
	var physio entity.Physiotherapy
	err := r.db.WithContext(ctx).First(&physio, "physio_number = ?", physioNumber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &physio, err
}

func (r *physiotherapyRepository) List(ctx context.Context, params *domainRepo.SubscriptionFilterParams) ([]entity.Physiotherapy, int64, error) {
	var packages []entity.Physiotherapy
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Physiotherapy{})
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

func (r *physiotherapyRepository) Update(ctx context.Context, physio *entity.Physiotherapy) error {
	return r.db.WithContext(ctx).Save(physio).Error
}

func (r *physiotherapyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Physiotherapy{}, "id = ?", id).Error
}
