package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/xgym/backoffice-api/internal/domain/entity"
	domainRepo "github.com/xgym/backoffice-api/internal/domain/repository"
	"gorm.io/gorm"
)

type groupClassRepository struct {
	db *gorm.DB
}

// NewGroupClassRepository creates a new group-class repository
func NewGroupClassRepository(db *gorm.DB) domainRepo.GroupClassRepository {
	return &groupClassRepository{db: db}
}

func (r *groupClassRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.GroupClass, error) {
	var class entity.GroupClass
	err := r.db.WithContext(ctx).Preload("Receipts").First(&class, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &class, err
}

func (r *groupClassRepository) GetByNumber(ctx context.Context, classNumber int) (*entity.GroupClass, error) {
	var class entity.GroupClass
	err := r.db.WithContext(ctx).First(&class, "class_number = ?", classNumber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &class, err
}

func (r *groupClassRepository) GetByBarcode(ctx context.Context, barcode string) (*entity.GroupClass, error) {
	var class entity.GroupClass
	err := r.db.WithContext(ctx).First(&class, "barcode = ?", barcode).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &class, err
}

func (r *groupClassRepository) List(ctx context.Context, params *domainRepo.SubscriptionFilterParams) ([]entity.GroupClass, int64, error) {
	var classes []entity.GroupClass
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.GroupClass{})
	if params.Search != "" {
		like := "%" + params.Search + "%"
		query = query.Where("client_name LIKE ? OR phone LIKE ? OR instructor_name LIKE ?", like, like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("created_at DESC").
		Find(&classes).Error

	return classes, total, err
}

func (r *groupClassRepository) Update(ctx context.Context, class *entity.GroupClass) error {
	return r.db.WithContext(ctx).Save(class).Error
}

func (r *groupClassRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.GroupClass{}, "id = ?", id).Error
}
