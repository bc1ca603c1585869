package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/xgym/backoffice-api/internal/domain/entity"
	domainRepo "github.com/xgym/backoffice-api/internal/domain/repository"
	"gorm.io/gorm"
)

type nutritionRepository struct {
	db *gorm.DB
}

// NewNutritionRepository creates a new nutrition repository
func NewNutritionRepository(db *gorm.DB) domainRepo.NutritionRepository {
	return &nutritionRepository{db: db}
}

func (r *nutritionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Nutrition, error) {
	var nutrition entity.Nutrition
	err := r.db.WithContext(ctx).Preload("Receipts").First(&nutrition, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &nutrition, err
}

func (r *nutritionRepository) GetByNumber(ctx context.Context, nutritionNumber int) (*entity.Nutrition, error) {
	var nutrition entity.Nutrition
	err := r.db.WithContext(ctx).First(&nutrition, "nutrition_number = ?", nutritionNumber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &nutrition, err
}

func (r *nutritionRepository) List(ctx context.Context, params *domainRepo.SubscriptionFilterParams) ([]entity.Nutrition, int64, error) {
	var programs []entity.Nutrition
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Nutrition{})
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
		Find(&programs).Error

	return programs, total, err
}

func (r *nutritionRepository) Update(ctx context.Context, nutrition *entity.Nutrition) error {
	return r.db.WithContext(ctx).Save(nutrition).Error
}

func (r *nutritionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Nutrition{}, "id = ?", id).Error
}

type dayUseRepository struct {
	db *gorm.DB
}

// NewDayUseRepository creates a new day-use repository
func NewDayUseRepository(db *gorm.DB) domainRepo.DayUseRepository {
	return &dayUseRepository{db: db}
}

func (r *dayUseRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.DayUse, error) {
	var visit entity.DayUse
	err := r.db.WithContext(ctx).Preload("Receipts").First(&visit, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &visit, err
}

func (r *dayUseRepository) List(ctx context.Context, params *domainRepo.SubscriptionFilterParams) ([]entity.DayUse, int64, error) {
	var visits []entity.DayUse
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.DayUse{})
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
		Find(&visits).Error

	return visits, total, err
}

func (r *dayUseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.DayUse{}, "id = ?", id).Error
}
