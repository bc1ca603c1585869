package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/xgym/backoffice-api/internal/domain/entity"
	"github.com/xgym/backoffice-api/pkg/pagination"
)

// SubscriptionFilterParams holds common filtering options for the product
// line listings (PT, group classes, physiotherapy, nutrition, day-use).
type SubscriptionFilterParams struct {
	Search     string
	Pagination pagination.PaginationParams
}

// PTRepository defines the interface for personal-training data access
type PTRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.PT, error)
	GetByNumber(ctx context.Context, ptNumber int) (*entity.PT, error)
	List(ctx context.Context, params *SubscriptionFilterParams) ([]entity.PT, int64, error)
	Update(ctx context.Context, pt *entity.PT) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// GroupClassRepository defines the interface for group-class data access
type GroupClassRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.GroupClass, error)
	GetByNumber(ctx context.Context, classNumber int) (*entity.GroupClass, error)
	GetByBarcode(ctx context.Context, barcode string) (*entity.GroupClass, error)
	List(ctx context.Context, params *SubscriptionFilterParams) ([]entity.GroupClass, int64, error)
	Update(ctx context.Context, class *entity.GroupClass) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PhysiotherapyRepository defines the interface for physiotherapy data access
type PhysiotherapyRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Physiotherapy, error)
	GetByNumber(ctx context.Context, physioNumber int) (*entity.Physiotherapy, error)
	List(ctx context.Context, params *SubscriptionFilterParams) ([]entity.Physiotherapy, int64, error)
	Update(ctx context.Context, physio *entity.Physiotherapy) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// NutritionRepository defines the interface for nutrition-program data access
type NutritionRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Nutrition, error)
	GetByNumber(ctx context.Context, nutritionNumber int) (*entity.Nutrition, error)
	List(ctx context.Context, params *SubscriptionFilterParams) ([]entity.Nutrition, int64, error)
	Update(ctx context.Context, nutrition *entity.Nutrition) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// DayUseRepository defines the interface for day-use data access
type DayUseRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.DayUse, error)
	List(ctx context.Context, params *SubscriptionFilterParams) ([]entity.DayUse, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
