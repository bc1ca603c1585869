package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/xgym/backoffice-api/internal/domain/entity"
)

// UserRepository defines the interface for staff account data access
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// GetByName resolves a staff account by display name; instructor and
	// coach names on packages are matched against it for commissions.
	GetByName(ctx context.Context, name string) (*entity.User, error)
	List(ctx context.Context) ([]entity.User, error)
	Update(ctx context.Context, user *entity.User) error
}

// CommissionRepository defines the interface for commission data access
type CommissionRepository interface {
	Create(ctx context.Context, commission *entity.Commission) error
	ListByStaff(ctx context.Context, staffUserID uuid.UUID) ([]entity.Commission, error)
}

// SettingsRepository defines the interface for the settings singleton
type SettingsRepository interface {
	Get(ctx context.Context) (*entity.SystemSettings, error)
	Update(ctx context.Context, settings *entity.SystemSettings) error
}

// PointsHistoryRepository defines the read surface over the points ledger
type PointsHistoryRepository interface {
	ListByMember(ctx context.Context, memberID uuid.UUID, limit int) ([]entity.PointsHistory, error)
	SumByMember(ctx context.Context, memberID uuid.UUID) (int, error)
}
