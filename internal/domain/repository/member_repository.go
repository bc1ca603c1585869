package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/xgym/backoffice-api/internal/domain/entity"
	"github.com/xgym/backoffice-api/pkg/pagination"
)

// MemberFilterParams holds filtering options for listing members
type MemberFilterParams struct {
	Search     string
	ActiveOnly bool
	Pagination pagination.PaginationParams
}

// MemberRepository defines the interface for member data access
type MemberRepository interface {
	Create(ctx context.Context, member *entity.Member) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Member, error)
	GetByNumber(ctx context.Context, memberNumber int) (*entity.Member, error)
	GetByPhone(ctx context.Context, phone string) (*entity.Member, error)
	List(ctx context.Context, params *MemberFilterParams) ([]entity.Member, int64, error)
	Update(ctx context.Context, member *entity.Member) error
	Delete(ctx context.Context, id uuid.UUID) error
	NextMemberNumber(ctx context.Context) (int, error)
}
