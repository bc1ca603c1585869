package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/xgym/backoffice-api/internal/domain/entity"
	"github.com/xgym/backoffice-api/internal/domain/enum"
	"github.com/xgym/backoffice-api/pkg/pagination"
)

// ReceiptFilterParams holds filtering options for listing receipts
type ReceiptFilterParams struct {
	Type             enum.ReceiptType
	StaffName        string
	IncludeCancelled bool
	StartDate        *time.Time
	EndDate          *time.Time
	MemberID         *uuid.UUID
	Pagination       pagination.PaginationParams
}

// ReceiptRepository defines the interface for receipt data access
type ReceiptRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Receipt, error)
	GetByNumber(ctx context.Context, receiptNumber int) (*entity.Receipt, error)
	List(ctx context.Context, params *ReceiptFilterParams) ([]entity.Receipt, int64, error)
	Update(ctx context.Context, receipt *entity.Receipt) error
	// Delete removes a receipt row permanently. Manual corrections only;
	// normal flow cancels instead.
	Delete(ctx context.Context, id uuid.UUID) error
	GetCounter(ctx context.Context) (*entity.ReceiptCounter, error)
	ResetCounter(ctx context.Context, value int) error
}
