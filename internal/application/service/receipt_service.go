package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/xgym/backoffice-api/internal/domain/entity"
	"github.com/xgym/backoffice-api/internal/domain/repository"
	"github.com/xgym/backoffice-api/pkg/apperror"
	"github.com/xgym/backoffice-api/pkg/pagination"
	"github.com/xgym/backoffice-api/pkg/tender"
)

// ReceiptService is the read and correction surface over issued receipts.
// Receipts are never edited financially; the allowed mutations are
// cancellation, manual renumbering and hard deletion by an administrator.
type ReceiptService struct {
	repo      repository.ReceiptRepository
	allocator ReceiptNumberAllocator
}

// NewReceiptService creates the receipt service.
func NewReceiptService(repo repository.ReceiptRepository, allocator ReceiptNumberAllocator) *ReceiptService {
	return &ReceiptService{repo: repo, allocator: allocator}
}

// ReceiptView is a receipt with its tender column decoded.
type ReceiptView struct {
	entity.Receipt
	Tenders tender.Set `json:"tenders"`
}

// GetByID returns one receipt with decoded tenders.
func (s *ReceiptService) GetByID(ctx context.Context, id uuid.UUID) (*ReceiptView, error) {
	receipt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}
	return toView(receipt), nil
}

// GetByNumber returns one receipt by its business number.
func (s *ReceiptService) GetByNumber(ctx context.Context, number int) (*ReceiptView, error) {
	receipt, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}
	return toView(receipt), nil
}

// List returns receipts matching the filter.
func (s *ReceiptService) List(ctx context.Context, params *repository.ReceiptFilterParams) (*pagination.PaginatedResult[ReceiptView], error) {
	params.Pagination.Validate()
	receipts, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	views := make([]ReceiptView, 0, len(receipts))
	for i := range receipts {
		views = append(views, *toView(&receipts[i]))
	}
	p := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(views, p), nil
}

// Cancel marks a receipt as cancelled. The receipt number stays burned: the
// allocator never reissues it.
func (s *ReceiptService) Cancel(ctx context.Context, id uuid.UUID, cancelledBy, reason string) (*ReceiptView, error) {
	receipt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}
	if receipt.IsCancelled {
		return nil, apperror.NewConflictError("Receipt is already cancelled")
	}

	now := time.Now()
	receipt.IsCancelled = true
	receipt.CancelledAt = &now
	receipt.CancelledBy = cancelledBy
	receipt.CancelReason = reason
	if err := s.repo.Update(ctx, receipt); err != nil {
		return nil, err
	}
	return toView(receipt), nil
}

// Renumber moves a receipt to a manually chosen number. The target must be
// free; the counter is not adjusted, the allocator probes past occupied
// numbers on its own.
func (s *ReceiptService) Renumber(ctx context.Context, id uuid.UUID, newNumber int) (*ReceiptView, error) {
	if newNumber <= 0 {
		return nil, apperror.NewBadRequestError("receipt number must be positive")
	}

	receipt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}

	existing, err := s.repo.GetByNumber(ctx, newNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ID != receipt.ID {
		return nil, apperror.NewConflictError("Receipt number is already in use")
	}

	receipt.ReceiptNumber = newNumber
	if err := s.repo.Update(ctx, receipt); err != nil {
		return nil, err
	}
	return toView(receipt), nil
}

// Delete removes a receipt row permanently. Administrative correction only.
func (s *ReceiptService) Delete(ctx context.Context, id uuid.UUID) error {
	receipt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if receipt == nil {
		return apperror.NewNotFoundError("Receipt")
	}
	return s.repo.Delete(ctx, receipt.ID)
}

// NextNumber returns the next candidate receipt number without consuming it.
func (s *ReceiptService) NextNumber(ctx context.Context) (int, error) {
	return s.allocator.Peek(ctx)
}

// ResetCounter overwrites the receipt counter. Administrative use only.
func (s *ReceiptService) ResetCounter(ctx context.Context, value int) error {
	if value <= 0 {
		return apperror.NewBadRequestError("counter value must be positive")
	}
	return s.allocator.Reset(ctx, value)
}

func toView(r *entity.Receipt) *ReceiptView {
	return &ReceiptView{
		Receipt: *r,
		Tenders: tender.Deserialize(r.Tender, r.Amount),
	}
}
