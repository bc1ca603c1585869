package service

import (
	"context"
	"testing"

	"github.com/xgym/backoffice-api/internal/domain/entity"
	infraRepo "github.com/xgym/backoffice-api/internal/infrastructure/repository"
	"github.com/xgym/backoffice-api/pkg/apperror"
	"gorm.io/gorm"
)

func newReceiptService(db *gorm.DB) *ReceiptService {
	return NewReceiptService(infraRepo.NewReceiptRepository(db), NewProbeAllocator(db, 1000))
}

func issueReceipt(t *testing.T, db *gorm.DB, number int) *entity.Receipt {
	t.Helper()
	occupyReceiptNumber(t, db, number)
	var r entity.Receipt
	if err := db.First(&r, "receipt_number = ?", number).Error; err != nil {
		t.Fatalf("failed to load receipt %d: %v", number, err)
	}
	return &r
}

func TestReceiptCancelBurnsTheNumber(t *testing.T) {
	db := newTestDB(t)
	svc := newReceiptService(db)
	ctx := context.Background()
	r := issueReceipt(t, db, 1000)

	cancelled, err := svc.Cancel(ctx, r.ID, "admin", "mischarged")
	if err != nil {
		t.Fatalf("Cancel() failed: %v", err)
	}
	if !cancelled.IsCancelled {
		t.Error("receipt not marked cancelled")
	}
	if cancelled.CancelledBy != "admin" || cancelled.CancelReason != "mischarged" {
		t.Errorf("cancellation audit = %q/%q, want admin/mischarged",
			cancelled.CancelledBy, cancelled.CancelReason)
	}

	// Cancelling twice is a conflict.
	if _, err := svc.Cancel(ctx, r.ID, "admin", "again"); err == nil {
		t.Error("second Cancel() succeeded, want conflict")
	}

	// The number stays burned: the allocator must not reissue it.
	a := NewProbeAllocator(db, 1000)
	if got := allocateNext(t, db, a); got != 1001 {
		t.Errorf("next allocated number = %d, want 1001 (1000 is burned)", got)
	}
}

func TestReceiptRenumber(t *testing.T) {
	db := newTestDB(t)
	svc := newReceiptService(db)
	ctx := context.Background()
	first := issueReceipt(t, db, 1000)
	issueReceipt(t, db, 1001)

	// Occupied target is rejected.
	_, err := svc.Renumber(ctx, first.ID, 1001)
	appErr := apperror.GetAppError(err)
	if appErr == nil || appErr.Code != 409 {
		t.Fatalf("Renumber() onto occupied number: error = %v, want conflict", err)
	}

	// Free target works, even far above the counter.
	moved, err := svc.Renumber(ctx, first.ID, 2500)
	if err != nil {
		t.Fatalf("Renumber() failed: %v", err)
	}
	if moved.ReceiptNumber != 2500 {
		t.Errorf("receipt number = %d, want 2500", moved.ReceiptNumber)
	}

	// Renumbering to its own number is a no-op, not a conflict.
	if _, err := svc.Renumber(ctx, first.ID, 2500); err != nil {
		t.Errorf("Renumber() onto own number failed: %v", err)
	}

	// Zero and negative targets are rejected.
	if _, err := svc.Renumber(ctx, first.ID, 0); err == nil {
		t.Error("Renumber(0) succeeded, want bad request")
	}
}

func TestReceiptCounterAdministration(t *testing.T) {
	db := newTestDB(t)
	svc := newReceiptService(db)
	ctx := context.Background()

	next, err := svc.NextNumber(ctx)
	if err != nil {
		t.Fatalf("NextNumber() failed: %v", err)
	}
	if next != 1000 {
		t.Errorf("NextNumber() = %d, want seed 1000", next)
	}

	if err := svc.ResetCounter(ctx, 0); err == nil {
		t.Error("ResetCounter(0) succeeded, want bad request")
	}
	if err := svc.ResetCounter(ctx, 3000); err != nil {
		t.Fatalf("ResetCounter() failed: %v", err)
	}
	next, err = svc.NextNumber(ctx)
	if err != nil {
		t.Fatalf("NextNumber() failed: %v", err)
	}
	if next != 3000 {
		t.Errorf("NextNumber() after reset = %d, want 3000", next)
	}
}
