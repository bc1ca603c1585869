package service

import (
	"context"
	"errors"
	"testing"

	"github.com/xgym/backoffice-api/internal/domain/entity"
	"github.com/xgym/backoffice-api/internal/domain/enum"
	"github.com/xgym/backoffice-api/pkg/apperror"
	"gorm.io/gorm"
)

func occupyReceiptNumber(t *testing.T, db *gorm.DB, number int) {
	t.Helper()
	r := entity.Receipt{
		ReceiptNumber: number,
		Type:          enum.ReceiptNewMembership,
		Amount:        100,
		Tender:        "cash",
	}
	if err := db.Create(&r).Error; err != nil {
		t.Fatalf("failed to occupy receipt number %d: %v", number, err)
	}
}

func allocateNext(t *testing.T, db *gorm.DB, a ReceiptNumberAllocator) int {
	t.Helper()
	var number int
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		number, err = a.Next(tx)
		return err
	})
	if err != nil {
		t.Fatalf("Next() failed: %v", err)
	}
	return number
}

func TestProbeAllocatorSeedsAndIncrements(t *testing.T) {
	db := newTestDB(t)
	a := NewProbeAllocator(db, 1000)

	if got := allocateNext(t, db, a); got != 1000 {
		t.Errorf("first number = %d, want 1000", got)
	}
	if got := allocateNext(t, db, a); got != 1001 {
		t.Errorf("second number = %d, want 1001", got)
	}

	var counter entity.ReceiptCounter
	if err := db.First(&counter, entity.ReceiptCounterID).Error; err != nil {
		t.Fatalf("failed to load counter: %v", err)
	}
	if counter.Current != 1002 {
		t.Errorf("counter current = %d, want 1002", counter.Current)
	}
}

func TestProbeAllocatorSkipsOccupiedNumbers(t *testing.T) {
	db := newTestDB(t)
	a := NewProbeAllocator(db, 1000)

	// A renumbered receipt sits on the counter's next candidate.
	occupyReceiptNumber(t, db, 1000)
	occupyReceiptNumber(t, db, 1001)

	if got := allocateNext(t, db, a); got != 1002 {
		t.Errorf("number = %d, want 1002 (1000 and 1001 are occupied)", got)
	}

	var counter entity.ReceiptCounter
	if err := db.First(&counter, entity.ReceiptCounterID).Error; err != nil {
		t.Fatalf("failed to load counter: %v", err)
	}
	if counter.Current != 1003 {
		t.Errorf("counter current = %d, want 1003", counter.Current)
	}
}

func TestProbeAllocatorExhaustsBudget(t *testing.T) {
	db := newTestDB(t)
	a := NewProbeAllocator(db, 1000)

	for n := 1000; n < 1000+probeBudget; n++ {
		occupyReceiptNumber(t, db, n)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := a.Next(tx)
		return err
	})
	if !errors.Is(err, apperror.ErrAllocationExhausted) {
		t.Errorf("Next() error = %v, want ErrAllocationExhausted", err)
	}
}

func TestProbeAllocatorPeekAndReset(t *testing.T) {
	db := newTestDB(t)
	a := NewProbeAllocator(db, 1000)
	ctx := context.Background()

	got, err := a.Peek(ctx)
	if err != nil {
		t.Fatalf("Peek() failed: %v", err)
	}
	if got != 1000 {
		t.Errorf("Peek() before any allocation = %d, want seed 1000", got)
	}

	allocateNext(t, db, a)
	got, err = a.Peek(ctx)
	if err != nil {
		t.Fatalf("Peek() failed: %v", err)
	}
	if got != 1001 {
		t.Errorf("Peek() after one allocation = %d, want 1001", got)
	}

	if err := a.Reset(ctx, 5000); err != nil {
		t.Fatalf("Reset() failed: %v", err)
	}
	if got := allocateNext(t, db, a); got != 5000 {
		t.Errorf("number after reset = %d, want 5000", got)
	}
}

func TestCounterAllocatorSeedsAndIncrements(t *testing.T) {
	db := newTestDB(t)
	a := NewCounterAllocator(db, 1000)

	if got := allocateNext(t, db, a); got != 1000 {
		t.Errorf("first number = %d, want 1000", got)
	}
	if got := allocateNext(t, db, a); got != 1001 {
		t.Errorf("second number = %d, want 1001", got)
	}
}

func TestNextNegativeNumberCountsDownward(t *testing.T) {
	db := newTestDB(t)

	err := db.Transaction(func(tx *gorm.DB) error {
		n, err := nextNegativeNumber(tx, "day_uses", "day_use_number")
		if err != nil {
			return err
		}
		if n != -1 {
			t.Errorf("first day-use number = %d, want -1", n)
		}

		d := entity.DayUse{DayUseNumber: -1, ClientName: "Walk-in", Price: 100}
		if err := tx.Create(&d).Error; err != nil {
			return err
		}

		n, err = nextNegativeNumber(tx, "day_uses", "day_use_number")
		if err != nil {
			return err
		}
		if n != -2 {
			t.Errorf("second day-use number = %d, want -2", n)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("transaction failed: %v", err)
	}
}
