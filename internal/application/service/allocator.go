package service

import (
	"context"
	"fmt"

	"github.com/xgym/backoffice-api/internal/domain/entity"
	"github.com/xgym/backoffice-api/pkg/apperror"
	"gorm.io/gorm"
)

// probeBudget bounds the scan for a free receipt number. Manual renumbering
// can occupy numbers above the counter, so the allocator probes past them.
const probeBudget = 100

// ReceiptNumberAllocator hands out receipt numbers inside a settlement
// transaction. Next must be called with the settlement's open transaction so
// the counter advance commits or rolls back together with the receipt.
type ReceiptNumberAllocator interface {
	// Next returns a receipt number believed free and advances the counter
	// past it. Uniqueness is ultimately enforced by the receipts unique
	// index; callers retry the enclosing transaction on a duplicate.
	Next(tx *gorm.DB) (int, error)
	// Peek returns the next candidate number without advancing the counter.
	Peek(ctx context.Context) (int, error)
	// Reset overwrites the counter. Administrative use only.
	Reset(ctx context.Context, value int) error
}

// ProbeAllocator is the default allocator. The counter row stores the next
// candidate number; Next probes upward from it against issued receipts
// (cancelled ones included, their numbers stay burned) until it finds a free
// number, then persists candidate+1.
type ProbeAllocator struct {
	db   *gorm.DB
	seed int
}

// NewProbeAllocator creates the default receipt number allocator.
func NewProbeAllocator(db *gorm.DB, seed int) *ProbeAllocator {
	return &ProbeAllocator{db: db, seed: seed}
}

// Next implements ReceiptNumberAllocator.
func (a *ProbeAllocator) Next(tx *gorm.DB) (int, error) {
	counter, err := a.loadOrCreate(tx)
	if err != nil {
		return 0, err
	}

	candidate := counter.Current
	for i := 0; i < probeBudget; i++ {
		var count int64
		if err := tx.Model(&entity.Receipt{}).
			Where("receipt_number = ?", candidate).
			Count(&count).Error; err != nil {
			return 0, fmt.Errorf("failed to probe receipt number %d: %w", candidate, err)
		}
		if count == 0 {
			if err := tx.Model(&entity.ReceiptCounter{}).
				Where("id = ?", entity.ReceiptCounterID).
				Update("current", candidate+1).Error; err != nil {
				return 0, fmt.Errorf("failed to advance receipt counter: %w", err)
			}
			return candidate, nil
		}
		candidate++
	}

	return 0, apperror.ErrAllocationExhausted
}

// Peek implements ReceiptNumberAllocator.
func (a *ProbeAllocator) Peek(ctx context.Context) (int, error) {
	var counter entity.ReceiptCounter
	err := a.db.WithContext(ctx).First(&counter, entity.ReceiptCounterID).Error
	if err == gorm.ErrRecordNotFound {
		return a.seed, nil
	}
	if err != nil {
		return 0, err
	}
	return counter.Current, nil
}

// Reset implements ReceiptNumberAllocator.
func (a *ProbeAllocator) Reset(ctx context.Context, value int) error {
	tx := a.db.WithContext(ctx)
	res := tx.Model(&entity.ReceiptCounter{}).
		Where("id = ?", entity.ReceiptCounterID).
		Update("current", value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return tx.Create(&entity.ReceiptCounter{ID: entity.ReceiptCounterID, Current: value}).Error
	}
	return nil
}

func (a *ProbeAllocator) loadOrCreate(tx *gorm.DB) (*entity.ReceiptCounter, error) {
	var counter entity.ReceiptCounter
	err := tx.First(&counter, entity.ReceiptCounterID).Error
	if err == gorm.ErrRecordNotFound {
		counter = entity.ReceiptCounter{ID: entity.ReceiptCounterID, Current: a.seed}
		if err := tx.Create(&counter).Error; err != nil {
			return nil, fmt.Errorf("failed to seed receipt counter: %w", err)
		}
		return &counter, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load receipt counter: %w", err)
	}
	return &counter, nil
}

// CounterAllocator is a plain monotonic allocator: it trusts the counter and
// never probes. Collisions with manually renumbered receipts surface as
// duplicate-key errors and are handled by the settlement retry loop.
type CounterAllocator struct {
	db   *gorm.DB
	seed int
}

// NewCounterAllocator creates a non-probing allocator.
func NewCounterAllocator(db *gorm.DB, seed int) *CounterAllocator {
	return &CounterAllocator{db: db, seed: seed}
}

// Next implements ReceiptNumberAllocator.
func (a *CounterAllocator) Next(tx *gorm.DB) (int, error) {
	res := tx.Model(&entity.ReceiptCounter{}).
		Where("id = ?", entity.ReceiptCounterID).
		Update("current", gorm.Expr("current + 1"))
	if res.Error != nil {
		return 0, fmt.Errorf("failed to advance receipt counter: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		counter := entity.ReceiptCounter{ID: entity.ReceiptCounterID, Current: a.seed + 1}
		if err := tx.Create(&counter).Error; err != nil {
			return 0, fmt.Errorf("failed to seed receipt counter: %w", err)
		}
		return a.seed, nil
	}

	var counter entity.ReceiptCounter
	if err := tx.First(&counter, entity.ReceiptCounterID).Error; err != nil {
		return 0, fmt.Errorf("failed to read receipt counter: %w", err)
	}
	return counter.Current - 1, nil
}

// Peek implements ReceiptNumberAllocator.
func (a *CounterAllocator) Peek(ctx context.Context) (int, error) {
	var counter entity.ReceiptCounter
	err := a.db.WithContext(ctx).First(&counter, entity.ReceiptCounterID).Error
	if err == gorm.ErrRecordNotFound {
		return a.seed, nil
	}
	if err != nil {
		return 0, err
	}
	return counter.Current, nil
}

// Reset implements ReceiptNumberAllocator.
func (a *CounterAllocator) Reset(ctx context.Context, value int) error {
	tx := a.db.WithContext(ctx)
	res := tx.Model(&entity.ReceiptCounter{}).
		Where("id = ?", entity.ReceiptCounterID).
		Update("current", value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return tx.Create(&entity.ReceiptCounter{ID: entity.ReceiptCounterID, Current: value}).Error
	}
	return nil
}

// nextNegativeNumber allocates the next day-use style number for the given
// table and column. Day-use records count downward from -1.
func nextNegativeNumber(tx *gorm.DB, table, column string) (int, error) {
	var min *int
	err := tx.Table(table).
		Select("MIN(" + column + ")").
		Where(column+" < 0").
		Scan(&min).Error
	if err != nil {
		return 0, fmt.Errorf("failed to scan %s.%s: %w", table, column, err)
	}
	if min == nil {
		return -1, nil
	}
	return *min - 1, nil
}
