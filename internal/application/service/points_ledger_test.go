package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/xgym/backoffice-api/internal/domain/entity"
	"github.com/xgym/backoffice-api/internal/domain/enum"
	infraRepo "github.com/xgym/backoffice-api/internal/infrastructure/repository"
	"github.com/xgym/backoffice-api/pkg/apperror"
	"gorm.io/gorm"
)

func newTestLedger(t *testing.T) (*gorm.DB, *PointsLedger) {
	t.Helper()
	db := newTestDB(t)
	return db, NewPointsLedger(db, infraRepo.NewPointsHistoryRepository(db))
}

func historySum(t *testing.T, db *gorm.DB, memberID interface{}) int {
	t.Helper()
	var sum *int
	err := db.Model(&entity.PointsHistory{}).
		Select("SUM(points)").
		Where("member_id = ?", memberID).
		Scan(&sum).Error
	if err != nil {
		t.Fatalf("failed to sum history: %v", err)
	}
	if sum == nil {
		return 0
	}
	return *sum
}

func TestLedgerBalanceMatchesHistory(t *testing.T) {
	db, ledger := newTestLedger(t)
	member := createTestMember(t, db, 1, 0)

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := ledger.Earn(tx, member.ID, 10, enum.PointsActionCheckIn, "check-in"); err != nil {
			return err
		}
		if err := ledger.Earn(tx, member.ID, 25, enum.PointsActionPayment, "payment reward"); err != nil {
			return err
		}
		return ledger.Spend(tx, member.ID, 15, "partial redemption")
	})
	if err != nil {
		t.Fatalf("ledger operations failed: %v", err)
	}

	balance, err := ledger.Balance(context.Background(), member.ID)
	if err != nil {
		t.Fatalf("Balance() failed: %v", err)
	}
	if balance != 20 {
		t.Errorf("balance = %d, want 20", balance)
	}
	if sum := historySum(t, db, member.ID); sum != balance {
		t.Errorf("history sum = %d, balance = %d; they must agree", sum, balance)
	}
}

func TestLedgerSpendInsufficientLeavesStateUntouched(t *testing.T) {
	db, ledger := newTestLedger(t)
	member := createTestMember(t, db, 1, 10)

	err := db.Transaction(func(tx *gorm.DB) error {
		return ledger.Spend(tx, member.ID, 50, "overdraw attempt")
	})

	var insufficient *apperror.InsufficientPointsError
	if !errors.As(err, &insufficient) {
		t.Fatalf("Spend() error = %v, want InsufficientPointsError", err)
	}
	if insufficient.Available != 10 || insufficient.Requested != 50 {
		t.Errorf("error carries available=%d requested=%d, want 10 and 50",
			insufficient.Available, insufficient.Requested)
	}

	balance, err := ledger.Balance(context.Background(), member.ID)
	if err != nil {
		t.Fatalf("Balance() failed: %v", err)
	}
	if balance != 10 {
		t.Errorf("balance after failed spend = %d, want 10", balance)
	}
	if n := countRows(t, db, &entity.PointsHistory{}); n != 0 {
		t.Errorf("history rows after failed spend = %d, want 0", n)
	}
}

func TestLedgerSpendExactBalance(t *testing.T) {
	db, ledger := newTestLedger(t)
	member := createTestMember(t, db, 1, 30)

	err := db.Transaction(func(tx *gorm.DB) error {
		return ledger.Spend(tx, member.ID, 30, "full redemption")
	})
	if err != nil {
		t.Fatalf("Spend() failed: %v", err)
	}

	balance, err := ledger.Balance(context.Background(), member.ID)
	if err != nil {
		t.Fatalf("Balance() failed: %v", err)
	}
	if balance != 0 {
		t.Errorf("balance = %d, want 0", balance)
	}
}

func TestLedgerEarnUnknownMember(t *testing.T) {
	db, ledger := newTestLedger(t)

	err := db.Transaction(func(tx *gorm.DB) error {
		return ledger.Earn(tx, uuid.New(), 5, enum.PointsActionCheckIn, "ghost")
	})
	if !errors.Is(err, apperror.ErrMemberNotFound) {
		t.Errorf("Earn() error = %v, want ErrMemberNotFound", err)
	}
}

func TestLedgerRewardForPayment(t *testing.T) {
	db, ledger := newTestLedger(t)
	member := createTestMember(t, db, 1, 0)
	ctx := context.Background()

	tests := []struct {
		name string
		paid float64
		snap RewardSnapshot
		want int
	}{
		{"floors fractional points", 437, RewardSnapshot{Enabled: true, PointsPerEGPSpent: 0.01}, 4},
		{"standard rate", 500, RewardSnapshot{Enabled: true, PointsPerEGPSpent: 0.1}, 50},
		{"disabled program awards nothing", 500, RewardSnapshot{Enabled: false, PointsPerEGPSpent: 0.1}, 0},
		{"sub-point payment awards nothing", 5, RewardSnapshot{Enabled: true, PointsPerEGPSpent: 0.1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ledger.RewardForPayment(ctx, member.ID, tt.paid, tt.snap, "reward")
			if err != nil {
				t.Fatalf("RewardForPayment() failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("awarded = %d, want %d", got, tt.want)
			}
		})
	}
}
