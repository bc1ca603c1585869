package service

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/xgym/backoffice-api/internal/domain/entity"
	"github.com/xgym/backoffice-api/internal/domain/enum"
	"github.com/xgym/backoffice-api/internal/domain/repository"
	"github.com/xgym/backoffice-api/pkg/apperror"
	"github.com/xgym/backoffice-api/pkg/metrics"
	"gorm.io/gorm"
)

// RewardSnapshot captures the loyalty settings a settlement runs under.
// It is taken before the settlement transaction opens, so a concurrent
// settings change only affects later settlements.
type RewardSnapshot struct {
	Enabled           bool
	PointsPerEGPSpent float64
	PointsValueEGP    float64
}

// NewRewardSnapshot copies the loyalty fields out of the settings singleton.
func NewRewardSnapshot(s *entity.SystemSettings) RewardSnapshot {
	return RewardSnapshot{
		Enabled:           s.PointsEnabled,
		PointsPerEGPSpent: s.PointsPerEGPSpent,
		PointsValueEGP:    s.PointsValueEGP,
	}
}

// PointsLedger owns every mutation of member point balances. Each mutation
// pairs the balance change with an append-only history entry in the same
// transaction, so at every commit boundary the sum of a member's history
// equals the balance.
type PointsLedger struct {
	db      *gorm.DB
	history repository.PointsHistoryRepository
}

// NewPointsLedger creates the points ledger service.
func NewPointsLedger(db *gorm.DB, history repository.PointsHistoryRepository) *PointsLedger {
	return &PointsLedger{db: db, history: history}
}

// Earn credits points to a member inside the given transaction.
func (l *PointsLedger) Earn(tx *gorm.DB, memberID uuid.UUID, points int, action enum.PointsAction, description string) error {
	if points <= 0 {
		return apperror.NewBadRequestError("points to earn must be positive")
	}

	res := tx.Model(&entity.Member{}).
		Where("id = ?", memberID).
		Update("points", gorm.Expr("points + ?", points))
	if res.Error != nil {
		return fmt.Errorf("failed to credit points: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.ErrMemberNotFound
	}

	entry := entity.PointsHistory{
		MemberID:    memberID,
		Points:      points,
		Action:      action,
		Description: description,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to append points history: %w", err)
	}

	metrics.PointsIssued.WithLabelValues(string(action)).Add(float64(points))
	return nil
}

// Spend debits points from a member inside the given transaction. The debit
// is a single conditional update, so a concurrent spend can never drive the
// balance negative; when the balance cannot cover the request nothing is
// mutated and an InsufficientPointsError carries both figures.
func (l *PointsLedger) Spend(tx *gorm.DB, memberID uuid.UUID, points int, description string) error {
	if points <= 0 {
		return apperror.NewBadRequestError("points to spend must be positive")
	}

	res := tx.Model(&entity.Member{}).
		Where("id = ? AND points >= ?", memberID, points).
		Update("points", gorm.Expr("points - ?", points))
	if res.Error != nil {
		return fmt.Errorf("failed to debit points: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		var member entity.Member
		err := tx.Select("points").First(&member, "id = ?", memberID).Error
		if err == gorm.ErrRecordNotFound {
			return apperror.ErrMemberNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to read points balance: %w", err)
		}
		return &apperror.InsufficientPointsError{Available: member.Points, Requested: points}
	}

	entry := entity.PointsHistory{
		MemberID:    memberID,
		Points:      -points,
		Action:      enum.PointsActionPayment,
		Description: description,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to append points history: %w", err)
	}

	metrics.PointsRedeemed.Add(float64(points))
	return nil
}

// RewardForPayment credits points for money actually paid. paid is the
// cash-equivalent portion of the sale; points covered by points earn nothing.
// The reward runs in its own transaction and the caller treats a failure as
// best-effort.
func (l *PointsLedger) RewardForPayment(ctx context.Context, memberID uuid.UUID, paid float64, snap RewardSnapshot, description string) (int, error) {
	if !snap.Enabled {
		return 0, nil
	}
	points := int(math.Floor(paid * snap.PointsPerEGPSpent))
	if points <= 0 {
		return 0, nil
	}

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return l.Earn(tx, memberID, points, enum.PointsActionPayment, description)
	})
	if err != nil {
		return 0, err
	}
	return points, nil
}

// ResolveMember loads a member by business number inside a transaction.
func (l *PointsLedger) ResolveMember(tx *gorm.DB, memberNumber int) (*entity.Member, error) {
	var member entity.Member
	err := tx.First(&member, "member_number = ?", memberNumber).Error
	if err == gorm.ErrRecordNotFound {
		return nil, apperror.ErrMemberNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve member %d: %w", memberNumber, err)
	}
	return &member, nil
}

// Balance returns a member's current point balance.
func (l *PointsLedger) Balance(ctx context.Context, memberID uuid.UUID) (int, error) {
	var member entity.Member
	err := l.db.WithContext(ctx).Select("points").First(&member, "id = ?", memberID).Error
	if err == gorm.ErrRecordNotFound {
		return 0, apperror.ErrMemberNotFound
	}
	if err != nil {
		return 0, err
	}
	return member.Points, nil
}

// History returns the most recent ledger entries for a member.
func (l *PointsLedger) History(ctx context.Context, memberID uuid.UUID, limit int) ([]entity.PointsHistory, error) {
	return l.history.ListByMember(ctx, memberID, limit)
}
