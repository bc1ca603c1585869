package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xgym/backoffice-api/internal/domain/entity"
	"github.com/xgym/backoffice-api/internal/domain/enum"
	"github.com/xgym/backoffice-api/internal/domain/repository"
	"github.com/xgym/backoffice-api/pkg/apperror"
	"github.com/xgym/backoffice-api/pkg/metrics"
	"github.com/xgym/backoffice-api/pkg/tender"
	"gorm.io/gorm"
)

const (
	// settlementTimeout bounds one settlement attempt end to end.
	settlementTimeout = 15 * time.Second
	// maxSettlementAttempts bounds whole-transaction retries after a receipt
	// number collided with a concurrently issued receipt.
	maxSettlementAttempts = 3
)

// EntityResult is what a product line's Apply callback hands back to the
// settlement after creating or updating its entity inside the transaction.
type EntityResult struct {
	// Details is merged into the receipt's item details JSON.
	Details map[string]interface{}
	// Link sets the receipt's foreign key to the entity.
	Link func(r *entity.Receipt)
	// PointsMemberID identifies the member to debit when the tender set
	// includes points. Nil means points cannot be accepted for this sale
	// unless the request names a member number.
	PointsMemberID *uuid.UUID
	// RewardMemberID identifies the member to credit loyalty points to for
	// the paid amount. Nil skips the reward.
	RewardMemberID *uuid.UUID
}

// SettlementRequest describes one sale to settle.
type SettlementRequest struct {
	Type      enum.ReceiptType
	AmountDue float64
	Tenders   tender.Set
	StaffName string
	// PointsMemberNumber resolves the member to debit for points tender when
	// the entity itself is not a member. Zero means not provided.
	PointsMemberNumber int
	// Commission, when set, is recorded best-effort after commit.
	Commission *CommissionSpec
	// Apply creates or updates the sold entity inside the settlement
	// transaction. It runs once per attempt and must be safe to re-run
	// after a rollback.
	Apply func(tx *gorm.DB) (*EntityResult, error)
}

// SettlementResult reports a committed settlement.
type SettlementResult struct {
	Receipt       *entity.Receipt `json:"receipt"`
	PointsAwarded int             `json:"points_awarded"`
}

// Settlement coordinates the all-or-nothing financial transaction of a sale:
// license gate, tender validation, entity mutation, receipt numbering, points
// debit and receipt creation commit or roll back together. Loyalty rewards
// and commissions run after commit and are strictly best-effort.
type Settlement struct {
	db        *gorm.DB
	allocator ReceiptNumberAllocator
	ledger    *PointsLedger
	gate      LicenseGate
	settings  repository.SettingsRepository
	notifier  CommissionNotifier
}

// NewSettlement creates the settlement orchestrator.
func NewSettlement(
	db *gorm.DB,
	allocator ReceiptNumberAllocator,
	ledger *PointsLedger,
	gate LicenseGate,
	settings repository.SettingsRepository,
	notifier CommissionNotifier,
) *Settlement {
	return &Settlement{
		db:        db,
		allocator: allocator,
		ledger:    ledger,
		gate:      gate,
		settings:  settings,
		notifier:  notifier,
	}
}

// Settle runs one settlement to completion.
func (s *Settlement) Settle(ctx context.Context, req *SettlementRequest) (*SettlementResult, error) {
	tenders, err := s.normalizeTenders(req)
	if err != nil {
		metrics.SettlementsAborted.WithLabelValues(string(req.Type), "tender").Inc()
		return nil, err
	}

	if err := s.gate.Check(ctx); err != nil {
		metrics.SettlementsAborted.WithLabelValues(string(req.Type), "license").Inc()
		return nil, err
	}

	// Loyalty settings are snapshotted per settlement, not per attempt:
	// retries of the same sale run under one consistent view.
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	snap := NewRewardSnapshot(settings)

	var receipt *entity.Receipt
	var rewardMemberID *uuid.UUID

	for attempt := 1; attempt <= maxSettlementAttempts; attempt++ {
		receipt, rewardMemberID, err = s.attempt(ctx, req, tenders)
		if err == nil {
			break
		}
		if isDuplicateErr(err) && attempt < maxSettlementAttempts {
			metrics.SettlementRetries.Inc()
			slog.Warn("receipt number conflict, retrying settlement",
				"type", req.Type, "attempt", attempt)
			continue
		}
		metrics.SettlementsAborted.WithLabelValues(string(req.Type), abortReason(err)).Inc()
		return nil, err
	}
	if receipt == nil {
		metrics.SettlementsAborted.WithLabelValues(string(req.Type), "conflict").Inc()
		return nil, apperror.ErrAllocationExhausted
	}

	metrics.SettlementsCommitted.WithLabelValues(string(req.Type)).Inc()

	result := &SettlementResult{Receipt: receipt}
	s.runBestEffort(ctx, req, tenders, snap, receipt, rewardMemberID, result)
	return result, nil
}

// attempt runs one transactional settlement attempt.
func (s *Settlement) attempt(ctx context.Context, req *SettlementRequest, tenders tender.Set) (*entity.Receipt, *uuid.UUID, error) {
	ctx, cancel := context.WithTimeout(ctx, settlementTimeout)
	defer cancel()

	var receipt *entity.Receipt
	var rewardMemberID *uuid.UUID

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.gate.CheckCached(tx); err != nil {
			return err
		}

		result, err := req.Apply(tx)
		if err != nil {
			return err
		}

		pointsUsed := tender.PointsUsed(tenders)
		if pointsUsed > 0 {
			memberID, err := s.resolvePointsMember(tx, req, result)
			if err != nil {
				return err
			}
			desc := fmt.Sprintf("Payment for %s", req.Type)
			if err := s.ledger.Spend(tx, memberID, pointsUsed, desc); err != nil {
				return err
			}
		}

		number, err := s.allocator.Next(tx)
		if err != nil {
			return err
		}

		r := entity.Receipt{
			ReceiptNumber: number,
			Type:          req.Type,
			Amount:        tender.Total(tenders),
			Tender:        tender.Serialize(tenders),
			StaffName:     req.StaffName,
		}
		if result != nil {
			if len(result.Details) > 0 {
				details, err := json.Marshal(result.Details)
				if err != nil {
					return fmt.Errorf("failed to marshal item details: %w", err)
				}
				r.ItemDetails = string(details)
			}
			if result.Link != nil {
				result.Link(&r)
			}
			rewardMemberID = result.RewardMemberID
		}

		if err := tx.Create(&r).Error; err != nil {
			return err
		}
		receipt = &r
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return receipt, rewardMemberID, nil
}

// normalizeTenders defaults an empty tender set to cash for the full amount
// and validates the set against the amount due. Sales that cost nothing skip
// validation entirely.
func (s *Settlement) normalizeTenders(req *SettlementRequest) (tender.Set, error) {
	tenders := req.Tenders
	if len(tenders) == 0 {
		if req.AmountDue <= tender.Epsilon {
			return tender.Set{{Method: tender.Cash, Amount: 0}}, nil
		}
		tenders = tender.Set{{Method: tender.Cash, Amount: req.AmountDue}}
	}
	if err := tender.Validate(tenders, req.AmountDue); err != nil {
		return nil, err
	}
	return tenders, nil
}

func (s *Settlement) resolvePointsMember(tx *gorm.DB, req *SettlementRequest, result *EntityResult) (uuid.UUID, error) {
	if result != nil && result.PointsMemberID != nil {
		return *result.PointsMemberID, nil
	}
	if req.PointsMemberNumber > 0 {
		member, err := s.ledger.ResolveMember(tx, req.PointsMemberNumber)
		if err != nil {
			return uuid.Nil, err
		}
		return member.ID, nil
	}
	return uuid.Nil, apperror.ErrMemberNotFound
}

// runBestEffort records the loyalty reward and commission after the financial
// transaction committed. Failures are logged and counted, never surfaced: the
// sale already happened.
func (s *Settlement) runBestEffort(
	ctx context.Context,
	req *SettlementRequest,
	tenders tender.Set,
	snap RewardSnapshot,
	receipt *entity.Receipt,
	rewardMemberID *uuid.UUID,
	result *SettlementResult,
) {
	bg := context.WithoutCancel(ctx)

	if rewardMemberID != nil {
		paid := tender.CashEquivalent(tenders, tender.Total(tenders))
		desc := fmt.Sprintf("Reward for receipt #%d", receipt.ReceiptNumber)
		awarded, err := s.ledger.RewardForPayment(bg, *rewardMemberID, paid, snap, desc)
		if err != nil {
			metrics.BestEffortFailures.WithLabelValues("reward").Inc()
			slog.Error("loyalty reward failed after settlement commit",
				"receipt_number", receipt.ReceiptNumber, "error", err)
		} else {
			result.PointsAwarded = awarded
		}
	}

	if req.Commission != nil && s.notifier != nil {
		if err := s.notifier.Notify(bg, *req.Commission); err != nil {
			metrics.BestEffortFailures.WithLabelValues("commission").Inc()
			slog.Error("commission recording failed after settlement commit",
				"receipt_number", receipt.ReceiptNumber, "error", err)
		}
	}
}

// isDuplicateErr reports whether err is a unique-constraint violation on the
// receipt number. GORM's TranslateError covers postgres; the string checks
// cover drivers that slip through.
func isDuplicateErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint") ||
		strings.Contains(msg, "duplicate key")
}

func abortReason(err error) string {
	switch {
	case errors.Is(err, apperror.ErrLicenseInvalid):
		return "license"
	case errors.Is(err, apperror.ErrAllocationExhausted):
		return "allocation"
	case errors.Is(err, apperror.ErrMemberNotFound):
		return "member"
	case isDuplicateErr(err):
		return "conflict"
	default:
		var insufficient *apperror.InsufficientPointsError
		if errors.As(err, &insufficient) {
			return "points"
		}
		var mismatch *tender.AmountMismatchError
		if errors.As(err, &mismatch) {
			return "tender"
		}
		return "entity"
	}
}
