package service

import (
	"context"
	"fmt"

	"github.com/xgym/backoffice-api/internal/domain/entity"
	"github.com/xgym/backoffice-api/internal/domain/enum"
	"github.com/xgym/backoffice-api/internal/domain/repository"
	"github.com/xgym/backoffice-api/pkg/apperror"
	"gorm.io/gorm"
)

// AttendanceService handles member check-ins and invitation use, both of
// which can earn loyalty points.
type AttendanceService struct {
	db       *gorm.DB
	ledger   *PointsLedger
	settings repository.SettingsRepository
}

// NewAttendanceService creates the attendance service.
func NewAttendanceService(db *gorm.DB, ledger *PointsLedger, settings repository.SettingsRepository) *AttendanceService {
	return &AttendanceService{db: db, ledger: ledger, settings: settings}
}

// CheckIn records a member visit and credits check-in points when the
// loyalty program is enabled.
func (s *AttendanceService) CheckIn(ctx context.Context, memberNumber int) (*entity.Member, int, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, 0, err
	}

	var member *entity.Member
	earned := 0
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := s.ledger.ResolveMember(tx, memberNumber)
		if err != nil {
			return err
		}
		if !m.IsActive {
			return apperror.NewBadRequestError("membership is not active")
		}

		if settings.PointsEnabled && settings.PointsPerCheckIn > 0 {
			desc := fmt.Sprintf("Check-in by member #%d", memberNumber)
			if err := s.ledger.Earn(tx, m.ID, settings.PointsPerCheckIn, enum.PointsActionCheckIn, desc); err != nil {
				return err
			}
			earned = settings.PointsPerCheckIn
			m.Points += earned
		}
		member = m
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return member, earned, nil
}

// UseInvitation consumes one of a member's guest invitations and credits
// invitation points. The decrement is conditional, so concurrent use can
// never drive the count negative.
func (s *AttendanceService) UseInvitation(ctx context.Context, memberNumber int, guestName string) (*entity.Member, int, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, 0, err
	}

	var member *entity.Member
	earned := 0
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := s.ledger.ResolveMember(tx, memberNumber)
		if err != nil {
			return err
		}

		res := tx.Model(&entity.Member{}).
			Where("id = ? AND invitations >= 1", m.ID).
			Update("invitations", gorm.Expr("invitations - 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperror.NewBadRequestError("no invitations remaining")
		}
		m.Invitations--

		if settings.PointsEnabled && settings.PointsPerInvitation > 0 {
			desc := fmt.Sprintf("Invitation used for guest %s", guestName)
			if err := s.ledger.Earn(tx, m.ID, settings.PointsPerInvitation, enum.PointsActionInvitation, desc); err != nil {
				return err
			}
			earned = settings.PointsPerInvitation
			m.Points += earned
		}
		member = m
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return member, earned, nil
}
