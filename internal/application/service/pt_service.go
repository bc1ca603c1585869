package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/xgym/backoffice-api/internal/domain/entity"
	"github.com/xgym/backoffice-api/internal/domain/enum"
	"github.com/xgym/backoffice-api/internal/domain/repository"
	"github.com/xgym/backoffice-api/pkg/apperror"
	"github.com/xgym/backoffice-api/pkg/pagination"
	"github.com/xgym/backoffice-api/pkg/tender"
	"gorm.io/gorm"
)

// PTService handles the personal-training product line.
type PTService struct {
	repo       repository.PTRepository
	users      repository.UserRepository
	settlement *Settlement
}

// NewPTService creates the PT service.
func NewPTService(repo repository.PTRepository, users repository.UserRepository, settlement *Settlement) *PTService {
	return &PTService{repo: repo, users: users, settlement: settlement}
}

// CreatePTInput holds a new PT package sale.
type CreatePTInput struct {
	ClientName      string     `json:"client_name" binding:"required"`
	Phone           string     `json:"phone"`
	Sessions        int        `json:"sessions" binding:"required"`
	PricePerSession float64    `json:"price_per_session" binding:"required"`
	PaidAmount      float64    `json:"paid_amount"`
	Tenders         tender.Set `json:"tenders"`
	CoachName       string     `json:"coach_name"`
	Months          int        `json:"months"`
	// MemberNumber links the sale to a member for points tender and rewards.
	MemberNumber int    `json:"member_number"`
	StaffName    string `json:"staff_name"`
}

// RenewPTInput holds a PT package renewal.
type RenewPTInput struct {
	Sessions        int        `json:"sessions" binding:"required"`
	PricePerSession float64    `json:"price_per_session" binding:"required"`
	PaidAmount      float64    `json:"paid_amount"`
	Tenders         tender.Set `json:"tenders"`
	CoachName       string     `json:"coach_name"`
	Months          int        `json:"months"`
	MemberNumber    int        `json:"member_number"`
	StaffName       string     `json:"staff_name"`
}

// PayRemainingInput holds a debt payment against an existing package.
type PayRemainingInput struct {
	Amount       float64    `json:"amount" binding:"required"`
	Tenders      tender.Set `json:"tenders"`
	MemberNumber int        `json:"member_number"`
	StaffName    string     `json:"staff_name"`
}

// Create sells a new PT package.
func (s *PTService) Create(ctx context.Context, input *CreatePTInput) (*entity.PT, *SettlementResult, error) {
	total := float64(input.Sessions) * input.PricePerSession
	paid := input.PaidAmount
	if paid == 0 && len(input.Tenders) > 0 {
		paid = tender.Total(input.Tenders)
	}
	if input.Months <= 0 {
		input.Months = 1
	}

	var pt *entity.PT
	var commission *CommissionSpec
	if input.CoachName != "" {
		commission = &CommissionSpec{
			StaffName:   input.CoachName,
			Type:        "pt",
			BasisAmount: total,
			Description: fmt.Sprintf("New PT package for %s", input.ClientName),
		}
	}
	req := &SettlementRequest{
		Type:               enum.ReceiptNewPT,
		AmountDue:          paid,
		Tenders:            input.Tenders,
		StaffName:          input.StaffName,
		PointsMemberNumber: input.MemberNumber,
		Commission:         commission,
		Apply: func(tx *gorm.DB) (*EntityResult, error) {
			number, err := nextBusinessNumber(tx, &entity.PT{}, "pt_number")
			if err != nil {
				return nil, err
			}

			now := time.Now()
			expiry := now.AddDate(0, input.Months, 0)
			p := entity.PT{
				PTNumber:          number,
				ClientName:        input.ClientName,
				Phone:             input.Phone,
				SessionsPurchased: input.Sessions,
				SessionsRemaining: input.Sessions,
				CoachName:         input.CoachName,
				PricePerSession:   input.PricePerSession,
				RemainingAmount:   total - paid,
				StartDate:         &now,
				ExpiryDate:        &expiry,
			}
			if input.CoachName != "" {
				if coach, err := s.users.GetByName(tx.Statement.Context, input.CoachName); err == nil && coach != nil {
					p.CoachUserID = &coach.ID
				}
			}
			if err := tx.Create(&p).Error; err != nil {
				return nil, fmt.Errorf("failed to create PT package: %w", err)
			}
			pt = &p
			if commission != nil {
				commission.LinkedNumber = p.PTNumber
			}

			result := &EntityResult{
				Details: map[string]interface{}{
					"ptNumber":        p.PTNumber,
					"clientName":      p.ClientName,
					"sessions":        p.SessionsPurchased,
					"pricePerSession": p.PricePerSession,
					"totalPrice":      total,
					"paidAmount":      paid,
					"remainingAmount": p.RemainingAmount,
					"coachName":       p.CoachName,
				},
				Link: func(r *entity.Receipt) { r.PTID = &p.ID },
			}
			attachMemberLinkage(tx, result, input.MemberNumber, p.Phone)
			return result, nil
		},
	}

	result, err := s.settlement.Settle(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	return pt, result, nil
}

// Renew renews an existing PT package with new sessions.
func (s *PTService) Renew(ctx context.Context, ptNumber int, input *RenewPTInput) (*entity.PT, *SettlementResult, error) {
	total := float64(input.Sessions) * input.PricePerSession
	paid := input.PaidAmount
	if paid == 0 && len(input.Tenders) > 0 {
		paid = tender.Total(input.Tenders)
	}
	if input.Months <= 0 {
		input.Months = 1
	}

	var pt *entity.PT
	req := &SettlementRequest{
		Type:               enum.ReceiptPTRenewal,
		AmountDue:          paid,
		Tenders:            input.Tenders,
		StaffName:          input.StaffName,
		PointsMemberNumber: input.MemberNumber,
		Apply: func(tx *gorm.DB) (*EntityResult, error) {
			var p entity.PT
			err := tx.First(&p, "pt_number = ?", ptNumber).Error
			if err == gorm.ErrRecordNotFound {
				return nil, apperror.NewNotFoundError("PT package")
			}
			if err != nil {
				return nil, err
			}

			previousDebt := p.RemainingAmount
			now := time.Now()
			expiry := now.AddDate(0, input.Months, 0)

			p.SessionsPurchased = input.Sessions
			p.SessionsRemaining += input.Sessions
			p.PricePerSession = input.PricePerSession
			p.RemainingAmount = total - paid
			if input.CoachName != "" {
				p.CoachName = input.CoachName
			}
			p.StartDate = &now
			p.ExpiryDate = &expiry
			if err := tx.Save(&p).Error; err != nil {
				return nil, fmt.Errorf("failed to renew PT package: %w", err)
			}
			pt = &p

			result := &EntityResult{
				Details: map[string]interface{}{
					"ptNumber":        p.PTNumber,
					"clientName":      p.ClientName,
					"sessions":        input.Sessions,
					"pricePerSession": p.PricePerSession,
					"totalPrice":      total,
					"paidAmount":      paid,
					"previousDebt":    previousDebt,
					"remainingAmount": p.RemainingAmount,
				},
				Link: func(r *entity.Receipt) { r.PTID = &p.ID },
			}
			attachMemberLinkage(tx, result, input.MemberNumber, p.Phone)
			return result, nil
		},
	}
	if input.CoachName != "" {
		req.Commission = &CommissionSpec{
			StaffName:    input.CoachName,
			Type:         "pt",
			BasisAmount:  total,
			LinkedNumber: ptNumber,
			Description:  "PT package renewal",
		}
	}

	result, err := s.settlement.Settle(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	return pt, result, nil
}

// PayRemaining settles outstanding debt on a PT package.
func (s *PTService) PayRemaining(ctx context.Context, ptNumber int, input *PayRemainingInput) (*entity.PT, *SettlementResult, error) {
	var pt *entity.PT
	req := &SettlementRequest{
		Type:               enum.ReceiptPTPayRemaining,
		AmountDue:          input.Amount,
		Tenders:            input.Tenders,
		StaffName:          input.StaffName,
		PointsMemberNumber: input.MemberNumber,
		Apply: func(tx *gorm.DB) (*EntityResult, error) {
			var p entity.PT
			err := tx.First(&p, "pt_number = ?", ptNumber).Error
			if err == gorm.ErrRecordNotFound {
				return nil, apperror.NewNotFoundError("PT package")
			}
			if err != nil {
				return nil, err
			}
			if input.Amount > p.RemainingAmount+tender.Epsilon {
				return nil, apperror.NewBadRequestError("payment exceeds remaining amount")
			}

			p.RemainingAmount -= input.Amount
			if p.RemainingAmount < 0 {
				p.RemainingAmount = 0
			}
			if err := tx.Save(&p).Error; err != nil {
				return nil, fmt.Errorf("failed to record PT payment: %w", err)
			}
			pt = &p

			result := &EntityResult{
				Details: map[string]interface{}{
					"ptNumber":        p.PTNumber,
					"clientName":      p.ClientName,
					"paidAmount":      input.Amount,
					"remainingAmount": p.RemainingAmount,
				},
				Link: func(r *entity.Receipt) { r.PTID = &p.ID },
			}
			attachMemberLinkage(tx, result, input.MemberNumber, p.Phone)
			return result, nil
		},
	}

	result, err := s.settlement.Settle(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	return pt, result, nil
}

// UseSession consumes one session from a package. The decrement is
// conditional, so concurrent check-ins can never drive sessions negative.
func (s *PTService) UseSession(ctx context.Context, ptNumber int) (*entity.PT, error) {
	var pt *entity.PT
	err := s.settlement.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entity.PT{}).
			Where("pt_number = ? AND sessions_remaining >= 1", ptNumber).
			Update("sessions_remaining", gorm.Expr("sessions_remaining - 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var p entity.PT
			err := tx.First(&p, "pt_number = ?", ptNumber).Error
			if err == gorm.ErrRecordNotFound {
				return apperror.NewNotFoundError("PT package")
			}
			if err != nil {
				return err
			}
			return apperror.NewBadRequestError("no sessions remaining")
		}
		var p entity.PT
		if err := tx.First(&p, "pt_number = ?", ptNumber).Error; err != nil {
			return err
		}
		pt = &p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pt, nil
}

// GetByNumber returns a PT package by business number.
func (s *PTService) GetByNumber(ctx context.Context, number int) (*entity.PT, error) {
	pt, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if pt == nil {
		return nil, apperror.NewNotFoundError("PT package")
	}
	return pt, nil
}

// List returns PT packages matching the filter.
func (s *PTService) List(ctx context.Context, params *repository.SubscriptionFilterParams) (*pagination.PaginatedResult[entity.PT], error) {
	params.Pagination.Validate()
	pts, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	p := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(pts, p), nil
}

// Delete removes a PT package. Administrative use only.
func (s *PTService) Delete(ctx context.Context, id uuid.UUID) error {
	pt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if pt == nil {
		return apperror.NewNotFoundError("PT package")
	}
	return s.repo.Delete(ctx, pt.ID)
}

// nextBusinessNumber computes the next positive business number for a model
// inside a transaction.
func nextBusinessNumber(tx *gorm.DB, model interface{}, column string) (int, error) {
	var max int
	err := tx.Model(model).
		Select("COALESCE(MAX(" + column + "), 0)").
		Where(column + " > 0").
		Scan(&max).Error
	if err != nil {
		return 0, fmt.Errorf("failed to compute next %s: %w", column, err)
	}
	return max + 1, nil
}

// attachMemberLinkage resolves an optional member inside the transaction and
// wires points and reward linkage into the entity result. Resolution tries
// the membership number first; when that resolves nothing it falls back to
// the phone the sale was recorded under. A sale that resolves no member
// simply earns no rewards.
func attachMemberLinkage(tx *gorm.DB, result *EntityResult, memberNumber int, phone string) {
	var member entity.Member
	found := false
	if memberNumber > 0 {
		found = tx.First(&member, "member_number = ?", memberNumber).Error == nil
	}
	if !found && phone != "" {
		found = tx.First(&member, "phone = ?", phone).Error == nil
	}
	if !found {
		return
	}
	id := member.ID
	result.PointsMemberID = &id
	result.RewardMemberID = &id
}
