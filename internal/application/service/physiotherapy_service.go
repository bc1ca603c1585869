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

// PhysiotherapyService handles the physiotherapy product line.
type PhysiotherapyService struct {
	repo       repository.PhysiotherapyRepository
	users      repository.UserRepository
	settlement *Settlement
}

// NewPhysiotherapyService creates the physiotherapy service.
func NewPhysiotherapyService(repo repository.PhysiotherapyRepository, users repository.UserRepository, settlement *Settlement) *PhysiotherapyService {
	return &PhysiotherapyService{repo: repo, users: users, settlement: settlement}
}

// CreatePhysiotherapyInput holds a new physiotherapy package sale.
type CreatePhysiotherapyInput struct {
	ClientName      string     `json:"client_name" binding:"required"`
	Phone           string     `json:"phone"`
	Sessions        int        `json:"sessions" binding:"required"`
	PricePerSession float64    `json:"price_per_session" binding:"required"`
	PaidAmount      float64    `json:"paid_amount"`
	Tenders         tender.Set `json:"tenders"`
	TherapistName   string     `json:"therapist_name"`
	Months          int        `json:"months"`
	MemberNumber    int        `json:"member_number"`
	StaffName       string     `json:"staff_name"`
}

// RenewPhysiotherapyInput holds a physiotherapy package renewal.
type RenewPhysiotherapyInput struct {
	Sessions        int        `json:"sessions" binding:"required"`
	PricePerSession float64    `json:"price_per_session" binding:"required"`
	PaidAmount      float64    `json:"paid_amount"`
	Tenders         tender.Set `json:"tenders"`
	TherapistName   string     `json:"therapist_name"`
	Months          int        `json:"months"`
	MemberNumber    int        `json:"member_number"`
	StaffName       string     `json:"staff_name"`
}

// Create sells a new physiotherapy package.
func (s *PhysiotherapyService) Create(ctx context.Context, input *CreatePhysiotherapyInput) (*entity.Physiotherapy, *SettlementResult, error) {
	total := float64(input.Sessions) * input.PricePerSession
	paid := input.PaidAmount
	if paid == 0 && len(input.Tenders) > 0 {
		paid = tender.Total(input.Tenders)
	}
	if input.Months <= 0 {
		input.Months = 1
	}

	var physio *entity.Physiotherapy
	var commission *CommissionSpec
	if input.TherapistName != "" {
		commission = &CommissionSpec{
			StaffName:   input.TherapistName,
			Type:        "physiotherapy",
			BasisAmount: total,
			Description: fmt.Sprintf("New physiotherapy package for %s", input.ClientName),
		}
	}
	req := &SettlementRequest{
		Type:               enum.ReceiptNewPhysiotherapy,
		AmountDue:          paid,
		Tenders:            input.Tenders,
		StaffName:          input.StaffName,
		PointsMemberNumber: input.MemberNumber,
		Commission:         commission,
		Apply: func(tx *gorm.DB) (*EntityResult, error) {
			number, err := nextBusinessNumber(tx, &entity.Physiotherapy{}, "physio_number")
			if err != nil {
				return nil, err
			}

			now := time.Now()
			expiry := now.AddDate(0, input.Months, 0)
			p := entity.Physiotherapy{
				PhysioNumber:      number,
				ClientName:        input.ClientName,
				Phone:             input.Phone,
				SessionsPurchased: input.Sessions,
				SessionsRemaining: input.Sessions,
				TherapistName:     input.TherapistName,
				PricePerSession:   input.PricePerSession,
				RemainingAmount:   total - paid,
				StartDate:         &now,
				ExpiryDate:        &expiry,
			}
			if input.TherapistName != "" {
				if therapist, err := s.users.GetByName(tx.Statement.Context, input.TherapistName); err == nil && therapist != nil {
					p.TherapistUserID = &therapist.ID
				}
			}
			if err := tx.Create(&p).Error; err != nil {
				return nil, fmt.Errorf("failed to create physiotherapy package: %w", err)
			}
			physio = &p
			if commission != nil {
				commission.LinkedNumber = p.PhysioNumber
			}

			result := &EntityResult{
				Details: map[string]interface{}{
					"physioNumber":    p.PhysioNumber,
					"clientName":      p.ClientName,
					"sessions":        p.SessionsPurchased,
					"pricePerSession": p.PricePerSession,
					"totalPrice":      total,
					"paidAmount":      paid,
					"remainingAmount": p.RemainingAmount,
					"therapistName":   p.TherapistName,
				},
				Link: func(r *entity.Receipt) { r.PhysiotherapyID = &p.ID },
			}
			attachMemberLinkage(tx, result, input.MemberNumber, p.Phone)
			return result, nil
		},
	}

	result, err := s.settlement.Settle(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	return physio, result, nil
}

// Renew renews an existing physiotherapy package.
func (s *PhysiotherapyService) Renew(ctx context.Context, physioNumber int, input *RenewPhysiotherapyInput) (*entity.Physiotherapy, *SettlementResult, error) {
	total := float64(input.Sessions) * input.PricePerSession
	paid := input.PaidAmount
	if paid == 0 && len(input.Tenders) > 0 {
		paid = tender.Total(input.Tenders)
	}
	if input.Months <= 0 {
		input.Months = 1
	}

	var physio *entity.Physiotherapy
	req := &SettlementRequest{
		Type:               enum.ReceiptPhysiotherapyRenewal,
		AmountDue:          paid,
		Tenders:            input.Tenders,
		StaffName:          input.StaffName,
		PointsMemberNumber: input.MemberNumber,
		Apply: func(tx *gorm.DB) (*EntityResult, error) {
			var p entity.Physiotherapy
			err := tx.First(&p, "physio_number = ?", physioNumber).Error
			if err == gorm.ErrRecordNotFound {
				return nil, apperror.NewNotFoundError("Physiotherapy package")
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
			if input.TherapistName != "" {
				p.TherapistName = input.TherapistName
			}
			p.StartDate = &now
			p.ExpiryDate = &expiry
			if err := tx.Save(&p).Error; err != nil {
				return nil, fmt.Errorf("failed to renew physiotherapy package: %w", err)
			}
			physio = &p

			result := &EntityResult{
				Details: map[string]interface{}{
					"physioNumber":    p.PhysioNumber,
					"clientName":      p.ClientName,
					"sessions":        input.Sessions,
					"pricePerSession": p.PricePerSession,
					"totalPrice":      total,
					"paidAmount":      paid,
					"previousDebt":    previousDebt,
					"remainingAmount": p.RemainingAmount,
				},
				Link: func(r *entity.Receipt) { r.PhysiotherapyID = &p.ID },
			}
			attachMemberLinkage(tx, result, input.MemberNumber, p.Phone)
			return result, nil
		},
	}
	if input.TherapistName != "" {
		req.Commission = &CommissionSpec{
			StaffName:    input.TherapistName,
			Type:         "physiotherapy",
			BasisAmount:  total,
			LinkedNumber: physioNumber,
			Description:  "Physiotherapy package renewal",
		}
	}

	result, err := s.settlement.Settle(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	return physio, result, nil
}

// PayRemaining settles outstanding debt on a physiotherapy package.
func (s *PhysiotherapyService) PayRemaining(ctx context.Context, physioNumber int, input *PayRemainingInput) (*entity.Physiotherapy, *SettlementResult, error) {
	var physio *entity.Physiotherapy
	req := &SettlementRequest{
		Type:               enum.ReceiptPhysiotherapyPayRemaining,
		AmountDue:          input.Amount,
		Tenders:            input.Tenders,
		StaffName:          input.StaffName,
		PointsMemberNumber: input.MemberNumber,
		Apply: func(tx *gorm.DB) (*EntityResult, error) {
			var p entity.Physiotherapy
			err := tx.First(&p, "physio_number = ?", physioNumber).Error
			if err == gorm.ErrRecordNotFound {
				return nil, apperror.NewNotFoundError("Physiotherapy package")
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
				return nil, fmt.Errorf("failed to record physiotherapy payment: %w", err)
			}
			physio = &p

			result := &EntityResult{
				Details: map[string]interface{}{
					"physioNumber":    p.PhysioNumber,
					"clientName":      p.ClientName,
					"paidAmount":      input.Amount,
					"remainingAmount": p.RemainingAmount,
				},
				Link: func(r *entity.Receipt) { r.PhysiotherapyID = &p.ID },
			}
			attachMemberLinkage(tx, result, input.MemberNumber, p.Phone)
			return result, nil
		},
	}

	result, err := s.settlement.Settle(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	return physio, result, nil
}

// UseSession consumes one session from a physiotherapy package.
func (s *PhysiotherapyService) UseSession(ctx context.Context, physioNumber int) (*entity.Physiotherapy, error) {
	var physio *entity.Physiotherapy
	err := s.settlement.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entity.Physiotherapy{}).
			Where("physio_number = ? AND sessions_remaining >= 1", physioNumber).
			Update("sessions_remaining", gorm.Expr("sessions_remaining - 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var p entity.Physiotherapy
			err := tx.First(&p, "physio_number = ?", physioNumber).Error
			if err == gorm.ErrRecordNotFound {
				return apperror.NewNotFoundError("Physiotherapy package")
			}
			if err != nil {
				return err
			}
			return apperror.NewBadRequestError("no sessions remaining")
		}
		var p entity.Physiotherapy
		if err := tx.First(&p, "physio_number = ?", physioNumber).Error; err != nil {
			return err
		}
		physio = &p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return physio, nil
}

// GetByNumber returns a physiotherapy package by business number.
func (s *PhysiotherapyService) GetByNumber(ctx context.Context, number int) (*entity.Physiotherapy, error) {
	physio, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if physio == nil {
		return nil, apperror.NewNotFoundError("Physiotherapy package")
	}
	return physio, nil
}

// List returns physiotherapy packages matching the filter.
func (s *PhysiotherapyService) List(ctx context.Context, params *repository.SubscriptionFilterParams) (*pagination.PaginatedResult[entity.Physiotherapy], error) {
	params.Pagination.Validate()
	physios, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	p := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(physios, p), nil
}

// Delete removes a physiotherapy record. Administrative use only.
func (s *PhysiotherapyService) Delete(ctx context.Context, id uuid.UUID) error {
	physio, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if physio == nil {
		return apperror.NewNotFoundError("Physiotherapy package")
	}
	return s.repo.Delete(ctx, physio.ID)
}
