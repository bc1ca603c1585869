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

// NutritionService handles the nutrition-program product line.
type NutritionService struct {
	repo       repository.NutritionRepository
	settlement *Settlement
}

// NewNutritionService creates the nutrition service.
func NewNutritionService(repo repository.NutritionRepository, settlement *Settlement) *NutritionService {
	return &NutritionService{repo: repo, settlement: settlement}
}

// CreateNutritionInput holds a new nutrition-program sale.
type CreateNutritionInput struct {
	ClientName     string     `json:"client_name" binding:"required"`
	Phone          string     `json:"phone"`
	ProgramPrice   float64    `json:"program_price" binding:"required"`
	PaidAmount     float64    `json:"paid_amount"`
	Tenders        tender.Set `json:"tenders"`
	SpecialistName string     `json:"specialist_name"`
	FollowUps      int        `json:"follow_ups"`
	Months         int        `json:"months"`
	MemberNumber   int        `json:"member_number"`
	StaffName      string     `json:"staff_name"`
}

// RenewNutritionInput holds a nutrition-program renewal.
type RenewNutritionInput struct {
	ProgramPrice   float64    `json:"program_price" binding:"required"`
	PaidAmount     float64    `json:"paid_amount"`
	Tenders        tender.Set `json:"tenders"`
	SpecialistName string     `json:"specialist_name"`
	FollowUps      int        `json:"follow_ups"`
	Months         int        `json:"months"`
	MemberNumber   int        `json:"member_number"`
	StaffName      string     `json:"staff_name"`
}

// Create sells a new nutrition program.
func (s *NutritionService) Create(ctx context.Context, input *CreateNutritionInput) (*entity.Nutrition, *SettlementResult, error) {
	paid := input.PaidAmount
	if paid == 0 && len(input.Tenders) > 0 {
		paid = tender.Total(input.Tenders)
	}
	if input.Months <= 0 {
		input.Months = 1
	}

	var program *entity.Nutrition
	var commission *CommissionSpec
	if input.SpecialistName != "" {
		commission = &CommissionSpec{
			StaffName:   input.SpecialistName,
			Type:        "nutrition",
			BasisAmount: input.ProgramPrice,
			Description: fmt.Sprintf("New nutrition program for %s", input.ClientName),
		}
	}
	req := &SettlementRequest{
		Type:               enum.ReceiptNewNutrition,
		AmountDue:          paid,
		Tenders:            input.Tenders,
		StaffName:          input.StaffName,
		PointsMemberNumber: input.MemberNumber,
		Commission:         commission,
		Apply: func(tx *gorm.DB) (*EntityResult, error) {
			number, err := nextBusinessNumber(tx, &entity.Nutrition{}, "nutrition_number")
			if err != nil {
				return nil, err
			}

			now := time.Now()
			expiry := now.AddDate(0, input.Months, 0)
			n := entity.Nutrition{
				NutritionNumber: number,
				ClientName:      input.ClientName,
				Phone:           input.Phone,
				SpecialistName:  input.SpecialistName,
				ProgramPrice:    input.ProgramPrice,
				RemainingAmount: input.ProgramPrice - paid,
				FollowUps:       input.FollowUps,
				StartDate:       &now,
				ExpiryDate:      &expiry,
			}
			if err := tx.Create(&n).Error; err != nil {
				return nil, fmt.Errorf("failed to create nutrition program: %w", err)
			}
			program = &n
			if commission != nil {
				commission.LinkedNumber = n.NutritionNumber
			}

			result := &EntityResult{
				Details: map[string]interface{}{
					"nutritionNumber": n.NutritionNumber,
					"clientName":      n.ClientName,
					"programPrice":    n.ProgramPrice,
					"paidAmount":      paid,
					"remainingAmount": n.RemainingAmount,
					"specialistName":  n.SpecialistName,
					"followUps":       n.FollowUps,
				},
				Link: func(r *entity.Receipt) { r.NutritionID = &n.ID },
			}
			attachMemberLinkage(tx, result, input.MemberNumber, n.Phone)
			return result, nil
		},
	}

	result, err := s.settlement.Settle(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	return program, result, nil
}

// Renew renews an existing nutrition program.
func (s *NutritionService) Renew(ctx context.Context, nutritionNumber int, input *RenewNutritionInput) (*entity.Nutrition, *SettlementResult, error) {
	paid := input.PaidAmount
	if paid == 0 && len(input.Tenders) > 0 {
		paid = tender.Total(input.Tenders)
	}
	if input.Months <= 0 {
		input.Months = 1
	}

	var program *entity.Nutrition
	req := &SettlementRequest{
		Type:               enum.ReceiptNutritionRenewal,
		AmountDue:          paid,
		Tenders:            input.Tenders,
		StaffName:          input.StaffName,
		PointsMemberNumber: input.MemberNumber,
		Apply: func(tx *gorm.DB) (*EntityResult, error) {
			var n entity.Nutrition
			err := tx.First(&n, "nutrition_number = ?", nutritionNumber).Error
			if err == gorm.ErrRecordNotFound {
				return nil, apperror.NewNotFoundError("Nutrition program")
			}
			if err != nil {
				return nil, err
			}

			previousDebt := n.RemainingAmount
			now := time.Now()
			expiry := now.AddDate(0, input.Months, 0)

			n.ProgramPrice = input.ProgramPrice
			n.RemainingAmount = input.ProgramPrice - paid
			n.FollowUps += input.FollowUps
			if input.SpecialistName != "" {
				n.SpecialistName = input.SpecialistName
			}
			n.StartDate = &now
			n.ExpiryDate = &expiry
			if err := tx.Save(&n).Error; err != nil {
				return nil, fmt.Errorf("failed to renew nutrition program: %w", err)
			}
			program = &n

			result := &EntityResult{
				Details: map[string]interface{}{
					"nutritionNumber": n.NutritionNumber,
					"clientName":      n.ClientName,
					"programPrice":    n.ProgramPrice,
					"paidAmount":      paid,
					"previousDebt":    previousDebt,
					"remainingAmount": n.RemainingAmount,
				},
				Link: func(r *entity.Receipt) { r.NutritionID = &n.ID },
			}
			attachMemberLinkage(tx, result, input.MemberNumber, n.Phone)
			return result, nil
		},
	}
	if input.SpecialistName != "" {
		req.Commission = &CommissionSpec{
			StaffName:    input.SpecialistName,
			Type:         "nutrition",
			BasisAmount:  input.ProgramPrice,
			LinkedNumber: nutritionNumber,
			Description:  "Nutrition program renewal",
		}
	}

	result, err := s.settlement.Settle(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	return program, result, nil
}

// PayRemaining settles outstanding debt on a nutrition program.
func (s *NutritionService) PayRemaining(ctx context.Context, nutritionNumber int, input *PayRemainingInput) (*entity.Nutrition, *SettlementResult, error) {
	var program *entity.Nutrition
	req := &SettlementRequest{
		Type:               enum.ReceiptNutritionPayRemaining,
		AmountDue:          input.Amount,
		Tenders:            input.Tenders,
		StaffName:          input.StaffName,
		PointsMemberNumber: input.MemberNumber,
		Apply: func(tx *gorm.DB) (*EntityResult, error) {
			var n entity.Nutrition
			err := tx.First(&n, "nutrition_number = ?", nutritionNumber).Error
			if err == gorm.ErrRecordNotFound {
				return nil, apperror.NewNotFoundError("Nutrition program")
			}
			if err != nil {
				return nil, err
			}
			if input.Amount > n.RemainingAmount+tender.Epsilon {
				return nil, apperror.NewBadRequestError("payment exceeds remaining amount")
			}

			n.RemainingAmount -= input.Amount
			if n.RemainingAmount < 0 {
				n.RemainingAmount = 0
			}
			if err := tx.Save(&n).Error; err != nil {
				return nil, fmt.Errorf("failed to record nutrition payment: %w", err)
			}
			program = &n

			result := &EntityResult{
				Details: map[string]interface{}{
					"nutritionNumber": n.NutritionNumber,
					"clientName":      n.ClientName,
					"paidAmount":      input.Amount,
					"remainingAmount": n.RemainingAmount,
				},
				Link: func(r *entity.Receipt) { r.NutritionID = &n.ID },
			}
			attachMemberLinkage(tx, result, input.MemberNumber, n.Phone)
			return result, nil
		},
	}

	result, err := s.settlement.Settle(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	return program, result, nil
}

// UseFollowUp consumes one follow-up visit from a program. The decrement is
// conditional so two concurrent check-ins cannot take the count negative.
func (s *NutritionService) UseFollowUp(ctx context.Context, nutritionNumber int) (*entity.Nutrition, error) {
	var program *entity.Nutrition
	err := s.settlement.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entity.Nutrition{}).
			Where("nutrition_number = ? AND follow_ups >= 1", nutritionNumber).
			Update("follow_ups", gorm.Expr("follow_ups - 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var n entity.Nutrition
			err := tx.First(&n, "nutrition_number = ?", nutritionNumber).Error
			if err == gorm.ErrRecordNotFound {
				return apperror.NewNotFoundError("Nutrition program")
			}
			if err != nil {
				return err
			}
			return apperror.NewBadRequestError("no follow-ups remaining")
		}
		var n entity.Nutrition
		if err := tx.First(&n, "nutrition_number = ?", nutritionNumber).Error; err != nil {
			return err
		}
		program = &n
		return nil
	})
	if err != nil {
		return nil, err
	}
	return program, nil
}

// GetByNumber returns a nutrition program by business number.
func (s *NutritionService) GetByNumber(ctx context.Context, number int) (*entity.Nutrition, error) {
	program, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if program == nil {
		return nil, apperror.NewNotFoundError("Nutrition program")
	}
	return program, nil
}

// List returns nutrition programs matching the filter.
func (s *NutritionService) List(ctx context.Context, params *repository.SubscriptionFilterParams) (*pagination.PaginatedResult[entity.Nutrition], error) {
	params.Pagination.Validate()
	programs, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	p := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(programs, p), nil
}

// Delete removes a nutrition record. Administrative use only.
func (s *NutritionService) Delete(ctx context.Context, id uuid.UUID) error {
	program, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if program == nil {
		return apperror.NewNotFoundError("Nutrition program")
	}
	return s.repo.Delete(ctx, program.ID)
}
