package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
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

// GroupClassService handles the group-class product line. Day-use visits sold
// through the group-class desk share the table under negative class numbers.
type GroupClassService struct {
	repo       repository.GroupClassRepository
	users      repository.UserRepository
	settlement *Settlement
}

// NewGroupClassService creates the group-class service.
func NewGroupClassService(repo repository.GroupClassRepository, users repository.UserRepository, settlement *Settlement) *GroupClassService {
	return &GroupClassService{repo: repo, users: users, settlement: settlement}
}

// CreateGroupClassInput holds a new group-class package sale.
type CreateGroupClassInput struct {
	ClientName      string     `json:"client_name" binding:"required"`
	Phone           string     `json:"phone"`
	Sessions        int        `json:"sessions" binding:"required"`
	PricePerSession float64    `json:"price_per_session" binding:"required"`
	PaidAmount      float64    `json:"paid_amount"`
	Tenders         tender.Set `json:"tenders"`
	InstructorName  string     `json:"instructor_name"`
	Months          int        `json:"months"`
	MemberNumber    int        `json:"member_number"`
	StaffName       string     `json:"staff_name"`
}

// RenewGroupClassInput holds a group-class package renewal.
type RenewGroupClassInput struct {
	Sessions        int        `json:"sessions" binding:"required"`
	PricePerSession float64    `json:"price_per_session" binding:"required"`
	PaidAmount      float64    `json:"paid_amount"`
	Tenders         tender.Set `json:"tenders"`
	InstructorName  string     `json:"instructor_name"`
	Months          int        `json:"months"`
	MemberNumber    int        `json:"member_number"`
	StaffName       string     `json:"staff_name"`
}

// GroupClassDayUseInput holds a single-visit day-use sale through the
// group-class desk.
type GroupClassDayUseInput struct {
	ClientName   string     `json:"client_name" binding:"required"`
	Phone        string     `json:"phone"`
	Price        float64    `json:"price" binding:"required"`
	Tenders      tender.Set `json:"tenders"`
	MemberNumber int        `json:"member_number"`
	StaffName    string     `json:"staff_name"`
}

// Create sells a new group-class package.
func (s *GroupClassService) Create(ctx context.Context, input *CreateGroupClassInput) (*entity.GroupClass, *SettlementResult, error) {
	total := float64(input.Sessions) * input.PricePerSession
	paid := input.PaidAmount
	if paid == 0 && len(input.Tenders) > 0 {
		paid = tender.Total(input.Tenders)
	}
	if input.Months <= 0 {
		input.Months = 1
	}

	var class *entity.GroupClass
	var commission *CommissionSpec
	if input.InstructorName != "" {
		commission = &CommissionSpec{
			StaffName:   input.InstructorName,
			Type:        "groupClass",
			BasisAmount: total,
			Description: fmt.Sprintf("New group class package for %s", input.ClientName),
		}
	}
	req := &SettlementRequest{
		Type:               enum.ReceiptNewGroupClass,
		AmountDue:          paid,
		Tenders:            input.Tenders,
		StaffName:          input.StaffName,
		PointsMemberNumber: input.MemberNumber,
		Commission:         commission,
		Apply: func(tx *gorm.DB) (*EntityResult, error) {
			number, err := nextBusinessNumber(tx, &entity.GroupClass{}, "class_number")
			if err != nil {
				return nil, err
			}

			now := time.Now()
			expiry := now.AddDate(0, input.Months, 0)
			g := entity.GroupClass{
				ClassNumber:       number,
				ClientName:        input.ClientName,
				Phone:             input.Phone,
				SessionsPurchased: input.Sessions,
				SessionsRemaining: input.Sessions,
				InstructorName:    input.InstructorName,
				PricePerSession:   input.PricePerSession,
				RemainingAmount:   total - paid,
				Barcode:           generateBarcode(),
				StartDate:         &now,
				ExpiryDate:        &expiry,
			}
			if input.InstructorName != "" {
				if instructor, err := s.users.GetByName(tx.Statement.Context, input.InstructorName); err == nil && instructor != nil {
					g.InstructorUserID = &instructor.ID
				}
			}
			if err := tx.Create(&g).Error; err != nil {
				return nil, fmt.Errorf("failed to create group class: %w", err)
			}
			class = &g
			if commission != nil {
				commission.LinkedNumber = g.ClassNumber
			}

			result := &EntityResult{
				Details: map[string]interface{}{
					"classNumber":     g.ClassNumber,
					"clientName":      g.ClientName,
					"sessions":        g.SessionsPurchased,
					"pricePerSession": g.PricePerSession,
					"totalPrice":      total,
					"paidAmount":      paid,
					"remainingAmount": g.RemainingAmount,
					"instructorName":  g.InstructorName,
					"barcode":         g.Barcode,
				},
				Link: func(r *entity.Receipt) { r.GroupClassID = &g.ID },
			}
			attachMemberLinkage(tx, result, input.MemberNumber, g.Phone)
			return result, nil
		},
	}

	result, err := s.settlement.Settle(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	return class, result, nil
}

// Renew renews an existing group-class package.
func (s *GroupClassService) Renew(ctx context.Context, classNumber int, input *RenewGroupClassInput) (*entity.GroupClass, *SettlementResult, error) {
	total := float64(input.Sessions) * input.PricePerSession
	paid := input.PaidAmount
	if paid == 0 && len(input.Tenders) > 0 {
		paid = tender.Total(input.Tenders)
	}
	if input.Months <= 0 {
		input.Months = 1
	}

	var class *entity.GroupClass
	req := &SettlementRequest{
		Type:               enum.ReceiptGroupClassRenewal,
		AmountDue:          paid,
		Tenders:            input.Tenders,
		StaffName:          input.StaffName,
		PointsMemberNumber: input.MemberNumber,
		Apply: func(tx *gorm.DB) (*EntityResult, error) {
			var g entity.GroupClass
			err := tx.First(&g, "class_number = ?", classNumber).Error
			if err == gorm.ErrRecordNotFound {
				return nil, apperror.NewNotFoundError("Group class")
			}
			if err != nil {
				return nil, err
			}
			if g.IsDayUse() {
				return nil, apperror.NewBadRequestError("day-use records cannot be renewed")
			}

			previousDebt := g.RemainingAmount
			now := time.Now()
			expiry := now.AddDate(0, input.Months, 0)

			g.SessionsPurchased = input.Sessions
			g.SessionsRemaining += input.Sessions
			g.PricePerSession = input.PricePerSession
			g.RemainingAmount = total - paid
			if input.InstructorName != "" {
				g.InstructorName = input.InstructorName
			}
			g.StartDate = &now
			g.ExpiryDate = &expiry
			if err := tx.Save(&g).Error; err != nil {
				return nil, fmt.Errorf("failed to renew group class: %w", err)
			}
			class = &g

			result := &EntityResult{
				Details: map[string]interface{}{
					"classNumber":     g.ClassNumber,
					"clientName":      g.ClientName,
					"sessions":        input.Sessions,
					"pricePerSession": g.PricePerSession,
					"totalPrice":      total,
					"paidAmount":      paid,
					"previousDebt":    previousDebt,
					"remainingAmount": g.RemainingAmount,
				},
				Link: func(r *entity.Receipt) { r.GroupClassID = &g.ID },
			}
			attachMemberLinkage(tx, result, input.MemberNumber, g.Phone)
			return result, nil
		},
	}
	if input.InstructorName != "" {
		req.Commission = &CommissionSpec{
			StaffName:    input.InstructorName,
			Type:         "groupClass",
			BasisAmount:  total,
			LinkedNumber: classNumber,
			Description:  "Group class package renewal",
		}
	}

	result, err := s.settlement.Settle(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	return class, result, nil
}

// SellDayUse sells a single day-use visit through the group-class desk. The
// record lands in the group-class table under the next negative number.
func (s *GroupClassService) SellDayUse(ctx context.Context, input *GroupClassDayUseInput) (*entity.GroupClass, *SettlementResult, error) {
	var class *entity.GroupClass
	req := &SettlementRequest{
		Type:               enum.ReceiptGroupClassDayUse,
		AmountDue:          input.Price,
		Tenders:            input.Tenders,
		StaffName:          input.StaffName,
		PointsMemberNumber: input.MemberNumber,
		Apply: func(tx *gorm.DB) (*EntityResult, error) {
			number, err := nextNegativeNumber(tx, "group_classes", "class_number")
			if err != nil {
				return nil, err
			}

			now := time.Now()
			g := entity.GroupClass{
				ClassNumber:       number,
				ClientName:        input.ClientName,
				Phone:             input.Phone,
				SessionsPurchased: 1,
				SessionsRemaining: 1,
				PricePerSession:   input.Price,
				Barcode:           generateBarcode(),
				StartDate:         &now,
			}
			if err := tx.Create(&g).Error; err != nil {
				return nil, fmt.Errorf("failed to create day-use record: %w", err)
			}
			class = &g

			result := &EntityResult{
				Details: map[string]interface{}{
					"classNumber": g.ClassNumber,
					"clientName":  g.ClientName,
					"price":       input.Price,
					"dayUse":      true,
				},
				Link: func(r *entity.Receipt) { r.GroupClassID = &g.ID },
			}
			attachMemberLinkage(tx, result, input.MemberNumber, g.Phone)
			return result, nil
		},
	}

	result, err := s.settlement.Settle(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	return class, result, nil
}

// PayRemaining settles outstanding debt on a group-class package.
func (s *GroupClassService) PayRemaining(ctx context.Context, classNumber int, input *PayRemainingInput) (*entity.GroupClass, *SettlementResult, error) {
	var class *entity.GroupClass
	req := &SettlementRequest{
		Type:               enum.ReceiptGroupClassPayRemaining,
		AmountDue:          input.Amount,
		Tenders:            input.Tenders,
		StaffName:          input.StaffName,
		PointsMemberNumber: input.MemberNumber,
		Apply: func(tx *gorm.DB) (*EntityResult, error) {
			var g entity.GroupClass
			err := tx.First(&g, "class_number = ?", classNumber).Error
			if err == gorm.ErrRecordNotFound {
				return nil, apperror.NewNotFoundError("Group class")
			}
			if err != nil {
				return nil, err
			}
			if input.Amount > g.RemainingAmount+tender.Epsilon {
				return nil, apperror.NewBadRequestError("payment exceeds remaining amount")
			}

			g.RemainingAmount -= input.Amount
			if g.RemainingAmount < 0 {
				g.RemainingAmount = 0
			}
			if err := tx.Save(&g).Error; err != nil {
				return nil, fmt.Errorf("failed to record group class payment: %w", err)
			}
			class = &g

			result := &EntityResult{
				Details: map[string]interface{}{
					"classNumber":     g.ClassNumber,
					"clientName":      g.ClientName,
					"paidAmount":      input.Amount,
					"remainingAmount": g.RemainingAmount,
				},
				Link: func(r *entity.Receipt) { r.GroupClassID = &g.ID },
			}
			attachMemberLinkage(tx, result, input.MemberNumber, g.Phone)
			return result, nil
		},
	}

	result, err := s.settlement.Settle(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	return class, result, nil
}

// CheckInByBarcode consumes one session from the package carrying the
// scanned barcode.
func (s *GroupClassService) CheckInByBarcode(ctx context.Context, barcode string) (*entity.GroupClass, error) {
	var class *entity.GroupClass
	err := s.settlement.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entity.GroupClass{}).
			Where("barcode = ? AND sessions_remaining >= 1", barcode).
			Update("sessions_remaining", gorm.Expr("sessions_remaining - 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var g entity.GroupClass
			err := tx.First(&g, "barcode = ?", barcode).Error
			if err == gorm.ErrRecordNotFound {
				return apperror.NewNotFoundError("Group class")
			}
			if err != nil {
				return err
			}
			return apperror.NewBadRequestError("no sessions remaining")
		}
		var g entity.GroupClass
		if err := tx.First(&g, "barcode = ?", barcode).Error; err != nil {
			return err
		}
		class = &g
		return nil
	})
	if err != nil {
		return nil, err
	}
	return class, nil
}

// GetByNumber returns a group-class package by business number.
func (s *GroupClassService) GetByNumber(ctx context.Context, number int) (*entity.GroupClass, error) {
	class, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if class == nil {
		return nil, apperror.NewNotFoundError("Group class")
	}
	return class, nil
}

// List returns group-class packages matching the filter.
func (s *GroupClassService) List(ctx context.Context, params *repository.SubscriptionFilterParams) (*pagination.PaginatedResult[entity.GroupClass], error) {
	params.Pagination.Validate()
	classes, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	p := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(classes, p), nil
}

// Delete removes a group-class record. Administrative use only.
func (s *GroupClassService) Delete(ctx context.Context, id uuid.UUID) error {
	class, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if class == nil {
		return apperror.NewNotFoundError("Group class")
	}
	return s.repo.Delete(ctx, class.ID)
}

// generateBarcode produces the 16-digit check-in code printed on package
// cards. Uniqueness is enforced by the barcode unique index; a collision
// fails the settlement attempt, which retries with a fresh code.
func generateBarcode() string {
	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(16), nil)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		// crypto/rand only fails when the platform source is broken
		n = big.NewInt(time.Now().UnixNano())
	}
	return fmt.Sprintf("%016d", n)
}
