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

// MemberService handles the membership product line. Sales go through the
// settlement orchestrator; reads and plain edits go through the repository.
type MemberService struct {
	repo       repository.MemberRepository
	settlement *Settlement
}

// NewMemberService creates the member service.
func NewMemberService(repo repository.MemberRepository, settlement *Settlement) *MemberService {
	return &MemberService{repo: repo, settlement: settlement}
}

// CreateMemberInput holds a new membership sale.
type CreateMemberInput struct {
	Name              string     `json:"name" binding:"required"`
	Phone             string     `json:"phone"`
	SubscriptionPrice float64    `json:"subscription_price" binding:"required"`
	PaidAmount        float64    `json:"paid_amount"`
	Tenders           tender.Set `json:"tenders"`
	Months            int        `json:"months"`
	FreePTSessions    int        `json:"free_pt_sessions"`
	InBodyScans       int        `json:"in_body_scans"`
	Invitations       int        `json:"invitations"`
	StaffName         string     `json:"staff_name"`
	Notes             string     `json:"notes"`
}

// RenewMemberInput holds a membership renewal sale.
type RenewMemberInput struct {
	SubscriptionPrice float64    `json:"subscription_price" binding:"required"`
	PaidAmount        float64    `json:"paid_amount"`
	Tenders           tender.Set `json:"tenders"`
	Months            int        `json:"months"`
	FreePTSessions    int        `json:"free_pt_sessions"`
	InBodyScans       int        `json:"in_body_scans"`
	Invitations       int        `json:"invitations"`
	StaffName         string     `json:"staff_name"`
}

// UpgradeMemberInput holds a membership upgrade sale.
type UpgradeMemberInput struct {
	UpgradeAmount float64    `json:"upgrade_amount" binding:"required"`
	PaidAmount    float64    `json:"paid_amount"`
	Tenders       tender.Set `json:"tenders"`
	AddedMonths   int        `json:"added_months"`
	StaffName     string     `json:"staff_name"`
}

// Create sells a new membership. The member row and its receipt are written
// in one settlement transaction.
func (s *MemberService) Create(ctx context.Context, input *CreateMemberInput) (*entity.Member, *SettlementResult, error) {
	if input.Months <= 0 {
		input.Months = 1
	}
	paid := input.PaidAmount
	if paid == 0 && len(input.Tenders) > 0 {
		paid = tender.Total(input.Tenders)
	}

	var member *entity.Member
	req := &SettlementRequest{
		Type:      enum.ReceiptNewMembership,
		AmountDue: paid,
		Tenders:   input.Tenders,
		StaffName: input.StaffName,
		Apply: func(tx *gorm.DB) (*EntityResult, error) {
			number, err := nextMemberNumber(tx)
			if err != nil {
				return nil, err
			}

			now := time.Now()
			expiry := now.AddDate(0, input.Months, 0)
			m := entity.Member{
				MemberNumber:      number,
				Name:              input.Name,
				Phone:             input.Phone,
				SubscriptionPrice: input.SubscriptionPrice,
				RemainingAmount:   input.SubscriptionPrice - paid,
				FreePTSessions:    input.FreePTSessions,
				InBodyScans:       input.InBodyScans,
				Invitations:       input.Invitations,
				StartDate:         &now,
				ExpiryDate:        &expiry,
				IsActive:          true,
				Notes:             input.Notes,
			}
			if err := tx.Create(&m).Error; err != nil {
				return nil, fmt.Errorf("failed to create member: %w", err)
			}
			member = &m

			return &EntityResult{
				Details: map[string]interface{}{
					"memberNumber":      m.MemberNumber,
					"memberName":        m.Name,
					"subscriptionPrice": m.SubscriptionPrice,
					"paidAmount":        paid,
					"remainingAmount":   m.RemainingAmount,
					"months":            input.Months,
				},
				Link:           func(r *entity.Receipt) { r.MemberID = &m.ID },
				PointsMemberID: &m.ID,
				RewardMemberID: &m.ID,
			}, nil
		},
	}

	result, err := s.settlement.Settle(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	return member, result, nil
}

// Renew renews an existing membership. Any outstanding debt is recorded in
// the receipt's item details for audit and then written off; the new balance
// reflects only the new subscription.
func (s *MemberService) Renew(ctx context.Context, memberNumber int, input *RenewMemberInput) (*entity.Member, *SettlementResult, error) {
	if input.Months <= 0 {
		input.Months = 1
	}
	paid := input.PaidAmount
	if paid == 0 && len(input.Tenders) > 0 {
		paid = tender.Total(input.Tenders)
	}

	var member *entity.Member
	req := &SettlementRequest{
		Type:      enum.ReceiptMembershipRenewal,
		AmountDue: paid,
		Tenders:   input.Tenders,
		StaffName: input.StaffName,
		Apply: func(tx *gorm.DB) (*EntityResult, error) {
			var m entity.Member
			err := tx.First(&m, "member_number = ?", memberNumber).Error
			if err == gorm.ErrRecordNotFound {
				return nil, apperror.ErrMemberNotFound
			}
			if err != nil {
				return nil, err
			}

			previousDebt := m.RemainingAmount
			now := time.Now()
			base := now
			if m.ExpiryDate != nil && m.ExpiryDate.After(now) {
				base = *m.ExpiryDate
			}
			expiry := base.AddDate(0, input.Months, 0)

			m.SubscriptionPrice = input.SubscriptionPrice
			m.RemainingAmount = input.SubscriptionPrice - paid
			m.FreePTSessions += input.FreePTSessions
			m.InBodyScans += input.InBodyScans
			m.Invitations += input.Invitations
			m.ExpiryDate = &expiry
			m.IsActive = true
			if err := tx.Save(&m).Error; err != nil {
				return nil, fmt.Errorf("failed to renew member: %w", err)
			}
			member = &m

			return &EntityResult{
				Details: map[string]interface{}{
					"memberNumber":      m.MemberNumber,
					"memberName":        m.Name,
					"subscriptionPrice": m.SubscriptionPrice,
					"paidAmount":        paid,
					"previousDebt":      previousDebt,
					"remainingAmount":   m.RemainingAmount,
					"months":            input.Months,
				},
				Link:           func(r *entity.Receipt) { r.MemberID = &m.ID },
				PointsMemberID: &m.ID,
				RewardMemberID: &m.ID,
			}, nil
		},
	}

	result, err := s.settlement.Settle(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	return member, result, nil
}

// Upgrade upgrades a membership mid-term for a price difference.
func (s *MemberService) Upgrade(ctx context.Context, memberNumber int, input *UpgradeMemberInput) (*entity.Member, *SettlementResult, error) {
	paid := input.PaidAmount
	if paid == 0 && len(input.Tenders) > 0 {
		paid = tender.Total(input.Tenders)
	}

	var member *entity.Member
	req := &SettlementRequest{
		Type:      enum.ReceiptMembershipUpgrade,
		AmountDue: paid,
		Tenders:   input.Tenders,
		StaffName: input.StaffName,
		Apply: func(tx *gorm.DB) (*EntityResult, error) {
			var m entity.Member
			err := tx.First(&m, "member_number = ?", memberNumber).Error
			if err == gorm.ErrRecordNotFound {
				return nil, apperror.ErrMemberNotFound
			}
			if err != nil {
				return nil, err
			}

			m.SubscriptionPrice += input.UpgradeAmount
			m.RemainingAmount += input.UpgradeAmount - paid
			if input.AddedMonths > 0 && m.ExpiryDate != nil {
				expiry := m.ExpiryDate.AddDate(0, input.AddedMonths, 0)
				m.ExpiryDate = &expiry
			}
			if err := tx.Save(&m).Error; err != nil {
				return nil, fmt.Errorf("failed to upgrade member: %w", err)
			}
			member = &m

			return &EntityResult{
				Details: map[string]interface{}{
					"memberNumber":    m.MemberNumber,
					"memberName":      m.Name,
					"upgradeAmount":   input.UpgradeAmount,
					"paidAmount":      paid,
					"remainingAmount": m.RemainingAmount,
				},
				Link:           func(r *entity.Receipt) { r.MemberID = &m.ID },
				PointsMemberID: &m.ID,
				RewardMemberID: &m.ID,
			}, nil
		},
	}

	result, err := s.settlement.Settle(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	return member, result, nil
}

// GetByID returns a member by ID.
func (s *MemberService) GetByID(ctx context.Context, id uuid.UUID) (*entity.Member, error) {
	member, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, apperror.ErrMemberNotFound
	}
	return member, nil
}

// GetByNumber returns a member by business number.
func (s *MemberService) GetByNumber(ctx context.Context, number int) (*entity.Member, error) {
	member, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, apperror.ErrMemberNotFound
	}
	return member, nil
}

// List returns members matching the filter.
func (s *MemberService) List(ctx context.Context, params *repository.MemberFilterParams) (*pagination.PaginatedResult[entity.Member], error) {
	params.Pagination.Validate()
	members, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	p := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(members, p), nil
}

// UpdateMemberInput holds editable member fields outside of sales.
type UpdateMemberInput struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
	Notes *string `json:"notes"`
}

// Update edits non-financial member fields.
func (s *MemberService) Update(ctx context.Context, id uuid.UUID, input *UpdateMemberInput) (*entity.Member, error) {
	member, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		member.Name = *input.Name
	}
	if input.Phone != nil {
		member.Phone = *input.Phone
	}
	if input.Notes != nil {
		member.Notes = *input.Notes
	}
	if err := s.repo.Update(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

// Delete removes a member record. Administrative use only.
func (s *MemberService) Delete(ctx context.Context, id uuid.UUID) error {
	member, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, member.ID)
}

// nextMemberNumber computes the next member number inside a transaction.
func nextMemberNumber(tx *gorm.DB) (int, error) {
	var max int
	err := tx.Model(&entity.Member{}).
		Select("COALESCE(MAX(member_number), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, fmt.Errorf("failed to compute next member number: %w", err)
	}
	return max + 1, nil
}
