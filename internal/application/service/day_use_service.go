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

// DayUseService sells single paid visits to walk-in clients.
type DayUseService struct {
	repo       repository.DayUseRepository
	settlement *Settlement
}

// NewDayUseService creates the day-use service.
func NewDayUseService(repo repository.DayUseRepository, settlement *Settlement) *DayUseService {
	return &DayUseService{repo: repo, settlement: settlement}
}

// CreateDayUseInput holds one walk-in visit sale.
type CreateDayUseInput struct {
	ClientName   string     `json:"client_name" binding:"required"`
	Phone        string     `json:"phone"`
	Price        float64    `json:"price" binding:"required"`
	Tenders      tender.Set `json:"tenders"`
	MemberNumber int        `json:"member_number"`
	StaffName    string     `json:"staff_name"`
}

// Create sells a day-use visit.
func (s *DayUseService) Create(ctx context.Context, input *CreateDayUseInput) (*entity.DayUse, *SettlementResult, error) {
	var visit *entity.DayUse
	req := &SettlementRequest{
		Type:               enum.ReceiptDayUse,
		AmountDue:          input.Price,
		Tenders:            input.Tenders,
		StaffName:          input.StaffName,
		PointsMemberNumber: input.MemberNumber,
		Apply: func(tx *gorm.DB) (*EntityResult, error) {
			number, err := nextNegativeNumber(tx, "day_uses", "day_use_number")
			if err != nil {
				return nil, err
			}

			d := entity.DayUse{
				DayUseNumber: number,
				ClientName:   input.ClientName,
				Phone:        input.Phone,
				Price:        input.Price,
				VisitDate:    time.Now(),
			}
			if err := tx.Create(&d).Error; err != nil {
				return nil, fmt.Errorf("failed to create day-use visit: %w", err)
			}
			visit = &d

			result := &EntityResult{
				Details: map[string]interface{}{
					"dayUseNumber": d.DayUseNumber,
					"clientName":   d.ClientName,
					"price":        d.Price,
				},
				Link: func(r *entity.Receipt) { r.DayUseID = &d.ID },
			}
			attachMemberLinkage(tx, result, input.MemberNumber, d.Phone)
			return result, nil
		},
	}

	result, err := s.settlement.Settle(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	return visit, result, nil
}

// List returns day-use visits matching the filter.
func (s *DayUseService) List(ctx context.Context, params *repository.SubscriptionFilterParams) (*pagination.PaginatedResult[entity.DayUse], error) {
	params.Pagination.Validate()
	visits, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	p := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(visits, p), nil
}

// Delete removes a day-use record. Administrative use only.
func (s *DayUseService) Delete(ctx context.Context, id uuid.UUID) error {
	visit, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if visit == nil {
		return apperror.NewNotFoundError("Day-use visit")
	}
	return s.repo.Delete(ctx, visit.ID)
}
