package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/xgym/backoffice-api/internal/domain/entity"
	"github.com/xgym/backoffice-api/internal/domain/repository"
)

// CommissionSpec describes a commission to record after a sale commits.
// StaffName is the coach/instructor display name as entered on the package;
// it is resolved against staff accounts at recording time.
type CommissionSpec struct {
	StaffName    string
	Type         string
	BasisAmount  float64
	LinkedNumber int
	Description  string
}

// CommissionNotifier records commissions best-effort after a settlement
// commits. Implementations must never fail the sale.
type CommissionNotifier interface {
	Notify(ctx context.Context, spec CommissionSpec) error
}

// CommissionService computes tiered commissions and persists them.
type CommissionService struct {
	users       repository.UserRepository
	commissions repository.CommissionRepository
}

// NewCommissionService creates the commission service.
func NewCommissionService(users repository.UserRepository, commissions repository.CommissionRepository) *CommissionService {
	return &CommissionService{users: users, commissions: commissions}
}

// commissionRate returns the commission percentage for a package price.
// Bigger packages earn the seller a larger share.
func commissionRate(basis float64) float64 {
	switch {
	case basis < 5000:
		return 0.25
	case basis < 11000:
		return 0.30
	case basis < 15000:
		return 0.35
	case basis < 20000:
		return 0.40
	default:
		return 0.45
	}
}

// Notify implements CommissionNotifier.
func (s *CommissionService) Notify(ctx context.Context, spec CommissionSpec) error {
	if spec.StaffName == "" || spec.BasisAmount <= 0 {
		return nil
	}

	staff, err := s.users.GetByName(ctx, spec.StaffName)
	if err != nil {
		return fmt.Errorf("failed to resolve staff %q: %w", spec.StaffName, err)
	}
	if staff == nil {
		// No matching staff account; the name on the package is free text.
		return nil
	}

	rate := commissionRate(spec.BasisAmount)
	notes, err := json.Marshal(map[string]interface{}{
		"basis_amount": spec.BasisAmount,
		"rate":         rate,
	})
	if err != nil {
		return fmt.Errorf("failed to encode commission notes: %w", err)
	}

	commission := entity.Commission{
		StaffUserID:  staff.ID,
		Amount:       spec.BasisAmount * rate,
		Type:         spec.Type,
		Description:  spec.Description,
		Notes:        string(notes),
		LinkedNumber: spec.LinkedNumber,
	}
	if err := s.commissions.Create(ctx, &commission); err != nil {
		return fmt.Errorf("failed to record commission: %w", err)
	}
	return nil
}

// ListByStaff returns the commissions recorded for one staff account.
func (s *CommissionService) ListByStaff(ctx context.Context, staff *entity.User) ([]entity.Commission, error) {
	return s.commissions.ListByStaff(ctx, staff.ID)
}
