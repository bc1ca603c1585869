package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/xgym/backoffice-api/internal/domain/entity"
	"github.com/xgym/backoffice-api/internal/domain/enum"
	infraRepo "github.com/xgym/backoffice-api/internal/infrastructure/repository"
	"gorm.io/gorm"
)

func TestCommissionRateTiers(t *testing.T) {
	tests := []struct {
		basis float64
		want  float64
	}{
		{1000, 0.25},
		{4999, 0.25},
		{5000, 0.30},
		{10999, 0.30},
		{11000, 0.35},
		{14999, 0.35},
		{15000, 0.40},
		{19999, 0.40},
		{20000, 0.45},
		{50000, 0.45},
	}
	for _, tt := range tests {
		if got := commissionRate(tt.basis); got != tt.want {
			t.Errorf("commissionRate(%v) = %v, want %v", tt.basis, got, tt.want)
		}
	}
}

func createStaff(t *testing.T, db *gorm.DB, name string) *entity.User {
	t.Helper()
	user := &entity.User{
		Name:     name,
		Email:    name + "@example.com",
		Role:     enum.RoleCoach,
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create staff: %v", err)
	}
	return user
}

func TestCommissionNotifyRecordsForKnownStaff(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommissionService(infraRepo.NewUserRepository(db), infraRepo.NewCommissionRepository(db))
	staff := createStaff(t, db, "Coach Hany")
	ctx := context.Background()

	err := svc.Notify(ctx, CommissionSpec{
		StaffName:    "Coach Hany",
		Type:         "pt",
		BasisAmount:  6000,
		LinkedNumber: 42,
		Description:  "New PT package",
	})
	if err != nil {
		t.Fatalf("Notify() failed: %v", err)
	}

	var commission entity.Commission
	if err := db.First(&commission, "staff_user_id = ?", staff.ID).Error; err != nil {
		t.Fatalf("commission not recorded: %v", err)
	}
	// 6000 falls into the 30% tier.
	if commission.Amount != 1800 {
		t.Errorf("commission amount = %v, want 1800", commission.Amount)
	}
	if commission.LinkedNumber != 42 {
		t.Errorf("linked number = %d, want 42", commission.LinkedNumber)
	}

	var notes map[string]interface{}
	if err := json.Unmarshal([]byte(commission.Notes), &notes); err != nil {
		t.Fatalf("failed to parse notes: %v", err)
	}
	if notes["basis_amount"] != 6000.0 || notes["rate"] != 0.3 {
		t.Errorf("notes = %v, want basis_amount 6000 and rate 0.3", notes)
	}
}

func TestCommissionNotifySkipsUnknownStaff(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommissionService(infraRepo.NewUserRepository(db), infraRepo.NewCommissionRepository(db))

	err := svc.Notify(context.Background(), CommissionSpec{
		StaffName:   "Nobody",
		Type:        "pt",
		BasisAmount: 5000,
	})
	if err != nil {
		t.Fatalf("Notify() failed: %v", err)
	}
	if n := countRows(t, db, &entity.Commission{}); n != 0 {
		t.Errorf("commission rows = %d, want 0 for unresolved staff", n)
	}
}

func TestCommissionNotifySkipsEmptySpec(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommissionService(infraRepo.NewUserRepository(db), infraRepo.NewCommissionRepository(db))
	createStaff(t, db, "Coach Hany")

	specs := []CommissionSpec{
		{StaffName: "", BasisAmount: 5000},
		{StaffName: "Coach Hany", BasisAmount: 0},
	}
	for _, spec := range specs {
		if err := svc.Notify(context.Background(), spec); err != nil {
			t.Fatalf("Notify(%+v) failed: %v", spec, err)
		}
	}
	if n := countRows(t, db, &entity.Commission{}); n != 0 {
		t.Errorf("commission rows = %d, want 0", n)
	}
}
