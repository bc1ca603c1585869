package service

import (
	"context"
	"testing"

	"github.com/xgym/backoffice-api/internal/domain/entity"
	infraRepo "github.com/xgym/backoffice-api/internal/infrastructure/repository"
)

func newGroupClassService(env *testEnv) *GroupClassService {
	return NewGroupClassService(infraRepo.NewGroupClassRepository(env.db), infraRepo.NewUserRepository(env.db), env.settlement)
}

func TestGroupClassDayUseGetsNegativeNumbers(t *testing.T) {
	env := newTestEnv(t)
	classes := newGroupClassService(env)
	ctx := context.Background()

	first, _, err := classes.SellDayUse(ctx, &GroupClassDayUseInput{
		ClientName: "Walk-in One",
		Price:      150,
	})
	if err != nil {
		t.Fatalf("SellDayUse() failed: %v", err)
	}
	second, _, err := classes.SellDayUse(ctx, &GroupClassDayUseInput{
		ClientName: "Walk-in Two",
		Price:      150,
	})
	if err != nil {
		t.Fatalf("SellDayUse() failed: %v", err)
	}

	if first.ClassNumber != -1 || second.ClassNumber != -2 {
		t.Errorf("day-use numbers = %d, %d, want -1, -2", first.ClassNumber, second.ClassNumber)
	}
	if len(first.Barcode) != 16 {
		t.Errorf("barcode length = %d, want 16", len(first.Barcode))
	}
	if first.SessionsRemaining != 1 {
		t.Errorf("day-use sessions = %d, want 1", first.SessionsRemaining)
	}
}

func TestGroupClassRenewRejectsDayUse(t *testing.T) {
	env := newTestEnv(t)
	classes := newGroupClassService(env)
	ctx := context.Background()

	dayUse, _, err := classes.SellDayUse(ctx, &GroupClassDayUseInput{
		ClientName: "Walk-in",
		Price:      150,
	})
	if err != nil {
		t.Fatalf("SellDayUse() failed: %v", err)
	}

	_, _, err = classes.Renew(ctx, dayUse.ClassNumber, &RenewGroupClassInput{
		Sessions:        8,
		PricePerSession: 100,
		PaidAmount:      800,
	})
	if err == nil {
		t.Fatal("Renew() on a day-use record succeeded, want error")
	}
	if n := countRows(t, env.db, &entity.Receipt{}); n != 1 {
		t.Errorf("receipt rows = %d, want only the day-use sale", n)
	}
}

func TestGroupClassCheckInByBarcode(t *testing.T) {
	env := newTestEnv(t)
	classes := newGroupClassService(env)
	ctx := context.Background()

	class, _, err := classes.Create(ctx, &CreateGroupClassInput{
		ClientName:      "Mona Said",
		Sessions:        2,
		PricePerSession: 100,
		PaidAmount:      200,
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	for want := 1; want >= 0; want-- {
		checked, err := classes.CheckInByBarcode(ctx, class.Barcode)
		if err != nil {
			t.Fatalf("CheckInByBarcode() failed: %v", err)
		}
		if checked.SessionsRemaining != want {
			t.Errorf("sessions remaining = %d, want %d", checked.SessionsRemaining, want)
		}
	}

	// No sessions left.
	if _, err := classes.CheckInByBarcode(ctx, class.Barcode); err == nil {
		t.Error("CheckInByBarcode() with zero sessions succeeded, want error")
	}

	// Unknown barcode.
	if _, err := classes.CheckInByBarcode(ctx, "0000000000000000"); err == nil {
		t.Error("CheckInByBarcode() with unknown barcode succeeded, want error")
	}
}
