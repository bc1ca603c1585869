package service

import (
	"context"
	"testing"

	"github.com/xgym/backoffice-api/internal/domain/entity"
	infraRepo "github.com/xgym/backoffice-api/internal/infrastructure/repository"
)

func newPhysioService(env *testEnv) *PhysiotherapyService {
	return NewPhysiotherapyService(infraRepo.NewPhysiotherapyRepository(env.db), infraRepo.NewUserRepository(env.db), env.settlement)
}

func TestPhysiotherapyPayRemaining(t *testing.T) {
	env := newTestEnv(t)
	physios := newPhysioService(env)
	ctx := context.Background()

	physio, _, err := physios.Create(ctx, &CreatePhysiotherapyInput{
		ClientName:      "Hana Tarek",
		Sessions:        10,
		PricePerSession: 100,
		PaidAmount:      400,
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if physio.RemainingAmount != 600 {
		t.Fatalf("remaining after sale = %v, want 600", physio.RemainingAmount)
	}

	paid, _, err := physios.PayRemaining(ctx, physio.PhysioNumber, &PayRemainingInput{
		Amount: 250,
	})
	if err != nil {
		t.Fatalf("PayRemaining() failed: %v", err)
	}
	if paid.RemainingAmount != 350 {
		t.Errorf("remaining after payment = %v, want 350", paid.RemainingAmount)
	}
	if n := countRows(t, env.db, &entity.Receipt{}); n != 2 {
		t.Errorf("receipt rows = %d, want sale plus payment", n)
	}

	// A payment above the outstanding balance is rejected.
	if _, _, err := physios.PayRemaining(ctx, physio.PhysioNumber, &PayRemainingInput{
		Amount: 1000,
	}); err == nil {
		t.Error("PayRemaining() above the balance succeeded, want error")
	}
}

func TestPhysiotherapyPayRemainingUnknownPackage(t *testing.T) {
	env := newTestEnv(t)
	physios := newPhysioService(env)

	_, _, err := physios.PayRemaining(context.Background(), 404, &PayRemainingInput{Amount: 50})
	if err == nil {
		t.Fatal("PayRemaining() for an unknown package succeeded, want error")
	}
}
