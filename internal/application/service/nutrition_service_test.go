package service

import (
	"context"
	"testing"

	infraRepo "github.com/xgym/backoffice-api/internal/infrastructure/repository"
)

func newNutritionService(env *testEnv) *NutritionService {
	return NewNutritionService(infraRepo.NewNutritionRepository(env.db), env.settlement)
}

func TestNutritionUseFollowUp(t *testing.T) {
	env := newTestEnv(t)
	programs := newNutritionService(env)
	ctx := context.Background()

	program, _, err := programs.Create(ctx, &CreateNutritionInput{
		ClientName:   "Noha Fathy",
		ProgramPrice: 800,
		PaidAmount:   800,
		FollowUps:    2,
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	for want := 1; want >= 0; want-- {
		used, err := programs.UseFollowUp(ctx, program.NutritionNumber)
		if err != nil {
			t.Fatalf("UseFollowUp() failed: %v", err)
		}
		if used.FollowUps != want {
			t.Errorf("follow-ups remaining = %d, want %d", used.FollowUps, want)
		}
	}

	// No follow-ups left.
	if _, err := programs.UseFollowUp(ctx, program.NutritionNumber); err == nil {
		t.Error("UseFollowUp() with zero follow-ups succeeded, want error")
	}

	// Unknown program.
	if _, err := programs.UseFollowUp(ctx, 404); err == nil {
		t.Error("UseFollowUp() for an unknown program succeeded, want error")
	}
}
