package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/xgym/backoffice-api/internal/domain/entity"
	"github.com/xgym/backoffice-api/internal/domain/enum"
	infraRepo "github.com/xgym/backoffice-api/internal/infrastructure/repository"
	"github.com/xgym/backoffice-api/pkg/apperror"
	"github.com/xgym/backoffice-api/pkg/tender"
	"gorm.io/gorm"
)

func newMemberService(env *testEnv) *MemberService {
	return NewMemberService(infraRepo.NewMemberRepository(env.db), env.settlement)
}

func newPTService(env *testEnv) *PTService {
	return NewPTService(infraRepo.NewPTRepository(env.db), infraRepo.NewUserRepository(env.db), env.settlement)
}

func TestSettleMembershipSale(t *testing.T) {
	env := newTestEnv(t)
	members := newMemberService(env)

	member, result, err := members.Create(context.Background(), &CreateMemberInput{
		Name:              "Sara Adel",
		SubscriptionPrice: 500,
		PaidAmount:        500,
		Months:            1,
		StaffName:         "Reception",
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	if member.MemberNumber != 1 {
		t.Errorf("member number = %d, want 1", member.MemberNumber)
	}
	r := result.Receipt
	if r.ReceiptNumber != 1000 {
		t.Errorf("receipt number = %d, want 1000", r.ReceiptNumber)
	}
	if r.Type != enum.ReceiptNewMembership {
		t.Errorf("receipt type = %q, want %q", r.Type, enum.ReceiptNewMembership)
	}
	if r.Amount != 500 {
		t.Errorf("receipt amount = %v, want 500", r.Amount)
	}
	if r.Tender != "cash" {
		t.Errorf("receipt tender = %q, want %q", r.Tender, "cash")
	}
	if r.MemberID == nil || *r.MemberID != member.ID {
		t.Errorf("receipt not linked to member %s", member.ID)
	}

	// Default loyalty rate is 0.1 points per EGP paid.
	if result.PointsAwarded != 50 {
		t.Errorf("points awarded = %d, want 50", result.PointsAwarded)
	}
	balance, err := env.ledger.Balance(context.Background(), member.ID)
	if err != nil {
		t.Fatalf("Balance() failed: %v", err)
	}
	if balance != 50 {
		t.Errorf("member balance = %d, want 50", balance)
	}
}

func TestSettleTenderMismatchWritesNothing(t *testing.T) {
	env := newTestEnv(t)
	members := newMemberService(env)

	_, _, err := members.Create(context.Background(), &CreateMemberInput{
		Name:              "Sara Adel",
		SubscriptionPrice: 500,
		PaidAmount:        500,
		Tenders:           tender.Set{{Method: tender.Cash, Amount: 300}},
	})

	var mismatch *tender.AmountMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("Create() error = %v, want AmountMismatchError", err)
	}
	if n := countRows(t, env.db, &entity.Member{}); n != 0 {
		t.Errorf("member rows = %d, want 0", n)
	}
	if n := countRows(t, env.db, &entity.Receipt{}); n != 0 {
		t.Errorf("receipt rows = %d, want 0", n)
	}
}

func TestSettleInsufficientPointsRollsBackEverything(t *testing.T) {
	env := newTestEnv(t)
	pts := newPTService(env)
	member := createTestMember(t, env.db, 7, 10)

	_, _, err := pts.Create(context.Background(), &CreatePTInput{
		ClientName:      "Omar Khaled",
		Sessions:        1,
		PricePerSession: 5,
		PaidAmount:      5,
		Tenders:         tender.Set{{Method: tender.Points, Amount: 5, PointsUsed: 50}},
		MemberNumber:    7,
	})

	var insufficient *apperror.InsufficientPointsError
	if !errors.As(err, &insufficient) {
		t.Fatalf("Create() error = %v, want InsufficientPointsError", err)
	}

	if n := countRows(t, env.db, &entity.PT{}); n != 0 {
		t.Errorf("pt rows = %d, want 0", n)
	}
	if n := countRows(t, env.db, &entity.Receipt{}); n != 0 {
		t.Errorf("receipt rows = %d, want 0", n)
	}
	balance, err := env.ledger.Balance(context.Background(), member.ID)
	if err != nil {
		t.Fatalf("Balance() failed: %v", err)
	}
	if balance != 10 {
		t.Errorf("member balance = %d, want the untouched 10", balance)
	}
}

func TestSettlePointsTenderDebitsPointsAndRewardsCashOnly(t *testing.T) {
	env := newTestEnv(t)
	members := newMemberService(env)
	member := createTestMember(t, env.db, 1, 600)

	_, result, err := members.Renew(context.Background(), 1, &RenewMemberInput{
		SubscriptionPrice: 100,
		PaidAmount:        100,
		Tenders: tender.Set{
			{Method: tender.Cash, Amount: 50},
			{Method: tender.Points, Amount: 50, PointsUsed: 500},
		},
		Months: 1,
	})
	if err != nil {
		t.Fatalf("Renew() failed: %v", err)
	}

	// Only the cash half of the payment earns points: floor(50 * 0.1) = 5.
	if result.PointsAwarded != 5 {
		t.Errorf("points awarded = %d, want 5", result.PointsAwarded)
	}
	balance, err := env.ledger.Balance(context.Background(), member.ID)
	if err != nil {
		t.Fatalf("Balance() failed: %v", err)
	}
	if balance != 105 {
		t.Errorf("member balance = %d, want 600 - 500 + 5 = 105", balance)
	}
}

func TestSettleResolvesPointsMemberByPhoneFallback(t *testing.T) {
	env := newTestEnv(t)
	pts := newPTService(env)
	member := createTestMember(t, env.db, 5, 500)
	if err := env.db.Model(member).Update("phone", "01001234567").Error; err != nil {
		t.Fatalf("failed to set member phone: %v", err)
	}

	// The number is wrong but the phone on the sale matches a member.
	_, result, err := pts.Create(context.Background(), &CreatePTInput{
		ClientName:      "Omar Khaled",
		Phone:           "01001234567",
		Sessions:        1,
		PricePerSession: 10,
		PaidAmount:      10,
		Tenders:         tender.Set{{Method: tender.Points, Amount: 10, PointsUsed: 100}},
		MemberNumber:    999,
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if result.Receipt.ReceiptNumber != 1000 {
		t.Errorf("receipt number = %d, want 1000", result.Receipt.ReceiptNumber)
	}

	balance, err := env.ledger.Balance(context.Background(), member.ID)
	if err != nil {
		t.Fatalf("Balance() failed: %v", err)
	}
	if balance != 400 {
		t.Errorf("member balance = %d, want 500 - 100 = 400", balance)
	}
}

func TestSettleCommitsDespiteCommissionFailure(t *testing.T) {
	env := newTestEnv(t)
	env.notifier.err = errors.New("commission store down")
	pts := newPTService(env)

	pt, result, err := pts.Create(context.Background(), &CreatePTInput{
		ClientName:      "Omar Khaled",
		Sessions:        10,
		PricePerSession: 50,
		PaidAmount:      500,
		CoachName:       "Coach Hany",
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	if pt.SessionsRemaining != 10 {
		t.Errorf("sessions remaining = %d, want 10", pt.SessionsRemaining)
	}
	if result.Receipt.ReceiptNumber != 1000 {
		t.Errorf("receipt number = %d, want 1000", result.Receipt.ReceiptNumber)
	}
	if n := countRows(t, env.db, &entity.Receipt{}); n != 1 {
		t.Errorf("receipt rows = %d, want 1", n)
	}
}

func TestSettleRecordsCommissionSpec(t *testing.T) {
	env := newTestEnv(t)
	pts := newPTService(env)

	pt, _, err := pts.Create(context.Background(), &CreatePTInput{
		ClientName:      "Omar Khaled",
		Sessions:        10,
		PricePerSession: 50,
		PaidAmount:      500,
		CoachName:       "Coach Hany",
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	if len(env.notifier.specs) != 1 {
		t.Fatalf("recorded commissions = %d, want 1", len(env.notifier.specs))
	}
	spec := env.notifier.specs[0]
	if spec.StaffName != "Coach Hany" {
		t.Errorf("commission staff = %q, want %q", spec.StaffName, "Coach Hany")
	}
	if spec.BasisAmount != 500 {
		t.Errorf("commission basis = %v, want the full package price 500", spec.BasisAmount)
	}
	if spec.LinkedNumber != pt.PTNumber {
		t.Errorf("commission linked number = %d, want %d", spec.LinkedNumber, pt.PTNumber)
	}
}

func TestSettleLicenseGateAborts(t *testing.T) {
	env := newTestEnv(t)
	env.settlement.gate = deniedGate{err: apperror.ErrLicenseInvalid}
	members := newMemberService(env)

	_, _, err := members.Create(context.Background(), &CreateMemberInput{
		Name:              "Sara Adel",
		SubscriptionPrice: 500,
		PaidAmount:        500,
	})
	if !errors.Is(err, apperror.ErrLicenseInvalid) {
		t.Fatalf("Create() error = %v, want ErrLicenseInvalid", err)
	}
	if n := countRows(t, env.db, &entity.Member{}); n != 0 {
		t.Errorf("member rows = %d, want 0", n)
	}
	if n := countRows(t, env.db, &entity.Receipt{}); n != 0 {
		t.Errorf("receipt rows = %d, want 0", n)
	}
}

func TestRenewalCapturesPreviousDebt(t *testing.T) {
	env := newTestEnv(t)
	members := newMemberService(env)

	member, _, err := members.Create(context.Background(), &CreateMemberInput{
		Name:              "Sara Adel",
		SubscriptionPrice: 1000,
		PaidAmount:        800,
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if member.RemainingAmount != 200 {
		t.Fatalf("remaining after sale = %v, want 200", member.RemainingAmount)
	}

	renewed, result, err := members.Renew(context.Background(), member.MemberNumber, &RenewMemberInput{
		SubscriptionPrice: 1000,
		PaidAmount:        600,
	})
	if err != nil {
		t.Fatalf("Renew() failed: %v", err)
	}

	// Old debt is written off on renewal; the new balance reflects only the
	// new subscription: 1000 - 600.
	if renewed.RemainingAmount != 400 {
		t.Errorf("remaining after renewal = %v, want 400", renewed.RemainingAmount)
	}
	if result.Receipt.Type != enum.ReceiptMembershipRenewal {
		t.Errorf("receipt type = %q, want %q", result.Receipt.Type, enum.ReceiptMembershipRenewal)
	}

	var details map[string]interface{}
	if err := json.Unmarshal([]byte(result.Receipt.ItemDetails), &details); err != nil {
		t.Fatalf("failed to parse item details: %v", err)
	}
	if got, ok := details["previousDebt"].(float64); !ok || got != 200 {
		t.Errorf("item details previousDebt = %v, want 200", details["previousDebt"])
	}
}

func TestZeroAmountSettlementDefaultsToCash(t *testing.T) {
	env := newTestEnv(t)
	members := newMemberService(env)

	_, result, err := members.Create(context.Background(), &CreateMemberInput{
		Name:              "Comp Guest",
		SubscriptionPrice: 0,
		PaidAmount:        0,
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if result.Receipt.Amount != 0 {
		t.Errorf("receipt amount = %v, want 0", result.Receipt.Amount)
	}
	if result.Receipt.Tender != "cash" {
		t.Errorf("receipt tender = %q, want %q", result.Receipt.Tender, "cash")
	}
}

// steppingAllocator hands out a fixed sequence of numbers, letting tests
// force a collision on the first attempt.
type steppingAllocator struct {
	numbers []int
	calls   int
}

func (a *steppingAllocator) Next(tx *gorm.DB) (int, error) {
	i := a.calls
	if i >= len(a.numbers) {
		i = len(a.numbers) - 1
	}
	a.calls++
	return a.numbers[i], nil
}

func (a *steppingAllocator) Peek(ctx context.Context) (int, error) { return a.numbers[0], nil }

func (a *steppingAllocator) Reset(ctx context.Context, value int) error { return nil }

func TestSettleRetriesOnDuplicateReceiptNumber(t *testing.T) {
	env := newTestEnv(t)
	occupyReceiptNumber(t, env.db, 1000)
	env.settlement.allocator = &steppingAllocator{numbers: []int{1000, 1001}}
	members := newMemberService(env)

	member, result, err := members.Create(context.Background(), &CreateMemberInput{
		Name:              "Sara Adel",
		SubscriptionPrice: 500,
		PaidAmount:        500,
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	if result.Receipt.ReceiptNumber != 1001 {
		t.Errorf("receipt number = %d, want 1001 after retry", result.Receipt.ReceiptNumber)
	}
	// The first attempt rolled back whole: exactly one member and one new
	// receipt survive.
	if n := countRows(t, env.db, &entity.Member{}); n != 1 {
		t.Errorf("member rows = %d, want 1", n)
	}
	if n := countRows(t, env.db, &entity.Receipt{}); n != 2 {
		t.Errorf("receipt rows = %d, want 2 (pre-occupied + new)", n)
	}
	if member.MemberNumber != 1 {
		t.Errorf("member number = %d, want 1", member.MemberNumber)
	}
}
