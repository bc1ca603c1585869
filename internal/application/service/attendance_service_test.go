package service

import (
	"context"
	"testing"

	"github.com/xgym/backoffice-api/internal/domain/entity"
	infraRepo "github.com/xgym/backoffice-api/internal/infrastructure/repository"
	"gorm.io/gorm"
)

func newAttendanceService(db *gorm.DB, ledger *PointsLedger) *AttendanceService {
	return NewAttendanceService(db, ledger, infraRepo.NewSettingsRepository(db))
}

func TestAttendanceCheckInEarnsPoints(t *testing.T) {
	db, ledger := newTestLedger(t)
	svc := newAttendanceService(db, ledger)
	createTestMember(t, db, 5, 0)

	member, earned, err := svc.CheckIn(context.Background(), 5)
	if err != nil {
		t.Fatalf("CheckIn() failed: %v", err)
	}
	// Default is one point per check-in.
	if earned != 1 {
		t.Errorf("earned = %d, want 1", earned)
	}
	if member.Points != 1 {
		t.Errorf("member points = %d, want 1", member.Points)
	}
	if n := countRows(t, db, &entity.PointsHistory{}); n != 1 {
		t.Errorf("history rows = %d, want 1", n)
	}
}

func TestAttendanceCheckInRejectsInactiveMember(t *testing.T) {
	db, ledger := newTestLedger(t)
	svc := newAttendanceService(db, ledger)
	member := createTestMember(t, db, 5, 0)
	if err := db.Model(member).Update("is_active", false).Error; err != nil {
		t.Fatalf("failed to deactivate member: %v", err)
	}

	if _, _, err := svc.CheckIn(context.Background(), 5); err == nil {
		t.Error("CheckIn() for inactive member succeeded, want error")
	}
}

func TestAttendanceUseInvitation(t *testing.T) {
	db, ledger := newTestLedger(t)
	svc := newAttendanceService(db, ledger)
	m := createTestMember(t, db, 5, 0)
	if err := db.Model(m).Update("invitations", 1).Error; err != nil {
		t.Fatalf("failed to grant invitation: %v", err)
	}

	member, earned, err := svc.UseInvitation(context.Background(), 5, "Guest One")
	if err != nil {
		t.Fatalf("UseInvitation() failed: %v", err)
	}
	if member.Invitations != 0 {
		t.Errorf("invitations = %d, want 0", member.Invitations)
	}
	// Default is five points per invitation.
	if earned != 5 {
		t.Errorf("earned = %d, want 5", earned)
	}

	// The last invitation is gone.
	if _, _, err := svc.UseInvitation(context.Background(), 5, "Guest Two"); err == nil {
		t.Error("UseInvitation() with none remaining succeeded, want error")
	}
}
