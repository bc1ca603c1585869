package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/xgym/backoffice-api/internal/domain/entity"
	infraRepo "github.com/xgym/backoffice-api/internal/infrastructure/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// A single connection keeps the in-memory database alive and shared.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&entity.User{},
		&entity.Member{},
		&entity.PT{},
		&entity.GroupClass{},
		&entity.Physiotherapy{},
		&entity.Nutrition{},
		&entity.DayUse{},
		&entity.ReceiptCounter{},
		&entity.Receipt{},
		&entity.PointsHistory{},
		&entity.Commission{},
		&entity.SystemSettings{},
		&entity.LicenseStatus{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// recordingNotifier captures commission specs and optionally fails.
type recordingNotifier struct {
	specs []CommissionSpec
	err   error
}

func (n *recordingNotifier) Notify(ctx context.Context, spec CommissionSpec) error {
	if n.err != nil {
		return n.err
	}
	n.specs = append(n.specs, spec)
	return nil
}

// deniedGate simulates an invalid operating license.
type deniedGate struct {
	err error
}

func (g deniedGate) Check(ctx context.Context) error { return g.err }
func (g deniedGate) CheckCached(tx *gorm.DB) error   { return g.err }

type testEnv struct {
	db         *gorm.DB
	allocator  *ProbeAllocator
	ledger     *PointsLedger
	notifier   *recordingNotifier
	settlement *Settlement
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	allocator := NewProbeAllocator(db, 1000)
	ledger := NewPointsLedger(db, infraRepo.NewPointsHistoryRepository(db))
	notifier := &recordingNotifier{}
	settlement := NewSettlement(db, allocator, ledger, AlwaysValidGate{}, infraRepo.NewSettingsRepository(db), notifier)
	return &testEnv{
		db:         db,
		allocator:  allocator,
		ledger:     ledger,
		notifier:   notifier,
		settlement: settlement,
	}
}

func createTestMember(t *testing.T, db *gorm.DB, number, points int) *entity.Member {
	t.Helper()
	member := &entity.Member{
		MemberNumber: number,
		Name:         "Test Member",
		Points:       points,
		IsActive:     true,
	}
	if err := db.Create(member).Error; err != nil {
		t.Fatalf("failed to create test member: %v", err)
	}
	return member
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var count int64
	if err := db.Model(model).Count(&count).Error; err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	return count
}
