package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/xgym/backoffice-api/internal/config"
	"github.com/xgym/backoffice-api/internal/domain/entity"
	"github.com/xgym/backoffice-api/pkg/apperror"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LicenseGate decides whether financial operations may proceed.
type LicenseGate interface {
	// Check performs a full license check, consulting the remote license
	// server when reachable and the cached status otherwise.
	Check(ctx context.Context) error
	// CheckCached consults only the cached status inside an open
	// transaction. Used as the final gate right before a receipt is written.
	CheckCached(tx *gorm.DB) error
}

// licensePayload is the JSON document served by the license server.
type licensePayload struct {
	Enabled bool   `json:"enabled"`
	Sig     string `json:"sig"`
}

// RemoteLicenseGate checks a remote JSON endpoint and caches the verdict in
// the database. When the endpoint is unreachable the gate falls back to the
// cached verdict, and with no cache it fails open: a dead license server
// must never stop the front desk from selling.
type RemoteLicenseGate struct {
	db     *gorm.DB
	cfg    config.LicenseConfig
	client *http.Client
}

// NewRemoteLicenseGate creates the license gate.
func NewRemoteLicenseGate(db *gorm.DB, cfg config.LicenseConfig) *RemoteLicenseGate {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &RemoteLicenseGate{
		db:     db,
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

// Check implements LicenseGate.
func (g *RemoteLicenseGate) Check(ctx context.Context) error {
	if g.cfg.URL == "" {
		return nil
	}

	payload, err := g.fetch(ctx)
	if err != nil {
		slog.Warn("license server unreachable, falling back to cached status", "error", err)
		return g.checkCachedOrOpen(ctx)
	}

	valid := payload.Enabled
	if valid && g.cfg.Signature != "" && payload.Sig != g.cfg.Signature {
		valid = false
	}

	g.storeStatus(ctx, valid, payload.Sig, "")

	if !valid {
		return apperror.ErrLicenseInvalid
	}
	return nil
}

// CheckCached implements LicenseGate.
func (g *RemoteLicenseGate) CheckCached(tx *gorm.DB) error {
	if g.cfg.URL == "" {
		return nil
	}

	var status entity.LicenseStatus
	err := tx.First(&status, "id = ?", entity.SettingsSingletonID).Error
	if err == gorm.ErrRecordNotFound {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read cached license status: %w", err)
	}
	if !status.IsValid {
		return apperror.ErrLicenseInvalid
	}
	return nil
}

func (g *RemoteLicenseGate) fetch(ctx context.Context) (*licensePayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.cfg.URL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("license server returned status %d", resp.StatusCode)
	}

	var payload licensePayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode license payload: %w", err)
	}
	return &payload, nil
}

func (g *RemoteLicenseGate) checkCachedOrOpen(ctx context.Context) error {
	var status entity.LicenseStatus
	err := g.db.WithContext(ctx).First(&status, "id = ?", entity.SettingsSingletonID).Error
	if err == gorm.ErrRecordNotFound {
		return nil
	}
	if err != nil {
		slog.Error("failed to read cached license status", "error", err)
		return nil
	}
	if !status.IsValid {
		return apperror.ErrLicenseInvalid
	}
	return nil
}

func (g *RemoteLicenseGate) storeStatus(ctx context.Context, valid bool, sig, errMsg string) {
	status := entity.LicenseStatus{
		ID:            entity.SettingsSingletonID,
		IsValid:       valid,
		Signature:     sig,
		ErrorMessage:  errMsg,
		LastCheckedAt: time.Now(),
	}
	err := g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&status).Error
	if err != nil {
		slog.Error("failed to cache license status", "error", err)
	}
}

// AlwaysValidGate is used when no license server is configured and in tests.
type AlwaysValidGate struct{}

func (AlwaysValidGate) Check(ctx context.Context) error { return nil }
func (AlwaysValidGate) CheckCached(tx *gorm.DB) error   { return nil }
