package entity

import "time"

// SettingsSingletonID is the primary key of the single settings row.
const SettingsSingletonID = "singleton"

// SystemSettings is the gym-wide configuration singleton. Settlement reads
// the loyalty fields through a snapshot taken before its transaction opens,
// so a concurrent settings change affects only later settlements.
type SystemSettings struct {
	ID string `gorm:"primary_key;size:20" json:"id"`

	// Loyalty program
	PointsEnabled       bool    `gorm:"default:true" json:"points_enabled"`
	PointsPerCheckIn    int     `gorm:"default:1" json:"points_per_check_in"`
	PointsPerInvitation int     `gorm:"default:5" json:"points_per_invitation"`
	PointsValueEGP      float64 `gorm:"default:0.1" json:"points_value_egp"`
	PointsPerEGPSpent   float64 `gorm:"default:0.1" json:"points_per_egp_spent"`

	// Service toggles
	NutritionEnabled     bool `gorm:"default:true" json:"nutrition_enabled"`
	PhysiotherapyEnabled bool `gorm:"default:true" json:"physiotherapy_enabled"`
	GroupClassEnabled    bool `gorm:"default:true" json:"group_class_enabled"`
	DayUseEnabled        bool `gorm:"default:true" json:"day_use_enabled"`

	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for the SystemSettings model
func (SystemSettings) TableName() string {
	return "system_settings"
}

// LicenseStatus caches the last result of the remote license check so the
// gate can fall back when the license server is unreachable.
type LicenseStatus struct {
	ID            string    `gorm:"primary_key;size:20" json:"id"`
	IsValid       bool      `gorm:"default:true" json:"is_valid"`
	Signature     string    `gorm:"size:120" json:"signature,omitempty"`
	ErrorMessage  string    `gorm:"size:500" json:"error_message,omitempty"`
	LastCheckedAt time.Time `json:"last_checked_at"`
}

// TableName returns the table name for the LicenseStatus model
func (LicenseStatus) TableName() string {
	return "license_status"
}
