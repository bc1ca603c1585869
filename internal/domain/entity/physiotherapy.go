package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Physiotherapy is a physiotherapy session package.
type Physiotherapy struct {
	ID                uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	PhysioNumber      int        `gorm:"uniqueIndex;not null" json:"physio_number"`
	ClientName        string     `gorm:"size:120;not null" json:"client_name"`
	Phone             string     `gorm:"size:30;index" json:"phone"`
	SessionsPurchased int        `gorm:"not null" json:"sessions_purchased"`
	SessionsRemaining int        `gorm:"not null" json:"sessions_remaining"`
	TherapistName     string     `gorm:"size:120" json:"therapist_name"`
	TherapistUserID   *uuid.UUID `gorm:"type:uuid;index" json:"therapist_user_id,omitempty"`
	PricePerSession   float64    `gorm:"default:0" json:"price_per_session"`
	RemainingAmount   float64    `gorm:"default:0" json:"remaining_amount"`
	StartDate         *time.Time `json:"start_date,omitempty"`
	ExpiryDate        *time.Time `json:"expiry_date,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	Receipts []Receipt `gorm:"foreignKey:PhysiotherapyID" json:"receipts,omitempty"`
}

// BeforeCreate generates a UUID before creating a new physiotherapy package
func (p *Physiotherapy) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Physiotherapy model
func (Physiotherapy) TableName() string {
	return "physiotherapy_packages"
}
