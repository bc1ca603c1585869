package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PT is a personal-training package sold to a client, who may or may not be a
// member. CoachUserID links the coach's staff account for commission records.
type PT struct {
	ID                uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	PTNumber          int        `gorm:"uniqueIndex;not null" json:"pt_number"`
	ClientName        string     `gorm:"size:120;not null" json:"client_name"`
	Phone             string     `gorm:"size:30;index" json:"phone"`
	SessionsPurchased int        `gorm:"not null" json:"sessions_purchased"`
	SessionsRemaining int        `gorm:"not null" json:"sessions_remaining"`
	CoachName         string     `gorm:"size:120" json:"coach_name"`
	CoachUserID       *uuid.UUID `gorm:"type:uuid;index" json:"coach_user_id,omitempty"`
	PricePerSession   float64    `gorm:"default:0" json:"price_per_session"`
	RemainingAmount   float64    `gorm:"default:0" json:"remaining_amount"`
	StartDate         *time.Time `json:"start_date,omitempty"`
	ExpiryDate        *time.Time `json:"expiry_date,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	Receipts []Receipt `gorm:"foreignKey:PTID" json:"receipts,omitempty"`
}

// BeforeCreate generates a UUID before creating a new PT package
func (p *PT) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PT model
func (PT) TableName() string {
	return "pt_packages"
}
