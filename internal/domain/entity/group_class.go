package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GroupClass is a group-class package. Negative class numbers are reserved for
// day-use visits sold through the group-class desk and are probed downward
// from -1; positive numbers are regular packages.
type GroupClass struct {
	ID                uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	ClassNumber       int        `gorm:"uniqueIndex;not null" json:"class_number"`
	ClientName        string     `gorm:"size:120;not null" json:"client_name"`
	Phone             string     `gorm:"size:30;index" json:"phone"`
	SessionsPurchased int        `gorm:"not null" json:"sessions_purchased"`
	SessionsRemaining int        `gorm:"not null" json:"sessions_remaining"`
	InstructorName    string     `gorm:"size:120" json:"instructor_name"`
	InstructorUserID  *uuid.UUID `gorm:"type:uuid;index" json:"instructor_user_id,omitempty"`
	PricePerSession   float64    `gorm:"default:0" json:"price_per_session"`
	RemainingAmount   float64    `gorm:"default:0" json:"remaining_amount"`
	// Barcode is the 16-digit check-in code printed on the package card.
	Barcode    string     `gorm:"size:32;uniqueIndex" json:"barcode"`
	StartDate  *time.Time `json:"start_date,omitempty"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	Receipts []Receipt `gorm:"foreignKey:GroupClassID" json:"receipts,omitempty"`
}

// IsDayUse reports whether this record is a day-use visit.
func (g *GroupClass) IsDayUse() bool {
	return g.ClassNumber < 0
}

// BeforeCreate generates a UUID before creating a new group class
func (g *GroupClass) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the GroupClass model
func (GroupClass) TableName() string {
	return "group_classes"
}
