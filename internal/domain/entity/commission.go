package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Commission is an advisory bookkeeping record of a coach/instructor share in
// a sale. Commissions are written best-effort after the financial record
// commits; losing one never fails a sale.
type Commission struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	StaffUserID uuid.UUID `gorm:"type:uuid;not null;index" json:"staff_user_id"`
	Amount      float64   `gorm:"not null" json:"amount"`
	Type        string    `gorm:"size:50;not null" json:"type"`
	Description string    `gorm:"size:500" json:"description,omitempty"`
	// Notes holds the computation breakdown (basis amount, percentage) as JSON.
	Notes string `gorm:"type:text" json:"notes,omitempty"`
	// LinkedNumber is the business number of the entity that produced the
	// commission (PT number, class number, ...).
	LinkedNumber int       `gorm:"index" json:"linked_number,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new commission
func (c *Commission) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Commission model
func (Commission) TableName() string {
	return "commissions"
}
