package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DayUse is a single paid gym visit by a walk-in client. Day-use numbers are
// negative and probed downward from -1 so they never collide with membership
// numbering.
type DayUse struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	DayUseNumber int       `gorm:"uniqueIndex;not null" json:"day_use_number"`
	ClientName   string    `gorm:"size:120;not null" json:"client_name"`
	Phone        string    `gorm:"size:30;index" json:"phone"`
	Price        float64   `gorm:"default:0" json:"price"`
	VisitDate    time.Time `gorm:"type:date;not null" json:"visit_date"`
	CreatedAt    time.Time `json:"created_at"`

	Receipts []Receipt `gorm:"foreignKey:DayUseID" json:"receipts,omitempty"`
}

// BeforeCreate generates a UUID before creating a new day-use visit
func (d *DayUse) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the DayUse model
func (DayUse) TableName() string {
	return "day_uses"
}
