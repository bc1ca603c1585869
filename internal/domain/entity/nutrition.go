package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Nutrition is a nutrition-program subscription.
type Nutrition struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	NutritionNumber int        `gorm:"uniqueIndex;not null" json:"nutrition_number"`
	ClientName      string     `gorm:"size:120;not null" json:"client_name"`
	Phone           string     `gorm:"size:30;index" json:"phone"`
	SpecialistName  string     `gorm:"size:120" json:"specialist_name"`
	ProgramPrice    float64    `gorm:"default:0" json:"program_price"`
	RemainingAmount float64    `gorm:"default:0" json:"remaining_amount"`
	FollowUps       int        `gorm:"default:0" json:"follow_ups"`
	StartDate       *time.Time `json:"start_date,omitempty"`
	ExpiryDate      *time.Time `json:"expiry_date,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	Receipts []Receipt `gorm:"foreignKey:NutritionID" json:"receipts,omitempty"`
}

// BeforeCreate generates a UUID before creating a new nutrition program
func (n *Nutrition) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Nutrition model
func (Nutrition) TableName() string {
	return "nutrition_programs"
}
