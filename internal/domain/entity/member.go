package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Member is a gym member. The Points balance is owned exclusively by the
// points ledger operations: no other code path may mutate it, and every
// mutation is paired with a PointsHistory entry in the same transaction.
type Member struct {
	ID                uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	MemberNumber      int        `gorm:"uniqueIndex;not null" json:"member_number"`
	Name              string     `gorm:"size:120;not null" json:"name"`
	Phone             string     `gorm:"size:30;index" json:"phone"`
	SubscriptionPrice float64    `gorm:"default:0" json:"subscription_price"`
	RemainingAmount   float64    `gorm:"default:0" json:"remaining_amount"`
	FreePTSessions    int        `gorm:"default:0" json:"free_pt_sessions"`
	InBodyScans       int        `gorm:"default:0" json:"in_body_scans"`
	Invitations       int        `gorm:"default:0" json:"invitations"`
	Points            int        `gorm:"default:0" json:"points"`
	StartDate         *time.Time `json:"start_date,omitempty"`
	ExpiryDate        *time.Time `json:"expiry_date,omitempty"`
	IsActive          bool       `gorm:"default:true" json:"is_active"`
	Notes             string     `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	PointsHistory []PointsHistory `gorm:"foreignKey:MemberID" json:"-"`
	Receipts      []Receipt       `gorm:"foreignKey:MemberID" json:"receipts,omitempty"`
}

// BeforeCreate generates a UUID before creating a new member
func (m *Member) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Member model
func (Member) TableName() string {
	return "members"
}
