package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/xgym/backoffice-api/internal/domain/enum"
	"gorm.io/gorm"
)

// PointsHistory is an append-only ledger entry. Points is signed: positive for
// earns, negative for spends. At every commit boundary the sum of a member's
// entries equals that member's current balance.
type PointsHistory struct {
	ID          uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	MemberID    uuid.UUID         `gorm:"type:uuid;not null;index" json:"member_id"`
	Points      int               `gorm:"not null" json:"points"`
	Action      enum.PointsAction `gorm:"size:20;not null" json:"action"`
	Description string            `gorm:"size:500" json:"description,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`

	Member Member `gorm:"foreignKey:MemberID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new entry
func (p *PointsHistory) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PointsHistory model
func (PointsHistory) TableName() string {
	return "points_history"
}
