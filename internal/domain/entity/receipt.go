package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/xgym/backoffice-api/internal/domain/enum"
	"gorm.io/gorm"
)

// ReceiptCounterID is the primary key of the single counter row.
const ReceiptCounterID = 1

// ReceiptCounter is the singleton sequence row behind receipt numbering.
// Current is the lower bound for the next receipt number, not a guarantee of
// availability: manual renumbering can occupy numbers above it.
type ReceiptCounter struct {
	ID      int `gorm:"primary_key" json:"id"`
	Current int `gorm:"not null" json:"current"`
}

// TableName returns the table name for the ReceiptCounter model
func (ReceiptCounter) TableName() string {
	return "receipt_counters"
}

// Receipt is the financial record of one settlement. A receipt is never
// physically deleted in normal flow; cancellation is a state transition.
// ReceiptNumber is globally unique and immutable once issued, except explicit
// manual renumbering by an administrator.
type Receipt struct {
	ID            uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	ReceiptNumber int              `gorm:"uniqueIndex;not null" json:"receipt_number"`
	Type          enum.ReceiptType `gorm:"size:50;not null;index" json:"type"`
	Amount        float64          `gorm:"not null" json:"amount"`
	// Tender holds the serialized tender set: a bare method label for legacy
	// single-tender rows, {"methods":[...]} JSON for multi-tender rows.
	Tender      string `gorm:"column:payment_method;size:500;not null;default:cash" json:"payment_method"`
	ItemDetails string `gorm:"type:text" json:"item_details,omitempty"`
	StaffName   string `gorm:"size:120" json:"staff_name,omitempty"`

	// Linkage to exactly one sellable entity.
	MemberID        *uuid.UUID `gorm:"type:uuid;index" json:"member_id,omitempty"`
	PTID            *uuid.UUID `gorm:"type:uuid;index" json:"pt_id,omitempty"`
	GroupClassID    *uuid.UUID `gorm:"type:uuid;index" json:"group_class_id,omitempty"`
	PhysiotherapyID *uuid.UUID `gorm:"type:uuid;index" json:"physiotherapy_id,omitempty"`
	NutritionID     *uuid.UUID `gorm:"type:uuid;index" json:"nutrition_id,omitempty"`
	DayUseID        *uuid.UUID `gorm:"type:uuid;index" json:"day_use_id,omitempty"`

	IsCancelled  bool       `gorm:"default:false;index" json:"is_cancelled"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
	CancelledBy  string     `gorm:"size:120" json:"cancelled_by,omitempty"`
	CancelReason string     `gorm:"size:500" json:"cancel_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new receipt
func (r *Receipt) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Receipt model
func (Receipt) TableName() string {
	return "receipts"
}
