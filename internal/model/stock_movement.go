package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Movement types.
// entry = stock increase (arrival), withdrawal = deliberate sale/consumption
// decrease, adjustment = correction of either sign (recounts, reversals).
const (
	MovementEntry      = "entry"
	MovementWithdrawal = "withdrawal"
	MovementAdjustment = "adjustment"
)

// StockMovement records one stock change and its cause. Movements are
// append-only and immutable — corrections create new adjustment entries,
// never edits. Every mutation of Item.CurrentStock writes exactly one
// movement in the same transaction.
type StockMovement struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RestaurantID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	PreviousStock decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	NewStock      decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	PreviousExpiry *time.Time
	NewExpiry      *time.Time
	// ChangedBy is the authenticated actor; opaque to this core.
	ChangedBy uuid.UUID `gorm:"type:uuid;not null"`
	Type      string    `gorm:"type:varchar(20);not null"`
	// Reason encodes the cause in free text: sale reference, waste, recount…
	Reason      string     `gorm:"not null"`
	OrderID     *uuid.UUID `gorm:"type:uuid;index"`
	OrderItemID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time

	Item *Item `gorm:"foreignKey:ItemID"`
}
