package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order statuses. Terminal states (closed, cancelled) are immutable.
const (
	OrderOpen      = "open"
	OrderClosed    = "closed"
	OrderCancelled = "cancelled"
)

// Order is a tab. TableID nil means counter / take-away, in which case
// CustomerName is the human label. Total is maintained incrementally:
// every item add/remove updates it atomically with the item mutation, so
// it always equals the sum of live items' quantity × unit_price.
type Order struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RestaurantID uuid.UUID  `gorm:"type:uuid;not null;index"`
	TableID      *uuid.UUID `gorm:"type:uuid;index"`
	CustomerName *string
	Status       string          `gorm:"type:varchar(20);not null;default:'open';index"`
	WaiterID     uuid.UUID       `gorm:"type:uuid;not null"`
	Total        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	GuestCount   int             `gorm:"not null;default:1"`
	// PaymentMethod is set only when the order closes as a sale.
	PaymentMethod *string `gorm:"type:varchar(20)"`
	OpenedAt      time.Time
	ClosedAt      *time.Time

	Items []OrderItem `gorm:"foreignKey:OrderID"`
}

// Label returns the human reference used in movement reasons.
func (o *Order) Label() string {
	if o.CustomerName != nil && *o.CustomerName != "" {
		return *o.CustomerName
	}
	return o.ID.String()[:8]
}

// OrderItem statuses (kitchen workflow).
const (
	ItemPending = "pending"
	ItemReady   = "ready"
)

// OrderItem is one line of a tab: either a dish sale or a direct item sale
// (exactly one of DishID / ItemID is set).
type OrderItem struct {
	ID       uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	DishID   *uuid.UUID `gorm:"type:uuid;index"`
	ItemID   *uuid.UUID `gorm:"type:uuid;index"`
	Name     string     `gorm:"not null"`
	Quantity int        `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status    string          `gorm:"type:varchar(20);not null;default:'pending'"`
	Notes     *string
	CreatedAt time.Time

	Dish *Dish `gorm:"foreignKey:DishID"`
	Item *Item `gorm:"foreignKey:ItemID"`
}

// Value is the line value: quantity × unit price.
func (i *OrderItem) Value() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
