package model

import (
	"time"

	"github.com/google/uuid"
)

// Table statuses.
const (
	TableFree     = "free"
	TableOccupied = "occupied"
	TableReserved = "reserved"
)

// Table is a physical dining table. Invariant: status=occupied implies
// exactly one open Order pointing back via CurrentOrderID; releasing clears
// both sides in the same transaction.
type Table struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RestaurantID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_restaurant_table"`
	TableNumber    int        `gorm:"not null;uniqueIndex:idx_restaurant_table"`
	Capacity       int        `gorm:"not null;default:2"`
	Status         string     `gorm:"type:varchar(20);not null;default:'free'"`
	CurrentOrderID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName avoids the generic "tables" relation name.
func (Table) TableName() string { return "dining_tables" }
