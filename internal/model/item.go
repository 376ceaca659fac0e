package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is a stock-tracked product. CurrentStock is always expressed in
// purchase units and may be fractional (e.g. 0.5 case).
//
// Unit hierarchy: PurchaseUnit (how it is bought) → SubUnit (how it is
// consumed, UnitsPerPackage per purchase unit) → RecipeUnit (how technical
// sheets measure it, RecipeUnitsPerConsumption per sub-unit). SubUnit and
// RecipeUnit are optional levels.
type Item struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RestaurantID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name         string    `gorm:"index;not null"`
	CurrentStock decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	MinStock     decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	PurchaseUnit string          `gorm:"not null;default:'unit'"`
	SubUnit      *string
	// UnitsPerPackage converts purchase units to sub-units. 1 when the item
	// has no sub-unit level.
	UnitsPerPackage decimal.Decimal `gorm:"type:decimal(12,3);not null;default:1"`
	RecipeUnit      *string
	RecipeUnitsPerConsumption decimal.Decimal `gorm:"type:decimal(12,3);not null;default:1"`
	ExpiryDate                *time.Time
	// DirectSale marks items sellable standalone, bypassing recipes.
	DirectSale bool             `gorm:"not null;default:false"`
	Price      *decimal.Decimal `gorm:"type:decimal(12,2)"`
	// Active=false is an archive, not a delete — movements keep referencing it.
	Active    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BelowMinimum reports whether the item needs replenishment.
func (i *Item) BelowMinimum() bool {
	return i.CurrentStock.LessThan(i.MinStock)
}

// ExpiresWithin reports whether the item is past or within d of its expiry date.
func (i *Item) ExpiresWithin(d time.Duration) bool {
	if i.ExpiryDate == nil {
		return false
	}
	return time.Until(*i.ExpiryDate) <= d
}
