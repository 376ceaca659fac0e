package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Dish is a sellable recipe. A dish with no technical sheet entries is
// still sellable — it simply deducts no stock.
type Dish struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RestaurantID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name         string          `gorm:"index;not null"`
	Price        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Category     string          `gorm:"not null;default:'general'"`
	Active       bool            `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Sheet []TechnicalSheetEntry `gorm:"foreignKey:DishID"`
}

// TechnicalSheetEntry is one bill-of-materials row: selling one unit of the
// dish consumes QuantityPerSale of the item, measured in Unit. Unit is
// matched against the item's purchase/sub/recipe units at resolution time.
type TechnicalSheetEntry struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DishID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	QuantityPerSale decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	Unit            string          `gorm:"not null"`
	CreatedAt       time.Time

	Item *Item `gorm:"foreignKey:ItemID"`
}

// TableName overrides GORM's pluralization (technical_sheet_entrys → technical_sheet_entries).
func (TechnicalSheetEntry) TableName() string { return "technical_sheet_entries" }
