package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateItemRequest struct {
	Name         string          `json:"name"          validate:"required,min=2,max=120"`
	InitialStock decimal.Decimal `json:"initial_stock" validate:"min=0"`
	MinStock     decimal.Decimal `json:"min_stock"     validate:"min=0"`
	PurchaseUnit string          `json:"purchase_unit" validate:"required"`
	SubUnit      *string         `json:"sub_unit"`
	// UnitsPerPackage is required whenever SubUnit is set (purchase → sub factor).
	UnitsPerPackage           *decimal.Decimal `json:"units_per_package"`
	RecipeUnit                *string          `json:"recipe_unit"`
	RecipeUnitsPerConsumption *decimal.Decimal `json:"recipe_units_per_consumption"`
	ExpiryDate                *string          `json:"expiry_date" validate:"omitempty,datetime=2006-01-02"`
	DirectSale                bool             `json:"direct_sale"`
	Price                     *decimal.Decimal `json:"price"`
}

type UpdateItemRequest struct {
	Name                      *string          `json:"name" validate:"omitempty,min=2,max=120"`
	MinStock                  *decimal.Decimal `json:"min_stock"`
	PurchaseUnit              *string          `json:"purchase_unit"`
	SubUnit                   *string          `json:"sub_unit"`
	UnitsPerPackage           *decimal.Decimal `json:"units_per_package"`
	RecipeUnit                *string          `json:"recipe_unit"`
	RecipeUnitsPerConsumption *decimal.Decimal `json:"recipe_units_per_consumption"`
	DirectSale                *bool            `json:"direct_sale"`
	Price                     *decimal.Decimal `json:"price"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ItemFilterQuery struct {
	Name   string `form:"name"`
	Active string `form:"active"` // "", "false", "all"
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemResponse struct {
	ID                        string           `json:"id"`
	Name                      string           `json:"name"`
	CurrentStock              decimal.Decimal  `json:"current_stock"`
	MinStock                  decimal.Decimal  `json:"min_stock"`
	PurchaseUnit              string           `json:"purchase_unit"`
	SubUnit                   *string          `json:"sub_unit"`
	UnitsPerPackage           decimal.Decimal  `json:"units_per_package"`
	RecipeUnit                *string          `json:"recipe_unit"`
	RecipeUnitsPerConsumption decimal.Decimal  `json:"recipe_units_per_consumption"`
	ExpiryDate                *string          `json:"expiry_date"`
	DirectSale                bool             `json:"direct_sale"`
	Price                     *decimal.Decimal `json:"price"`
	Active                    bool             `json:"active"`
	BelowMinimum              bool             `json:"below_minimum"`
}

type ItemListResponse struct {
	Data  []ItemResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

// ShoppingListEntry is one replenishment suggestion: below-min or expiring
// items with the quantity to reorder.
type ShoppingListEntry struct {
	ItemID       string          `json:"item_id"`
	Name         string          `json:"name"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	MinStock     decimal.Decimal `json:"min_stock"`
	SuggestedQty decimal.Decimal `json:"suggested_qty"`
	Unit         string          `json:"unit"`
	Expiring     bool            `json:"expiring"`
}
