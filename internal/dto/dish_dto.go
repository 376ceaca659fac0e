package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateDishRequest struct {
	Name     string          `json:"name"     validate:"required,min=2,max=120"`
	Price    decimal.Decimal `json:"price"    validate:"required"`
	Category string          `json:"category"`
}

type UpdateDishRequest struct {
	Name     *string          `json:"name"     validate:"omitempty,min=2,max=120"`
	Price    *decimal.Decimal `json:"price"`
	Category *string          `json:"category"`
}

// SheetEntryRequest is one technical sheet row in a ReplaceSheetRequest.
type SheetEntryRequest struct {
	ItemID          string          `json:"item_id"           validate:"required,uuid"`
	QuantityPerSale decimal.Decimal `json:"quantity_per_sale" validate:"required"`
	Unit            string          `json:"unit"              validate:"required"`
}

// ReplaceSheetRequest swaps a dish's whole technical sheet. An empty list
// is valid: the dish becomes sellable without stock deduction.
type ReplaceSheetRequest struct {
	Entries []SheetEntryRequest `json:"entries" validate:"dive"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SheetEntryResponse struct {
	ItemID          string          `json:"item_id"`
	ItemName        string          `json:"item_name"`
	QuantityPerSale decimal.Decimal `json:"quantity_per_sale"`
	Unit            string          `json:"unit"`
}

type DishResponse struct {
	ID       string               `json:"id"`
	Name     string               `json:"name"`
	Price    decimal.Decimal      `json:"price"`
	Category string               `json:"category"`
	Active   bool                 `json:"active"`
	Sheet    []SheetEntryResponse `json:"sheet,omitempty"`
}
