package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// WithdrawalRequest is the manual, non-sale stock removal path.
type WithdrawalRequest struct {
	ItemID   string          `json:"item_id"  validate:"required,uuid"`
	Quantity decimal.Decimal `json:"quantity" validate:"required"`
	Reason   string          `json:"reason"   validate:"required,oneof=sale waste internal_use expired other"`
	Notes    *string         `json:"notes"`
}

// EntryRequest registers arriving stock.
type EntryRequest struct {
	ItemID    string          `json:"item_id"    validate:"required,uuid"`
	Quantity  decimal.Decimal `json:"quantity"   validate:"required"`
	NewExpiry *string         `json:"new_expiry" validate:"omitempty,datetime=2006-01-02"`
	Notes     *string         `json:"notes"`
}

// AdjustmentRequest recounts an item to an absolute quantity.
type AdjustmentRequest struct {
	ItemID      string          `json:"item_id"      validate:"required,uuid"`
	NewQuantity decimal.Decimal `json:"new_quantity" validate:"min=0"`
	Reason      string          `json:"reason"       validate:"required,min=3"`
}

type MovementFilterQuery struct {
	ItemID  string `form:"item_id"  validate:"omitempty,uuid"`
	OrderID string `form:"order_id" validate:"omitempty,uuid"`
	Type    string `form:"type"     validate:"omitempty,oneof=entry withdrawal adjustment"`
	Page    int    `form:"page,default=1"    validate:"min=1"`
	Limit   int    `form:"limit,default=100" validate:"min=1,max=500"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// StockOperationResponse reports the outcome of a manual ledger write.
type StockOperationResponse struct {
	ItemID        string          `json:"item_id"`
	PreviousStock decimal.Decimal `json:"previous_stock"`
	NewStock      decimal.Decimal `json:"new_stock"`
	MovementType  string          `json:"movement_type"`
}

type MovementResponse struct {
	ID            string          `json:"id"`
	ItemID        string          `json:"item_id"`
	ItemName      string          `json:"item_name"`
	PreviousStock decimal.Decimal `json:"previous_stock"`
	NewStock      decimal.Decimal `json:"new_stock"`
	Type          string          `json:"type"`
	Reason        string          `json:"reason"`
	ChangedBy     string          `json:"changed_by"`
	OrderID       *string         `json:"order_id"`
	CreatedAt     string          `json:"created_at"`
}

type MovementListResponse struct {
	Data  []MovementResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
