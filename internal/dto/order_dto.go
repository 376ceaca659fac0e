package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// OpenOrderRequest opens a tab. TableID set = table-bound (the table is
// occupied atomically); nil TableID = counter/take-away, labelled by
// CustomerName.
type OpenOrderRequest struct {
	TableID      *string `json:"table_id"      validate:"omitempty,uuid"`
	CustomerName *string `json:"customer_name" validate:"omitempty,min=1,max=100"`
	GuestCount   int     `json:"guest_count"   validate:"min=1"`
}

// AddOrderItemRequest adds a line to an open order. Exactly one of DishID /
// ItemID must be set (ItemID requires a direct-sale item).
type AddOrderItemRequest struct {
	DishID   *string `json:"dish_id"  validate:"omitempty,uuid"`
	ItemID   *string `json:"item_id"  validate:"omitempty,uuid"`
	Quantity int     `json:"quantity" validate:"required,min=1"`
	Notes    *string `json:"notes"`
}

// CloseOrderRequest closes a tab. PaymentMethod is required for a sale
// close; an order with no items or zero total closes as a cancellation and
// ignores the payment method.
type CloseOrderRequest struct {
	PaymentMethod *string `json:"payment_method" validate:"omitempty,oneof=cash debit credit transfer"`
}

type OrderFilterQuery struct {
	Status string `form:"status,default=open"` // open | closed | cancelled | all
	Date   string `form:"date"`                // YYYY-MM-DD on opened_at
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type OrderItemResponse struct {
	ID        string          `json:"id"`
	DishID    *string         `json:"dish_id"`
	ItemID    *string         `json:"item_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Status    string          `json:"status"`
	Notes     *string         `json:"notes"`
}

type OrderResponse struct {
	ID            string              `json:"id"`
	TableID       *string             `json:"table_id"`
	CustomerName  *string             `json:"customer_name"`
	Status        string              `json:"status"`
	WaiterID      string              `json:"waiter_id"`
	Total         decimal.Decimal     `json:"total"`
	GuestCount    int                 `json:"guest_count"`
	PaymentMethod *string             `json:"payment_method"`
	Items         []OrderItemResponse `json:"items"`
	OpenedAt      string              `json:"opened_at"`
	ClosedAt      *string             `json:"closed_at"`
}

type OrderListResponse struct {
	Data  []OrderResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// KitchenItemResponse is one pending line in the kitchen queue.
type KitchenItemResponse struct {
	OrderID   string  `json:"order_id"`
	ItemID    string  `json:"item_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Notes     *string `json:"notes"`
	CreatedAt string  `json:"created_at"`
}

// Shortfall reports one insufficient ingredient for an attempted sale.
type Shortfall struct {
	ItemName  string          `json:"item_name"`
	Needed    decimal.Decimal `json:"needed"`
	Available decimal.Decimal `json:"available"`
	Unit      string          `json:"unit"`
}
