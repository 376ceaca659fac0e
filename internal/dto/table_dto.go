package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateTableRequest struct {
	TableNumber int `json:"table_number" validate:"required,min=1"`
	Capacity    int `json:"capacity"     validate:"required,min=1,max=50"`
}

type UpdateTableRequest struct {
	Capacity *int `json:"capacity" validate:"omitempty,min=1,max=50"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type TableResponse struct {
	ID             string  `json:"id"`
	TableNumber    int     `json:"table_number"`
	Capacity       int     `json:"capacity"`
	Status         string  `json:"status"`
	CurrentOrderID *string `json:"current_order_id"`
}
