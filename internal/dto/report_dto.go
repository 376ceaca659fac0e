package dto

import "github.com/shopspring/decimal"

// PaymentRevenueLine is one payment method's slice of a day's revenue.
// Cancelled orders never contribute here.
type PaymentRevenueLine struct {
	PaymentMethod string          `json:"payment_method"`
	Orders        int64           `json:"orders"`
	Revenue       decimal.Decimal `json:"revenue"`
}

type RevenueReportResponse struct {
	Date    string               `json:"date"`
	Lines   []PaymentRevenueLine `json:"lines"`
	Total   decimal.Decimal      `json:"total"`
	Orders  int64                `json:"orders"`
	Covers  int64                `json:"covers"`
}
