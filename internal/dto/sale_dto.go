package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type SaleLineRequest struct {
	Barcode string `json:"barcode" validate:"required"`
	Quantity int   `json:"quantity" validate:"required,min=1"`
	// DiscountPercent is the manual discount the cashier grants (0-100).
	// It compounds multiplicatively with any promotion discount.
	DiscountPercent decimal.Decimal `json:"discount_percent" validate:"min=0"`
}

type CheckoutRequest struct {
	PaymentMethod string            `json:"payment_method" validate:"required,oneof=cash card transfer debt wallet none"`
	Lines         []SaleLineRequest `json:"lines"           validate:"required,min=1,dive"`
	CustomerID    *string           `json:"customer_id"     validate:"omitempty,uuid"`
	// IsQuote prices the lines without touching stock; payment method is
	// recorded as "none" regardless of the field above.
	IsQuote bool `json:"is_quote"`
}

type RefundItemRequest struct {
	Barcode string `json:"barcode" validate:"required"`
	Quantity int   `json:"quantity" validate:"required,min=1"`
	// LineID pins the exact order line; when absent the first matching line
	// by creation order is used.
	LineID    *string `json:"line_id" validate:"omitempty,uuid"`
	IsDamaged bool    `json:"is_damaged"`
}

type RefundRequest struct {
	Items []RefundItemRequest `json:"items" validate:"required,min=1,dive"`
}

// ─── Filter ──────────────────────────────────────────────────────────────────

// OrderFilter is bound from the query string of GET /v1/sales.
type OrderFilter struct {
	Date       string `form:"date"` // YYYY-MM-DD; empty = all
	Status     string `form:"status"`
	CustomerID string `form:"customer_id"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type OrderLineResponse struct {
	ID               string          `json:"id"`
	Product          string          `json:"product"`
	Variant          string          `json:"variant"`
	Barcode          string          `json:"barcode"`
	Quantity         int             `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	RefundedQuantity int             `json:"refunded_quantity"`
	LineTotal        decimal.Decimal `json:"line_total"`
}

type OrderResponse struct {
	ID            string              `json:"id"`
	Status        string              `json:"status"`
	PaymentMethod string              `json:"payment_method"`
	CustomerID    *string             `json:"customer_id,omitempty"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	Lines         []OrderLineResponse `json:"lines"`
	CreatedAt     string              `json:"created_at"`
}

type OrderListResponse struct {
	Data  []OrderResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

type RefundResponse struct {
	OrderID       string          `json:"order_id"`
	RefundedTotal decimal.Decimal `json:"refunded_total"`
}
