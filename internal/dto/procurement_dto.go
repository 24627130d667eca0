package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type PurchaseOrderLineRequest struct {
	VariantID string          `json:"variant_id" validate:"required,uuid"`
	Quantity  int             `json:"quantity"   validate:"required,min=1"`
	UnitCost  decimal.Decimal `json:"unit_cost"  validate:"required"`
}

type CreatePurchaseOrderRequest struct {
	SupplierID string                     `json:"supplier_id" validate:"required,uuid"`
	Note       string                     `json:"note"`
	Lines      []PurchaseOrderLineRequest `json:"lines" validate:"required,min=1,dive"`
}

type CreateSupplierRequest struct {
	Name          string  `json:"name" validate:"required,min=2,max=120"`
	ContactPerson string  `json:"contact_person"`
	Email         *string `json:"email"   validate:"omitempty,email"`
	Phone         *string `json:"phone"`
	Address       *string `json:"address"`
}

// ─── Filter ──────────────────────────────────────────────────────────────────

type PurchaseOrderFilter struct {
	Status     string `form:"status"`
	SupplierID string `form:"supplier_id"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PurchaseOrderLineResponse struct {
	VariantID string          `json:"variant_id"`
	SKU       string          `json:"sku,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type PurchaseOrderResponse struct {
	ID         string                      `json:"id"`
	SupplierID string                      `json:"supplier_id"`
	Supplier   string                      `json:"supplier,omitempty"`
	Status     string                      `json:"status"`
	TotalCost  decimal.Decimal             `json:"total_cost"`
	Note       string                      `json:"note,omitempty"`
	ReceivedAt *string                     `json:"received_at,omitempty"`
	Lines      []PurchaseOrderLineResponse `json:"lines"`
	CreatedAt  string                      `json:"created_at"`
}

type PurchaseOrderListResponse struct {
	Data  []PurchaseOrderResponse `json:"data"`
	Total int64                   `json:"total"`
	Page  int                     `json:"page"`
	Limit int                     `json:"limit"`
}

type SupplierResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	ContactPerson string  `json:"contact_person,omitempty"`
	Email         *string `json:"email,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Address       *string `json:"address,omitempty"`
	IsActive      bool    `json:"is_active"`
}

type CostHistoryResponse struct {
	VariantID       string          `json:"variant_id"`
	PurchaseOrderID string          `json:"purchase_order_id"`
	OldCost         decimal.Decimal `json:"old_cost"`
	NewCost         decimal.Decimal `json:"new_cost"`
	CreatedAt       string          `json:"created_at"`
}
