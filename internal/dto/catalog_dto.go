package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateVariantRequest struct {
	Name        string  `json:"name"         validate:"required,min=2,max=120"`
	Category    string  `json:"category"`
	Description *string `json:"description"`
	SKU         string  `json:"sku"          validate:"required,min=2,max=50"`
	Barcode     string  `json:"barcode"      validate:"required,min=4,max=50"`
	NameSuffix  string  `json:"variant_name"`
	Price       decimal.Decimal `json:"price"      validate:"required"`
	CostPrice   decimal.Decimal `json:"cost_price" validate:"min=0"`
	TaxRate     decimal.Decimal `json:"tax_rate"   validate:"min=0"`
	Stock       int             `json:"stock"      validate:"min=0"`
}

type UpdateVariantRequest struct {
	NameSuffix        *string          `json:"variant_name"`
	Price             *decimal.Decimal `json:"price"`
	TaxRate           *decimal.Decimal `json:"tax_rate"`
	LowStockThreshold *int             `json:"low_stock_threshold" validate:"omitempty,min=0"`
}

// ─── Filter ──────────────────────────────────────────────────────────────────

type VariantFilter struct {
	Barcode  string `form:"barcode"`
	SKU      string `form:"sku"`
	Name     string `form:"name"`
	Category string `form:"category"`
	Active   string `form:"active"` // "false" = inactive, "all" = everything, default = active
	Page     int    `form:"page,default=1"  validate:"min=1"`
	Limit    int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type VariantResponse struct {
	ID                string          `json:"id"`
	Product           string          `json:"product"`
	Category          string          `json:"category"`
	SKU               string          `json:"sku"`
	Barcode           string          `json:"barcode"`
	NameSuffix        string          `json:"variant_name"`
	Price             decimal.Decimal `json:"price"`
	CostPrice         decimal.Decimal `json:"cost_price"`
	TaxRate           decimal.Decimal `json:"tax_rate"`
	StockQuantity     int             `json:"stock_quantity"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	IsActive          bool            `json:"is_active"`
}

type VariantListResponse struct {
	Data  []VariantResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// PriceLookupResponse is served by the public (cached) barcode price check.
type PriceLookupResponse struct {
	Product       string          `json:"product"`
	Variant       string          `json:"variant"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	Category      string          `json:"category"`
}
