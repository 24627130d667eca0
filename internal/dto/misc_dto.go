package dto

import "github.com/shopspring/decimal"

// ─── Customers ───────────────────────────────────────────────────────────────

type CreateCustomerRequest struct {
	Name    string  `json:"name"  validate:"required,min=2,max=120"`
	Phone   string  `json:"phone" validate:"required,min=6,max=20"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Address *string `json:"address"`
}

type CustomerResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Phone         string          `json:"phone"`
	Email         *string         `json:"email,omitempty"`
	WalletBalance decimal.Decimal `json:"wallet_balance"`
}

// ─── Promotions ──────────────────────────────────────────────────────────────

type CreatePromotionRequest struct {
	Name            string          `json:"name"             validate:"required,min=2,max=120"`
	MinQuantity     int             `json:"min_quantity"     validate:"min=1"`
	DiscountPercent decimal.Decimal `json:"discount_percent" validate:"required"`
	// VariantID targets one sellable unit; omit for a store-wide rule.
	VariantID *string `json:"variant_id" validate:"omitempty,uuid"`
}

type PromotionResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	IsActive        bool            `json:"is_active"`
	MinQuantity     int             `json:"min_quantity"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	VariantID       *string         `json:"variant_id,omitempty"`
}

// ─── Notifications ───────────────────────────────────────────────────────────

type NotificationResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Link      string `json:"link,omitempty"`
	IsRead    bool   `json:"is_read"`
	CreatedAt string `json:"created_at"`
}

// ─── Settings ────────────────────────────────────────────────────────────────

type UpdateSettingsRequest struct {
	StoreName *string `json:"store_name" validate:"omitempty,min=1,max=120"`
	Address   *string `json:"address"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email" validate:"omitempty,email"`
}

type SettingsResponse struct {
	StoreName string `json:"store_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
}

// ─── Reports ─────────────────────────────────────────────────────────────────

// TopSellerRow is scanned straight from the aggregate query.
type TopSellerRow struct {
	ProductName  string          `json:"product"`
	VariantName  string          `json:"variant"`
	TotalSold    int             `json:"total_sold"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

type DashboardResponse struct {
	Date          string          `json:"date"`
	Revenue       decimal.Decimal `json:"revenue"`
	Profit        decimal.Decimal `json:"profit"`
	LowStockItems int64           `json:"low_stock_items"`
}
