package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AdjustStockRequest struct {
	Barcode        string `json:"barcode"         validate:"required"`
	QuantityChange int    `json:"quantity_change" validate:"required"`
	Action         string `json:"action"          validate:"required,oneof=restock audit loss"`
	Note           string `json:"note"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// AdjustStockResponse carries the corrected variant together with the ledger
// entry the correction produced.
type AdjustStockResponse struct {
	Variant VariantResponse     `json:"variant"`
	Entry   LedgerEntryResponse `json:"entry"`
}

type LedgerEntryResponse struct {
	ID             string `json:"id"`
	VariantID      string `json:"variant_id"`
	SKU            string `json:"sku,omitempty"`
	Action         string `json:"action"`
	QuantityChange int    `json:"quantity_change"`
	StockAfter     int    `json:"stock_after"`
	Note           string `json:"note,omitempty"`
	CreatedAt      string `json:"created_at"`
}

type LedgerListResponse struct {
	Data  []LedgerEntryResponse `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}

// LedgerVerifyResponse reports a replay of one variant's ledger from zero.
type LedgerVerifyResponse struct {
	VariantID     string `json:"variant_id"`
	Entries       int    `json:"entries"`
	ReplayedStock int    `json:"replayed_stock"`
	LiveStock     int    `json:"live_stock"`
	Consistent    bool   `json:"consistent"`
	// FirstBadEntry is the index of the first entry whose stock_after does
	// not match the running sum, -1 when all entries agree.
	FirstBadEntry int `json:"first_bad_entry"`
}
