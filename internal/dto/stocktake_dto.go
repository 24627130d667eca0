package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type StartStocktakeRequest struct {
	Note string `json:"note"`
}

type RecordCountRequest struct {
	Barcode string `json:"barcode" validate:"required"`
	Quantity int   `json:"quantity" validate:"min=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type StocktakeItemResponse struct {
	ID               string `json:"id"`
	VariantID        string `json:"variant_id"`
	SKU              string `json:"sku,omitempty"`
	ExpectedQuantity int    `json:"expected_quantity"`
	CountedQuantity  int    `json:"counted_quantity"`
	Variance         int    `json:"variance"`
}

type StocktakeSessionResponse struct {
	ID          string                  `json:"id"`
	Status      string                  `json:"status"`
	Note        string                  `json:"note,omitempty"`
	Items       []StocktakeItemResponse `json:"items,omitempty"`
	ItemCount   int                     `json:"item_count"`
	CreatedAt   string                  `json:"created_at"`
	CompletedAt *string                 `json:"completed_at,omitempty"`
}
