package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/AhmadAdewumi/inventro/internal/apierror"
	"github.com/AhmadAdewumi/inventro/internal/dto"
	"github.com/AhmadAdewumi/inventro/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const priceCacheTTL = 4 * time.Hour

// PriceLookupHandler serves the public price check endpoint.
// No authentication required — no side effects whatsoever.
type PriceLookupHandler struct {
	variants repository.VariantRepository
	rdb      *redis.Client
}

func NewPriceLookupHandler(variants repository.VariantRepository, rdb *redis.Client) *PriceLookupHandler {
	return &PriceLookupHandler{variants: variants, rdb: rdb}
}

// GetPriceByBarcode answers from Redis when it can, falling back to the DB on
// a miss and repopulating the cache best-effort.
func (h *PriceLookupHandler) GetPriceByBarcode(c *gin.Context) {
	barcode := c.Param("barcode")
	ctx := c.Request.Context()
	cacheKey := "price:" + barcode

	if cached, err := h.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
		var resp dto.PriceLookupResponse
		if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
			c.JSON(http.StatusOK, resp)
			return
		}
	}

	v, err := h.variants.FindByBarcode(ctx, barcode)
	if err != nil || !v.IsActive {
		c.JSON(http.StatusNotFound, apierror.New("product not found"))
		return
	}

	resp := dto.PriceLookupResponse{
		Variant:       v.NameSuffix,
		Price:         v.Price,
		StockQuantity: v.StockQuantity,
	}
	if v.Product != nil {
		resp.Product = v.Product.Name
		resp.Category = v.Product.Category
	}

	if b, jsonErr := json.Marshal(resp); jsonErr == nil {
		_ = h.rdb.Set(context.Background(), cacheKey, b, priceCacheTTL).Err()
	}

	c.JSON(http.StatusOK, resp)
}
