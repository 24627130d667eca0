package handler

import (
	"net/http"
	"strconv"

	"github.com/AhmadAdewumi/inventro/internal/apierror"
	"github.com/AhmadAdewumi/inventro/internal/dto"
	"github.com/AhmadAdewumi/inventro/internal/middleware"
	"github.com/AhmadAdewumi/inventro/internal/repository"
	"github.com/AhmadAdewumi/inventro/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InventoryHandler struct{ svc service.InventoryService }

func NewInventoryHandler(svc service.InventoryService) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

// AdjustStock applies a manual signed correction and returns the corrected
// variant together with the ledger entry it produced.
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	var req dto.AdjustStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	actorID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Adjust(c.Request.Context(), actorID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *InventoryHandler) LedgerHistory(c *gin.Context) {
	filter := repository.LedgerFilter{
		Action: c.Query("action"),
	}
	if raw := c.Query("variant_id"); raw != "" {
		vid, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("invalid variant_id"))
			return
		}
		filter.VariantID = &vid
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))

	resp, err := h.svc.LedgerHistory(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list ledger entries"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// VerifyLedger replays one variant's ledger from zero and reports whether the
// recorded levels and the live stock agree.
func (h *InventoryHandler) VerifyLedger(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid ID"))
		return
	}
	resp, err := h.svc.VerifyLedger(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
