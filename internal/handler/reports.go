package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/AhmadAdewumi/inventro/internal/apierror"
	"github.com/AhmadAdewumi/inventro/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportsHandler struct{ svc service.ReportService }

func NewReportsHandler(svc service.ReportService) *ReportsHandler {
	return &ReportsHandler{svc: svc}
}

// Dashboard returns the day's revenue, profit and low stock count. Defaults
// to today; accepts ?date=YYYY-MM-DD.
func (h *ReportsHandler) Dashboard(c *gin.Context) {
	day := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("invalid date, expected YYYY-MM-DD"))
			return
		}
		day = parsed
	}
	resp, err := h.svc.Dashboard(c.Request.Context(), day)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to build dashboard"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportsHandler) TopSellers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))
	resp, err := h.svc.TopSellers(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list top sellers"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
