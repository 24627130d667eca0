package handler

import (
	"net/http"

	"github.com/AhmadAdewumi/inventro/internal/apierror"
	"github.com/AhmadAdewumi/inventro/internal/dto"
	"github.com/AhmadAdewumi/inventro/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type StoreHandler struct{ svc service.StoreService }

func NewStoreHandler(svc service.StoreService) *StoreHandler { return &StoreHandler{svc: svc} }

func (h *StoreHandler) GetSettings(c *gin.Context) {
	resp, err := h.svc.Settings(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to load settings"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *StoreHandler) UpdateSettings(c *gin.Context) {
	var req dto.UpdateSettingsRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateSettings(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *StoreHandler) ListNotifications(c *gin.Context) {
	unreadOnly := c.Query("unread") == "true"
	resp, err := h.svc.Notifications(c.Request.Context(), unreadOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list notifications"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *StoreHandler) MarkNotificationRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid ID"))
		return
	}
	if err := h.svc.MarkNotificationRead(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
