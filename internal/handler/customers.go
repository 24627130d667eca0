package handler

import (
	"net/http"

	"github.com/AhmadAdewumi/inventro/internal/apierror"
	"github.com/AhmadAdewumi/inventro/internal/dto"
	"github.com/AhmadAdewumi/inventro/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CustomersHandler struct {
	customers service.CustomerService
	pricing   service.PricingService
}

func NewCustomersHandler(customers service.CustomerService, pricing service.PricingService) *CustomersHandler {
	return &CustomersHandler{customers: customers, pricing: pricing}
}

func (h *CustomersHandler) CreateCustomer(c *gin.Context) {
	var req dto.CreateCustomerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.customers.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CustomersHandler) GetCustomer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid ID"))
		return
	}
	resp, err := h.customers.Find(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CustomersHandler) ListCustomers(c *gin.Context) {
	resp, err := h.customers.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list customers"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CustomersHandler) CreatePromotion(c *gin.Context) {
	var req dto.CreatePromotionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.pricing.CreatePromotion(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CustomersHandler) ListPromotions(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true"
	resp, err := h.pricing.ListPromotions(c.Request.Context(), includeInactive)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list promotions"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CustomersHandler) SetPromotionActive(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid ID"))
		return
	}
	active := c.Query("active") != "false"
	if err := h.pricing.SetPromotionActive(c.Request.Context(), id, active); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
