package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/brightcart/admin-api/internal/models"
	"github.com/brightcart/admin-api/internal/service"
	appErrors "github.com/brightcart/admin-api/pkg/errors"
	"github.com/brightcart/admin-api/pkg/response"
)

// CustomerHandler exposes customer endpoints.
type CustomerHandler struct {
	customers *service.CustomerService
}

// NewCustomerHandler constructs CustomerHandler.
func NewCustomerHandler(customers *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

// List godoc
// @Summary List customers
// @Tags Customers
// @Produce json
// @Param search query string false "Search by email or name"
// @Param blocked query bool false "Filter by blocked state"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /customers [get]
func (h *CustomerHandler) List(c *gin.Context) {
	var filter models.CustomerFilter
	filter.Search = strings.TrimSpace(c.Query("search"))
	if blocked := c.Query("blocked"); blocked != "" {
		if blocked == "true" {
			v := true
			filter.Blocked = &v
		} else if blocked == "false" {
			v := false
			filter.Blocked = &v
		}
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	customers, pagination, err := h.customers.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, customers, pagination)
}

// Get godoc
// @Summary Get customer detail
// @Tags Customers
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} response.Envelope
// @Router /customers/{id} [get]
func (h *CustomerHandler) Get(c *gin.Context) {
	customer, err := h.customers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, customer, nil)
}

// SetBlocked godoc
// @Summary Block or unblock a customer
// @Tags Customers
// @Accept json
// @Produce json
// @Param id path string true "Customer ID"
// @Param payload body object true "Blocked flag"
// @Success 200 {object} response.Envelope
// @Router /customers/{id}/blocked [put]
func (h *CustomerHandler) SetBlocked(c *gin.Context) {
	var payload struct {
		Blocked *bool `json:"blocked" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "blocked flag required"))
		return
	}
	customer, err := h.customers.SetBlocked(c.Request.Context(), c.Param("id"), *payload.Blocked)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, customer, nil)
}
