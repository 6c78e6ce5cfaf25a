package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brightcart/admin-api/internal/service"
	appErrors "github.com/brightcart/admin-api/pkg/errors"
	"github.com/brightcart/admin-api/pkg/response"
)

// CouponHandler exposes coupon endpoints.
type CouponHandler struct {
	coupons *service.CouponService
}

// NewCouponHandler constructs CouponHandler.
func NewCouponHandler(coupons *service.CouponService) *CouponHandler {
	return &CouponHandler{coupons: coupons}
}

// List godoc
// @Summary List coupons
// @Tags Coupons
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /coupons [get]
func (h *CouponHandler) List(c *gin.Context) {
	coupons, err := h.coupons.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, coupons, nil)
}

// Get godoc
// @Summary Get coupon detail
// @Tags Coupons
// @Produce json
// @Param id path string true "Coupon ID"
// @Success 200 {object} response.Envelope
// @Router /coupons/{id} [get]
func (h *CouponHandler) Get(c *gin.Context) {
	coupon, err := h.coupons.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, coupon, nil)
}

// Create godoc
// @Summary Create coupon
// @Tags Coupons
// @Accept json
// @Produce json
// @Param payload body service.CouponRequest true "Coupon payload"
// @Success 201 {object} response.Envelope
// @Router /coupons [post]
func (h *CouponHandler) Create(c *gin.Context) {
	var req service.CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	coupon, err := h.coupons.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, coupon)
}

// Update godoc
// @Summary Update coupon
// @Tags Coupons
// @Accept json
// @Produce json
// @Param id path string true "Coupon ID"
// @Param payload body service.CouponRequest true "Coupon payload"
// @Success 200 {object} response.Envelope
// @Router /coupons/{id} [put]
func (h *CouponHandler) Update(c *gin.Context) {
	var req service.CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	coupon, err := h.coupons.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, coupon, nil)
}

// Deactivate godoc
// @Summary Deactivate coupon
// @Tags Coupons
// @Produce json
// @Param id path string true "Coupon ID"
// @Success 204 {object} response.Envelope
// @Router /coupons/{id} [delete]
func (h *CouponHandler) Deactivate(c *gin.Context) {
	if err := h.coupons.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
