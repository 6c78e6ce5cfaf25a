package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brightcart/admin-api/internal/service"
	appErrors "github.com/brightcart/admin-api/pkg/errors"
	"github.com/brightcart/admin-api/pkg/response"
)

// OfferHandler exposes offer endpoints.
type OfferHandler struct {
	offers *service.OfferService
}

// NewOfferHandler constructs OfferHandler.
func NewOfferHandler(offers *service.OfferService) *OfferHandler {
	return &OfferHandler{offers: offers}
}

// List godoc
// @Summary List offers
// @Tags Offers
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /offers [get]
func (h *OfferHandler) List(c *gin.Context) {
	offers, err := h.offers.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, offers, nil)
}

// Get godoc
// @Summary Get offer detail
// @Tags Offers
// @Produce json
// @Param id path string true "Offer ID"
// @Success 200 {object} response.Envelope
// @Router /offers/{id} [get]
func (h *OfferHandler) Get(c *gin.Context) {
	offer, err := h.offers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, offer, nil)
}

// Create godoc
// @Summary Create offer
// @Tags Offers
// @Accept json
// @Produce json
// @Param payload body service.OfferRequest true "Offer payload"
// @Success 201 {object} response.Envelope
// @Router /offers [post]
func (h *OfferHandler) Create(c *gin.Context) {
	var req service.OfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	offer, err := h.offers.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, offer)
}

// Update godoc
// @Summary Update offer
// @Tags Offers
// @Accept json
// @Produce json
// @Param id path string true "Offer ID"
// @Param payload body service.OfferRequest true "Offer payload"
// @Success 200 {object} response.Envelope
// @Router /offers/{id} [put]
func (h *OfferHandler) Update(c *gin.Context) {
	var req service.OfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	offer, err := h.offers.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, offer, nil)
}

// Delete godoc
// @Summary Delete offer
// @Tags Offers
// @Produce json
// @Param id path string true "Offer ID"
// @Success 204 {object} response.Envelope
// @Router /offers/{id} [delete]
func (h *OfferHandler) Delete(c *gin.Context) {
	if err := h.offers.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
