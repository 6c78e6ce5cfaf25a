package handler

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/brightcart/admin-api/internal/service"
	appErrors "github.com/brightcart/admin-api/pkg/errors"
	"github.com/brightcart/admin-api/pkg/response"
)

// ExportHandler exposes order export endpoints.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Orders godoc
// @Summary Export orders
// @Description Download orders in a date window as CSV or PDF
// @Tags Exports
// @Produce octet-stream
// @Param from query string true "Window start (RFC3339)"
// @Param to query string true "Window end (RFC3339)"
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /exports/orders [get]
func (h *ExportHandler) Orders(c *gin.Context) {
	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "from must be RFC3339"))
		return
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "to must be RFC3339"))
		return
	}
	format := service.ExportFormat(c.DefaultQuery("format", "csv"))

	result, err := h.exports.Orders(c.Request.Context(), from, to, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(200, result.ContentType, result.Body)
}
