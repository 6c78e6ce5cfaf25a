package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightcart/admin-api/internal/models"
	appErrors "github.com/brightcart/admin-api/pkg/errors"
)

type exportSourceStub struct {
	orders []models.Order
}

func (s exportSourceStub) ListForExport(ctx context.Context, from, to time.Time) ([]models.Order, error) {
	return s.orders, nil
}

func TestExportOrdersCSV(t *testing.T) {
	placed := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc := NewExportService(exportSourceStub{orders: []models.Order{
		{Number: "BC-1001", CustomerEmail: "buyer@example.com", Status: models.OrderDelivered, TotalCents: 129900, ItemCount: 3, PlacedAt: placed},
	}}, nil)

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	result, err := svc.Orders(context.Background(), from, to, ExportCSV)
	require.NoError(t, err)
	assert.Equal(t, "orders-2026-04-01.csv", result.Filename)
	assert.Equal(t, "text/csv", result.ContentType)

	body := string(result.Body)
	assert.True(t, strings.HasPrefix(body, "Number,Customer,Status,Total,Items,Placed At"))
	assert.Contains(t, body, "BC-1001,buyer@example.com,delivered,1299.00,3,")
}

func TestExportOrdersPDF(t *testing.T) {
	svc := NewExportService(exportSourceStub{}, nil)

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	result, err := svc.Orders(context.Background(), from, to, ExportPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, strings.HasPrefix(string(result.Body), "%PDF"))
}

func TestExportOrdersValidation(t *testing.T) {
	svc := NewExportService(exportSourceStub{}, nil)
	now := time.Now()

	_, err := svc.Orders(context.Background(), now, now, ExportCSV)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Orders(context.Background(), now, now.Add(time.Hour), ExportFormat("xlsx"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
