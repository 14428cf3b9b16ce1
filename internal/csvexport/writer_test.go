package csvexport_test

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prokura/internal/csvexport"
	"prokura/internal/domain"
)

func exportedRequest() domain.ProcurementRequest {
	created := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	return domain.ProcurementRequest{
		ID:             uuid.MustParse("11111111-2222-3333-4444-555555555555"),
		RequestorName:  "Maria Schmidt",
		Title:          "Laptop docking stations",
		VendorName:     "Acme GmbH",
		VATID:          "DE123456789",
		Department:     "IT",
		CommodityGroup: "IT Hardware",
		Currency:       domain.CurrencyEUR,
		TotalCost:      1200.5,
		LineItems: []domain.LineItem{
			{Description: "Docking station", Amount: 5, Unit: "pcs", UnitPrice: 240.10, TotalPrice: 1200.50},
		},
		Status:    domain.StatusOpen,
		CreatedAt: created,
		UpdatedAt: created.Add(time.Hour),
	}
}

func TestWriter_HeaderAndRows(t *testing.T) {
	var buf bytes.Buffer
	w := csvexport.NewWriter(&buf)

	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteRequests([]domain.ProcurementRequest{exportedRequest()}))
	w.Flush()
	require.NoError(t, w.Error())

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	header := rows[0]
	assert.Equal(t, "Request ID", header[0])
	assert.Equal(t, "Updated At", header[12])

	row := rows[1]
	assert.Equal(t, "11111111-2222-3333-4444-555555555555", row[0])
	assert.Equal(t, "Maria Schmidt", row[1])
	assert.Equal(t, "Acme GmbH", row[3])
	assert.Equal(t, "EUR", row[7])
	assert.Equal(t, "1200.50", row[8])
	assert.Equal(t, "1", row[9])
	assert.Equal(t, string(domain.StatusOpen), row[10])
	assert.Equal(t, "2026-03-14T09:30:00Z", row[11])
}

func TestWriter_QuotesEmbeddedCommas(t *testing.T) {
	var buf bytes.Buffer
	w := csvexport.NewWriter(&buf)

	req := exportedRequest()
	req.Title = "Chairs, desks and shelves"
	require.NoError(t, w.WriteRequests([]domain.ProcurementRequest{req}))
	w.Flush()
	require.NoError(t, w.Error())

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "Chairs, desks and shelves", rows[0][2])
}

func TestWriter_EmptyBatch(t *testing.T) {
	var buf bytes.Buffer
	w := csvexport.NewWriter(&buf)

	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteRequests(nil))
	w.Flush()

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
