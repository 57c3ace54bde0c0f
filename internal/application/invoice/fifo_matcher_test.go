package invoice_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/spareparts-api/internal/application/invoice"
	"github.com/jhoicas/spareparts-api/internal/domain"
	"github.com/jhoicas/spareparts-api/internal/domain/entity"
	"github.com/jhoicas/spareparts-api/internal/infrastructure/memory"
)

var matcherShipTo = entity.Location{Type: entity.LocationTechnician, ID: "T1"}

const matcherSpareID = "SP-42"

func seedLine(store *memory.Store, id, docNumber string, qty int64, price float64, age time.Duration) {
	store.AddInvoiceLine(&entity.InvoiceLine{
		ID:             id,
		DocumentID:     "doc-" + id,
		DocumentNumber: docNumber,
		Destination:    matcherShipTo,
		SpareID:        matcherSpareID,
		Qty:            qty,
		UnitPrice:      decimal.NewFromFloat(price),
		Tax:            decimal.NewFromFloat(price * 0.18),
		HSN:            "8507",
		CreatedAt:      time.Now().Add(-age),
	})
}

func TestMatchForReturn_OldestFirstWithSpill(t *testing.T) {
	store := memory.NewStore()
	seedLine(store, "L1", "INV-001", 5, 100, 48*time.Hour)
	seedLine(store, "L2", "INV-002", 10, 120, 24*time.Hour)

	matcher := invoice.NewFIFOMatcher()
	matches, err := matcher.MatchForReturn(store.InvoiceLineRepo(), matcherShipTo, matcherSpareID, 8)
	require.NoError(t, err)
	require.Len(t, matches, 2, "8 units over a 5-unit oldest line must spill to the next")

	assert.Equal(t, "INV-001", matches[0].InvoiceDocNumber)
	assert.Equal(t, int64(5), matches[0].Qty, "the oldest line is depleted first")
	assert.True(t, decimal.NewFromInt(100).Equal(matches[0].UnitPrice))

	assert.Equal(t, "INV-002", matches[1].InvoiceDocNumber)
	assert.Equal(t, int64(3), matches[1].Qty)
	assert.True(t, decimal.NewFromInt(120).Equal(matches[1].UnitPrice))

	assert.Equal(t, int64(8), invoice.Matched(matches))

	// L1 exhausted, L2 left with 7: a second return starts from L2.
	open, err := store.InvoiceLineRepo().ListOpenForUpdate(matcherShipTo, matcherSpareID)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "L2", open[0].ID)
	assert.Equal(t, int64(7), open[0].Remaining())
}

func TestMatchForReturn_ConsumptionPersistsAcrossCalls(t *testing.T) {
	store := memory.NewStore()
	seedLine(store, "L1", "INV-001", 5, 100, 48*time.Hour)

	matcher := invoice.NewFIFOMatcher()
	first, err := matcher.MatchForReturn(store.InvoiceLineRepo(), matcherShipTo, matcherSpareID, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), invoice.Matched(first))

	second, err := matcher.MatchForReturn(store.InvoiceLineRepo(), matcherShipTo, matcherSpareID, 3)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, int64(2), second[0].Qty, "only the unconsumed remainder is attributable")
}

func TestMatchForReturn_NoOpenLines(t *testing.T) {
	store := memory.NewStore()
	matcher := invoice.NewFIFOMatcher()

	_, err := matcher.MatchForReturn(store.InvoiceLineRepo(), matcherShipTo, matcherSpareID, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMatchForReturn_PartialCoverage(t *testing.T) {
	store := memory.NewStore()
	seedLine(store, "L1", "INV-001", 2, 100, time.Hour)

	matcher := invoice.NewFIFOMatcher()
	matches, err := matcher.MatchForReturn(store.InvoiceLineRepo(), matcherShipTo, matcherSpareID, 6)
	require.NoError(t, err, "partial coverage is not an error; the caller prices the remainder")
	assert.Equal(t, int64(2), invoice.Matched(matches))
}

func TestMatchForReturn_InvalidInput(t *testing.T) {
	store := memory.NewStore()
	matcher := invoice.NewFIFOMatcher()

	_, err := matcher.MatchForReturn(store.InvoiceLineRepo(), entity.Location{}, matcherSpareID, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	_, err = matcher.MatchForReturn(store.InvoiceLineRepo(), matcherShipTo, matcherSpareID, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}
