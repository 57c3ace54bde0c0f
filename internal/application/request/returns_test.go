package request_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/spareparts-api/internal/application/invoice"
	"github.com/jhoicas/spareparts-api/internal/application/ledger"
	"github.com/jhoicas/spareparts-api/internal/application/request"
	"github.com/jhoicas/spareparts-api/internal/domain"
	"github.com/jhoicas/spareparts-api/internal/domain/entity"
	"github.com/jhoicas/spareparts-api/internal/infrastructure/memory"
)

func newReturnFixture(t *testing.T) (*memory.Store, *request.ReturnProcessor) {
	t.Helper()
	store := memory.NewStore()
	store.AddSpare(&entity.Spare{
		ID: spareID, Code: "C-1", Name: "compressor valve",
		HSN: "8414", UnitPrice: decimal.NewFromInt(80), TaxRate: decimal.NewFromInt(18),
	})
	store.AddLocation(techLoc)
	store.AddLocation(centerLoc)

	recorder := ledger.NewRecorder(store)
	proc := request.NewReturnProcessor(store, recorder, invoice.NewFIFOMatcher(),
		store.SpareRepo(), store.LocationRepo(), store.RequestRepo(), store.MatchRepo())
	return store, proc
}

func returnInput(reason entity.ReturnReason, qty int64) request.CreateReturnInput {
	return request.CreateReturnInput{
		Reason:      reason,
		Source:      techLoc,
		Destination: centerLoc,
		Items:       []request.ItemInput{{SpareID: spareID, Qty: qty}},
	}
}

func TestReturn_DefectRoundTrip(t *testing.T) {
	store, proc := newReturnFixture(t)
	ctx := context.Background()
	store.SetInventory(&entity.SpareInventory{Location: techLoc, SpareID: spareID, QtyDefective: 2})
	before := store.TotalAcrossLocations(spareID)

	req, err := proc.CreateReturn(ctx, technician, returnInput(entity.ReturnReasonDefect, 2))
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, req.Status)

	// Receipt moves defective stock into the destination in-transit bucket.
	require.NoError(t, proc.Receive(ctx, scManager, req.ID, "two units in box"))
	src, _ := store.InventoryRepo().Get(techLoc, spareID)
	dst, _ := store.InventoryRepo().Get(centerLoc, spareID)
	assert.Equal(t, int64(0), src.QtyDefective)
	assert.Equal(t, int64(2), dst.QtyInTransit)
	got, _ := store.RequestRepo().GetByID(req.ID)
	assert.Equal(t, entity.StatusApproved, got.Status)

	// Verification settles the goods into the defective bucket.
	require.NoError(t, proc.Verify(ctx, scManager, req.ID, nil))
	dst, _ = store.InventoryRepo().Get(centerLoc, spareID)
	assert.Equal(t, int64(0), dst.QtyInTransit)
	assert.Equal(t, int64(2), dst.QtyDefective)
	got, _ = store.RequestRepo().GetByID(req.ID)
	assert.Equal(t, entity.StatusAllocated, got.Status)

	assert.Equal(t, before, store.TotalAcrossLocations(spareID),
		"the whole round trip conserves stock")

	movements, _ := store.MovementRepo().ListByReference(entity.ReferenceTypeSpareRequest, req.ID)
	require.Len(t, movements, 2)
	assert.Equal(t, entity.MovementTypeReturnReceipt, movements[0].Type)
	assert.Equal(t, entity.MovementTypeReturnVerify, movements[1].Type)
}

func TestReturn_BulkSettlesIntoGood(t *testing.T) {
	store, proc := newReturnFixture(t)
	ctx := context.Background()
	store.SetInventory(&entity.SpareInventory{Location: techLoc, SpareID: spareID, QtyGood: 3})

	req, err := proc.CreateReturn(ctx, technician, returnInput(entity.ReturnReasonBulk, 3))
	require.NoError(t, err)
	require.NoError(t, proc.Receive(ctx, scManager, req.ID, ""))
	require.NoError(t, proc.Verify(ctx, scManager, req.ID, nil))

	dst, _ := store.InventoryRepo().Get(centerLoc, spareID)
	assert.Equal(t, int64(3), dst.QtyGood, "unused stock goes back into circulation")
	assert.Equal(t, int64(0), dst.QtyDefective)
}

func TestCreateReturn_RequiresStockInReasonBucket(t *testing.T) {
	store, proc := newReturnFixture(t)
	ctx := context.Background()
	// Good stock exists but the defect reason draws from the defective bucket.
	store.SetInventory(&entity.SpareInventory{Location: techLoc, SpareID: spareID, QtyGood: 5})

	_, err := proc.CreateReturn(ctx, technician, returnInput(entity.ReturnReasonDefect, 1))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = proc.CreateReturn(ctx, technician, returnInput(entity.ReturnReasonBulk, 6))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestCreateReturn_Validation(t *testing.T) {
	_, proc := newReturnFixture(t)
	ctx := context.Background()

	_, err := proc.CreateReturn(ctx, technician, returnInput("breakage", 1))
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	in := returnInput(entity.ReturnReasonDefect, 1)
	in.Items = nil
	_, err = proc.CreateReturn(ctx, technician, in)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	// Only someone at the returning location may file it.
	_, err = proc.CreateReturn(ctx, scManager, returnInput(entity.ReturnReasonDefect, 1))
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestReceive_Guards(t *testing.T) {
	store, proc := newReturnFixture(t)
	ctx := context.Background()
	store.SetInventory(&entity.SpareInventory{Location: techLoc, SpareID: spareID, QtyDefective: 1})

	req, err := proc.CreateReturn(ctx, technician, returnInput(entity.ReturnReasonDefect, 1))
	require.NoError(t, err)

	// Only the destination may acknowledge receipt.
	assert.ErrorIs(t, proc.Receive(ctx, technician, req.ID, ""), domain.ErrUnauthorized)
	assert.ErrorIs(t, proc.Receive(ctx, scManager, "missing", ""), domain.ErrNotFound)

	require.NoError(t, proc.Receive(ctx, scManager, req.ID, ""))
	assert.ErrorIs(t, proc.Receive(ctx, scManager, req.ID, ""), domain.ErrInvalidState,
		"a return cannot be received twice")
}

func TestVerify_PartialLeavesShortfallInTransit(t *testing.T) {
	store, proc := newReturnFixture(t)
	ctx := context.Background()
	store.SetInventory(&entity.SpareInventory{Location: techLoc, SpareID: spareID, QtyDefective: 3})

	req, err := proc.CreateReturn(ctx, technician, returnInput(entity.ReturnReasonDefect, 3))
	require.NoError(t, err)
	require.NoError(t, proc.Receive(ctx, scManager, req.ID, ""))

	require.NoError(t, proc.Verify(ctx, scManager, req.ID, map[string]int64{spareID: 2}))

	dst, _ := store.InventoryRepo().Get(centerLoc, spareID)
	assert.Equal(t, int64(2), dst.QtyDefective)
	assert.Equal(t, int64(1), dst.QtyInTransit, "the unverified unit stays in transit for manual action")
}

func TestVerify_Guards(t *testing.T) {
	store, proc := newReturnFixture(t)
	ctx := context.Background()
	store.SetInventory(&entity.SpareInventory{Location: techLoc, SpareID: spareID, QtyDefective: 2})

	req, err := proc.CreateReturn(ctx, technician, returnInput(entity.ReturnReasonDefect, 2))
	require.NoError(t, err)

	// Cannot verify before receipt.
	assert.ErrorIs(t, proc.Verify(ctx, scManager, req.ID, nil), domain.ErrInvalidState)

	require.NoError(t, proc.Receive(ctx, scManager, req.ID, ""))

	assert.ErrorIs(t, proc.Verify(ctx, technician, req.ID, nil), domain.ErrUnauthorized)
	assert.ErrorIs(t, proc.Verify(ctx, scManager, req.ID, map[string]int64{spareID: 3}), domain.ErrInvalidRequest,
		"verified cannot exceed received")
	assert.ErrorIs(t, proc.Verify(ctx, scManager, req.ID, map[string]int64{spareID: 0}), domain.ErrInvalidRequest)
}

func TestVerify_RecordsFIFOMatches(t *testing.T) {
	store, proc := newReturnFixture(t)
	ctx := context.Background()
	store.SetInventory(&entity.SpareInventory{Location: techLoc, SpareID: spareID, QtyDefective: 8})

	now := time.Now()
	store.AddInvoiceLine(&entity.InvoiceLine{
		ID: "L1", DocumentID: "d1", DocumentNumber: "INV-001", Destination: techLoc,
		SpareID: spareID, Qty: 5, UnitPrice: decimal.NewFromInt(100), Tax: decimal.NewFromInt(18),
		HSN: "8414", CreatedAt: now.Add(-48 * time.Hour),
	})
	store.AddInvoiceLine(&entity.InvoiceLine{
		ID: "L2", DocumentID: "d2", DocumentNumber: "INV-002", Destination: techLoc,
		SpareID: spareID, Qty: 10, UnitPrice: decimal.NewFromInt(120), Tax: decimal.NewFromInt(21),
		HSN: "8414", CreatedAt: now.Add(-24 * time.Hour),
	})

	req, err := proc.CreateReturn(ctx, technician, returnInput(entity.ReturnReasonDefect, 8))
	require.NoError(t, err)
	require.NoError(t, proc.Receive(ctx, scManager, req.ID, ""))
	require.NoError(t, proc.Verify(ctx, scManager, req.ID, nil))

	matches, err := proc.ListMatches(ctx, req.ID)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "INV-001", matches[0].InvoiceDocNumber)
	assert.Equal(t, int64(5), matches[0].Qty)
	assert.False(t, matches[0].Unmatched)
	assert.Equal(t, "INV-002", matches[1].InvoiceDocNumber)
	assert.Equal(t, int64(3), matches[1].Qty)

	// The consumed counters carry over to the next return.
	open, err := store.InvoiceLineRepo().ListOpenForUpdate(techLoc, spareID)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, int64(7), open[0].Remaining())
}

func TestVerify_UnmatchedFallsBackToSpareMaster(t *testing.T) {
	store, proc := newReturnFixture(t)
	ctx := context.Background()
	store.SetInventory(&entity.SpareInventory{Location: techLoc, SpareID: spareID, QtyDefective: 2})

	req, err := proc.CreateReturn(ctx, technician, returnInput(entity.ReturnReasonDefect, 2))
	require.NoError(t, err)
	require.NoError(t, proc.Receive(ctx, scManager, req.ID, ""))
	require.NoError(t, proc.Verify(ctx, scManager, req.ID, nil))

	matches, err := proc.ListMatches(ctx, req.ID)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.True(t, matches[0].Unmatched, "no invoice history flags the row for manual reconciliation")
	assert.Empty(t, matches[0].InvoiceDocNumber)
	assert.Equal(t, int64(2), matches[0].Qty)
	assert.True(t, decimal.NewFromInt(80).Equal(matches[0].UnitPrice), "priced from the spare master")
	assert.Equal(t, "8414", matches[0].HSN)
}
