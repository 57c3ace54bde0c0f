package ledger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/spareparts-api/internal/application/ledger"
	"github.com/jhoicas/spareparts-api/internal/domain"
	"github.com/jhoicas/spareparts-api/internal/domain/entity"
	"github.com/jhoicas/spareparts-api/internal/infrastructure/memory"
)

var (
	testBranch = entity.Location{Type: entity.LocationBranch, ID: "B1"}
	testCenter = entity.Location{Type: entity.LocationServiceCenter, ID: "SC1"}
)

const testSpareID = "SP-100"

func newLedger(t *testing.T) (*memory.Store, *ledger.Recorder) {
	t.Helper()
	store := memory.NewStore()
	store.SetInventory(&entity.SpareInventory{
		Location: testBranch,
		SpareID:  testSpareID,
		QtyGood:  10,
	})
	return store, ledger.NewRecorder(store)
}

func transferInput(qty int64) ledger.TransferInput {
	return ledger.TransferInput{
		Source:        testBranch,
		Destination:   testCenter,
		SourceBucket:  entity.BucketGood,
		DestBucket:    entity.BucketGood,
		Items:         []ledger.TransferItem{{SpareID: testSpareID, Qty: qty}},
		MovementType:  entity.MovementTypeAllocation,
		ReferenceType: entity.ReferenceTypeSpareRequest,
		ReferenceID:   "req-1",
		ActorID:       "user-1",
	}
}

func TestTransfer_DebitsAndCredits(t *testing.T) {
	store, recorder := newLedger(t)

	movementID, err := recorder.Transfer(context.Background(), transferInput(4))
	require.NoError(t, err)
	require.NotEmpty(t, movementID)

	src, _ := store.InventoryRepo().Get(testBranch, testSpareID)
	dst, _ := store.InventoryRepo().Get(testCenter, testSpareID)
	assert.Equal(t, int64(6), src.QtyGood)
	assert.Equal(t, int64(4), dst.QtyGood)

	mov, err := store.MovementRepo().GetByID(movementID)
	require.NoError(t, err)
	require.NotNil(t, mov)
	assert.Equal(t, int64(4), mov.TotalQty)
	assert.Equal(t, entity.MovementStatusCompleted, mov.Status)

	items, err := store.MovementRepo().ListItems(movementID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(4), items[0].Qty)
}

func TestTransfer_ConservesTotal(t *testing.T) {
	store, recorder := newLedger(t)
	before := store.TotalAcrossLocations(testSpareID)

	_, err := recorder.Transfer(context.Background(), transferInput(7))
	require.NoError(t, err)

	assert.Equal(t, before, store.TotalAcrossLocations(testSpareID),
		"a transfer must not create or destroy stock")
}

func TestTransfer_InsufficientStockRollsBack(t *testing.T) {
	store, recorder := newLedger(t)

	_, err := recorder.Transfer(context.Background(), transferInput(11))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	src, _ := store.InventoryRepo().Get(testBranch, testSpareID)
	dst, _ := store.InventoryRepo().Get(testCenter, testSpareID)
	assert.Equal(t, int64(10), src.QtyGood, "a failed transfer must leave the source untouched")
	assert.Equal(t, int64(0), dst.QtyGood)
}

func TestTransfer_MultiItemAtomicity(t *testing.T) {
	store, recorder := newLedger(t)
	store.SetInventory(&entity.SpareInventory{Location: testBranch, SpareID: "SP-200", QtyGood: 1})

	in := transferInput(2)
	in.Items = append(in.Items, ledger.TransferItem{SpareID: "SP-200", Qty: 5})
	_, err := recorder.Transfer(context.Background(), in)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// The first line could have been debited; the rollback must undo it.
	first, _ := store.InventoryRepo().Get(testBranch, testSpareID)
	assert.Equal(t, int64(10), first.QtyGood)
	second, _ := store.InventoryRepo().Get(testBranch, "SP-200")
	assert.Equal(t, int64(1), second.QtyGood)
}

func TestTransfer_SameLocationCrossBucket(t *testing.T) {
	store, recorder := newLedger(t)

	in := transferInput(3)
	in.Destination = testBranch
	in.DestBucket = entity.BucketDefective
	_, err := recorder.Transfer(context.Background(), in)
	require.NoError(t, err)

	row, _ := store.InventoryRepo().Get(testBranch, testSpareID)
	assert.Equal(t, int64(7), row.QtyGood)
	assert.Equal(t, int64(3), row.QtyDefective)
}

func TestTransfer_SameLocationSameBucketRejected(t *testing.T) {
	_, recorder := newLedger(t)

	in := transferInput(3)
	in.Destination = testBranch
	_, err := recorder.Transfer(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestWriteOff_DebitsWithoutCredit(t *testing.T) {
	store, recorder := newLedger(t)
	before := store.TotalAcrossLocations(testSpareID)

	movementID, err := recorder.WriteOff(context.Background(), ledger.WriteOffInput{
		Location: testBranch,
		Bucket:   entity.BucketGood,
		Items:    []ledger.TransferItem{{SpareID: testSpareID, Qty: 2}},
		Reason:   "scrap after flood damage",
		ActorID:  "user-1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, movementID)

	row, _ := store.InventoryRepo().Get(testBranch, testSpareID)
	assert.Equal(t, int64(8), row.QtyGood)
	assert.Equal(t, before-2, store.TotalAcrossLocations(testSpareID),
		"write-off is the only operation allowed to shrink the ledger")

	mov, err := store.MovementRepo().GetByID(movementID)
	require.NoError(t, err)
	require.NotNil(t, mov)
	assert.Equal(t, entity.MovementTypeWriteOff, mov.Type)
}

func TestWriteOff_MoreThanOnHand(t *testing.T) {
	store, recorder := newLedger(t)

	_, err := recorder.WriteOff(context.Background(), ledger.WriteOffInput{
		Location: testBranch,
		Bucket:   entity.BucketDefective,
		Items:    []ledger.TransferItem{{SpareID: testSpareID, Qty: 1}},
		Reason:   "scrap",
		ActorID:  "user-1",
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	row, _ := store.InventoryRepo().Get(testBranch, testSpareID)
	assert.Equal(t, int64(10), row.QtyGood)
}
