package ledger

import (
	"context"

	"github.com/jhoicas/spareparts-api/internal/domain"
	"github.com/jhoicas/spareparts-api/internal/domain/entity"
	"github.com/jhoicas/spareparts-api/internal/domain/repository"
)

// SnapshotUseCase serves ledger reads for the reporting/UI layer. Reads run
// outside a transaction and are eventually-consistent snapshots.
type SnapshotUseCase struct {
	inventoryRepo repository.SpareInventoryRepository
}

// NewSnapshotUseCase builds the read side of the ledger.
func NewSnapshotUseCase(inventoryRepo repository.SpareInventoryRepository) *SnapshotUseCase {
	return &SnapshotUseCase{inventoryRepo: inventoryRepo}
}

// Snapshot returns every inventory row at a location.
func (uc *SnapshotUseCase) Snapshot(ctx context.Context, location entity.Location) ([]*entity.SpareInventory, error) {
	if !location.Valid() {
		return nil, domain.ErrInvalidRequest
	}
	return uc.inventoryRepo.ListByLocation(location)
}

// Get returns the buckets of one spare at one location; all-zero if the
// row does not exist.
func (uc *SnapshotUseCase) Get(ctx context.Context, location entity.Location, spareID string) (*entity.SpareInventory, error) {
	if !location.Valid() || spareID == "" {
		return nil, domain.ErrInvalidRequest
	}
	return uc.inventoryRepo.Get(location, spareID)
}
