package repository

import "github.com/jhoicas/spareparts-api/internal/domain/entity"

// SpareInventoryRepository is the ledger port. Missing rows read as all-zero
// buckets. Only the stock movement recorder may write through it, and only
// from inside a transaction.
type SpareInventoryRepository interface {
	// Get returns the row for (location, spare); zero-valued row if absent.
	Get(location entity.Location, spareID string) (*entity.SpareInventory, error)
	// GetForUpdate returns the row with a row lock held for the enclosing
	// transaction (SELECT FOR UPDATE).
	GetForUpdate(location entity.Location, spareID string) (*entity.SpareInventory, error)
	// Upsert inserts or updates the row keyed by (location, spare).
	Upsert(inv *entity.SpareInventory) error
	// ListByLocation returns every row at a location.
	ListByLocation(location entity.Location) ([]*entity.SpareInventory, error)
}
