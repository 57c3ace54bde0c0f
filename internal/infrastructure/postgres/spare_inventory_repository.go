package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/spareparts-api/internal/domain/entity"
	"github.com/jhoicas/spareparts-api/internal/domain/repository"
)

var _ repository.SpareInventoryRepository = (*SpareInventoryRepo)(nil)

// SpareInventoryRepo ledger row adapter over PostgreSQL (pool or tx).
type SpareInventoryRepo struct {
	q Querier
}

// NewSpareInventoryRepository builds the adapter. Pass a pool or tx (Querier).
func NewSpareInventoryRepository(q Querier) *SpareInventoryRepo {
	return &SpareInventoryRepo{q: q}
}

// Get returns the buckets of one spare at one location; a missing row
// reads as all zero.
func (r *SpareInventoryRepo) Get(location entity.Location, spareID string) (*entity.SpareInventory, error) {
	query := `
		SELECT location_type, location_id, spare_id, qty_good, qty_defective, qty_in_transit, updated_at
		FROM spare_inventory
		WHERE location_type = $1 AND location_id = $2 AND spare_id = $3`
	return r.scanOne(query, location, spareID, "get spare inventory")
}

// GetForUpdate returns the row locked for the enclosing transaction
// (SELECT FOR UPDATE).
func (r *SpareInventoryRepo) GetForUpdate(location entity.Location, spareID string) (*entity.SpareInventory, error) {
	query := `
		SELECT location_type, location_id, spare_id, qty_good, qty_defective, qty_in_transit, updated_at
		FROM spare_inventory
		WHERE location_type = $1 AND location_id = $2 AND spare_id = $3
		FOR UPDATE`
	return r.scanOne(query, location, spareID, "get spare inventory for update")
}

func (r *SpareInventoryRepo) scanOne(query string, location entity.Location, spareID, op string) (*entity.SpareInventory, error) {
	var inv entity.SpareInventory
	err := r.q.QueryRow(context.Background(), query, location.Type, location.ID, spareID).Scan(
		&inv.Location.Type, &inv.Location.ID, &inv.SpareID,
		&inv.QtyGood, &inv.QtyDefective, &inv.QtyInTransit, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.SpareInventory{Location: location, SpareID: spareID}, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &inv, nil
}

// Upsert inserts or updates the row keyed by (location, spare). The CHECK
// constraints on the table back the application-level non-negativity guard.
func (r *SpareInventoryRepo) Upsert(inv *entity.SpareInventory) error {
	query := `
		INSERT INTO spare_inventory (location_type, location_id, spare_id, qty_good, qty_defective, qty_in_transit, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (location_type, location_id, spare_id)
		DO UPDATE SET qty_good = EXCLUDED.qty_good,
		              qty_defective = EXCLUDED.qty_defective,
		              qty_in_transit = EXCLUDED.qty_in_transit,
		              updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		inv.Location.Type, inv.Location.ID, inv.SpareID,
		inv.QtyGood, inv.QtyDefective, inv.QtyInTransit,
	)
	if err != nil {
		return fmt.Errorf("upsert spare inventory: %w", err)
	}
	return nil
}

// ListByLocation returns every inventory row at a location.
func (r *SpareInventoryRepo) ListByLocation(location entity.Location) ([]*entity.SpareInventory, error) {
	query := `
		SELECT location_type, location_id, spare_id, qty_good, qty_defective, qty_in_transit, updated_at
		FROM spare_inventory
		WHERE location_type = $1 AND location_id = $2
		ORDER BY spare_id`
	rows, err := r.q.Query(context.Background(), query, location.Type, location.ID)
	if err != nil {
		return nil, fmt.Errorf("list inventory by location: %w", err)
	}
	defer rows.Close()
	var list []*entity.SpareInventory
	for rows.Next() {
		var inv entity.SpareInventory
		if err := rows.Scan(&inv.Location.Type, &inv.Location.ID, &inv.SpareID,
			&inv.QtyGood, &inv.QtyDefective, &inv.QtyInTransit, &inv.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan inventory row: %w", err)
		}
		list = append(list, &inv)
	}
	return list, rows.Err()
}
