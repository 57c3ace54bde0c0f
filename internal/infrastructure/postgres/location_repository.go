package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/spareparts-api/internal/domain/entity"
	"github.com/jhoicas/spareparts-api/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo location master / hierarchy adapter over PostgreSQL.
// Read-only reference data.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository builds the adapter. Pass a pool or tx (Querier).
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

// Exists reports whether the location is registered.
func (r *LocationRepo) Exists(l entity.Location) (bool, error) {
	var one int
	err := r.q.QueryRow(context.Background(), `
		SELECT 1 FROM locations WHERE type = $1 AND id = $2`, l.Type, l.ID).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("location exists: %w", err)
	}
	return true, nil
}

// Parent returns the echelon serving the given location, nil when it has
// none.
func (r *LocationRepo) Parent(l entity.Location) (*entity.Location, error) {
	var p entity.Location
	err := r.q.QueryRow(context.Background(), `
		SELECT parent_type, parent_id FROM location_hierarchy
		WHERE child_type = $1 AND child_id = $2`, l.Type, l.ID).Scan(&p.Type, &p.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("location parent: %w", err)
	}
	return &p, nil
}
