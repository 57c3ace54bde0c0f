package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/spareparts-api/internal/domain/entity"
	"github.com/jhoicas/spareparts-api/internal/domain/repository"
)

var _ repository.SpareRepository = (*SpareRepo)(nil)

// SpareRepo spare master adapter over PostgreSQL (pool or tx). Read-only.
type SpareRepo struct {
	q Querier
}

// NewSpareRepository builds the adapter. Pass a pool or tx (Querier).
func NewSpareRepository(q Querier) *SpareRepo {
	return &SpareRepo{q: q}
}

// GetByID returns one spare, nil if absent.
func (r *SpareRepo) GetByID(id string) (*entity.Spare, error) {
	var s entity.Spare
	err := r.q.QueryRow(context.Background(), `
		SELECT id, code, name, hsn, unit_price, tax_rate, created_at
		FROM spares WHERE id = $1`, id).Scan(
		&s.ID, &s.Code, &s.Name, &s.HSN, &s.UnitPrice, &s.TaxRate, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get spare: %w", err)
	}
	return &s, nil
}
