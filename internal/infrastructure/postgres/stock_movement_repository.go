package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/spareparts-api/internal/domain/entity"
	"github.com/jhoicas/spareparts-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo movement document adapter over PostgreSQL (pool or tx).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository builds the adapter. Pass a pool or tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

const movementColumns = `id, type, reference_type, reference_id,
	source_type, source_id, dest_type, dest_id,
	source_bucket, dest_bucket, total_qty, status, created_by, created_at`

// Create inserts the movement and its item lines. Rows are immutable after
// this point; there is deliberately no update method.
func (r *StockMovementRepo) Create(m *entity.StockMovement, items []*entity.GoodsMovementItem) error {
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.Type, m.ReferenceType, m.ReferenceID,
		m.Source.Type, m.Source.ID, m.Destination.Type, m.Destination.ID,
		m.SourceBucket, m.DestBucket, m.TotalQty, m.Status, m.CreatedBy, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	for _, it := range items {
		_, err := r.q.Exec(context.Background(), `
			INSERT INTO goods_movement_items (movement_id, spare_id, qty, condition)
			VALUES ($1, $2, $3, $4)`,
			it.MovementID, it.SpareID, it.Qty, it.Condition,
		)
		if err != nil {
			return fmt.Errorf("insert movement item: %w", err)
		}
	}
	return nil
}

// GetByID returns one movement, nil if absent.
func (r *StockMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1`
	var m entity.StockMovement
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&m.ID, &m.Type, &m.ReferenceType, &m.ReferenceID,
		&m.Source.Type, &m.Source.ID, &m.Destination.Type, &m.Destination.ID,
		&m.SourceBucket, &m.DestBucket, &m.TotalQty, &m.Status, &m.CreatedBy, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock movement: %w", err)
	}
	return &m, nil
}

// ListItems returns the item lines of one movement.
func (r *StockMovementRepo) ListItems(movementID string) ([]*entity.GoodsMovementItem, error) {
	rows, err := r.q.Query(context.Background(), `
		SELECT movement_id, spare_id, qty, condition
		FROM goods_movement_items WHERE movement_id = $1
		ORDER BY spare_id`, movementID)
	if err != nil {
		return nil, fmt.Errorf("list movement items: %w", err)
	}
	defer rows.Close()
	var list []*entity.GoodsMovementItem
	for rows.Next() {
		var it entity.GoodsMovementItem
		if err := rows.Scan(&it.MovementID, &it.SpareID, &it.Qty, &it.Condition); err != nil {
			return nil, fmt.Errorf("scan movement item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// ListByReference returns the movements produced for one reference, oldest
// first.
func (r *StockMovementRepo) ListByReference(referenceType, referenceID string) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + `
		FROM stock_movements
		WHERE reference_type = $1 AND reference_id = $2
		ORDER BY created_at ASC`
	rows, err := r.q.Query(context.Background(), query, referenceType, referenceID)
	if err != nil {
		return nil, fmt.Errorf("list movements by reference: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.Type, &m.ReferenceType, &m.ReferenceID,
			&m.Source.Type, &m.Source.ID, &m.Destination.Type, &m.Destination.ID,
			&m.SourceBucket, &m.DestBucket, &m.TotalQty, &m.Status, &m.CreatedBy, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
