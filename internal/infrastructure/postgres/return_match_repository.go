package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/spareparts-api/internal/domain/entity"
	"github.com/jhoicas/spareparts-api/internal/domain/repository"
)

var _ repository.ReturnMatchRepository = (*ReturnMatchRepo)(nil)

// ReturnMatchRepo credit-note attribution adapter over PostgreSQL (pool or tx).
type ReturnMatchRepo struct {
	q Querier
}

// NewReturnMatchRepository builds the adapter. Pass a pool or tx (Querier).
func NewReturnMatchRepository(q Querier) *ReturnMatchRepo {
	return &ReturnMatchRepo{q: q}
}

// Create inserts one attribution row.
func (r *ReturnMatchRepo) Create(m *entity.ReturnItemMatch) error {
	_, err := r.q.Exec(context.Background(), `
		INSERT INTO return_item_matches (id, request_id, spare_id, invoice_doc_number, qty, unit_price, tax, hsn, unmatched, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		m.ID, m.RequestID, m.SpareID, m.InvoiceDocNumber, m.Qty, m.UnitPrice, m.Tax, m.HSN, m.Unmatched, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert return match: %w", err)
	}
	return nil
}

// ListByRequest returns the attribution rows of one return.
func (r *ReturnMatchRepo) ListByRequest(requestID string) ([]*entity.ReturnItemMatch, error) {
	rows, err := r.q.Query(context.Background(), `
		SELECT id, request_id, spare_id, invoice_doc_number, qty, unit_price, tax, hsn, unmatched, created_at
		FROM return_item_matches WHERE request_id = $1
		ORDER BY created_at ASC`, requestID)
	if err != nil {
		return nil, fmt.Errorf("list return matches: %w", err)
	}
	defer rows.Close()
	var list []*entity.ReturnItemMatch
	for rows.Next() {
		var m entity.ReturnItemMatch
		if err := rows.Scan(&m.ID, &m.RequestID, &m.SpareID, &m.InvoiceDocNumber,
			&m.Qty, &m.UnitPrice, &m.Tax, &m.HSN, &m.Unmatched, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan return match: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
