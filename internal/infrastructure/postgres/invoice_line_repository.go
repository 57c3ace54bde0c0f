package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/spareparts-api/internal/domain/entity"
	"github.com/jhoicas/spareparts-api/internal/domain/repository"
)

var _ repository.InvoiceLineRepository = (*InvoiceLineRepo)(nil)

// InvoiceLineRepo inbound invoice line adapter over PostgreSQL (pool or tx).
// Only the consumed counter is ever written here; the rest of the row
// belongs to the upstream billing system.
type InvoiceLineRepo struct {
	q Querier
}

// NewInvoiceLineRepository builds the adapter. Pass a pool or tx (Querier).
func NewInvoiceLineRepository(q Querier) *InvoiceLineRepo {
	return &InvoiceLineRepo{q: q}
}

// ListOpenForUpdate returns the unexhausted lines shipped to a location for
// a spare, oldest first, row-locked so concurrent returns serialize their
// FIFO consumption.
func (r *InvoiceLineRepo) ListOpenForUpdate(shipTo entity.Location, spareID string) ([]*entity.InvoiceLine, error) {
	rows, err := r.q.Query(context.Background(), `
		SELECT id, document_id, document_number, dest_type, dest_id, spare_id,
		       qty, consumed_qty, unit_price, tax, hsn, created_at
		FROM invoice_lines
		WHERE dest_type = $1 AND dest_id = $2 AND spare_id = $3 AND qty > consumed_qty
		ORDER BY created_at ASC
		FOR UPDATE`, shipTo.Type, shipTo.ID, spareID)
	if err != nil {
		return nil, fmt.Errorf("list open invoice lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.InvoiceLine
	for rows.Next() {
		var l entity.InvoiceLine
		if err := rows.Scan(&l.ID, &l.DocumentID, &l.DocumentNumber,
			&l.Destination.Type, &l.Destination.ID, &l.SpareID,
			&l.Qty, &l.ConsumedQty, &l.UnitPrice, &l.Tax, &l.HSN, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan invoice line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// AddConsumed increments a line's consumed counter. The CHECK constraint
// keeps consumed_qty within qty.
func (r *InvoiceLineRepo) AddConsumed(lineID string, qty int64) error {
	_, err := r.q.Exec(context.Background(), `
		UPDATE invoice_lines SET consumed_qty = consumed_qty + $1
		WHERE id = $2`, qty, lineID)
	if err != nil {
		return fmt.Errorf("add consumed qty: %w", err)
	}
	return nil
}
