package repository

import "github.com/jhoicas/spareparts-api/internal/domain/entity"

// InvoiceLineRepository reads inbound shipment invoice lines and maintains
// their FIFO consumption counters. Everything but ConsumedQty is external
// read-only data.
type InvoiceLineRepository interface {
	// ListOpenForUpdate returns the lines shipped to a location for a
	// spare that still have remaining capacity (qty - consumed > 0),
	// oldest first, row-locked for the enclosing transaction.
	ListOpenForUpdate(shipTo entity.Location, spareID string) ([]*entity.InvoiceLine, error)
	// AddConsumed increments a line's consumed counter.
	AddConsumed(lineID string, qty int64) error
}
