package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceLine is one spare line of an inbound shipment invoice, delivered
// to Destination. External reference data: this service reads it and owns
// only ConsumedQty, the running counter of units already attributed to
// prior returns by the FIFO matcher.
type InvoiceLine struct {
	ID             string
	DocumentID     string
	DocumentNumber string
	Destination    Location
	SpareID        string
	Qty            int64
	ConsumedQty    int64
	UnitPrice      decimal.Decimal
	Tax            decimal.Decimal
	HSN            string
	CreatedAt      time.Time
}

// Remaining is the capacity left for FIFO attribution.
func (l *InvoiceLine) Remaining() int64 {
	return l.Qty - l.ConsumedQty
}
