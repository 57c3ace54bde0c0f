package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReturnItemMatch records which inbound invoice line a verified return unit
// was attributed to, for downstream credit-note generation. Unmatched rows
// carry spare-master pricing and are flagged for manual reconciliation.
type ReturnItemMatch struct {
	ID               string
	RequestID        string
	SpareID          string
	InvoiceDocNumber string // empty when unmatched
	Qty              int64
	UnitPrice        decimal.Decimal
	Tax              decimal.Decimal
	HSN              string
	Unmatched        bool
	CreatedAt        time.Time
}
