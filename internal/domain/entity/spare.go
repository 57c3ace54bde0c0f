package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Spare is the spare-part master record. Read-only for this service;
// its price and tax are the fallback when a return cannot be matched
// against an inbound invoice line.
type Spare struct {
	ID        string
	Code      string
	Name      string
	HSN       string
	UnitPrice decimal.Decimal
	TaxRate   decimal.Decimal
	CreatedAt time.Time
}
