// Package invoice attributes returned units to inbound shipment invoice
// lines so credit notes price what was actually shipped.
package invoice

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/spareparts-api/internal/domain"
	"github.com/jhoicas/spareparts-api/internal/domain/entity"
	"github.com/jhoicas/spareparts-api/internal/domain/repository"
)

// Match is one attribution: qty units against one invoice line.
type Match struct {
	InvoiceDocNumber string
	Qty              int64
	UnitPrice        decimal.Decimal
	Tax              decimal.Decimal
	HSN              string
}

// FIFOMatcher consumes inbound invoice lines oldest-first, mirroring
// physical stock rotation. It owns only the lines' consumed counters.
type FIFOMatcher struct{}

// NewFIFOMatcher builds the matcher.
func NewFIFOMatcher() *FIFOMatcher {
	return &FIFOMatcher{}
}

// MatchForReturn attributes returnQty units of a spare returned by shipTo
// to the oldest unexhausted invoice lines shipped there. The oldest line
// is depleted before any newer one; when returnQty exceeds a line's
// remaining capacity the remainder spills to the next-oldest (multi-line
// attribution). Runs against repositories bound to the caller's
// transaction: the consumed counters and the return commit together.
//
// Returns domain.ErrNotFound when no line has any remaining capacity; the
// caller falls back to spare-master pricing and flags the return as
// unmatched for manual reconciliation.
func (m *FIFOMatcher) MatchForReturn(
	lines repository.InvoiceLineRepository,
	shipTo entity.Location,
	spareID string,
	returnQty int64,
) ([]Match, error) {
	if !shipTo.Valid() || spareID == "" || returnQty <= 0 {
		return nil, domain.ErrInvalidRequest
	}

	open, err := lines.ListOpenForUpdate(shipTo, spareID)
	if err != nil {
		return nil, err
	}
	if len(open) == 0 {
		return nil, domain.ErrNotFound
	}

	var matches []Match
	want := returnQty
	for _, line := range open {
		if want == 0 {
			break
		}
		take := line.Remaining()
		if take > want {
			take = want
		}
		if take <= 0 {
			continue
		}
		if err := lines.AddConsumed(line.ID, take); err != nil {
			return nil, err
		}
		matches = append(matches, Match{
			InvoiceDocNumber: line.DocumentNumber,
			Qty:              take,
			UnitPrice:        line.UnitPrice,
			Tax:              line.Tax,
			HSN:              line.HSN,
		})
		want -= take
	}
	if len(matches) == 0 {
		return nil, domain.ErrNotFound
	}
	// want > 0 here means total capacity ran out mid-return; the matched
	// part stands and the caller prices the remainder from the master.
	return matches, nil
}

// Matched sums the quantity covered by the given matches.
func Matched(matches []Match) int64 {
	var n int64
	for _, m := range matches {
		n += m.Qty
	}
	return n
}
