// Package memory is an in-memory implementation of the persistence ports,
// with transactional snapshot/rollback semantics. It backs the use-case
// tests and local development without a database.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/spareparts-api/internal/application/ledger"
	"github.com/jhoicas/spareparts-api/internal/domain/entity"
)

type data struct {
	inventory     map[string]*entity.SpareInventory
	movements     map[string]*entity.StockMovement
	movementItems map[string][]*entity.GoodsMovementItem
	requests      map[string]*entity.SpareRequest
	requestItems  map[string][]*entity.SpareRequestItem
	approvals     []*entity.Approval
	invoiceLines  []*entity.InvoiceLine
	matches       []*entity.ReturnItemMatch
	spares        map[string]*entity.Spare
	locations     map[string]bool
	parents       map[string]entity.Location
}

func newData() *data {
	return &data{
		inventory:     map[string]*entity.SpareInventory{},
		movements:     map[string]*entity.StockMovement{},
		movementItems: map[string][]*entity.GoodsMovementItem{},
		requests:      map[string]*entity.SpareRequest{},
		requestItems:  map[string][]*entity.SpareRequestItem{},
		spares:        map[string]*entity.Spare{},
		locations:     map[string]bool{},
		parents:       map[string]entity.Location{},
	}
}

func (d *data) clone() *data {
	c := newData()
	for k, v := range d.inventory {
		cp := *v
		c.inventory[k] = &cp
	}
	for k, v := range d.movements {
		cp := *v
		c.movements[k] = &cp
	}
	for k, v := range d.movementItems {
		c.movementItems[k] = cloneSlice(v)
	}
	for k, v := range d.requests {
		cp := *v
		c.requests[k] = &cp
	}
	for k, v := range d.requestItems {
		c.requestItems[k] = cloneSlice(v)
	}
	c.approvals = cloneSlice(d.approvals)
	c.invoiceLines = cloneSlice(d.invoiceLines)
	c.matches = cloneSlice(d.matches)
	for k, v := range d.spares {
		cp := *v
		c.spares[k] = &cp
	}
	for k, v := range d.locations {
		c.locations[k] = v
	}
	for k, v := range d.parents {
		c.parents[k] = v
	}
	return c
}

func cloneSlice[T any](in []*T) []*T {
	out := make([]*T, 0, len(in))
	for _, v := range in {
		cp := *v
		out = append(out, &cp)
	}
	return out
}

func invKey(l entity.Location, spareID string) string {
	return l.String() + "|" + spareID
}

// Store holds all state behind one mutex: transactions serialize, which
// also gives the status-guarded updates their exactly-once behavior.
type Store struct {
	mu sync.Mutex
	d  *data
}

// NewStore builds an empty store.
func NewStore() *Store {
	return &Store{d: newData()}
}

var _ ledger.TxRunner = (*Store)(nil)

// Run executes fn against repositories bound to the store under the lock.
// On error the pre-transaction snapshot is restored, so nothing fn did is
// observable, mirroring a database rollback.
func (s *Store) Run(ctx context.Context, fn func(repos ledger.TxRepos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	backup := s.d.clone()
	if err := fn(s.txRepos()); err != nil {
		s.d = backup
		return err
	}
	return nil
}

func (s *Store) txRepos() ledger.TxRepos {
	return ledger.TxRepos{
		Inventory:    &inventoryRepo{s: s, locked: true},
		Movements:    &movementRepo{s: s, locked: true},
		Requests:     &requestRepo{s: s, locked: true},
		Approvals:    &approvalRepo{s: s, locked: true},
		InvoiceLines: &invoiceLineRepo{s: s, locked: true},
		Matches:      &matchRepo{s: s, locked: true},
		Spares:       &spareRepo{s: s, locked: true},
	}
}

// InventoryRepo returns a standalone (self-locking) ledger reader/writer.
func (s *Store) InventoryRepo() *inventoryRepo { return &inventoryRepo{s: s} }

// MovementRepo returns a standalone movement repository.
func (s *Store) MovementRepo() *movementRepo { return &movementRepo{s: s} }

// RequestRepo returns a standalone request repository.
func (s *Store) RequestRepo() *requestRepo { return &requestRepo{s: s} }

// ApprovalRepo returns a standalone approval repository.
func (s *Store) ApprovalRepo() *approvalRepo { return &approvalRepo{s: s} }

// SpareRepo returns a standalone spare master repository.
func (s *Store) SpareRepo() *spareRepo { return &spareRepo{s: s} }

// LocationRepo returns a standalone location master repository.
func (s *Store) LocationRepo() *locationRepo { return &locationRepo{s: s} }

// InvoiceLineRepo returns a standalone invoice line repository.
func (s *Store) InvoiceLineRepo() *invoiceLineRepo { return &invoiceLineRepo{s: s} }

// MatchRepo returns a standalone return match repository.
func (s *Store) MatchRepo() *matchRepo { return &matchRepo{s: s} }

// lock acquires the store mutex unless the repo is already running inside
// a transaction (which holds it for the whole callback).
func (s *Store) lock(locked bool) func() {
	if locked {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// ── seed helpers ──────────────────────────────────────────────────────────

// AddSpare registers a spare master row.
func (s *Store) AddSpare(sp *entity.Spare) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sp
	s.d.spares[sp.ID] = &cp
}

// AddLocation registers a location.
func (s *Store) AddLocation(l entity.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.d.locations[l.String()] = true
}

// SetParent wires the echelon hierarchy.
func (s *Store) SetParent(child, parent entity.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.d.parents[child.String()] = parent
}

// SetInventory seeds a ledger row.
func (s *Store) SetInventory(inv *entity.SpareInventory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *inv
	s.d.inventory[invKey(inv.Location, inv.SpareID)] = &cp
}

// AddInvoiceLine seeds an inbound shipment line.
func (s *Store) AddInvoiceLine(l *entity.InvoiceLine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *l
	s.d.invoiceLines = append(s.d.invoiceLines, &cp)
	sort.SliceStable(s.d.invoiceLines, func(i, j int) bool {
		return s.d.invoiceLines[i].CreatedAt.Before(s.d.invoiceLines[j].CreatedAt)
	})
}

// TotalAcrossLocations sums all buckets of one spare over the whole ledger.
// Used by conservation checks in tests.
func (s *Store) TotalAcrossLocations(spareID string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total int64
	for _, inv := range s.d.inventory {
		if inv.SpareID == spareID {
			total += inv.Total()
		}
	}
	return total
}
