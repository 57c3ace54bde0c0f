package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/spareparts-api/internal/application/ledger"
)

// Ensure TxRunner implements ledger.TxRunner.
var _ ledger.TxRunner = (*TxRunner)(nil)

// TxRunner executes callbacks inside one PostgreSQL transaction. It is the
// single transactional entry point of the service: every ledger mutation
// goes through Run, no caller touches the inventory tables directly.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner builds the runner on the pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run begins a transaction, executes fn with repositories bound to that
// transaction and commits, or rolls back on any error.
func (r *TxRunner) Run(ctx context.Context, fn func(repos ledger.TxRepos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := ledger.TxRepos{
		Inventory:    NewSpareInventoryRepository(tx),
		Movements:    NewStockMovementRepository(tx),
		Requests:     NewSpareRequestRepository(tx),
		Approvals:    NewApprovalRepository(tx),
		InvoiceLines: NewInvoiceLineRepository(tx),
		Matches:      NewReturnMatchRepository(tx),
		Spares:       NewSpareRepository(tx),
	}

	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
