package ledger

import (
	"context"

	"github.com/jhoicas/spareparts-api/internal/domain/repository"
)

// TxRepos bundles the repositories bound to one transaction. Every ledger
// mutation in the system goes through a TxRunner.Run callback holding one
// of these; no caller reaches the inventory tables directly.
type TxRepos struct {
	Inventory    repository.SpareInventoryRepository
	Movements    repository.StockMovementRepository
	Requests     repository.SpareRequestRepository
	Approvals    repository.ApprovalRepository
	InvoiceLines repository.InvoiceLineRepository
	Matches      repository.ReturnMatchRepository
	Spares       repository.SpareRepository
}

// TxRunner executes fn inside one database transaction, passing repos bound
// to that transaction. Commit on nil return, rollback otherwise; on
// rollback nothing the callback did is observable.
type TxRunner interface {
	Run(ctx context.Context, fn func(r TxRepos) error) error
}
