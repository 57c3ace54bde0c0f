package request

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/spareparts-api/internal/application/ledger"
	"github.com/jhoicas/spareparts-api/internal/domain"
	"github.com/jhoicas/spareparts-api/internal/domain/entity"
)

// Backorder creates a derived child request ordering the unfulfilled
// quantity of an allocated request from the next echelon up. The parent
// row is never rewritten; the child carries ParentRequestID so the audit
// trail stays intact.
func (w *Workflow) Backorder(ctx context.Context, principal entity.Principal, requestID string) (*entity.SpareRequest, error) {
	parent, err := w.requestRepo.GetByID(requestID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, domain.ErrNotFound
	}
	if parent.Status != entity.StatusAllocated {
		return nil, domain.ErrInvalidState
	}
	if !principal.AtLocation(parent.Source) {
		return nil, domain.ErrUnauthorized
	}

	items, err := w.requestRepo.ListItems(requestID)
	if err != nil {
		return nil, err
	}
	var shortfall []*entity.SpareRequestItem
	for _, it := range items {
		if it.RequestedQty > it.ApprovedQty {
			shortfall = append(shortfall, it)
		}
	}
	if len(shortfall) == 0 {
		return nil, domain.ErrInvalidRequest
	}

	upstream, err := w.locationRepo.Parent(parent.Source)
	if err != nil {
		return nil, err
	}
	if upstream == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	child := &entity.SpareRequest{
		ID:              uuid.New().String(),
		Type:            entity.RequestTypeReplenishment,
		Reason:          "backorder for " + parent.ID,
		Source:          *upstream,
		Destination:     parent.Source,
		Status:          entity.StatusPending,
		ParentRequestID: parent.ID,
		CreatedBy:       principal.UserID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	childItems := make([]*entity.SpareRequestItem, 0, len(shortfall))
	for _, it := range shortfall {
		childItems = append(childItems, &entity.SpareRequestItem{
			RequestID:    child.ID,
			SpareID:      it.SpareID,
			RequestedQty: it.RequestedQty - it.ApprovedQty,
		})
	}
	err = w.txRunner.Run(ctx, func(repos ledger.TxRepos) error {
		return repos.Requests.Create(child, childItems)
	})
	if err != nil {
		return nil, err
	}
	return child, nil
}
