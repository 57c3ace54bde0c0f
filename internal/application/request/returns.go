package request

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/spareparts-api/internal/application/invoice"
	"github.com/jhoicas/spareparts-api/internal/application/ledger"
	"github.com/jhoicas/spareparts-api/internal/domain"
	"github.com/jhoicas/spareparts-api/internal/domain/entity"
	"github.com/jhoicas/spareparts-api/internal/domain/repository"
)

// ReturnProcessor drives the send-back flows (defect, bulk, replacement).
// A return moves pending -> approved (goods received into the destination
// in-transit bucket) -> allocated (verified into the final bucket, with
// the FIFO invoice attribution recorded for credit notes).
type ReturnProcessor struct {
	txRunner     ledger.TxRunner
	recorder     *ledger.Recorder
	matcher      *invoice.FIFOMatcher
	spareRepo    repository.SpareRepository
	locationRepo repository.LocationRepository
	requestRepo  repository.SpareRequestRepository
	matchRepo    repository.ReturnMatchRepository
}

// NewReturnProcessor builds the processor.
func NewReturnProcessor(
	txRunner ledger.TxRunner,
	recorder *ledger.Recorder,
	matcher *invoice.FIFOMatcher,
	spareRepo repository.SpareRepository,
	locationRepo repository.LocationRepository,
	requestRepo repository.SpareRequestRepository,
	matchRepo repository.ReturnMatchRepository,
) *ReturnProcessor {
	return &ReturnProcessor{
		txRunner:     txRunner,
		recorder:     recorder,
		matcher:      matcher,
		spareRepo:    spareRepo,
		locationRepo: locationRepo,
		requestRepo:  requestRepo,
		matchRepo:    matchRepo,
	}
}

// CreateReturnInput describes a new send-back request.
type CreateReturnInput struct {
	Reason      entity.ReturnReason
	Source      entity.Location // the returning location
	Destination entity.Location
	Items       []ItemInput
}

// CreateReturn validates that the returning location actually holds the
// quantities in the reason's bucket and files a pending return request.
// Stock does not move until the destination receives the goods.
func (p *ReturnProcessor) CreateReturn(ctx context.Context, principal entity.Principal, in CreateReturnInput) (*entity.SpareRequest, error) {
	if !entity.ValidReturnReason(in.Reason) {
		return nil, domain.ErrInvalidRequest
	}
	if !in.Source.Valid() || !in.Destination.Valid() || in.Source == in.Destination {
		return nil, domain.ErrInvalidRequest
	}
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidRequest
	}
	if !principal.AtLocation(in.Source) {
		return nil, domain.ErrUnauthorized
	}
	for _, l := range []entity.Location{in.Source, in.Destination} {
		ok, err := p.locationRepo.Exists(l)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrNotFound
		}
	}

	now := time.Now()
	req := &entity.SpareRequest{
		ID:          uuid.New().String(),
		Type:        entity.RequestTypeReturn,
		Reason:      string(in.Reason),
		Source:      in.Source,
		Destination: in.Destination,
		Status:      entity.StatusPending,
		CreatedBy:   principal.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	items := make([]*entity.SpareRequestItem, 0, len(in.Items))
	seen := make(map[string]bool, len(in.Items))
	for _, it := range in.Items {
		if it.SpareID == "" || it.Qty <= 0 || seen[it.SpareID] {
			return nil, domain.ErrInvalidRequest
		}
		seen[it.SpareID] = true
		spare, err := p.spareRepo.GetByID(it.SpareID)
		if err != nil {
			return nil, err
		}
		if spare == nil {
			return nil, domain.ErrInvalidRequest
		}
		items = append(items, &entity.SpareRequestItem{
			RequestID:    req.ID,
			SpareID:      it.SpareID,
			RequestedQty: it.Qty,
		})
	}

	err := p.txRunner.Run(ctx, func(repos ledger.TxRepos) error {
		for _, it := range items {
			onHand, err := repos.Inventory.Get(in.Source, it.SpareID)
			if err != nil {
				return err
			}
			if onHand.Qty(in.Reason.SourceBucket()) < it.RequestedQty {
				return domain.ErrInsufficientStock
			}
		}
		return repos.Requests.Create(req, items)
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// Receive is the destination's acknowledgement of physical arrival and the
// single required sign-off of the return chain. It debits the reason's
// bucket at the source and credits the destination in-transit bucket; the
// goods stay in transit until verification sorts them into a final bucket.
func (p *ReturnProcessor) Receive(ctx context.Context, principal entity.Principal, requestID, remarks string) error {
	return p.txRunner.Run(ctx, func(repos ledger.TxRepos) error {
		req, err := repos.Requests.GetForUpdate(requestID)
		if err != nil {
			return err
		}
		if req == nil {
			return domain.ErrNotFound
		}
		if req.Type != entity.RequestTypeReturn {
			return domain.ErrInvalidRequest
		}
		if req.Status != entity.StatusPending {
			return domain.ErrInvalidState
		}
		if !principal.AtLocation(req.Destination) {
			return domain.ErrUnauthorized
		}

		reason := entity.ReturnReason(req.Reason)
		items, err := repos.Requests.ListItems(req.ID)
		if err != nil {
			return err
		}
		transferItems := make([]ledger.TransferItem, 0, len(items))
		for _, it := range items {
			it.ReceivedQty = it.RequestedQty
			if err := repos.Requests.UpdateItemQuantities(it); err != nil {
				return err
			}
			transferItems = append(transferItems, ledger.TransferItem{SpareID: it.SpareID, Qty: it.RequestedQty})
		}

		approval := &entity.Approval{
			ID:         uuid.New().String(),
			EntityType: entity.ApprovalEntitySpareRequest,
			EntityID:   req.ID,
			Level:      1,
			Role:       entity.RoleServiceCenter,
			ApproverID: principal.UserID,
			Status:     entity.ApprovalStatusApproved,
			Remarks:    remarks,
			ApprovedAt: time.Now(),
		}
		if err := repos.Approvals.Create(approval); err != nil {
			return err
		}

		_, err = p.recorder.TransferInTx(repos, ledger.TransferInput{
			Source:        req.Source,
			Destination:   req.Destination,
			SourceBucket:  reason.SourceBucket(),
			DestBucket:    entity.BucketInTransit,
			Items:         transferItems,
			MovementType:  entity.MovementTypeReturnReceipt,
			ReferenceType: entity.ReferenceTypeSpareRequest,
			ReferenceID:   req.ID,
			ActorID:       principal.UserID,
		})
		if err != nil {
			return err
		}

		ok, err := repos.Requests.UpdateStatusIf(req.ID, entity.StatusPending, entity.StatusApproved)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrInvalidState
		}
		return nil
	})
}

// Verify inspects received goods and moves the verified quantity from the
// destination in-transit bucket into the reason's final bucket. Each
// verified line is attributed to inbound invoice lines FIFO for the credit
// note; when no line has capacity the spare master prices it and the match
// row is flagged unmatched. Verified may be below received per item; the
// shortfall stays in transit for manual action.
func (p *ReturnProcessor) Verify(ctx context.Context, principal entity.Principal, requestID string, verifiedQty map[string]int64) error {
	return p.txRunner.Run(ctx, func(repos ledger.TxRepos) error {
		req, err := repos.Requests.GetForUpdate(requestID)
		if err != nil {
			return err
		}
		if req == nil {
			return domain.ErrNotFound
		}
		if req.Type != entity.RequestTypeReturn {
			return domain.ErrInvalidRequest
		}
		if req.Status != entity.StatusApproved {
			return domain.ErrInvalidState
		}
		if !principal.AtLocation(req.Destination) {
			return domain.ErrUnauthorized
		}

		reason := entity.ReturnReason(req.Reason)
		items, err := repos.Requests.ListItems(req.ID)
		if err != nil {
			return err
		}
		transferItems := make([]ledger.TransferItem, 0, len(items))
		for _, it := range items {
			qty := it.ReceivedQty
			if verifiedQty != nil {
				if q, ok := verifiedQty[it.SpareID]; ok {
					qty = q
				}
			}
			if qty < 0 || qty > it.ReceivedQty {
				return domain.ErrInvalidRequest
			}
			if qty == 0 {
				continue
			}
			transferItems = append(transferItems, ledger.TransferItem{SpareID: it.SpareID, Qty: qty})
		}
		if len(transferItems) == 0 {
			return domain.ErrInvalidRequest
		}

		// Same location, different buckets: in-transit -> final.
		_, err = p.recorder.TransferInTx(repos, ledger.TransferInput{
			Source:        req.Destination,
			Destination:   req.Destination,
			SourceBucket:  entity.BucketInTransit,
			DestBucket:    reason.DestinationBucket(),
			Items:         transferItems,
			MovementType:  entity.MovementTypeReturnVerify,
			ReferenceType: entity.ReferenceTypeSpareRequest,
			ReferenceID:   req.ID,
			ActorID:       principal.UserID,
		})
		if err != nil {
			return err
		}

		for _, it := range transferItems {
			if err := p.recordMatches(repos, req, it.SpareID, it.Qty); err != nil {
				return err
			}
		}

		ok, err := repos.Requests.UpdateStatusIf(req.ID, entity.StatusApproved, entity.StatusAllocated)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrInvalidState
		}
		return nil
	})
}

// recordMatches runs the FIFO matcher against the invoices shipped to the
// returning location and persists one attribution row per consumed line,
// falling back to spare-master pricing for any uncovered remainder.
func (p *ReturnProcessor) recordMatches(repos ledger.TxRepos, req *entity.SpareRequest, spareID string, qty int64) error {
	now := time.Now()
	matches, err := p.matcher.MatchForReturn(repos.InvoiceLines, req.Source, spareID, qty)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	for _, m := range matches {
		row := &entity.ReturnItemMatch{
			ID:               uuid.New().String(),
			RequestID:        req.ID,
			SpareID:          spareID,
			InvoiceDocNumber: m.InvoiceDocNumber,
			Qty:              m.Qty,
			UnitPrice:        m.UnitPrice,
			Tax:              m.Tax,
			HSN:              m.HSN,
			CreatedAt:        now,
		}
		if err := repos.Matches.Create(row); err != nil {
			return err
		}
	}

	uncovered := qty - invoice.Matched(matches)
	if uncovered > 0 {
		spare, err := repos.Spares.GetByID(spareID)
		if err != nil {
			return err
		}
		if spare == nil {
			return domain.ErrNotFound
		}
		row := &entity.ReturnItemMatch{
			ID:        uuid.New().String(),
			RequestID: req.ID,
			SpareID:   spareID,
			Qty:       uncovered,
			UnitPrice: spare.UnitPrice,
			Tax:       spare.TaxRate,
			HSN:       spare.HSN,
			Unmatched: true,
			CreatedAt: now,
		}
		if err := repos.Matches.Create(row); err != nil {
			return err
		}
	}
	return nil
}

// ListMatches returns the credit-note attribution rows of a return.
func (p *ReturnProcessor) ListMatches(ctx context.Context, requestID string) ([]*entity.ReturnItemMatch, error) {
	req, err := p.requestRepo.GetByID(requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}
	return p.matchRepo.ListByRequest(requestID)
}
