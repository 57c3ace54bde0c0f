// Package request implements the spare-request lifecycle: creation,
// one- or two-level approval, allocation, cancellation, backorders and the
// send-back (return) flows.
package request

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/spareparts-api/internal/application/ledger"
	"github.com/jhoicas/spareparts-api/internal/domain"
	"github.com/jhoicas/spareparts-api/internal/domain/entity"
	"github.com/jhoicas/spareparts-api/internal/domain/repository"
	"github.com/jhoicas/spareparts-api/internal/domain/workflow"
)

// Workflow owns a spare request from creation through allocation or
// rejection. All inventory movement is deferred to the final approval, so
// rejection and cancellation never need a compensating transfer.
type Workflow struct {
	txRunner     ledger.TxRunner
	recorder     *ledger.Recorder
	spareRepo    repository.SpareRepository
	locationRepo repository.LocationRepository
	requestRepo  repository.SpareRequestRepository
	approvalRepo repository.ApprovalRepository
}

// NewWorkflow builds the workflow. requestRepo and approvalRepo serve the
// read side; every mutation runs through txRunner.
func NewWorkflow(
	txRunner ledger.TxRunner,
	recorder *ledger.Recorder,
	spareRepo repository.SpareRepository,
	locationRepo repository.LocationRepository,
	requestRepo repository.SpareRequestRepository,
	approvalRepo repository.ApprovalRepository,
) *Workflow {
	return &Workflow{
		txRunner:     txRunner,
		recorder:     recorder,
		spareRepo:    spareRepo,
		locationRepo: locationRepo,
		requestRepo:  requestRepo,
		approvalRepo: approvalRepo,
	}
}

// ItemInput is one requested spare line.
type ItemInput struct {
	SpareID string
	Qty     int64
}

// CreateInput describes a new spare request.
type CreateInput struct {
	Type        entity.RequestType
	Reason      string
	Source      entity.Location
	Destination entity.Location
	Items       []ItemInput
}

// Create validates and persists a request with status pending. No
// inventory is reserved here; availability is re-checked at approval time.
func (w *Workflow) Create(ctx context.Context, principal entity.Principal, in CreateInput) (*entity.SpareRequest, error) {
	if !entity.ValidRequestType(in.Type) || in.Type == entity.RequestTypeReturn {
		// Returns go through the return processor.
		return nil, domain.ErrInvalidRequest
	}
	if err := w.validateEndpoints(in.Source, in.Destination); err != nil {
		return nil, err
	}
	if err := w.validateItems(in.Items); err != nil {
		return nil, err
	}
	// The requesting side must be one end of the movement.
	if !principal.AtLocation(in.Source) && !principal.AtLocation(in.Destination) {
		return nil, domain.ErrUnauthorized
	}

	now := time.Now()
	req := &entity.SpareRequest{
		ID:          uuid.New().String(),
		Type:        in.Type,
		Reason:      in.Reason,
		Source:      in.Source,
		Destination: in.Destination,
		Status:      entity.StatusPending,
		CreatedBy:   principal.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	items := make([]*entity.SpareRequestItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, &entity.SpareRequestItem{
			RequestID:    req.ID,
			SpareID:      it.SpareID,
			RequestedQty: it.Qty,
		})
	}
	err := w.txRunner.Run(ctx, func(repos ledger.TxRepos) error {
		return repos.Requests.Create(req, items)
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// ApprovalInput describes one sign-off.
type ApprovalInput struct {
	RequestID string
	Level     int
	Decision  string // entity.ApprovalStatusApproved or ...Rejected
	Remarks   string
	// ApprovedQty optionally caps the per-spare quantity at the final
	// level. Missing spares default to the requested quantity. Partial
	// approval is allowed per item, never negative, never above requested.
	ApprovedQty map[string]int64
}

// RecordApproval records one sign-off and, when it completes the chain,
// allocates the approved quantities in the same transaction. The status
// flip is a conditional update guarded on the prior status, so two
// approvals racing to be the final one resolve to exactly one allocation;
// the loser observes ErrInvalidState.
func (w *Workflow) RecordApproval(ctx context.Context, principal entity.Principal, in ApprovalInput) error {
	if in.Decision != entity.ApprovalStatusApproved && in.Decision != entity.ApprovalStatusRejected {
		return domain.ErrInvalidRequest
	}
	return w.txRunner.Run(ctx, func(repos ledger.TxRepos) error {
		req, err := repos.Requests.GetForUpdate(in.RequestID)
		if err != nil {
			return err
		}
		if req == nil {
			return domain.ErrNotFound
		}
		if req.Type == entity.RequestTypeReturn {
			// Returns are received/verified, not approved here.
			return domain.ErrInvalidRequest
		}
		if workflow.IsTerminal(req.Status) {
			return domain.ErrInvalidState
		}

		levels := workflow.RequiredLevels(req.Type)
		if in.Level < 1 || in.Level > len(levels) {
			return domain.ErrInvalidRequest
		}
		if err := w.authorizeApprover(principal, req, levels[in.Level-1]); err != nil {
			return err
		}

		prior, err := repos.Approvals.ListByEntity(entity.ApprovalEntitySpareRequest, req.ID)
		if err != nil {
			return err
		}
		// A duplicate decision at the same level is rejected outright:
		// anything softer would put the at-most-once allocation property
		// at the mercy of retries.
		if workflow.LevelRecorded(prior, in.Level) {
			return domain.ErrDuplicate
		}
		if !workflow.PriorLevelsApproved(prior, in.Level) {
			return domain.ErrOutOfOrder
		}

		approval := &entity.Approval{
			ID:         uuid.New().String(),
			EntityType: entity.ApprovalEntitySpareRequest,
			EntityID:   req.ID,
			Level:      in.Level,
			Role:       levels[in.Level-1],
			ApproverID: principal.UserID,
			Status:     in.Decision,
			Remarks:    in.Remarks,
			ApprovedAt: time.Now(),
		}
		if err := repos.Approvals.Create(approval); err != nil {
			return err
		}

		if in.Decision == entity.ApprovalStatusRejected {
			// Short-circuit: later levels are never consulted and no
			// inventory moves.
			ok, err := repos.Requests.UpdateStatusIf(req.ID, req.Status, entity.StatusRejected)
			if err != nil {
				return err
			}
			if !ok {
				return domain.ErrInvalidState
			}
			return nil
		}

		if in.Level < len(levels) {
			// Intermediate approval only records the vote.
			return nil
		}
		return w.allocate(repos, req, principal, in.ApprovedQty)
	})
}

// allocate transfers the approved quantities source -> destination and
// flips the request to allocated, all inside the caller's transaction.
func (w *Workflow) allocate(repos ledger.TxRepos, req *entity.SpareRequest, principal entity.Principal, approvedQty map[string]int64) error {
	items, err := repos.Requests.ListItems(req.ID)
	if err != nil {
		return err
	}

	transferItems := make([]ledger.TransferItem, 0, len(items))
	for _, it := range items {
		qty := it.RequestedQty
		if approvedQty != nil {
			if q, ok := approvedQty[it.SpareID]; ok {
				qty = q
			}
		}
		if qty < 0 || qty > it.RequestedQty {
			return domain.ErrInvalidRequest
		}
		it.ApprovedQty = qty
		it.RejectedQty = it.RequestedQty - qty
		if err := repos.Requests.UpdateItemQuantities(it); err != nil {
			return err
		}
		if qty > 0 {
			transferItems = append(transferItems, ledger.TransferItem{SpareID: it.SpareID, Qty: qty})
		}
	}
	if len(transferItems) == 0 {
		// Approving zero everywhere is a rejection in disguise.
		return domain.ErrInvalidRequest
	}

	// Availability is checked here, under row locks, not at creation time:
	// source stock may have changed since the request was filed.
	_, err = w.recorder.TransferInTx(repos, ledger.TransferInput{
		Source:        req.Source,
		Destination:   req.Destination,
		SourceBucket:  entity.BucketGood,
		DestBucket:    entity.BucketGood,
		Items:         transferItems,
		MovementType:  entity.MovementTypeAllocation,
		ReferenceType: entity.ReferenceTypeSpareRequest,
		ReferenceID:   req.ID,
		ActorID:       principal.UserID,
	})
	if err != nil {
		return err
	}

	ok, err := repos.Requests.UpdateStatusIf(req.ID, req.Status, entity.StatusAllocated)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrInvalidState
	}
	return nil
}

// Cancel is permitted only while the request is still pending.
func (w *Workflow) Cancel(ctx context.Context, principal entity.Principal, requestID string) error {
	return w.txRunner.Run(ctx, func(repos ledger.TxRepos) error {
		req, err := repos.Requests.GetForUpdate(requestID)
		if err != nil {
			return err
		}
		if req == nil {
			return domain.ErrNotFound
		}
		if !principal.AtLocation(req.Source) && !principal.AtLocation(req.Destination) {
			return domain.ErrUnauthorized
		}
		if req.Status != entity.StatusPending {
			return domain.ErrInvalidState
		}
		ok, err := repos.Requests.UpdateStatusIf(req.ID, entity.StatusPending, entity.StatusCancelled)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrInvalidState
		}
		return nil
	})
}

func (w *Workflow) authorizeApprover(principal entity.Principal, req *entity.SpareRequest, role string) error {
	if principal.Role != role {
		return domain.ErrUnauthorized
	}
	// Service-center approvers act for the source location; regional
	// roles (RSM, HOD) are not location-bound.
	if role == entity.RoleServiceCenter && !principal.AtLocation(req.Source) {
		return domain.ErrUnauthorized
	}
	return nil
}

func (w *Workflow) validateEndpoints(source, destination entity.Location) error {
	if !source.Valid() || !destination.Valid() || source == destination {
		return domain.ErrInvalidRequest
	}
	for _, l := range []entity.Location{source, destination} {
		ok, err := w.locationRepo.Exists(l)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrNotFound
		}
	}
	return nil
}

func (w *Workflow) validateItems(items []ItemInput) error {
	if len(items) == 0 {
		return domain.ErrInvalidRequest
	}
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if it.SpareID == "" || it.Qty <= 0 || seen[it.SpareID] {
			return domain.ErrInvalidRequest
		}
		seen[it.SpareID] = true
		spare, err := w.spareRepo.GetByID(it.SpareID)
		if err != nil {
			return err
		}
		if spare == nil {
			return domain.ErrInvalidRequest
		}
	}
	return nil
}
