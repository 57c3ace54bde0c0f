package request

import (
	"context"

	"github.com/jhoicas/spareparts-api/internal/domain"
	"github.com/jhoicas/spareparts-api/internal/domain/entity"
	"github.com/jhoicas/spareparts-api/internal/domain/workflow"
)

// Detail is the full read model of one request: the row, its item lines
// and its approval history.
type Detail struct {
	Request   *entity.SpareRequest
	Items     []*entity.SpareRequestItem
	Approvals []*entity.Approval
}

// GetDetail returns the audit view of a request for the reporting/UI layer.
func (w *Workflow) GetDetail(ctx context.Context, requestID string) (*Detail, error) {
	req, err := w.requestRepo.GetByID(requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}
	items, err := w.requestRepo.ListItems(requestID)
	if err != nil {
		return nil, err
	}
	approvals, err := w.approvalRepo.ListByEntity(entity.ApprovalEntitySpareRequest, requestID)
	if err != nil {
		return nil, err
	}
	return &Detail{Request: req, Items: items, Approvals: approvals}, nil
}

// ListPendingApprovals returns the pending requests sourced at a location
// whose next required sign-off belongs to the given role.
func (w *Workflow) ListPendingApprovals(ctx context.Context, location entity.Location, role string) ([]*entity.SpareRequest, error) {
	if !location.Valid() || role == "" {
		return nil, domain.ErrInvalidRequest
	}
	pending, err := w.requestRepo.ListByStatusAndSource(entity.StatusPending, location)
	if err != nil {
		return nil, err
	}
	var out []*entity.SpareRequest
	for _, req := range pending {
		approvals, err := w.approvalRepo.ListByEntity(entity.ApprovalEntitySpareRequest, req.ID)
		if err != nil {
			return nil, err
		}
		if workflow.NextRole(req.Type, approvals) == role {
			out = append(out, req)
		}
	}
	return out, nil
}
