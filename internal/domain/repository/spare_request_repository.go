package repository

import "github.com/jhoicas/spareparts-api/internal/domain/entity"

// SpareRequestRepository persists requests and their item lines. Requests
// are never deleted; after creation only status and the per-item
// approved/received/rejected quantities change.
type SpareRequestRepository interface {
	Create(req *entity.SpareRequest, items []*entity.SpareRequestItem) error
	GetByID(id string) (*entity.SpareRequest, error)
	// GetForUpdate locks the request row for the enclosing transaction.
	GetForUpdate(id string) (*entity.SpareRequest, error)
	ListItems(requestID string) ([]*entity.SpareRequestItem, error)
	// UpdateStatusIf transitions the status only if it still equals from
	// (conditional UPDATE). Returns false when the guard failed, which is
	// how racing final approvals are resolved to exactly one winner.
	UpdateStatusIf(id string, from, to entity.RequestStatus) (bool, error)
	// UpdateItemQuantities sets the approved/received/rejected counters of
	// one item line.
	UpdateItemQuantities(item *entity.SpareRequestItem) error
	// ListByStatusAndSource returns requests at a status whose source is
	// the given location, oldest first.
	ListByStatusAndSource(status entity.RequestStatus, source entity.Location) ([]*entity.SpareRequest, error)
}
