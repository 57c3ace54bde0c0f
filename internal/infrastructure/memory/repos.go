package memory

import (
	"sort"

	"github.com/jhoicas/spareparts-api/internal/domain"
	"github.com/jhoicas/spareparts-api/internal/domain/entity"
	"github.com/jhoicas/spareparts-api/internal/domain/repository"
)

// Repository implementations over the store. The locked flag marks repos
// handed out inside Run, where the store mutex is already held.

type inventoryRepo struct {
	s      *Store
	locked bool
}

var _ repository.SpareInventoryRepository = (*inventoryRepo)(nil)

func (r *inventoryRepo) Get(location entity.Location, spareID string) (*entity.SpareInventory, error) {
	defer r.s.lock(r.locked)()
	if inv, ok := r.s.d.inventory[invKey(location, spareID)]; ok {
		cp := *inv
		return &cp, nil
	}
	return &entity.SpareInventory{Location: location, SpareID: spareID}, nil
}

// GetForUpdate is identical to Get here: the store mutex held for the whole
// transaction is the row lock.
func (r *inventoryRepo) GetForUpdate(location entity.Location, spareID string) (*entity.SpareInventory, error) {
	return r.Get(location, spareID)
}

func (r *inventoryRepo) Upsert(inv *entity.SpareInventory) error {
	defer r.s.lock(r.locked)()
	cp := *inv
	r.s.d.inventory[invKey(inv.Location, inv.SpareID)] = &cp
	return nil
}

func (r *inventoryRepo) ListByLocation(location entity.Location) ([]*entity.SpareInventory, error) {
	defer r.s.lock(r.locked)()
	var list []*entity.SpareInventory
	for _, inv := range r.s.d.inventory {
		if inv.Location == location {
			cp := *inv
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].SpareID < list[j].SpareID })
	return list, nil
}

type movementRepo struct {
	s      *Store
	locked bool
}

var _ repository.StockMovementRepository = (*movementRepo)(nil)

func (r *movementRepo) Create(m *entity.StockMovement, items []*entity.GoodsMovementItem) error {
	defer r.s.lock(r.locked)()
	cp := *m
	r.s.d.movements[m.ID] = &cp
	r.s.d.movementItems[m.ID] = cloneSlice(items)
	return nil
}

func (r *movementRepo) GetByID(id string) (*entity.StockMovement, error) {
	defer r.s.lock(r.locked)()
	if m, ok := r.s.d.movements[id]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, nil
}

func (r *movementRepo) ListItems(movementID string) ([]*entity.GoodsMovementItem, error) {
	defer r.s.lock(r.locked)()
	return cloneSlice(r.s.d.movementItems[movementID]), nil
}

func (r *movementRepo) ListByReference(referenceType, referenceID string) ([]*entity.StockMovement, error) {
	defer r.s.lock(r.locked)()
	var list []*entity.StockMovement
	for _, m := range r.s.d.movements {
		if m.ReferenceType == referenceType && m.ReferenceID == referenceID {
			cp := *m
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

type requestRepo struct {
	s      *Store
	locked bool
}

var _ repository.SpareRequestRepository = (*requestRepo)(nil)

func (r *requestRepo) Create(req *entity.SpareRequest, items []*entity.SpareRequestItem) error {
	defer r.s.lock(r.locked)()
	if _, exists := r.s.d.requests[req.ID]; exists {
		return domain.ErrDuplicate
	}
	cp := *req
	r.s.d.requests[req.ID] = &cp
	r.s.d.requestItems[req.ID] = cloneSlice(items)
	return nil
}

func (r *requestRepo) GetByID(id string) (*entity.SpareRequest, error) {
	defer r.s.lock(r.locked)()
	if req, ok := r.s.d.requests[id]; ok {
		cp := *req
		return &cp, nil
	}
	return nil, nil
}

func (r *requestRepo) GetForUpdate(id string) (*entity.SpareRequest, error) {
	return r.GetByID(id)
}

func (r *requestRepo) ListItems(requestID string) ([]*entity.SpareRequestItem, error) {
	defer r.s.lock(r.locked)()
	return cloneSlice(r.s.d.requestItems[requestID]), nil
}

func (r *requestRepo) UpdateStatusIf(id string, from, to entity.RequestStatus) (bool, error) {
	defer r.s.lock(r.locked)()
	req, ok := r.s.d.requests[id]
	if !ok || req.Status != from {
		return false, nil
	}
	req.Status = to
	return true, nil
}

func (r *requestRepo) UpdateItemQuantities(item *entity.SpareRequestItem) error {
	defer r.s.lock(r.locked)()
	for _, it := range r.s.d.requestItems[item.RequestID] {
		if it.SpareID == item.SpareID {
			it.ApprovedQty = item.ApprovedQty
			it.ReceivedQty = item.ReceivedQty
			it.RejectedQty = item.RejectedQty
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *requestRepo) ListByStatusAndSource(status entity.RequestStatus, source entity.Location) ([]*entity.SpareRequest, error) {
	defer r.s.lock(r.locked)()
	var list []*entity.SpareRequest
	for _, req := range r.s.d.requests {
		if req.Status == status && req.Source == source {
			cp := *req
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

type approvalRepo struct {
	s      *Store
	locked bool
}

var _ repository.ApprovalRepository = (*approvalRepo)(nil)

func (r *approvalRepo) Create(a *entity.Approval) error {
	defer r.s.lock(r.locked)()
	for _, prev := range r.s.d.approvals {
		if prev.EntityType == a.EntityType && prev.EntityID == a.EntityID && prev.Level == a.Level {
			return domain.ErrDuplicate
		}
	}
	cp := *a
	r.s.d.approvals = append(r.s.d.approvals, &cp)
	return nil
}

func (r *approvalRepo) ListByEntity(entityType, entityID string) ([]*entity.Approval, error) {
	defer r.s.lock(r.locked)()
	var list []*entity.Approval
	for _, a := range r.s.d.approvals {
		if a.EntityType == entityType && a.EntityID == entityID {
			cp := *a
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Level < list[j].Level })
	return list, nil
}

type invoiceLineRepo struct {
	s      *Store
	locked bool
}

var _ repository.InvoiceLineRepository = (*invoiceLineRepo)(nil)

func (r *invoiceLineRepo) ListOpenForUpdate(shipTo entity.Location, spareID string) ([]*entity.InvoiceLine, error) {
	defer r.s.lock(r.locked)()
	var list []*entity.InvoiceLine
	for _, l := range r.s.d.invoiceLines {
		if l.Destination == shipTo && l.SpareID == spareID && l.Remaining() > 0 {
			cp := *l
			list = append(list, &cp)
		}
	}
	return list, nil
}

func (r *invoiceLineRepo) AddConsumed(lineID string, qty int64) error {
	defer r.s.lock(r.locked)()
	for _, l := range r.s.d.invoiceLines {
		if l.ID == lineID {
			l.ConsumedQty += qty
			return nil
		}
	}
	return domain.ErrNotFound
}

type matchRepo struct {
	s      *Store
	locked bool
}

var _ repository.ReturnMatchRepository = (*matchRepo)(nil)

func (r *matchRepo) Create(m *entity.ReturnItemMatch) error {
	defer r.s.lock(r.locked)()
	cp := *m
	r.s.d.matches = append(r.s.d.matches, &cp)
	return nil
}

func (r *matchRepo) ListByRequest(requestID string) ([]*entity.ReturnItemMatch, error) {
	defer r.s.lock(r.locked)()
	var list []*entity.ReturnItemMatch
	for _, m := range r.s.d.matches {
		if m.RequestID == requestID {
			cp := *m
			list = append(list, &cp)
		}
	}
	return list, nil
}

type spareRepo struct {
	s      *Store
	locked bool
}

var _ repository.SpareRepository = (*spareRepo)(nil)

func (r *spareRepo) GetByID(id string) (*entity.Spare, error) {
	defer r.s.lock(r.locked)()
	if sp, ok := r.s.d.spares[id]; ok {
		cp := *sp
		return &cp, nil
	}
	return nil, nil
}

type locationRepo struct {
	s *Store
}

var _ repository.LocationRepository = (*locationRepo)(nil)

func (r *locationRepo) Exists(l entity.Location) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.d.locations[l.String()], nil
}

func (r *locationRepo) Parent(l entity.Location) (*entity.Location, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.d.parents[l.String()]; ok {
		return &p, nil
	}
	return nil, nil
}
