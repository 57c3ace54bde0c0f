package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/spareparts-api/internal/domain/entity"
	"github.com/jhoicas/spareparts-api/internal/domain/repository"
)

var _ repository.SpareRequestRepository = (*SpareRequestRepo)(nil)

// SpareRequestRepo request adapter over PostgreSQL (pool or tx).
type SpareRequestRepo struct {
	q Querier
}

// NewSpareRequestRepository builds the adapter. Pass a pool or tx (Querier).
func NewSpareRequestRepository(q Querier) *SpareRequestRepo {
	return &SpareRequestRepo{q: q}
}

const requestColumns = `id, type, reason, source_type, source_id, dest_type, dest_id,
	status, parent_request_id, created_by, created_at, updated_at`

// Create inserts the request and its item lines.
func (r *SpareRequestRepo) Create(req *entity.SpareRequest, items []*entity.SpareRequestItem) error {
	query := `
		INSERT INTO spare_requests (` + requestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		req.ID, req.Type, req.Reason,
		req.Source.Type, req.Source.ID, req.Destination.Type, req.Destination.ID,
		req.Status, nullIfEmpty(req.ParentRequestID), req.CreatedBy, req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert spare request: %w", err)
	}
	for _, it := range items {
		_, err := r.q.Exec(context.Background(), `
			INSERT INTO spare_request_items (request_id, spare_id, requested_qty, approved_qty, received_qty, rejected_qty)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			it.RequestID, it.SpareID, it.RequestedQty, it.ApprovedQty, it.ReceivedQty, it.RejectedQty,
		)
		if err != nil {
			return fmt.Errorf("insert request item: %w", err)
		}
	}
	return nil
}

// GetByID returns one request, nil if absent.
func (r *SpareRequestRepo) GetByID(id string) (*entity.SpareRequest, error) {
	return r.getOne(`SELECT `+requestColumns+` FROM spare_requests WHERE id = $1`, id, "get spare request")
}

// GetForUpdate locks the request row for the enclosing transaction.
func (r *SpareRequestRepo) GetForUpdate(id string) (*entity.SpareRequest, error) {
	return r.getOne(`SELECT `+requestColumns+` FROM spare_requests WHERE id = $1 FOR UPDATE`, id, "get spare request for update")
}

func (r *SpareRequestRepo) getOne(query, id, op string) (*entity.SpareRequest, error) {
	var req entity.SpareRequest
	var parent *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&req.ID, &req.Type, &req.Reason,
		&req.Source.Type, &req.Source.ID, &req.Destination.Type, &req.Destination.ID,
		&req.Status, &parent, &req.CreatedBy, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if parent != nil {
		req.ParentRequestID = *parent
	}
	return &req, nil
}

// ListItems returns the item lines of one request.
func (r *SpareRequestRepo) ListItems(requestID string) ([]*entity.SpareRequestItem, error) {
	rows, err := r.q.Query(context.Background(), `
		SELECT request_id, spare_id, requested_qty, approved_qty, received_qty, rejected_qty
		FROM spare_request_items WHERE request_id = $1
		ORDER BY spare_id`, requestID)
	if err != nil {
		return nil, fmt.Errorf("list request items: %w", err)
	}
	defer rows.Close()
	var list []*entity.SpareRequestItem
	for rows.Next() {
		var it entity.SpareRequestItem
		if err := rows.Scan(&it.RequestID, &it.SpareID, &it.RequestedQty,
			&it.ApprovedQty, &it.ReceivedQty, &it.RejectedQty); err != nil {
			return nil, fmt.Errorf("scan request item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// UpdateStatusIf flips the status only when it still equals from. The
// zero-rows-affected result is how a lost status race is detected.
func (r *SpareRequestRepo) UpdateStatusIf(id string, from, to entity.RequestStatus) (bool, error) {
	cmd, err := r.q.Exec(context.Background(), `
		UPDATE spare_requests SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3`, to, id, from)
	if err != nil {
		return false, fmt.Errorf("update request status: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// UpdateItemQuantities sets the mutable counters of one item line.
func (r *SpareRequestRepo) UpdateItemQuantities(item *entity.SpareRequestItem) error {
	_, err := r.q.Exec(context.Background(), `
		UPDATE spare_request_items
		SET approved_qty = $1, received_qty = $2, rejected_qty = $3
		WHERE request_id = $4 AND spare_id = $5`,
		item.ApprovedQty, item.ReceivedQty, item.RejectedQty, item.RequestID, item.SpareID)
	if err != nil {
		return fmt.Errorf("update request item: %w", err)
	}
	return nil
}

// ListByStatusAndSource returns requests at a status sourced at a location,
// oldest first.
func (r *SpareRequestRepo) ListByStatusAndSource(status entity.RequestStatus, source entity.Location) ([]*entity.SpareRequest, error) {
	query := `SELECT ` + requestColumns + `
		FROM spare_requests
		WHERE status = $1 AND source_type = $2 AND source_id = $3
		ORDER BY created_at ASC`
	rows, err := r.q.Query(context.Background(), query, status, source.Type, source.ID)
	if err != nil {
		return nil, fmt.Errorf("list requests by status and source: %w", err)
	}
	defer rows.Close()
	var list []*entity.SpareRequest
	for rows.Next() {
		var req entity.SpareRequest
		var parent *string
		if err := rows.Scan(&req.ID, &req.Type, &req.Reason,
			&req.Source.Type, &req.Source.ID, &req.Destination.Type, &req.Destination.ID,
			&req.Status, &parent, &req.CreatedBy, &req.CreatedAt, &req.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan spare request: %w", err)
		}
		if parent != nil {
			req.ParentRequestID = *parent
		}
		list = append(list, &req)
	}
	return list, rows.Err()
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
