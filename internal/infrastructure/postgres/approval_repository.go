package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/spareparts-api/internal/domain"
	"github.com/jhoicas/spareparts-api/internal/domain/entity"
	"github.com/jhoicas/spareparts-api/internal/domain/repository"
)

var _ repository.ApprovalRepository = (*ApprovalRepo)(nil)

// ApprovalRepo append-only approval adapter over PostgreSQL (pool or tx).
type ApprovalRepo struct {
	q Querier
}

// NewApprovalRepository builds the adapter. Pass a pool or tx (Querier).
func NewApprovalRepository(q Querier) *ApprovalRepo {
	return &ApprovalRepo{q: q}
}

// Create inserts one sign-off. The unique index on
// (entity_type, entity_id, level) backs the duplicate-level guard.
func (r *ApprovalRepo) Create(a *entity.Approval) error {
	query := `
		INSERT INTO approvals (id, entity_type, entity_id, level, role, approver_id, status, remarks, approved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		a.ID, a.EntityType, a.EntityID, a.Level, a.Role, a.ApproverID, a.Status, a.Remarks, a.ApprovedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert approval: %w", err)
	}
	return nil
}

// ListByEntity returns all approvals of one entity, level ascending.
func (r *ApprovalRepo) ListByEntity(entityType, entityID string) ([]*entity.Approval, error) {
	rows, err := r.q.Query(context.Background(), `
		SELECT id, entity_type, entity_id, level, role, approver_id, status, remarks, approved_at
		FROM approvals
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY level ASC`, entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("list approvals: %w", err)
	}
	defer rows.Close()
	var list []*entity.Approval
	for rows.Next() {
		var a entity.Approval
		if err := rows.Scan(&a.ID, &a.EntityType, &a.EntityID, &a.Level, &a.Role,
			&a.ApproverID, &a.Status, &a.Remarks, &a.ApprovedAt); err != nil {
			return nil, fmt.Errorf("scan approval: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}
