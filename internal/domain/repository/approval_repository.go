package repository

import "github.com/jhoicas/spareparts-api/internal/domain/entity"

// ApprovalRepository persists sign-offs. Append-only: rows are never
// updated or deleted.
type ApprovalRepository interface {
	Create(a *entity.Approval) error
	// ListByEntity returns all approvals for an entity, level ascending.
	ListByEntity(entityType, entityID string) ([]*entity.Approval, error)
}
