package repository

import "github.com/jhoicas/spareparts-api/internal/domain/entity"

// StockMovementRepository persists the immutable movement documents.
type StockMovementRepository interface {
	// Create inserts the movement and its item lines.
	Create(m *entity.StockMovement, items []*entity.GoodsMovementItem) error
	GetByID(id string) (*entity.StockMovement, error)
	ListItems(movementID string) ([]*entity.GoodsMovementItem, error)
	// ListByReference returns the movements produced for one reference
	// (e.g. all movements of a spare request), oldest first.
	ListByReference(referenceType, referenceID string) ([]*entity.StockMovement, error)
}
