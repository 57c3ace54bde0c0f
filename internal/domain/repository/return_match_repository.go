package repository

import "github.com/jhoicas/spareparts-api/internal/domain/entity"

// ReturnMatchRepository persists the FIFO attribution of verified returns
// for downstream credit-note generation.
type ReturnMatchRepository interface {
	Create(m *entity.ReturnItemMatch) error
	ListByRequest(requestID string) ([]*entity.ReturnItemMatch, error)
}
