package repository

import "github.com/jhoicas/spareparts-api/internal/domain/entity"

// SpareRepository reads the spare-part master. Nil, nil when absent.
type SpareRepository interface {
	GetByID(id string) (*entity.Spare, error)
}
