package repository

import "github.com/jhoicas/spareparts-api/internal/domain/entity"

// LocationRepository reads the location master and the echelon hierarchy
// (which branch/plant serves which service center). External reference
// data consulted when validating endpoints and resolving backorders.
type LocationRepository interface {
	Exists(l entity.Location) (bool, error)
	// Parent returns the next echelon up that serves the given location,
	// or nil when the location has none (e.g. a plant).
	Parent(l entity.Location) (*entity.Location, error)
}
