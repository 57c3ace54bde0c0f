package workflow

import "github.com/jhoicas/spareparts-api/internal/domain/entity"

// transitions is the full set of legal status edges. Single-level request
// types collapse approved and allocated, hence the direct
// pending -> allocated edge.
var transitions = map[entity.RequestStatus][]entity.RequestStatus{
	entity.StatusPending:  {entity.StatusApproved, entity.StatusAllocated, entity.StatusRejected, entity.StatusCancelled},
	entity.StatusApproved: {entity.StatusAllocated, entity.StatusRejected},
}

// CanTransition reports whether from -> to is a declared edge.
func CanTransition(from, to entity.RequestStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status admits no further transitions.
func IsTerminal(s entity.RequestStatus) bool {
	return len(transitions[s]) == 0
}
