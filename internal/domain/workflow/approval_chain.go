// Package workflow holds the pure domain rules of the request lifecycle:
// the approval chain per request type and the legal status transitions.
package workflow

import "github.com/jhoicas/spareparts-api/internal/domain/entity"

// RequiredLevels returns the ordered roles that must sign off a request of
// the given type before it may be allocated. Nil for unknown types.
func RequiredLevels(t entity.RequestType) []string {
	switch t {
	case entity.RequestTypeIssue:
		return []string{entity.RoleServiceCenter}
	case entity.RequestTypeReplacement:
		return []string{entity.RoleRSM, entity.RoleHOD}
	case entity.RequestTypeReplenishment:
		return []string{entity.RoleRSM}
	case entity.RequestTypeReturn:
		return []string{entity.RoleServiceCenter}
	}
	return nil
}

// IsComplete reports whether an approved row exists for every required
// level with no rejection at any level.
func IsComplete(t entity.RequestType, approvals []*entity.Approval) bool {
	levels := RequiredLevels(t)
	if levels == nil {
		return false
	}
	approved := make(map[int]bool, len(levels))
	for _, a := range approvals {
		if a.Status == entity.ApprovalStatusRejected {
			// A rejection at any level short-circuits the chain.
			return false
		}
		if a.Status == entity.ApprovalStatusApproved {
			approved[a.Level] = true
		}
	}
	for i := range levels {
		if !approved[i+1] {
			return false
		}
	}
	return true
}

// LevelRecorded reports whether any decision is already recorded at level.
func LevelRecorded(approvals []*entity.Approval, level int) bool {
	for _, a := range approvals {
		if a.Level == level {
			return true
		}
	}
	return false
}

// PriorLevelsApproved reports whether every level below the given one has
// an approved row.
func PriorLevelsApproved(approvals []*entity.Approval, level int) bool {
	for l := 1; l < level; l++ {
		ok := false
		for _, a := range approvals {
			if a.Level == l && a.Status == entity.ApprovalStatusApproved {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

// NextRole returns the role expected to act next on a pending request, or
// "" when the chain is complete or already broken by a rejection.
func NextRole(t entity.RequestType, approvals []*entity.Approval) string {
	levels := RequiredLevels(t)
	for _, a := range approvals {
		if a.Status == entity.ApprovalStatusRejected {
			return ""
		}
	}
	for i, role := range levels {
		if !levelApproved(approvals, i+1) {
			return role
		}
	}
	return ""
}

func levelApproved(approvals []*entity.Approval, level int) bool {
	for _, a := range approvals {
		if a.Level == level && a.Status == entity.ApprovalStatusApproved {
			return true
		}
	}
	return false
}
