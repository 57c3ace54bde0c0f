package entity

import "time"

// Approval decisions.
const (
	ApprovalStatusApproved = "approved"
	ApprovalStatusRejected = "rejected"
)

// Entity types an approval can attach to.
const (
	ApprovalEntitySpareRequest = "spare_request"
)

// Approval is one sign-off at one level of a request's chain. Append-only.
type Approval struct {
	ID         string
	EntityType string
	EntityID   string
	Level      int    // 1-based position in the chain
	Role       string // role required at this level
	ApproverID string
	Status     string
	Remarks    string
	ApprovedAt time.Time
}
