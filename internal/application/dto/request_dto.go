package dto

import "time"

// RequestItemDTO one spare line of a request body or response.
type RequestItemDTO struct {
	SpareID      string `json:"spare_id"`
	Qty          int64  `json:"qty,omitempty"`
	RequestedQty int64  `json:"requested_qty,omitempty"`
	ApprovedQty  int64  `json:"approved_qty,omitempty"`
	ReceivedQty  int64  `json:"received_qty,omitempty"`
	RejectedQty  int64  `json:"rejected_qty,omitempty"`
}

// CreateRequestRequest body for POST /api/requests.
type CreateRequestRequest struct {
	Type        string           `json:"type"`
	Reason      string           `json:"reason"`
	Source      LocationDTO      `json:"source"`
	Destination LocationDTO      `json:"destination"`
	Items       []RequestItemDTO `json:"items"`
}

// RecordApprovalRequest body for POST /api/requests/:id/approvals.
type RecordApprovalRequest struct {
	Level       int              `json:"level"`
	Decision    string           `json:"decision"` // approved | rejected
	Remarks     string           `json:"remarks,omitempty"`
	ApprovedQty map[string]int64 `json:"approved_qty,omitempty"` // spare_id -> qty, final level only
}

// CreateReturnRequest body for POST /api/returns.
type CreateReturnRequest struct {
	Reason      string           `json:"reason"` // defect | bulk | replacement
	Source      LocationDTO      `json:"source"`
	Destination LocationDTO      `json:"destination"`
	Items       []RequestItemDTO `json:"items"`
}

// ReceiveReturnRequest body for POST /api/returns/:id/receive.
type ReceiveReturnRequest struct {
	Remarks string `json:"remarks,omitempty"`
}

// VerifyReturnRequest body for POST /api/returns/:id/verify.
type VerifyReturnRequest struct {
	VerifiedQty map[string]int64 `json:"verified_qty,omitempty"` // spare_id -> qty; missing = received
}

// RequestResponse summary of a request row.
type RequestResponse struct {
	ID              string      `json:"id"`
	Type            string      `json:"type"`
	Reason          string      `json:"reason,omitempty"`
	Source          LocationDTO `json:"source"`
	Destination     LocationDTO `json:"destination"`
	Status          string      `json:"status"`
	ParentRequestID string      `json:"parent_request_id,omitempty"`
	CreatedBy       string      `json:"created_by"`
	CreatedAt       time.Time   `json:"created_at"`
}

// ApprovalDTO one sign-off row in a detail response.
type ApprovalDTO struct {
	Level      int       `json:"level"`
	Role       string    `json:"role"`
	ApproverID string    `json:"approver_id"`
	Status     string    `json:"status"`
	Remarks    string    `json:"remarks,omitempty"`
	ApprovedAt time.Time `json:"approved_at"`
}

// RequestDetailResponse full audit view of a request.
type RequestDetailResponse struct {
	RequestResponse
	Items     []RequestItemDTO `json:"items"`
	Approvals []ApprovalDTO    `json:"approvals"`
}
