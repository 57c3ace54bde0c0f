package entity

import "time"

// RequestType classifies a spare request.
type RequestType string

const (
	RequestTypeIssue         RequestType = "issue"         // technician draws stock from the service center
	RequestTypeReplacement   RequestType = "replacement"   // replacement under warranty, RSM + HOD sign-off
	RequestTypeReplenishment RequestType = "replenishment" // service center restocks from branch/plant
	RequestTypeReturn        RequestType = "return"        // send-back flow, handled by the return processor
)

// ValidRequestType reports whether t is a known request type.
func ValidRequestType(t RequestType) bool {
	switch t {
	case RequestTypeIssue, RequestTypeReplacement, RequestTypeReplenishment, RequestTypeReturn:
		return true
	}
	return false
}

// RequestStatus is the workflow state of a spare request.
type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusApproved  RequestStatus = "approved" // returns: goods received, awaiting verification
	StatusAllocated RequestStatus = "allocated"
	StatusRejected  RequestStatus = "rejected"
	StatusCancelled RequestStatus = "cancelled"
)

// ReturnReason drives the destination bucket policy of a return.
type ReturnReason string

const (
	ReturnReasonDefect      ReturnReason = "defect"      // into destination defective bucket
	ReturnReasonBulk        ReturnReason = "bulk"        // unused stock back, into good bucket
	ReturnReasonReplacement ReturnReason = "replacement" // swapped-out unit, into good bucket
)

// ValidReturnReason reports whether r is a known return reason.
func ValidReturnReason(r ReturnReason) bool {
	return r == ReturnReasonDefect || r == ReturnReasonBulk || r == ReturnReasonReplacement
}

// SourceBucket is the bucket debited at the returning location.
func (r ReturnReason) SourceBucket() Bucket {
	if r == ReturnReasonDefect {
		return BucketDefective
	}
	return BucketGood
}

// DestinationBucket is the bucket credited once the return is verified.
func (r ReturnReason) DestinationBucket() Bucket {
	if r == ReturnReasonDefect {
		return BucketDefective
	}
	return BucketGood
}

// SpareRequest is the audit-trail record of a request. Never deleted;
// after creation only the status and per-item approved/received/rejected
// quantities mutate.
type SpareRequest struct {
	ID              string
	Type            RequestType
	Reason          string // for returns, holds the ReturnReason
	Source          Location
	Destination     Location
	Status          RequestStatus
	ParentRequestID string // set on backorder children
	CreatedBy       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// SpareRequestItem is one requested spare line.
type SpareRequestItem struct {
	RequestID    string
	SpareID      string
	RequestedQty int64
	ApprovedQty  int64
	ReceivedQty  int64
	RejectedQty  int64
}
