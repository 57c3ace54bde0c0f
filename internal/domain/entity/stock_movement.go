package entity

import "time"

// Movement types.
const (
	MovementTypeAllocation    = "allocation"     // approved request, source -> destination
	MovementTypeReturnReceipt = "return_receipt" // return arrives, source bucket -> destination in-transit
	MovementTypeReturnVerify  = "return_verify"  // verified return, in-transit -> final bucket
	MovementTypeWriteOff      = "write_off"      // scrap, debits only
)

// Movement statuses. A completed movement has been reflected in the ledger
// exactly once and is never edited, only superseded by a compensating movement.
const (
	MovementStatusCompleted  = "completed"
	MovementStatusSuperseded = "superseded"
)

// Reference types.
const (
	ReferenceTypeSpareRequest = "spare_request"
	ReferenceTypeAdjustment   = "adjustment"
)

// StockMovement is an immutable paired debit/credit document. Cross-bucket
// transfers are explicit: SourceBucket is debited at the source and
// DestBucket credited at the destination.
type StockMovement struct {
	ID            string
	Type          string
	ReferenceType string
	ReferenceID   string
	Source        Location
	Destination   Location // zero for write-offs
	SourceBucket  Bucket
	DestBucket    Bucket // empty for write-offs
	TotalQty      int64
	Status        string
	CreatedBy     string
	CreatedAt     time.Time
}

// GoodsMovementItem is one spare line within a StockMovement.
type GoodsMovementItem struct {
	MovementID string
	SpareID    string
	Qty        int64
	Condition  string // free-form inspection note, e.g. "sealed", "burnt board"
}
