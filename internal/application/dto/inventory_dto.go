package dto

// InventoryRowDTO buckets of one spare at one location.
type InventoryRowDTO struct {
	SpareID      string `json:"spare_id"`
	QtyGood      int64  `json:"qty_good"`
	QtyDefective int64  `json:"qty_defective"`
	QtyInTransit int64  `json:"qty_in_transit"`
}

// LedgerSnapshotResponse response for GET /api/inventory/:type/:id.
type LedgerSnapshotResponse struct {
	Location LocationDTO       `json:"location"`
	Rows     []InventoryRowDTO `json:"rows"`
}

// WriteOffRequest body for POST /api/inventory/write-offs.
type WriteOffRequest struct {
	Location LocationDTO      `json:"location"`
	Bucket   string           `json:"bucket"`
	Reason   string           `json:"reason"`
	Items    []RequestItemDTO `json:"items"`
}
