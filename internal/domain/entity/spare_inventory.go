package entity

import "time"

// Bucket is one of the three inventory partitions per spare per location.
type Bucket string

const (
	BucketGood      Bucket = "good"
	BucketDefective Bucket = "defective"
	BucketInTransit Bucket = "in_transit"
)

// ValidBucket reports whether b is a known bucket.
func ValidBucket(b Bucket) bool {
	return b == BucketGood || b == BucketDefective || b == BucketInTransit
}

// SpareInventory is the quantity on hand for one spare at one location,
// split into good / defective / in-transit buckets. Unique per
// (location, spare). All buckets are non-negative at all times.
type SpareInventory struct {
	Location     Location
	SpareID      string
	QtyGood      int64
	QtyDefective int64
	QtyInTransit int64
	UpdatedAt    time.Time
}

// Qty returns the quantity in the given bucket.
func (s *SpareInventory) Qty(b Bucket) int64 {
	switch b {
	case BucketGood:
		return s.QtyGood
	case BucketDefective:
		return s.QtyDefective
	case BucketInTransit:
		return s.QtyInTransit
	}
	return 0
}

// Apply adds delta to the given bucket. Returns false (leaving the row
// untouched) if the result would be negative.
func (s *SpareInventory) Apply(b Bucket, delta int64) bool {
	next := s.Qty(b) + delta
	if next < 0 {
		return false
	}
	switch b {
	case BucketGood:
		s.QtyGood = next
	case BucketDefective:
		s.QtyDefective = next
	case BucketInTransit:
		s.QtyInTransit = next
	default:
		return false
	}
	return true
}

// Total is the sum of all buckets.
func (s *SpareInventory) Total() int64 {
	return s.QtyGood + s.QtyDefective + s.QtyInTransit
}
