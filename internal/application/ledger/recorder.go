package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/spareparts-api/internal/domain"
	"github.com/jhoicas/spareparts-api/internal/domain/entity"
)

// Recorder is the stock movement recorder: the only writer of the
// inventory ledger. Every change is a paired debit/credit movement
// document applied in a single transaction.
type Recorder struct {
	txRunner TxRunner
}

// NewRecorder builds the recorder.
func NewRecorder(txRunner TxRunner) *Recorder {
	return &Recorder{txRunner: txRunner}
}

// TransferItem is one spare line of a transfer.
type TransferItem struct {
	SpareID   string
	Qty       int64
	Condition string
}

// TransferInput describes an atomic source -> destination movement.
// SourceBucket is debited at the source, DestBucket credited at the
// destination; cross-bucket moves are explicit, never implied. Source and
// destination may be the same location when the buckets differ (bucket
// reclassification, e.g. in-transit -> defective on verification).
type TransferInput struct {
	Source        entity.Location
	Destination   entity.Location
	SourceBucket  entity.Bucket
	DestBucket    entity.Bucket
	Items         []TransferItem
	MovementType  string
	ReferenceType string
	ReferenceID   string
	ActorID       string
}

func (in TransferInput) validate() error {
	if !in.Source.Valid() || !in.Destination.Valid() {
		return domain.ErrInvalidRequest
	}
	if !entity.ValidBucket(in.SourceBucket) || !entity.ValidBucket(in.DestBucket) {
		return domain.ErrInvalidRequest
	}
	if in.Source == in.Destination && in.SourceBucket == in.DestBucket {
		return domain.ErrInvalidRequest
	}
	if len(in.Items) == 0 {
		return domain.ErrInvalidRequest
	}
	for _, it := range in.Items {
		if it.SpareID == "" || it.Qty <= 0 {
			return domain.ErrInvalidRequest
		}
	}
	return nil
}

// Transfer opens a transaction, debits the source, credits the destination
// and records the movement document. All-or-nothing: any failure rolls the
// whole transfer back.
func (r *Recorder) Transfer(ctx context.Context, in TransferInput) (string, error) {
	if err := in.validate(); err != nil {
		return "", err
	}
	var movementID string
	err := r.txRunner.Run(ctx, func(repos TxRepos) error {
		id, err := r.TransferInTx(repos, in)
		movementID = id
		return err
	})
	if err != nil {
		return "", err
	}
	return movementID, nil
}

// TransferInTx applies a transfer using repositories already bound to the
// caller's transaction. Used by the request workflow so that allocation and
// the status flip commit together.
func (r *Recorder) TransferInTx(repos TxRepos, in TransferInput) (string, error) {
	if err := in.validate(); err != nil {
		return "", err
	}
	now := time.Now()
	var total int64

	// Debit source rows first, each under a row lock. A failed debit
	// aborts the transaction before anything is credited.
	for _, it := range in.Items {
		src, err := repos.Inventory.GetForUpdate(in.Source, it.SpareID)
		if err != nil {
			return "", err
		}
		if !src.Apply(in.SourceBucket, -it.Qty) {
			return "", domain.ErrInsufficientStock
		}
		src.UpdatedAt = now
		if err := repos.Inventory.Upsert(src); err != nil {
			return "", err
		}
		total += it.Qty
	}

	for _, it := range in.Items {
		dst, err := repos.Inventory.GetForUpdate(in.Destination, it.SpareID)
		if err != nil {
			return "", err
		}
		if !dst.Apply(in.DestBucket, it.Qty) {
			return "", domain.ErrInsufficientStock
		}
		dst.UpdatedAt = now
		if err := repos.Inventory.Upsert(dst); err != nil {
			return "", err
		}
	}

	mov := &entity.StockMovement{
		ID:            uuid.New().String(),
		Type:          in.MovementType,
		ReferenceType: in.ReferenceType,
		ReferenceID:   in.ReferenceID,
		Source:        in.Source,
		Destination:   in.Destination,
		SourceBucket:  in.SourceBucket,
		DestBucket:    in.DestBucket,
		TotalQty:      total,
		Status:        entity.MovementStatusCompleted,
		CreatedBy:     in.ActorID,
		CreatedAt:     now,
	}
	items := make([]*entity.GoodsMovementItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, &entity.GoodsMovementItem{
			MovementID: mov.ID,
			SpareID:    it.SpareID,
			Qty:        it.Qty,
			Condition:  it.Condition,
		})
	}
	if err := repos.Movements.Create(mov, items); err != nil {
		return "", err
	}
	return mov.ID, nil
}

// WriteOffInput describes a scrap: stock leaves the ledger entirely.
type WriteOffInput struct {
	Location entity.Location
	Bucket   entity.Bucket
	Items    []TransferItem
	Reason   string
	ActorID  string
}

// WriteOff debits the given bucket with no matching credit. The one
// sanctioned exception to conservation across the ledger.
func (r *Recorder) WriteOff(ctx context.Context, in WriteOffInput) (string, error) {
	if !in.Location.Valid() || !entity.ValidBucket(in.Bucket) || len(in.Items) == 0 {
		return "", domain.ErrInvalidRequest
	}
	for _, it := range in.Items {
		if it.SpareID == "" || it.Qty <= 0 {
			return "", domain.ErrInvalidRequest
		}
	}
	var movementID string
	err := r.txRunner.Run(ctx, func(repos TxRepos) error {
		now := time.Now()
		var total int64
		for _, it := range in.Items {
			row, err := repos.Inventory.GetForUpdate(in.Location, it.SpareID)
			if err != nil {
				return err
			}
			if !row.Apply(in.Bucket, -it.Qty) {
				return domain.ErrInsufficientStock
			}
			row.UpdatedAt = now
			if err := repos.Inventory.Upsert(row); err != nil {
				return err
			}
			total += it.Qty
		}
		mov := &entity.StockMovement{
			ID:            uuid.New().String(),
			Type:          entity.MovementTypeWriteOff,
			ReferenceType: entity.ReferenceTypeAdjustment,
			ReferenceID:   in.Reason,
			Source:        in.Location,
			SourceBucket:  in.Bucket,
			TotalQty:      total,
			Status:        entity.MovementStatusCompleted,
			CreatedBy:     in.ActorID,
			CreatedAt:     now,
		}
		items := make([]*entity.GoodsMovementItem, 0, len(in.Items))
		for _, it := range in.Items {
			items = append(items, &entity.GoodsMovementItem{
				MovementID: mov.ID,
				SpareID:    it.SpareID,
				Qty:        it.Qty,
				Condition:  it.Condition,
			})
		}
		if err := repos.Movements.Create(mov, items); err != nil {
			return err
		}
		movementID = mov.ID
		return nil
	})
	if err != nil {
		return "", err
	}
	return movementID, nil
}
