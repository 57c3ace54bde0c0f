package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/spareparts-api/internal/application/dto"
	"github.com/jhoicas/spareparts-api/internal/application/ledger"
	"github.com/jhoicas/spareparts-api/internal/domain/entity"
)

// InventoryHandler serves ledger reads and write-offs (protected).
type InventoryHandler struct {
	snapshot *ledger.SnapshotUseCase
	recorder *ledger.Recorder
}

// NewInventoryHandler builds the handler.
func NewInventoryHandler(snapshot *ledger.SnapshotUseCase, recorder *ledger.Recorder) *InventoryHandler {
	return &InventoryHandler{snapshot: snapshot, recorder: recorder}
}

// Snapshot godoc
// @Summary      Bucketed stock at one location
// @Tags         inventory
// @Security     Bearer
// @Router       /api/inventory/{type}/{id} [get]
func (h *InventoryHandler) Snapshot(c *fiber.Ctx) error {
	location := entity.Location{
		Type: entity.LocationType(c.Params("type")),
		ID:   c.Params("id"),
	}
	rows, err := h.snapshot.Snapshot(c.Context(), location)
	if err != nil {
		return writeError(c, err)
	}
	resp := dto.LedgerSnapshotResponse{
		Location: toLocationDTO(location),
		Rows:     make([]dto.InventoryRowDTO, 0, len(rows)),
	}
	for _, row := range rows {
		resp.Rows = append(resp.Rows, dto.InventoryRowDTO{
			SpareID:      row.SpareID,
			QtyGood:      row.QtyGood,
			QtyDefective: row.QtyDefective,
			QtyInTransit: row.QtyInTransit,
		})
	}
	return c.JSON(resp)
}

// GetRow godoc
// @Summary      Buckets of one spare at one location
// @Tags         inventory
// @Security     Bearer
// @Router       /api/inventory/{type}/{id}/{spareId} [get]
func (h *InventoryHandler) GetRow(c *fiber.Ctx) error {
	location := entity.Location{
		Type: entity.LocationType(c.Params("type")),
		ID:   c.Params("id"),
	}
	row, err := h.snapshot.Get(c.Context(), location, c.Params("spareId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.InventoryRowDTO{
		SpareID:      row.SpareID,
		QtyGood:      row.QtyGood,
		QtyDefective: row.QtyDefective,
		QtyInTransit: row.QtyInTransit,
	})
}

// WriteOff godoc
// @Summary      Scrap stock out of a bucket
// @Tags         inventory
// @Security     Bearer
// @Router       /api/inventory/write-offs [post]
func (h *InventoryHandler) WriteOff(c *fiber.Ctx) error {
	var in dto.WriteOffRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	items := make([]ledger.TransferItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, ledger.TransferItem{SpareID: it.SpareID, Qty: it.Qty})
	}
	movementID, err := h.recorder.WriteOff(c.Context(), ledger.WriteOffInput{
		Location: toLocation(in.Location),
		Bucket:   entity.Bucket(in.Bucket),
		Items:    items,
		Reason:   in.Reason,
		ActorID:  GetPrincipal(c).UserID,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"movement_id": movementID})
}
