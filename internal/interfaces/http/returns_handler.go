package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/spareparts-api/internal/application/dto"
	"github.com/jhoicas/spareparts-api/internal/application/request"
	"github.com/jhoicas/spareparts-api/internal/domain/entity"
)

// ReturnsHandler serves the return lifecycle endpoints (protected).
type ReturnsHandler struct {
	processor *request.ReturnProcessor
}

// NewReturnsHandler builds the handler.
func NewReturnsHandler(processor *request.ReturnProcessor) *ReturnsHandler {
	return &ReturnsHandler{processor: processor}
}

// Create godoc
// @Summary      File a return from a field location
// @Tags         returns
// @Security     Bearer
// @Router       /api/returns [post]
func (h *ReturnsHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	req, err := h.processor.CreateReturn(c.Context(), GetPrincipal(c), request.CreateReturnInput{
		Reason:      entity.ReturnReason(in.Reason),
		Source:      toLocation(in.Source),
		Destination: toLocation(in.Destination),
		Items:       toItemInputs(in.Items),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toRequestResponse(req))
}

// Receive godoc
// @Summary      Acknowledge physical receipt of a return
// @Tags         returns
// @Security     Bearer
// @Router       /api/returns/{id}/receive [post]
func (h *ReturnsHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiveReturnRequest
	if err := c.BodyParser(&in); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	if err := h.processor.Receive(c.Context(), GetPrincipal(c), c.Params("id"), in.Remarks); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "return received"})
}

// Verify godoc
// @Summary      Confirm inspected quantities and settle the return
// @Tags         returns
// @Security     Bearer
// @Router       /api/returns/{id}/verify [post]
func (h *ReturnsHandler) Verify(c *fiber.Ctx) error {
	var in dto.VerifyReturnRequest
	if err := c.BodyParser(&in); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	if err := h.processor.Verify(c.Context(), GetPrincipal(c), c.Params("id"), in.VerifiedQty); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "return verified"})
}

// ListMatches godoc
// @Summary      Invoice lines matched against a return
// @Tags         returns
// @Security     Bearer
// @Router       /api/returns/{id}/matches [get]
func (h *ReturnsHandler) ListMatches(c *fiber.Ctx) error {
	matches, err := h.processor.ListMatches(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]fiber.Map, 0, len(matches))
	for _, m := range matches {
		out = append(out, fiber.Map{
			"spare_id":           m.SpareID,
			"invoice_doc_number": m.InvoiceDocNumber,
			"qty":                m.Qty,
			"unit_price":         m.UnitPrice,
			"tax":                m.Tax,
			"hsn":                m.HSN,
			"unmatched":          m.Unmatched,
		})
	}
	return c.JSON(fiber.Map{"total": len(out), "matches": out})
}
