package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/spareparts-api/internal/application/dto"
	"github.com/jhoicas/spareparts-api/internal/application/request"
	"github.com/jhoicas/spareparts-api/internal/domain/entity"
)

// RequestHandler serves the spare-request workflow endpoints (protected).
type RequestHandler struct {
	workflow *request.Workflow
}

// NewRequestHandler builds the handler.
func NewRequestHandler(workflow *request.Workflow) *RequestHandler {
	return &RequestHandler{workflow: workflow}
}

func toLocation(l dto.LocationDTO) entity.Location {
	return entity.Location{Type: entity.LocationType(l.Type), ID: l.ID}
}

func toLocationDTO(l entity.Location) dto.LocationDTO {
	return dto.LocationDTO{Type: string(l.Type), ID: l.ID}
}

func toItemInputs(items []dto.RequestItemDTO) []request.ItemInput {
	out := make([]request.ItemInput, 0, len(items))
	for _, it := range items {
		out = append(out, request.ItemInput{SpareID: it.SpareID, Qty: it.Qty})
	}
	return out
}

func toRequestResponse(req *entity.SpareRequest) dto.RequestResponse {
	return dto.RequestResponse{
		ID:              req.ID,
		Type:            string(req.Type),
		Reason:          req.Reason,
		Source:          toLocationDTO(req.Source),
		Destination:     toLocationDTO(req.Destination),
		Status:          string(req.Status),
		ParentRequestID: req.ParentRequestID,
		CreatedBy:       req.CreatedBy,
		CreatedAt:       req.CreatedAt,
	}
}

// Create godoc
// @Summary      Create a spare request
// @Tags         requests
// @Security     Bearer
// @Router       /api/requests [post]
func (h *RequestHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRequestRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	req, err := h.workflow.Create(c.Context(), GetPrincipal(c), request.CreateInput{
		Type:        entity.RequestType(in.Type),
		Reason:      in.Reason,
		Source:      toLocation(in.Source),
		Destination: toLocation(in.Destination),
		Items:       toItemInputs(in.Items),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toRequestResponse(req))
}

// RecordApproval godoc
// @Summary      Record one approval level
// @Tags         requests
// @Security     Bearer
// @Router       /api/requests/{id}/approvals [post]
func (h *RequestHandler) RecordApproval(c *fiber.Ctx) error {
	var in dto.RecordApprovalRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	err := h.workflow.RecordApproval(c.Context(), GetPrincipal(c), request.ApprovalInput{
		RequestID:   c.Params("id"),
		Level:       in.Level,
		Decision:    in.Decision,
		Remarks:     in.Remarks,
		ApprovedQty: in.ApprovedQty,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "approval recorded"})
}

// Cancel godoc
// @Summary      Cancel a pending request
// @Tags         requests
// @Security     Bearer
// @Router       /api/requests/{id}/cancel [post]
func (h *RequestHandler) Cancel(c *fiber.Ctx) error {
	if err := h.workflow.Cancel(c.Context(), GetPrincipal(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "request cancelled"})
}

// Backorder godoc
// @Summary      Order the unfulfilled remainder from the next echelon up
// @Tags         requests
// @Security     Bearer
// @Router       /api/requests/{id}/backorder [post]
func (h *RequestHandler) Backorder(c *fiber.Ctx) error {
	child, err := h.workflow.Backorder(c.Context(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toRequestResponse(child))
}

// GetDetail godoc
// @Summary      Full audit view of a request
// @Tags         requests
// @Security     Bearer
// @Router       /api/requests/{id} [get]
func (h *RequestHandler) GetDetail(c *fiber.Ctx) error {
	detail, err := h.workflow.GetDetail(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	resp := dto.RequestDetailResponse{RequestResponse: toRequestResponse(detail.Request)}
	for _, it := range detail.Items {
		resp.Items = append(resp.Items, dto.RequestItemDTO{
			SpareID:      it.SpareID,
			RequestedQty: it.RequestedQty,
			ApprovedQty:  it.ApprovedQty,
			ReceivedQty:  it.ReceivedQty,
			RejectedQty:  it.RejectedQty,
		})
	}
	for _, a := range detail.Approvals {
		resp.Approvals = append(resp.Approvals, dto.ApprovalDTO{
			Level:      a.Level,
			Role:       a.Role,
			ApproverID: a.ApproverID,
			Status:     a.Status,
			Remarks:    a.Remarks,
			ApprovedAt: a.ApprovedAt,
		})
	}
	return c.JSON(resp)
}

// ListPendingApprovals godoc
// @Summary      Requests awaiting the caller's sign-off
// @Tags         requests
// @Security     Bearer
// @Router       /api/approvals/pending [get]
func (h *RequestHandler) ListPendingApprovals(c *fiber.Ctx) error {
	p := GetPrincipal(c)
	location := entity.Location{
		Type: entity.LocationType(c.Query("location_type", string(p.Location.Type))),
		ID:   c.Query("location_id", p.Location.ID),
	}
	list, err := h.workflow.ListPendingApprovals(c.Context(), location, p.Role)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.RequestResponse, 0, len(list))
	for _, req := range list {
		out = append(out, toRequestResponse(req))
	}
	return c.JSON(fiber.Map{"total": len(out), "requests": out})
}
