package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/spareparts-api/internal/application/ledger"
	"github.com/jhoicas/spareparts-api/internal/application/request"
	"github.com/jhoicas/spareparts-api/internal/domain/entity"
)

// RouterDeps dependencies for the router.
type RouterDeps struct {
	Workflow  *request.Workflow
	Returns   *request.ReturnProcessor
	Snapshot  *ledger.SnapshotUseCase
	Recorder  *ledger.Recorder
	JWTSecret string
}

// Router registers the API routes. Everything past /api requires a
// Bearer token carrying the caller's Principal.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Spare requests
	requests := api.Group("/requests")
	requestHandler := NewRequestHandler(deps.Workflow)
	requests.Post("/", requestHandler.Create)
	requests.Get("/:id", requestHandler.GetDetail)
	requests.Post("/:id/approvals", requestHandler.RecordApproval)
	requests.Post("/:id/cancel", requestHandler.Cancel)
	requests.Post("/:id/backorder", requestHandler.Backorder)

	// Approval worklist
	api.Get("/approvals/pending", requestHandler.ListPendingApprovals)

	// Returns
	returns := api.Group("/returns")
	returnsHandler := NewReturnsHandler(deps.Returns)
	returns.Post("/", returnsHandler.Create)
	returns.Post("/:id/receive", returnsHandler.Receive)
	returns.Post("/:id/verify", returnsHandler.Verify)
	returns.Get("/:id/matches", returnsHandler.ListMatches)

	// Inventory ledger
	inventory := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Snapshot, deps.Recorder)
	inventory.Post("/write-offs", RequireRole(entity.RoleServiceCenter, entity.RoleHOD), inventoryHandler.WriteOff)
	inventory.Get("/:type/:id", inventoryHandler.Snapshot)
	inventory.Get("/:type/:id/:spareId", inventoryHandler.GetRow)
}
