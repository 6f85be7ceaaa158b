package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/trastienda-api/internal/application/adjustment"
	"github.com/jhoicas/trastienda-api/internal/application/inventory"
	"github.com/jhoicas/trastienda-api/internal/application/procurement"
	"github.com/jhoicas/trastienda-api/internal/application/replenishment"
	"github.com/jhoicas/trastienda-api/internal/application/stockcount"
	"github.com/jhoicas/trastienda-api/internal/application/transfer"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	InventoryQuery  *inventory.QueryUseCase
	AdjustmentUC    *adjustment.UseCase
	TransferUC      *transfer.UseCase
	ProcurementUC   *procurement.UseCase
	StockCountUC    *stockcount.UseCase
	ReplenishmentUC *replenishment.UseCase
	JWTSecret       string
}

// Router registra las rutas de la API. Todas las rutas son protegidas: los
// roles de escritura son admin y bodeguero; auditor solo lee.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	readers := RequireRole(RoleAdmin, RoleBodeguero, RoleAuditor)
	writers := RequireRole(RoleAdmin, RoleBodeguero)

	// Existencias y movimientos (solo lectura)
	inv := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.InventoryQuery)
	inv.Get("/on-hand", readers, inventoryHandler.GetOnHand)
	inv.Get("/stock", readers, inventoryHandler.ListStock)
	inv.Get("/movements", readers, inventoryHandler.ListMovements)

	// Ajustes
	adjustments := api.Group("/adjustments")
	adjustmentHandler := NewAdjustmentHandler(deps.AdjustmentUC)
	adjustments.Post("/", writers, adjustmentHandler.Create)
	adjustments.Get("/", readers, adjustmentHandler.List)
	adjustments.Get("/:id", readers, adjustmentHandler.GetByID)

	// Traslados
	transfers := api.Group("/transfers")
	transferHandler := NewTransferHandler(deps.TransferUC)
	transfers.Post("/", writers, transferHandler.Create)
	transfers.Get("/", readers, transferHandler.List)
	transfers.Get("/:id", readers, transferHandler.GetByID)
	transfers.Post("/:id/approve", writers, transferHandler.Approve)
	transfers.Post("/:id/ship", writers, transferHandler.Ship)
	transfers.Post("/:id/receive", writers, transferHandler.Receive)
	transfers.Post("/:id/cancel", writers, transferHandler.Cancel)

	// Compras: órdenes, recepciones y devoluciones
	procurementHandler := NewProcurementHandler(deps.ProcurementUC)
	orders := api.Group("/purchase-orders")
	orders.Post("/", writers, procurementHandler.CreateOrder)
	orders.Get("/", readers, procurementHandler.ListOrders)
	orders.Get("/:id", readers, procurementHandler.GetOrder)
	orders.Post("/:id/approve", writers, procurementHandler.ApproveOrder)
	orders.Post("/:id/cancel", writers, procurementHandler.CancelOrder)
	orders.Post("/:id/receipts", writers, procurementHandler.CreateReceipt)
	orders.Get("/:id/receipts", readers, procurementHandler.ListReceipts)

	receipts := api.Group("/purchase-receipts")
	receipts.Get("/:id", readers, procurementHandler.GetReceipt)

	returns := api.Group("/purchase-returns")
	returns.Post("/", writers, procurementHandler.CreateReturn)
	returns.Get("/", readers, procurementHandler.ListReturns)
	returns.Get("/:id", readers, procurementHandler.GetReturn)
	returns.Post("/:id/approve", writers, procurementHandler.ApproveReturn)
	returns.Post("/:id/complete", writers, procurementHandler.CompleteReturn)
	returns.Post("/:id/cancel", writers, procurementHandler.CancelReturn)

	// Conteos físicos
	counts := api.Group("/stock-counts")
	stockCountHandler := NewStockCountHandler(deps.StockCountUC)
	counts.Post("/", writers, stockCountHandler.Create)
	counts.Get("/", readers, stockCountHandler.List)
	counts.Get("/:id", readers, stockCountHandler.GetByID)
	counts.Post("/:id/start", writers, stockCountHandler.Start)
	counts.Post("/:id/counts", writers, stockCountHandler.RecordCount)
	counts.Post("/:id/submit", writers, stockCountHandler.Submit)
	counts.Post("/:id/complete", writers, stockCountHandler.Complete)
	counts.Post("/:id/cancel", writers, stockCountHandler.Cancel)

	// Asesor de reposición
	repl := api.Group("/replenishment")
	replenishmentHandler := NewReplenishmentHandler(deps.ReplenishmentUC)
	repl.Get("/suggestions", readers, replenishmentHandler.Suggest)
	repl.Post("/orders", writers, replenishmentHandler.MaterializeOrders)
}
