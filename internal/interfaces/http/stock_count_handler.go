package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/trastienda-api/internal/application/dto"
	"github.com/jhoicas/trastienda-api/internal/application/stockcount"
)

// StockCountHandler flujo de conteos físicos (protegido).
type StockCountHandler struct {
	uc *stockcount.UseCase
}

// NewStockCountHandler construye el handler.
func NewStockCountHandler(uc *stockcount.UseCase) *StockCountHandler {
	return &StockCountHandler{uc: uc}
}

// Create godoc
// @Summary      Crear un conteo físico
// @Description  Congela la cantidad de sistema por línea al momento de crear.
//
//	Sin product_ids, el alcance son todas las existencias de la bodega.
//
// @Tags         stock-counts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStockCountRequest  true  "warehouse_id, scope, product_ids"
// @Success      201  {object}  dto.StockCountDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-counts [post]
func (h *StockCountHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateStockCountRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	doc, err := h.uc.Create(c.Context(), stockcount.CreateInput{
		WarehouseID: req.WarehouseID,
		Scope:       req.Scope,
		ProductIDs:  req.ProductIDs,
		Actor:       GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.StockCountFromEntity(doc))
}

// Start godoc
// @Summary      Iniciar un conteo (DRAFT → IN_PROGRESS)
// @Tags         stock-counts
// @Security     Bearer
// @Param        id  path  string  true  "ID del conteo"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock-counts/{id}/start [post]
func (h *StockCountHandler) Start(c *fiber.Ctx) error {
	if err := h.uc.Start(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RecordCount godoc
// @Summary      Registrar lo contado en una línea
// @Description  Solo con el conteo IN_PROGRESS. Repetir la llamada sobreescribe
//
//	el valor anterior (idempotente por ítem).
//
// @Tags         stock-counts
// @Security     Bearer
// @Accept       json
// @Param        id    path  string                  true  "ID del conteo"
// @Param        body  body  dto.RecordCountRequest  true  "line_id, counted_qty, reason"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock-counts/{id}/counts [post]
func (h *StockCountHandler) RecordCount(c *fiber.Ctx) error {
	var req dto.RecordCountRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.RecordCount(c.Context(), c.Params("id"), req.LineID, req.CountedQty, req.Reason, GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Submit godoc
// @Summary      Enviar a revisión (IN_PROGRESS → PENDING_REVIEW)
// @Tags         stock-counts
// @Security     Bearer
// @Param        id  path  string  true  "ID del conteo"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock-counts/{id}/submit [post]
func (h *StockCountHandler) Submit(c *fiber.Ctx) error {
	if err := h.uc.Submit(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Complete godoc
// @Summary      Completar un conteo y ajustar varianzas
// @Description  Exige todas las líneas contadas. Las varianzas distintas de
//
//	cero generan un ajuste referenciando el número del conteo.
//
// @Tags         stock-counts
// @Security     Bearer
// @Param        id  path  string  true  "ID del conteo"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock-counts/{id}/complete [post]
func (h *StockCountHandler) Complete(c *fiber.Ctx) error {
	if err := h.uc.Complete(c.Context(), c.Params("id"), GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Cancel godoc
// @Summary      Cancelar un conteo no terminal
// @Tags         stock-counts
// @Security     Bearer
// @Param        id  path  string  true  "ID del conteo"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock-counts/{id}/cancel [post]
func (h *StockCountHandler) Cancel(c *fiber.Ctx) error {
	if err := h.uc.Cancel(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetByID godoc
// @Summary      Consultar un conteo con su avance
// @Tags         stock-counts
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del conteo"
// @Success      200  {object}  dto.StockCountDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-counts/{id} [get]
func (h *StockCountHandler) GetByID(c *fiber.Ctx) error {
	doc, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.StockCountFromEntity(doc))
}

// List godoc
// @Summary      Listar conteos de una bodega
// @Tags         stock-counts
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  true   "Bodega (UUID)"
// @Param        limit         query  int     false  "Tamaño de página"
// @Param        offset        query  int     false  "Desplazamiento"
// @Success      200  {array}  dto.StockCountDTO
// @Router       /api/stock-counts [get]
func (h *StockCountHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	_ = c.QueryParser(&page)
	page.DefaultPage()
	list, err := h.uc.ListByWarehouse(c.Context(), c.Query("warehouse_id"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.StockCountsFromEntities(list))
}
