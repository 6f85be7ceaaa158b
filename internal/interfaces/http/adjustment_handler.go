package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/trastienda-api/internal/application/adjustment"
	"github.com/jhoicas/trastienda-api/internal/application/dto"
)

// AdjustmentHandler flujo de ajustes manuales (protegido).
type AdjustmentHandler struct {
	uc *adjustment.UseCase
}

// NewAdjustmentHandler construye el handler.
func NewAdjustmentHandler(uc *adjustment.UseCase) *AdjustmentHandler {
	return &AdjustmentHandler{uc: uc}
}

// Create godoc
// @Summary      Crear y aplicar un ajuste de inventario
// @Description  Todas las líneas se validan antes de aplicar cualquiera; un
//
//	delta que dejaría stock negativo rechaza el lote completo.
//
// @Tags         adjustments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAdjustmentRequest  true  "warehouse_id, reason, lines"
// @Success      201  {object}  dto.AdjustmentDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/adjustments [post]
func (h *AdjustmentHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateAdjustmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	in := adjustment.CreateInput{
		WarehouseID: req.WarehouseID,
		Reason:      req.Reason,
		Actor:       GetUserID(c),
	}
	for _, l := range req.Lines {
		in.Lines = append(in.Lines, adjustment.LineInput{ProductID: l.ProductID, Delta: l.Delta, Notes: l.Notes})
	}
	doc, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.AdjustmentFromEntity(doc))
}

// List godoc
// @Summary      Listar los ajustes de una bodega
// @Tags         adjustments
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  true   "ID de la bodega"
// @Param        limit         query  int     false  "Tamaño de página"
// @Param        offset        query  int     false  "Desplazamiento"
// @Success      200  {array}  dto.AdjustmentDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/adjustments [get]
func (h *AdjustmentHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	_ = c.QueryParser(&page)
	page.DefaultPage()
	list, err := h.uc.ListByWarehouse(c.Context(), c.Query("warehouse_id"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.AdjustmentsFromEntities(list))
}

// GetByID godoc
// @Summary      Consultar un ajuste
// @Tags         adjustments
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del ajuste"
// @Success      200  {object}  dto.AdjustmentDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/adjustments/{id} [get]
func (h *AdjustmentHandler) GetByID(c *fiber.Ctx) error {
	doc, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.AdjustmentFromEntity(doc))
}
