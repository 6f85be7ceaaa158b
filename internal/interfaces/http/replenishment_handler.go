package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/trastienda-api/internal/application/dto"
	"github.com/jhoicas/trastienda-api/internal/application/replenishment"
)

// ReplenishmentHandler asesor de reposición (protegido, cálculo efímero).
type ReplenishmentHandler struct {
	uc *replenishment.UseCase
}

// NewReplenishmentHandler construye el handler.
func NewReplenishmentHandler(uc *replenishment.UseCase) *ReplenishmentHandler {
	return &ReplenishmentHandler{uc: uc}
}

// Suggest godoc
// @Summary      Sugerencias de reposición
// @Description  Productos activos bajo su stock de seguridad en la bodega, con
//
//	proveedor preferido y cantidad sugerida, más urgentes primero.
//
// @Tags         replenishment
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  true  "Bodega (UUID)"
// @Success      200  {array}   dto.ReplenishmentSuggestionDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/replenishment/suggestions [get]
func (h *ReplenishmentHandler) Suggest(c *fiber.Ctx) error {
	list, err := h.uc.Suggest(c.Context(), c.Query("warehouse_id"))
	if err != nil {
		return respondError(c, err)
	}
	out := dto.SuggestionsFromUseCase(list)
	return c.JSON(fiber.Map{"total": len(out), "suggestions": out})
}

// MaterializeOrders godoc
// @Summary      Convertir sugerencias en órdenes de compra
// @Description  Crea órdenes PENDING desde las sugerencias vigentes; con
//
//	group_by_supplier, una orden por proveedor.
//
// @Tags         replenishment
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MaterializeOrdersRequest  true  "warehouse_id, group_by_supplier"
// @Success      201  {array}   dto.PurchaseOrderDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/replenishment/orders [post]
func (h *ReplenishmentHandler) MaterializeOrders(c *fiber.Ctx) error {
	var req dto.MaterializeOrdersRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	orders, err := h.uc.MaterializeOrders(c.Context(), req.WarehouseID, GetUserID(c), req.GroupBySupplier)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.PurchaseOrdersFromEntities(orders))
}
