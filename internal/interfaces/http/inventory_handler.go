package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/trastienda-api/internal/application/dto"
	"github.com/jhoicas/trastienda-api/internal/application/inventory"
	"github.com/jhoicas/trastienda-api/internal/domain"
)

// InventoryHandler consultas de existencias y del histórico de movimientos
// (protegido, solo lectura).
type InventoryHandler struct {
	query *inventory.QueryUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(query *inventory.QueryUseCase) *InventoryHandler {
	return &InventoryHandler{query: query}
}

// GetOnHand godoc
// @Summary      Cantidad disponible de un producto en una bodega
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  true  "Producto (UUID)"
// @Param        warehouse_id  query  string  true  "Bodega (UUID)"
// @Success      200  {object}  dto.OnHandResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/on-hand [get]
func (h *InventoryHandler) GetOnHand(c *fiber.Ctx) error {
	productID := c.Query("product_id")
	warehouseID := c.Query("warehouse_id")
	qty, err := h.query.OnHand(c.Context(), productID, warehouseID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OnHandResponse{ProductID: productID, WarehouseID: warehouseID, Quantity: qty})
}

// ListStock godoc
// @Summary      Existencias de una bodega
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  true  "Bodega (UUID)"
// @Success      200  {array}  dto.StockDTO
// @Router       /api/inventory/stock [get]
func (h *InventoryHandler) ListStock(c *fiber.Ctx) error {
	stocks, err := h.query.ListByWarehouse(c.Context(), c.Query("warehouse_id"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.StockDTO, 0, len(stocks))
	for _, s := range stocks {
		out = append(out, dto.StockFromEntity(s))
	}
	return c.JSON(out)
}

// ListMovements godoc
// @Summary      Histórico de movimientos
// @Description  Por clave (product_id + warehouse_id), por bodega con rango de
//
//	fechas, o por documento (reference_type + reference_no).
//
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id      query  string  false  "Producto (UUID)"
// @Param        warehouse_id    query  string  false  "Bodega (UUID)"
// @Param        reference_type  query  string  false  "Tipo de documento"
// @Param        reference_no    query  string  false  "Número de documento"
// @Param        from            query  string  false  "Fecha inicial (RFC3339)"
// @Param        to              query  string  false  "Fecha final (RFC3339)"
// @Success      200  {array}   dto.MovementDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err == nil {
		page.DefaultPage()
	} else {
		page = dto.PageRequest{Limit: 20}
	}

	if refType, refNo := c.Query("reference_type"), c.Query("reference_no"); refType != "" || refNo != "" {
		list, err := h.query.MovementsByReference(c.Context(), refType, refNo)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(dto.MovementsFromEntities(list))
	}

	productID := c.Query("product_id")
	warehouseID := c.Query("warehouse_id")
	if productID != "" {
		list, err := h.query.MovementsByKey(c.Context(), productID, warehouseID, page.Limit, page.Offset)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(dto.MovementsFromEntities(list))
	}

	from, err := parseTimeQuery(c, "from")
	if err != nil {
		return respondError(c, err)
	}
	to, err := parseTimeQuery(c, "to")
	if err != nil {
		return respondError(c, err)
	}
	list, err := h.query.MovementsByWarehouse(c.Context(), warehouseID, from, to, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MovementsFromEntities(list))
}

func parseTimeQuery(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	return &t, nil
}
