package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/trastienda-api/internal/application/dto"
	"github.com/jhoicas/trastienda-api/internal/application/procurement"
)

// ProcurementHandler flujo de compras: órdenes, recepciones y devoluciones
// a proveedor (protegido).
type ProcurementHandler struct {
	uc *procurement.UseCase
}

// NewProcurementHandler construye el handler.
func NewProcurementHandler(uc *procurement.UseCase) *ProcurementHandler {
	return &ProcurementHandler{uc: uc}
}

// CreateOrder godoc
// @Summary      Crear una orden de compra
// @Tags         procurement
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseOrderRequest  true  "supplier_id, warehouse_id, lines"
// @Success      201  {object}  dto.PurchaseOrderDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders [post]
func (h *ProcurementHandler) CreateOrder(c *fiber.Ctx) error {
	var req dto.CreatePurchaseOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	in := procurement.CreateOrderInput{
		SupplierID:  req.SupplierID,
		WarehouseID: req.WarehouseID,
		Notes:       req.Notes,
		Actor:       GetUserID(c),
	}
	for _, l := range req.Lines {
		in.Lines = append(in.Lines, procurement.OrderLineInput{
			ProductID:  l.ProductID,
			OrderedQty: l.OrderedQty,
			UnitPrice:  l.UnitPrice,
		})
	}
	doc, err := h.uc.CreateOrder(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.PurchaseOrderFromEntity(doc))
}

// ApproveOrder godoc
// @Summary      Aprobar una orden (PENDING → APPROVED)
// @Tags         procurement
// @Security     Bearer
// @Param        id  path  string  true  "ID de la orden"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/approve [post]
func (h *ProcurementHandler) ApproveOrder(c *fiber.Ctx) error {
	if err := h.uc.ApproveOrder(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CancelOrder godoc
// @Summary      Cancelar una orden sin recepciones
// @Tags         procurement
// @Security     Bearer
// @Param        id  path  string  true  "ID de la orden"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/cancel [post]
func (h *ProcurementHandler) CancelOrder(c *fiber.Ctx) error {
	if err := h.uc.CancelOrder(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetOrder godoc
// @Summary      Consultar una orden con sus líneas
// @Tags         procurement
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.PurchaseOrderDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id} [get]
func (h *ProcurementHandler) GetOrder(c *fiber.Ctx) error {
	doc, err := h.uc.GetOrder(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.PurchaseOrderFromEntity(doc))
}

// ListOrders godoc
// @Summary      Listar órdenes de compra
// @Tags         procurement
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Tamaño de página"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {array}  dto.PurchaseOrderDTO
// @Router       /api/purchase-orders [get]
func (h *ProcurementHandler) ListOrders(c *fiber.Ctx) error {
	var page dto.PageRequest
	_ = c.QueryParser(&page)
	page.DefaultPage()
	list, err := h.uc.ListOrders(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.PurchaseOrdersFromEntities(list))
}

// CreateReceipt godoc
// @Summary      Registrar una recepción de compra
// @Description  Recepción parcial o total contra una orden APPROVED o PARTIAL.
//
//	Una línea que excede lo pendiente rechaza la recepción completa.
//
// @Tags         procurement
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la orden"
// @Param        body  body  dto.CreateReceiptRequest  true  "lines con arrived/received/rejected"
// @Success      201  {object}  dto.PurchaseReceiptDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/receipts [post]
func (h *ProcurementHandler) CreateReceipt(c *fiber.Ctx) error {
	var req dto.CreateReceiptRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	in := procurement.CreateReceiptInput{
		OrderID: c.Params("id"),
		Notes:   req.Notes,
		Actor:   GetUserID(c),
	}
	for _, l := range req.Lines {
		in.Lines = append(in.Lines, procurement.ReceiptLineInput{
			POItemID:    l.POItemID,
			ArrivedQty:  l.ArrivedQty,
			ReceivedQty: l.ReceivedQty,
			RejectedQty: l.RejectedQty,
			Reason:      l.Reason,
		})
	}
	doc, err := h.uc.CreateReceipt(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.PurchaseReceiptFromEntity(doc))
}

// ListReceipts godoc
// @Summary      Listar recepciones de una orden
// @Tags         procurement
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {array}  dto.PurchaseReceiptDTO
// @Router       /api/purchase-orders/{id}/receipts [get]
func (h *ProcurementHandler) ListReceipts(c *fiber.Ctx) error {
	list, err := h.uc.ListReceiptsByOrder(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.PurchaseReceiptsFromEntities(list))
}

// GetReceipt godoc
// @Summary      Consultar una recepción
// @Tags         procurement
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la recepción"
// @Success      200  {object}  dto.PurchaseReceiptDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-receipts/{id} [get]
func (h *ProcurementHandler) GetReceipt(c *fiber.Ctx) error {
	doc, err := h.uc.GetReceipt(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.PurchaseReceiptFromEntity(doc))
}

// CreateReturn godoc
// @Summary      Crear una devolución a proveedor
// @Tags         procurement
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateReturnRequest  true  "supplier_id, warehouse_id, lines"
// @Success      201  {object}  dto.PurchaseReturnDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-returns [post]
func (h *ProcurementHandler) CreateReturn(c *fiber.Ctx) error {
	var req dto.CreateReturnRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	in := procurement.CreateReturnInput{
		SupplierID:  req.SupplierID,
		WarehouseID: req.WarehouseID,
		Reason:      req.Reason,
		Actor:       GetUserID(c),
	}
	for _, l := range req.Lines {
		in.Lines = append(in.Lines, procurement.ReturnLineInput{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}
	doc, err := h.uc.CreateReturn(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.PurchaseReturnFromEntity(doc))
}

// ApproveReturn godoc
// @Summary      Aprobar una devolución (PENDING → APPROVED)
// @Tags         procurement
// @Security     Bearer
// @Param        id  path  string  true  "ID de la devolución"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-returns/{id}/approve [post]
func (h *ProcurementHandler) ApproveReturn(c *fiber.Ctx) error {
	if err := h.uc.ApproveReturn(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CompleteReturn godoc
// @Summary      Completar una devolución (APPROVED → COMPLETED)
// @Description  Debita el inventario; stock ausente o insuficiente en cualquier
//
//	línea hace fallar la devolución completa.
//
// @Tags         procurement
// @Security     Bearer
// @Param        id  path  string  true  "ID de la devolución"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-returns/{id}/complete [post]
func (h *ProcurementHandler) CompleteReturn(c *fiber.Ctx) error {
	if err := h.uc.CompleteReturn(c.Context(), c.Params("id"), GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CancelReturn godoc
// @Summary      Cancelar una devolución (PENDING o APPROVED)
// @Tags         procurement
// @Security     Bearer
// @Param        id  path  string  true  "ID de la devolución"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-returns/{id}/cancel [post]
func (h *ProcurementHandler) CancelReturn(c *fiber.Ctx) error {
	if err := h.uc.CancelReturn(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetReturn godoc
// @Summary      Consultar una devolución
// @Tags         procurement
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la devolución"
// @Success      200  {object}  dto.PurchaseReturnDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-returns/{id} [get]
func (h *ProcurementHandler) GetReturn(c *fiber.Ctx) error {
	doc, err := h.uc.GetReturn(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.PurchaseReturnFromEntity(doc))
}

// ListReturns godoc
// @Summary      Listar devoluciones a proveedor
// @Tags         procurement
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Tamaño de página"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {array}  dto.PurchaseReturnDTO
// @Router       /api/purchase-returns [get]
func (h *ProcurementHandler) ListReturns(c *fiber.Ctx) error {
	var page dto.PageRequest
	_ = c.QueryParser(&page)
	page.DefaultPage()
	list, err := h.uc.ListReturns(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.PurchaseReturnsFromEntities(list))
}
