package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/trastienda-api/internal/domain/entity"
)

// OrderLineRequest línea de orden de compra.
type OrderLineRequest struct {
	ProductID  string          `json:"product_id"`
	OrderedQty decimal.Decimal `json:"ordered_qty"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
}

// CreatePurchaseOrderRequest cuerpo para crear una orden de compra.
type CreatePurchaseOrderRequest struct {
	SupplierID  string             `json:"supplier_id"`
	WarehouseID string             `json:"warehouse_id"`
	Notes       string             `json:"notes,omitempty"`
	Lines       []OrderLineRequest `json:"lines"`
}

// PurchaseOrderLineDTO línea persistida con lo pendiente por recibir.
type PurchaseOrderLineDTO struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	OrderedQty  decimal.Decimal `json:"ordered_qty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	ReceivedQty decimal.Decimal `json:"received_qty"`
	PendingQty  decimal.Decimal `json:"pending_qty"`
}

// PurchaseOrderDTO documento de orden de compra.
type PurchaseOrderDTO struct {
	ID          string                 `json:"id"`
	Number      string                 `json:"number"`
	SupplierID  string                 `json:"supplier_id"`
	WarehouseID string                 `json:"warehouse_id"`
	Status      string                 `json:"status"`
	Notes       string                 `json:"notes,omitempty"`
	Lines       []PurchaseOrderLineDTO `json:"lines"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
	CreatedBy   string                 `json:"created_by,omitempty"`
}

// PurchaseOrderFromEntity mapea la entidad a su DTO.
func PurchaseOrderFromEntity(o *entity.PurchaseOrder) PurchaseOrderDTO {
	out := PurchaseOrderDTO{
		ID:          o.ID,
		Number:      o.Number,
		SupplierID:  o.SupplierID,
		WarehouseID: o.WarehouseID,
		Status:      o.Status.String(),
		Notes:       o.Notes,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
		CreatedBy:   o.CreatedBy,
	}
	for _, l := range o.Lines {
		out.Lines = append(out.Lines, PurchaseOrderLineDTO{
			ID:          l.ID,
			ProductID:   l.ProductID,
			OrderedQty:  l.OrderedQty,
			UnitPrice:   l.UnitPrice,
			ReceivedQty: l.ReceivedQty,
			PendingQty:  l.PendingQty(),
		})
	}
	return out
}

// PurchaseOrdersFromEntities mapea la lista completa.
func PurchaseOrdersFromEntities(list []*entity.PurchaseOrder) []PurchaseOrderDTO {
	out := make([]PurchaseOrderDTO, 0, len(list))
	for _, o := range list {
		out = append(out, PurchaseOrderFromEntity(o))
	}
	return out
}

// ReceiptLineRequest línea de recepción contra una línea de la orden.
// arrived_qty = received_qty + rejected_qty; solo received_qty entra al inventario.
type ReceiptLineRequest struct {
	POItemID    string          `json:"po_item_id"`
	ArrivedQty  decimal.Decimal `json:"arrived_qty"`
	ReceivedQty decimal.Decimal `json:"received_qty"`
	RejectedQty decimal.Decimal `json:"rejected_qty"`
	Reason      string          `json:"reason,omitempty"`
}

// CreateReceiptRequest cuerpo para registrar una recepción.
type CreateReceiptRequest struct {
	Notes string               `json:"notes,omitempty"`
	Lines []ReceiptLineRequest `json:"lines"`
}

// PurchaseReceiptLineDTO línea de recepción persistida.
type PurchaseReceiptLineDTO struct {
	ID          string          `json:"id"`
	POItemID    string          `json:"po_item_id"`
	ArrivedQty  decimal.Decimal `json:"arrived_qty"`
	ReceivedQty decimal.Decimal `json:"received_qty"`
	RejectedQty decimal.Decimal `json:"rejected_qty"`
	Reason      string          `json:"reason,omitempty"`
}

// PurchaseReceiptDTO documento de recepción (inmutable).
type PurchaseReceiptDTO struct {
	ID        string                   `json:"id"`
	Number    string                   `json:"number"`
	OrderID   string                   `json:"order_id"`
	Notes     string                   `json:"notes,omitempty"`
	Lines     []PurchaseReceiptLineDTO `json:"lines"`
	CreatedAt time.Time                `json:"created_at"`
	CreatedBy string                   `json:"created_by,omitempty"`
}

// PurchaseReceiptFromEntity mapea la entidad a su DTO.
func PurchaseReceiptFromEntity(r *entity.PurchaseReceipt) PurchaseReceiptDTO {
	out := PurchaseReceiptDTO{
		ID:        r.ID,
		Number:    r.Number,
		OrderID:   r.OrderID,
		Notes:     r.Notes,
		CreatedAt: r.CreatedAt,
		CreatedBy: r.CreatedBy,
	}
	for _, l := range r.Lines {
		out.Lines = append(out.Lines, PurchaseReceiptLineDTO{
			ID:          l.ID,
			POItemID:    l.POItemID,
			ArrivedQty:  l.ArrivedQty,
			ReceivedQty: l.ReceivedQty,
			RejectedQty: l.RejectedQty,
			Reason:      l.Reason,
		})
	}
	return out
}

// PurchaseReceiptsFromEntities mapea la lista completa.
func PurchaseReceiptsFromEntities(list []*entity.PurchaseReceipt) []PurchaseReceiptDTO {
	out := make([]PurchaseReceiptDTO, 0, len(list))
	for _, r := range list {
		out = append(out, PurchaseReceiptFromEntity(r))
	}
	return out
}

// ReturnLineRequest línea de devolución a proveedor.
type ReturnLineRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateReturnRequest cuerpo para crear una devolución.
type CreateReturnRequest struct {
	SupplierID  string              `json:"supplier_id"`
	WarehouseID string              `json:"warehouse_id"`
	Reason      string              `json:"reason,omitempty"`
	Lines       []ReturnLineRequest `json:"lines"`
}

// PurchaseReturnLineDTO línea de devolución persistida.
type PurchaseReturnLineDTO struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// PurchaseReturnDTO documento de devolución a proveedor.
type PurchaseReturnDTO struct {
	ID          string                  `json:"id"`
	Number      string                  `json:"number"`
	SupplierID  string                  `json:"supplier_id"`
	WarehouseID string                  `json:"warehouse_id"`
	Status      string                  `json:"status"`
	Reason      string                  `json:"reason,omitempty"`
	Lines       []PurchaseReturnLineDTO `json:"lines"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
	CreatedBy   string                  `json:"created_by,omitempty"`
}

// PurchaseReturnFromEntity mapea la entidad a su DTO.
func PurchaseReturnFromEntity(r *entity.PurchaseReturn) PurchaseReturnDTO {
	out := PurchaseReturnDTO{
		ID:          r.ID,
		Number:      r.Number,
		SupplierID:  r.SupplierID,
		WarehouseID: r.WarehouseID,
		Status:      r.Status.String(),
		Reason:      r.Reason,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		CreatedBy:   r.CreatedBy,
	}
	for _, l := range r.Lines {
		out.Lines = append(out.Lines, PurchaseReturnLineDTO{
			ID:        l.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}
	return out
}

// PurchaseReturnsFromEntities mapea la lista completa.
func PurchaseReturnsFromEntities(list []*entity.PurchaseReturn) []PurchaseReturnDTO {
	out := make([]PurchaseReturnDTO, 0, len(list))
	for _, r := range list {
		out = append(out, PurchaseReturnFromEntity(r))
	}
	return out
}
