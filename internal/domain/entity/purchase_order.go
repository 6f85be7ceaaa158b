package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus estado cerrado de una orden de compra.
// PARTIAL y COMPLETED se derivan de las cantidades recibidas agregadas.
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusPending   PurchaseOrderStatus = "PENDING"
	PurchaseOrderStatusApproved  PurchaseOrderStatus = "APPROVED"
	PurchaseOrderStatusPartial   PurchaseOrderStatus = "PARTIAL"
	PurchaseOrderStatusCompleted PurchaseOrderStatus = "COMPLETED"
	PurchaseOrderStatusCancelled PurchaseOrderStatus = "CANCELLED"
)

// String devuelve la representación textual del estado.
func (s PurchaseOrderStatus) String() string { return string(s) }

// CanReceive indica si la orden admite recepciones en este estado.
func (s PurchaseOrderStatus) CanReceive() bool {
	return s == PurchaseOrderStatusApproved || s == PurchaseOrderStatusPartial
}

// CanTransitionTo tabla de transiciones de la orden de compra.
// La cancelación exige además que ninguna línea tenga recepciones (lo valida el caso de uso).
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	switch s {
	case PurchaseOrderStatusPending:
		return target == PurchaseOrderStatusApproved || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusApproved:
		return target == PurchaseOrderStatusPartial || target == PurchaseOrderStatusCompleted ||
			target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusPartial:
		return target == PurchaseOrderStatusPartial || target == PurchaseOrderStatusCompleted ||
			target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusCompleted, PurchaseOrderStatusCancelled:
		return false // estados terminales
	}
	return false
}

// PurchaseOrder es una orden de compra a proveedor para una bodega.
type PurchaseOrder struct {
	ID          string
	Number      string
	SupplierID  string
	WarehouseID string
	Status      PurchaseOrderStatus
	Notes       string
	Lines       []PurchaseOrderLine
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CreatedBy   string
}

// PurchaseOrderLine línea de orden de compra. ReceivedQty acumula las
// recepciones aplicadas; nunca supera OrderedQty.
type PurchaseOrderLine struct {
	ID          string
	OrderID     string
	ProductID   string
	OrderedQty  decimal.Decimal
	UnitPrice   decimal.Decimal
	ReceivedQty decimal.Decimal
}

// PendingQty devuelve la cantidad pendiente por recibir de la línea.
func (l PurchaseOrderLine) PendingQty() decimal.Decimal {
	return l.OrderedQty.Sub(l.ReceivedQty)
}

// DeriveStatus recalcula el estado de la orden a partir de sus líneas:
// todas completas → COMPLETED; alguna recepción → PARTIAL; si no, se mantiene.
func (o *PurchaseOrder) DeriveStatus() PurchaseOrderStatus {
	allFull := true
	anyReceived := false
	for _, l := range o.Lines {
		if l.ReceivedQty.LessThan(l.OrderedQty) {
			allFull = false
		}
		if l.ReceivedQty.GreaterThan(decimal.Zero) {
			anyReceived = true
		}
	}
	switch {
	case allFull && len(o.Lines) > 0:
		return PurchaseOrderStatusCompleted
	case anyReceived:
		return PurchaseOrderStatusPartial
	default:
		return o.Status
	}
}

// HasReceipts indica si alguna línea registra cantidad recibida.
func (o *PurchaseOrder) HasReceipts() bool {
	for _, l := range o.Lines {
		if l.ReceivedQty.GreaterThan(decimal.Zero) {
			return true
		}
	}
	return false
}
