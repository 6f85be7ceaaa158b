package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseReturnStatus estado cerrado de una devolución a proveedor.
type PurchaseReturnStatus string

const (
	PurchaseReturnStatusPending   PurchaseReturnStatus = "PENDING"
	PurchaseReturnStatusApproved  PurchaseReturnStatus = "APPROVED"
	PurchaseReturnStatusCompleted PurchaseReturnStatus = "COMPLETED"
	PurchaseReturnStatusCancelled PurchaseReturnStatus = "CANCELLED"
)

// String devuelve la representación textual del estado.
func (s PurchaseReturnStatus) String() string { return string(s) }

// CanTransitionTo tabla de transiciones de la devolución.
// Nunca se cancela después de COMPLETED: la mercancía ya salió del inventario.
func (s PurchaseReturnStatus) CanTransitionTo(target PurchaseReturnStatus) bool {
	switch s {
	case PurchaseReturnStatusPending:
		return target == PurchaseReturnStatusApproved || target == PurchaseReturnStatusCancelled
	case PurchaseReturnStatusApproved:
		return target == PurchaseReturnStatusCompleted || target == PurchaseReturnStatusCancelled
	case PurchaseReturnStatusCompleted, PurchaseReturnStatusCancelled:
		return false // estados terminales
	}
	return false
}

// PurchaseReturn es una devolución de mercancía al proveedor desde una bodega.
type PurchaseReturn struct {
	ID          string
	Number      string
	SupplierID  string
	WarehouseID string
	Status      PurchaseReturnStatus
	Reason      string
	Lines       []PurchaseReturnLine
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CreatedBy   string
}

// PurchaseReturnLine línea de devolución: cantidad y precio unitario acordado.
type PurchaseReturnLine struct {
	ID        string
	ReturnID  string
	ProductID string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}
