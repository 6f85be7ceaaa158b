package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario. La cantidad del movimiento lleva el signo:
// positiva para entradas (ADJUST_IN, TRANSFER_IN, PURCHASE_IN) y negativa
// para salidas (ADJUST_OUT, TRANSFER_OUT, RETURN_OUT).
const (
	MovementTypeAdjustIn    = "ADJUST_IN"    // ajuste positivo
	MovementTypeAdjustOut   = "ADJUST_OUT"   // ajuste negativo
	MovementTypeTransferIn  = "TRANSFER_IN"  // entrada por traslado
	MovementTypeTransferOut = "TRANSFER_OUT" // salida por traslado
	MovementTypePurchaseIn  = "PURCHASE_IN"  // entrada por recepción de compra
	MovementTypeReturnOut   = "RETURN_OUT"   // salida por devolución a proveedor
)

// Tipos de referencia documental de un movimiento.
const (
	ReferenceTypeAdjustment = "ADJUSTMENT"
	ReferenceTypeTransfer   = "TRANSFER"
	ReferenceTypeReceipt    = "PURCHASE_RECEIPT"
	ReferenceTypeReturn     = "PURCHASE_RETURN"
	ReferenceTypeStockCount = "STOCK_COUNT"
)

// InventoryMovement es el registro inmutable (append-only) de un cambio de
// cantidad en el ledger. Invariante: AfterQty = BeforeQty + Quantity, y la
// secuencia de movimientos de una clave reconstruye su cantidad actual exacta.
type InventoryMovement struct {
	ID            string
	ProductID     string
	WarehouseID   string
	Type          string
	Quantity      decimal.Decimal // con signo
	BeforeQty     decimal.Decimal
	AfterQty      decimal.Decimal
	ReferenceType string
	ReferenceNo   string
	UnitCost      *decimal.Decimal // solo entradas valorizadas (PURCHASE_IN)
	CreatedAt     time.Time
	CreatedBy     string
}

// IsInbound indica si el tipo corresponde a una entrada.
func IsInbound(movementType string) bool {
	switch movementType {
	case MovementTypeAdjustIn, MovementTypeTransferIn, MovementTypePurchaseIn:
		return true
	}
	return false
}

// ValidMovementType verifica que el tipo sea uno de los tipos cerrados del ledger.
func ValidMovementType(movementType string) bool {
	switch movementType {
	case MovementTypeAdjustIn, MovementTypeAdjustOut,
		MovementTypeTransferIn, MovementTypeTransferOut,
		MovementTypePurchaseIn, MovementTypeReturnOut:
		return true
	}
	return false
}
