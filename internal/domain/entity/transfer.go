package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferStatus estado cerrado de un traslado entre bodegas.
type TransferStatus string

const (
	TransferStatusDraft     TransferStatus = "DRAFT"
	TransferStatusApproved  TransferStatus = "APPROVED"
	TransferStatusInTransit TransferStatus = "IN_TRANSIT"
	TransferStatusCompleted TransferStatus = "COMPLETED"
	TransferStatusCancelled TransferStatus = "CANCELLED"
)

// String devuelve la representación textual del estado.
func (s TransferStatus) String() string { return string(s) }

// CanTransitionTo tabla de transiciones del traslado.
// IN_TRANSIT no admite cancelación: el débito de salida ya fue aplicado
// y cancelar sin reversa dejaría el ledger descuadrado.
func (s TransferStatus) CanTransitionTo(target TransferStatus) bool {
	switch s {
	case TransferStatusDraft:
		return target == TransferStatusApproved || target == TransferStatusCancelled
	case TransferStatusApproved:
		return target == TransferStatusInTransit || target == TransferStatusCancelled
	case TransferStatusInTransit:
		return target == TransferStatusCompleted
	case TransferStatusCompleted, TransferStatusCancelled:
		return false // estados terminales
	}
	return false
}

// Transfer es un documento de traslado de inventario entre dos bodegas.
// Invariante: FromWarehouseID != ToWarehouseID; una vez COMPLETED, el total
// debitado en el envío es igual al total acreditado en la recepción.
type Transfer struct {
	ID              string
	Number          string
	FromWarehouseID string
	ToWarehouseID   string
	Status          TransferStatus
	Notes           string
	Lines           []TransferLine
	CreatedAt       time.Time
	UpdatedAt       time.Time
	CreatedBy       string
}

// TransferLine es una línea del traslado: cantidad solicitada por producto.
type TransferLine struct {
	ID           string
	TransferID   string
	ProductID    string
	RequestedQty decimal.Decimal
}
