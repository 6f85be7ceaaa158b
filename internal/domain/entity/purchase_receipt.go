package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseReceipt es la recepción (parcial o total) de una orden de compra.
// Inmutable una vez creada: corregir una recepción implica un ajuste.
type PurchaseReceipt struct {
	ID        string
	Number    string
	OrderID   string
	Notes     string
	Lines     []PurchaseReceiptLine
	CreatedAt time.Time
	CreatedBy string
}

// PurchaseReceiptLine referencia una línea de la orden (POItemID).
// ArrivedQty = ReceivedQty + RejectedQty; solo ReceivedQty entra al inventario.
type PurchaseReceiptLine struct {
	ID          string
	ReceiptID   string
	POItemID    string
	ArrivedQty  decimal.Decimal
	ReceivedQty decimal.Decimal
	RejectedQty decimal.Decimal
	Reason      string
}
