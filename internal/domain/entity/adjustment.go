package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Adjustment es un documento de ajuste manual de inventario. Se crea y se
// completa en un solo acto atómico: no existe estado intermedio.
type Adjustment struct {
	ID          string
	Number      string
	WarehouseID string
	Reason      string
	Lines       []AdjustmentLine
	CreatedAt   time.Time
	CreatedBy   string
}

// AdjustmentLine es una línea del ajuste: delta con signo por producto.
type AdjustmentLine struct {
	ID           string
	AdjustmentID string
	ProductID    string
	Delta        decimal.Decimal // positivo suma, negativo resta
	Notes        string
}
