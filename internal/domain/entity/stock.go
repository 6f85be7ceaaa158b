package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock representa la existencia física de un producto en una bodega.
// Clave única (ProductID, WarehouseID). Invariante: Quantity >= 0 siempre.
// Se crea de forma perezosa en la primera mutación del ledger.
type Stock struct {
	ProductID   string
	WarehouseID string
	Quantity    decimal.Decimal
	UpdatedAt   time.Time
}
