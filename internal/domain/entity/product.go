package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo (colaborador externo, solo lectura
// desde el núcleo de inventario). SafetyStock y MinOrderQty alimentan al asesor
// de reposición.
type Product struct {
	ID          string
	SKU         string
	Name        string
	SafetyStock decimal.Decimal // stock mínimo deseado por producto
	MinOrderQty decimal.Decimal // cantidad mínima de pedido
	Cost        decimal.Decimal // costo de referencia
	TaxRate     decimal.Decimal
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
