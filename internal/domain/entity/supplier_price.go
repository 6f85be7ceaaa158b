package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SupplierPrice es el precio vigente de un producto para un proveedor
// (lista de precios, colaborador externo de solo lectura).
type SupplierPrice struct {
	ID            string
	SupplierID    string
	ProductID     string
	UnitPrice     decimal.Decimal
	IsPrimary     bool
	EffectiveFrom time.Time
	EffectiveTo   *time.Time // nil = sin vencimiento
	MinOrderQty   decimal.Decimal
	LeadTimeDays  int
}

// EffectiveAt indica si el precio está vigente en el instante dado.
func (p SupplierPrice) EffectiveAt(t time.Time) bool {
	if t.Before(p.EffectiveFrom) {
		return false
	}
	if p.EffectiveTo != nil && t.After(*p.EffectiveTo) {
		return false
	}
	return true
}
