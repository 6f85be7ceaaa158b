package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/trastienda-api/internal/domain/entity"
)

// StockRepository acceso a las existencias por (producto, bodega).
// La única escritura permitida ocurre dentro del ledger (Mutate); el resto
// del sistema solo lee.
type StockRepository interface {
	// Get devuelve el stock actual; si la fila no existe devuelve un registro
	// con cantidad cero (creación perezosa a cargo de Upsert).
	Get(ctx context.Context, productID, warehouseID string) (*entity.Stock, error)
	// GetForUpdate igual que Get pero bloqueando la fila (SELECT FOR UPDATE)
	// para serializar mutaciones concurrentes sobre la misma clave.
	GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.Stock, error)
	// Upsert inserta o actualiza la cantidad de la clave.
	Upsert(ctx context.Context, stock *entity.Stock) error
	// ListByWarehouse lista las existencias de una bodega (para poblar conteos).
	ListByWarehouse(ctx context.Context, warehouseID string) ([]*entity.Stock, error)
	// ListBelowSafetyStock devuelve productos activos cuyo stock en la bodega
	// está por debajo de su stock de seguridad, ordenados por déficit.
	ListBelowSafetyStock(ctx context.Context, warehouseID string) ([]LowStockItem, error)
}

// LowStockItem fila del escaneo de reposición: producto activo bajo su stock
// de seguridad en una bodega.
type LowStockItem struct {
	ProductID   string
	SKU         string
	ProductName string
	OnHand      decimal.Decimal
	SafetyStock decimal.Decimal
	MinOrderQty decimal.Decimal
}
