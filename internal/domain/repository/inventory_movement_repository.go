package repository

import (
	"context"
	"time"

	"github.com/jhoicas/trastienda-api/internal/domain/entity"
)

// InventoryMovementRepository acceso al registro de movimientos (append-only).
// No existe Update ni Delete: los movimientos son inmutables.
type InventoryMovementRepository interface {
	Create(ctx context.Context, movement *entity.InventoryMovement) error
	// ListByKey lista los movimientos de una clave (producto, bodega) en orden
	// cronológico ascendente; la suma de sus cantidades reconstruye el stock.
	ListByKey(ctx context.Context, productID, warehouseID string, limit, offset int) ([]*entity.InventoryMovement, error)
	// ListByWarehouse lista movimientos de una bodega en un rango de fechas.
	ListByWarehouse(ctx context.Context, warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error)
	// ListByReference lista los movimientos generados por un documento.
	ListByReference(ctx context.Context, referenceType, referenceNo string) ([]*entity.InventoryMovement, error)
}
