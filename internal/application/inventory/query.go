package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/trastienda-api/internal/application/ledger"
	"github.com/jhoicas/trastienda-api/internal/domain"
	"github.com/jhoicas/trastienda-api/internal/domain/entity"
	"github.com/jhoicas/trastienda-api/internal/domain/repository"
)

// QueryUseCase lecturas del inventario: existencias y el histórico de
// movimientos. No escribe nunca; toda mutación pasa por los flujos de
// documentos.
type QueryUseCase struct {
	ledger     *ledger.Ledger
	stocks     repository.StockRepository
	movements  repository.InventoryMovementRepository
	warehouses repository.WarehouseRepository
}

// NewQueryUseCase construye las consultas de inventario.
func NewQueryUseCase(
	ldg *ledger.Ledger,
	stocks repository.StockRepository,
	movements repository.InventoryMovementRepository,
	warehouses repository.WarehouseRepository,
) *QueryUseCase {
	return &QueryUseCase{ledger: ldg, stocks: stocks, movements: movements, warehouses: warehouses}
}

// resolveWarehouse devuelve el ID recibido, o el de la bodega por defecto si
// viene vacío.
func (uc *QueryUseCase) resolveWarehouse(ctx context.Context, warehouseID string) (string, error) {
	if warehouseID != "" {
		return warehouseID, nil
	}
	wh, err := uc.warehouses.GetDefault(ctx)
	if err != nil {
		return "", err
	}
	if wh == nil {
		return "", domain.ErrInvalidInput
	}
	return wh.ID, nil
}

// OnHand devuelve la cantidad disponible de un producto en una bodega (la
// bodega por defecto si no se indica).
func (uc *QueryUseCase) OnHand(ctx context.Context, productID, warehouseID string) (decimal.Decimal, error) {
	warehouseID, err := uc.resolveWarehouse(ctx, warehouseID)
	if err != nil {
		return decimal.Zero, err
	}
	return uc.ledger.GetOnHand(ctx, productID, warehouseID)
}

// ListByWarehouse lista las existencias de una bodega.
func (uc *QueryUseCase) ListByWarehouse(ctx context.Context, warehouseID string) ([]*entity.Stock, error) {
	warehouseID, err := uc.resolveWarehouse(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	return uc.stocks.ListByWarehouse(ctx, warehouseID)
}

// MovementsByKey histórico cronológico de una clave (producto, bodega).
func (uc *QueryUseCase) MovementsByKey(ctx context.Context, productID, warehouseID string, limit, offset int) ([]*entity.InventoryMovement, error) {
	if productID == "" || warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.movements.ListByKey(ctx, productID, warehouseID, limit, offset)
}

// MovementsByWarehouse movimientos de una bodega en un rango de fechas.
func (uc *QueryUseCase) MovementsByWarehouse(ctx context.Context, warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	if warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.movements.ListByWarehouse(ctx, warehouseID, from, to, limit, offset)
}

// MovementsByReference movimientos generados por un documento.
func (uc *QueryUseCase) MovementsByReference(ctx context.Context, referenceType, referenceNo string) ([]*entity.InventoryMovement, error) {
	if referenceType == "" || referenceNo == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.movements.ListByReference(ctx, referenceType, referenceNo)
}
