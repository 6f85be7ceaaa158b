package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/trastienda-api/internal/domain"
	"github.com/jhoicas/trastienda-api/internal/domain/entity"
	"github.com/jhoicas/trastienda-api/internal/domain/repository"
)

// Ledger es el único punto del sistema donde se escribe la cantidad en stock.
// Cada mutación bloquea la fila (SELECT FOR UPDATE), actualiza la cantidad y
// agrega exactamente un movimiento inmutable, todo dentro de la transacción
// del llamante: o ambas escrituras quedan, o ninguna.
type Ledger struct {
	stocks  repository.StockRepository // atado al pool, solo lecturas
	metrics MetricsRecorder
}

// NewLedger construye el ledger. stocks debe estar atado al pool (lecturas
// fuera de transacción); metrics puede ser nil.
func NewLedger(stocks repository.StockRepository, metrics MetricsRecorder) *Ledger {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Ledger{stocks: stocks, metrics: metrics}
}

// MutationInput describe una mutación de inventario. Delta lleva el signo:
// positivo para entradas, negativo para salidas; debe ser coherente con Type.
type MutationInput struct {
	ProductID     string
	WarehouseID   string
	Delta         decimal.Decimal
	Type          string
	ReferenceType string
	ReferenceNo   string
	UnitCost      *decimal.Decimal
	Actor         string
	At            time.Time // cero = time.Now()
}

// MutationResult cantidades antes y después de la mutación confirmada.
type MutationResult struct {
	Before decimal.Decimal
	After  decimal.Decimal
}

// Mutate aplica una mutación usando los repositorios atados a la transacción
// del llamante. Si la cantidad resultante fuera negativa devuelve
// InsufficientStockError sin escribir nada.
func (l *Ledger) Mutate(
	ctx context.Context,
	stocks repository.StockRepository,
	movements repository.InventoryMovementRepository,
	in MutationInput,
) (MutationResult, error) {
	if err := validateInput(in); err != nil {
		return MutationResult{}, err
	}
	now := in.At
	if now.IsZero() {
		now = time.Now()
	}

	// Bloquea la fila de stock; una clave ausente se materializa en cero.
	stock, err := stocks.GetForUpdate(ctx, in.ProductID, in.WarehouseID)
	if err != nil {
		return MutationResult{}, err
	}

	before := stock.Quantity
	after := before.Add(in.Delta)
	if after.LessThan(decimal.Zero) {
		l.metrics.InsufficientStock()
		return MutationResult{}, &domain.InsufficientStockError{
			ProductID:   in.ProductID,
			WarehouseID: in.WarehouseID,
			Requested:   in.Delta.Abs(),
			Available:   before,
		}
	}

	stock.Quantity = after
	stock.UpdatedAt = now
	if err := stocks.Upsert(ctx, stock); err != nil {
		return MutationResult{}, err
	}

	mov := &entity.InventoryMovement{
		ID:            uuid.New().String(),
		ProductID:     in.ProductID,
		WarehouseID:   in.WarehouseID,
		Type:          in.Type,
		Quantity:      in.Delta,
		BeforeQty:     before,
		AfterQty:      after,
		ReferenceType: in.ReferenceType,
		ReferenceNo:   in.ReferenceNo,
		UnitCost:      in.UnitCost,
		CreatedAt:     now,
		CreatedBy:     in.Actor,
	}
	if err := movements.Create(ctx, mov); err != nil {
		return MutationResult{}, err
	}

	// El contador se incrementa dentro de la transacción del llamante: si el
	// lote falla después y hace rollback, el movimiento ya quedó contado.
	l.metrics.MovementPosted(in.Type)
	return MutationResult{Before: before, After: after}, nil
}

// Preview calcula el resultado de la mutación sobre la fila ya bloqueada,
// sin escribir. Lo usan los flujos por lotes para validar todas las líneas
// antes de aplicar cualquiera.
func (l *Ledger) Preview(
	ctx context.Context,
	stocks repository.StockRepository,
	productID, warehouseID string,
	delta decimal.Decimal,
) (MutationResult, error) {
	stock, err := stocks.GetForUpdate(ctx, productID, warehouseID)
	if err != nil {
		return MutationResult{}, err
	}
	after := stock.Quantity.Add(delta)
	if after.LessThan(decimal.Zero) {
		return MutationResult{}, &domain.InsufficientStockError{
			ProductID:   productID,
			WarehouseID: warehouseID,
			Requested:   delta.Abs(),
			Available:   stock.Quantity,
		}
	}
	return MutationResult{Before: stock.Quantity, After: after}, nil
}

// GetOnHand devuelve la cantidad disponible de un producto en una bodega
// (lectura fuera de transacción).
func (l *Ledger) GetOnHand(ctx context.Context, productID, warehouseID string) (decimal.Decimal, error) {
	if productID == "" || warehouseID == "" {
		return decimal.Zero, domain.ErrInvalidInput
	}
	stock, err := l.stocks.Get(ctx, productID, warehouseID)
	if err != nil {
		return decimal.Zero, err
	}
	return stock.Quantity, nil
}

func validateInput(in MutationInput) error {
	if in.ProductID == "" || in.WarehouseID == "" || in.ReferenceNo == "" {
		return domain.ErrInvalidInput
	}
	if !entity.ValidMovementType(in.Type) {
		return domain.ErrInvalidInput
	}
	if in.Delta.IsZero() {
		return domain.ErrInvalidInput
	}
	// El signo del delta debe ser coherente con el tipo de movimiento.
	if entity.IsInbound(in.Type) != in.Delta.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	return nil
}
