package ledger

import (
	"context"

	"github.com/jhoicas/trastienda-api/internal/domain/repository"
)

// Repos agrupa los repositorios atados a una misma transacción de BD.
// TxRunner los construye sobre la tx y los entrega al callback.
type Repos struct {
	Stock     repository.StockRepository
	Movements repository.InventoryMovementRepository

	Adjustments repository.AdjustmentRepository
	Transfers   repository.TransferRepository
	Orders      repository.PurchaseOrderRepository
	Receipts    repository.PurchaseReceiptRepository
	Returns     repository.PurchaseReturnRepository
	Counts      repository.StockCountRepository

	Sequences repository.SequenceRepository
	Products  repository.ProductRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad a los flujos de
// inventario: o todos los pasos (validar, mutar ledger, actualizar documento)
// quedan confirmados, o ninguno.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}

// MetricsRecorder puerto opcional para contadores de observabilidad del ledger.
type MetricsRecorder interface {
	MovementPosted(movementType string)
	InsufficientStock()
}

type nopMetrics struct{}

func (nopMetrics) MovementPosted(string) {}
func (nopMetrics) InsufficientStock()    {}
