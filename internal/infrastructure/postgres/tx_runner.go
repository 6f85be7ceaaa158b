package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/trastienda-api/internal/application/ledger"
	"github.com/jhoicas/trastienda-api/internal/domain"
)

// Ensure TxRunner implements ledger.TxRunner.
var _ ledger.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL, entregando
// los repositorios atados a esa tx. Es la unidad atómica de los flujos de
// inventario: validar, mutar ledger y actualizar documento confirman juntos
// o se revierten juntos.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con los repos atados a la tx y hace
// Commit o Rollback. Los fallos de begin/commit se reportan como
// ErrTransactionFailed; los errores de fn se propagan tal cual.
func (r *TxRunner) Run(ctx context.Context, fn func(repos ledger.Repos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.WrapTransaction(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := ledger.Repos{
		Stock:       NewStockRepository(tx),
		Movements:   NewInventoryMovementRepository(tx),
		Adjustments: NewAdjustmentRepository(tx),
		Transfers:   NewTransferRepository(tx),
		Orders:      NewPurchaseOrderRepository(tx),
		Receipts:    NewPurchaseReceiptRepository(tx),
		Returns:     NewPurchaseReturnRepository(tx),
		Counts:      NewStockCountRepository(tx),
		Sequences:   NewSequenceRepository(tx),
		Products:    NewProductRepository(tx),
	}

	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.WrapTransaction(err)
	}
	return nil
}
