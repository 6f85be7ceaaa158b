package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/trastienda-api/internal/domain/entity"
)

// AdjustmentRepository persistencia de documentos de ajuste (con sus líneas).
type AdjustmentRepository interface {
	Create(ctx context.Context, adjustment *entity.Adjustment) error
	GetByID(ctx context.Context, id string) (*entity.Adjustment, error)
	ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.Adjustment, error)
}

// TransferRepository persistencia de traslados entre bodegas.
type TransferRepository interface {
	Create(ctx context.Context, transfer *entity.Transfer) error
	GetByID(ctx context.Context, id string) (*entity.Transfer, error)
	// GetForUpdate carga el traslado bloqueando la fila de cabecera, para que
	// el chequeo de estado y la transición ocurran en la misma transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Transfer, error)
	UpdateStatus(ctx context.Context, id string, status entity.TransferStatus) error
	List(ctx context.Context, limit, offset int) ([]*entity.Transfer, error)
}

// PurchaseOrderRepository persistencia de órdenes de compra.
type PurchaseOrderRepository interface {
	Create(ctx context.Context, order *entity.PurchaseOrder) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	// GetForUpdate bloquea la cabecera y carga las líneas; las recepciones
	// concurrentes sobre la misma orden se serializan aquí.
	GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	UpdateStatus(ctx context.Context, id string, status entity.PurchaseOrderStatus) error
	// AddLineReceivedQty incrementa lo recibido de una línea.
	AddLineReceivedQty(ctx context.Context, lineID string, qty decimal.Decimal) error
	ListBySupplier(ctx context.Context, supplierID string, limit, offset int) ([]*entity.PurchaseOrder, error)
	List(ctx context.Context, limit, offset int) ([]*entity.PurchaseOrder, error)
}

// PurchaseReceiptRepository persistencia de recepciones (inmutables).
type PurchaseReceiptRepository interface {
	Create(ctx context.Context, receipt *entity.PurchaseReceipt) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseReceipt, error)
	ListByOrder(ctx context.Context, orderID string) ([]*entity.PurchaseReceipt, error)
}

// PurchaseReturnRepository persistencia de devoluciones a proveedor.
type PurchaseReturnRepository interface {
	Create(ctx context.Context, ret *entity.PurchaseReturn) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseReturn, error)
	GetForUpdate(ctx context.Context, id string) (*entity.PurchaseReturn, error)
	UpdateStatus(ctx context.Context, id string, status entity.PurchaseReturnStatus) error
	List(ctx context.Context, limit, offset int) ([]*entity.PurchaseReturn, error)
}

// StockCountRepository persistencia de conteos físicos.
type StockCountRepository interface {
	Create(ctx context.Context, count *entity.StockCount) error
	GetByID(ctx context.Context, id string) (*entity.StockCount, error)
	GetForUpdate(ctx context.Context, id string) (*entity.StockCount, error)
	UpdateStatus(ctx context.Context, id string, status entity.StockCountStatus) error
	// UpdateLineCount registra (o sobreescribe) la cantidad contada de una línea.
	UpdateLineCount(ctx context.Context, line *entity.StockCountLine) error
	ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.StockCount, error)
}
