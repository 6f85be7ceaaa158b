package procurement

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/trastienda-api/internal/application/events"
	"github.com/jhoicas/trastienda-api/internal/application/ledger"
	"github.com/jhoicas/trastienda-api/internal/domain"
	"github.com/jhoicas/trastienda-api/internal/domain/entity"
	"github.com/jhoicas/trastienda-api/internal/domain/repository"
	"github.com/jhoicas/trastienda-api/pkg/logger"
)

// Prefijos de numeración de los documentos de compras.
const (
	OrderDocumentType   = "PO"
	ReceiptDocumentType = "REC"
	ReturnDocumentType  = "RET"
)

// UseCase flujo de compras: orden de compra, recepciones parciales o totales
// (acreditan el ledger) y devoluciones a proveedor (lo debitan).
type UseCase struct {
	txRunner   ledger.TxRunner
	ledger     *ledger.Ledger
	orders     repository.PurchaseOrderRepository // atados al pool, solo lecturas
	receipts   repository.PurchaseReceiptRepository
	returns    repository.PurchaseReturnRepository
	products   repository.ProductRepository
	warehouses repository.WarehouseRepository
	publisher  events.Publisher
	log        *logger.Logger
}

// NewUseCase construye el flujo de compras.
func NewUseCase(
	txRunner ledger.TxRunner,
	ldg *ledger.Ledger,
	orders repository.PurchaseOrderRepository,
	receipts repository.PurchaseReceiptRepository,
	returns repository.PurchaseReturnRepository,
	products repository.ProductRepository,
	warehouses repository.WarehouseRepository,
	publisher events.Publisher,
	log *logger.Logger,
) *UseCase {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &UseCase{
		txRunner:   txRunner,
		ledger:     ldg,
		orders:     orders,
		receipts:   receipts,
		returns:    returns,
		products:   products,
		warehouses: warehouses,
		publisher:  publisher,
		log:        log,
	}
}

// OrderLineInput línea de orden de compra.
type OrderLineInput struct {
	ProductID  string
	OrderedQty decimal.Decimal
	UnitPrice  decimal.Decimal
}

// CreateOrderInput entrada para crear una orden de compra.
type CreateOrderInput struct {
	SupplierID  string
	WarehouseID string
	Notes       string
	Lines       []OrderLineInput
	Actor       string
}

// CreateOrder crea la orden en estado PENDING con su número generado.
func (uc *UseCase) CreateOrder(ctx context.Context, in CreateOrderInput) (*entity.PurchaseOrder, error) {
	if in.SupplierID == "" || in.WarehouseID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	productIDs := make([]string, 0, len(in.Lines))
	for _, l := range in.Lines {
		if l.ProductID == "" || !l.OrderedQty.GreaterThan(decimal.Zero) || l.UnitPrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		productIDs = append(productIDs, l.ProductID)
	}
	wh, err := uc.warehouses.GetByID(ctx, in.WarehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, domain.NewNotFound("bodega", in.WarehouseID)
	}
	found, err := uc.products.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	for _, id := range productIDs {
		if found[id] == nil {
			return nil, domain.NewNotFound("producto", id)
		}
	}

	now := time.Now()
	var doc *entity.PurchaseOrder
	err = uc.txRunner.Run(ctx, func(r ledger.Repos) error {
		number, err := r.Sequences.Next(ctx, OrderDocumentType, now)
		if err != nil {
			return err
		}
		doc = &entity.PurchaseOrder{
			ID:          uuid.New().String(),
			Number:      number,
			SupplierID:  in.SupplierID,
			WarehouseID: in.WarehouseID,
			Status:      entity.PurchaseOrderStatusPending,
			Notes:       in.Notes,
			CreatedAt:   now,
			UpdatedAt:   now,
			CreatedBy:   in.Actor,
		}
		for _, l := range in.Lines {
			doc.Lines = append(doc.Lines, entity.PurchaseOrderLine{
				ID:          uuid.New().String(),
				OrderID:     doc.ID,
				ProductID:   l.ProductID,
				OrderedQty:  l.OrderedQty,
				UnitPrice:   l.UnitPrice,
				ReceivedQty: decimal.Zero,
			})
		}
		return r.Orders.Create(ctx, doc)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("number", doc.Number).Str("supplier_id", doc.SupplierID).Msg("orden de compra creada")
	return doc, nil
}

// ApproveOrder transición PENDING → APPROVED.
func (uc *UseCase) ApproveOrder(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(r ledger.Repos) error {
		doc, err := r.Orders.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.NewNotFound("orden de compra", id)
		}
		if doc.Status != entity.PurchaseOrderStatusPending {
			return domain.NewStateTransition("orden de compra", doc.Number,
				doc.Status.String(), entity.PurchaseOrderStatusApproved.String())
		}
		return r.Orders.UpdateStatus(ctx, id, entity.PurchaseOrderStatusApproved)
	})
}

// CancelOrder cancela una orden no terminal que no registre recepciones.
func (uc *UseCase) CancelOrder(ctx context.Context, id string) error {
	err := uc.txRunner.Run(ctx, func(r ledger.Repos) error {
		doc, err := r.Orders.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.NewNotFound("orden de compra", id)
		}
		if !doc.Status.CanTransitionTo(entity.PurchaseOrderStatusCancelled) || doc.HasReceipts() {
			return domain.NewStateTransition("orden de compra", doc.Number,
				doc.Status.String(), entity.PurchaseOrderStatusCancelled.String())
		}
		return r.Orders.UpdateStatus(ctx, id, entity.PurchaseOrderStatusCancelled)
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("order_id", id).Msg("cancelación de orden rechazada")
	}
	return err
}

// GetOrder devuelve la orden con sus líneas.
func (uc *UseCase) GetOrder(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	doc, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.NewNotFound("orden de compra", id)
	}
	return doc, nil
}

// ListOrders lista órdenes paginadas.
func (uc *UseCase) ListOrders(ctx context.Context, limit, offset int) ([]*entity.PurchaseOrder, error) {
	return uc.orders.List(ctx, limit, offset)
}
