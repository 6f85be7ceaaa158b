package procurement_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/trastienda-api/internal/application/events"
	"github.com/jhoicas/trastienda-api/internal/application/ledger"
	"github.com/jhoicas/trastienda-api/internal/application/ledger/ledgertest"
	"github.com/jhoicas/trastienda-api/internal/application/procurement"
	"github.com/jhoicas/trastienda-api/internal/domain"
	"github.com/jhoicas/trastienda-api/internal/domain/entity"
	"github.com/jhoicas/trastienda-api/pkg/logger"
)

const (
	productA    = "00000000-0000-0000-0000-0000000000a1"
	productB    = "00000000-0000-0000-0000-0000000000a2"
	warehouseID = "00000000-0000-0000-0000-0000000000b1"
	supplierID  = "00000000-0000-0000-0000-0000000000c1"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newFixture(t *testing.T) (*procurement.UseCase, *ledgertest.Store, *ledgertest.CapturePublisher) {
	t.Helper()
	store := ledgertest.NewStore()
	store.SeedWarehouse(entity.Warehouse{ID: warehouseID, Name: "Bodega Central"})
	store.SeedProduct(entity.Product{ID: productA, SKU: "SKU-A", Name: "Producto A", IsActive: true})
	store.SeedProduct(entity.Product{ID: productB, SKU: "SKU-B", Name: "Producto B", IsActive: true})

	pub := &ledgertest.CapturePublisher{}
	log := logger.New(logger.Config{Level: "error"})
	ldg := ledger.NewLedger(store.StockRepo(), nil)
	uc := procurement.NewUseCase(store.Runner(), ldg, store.OrderRepo(), store.ReceiptRepo(),
		store.ReturnRepo(), store.ProductRepo(), store.WarehouseRepo(), pub, log)
	return uc, store, pub
}

func createApprovedOrder(t *testing.T, uc *procurement.UseCase) *entity.PurchaseOrder {
	t.Helper()
	ctx := context.Background()
	doc, err := uc.CreateOrder(ctx, procurement.CreateOrderInput{
		SupplierID:  supplierID,
		WarehouseID: warehouseID,
		Lines: []procurement.OrderLineInput{
			{ProductID: productA, OrderedQty: dec("10"), UnitPrice: dec("2.50")},
			{ProductID: productB, OrderedQty: dec("4"), UnitPrice: dec("7")},
		},
		Actor: "user-1",
	})
	require.NoError(t, err)
	require.Equal(t, entity.PurchaseOrderStatusPending, doc.Status)
	require.NoError(t, uc.ApproveOrder(ctx, doc.ID))
	doc, err = uc.GetOrder(ctx, doc.ID)
	require.NoError(t, err)
	return doc
}

func lineFor(t *testing.T, doc *entity.PurchaseOrder, productID string) entity.PurchaseOrderLine {
	t.Helper()
	for _, l := range doc.Lines {
		if l.ProductID == productID {
			return l
		}
	}
	t.Fatalf("la orden no tiene línea para %s", productID)
	return entity.PurchaseOrderLine{}
}

// ──────────────────────────────────────────────────────────────────────────────
// Recepciones
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateReceipt_ParcialLuegoTotal(t *testing.T) {
	uc, store, pub := newFixture(t)
	ctx := context.Background()
	order := createApprovedOrder(t, uc)
	lineA := lineFor(t, order, productA)
	lineB := lineFor(t, order, productB)

	// Primera recepción: parcial de la línea A.
	rec1, err := uc.CreateReceipt(ctx, procurement.CreateReceiptInput{
		OrderID: order.ID,
		Lines: []procurement.ReceiptLineInput{
			{POItemID: lineA.ID, ArrivedQty: dec("6"), ReceivedQty: dec("6")},
		},
		Actor: "user-1",
	})
	require.NoError(t, err)

	assert.True(t, store.OnHand(productA, warehouseID).Equal(dec("6")))
	after, err := uc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseOrderStatusPartial, after.Status)
	assert.True(t, lineFor(t, after, productA).PendingQty().Equal(dec("4")))

	movs := store.Movements()
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypePurchaseIn, movs[0].Type)
	assert.Equal(t, rec1.Number, movs[0].ReferenceNo)
	require.NotNil(t, movs[0].UnitCost, "la entrada de compra queda valorizada")
	assert.True(t, movs[0].UnitCost.Equal(dec("2.50")), "al precio de la línea de la orden")

	// Segunda recepción: completa ambas líneas, con rechazo parcial documentado.
	_, err = uc.CreateReceipt(ctx, procurement.CreateReceiptInput{
		OrderID: order.ID,
		Lines: []procurement.ReceiptLineInput{
			{POItemID: lineA.ID, ArrivedQty: dec("5"), ReceivedQty: dec("4"), RejectedQty: dec("1"), Reason: "caja dañada"},
			{POItemID: lineB.ID, ArrivedQty: dec("4"), ReceivedQty: dec("4")},
		},
		Actor: "user-1",
	})
	require.NoError(t, err)

	assert.True(t, store.OnHand(productA, warehouseID).Equal(dec("10")),
		"lo rechazado no entra al inventario")
	assert.True(t, store.OnHand(productB, warehouseID).Equal(dec("4")))

	final, err := uc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseOrderStatusCompleted, final.Status,
		"todas las líneas completas derivan COMPLETED")

	received := pub.ByType(events.TypePurchaseReceived)
	require.Len(t, received, 2)
	assert.True(t, received[1].Quantity.Equal(dec("8")))
}

func TestCreateReceipt_ExcedePendienteRechazaTodo(t *testing.T) {
	uc, store, _ := newFixture(t)
	ctx := context.Background()
	order := createApprovedOrder(t, uc)
	lineA := lineFor(t, order, productA)
	lineB := lineFor(t, order, productB)

	_, err := uc.CreateReceipt(ctx, procurement.CreateReceiptInput{
		OrderID: order.ID,
		Lines: []procurement.ReceiptLineInput{
			{POItemID: lineB.ID, ArrivedQty: dec("2"), ReceivedQty: dec("2")},  // válida
			{POItemID: lineA.ID, ArrivedQty: dec("11"), ReceivedQty: dec("11")}, // ordenadas 10
		},
	})
	require.Error(t, err)
	assert.True(t, domain.IsQuantityExceedsPending(err))

	var qe *domain.QuantityExceedsPendingError
	require.ErrorAs(t, err, &qe)
	assert.True(t, qe.Pending.Equal(dec("10")))

	assert.True(t, store.OnHand(productB, warehouseID).IsZero(),
		"la línea válida tampoco debe aplicarse")
	assert.Empty(t, store.Movements())

	after, err := uc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseOrderStatusApproved, after.Status)
	assert.False(t, after.HasReceipts())
}

func TestCreateReceipt_LineasRepetidasAcumulanContraPendiente(t *testing.T) {
	uc, store, _ := newFixture(t)
	ctx := context.Background()
	order := createApprovedOrder(t, uc)
	lineA := lineFor(t, order, productA)

	// Dos líneas sobre la misma línea de orden: juntas exceden lo pendiente
	// aunque cada una por separado quepa.
	_, err := uc.CreateReceipt(ctx, procurement.CreateReceiptInput{
		OrderID: order.ID,
		Lines: []procurement.ReceiptLineInput{
			{POItemID: lineA.ID, ArrivedQty: dec("8"), ReceivedQty: dec("8")},
			{POItemID: lineA.ID, ArrivedQty: dec("8"), ReceivedQty: dec("8")}, // ordenadas 10
		},
	})
	require.Error(t, err)
	assert.True(t, domain.IsQuantityExceedsPending(err))

	var qe *domain.QuantityExceedsPendingError
	require.ErrorAs(t, err, &qe)
	assert.True(t, qe.Requested.Equal(dec("16")), "requested lleva el acumulado de la orden de recepción")
	assert.True(t, qe.Pending.Equal(dec("10")))

	assert.True(t, store.OnHand(productA, warehouseID).IsZero())
	assert.Empty(t, store.Movements())
	after, err := uc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, lineFor(t, after, productA).ReceivedQty.IsZero(),
		"lo recibido nunca supera lo ordenado")

	// Repetir la línea de orden es válido mientras el acumulado quepa.
	_, err = uc.CreateReceipt(ctx, procurement.CreateReceiptInput{
		OrderID: order.ID,
		Lines: []procurement.ReceiptLineInput{
			{POItemID: lineA.ID, ArrivedQty: dec("6"), ReceivedQty: dec("6")},
			{POItemID: lineA.ID, ArrivedQty: dec("4"), ReceivedQty: dec("4")},
		},
	})
	require.NoError(t, err)
	assert.True(t, store.OnHand(productA, warehouseID).Equal(dec("10")))
	after, err = uc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, lineFor(t, after, productA).ReceivedQty.Equal(dec("10")))
}

func TestCreateReceipt_OrdenSinAprobar(t *testing.T) {
	uc, _, _ := newFixture(t)
	ctx := context.Background()
	doc, err := uc.CreateOrder(ctx, procurement.CreateOrderInput{
		SupplierID:  supplierID,
		WarehouseID: warehouseID,
		Lines:       []procurement.OrderLineInput{{ProductID: productA, OrderedQty: dec("1"), UnitPrice: dec("1")}},
	})
	require.NoError(t, err)

	_, err = uc.CreateReceipt(ctx, procurement.CreateReceiptInput{
		OrderID: doc.ID,
		Lines:   []procurement.ReceiptLineInput{{POItemID: doc.Lines[0].ID, ArrivedQty: dec("1"), ReceivedQty: dec("1")}},
	})
	assert.True(t, domain.IsStateTransition(err), "PENDING no admite recepciones")
}

func TestCreateReceipt_LlegadaDebeCuadrar(t *testing.T) {
	uc, _, _ := newFixture(t)
	order := createApprovedOrder(t, uc)
	lineA := lineFor(t, order, productA)

	_, err := uc.CreateReceipt(context.Background(), procurement.CreateReceiptInput{
		OrderID: order.ID,
		Lines: []procurement.ReceiptLineInput{
			{POItemID: lineA.ID, ArrivedQty: dec("5"), ReceivedQty: dec("3"), RejectedQty: dec("1")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput,
		"arrived debe ser igual a received + rejected")
}

func TestCancelOrder_ConRecepcionesRechazada(t *testing.T) {
	uc, _, _ := newFixture(t)
	ctx := context.Background()
	order := createApprovedOrder(t, uc)
	lineA := lineFor(t, order, productA)

	_, err := uc.CreateReceipt(ctx, procurement.CreateReceiptInput{
		OrderID: order.ID,
		Lines:   []procurement.ReceiptLineInput{{POItemID: lineA.ID, ArrivedQty: dec("1"), ReceivedQty: dec("1")}},
	})
	require.NoError(t, err)

	err = uc.CancelOrder(ctx, order.ID)
	assert.True(t, domain.IsStateTransition(err),
		"una orden con recepciones no puede cancelarse")
}

// ──────────────────────────────────────────────────────────────────────────────
// Devoluciones a proveedor
// ──────────────────────────────────────────────────────────────────────────────

func TestReturn_CicloCompletoDebitaElLedger(t *testing.T) {
	uc, store, _ := newFixture(t)
	store.SeedStock(productA, warehouseID, dec("10"))
	ctx := context.Background()

	doc, err := uc.CreateReturn(ctx, procurement.CreateReturnInput{
		SupplierID:  supplierID,
		WarehouseID: warehouseID,
		Reason:      "lote defectuoso",
		Lines:       []procurement.ReturnLineInput{{ProductID: productA, Quantity: dec("3"), UnitPrice: dec("2.50")}},
		Actor:       "user-1",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseReturnStatusPending, doc.Status)
	assert.True(t, store.OnHand(productA, warehouseID).Equal(dec("10")),
		"crear la devolución no toca el inventario")

	require.NoError(t, uc.ApproveReturn(ctx, doc.ID))
	require.NoError(t, uc.CompleteReturn(ctx, doc.ID, "user-1"))

	assert.True(t, store.OnHand(productA, warehouseID).Equal(dec("7")))
	movs := store.Movements()
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeReturnOut, movs[0].Type)
	assert.Equal(t, entity.ReferenceTypeReturn, movs[0].ReferenceType)
	assert.Equal(t, doc.Number, movs[0].ReferenceNo)

	// COMPLETED es terminal: ni re-completar ni cancelar.
	assert.True(t, domain.IsStateTransition(uc.CompleteReturn(ctx, doc.ID, "user-1")))
	assert.True(t, domain.IsStateTransition(uc.CancelReturn(ctx, doc.ID)))
	assert.True(t, store.OnHand(productA, warehouseID).Equal(dec("7")),
		"el débito nunca se duplica")
}

func TestCompleteReturn_StockInsuficienteFallaCompleta(t *testing.T) {
	uc, store, _ := newFixture(t)
	store.SeedStock(productA, warehouseID, dec("10"))
	store.SeedStock(productB, warehouseID, dec("1"))
	ctx := context.Background()

	doc, err := uc.CreateReturn(ctx, procurement.CreateReturnInput{
		SupplierID:  supplierID,
		WarehouseID: warehouseID,
		Reason:      "devolución mixta",
		Lines: []procurement.ReturnLineInput{
			{ProductID: productA, Quantity: dec("2"), UnitPrice: dec("1")},
			{ProductID: productB, Quantity: dec("5"), UnitPrice: dec("1")}, // solo hay 1
		},
	})
	require.NoError(t, err)
	require.NoError(t, uc.ApproveReturn(ctx, doc.ID))

	err = uc.CompleteReturn(ctx, doc.ID, "user-1")
	require.Error(t, err)
	assert.True(t, domain.IsInsufficientStock(err),
		"la devolución falla en vez de omitir la línea sin stock")

	assert.True(t, store.OnHand(productA, warehouseID).Equal(dec("10")))
	assert.Empty(t, store.Movements())

	after, err := uc.GetReturn(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseReturnStatusApproved, after.Status)
}

func TestCreateOrder_Validaciones(t *testing.T) {
	uc, _, _ := newFixture(t)
	ctx := context.Background()

	_, err := uc.CreateOrder(ctx, procurement.CreateOrderInput{
		SupplierID: supplierID, WarehouseID: warehouseID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin líneas")

	_, err = uc.CreateOrder(ctx, procurement.CreateOrderInput{
		SupplierID:  supplierID,
		WarehouseID: warehouseID,
		Lines:       []procurement.OrderLineInput{{ProductID: productA, OrderedQty: dec("0"), UnitPrice: dec("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero")

	_, err = uc.CreateOrder(ctx, procurement.CreateOrderInput{
		SupplierID:  supplierID,
		WarehouseID: warehouseID,
		Lines:       []procurement.OrderLineInput{{ProductID: "33333333-0000-0000-0000-000000000000", OrderedQty: dec("1"), UnitPrice: dec("1")}},
	})
	assert.True(t, domain.IsNotFound(err), "producto fuera de catálogo")
}
