package replenishment_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/trastienda-api/internal/application/events"
	"github.com/jhoicas/trastienda-api/internal/application/ledger"
	"github.com/jhoicas/trastienda-api/internal/application/ledger/ledgertest"
	"github.com/jhoicas/trastienda-api/internal/application/procurement"
	"github.com/jhoicas/trastienda-api/internal/application/replenishment"
	"github.com/jhoicas/trastienda-api/internal/domain"
	"github.com/jhoicas/trastienda-api/internal/domain/entity"
	"github.com/jhoicas/trastienda-api/pkg/logger"
)

const (
	productA    = "00000000-0000-0000-0000-0000000000a1"
	productB    = "00000000-0000-0000-0000-0000000000a2"
	productC    = "00000000-0000-0000-0000-0000000000a3"
	warehouseID = "00000000-0000-0000-0000-0000000000b1"
	supplier1   = "00000000-0000-0000-0000-0000000000c1"
	supplier2   = "00000000-0000-0000-0000-0000000000c2"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newFixture(t *testing.T) (*replenishment.UseCase, *ledgertest.Store, *ledgertest.CapturePublisher) {
	t.Helper()
	store := ledgertest.NewStore()
	store.SeedWarehouse(entity.Warehouse{ID: warehouseID, Name: "Bodega Central"})

	pub := &ledgertest.CapturePublisher{}
	log := logger.New(logger.Config{Level: "error"})
	ldg := ledger.NewLedger(store.StockRepo(), nil)
	procUC := procurement.NewUseCase(store.Runner(), ldg, store.OrderRepo(), store.ReceiptRepo(),
		store.ReturnRepo(), store.ProductRepo(), store.WarehouseRepo(), nil, log)
	uc := replenishment.NewUseCase(store.StockRepo(), store.PriceRepo(), procUC, pub, log)
	return uc, store, pub
}

func seedProduct(store *ledgertest.Store, id, sku, safety, minOrder, onHand string) {
	store.SeedProduct(entity.Product{
		ID: id, SKU: sku, Name: "Producto " + sku,
		SafetyStock: dec(safety), MinOrderQty: dec(minOrder), IsActive: true,
	})
	store.SeedStock(id, warehouseID, dec(onHand))
}

func suggestionFor(t *testing.T, list []replenishment.Suggestion, productID string) replenishment.Suggestion {
	t.Helper()
	for _, s := range list {
		if s.ProductID == productID {
			return s
		}
	}
	t.Fatalf("no hay sugerencia para %s", productID)
	return replenishment.Suggestion{}
}

// ──────────────────────────────────────────────────────────────────────────────
// Urgencia y cantidad sugerida
// ──────────────────────────────────────────────────────────────────────────────

func TestSuggest_ClasificaUrgenciaPorRazon(t *testing.T) {
	uc, store, _ := newFixture(t)
	// Stock de seguridad 100: 25 → razón 0.25 CRITICAL; 50 → 0.5 WARNING;
	// 80 → 0.8 NORMAL. Sin stock siempre CRITICAL.
	seedProduct(store, productA, "SKU-A", "100", "0", "25")
	seedProduct(store, productB, "SKU-B", "100", "0", "50")
	seedProduct(store, productC, "SKU-C", "100", "0", "80")

	list, err := uc.Suggest(context.Background(), warehouseID)
	require.NoError(t, err)
	require.Len(t, list, 3)

	assert.Equal(t, replenishment.UrgencyCritical, suggestionFor(t, list, productA).Urgency)
	assert.Equal(t, replenishment.UrgencyWarning, suggestionFor(t, list, productB).Urgency)
	assert.Equal(t, replenishment.UrgencyNormal, suggestionFor(t, list, productC).Urgency)

	// Más urgentes primero.
	assert.Equal(t, productA, list[0].ProductID)
	assert.Equal(t, productB, list[1].ProductID)
	assert.Equal(t, productC, list[2].ProductID)
}

func TestSuggest_SinStockEsCritico(t *testing.T) {
	uc, store, pub := newFixture(t)
	seedProduct(store, productA, "SKU-A", "10", "0", "0")

	list, err := uc.Suggest(context.Background(), warehouseID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, replenishment.UrgencyCritical, list[0].Urgency)
	assert.True(t, list[0].SuggestedQty.Equal(dec("10")), "sugerido = seguridad - stock")

	low := pub.ByType(events.TypeLowStockDetected)
	require.Len(t, low, 1, "cada producto bajo seguridad emite LowStockDetected")
	assert.Equal(t, productA, low[0].ProductID)
	assert.True(t, low[0].Quantity.IsZero())
}

func TestSuggest_RespetaMinimoDePedido(t *testing.T) {
	uc, store, _ := newFixture(t)
	// Déficit 3 pero mínimo de pedido 12.
	seedProduct(store, productA, "SKU-A", "10", "12", "7")

	list, err := uc.Suggest(context.Background(), warehouseID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].SuggestedQty.Equal(dec("12")),
		"sugerido = max(déficit, mínimo de pedido)")
}

func TestSuggest_ProductoEnSeguridadNoAparece(t *testing.T) {
	uc, store, _ := newFixture(t)
	seedProduct(store, productA, "SKU-A", "10", "0", "10")

	list, err := uc.Suggest(context.Background(), warehouseID)
	require.NoError(t, err)
	assert.Empty(t, list, "stock igual a seguridad no dispara reposición")
}

// ──────────────────────────────────────────────────────────────────────────────
// Proveedor preferido
// ──────────────────────────────────────────────────────────────────────────────

func TestSuggest_PrefiereProveedorPrimarioLuegoPrecio(t *testing.T) {
	uc, store, _ := newFixture(t)
	seedProduct(store, productA, "SKU-A", "10", "0", "2")
	past := time.Now().Add(-24 * time.Hour)

	// El primario gana aunque sea más caro.
	store.SeedPrice(entity.SupplierPrice{
		ID: "p1", SupplierID: supplier1, ProductID: productA,
		UnitPrice: dec("5.00"), IsPrimary: true, EffectiveFrom: past, LeadTimeDays: 3,
	})
	store.SeedPrice(entity.SupplierPrice{
		ID: "p2", SupplierID: supplier2, ProductID: productA,
		UnitPrice: dec("4.00"), EffectiveFrom: past,
	})

	list, err := uc.Suggest(context.Background(), warehouseID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, supplier1, list[0].SupplierID)
	assert.True(t, list[0].UnitPrice.Equal(dec("5.00")))
	assert.Equal(t, 3, list[0].LeadTimeDays)
}

func TestSuggest_IgnoraPreciosVencidos(t *testing.T) {
	uc, store, _ := newFixture(t)
	seedProduct(store, productA, "SKU-A", "10", "0", "2")
	expired := time.Now().Add(-1 * time.Hour)
	store.SeedPrice(entity.SupplierPrice{
		ID: "p1", SupplierID: supplier1, ProductID: productA,
		UnitPrice: dec("5.00"), EffectiveFrom: time.Now().Add(-48 * time.Hour), EffectiveTo: &expired,
	})

	list, err := uc.Suggest(context.Background(), warehouseID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Empty(t, list[0].SupplierID, "sin precio vigente la sugerencia queda sin proveedor")
}

func TestSuggest_ElMinimoDelProveedorEleva(t *testing.T) {
	uc, store, _ := newFixture(t)
	seedProduct(store, productA, "SKU-A", "10", "0", "7")
	store.SeedPrice(entity.SupplierPrice{
		ID: "p1", SupplierID: supplier1, ProductID: productA,
		UnitPrice: dec("2.00"), IsPrimary: true,
		EffectiveFrom: time.Now().Add(-24 * time.Hour), MinOrderQty: dec("20"),
	})

	list, err := uc.Suggest(context.Background(), warehouseID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].SuggestedQty.Equal(dec("20")),
		"el mínimo del proveedor manda sobre el déficit")
}

// ──────────────────────────────────────────────────────────────────────────────
// Materialización de órdenes
// ──────────────────────────────────────────────────────────────────────────────

func TestMaterializeOrders_AgrupaPorProveedor(t *testing.T) {
	uc, store, _ := newFixture(t)
	past := time.Now().Add(-24 * time.Hour)
	seedProduct(store, productA, "SKU-A", "10", "0", "2")
	seedProduct(store, productB, "SKU-B", "10", "0", "4")
	seedProduct(store, productC, "SKU-C", "10", "0", "9") // sin precio: se omite
	store.SeedPrice(entity.SupplierPrice{
		ID: "p1", SupplierID: supplier1, ProductID: productA,
		UnitPrice: dec("2.00"), IsPrimary: true, EffectiveFrom: past,
	})
	store.SeedPrice(entity.SupplierPrice{
		ID: "p2", SupplierID: supplier2, ProductID: productB,
		UnitPrice: dec("3.00"), IsPrimary: true, EffectiveFrom: past,
	})

	orders, err := uc.MaterializeOrders(context.Background(), warehouseID, "user-1", true)
	require.NoError(t, err)
	require.Len(t, orders, 2, "una orden por proveedor")

	bySupplier := map[string]*entity.PurchaseOrder{}
	for _, o := range orders {
		assert.Equal(t, entity.PurchaseOrderStatusPending, o.Status)
		assert.Equal(t, warehouseID, o.WarehouseID)
		bySupplier[o.SupplierID] = o
	}
	require.Contains(t, bySupplier, supplier1)
	require.Contains(t, bySupplier, supplier2)

	o1 := bySupplier[supplier1]
	require.Len(t, o1.Lines, 1)
	assert.Equal(t, productA, o1.Lines[0].ProductID)
	assert.True(t, o1.Lines[0].OrderedQty.Equal(dec("8")))
	assert.True(t, o1.Lines[0].UnitPrice.Equal(dec("2.00")))

	for _, o := range orders {
		for _, l := range o.Lines {
			assert.NotEqual(t, productC, l.ProductID, "sin precio vigente no se ordena")
		}
	}
}

func TestMaterializeOrders_SinAgruparUnaSolaOrden(t *testing.T) {
	uc, store, _ := newFixture(t)
	past := time.Now().Add(-24 * time.Hour)
	seedProduct(store, productA, "SKU-A", "10", "0", "2")
	seedProduct(store, productB, "SKU-B", "10", "0", "4")
	store.SeedPrice(entity.SupplierPrice{
		ID: "p1", SupplierID: supplier1, ProductID: productA,
		UnitPrice: dec("2.00"), IsPrimary: true, EffectiveFrom: past,
	})
	store.SeedPrice(entity.SupplierPrice{
		ID: "p2", SupplierID: supplier2, ProductID: productB,
		UnitPrice: dec("3.00"), IsPrimary: true, EffectiveFrom: past,
	})

	orders, err := uc.MaterializeOrders(context.Background(), warehouseID, "user-1", false)
	require.NoError(t, err)
	require.Len(t, orders, 1, "sin agrupar todo va en una orden")
	assert.Len(t, orders[0].Lines, 2)
}

func TestSuggest_BodegaVacia(t *testing.T) {
	uc, _, _ := newFixture(t)

	list, err := uc.Suggest(context.Background(), warehouseID)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = uc.Suggest(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
