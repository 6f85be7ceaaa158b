package stockcount_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/trastienda-api/internal/application/adjustment"
	"github.com/jhoicas/trastienda-api/internal/application/ledger"
	"github.com/jhoicas/trastienda-api/internal/application/ledger/ledgertest"
	"github.com/jhoicas/trastienda-api/internal/application/stockcount"
	"github.com/jhoicas/trastienda-api/internal/domain"
	"github.com/jhoicas/trastienda-api/internal/domain/entity"
	"github.com/jhoicas/trastienda-api/pkg/logger"
)

const (
	productA    = "00000000-0000-0000-0000-0000000000a1"
	productB    = "00000000-0000-0000-0000-0000000000a2"
	warehouseID = "00000000-0000-0000-0000-0000000000b1"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newFixture(t *testing.T) (*stockcount.UseCase, *ledgertest.Store) {
	t.Helper()
	store := ledgertest.NewStore()
	store.SeedWarehouse(entity.Warehouse{ID: warehouseID, Name: "Bodega Central"})
	store.SeedProduct(entity.Product{ID: productA, SKU: "SKU-A", Name: "Producto A", IsActive: true})
	store.SeedProduct(entity.Product{ID: productB, SKU: "SKU-B", Name: "Producto B", IsActive: true})

	log := logger.New(logger.Config{Level: "error"})
	ldg := ledger.NewLedger(store.StockRepo(), nil)
	adjUC := adjustment.NewUseCase(store.Runner(), ldg, store.AdjustmentRepo(),
		store.ProductRepo(), store.WarehouseRepo(), nil, log)
	uc := stockcount.NewUseCase(store.Runner(), ldg, adjUC, store.CountRepo(),
		store.WarehouseRepo(), store.ProductRepo(), log)
	return uc, store
}

func lineFor(t *testing.T, doc *entity.StockCount, productID string) entity.StockCountLine {
	t.Helper()
	for _, l := range doc.Lines {
		if l.ProductID == productID {
			return l
		}
	}
	t.Fatalf("el conteo no tiene línea para %s", productID)
	return entity.StockCountLine{}
}

func TestCreate_CongelaCantidadesDeSistema(t *testing.T) {
	uc, store := newFixture(t)
	store.SeedStock(productA, warehouseID, dec("50"))
	store.SeedStock(productB, warehouseID, dec("12"))

	doc, err := uc.Create(context.Background(), stockcount.CreateInput{
		WarehouseID: warehouseID,
		Scope:       "conteo total",
		Actor:       "user-1",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StockCountStatusDraft, doc.Status)
	require.Len(t, doc.Lines, 2, "sin ProductIDs las líneas salen de las existencias de la bodega")

	assert.True(t, lineFor(t, doc, productA).SystemQty.Equal(dec("50")))
	assert.True(t, lineFor(t, doc, productB).SystemQty.Equal(dec("12")))
	assert.False(t, doc.Lines[0].Counted, "las líneas nacen sin contar")
}

func TestComplete_AjustaVarianzasViaElFlujoDeAjustes(t *testing.T) {
	uc, store := newFixture(t)
	store.SeedStock(productA, warehouseID, dec("50"))
	store.SeedStock(productB, warehouseID, dec("12"))
	ctx := context.Background()

	doc, err := uc.Create(ctx, stockcount.CreateInput{WarehouseID: warehouseID, Scope: "total"})
	require.NoError(t, err)
	require.NoError(t, uc.Start(ctx, doc.ID))

	// Contado 45 contra 50 de sistema: varianza -5. La línea B cuadra exacta.
	require.NoError(t, uc.RecordCount(ctx, doc.ID, lineFor(t, doc, productA).ID, dec("45"), "faltante en estantería", "user-2"))
	require.NoError(t, uc.RecordCount(ctx, doc.ID, lineFor(t, doc, productB).ID, dec("12"), "", "user-2"))

	require.NoError(t, uc.Complete(ctx, doc.ID, "user-2"))

	assert.True(t, store.OnHand(productA, warehouseID).Equal(dec("45")),
		"el stock queda en lo contado")
	assert.True(t, store.OnHand(productB, warehouseID).Equal(dec("12")))

	movs := store.Movements()
	require.Len(t, movs, 1, "solo la varianza distinta de cero genera movimiento")
	assert.Equal(t, entity.MovementTypeAdjustOut, movs[0].Type)
	assert.True(t, movs[0].Quantity.Equal(dec("-5")))
	assert.Equal(t, entity.ReferenceTypeStockCount, movs[0].ReferenceType,
		"el movimiento referencia el conteo, no el ajuste interno")
	assert.Equal(t, doc.Number, movs[0].ReferenceNo)

	final, err := uc.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StockCountStatusCompleted, final.Status)

	// Re-completar un conteo COMPLETED se rechaza, nunca se reaplica.
	err = uc.Complete(ctx, doc.ID, "user-2")
	assert.True(t, domain.IsStateTransition(err))
	assert.True(t, store.OnHand(productA, warehouseID).Equal(dec("45")))
	assert.Len(t, store.Movements(), 1)
}

func TestComplete_ConLineasSinContarSeRechaza(t *testing.T) {
	uc, store := newFixture(t)
	store.SeedStock(productA, warehouseID, dec("50"))
	store.SeedStock(productB, warehouseID, dec("12"))
	ctx := context.Background()

	doc, err := uc.Create(ctx, stockcount.CreateInput{WarehouseID: warehouseID, Scope: "total"})
	require.NoError(t, err)
	require.NoError(t, uc.Start(ctx, doc.ID))
	require.NoError(t, uc.RecordCount(ctx, doc.ID, lineFor(t, doc, productA).ID, dec("50"), "", "user-2"))

	err = uc.Complete(ctx, doc.ID, "user-2")
	assert.ErrorIs(t, err, domain.ErrIncompleteCount)

	after, err := uc.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StockCountStatusInProgress, after.Status,
		"el conteo permanece abierto tras el rechazo")
	assert.Empty(t, store.Movements())
}

func TestRecordCount_EsIdempotentePorItem(t *testing.T) {
	uc, store := newFixture(t)
	store.SeedStock(productA, warehouseID, dec("50"))
	ctx := context.Background()

	doc, err := uc.Create(ctx, stockcount.CreateInput{
		WarehouseID: warehouseID,
		Scope:       "parcial",
		ProductIDs:  []string{productA},
	})
	require.NoError(t, err)
	require.NoError(t, uc.Start(ctx, doc.ID))
	lineID := doc.Lines[0].ID

	// Repetir la llamada sobreescribe el valor sin duplicar el avance.
	require.NoError(t, uc.RecordCount(ctx, doc.ID, lineID, dec("40"), "primer pase", "user-2"))
	require.NoError(t, uc.RecordCount(ctx, doc.ID, lineID, dec("48"), "segundo pase", "user-2"))

	after, err := uc.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, after.CountedLines())
	line := after.Lines[0]
	assert.True(t, line.CountedQty.Equal(dec("48")), "queda el último valor registrado")
	assert.True(t, line.VarianceQty.Equal(dec("-2")))
	assert.Equal(t, "segundo pase", line.Reason)
}

func TestRecordCount_ContadoCeroEsDistintoDeSinContar(t *testing.T) {
	uc, store := newFixture(t)
	store.SeedStock(productA, warehouseID, dec("5"))
	ctx := context.Background()

	doc, err := uc.Create(ctx, stockcount.CreateInput{
		WarehouseID: warehouseID,
		Scope:       "parcial",
		ProductIDs:  []string{productA},
	})
	require.NoError(t, err)
	require.NoError(t, uc.Start(ctx, doc.ID))
	require.NoError(t, uc.RecordCount(ctx, doc.ID, doc.Lines[0].ID, decimal.Zero, "estante vacío", "user-2"))

	require.NoError(t, uc.Complete(ctx, doc.ID, "user-2"))
	assert.True(t, store.OnHand(productA, warehouseID).IsZero(),
		"contado cero ajusta el stock a cero")
}

func TestRecordCount_SoloConConteoEnProgreso(t *testing.T) {
	uc, store := newFixture(t)
	store.SeedStock(productA, warehouseID, dec("5"))
	ctx := context.Background()

	doc, err := uc.Create(ctx, stockcount.CreateInput{
		WarehouseID: warehouseID,
		Scope:       "parcial",
		ProductIDs:  []string{productA},
	})
	require.NoError(t, err)

	err = uc.RecordCount(ctx, doc.ID, doc.Lines[0].ID, dec("5"), "", "user-2")
	assert.True(t, domain.IsStateTransition(err), "DRAFT no admite registrar cantidades")
}

func TestSubmit_RevisionPreviaOpcional(t *testing.T) {
	uc, store := newFixture(t)
	store.SeedStock(productA, warehouseID, dec("5"))
	ctx := context.Background()

	doc, err := uc.Create(ctx, stockcount.CreateInput{
		WarehouseID: warehouseID,
		Scope:       "parcial",
		ProductIDs:  []string{productA},
	})
	require.NoError(t, err)
	require.NoError(t, uc.Start(ctx, doc.ID))
	require.NoError(t, uc.RecordCount(ctx, doc.ID, doc.Lines[0].ID, dec("5"), "", "user-2"))

	require.NoError(t, uc.Submit(ctx, doc.ID))
	after, err := uc.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StockCountStatusPendingReview, after.Status)

	// Desde revisión el conteo aún puede completarse.
	require.NoError(t, uc.Complete(ctx, doc.ID, "user-2"))
}

func TestStart_SinLineasSeRechaza(t *testing.T) {
	uc, _ := newFixture(t)
	ctx := context.Background()

	// Bodega sin existencias: el conteo nace sin líneas.
	doc, err := uc.Create(ctx, stockcount.CreateInput{WarehouseID: warehouseID, Scope: "total"})
	require.NoError(t, err)
	require.Empty(t, doc.Lines)

	err = uc.Start(ctx, doc.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
