package adjustment_test

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/trastienda-api/internal/application/adjustment"
	"github.com/jhoicas/trastienda-api/internal/application/events"
	"github.com/jhoicas/trastienda-api/internal/application/ledger"
	"github.com/jhoicas/trastienda-api/internal/application/ledger/ledgertest"
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

func newFixture(t *testing.T) (*adjustment.UseCase, *ledgertest.Store, *ledgertest.CapturePublisher) {
	t.Helper()
	store := ledgertest.NewStore()
	store.SeedWarehouse(entity.Warehouse{ID: warehouseID, Name: "Bodega Central"})
	store.SeedProduct(entity.Product{ID: productA, SKU: "SKU-A", Name: "Producto A", IsActive: true})
	store.SeedProduct(entity.Product{ID: productB, SKU: "SKU-B", Name: "Producto B", IsActive: true})

	pub := &ledgertest.CapturePublisher{}
	log := logger.New(logger.Config{Level: "error"})
	ldg := ledger.NewLedger(store.StockRepo(), nil)
	uc := adjustment.NewUseCase(store.Runner(), ldg, store.AdjustmentRepo(),
		store.ProductRepo(), store.WarehouseRepo(), pub, log)
	return uc, store, pub
}

func TestCreate_AplicaLineasYNumeraElDocumento(t *testing.T) {
	uc, store, pub := newFixture(t)
	store.SeedStock(productA, warehouseID, dec("10"))
	store.SeedStock(productB, warehouseID, dec("5"))

	doc, err := uc.Create(context.Background(), adjustment.CreateInput{
		WarehouseID: warehouseID,
		Reason:      "merma por vencimiento",
		Lines: []adjustment.LineInput{
			{ProductID: productA, Delta: dec("-3"), Notes: "vencidos"},
			{ProductID: productB, Delta: dec("7")},
		},
		Actor: "user-1",
	})
	require.NoError(t, err)

	wantNumber := "ADJ-" + time.Now().Format("20060102") + "-0001"
	assert.Equal(t, wantNumber, doc.Number, "el número sigue el formato PREFIJO-YYYYMMDD-NNNN")
	assert.Regexp(t, regexp.MustCompile(`^ADJ-\d{8}-\d{4}$`), doc.Number)

	assert.True(t, store.OnHand(productA, warehouseID).Equal(dec("7")))
	assert.True(t, store.OnHand(productB, warehouseID).Equal(dec("12")))

	movs := store.Movements()
	require.Len(t, movs, 2, "un movimiento por línea")
	types := map[string]int{}
	for _, m := range movs {
		types[m.Type]++
		assert.Equal(t, entity.ReferenceTypeAdjustment, m.ReferenceType)
		assert.Equal(t, doc.Number, m.ReferenceNo, "los movimientos referencian el propio ajuste")
	}
	assert.Equal(t, 1, types[entity.MovementTypeAdjustOut])
	assert.Equal(t, 1, types[entity.MovementTypeAdjustIn])

	posted := pub.ByType(events.TypeAdjustmentPosted)
	require.Len(t, posted, 1)
	assert.Equal(t, doc.Number, posted[0].DocumentNo)
	assert.True(t, posted[0].Quantity.Equal(dec("4")), "el evento lleva el delta neto del lote")
}

// Todas las líneas se validan antes de aplicar cualquiera: si una dejaría el
// stock en negativo, el lote completo se rechaza sin tocar nada.
func TestCreate_LoteTodoONada(t *testing.T) {
	uc, store, pub := newFixture(t)
	store.SeedStock(productA, warehouseID, dec("10"))
	store.SeedStock(productB, warehouseID, dec("1"))

	_, err := uc.Create(context.Background(), adjustment.CreateInput{
		WarehouseID: warehouseID,
		Reason:      "ajuste mixto",
		Lines: []adjustment.LineInput{
			{ProductID: productA, Delta: dec("5")},  // válida por sí sola
			{ProductID: productB, Delta: dec("-2")}, // dejaría -1
		},
	})
	require.Error(t, err)
	assert.True(t, domain.IsInsufficientStock(err))

	assert.True(t, store.OnHand(productA, warehouseID).Equal(dec("10")),
		"la línea válida tampoco debe aplicarse")
	assert.True(t, store.OnHand(productB, warehouseID).Equal(dec("1")))
	assert.Empty(t, store.Movements())
	assert.Empty(t, pub.Events, "un lote rechazado no publica eventos")
}

func TestCreate_ProductoInexistente(t *testing.T) {
	uc, store, _ := newFixture(t)

	_, err := uc.Create(context.Background(), adjustment.CreateInput{
		WarehouseID: warehouseID,
		Reason:      "ajuste",
		Lines: []adjustment.LineInput{
			{ProductID: "11111111-0000-0000-0000-000000000000", Delta: dec("1")},
		},
	})
	assert.True(t, domain.IsNotFound(err))
	assert.Empty(t, store.Movements())
}

func TestCreate_ValidacionDeEntrada(t *testing.T) {
	uc, _, _ := newFixture(t)
	ctx := context.Background()

	_, err := uc.Create(ctx, adjustment.CreateInput{WarehouseID: warehouseID, Reason: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin líneas")

	_, err = uc.Create(ctx, adjustment.CreateInput{
		WarehouseID: warehouseID,
		Lines:       []adjustment.LineInput{{ProductID: productA, Delta: dec("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin motivo")

	_, err = uc.Create(ctx, adjustment.CreateInput{
		WarehouseID: warehouseID,
		Reason:      "x",
		Lines:       []adjustment.LineInput{{ProductID: productA, Delta: decimal.Zero}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "delta cero")
}

func TestCreate_NumeracionConsecutivaPorDia(t *testing.T) {
	uc, store, _ := newFixture(t)
	store.SeedStock(productA, warehouseID, dec("100"))

	var numbers []string
	for i := 0; i < 3; i++ {
		doc, err := uc.Create(context.Background(), adjustment.CreateInput{
			WarehouseID: warehouseID,
			Reason:      "ajuste repetido",
			Lines:       []adjustment.LineInput{{ProductID: productA, Delta: dec("-1")}},
		})
		require.NoError(t, err)
		numbers = append(numbers, doc.Number)
	}
	day := time.Now().Format("20060102")
	assert.Equal(t, []string{
		"ADJ-" + day + "-0001",
		"ADJ-" + day + "-0002",
		"ADJ-" + day + "-0003",
	}, numbers, "la numeración es consecutiva dentro del día")
}

// Ajustes concurrentes sobre la misma clave: las transacciones se serializan
// y el stock final es el inicial más la suma de los deltas aplicados.
func TestCreate_AjustesConcurrentesSerializados(t *testing.T) {
	uc, store, _ := newFixture(t)
	store.SeedStock(productA, warehouseID, dec("100"))

	const workers = 10
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, errs[n] = uc.Create(context.Background(), adjustment.CreateInput{
				WarehouseID: warehouseID,
				Reason:      "ajuste concurrente",
				Lines:       []adjustment.LineInput{{ProductID: productA, Delta: dec("-3")}},
			})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "ajuste %d", i)
	}
	assert.True(t, store.OnHand(productA, warehouseID).Equal(dec("70")),
		"100 - 10*3 = 70")
	assert.Len(t, store.Movements(), workers)

	// Los números asignados no se repiten.
	seen := map[string]bool{}
	for _, m := range store.Movements() {
		seen[m.ReferenceNo] = true
	}
	assert.Len(t, seen, workers, "cada ajuste recibe un número distinto")
}

func TestListByWarehouse_FiltraPorBodega(t *testing.T) {
	uc, store, _ := newFixture(t)
	store.SeedStock(productA, warehouseID, dec("50"))

	for i := 0; i < 2; i++ {
		_, err := uc.Create(context.Background(), adjustment.CreateInput{
			WarehouseID: warehouseID,
			Reason:      "ajuste",
			Lines:       []adjustment.LineInput{{ProductID: productA, Delta: dec("-1")}},
		})
		require.NoError(t, err)
	}

	list, err := uc.ListByWarehouse(context.Background(), warehouseID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	otra, err := uc.ListByWarehouse(context.Background(), "33333333-0000-0000-0000-000000000000", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, otra)

	_, err = uc.ListByWarehouse(context.Background(), "", 10, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetByID_NoExiste(t *testing.T) {
	uc, _, _ := newFixture(t)
	_, err := uc.GetByID(context.Background(), "22222222-0000-0000-0000-000000000000")
	assert.True(t, domain.IsNotFound(err))
}
