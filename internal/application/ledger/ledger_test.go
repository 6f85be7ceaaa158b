package ledger_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/trastienda-api/internal/application/ledger"
	"github.com/jhoicas/trastienda-api/internal/application/ledger/ledgertest"
	"github.com/jhoicas/trastienda-api/internal/domain"
	"github.com/jhoicas/trastienda-api/internal/domain/entity"
)

const (
	testProductID   = "00000000-0000-0000-0000-0000000000aa"
	testWarehouseID = "00000000-0000-0000-0000-0000000000bb"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// ──────────────────────────────────────────────────────────────────────────────
// Mutate
// ──────────────────────────────────────────────────────────────────────────────

func TestMutate_EntradaActualizaStockYRegistraMovimiento(t *testing.T) {
	store := ledgertest.NewStore()
	store.SeedStock(testProductID, testWarehouseID, dec("10"))
	ldg := ledger.NewLedger(store.StockRepo(), nil)
	repos := store.Repos()

	res, err := ldg.Mutate(context.Background(), repos.Stock, repos.Movements, ledger.MutationInput{
		ProductID:     testProductID,
		WarehouseID:   testWarehouseID,
		Delta:         dec("5"),
		Type:          entity.MovementTypeAdjustIn,
		ReferenceType: entity.ReferenceTypeAdjustment,
		ReferenceNo:   "ADJ-20250901-0001",
	})
	require.NoError(t, err)

	assert.True(t, res.Before.Equal(dec("10")), "before debe ser el stock previo")
	assert.True(t, res.After.Equal(dec("15")), "after debe reflejar el delta aplicado")
	assert.True(t, store.OnHand(testProductID, testWarehouseID).Equal(dec("15")))

	movs := store.Movements()
	require.Len(t, movs, 1, "cada mutación agrega exactamente un movimiento")
	m := movs[0]
	assert.Equal(t, entity.MovementTypeAdjustIn, m.Type)
	assert.True(t, m.AfterQty.Equal(m.BeforeQty.Add(m.Quantity)),
		"invariante: after = before + quantity")
	assert.Equal(t, "ADJ-20250901-0001", m.ReferenceNo)
}

func TestMutate_ClaveInexistenteSeMaterializaEnCero(t *testing.T) {
	store := ledgertest.NewStore()
	ldg := ledger.NewLedger(store.StockRepo(), nil)
	repos := store.Repos()

	res, err := ldg.Mutate(context.Background(), repos.Stock, repos.Movements, ledger.MutationInput{
		ProductID:     testProductID,
		WarehouseID:   testWarehouseID,
		Delta:         dec("3"),
		Type:          entity.MovementTypePurchaseIn,
		ReferenceType: entity.ReferenceTypeReceipt,
		ReferenceNo:   "REC-20250901-0001",
	})
	require.NoError(t, err)
	assert.True(t, res.Before.IsZero(), "una clave ausente parte de cero")
	assert.True(t, res.After.Equal(dec("3")))
}

func TestMutate_StockInsuficienteNoEscribeNada(t *testing.T) {
	store := ledgertest.NewStore()
	store.SeedStock(testProductID, testWarehouseID, dec("2"))
	ldg := ledger.NewLedger(store.StockRepo(), nil)
	repos := store.Repos()

	_, err := ldg.Mutate(context.Background(), repos.Stock, repos.Movements, ledger.MutationInput{
		ProductID:     testProductID,
		WarehouseID:   testWarehouseID,
		Delta:         dec("-5"),
		Type:          entity.MovementTypeAdjustOut,
		ReferenceType: entity.ReferenceTypeAdjustment,
		ReferenceNo:   "ADJ-20250901-0002",
	})
	require.Error(t, err)
	assert.True(t, domain.IsInsufficientStock(err))

	var ise *domain.InsufficientStockError
	require.ErrorAs(t, err, &ise)
	assert.True(t, ise.Requested.Equal(dec("5")), "requested lleva la magnitud solicitada")
	assert.True(t, ise.Available.Equal(dec("2")))

	assert.True(t, store.OnHand(testProductID, testWarehouseID).Equal(dec("2")),
		"el stock no debe cambiar tras un rechazo")
	assert.Empty(t, store.Movements(), "un rechazo no registra movimientos")
}

func TestMutate_EntradasInvalidas(t *testing.T) {
	store := ledgertest.NewStore()
	store.SeedStock(testProductID, testWarehouseID, dec("10"))
	ldg := ledger.NewLedger(store.StockRepo(), nil)
	repos := store.Repos()

	base := ledger.MutationInput{
		ProductID:     testProductID,
		WarehouseID:   testWarehouseID,
		Delta:         dec("1"),
		Type:          entity.MovementTypeAdjustIn,
		ReferenceType: entity.ReferenceTypeAdjustment,
		ReferenceNo:   "ADJ-20250901-0003",
	}

	cases := []struct {
		name   string
		mutate func(in *ledger.MutationInput)
	}{
		{"delta cero", func(in *ledger.MutationInput) { in.Delta = decimal.Zero }},
		{"tipo desconocido", func(in *ledger.MutationInput) { in.Type = "SALE_OUT" }},
		{"signo incoherente con el tipo", func(in *ledger.MutationInput) { in.Delta = dec("-1") }},
		{"sin producto", func(in *ledger.MutationInput) { in.ProductID = "" }},
		{"sin referencia", func(in *ledger.MutationInput) { in.ReferenceNo = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := base
			tc.mutate(&in)
			_, err := ldg.Mutate(context.Background(), repos.Stock, repos.Movements, in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Empty(t, store.Movements())
}

// ──────────────────────────────────────────────────────────────────────────────
// Preview y GetOnHand
// ──────────────────────────────────────────────────────────────────────────────

func TestPreview_CalculaSinEscribir(t *testing.T) {
	store := ledgertest.NewStore()
	store.SeedStock(testProductID, testWarehouseID, dec("8"))
	ldg := ledger.NewLedger(store.StockRepo(), nil)
	repos := store.Repos()

	res, err := ldg.Preview(context.Background(), repos.Stock, testProductID, testWarehouseID, dec("-8"))
	require.NoError(t, err)
	assert.True(t, res.After.IsZero(), "llegar exactamente a cero es válido")

	_, err = ldg.Preview(context.Background(), repos.Stock, testProductID, testWarehouseID, dec("-9"))
	assert.True(t, domain.IsInsufficientStock(err))

	assert.True(t, store.OnHand(testProductID, testWarehouseID).Equal(dec("8")),
		"preview nunca escribe")
	assert.Empty(t, store.Movements())
}

func TestGetOnHand(t *testing.T) {
	store := ledgertest.NewStore()
	store.SeedStock(testProductID, testWarehouseID, dec("42"))
	ldg := ledger.NewLedger(store.StockRepo(), nil)

	qty, err := ldg.GetOnHand(context.Background(), testProductID, testWarehouseID)
	require.NoError(t, err)
	assert.True(t, qty.Equal(dec("42")))

	qty, err = ldg.GetOnHand(context.Background(), "otro-producto", testWarehouseID)
	require.NoError(t, err)
	assert.True(t, qty.IsZero(), "clave sin movimientos reporta cero")

	_, err = ldg.GetOnHand(context.Background(), "", testWarehouseID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// La secuencia de movimientos de una clave reconstruye la cantidad actual.
func TestMovimientos_ReconstruyenElStock(t *testing.T) {
	store := ledgertest.NewStore()
	ldg := ledger.NewLedger(store.StockRepo(), nil)
	repos := store.Repos()
	ctx := context.Background()

	steps := []ledger.MutationInput{
		{ProductID: testProductID, WarehouseID: testWarehouseID, Delta: dec("10"), Type: entity.MovementTypePurchaseIn, ReferenceType: entity.ReferenceTypeReceipt, ReferenceNo: "REC-20250901-0001"},
		{ProductID: testProductID, WarehouseID: testWarehouseID, Delta: dec("-4"), Type: entity.MovementTypeTransferOut, ReferenceType: entity.ReferenceTypeTransfer, ReferenceNo: "TRF-20250901-0001"},
		{ProductID: testProductID, WarehouseID: testWarehouseID, Delta: dec("2.5"), Type: entity.MovementTypeAdjustIn, ReferenceType: entity.ReferenceTypeAdjustment, ReferenceNo: "ADJ-20250901-0001"},
	}
	for _, in := range steps {
		_, err := ldg.Mutate(ctx, repos.Stock, repos.Movements, in)
		require.NoError(t, err)
	}

	sum := decimal.Zero
	for _, m := range store.Movements() {
		sum = sum.Add(m.Quantity)
	}
	assert.True(t, sum.Equal(store.OnHand(testProductID, testWarehouseID)),
		"la suma de movimientos debe igualar el stock actual")
	assert.True(t, sum.Equal(dec("8.5")))
}
