package replenishment

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/trastienda-api/internal/application/events"
	"github.com/jhoicas/trastienda-api/internal/application/procurement"
	"github.com/jhoicas/trastienda-api/internal/domain"
	"github.com/jhoicas/trastienda-api/internal/domain/entity"
	"github.com/jhoicas/trastienda-api/internal/domain/repository"
	"github.com/jhoicas/trastienda-api/pkg/logger"
)

// Urgency nivel de urgencia de reposición derivado de la razón
// stock / stock de seguridad.
type Urgency string

const (
	UrgencyCritical Urgency = "CRITICAL" // sin stock o razón <= 0.3
	UrgencyWarning  Urgency = "WARNING"  // razón <= 0.7
	UrgencyNormal   Urgency = "NORMAL"
)

// Umbrales de urgencia sobre la razón stock / stock de seguridad.
var (
	criticalRatio = decimal.NewFromFloat(0.3)
	warningRatio  = decimal.NewFromFloat(0.7)
)

// Suggestion sugerencia de reposición para un producto bajo su stock de
// seguridad. Efímera: se calcula y nunca se persiste.
type Suggestion struct {
	ProductID    string
	SKU          string
	ProductName  string
	WarehouseID  string
	OnHand       decimal.Decimal
	SafetyStock  decimal.Decimal
	SuggestedQty decimal.Decimal
	Urgency      Urgency
	SupplierID   string          // vacío si no hay precio vigente
	UnitPrice    decimal.Decimal // del proveedor preferido
	LeadTimeDays int
}

// UseCase asesor de reposición: solo lecturas sobre el ledger y la lista de
// precios; opcionalmente materializa órdenes de compra vía el flujo de compras.
type UseCase struct {
	stocks      repository.StockRepository
	prices      repository.SupplierPriceRepository
	procurement *procurement.UseCase
	publisher   events.Publisher
	log         *logger.Logger
}

// NewUseCase construye el asesor.
func NewUseCase(
	stocks repository.StockRepository,
	prices repository.SupplierPriceRepository,
	proc *procurement.UseCase,
	publisher events.Publisher,
	log *logger.Logger,
) *UseCase {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &UseCase{
		stocks:      stocks,
		prices:      prices,
		procurement: proc,
		publisher:   publisher,
		log:         log,
	}
}

// Suggest escanea las existencias de la bodega por debajo del stock de
// seguridad (solo productos activos) y arma una sugerencia por producto con el
// proveedor preferido: primario primero, luego menor precio, entre los precios
// vigentes. SuggestedQty = max(safetyStock - onHand, minOrderQty).
func (uc *UseCase) Suggest(ctx context.Context, warehouseID string) ([]Suggestion, error) {
	if warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	items, err := uc.stocks.ListBelowSafetyStock(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []Suggestion{}, nil
	}

	now := time.Now()
	suggestions := make([]Suggestion, 0, len(items))
	for _, it := range items {
		qty := it.SafetyStock.Sub(it.OnHand)
		if qty.LessThan(it.MinOrderQty) {
			qty = it.MinOrderQty
		}
		s := Suggestion{
			ProductID:    it.ProductID,
			SKU:          it.SKU,
			ProductName:  it.ProductName,
			WarehouseID:  warehouseID,
			OnHand:       it.OnHand,
			SafetyStock:  it.SafetyStock,
			SuggestedQty: qty,
			Urgency:      classify(it.OnHand, it.SafetyStock),
		}

		prices, err := uc.prices.ListEffectiveByProduct(ctx, it.ProductID, now)
		if err != nil {
			return nil, err
		}
		if len(prices) > 0 {
			best := preferred(prices)
			s.SupplierID = best.SupplierID
			s.UnitPrice = best.UnitPrice
			s.LeadTimeDays = best.LeadTimeDays
			if s.SuggestedQty.LessThan(best.MinOrderQty) {
				s.SuggestedQty = best.MinOrderQty
			}
		}
		suggestions = append(suggestions, s)

		uc.publisher.Publish(ctx, events.Event{
			Type:        events.TypeLowStockDetected,
			WarehouseID: warehouseID,
			ProductID:   it.ProductID,
			Quantity:    it.OnHand,
			OccurredAt:  now,
		})
	}

	// Más urgentes primero; a igual urgencia, mayor déficit primero.
	sort.SliceStable(suggestions, func(i, j int) bool {
		ri, rj := rank(suggestions[i].Urgency), rank(suggestions[j].Urgency)
		if ri != rj {
			return ri < rj
		}
		di := suggestions[i].SafetyStock.Sub(suggestions[i].OnHand)
		dj := suggestions[j].SafetyStock.Sub(suggestions[j].OnHand)
		return di.GreaterThan(dj)
	})
	return suggestions, nil
}

// MaterializeOrders convierte las sugerencias en órdenes de compra PENDING.
// Con groupBySupplier se crea una orden por proveedor; si no, una sola orden
// con el primer proveedor encontrado. Productos sin precio vigente se omiten.
func (uc *UseCase) MaterializeOrders(ctx context.Context, warehouseID, actor string, groupBySupplier bool) ([]*entity.PurchaseOrder, error) {
	suggestions, err := uc.Suggest(ctx, warehouseID)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]procurement.OrderLineInput)
	var supplierOrder []string
	for _, s := range suggestions {
		if s.SupplierID == "" {
			uc.log.Warn().Str("product_id", s.ProductID).Msg("sugerencia sin proveedor vigente, omitida")
			continue
		}
		key := s.SupplierID
		if !groupBySupplier && len(supplierOrder) > 0 {
			key = supplierOrder[0]
		}
		if _, ok := grouped[key]; !ok {
			supplierOrder = append(supplierOrder, key)
		}
		grouped[key] = append(grouped[key], procurement.OrderLineInput{
			ProductID:  s.ProductID,
			OrderedQty: s.SuggestedQty,
			UnitPrice:  s.UnitPrice,
		})
	}

	var orders []*entity.PurchaseOrder
	for _, supplierID := range supplierOrder {
		doc, err := uc.procurement.CreateOrder(ctx, procurement.CreateOrderInput{
			SupplierID:  supplierID,
			WarehouseID: warehouseID,
			Notes:       "generada por asesor de reposición",
			Lines:       grouped[supplierID],
			Actor:       actor,
		})
		if err != nil {
			return orders, err
		}
		orders = append(orders, doc)
	}
	return orders, nil
}

// classify deriva la urgencia desde el stock y su stock de seguridad.
func classify(onHand, safetyStock decimal.Decimal) Urgency {
	if onHand.LessThanOrEqual(decimal.Zero) {
		return UrgencyCritical
	}
	if !safetyStock.GreaterThan(decimal.Zero) {
		return UrgencyNormal
	}
	ratio := onHand.Div(safetyStock)
	switch {
	case ratio.LessThanOrEqual(criticalRatio):
		return UrgencyCritical
	case ratio.LessThanOrEqual(warningRatio):
		return UrgencyWarning
	default:
		return UrgencyNormal
	}
}

func rank(u Urgency) int {
	switch u {
	case UrgencyCritical:
		return 0
	case UrgencyWarning:
		return 1
	default:
		return 2
	}
}

// preferred elige el precio preferido: primario primero, luego menor precio.
// El repositorio ya entrega ese orden; se reordena por si la implementación
// no lo garantiza.
func preferred(prices []*entity.SupplierPrice) *entity.SupplierPrice {
	best := prices[0]
	for _, p := range prices[1:] {
		if p.IsPrimary != best.IsPrimary {
			if p.IsPrimary {
				best = p
			}
			continue
		}
		if p.UnitPrice.LessThan(best.UnitPrice) {
			best = p
		}
	}
	return best
}
