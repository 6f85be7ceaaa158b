// Package ledgertest provee dobles en memoria de los repositorios y del
// TxRunner para probar los flujos de inventario sin PostgreSQL. El Runner
// imita la semántica transaccional real: si el callback falla, el estado del
// almacén vuelve exactamente al punto previo a la llamada.
package ledgertest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/trastienda-api/internal/application/events"
	"github.com/jhoicas/trastienda-api/internal/application/ledger"
	"github.com/jhoicas/trastienda-api/internal/domain/entity"
	"github.com/jhoicas/trastienda-api/internal/domain/repository"
)

type stockKey struct {
	productID   string
	warehouseID string
}

// Store almacén en memoria compartido por todos los repositorios fake.
type Store struct {
	mu sync.Mutex

	stocks      map[stockKey]entity.Stock
	movements   []entity.InventoryMovement
	adjustments map[string]entity.Adjustment
	transfers   map[string]entity.Transfer
	orders      map[string]entity.PurchaseOrder
	receipts    map[string]entity.PurchaseReceipt
	returns     map[string]entity.PurchaseReturn
	counts      map[string]entity.StockCount

	products   map[string]entity.Product
	warehouses map[string]entity.Warehouse
	prices     []entity.SupplierPrice

	sequences map[string]int64
}

// NewStore construye un almacén vacío.
func NewStore() *Store {
	return &Store{
		stocks:      make(map[stockKey]entity.Stock),
		adjustments: make(map[string]entity.Adjustment),
		transfers:   make(map[string]entity.Transfer),
		orders:      make(map[string]entity.PurchaseOrder),
		receipts:    make(map[string]entity.PurchaseReceipt),
		returns:     make(map[string]entity.PurchaseReturn),
		counts:      make(map[string]entity.StockCount),
		products:    make(map[string]entity.Product),
		warehouses:  make(map[string]entity.Warehouse),
		sequences:   make(map[string]int64),
	}
}

// SeedProduct registra un producto activo en el catálogo fake.
func (s *Store) SeedProduct(p entity.Product) {
	s.products[p.ID] = p
}

// SeedWarehouse registra una bodega.
func (s *Store) SeedWarehouse(w entity.Warehouse) {
	s.warehouses[w.ID] = w
}

// SeedPrice registra un precio de proveedor.
func (s *Store) SeedPrice(p entity.SupplierPrice) {
	s.prices = append(s.prices, p)
}

// SeedStock fija la existencia de una clave directamente, sin pasar por el
// ledger. Solo para armar el escenario inicial del test.
func (s *Store) SeedStock(productID, warehouseID string, qty decimal.Decimal) {
	s.stocks[stockKey{productID, warehouseID}] = entity.Stock{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Quantity:    qty,
		UpdatedAt:   time.Now(),
	}
}

// OnHand devuelve la cantidad almacenada para una clave (cero si no existe).
func (s *Store) OnHand(productID, warehouseID string) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stocks[stockKey{productID, warehouseID}].Quantity
}

// Movements devuelve una copia de todos los movimientos registrados.
func (s *Store) Movements() []entity.InventoryMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.InventoryMovement, len(s.movements))
	copy(out, s.movements)
	return out
}

// Repos arma el bundle de repositorios sobre el almacén, igual que el TxRunner
// real lo arma sobre la transacción.
func (s *Store) Repos() ledger.Repos {
	return ledger.Repos{
		Stock:       &stockRepo{s},
		Movements:   &movementRepo{s},
		Adjustments: &adjustmentRepo{s},
		Transfers:   &transferRepo{s},
		Orders:      &orderRepo{s},
		Receipts:    &receiptRepo{s},
		Returns:     &returnRepo{s},
		Counts:      &countRepo{s},
		Sequences:   &sequenceRepo{s},
		Products:    &productRepo{s},
	}
}

// StockRepo repositorio de existencias atado al almacén (rol del repo de pool).
func (s *Store) StockRepo() repository.StockRepository { return &stockRepo{s} }

// MovementRepo repositorio de movimientos atado al almacén.
func (s *Store) MovementRepo() repository.InventoryMovementRepository { return &movementRepo{s} }

// ProductRepo repositorio de catálogo atado al almacén.
func (s *Store) ProductRepo() repository.ProductRepository { return &productRepo{s} }

// WarehouseRepo repositorio de bodegas atado al almacén.
func (s *Store) WarehouseRepo() repository.WarehouseRepository { return &warehouseRepo{s} }

// PriceRepo repositorio de precios de proveedor atado al almacén.
func (s *Store) PriceRepo() repository.SupplierPriceRepository { return &priceRepo{s} }

// AdjustmentRepo repositorio de ajustes atado al almacén.
func (s *Store) AdjustmentRepo() repository.AdjustmentRepository { return &adjustmentRepo{s} }

// TransferRepo repositorio de traslados atado al almacén.
func (s *Store) TransferRepo() repository.TransferRepository { return &transferRepo{s} }

// OrderRepo repositorio de órdenes de compra atado al almacén.
func (s *Store) OrderRepo() repository.PurchaseOrderRepository { return &orderRepo{s} }

// ReceiptRepo repositorio de recepciones atado al almacén.
func (s *Store) ReceiptRepo() repository.PurchaseReceiptRepository { return &receiptRepo{s} }

// ReturnRepo repositorio de devoluciones atado al almacén.
func (s *Store) ReturnRepo() repository.PurchaseReturnRepository { return &returnRepo{s} }

// CountRepo repositorio de conteos atado al almacén.
func (s *Store) CountRepo() repository.StockCountRepository { return &countRepo{s} }

// Runner TxRunner fake: serializa las "transacciones" con el mutex del
// almacén y restaura el estado completo si el callback devuelve error.
func (s *Store) Runner() ledger.TxRunner { return &runner{s} }

type runner struct {
	s *Store
}

func (r *runner) Run(_ context.Context, fn func(repos ledger.Repos) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	snap := r.s.snapshot()
	if err := fn(r.s.Repos()); err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}

type snapshotState struct {
	stocks      map[stockKey]entity.Stock
	movements   []entity.InventoryMovement
	adjustments map[string]entity.Adjustment
	transfers   map[string]entity.Transfer
	orders      map[string]entity.PurchaseOrder
	receipts    map[string]entity.PurchaseReceipt
	returns     map[string]entity.PurchaseReturn
	counts      map[string]entity.StockCount
	sequences   map[string]int64
}

func (s *Store) snapshot() snapshotState {
	snap := snapshotState{
		stocks:      make(map[stockKey]entity.Stock, len(s.stocks)),
		movements:   make([]entity.InventoryMovement, len(s.movements)),
		adjustments: make(map[string]entity.Adjustment, len(s.adjustments)),
		transfers:   make(map[string]entity.Transfer, len(s.transfers)),
		orders:      make(map[string]entity.PurchaseOrder, len(s.orders)),
		receipts:    make(map[string]entity.PurchaseReceipt, len(s.receipts)),
		returns:     make(map[string]entity.PurchaseReturn, len(s.returns)),
		counts:      make(map[string]entity.StockCount, len(s.counts)),
		sequences:   make(map[string]int64, len(s.sequences)),
	}
	for k, v := range s.stocks {
		snap.stocks[k] = v
	}
	copy(snap.movements, s.movements)
	for k, v := range s.adjustments {
		v.Lines = append([]entity.AdjustmentLine(nil), v.Lines...)
		snap.adjustments[k] = v
	}
	for k, v := range s.transfers {
		v.Lines = append([]entity.TransferLine(nil), v.Lines...)
		snap.transfers[k] = v
	}
	for k, v := range s.orders {
		v.Lines = append([]entity.PurchaseOrderLine(nil), v.Lines...)
		snap.orders[k] = v
	}
	for k, v := range s.receipts {
		v.Lines = append([]entity.PurchaseReceiptLine(nil), v.Lines...)
		snap.receipts[k] = v
	}
	for k, v := range s.returns {
		v.Lines = append([]entity.PurchaseReturnLine(nil), v.Lines...)
		snap.returns[k] = v
	}
	for k, v := range s.counts {
		v.Lines = append([]entity.StockCountLine(nil), v.Lines...)
		snap.counts[k] = v
	}
	for k, v := range s.sequences {
		snap.sequences[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshotState) {
	s.stocks = snap.stocks
	s.movements = snap.movements
	s.adjustments = snap.adjustments
	s.transfers = snap.transfers
	s.orders = snap.orders
	s.receipts = snap.receipts
	s.returns = snap.returns
	s.counts = snap.counts
	s.sequences = snap.sequences
}

// CapturePublisher acumula los eventos publicados para que el test los afirme.
type CapturePublisher struct {
	mu     sync.Mutex
	Events []events.Event
}

// Publish guarda el evento.
func (p *CapturePublisher) Publish(_ context.Context, e events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, e)
}

// ByType devuelve los eventos capturados de un tipo.
func (p *CapturePublisher) ByType(eventType string) []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []events.Event
	for _, e := range p.Events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

// ────────────────────────────────────────────────────────────────────────────
// Repositorios fake. Las variantes "con mutex" protegen las lecturas fuera de
// transacción; dentro del Runner se usan las versiones sin lock.
// ────────────────────────────────────────────────────────────────────────────

type stockRepo struct{ s *Store }

func (r *stockRepo) Get(_ context.Context, productID, warehouseID string) (*entity.Stock, error) {
	st, ok := r.s.stocks[stockKey{productID, warehouseID}]
	if !ok {
		return &entity.Stock{ProductID: productID, WarehouseID: warehouseID, Quantity: decimal.Zero}, nil
	}
	cp := st
	return &cp, nil
}

func (r *stockRepo) GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.Stock, error) {
	return r.Get(ctx, productID, warehouseID)
}

func (r *stockRepo) Upsert(_ context.Context, stock *entity.Stock) error {
	r.s.stocks[stockKey{stock.ProductID, stock.WarehouseID}] = *stock
	return nil
}

func (r *stockRepo) ListByWarehouse(_ context.Context, warehouseID string) ([]*entity.Stock, error) {
	var out []*entity.Stock
	for k, st := range r.s.stocks {
		if k.warehouseID == warehouseID {
			cp := st
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

func (r *stockRepo) ListBelowSafetyStock(_ context.Context, warehouseID string) ([]repository.LowStockItem, error) {
	var out []repository.LowStockItem
	for _, p := range r.s.products {
		if !p.IsActive || !p.SafetyStock.GreaterThan(decimal.Zero) {
			continue
		}
		onHand := r.s.stocks[stockKey{p.ID, warehouseID}].Quantity
		if onHand.LessThan(p.SafetyStock) {
			out = append(out, repository.LowStockItem{
				ProductID:   p.ID,
				SKU:         p.SKU,
				ProductName: p.Name,
				OnHand:      onHand,
				SafetyStock: p.SafetyStock,
				MinOrderQty: p.MinOrderQty,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

type movementRepo struct{ s *Store }

func (r *movementRepo) Create(_ context.Context, m *entity.InventoryMovement) error {
	r.s.movements = append(r.s.movements, *m)
	return nil
}

func (r *movementRepo) ListByKey(_ context.Context, productID, warehouseID string, limit, offset int) ([]*entity.InventoryMovement, error) {
	var out []*entity.InventoryMovement
	for i := range r.s.movements {
		m := r.s.movements[i]
		if m.ProductID == productID && m.WarehouseID == warehouseID {
			cp := m
			out = append(out, &cp)
		}
	}
	return paginate(out, limit, offset), nil
}

func (r *movementRepo) ListByWarehouse(_ context.Context, warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	var out []*entity.InventoryMovement
	for i := range r.s.movements {
		m := r.s.movements[i]
		if m.WarehouseID != warehouseID {
			continue
		}
		if from != nil && m.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && m.CreatedAt.After(*to) {
			continue
		}
		cp := m
		out = append(out, &cp)
	}
	return paginate(out, limit, offset), nil
}

func (r *movementRepo) ListByReference(_ context.Context, referenceType, referenceNo string) ([]*entity.InventoryMovement, error) {
	var out []*entity.InventoryMovement
	for i := range r.s.movements {
		m := r.s.movements[i]
		if m.ReferenceType == referenceType && m.ReferenceNo == referenceNo {
			cp := m
			out = append(out, &cp)
		}
	}
	return out, nil
}

type productRepo struct{ s *Store }

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := p
	return &cp, nil
}

func (r *productRepo) GetByIDs(_ context.Context, ids []string) (map[string]*entity.Product, error) {
	out := make(map[string]*entity.Product, len(ids))
	for _, id := range ids {
		if p, ok := r.s.products[id]; ok {
			cp := p
			out[id] = &cp
		}
	}
	return out, nil
}

type warehouseRepo struct{ s *Store }

func (r *warehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	w, ok := r.s.warehouses[id]
	if !ok {
		return nil, nil
	}
	cp := w
	return &cp, nil
}

func (r *warehouseRepo) GetDefault(_ context.Context) (*entity.Warehouse, error) {
	for _, w := range r.s.warehouses {
		if w.IsDefault {
			cp := w
			return &cp, nil
		}
	}
	return nil, nil
}

type priceRepo struct{ s *Store }

func (r *priceRepo) ListEffectiveByProduct(_ context.Context, productID string, at time.Time) ([]*entity.SupplierPrice, error) {
	var out []*entity.SupplierPrice
	for i := range r.s.prices {
		p := r.s.prices[i]
		if p.ProductID != productID || p.EffectiveFrom.After(at) {
			continue
		}
		if p.EffectiveTo != nil && p.EffectiveTo.Before(at) {
			continue
		}
		cp := p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsPrimary != out[j].IsPrimary {
			return out[i].IsPrimary
		}
		return out[i].UnitPrice.LessThan(out[j].UnitPrice)
	})
	return out, nil
}

type sequenceRepo struct{ s *Store }

func (r *sequenceRepo) Next(_ context.Context, documentType string, date time.Time) (string, error) {
	day := date.Format("20060102")
	key := documentType + "|" + day
	r.s.sequences[key]++
	return fmt.Sprintf("%s-%s-%04d", documentType, day, r.s.sequences[key]), nil
}

type adjustmentRepo struct{ s *Store }

func (r *adjustmentRepo) Create(_ context.Context, doc *entity.Adjustment) error {
	cp := *doc
	cp.Lines = append([]entity.AdjustmentLine(nil), doc.Lines...)
	r.s.adjustments[doc.ID] = cp
	return nil
}

func (r *adjustmentRepo) GetByID(_ context.Context, id string) (*entity.Adjustment, error) {
	doc, ok := r.s.adjustments[id]
	if !ok {
		return nil, nil
	}
	cp := doc
	cp.Lines = append([]entity.AdjustmentLine(nil), doc.Lines...)
	return &cp, nil
}

func (r *adjustmentRepo) ListByWarehouse(_ context.Context, warehouseID string, limit, offset int) ([]*entity.Adjustment, error) {
	var out []*entity.Adjustment
	for id := range r.s.adjustments {
		doc := r.s.adjustments[id]
		if doc.WarehouseID == warehouseID {
			cp := doc
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return paginate(out, limit, offset), nil
}

type transferRepo struct{ s *Store }

func (r *transferRepo) Create(_ context.Context, doc *entity.Transfer) error {
	cp := *doc
	cp.Lines = append([]entity.TransferLine(nil), doc.Lines...)
	r.s.transfers[doc.ID] = cp
	return nil
}

func (r *transferRepo) GetByID(_ context.Context, id string) (*entity.Transfer, error) {
	doc, ok := r.s.transfers[id]
	if !ok {
		return nil, nil
	}
	cp := doc
	cp.Lines = append([]entity.TransferLine(nil), doc.Lines...)
	return &cp, nil
}

func (r *transferRepo) GetForUpdate(ctx context.Context, id string) (*entity.Transfer, error) {
	return r.GetByID(ctx, id)
}

func (r *transferRepo) UpdateStatus(_ context.Context, id string, status entity.TransferStatus) error {
	doc, ok := r.s.transfers[id]
	if !ok {
		return fmt.Errorf("traslado no encontrado: %s", id)
	}
	doc.Status = status
	doc.UpdatedAt = time.Now()
	r.s.transfers[id] = doc
	return nil
}

func (r *transferRepo) List(_ context.Context, limit, offset int) ([]*entity.Transfer, error) {
	var out []*entity.Transfer
	for id := range r.s.transfers {
		doc := r.s.transfers[id]
		cp := doc
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return paginate(out, limit, offset), nil
}

type orderRepo struct{ s *Store }

func (r *orderRepo) Create(_ context.Context, doc *entity.PurchaseOrder) error {
	cp := *doc
	cp.Lines = append([]entity.PurchaseOrderLine(nil), doc.Lines...)
	r.s.orders[doc.ID] = cp
	return nil
}

func (r *orderRepo) GetByID(_ context.Context, id string) (*entity.PurchaseOrder, error) {
	doc, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	cp := doc
	cp.Lines = append([]entity.PurchaseOrderLine(nil), doc.Lines...)
	return &cp, nil
}

func (r *orderRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.GetByID(ctx, id)
}

func (r *orderRepo) UpdateStatus(_ context.Context, id string, status entity.PurchaseOrderStatus) error {
	doc, ok := r.s.orders[id]
	if !ok {
		return fmt.Errorf("orden no encontrada: %s", id)
	}
	doc.Status = status
	doc.UpdatedAt = time.Now()
	r.s.orders[id] = doc
	return nil
}

func (r *orderRepo) AddLineReceivedQty(_ context.Context, lineID string, qty decimal.Decimal) error {
	for id, doc := range r.s.orders {
		for i := range doc.Lines {
			if doc.Lines[i].ID == lineID {
				lines := append([]entity.PurchaseOrderLine(nil), doc.Lines...)
				lines[i].ReceivedQty = lines[i].ReceivedQty.Add(qty)
				doc.Lines = lines
				r.s.orders[id] = doc
				return nil
			}
		}
	}
	return fmt.Errorf("línea de orden no encontrada: %s", lineID)
}

func (r *orderRepo) ListBySupplier(_ context.Context, supplierID string, limit, offset int) ([]*entity.PurchaseOrder, error) {
	var out []*entity.PurchaseOrder
	for id := range r.s.orders {
		doc := r.s.orders[id]
		if doc.SupplierID == supplierID {
			cp := doc
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return paginate(out, limit, offset), nil
}

func (r *orderRepo) List(_ context.Context, limit, offset int) ([]*entity.PurchaseOrder, error) {
	var out []*entity.PurchaseOrder
	for id := range r.s.orders {
		doc := r.s.orders[id]
		cp := doc
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return paginate(out, limit, offset), nil
}

type receiptRepo struct{ s *Store }

func (r *receiptRepo) Create(_ context.Context, doc *entity.PurchaseReceipt) error {
	cp := *doc
	cp.Lines = append([]entity.PurchaseReceiptLine(nil), doc.Lines...)
	r.s.receipts[doc.ID] = cp
	return nil
}

func (r *receiptRepo) GetByID(_ context.Context, id string) (*entity.PurchaseReceipt, error) {
	doc, ok := r.s.receipts[id]
	if !ok {
		return nil, nil
	}
	cp := doc
	return &cp, nil
}

func (r *receiptRepo) ListByOrder(_ context.Context, orderID string) ([]*entity.PurchaseReceipt, error) {
	var out []*entity.PurchaseReceipt
	for id := range r.s.receipts {
		doc := r.s.receipts[id]
		if doc.OrderID == orderID {
			cp := doc
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

type returnRepo struct{ s *Store }

func (r *returnRepo) Create(_ context.Context, doc *entity.PurchaseReturn) error {
	cp := *doc
	cp.Lines = append([]entity.PurchaseReturnLine(nil), doc.Lines...)
	r.s.returns[doc.ID] = cp
	return nil
}

func (r *returnRepo) GetByID(_ context.Context, id string) (*entity.PurchaseReturn, error) {
	doc, ok := r.s.returns[id]
	if !ok {
		return nil, nil
	}
	cp := doc
	cp.Lines = append([]entity.PurchaseReturnLine(nil), doc.Lines...)
	return &cp, nil
}

func (r *returnRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseReturn, error) {
	return r.GetByID(ctx, id)
}

func (r *returnRepo) UpdateStatus(_ context.Context, id string, status entity.PurchaseReturnStatus) error {
	doc, ok := r.s.returns[id]
	if !ok {
		return fmt.Errorf("devolución no encontrada: %s", id)
	}
	doc.Status = status
	doc.UpdatedAt = time.Now()
	r.s.returns[id] = doc
	return nil
}

func (r *returnRepo) List(_ context.Context, limit, offset int) ([]*entity.PurchaseReturn, error) {
	var out []*entity.PurchaseReturn
	for id := range r.s.returns {
		doc := r.s.returns[id]
		cp := doc
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return paginate(out, limit, offset), nil
}

type countRepo struct{ s *Store }

func (r *countRepo) Create(_ context.Context, doc *entity.StockCount) error {
	cp := *doc
	cp.Lines = append([]entity.StockCountLine(nil), doc.Lines...)
	r.s.counts[doc.ID] = cp
	return nil
}

func (r *countRepo) GetByID(_ context.Context, id string) (*entity.StockCount, error) {
	doc, ok := r.s.counts[id]
	if !ok {
		return nil, nil
	}
	cp := doc
	cp.Lines = append([]entity.StockCountLine(nil), doc.Lines...)
	return &cp, nil
}

func (r *countRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockCount, error) {
	return r.GetByID(ctx, id)
}

func (r *countRepo) UpdateStatus(_ context.Context, id string, status entity.StockCountStatus) error {
	doc, ok := r.s.counts[id]
	if !ok {
		return fmt.Errorf("conteo no encontrado: %s", id)
	}
	doc.Status = status
	doc.UpdatedAt = time.Now()
	r.s.counts[id] = doc
	return nil
}

func (r *countRepo) UpdateLineCount(_ context.Context, line *entity.StockCountLine) error {
	doc, ok := r.s.counts[line.CountID]
	if !ok {
		return fmt.Errorf("conteo no encontrado: %s", line.CountID)
	}
	lines := append([]entity.StockCountLine(nil), doc.Lines...)
	for i := range lines {
		if lines[i].ID == line.ID {
			lines[i] = *line
			doc.Lines = lines
			r.s.counts[line.CountID] = doc
			return nil
		}
	}
	return fmt.Errorf("línea de conteo no encontrada: %s", line.ID)
}

func (r *countRepo) ListByWarehouse(_ context.Context, warehouseID string, limit, offset int) ([]*entity.StockCount, error) {
	var out []*entity.StockCount
	for id := range r.s.counts {
		doc := r.s.counts[id]
		if doc.WarehouseID == warehouseID {
			cp := doc
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return paginate(out, limit, offset), nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
