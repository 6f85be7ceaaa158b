package adjustment

import (
	"context"
	"sort"
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

// DocumentType prefijo de numeración para documentos de ajuste.
const DocumentType = "ADJ"

// UseCase flujo de ajustes manuales de inventario. El documento se crea y se
// aplica en una sola transacción: todas las líneas se validan antes de mutar
// cualquiera y un fallo en una línea rechaza el lote completo.
type UseCase struct {
	txRunner    ledger.TxRunner
	ledger      *ledger.Ledger
	adjustments repository.AdjustmentRepository // atado al pool, solo lecturas
	products    repository.ProductRepository
	warehouses  repository.WarehouseRepository
	publisher   events.Publisher
	log         *logger.Logger
}

// NewUseCase construye el flujo de ajustes.
func NewUseCase(
	txRunner ledger.TxRunner,
	ldg *ledger.Ledger,
	adjustments repository.AdjustmentRepository,
	products repository.ProductRepository,
	warehouses repository.WarehouseRepository,
	publisher events.Publisher,
	log *logger.Logger,
) *UseCase {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &UseCase{
		txRunner:    txRunner,
		ledger:      ldg,
		adjustments: adjustments,
		products:    products,
		warehouses:  warehouses,
		publisher:   publisher,
		log:         log,
	}
}

// LineInput línea de ajuste: delta con signo por producto.
type LineInput struct {
	ProductID string
	Delta     decimal.Decimal
	Notes     string
}

// CreateInput entrada para crear (y aplicar) un ajuste.
type CreateInput struct {
	WarehouseID string
	Reason      string
	Lines       []LineInput
	Actor       string
}

// Create valida todas las líneas, y dentro de una transacción bloquea las filas
// de stock en orden determinista, verifica que ninguna línea deje cantidad
// negativa y aplica cada una vía el ledger (ADJUST_IN/ADJUST_OUT). Devuelve el
// documento con su número generado.
func (uc *UseCase) Create(ctx context.Context, in CreateInput) (*entity.Adjustment, error) {
	if in.WarehouseID == "" || in.Reason == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	productIDs := make([]string, 0, len(in.Lines))
	for _, l := range in.Lines {
		if l.ProductID == "" || l.Delta.IsZero() {
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
	var doc *entity.Adjustment

	err = uc.txRunner.Run(ctx, func(r ledger.Repos) error {
		doc, err = uc.PostInTx(ctx, r, in, "", "", now)
		return err
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("warehouse_id", in.WarehouseID).Msg("ajuste rechazado")
		return nil, err
	}

	uc.log.Info().Str("number", doc.Number).Int("lines", len(doc.Lines)).Msg("ajuste aplicado")
	net := decimal.Zero
	for _, l := range doc.Lines {
		net = net.Add(l.Delta)
	}
	uc.publisher.Publish(ctx, events.Event{
		Type:        events.TypeAdjustmentPosted,
		DocumentNo:  doc.Number,
		WarehouseID: doc.WarehouseID,
		Quantity:    net,
		Actor:       in.Actor,
		OccurredAt:  now,
	})
	return doc, nil
}

// PostInTx aplica un ajuste usando los repositorios de la transacción del
// llamante (patrón usado por el conteo físico para ajustar varianzas dentro de
// su propia transacción). Si refType/refNo vienen vacíos, los movimientos
// referencian el propio número del ajuste.
func (uc *UseCase) PostInTx(
	ctx context.Context,
	r ledger.Repos,
	in CreateInput,
	refType, refNo string,
	now time.Time,
) (*entity.Adjustment, error) {
	number, err := r.Sequences.Next(ctx, DocumentType, now)
	if err != nil {
		return nil, err
	}
	if refType == "" {
		refType = entity.ReferenceTypeAdjustment
		refNo = number
	}

	// Bloqueo en orden de producto: evita interbloqueos entre ajustes
	// concurrentes que comparten claves.
	ordered := make([]LineInput, len(in.Lines))
	copy(ordered, in.Lines)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ProductID < ordered[j].ProductID })

	// Primera pasada: validar todas las líneas sobre filas ya bloqueadas.
	for _, l := range ordered {
		if _, err := uc.ledger.Preview(ctx, r.Stock, l.ProductID, in.WarehouseID, l.Delta); err != nil {
			return nil, err
		}
	}
	// Segunda pasada: aplicar todas.
	for _, l := range ordered {
		movType := entity.MovementTypeAdjustIn
		if l.Delta.LessThan(decimal.Zero) {
			movType = entity.MovementTypeAdjustOut
		}
		if _, err := uc.ledger.Mutate(ctx, r.Stock, r.Movements, ledger.MutationInput{
			ProductID:     l.ProductID,
			WarehouseID:   in.WarehouseID,
			Delta:         l.Delta,
			Type:          movType,
			ReferenceType: refType,
			ReferenceNo:   refNo,
			Actor:         in.Actor,
			At:            now,
		}); err != nil {
			return nil, err
		}
	}

	doc := &entity.Adjustment{
		ID:          uuid.New().String(),
		Number:      number,
		WarehouseID: in.WarehouseID,
		Reason:      in.Reason,
		CreatedAt:   now,
		CreatedBy:   in.Actor,
	}
	for _, l := range in.Lines {
		doc.Lines = append(doc.Lines, entity.AdjustmentLine{
			ID:           uuid.New().String(),
			AdjustmentID: doc.ID,
			ProductID:    l.ProductID,
			Delta:        l.Delta,
			Notes:        l.Notes,
		})
	}
	if err := r.Adjustments.Create(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// GetByID devuelve un ajuste con sus líneas.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*entity.Adjustment, error) {
	doc, err := uc.adjustments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.NewNotFound("ajuste", id)
	}
	return doc, nil
}

// ListByWarehouse lista los ajustes de una bodega, paginados.
func (uc *UseCase) ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.Adjustment, error) {
	if warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.adjustments.ListByWarehouse(ctx, warehouseID, limit, offset)
}
