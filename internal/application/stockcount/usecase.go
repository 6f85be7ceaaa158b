package stockcount

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/trastienda-api/internal/application/adjustment"
	"github.com/jhoicas/trastienda-api/internal/application/ledger"
	"github.com/jhoicas/trastienda-api/internal/domain"
	"github.com/jhoicas/trastienda-api/internal/domain/entity"
	"github.com/jhoicas/trastienda-api/internal/domain/repository"
	"github.com/jhoicas/trastienda-api/pkg/logger"
)

// DocumentType prefijo de numeración para conteos físicos.
const DocumentType = "CNT"

// UseCase flujo de conteo físico de inventario: congela las cantidades de
// sistema al crear, registra lo contado y al completar ajusta las varianzas
// delegando en el flujo de ajustes, todo dentro de una transacción.
type UseCase struct {
	txRunner    ledger.TxRunner
	ledger      *ledger.Ledger
	adjustments *adjustment.UseCase
	counts      repository.StockCountRepository // atado al pool, solo lecturas
	warehouses  repository.WarehouseRepository
	products    repository.ProductRepository
	log         *logger.Logger
}

// NewUseCase construye el flujo de conteos.
func NewUseCase(
	txRunner ledger.TxRunner,
	ldg *ledger.Ledger,
	adjustments *adjustment.UseCase,
	counts repository.StockCountRepository,
	warehouses repository.WarehouseRepository,
	products repository.ProductRepository,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		txRunner:    txRunner,
		ledger:      ldg,
		adjustments: adjustments,
		counts:      counts,
		warehouses:  warehouses,
		products:    products,
		log:         log,
	}
}

// CreateInput entrada para crear un conteo. Si ProductIDs viene vacío, las
// líneas se generan desde todas las existencias de la bodega.
type CreateInput struct {
	WarehouseID string
	Scope       string
	ProductIDs  []string
	Actor       string
}

// Create crea el conteo en DRAFT congelando la cantidad de sistema por línea.
func (uc *UseCase) Create(ctx context.Context, in CreateInput) (*entity.StockCount, error) {
	if in.WarehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	wh, err := uc.warehouses.GetByID(ctx, in.WarehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, domain.NewNotFound("bodega", in.WarehouseID)
	}
	if len(in.ProductIDs) > 0 {
		found, err := uc.products.GetByIDs(ctx, in.ProductIDs)
		if err != nil {
			return nil, err
		}
		for _, id := range in.ProductIDs {
			if found[id] == nil {
				return nil, domain.NewNotFound("producto", id)
			}
		}
	}

	now := time.Now()
	var doc *entity.StockCount
	err = uc.txRunner.Run(ctx, func(r ledger.Repos) error {
		number, err := r.Sequences.Next(ctx, DocumentType, now)
		if err != nil {
			return err
		}
		doc = &entity.StockCount{
			ID:          uuid.New().String(),
			Number:      number,
			WarehouseID: in.WarehouseID,
			Scope:       in.Scope,
			Status:      entity.StockCountStatusDraft,
			CreatedAt:   now,
			UpdatedAt:   now,
			CreatedBy:   in.Actor,
		}

		// Congela la cantidad de sistema por producto dentro de la transacción.
		productIDs := in.ProductIDs
		if len(productIDs) == 0 {
			stocks, err := r.Stock.ListByWarehouse(ctx, in.WarehouseID)
			if err != nil {
				return err
			}
			for _, s := range stocks {
				productIDs = append(productIDs, s.ProductID)
			}
		}
		for _, pid := range productIDs {
			stock, err := r.Stock.Get(ctx, pid, in.WarehouseID)
			if err != nil {
				return err
			}
			systemQty := decimal.Zero
			if stock != nil {
				systemQty = stock.Quantity
			}
			doc.Lines = append(doc.Lines, entity.StockCountLine{
				ID:        uuid.New().String(),
				CountID:   doc.ID,
				ProductID: pid,
				SystemQty: systemQty,
			})
		}
		return r.Counts.Create(ctx, doc)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("number", doc.Number).Int("lines", len(doc.Lines)).Msg("conteo creado")
	return doc, nil
}

// Start transición DRAFT → IN_PROGRESS; exige al menos una línea.
func (uc *UseCase) Start(ctx context.Context, id string) error {
	return uc.transition(ctx, id, entity.StockCountStatusInProgress, func(_ ledger.Repos, doc *entity.StockCount) error {
		if len(doc.Lines) == 0 {
			return domain.ErrInvalidInput
		}
		return nil
	})
}

// RecordCount registra la cantidad contada de una línea. Solo con el conteo
// IN_PROGRESS; repetir la llamada sobreescribe el valor anterior sin duplicar
// el avance (idempotente por ítem).
func (uc *UseCase) RecordCount(ctx context.Context, countID, lineID string, countedQty decimal.Decimal, reason, actor string) error {
	if countedQty.LessThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	now := time.Now()
	err := uc.txRunner.Run(ctx, func(r ledger.Repos) error {
		doc, err := r.Counts.GetForUpdate(ctx, countID)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.NewNotFound("conteo", countID)
		}
		if !doc.Status.CanRecordCount() {
			return domain.NewStateTransition("conteo", doc.Number, doc.Status.String(), doc.Status.String())
		}
		var line *entity.StockCountLine
		for i := range doc.Lines {
			if doc.Lines[i].ID == lineID {
				line = &doc.Lines[i]
				break
			}
		}
		if line == nil {
			return domain.NewNotFound("línea de conteo", lineID)
		}
		line.CountedQty = countedQty
		line.VarianceQty = countedQty.Sub(line.SystemQty)
		line.Counted = true
		line.Reason = reason
		line.CountedBy = actor
		line.CountedAt = &now
		return r.Counts.UpdateLineCount(ctx, line)
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("count_id", countID).Str("line_id", lineID).Msg("registro de conteo rechazado")
	}
	return err
}

// Submit transición IN_PROGRESS → PENDING_REVIEW (revisión previa opcional).
func (uc *UseCase) Submit(ctx context.Context, id string) error {
	return uc.transition(ctx, id, entity.StockCountStatusPendingReview, nil)
}

// Complete cierra el conteo. Exige que todas las líneas estén contadas; por
// cada varianza distinta de cero delega en el flujo de ajustes (un documento
// de ajuste referenciando el número del conteo) dentro de la misma
// transacción. Re-completar un conteo COMPLETED se rechaza, nunca se reaplica.
func (uc *UseCase) Complete(ctx context.Context, id, actor string) error {
	now := time.Now()
	return uc.transition(ctx, id, entity.StockCountStatusCompleted, func(r ledger.Repos, doc *entity.StockCount) error {
		if doc.CountedLines() != doc.TotalLines() {
			return fmt.Errorf("%w: %d de %d líneas contadas", domain.ErrIncompleteCount, doc.CountedLines(), doc.TotalLines())
		}
		var lines []adjustment.LineInput
		for _, l := range doc.Lines {
			if l.VarianceQty.IsZero() {
				continue
			}
			lines = append(lines, adjustment.LineInput{
				ProductID: l.ProductID,
				Delta:     l.VarianceQty,
				Notes:     l.Reason,
			})
		}
		if len(lines) == 0 {
			return nil // conteo sin varianzas: solo cierra el documento
		}
		_, err := uc.adjustments.PostInTx(ctx, r, adjustment.CreateInput{
			WarehouseID: doc.WarehouseID,
			Reason:      "varianza de conteo físico " + doc.Number,
			Lines:       lines,
			Actor:       actor,
		}, entity.ReferenceTypeStockCount, doc.Number, now)
		return err
	})
}

// Cancel transición terminal desde cualquier estado no terminal.
func (uc *UseCase) Cancel(ctx context.Context, id string) error {
	return uc.transition(ctx, id, entity.StockCountStatusCancelled, nil)
}

// GetByID devuelve el conteo con sus líneas.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*entity.StockCount, error) {
	doc, err := uc.counts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.NewNotFound("conteo", id)
	}
	return doc, nil
}

// ListByWarehouse lista conteos de una bodega paginados.
func (uc *UseCase) ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.StockCount, error) {
	return uc.counts.ListByWarehouse(ctx, warehouseID, limit, offset)
}

// transition transición de estado con el documento bloqueado en la misma
// transacción que la acción asociada.
func (uc *UseCase) transition(
	ctx context.Context,
	id string,
	target entity.StockCountStatus,
	apply func(r ledger.Repos, doc *entity.StockCount) error,
) error {
	err := uc.txRunner.Run(ctx, func(r ledger.Repos) error {
		doc, err := r.Counts.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.NewNotFound("conteo", id)
		}
		if !doc.Status.CanTransitionTo(target) {
			return domain.NewStateTransition("conteo", doc.Number, doc.Status.String(), target.String())
		}
		if apply != nil {
			if err := apply(r, doc); err != nil {
				return err
			}
		}
		return r.Counts.UpdateStatus(ctx, id, target)
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("count_id", id).Str("target", target.String()).Msg("transición de conteo rechazada")
		return err
	}
	uc.log.Info().Str("count_id", id).Str("status", target.String()).Msg("conteo actualizado")
	return nil
}
