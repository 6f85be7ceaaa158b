package transfer

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

// DocumentType prefijo de numeración para traslados.
const DocumentType = "TRF"

// UseCase flujo de traslados entre bodegas. El envío debita la bodega origen
// (TRANSFER_OUT) y la recepción acredita la destino (TRANSFER_IN); una vez
// COMPLETED, lo debitado es igual a lo acreditado para el documento.
type UseCase struct {
	txRunner   ledger.TxRunner
	ledger     *ledger.Ledger
	transfers  repository.TransferRepository // atado al pool, solo lecturas
	products   repository.ProductRepository
	warehouses repository.WarehouseRepository
	publisher  events.Publisher
	log        *logger.Logger
}

// NewUseCase construye el flujo de traslados.
func NewUseCase(
	txRunner ledger.TxRunner,
	ldg *ledger.Ledger,
	transfers repository.TransferRepository,
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
		transfers:  transfers,
		products:   products,
		warehouses: warehouses,
		publisher:  publisher,
		log:        log,
	}
}

// LineInput línea de traslado: cantidad solicitada por producto.
type LineInput struct {
	ProductID    string
	RequestedQty decimal.Decimal
}

// CreateInput entrada para crear un traslado en borrador.
type CreateInput struct {
	FromWarehouseID string
	ToWarehouseID   string
	Notes           string
	Lines           []LineInput
	Actor           string
}

// Create crea el traslado en estado DRAFT. Rechaza origen igual a destino.
func (uc *UseCase) Create(ctx context.Context, in CreateInput) (*entity.Transfer, error) {
	if in.FromWarehouseID == "" || in.ToWarehouseID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.FromWarehouseID == in.ToWarehouseID {
		return nil, domain.ErrInvalidTransfer
	}
	productIDs := make([]string, 0, len(in.Lines))
	for _, l := range in.Lines {
		if l.ProductID == "" || !l.RequestedQty.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		productIDs = append(productIDs, l.ProductID)
	}
	for _, whID := range []string{in.FromWarehouseID, in.ToWarehouseID} {
		wh, err := uc.warehouses.GetByID(ctx, whID)
		if err != nil {
			return nil, err
		}
		if wh == nil {
			return nil, domain.NewNotFound("bodega", whID)
		}
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
	var doc *entity.Transfer
	err = uc.txRunner.Run(ctx, func(r ledger.Repos) error {
		number, err := r.Sequences.Next(ctx, DocumentType, now)
		if err != nil {
			return err
		}
		doc = &entity.Transfer{
			ID:              uuid.New().String(),
			Number:          number,
			FromWarehouseID: in.FromWarehouseID,
			ToWarehouseID:   in.ToWarehouseID,
			Status:          entity.TransferStatusDraft,
			Notes:           in.Notes,
			CreatedAt:       now,
			UpdatedAt:       now,
			CreatedBy:       in.Actor,
		}
		for _, l := range in.Lines {
			doc.Lines = append(doc.Lines, entity.TransferLine{
				ID:           uuid.New().String(),
				TransferID:   doc.ID,
				ProductID:    l.ProductID,
				RequestedQty: l.RequestedQty,
			})
		}
		return r.Transfers.Create(ctx, doc)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("number", doc.Number).Msg("traslado creado")
	return doc, nil
}

// Approve transición DRAFT → APPROVED.
func (uc *UseCase) Approve(ctx context.Context, id string) error {
	return uc.transition(ctx, id, entity.TransferStatusApproved, nil)
}

// Ship transición APPROVED → IN_TRANSIT. Debita cada línea en la bodega
// origen (TRANSFER_OUT); si alguna línea no tiene stock suficiente no se
// aplica ninguna.
func (uc *UseCase) Ship(ctx context.Context, id, actor string) error {
	now := time.Now()
	return uc.transition(ctx, id, entity.TransferStatusInTransit, func(r ledger.Repos, doc *entity.Transfer) error {
		lines := sortedLines(doc.Lines)
		// Validar todas las líneas con las filas bloqueadas antes de debitar.
		for _, l := range lines {
			if _, err := uc.ledger.Preview(ctx, r.Stock, l.ProductID, doc.FromWarehouseID, l.RequestedQty.Neg()); err != nil {
				return err
			}
		}
		for _, l := range lines {
			if _, err := uc.ledger.Mutate(ctx, r.Stock, r.Movements, ledger.MutationInput{
				ProductID:     l.ProductID,
				WarehouseID:   doc.FromWarehouseID,
				Delta:         l.RequestedQty.Neg(),
				Type:          entity.MovementTypeTransferOut,
				ReferenceType: entity.ReferenceTypeTransfer,
				ReferenceNo:   doc.Number,
				Actor:         actor,
				At:            now,
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

// Receive transición IN_TRANSIT → COMPLETED. Acredita cada línea en la bodega
// destino (TRANSFER_IN) por la misma cantidad debitada en el envío.
func (uc *UseCase) Receive(ctx context.Context, id, actor string) error {
	now := time.Now()
	var completed *entity.Transfer
	err := uc.transition(ctx, id, entity.TransferStatusCompleted, func(r ledger.Repos, doc *entity.Transfer) error {
		for _, l := range sortedLines(doc.Lines) {
			if _, err := uc.ledger.Mutate(ctx, r.Stock, r.Movements, ledger.MutationInput{
				ProductID:     l.ProductID,
				WarehouseID:   doc.ToWarehouseID,
				Delta:         l.RequestedQty,
				Type:          entity.MovementTypeTransferIn,
				ReferenceType: entity.ReferenceTypeTransfer,
				ReferenceNo:   doc.Number,
				Actor:         actor,
				At:            now,
			}); err != nil {
				return err
			}
		}
		completed = doc
		return nil
	})
	if err != nil {
		return err
	}

	total := decimal.Zero
	for _, l := range completed.Lines {
		total = total.Add(l.RequestedQty)
	}
	uc.publisher.Publish(ctx, events.Event{
		Type:        events.TypeTransferCompleted,
		DocumentNo:  completed.Number,
		WarehouseID: completed.ToWarehouseID,
		Quantity:    total,
		Actor:       actor,
		OccurredAt:  now,
	})
	return nil
}

// Cancel transición terminal desde DRAFT o APPROVED. Un traslado IN_TRANSIT
// no admite cancelación: el débito de salida ya quedó aplicado y el documento
// debe completarse con la recepción.
func (uc *UseCase) Cancel(ctx context.Context, id string) error {
	return uc.transition(ctx, id, entity.TransferStatusCancelled, nil)
}

// GetByID devuelve el traslado con sus líneas.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*entity.Transfer, error) {
	doc, err := uc.transfers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.NewNotFound("traslado", id)
	}
	return doc, nil
}

// List lista traslados paginados.
func (uc *UseCase) List(ctx context.Context, limit, offset int) ([]*entity.Transfer, error) {
	return uc.transfers.List(ctx, limit, offset)
}

// transition ejecuta una transición de estado dentro de una transacción:
// relee el documento con bloqueo, valida la transición contra la tabla del
// estado, corre la acción asociada (si la hay) y persiste el nuevo estado.
func (uc *UseCase) transition(
	ctx context.Context,
	id string,
	target entity.TransferStatus,
	apply func(r ledger.Repos, doc *entity.Transfer) error,
) error {
	err := uc.txRunner.Run(ctx, func(r ledger.Repos) error {
		doc, err := r.Transfers.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.NewNotFound("traslado", id)
		}
		if !doc.Status.CanTransitionTo(target) {
			return domain.NewStateTransition("traslado", doc.Number, doc.Status.String(), target.String())
		}
		if apply != nil {
			if err := apply(r, doc); err != nil {
				return err
			}
		}
		return r.Transfers.UpdateStatus(ctx, id, target)
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("transfer_id", id).Str("target", target.String()).Msg("transición de traslado rechazada")
		return err
	}
	uc.log.Info().Str("transfer_id", id).Str("status", target.String()).Msg("traslado actualizado")
	return nil
}

// sortedLines devuelve las líneas ordenadas por producto para bloquear filas
// de stock en orden determinista.
func sortedLines(lines []entity.TransferLine) []entity.TransferLine {
	out := make([]entity.TransferLine, len(lines))
	copy(out, lines)
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}
