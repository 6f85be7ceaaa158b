package procurement

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/trastienda-api/internal/application/ledger"
	"github.com/jhoicas/trastienda-api/internal/domain"
	"github.com/jhoicas/trastienda-api/internal/domain/entity"
)

// ReturnLineInput línea de devolución a proveedor.
type ReturnLineInput struct {
	ProductID string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// CreateReturnInput entrada para crear una devolución.
type CreateReturnInput struct {
	SupplierID  string
	WarehouseID string
	Reason      string
	Lines       []ReturnLineInput
	Actor       string
}

// CreateReturn crea la devolución en estado PENDING.
func (uc *UseCase) CreateReturn(ctx context.Context, in CreateReturnInput) (*entity.PurchaseReturn, error) {
	if in.SupplierID == "" || in.WarehouseID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	productIDs := make([]string, 0, len(in.Lines))
	for _, l := range in.Lines {
		if l.ProductID == "" || !l.Quantity.GreaterThan(decimal.Zero) || l.UnitPrice.LessThan(decimal.Zero) {
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
	var doc *entity.PurchaseReturn
	err = uc.txRunner.Run(ctx, func(r ledger.Repos) error {
		number, err := r.Sequences.Next(ctx, ReturnDocumentType, now)
		if err != nil {
			return err
		}
		doc = &entity.PurchaseReturn{
			ID:          uuid.New().String(),
			Number:      number,
			SupplierID:  in.SupplierID,
			WarehouseID: in.WarehouseID,
			Status:      entity.PurchaseReturnStatusPending,
			Reason:      in.Reason,
			CreatedAt:   now,
			UpdatedAt:   now,
			CreatedBy:   in.Actor,
		}
		for _, l := range in.Lines {
			doc.Lines = append(doc.Lines, entity.PurchaseReturnLine{
				ID:        uuid.New().String(),
				ReturnID:  doc.ID,
				ProductID: l.ProductID,
				Quantity:  l.Quantity,
				UnitPrice: l.UnitPrice,
			})
		}
		return r.Returns.Create(ctx, doc)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("number", doc.Number).Msg("devolución creada")
	return doc, nil
}

// ApproveReturn transición PENDING → APPROVED.
func (uc *UseCase) ApproveReturn(ctx context.Context, id string) error {
	return uc.returnTransition(ctx, id, entity.PurchaseReturnStatusApproved, nil)
}

// CompleteReturn transición APPROVED → COMPLETED. Debita cada línea del ledger
// (RETURN_OUT); un registro de inventario ausente o insuficiente hace fallar la
// devolución completa en lugar de omitir la línea.
func (uc *UseCase) CompleteReturn(ctx context.Context, id, actor string) error {
	now := time.Now()
	return uc.returnTransition(ctx, id, entity.PurchaseReturnStatusCompleted, func(r ledger.Repos, doc *entity.PurchaseReturn) error {
		lines := make([]entity.PurchaseReturnLine, len(doc.Lines))
		copy(lines, doc.Lines)
		sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })

		for _, l := range lines {
			if _, err := uc.ledger.Preview(ctx, r.Stock, l.ProductID, doc.WarehouseID, l.Quantity.Neg()); err != nil {
				return err
			}
		}
		for _, l := range lines {
			if _, err := uc.ledger.Mutate(ctx, r.Stock, r.Movements, ledger.MutationInput{
				ProductID:     l.ProductID,
				WarehouseID:   doc.WarehouseID,
				Delta:         l.Quantity.Neg(),
				Type:          entity.MovementTypeReturnOut,
				ReferenceType: entity.ReferenceTypeReturn,
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

// CancelReturn transición terminal desde PENDING o APPROVED.
func (uc *UseCase) CancelReturn(ctx context.Context, id string) error {
	return uc.returnTransition(ctx, id, entity.PurchaseReturnStatusCancelled, nil)
}

// GetReturn devuelve la devolución con sus líneas.
func (uc *UseCase) GetReturn(ctx context.Context, id string) (*entity.PurchaseReturn, error) {
	doc, err := uc.returns.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.NewNotFound("devolución", id)
	}
	return doc, nil
}

// ListReturns lista devoluciones paginadas.
func (uc *UseCase) ListReturns(ctx context.Context, limit, offset int) ([]*entity.PurchaseReturn, error) {
	return uc.returns.List(ctx, limit, offset)
}

// returnTransition transición de estado de la devolución con el documento
// bloqueado dentro de la misma transacción que la acción asociada.
func (uc *UseCase) returnTransition(
	ctx context.Context,
	id string,
	target entity.PurchaseReturnStatus,
	apply func(r ledger.Repos, doc *entity.PurchaseReturn) error,
) error {
	err := uc.txRunner.Run(ctx, func(r ledger.Repos) error {
		doc, err := r.Returns.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.NewNotFound("devolución", id)
		}
		if !doc.Status.CanTransitionTo(target) {
			return domain.NewStateTransition("devolución", doc.Number, doc.Status.String(), target.String())
		}
		if apply != nil {
			if err := apply(r, doc); err != nil {
				return err
			}
		}
		return r.Returns.UpdateStatus(ctx, id, target)
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("return_id", id).Str("target", target.String()).Msg("transición de devolución rechazada")
		return err
	}
	uc.log.Info().Str("return_id", id).Str("status", target.String()).Msg("devolución actualizada")
	return nil
}
