package procurement

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
)

// ReceiptLineInput línea de recepción, referenciando una línea de la orden.
// Solo ReceivedQty entra al inventario; RejectedQty queda documentada.
type ReceiptLineInput struct {
	POItemID    string
	ArrivedQty  decimal.Decimal
	ReceivedQty decimal.Decimal
	RejectedQty decimal.Decimal
	Reason      string
}

// CreateReceiptInput entrada para registrar una recepción de compra.
type CreateReceiptInput struct {
	OrderID string
	Notes   string
	Lines   []ReceiptLineInput
	Actor   string
}

// CreateReceipt registra una recepción parcial o total de una orden APPROVED o
// PARTIAL. Valida cada línea contra lo pendiente de la orden antes de aplicar
// cualquiera; si alguna excede lo pendiente la recepción completa se rechaza.
// En una sola transacción: incrementa lo recibido por línea, acredita el
// ledger (PURCHASE_IN al precio de la línea) y recalcula el estado de la orden.
func (uc *UseCase) CreateReceipt(ctx context.Context, in CreateReceiptInput) (*entity.PurchaseReceipt, error) {
	if in.OrderID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, l := range in.Lines {
		if l.POItemID == "" || l.ReceivedQty.LessThan(decimal.Zero) ||
			l.RejectedQty.LessThan(decimal.Zero) || !l.ArrivedQty.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		if !l.ReceivedQty.Add(l.RejectedQty).Equal(l.ArrivedQty) {
			return nil, domain.ErrInvalidInput
		}
	}

	now := time.Now()
	var (
		doc      *entity.PurchaseReceipt
		order    *entity.PurchaseOrder
		received decimal.Decimal
	)

	err := uc.txRunner.Run(ctx, func(r ledger.Repos) error {
		var err error
		// Bloquea la cabecera de la orden: el chequeo de estado y lo pendiente
		// por línea se evalúan dentro de la misma transacción que los aplica.
		order, err = r.Orders.GetForUpdate(ctx, in.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.NewNotFound("orden de compra", in.OrderID)
		}
		if !order.Status.CanReceive() {
			return domain.NewStateTransition("orden de compra", order.Number,
				order.Status.String(), entity.PurchaseOrderStatusPartial.String())
		}

		lineByID := make(map[string]*entity.PurchaseOrderLine, len(order.Lines))
		for i := range order.Lines {
			lineByID[order.Lines[i].ID] = &order.Lines[i]
		}

		// Validar todas las líneas antes de aplicar cualquiera. Lo pedido se
		// acumula por línea de orden: varias líneas de recepción sobre el mismo
		// POItemID se validan contra lo pendiente en conjunto, no cada una por
		// separado.
		requested := make(map[string]decimal.Decimal, len(in.Lines))
		for _, l := range in.Lines {
			poLine := lineByID[l.POItemID]
			if poLine == nil {
				return domain.NewNotFound("línea de orden", l.POItemID)
			}
			total := requested[l.POItemID].Add(l.ReceivedQty)
			if total.GreaterThan(poLine.PendingQty()) {
				return &domain.QuantityExceedsPendingError{
					POItemID:  l.POItemID,
					Requested: total,
					Pending:   poLine.PendingQty(),
				}
			}
			requested[l.POItemID] = total
		}

		number, err := r.Sequences.Next(ctx, ReceiptDocumentType, now)
		if err != nil {
			return err
		}

		// Aplicar en orden de producto para bloquear stock de forma determinista.
		applied := make([]ReceiptLineInput, len(in.Lines))
		copy(applied, in.Lines)
		sort.Slice(applied, func(i, j int) bool {
			return lineByID[applied[i].POItemID].ProductID < lineByID[applied[j].POItemID].ProductID
		})
		received = decimal.Zero
		for _, l := range applied {
			poLine := lineByID[l.POItemID]
			if l.ReceivedQty.IsZero() {
				continue // llegada totalmente rechazada: no toca inventario
			}
			if err := r.Orders.AddLineReceivedQty(ctx, poLine.ID, l.ReceivedQty); err != nil {
				return err
			}
			poLine.ReceivedQty = poLine.ReceivedQty.Add(l.ReceivedQty)
			unitCost := poLine.UnitPrice
			if _, err := uc.ledger.Mutate(ctx, r.Stock, r.Movements, ledger.MutationInput{
				ProductID:     poLine.ProductID,
				WarehouseID:   order.WarehouseID,
				Delta:         l.ReceivedQty,
				Type:          entity.MovementTypePurchaseIn,
				ReferenceType: entity.ReferenceTypeReceipt,
				ReferenceNo:   number,
				UnitCost:      &unitCost,
				Actor:         in.Actor,
				At:            now,
			}); err != nil {
				return err
			}
			received = received.Add(l.ReceivedQty)
		}

		doc = &entity.PurchaseReceipt{
			ID:        uuid.New().String(),
			Number:    number,
			OrderID:   order.ID,
			Notes:     in.Notes,
			CreatedAt: now,
			CreatedBy: in.Actor,
		}
		for _, l := range in.Lines {
			doc.Lines = append(doc.Lines, entity.PurchaseReceiptLine{
				ID:          uuid.New().String(),
				ReceiptID:   doc.ID,
				POItemID:    l.POItemID,
				ArrivedQty:  l.ArrivedQty,
				ReceivedQty: l.ReceivedQty,
				RejectedQty: l.RejectedQty,
				Reason:      l.Reason,
			})
		}
		if err := r.Receipts.Create(ctx, doc); err != nil {
			return err
		}

		// Recalcular el estado de la orden con las líneas ya actualizadas.
		if newStatus := order.DeriveStatus(); newStatus != order.Status {
			if err := r.Orders.UpdateStatus(ctx, order.ID, newStatus); err != nil {
				return err
			}
			order.Status = newStatus
		}
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("order_id", in.OrderID).Msg("recepción rechazada")
		return nil, err
	}

	uc.log.Info().
		Str("number", doc.Number).
		Str("order", order.Number).
		Str("order_status", order.Status.String()).
		Msg("recepción aplicada")
	uc.publisher.Publish(ctx, events.Event{
		Type:        events.TypePurchaseReceived,
		DocumentNo:  doc.Number,
		WarehouseID: order.WarehouseID,
		Quantity:    received,
		Actor:       in.Actor,
		OccurredAt:  now,
	})
	return doc, nil
}

// GetReceipt devuelve una recepción con sus líneas.
func (uc *UseCase) GetReceipt(ctx context.Context, id string) (*entity.PurchaseReceipt, error) {
	doc, err := uc.receipts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.NewNotFound("recepción", id)
	}
	return doc, nil
}

// ListReceiptsByOrder lista las recepciones registradas para una orden.
func (uc *UseCase) ListReceiptsByOrder(ctx context.Context, orderID string) ([]*entity.PurchaseReceipt, error) {
	return uc.receipts.ListByOrder(ctx, orderID)
}
