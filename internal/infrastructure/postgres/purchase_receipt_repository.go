package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/trastienda-api/internal/domain"
	"github.com/jhoicas/trastienda-api/internal/domain/entity"
	"github.com/jhoicas/trastienda-api/internal/domain/repository"
)

var _ repository.PurchaseReceiptRepository = (*PurchaseReceiptRepo)(nil)

// PurchaseReceiptRepo persistencia de recepciones (inmutables) sobre
// PostgreSQL (usable con pool o tx). Solo inserción y lectura.
type PurchaseReceiptRepo struct {
	q Querier
}

// NewPurchaseReceiptRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseReceiptRepository(q Querier) *PurchaseReceiptRepo {
	return &PurchaseReceiptRepo{q: q}
}

// Create persiste la recepción y sus líneas.
func (r *PurchaseReceiptRepo) Create(ctx context.Context, rec *entity.PurchaseReceipt) error {
	query := `
		INSERT INTO purchase_receipts (id, number, order_id, notes, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.q.Exec(ctx, query, rec.ID, rec.Number, rec.OrderID, rec.Notes, rec.CreatedAt, rec.CreatedBy); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateDocumentNumber
		}
		return fmt.Errorf("create purchase receipt: %w", err)
	}
	lineQuery := `
		INSERT INTO purchase_receipt_lines (id, receipt_id, po_item_id, arrived_qty, received_qty, rejected_qty, reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for _, l := range rec.Lines {
		if _, err := r.q.Exec(ctx, lineQuery, l.ID, rec.ID, l.POItemID, l.ArrivedQty, l.ReceivedQty, l.RejectedQty, l.Reason); err != nil {
			return fmt.Errorf("create purchase receipt line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la recepción con sus líneas; nil si no existe.
func (r *PurchaseReceiptRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseReceipt, error) {
	query := `
		SELECT id, number, order_id, notes, created_at, created_by
		FROM purchase_receipts WHERE id = $1`
	var rec entity.PurchaseReceipt
	err := r.q.QueryRow(ctx, query, id).Scan(&rec.ID, &rec.Number, &rec.OrderID, &rec.Notes, &rec.CreatedAt, &rec.CreatedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase receipt: %w", err)
	}
	if err := r.loadLines(ctx, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListByOrder lista las recepciones registradas para una orden, en orden de llegada.
func (r *PurchaseReceiptRepo) ListByOrder(ctx context.Context, orderID string) ([]*entity.PurchaseReceipt, error) {
	query := `
		SELECT id, number, order_id, notes, created_at, created_by
		FROM purchase_receipts WHERE order_id = $1 ORDER BY created_at ASC`
	rows, err := r.q.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list receipts by order: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseReceipt
	for rows.Next() {
		var rec entity.PurchaseReceipt
		if err := rows.Scan(&rec.ID, &rec.Number, &rec.OrderID, &rec.Notes, &rec.CreatedAt, &rec.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan purchase receipt: %w", err)
		}
		list = append(list, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, rec := range list {
		if err := r.loadLines(ctx, rec); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *PurchaseReceiptRepo) loadLines(ctx context.Context, rec *entity.PurchaseReceipt) error {
	query := `
		SELECT id, receipt_id, po_item_id, arrived_qty, received_qty, rejected_qty, reason
		FROM purchase_receipt_lines WHERE receipt_id = $1 ORDER BY po_item_id`
	rows, err := r.q.Query(ctx, query, rec.ID)
	if err != nil {
		return fmt.Errorf("load purchase receipt lines: %w", err)
	}
	defer rows.Close()
	rec.Lines = nil
	for rows.Next() {
		var l entity.PurchaseReceiptLine
		if err := rows.Scan(&l.ID, &l.ReceiptID, &l.POItemID, &l.ArrivedQty, &l.ReceivedQty, &l.RejectedQty, &l.Reason); err != nil {
			return fmt.Errorf("scan purchase receipt line: %w", err)
		}
		rec.Lines = append(rec.Lines, l)
	}
	return rows.Err()
}
