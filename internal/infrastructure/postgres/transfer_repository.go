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

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo persistencia de traslados sobre PostgreSQL (usable con pool o tx).
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

const transferColumns = `id, number, from_warehouse_id, to_warehouse_id, status, notes,
	created_at, updated_at, created_by`

// Create persiste el traslado y sus líneas.
func (r *TransferRepo) Create(ctx context.Context, t *entity.Transfer) error {
	query := `
		INSERT INTO transfers (` + transferColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	if _, err := r.q.Exec(ctx, query,
		t.ID, t.Number, t.FromWarehouseID, t.ToWarehouseID, t.Status, t.Notes,
		t.CreatedAt, t.UpdatedAt, t.CreatedBy); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateDocumentNumber
		}
		return fmt.Errorf("create transfer: %w", err)
	}
	lineQuery := `
		INSERT INTO transfer_lines (id, transfer_id, product_id, requested_qty)
		VALUES ($1, $2, $3, $4)`
	for _, l := range t.Lines {
		if _, err := r.q.Exec(ctx, lineQuery, l.ID, t.ID, l.ProductID, l.RequestedQty); err != nil {
			return fmt.Errorf("create transfer line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene el traslado con sus líneas; nil si no existe.
func (r *TransferRepo) GetByID(ctx context.Context, id string) (*entity.Transfer, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate obtiene el traslado bloqueando la cabecera: la verificación de
// estado y la transición ocurren en la misma transacción.
func (r *TransferRepo) GetForUpdate(ctx context.Context, id string) (*entity.Transfer, error) {
	return r.get(ctx, id, true)
}

func (r *TransferRepo) get(ctx context.Context, id string, forUpdate bool) (*entity.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}
	var t entity.Transfer
	err := r.q.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.Number, &t.FromWarehouseID, &t.ToWarehouseID, &t.Status, &t.Notes,
		&t.CreatedAt, &t.UpdatedAt, &t.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	if err := r.loadLines(ctx, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateStatus persiste la transición de estado.
func (r *TransferRepo) UpdateStatus(ctx context.Context, id string, status entity.TransferStatus) error {
	query := `UPDATE transfers SET status = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("update transfer status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("traslado", id)
	}
	return nil
}

// List lista traslados paginados, más recientes primero.
func (r *TransferRepo) List(ctx context.Context, limit, offset int) ([]*entity.Transfer, error) {
	query := `
		SELECT ` + transferColumns + `
		FROM transfers ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Transfer
	for rows.Next() {
		var t entity.Transfer
		if err := rows.Scan(&t.ID, &t.Number, &t.FromWarehouseID, &t.ToWarehouseID, &t.Status, &t.Notes,
			&t.CreatedAt, &t.UpdatedAt, &t.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		list = append(list, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, t := range list {
		if err := r.loadLines(ctx, t); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *TransferRepo) loadLines(ctx context.Context, t *entity.Transfer) error {
	query := `
		SELECT id, transfer_id, product_id, requested_qty
		FROM transfer_lines WHERE transfer_id = $1 ORDER BY product_id`
	rows, err := r.q.Query(ctx, query, t.ID)
	if err != nil {
		return fmt.Errorf("load transfer lines: %w", err)
	}
	defer rows.Close()
	t.Lines = nil
	for rows.Next() {
		var l entity.TransferLine
		if err := rows.Scan(&l.ID, &l.TransferID, &l.ProductID, &l.RequestedQty); err != nil {
			return fmt.Errorf("scan transfer line: %w", err)
		}
		t.Lines = append(t.Lines, l)
	}
	return rows.Err()
}
