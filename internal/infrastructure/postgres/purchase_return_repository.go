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

var _ repository.PurchaseReturnRepository = (*PurchaseReturnRepo)(nil)

// PurchaseReturnRepo persistencia de devoluciones a proveedor sobre
// PostgreSQL (usable con pool o tx).
type PurchaseReturnRepo struct {
	q Querier
}

// NewPurchaseReturnRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseReturnRepository(q Querier) *PurchaseReturnRepo {
	return &PurchaseReturnRepo{q: q}
}

const returnColumns = `id, number, supplier_id, warehouse_id, status, reason,
	created_at, updated_at, created_by`

// Create persiste la devolución y sus líneas.
func (r *PurchaseReturnRepo) Create(ctx context.Context, ret *entity.PurchaseReturn) error {
	query := `
		INSERT INTO purchase_returns (` + returnColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	if _, err := r.q.Exec(ctx, query,
		ret.ID, ret.Number, ret.SupplierID, ret.WarehouseID, ret.Status, ret.Reason,
		ret.CreatedAt, ret.UpdatedAt, ret.CreatedBy); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateDocumentNumber
		}
		return fmt.Errorf("create purchase return: %w", err)
	}
	lineQuery := `
		INSERT INTO purchase_return_lines (id, return_id, product_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5)`
	for _, l := range ret.Lines {
		if _, err := r.q.Exec(ctx, lineQuery, l.ID, ret.ID, l.ProductID, l.Quantity, l.UnitPrice); err != nil {
			return fmt.Errorf("create purchase return line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la devolución con sus líneas; nil si no existe.
func (r *PurchaseReturnRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseReturn, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate obtiene la devolución bloqueando la cabecera.
func (r *PurchaseReturnRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseReturn, error) {
	return r.get(ctx, id, true)
}

func (r *PurchaseReturnRepo) get(ctx context.Context, id string, forUpdate bool) (*entity.PurchaseReturn, error) {
	query := `SELECT ` + returnColumns + ` FROM purchase_returns WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}
	var ret entity.PurchaseReturn
	err := r.q.QueryRow(ctx, query, id).Scan(
		&ret.ID, &ret.Number, &ret.SupplierID, &ret.WarehouseID, &ret.Status, &ret.Reason,
		&ret.CreatedAt, &ret.UpdatedAt, &ret.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase return: %w", err)
	}
	if err := r.loadLines(ctx, &ret); err != nil {
		return nil, err
	}
	return &ret, nil
}

// UpdateStatus persiste la transición de estado.
func (r *PurchaseReturnRepo) UpdateStatus(ctx context.Context, id string, status entity.PurchaseReturnStatus) error {
	query := `UPDATE purchase_returns SET status = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("update purchase return status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("devolución", id)
	}
	return nil
}

// List lista devoluciones paginadas, más recientes primero.
func (r *PurchaseReturnRepo) List(ctx context.Context, limit, offset int) ([]*entity.PurchaseReturn, error) {
	query := `
		SELECT ` + returnColumns + `
		FROM purchase_returns ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list purchase returns: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseReturn
	for rows.Next() {
		var ret entity.PurchaseReturn
		if err := rows.Scan(&ret.ID, &ret.Number, &ret.SupplierID, &ret.WarehouseID, &ret.Status, &ret.Reason,
			&ret.CreatedAt, &ret.UpdatedAt, &ret.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan purchase return: %w", err)
		}
		list = append(list, &ret)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, ret := range list {
		if err := r.loadLines(ctx, ret); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *PurchaseReturnRepo) loadLines(ctx context.Context, ret *entity.PurchaseReturn) error {
	query := `
		SELECT id, return_id, product_id, quantity, unit_price
		FROM purchase_return_lines WHERE return_id = $1 ORDER BY product_id`
	rows, err := r.q.Query(ctx, query, ret.ID)
	if err != nil {
		return fmt.Errorf("load purchase return lines: %w", err)
	}
	defer rows.Close()
	ret.Lines = nil
	for rows.Next() {
		var l entity.PurchaseReturnLine
		if err := rows.Scan(&l.ID, &l.ReturnID, &l.ProductID, &l.Quantity, &l.UnitPrice); err != nil {
			return fmt.Errorf("scan purchase return line: %w", err)
		}
		ret.Lines = append(ret.Lines, l)
	}
	return rows.Err()
}
