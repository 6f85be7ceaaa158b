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

var _ repository.StockCountRepository = (*StockCountRepo)(nil)

// StockCountRepo persistencia de conteos físicos sobre PostgreSQL
// (usable con pool o tx).
type StockCountRepo struct {
	q Querier
}

// NewStockCountRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockCountRepository(q Querier) *StockCountRepo {
	return &StockCountRepo{q: q}
}

const countColumns = `id, number, warehouse_id, scope, status, created_at, updated_at, created_by`

const countLineColumns = `id, count_id, product_id, system_qty, counted_qty,
	variance_qty, counted, reason, counted_by, counted_at`

// Create persiste el conteo con sus líneas (cantidades del sistema congeladas).
func (r *StockCountRepo) Create(ctx context.Context, count *entity.StockCount) error {
	query := `
		INSERT INTO stock_counts (` + countColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := r.q.Exec(ctx, query,
		count.ID, count.Number, count.WarehouseID, count.Scope, count.Status,
		count.CreatedAt, count.UpdatedAt, count.CreatedBy); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateDocumentNumber
		}
		return fmt.Errorf("create stock count: %w", err)
	}
	lineQuery := `
		INSERT INTO stock_count_lines (` + countLineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	for _, l := range count.Lines {
		if _, err := r.q.Exec(ctx, lineQuery,
			l.ID, count.ID, l.ProductID, l.SystemQty, l.CountedQty,
			l.VarianceQty, l.Counted, l.Reason, l.CountedBy, l.CountedAt); err != nil {
			return fmt.Errorf("create stock count line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene el conteo con sus líneas; nil si no existe.
func (r *StockCountRepo) GetByID(ctx context.Context, id string) (*entity.StockCount, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate obtiene el conteo bloqueando la cabecera.
func (r *StockCountRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockCount, error) {
	return r.get(ctx, id, true)
}

func (r *StockCountRepo) get(ctx context.Context, id string, forUpdate bool) (*entity.StockCount, error) {
	query := `SELECT ` + countColumns + ` FROM stock_counts WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}
	var count entity.StockCount
	err := r.q.QueryRow(ctx, query, id).Scan(
		&count.ID, &count.Number, &count.WarehouseID, &count.Scope, &count.Status,
		&count.CreatedAt, &count.UpdatedAt, &count.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock count: %w", err)
	}
	if err := r.loadLines(ctx, &count); err != nil {
		return nil, err
	}
	return &count, nil
}

// UpdateStatus persiste la transición de estado.
func (r *StockCountRepo) UpdateStatus(ctx context.Context, id string, status entity.StockCountStatus) error {
	query := `UPDATE stock_counts SET status = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("update stock count status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("conteo", id)
	}
	return nil
}

// UpdateLineCount registra (o sobreescribe) lo contado en una línea.
func (r *StockCountRepo) UpdateLineCount(ctx context.Context, line *entity.StockCountLine) error {
	query := `
		UPDATE stock_count_lines
		SET counted_qty = $2, variance_qty = $3, counted = $4,
		    reason = $5, counted_by = $6, counted_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		line.ID, line.CountedQty, line.VarianceQty, line.Counted,
		line.Reason, line.CountedBy, line.CountedAt)
	if err != nil {
		return fmt.Errorf("update stock count line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("línea de conteo", line.ID)
	}
	return nil
}

// ListByWarehouse lista conteos de una bodega, más recientes primero.
func (r *StockCountRepo) ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.StockCount, error) {
	query := `
		SELECT ` + countColumns + `
		FROM stock_counts WHERE warehouse_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, warehouseID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock counts: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockCount
	for rows.Next() {
		var count entity.StockCount
		if err := rows.Scan(&count.ID, &count.Number, &count.WarehouseID, &count.Scope, &count.Status,
			&count.CreatedAt, &count.UpdatedAt, &count.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan stock count: %w", err)
		}
		list = append(list, &count)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, count := range list {
		if err := r.loadLines(ctx, count); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *StockCountRepo) loadLines(ctx context.Context, count *entity.StockCount) error {
	query := `
		SELECT ` + countLineColumns + `
		FROM stock_count_lines WHERE count_id = $1 ORDER BY product_id`
	rows, err := r.q.Query(ctx, query, count.ID)
	if err != nil {
		return fmt.Errorf("load stock count lines: %w", err)
	}
	defer rows.Close()
	count.Lines = nil
	for rows.Next() {
		var l entity.StockCountLine
		if err := rows.Scan(&l.ID, &l.CountID, &l.ProductID, &l.SystemQty, &l.CountedQty,
			&l.VarianceQty, &l.Counted, &l.Reason, &l.CountedBy, &l.CountedAt); err != nil {
			return fmt.Errorf("scan stock count line: %w", err)
		}
		count.Lines = append(count.Lines, l)
	}
	return rows.Err()
}
