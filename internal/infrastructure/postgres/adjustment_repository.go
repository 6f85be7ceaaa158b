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

var _ repository.AdjustmentRepository = (*AdjustmentRepo)(nil)

// AdjustmentRepo persistencia de ajustes sobre PostgreSQL (usable con pool o tx).
type AdjustmentRepo struct {
	q Querier
}

// NewAdjustmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAdjustmentRepository(q Querier) *AdjustmentRepo {
	return &AdjustmentRepo{q: q}
}

// Create persiste el documento y sus líneas.
func (r *AdjustmentRepo) Create(ctx context.Context, a *entity.Adjustment) error {
	query := `
		INSERT INTO adjustments (id, number, warehouse_id, reason, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.q.Exec(ctx, query, a.ID, a.Number, a.WarehouseID, a.Reason, a.CreatedAt, a.CreatedBy); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateDocumentNumber
		}
		return fmt.Errorf("create adjustment: %w", err)
	}
	lineQuery := `
		INSERT INTO adjustment_lines (id, adjustment_id, product_id, delta, notes)
		VALUES ($1, $2, $3, $4, $5)`
	for _, l := range a.Lines {
		if _, err := r.q.Exec(ctx, lineQuery, l.ID, a.ID, l.ProductID, l.Delta, l.Notes); err != nil {
			return fmt.Errorf("create adjustment line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene un ajuste con sus líneas; nil si no existe.
func (r *AdjustmentRepo) GetByID(ctx context.Context, id string) (*entity.Adjustment, error) {
	query := `
		SELECT id, number, warehouse_id, reason, created_at, created_by
		FROM adjustments WHERE id = $1`
	var a entity.Adjustment
	err := r.q.QueryRow(ctx, query, id).Scan(&a.ID, &a.Number, &a.WarehouseID, &a.Reason, &a.CreatedAt, &a.CreatedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get adjustment: %w", err)
	}
	if err := r.loadLines(ctx, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// ListByWarehouse lista ajustes de una bodega, más recientes primero.
func (r *AdjustmentRepo) ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.Adjustment, error) {
	query := `
		SELECT id, number, warehouse_id, reason, created_at, created_by
		FROM adjustments WHERE warehouse_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, warehouseID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list adjustments: %w", err)
	}
	defer rows.Close()
	var list []*entity.Adjustment
	for rows.Next() {
		var a entity.Adjustment
		if err := rows.Scan(&a.ID, &a.Number, &a.WarehouseID, &a.Reason, &a.CreatedAt, &a.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan adjustment: %w", err)
		}
		list = append(list, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, a := range list {
		if err := r.loadLines(ctx, a); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *AdjustmentRepo) loadLines(ctx context.Context, a *entity.Adjustment) error {
	query := `
		SELECT id, adjustment_id, product_id, delta, notes
		FROM adjustment_lines WHERE adjustment_id = $1 ORDER BY product_id`
	rows, err := r.q.Query(ctx, query, a.ID)
	if err != nil {
		return fmt.Errorf("load adjustment lines: %w", err)
	}
	defer rows.Close()
	a.Lines = nil
	for rows.Next() {
		var l entity.AdjustmentLine
		if err := rows.Scan(&l.ID, &l.AdjustmentID, &l.ProductID, &l.Delta, &l.Notes); err != nil {
			return fmt.Errorf("scan adjustment line: %w", err)
		}
		a.Lines = append(a.Lines, l)
	}
	return rows.Err()
}
