package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/trastienda-api/internal/domain"
	"github.com/jhoicas/trastienda-api/internal/domain/entity"
	"github.com/jhoicas/trastienda-api/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo persistencia de órdenes de compra sobre PostgreSQL
// (usable con pool o tx).
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

const orderColumns = `id, number, supplier_id, warehouse_id, status, notes,
	created_at, updated_at, created_by`

// Create persiste la orden y sus líneas.
func (r *PurchaseOrderRepo) Create(ctx context.Context, o *entity.PurchaseOrder) error {
	query := `
		INSERT INTO purchase_orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	if _, err := r.q.Exec(ctx, query,
		o.ID, o.Number, o.SupplierID, o.WarehouseID, o.Status, o.Notes,
		o.CreatedAt, o.UpdatedAt, o.CreatedBy); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateDocumentNumber
		}
		return fmt.Errorf("create purchase order: %w", err)
	}
	lineQuery := `
		INSERT INTO purchase_order_lines (id, order_id, product_id, ordered_qty, unit_price, received_qty)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for _, l := range o.Lines {
		if _, err := r.q.Exec(ctx, lineQuery, l.ID, o.ID, l.ProductID, l.OrderedQty, l.UnitPrice, l.ReceivedQty); err != nil {
			return fmt.Errorf("create purchase order line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la orden con sus líneas; nil si no existe.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate bloquea la cabecera de la orden: las recepciones concurrentes
// sobre la misma orden se serializan aquí.
func (r *PurchaseOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.get(ctx, id, true)
}

func (r *PurchaseOrderRepo) get(ctx context.Context, id string, forUpdate bool) (*entity.PurchaseOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM purchase_orders WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}
	var o entity.PurchaseOrder
	err := r.q.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.Number, &o.SupplierID, &o.WarehouseID, &o.Status, &o.Notes,
		&o.CreatedAt, &o.UpdatedAt, &o.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	if err := r.loadLines(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// UpdateStatus persiste la transición de estado.
func (r *PurchaseOrderRepo) UpdateStatus(ctx context.Context, id string, status entity.PurchaseOrderStatus) error {
	query := `UPDATE purchase_orders SET status = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("update purchase order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("orden de compra", id)
	}
	return nil
}

// AddLineReceivedQty incrementa lo recibido de una línea.
func (r *PurchaseOrderRepo) AddLineReceivedQty(ctx context.Context, lineID string, qty decimal.Decimal) error {
	query := `UPDATE purchase_order_lines SET received_qty = received_qty + $2 WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, lineID, qty)
	if err != nil {
		return fmt.Errorf("add line received qty: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("línea de orden", lineID)
	}
	return nil
}

// ListBySupplier lista órdenes de un proveedor paginadas.
func (r *PurchaseOrderRepo) ListBySupplier(ctx context.Context, supplierID string, limit, offset int) ([]*entity.PurchaseOrder, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM purchase_orders WHERE supplier_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, supplierID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders by supplier: %w", err)
	}
	return r.collect(ctx, rows)
}

// List lista órdenes paginadas, más recientes primero.
func (r *PurchaseOrderRepo) List(ctx context.Context, limit, offset int) ([]*entity.PurchaseOrder, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM purchase_orders ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	return r.collect(ctx, rows)
}

func (r *PurchaseOrderRepo) collect(ctx context.Context, rows pgx.Rows) ([]*entity.PurchaseOrder, error) {
	defer rows.Close()
	var list []*entity.PurchaseOrder
	for rows.Next() {
		var o entity.PurchaseOrder
		if err := rows.Scan(&o.ID, &o.Number, &o.SupplierID, &o.WarehouseID, &o.Status, &o.Notes,
			&o.CreatedAt, &o.UpdatedAt, &o.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		list = append(list, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, o := range list {
		if err := r.loadLines(ctx, o); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *PurchaseOrderRepo) loadLines(ctx context.Context, o *entity.PurchaseOrder) error {
	query := `
		SELECT id, order_id, product_id, ordered_qty, unit_price, received_qty
		FROM purchase_order_lines WHERE order_id = $1 ORDER BY product_id`
	rows, err := r.q.Query(ctx, query, o.ID)
	if err != nil {
		return fmt.Errorf("load purchase order lines: %w", err)
	}
	defer rows.Close()
	o.Lines = nil
	for rows.Next() {
		var l entity.PurchaseOrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.OrderedQty, &l.UnitPrice, &l.ReceivedQty); err != nil {
			return fmt.Errorf("scan purchase order line: %w", err)
		}
		o.Lines = append(o.Lines, l)
	}
	return rows.Err()
}
