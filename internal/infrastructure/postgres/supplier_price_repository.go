package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/trastienda-api/internal/domain/entity"
	"github.com/jhoicas/trastienda-api/internal/domain/repository"
)

var _ repository.SupplierPriceRepository = (*SupplierPriceRepo)(nil)

// SupplierPriceRepo lectura de listas de precios por proveedor sobre PostgreSQL.
type SupplierPriceRepo struct {
	q Querier
}

// NewSupplierPriceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSupplierPriceRepository(q Querier) *SupplierPriceRepo {
	return &SupplierPriceRepo{q: q}
}

// ListEffectiveByProduct devuelve los precios vigentes en el instante dado,
// primario primero y luego del más barato al más caro.
func (r *SupplierPriceRepo) ListEffectiveByProduct(ctx context.Context, productID string, at time.Time) ([]*entity.SupplierPrice, error) {
	query := `
		SELECT id, supplier_id, product_id, unit_price, is_primary,
		       effective_from, effective_to, min_order_qty, lead_time_days
		FROM supplier_prices
		WHERE product_id = $1
		  AND effective_from <= $2
		  AND (effective_to IS NULL OR effective_to >= $2)
		ORDER BY is_primary DESC, unit_price ASC`
	rows, err := r.q.Query(ctx, query, productID, at)
	if err != nil {
		return nil, fmt.Errorf("list supplier prices: %w", err)
	}
	defer rows.Close()
	var list []*entity.SupplierPrice
	for rows.Next() {
		var p entity.SupplierPrice
		if err := rows.Scan(&p.ID, &p.SupplierID, &p.ProductID, &p.UnitPrice, &p.IsPrimary,
			&p.EffectiveFrom, &p.EffectiveTo, &p.MinOrderQty, &p.LeadTimeDays); err != nil {
			return nil, fmt.Errorf("scan supplier price: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
