package repository

import (
	"context"
	"time"

	"github.com/jhoicas/trastienda-api/internal/domain/entity"
)

// ProductRepository catálogo de productos (colaborador externo, solo lectura).
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Product, error)
}

// WarehouseRepository registro de bodegas (colaborador externo, solo lectura).
type WarehouseRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Warehouse, error)
	GetDefault(ctx context.Context) (*entity.Warehouse, error)
}

// SupplierPriceRepository lista de precios por proveedor (solo lectura).
type SupplierPriceRepository interface {
	// ListEffectiveByProduct devuelve los precios vigentes en el instante dado,
	// ordenados por preferencia: primario primero, luego precio ascendente.
	ListEffectiveByProduct(ctx context.Context, productID string, at time.Time) ([]*entity.SupplierPrice, error)
}

// SequenceRepository generador de números de documento.
// Contrato: únicos y monotónicamente crecientes por (tipo, día), atómico y
// libre de colisiones bajo concurrencia.
type SequenceRepository interface {
	// Next devuelve el siguiente número con formato {PREFIJO}-{YYYYMMDD}-{NNNN}.
	Next(ctx context.Context, documentType string, date time.Time) (string, error)
}
