package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/trastienda-api/internal/domain/entity"
)

// OnHandResponse cantidad disponible de un producto en una bodega.
type OnHandResponse struct {
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// StockDTO fila de existencias de una bodega.
type StockDTO struct {
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// MovementDTO movimiento inmutable del ledger.
type MovementDTO struct {
	ID            string           `json:"id"`
	ProductID     string           `json:"product_id"`
	WarehouseID   string           `json:"warehouse_id"`
	Type          string           `json:"type"`
	Quantity      decimal.Decimal  `json:"quantity"`
	BeforeQty     decimal.Decimal  `json:"before_qty"`
	AfterQty      decimal.Decimal  `json:"after_qty"`
	ReferenceType string           `json:"reference_type"`
	ReferenceNo   string           `json:"reference_no"`
	UnitCost      *decimal.Decimal `json:"unit_cost,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	CreatedBy     string           `json:"created_by,omitempty"`
}

// StockFromEntity mapea la entidad a su DTO.
func StockFromEntity(s *entity.Stock) StockDTO {
	return StockDTO{
		ProductID:   s.ProductID,
		WarehouseID: s.WarehouseID,
		Quantity:    s.Quantity,
		UpdatedAt:   s.UpdatedAt,
	}
}

// MovementFromEntity mapea la entidad a su DTO.
func MovementFromEntity(m *entity.InventoryMovement) MovementDTO {
	return MovementDTO{
		ID:            m.ID,
		ProductID:     m.ProductID,
		WarehouseID:   m.WarehouseID,
		Type:          m.Type,
		Quantity:      m.Quantity,
		BeforeQty:     m.BeforeQty,
		AfterQty:      m.AfterQty,
		ReferenceType: m.ReferenceType,
		ReferenceNo:   m.ReferenceNo,
		UnitCost:      m.UnitCost,
		CreatedAt:     m.CreatedAt,
		CreatedBy:     m.CreatedBy,
	}
}

// MovementsFromEntities mapea la lista completa.
func MovementsFromEntities(list []*entity.InventoryMovement) []MovementDTO {
	out := make([]MovementDTO, 0, len(list))
	for _, m := range list {
		out = append(out, MovementFromEntity(m))
	}
	return out
}
