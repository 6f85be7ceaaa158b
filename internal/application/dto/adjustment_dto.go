package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/trastienda-api/internal/domain/entity"
)

// AdjustmentLineRequest línea de ajuste: delta con signo por producto.
type AdjustmentLineRequest struct {
	ProductID string          `json:"product_id"`
	Delta     decimal.Decimal `json:"delta"`
	Notes     string          `json:"notes,omitempty"`
}

// CreateAdjustmentRequest cuerpo para crear (y aplicar) un ajuste.
type CreateAdjustmentRequest struct {
	WarehouseID string                  `json:"warehouse_id"`
	Reason      string                  `json:"reason"`
	Lines       []AdjustmentLineRequest `json:"lines"`
}

// AdjustmentLineDTO línea de ajuste persistida.
type AdjustmentLineDTO struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Delta     decimal.Decimal `json:"delta"`
	Notes     string          `json:"notes,omitempty"`
}

// AdjustmentDTO documento de ajuste aplicado.
type AdjustmentDTO struct {
	ID          string              `json:"id"`
	Number      string              `json:"number"`
	WarehouseID string              `json:"warehouse_id"`
	Reason      string              `json:"reason"`
	Lines       []AdjustmentLineDTO `json:"lines"`
	CreatedAt   time.Time           `json:"created_at"`
	CreatedBy   string              `json:"created_by,omitempty"`
}

// AdjustmentFromEntity mapea la entidad a su DTO.
func AdjustmentFromEntity(a *entity.Adjustment) AdjustmentDTO {
	out := AdjustmentDTO{
		ID:          a.ID,
		Number:      a.Number,
		WarehouseID: a.WarehouseID,
		Reason:      a.Reason,
		CreatedAt:   a.CreatedAt,
		CreatedBy:   a.CreatedBy,
	}
	for _, l := range a.Lines {
		out.Lines = append(out.Lines, AdjustmentLineDTO{
			ID:        l.ID,
			ProductID: l.ProductID,
			Delta:     l.Delta,
			Notes:     l.Notes,
		})
	}
	return out
}

// AdjustmentsFromEntities mapea una lista de ajustes a sus DTOs.
func AdjustmentsFromEntities(list []*entity.Adjustment) []AdjustmentDTO {
	out := make([]AdjustmentDTO, 0, len(list))
	for _, a := range list {
		out = append(out, AdjustmentFromEntity(a))
	}
	return out
}
