package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/trastienda-api/internal/domain/entity"
)

// CreateStockCountRequest cuerpo para crear un conteo físico. Si product_ids
// viene vacío, las líneas se generan con todas las existencias de la bodega.
type CreateStockCountRequest struct {
	WarehouseID string   `json:"warehouse_id"`
	Scope       string   `json:"scope,omitempty"`
	ProductIDs  []string `json:"product_ids,omitempty"`
}

// RecordCountRequest cuerpo para registrar lo contado en una línea.
type RecordCountRequest struct {
	LineID     string          `json:"line_id"`
	CountedQty decimal.Decimal `json:"counted_qty"`
	Reason     string          `json:"reason,omitempty"`
}

// StockCountLineDTO línea de conteo con su varianza.
type StockCountLineDTO struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	SystemQty   decimal.Decimal `json:"system_qty"`
	CountedQty  decimal.Decimal `json:"counted_qty"`
	VarianceQty decimal.Decimal `json:"variance_qty"`
	Counted     bool            `json:"counted"`
	Reason      string          `json:"reason,omitempty"`
	CountedBy   string          `json:"counted_by,omitempty"`
	CountedAt   *time.Time      `json:"counted_at,omitempty"`
}

// StockCountDTO documento de conteo físico con su avance.
type StockCountDTO struct {
	ID           string              `json:"id"`
	Number       string              `json:"number"`
	WarehouseID  string              `json:"warehouse_id"`
	Scope        string              `json:"scope,omitempty"`
	Status       string              `json:"status"`
	Lines        []StockCountLineDTO `json:"lines"`
	TotalLines   int                 `json:"total_lines"`
	CountedLines int                 `json:"counted_lines"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
	CreatedBy    string              `json:"created_by,omitempty"`
}

// StockCountFromEntity mapea la entidad a su DTO.
func StockCountFromEntity(c *entity.StockCount) StockCountDTO {
	out := StockCountDTO{
		ID:           c.ID,
		Number:       c.Number,
		WarehouseID:  c.WarehouseID,
		Scope:        c.Scope,
		Status:       c.Status.String(),
		TotalLines:   c.TotalLines(),
		CountedLines: c.CountedLines(),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
		CreatedBy:    c.CreatedBy,
	}
	for _, l := range c.Lines {
		out.Lines = append(out.Lines, StockCountLineDTO{
			ID:          l.ID,
			ProductID:   l.ProductID,
			SystemQty:   l.SystemQty,
			CountedQty:  l.CountedQty,
			VarianceQty: l.VarianceQty,
			Counted:     l.Counted,
			Reason:      l.Reason,
			CountedBy:   l.CountedBy,
			CountedAt:   l.CountedAt,
		})
	}
	return out
}

// StockCountsFromEntities mapea la lista completa.
func StockCountsFromEntities(list []*entity.StockCount) []StockCountDTO {
	out := make([]StockCountDTO, 0, len(list))
	for _, c := range list {
		out = append(out, StockCountFromEntity(c))
	}
	return out
}
