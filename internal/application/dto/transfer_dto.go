package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/trastienda-api/internal/domain/entity"
)

// TransferLineRequest línea de traslado solicitada.
type TransferLineRequest struct {
	ProductID    string          `json:"product_id"`
	RequestedQty decimal.Decimal `json:"requested_qty"`
}

// CreateTransferRequest cuerpo para crear un traslado en borrador.
type CreateTransferRequest struct {
	FromWarehouseID string                `json:"from_warehouse_id"`
	ToWarehouseID   string                `json:"to_warehouse_id"`
	Notes           string                `json:"notes,omitempty"`
	Lines           []TransferLineRequest `json:"lines"`
}

// TransferLineDTO línea de traslado persistida.
type TransferLineDTO struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id"`
	RequestedQty decimal.Decimal `json:"requested_qty"`
}

// TransferDTO documento de traslado.
type TransferDTO struct {
	ID              string            `json:"id"`
	Number          string            `json:"number"`
	FromWarehouseID string            `json:"from_warehouse_id"`
	ToWarehouseID   string            `json:"to_warehouse_id"`
	Status          string            `json:"status"`
	Notes           string            `json:"notes,omitempty"`
	Lines           []TransferLineDTO `json:"lines"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	CreatedBy       string            `json:"created_by,omitempty"`
}

// TransferFromEntity mapea la entidad a su DTO.
func TransferFromEntity(t *entity.Transfer) TransferDTO {
	out := TransferDTO{
		ID:              t.ID,
		Number:          t.Number,
		FromWarehouseID: t.FromWarehouseID,
		ToWarehouseID:   t.ToWarehouseID,
		Status:          t.Status.String(),
		Notes:           t.Notes,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
		CreatedBy:       t.CreatedBy,
	}
	for _, l := range t.Lines {
		out.Lines = append(out.Lines, TransferLineDTO{
			ID:           l.ID,
			ProductID:    l.ProductID,
			RequestedQty: l.RequestedQty,
		})
	}
	return out
}

// TransfersFromEntities mapea la lista completa.
func TransfersFromEntities(list []*entity.Transfer) []TransferDTO {
	out := make([]TransferDTO, 0, len(list))
	for _, t := range list {
		out = append(out, TransferFromEntity(t))
	}
	return out
}
