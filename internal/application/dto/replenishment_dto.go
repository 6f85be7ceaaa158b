package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/trastienda-api/internal/application/replenishment"
)

// ReplenishmentSuggestionDTO sugerencia de reposición de un producto bajo su
// stock de seguridad. Efímera: se calcula en cada consulta.
type ReplenishmentSuggestionDTO struct {
	ProductID    string          `json:"product_id"`
	SKU          string          `json:"sku"`
	ProductName  string          `json:"product_name"`
	WarehouseID  string          `json:"warehouse_id"`
	OnHand       decimal.Decimal `json:"on_hand"`
	SafetyStock  decimal.Decimal `json:"safety_stock"`
	SuggestedQty decimal.Decimal `json:"suggested_qty"`
	Urgency      string          `json:"urgency"`
	SupplierID   string          `json:"supplier_id,omitempty"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	LeadTimeDays int             `json:"lead_time_days"`
}

// MaterializeOrdersRequest cuerpo para convertir sugerencias en órdenes.
type MaterializeOrdersRequest struct {
	WarehouseID     string `json:"warehouse_id"`
	GroupBySupplier bool   `json:"group_by_supplier"`
}

// SuggestionsFromUseCase mapea las sugerencias del asesor.
func SuggestionsFromUseCase(list []replenishment.Suggestion) []ReplenishmentSuggestionDTO {
	out := make([]ReplenishmentSuggestionDTO, 0, len(list))
	for _, s := range list {
		out = append(out, ReplenishmentSuggestionDTO{
			ProductID:    s.ProductID,
			SKU:          s.SKU,
			ProductName:  s.ProductName,
			WarehouseID:  s.WarehouseID,
			OnHand:       s.OnHand,
			SafetyStock:  s.SafetyStock,
			SuggestedQty: s.SuggestedQty,
			Urgency:      string(s.Urgency),
			SupplierID:   s.SupplierID,
			UnitPrice:    s.UnitPrice,
			LeadTimeDays: s.LeadTimeDays,
		})
	}
	return out
}
