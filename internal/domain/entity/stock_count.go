package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockCountStatus estado cerrado de un conteo físico de inventario.
type StockCountStatus string

const (
	StockCountStatusDraft         StockCountStatus = "DRAFT"
	StockCountStatusInProgress    StockCountStatus = "IN_PROGRESS"
	StockCountStatusPendingReview StockCountStatus = "PENDING_REVIEW"
	StockCountStatusCompleted     StockCountStatus = "COMPLETED"
	StockCountStatusCancelled     StockCountStatus = "CANCELLED"
)

// String devuelve la representación textual del estado.
func (s StockCountStatus) String() string { return string(s) }

// CanTransitionTo tabla de transiciones del conteo físico.
func (s StockCountStatus) CanTransitionTo(target StockCountStatus) bool {
	switch s {
	case StockCountStatusDraft:
		return target == StockCountStatusInProgress || target == StockCountStatusCancelled
	case StockCountStatusInProgress:
		return target == StockCountStatusPendingReview || target == StockCountStatusCompleted ||
			target == StockCountStatusCancelled
	case StockCountStatusPendingReview:
		return target == StockCountStatusCompleted || target == StockCountStatusCancelled
	case StockCountStatusCompleted, StockCountStatusCancelled:
		return false // estados terminales
	}
	return false
}

// CanRecordCount indica si el conteo admite registrar cantidades contadas.
func (s StockCountStatus) CanRecordCount() bool {
	return s == StockCountStatusInProgress
}

// StockCount es un conteo físico de inventario sobre una bodega.
// Las líneas congelan SystemQty al crearse; el conteo llena CountedQty y la
// varianza se ajusta vía el flujo de ajustes al completar.
type StockCount struct {
	ID          string
	Number      string
	WarehouseID string
	Scope       string // descripción libre del alcance (zona, categoría, total)
	Status      StockCountStatus
	Lines       []StockCountLine
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CreatedBy   string
}

// StockCountLine línea de conteo. VarianceQty = CountedQty - SystemQty.
// Counted distingue "contado cero" de "sin contar".
type StockCountLine struct {
	ID           string
	CountID      string
	ProductID    string
	SystemQty    decimal.Decimal
	CountedQty   decimal.Decimal
	VarianceQty  decimal.Decimal
	Counted      bool
	Reason       string
	CountedBy    string
	CountedAt    *time.Time
}

// TotalLines y CountedLines resumen el avance del conteo.
func (c *StockCount) TotalLines() int { return len(c.Lines) }

// CountedLines devuelve cuántas líneas ya fueron contadas.
func (c *StockCount) CountedLines() int {
	n := 0
	for _, l := range c.Lines {
		if l.Counted {
			n++
		}
	}
	return n
}
