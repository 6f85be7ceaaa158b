package events

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Nombres de eventos emitidos por el núcleo de inventario.
const (
	TypeLowStockDetected  = "LowStockDetected"
	TypeTransferCompleted = "TransferCompleted"
	TypePurchaseReceived  = "PurchaseReceived"
	TypeAdjustmentPosted  = "AdjustmentPosted"
)

// Event notificación de auditoría emitida después del commit de un flujo.
// El consumo es fire-and-forget: un fallo al publicar nunca revierte el ledger.
type Event struct {
	Type        string
	DocumentNo  string
	WarehouseID string
	ProductID   string          // solo eventos por producto (LowStockDetected)
	Quantity    decimal.Decimal // cantidad relevante al evento
	Actor       string
	OccurredAt  time.Time
}

// Publisher puerto de salida hacia el sink de auditoría/notificaciones.
type Publisher interface {
	// Publish nunca debe devolver error hacia el flujo llamante; las
	// implementaciones registran y absorben sus propios fallos.
	Publish(ctx context.Context, event Event)
}

// NopPublisher descarta todos los eventos. Útil en tests y como default.
type NopPublisher struct{}

// Publish no hace nada.
func (NopPublisher) Publish(context.Context, Event) {}
