package events

import (
	"context"

	appevents "github.com/jhoicas/trastienda-api/internal/application/events"
	"github.com/jhoicas/trastienda-api/pkg/logger"
)

var _ appevents.Publisher = (*LogPublisher)(nil)

// LogPublisher emite los eventos del núcleo como registros estructurados.
// Es el sink por defecto: auditable vía agregación de logs sin necesitar
// un broker. Publish nunca falla hacia el flujo llamante.
type LogPublisher struct {
	log     *logger.Logger
	metrics Metrics
}

// Metrics puerto opcional para contar eventos publicados.
type Metrics interface {
	EventPublished(eventType string)
}

type nopMetrics struct{}

func (nopMetrics) EventPublished(string) {}

// NewLogPublisher construye el publicador. metrics puede ser nil.
func NewLogPublisher(log *logger.Logger, metrics Metrics) *LogPublisher {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &LogPublisher{log: log, metrics: metrics}
}

// Publish escribe el evento al log con campos estructurados.
func (p *LogPublisher) Publish(_ context.Context, event appevents.Event) {
	ev := p.log.Info().
		Str("event", event.Type).
		Str("document_no", event.DocumentNo).
		Str("warehouse_id", event.WarehouseID).
		Str("quantity", event.Quantity.String()).
		Time("occurred_at", event.OccurredAt)
	if event.ProductID != "" {
		ev = ev.Str("product_id", event.ProductID)
	}
	if event.Actor != "" {
		ev = ev.Str("actor", event.Actor)
	}
	ev.Msg("evento de inventario")
	p.metrics.EventPublished(event.Type)
}
