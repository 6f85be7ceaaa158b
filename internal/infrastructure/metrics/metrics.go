// Package metrics expone contadores Prometheus del núcleo de inventario.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jhoicas/trastienda-api/internal/application/ledger"
)

var _ ledger.MetricsRecorder = (*Recorder)(nil)

// Recorder implementa los puertos de métricas del ledger y del publicador
// de eventos sobre contadores Prometheus.
type Recorder struct {
	movementsPosted   *prometheus.CounterVec
	insufficientStock prometheus.Counter
	eventsPublished   *prometheus.CounterVec
}

// NewRecorder registra los contadores en el registro dado (usar
// prometheus.DefaultRegisterer en producción).
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		movementsPosted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trastienda",
			Subsystem: "ledger",
			Name:      "movements_posted_total",
			Help:      "Movimientos de inventario escritos, por tipo. Se incrementa dentro de la transacción; un rollback posterior no lo descuenta.",
		}, []string{"type"}),
		insufficientStock: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "trastienda",
			Subsystem: "ledger",
			Name:      "insufficient_stock_total",
			Help:      "Mutaciones rechazadas por stock insuficiente.",
		}),
		eventsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trastienda",
			Subsystem: "events",
			Name:      "published_total",
			Help:      "Eventos de inventario publicados, por tipo.",
		}, []string{"type"}),
	}
}

// MovementPosted cuenta un movimiento escrito. El conteo puede incluir
// movimientos de transacciones que luego hicieron rollback.
func (r *Recorder) MovementPosted(movementType string) {
	r.movementsPosted.WithLabelValues(movementType).Inc()
}

// InsufficientStock cuenta un rechazo por stock insuficiente.
func (r *Recorder) InsufficientStock() {
	r.insufficientStock.Inc()
}

// EventPublished cuenta un evento publicado.
func (r *Recorder) EventPublished(eventType string) {
	r.eventsPublished.WithLabelValues(eventType).Inc()
}
