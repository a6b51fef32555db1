package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the attendance engine.
type Metrics struct {
	EventsProcessed     *prometheus.CounterVec
	InvalidEvents       prometheus.Counter
	PersistenceFailures prometheus.Counter
	BroadcastsSent      prometheus.Counter
	ConnectedObservers  prometheus.Gauge
}

// New creates all metrics on the default Prometheus registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith creates all metrics on the given registry. Tests pass a fresh
// registry so repeated construction does not collide.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		EventsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "attendboard_events_processed_total",
			Help: "Total number of attendance events applied, by event type",
		}, []string{"type"}),
		InvalidEvents: factory.NewCounter(prometheus.CounterOpts{
			Name: "attendboard_invalid_events_total",
			Help: "Total number of events rejected at validation",
		}),
		PersistenceFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "attendboard_persistence_failures_total",
			Help: "Total number of snapshot writes that failed",
		}),
		BroadcastsSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "attendboard_broadcasts_total",
			Help: "Total number of whole-state broadcasts pushed to observers",
		}),
		ConnectedObservers: factory.NewGauge(prometheus.GaugeOpts{
			Name: "attendboard_connected_observers",
			Help: "Number of currently connected dashboard observers",
		}),
	}
}
