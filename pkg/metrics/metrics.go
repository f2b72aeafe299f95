package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Lifecycle metrics
	TransitionsTotal *prometheus.CounterVec
	TransitionErrors *prometheus.CounterVec

	// Notification metrics
	NotificationsCreated  prometheus.Counter
	NotificationsDelivery *prometheus.CounterVec

	// Live connection metrics
	LiveConnections prometheus.Gauge
}

// NewMetrics creates and registers all application metrics
func NewMetrics(namespace, subsystem string) *Metrics {
	return &Metrics{
		TransitionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "status_transitions_total",
			Help:      "Successful status transitions by entity and destination",
		}, []string{"entity", "to"}),
		TransitionErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "status_transition_errors_total",
			Help:      "Rejected transition attempts by entity",
		}, []string{"entity"}),
		NotificationsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "notifications_created_total",
			Help:      "Notifications persisted by the dispatcher",
		}),
		NotificationsDelivery: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "notifications_delivery_total",
			Help:      "Live delivery attempts by outcome",
		}, []string{"outcome"}),
		LiveConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "live_connections",
			Help:      "Currently registered websocket connections",
		}),
	}
}
