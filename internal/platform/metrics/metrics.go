// Package metrics holds all Prometheus metrics for the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the registry's Prometheus collectors. A nil *Metrics is
// valid and records nothing, which keeps handler tests free of registry
// collisions.
type Metrics struct {
	RegistrationsTotal     *prometheus.CounterVec
	SensorAssignmentsTotal prometheus.Counter
	GateRejectionsTotal    *prometheus.CounterVec
	RequestDuration        *prometheus.HistogramVec
}

// New creates and registers all collectors on the default registry.
func New() *Metrics {
	return &Metrics{
		RegistrationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "caretrack_registrations_total",
			Help: "Total entities registered, partitioned by entity type.",
		}, []string{"entity"}),
		SensorAssignmentsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "caretrack_sensor_assignments_total",
			Help: "Total successful sensor-to-senior assignments.",
		}),
		GateRejectionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "caretrack_gate_rejections_total",
			Help: "Requests rejected by an authentication gate, partitioned by layer.",
		}, []string{"layer"}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "caretrack_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
}

func (m *Metrics) IncrementRegistrations(entity string) {
	if m == nil {
		return
	}
	m.RegistrationsTotal.WithLabelValues(entity).Inc()
}

func (m *Metrics) IncrementSensorAssignments() {
	if m == nil {
		return
	}
	m.SensorAssignmentsTotal.Inc()
}

func (m *Metrics) IncrementGateRejections(layer string) {
	if m == nil {
		return
	}
	m.GateRejectionsTotal.WithLabelValues(layer).Inc()
}

func (m *Metrics) ObserveRequestDuration(method, path string, seconds float64) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(method, path).Observe(seconds)
}
