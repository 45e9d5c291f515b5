package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the application's collectors.
type Metrics struct {
	// HTTP requests (method, path, status_code)
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTP latency (method, path)
	HTTPRequestDuration *prometheus.HistogramVec

	// Lifecycle operations (operation, outcome: success, not_found, unauthorized, invalid_state, validation, conflict, error)
	LifecycleOperationsTotal *prometheus.CounterVec

	// Availability checks (result: available, conflict, error)
	AvailabilityChecksTotal *prometheus.CounterVec

	// Venue lock operations (operation: acquire/release, status: success/failed)
	VenueLockDuration *prometheus.HistogramVec

	// Notifications (topic, status: sent, failed)
	NotificationsTotal *prometheus.CounterVec
}

// New creates the collectors and registers them with the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the collectors with reg.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		LifecycleOperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "event_lifecycle_operations_total",
				Help: "Total number of event lifecycle operations by outcome",
			},
			[]string{"operation", "outcome"},
		),
		AvailabilityChecksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "venue_availability_checks_total",
				Help: "Total number of venue availability checks",
			},
			[]string{"result"},
		),
		VenueLockDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "venue_lock_duration_seconds",
				Help:    "Time spent on venue lock operations",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"operation", "status"},
		),
		NotificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "event_notifications_total",
				Help: "Total number of lifecycle notifications by topic and status",
			},
			[]string{"topic", "status"},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.LifecycleOperationsTotal,
		m.AvailabilityChecksTotal,
		m.VenueLockDuration,
		m.NotificationsTotal,
	)

	return m
}

var defaultMetrics *Metrics

// Init creates the default instance.
func Init() *Metrics {
	defaultMetrics = New()
	return defaultMetrics
}

// Get returns the default instance, or nil before Init.
func Get() *Metrics {
	return defaultMetrics
}

// The helpers below are nil-safe so components can run without metrics.

// RecordOperation counts a lifecycle operation outcome.
func (m *Metrics) RecordOperation(operation, outcome string) {
	if m == nil {
		return
	}
	m.LifecycleOperationsTotal.WithLabelValues(operation, outcome).Inc()
}

// RecordAvailability counts an availability check result.
func (m *Metrics) RecordAvailability(result string) {
	if m == nil {
		return
	}
	m.AvailabilityChecksTotal.WithLabelValues(result).Inc()
}

// RecordNotification counts a notification delivery attempt.
func (m *Metrics) RecordNotification(topic, status string) {
	if m == nil {
		return
	}
	m.NotificationsTotal.WithLabelValues(topic, status).Inc()
}

// ObserveLock records the duration of a venue lock operation.
func (m *Metrics) ObserveLock(operation, status string, seconds float64) {
	if m == nil {
		return
	}
	m.VenueLockDuration.WithLabelValues(operation, status).Observe(seconds)
}
