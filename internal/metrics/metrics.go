// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics groups the service's collectors.  A nil *Metrics is valid and
// records nothing, which keeps tests free of registry plumbing.
type Metrics struct {
	// HTTP requests by method, route and status code.
	HTTPRequestsTotal *prometheus.CounterVec
	// HTTP latency by method and route.
	HTTPRequestDuration *prometheus.HistogramVec
	// Booking operations by operation (get, create, update) and outcome
	// (success, a rejection kind, or error).
	BookingOperationsTotal *prometheus.CounterVec
	// Time spent waiting for a room lock, by outcome.
	RoomLockWaitDuration *prometheus.HistogramVec
}

// New registers the collectors on the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the collectors on reg.
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
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		BookingOperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "booking_operations_total",
				Help: "Booking operations by outcome",
			},
			[]string{"operation", "outcome"},
		),
		RoomLockWaitDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "room_lock_wait_seconds",
				Help:    "Time spent acquiring a room lock",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"status"},
		),
	}
	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.BookingOperationsTotal,
		m.RoomLockWaitDuration,
	)
	return m
}

// ObserveBooking counts one booking operation.
func (m *Metrics) ObserveBooking(operation, outcome string) {
	if m == nil {
		return
	}
	m.BookingOperationsTotal.WithLabelValues(operation, outcome).Inc()
}

// ObserveLockWait records how long a room lock took to acquire.
func (m *Metrics) ObserveLockWait(status string, seconds float64) {
	if m == nil {
		return
	}
	m.RoomLockWaitDuration.WithLabelValues(status).Observe(seconds)
}
