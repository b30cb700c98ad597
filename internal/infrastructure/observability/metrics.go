package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all connector metrics
type Metrics struct {
	// Connector call metrics
	ConnectorRequestsTotal   *prometheus.CounterVec
	ConnectorRequestDuration *prometheus.HistogramVec
	TransformErrors          *prometheus.CounterVec
	ProcessorErrors          *prometheus.CounterVec

	// Transport metrics
	TransportRetries *prometheus.CounterVec

	// Operations server metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Circuit breaker metrics
	CircuitBreakerState    *prometheus.GaugeVec
	CircuitBreakerRequests *prometheus.CounterVec
}

// NewMetrics creates and registers all metrics against the given registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		ConnectorRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "connector_requests_total",
				Help:      "Total number of connector operations by flow and result",
			},
			[]string{"connector", "flow", "result"},
		),
		ConnectorRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "connector_request_duration_seconds",
				Help:      "Connector operation duration in seconds, transport included",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"connector", "flow"},
		),
		TransformErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "connector_transform_errors_total",
				Help:      "Request or response conversions that failed, by error kind",
			},
			[]string{"connector", "flow", "kind"},
		),
		ProcessorErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "connector_processor_errors_total",
				Help:      "Error responses reported by the processor, by HTTP status",
			},
			[]string{"connector", "flow", "status"},
		),
		TransportRetries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transport_retries_total",
				Help:      "Total number of outbound HTTP retries",
			},
			[]string{"host"},
		),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		CircuitBreakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "circuit_breaker_state",
				Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open)",
			},
			[]string{"name"},
		),
		CircuitBreakerRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "circuit_breaker_requests_total",
				Help:      "Total number of circuit breaker requests",
			},
			[]string{"name", "result"},
		),
	}

	reg.MustRegister(
		m.ConnectorRequestsTotal,
		m.ConnectorRequestDuration,
		m.TransformErrors,
		m.ProcessorErrors,
		m.TransportRetries,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.CircuitBreakerState,
		m.CircuitBreakerRequests,
	)

	return m
}
