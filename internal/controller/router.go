package controller

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/itsmesohit/hyperswitch/internal/infrastructure/config"
	"github.com/itsmesohit/hyperswitch/internal/infrastructure/observability"
	customMW "github.com/itsmesohit/hyperswitch/internal/middleware"
)

type RouterDeps struct {
	Registry ConnectorRegistry
	Metrics  *observability.Metrics
	Gatherer prometheus.Gatherer
	Server   config.ServerConfig
}

// NewRouter builds the operations API: health probes, Prometheus metrics
// and a read-only view of the connector table.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(customMW.Tracing())
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(10 * time.Second))
	r.Use(customMW.SecurityHeaders())
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Server.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: deps.Server.CORS.AllowCredentials,
		MaxAge:           300,
	}))
	if deps.Metrics != nil {
		r.Use(customMW.Metrics(deps.Metrics))
	}

	healthH := NewHealthController(deps.Registry)
	connectorH := NewConnectorController(deps.Registry)

	r.Get("/health", healthH.Health)
	r.Get("/health/live", healthH.Liveness)
	r.Get("/health/ready", healthH.Readiness)

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1/connectors", func(r chi.Router) {
		r.Use(customMW.RateLimit(deps.Server.RateLimit))
		r.Get("/", connectorH.List)
		r.Get("/{name}", connectorH.Get)
	})

	return r
}
