package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/itsmesohit/hyperswitch/internal/connector"
	"github.com/itsmesohit/hyperswitch/internal/connectors"
	"github.com/itsmesohit/hyperswitch/internal/infrastructure/config"
	"github.com/itsmesohit/hyperswitch/internal/infrastructure/observability"
	"github.com/itsmesohit/hyperswitch/internal/transport"
)

// App is everything needed to run connector flows.
type App struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Metrics  *observability.Metrics
	Factory  *connectors.Factory
	Executor *connector.Executor

	shutdownTracer func(context.Context) error
	closeOnce      sync.Once
	closeErr       error
}

// New loads configuration from the environment and assembles the App.
// Metrics register on reg, or the default registerer when reg is nil.
func New(ctx context.Context, serviceName string, reg prometheus.Registerer) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewWithConfig(ctx, cfg, serviceName, reg, os.Stdout)
}

func NewWithConfig(ctx context.Context, cfg *config.Config, serviceName string, reg prometheus.Registerer, logOutput io.Writer) (*App, error) {
	logger := observability.InitLogger(cfg.Log.Level, cfg.Log.Format, logOutput).
		With().Str("service", serviceName).Logger()
	logger.Info().Msg("Starting")

	tracingCfg := observability.TracingConfig{
		Enabled:        cfg.Tracing.Enabled,
		JaegerEndpoint: cfg.Tracing.JaegerEndpoint,
		ServiceName:    cfg.Tracing.ServiceName,
		SamplingRate:   cfg.Tracing.SamplingRate,
	}
	tp, shutdown, err := observability.InitTracer(tracingCfg)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize tracer, continuing without tracing")
		tracingCfg.Enabled = false
		if tp, shutdown, err = observability.InitTracer(tracingCfg); err != nil {
			return nil, fmt.Errorf("init tracer: %w", err)
		}
	} else if cfg.Tracing.Enabled {
		logger.Info().Msg("Tracing enabled")
	}

	metrics := observability.NewMetrics(cfg.Metrics.Namespace, reg)
	logger.Info().Msg("Metrics initialized")

	factory := connectors.NewDefaultFactory(cfg, metrics)
	logger.Info().Strs("connectors", factory.Names()).Msg("Connectors registered")

	httpTransport := transport.NewHTTPTransport(cfg.Transport, logger, metrics)
	executor := connector.NewExecutor(httpTransport, logger,
		connector.WithBreakers(factory),
		connector.WithMetrics(metrics),
		connector.WithTracer(tp.Tracer(serviceName)),
	)

	app := &App{
		Config:         cfg,
		Logger:         logger,
		Metrics:        metrics,
		Factory:        factory,
		Executor:       executor,
		shutdownTracer: shutdown,
	}

	if done := ctx.Done(); done != nil {
		go func() {
			<-done
			_ = app.Close(context.Background())
		}()
	}

	return app, nil
}

// Close flushes pending spans. Only the first call shuts the tracer
// down; later calls return its result.
func (a *App) Close(ctx context.Context) error {
	a.closeOnce.Do(func() {
		if a.shutdownTracer != nil {
			a.closeErr = a.shutdownTracer(ctx)
		}
	})
	return a.closeErr
}
