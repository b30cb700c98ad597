package connectors

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/sony/gobreaker/v2"

	"github.com/itsmesohit/hyperswitch/internal/connector"
	"github.com/itsmesohit/hyperswitch/internal/connectors/novapay"
	"github.com/itsmesohit/hyperswitch/internal/connectors/threedsecureio"
	domainErrors "github.com/itsmesohit/hyperswitch/internal/domain/errors"
	"github.com/itsmesohit/hyperswitch/internal/domain/payment"
	"github.com/itsmesohit/hyperswitch/internal/infrastructure/config"
	"github.com/itsmesohit/hyperswitch/internal/infrastructure/observability"
)

// Factory is the table of connectors, fixed once built. Lookups need no
// locking because nothing is added after NewFactory returns.
type Factory struct {
	connectors      map[string]connector.Common
	circuitBreakers map[string]*gobreaker.CircuitBreaker[*connector.Response]
}

func NewFactory(cfg config.CircuitBreakerConfig, metrics *observability.Metrics, list ...connector.Common) *Factory {
	f := &Factory{
		connectors:      make(map[string]connector.Common, len(list)),
		circuitBreakers: make(map[string]*gobreaker.CircuitBreaker[*connector.Response], len(list)),
	}

	for _, c := range list {
		f.connectors[c.ID()] = c
		f.circuitBreakers[c.ID()] = gobreaker.NewCircuitBreaker[*connector.Response](gobreaker.Settings{
			Name:        c.ID(),
			MaxRequests: cfg.MaxRequests,
			Interval:    cfg.Interval,
			Timeout:     cfg.Timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= cfg.MinRequests && failureRatio >= cfg.FailureRatio
			},
			OnStateChange: func(name string, _, to gobreaker.State) {
				if metrics != nil {
					metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
				}
			},
		})
	}

	return f
}

// NewDefaultFactory registers every connector this build ships with.
func NewDefaultFactory(cfg *config.Config, metrics *observability.Metrics) *Factory {
	return NewFactory(cfg.CircuitBreaker, metrics,
		threedsecureio.New(cfg.Connectors.Threedsecureio),
		novapay.New(cfg.Connectors.Novapay),
	)
}

// Get returns the connector registered under name.
func (f *Factory) Get(name string) (connector.Common, error) {
	c, ok := f.connectors[name]
	if !ok {
		return nil, domainErrors.NotImplemented(fmt.Sprintf("connector %s", name))
	}
	return c, nil
}

// Breaker implements connector.BreakerSource.
func (f *Factory) Breaker(name string) *gobreaker.CircuitBreaker[*connector.Response] {
	return f.circuitBreakers[name]
}

// Names lists registered connectors in order.
func (f *Factory) Names() []string {
	names := make([]string, 0, len(f.connectors))
	for name := range f.connectors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the named connector as capability C, such as
// connector.PaymentAuthorize. A connector without that capability is a
// NotImplemented error, never a panic.
func Lookup[C any](f *Factory, name string) (C, error) {
	var zero C
	c, err := f.Get(name)
	if err != nil {
		return zero, err
	}
	capability, ok := c.(C)
	if !ok {
		return zero, domainErrors.NotImplemented(fmt.Sprintf("%s for connector %s", reflect.TypeFor[C](), name))
	}
	return capability, nil
}

// BreakerState reports the breaker state for name. Unknown connectors
// report closed.
func (f *Factory) BreakerState(name string) gobreaker.State {
	cb, ok := f.circuitBreakers[name]
	if !ok {
		return gobreaker.StateClosed
	}
	return cb.State()
}

// Capabilities lists the flows the named connector implements, in
// payment lifecycle order.
func (f *Factory) Capabilities(name string) ([]string, error) {
	c, err := f.Get(name)
	if err != nil {
		return nil, err
	}
	checks := []struct {
		flow string
		ok   bool
	}{
		{payment.FlowName[payment.PreAuthenticate](), is[connector.PreAuthentication](c)},
		{payment.FlowName[payment.Authenticate](), is[connector.Authentication](c)},
		{payment.FlowName[payment.Authorize](), is[connector.PaymentAuthorize](c)},
		{payment.FlowName[payment.Capture](), is[connector.PaymentCapture](c)},
		{payment.FlowName[payment.PSync](), is[connector.PaymentSync](c)},
		{payment.FlowName[payment.Void](), is[connector.PaymentVoid](c)},
		{payment.FlowName[payment.Execute](), is[connector.RefundExecute](c)},
		{payment.FlowName[payment.RSync](), is[connector.RefundSync](c)},
	}
	flows := make([]string, 0, len(checks))
	for _, check := range checks {
		if check.ok {
			flows = append(flows, check.flow)
		}
	}
	return flows, nil
}

func is[C any](c connector.Common) bool {
	_, ok := c.(C)
	return ok
}
