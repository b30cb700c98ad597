package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/itsmesohit/hyperswitch/internal/connector"
	"github.com/itsmesohit/hyperswitch/internal/infrastructure/config"
	"github.com/itsmesohit/hyperswitch/internal/infrastructure/observability"
	"github.com/itsmesohit/hyperswitch/pkg/retry"
)

const maxResponseBytes = 4 << 20

var errRetryableStatus = errors.New("retryable status")

// HTTPTransport sends connector requests over HTTP. Requests the
// processor provably did not process (429, 503) are retried for every
// method; other 5xx answers and network errors only for idempotent ones.
type HTTPTransport struct {
	client  *http.Client
	retry   retry.Config
	metrics *observability.Metrics
	logger  zerolog.Logger
}

func NewHTTPTransport(cfg config.TransportConfig, logger zerolog.Logger, metrics *observability.Metrics) *HTTPTransport {
	return &HTTPTransport{
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		retry: retry.Config{
			MaxAttempts:  cfg.MaxAttempts,
			InitialDelay: cfg.InitialDelay,
			MaxDelay:     cfg.MaxDelay,
		},
		metrics: metrics,
		logger:  logger,
	}
}

var _ connector.Transport = (*HTTPTransport)(nil)

func (t *HTTPTransport) Send(ctx context.Context, req *connector.Request) (*connector.Response, error) {
	host := hostOf(req.URL)
	idempotent := isIdempotent(req.Method)

	cfg := t.retry
	cfg.RetryIf = func(err error) bool {
		if ctx.Err() != nil {
			return false
		}
		var rs *retryableStatusError
		if errors.As(err, &rs) {
			return rs.always || idempotent
		}
		return idempotent
	}
	cfg.OnRetry = func(n uint, err error) {
		if n+1 >= t.retry.MaxAttempts {
			return
		}
		if t.metrics != nil {
			t.metrics.TransportRetries.WithLabelValues(host).Inc()
		}
		t.logger.Warn().Err(err).Uint("attempt", n+1).Str("host", host).Msg("retrying connector request")
	}

	var last *connector.Response
	res, err := retry.DoWithResult(ctx, cfg, func() (*connector.Response, error) {
		res, err := t.do(ctx, req)
		if err != nil {
			return nil, err
		}
		last = res
		switch {
		case res.StatusCode == http.StatusTooManyRequests || res.StatusCode == http.StatusServiceUnavailable:
			return nil, &retryableStatusError{status: res.StatusCode, always: true}
		case res.StatusCode >= 500:
			return nil, &retryableStatusError{status: res.StatusCode}
		}
		return res, nil
	})
	if err != nil {
		var rs *retryableStatusError
		if errors.As(err, &rs) && last != nil {
			// out of attempts: hand back the processor's own error answer
			return last, nil
		}
		return nil, err
	}
	return res, nil
}

func (t *HTTPTransport) do(ctx context.Context, req *connector.Request) (*connector.Response, error) {
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("build http request: %w", err)
	}
	for k, vs := range req.Headers {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if httpReq.Header.Get("Accept") == "" {
		httpReq.Header.Set("Accept", "application/json")
	}

	httpRes, err := t.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, hostOf(req.URL), err)
	}
	defer httpRes.Body.Close()

	data, err := io.ReadAll(io.LimitReader(httpRes.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	return &connector.Response{
		StatusCode: httpRes.StatusCode,
		Headers:    httpRes.Header,
		Body:       data,
	}, nil
}

type retryableStatusError struct {
	status int
	always bool
}

func (e *retryableStatusError) Error() string {
	return fmt.Sprintf("%s %d", errRetryableStatus, e.status)
}

func (e *retryableStatusError) Unwrap() error { return errRetryableStatus }

func isIdempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPut, http.MethodDelete, http.MethodOptions:
		return true
	default:
		return false
	}
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "unknown"
	}
	return u.Host
}
