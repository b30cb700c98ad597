package transport

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsmesohit/hyperswitch/internal/connector"
	"github.com/itsmesohit/hyperswitch/internal/infrastructure/config"
	"github.com/itsmesohit/hyperswitch/internal/infrastructure/observability"
)

func newTestTransport(t *testing.T) (*HTTPTransport, *observability.Metrics) {
	t.Helper()
	m := observability.NewMetrics("test", prometheus.NewRegistry())
	tr := NewHTTPTransport(config.TransportConfig{
		Timeout:      2 * time.Second,
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
	}, zerolog.Nop(), m)
	return tr, m
}

func TestHTTPTransport_Send(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/payments", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("APIKey"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"amount":1050}`, string(body))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"p_1"}`))
	}))
	defer srv.Close()

	tr, _ := newTestTransport(t)
	res, err := tr.Send(context.Background(), &connector.Request{
		Method:  http.MethodPost,
		URL:     srv.URL + "/payments",
		Headers: http.Header{"Apikey": []string{"key"}},
		Body:    []byte(`{"amount":1050}`),
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, res.StatusCode)
	assert.JSONEq(t, `{"id":"p_1"}`, string(res.Body))
	assert.Equal(t, "application/json", res.Headers.Get("Content-Type"))
}

func TestHTTPTransport_RetryPolicy(t *testing.T) {
	tests := []struct {
		name      string
		method    string
		status    int
		wantCalls int32
	}{
		{"post 503 is retried", http.MethodPost, http.StatusServiceUnavailable, 3},
		{"post 429 is retried", http.MethodPost, http.StatusTooManyRequests, 3},
		{"post 500 is not retried", http.MethodPost, http.StatusInternalServerError, 1},
		{"get 500 is retried", http.MethodGet, http.StatusInternalServerError, 3},
		{"get 404 is not retried", http.MethodGet, http.StatusNotFound, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error":"nope"}`))
			}))
			defer srv.Close()

			tr, _ := newTestTransport(t)
			res, err := tr.Send(context.Background(), &connector.Request{Method: tt.method, URL: srv.URL})
			require.NoError(t, err)

			assert.Equal(t, tt.status, res.StatusCode)
			assert.JSONEq(t, `{"error":"nope"}`, string(res.Body))
			assert.Equal(t, tt.wantCalls, calls.Load())
		})
	}
}

func TestHTTPTransport_RecoversAfterTransientFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	tr, m := newTestTransport(t)
	res, err := tr.Send(context.Background(), &connector.Request{Method: http.MethodPost, URL: srv.URL})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TransportRetries.WithLabelValues(hostOf(srv.URL))))
}

func TestHTTPTransport_NetworkErrorOnPostIsNotRetried(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	addr := srv.URL
	srv.Close()

	tr, m := newTestTransport(t)
	_, err := tr.Send(context.Background(), &connector.Request{Method: http.MethodPost, URL: addr})

	assert.Error(t, err)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.TransportRetries.WithLabelValues(hostOf(addr))))
}

func TestHTTPTransport_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tr, _ := newTestTransport(t)
	_, err := tr.Send(ctx, &connector.Request{Method: http.MethodGet, URL: srv.URL})
	assert.ErrorIs(t, err, context.Canceled)
}
