package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Tracing starts a server span per request. Spans are named by the
// matched chi pattern so ids in paths do not end up in span names; the
// raw path is used only while nothing has been routed.
func Tracing() func(http.Handler) http.Handler {
	return otelhttp.NewMiddleware("ops",
		otelhttp.WithSpanNameFormatter(spanName),
	)
}

func spanName(_ string, r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return r.Method + " " + pattern
		}
	}
	return r.Method + " " + r.URL.Path
}
