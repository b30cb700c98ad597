package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitTracer_Disabled(t *testing.T) {
	tp, shutdown, err := InitTracer(TracingConfig{ServiceName: "router-test"})
	require.NoError(t, err)
	defer func() { _ = shutdown(context.Background()) }()

	_, span := tp.Tracer("test").Start(context.Background(), "noop")
	defer span.End()
	assert.False(t, span.SpanContext().IsSampled())
}
