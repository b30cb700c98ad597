package connector

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	domainErrors "github.com/itsmesohit/hyperswitch/internal/domain/errors"
	"github.com/itsmesohit/hyperswitch/internal/domain/payment"
	"github.com/itsmesohit/hyperswitch/internal/infrastructure/observability"
)

const tracerName = "github.com/itsmesohit/hyperswitch/internal/connector"

var errProcessorUnavailable = errors.New("processor returned a server error")

// BreakerSource hands out the circuit breaker guarding one connector.
// A nil breaker means calls go straight to the transport.
type BreakerSource interface {
	Breaker(connector string) *gobreaker.CircuitBreaker[*Response]
}

// Executor runs one flow end to end: build the request, send it, convert
// the answer. It holds no per-operation state and is safe for concurrent use.
type Executor struct {
	transport Transport
	breakers  BreakerSource
	metrics   *observability.Metrics
	tracer    trace.Tracer
	logger    zerolog.Logger
}

type ExecutorOption func(*Executor)

func WithBreakers(b BreakerSource) ExecutorOption {
	return func(e *Executor) { e.breakers = b }
}

func WithMetrics(m *observability.Metrics) ExecutorOption {
	return func(e *Executor) { e.metrics = m }
}

func WithTracer(t trace.Tracer) ExecutorOption {
	return func(e *Executor) { e.tracer = t }
}

func NewExecutor(transport Transport, logger zerolog.Logger, opts ...ExecutorOption) *Executor {
	e := &Executor{
		transport: transport,
		logger:    logger,
		tracer:    otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute resolves rd's outcome through integ. Every failure, whether in
// conversion, transport or the processor itself, ends up in the outcome of
// the returned envelope; the error return is reserved for an envelope
// that was already resolved.
func Execute[F payment.Flow, Req any, Resp any](
	ctx context.Context,
	ex *Executor,
	integ Integration[F, Req, Resp],
	rd *payment.RouterData[F, Req, Resp],
) (out *payment.RouterData[F, Req, Resp], err error) {
	if _, resolved := rd.Outcome(); resolved {
		return nil, payment.ErrOutcomeAlreadyResolved
	}

	connectorID := integ.ID()
	flow := rd.FlowName()
	logger := observability.WithConnector(ex.logger, connectorID, flow, rd.AttemptID)
	start := time.Now()

	ctx, span := ex.tracer.Start(ctx, "connector."+flow, trace.WithAttributes(
		attribute.String("connector", connectorID),
		attribute.String("flow", flow),
		attribute.String("attempt_id", rd.AttemptID),
	))
	defer span.End()

	fail := func(stage string, cause error) (*payment.RouterData[F, Req, Resp], error) {
		kind, _ := domainErrors.KindOf(cause)
		ex.countTransformError(connectorID, flow, kind)
		span.RecordError(cause)
		span.SetStatus(codes.Error, stage)
		logger.Warn().
			Str("stage", stage).
			Str("kind", string(kind)).
			Strs("diagnostics", domainErrors.Attachments(cause)).
			Msg("connector operation failed")
		ex.observe(connectorID, flow, "error", start)
		return rd.WithOutcome(rd.Status, payment.Err[Resp](payment.ErrorResponse{
			Code:    payment.NoErrorCode,
			Message: cause.Error(),
			Cause:   cause,
		}))
	}

	defer func() {
		if r := recover(); r != nil {
			cause := domainErrors.New(domainErrors.ErrProcessingStepFailed).Attachf("panic in %s %s: %v", connectorID, flow, r)
			out, err = fail("panic", cause)
		}
	}()

	req, buildErr := BuildRequest(integ, rd)
	if buildErr != nil {
		return fail("build_request", buildErr)
	}

	logger.Debug().Str("method", req.Method).Str("url", req.URL).Msg("dispatching connector request")

	res, sendErr := ex.send(ctx, connectorID, req)
	if sendErr != nil {
		logger.Error().Err(sendErr).Msg("transport failure")
		return fail("transport", domainErrors.ChangeContext(sendErr, domainErrors.ErrProcessingStepFailed).
			Attachf("sending %s request to %s", flow, connectorID))
	}
	span.SetAttributes(attribute.Int("http.status_code", res.StatusCode))

	if !res.IsSuccess() {
		errResp, convErr := integ.BuildErrorResponse(res)
		if convErr != nil {
			return fail("build_error_response", convErr)
		}
		errResp.StatusCode = res.StatusCode
		status := payment.AttemptStatusFailure
		if errResp.AttemptStatus != nil {
			status = *errResp.AttemptStatus
		}
		ex.countProcessorError(connectorID, flow, res.StatusCode)
		span.SetStatus(codes.Error, errResp.Code)
		logger.Info().
			Int("status_code", res.StatusCode).
			Str("error_code", errResp.Code).
			Msg("processor returned an error")
		ex.observe(connectorID, flow, "processor_error", start)
		return rd.WithOutcome(status, payment.Err[Resp](errResp))
	}

	next, handleErr := integ.HandleResponse(rd, res)
	if handleErr != nil {
		return fail("handle_response", handleErr)
	}
	if _, resolved := next.Outcome(); !resolved {
		return fail("handle_response", domainErrors.New(domainErrors.ErrResponseHandlingFailed).
			Attach("response conversion did not resolve the outcome"))
	}

	logger.Debug().Str("status", string(next.Status)).Msg("connector operation completed")
	ex.observe(connectorID, flow, "success", start)
	return next, nil
}

func (e *Executor) send(ctx context.Context, connectorID string, req *Request) (*Response, error) {
	var cb *gobreaker.CircuitBreaker[*Response]
	if e.breakers != nil {
		cb = e.breakers.Breaker(connectorID)
	}
	if cb == nil {
		return e.transport.Send(ctx, req)
	}

	res, err := cb.Execute(func() (*Response, error) {
		res, err := e.transport.Send(ctx, req)
		if err != nil {
			return nil, err
		}
		if res.StatusCode >= 500 {
			return res, fmt.Errorf("%w: status %d", errProcessorUnavailable, res.StatusCode)
		}
		return res, nil
	})
	if e.metrics != nil {
		e.metrics.CircuitBreakerState.WithLabelValues(cb.Name()).Set(float64(cb.State()))
		result := "success"
		if err != nil {
			result = "failure"
		}
		e.metrics.CircuitBreakerRequests.WithLabelValues(cb.Name(), result).Inc()
	}
	// a 5xx still carries a processor error body worth converting
	if errors.Is(err, errProcessorUnavailable) && res != nil {
		return res, nil
	}
	return res, err
}

func (e *Executor) observe(connectorID, flow, result string, start time.Time) {
	if e.metrics == nil {
		return
	}
	e.metrics.ConnectorRequestsTotal.WithLabelValues(connectorID, flow, result).Inc()
	e.metrics.ConnectorRequestDuration.WithLabelValues(connectorID, flow).Observe(time.Since(start).Seconds())
}

func (e *Executor) countTransformError(connectorID, flow string, kind domainErrors.Kind) {
	if e.metrics == nil {
		return
	}
	if kind == "" {
		kind = "unknown"
	}
	e.metrics.TransformErrors.WithLabelValues(connectorID, flow, string(kind)).Inc()
}

func (e *Executor) countProcessorError(connectorID, flow string, status int) {
	if e.metrics == nil {
		return
	}
	e.metrics.ProcessorErrors.WithLabelValues(connectorID, flow, strconv.Itoa(status)).Inc()
}
