package connector_test

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/mock/gomock"
	"golang.org/x/sync/errgroup"

	"github.com/itsmesohit/hyperswitch/internal/connector"
	"github.com/itsmesohit/hyperswitch/internal/connector/mocks"
	domainErrors "github.com/itsmesohit/hyperswitch/internal/domain/errors"
	"github.com/itsmesohit/hyperswitch/internal/domain/payment"
	"github.com/itsmesohit/hyperswitch/internal/infrastructure/observability"
	"github.com/itsmesohit/hyperswitch/pkg/masking"
)

type envelope = payment.RouterData[payment.Authorize, payment.PaymentsAuthorizeData, payment.PaymentsResponseData]

// fakeAuthorize is a minimal JSON connector used to drive the executor.
type fakeAuthorize struct {
	buildErr error
	panicMsg string
}

type fakeRequest struct {
	Amount int64  `json:"amount"`
	Card   string `json:"card"`
}

type fakeResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type fakeError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (fakeAuthorize) ID() string      { return "fake" }
func (fakeAuthorize) BaseURL() string { return "https://fake.test" }

func (fakeAuthorize) AuthHeaders(auth payment.ConnectorAuthType) (http.Header, error) {
	key, err := connector.AuthAs[payment.HeaderKey](auth)
	if err != nil {
		return nil, err
	}
	return http.Header{"X-Api-Key": []string{key.APIKey.Expose()}}, nil
}

func (fakeAuthorize) BuildErrorResponse(res *connector.Response) (payment.ErrorResponse, error) {
	body, err := connector.ParseJSON[fakeError](res.Body)
	if err != nil {
		return payment.ErrorResponse{}, err
	}
	return payment.ErrorResponse{Code: body.Code, Message: body.Message}, nil
}

func (fakeAuthorize) HTTPMethod() string { return http.MethodPost }

func (f fakeAuthorize) URL(*envelope) (string, error) {
	return connector.JoinURL(f.BaseURL(), "payments"), nil
}

func (f fakeAuthorize) RequestBody(rd *envelope) (connector.RequestContent, error) {
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	if f.buildErr != nil {
		return nil, f.buildErr
	}
	card, err := connector.CardFrom(rd.PaymentMethodData)
	if err != nil {
		return nil, err
	}
	return connector.JSONContent{Value: fakeRequest{Amount: rd.Amount.Int64(), Card: card.CardNumber.Expose()}}, nil
}

func (fakeAuthorize) HandleResponse(rd *envelope, res *connector.Response) (*envelope, error) {
	body, err := connector.ParseJSON[fakeResponse](res.Body)
	if err != nil {
		return nil, err
	}
	status := payment.AttemptStatusFailure
	if body.Status == "ok" {
		status = payment.AttemptStatusCharged
	}
	return rd.WithOutcome(status, payment.Ok(payment.PaymentsResponseData{
		ResourceID: payment.ConnectorTransactionID(body.ID),
	}))
}

var _ connector.AuthorizeIntegration = fakeAuthorize{}

func newEnvelope(pm payment.PaymentMethodData) *envelope {
	return payment.NewRouterData[payment.Authorize, payment.PaymentsAuthorizeData, payment.PaymentsResponseData](
		"merchant_1", "fake", 1050, "USD", pm,
		payment.HeaderKey{APIKey: masking.New("secret-key")},
		payment.PaymentsAuthorizeData{},
	)
}

func testCard() payment.Card {
	return payment.Card{
		CardNumber:   masking.New("4111111111111111"),
		CardExpMonth: masking.New("12"),
		CardExpYear:  masking.New("2030"),
		CardCVC:      masking.New("123"),
	}
}

func newExecutor(t *testing.T, transport connector.Transport, opts ...connector.ExecutorOption) (*connector.Executor, *observability.Metrics) {
	t.Helper()
	m := observability.NewMetrics("test", prometheus.NewRegistry())
	opts = append([]connector.ExecutorOption{connector.WithMetrics(m)}, opts...)
	return connector.NewExecutor(transport, zerolog.Nop(), opts...), m
}

func TestExecute_Success(t *testing.T) {
	transport := mocks.NewMockTransport(gomock.NewController(t))
	ex, m := newExecutor(t, transport)

	transport.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, req *connector.Request) (*connector.Response, error) {
		assert.Equal(t, http.MethodPost, req.Method)
		assert.Equal(t, "https://fake.test/payments", req.URL)
		assert.Equal(t, "secret-key", req.Headers.Get("X-Api-Key"))
		assert.Equal(t, "application/json", req.Headers.Get("Content-Type"))
		assert.JSONEq(t, `{"amount":1050,"card":"4111111111111111"}`, string(req.Body))
		return &connector.Response{StatusCode: 200, Body: []byte(`{"id":"txn_1","status":"ok"}`)}, nil
	})

	rd := newEnvelope(testCard())
	out, err := connector.Execute(context.Background(), ex, fakeAuthorize{}, rd)
	require.NoError(t, err)

	assert.Equal(t, payment.AttemptStatusCharged, out.Status)
	o, resolved := out.Outcome()
	require.True(t, resolved)
	v, ok := o.Value()
	require.True(t, ok)
	id, _ := v.ResourceID.ConnectorTransactionID()
	assert.Equal(t, "txn_1", id)

	assert.Equal(t, rd.MerchantID, out.MerchantID)
	assert.Equal(t, rd.Connector, out.Connector)
	assert.Equal(t, rd.Amount, out.Amount)
	assert.Equal(t, rd.PaymentMethodData, out.PaymentMethodData)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ConnectorRequestsTotal.WithLabelValues("fake", "authorize", "success")))
}

func TestExecute_BuildFailureNeverReachesTransport(t *testing.T) {
	tests := []struct {
		name string
		pm   payment.PaymentMethodData
		auth payment.ConnectorAuthType
		kind domainErrors.Kind
	}{
		{"unsupported payment method", payment.Wallet{Type: payment.WalletApplePay}, payment.HeaderKey{APIKey: masking.New("k")}, domainErrors.KindNotImplemented},
		{"wrong credentials", testCard(), payment.BodyKey{}, domainErrors.KindFailedToObtainAuthType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// no EXPECT: any Send call fails the test
			transport := mocks.NewMockTransport(gomock.NewController(t))
			ex, m := newExecutor(t, transport)

			rd := newEnvelope(tt.pm)
			rd.ConnectorAuthType = tt.auth
			out, err := connector.Execute(context.Background(), ex, fakeAuthorize{}, rd)
			require.NoError(t, err)

			assert.Equal(t, payment.AttemptStatusStarted, out.Status)
			o, _ := out.Outcome()
			failure, failed := o.Failure()
			require.True(t, failed)
			kind, ok := failure.Kind()
			require.True(t, ok)
			assert.Equal(t, tt.kind, kind)

			assert.Equal(t, 1.0, testutil.ToFloat64(m.TransformErrors.WithLabelValues("fake", "authorize", string(tt.kind))))
		})
	}
}

func TestExecute_ProcessorError(t *testing.T) {
	transport := mocks.NewMockTransport(gomock.NewController(t))
	ex, _ := newExecutor(t, transport)

	transport.EXPECT().Send(gomock.Any(), gomock.Any()).Return(&connector.Response{
		StatusCode: http.StatusPaymentRequired,
		Body:       []byte(`{"code":"card_declined","message":"Insufficient funds"}`),
	}, nil)

	out, err := connector.Execute(context.Background(), ex, fakeAuthorize{}, newEnvelope(testCard()))
	require.NoError(t, err)

	assert.Equal(t, payment.AttemptStatusFailure, out.Status)
	o, _ := out.Outcome()
	failure, failed := o.Failure()
	require.True(t, failed)
	assert.Equal(t, "card_declined", failure.Code)
	assert.Equal(t, "Insufficient funds", failure.Message)
	assert.Equal(t, http.StatusPaymentRequired, failure.StatusCode)
	assert.Nil(t, failure.Cause)
}

func TestExecute_TransportFailure(t *testing.T) {
	transport := mocks.NewMockTransport(gomock.NewController(t))
	ex, _ := newExecutor(t, transport)

	transport.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection reset"))

	out, err := connector.Execute(context.Background(), ex, fakeAuthorize{}, newEnvelope(testCard()))
	require.NoError(t, err)

	o, _ := out.Outcome()
	failure, failed := o.Failure()
	require.True(t, failed)
	assert.ErrorIs(t, failure.Cause, domainErrors.ErrProcessingStepFailed)
	assert.Contains(t, failure.Message, "connection reset")
}

func TestExecute_UndecodableResponse(t *testing.T) {
	transport := mocks.NewMockTransport(gomock.NewController(t))
	ex, _ := newExecutor(t, transport)

	transport.EXPECT().Send(gomock.Any(), gomock.Any()).Return(&connector.Response{StatusCode: 200, Body: []byte(`<html>`)}, nil)

	out, err := connector.Execute(context.Background(), ex, fakeAuthorize{}, newEnvelope(testCard()))
	require.NoError(t, err)

	o, _ := out.Outcome()
	failure, failed := o.Failure()
	require.True(t, failed)
	assert.ErrorIs(t, failure.Cause, domainErrors.ErrResponseDeserializationFailed)
}

func TestExecute_RecoversAdapterPanic(t *testing.T) {
	transport := mocks.NewMockTransport(gomock.NewController(t))
	ex, _ := newExecutor(t, transport)

	out, err := connector.Execute(context.Background(), ex, fakeAuthorize{panicMsg: "index out of range"}, newEnvelope(testCard()))
	require.NoError(t, err)

	o, _ := out.Outcome()
	failure, failed := o.Failure()
	require.True(t, failed)
	assert.ErrorIs(t, failure.Cause, domainErrors.ErrProcessingStepFailed)
	assert.Contains(t, failure.Message, "index out of range")
}

func TestExecute_RejectsResolvedEnvelope(t *testing.T) {
	transport := mocks.NewMockTransport(gomock.NewController(t))
	ex, _ := newExecutor(t, transport)

	rd, err := newEnvelope(testCard()).WithOutcome(payment.AttemptStatusCharged, payment.Ok(payment.PaymentsResponseData{}))
	require.NoError(t, err)

	_, err = connector.Execute(context.Background(), ex, fakeAuthorize{}, rd)
	assert.ErrorIs(t, err, payment.ErrOutcomeAlreadyResolved)
}

type singleBreaker struct {
	cb *gobreaker.CircuitBreaker[*connector.Response]
}

func (s singleBreaker) Breaker(string) *gobreaker.CircuitBreaker[*connector.Response] { return s.cb }

func TestExecute_OpenBreakerShortCircuits(t *testing.T) {
	transport := mocks.NewMockTransport(gomock.NewController(t))
	cb := gobreaker.NewCircuitBreaker[*connector.Response](gobreaker.Settings{
		Name:        "fake",
		ReadyToTrip: func(c gobreaker.Counts) bool { return c.ConsecutiveFailures >= 2 },
	})
	ex, m := newExecutor(t, transport, connector.WithBreakers(singleBreaker{cb: cb}))

	transport.EXPECT().Send(gomock.Any(), gomock.Any()).Return(&connector.Response{
		StatusCode: http.StatusServiceUnavailable,
		Body:       []byte(`{"code":"unavailable","message":"try later"}`),
	}, nil).Times(2)

	for range 2 {
		out, err := connector.Execute(context.Background(), ex, fakeAuthorize{}, newEnvelope(testCard()))
		require.NoError(t, err)
		o, _ := out.Outcome()
		failure, _ := o.Failure()
		assert.Equal(t, "unavailable", failure.Code)
	}
	assert.Equal(t, gobreaker.StateOpen, cb.State())
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CircuitBreakerState.WithLabelValues("fake")))

	out, err := connector.Execute(context.Background(), ex, fakeAuthorize{}, newEnvelope(testCard()))
	require.NoError(t, err)
	o, _ := out.Outcome()
	failure, _ := o.Failure()
	assert.ErrorIs(t, failure.Cause, gobreaker.ErrOpenState)
}

func TestExecute_RecordsSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	transport := mocks.NewMockTransport(gomock.NewController(t))
	ex, _ := newExecutor(t, transport, connector.WithTracer(tp.Tracer("test")))
	transport.EXPECT().Send(gomock.Any(), gomock.Any()).Return(&connector.Response{StatusCode: 200, Body: []byte(`{"id":"t","status":"ok"}`)}, nil)

	_, err := connector.Execute(context.Background(), ex, fakeAuthorize{}, newEnvelope(testCard()))
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "connector.authorize", spans[0].Name())
}

func TestExecute_ConcurrentCallers(t *testing.T) {
	var calls atomic.Int64
	transport := mocks.NewMockTransport(gomock.NewController(t))
	transport.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(func(context.Context, *connector.Request) (*connector.Response, error) {
		calls.Add(1)
		return &connector.Response{StatusCode: 200, Body: []byte(`{"id":"t","status":"ok"}`)}, nil
	}).AnyTimes()
	ex, _ := newExecutor(t, transport)

	var g errgroup.Group
	for range 64 {
		g.Go(func() error {
			rd := newEnvelope(testCard())
			out, err := connector.Execute(context.Background(), ex, fakeAuthorize{}, rd)
			if err != nil {
				return err
			}
			if out.Status != payment.AttemptStatusCharged || out.AttemptID != rd.AttemptID {
				return errors.New("envelope mixed up")
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, int64(64), calls.Load())
}
