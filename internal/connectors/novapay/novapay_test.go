package novapay

import (
	"encoding/base64"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsmesohit/hyperswitch/internal/connector"
	domainErrors "github.com/itsmesohit/hyperswitch/internal/domain/errors"
	"github.com/itsmesohit/hyperswitch/internal/domain/payment"
	"github.com/itsmesohit/hyperswitch/internal/infrastructure/config"
	"github.com/itsmesohit/hyperswitch/internal/testutil"
	"github.com/itsmesohit/hyperswitch/pkg/masking"
)

func newTestConnector() *Novapay {
	return New(config.NovapayConfig{BaseURL: "https://nova.test/v1/"})
}

func authorizeEnvelope(amount payment.MinorUnit, currency payment.Currency) *authorizeData {
	return testutil.Envelope[payment.Authorize, payment.PaymentsAuthorizeData, payment.PaymentsResponseData](
		Name, amount, currency, testutil.BodyKey("pk", "sk"), payment.PaymentsAuthorizeData{})
}

func formBody(t *testing.T, content connector.RequestContent) url.Values {
	t.Helper()
	require.NotNil(t, content)
	assert.Equal(t, "application/x-www-form-urlencoded", content.ContentType())
	raw, err := content.Encode()
	require.NoError(t, err)
	values, err := url.ParseQuery(string(raw))
	require.NoError(t, err)
	return values
}

func jsonResponse(body string) *connector.Response {
	return &connector.Response{StatusCode: http.StatusOK, Body: []byte(body)}
}

func requireKind(t *testing.T, err error, kind domainErrors.Kind) {
	t.Helper()
	require.Error(t, err)
	got, ok := domainErrors.KindOf(err)
	require.True(t, ok, "error %v carries no kind", err)
	assert.Equal(t, kind, got)
}

func TestAuthorize_CardInMajorUnits(t *testing.T) {
	tests := []struct {
		currency payment.Currency
		amount   payment.MinorUnit
		want     string
	}{
		{"USD", 1050, "10.50"},
		{"JPY", 1050, "1050"},
		{"KWD", 1050, "1.050"},
	}

	for _, tt := range tests {
		t.Run(string(tt.currency), func(t *testing.T) {
			rd := authorizeEnvelope(tt.amount, tt.currency)
			rd.Description = testutil.Ptr("order 42")

			content, err := newTestConnector().AuthorizeFlow().RequestBody(rd)
			require.NoError(t, err)
			form := formBody(t, content)

			assert.Equal(t, tt.want, form.Get("amount"))
			assert.Equal(t, strings.ToLower(string(tt.currency)), form.Get("currency"))
			assert.Equal(t, "true", form.Get("capture"))
			assert.Equal(t, "card", form.Get("payment_method_type"))
			assert.Equal(t, testutil.CardNumber, form.Get("card[number]"))
			assert.Equal(t, "03", form.Get("card[exp_month]"))
			assert.Equal(t, "30", form.Get("card[exp_year]"))
			assert.Equal(t, "737", form.Get("card[cvc]"))
			assert.Equal(t, "Jane Doe", form.Get("card[name]"))
			assert.Equal(t, rd.ConnectorRequestReferenceID, form.Get("reference"))
			assert.Equal(t, "order 42", form.Get("description"))
			assert.False(t, form.Has("wallet[token]"))
			assert.False(t, form.Has("receipt_email"))
		})
	}
}

func TestAuthorize_LowercaseCurrency(t *testing.T) {
	content, err := newTestConnector().AuthorizeFlow().RequestBody(authorizeEnvelope(1050, "EUR"))
	require.NoError(t, err)
	assert.Equal(t, "eur", formBody(t, content).Get("currency"))
}

func TestAuthorize_Wallet(t *testing.T) {
	rd := authorizeEnvelope(1050, "USD")
	rd.PaymentMethodData = payment.Wallet{Type: payment.WalletApplePay, Token: masking.New("wallet-token")}
	rd.Request.Email = masking.New("jane@example.com")
	rd.Request.CaptureMethod = testutil.Ptr(payment.CaptureMethodManual)

	content, err := newTestConnector().AuthorizeFlow().RequestBody(rd)
	require.NoError(t, err)
	form := formBody(t, content)

	assert.Equal(t, "wallet", form.Get("payment_method_type"))
	assert.Equal(t, "apple_pay", form.Get("wallet[type]"))
	assert.Equal(t, "wallet-token", form.Get("wallet[token]"))
	assert.Equal(t, "false", form.Get("capture"))
	assert.Equal(t, "jane@example.com", form.Get("receipt_email"))
	assert.False(t, form.Has("card[number]"))
}

func TestAuthorize_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*authorizeData)
		kind   domainErrors.Kind
	}{
		{"bank redirect", func(rd *authorizeData) {
			rd.PaymentMethodData = payment.BankRedirect{Type: payment.BankRedirectSofort}
		}, domainErrors.KindNotImplemented},
		{"wallet without token", func(rd *authorizeData) {
			rd.PaymentMethodData = payment.Wallet{Type: payment.WalletPaypal}
		}, domainErrors.KindRequestEncodingFailed},
		{"no payment method", func(rd *authorizeData) {
			rd.PaymentMethodData = nil
		}, domainErrors.KindRequestEncodingFailed},
		{"scheduled capture", func(rd *authorizeData) {
			rd.Request.CaptureMethod = testutil.Ptr(payment.CaptureMethodScheduled)
		}, domainErrors.KindNotImplemented},
		{"bad expiry year", func(rd *authorizeData) {
			card := testutil.Card()
			card.CardExpYear = masking.New("30300")
			rd.PaymentMethodData = card
		}, domainErrors.KindRequestEncodingFailed},
		{"unknown currency", func(rd *authorizeData) {
			rd.Currency = "ABC"
		}, domainErrors.KindRequestEncodingFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rd := authorizeEnvelope(1050, "USD")
			tt.mutate(rd)

			_, err := newTestConnector().AuthorizeFlow().RequestBody(rd)
			requireKind(t, err, tt.kind)
		})
	}
}

func TestAuthorize_Response(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		status   payment.AttemptStatus
		redirect *payment.RedirectForm
	}{
		{"authorized", `{"id":"ch_1","status":"authorized","amount":"10.50","currency":"usd"}`, payment.AttemptStatusAuthorized, nil},
		{"captured", `{"id":"ch_1","status":"captured","amount":"10.50","amount_captured":"10.50","currency":"usd"}`, payment.AttemptStatusCharged, nil},
		{"pending", `{"id":"ch_1","status":"pending","amount":"10.50","currency":"usd"}`, payment.AttemptStatusPending, nil},
		{"declined", `{"id":"ch_1","status":"declined","amount":"10.50","currency":"usd"}`, payment.AttemptStatusAuthorizationFailed, nil},
		{"error", `{"id":"ch_1","status":"error","amount":"10.50","currency":"usd"}`, payment.AttemptStatusFailure, nil},
		{
			"requires action",
			`{"id":"ch_1","status":"requires_action","amount":"10.50","currency":"usd","next_action":{"redirect_url":"https://nova.test/3ds/ch_1"}}`,
			payment.AttemptStatusAuthenticationPending,
			&payment.RedirectForm{Endpoint: "https://nova.test/3ds/ch_1", Method: http.MethodGet, FormFields: map[string]string{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := newTestConnector().AuthorizeFlow().HandleResponse(authorizeEnvelope(1050, "USD"), jsonResponse(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.status, next.Status)

			outcome, _ := next.Outcome()
			value, ok := outcome.Value()
			require.True(t, ok)
			id, _ := value.ResourceID.ConnectorTransactionID()
			assert.Equal(t, "ch_1", id)
			assert.Equal(t, tt.redirect, value.RedirectionData)
		})
	}
}

func TestAuthorize_ResponseRejections(t *testing.T) {
	tests := []struct {
		name string
		body string
		kind domainErrors.Kind
	}{
		{"unknown status", `{"id":"ch_1","status":"settled"}`, domainErrors.KindResponseDeserializationFailed},
		{"requires action without url", `{"id":"ch_1","status":"requires_action"}`, domainErrors.KindResponseHandlingFailed},
		{"bad captured amount", `{"id":"ch_1","status":"captured","amount":"10.50","amount_captured":"ten"}`, domainErrors.KindResponseDeserializationFailed},
		{"not json", `<html>`, domainErrors.KindResponseDeserializationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestConnector().AuthorizeFlow().HandleResponse(authorizeEnvelope(1050, "USD"), jsonResponse(tt.body))
			requireKind(t, err, tt.kind)
		})
	}
}

func TestCapture(t *testing.T) {
	flow := newTestConnector().CaptureFlow()
	rd := testutil.Envelope[payment.Capture, payment.PaymentsCaptureData, payment.PaymentsResponseData](
		Name, 1050, "USD", testutil.BodyKey("pk", "sk"),
		payment.PaymentsCaptureData{AmountToCapture: 500, ConnectorTransactionID: "ch_1"})

	url, err := flow.URL(rd)
	require.NoError(t, err)
	assert.Equal(t, "https://nova.test/v1/charges/ch_1/capture", url)

	content, err := flow.RequestBody(rd)
	require.NoError(t, err)
	assert.Equal(t, "5.00", formBody(t, content).Get("amount"))

	next, err := flow.HandleResponse(rd, jsonResponse(`{"id":"ch_1","status":"captured","amount":"10.50","amount_captured":"5.00"}`))
	require.NoError(t, err)
	assert.Equal(t, payment.AttemptStatusPartialCharged, next.Status)

	declined, err := flow.HandleResponse(rd, jsonResponse(`{"id":"ch_1","status":"declined","amount":"10.50"}`))
	require.NoError(t, err)
	assert.Equal(t, payment.AttemptStatusCaptureFailed, declined.Status)

	rd.Request.ConnectorTransactionID = ""
	_, err = flow.URL(rd)
	requireKind(t, err, domainErrors.KindRequestEncodingFailed)
}

func TestPSync(t *testing.T) {
	flow := newTestConnector().PSyncFlow()
	rd := testutil.Envelope[payment.PSync, payment.PaymentsSyncData, payment.PaymentsResponseData](
		Name, 1050, "USD", testutil.BodyKey("pk", "sk"),
		payment.PaymentsSyncData{ConnectorTransactionID: payment.ConnectorTransactionID("ch_1")})

	url, err := flow.URL(rd)
	require.NoError(t, err)
	assert.Equal(t, "https://nova.test/v1/charges/ch_1", url)
	assert.Equal(t, http.MethodGet, flow.HTTPMethod())

	next, err := flow.HandleResponse(rd, jsonResponse(`{"id":"ch_1","status":"voided","amount":"10.50"}`))
	require.NoError(t, err)
	assert.Equal(t, payment.AttemptStatusVoided, next.Status)

	rd.Request.ConnectorTransactionID = payment.EncodedData("opaque")
	_, err = flow.URL(rd)
	requireKind(t, err, domainErrors.KindRequestEncodingFailed)
}

func TestVoid(t *testing.T) {
	flow := newTestConnector().VoidFlow()
	rd := testutil.Envelope[payment.Void, payment.PaymentsCancelData, payment.PaymentsResponseData](
		Name, 1050, "USD", testutil.BodyKey("pk", "sk"),
		payment.PaymentsCancelData{ConnectorTransactionID: "ch_1", CancellationReason: testutil.Ptr("duplicate")})

	url, err := flow.URL(rd)
	require.NoError(t, err)
	assert.Equal(t, "https://nova.test/v1/charges/ch_1/void", url)

	content, err := flow.RequestBody(rd)
	require.NoError(t, err)
	assert.Equal(t, "duplicate", formBody(t, content).Get("reason"))

	next, err := flow.HandleResponse(rd, jsonResponse(`{"id":"ch_1","status":"declined","amount":"10.50"}`))
	require.NoError(t, err)
	assert.Equal(t, payment.AttemptStatusVoidFailed, next.Status)
}

func TestRefunds(t *testing.T) {
	req := payment.RefundsData{RefundID: "ref_1", ConnectorTransactionID: "ch_1", RefundAmount: 250, Reason: testutil.Ptr("customer request")}
	execute := testutil.Envelope[payment.Execute, payment.RefundsData, payment.RefundsResponseData](
		Name, 1050, "USD", testutil.BodyKey("pk", "sk"), req)

	content, err := newTestConnector().RefundExecuteFlow().RequestBody(execute)
	require.NoError(t, err)
	form := formBody(t, content)
	assert.Equal(t, "ch_1", form.Get("charge"))
	assert.Equal(t, "2.50", form.Get("amount"))
	assert.Equal(t, "ref_1", form.Get("reference"))
	assert.Equal(t, "customer request", form.Get("reason"))

	tests := []struct {
		wire string
		want payment.RefundStatus
	}{
		{"queued", payment.RefundStatusPending},
		{"processing", payment.RefundStatusPending},
		{"completed", payment.RefundStatusSuccess},
		{"rejected", payment.RefundStatusFailure},
	}
	for _, tt := range tests {
		t.Run(tt.wire, func(t *testing.T) {
			req := req
			req.ConnectorRefundID = testutil.Ptr("re_1")
			rd := testutil.Envelope[payment.RSync, payment.RefundsData, payment.RefundsResponseData](
				Name, 1050, "USD", testutil.BodyKey("pk", "sk"), req)

			url, err := newTestConnector().RefundSyncFlow().URL(rd)
			require.NoError(t, err)
			assert.Equal(t, "https://nova.test/v1/refunds/re_1", url)

			next, err := newTestConnector().RefundSyncFlow().HandleResponse(rd,
				jsonResponse(`{"id":"re_1","charge":"ch_1","status":"`+tt.wire+`","amount":"2.50"}`))
			require.NoError(t, err)
			outcome, _ := next.Outcome()
			value, _ := outcome.Value()
			assert.Equal(t, tt.want, value.RefundStatus)
		})
	}
}

func TestAuthHeaders(t *testing.T) {
	c := newTestConnector()

	h, err := c.AuthHeaders(testutil.BodyKey("pk", "sk"))
	require.NoError(t, err)
	assert.Equal(t, "Basic "+base64.StdEncoding.EncodeToString([]byte("pk:sk")), h.Get("Authorization"))

	_, err = c.AuthHeaders(testutil.HeaderKey("pk"))
	requireKind(t, err, domainErrors.KindFailedToObtainAuthType)

	_, err = c.AuthHeaders(payment.NoKey{})
	requireKind(t, err, domainErrors.KindFailedToObtainAuthType)
}

func TestBuildErrorResponse(t *testing.T) {
	c := newTestConnector()

	declined, err := c.BuildErrorResponse(&connector.Response{
		StatusCode: http.StatusPaymentRequired,
		Body:       []byte(`{"error":{"code":"card_declined","message":"Your card was declined.","decline_reason":"insufficient_funds","charge":"ch_1"}}`),
	})
	require.NoError(t, err)
	assert.Equal(t, "card_declined", declined.Code)
	assert.Equal(t, "Your card was declined.", declined.Message)
	assert.Equal(t, testutil.Ptr("insufficient_funds"), declined.Reason)
	assert.Equal(t, testutil.Ptr("ch_1"), declined.ConnectorTransactionID)
	assert.Equal(t, testutil.Ptr(payment.AttemptStatusAuthorizationFailed), declined.AttemptStatus)

	invalid, err := c.BuildErrorResponse(&connector.Response{
		StatusCode: http.StatusBadRequest,
		Body:       []byte(`{"error":{"code":"parameter_invalid","message":"amount is invalid"}}`),
	})
	require.NoError(t, err)
	assert.Nil(t, invalid.AttemptStatus)
	assert.Nil(t, invalid.Reason)
}
