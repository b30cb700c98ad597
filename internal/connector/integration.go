package connector

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/go-querystring/query"

	domainErrors "github.com/itsmesohit/hyperswitch/internal/domain/errors"
	"github.com/itsmesohit/hyperswitch/internal/domain/payment"
)

// Request is a fully built outbound call, ready for a Transport.
type Request struct {
	Method  string
	URL     string
	Headers http.Header
	Body    []byte
}

// Response is what a Transport got back.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

//go:generate mockgen -source integration.go -destination mocks/mock_transport.go -package mocks -exclude_interfaces Common,Integration,RequestContent,PaymentAuthorize,PaymentCapture,PaymentSync,PaymentVoid,RefundExecute,RefundSync,PreAuthentication,Authentication

// Transport sends requests. Timeouts, retries and cancellation live here.
type Transport interface {
	Send(ctx context.Context, req *Request) (*Response, error)
}

// RequestContent is a processor request body in its wire encoding.
type RequestContent interface {
	ContentType() string
	Encode() ([]byte, error)
}

type JSONContent struct {
	Value any
}

func (JSONContent) ContentType() string { return "application/json" }

func (c JSONContent) Encode() ([]byte, error) {
	return json.Marshal(c.Value)
}

// FormContent encodes Value with `url` struct tags.
type FormContent struct {
	Value any
}

func (FormContent) ContentType() string { return "application/x-www-form-urlencoded" }

func (c FormContent) Encode() ([]byte, error) {
	v, err := query.Values(c.Value)
	if err != nil {
		return nil, err
	}
	return []byte(v.Encode()), nil
}

// Common is implemented once per connector and shared by all its flows.
type Common interface {
	ID() string
	BaseURL() string
	// AuthHeaders fails with FailedToObtainAuthType for a credential shape
	// the connector does not accept.
	AuthHeaders(auth payment.ConnectorAuthType) (http.Header, error)
	BuildErrorResponse(res *Response) (payment.ErrorResponse, error)
}

// Integration is one connector's implementation of flow F.
type Integration[F payment.Flow, Req any, Resp any] interface {
	Common
	HTTPMethod() string
	URL(rd *payment.RouterData[F, Req, Resp]) (string, error)
	// RequestBody returns nil for flows without a body.
	RequestBody(rd *payment.RouterData[F, Req, Resp]) (RequestContent, error)
	HandleResponse(rd *payment.RouterData[F, Req, Resp], res *Response) (*payment.RouterData[F, Req, Resp], error)
}

type (
	AuthorizeIntegration       = Integration[payment.Authorize, payment.PaymentsAuthorizeData, payment.PaymentsResponseData]
	CaptureIntegration         = Integration[payment.Capture, payment.PaymentsCaptureData, payment.PaymentsResponseData]
	PSyncIntegration           = Integration[payment.PSync, payment.PaymentsSyncData, payment.PaymentsResponseData]
	VoidIntegration            = Integration[payment.Void, payment.PaymentsCancelData, payment.PaymentsResponseData]
	RefundExecuteIntegration   = Integration[payment.Execute, payment.RefundsData, payment.RefundsResponseData]
	RefundSyncIntegration      = Integration[payment.RSync, payment.RefundsData, payment.RefundsResponseData]
	PreAuthenticateIntegration = Integration[payment.PreAuthenticate, payment.PreAuthNRequestData, payment.AuthenticationResponseData]
	AuthenticateIntegration    = Integration[payment.Authenticate, payment.ConnectorAuthenticationRequestData, payment.AuthenticationResponseData]
)

// Capabilities. A connector supports a flow by implementing the matching
// interface; there is nothing to register.
type (
	PaymentAuthorize interface {
		Common
		AuthorizeFlow() AuthorizeIntegration
	}
	PaymentCapture interface {
		Common
		CaptureFlow() CaptureIntegration
	}
	PaymentSync interface {
		Common
		PSyncFlow() PSyncIntegration
	}
	PaymentVoid interface {
		Common
		VoidFlow() VoidIntegration
	}
	RefundExecute interface {
		Common
		RefundExecuteFlow() RefundExecuteIntegration
	}
	RefundSync interface {
		Common
		RefundSyncFlow() RefundSyncIntegration
	}
	PreAuthentication interface {
		Common
		PreAuthenticateFlow() PreAuthenticateIntegration
	}
	Authentication interface {
		Common
		AuthenticateFlow() AuthenticateIntegration
	}
)

// BuildRequest assembles URL, credentials and encoded body. Nothing is sent.
func BuildRequest[F payment.Flow, Req any, Resp any](integ Integration[F, Req, Resp], rd *payment.RouterData[F, Req, Resp]) (*Request, error) {
	url, err := integ.URL(rd)
	if err != nil {
		return nil, err
	}

	headers, err := integ.AuthHeaders(rd.ConnectorAuthType)
	if err != nil {
		return nil, err
	}
	if headers == nil {
		headers = http.Header{}
	}

	content, err := integ.RequestBody(rd)
	if err != nil {
		return nil, err
	}

	req := &Request{Method: integ.HTTPMethod(), URL: url, Headers: headers}
	if content != nil {
		body, err := content.Encode()
		if err != nil {
			return nil, domainErrors.ChangeContext(err, domainErrors.ErrRequestEncodingFailed).
				Attachf("encoding %s request body", rd.FlowName())
		}
		req.Body = body
		req.Headers.Set("Content-Type", content.ContentType())
	}
	return req, nil
}

// ResponseRouterData is the input of an outbound conversion: the parsed
// processor response and the envelope it answers.
type ResponseRouterData[F payment.Flow, Req any, Resp any, R any] struct {
	Response   R
	Data       *payment.RouterData[F, Req, Resp]
	StatusCode int
}

// ParseJSON decodes a processor body into its schema.
func ParseJSON[T any](body []byte) (T, error) {
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		return v, domainErrors.ChangeContext(err, domainErrors.ErrResponseDeserializationFailed).
			Attachf("decoding %T", v)
	}
	return v, nil
}

// JoinURL appends path segments to base with exactly one slash between them.
func JoinURL(base string, segments ...string) string {
	out := strings.TrimRight(base, "/")
	for _, s := range segments {
		out += "/" + strings.Trim(s, "/")
	}
	return out
}
