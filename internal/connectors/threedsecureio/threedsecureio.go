// Package threedsecureio integrates the 3dsecure.io server: card payments
// and refunds plus the EMV 3-D Secure pre-authentication and
// authentication exchange.
package threedsecureio

import (
	"net/http"
	"time"

	"github.com/itsmesohit/hyperswitch/internal/connector"
	"github.com/itsmesohit/hyperswitch/internal/domain/payment"
	"github.com/itsmesohit/hyperswitch/internal/infrastructure/config"
)

const (
	Name = "threedsecureio"

	apiKeyHeader = "APIKey"
)

var (
	_ connector.PaymentAuthorize  = (*Threedsecureio)(nil)
	_ connector.PaymentSync       = (*Threedsecureio)(nil)
	_ connector.RefundExecute     = (*Threedsecureio)(nil)
	_ connector.RefundSync        = (*Threedsecureio)(nil)
	_ connector.PreAuthentication = (*Threedsecureio)(nil)
	_ connector.Authentication    = (*Threedsecureio)(nil)
)

type Threedsecureio struct {
	cfg config.ThreedsecureioConfig
	now func() time.Time
}

type Option func(*Threedsecureio)

// WithClock fixes the purchase date sent in authentication requests.
func WithClock(now func() time.Time) Option {
	return func(t *Threedsecureio) { t.now = now }
}

func New(cfg config.ThreedsecureioConfig, opts ...Option) *Threedsecureio {
	t := &Threedsecureio{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Threedsecureio) ID() string { return Name }

func (t *Threedsecureio) BaseURL() string { return t.cfg.BaseURL }

func (t *Threedsecureio) AuthHeaders(auth payment.ConnectorAuthType) (http.Header, error) {
	key, err := connector.AuthAs[payment.HeaderKey](auth)
	if err != nil {
		return nil, err
	}
	h := http.Header{}
	h.Set(apiKeyHeader, key.APIKey.Expose())
	return h, nil
}

func (t *Threedsecureio) BuildErrorResponse(res *connector.Response) (payment.ErrorResponse, error) {
	body, err := connector.ParseJSON[ErrorResponse](res.Body)
	if err != nil {
		return payment.ErrorResponse{}, err
	}
	return body.canonical(res.StatusCode), nil
}

func (t *Threedsecureio) AuthorizeFlow() connector.AuthorizeIntegration {
	return authorizeFlow{t}
}

func (t *Threedsecureio) PSyncFlow() connector.PSyncIntegration {
	return psyncFlow{t}
}

func (t *Threedsecureio) RefundExecuteFlow() connector.RefundExecuteIntegration {
	return refundFlow{t}
}

func (t *Threedsecureio) RefundSyncFlow() connector.RefundSyncIntegration {
	return refundSyncFlow{t}
}

func (t *Threedsecureio) PreAuthenticateFlow() connector.PreAuthenticateIntegration {
	return preAuthenticateFlow{t}
}

func (t *Threedsecureio) AuthenticateFlow() connector.AuthenticateIntegration {
	return authenticateFlow{t}
}

type authorizeFlow struct{ *Threedsecureio }

func (authorizeFlow) HTTPMethod() string { return http.MethodPost }

func (f authorizeFlow) URL(*authorizeData) (string, error) {
	return connector.JoinURL(f.cfg.BaseURL, "payments"), nil
}

func (authorizeFlow) RequestBody(rd *authorizeData) (connector.RequestContent, error) {
	item, err := connector.NewAmountRouterData(payment.CurrencyUnitMinor, rd.Currency, rd.Amount, rd)
	if err != nil {
		return nil, err
	}
	req, err := newPaymentsRequest(item)
	if err != nil {
		return nil, err
	}
	return connector.JSONContent{Value: req}, nil
}

func (authorizeFlow) HandleResponse(rd *authorizeData, res *connector.Response) (*authorizeData, error) {
	body, err := connector.ParseJSON[PaymentsResponse](res.Body)
	if err != nil {
		return nil, err
	}
	return paymentsResponseRouterData(connector.ResponseRouterData[payment.Authorize, payment.PaymentsAuthorizeData, payment.PaymentsResponseData, PaymentsResponse]{
		Response:   body,
		Data:       rd,
		StatusCode: res.StatusCode,
	})
}

type psyncFlow struct{ *Threedsecureio }

func (psyncFlow) HTTPMethod() string { return http.MethodGet }

func (f psyncFlow) URL(rd *psyncData) (string, error) {
	id, ok := rd.Request.ConnectorTransactionID.ConnectorTransactionID()
	if !ok || id == "" {
		return "", connector.MissingField("connector_transaction_id")
	}
	return connector.JoinURL(f.cfg.BaseURL, "payments", id), nil
}

func (psyncFlow) RequestBody(*psyncData) (connector.RequestContent, error) { return nil, nil }

func (psyncFlow) HandleResponse(rd *psyncData, res *connector.Response) (*psyncData, error) {
	body, err := connector.ParseJSON[PaymentsResponse](res.Body)
	if err != nil {
		return nil, err
	}
	return paymentsResponseRouterData(connector.ResponseRouterData[payment.PSync, payment.PaymentsSyncData, payment.PaymentsResponseData, PaymentsResponse]{
		Response:   body,
		Data:       rd,
		StatusCode: res.StatusCode,
	})
}

type refundFlow struct{ *Threedsecureio }

func (refundFlow) HTTPMethod() string { return http.MethodPost }

func (f refundFlow) URL(rd *refundData) (string, error) {
	if rd.Request.ConnectorTransactionID == "" {
		return "", connector.MissingField("connector_transaction_id")
	}
	return connector.JoinURL(f.cfg.BaseURL, "payments", rd.Request.ConnectorTransactionID, "refunds"), nil
}

func (refundFlow) RequestBody(rd *refundData) (connector.RequestContent, error) {
	item, err := connector.NewAmountRouterData(payment.CurrencyUnitMinor, rd.Currency, rd.Request.RefundAmount, rd)
	if err != nil {
		return nil, err
	}
	return connector.JSONContent{Value: newRefundRequest(item)}, nil
}

func (refundFlow) HandleResponse(rd *refundData, res *connector.Response) (*refundData, error) {
	body, err := connector.ParseJSON[RefundResponse](res.Body)
	if err != nil {
		return nil, err
	}
	return refundResponseRouterData(connector.ResponseRouterData[payment.Execute, payment.RefundsData, payment.RefundsResponseData, RefundResponse]{
		Response:   body,
		Data:       rd,
		StatusCode: res.StatusCode,
	})
}

type refundSyncFlow struct{ *Threedsecureio }

func (refundSyncFlow) HTTPMethod() string { return http.MethodGet }

func (f refundSyncFlow) URL(rd *refundSyncData) (string, error) {
	id, err := connector.Required(rd.Request.ConnectorRefundID, "connector_refund_id")
	if err != nil {
		return "", err
	}
	return connector.JoinURL(f.cfg.BaseURL, "refunds", id), nil
}

func (refundSyncFlow) RequestBody(*refundSyncData) (connector.RequestContent, error) {
	return nil, nil
}

func (refundSyncFlow) HandleResponse(rd *refundSyncData, res *connector.Response) (*refundSyncData, error) {
	body, err := connector.ParseJSON[RefundResponse](res.Body)
	if err != nil {
		return nil, err
	}
	return refundResponseRouterData(connector.ResponseRouterData[payment.RSync, payment.RefundsData, payment.RefundsResponseData, RefundResponse]{
		Response:   body,
		Data:       rd,
		StatusCode: res.StatusCode,
	})
}

type preAuthenticateFlow struct{ *Threedsecureio }

func (preAuthenticateFlow) HTTPMethod() string { return http.MethodPost }

func (f preAuthenticateFlow) URL(*preAuthNData) (string, error) {
	return connector.JoinURL(f.cfg.BaseURL, "preauth"), nil
}

func (preAuthenticateFlow) RequestBody(rd *preAuthNData) (connector.RequestContent, error) {
	req, err := newPreAuthenticationRequest(rd)
	if err != nil {
		return nil, err
	}
	return connector.JSONContent{Value: req}, nil
}

func (preAuthenticateFlow) HandleResponse(rd *preAuthNData, res *connector.Response) (*preAuthNData, error) {
	body, err := connector.ParseJSON[PreAuthenticationResponse](res.Body)
	if err != nil {
		return nil, err
	}
	return preAuthResponseRouterData(connector.ResponseRouterData[payment.PreAuthenticate, payment.PreAuthNRequestData, payment.AuthenticationResponseData, PreAuthenticationResponse]{
		Response:   body,
		Data:       rd,
		StatusCode: res.StatusCode,
	})
}

type authenticateFlow struct{ *Threedsecureio }

func (authenticateFlow) HTTPMethod() string { return http.MethodPost }

func (f authenticateFlow) URL(*authNData) (string, error) {
	return connector.JoinURL(f.cfg.BaseURL, "auth"), nil
}

func (f authenticateFlow) RequestBody(rd *authNData) (connector.RequestContent, error) {
	item, err := connector.NewAmountRouterData(payment.CurrencyUnitMinor, rd.Currency, rd.Amount, rd)
	if err != nil {
		return nil, err
	}
	req, err := newAuthenticationRequest(item, f.cfg, f.now())
	if err != nil {
		return nil, err
	}
	return connector.JSONContent{Value: req}, nil
}

func (authenticateFlow) HandleResponse(rd *authNData, res *connector.Response) (*authNData, error) {
	body, err := connector.ParseJSON[AuthenticationResponse](res.Body)
	if err != nil {
		return nil, err
	}
	return authNResponseRouterData(connector.ResponseRouterData[payment.Authenticate, payment.ConnectorAuthenticationRequestData, payment.AuthenticationResponseData, AuthenticationResponse]{
		Response:   body,
		Data:       rd,
		StatusCode: res.StatusCode,
	})
}
