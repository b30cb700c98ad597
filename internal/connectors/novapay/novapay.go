// Package novapay integrates NovaPay, a card and wallet acquirer with a
// form-encoded API that takes amounts as major-unit decimal strings.
package novapay

import (
	"encoding/base64"
	"net/http"

	"github.com/itsmesohit/hyperswitch/internal/connector"
	"github.com/itsmesohit/hyperswitch/internal/domain/payment"
	"github.com/itsmesohit/hyperswitch/internal/infrastructure/config"
)

const Name = "novapay"

var (
	_ connector.PaymentAuthorize = (*Novapay)(nil)
	_ connector.PaymentCapture   = (*Novapay)(nil)
	_ connector.PaymentSync      = (*Novapay)(nil)
	_ connector.PaymentVoid      = (*Novapay)(nil)
	_ connector.RefundExecute    = (*Novapay)(nil)
	_ connector.RefundSync       = (*Novapay)(nil)
)

type Novapay struct {
	baseURL string
}

func New(cfg config.NovapayConfig) *Novapay {
	return &Novapay{baseURL: cfg.BaseURL}
}

func (n *Novapay) ID() string { return Name }

func (n *Novapay) BaseURL() string { return n.baseURL }

// AuthHeaders sends the key pair as HTTP basic credentials.
func (n *Novapay) AuthHeaders(auth payment.ConnectorAuthType) (http.Header, error) {
	key, err := connector.AuthAs[payment.BodyKey](auth)
	if err != nil {
		return nil, err
	}
	token := base64.StdEncoding.EncodeToString([]byte(key.APIKey.Expose() + ":" + key.Key1.Expose()))
	h := http.Header{}
	h.Set("Authorization", "Basic "+token)
	return h, nil
}

func (n *Novapay) BuildErrorResponse(res *connector.Response) (payment.ErrorResponse, error) {
	body, err := connector.ParseJSON[ErrorResponse](res.Body)
	if err != nil {
		return payment.ErrorResponse{}, err
	}
	return body.canonical(res.StatusCode), nil
}

func (n *Novapay) AuthorizeFlow() connector.AuthorizeIntegration         { return authorizeFlow{n} }
func (n *Novapay) CaptureFlow() connector.CaptureIntegration             { return captureFlow{n} }
func (n *Novapay) PSyncFlow() connector.PSyncIntegration                 { return psyncFlow{n} }
func (n *Novapay) VoidFlow() connector.VoidIntegration                   { return voidFlow{n} }
func (n *Novapay) RefundExecuteFlow() connector.RefundExecuteIntegration { return refundFlow{n} }
func (n *Novapay) RefundSyncFlow() connector.RefundSyncIntegration       { return refundSyncFlow{n} }

func handleCharge[F payment.Flow, Req any](rd *payment.RouterData[F, Req, payment.PaymentsResponseData], res *connector.Response) (*payment.RouterData[F, Req, payment.PaymentsResponseData], error) {
	body, err := connector.ParseJSON[ChargeResponse](res.Body)
	if err != nil {
		return nil, err
	}
	return chargeResponseRouterData(connector.ResponseRouterData[F, Req, payment.PaymentsResponseData, ChargeResponse]{
		Response:   body,
		Data:       rd,
		StatusCode: res.StatusCode,
	})
}

func handleRefund[F payment.Flow](rd *payment.RouterData[F, payment.RefundsData, payment.RefundsResponseData], res *connector.Response) (*payment.RouterData[F, payment.RefundsData, payment.RefundsResponseData], error) {
	body, err := connector.ParseJSON[RefundResponse](res.Body)
	if err != nil {
		return nil, err
	}
	return refundResponseRouterData(connector.ResponseRouterData[F, payment.RefundsData, payment.RefundsResponseData, RefundResponse]{
		Response:   body,
		Data:       rd,
		StatusCode: res.StatusCode,
	})
}

type authorizeFlow struct{ *Novapay }

func (authorizeFlow) HTTPMethod() string { return http.MethodPost }

func (f authorizeFlow) URL(*authorizeData) (string, error) {
	return connector.JoinURL(f.baseURL, "charges"), nil
}

func (authorizeFlow) RequestBody(rd *authorizeData) (connector.RequestContent, error) {
	item, err := connector.NewAmountRouterData(payment.CurrencyUnitMajor, rd.Currency, rd.Amount, rd)
	if err != nil {
		return nil, err
	}
	req, err := newChargeRequest(item)
	if err != nil {
		return nil, err
	}
	return connector.FormContent{Value: req}, nil
}

func (authorizeFlow) HandleResponse(rd *authorizeData, res *connector.Response) (*authorizeData, error) {
	return handleCharge(rd, res)
}

type captureFlow struct{ *Novapay }

func (captureFlow) HTTPMethod() string { return http.MethodPost }

func (f captureFlow) URL(rd *captureData) (string, error) {
	if rd.Request.ConnectorTransactionID == "" {
		return "", connector.MissingField("connector_transaction_id")
	}
	return connector.JoinURL(f.baseURL, "charges", rd.Request.ConnectorTransactionID, "capture"), nil
}

func (captureFlow) RequestBody(rd *captureData) (connector.RequestContent, error) {
	amount, err := connector.NormalizeAmount(payment.CurrencyUnitMajor, rd.Currency, rd.Request.AmountToCapture)
	if err != nil {
		return nil, err
	}
	return connector.FormContent{Value: CaptureRequest{Amount: amount.String()}}, nil
}

func (captureFlow) HandleResponse(rd *captureData, res *connector.Response) (*captureData, error) {
	return handleCharge(rd, res)
}

type psyncFlow struct{ *Novapay }

func (psyncFlow) HTTPMethod() string { return http.MethodGet }

func (f psyncFlow) URL(rd *psyncData) (string, error) {
	id, ok := rd.Request.ConnectorTransactionID.ConnectorTransactionID()
	if !ok || id == "" {
		return "", connector.MissingField("connector_transaction_id")
	}
	return connector.JoinURL(f.baseURL, "charges", id), nil
}

func (psyncFlow) RequestBody(*psyncData) (connector.RequestContent, error) { return nil, nil }

func (psyncFlow) HandleResponse(rd *psyncData, res *connector.Response) (*psyncData, error) {
	return handleCharge(rd, res)
}

type voidFlow struct{ *Novapay }

func (voidFlow) HTTPMethod() string { return http.MethodPost }

func (f voidFlow) URL(rd *voidData) (string, error) {
	if rd.Request.ConnectorTransactionID == "" {
		return "", connector.MissingField("connector_transaction_id")
	}
	return connector.JoinURL(f.baseURL, "charges", rd.Request.ConnectorTransactionID, "void"), nil
}

func (voidFlow) RequestBody(rd *voidData) (connector.RequestContent, error) {
	return connector.FormContent{Value: VoidRequest{Reason: rd.Request.CancellationReason}}, nil
}

func (voidFlow) HandleResponse(rd *voidData, res *connector.Response) (*voidData, error) {
	return handleCharge(rd, res)
}

type refundFlow struct{ *Novapay }

func (refundFlow) HTTPMethod() string { return http.MethodPost }

func (f refundFlow) URL(*refundData) (string, error) {
	return connector.JoinURL(f.baseURL, "refunds"), nil
}

func (refundFlow) RequestBody(rd *refundData) (connector.RequestContent, error) {
	item, err := connector.NewAmountRouterData(payment.CurrencyUnitMajor, rd.Currency, rd.Request.RefundAmount, rd)
	if err != nil {
		return nil, err
	}
	req, err := newRefundRequest(item)
	if err != nil {
		return nil, err
	}
	return connector.FormContent{Value: req}, nil
}

func (refundFlow) HandleResponse(rd *refundData, res *connector.Response) (*refundData, error) {
	return handleRefund(rd, res)
}

type refundSyncFlow struct{ *Novapay }

func (refundSyncFlow) HTTPMethod() string { return http.MethodGet }

func (f refundSyncFlow) URL(rd *refundSyncData) (string, error) {
	id, err := connector.Required(rd.Request.ConnectorRefundID, "connector_refund_id")
	if err != nil {
		return "", err
	}
	return connector.JoinURL(f.baseURL, "refunds", id), nil
}

func (refundSyncFlow) RequestBody(*refundSyncData) (connector.RequestContent, error) {
	return nil, nil
}

func (refundSyncFlow) HandleResponse(rd *refundSyncData, res *connector.Response) (*refundSyncData, error) {
	return handleRefund(rd, res)
}
