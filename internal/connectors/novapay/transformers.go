package novapay

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/itsmesohit/hyperswitch/internal/connector"
	domainErrors "github.com/itsmesohit/hyperswitch/internal/domain/errors"
	"github.com/itsmesohit/hyperswitch/internal/domain/payment"
	"github.com/itsmesohit/hyperswitch/pkg/masking"
)

type (
	authorizeData  = payment.RouterData[payment.Authorize, payment.PaymentsAuthorizeData, payment.PaymentsResponseData]
	captureData    = payment.RouterData[payment.Capture, payment.PaymentsCaptureData, payment.PaymentsResponseData]
	psyncData      = payment.RouterData[payment.PSync, payment.PaymentsSyncData, payment.PaymentsResponseData]
	voidData       = payment.RouterData[payment.Void, payment.PaymentsCancelData, payment.PaymentsResponseData]
	refundData     = payment.RouterData[payment.Execute, payment.RefundsData, payment.RefundsResponseData]
	refundSyncData = payment.RouterData[payment.RSync, payment.RefundsData, payment.RefundsResponseData]
)

type PaymentMethodType string

const (
	PaymentMethodTypeCard   PaymentMethodType = "card"
	PaymentMethodTypeWallet PaymentMethodType = "wallet"
)

// ChargeRequest is form encoded; nested structs become card[number] and so on.
type ChargeRequest struct {
	Amount            string                     `url:"amount"`
	Currency          string                     `url:"currency"`
	Capture           bool                       `url:"capture"`
	PaymentMethodType PaymentMethodType          `url:"payment_method_type"`
	Card              *CardDetails               `url:"card,omitempty"`
	Wallet            *WalletDetails             `url:"wallet,omitempty"`
	Reference         string                     `url:"reference"`
	Description       *string                    `url:"description,omitempty"`
	StatementSuffix   *string                    `url:"statement_descriptor_suffix,omitempty"`
	ReturnURL         *string                    `url:"return_url,omitempty"`
	ReceiptEmail      masking.WireSecret[string] `url:"receipt_email,omitempty"`
}

type CardDetails struct {
	Number   masking.WireSecret[string] `url:"number"`
	ExpMonth masking.WireSecret[string] `url:"exp_month"`
	ExpYear  masking.WireSecret[string] `url:"exp_year"`
	CVC      masking.WireSecret[string] `url:"cvc"`
	Name     masking.WireSecret[string] `url:"name,omitempty"`
}

type WalletDetails struct {
	Type  string                     `url:"type"`
	Token masking.WireSecret[string] `url:"token"`
}

func newChargeRequest(item connector.AmountRouterData[*authorizeData]) (*ChargeRequest, error) {
	rd := item.Item
	capture, err := captureOnAuthorize(rd.Request.CaptureMethod)
	if err != nil {
		return nil, err
	}

	req := &ChargeRequest{
		Amount:          item.Amount.String(),
		Currency:        strings.ToLower(string(rd.Currency)),
		Capture:         capture,
		Reference:       rd.ConnectorRequestReferenceID,
		Description:     rd.Description,
		StatementSuffix: rd.Request.StatementDescriptor,
		ReturnURL:       rd.Request.ReturnURL,
		ReceiptEmail:    masking.ForWire(rd.Request.Email),
	}

	switch pm := rd.PaymentMethodData.(type) {
	case payment.Card:
		year, err := connector.CardExpiryYear2(pm)
		if err != nil {
			return nil, err
		}
		month, err := connector.CardExpiryMonth2(pm)
		if err != nil {
			return nil, err
		}
		number, err := connector.RequiredSecret(pm.CardNumber, "payment_method_data.card.card_number")
		if err != nil {
			return nil, err
		}
		req.PaymentMethodType = PaymentMethodTypeCard
		req.Card = &CardDetails{
			Number:   masking.ForWire(number),
			ExpMonth: masking.ForWire(month),
			ExpYear:  masking.ForWire(year),
			CVC:      masking.ForWire(pm.CardCVC),
			Name:     masking.ForWire(pm.CardHolderName),
		}
	case payment.Wallet:
		token, err := connector.RequiredSecret(pm.Token, "payment_method_data.wallet.token")
		if err != nil {
			return nil, err
		}
		req.PaymentMethodType = PaymentMethodTypeWallet
		req.Wallet = &WalletDetails{Type: string(pm.Type), Token: masking.ForWire(token)}
	default:
		return nil, connector.NotImplementedMethod(rd.PaymentMethodData)
	}
	return req, nil
}

func captureOnAuthorize(m *payment.CaptureMethod) (bool, error) {
	if m == nil {
		return true, nil
	}
	switch *m {
	case payment.CaptureMethodAutomatic:
		return true, nil
	case payment.CaptureMethodManual:
		return false, nil
	case payment.CaptureMethodManualMultiple, payment.CaptureMethodScheduled:
		return false, domainErrors.NotImplemented(fmt.Sprintf("%s capture", *m))
	default:
		return false, domainErrors.New(domainErrors.ErrRequestEncodingFailed).
			Attachf("unknown capture method %q", string(*m))
	}
}

type CaptureRequest struct {
	Amount string `url:"amount"`
}

type VoidRequest struct {
	Reason *string `url:"reason,omitempty"`
}

type RefundRequest struct {
	Charge    string  `url:"charge"`
	Amount    string  `url:"amount"`
	Reference string  `url:"reference"`
	Reason    *string `url:"reason,omitempty"`
}

func newRefundRequest(item connector.AmountRouterData[*refundData]) (*RefundRequest, error) {
	rd := item.Item
	if rd.Request.ConnectorTransactionID == "" {
		return nil, connector.MissingField("connector_transaction_id")
	}
	return &RefundRequest{
		Charge:    rd.Request.ConnectorTransactionID,
		Amount:    item.Amount.String(),
		Reference: rd.Request.RefundID,
		Reason:    rd.Request.Reason,
	}, nil
}

// ChargeStatus is the processor's charge state.
type ChargeStatus string

const (
	ChargeStatusAuthorized     ChargeStatus = "authorized"
	ChargeStatusCaptured       ChargeStatus = "captured"
	ChargeStatusPending        ChargeStatus = "pending"
	ChargeStatusRequiresAction ChargeStatus = "requires_action"
	ChargeStatusDeclined       ChargeStatus = "declined"
	ChargeStatusVoided         ChargeStatus = "voided"
	ChargeStatusError          ChargeStatus = "error"
)

func (s *ChargeStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := ChargeStatus(raw); v {
	case ChargeStatusAuthorized, ChargeStatusCaptured, ChargeStatusPending, ChargeStatusRequiresAction,
		ChargeStatusDeclined, ChargeStatusVoided, ChargeStatusError:
		*s = v
		return nil
	default:
		return fmt.Errorf("unknown charge status %q", raw)
	}
}

// AttemptStatus maps the charge state for the flow that observed it. A
// decline seen by capture or void fails that step, not the payment.
func (s ChargeStatus) AttemptStatus(flow string) payment.AttemptStatus {
	switch s {
	case ChargeStatusAuthorized:
		return payment.AttemptStatusAuthorized
	case ChargeStatusCaptured:
		return payment.AttemptStatusCharged
	case ChargeStatusPending:
		return payment.AttemptStatusPending
	case ChargeStatusRequiresAction:
		return payment.AttemptStatusAuthenticationPending
	case ChargeStatusVoided:
		return payment.AttemptStatusVoided
	case ChargeStatusDeclined:
		switch flow {
		case payment.FlowName[payment.Capture]():
			return payment.AttemptStatusCaptureFailed
		case payment.FlowName[payment.Void]():
			return payment.AttemptStatusVoidFailed
		default:
			return payment.AttemptStatusAuthorizationFailed
		}
	default:
		return payment.AttemptStatusFailure
	}
}

type NextAction struct {
	RedirectURL string `json:"redirect_url"`
	Method      string `json:"method,omitempty"`
}

type ChargeResponse struct {
	ID                   string       `json:"id"`
	Status               ChargeStatus `json:"status"`
	Amount               string       `json:"amount"`
	AmountCaptured       *string      `json:"amount_captured,omitempty"`
	Currency             string       `json:"currency"`
	Reference            *string      `json:"reference,omitempty"`
	NetworkTransactionID *string      `json:"network_transaction_id,omitempty"`
	NextAction           *NextAction  `json:"next_action,omitempty"`
}

func chargeResponseRouterData[F payment.Flow, Req any](
	item connector.ResponseRouterData[F, Req, payment.PaymentsResponseData, ChargeResponse],
) (*payment.RouterData[F, Req, payment.PaymentsResponseData], error) {
	res := item.Response
	rd := item.Data
	status := res.Status.AttemptStatus(rd.FlowName())

	if res.Status == ChargeStatusCaptured && res.AmountCaptured != nil {
		total, err := connector.ParseMajorAmount(res.Amount, rd.Currency)
		if err != nil {
			return nil, err
		}
		captured, err := connector.ParseMajorAmount(*res.AmountCaptured, rd.Currency)
		if err != nil {
			return nil, err
		}
		if captured < total {
			status = payment.AttemptStatusPartialCharged
		}
	}

	out := payment.PaymentsResponseData{
		ResourceID:                   payment.ConnectorTransactionID(res.ID),
		NetworkTxnID:                 res.NetworkTransactionID,
		ConnectorResponseReferenceID: res.Reference,
	}
	if res.Status == ChargeStatusRequiresAction {
		if res.NextAction == nil || res.NextAction.RedirectURL == "" {
			return nil, domainErrors.New(domainErrors.ErrResponseHandlingFailed).
				Attach("requires_action without a redirect url")
		}
		method := strings.ToUpper(res.NextAction.Method)
		if method == "" {
			method = http.MethodGet
		}
		out.RedirectionData = &payment.RedirectForm{
			Endpoint:   res.NextAction.RedirectURL,
			Method:     method,
			FormFields: map[string]string{},
		}
	}
	return rd.WithOutcome(status, payment.Ok(out))
}

type RefundStatus string

const (
	RefundStatusQueued     RefundStatus = "queued"
	RefundStatusProcessing RefundStatus = "processing"
	RefundStatusCompleted  RefundStatus = "completed"
	RefundStatusRejected   RefundStatus = "rejected"
)

func (s *RefundStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := RefundStatus(raw); v {
	case RefundStatusQueued, RefundStatusProcessing, RefundStatusCompleted, RefundStatusRejected:
		*s = v
		return nil
	default:
		return fmt.Errorf("unknown refund status %q", raw)
	}
}

func (s RefundStatus) RefundStatus() payment.RefundStatus {
	switch s {
	case RefundStatusCompleted:
		return payment.RefundStatusSuccess
	case RefundStatusRejected:
		return payment.RefundStatusFailure
	default:
		return payment.RefundStatusPending
	}
}

type RefundResponse struct {
	ID     string       `json:"id"`
	Charge string       `json:"charge"`
	Status RefundStatus `json:"status"`
	Amount string       `json:"amount"`
}

func refundResponseRouterData[F payment.Flow](
	item connector.ResponseRouterData[F, payment.RefundsData, payment.RefundsResponseData, RefundResponse],
) (*payment.RouterData[F, payment.RefundsData, payment.RefundsResponseData], error) {
	return item.Data.WithOutcome(item.Data.Status, payment.Ok(payment.RefundsResponseData{
		ConnectorRefundID: item.Response.ID,
		RefundStatus:      item.Response.Status.RefundStatus(),
	}))
}

type ErrorResponse struct {
	Error ErrorDetails `json:"error"`
}

type ErrorDetails struct {
	Code          string  `json:"code"`
	Message       string  `json:"message"`
	DeclineReason *string `json:"decline_reason,omitempty"`
	ChargeID      *string `json:"charge,omitempty"`
}

func (e ErrorResponse) canonical(status int) payment.ErrorResponse {
	out := payment.ErrorResponse{
		Code:                   e.Error.Code,
		Message:                e.Error.Message,
		Reason:                 e.Error.DeclineReason,
		StatusCode:             status,
		ConnectorTransactionID: e.Error.ChargeID,
	}
	if out.Code == "" {
		out.Code = payment.NoErrorCode
	}
	if out.Message == "" {
		out.Message = payment.NoErrorMessage
	}
	if e.Error.DeclineReason != nil {
		declined := payment.AttemptStatusAuthorizationFailed
		out.AttemptStatus = &declined
	}
	return out
}
