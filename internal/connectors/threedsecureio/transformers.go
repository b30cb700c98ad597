package threedsecureio

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/itsmesohit/hyperswitch/internal/connector"
	domainErrors "github.com/itsmesohit/hyperswitch/internal/domain/errors"
	"github.com/itsmesohit/hyperswitch/internal/domain/payment"
	"github.com/itsmesohit/hyperswitch/internal/infrastructure/config"
	"github.com/itsmesohit/hyperswitch/pkg/masking"
)

const purchaseDateLayout = "20060102150405"

var validate = validator.New()

type (
	authorizeData  = payment.RouterData[payment.Authorize, payment.PaymentsAuthorizeData, payment.PaymentsResponseData]
	psyncData      = payment.RouterData[payment.PSync, payment.PaymentsSyncData, payment.PaymentsResponseData]
	refundData     = payment.RouterData[payment.Execute, payment.RefundsData, payment.RefundsResponseData]
	refundSyncData = payment.RouterData[payment.RSync, payment.RefundsData, payment.RefundsResponseData]
	preAuthNData   = payment.RouterData[payment.PreAuthenticate, payment.PreAuthNRequestData, payment.AuthenticationResponseData]
	authNData      = payment.RouterData[payment.Authenticate, payment.ConnectorAuthenticationRequestData, payment.AuthenticationResponseData]
)

// Payments

type PaymentsRequest struct {
	Amount int64 `json:"amount"`
	Card   Card  `json:"card"`
}

type Card struct {
	Number      masking.WireSecret[string] `json:"number"`
	ExpiryMonth masking.WireSecret[string] `json:"expiry_month"`
	ExpiryYear  masking.WireSecret[string] `json:"expiry_year"`
	CVC         masking.WireSecret[string] `json:"cvc"`
	Complete    bool                       `json:"complete"`
}

func newPaymentsRequest(item connector.AmountRouterData[*authorizeData]) (*PaymentsRequest, error) {
	rd := item.Item
	card, err := connector.CardFrom(rd.PaymentMethodData)
	if err != nil {
		return nil, err
	}
	complete, err := isAutoCapture(rd.Request.CaptureMethod)
	if err != nil {
		return nil, err
	}
	return &PaymentsRequest{
		Amount: item.Amount.Int64(),
		Card: Card{
			Number:      masking.ForWire(card.CardNumber),
			ExpiryMonth: masking.ForWire(card.CardExpMonth),
			ExpiryYear:  masking.ForWire(card.CardExpYear),
			CVC:         masking.ForWire(card.CardCVC),
			Complete:    complete,
		},
	}, nil
}

func isAutoCapture(m *payment.CaptureMethod) (bool, error) {
	if m == nil {
		return true, nil
	}
	switch *m {
	case payment.CaptureMethodAutomatic:
		return true, nil
	case payment.CaptureMethodManual, payment.CaptureMethodManualMultiple:
		return false, nil
	case payment.CaptureMethodScheduled:
		return false, domainErrors.NotImplemented("scheduled capture")
	default:
		return false, domainErrors.New(domainErrors.ErrRequestEncodingFailed).
			Attachf("unknown capture method %q", string(*m))
	}
}

// PaymentStatus is the processor's payment status, lowercase on the wire.
type PaymentStatus string

const (
	PaymentStatusSucceeded  PaymentStatus = "succeeded"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusProcessing PaymentStatus = "processing"
)

func (s *PaymentStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := PaymentStatus(raw); v {
	case PaymentStatusSucceeded, PaymentStatusFailed, PaymentStatusProcessing:
		*s = v
		return nil
	default:
		return fmt.Errorf("unknown payment status %q", raw)
	}
}

func (s PaymentStatus) AttemptStatus() payment.AttemptStatus {
	switch s {
	case PaymentStatusSucceeded:
		return payment.AttemptStatusCharged
	case PaymentStatusFailed:
		return payment.AttemptStatusFailure
	case PaymentStatusProcessing:
		return payment.AttemptStatusAuthorizing
	default:
		return payment.AttemptStatusUnresolved
	}
}

type PaymentsResponse struct {
	Status PaymentStatus `json:"status"`
	ID     string        `json:"id"`
}

func paymentsResponseRouterData[F payment.Flow, Req any](
	item connector.ResponseRouterData[F, Req, payment.PaymentsResponseData, PaymentsResponse],
) (*payment.RouterData[F, Req, payment.PaymentsResponseData], error) {
	return item.Data.WithOutcome(item.Response.Status.AttemptStatus(), payment.Ok(payment.PaymentsResponseData{
		ResourceID: payment.ConnectorTransactionID(item.Response.ID),
	}))
}

// Refunds

type RefundRequest struct {
	Amount int64 `json:"amount"`
}

func newRefundRequest(item connector.AmountRouterData[*refundData]) *RefundRequest {
	return &RefundRequest{Amount: item.Amount.Int64()}
}

// RefundStatus is capitalized on the wire.
type RefundStatus string

const (
	RefundStatusSucceeded  RefundStatus = "Succeeded"
	RefundStatusFailed     RefundStatus = "Failed"
	RefundStatusProcessing RefundStatus = "Processing"
)

func (s *RefundStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := RefundStatus(raw); v {
	case RefundStatusSucceeded, RefundStatusFailed, RefundStatusProcessing:
		*s = v
		return nil
	default:
		return fmt.Errorf("unknown refund status %q", raw)
	}
}

func (s RefundStatus) RefundStatus() payment.RefundStatus {
	switch s {
	case RefundStatusSucceeded:
		return payment.RefundStatusSuccess
	case RefundStatusFailed:
		return payment.RefundStatusFailure
	default:
		return payment.RefundStatusPending
	}
}

type RefundResponse struct {
	ID     string       `json:"id"`
	Status RefundStatus `json:"status"`
}

func refundResponseRouterData[F payment.Flow](
	item connector.ResponseRouterData[F, payment.RefundsData, payment.RefundsResponseData, RefundResponse],
) (*payment.RouterData[F, payment.RefundsData, payment.RefundsResponseData], error) {
	return item.Data.WithOutcome(item.Data.Status, payment.Ok(payment.RefundsResponseData{
		ConnectorRefundID: item.Response.ID,
		RefundStatus:      item.Response.Status.RefundStatus(),
	}))
}

// Pre-authentication

// DirectoryServer is the card scheme's directory server.
type DirectoryServer string

const (
	DirectoryServerStandin    DirectoryServer = "standin"
	DirectoryServerVisa       DirectoryServer = "visa"
	DirectoryServerMastercard DirectoryServer = "mastercard"
	DirectoryServerJCB        DirectoryServer = "jcb"
	DirectoryServerUPI        DirectoryServer = "upi"
	DirectoryServerAmex       DirectoryServer = "amex"
	DirectoryServerProtectbuy DirectoryServer = "protectbuy"
	DirectoryServerSBN        DirectoryServer = "sbn"
)

func directoryServerFor(n *payment.CardNetwork) *DirectoryServer {
	if n == nil {
		return nil
	}
	var ds DirectoryServer
	switch *n {
	case payment.CardNetworkVisa:
		ds = DirectoryServerVisa
	case payment.CardNetworkMastercard:
		ds = DirectoryServerMastercard
	case payment.CardNetworkJCB:
		ds = DirectoryServerJCB
	case payment.CardNetworkUnionPay:
		ds = DirectoryServerUPI
	case payment.CardNetworkAmex:
		ds = DirectoryServerAmex
	default:
		return nil
	}
	return &ds
}

type PreAuthenticationRequest struct {
	AcctNumber masking.WireSecret[string] `json:"acctNumber"`
	DS         *DirectoryServer           `json:"ds,omitempty"`
}

func newPreAuthenticationRequest(rd *preAuthNData) (*PreAuthenticationRequest, error) {
	acct, err := connector.RequiredSecret(rd.Request.CardHolderAccountNumber, "card_holder_account_number")
	if err != nil {
		return nil, err
	}
	return &PreAuthenticationRequest{
		AcctNumber: masking.ForWire(acct),
		DS:         directoryServerFor(rd.Request.CardNetwork),
	}, nil
}

type PreAuthenticationResponse struct {
	DSStartProtocolVersion  string  `json:"dsStartProtocolVersion"`
	DSEndProtocolVersion    string  `json:"dsEndProtocolVersion"`
	ACSStartProtocolVersion string  `json:"acsStartProtocolVersion"`
	ACSEndProtocolVersion   string  `json:"acsEndProtocolVersion"`
	ThreeDSMethodURL        *string `json:"threeDSMethodURL,omitempty"`
	ThreeDSServerTransID    string  `json:"threeDSServerTransID"`
	Scheme                  string  `json:"scheme"`
	MessageType             string  `json:"messageType"`
}

// preAuthMetadata is kept on the outcome for the authenticate call.
type preAuthMetadata struct {
	DSStartProtocolVersion  string `json:"ds_start_protocol_version"`
	DSEndProtocolVersion    string `json:"ds_end_protocol_version"`
	ACSStartProtocolVersion string `json:"acs_start_protocol_version"`
	ACSEndProtocolVersion   string `json:"acs_end_protocol_version"`
	Scheme                  string `json:"scheme"`
}

func preAuthResponseRouterData(
	item connector.ResponseRouterData[payment.PreAuthenticate, payment.PreAuthNRequestData, payment.AuthenticationResponseData, PreAuthenticationResponse],
) (*preAuthNData, error) {
	res := item.Response
	dsEnd, err := connector.ProtocolVersion.ForeignTryFrom(res.DSEndProtocolVersion)
	if err != nil {
		return nil, domainErrors.ChangeContext(err, domainErrors.ErrResponseDeserializationFailed).Attach("dsEndProtocolVersion")
	}
	acsEnd, err := connector.ProtocolVersion.ForeignTryFrom(res.ACSEndProtocolVersion)
	if err != nil {
		return nil, domainErrors.ChangeContext(err, domainErrors.ErrResponseDeserializationFailed).Attach("acsEndProtocolVersion")
	}
	maxVersion := dsEnd
	if acsEnd.Compare(dsEnd) < 0 {
		maxVersion = acsEnd
	}

	metadata, err := json.Marshal(preAuthMetadata{
		DSStartProtocolVersion:  res.DSStartProtocolVersion,
		DSEndProtocolVersion:    res.DSEndProtocolVersion,
		ACSStartProtocolVersion: res.ACSStartProtocolVersion,
		ACSEndProtocolVersion:   res.ACSEndProtocolVersion,
		Scheme:                  res.Scheme,
	})
	if err != nil {
		return nil, domainErrors.ChangeContext(err, domainErrors.ErrResponseHandlingFailed)
	}

	return item.Data.WithOutcome(payment.AttemptStatusAuthenticationPending, payment.Ok[payment.AuthenticationResponseData](payment.PreAuthNResponse{
		ThreeDSServerTransactionID: res.ThreeDSServerTransID,
		MaximumSupportedVersion:    maxVersion,
		ConnectorAuthenticationID:  res.ThreeDSServerTransID,
		ThreeDSMethodURL:           res.ThreeDSMethodURL,
		MessageVersion:             maxVersion.String(),
		ConnectorMetadata:          metadata,
	}))
}

// Authentication

// AuthenticationRequest is the EMV 3-D Secure AReq.
type AuthenticationRequest struct {
	DSStartProtocolVersion            string                      `json:"dsStartProtocolVersion" validate:"required"`
	DSEndProtocolVersion              string                      `json:"dsEndProtocolVersion" validate:"required"`
	ACSStartProtocolVersion           string                      `json:"acsStartProtocolVersion" validate:"required"`
	ACSEndProtocolVersion             string                      `json:"acsEndProtocolVersion" validate:"required"`
	ThreeDSServerTransID              string                      `json:"threeDSServerTransID" validate:"required"`
	AcctNumber                        masking.WireSecret[string]  `json:"acctNumber"`
	NotificationURL                   string                      `json:"notificationURL" validate:"required,url"`
	ThreeDSCompInd                    string                      `json:"threeDSCompInd" validate:"oneof=Y N U"`
	ThreeDSRequestorURL               string                      `json:"threeDSRequestorURL" validate:"required,url"`
	AcquirerBIN                       string                      `json:"acquirerBIN" validate:"required"`
	AcquirerMerchantID                string                      `json:"acquirerMerchantID" validate:"required"`
	CardExpiryDate                    masking.WireSecret[string]  `json:"cardExpiryDate"`
	BillAddrCity                      string                      `json:"billAddrCity" validate:"required"`
	BillAddrCountry                   string                      `json:"billAddrCountry" validate:"required,numeric,len=3"`
	BillAddrLine1                     masking.WireSecret[string]  `json:"billAddrLine1"`
	BillAddrPostCode                  masking.WireSecret[string]  `json:"billAddrPostCode"`
	BillAddrState                     string                      `json:"billAddrState" validate:"required"`
	Email                             *masking.WireSecret[string] `json:"email,omitempty"`
	ThreeDSRequestorAuthenticationInd string                      `json:"threeDSRequestorAuthenticationInd" validate:"required"`
	DeviceChannel                     string                      `json:"deviceChannel" validate:"oneof=01 02"`
	BrowserJavascriptEnabled          bool                        `json:"browserJavascriptEnabled"`
	BrowserAcceptHeader               string                      `json:"browserAcceptHeader" validate:"required"`
	BrowserIP                         *string                     `json:"browserIP,omitempty" validate:"omitempty,ip"`
	BrowserJavaEnabled                bool                        `json:"browserJavaEnabled"`
	BrowserLanguage                   string                      `json:"browserLanguage" validate:"required"`
	BrowserColorDepth                 string                      `json:"browserColorDepth" validate:"required,numeric"`
	BrowserScreenHeight               string                      `json:"browserScreenHeight" validate:"required,numeric"`
	BrowserScreenWidth                string                      `json:"browserScreenWidth" validate:"required,numeric"`
	BrowserTZ                         string                      `json:"browserTZ" validate:"required"`
	BrowserUserAgent                  string                      `json:"browserUserAgent" validate:"required"`
	MCC                               string                      `json:"mcc" validate:"required,numeric,len=4"`
	MerchantCountryCode               string                      `json:"merchantCountryCode" validate:"required,numeric,len=3"`
	MerchantName                      string                      `json:"merchantName" validate:"required"`
	MessageCategory                   string                      `json:"messageCategory" validate:"oneof=01 02"`
	MessageType                       string                      `json:"messageType" validate:"eq=AReq"`
	MessageVersion                    string                      `json:"messageVersion" validate:"required"`
	PurchaseAmount                    string                      `json:"purchaseAmount" validate:"required,numeric"`
	PurchaseCurrency                  string                      `json:"purchaseCurrency" validate:"required,numeric,len=3"`
	PurchaseExponent                  string                      `json:"purchaseExponent" validate:"required,numeric"`
	PurchaseDate                      string                      `json:"purchaseDate" validate:"required,len=14"`
	TransType                         string                      `json:"transType" validate:"required"`
}

func messageCategoryCode(c payment.MessageCategory) string {
	if c == payment.MessageCategoryPayment {
		return "01"
	}
	return "02"
}

func newAuthenticationRequest(item connector.AmountRouterData[*authNData], cfg config.ThreedsecureioConfig, now time.Time) (*AuthenticationRequest, error) {
	rd := item.Item
	req := rd.Request

	card, err := connector.CardFrom(rd.PaymentMethodData)
	if err != nil {
		return nil, err
	}
	expiry, err := connector.CardExpiryYYMM(card)
	if err != nil {
		return nil, err
	}

	version := req.AuthenticationData.MessageVersion
	if _, err := connector.ProtocolVersion.ForeignTryFrom(version); err != nil {
		return nil, domainErrors.ChangeContext(err, domainErrors.ErrResponseDeserializationFailed).Attach("message_version")
	}

	acquirer, err := connector.Required(req.AcquirerDetails, "acquirer_details")
	if err != nil {
		return nil, err
	}

	billing, err := billingAddress(req.BillingAddress)
	if err != nil {
		return nil, err
	}

	browser, err := newBrowserFields(req.BrowserDetails)
	if err != nil {
		return nil, err
	}

	currencyCode, err := rd.Currency.NumericCode()
	if err != nil {
		return nil, encodingFailed(err, "purchase currency")
	}

	areq := &AuthenticationRequest{
		DSStartProtocolVersion:            version,
		DSEndProtocolVersion:              version,
		ACSStartProtocolVersion:           version,
		ACSEndProtocolVersion:             version,
		ThreeDSServerTransID:              req.AuthenticationData.ThreeDSServerTransactionID,
		AcctNumber:                        masking.ForWire(card.CardNumber),
		NotificationURL:                   cfg.NotificationURL,
		ThreeDSCompInd:                    "Y",
		ThreeDSRequestorURL:               cfg.RequestorURL,
		AcquirerBIN:                       acquirer.AcquirerBIN,
		AcquirerMerchantID:                acquirer.AcquirerMerchantID,
		CardExpiryDate:                    masking.ForWire(expiry),
		BillAddrCity:                      billing.city,
		BillAddrCountry:                   billing.country,
		BillAddrLine1:                     masking.ForWire(billing.line1),
		BillAddrPostCode:                  masking.ForWire(billing.postCode),
		BillAddrState:                     billing.state,
		ThreeDSRequestorAuthenticationInd: "01",
		DeviceChannel:                     string(req.DeviceChannel),
		BrowserJavascriptEnabled:          browser.javascriptEnabled,
		BrowserAcceptHeader:               browser.acceptHeader,
		BrowserIP:                         browser.ip,
		BrowserJavaEnabled:                browser.javaEnabled,
		BrowserLanguage:                   browser.language,
		BrowserColorDepth:                 browser.colorDepth,
		BrowserScreenHeight:               browser.screenHeight,
		BrowserScreenWidth:                browser.screenWidth,
		BrowserTZ:                         browser.timeZone,
		BrowserUserAgent:                  browser.userAgent,
		MCC:                               cfg.MCC,
		MerchantCountryCode:               cfg.MerchantCountryCode,
		MerchantName:                      cfg.MerchantName,
		MessageCategory:                   messageCategoryCode(req.MessageCategory),
		MessageType:                       "AReq",
		MessageVersion:                    version,
		PurchaseAmount:                    strconv.FormatInt(item.Amount.Int64(), 10),
		PurchaseCurrency:                  fmt.Sprintf("%03d", currencyCode),
		PurchaseExponent:                  strconv.Itoa(int(item.Amount.Exponent())),
		PurchaseDate:                      now.UTC().Format(purchaseDateLayout),
		TransType:                         "01",
	}
	if req.Email.IsSet() {
		email := masking.ForWire(req.Email)
		areq.Email = &email
	}

	if err := validate.Struct(areq); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			return nil, domainErrors.ChangeContext(err, domainErrors.ErrRequestEncodingFailed).
				Attachf("field %s failed %s", ve[0].Field(), ve[0].Tag())
		}
		return nil, domainErrors.ChangeContext(err, domainErrors.ErrRequestEncodingFailed)
	}
	return areq, nil
}

type billingFields struct {
	city     string
	country  string
	line1    masking.Secret[string]
	postCode masking.Secret[string]
	state    string
}

func billingAddress(a payment.Address) (billingFields, error) {
	var out billingFields
	details, err := connector.Required(a.Address, "billing.address")
	if err != nil {
		return out, err
	}
	country, err := connector.Required(details.Country, "billing.address.country")
	if err != nil {
		return out, err
	}
	numeric, err := country.NumericCode()
	if err != nil {
		return out, encodingFailed(err, "billing country")
	}
	if out.city, err = connector.Required(details.City, "billing.address.city"); err != nil {
		return out, err
	}
	if out.line1, err = connector.RequiredSecret(details.Line1, "billing.address.line1"); err != nil {
		return out, err
	}
	if out.postCode, err = connector.RequiredSecret(details.Zip, "billing.address.zip"); err != nil {
		return out, err
	}
	state, err := connector.RequiredSecret(details.State, "billing.address.state")
	if err != nil {
		return out, err
	}
	if out.state, err = country.StateCode(state.Expose()); err != nil {
		return out, encodingFailed(err, "billing state")
	}
	out.country = fmt.Sprintf("%03d", numeric)
	return out, nil
}

type browserFields struct {
	javascriptEnabled bool
	javaEnabled       bool
	acceptHeader      string
	ip                *string
	language          string
	colorDepth        string
	screenHeight      string
	screenWidth       string
	timeZone          string
	userAgent         string
}

func newBrowserFields(b payment.BrowserInformation) (browserFields, error) {
	var (
		out browserFields
		err error
	)
	if out.javascriptEnabled, err = connector.Required(b.JavaScriptEnabled, "browser_info.java_script_enabled"); err != nil {
		return out, err
	}
	if out.javaEnabled, err = connector.Required(b.JavaEnabled, "browser_info.java_enabled"); err != nil {
		return out, err
	}
	if out.acceptHeader, err = connector.Required(b.AcceptHeader, "browser_info.accept_header"); err != nil {
		return out, err
	}
	if out.language, err = connector.Required(b.Language, "browser_info.language"); err != nil {
		return out, err
	}
	if out.userAgent, err = connector.Required(b.UserAgent, "browser_info.user_agent"); err != nil {
		return out, err
	}
	colorDepth, err := connector.Required(b.ColorDepth, "browser_info.color_depth")
	if err != nil {
		return out, err
	}
	height, err := connector.Required(b.ScreenHeight, "browser_info.screen_height")
	if err != nil {
		return out, err
	}
	width, err := connector.Required(b.ScreenWidth, "browser_info.screen_width")
	if err != nil {
		return out, err
	}
	tz, err := connector.Required(b.TimeZone, "browser_info.time_zone")
	if err != nil {
		return out, err
	}
	out.colorDepth = strconv.Itoa(int(colorDepth))
	out.screenHeight = strconv.FormatUint(uint64(height), 10)
	out.screenWidth = strconv.FormatUint(uint64(width), 10)
	out.timeZone = strconv.Itoa(int(tz))
	if b.IPAddress != nil {
		ip := b.IPAddress.String()
		out.ip = &ip
	}
	return out, nil
}

func encodingFailed(err error, what string) error {
	return domainErrors.ChangeContext(err, domainErrors.ErrRequestEncodingFailed).
		Attachf("error parsing %s", what)
}

// TransStatus is the EMV 3-D Secure transaction status.
type TransStatus string

const (
	TransStatusSuccess            TransStatus = "Y"
	TransStatusFailure            TransStatus = "N"
	TransStatusNotVerified        TransStatus = "U"
	TransStatusAttempted          TransStatus = "A"
	TransStatusRejected           TransStatus = "R"
	TransStatusChallengeRequired  TransStatus = "C"
	TransStatusDecoupledChallenge TransStatus = "D"
	TransStatusInformationOnly    TransStatus = "I"
)

func (s *TransStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := TransStatus(raw); v {
	case TransStatusSuccess, TransStatusFailure, TransStatusNotVerified, TransStatusAttempted,
		TransStatusRejected, TransStatusChallengeRequired, TransStatusDecoupledChallenge, TransStatusInformationOnly:
		*s = v
		return nil
	default:
		return fmt.Errorf("unknown transStatus %q", raw)
	}
}

func (s TransStatus) AuthenticationStatus() payment.AuthenticationStatus {
	switch s {
	case TransStatusSuccess, TransStatusInformationOnly:
		return payment.AuthenticationStatusSuccess
	case TransStatusChallengeRequired, TransStatusDecoupledChallenge:
		return payment.AuthenticationStatusPending
	default:
		return payment.AuthenticationStatusFailed
	}
}

func (s TransStatus) AttemptStatus() payment.AttemptStatus {
	switch s.AuthenticationStatus() {
	case payment.AuthenticationStatusSuccess:
		return payment.AttemptStatusAuthenticationSuccessful
	case payment.AuthenticationStatusPending:
		return payment.AttemptStatusAuthenticationPending
	default:
		return payment.AttemptStatusAuthenticationFailed
	}
}

func (s TransStatus) IsChallenge() bool {
	return s == TransStatusChallengeRequired || s == TransStatusDecoupledChallenge
}

type AuthenticationResponse struct {
	ACSChallengeMandated *string     `json:"acsChallengeMandated,omitempty"`
	ACSOperatorID        string      `json:"acsOperatorID"`
	ACSReferenceNumber   string      `json:"acsReferenceNumber"`
	ACSTransID           string      `json:"acsTransID"`
	ACSURL               *string     `json:"acsURL,omitempty"`
	AuthenticationType   *string     `json:"authenticationType,omitempty"`
	AuthenticationValue  *string     `json:"authenticationValue,omitempty"`
	DSReferenceNumber    string      `json:"dsReferenceNumber"`
	DSTransID            string      `json:"dsTransID"`
	MessageType          *string     `json:"messageType,omitempty"`
	MessageVersion       string      `json:"messageVersion"`
	ThreeDSServerTransID string      `json:"threeDSServerTransID"`
	TransStatus          TransStatus `json:"transStatus"`
}

// challengeRequest is the CReq posted to the ACS, base64url encoded.
type challengeRequest struct {
	ThreeDSServerTransID string `json:"threeDSServerTransID"`
	ACSTransID           string `json:"acsTransID"`
	ChallengeWindowSize  string `json:"challengeWindowSize"`
	MessageType          string `json:"messageType"`
	MessageVersion       string `json:"messageVersion"`
}

func authNResponseRouterData(
	item connector.ResponseRouterData[payment.Authenticate, payment.ConnectorAuthenticationRequestData, payment.AuthenticationResponseData, AuthenticationResponse],
) (*authNData, error) {
	res := item.Response
	if _, err := connector.ProtocolVersion.ForeignTryFrom(res.MessageVersion); err != nil {
		return nil, err
	}

	out := payment.AuthNResponse{
		FlowType:             payment.AuthNFlowFrictionless,
		AuthenticationStatus: res.TransStatus.AuthenticationStatus(),
		TransStatus:          string(res.TransStatus),
		AuthenticationValue:  res.AuthenticationValue,
		ACSTransactionID:     res.ACSTransID,
		DSTransactionID:      res.DSTransID,
	}

	if res.TransStatus.IsChallenge() {
		acsURL, err := connector.Required(res.ACSURL, "acsURL")
		if err != nil {
			return nil, domainErrors.ChangeContext(err, domainErrors.ErrResponseHandlingFailed).
				Attach("challenge requested without an ACS URL")
		}
		creq, err := json.Marshal(challengeRequest{
			ThreeDSServerTransID: res.ThreeDSServerTransID,
			ACSTransID:           res.ACSTransID,
			ChallengeWindowSize:  "05",
			MessageType:          "CReq",
			MessageVersion:       res.MessageVersion,
		})
		if err != nil {
			return nil, domainErrors.ChangeContext(err, domainErrors.ErrResponseHandlingFailed)
		}
		out.FlowType = payment.AuthNFlowChallenge
		out.Challenge = &payment.RedirectForm{
			Endpoint: strings.TrimSpace(acsURL),
			Method:   "POST",
			FormFields: map[string]string{
				"creq": base64.RawURLEncoding.EncodeToString(creq),
			},
		}
	}

	return item.Data.WithOutcome(res.TransStatus.AttemptStatus(), payment.Ok[payment.AuthenticationResponseData](out))
}

// Errors

type ErrorResponse struct {
	ErrorCode            string `json:"errorCode"`
	ErrorComponent       string `json:"errorComponent"`
	ErrorDescription     string `json:"errorDescription"`
	ErrorDetail          string `json:"errorDetail"`
	ErrorMessageType     string `json:"errorMessageType"`
	MessageType          string `json:"messageType"`
	MessageVersion       string `json:"messageVersion"`
	ThreeDSServerTransID string `json:"threeDSServerTransID"`
}

func (e ErrorResponse) canonical(status int) payment.ErrorResponse {
	out := payment.ErrorResponse{
		Code:       e.ErrorCode,
		Message:    e.ErrorDescription,
		StatusCode: status,
	}
	if out.Code == "" {
		out.Code = payment.NoErrorCode
	}
	if out.Message == "" {
		out.Message = payment.NoErrorMessage
	}
	if e.ErrorDetail != "" {
		reason := e.ErrorDetail
		out.Reason = &reason
	}
	if e.ThreeDSServerTransID != "" {
		id := e.ThreeDSServerTransID
		out.ConnectorTransactionID = &id
	}
	return out
}
