package payment

import "github.com/itsmesohit/hyperswitch/pkg/masking"

// PaymentsAuthorizeData is the Authorize request payload. Amount,
// currency and payment method live on the envelope.
type PaymentsAuthorizeData struct {
	CaptureMethod       *CaptureMethod
	Email               masking.Secret[string]
	StatementDescriptor *string
	BrowserInfo         *BrowserInformation
	ReturnURL           *string
}

type PaymentsCaptureData struct {
	AmountToCapture        MinorUnit
	ConnectorTransactionID string
}

type PaymentsSyncData struct {
	ConnectorTransactionID ResponseID
}

type PaymentsCancelData struct {
	ConnectorTransactionID string
	CancellationReason     *string
}

type RefundsData struct {
	RefundID               string
	ConnectorTransactionID string
	RefundAmount           MinorUnit
	ConnectorRefundID      *string
	Reason                 *string
}

// PreAuthNRequestData asks the 3-D-Secure server which protocol versions
// the card's directory server and ACS support.
type PreAuthNRequestData struct {
	CardHolderAccountNumber masking.Secret[string]
	CardNetwork             *CardNetwork
}

// ConnectorAuthenticationRequestData is the Authenticate (AReq) payload.
type ConnectorAuthenticationRequestData struct {
	BillingAddress     Address
	ShippingAddress    *Address
	BrowserDetails     BrowserInformation
	MessageCategory    MessageCategory
	DeviceChannel      DeviceChannel
	AuthenticationData AuthenticationData
	AcquirerDetails    *AcquirerDetails
	ReturnURL          *string
	Email              masking.Secret[string]
}

// AuthenticationData is carried over from the pre-authentication step.
type AuthenticationData struct {
	MessageVersion             string
	ThreeDSServerTransactionID string
}

type AcquirerDetails struct {
	AcquirerBIN        string
	AcquirerMerchantID string
}
