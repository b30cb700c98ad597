package payment

// AttemptStatus is the canonical state of a payment attempt. Every
// connector maps its own status vocabulary onto these values.
type AttemptStatus string

const (
	AttemptStatusStarted                     AttemptStatus = "started"
	AttemptStatusAuthenticationFailed        AttemptStatus = "authentication_failed"
	AttemptStatusRouterDeclined              AttemptStatus = "router_declined"
	AttemptStatusAuthenticationPending       AttemptStatus = "authentication_pending"
	AttemptStatusAuthenticationSuccessful    AttemptStatus = "authentication_successful"
	AttemptStatusAuthorized                  AttemptStatus = "authorized"
	AttemptStatusAuthorizationFailed         AttemptStatus = "authorization_failed"
	AttemptStatusCharged                     AttemptStatus = "charged"
	AttemptStatusAuthorizing                 AttemptStatus = "authorizing"
	AttemptStatusCodInitiated                AttemptStatus = "cod_initiated"
	AttemptStatusVoided                      AttemptStatus = "voided"
	AttemptStatusVoidInitiated               AttemptStatus = "void_initiated"
	AttemptStatusCaptureInitiated            AttemptStatus = "capture_initiated"
	AttemptStatusCaptureFailed               AttemptStatus = "capture_failed"
	AttemptStatusVoidFailed                  AttemptStatus = "void_failed"
	AttemptStatusAutoRefunded                AttemptStatus = "auto_refunded"
	AttemptStatusPartialCharged              AttemptStatus = "partial_charged"
	AttemptStatusUnresolved                  AttemptStatus = "unresolved"
	AttemptStatusPending                     AttemptStatus = "pending"
	AttemptStatusFailure                     AttemptStatus = "failure"
	AttemptStatusPaymentMethodAwaited        AttemptStatus = "payment_method_awaited"
	AttemptStatusConfirmationAwaited         AttemptStatus = "confirmation_awaited"
	AttemptStatusDeviceDataCollectionPending AttemptStatus = "device_data_collection_pending"
)

// IsTerminal reports whether no further connector call can change the attempt.
func (s AttemptStatus) IsTerminal() bool {
	switch s {
	case AttemptStatusCharged,
		AttemptStatusAutoRefunded,
		AttemptStatusVoided,
		AttemptStatusFailure,
		AttemptStatusAuthenticationFailed,
		AttemptStatusAuthorizationFailed,
		AttemptStatusRouterDeclined:
		return true
	default:
		return false
	}
}

// RefundStatus is the canonical state of a refund.
type RefundStatus string

const (
	RefundStatusPending RefundStatus = "pending"
	RefundStatusSuccess RefundStatus = "success"
	RefundStatusFailure RefundStatus = "failure"
)

// AuthenticationStatus is the canonical state of a 3-D-Secure authentication.
type AuthenticationStatus string

const (
	AuthenticationStatusStarted AuthenticationStatus = "started"
	AuthenticationStatusPending AuthenticationStatus = "pending"
	AuthenticationStatusSuccess AuthenticationStatus = "success"
	AuthenticationStatusFailed  AuthenticationStatus = "failed"
)

// CaptureMethod controls whether an authorization is captured by the connector.
type CaptureMethod string

const (
	CaptureMethodAutomatic      CaptureMethod = "automatic"
	CaptureMethodManual         CaptureMethod = "manual"
	CaptureMethodManualMultiple CaptureMethod = "manual_multiple"
	CaptureMethodScheduled      CaptureMethod = "scheduled"
)

// CurrencyUnit is the unit a connector expects amounts in.
type CurrencyUnit string

const (
	CurrencyUnitMinor CurrencyUnit = "minor"
	CurrencyUnitMajor CurrencyUnit = "major"
)

// MessageCategory is the 3-D-Secure message category.
type MessageCategory string

const (
	MessageCategoryPayment    MessageCategory = "payment"
	MessageCategoryNonPayment MessageCategory = "non_payment"
)

// DeviceChannel is the 3-D-Secure device channel, sent as the protocol code.
type DeviceChannel string

const (
	DeviceChannelApp     DeviceChannel = "01"
	DeviceChannelBrowser DeviceChannel = "02"
)
