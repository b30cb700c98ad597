package payment

import (
	"encoding/json"
	"fmt"

	domainErrors "github.com/itsmesohit/hyperswitch/internal/domain/errors"
)

const (
	NoErrorCode    = "No error code"
	NoErrorMessage = "No error message"
)

type responseIDKind uint8

const (
	responseIDNone responseIDKind = iota
	responseIDConnectorTransaction
	responseIDEncodedData
)

// ResponseID identifies the connector-side resource. The zero value is NoResponseID.
type ResponseID struct {
	kind  responseIDKind
	value string
}

func ConnectorTransactionID(id string) ResponseID {
	return ResponseID{kind: responseIDConnectorTransaction, value: id}
}

func EncodedData(data string) ResponseID {
	return ResponseID{kind: responseIDEncodedData, value: data}
}

func NoResponseID() ResponseID {
	return ResponseID{}
}

func (r ResponseID) ConnectorTransactionID() (string, bool) {
	return r.value, r.kind == responseIDConnectorTransaction
}

func (r ResponseID) EncodedData() (string, bool) {
	return r.value, r.kind == responseIDEncodedData
}

func (r ResponseID) IsAbsent() bool {
	return r.kind == responseIDNone
}

func (r ResponseID) String() string {
	switch r.kind {
	case responseIDConnectorTransaction:
		return "ConnectorTransactionID(" + r.value + ")"
	case responseIDEncodedData:
		return "EncodedData(" + r.value + ")"
	default:
		return "NoResponseID"
	}
}

// RedirectForm tells the customer's browser where to go next.
type RedirectForm struct {
	Endpoint   string
	Method     string
	FormFields map[string]string
}

type MandateReference struct {
	ConnectorMandateID *string
	PaymentMethodID    *string
}

// PaymentsResponseData is the canonical success payload of payment flows.
// Nil pointers mean the connector did not provide the field.
type PaymentsResponseData struct {
	ResourceID                      ResponseID
	RedirectionData                 *RedirectForm
	MandateReference                *MandateReference
	ConnectorMetadata               json.RawMessage
	NetworkTxnID                    *string
	ConnectorResponseReferenceID    *string
	IncrementalAuthorizationAllowed *bool
}

type RefundsResponseData struct {
	ConnectorRefundID string
	RefundStatus      RefundStatus
}

// SemanticVersion is a major.minor.patch protocol version.
type SemanticVersion struct {
	Major, Minor, Patch int64
}

func (v SemanticVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1, 0 or 1.
func (v SemanticVersion) Compare(o SemanticVersion) int {
	switch {
	case v.Major != o.Major:
		return cmp(v.Major, o.Major)
	case v.Minor != o.Minor:
		return cmp(v.Minor, o.Minor)
	default:
		return cmp(v.Patch, o.Patch)
	}
}

func cmp(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// AuthenticationResponseData is PreAuthNResponse or AuthNResponse.
type AuthenticationResponseData interface {
	authenticationResponse()
}

type PreAuthNResponse struct {
	ThreeDSServerTransactionID string
	MaximumSupportedVersion    SemanticVersion
	ConnectorAuthenticationID  string
	ThreeDSMethodURL           *string
	MessageVersion             string
	ConnectorMetadata          json.RawMessage
}

// AuthNFlowType is Challenge when the ACS wants the cardholder to act.
type AuthNFlowType string

const (
	AuthNFlowChallenge    AuthNFlowType = "challenge"
	AuthNFlowFrictionless AuthNFlowType = "frictionless"
)

type AuthNResponse struct {
	FlowType             AuthNFlowType
	Challenge            *RedirectForm
	AuthenticationStatus AuthenticationStatus
	TransStatus          string
	AuthenticationValue  *string
	ACSTransactionID     string
	DSTransactionID      string
}

func (PreAuthNResponse) authenticationResponse() {}
func (AuthNResponse) authenticationResponse()    {}

// ErrorResponse is a failed outcome. Processor-reported errors fill Code
// and Message; failures inside the framework also set Cause, whose kind
// is available through Kind.
type ErrorResponse struct {
	Code                   string
	Message                string
	Reason                 *string
	StatusCode             int
	AttemptStatus          *AttemptStatus
	ConnectorTransactionID *string
	Cause                  error
}

func (e ErrorResponse) Kind() (domainErrors.Kind, bool) {
	if e.Cause == nil {
		return "", false
	}
	return domainErrors.KindOf(e.Cause)
}
