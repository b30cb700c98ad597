package payment

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrOutcomeAlreadyResolved = errors.New("outcome already resolved")
	ErrOutcomeUnresolved      = errors.New("outcome is unresolved")
)

// Outcome is either a success payload or an ErrorResponse. The zero value
// is unresolved.
type Outcome[Resp any] struct {
	resolved bool
	value    Resp
	failure  *ErrorResponse
}

func Ok[Resp any](v Resp) Outcome[Resp] {
	return Outcome[Resp]{resolved: true, value: v}
}

func Err[Resp any](e ErrorResponse) Outcome[Resp] {
	return Outcome[Resp]{resolved: true, failure: &e}
}

func (o Outcome[Resp]) IsResolved() bool { return o.resolved }

func (o Outcome[Resp]) IsOk() bool { return o.resolved && o.failure == nil }

func (o Outcome[Resp]) Value() (Resp, bool) {
	return o.value, o.IsOk()
}

func (o Outcome[Resp]) Failure() (ErrorResponse, bool) {
	if o.failure == nil {
		return ErrorResponse{}, false
	}
	return *o.failure, true
}

// RouterData is the envelope of one operation, tagged with its flow.
// The outcome slot is written once, by WithOutcome, and is not readable
// before that.
type RouterData[F Flow, Req any, Resp any] struct {
	AttemptID                   string
	PaymentID                   string
	MerchantID                  string
	Connector                   string
	ConnectorRequestReferenceID string
	Status                      AttemptStatus
	Amount                      MinorUnit
	Currency                    Currency
	PaymentMethodData           PaymentMethodData
	ConnectorAuthType           ConnectorAuthType
	Description                 *string
	Request                     Req

	outcome Outcome[Resp]
}

// NewRouterData builds a fresh envelope in the Started state.
func NewRouterData[F Flow, Req any, Resp any](
	merchantID string,
	connector string,
	amount MinorUnit,
	currency Currency,
	pm PaymentMethodData,
	auth ConnectorAuthType,
	req Req,
) *RouterData[F, Req, Resp] {
	attemptID := uuid.NewString()
	return &RouterData[F, Req, Resp]{
		AttemptID:                   attemptID,
		PaymentID:                   uuid.NewString(),
		MerchantID:                  merchantID,
		Connector:                   connector,
		ConnectorRequestReferenceID: attemptID,
		Status:                      AttemptStatusStarted,
		Amount:                      amount,
		Currency:                    currency,
		PaymentMethodData:           pm,
		ConnectorAuthType:           auth,
		Request:                     req,
	}
}

func (rd *RouterData[F, Req, Resp]) FlowName() string {
	return FlowName[F]()
}

// Outcome returns the outcome and whether it has been written.
func (rd *RouterData[F, Req, Resp]) Outcome() (Outcome[Resp], bool) {
	return rd.outcome, rd.outcome.resolved
}

// WithOutcome returns a copy of rd carrying status and o. Every other
// field is carried over as is; rd itself is not modified.
func (rd *RouterData[F, Req, Resp]) WithOutcome(status AttemptStatus, o Outcome[Resp]) (*RouterData[F, Req, Resp], error) {
	if rd.outcome.resolved {
		return nil, ErrOutcomeAlreadyResolved
	}
	if !o.resolved {
		return nil, ErrOutcomeUnresolved
	}
	next := *rd
	next.Status = status
	next.outcome = o
	return &next, nil
}
