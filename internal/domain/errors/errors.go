package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a connector failure. Callers branch on the kind;
// operators read the attached diagnostics.
type Kind string

const (
	KindNotImplemented                Kind = "not_implemented"
	KindNotSupported                  Kind = "not_supported"
	KindFailedToObtainAuthType        Kind = "failed_to_obtain_auth_type"
	KindRequestEncodingFailed         Kind = "request_encoding_failed"
	KindResponseDeserializationFailed Kind = "response_deserialization_failed"
	KindResponseHandlingFailed        Kind = "response_handling_failed"
	KindProcessingStepFailed          Kind = "processing_step_failed"
)

var (
	ErrNotImplemented                = &ConnectorError{Kind: KindNotImplemented}
	ErrNotSupported                  = &ConnectorError{Kind: KindNotSupported}
	ErrFailedToObtainAuthType        = &ConnectorError{Kind: KindFailedToObtainAuthType}
	ErrRequestEncodingFailed         = &ConnectorError{Kind: KindRequestEncodingFailed}
	ErrResponseDeserializationFailed = &ConnectorError{Kind: KindResponseDeserializationFailed}
	ErrResponseHandlingFailed        = &ConnectorError{Kind: KindResponseHandlingFailed}
	ErrProcessingStepFailed          = &ConnectorError{Kind: KindProcessingStepFailed}
)

// ConnectorError is the typed part of a failure. Detail names the
// feature for NotImplemented/NotSupported and is empty otherwise.
type ConnectorError struct {
	Kind   Kind
	Detail string
}

func (e *ConnectorError) Error() string {
	msg := strings.ReplaceAll(string(e.Kind), "_", " ")
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	return msg
}

// Is matches on kind only, so errors.Is(err, ErrNotImplemented) holds
// whatever feature was named.
func (e *ConnectorError) Is(target error) bool {
	var t *ConnectorError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// NotImplemented names a feature or payment method a connector does not build.
func NotImplemented(feature string) *Report {
	return New(&ConnectorError{Kind: KindNotImplemented, Detail: feature})
}

// NotSupported names a feature the processor itself cannot serve.
func NotSupported(feature string) *Report {
	return New(&ConnectorError{Kind: KindNotSupported, Detail: feature})
}

// Report is a ConnectorError plus the chain of diagnostics attached while
// the error travelled up, and the underlying cause if there is one.
type Report struct {
	current     *ConnectorError
	cause       error
	attachments []string
}

// New starts a report with no cause.
func New(ce *ConnectorError) *Report {
	return &Report{current: ce}
}

// ChangeContext re-types err as ce, keeping err reachable as the cause.
func ChangeContext(err error, ce *ConnectorError) *Report {
	return &Report{current: ce, cause: err}
}

// Attach appends a human-readable diagnostic and returns r for chaining.
func (r *Report) Attach(msg string) *Report {
	r.attachments = append(r.attachments, msg)
	return r
}

func (r *Report) Attachf(format string, args ...any) *Report {
	return r.Attach(fmt.Sprintf(format, args...))
}

// Current returns the typed error at the top of the chain.
func (r *Report) Current() *ConnectorError {
	return r.current
}

func (r *Report) Error() string {
	var b strings.Builder
	b.WriteString(r.current.Error())
	for i := len(r.attachments) - 1; i >= 0; i-- {
		b.WriteString(": ")
		b.WriteString(r.attachments[i])
	}
	if r.cause != nil {
		b.WriteString(": ")
		b.WriteString(r.cause.Error())
	}
	return b.String()
}

func (r *Report) Unwrap() []error {
	if r.cause == nil {
		return []error{r.current}
	}
	return []error{r.current, r.cause}
}

// KindOf returns the kind of the outermost ConnectorError in err.
func KindOf(err error) (Kind, bool) {
	var r *Report
	if errors.As(err, &r) {
		return r.current.Kind, true
	}
	var ce *ConnectorError
	if errors.As(err, &ce) {
		return ce.Kind, true
	}
	return "", false
}

// Attachments returns every diagnostic in the chain, innermost first.
func Attachments(err error) []string {
	var r *Report
	if !errors.As(err, &r) {
		return nil
	}
	out := Attachments(r.cause)
	return append(out, r.attachments...)
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}
