package connector

import (
	"fmt"
	"strings"

	domainErrors "github.com/itsmesohit/hyperswitch/internal/domain/errors"
	"github.com/itsmesohit/hyperswitch/internal/domain/payment"
	"github.com/itsmesohit/hyperswitch/pkg/masking"
)

// MissingField is the error for a processor-required field with no value.
func MissingField(field string) error {
	return domainErrors.New(domainErrors.ErrRequestEncodingFailed).
		Attachf("missing required field: %s", field)
}

// Required dereferences v or fails with MissingField.
func Required[T any](v *T, field string) (T, error) {
	if v == nil {
		var zero T
		return zero, MissingField(field)
	}
	return *v, nil
}

func RequiredSecret(s masking.Secret[string], field string) (masking.Secret[string], error) {
	if !s.IsSet() || strings.TrimSpace(s.Expose()) == "" {
		return masking.Secret[string]{}, MissingField(field)
	}
	return s, nil
}

// AuthAs extracts the credential shape T or fails with FailedToObtainAuthType.
func AuthAs[T payment.ConnectorAuthType](auth payment.ConnectorAuthType) (T, error) {
	v, ok := auth.(T)
	if !ok {
		var want T
		got := "nil"
		if auth != nil {
			got = auth.AuthTypeName()
		}
		return want, domainErrors.New(domainErrors.ErrFailedToObtainAuthType).
			Attachf("expected %s credentials, got %s", want.AuthTypeName(), got)
	}
	return v, nil
}

// CardFrom extracts the card or fails with NotImplemented naming the method.
func CardFrom(pm payment.PaymentMethodData) (payment.Card, error) {
	card, ok := pm.(payment.Card)
	if !ok {
		return payment.Card{}, NotImplementedMethod(pm)
	}
	return card, nil
}

func NotImplementedMethod(pm payment.PaymentMethodData) error {
	if pm == nil {
		return MissingField("payment_method_data")
	}
	return domainErrors.NotImplemented(fmt.Sprintf("payment method %s", pm.Method()))
}

// CardExpiryYear2 returns the last two digits of a 2- or 4-digit year.
func CardExpiryYear2(card payment.Card) (masking.Secret[string], error) {
	year := strings.TrimSpace(card.CardExpYear.Expose())
	switch {
	case len(year) == 2 && isDigits(year):
		return masking.New(year), nil
	case len(year) == 4 && isDigits(year):
		return masking.New(year[2:]), nil
	default:
		return masking.Secret[string]{}, domainErrors.New(domainErrors.ErrRequestEncodingFailed).
			Attach("card expiry year must have 2 or 4 digits")
	}
}

// CardExpiryMonth2 returns the expiry month zero-padded to two digits.
func CardExpiryMonth2(card payment.Card) (masking.Secret[string], error) {
	month := strings.TrimSpace(card.CardExpMonth.Expose())
	if len(month) == 1 {
		month = "0" + month
	}
	if len(month) != 2 || !isDigits(month) || month == "00" || month > "12" {
		return masking.Secret[string]{}, domainErrors.New(domainErrors.ErrRequestEncodingFailed).
			Attach("card expiry month must be 01 to 12")
	}
	return masking.New(month), nil
}

// CardExpiryYYMM renders the expiry as YYMM, e.g. "3012".
func CardExpiryYYMM(card payment.Card) (masking.Secret[string], error) {
	yy, err := CardExpiryYear2(card)
	if err != nil {
		return yy, err
	}
	mm, err := CardExpiryMonth2(card)
	if err != nil {
		return mm, err
	}
	return masking.New(yy.Expose() + mm.Expose()), nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
