package connector

import (
	"github.com/shopspring/decimal"

	domainErrors "github.com/itsmesohit/hyperswitch/internal/domain/errors"
	"github.com/itsmesohit/hyperswitch/internal/domain/payment"
)

// Amount is a canonical minor-unit amount rendered in the unit a
// connector asked for. Conversion is exact.
type Amount struct {
	minor    payment.MinorUnit
	exponent int32
	unit     payment.CurrencyUnit
}

// NormalizeAmount fails only when currency is not a known ISO 4217 code.
func NormalizeAmount(unit payment.CurrencyUnit, currency payment.Currency, amount payment.MinorUnit) (Amount, error) {
	exp, err := currency.Exponent()
	if err != nil {
		return Amount{}, domainErrors.ChangeContext(err, domainErrors.ErrRequestEncodingFailed).
			Attachf("normalizing amount for currency %q", string(currency))
	}
	if unit != payment.CurrencyUnitMajor {
		unit = payment.CurrencyUnitMinor
	}
	return Amount{minor: amount, exponent: exp, unit: unit}, nil
}

// MinorAmount wraps an amount that is already in the unit the connector wants.
func MinorAmount(amount payment.MinorUnit) Amount {
	return Amount{minor: amount, unit: payment.CurrencyUnitMinor}
}

func (a Amount) Minor() payment.MinorUnit { return a.minor }

func (a Amount) Unit() payment.CurrencyUnit { return a.unit }

// Exponent is the currency's minor-unit digits, 0 for MinorAmount.
func (a Amount) Exponent() int32 { return a.exponent }

// Decimal returns the amount in the requested unit.
func (a Amount) Decimal() decimal.Decimal {
	if a.unit == payment.CurrencyUnitMajor {
		return decimal.New(a.minor.Int64(), -a.exponent)
	}
	return decimal.NewFromInt(a.minor.Int64())
}

// String renders major amounts with exactly exponent decimals: "10.50",
// "1050" for JPY, "1.050" for KWD.
func (a Amount) String() string {
	if a.unit == payment.CurrencyUnitMajor {
		return a.Decimal().StringFixed(a.exponent)
	}
	return a.Decimal().String()
}

func (a Amount) Float64() float64 {
	f, _ := a.Decimal().Float64()
	return f
}

// Int64 is the amount in minor units.
func (a Amount) Int64() int64 { return a.minor.Int64() }

// ParseMajorAmount reads a processor's decimal major-unit amount back
// into minor units. More decimals than the currency has is an error.
func ParseMajorAmount(s string, currency payment.Currency) (payment.MinorUnit, error) {
	exp, err := currency.Exponent()
	if err != nil {
		return 0, domainErrors.ChangeContext(err, domainErrors.ErrResponseDeserializationFailed).
			Attachf("reading amount for currency %q", string(currency))
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, domainErrors.ChangeContext(err, domainErrors.ErrResponseDeserializationFailed).
			Attachf("amount %q is not a decimal", s)
	}
	minor := d.Shift(exp)
	if !minor.IsInteger() {
		return 0, domainErrors.New(domainErrors.ErrResponseDeserializationFailed).
			Attachf("amount %q has more than %d decimals", s, exp)
	}
	if !minor.BigInt().IsInt64() {
		return 0, domainErrors.New(domainErrors.ErrResponseDeserializationFailed).
			Attachf("amount %q does not fit in minor units", s)
	}
	return payment.MinorUnit(minor.IntPart()), nil
}

// AmountRouterData pairs an item, usually the envelope being converted,
// with its normalized amount so later steps do not derive it again.
type AmountRouterData[T any] struct {
	Amount Amount
	Item   T
}

func NewAmountRouterData[T any](unit payment.CurrencyUnit, currency payment.Currency, amount payment.MinorUnit, item T) (AmountRouterData[T], error) {
	a, err := NormalizeAmount(unit, currency, amount)
	if err != nil {
		return AmountRouterData[T]{}, err
	}
	return AmountRouterData[T]{Amount: a, Item: item}, nil
}

func AmountRouterDataFromMinor[T any](amount payment.MinorUnit, item T) AmountRouterData[T] {
	return AmountRouterData[T]{Amount: MinorAmount(amount), Item: item}
}
