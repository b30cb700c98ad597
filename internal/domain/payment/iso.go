package payment

import (
	"errors"
	"fmt"
	"strings"

	"github.com/biter777/countries"
)

var (
	ErrUnknownCurrency = errors.New("unknown ISO 4217 currency")
	ErrUnknownCountry  = errors.New("unknown ISO 3166 country")
	ErrUnknownState    = errors.New("unknown state")
)

// MinorUnit is an amount in the smallest denomination of its currency.
type MinorUnit int64

func (m MinorUnit) Int64() int64 { return int64(m) }

// Currency is an ISO 4217 alphabetic code such as "USD".
type Currency string

func (c Currency) lookup() (countries.CurrencyCode, error) {
	code := strings.ToUpper(string(c))
	if len(code) != 3 {
		return countries.CurrencyUnknown, fmt.Errorf("%w: %q", ErrUnknownCurrency, string(c))
	}
	cc := countries.CurrencyCodeByName(code)
	if !cc.IsValid() || cc.Alpha() != code {
		return countries.CurrencyUnknown, fmt.Errorf("%w: %q", ErrUnknownCurrency, string(c))
	}
	return cc, nil
}

// Validate fails for anything that is not a known ISO 4217 code.
func (c Currency) Validate() error {
	_, err := c.lookup()
	return err
}

// Exponent is the number of minor-unit digits: 2 for USD, 0 for JPY, 3 for KWD.
func (c Currency) Exponent() (int32, error) {
	cc, err := c.lookup()
	if err != nil {
		return 0, err
	}
	return int32(cc.Digits()), nil
}

// NumericCode is the ISO 4217 numeric code, 840 for USD.
func (c Currency) NumericCode() (int, error) {
	cc, err := c.lookup()
	if err != nil {
		return 0, err
	}
	return int(cc), nil
}

// CountryAlpha2 is an ISO 3166-1 alpha-2 code such as "US".
type CountryAlpha2 string

func (c CountryAlpha2) lookup() (countries.CountryCode, error) {
	code := strings.ToUpper(string(c))
	if len(code) != 2 {
		return countries.Unknown, fmt.Errorf("%w: %q", ErrUnknownCountry, string(c))
	}
	cc := countries.ByName(code)
	if !cc.IsValid() || cc.Alpha2() != code {
		return countries.Unknown, fmt.Errorf("%w: %q", ErrUnknownCountry, string(c))
	}
	return cc, nil
}

// NumericCode is the ISO 3166-1 numeric code, 840 for US.
func (c CountryAlpha2) NumericCode() (int, error) {
	cc, err := c.lookup()
	if err != nil {
		return 0, err
	}
	return int(cc), nil
}

// StateCode normalizes a state for US and CA addresses to its two-letter
// subdivision code. Other countries pass the state through unchanged.
func (c CountryAlpha2) StateCode(state string) (string, error) {
	state = strings.TrimSpace(state)
	if state == "" {
		return "", fmt.Errorf("%w: empty", ErrUnknownState)
	}
	code := strings.ToUpper(string(c))
	if code != "US" && code != "CA" {
		return state, nil
	}
	cc, err := c.lookup()
	if err != nil {
		return "", err
	}
	prefix := code + "-"
	for _, sub := range countries.SubdivisionsByCountryCode(cc) {
		abbr := strings.TrimPrefix(string(sub), prefix)
		if strings.EqualFold(abbr, state) || strings.EqualFold(sub.String(), state) {
			return abbr, nil
		}
	}
	return "", fmt.Errorf("%w: %q in %s", ErrUnknownState, state, code)
}
