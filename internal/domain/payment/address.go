package payment

import (
	"net/netip"

	"github.com/itsmesohit/hyperswitch/pkg/masking"
)

type Address struct {
	Address *AddressDetails
	Phone   *PhoneDetails
	Email   masking.Secret[string]
}

// AddressDetails fields are all optional; an unset Secret means absent.
type AddressDetails struct {
	City      *string
	Country   *CountryAlpha2
	Line1     masking.Secret[string]
	Line2     masking.Secret[string]
	Line3     masking.Secret[string]
	Zip       masking.Secret[string]
	State     masking.Secret[string]
	FirstName masking.Secret[string]
	LastName  masking.Secret[string]
}

type PhoneDetails struct {
	Number      masking.Secret[string]
	CountryCode *string
}

// BrowserInformation is the device fingerprint collected by the checkout page.
type BrowserInformation struct {
	ColorDepth        *uint8
	JavaEnabled       *bool
	JavaScriptEnabled *bool
	Language          *string
	ScreenHeight      *uint32
	ScreenWidth       *uint32
	TimeZone          *int32
	IPAddress         *netip.Addr
	AcceptHeader      *string
	UserAgent         *string
}
