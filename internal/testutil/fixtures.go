// Package testutil holds canonical envelopes and payloads shared by
// connector tests.
package testutil

import (
	"net/netip"

	"github.com/itsmesohit/hyperswitch/internal/domain/payment"
	"github.com/itsmesohit/hyperswitch/pkg/masking"
)

const (
	MerchantID = "merchant_1"
	CardNumber = "4242424242424242"
)

func Ptr[T any](v T) *T {
	return &v
}

func Card() payment.Card {
	return payment.Card{
		CardNumber:     masking.New(CardNumber),
		CardExpMonth:   masking.New("03"),
		CardExpYear:    masking.New("2030"),
		CardCVC:        masking.New("737"),
		CardHolderName: masking.New("Jane Doe"),
		CardNetwork:    Ptr(payment.CardNetworkVisa),
	}
}

func HeaderKey(key string) payment.HeaderKey {
	return payment.HeaderKey{APIKey: masking.New(key)}
}

func BodyKey(key, secret string) payment.BodyKey {
	return payment.BodyKey{APIKey: masking.New(key), Key1: masking.New(secret)}
}

// USBilling is a complete billing address in California.
func USBilling() payment.Address {
	return payment.Address{
		Address: &payment.AddressDetails{
			City:      Ptr("San Francisco"),
			Country:   Ptr(payment.CountryAlpha2("US")),
			Line1:     masking.New("1 Market St"),
			Zip:       masking.New("94105"),
			State:     masking.New("California"),
			FirstName: masking.New("Jane"),
			LastName:  masking.New("Doe"),
		},
		Email: masking.New("jane@example.com"),
	}
}

func Browser() payment.BrowserInformation {
	ip := netip.MustParseAddr("203.0.113.7")
	return payment.BrowserInformation{
		ColorDepth:        Ptr[uint8](24),
		JavaEnabled:       Ptr(false),
		JavaScriptEnabled: Ptr(true),
		Language:          Ptr("en-US"),
		ScreenHeight:      Ptr[uint32](1080),
		ScreenWidth:       Ptr[uint32](1920),
		TimeZone:          Ptr[int32](-120),
		IPAddress:         &ip,
		AcceptHeader:      Ptr("text/html"),
		UserAgent:         Ptr("Mozilla/5.0"),
	}
}

func AuthenticationRequest() payment.ConnectorAuthenticationRequestData {
	return payment.ConnectorAuthenticationRequestData{
		BillingAddress:  USBilling(),
		BrowserDetails:  Browser(),
		MessageCategory: payment.MessageCategoryPayment,
		DeviceChannel:   payment.DeviceChannelBrowser,
		AuthenticationData: payment.AuthenticationData{
			MessageVersion:             "2.2.0",
			ThreeDSServerTransactionID: "3ds-trans-1",
		},
		AcquirerDetails: &payment.AcquirerDetails{
			AcquirerBIN:        "412345",
			AcquirerMerchantID: "acq-merchant-1",
		},
		Email: masking.New("jane@example.com"),
	}
}

// Envelope builds a fresh envelope for flow F paid by card.
func Envelope[F payment.Flow, Req any, Resp any](
	connector string,
	amount payment.MinorUnit,
	currency payment.Currency,
	auth payment.ConnectorAuthType,
	req Req,
) *payment.RouterData[F, Req, Resp] {
	return payment.NewRouterData[F, Req, Resp](MerchantID, connector, amount, currency, Card(), auth, req)
}
