package payment

import "github.com/itsmesohit/hyperswitch/pkg/masking"

// PaymentMethod is the family a PaymentMethodData variant belongs to.
type PaymentMethod string

const (
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodWallet       PaymentMethod = "wallet"
	PaymentMethodBankRedirect PaymentMethod = "bank_redirect"
)

// PaymentMethodData is a closed set: Card, Wallet, BankRedirect.
type PaymentMethodData interface {
	Method() PaymentMethod
	paymentMethodData()
}

// CardNetwork is the scheme a card is issued under.
type CardNetwork string

const (
	CardNetworkVisa       CardNetwork = "visa"
	CardNetworkMastercard CardNetwork = "mastercard"
	CardNetworkAmex       CardNetwork = "amex"
	CardNetworkJCB        CardNetwork = "jcb"
	CardNetworkUnionPay   CardNetwork = "unionpay"
)

type Card struct {
	CardNumber     masking.Secret[string]
	CardExpMonth   masking.Secret[string]
	CardExpYear    masking.Secret[string]
	CardCVC        masking.Secret[string]
	CardHolderName masking.Secret[string]
	CardNetwork    *CardNetwork
	CardIssuer     *string
}

func (Card) Method() PaymentMethod { return PaymentMethodCard }
func (Card) paymentMethodData()    {}

type WalletType string

const (
	WalletApplePay  WalletType = "apple_pay"
	WalletGooglePay WalletType = "google_pay"
	WalletPaypal    WalletType = "paypal"
)

type Wallet struct {
	Type  WalletType
	Token masking.Secret[string]
}

func (Wallet) Method() PaymentMethod { return PaymentMethodWallet }
func (Wallet) paymentMethodData()    {}

type BankRedirectType string

const (
	BankRedirectIdeal   BankRedirectType = "ideal"
	BankRedirectSofort  BankRedirectType = "sofort"
	BankRedirectGiropay BankRedirectType = "giropay"
)

type BankRedirect struct {
	Type     BankRedirectType
	BankName *string
	Country  *CountryAlpha2
}

func (BankRedirect) Method() PaymentMethod { return PaymentMethodBankRedirect }
func (BankRedirect) paymentMethodData()    {}
