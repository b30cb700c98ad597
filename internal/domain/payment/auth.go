package payment

import "github.com/itsmesohit/hyperswitch/pkg/masking"

// ConnectorAuthType is a closed set of credential shapes. A connector
// accepts exactly one shape and rejects the rest with FailedToObtainAuthType.
type ConnectorAuthType interface {
	AuthTypeName() string
	connectorAuthType()
}

type HeaderKey struct {
	APIKey masking.Secret[string]
}

type BodyKey struct {
	APIKey masking.Secret[string]
	Key1   masking.Secret[string]
}

type SignatureKey struct {
	APIKey    masking.Secret[string]
	Key1      masking.Secret[string]
	APISecret masking.Secret[string]
}

type MultiAuthKey struct {
	APIKey    masking.Secret[string]
	Key1      masking.Secret[string]
	APISecret masking.Secret[string]
	Key2      masking.Secret[string]
}

type NoKey struct{}

func (HeaderKey) AuthTypeName() string    { return "HeaderKey" }
func (BodyKey) AuthTypeName() string      { return "BodyKey" }
func (SignatureKey) AuthTypeName() string { return "SignatureKey" }
func (MultiAuthKey) AuthTypeName() string { return "MultiAuthKey" }
func (NoKey) AuthTypeName() string        { return "NoKey" }

func (HeaderKey) connectorAuthType()    {}
func (BodyKey) connectorAuthType()      {}
func (SignatureKey) connectorAuthType() {}
func (MultiAuthKey) connectorAuthType() {}
func (NoKey) connectorAuthType()        {}
