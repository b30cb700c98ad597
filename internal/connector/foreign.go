package connector

import (
	"strconv"
	"strings"

	domainErrors "github.com/itsmesohit/hyperswitch/internal/domain/errors"
	"github.com/itsmesohit/hyperswitch/internal/domain/payment"
)

// ForeignTryFrom converts between types neither side of which belongs to
// the adapter, such as a wire string into a canonical value.
type ForeignTryFrom[From, To any] interface {
	ForeignTryFrom(From) (To, error)
}

type ForeignTryFromFunc[From, To any] func(From) (To, error)

func (f ForeignTryFromFunc[From, To]) ForeignTryFrom(v From) (To, error) {
	return f(v)
}

// ProtocolVersion parses "major.minor.patch".
var ProtocolVersion ForeignTryFrom[string, payment.SemanticVersion] = ForeignTryFromFunc[string, payment.SemanticVersion](parseProtocolVersion)

func ParseProtocolVersion(s string) (payment.SemanticVersion, error) {
	return ProtocolVersion.ForeignTryFrom(s)
}

func parseProtocolVersion(s string) (payment.SemanticVersion, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return payment.SemanticVersion{}, domainErrors.New(domainErrors.ErrResponseDeserializationFailed).
			Attachf("protocol version %q is not major.minor.patch", s)
	}

	var nums [3]int64
	for i, name := range [3]string{"major", "minor", "patch"} {
		n, err := strconv.ParseUint(parts[i], 10, 63)
		if err != nil {
			return payment.SemanticVersion{}, domainErrors.ChangeContext(err, domainErrors.ErrResponseDeserializationFailed).
				Attachf("parsing %s version", name)
		}
		nums[i] = int64(n)
	}
	return payment.SemanticVersion{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}
