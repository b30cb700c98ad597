package masking

import (
	"encoding/json"
	"fmt"
	"net/url"
)

// WireSecret is a secret on its way into a processor payload. It encodes
// the real value as JSON and as a form field. Only fmt printing redacts,
// so never log a request struct through a JSON encoder.
type WireSecret[T any] struct {
	inner T
	set   bool
}

// ForWire is the explicit unwrap for outbound payloads.
func ForWire[T any](s Secret[T]) WireSecret[T] {
	return WireSecret[T]{inner: s.inner, set: s.set}
}

func (w WireSecret[T]) IsZero() bool { return !w.set }

func (w WireSecret[T]) String() string { return Redacted }

func (w WireSecret[T]) Format(f fmt.State, verb rune) {
	if verb == 'q' {
		fmt.Fprintf(f, "%q", Redacted)
		return
	}
	fmt.Fprint(f, Redacted)
}

func (w WireSecret[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.inner)
}

func (w *WireSecret[T]) UnmarshalJSON(data []byte) error {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	w.inner = v
	w.set = true
	return nil
}

// EncodeValues implements query.Encoder.
func (w WireSecret[T]) EncodeValues(key string, v *url.Values) error {
	if w.set {
		v.Set(key, fmt.Sprint(w.inner))
	}
	return nil
}
