// Package masking wraps sensitive values so they are never printed or
// serialized by accident. The only way to read the value is Expose.
package masking

import (
	"encoding/json"
	"fmt"
)

// Redacted is what every formatting and encoding path emits instead of the value.
const Redacted = "*** redacted ***"

// Secret holds a value that must not leak into logs or payloads.
type Secret[T any] struct {
	inner T
	set   bool
}

// New wraps v.
func New[T any](v T) Secret[T] {
	return Secret[T]{inner: v, set: true}
}

// Expose returns the wrapped value. Call sites are the audit trail.
func (s Secret[T]) Expose() T {
	return s.inner
}

// IsSet reports whether a value was ever wrapped.
func (s Secret[T]) IsSet() bool {
	return s.set
}

// Map transforms the wrapped value without exposing it to the caller.
func Map[T, U any](s Secret[T], fn func(T) U) Secret[U] {
	if !s.set {
		return Secret[U]{}
	}
	return New(fn(s.inner))
}

func (s Secret[T]) String() string {
	return Redacted
}

func (s Secret[T]) GoString() string {
	return fmt.Sprintf("masking.Secret[%T](%s)", s.inner, Redacted)
}

// Format covers %v, %+v, %s, %q and friends, which would otherwise
// reach into the unexported field.
func (s Secret[T]) Format(f fmt.State, verb rune) {
	switch verb {
	case 'q':
		fmt.Fprintf(f, "%q", Redacted)
	case 'v':
		if f.Flag('#') {
			fmt.Fprint(f, s.GoString())
			return
		}
		fmt.Fprint(f, Redacted)
	default:
		fmt.Fprint(f, Redacted)
	}
}

func (s Secret[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(Redacted)
}

func (s Secret[T]) MarshalText() ([]byte, error) {
	return []byte(Redacted), nil
}

// UnmarshalJSON accepts the plain value so secrets can be read from
// trusted inputs such as configuration.
func (s *Secret[T]) UnmarshalJSON(data []byte) error {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	s.inner = v
	s.set = true
	return nil
}
