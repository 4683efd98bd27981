package zkp

import (
	"github.com/pkg/errors"
)

// Error kinds returned by the protocol layer. Callers match them with
// errors.Is; the wrapping message names the offending argument.
var (
	// ErrParse is returned when bytes do not decode to the expected type.
	ErrParse = errors.New("parse error")
	// ErrInvalidKey is returned for an out of range scalar or identity point.
	ErrInvalidKey = errors.New("invalid key")
	// ErrInvalidInput is returned when a decoded value violates a domain
	// constraint.
	ErrInvalidInput = errors.New("invalid input")
	// ErrEmptyInput is returned by list operations given no elements.
	ErrEmptyInput = errors.New("empty input")
	// ErrMismatch is returned when well-formed inputs are mutually
	// inconsistent.
	ErrMismatch = errors.New("mismatch")
	// ErrRewindFailed is returned when a range proof does not rewind with
	// the given nonce.
	ErrRewindFailed = errors.New("rewind failed")
	// ErrInitialization is returned when a context cannot be seeded.
	ErrInitialization = errors.New("context initialization failed")
	// ErrTweakOutOfRange is returned when a tweak is not a valid scalar or
	// the tweaked key would be invalid.
	ErrTweakOutOfRange = errors.New("tweak out of range")
	// ErrNonceReused is returned when a secret nonce is used a second time.
	ErrNonceReused = errors.New("secret nonce already used")
)

// elementError wraps err with the index of the list element that caused it.
func elementError(err error, list string, i int) error {
	return errors.Wrapf(err, "%s element %d", list, i)
}
