package zkp

import (
	"github.com/pkg/errors"
)

// SharedSecret computes SHA256(compressed(k*p)). The digest must itself be a
// valid secret key.
func (ctx *Context) SharedSecret(k, p []byte) ([]byte, error) {
	sec, err := parseSecretKey(k, "secret key")
	if err != nil {
		return nil, err
	}
	pt, err := parsePublicKey(p, "public key")
	if err != nil {
		return nil, err
	}

	shared := ctx.static.mul(&sec, &pt)
	sec.Zero()
	if isInfinity(&shared) {
		return nil, errors.Wrap(ErrInvalidKey, "shared point is infinity")
	}

	// Version byte and x coordinate, as in a compressed key
	enc := serializeCompressed(&shared)
	out := sha256Sum(enc)
	clear(enc)
	if _, err := parseSecretKey(out[:], "shared secret"); err != nil {
		return nil, errors.Wrap(ErrInvalidKey, "shared secret is not a valid secret key")
	}
	return out[:], nil
}
