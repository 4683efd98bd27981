package zkp

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/pkg/errors"
)

// IsValidSecretKey reports whether k is a 32-byte scalar in [1, n-1]
func (ctx *Context) IsValidSecretKey(k []byte) bool {
	_, err := parseSecretKey(k, "secret key")
	return err == nil
}

// IsValidPublicKey reports whether p decodes to a curve point
func (ctx *Context) IsValidPublicKey(p []byte) bool {
	_, err := parsePublicKey(p, "public key")
	return err == nil
}

// CreateSecretKey generates a new random secret key
func (ctx *Context) CreateSecretKey() ([]byte, error) {
	for {
		k, err := ctx.randomBytes(SecretKeySize)
		if err != nil {
			return nil, err
		}
		if ctx.IsValidSecretKey(k) {
			return k, nil
		}
	}
}

// PublicKeyFromSecretKey returns the compressed public key for k
func (ctx *Context) PublicKeyFromSecretKey(k []byte) ([]byte, error) {
	sec, err := parseSecretKey(k, "secret key")
	if err != nil {
		return nil, err
	}
	p := ctx.static.mulBase(&sec)
	sec.Zero()
	return serializeCompressed(&p), nil
}

// PublicKeyFromData parses a compressed, uncompressed or hybrid public key and
// returns its compressed form
func (ctx *Context) PublicKeyFromData(data []byte) ([]byte, error) {
	p, err := parsePublicKey(data, "public key")
	if err != nil {
		return nil, err
	}
	return serializeCompressed(&p), nil
}

// UncompressPublicKey returns the 65-byte uncompressed encoding of p
func (ctx *Context) UncompressPublicKey(p []byte) ([]byte, error) {
	pt, err := parsePublicKey(p, "public key")
	if err != nil {
		return nil, err
	}
	return serializeUncompressed(&pt), nil
}

// SecretKeyNegate returns n - k
func (ctx *Context) SecretKeyNegate(k []byte) ([]byte, error) {
	sec, err := parseSecretKey(k, "secret key")
	if err != nil {
		return nil, err
	}
	sec.Negate()
	return scalarBytes(&sec), nil
}

// SecretKeyTweakAdd returns k + t mod n. A zero tweak returns k unchanged.
func (ctx *Context) SecretKeyTweakAdd(k, t []byte) ([]byte, error) {
	sec, err := parseSecretKey(k, "secret key")
	if err != nil {
		return nil, err
	}
	tw, err := parseTweak(t)
	if err != nil {
		return nil, err
	}

	sec.Add(&tw)
	if sec.IsZero() {
		return nil, errors.Wrap(ErrTweakOutOfRange, "tweaked secret key is zero")
	}
	return scalarBytes(&sec), nil
}

// SecretKeyTweakMultiply returns k * t mod n
func (ctx *Context) SecretKeyTweakMultiply(k, t []byte) ([]byte, error) {
	sec, err := parseSecretKey(k, "secret key")
	if err != nil {
		return nil, err
	}
	tw, err := parseTweak(t)
	if err != nil {
		return nil, err
	}
	if tw.IsZero() {
		return nil, errors.Wrap(ErrTweakOutOfRange, "tweak is zero")
	}

	sec.Mul(&tw)
	return scalarBytes(&sec), nil
}

// PublicKeyTweakAdd returns p + t*G
func (ctx *Context) PublicKeyTweakAdd(p, t []byte) ([]byte, error) {
	pt, err := parsePublicKey(p, "public key")
	if err != nil {
		return nil, err
	}
	tw, err := parseTweak(t)
	if err != nil {
		return nil, err
	}

	tG := mulBase(&tw)
	res := addPoints(&pt, &tG)
	if isInfinity(&res) {
		return nil, errors.Wrap(ErrTweakOutOfRange, "tweaked public key is infinity")
	}
	return serializeCompressed(&res), nil
}

// PublicKeyTweakMultiply returns t*p
func (ctx *Context) PublicKeyTweakMultiply(p, t []byte) ([]byte, error) {
	pt, err := parsePublicKey(p, "public key")
	if err != nil {
		return nil, err
	}
	tw, err := parseTweak(t)
	if err != nil {
		return nil, err
	}
	if tw.IsZero() {
		return nil, errors.Wrap(ErrTweakOutOfRange, "tweak is zero")
	}

	res := mulPoint(&tw, &pt)
	return serializeCompressed(&res), nil
}

// CombinePublicKeys returns the sum of the given public keys
func (ctx *Context) CombinePublicKeys(keys [][]byte) ([]byte, error) {
	if len(keys) == 0 {
		return nil, errors.Wrap(ErrEmptyInput, "no public keys")
	}

	var sum btcec.JacobianPoint
	for i, k := range keys {
		pt, err := parsePublicKey(k, "public key")
		if err != nil {
			return nil, elementError(errors.Wrap(ErrInvalidKey, "not a curve point"), "public keys", i)
		}
		btcec.AddNonConst(&sum, &pt, &sum)
	}
	if isInfinity(&sum) {
		return nil, errors.Wrap(ErrInvalidKey, "combined public key is infinity")
	}
	return serializeCompressed(&sum), nil
}
