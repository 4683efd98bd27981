package zkp

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/pkg/errors"
)

// Scalar sizes in bytes.
const (
	SecretKeySize    = 32
	BlindSize        = 32
	TweakSize        = 32
	SharedSecretSize = 32
)

// parseScalar decodes a 32-byte big-endian integer that must be below the
// group order. Zero is accepted.
func parseScalar(b []byte, what string) (btcec.ModNScalar, error) {
	var s btcec.ModNScalar
	if len(b) != 32 {
		return s, errors.Wrapf(ErrParse, "%s must be 32 bytes, got %d", what, len(b))
	}
	if overflow := s.SetByteSlice(b); overflow {
		return s, errors.Wrapf(ErrInvalidKey, "%s is not below the group order", what)
	}
	return s, nil
}

// parseSecretKey decodes a scalar in [1, n-1].
func parseSecretKey(b []byte, what string) (btcec.ModNScalar, error) {
	s, err := parseScalar(b, what)
	if err != nil {
		return s, err
	}
	if s.IsZero() {
		return s, errors.Wrapf(ErrInvalidKey, "%s is zero", what)
	}
	return s, nil
}

// parseTweak decodes a tweak, reporting range failures as ErrTweakOutOfRange.
func parseTweak(b []byte) (btcec.ModNScalar, error) {
	s, err := parseScalar(b, "tweak")
	if errors.Is(err, ErrInvalidKey) {
		return s, errors.Wrap(ErrTweakOutOfRange, "tweak is not below the group order")
	}
	return s, err
}

func scalarBytes(s *btcec.ModNScalar) []byte {
	b := s.Bytes()
	return b[:]
}

// scalarFromUint64 returns v as a scalar.
func scalarFromUint64(v uint64) btcec.ModNScalar {
	var b [32]byte
	for i := 0; i < 8; i++ {
		b[31-i] = byte(v >> (8 * i))
	}
	var s btcec.ModNScalar
	s.SetBytes(&b)
	return s
}

// reverse32 returns b with its byte order reversed.
func reverse32(b []byte) []byte {
	out := make([]byte, len(b))
	for i := range b {
		out[len(b)-1-i] = b[i]
	}
	return out
}
