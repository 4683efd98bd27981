package zkp

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/pkg/errors"
)

// MessageHashSize is the length of a pre-hashed message.
const MessageHashSize = 32

// CreateMessageHashSignature signs a 32-byte hash with an RFC6979 nonce and
// returns the DER encoding. The signature is always low-S.
func (ctx *Context) CreateMessageHashSignature(hash, secretKey []byte) ([]byte, error) {
	if len(hash) != MessageHashSize {
		return nil, errors.Wrapf(ErrInvalidInput, "message hash must be %d bytes", MessageHashSize)
	}
	k, err := parseSecretKey(secretKey, "secret key")
	if err != nil {
		return nil, err
	}
	priv := btcec.PrivKeyFromScalar(&k)
	defer priv.Zero()
	k.Zero()
	return ecdsa.Sign(priv, hash).Serialize(), nil
}

// VerifyMessageHashSignature checks a DER signature over hash. Malformed
// signatures and keys are errors; a well-formed signature that does not verify
// is false.
func (ctx *Context) VerifyMessageHashSignature(sig, hash, publicKey []byte) (bool, error) {
	if len(hash) != MessageHashSize {
		return false, errors.Wrapf(ErrParse, "message hash must be %d bytes", MessageHashSize)
	}
	s, err := ecdsa.ParseDERSignature(sig)
	if err != nil {
		return false, errors.Wrapf(ErrParse, "signature: %v", err)
	}
	p, err := parsePublicKey(publicKey, "public key")
	if err != nil {
		return false, err
	}
	pub, err := btcec.ParsePubKey(serializeCompressed(&p))
	if err != nil {
		return false, errors.Wrapf(ErrParse, "public key: %v", err)
	}
	return s.Verify(hash, pub), nil
}
