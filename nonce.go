package zkp

import (
	"sync"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/pkg/errors"
)

// SecretNonceSize is the length of an exported secret nonce.
const SecretNonceSize = 32

// SecretNonce is a signing nonce with its public point. It can sign once:
// signing zeroes the scalar and any later use fails with ErrNonceReused.
type SecretNonce struct {
	mu     sync.Mutex
	k      btcec.ModNScalar
	used   bool
	public []byte
}

// CreateSecretNonce draws a fresh nonce. The public nonce always has a y
// coordinate that is a quadratic residue.
func (ctx *Context) CreateSecretNonce() (*SecretNonce, error) {
	fresh, err := ctx.randomBytes(32)
	if err != nil {
		return nil, err
	}
	key := append(fresh, ctx.seed[:]...)
	rng := NewRFC6979HMACSHA256(key)
	defer rng.Clear()
	clear(key)

	var buf [32]byte
	defer clear(buf[:])
	for {
		rng.Generate(buf[:])
		var k btcec.ModNScalar
		if overflow := k.SetBytes(&buf); overflow != 0 || k.IsZero() {
			continue
		}
		return ctx.newSecretNonce(&k), nil
	}
}

// ImportSecretNonce restores a nonce exported with Bytes. The caller is
// responsible for never importing the same nonce twice.
func (ctx *Context) ImportSecretNonce(b []byte) (*SecretNonce, error) {
	k, err := parseSecretKey(b, "secret nonce")
	if err != nil {
		return nil, err
	}
	return ctx.newSecretNonce(&k), nil
}

// newSecretNonce negates k when needed so that k*G has a quadratic residue y.
func (ctx *Context) newSecretNonce(k *btcec.ModNScalar) *SecretNonce {
	r := ctx.static.mulBase(k)
	r = toAffine(&r)
	if !hasQuadY(&r) {
		k.Negate()
		negatePoint(&r)
	}
	n := &SecretNonce{k: *k, public: serializeCompressed(&r)}
	k.Zero()
	return n
}

// PublicNonce returns the compressed public nonce.
func (n *SecretNonce) PublicNonce() []byte {
	return append([]byte(nil), n.public...)
}

// Bytes exports the secret scalar, or nil once the nonce has been used.
func (n *SecretNonce) Bytes() []byte {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.used {
		return nil
	}
	return scalarBytes(&n.k)
}

// Used reports whether the nonce has signed.
func (n *SecretNonce) Used() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.used
}

// consume returns the scalar and marks the nonce used.
func (n *SecretNonce) consume() (btcec.ModNScalar, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.used {
		return btcec.ModNScalar{}, errors.WithStack(ErrNonceReused)
	}
	n.used = true
	k := n.k
	n.k.Zero()
	return k, nil
}
