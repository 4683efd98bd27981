// Package signer wraps a single key pair behind a small interface so callers
// can sign, verify and derive shared secrets without handling key bytes.
package signer

// I holds one key pair. Public keys are 33 byte compressed points and
// signatures are 64 byte aggregated-signature format.
type I interface {
	// Generate creates a fresh key pair from the context's entropy.
	Generate() error
	// InitSec sets the secret key and derives the public key.
	InitSec(sec []byte) error
	// InitPub sets a verify-only public key.
	InitPub(pub []byte) error
	Sec() []byte
	Pub() []byte
	// Sign signs a 32 byte message with a fresh nonce.
	Sign(msg []byte) (sig []byte, err error)
	Verify(msg, sig []byte) (valid bool, err error)
	// Zero wipes the secret key.
	Zero()
	// ECDH returns the shared secret with another public key.
	ECDH(pub []byte) (secret []byte, err error)
}
