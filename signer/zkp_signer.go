package signer

import (
	"github.com/pkg/errors"

	"zkp.mleku.dev"
)

var (
	ErrNoSecret = errors.New("no secret key available")
	ErrNoPublic = errors.New("no public key available")
)

// Signer implements I over a zkp.Context. The public key is bound into every
// signature challenge.
type Signer struct {
	ctx *zkp.Context
	sec []byte
	pub []byte
}

var _ I = (*Signer)(nil)

// New returns an empty Signer. A nil ctx uses the process-wide context.
func New(ctx *zkp.Context) (*Signer, error) {
	if ctx == nil {
		var err error
		if ctx, err = zkp.Default(); err != nil {
			return nil, err
		}
	}
	return &Signer{ctx: ctx}, nil
}

// Generate replaces the key pair with a random one.
func (s *Signer) Generate() error {
	sec, err := s.ctx.CreateSecretKey()
	if err != nil {
		return err
	}
	return s.InitSec(sec)
}

// InitSec loads a copy of sec and derives its public key.
func (s *Signer) InitSec(sec []byte) error {
	pub, err := s.ctx.PublicKeyFromSecretKey(sec)
	if err != nil {
		return err
	}
	cp := append([]byte(nil), sec...)
	s.Zero()
	s.sec = cp
	s.pub = pub
	return nil
}

// InitPub accepts either public key encoding and keeps the compressed form.
func (s *Signer) InitPub(pub []byte) error {
	p, err := s.ctx.PublicKeyFromData(pub)
	if err != nil {
		return err
	}
	s.Zero()
	s.pub = p
	return nil
}

// Sec returns the secret key, or nil.
func (s *Signer) Sec() []byte { return s.sec }

// Pub returns the compressed public key, or nil.
func (s *Signer) Pub() []byte { return s.pub }

// Sign returns a 64 byte signature of a 32 byte msg.
func (s *Signer) Sign(msg []byte) ([]byte, error) {
	if s.sec == nil {
		return nil, errors.WithStack(ErrNoSecret)
	}
	return s.ctx.CreateSingleSignerSignature(msg, s.sec, nil, s.pub, nil, nil)
}

// Verify checks a signature made by Sign.
func (s *Signer) Verify(msg, sig []byte) (bool, error) {
	if s.pub == nil {
		return false, errors.WithStack(ErrNoPublic)
	}
	return s.ctx.VerifySingleSignerSignature(sig, msg, nil, s.pub, s.pub, false)
}

// Zero wipes the secret key and forgets both keys.
func (s *Signer) Zero() {
	for i := range s.sec {
		s.sec[i] = 0
	}
	s.sec = nil
	s.pub = nil
}

// ECDH returns the shared secret with pub.
func (s *Signer) ECDH(pub []byte) ([]byte, error) {
	if s.sec == nil {
		return nil, errors.WithStack(ErrNoSecret)
	}
	return s.ctx.SharedSecret(s.sec, pub)
}
