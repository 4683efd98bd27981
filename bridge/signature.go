package bridge

import (
	"encoding/hex"
	"sync"

	"github.com/pkg/errors"

	"zkp.mleku.dev"
)

// Nonce is an exported secret nonce and its public nonce.
type Nonce struct {
	SecretNonce string `json:"secretNonce"`
	PublicNonce string `json:"publicNonce"`
}

// CreateSecretNonce returns a fresh secret nonce and its public nonce.
func (b *Bridge) CreateSecretNonce() (*Nonce, error) {
	var out *Nonce
	err := b.run("CreateSecretNonce", func(ctx *zkp.Context) error {
		n, err := ctx.CreateSecretNonce()
		if err != nil {
			return err
		}
		out = &Nonce{
			SecretNonce: hex.EncodeToString(n.Bytes()),
			PublicNonce: hex.EncodeToString(n.PublicNonce()),
		}
		return nil
	})
	return out, err
}

// usedNonces holds the public nonce of every secret nonce signed with through
// any Bridge in this process. It does not survive the process.
var usedNonces = struct {
	sync.Mutex
	set map[string]struct{}
}{set: make(map[string]struct{})}

// reserveNonce restores a secret nonce and reserves it so no other call in
// this process can sign with it.
func reserveNonce(ctx *zkp.Context, secretNonce []byte) (*zkp.SecretNonce, error) {
	if secretNonce == nil {
		return nil, nil
	}
	n, err := ctx.ImportSecretNonce(secretNonce)
	if err != nil {
		return nil, err
	}
	key := string(n.PublicNonce())
	usedNonces.Lock()
	defer usedNonces.Unlock()
	if _, used := usedNonces.set[key]; used {
		return nil, errors.WithStack(zkp.ErrNonceReused)
	}
	usedNonces.set[key] = struct{}{}
	return n, nil
}

// releaseNonce drops the reservation of a nonce that did not sign.
func releaseNonce(n *zkp.SecretNonce) {
	if n == nil || n.Used() {
		return
	}
	usedNonces.Lock()
	delete(usedNonces.set, string(n.PublicNonce()))
	usedNonces.Unlock()
}

// CreateSingleSignerSignature signs msg. An empty secretNonce draws a fresh
// one; a given secretNonce can sign only once per process.
func (b *Bridge) CreateSingleSignerSignature(msg, sec, secretNonce, pub, publicNonce,
	publicNonceTotal string) (string, error) {

	return b.runHex("CreateSingleSignerSignature", func(ctx *zkp.Context) ([]byte, error) {
		var m, k, sn, p, pn, total []byte
		if err := decodeHexes(
			hexArg{&m, msg, "message"},
			hexArg{&k, sec, "secret key"},
			hexArg{&sn, secretNonce, "secret nonce"},
			hexArg{&p, pub, "public key"},
			hexArg{&pn, publicNonce, "public nonce"},
			hexArg{&total, publicNonceTotal, "public nonce total"},
		); err != nil {
			return nil, err
		}
		n, err := reserveNonce(ctx, sn)
		if err != nil {
			return nil, err
		}
		defer releaseNonce(n)
		return ctx.CreateSingleSignerSignature(m, k, n, p, pn, total)
	})
}

// AddSingleSignerSignatures combines partial signatures made against publicNonceTotal.
func (b *Bridge) AddSingleSignerSignatures(sigs []string, publicNonceTotal string) (string, error) {
	return b.runHex("AddSingleSignerSignatures", func(ctx *zkp.Context) ([]byte, error) {
		partials, err := decodeList(sigs, "signatures")
		if err != nil {
			return nil, err
		}
		total, err := decodeHex(publicNonceTotal, "public nonce total")
		if err != nil {
			return nil, err
		}
		return ctx.AddSingleSignerSignatures(partials, total)
	})
}

// VerifySingleSignerSignature checks a full or, with isPartial, a partial signature.
func (b *Bridge) VerifySingleSignerSignature(sig, msg, publicNonce, pub, publicKeyTotal string,
	isPartial bool) (bool, error) {

	return b.runBool("VerifySingleSignerSignature", func(ctx *zkp.Context) (bool, error) {
		var s, m, pn, p, total []byte
		if err := decodeHexes(
			hexArg{&s, sig, "signature"},
			hexArg{&m, msg, "message"},
			hexArg{&pn, publicNonce, "public nonce"},
			hexArg{&p, pub, "public key"},
			hexArg{&total, publicKeyTotal, "public key total"},
		); err != nil {
			return false, err
		}
		return ctx.VerifySingleSignerSignature(s, m, pn, p, total, isPartial)
	})
}

// convert decodes one signature and applies op.
func (b *Bridge) convert(name, sig string, op func(ctx *zkp.Context, s []byte) ([]byte, error)) (string, error) {
	return b.runHex(name, func(ctx *zkp.Context) ([]byte, error) {
		s, err := decodeHex(sig, "signature")
		if err != nil {
			return nil, err
		}
		return op(ctx, s)
	})
}

// SignatureFromData checks and re-encodes a 64 byte signature.
func (b *Bridge) SignatureFromData(data string) (string, error) {
	return b.convert("SignatureFromData", data, (*zkp.Context).SignatureFromData)
}

// CompactSignature converts sig to its big-endian compact form.
func (b *Bridge) CompactSignature(sig string) (string, error) {
	return b.convert("CompactSignature", sig, (*zkp.Context).CompactSignature)
}

// UncompactSignature is the inverse of CompactSignature.
func (b *Bridge) UncompactSignature(compact string) (string, error) {
	return b.convert("UncompactSignature", compact, (*zkp.Context).UncompactSignature)
}

// CreateMessageHashSignature signs a 32 byte hash with ECDSA and returns DER.
func (b *Bridge) CreateMessageHashSignature(hash, sec string) (string, error) {
	return b.runHex("CreateMessageHashSignature", func(ctx *zkp.Context) ([]byte, error) {
		var h, k []byte
		if err := decodeHexes(
			hexArg{&h, hash, "message hash"},
			hexArg{&k, sec, "secret key"},
		); err != nil {
			return nil, err
		}
		return ctx.CreateMessageHashSignature(h, k)
	})
}

// VerifyMessageHashSignature checks a DER ECDSA signature over hash.
func (b *Bridge) VerifyMessageHashSignature(sig, hash, pub string) (bool, error) {
	return b.runBool("VerifyMessageHashSignature", func(ctx *zkp.Context) (bool, error) {
		var s, h, p []byte
		if err := decodeHexes(
			hexArg{&s, sig, "signature"},
			hexArg{&h, hash, "message hash"},
			hexArg{&p, pub, "public key"},
		); err != nil {
			return false, err
		}
		return ctx.VerifyMessageHashSignature(s, h, p)
	})
}
