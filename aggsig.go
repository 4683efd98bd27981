package zkp

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Signature sizes.
const (
	SignatureSize = 64
	MessageSize   = 32
)

// signature is an aggregated Schnorr signature (R.x, s). The raw encoding
// stores each half little-endian; the compact encoding big-endian.
type signature struct {
	rx btcec.FieldVal
	s  btcec.ModNScalar
}

func parseSignatureHalves(rx, s []byte) (*signature, error) {
	sig := &signature{}
	x, ok := parseFieldX(rx)
	if !ok {
		return nil, errors.Wrap(ErrParse, "signature nonce is not below the field prime")
	}
	if _, ok := liftX(&x, false); !ok {
		return nil, errors.Wrap(ErrParse, "signature nonce is not on the curve")
	}
	sig.rx = x
	if overflow := sig.s.SetByteSlice(s); overflow {
		return nil, errors.Wrap(ErrParse, "signature scalar is not below the group order")
	}
	return sig, nil
}

// parseRawSignature decodes the raw form.
func parseRawSignature(b []byte) (*signature, error) {
	if len(b) != SignatureSize {
		return nil, errors.Wrapf(ErrParse, "signature must be %d bytes, got %d", SignatureSize, len(b))
	}
	return parseSignatureHalves(reverse32(b[:32]), reverse32(b[32:]))
}

func parseCompactSignature(b []byte) (*signature, error) {
	if len(b) != SignatureSize {
		return nil, errors.Wrapf(ErrParse, "compact signature must be %d bytes, got %d", SignatureSize, len(b))
	}
	return parseSignatureHalves(b[:32], b[32:])
}

func (sig *signature) compact() []byte {
	out := make([]byte, SignatureSize)
	sig.rx.PutBytesUnchecked(out[:32])
	sig.s.PutBytesUnchecked(out[32:])
	return out
}

func (sig *signature) raw() []byte {
	c := sig.compact()
	return append(reverse32(c[:32]), reverse32(c[32:])...)
}

// IsValidSignature reports whether sig is a well-formed raw signature
func (ctx *Context) IsValidSignature(sig []byte) bool {
	_, err := parseRawSignature(sig)
	return err == nil
}

// SignatureFromData validates raw signature data and returns a copy
func (ctx *Context) SignatureFromData(data []byte) ([]byte, error) {
	sig, err := parseRawSignature(data)
	if err != nil {
		return nil, err
	}
	return sig.raw(), nil
}

// CompactSignature converts a raw signature to the big-endian R.x || s form
func (ctx *Context) CompactSignature(sig []byte) ([]byte, error) {
	s, err := parseRawSignature(sig)
	if err != nil {
		return nil, err
	}
	return s.compact(), nil
}

// UncompactSignature converts a compact signature back to the raw form
func (ctx *Context) UncompactSignature(compact []byte) ([]byte, error) {
	s, err := parseCompactSignature(compact)
	if err != nil {
		return nil, err
	}
	return s.raw(), nil
}

// signatureChallenge returns e = SHA256(R.x || P || msg). P is omitted when
// nil.
func signatureChallenge(rx *btcec.FieldVal, pub *btcec.JacobianPoint, msg []byte) btcec.ModNScalar {
	var pubBytes []byte
	if pub != nil {
		pubBytes = serializeCompressed(pub)
	}
	return hashToScalar(sha256Sum(rx.Bytes()[:], pubBytes, msg))
}

// parseOptionalPoint parses p unless it is empty.
func parseOptionalPoint(p []byte, what string) (*btcec.JacobianPoint, error) {
	if len(p) == 0 {
		return nil, nil
	}
	pt, err := parsePublicKey(p, what)
	if err != nil {
		return nil, err
	}
	return &pt, nil
}

// CreateSingleSignerSignature signs a 32-byte message with secretKey and
// secretNonce, which is consumed. A nil secretNonce is generated internally.
//
// publicKey, when set, is hashed into the challenge; for a multi-party
// signature it is the combined public key. publicNonce, when set, replaces the
// signer's own nonce in the challenge. publicNonceTotal, when set, decides the
// sign of the nonce so that partial signatures add up.
func (ctx *Context) CreateSingleSignerSignature(msg, secretKey []byte, secretNonce *SecretNonce,
	publicKey, publicNonce, publicNonceTotal []byte) ([]byte, error) {

	if len(msg) != MessageSize {
		return nil, errors.Wrapf(ErrInvalidInput, "message must be %d bytes", MessageSize)
	}
	x, err := parseSecretKey(secretKey, "secret key")
	if err != nil {
		return nil, err
	}
	defer x.Zero()
	pubForE, err := parseOptionalPoint(publicKey, "public key")
	if err != nil {
		return nil, err
	}
	nonceForE, err := parseOptionalPoint(publicNonce, "public nonce")
	if err != nil {
		return nil, err
	}
	total, err := parseOptionalPoint(publicNonceTotal, "public nonce total")
	if err != nil {
		return nil, err
	}

	bl, err := ctx.freshBlinder()
	if err != nil {
		return nil, err
	}
	if secretNonce == nil {
		if secretNonce, err = ctx.CreateSecretNonce(); err != nil {
			return nil, err
		}
	}
	k, err := secretNonce.consume()
	if err != nil {
		return nil, err
	}
	defer k.Zero()

	r := bl.mulBase(&k)
	r = toAffine(&r)
	if total != nil {
		t := toAffine(total)
		if !hasQuadY(&t) {
			k.Negate()
		}
	} else if !hasQuadY(&r) {
		k.Negate()
		negatePoint(&r)
	}

	rForE := &r
	if nonceForE != nil {
		rForE = nonceForE
	}
	re := toAffine(rForE)
	e := signatureChallenge(&re.X, pubForE, msg)

	// s = k + e*x
	sig := &signature{rx: r.X}
	sig.s.Mul2(&e, &x).Add(&k)
	return sig.raw(), nil
}

// AddSingleSignerSignatures adds partial signatures made against
// publicNonceTotal. It fails with ErrMismatch when the partial nonces cannot
// sum to the total.
func (ctx *Context) AddSingleSignerSignatures(partials [][]byte, publicNonceTotal []byte) ([]byte, error) {
	if len(partials) == 0 {
		return nil, errors.Wrap(ErrEmptyInput, "no signatures")
	}
	total, err := parsePublicKey(publicNonceTotal, "public nonce total")
	if err != nil {
		return nil, err
	}
	total = toAffine(&total)

	nonces := make([]btcec.JacobianPoint, len(partials))
	sum := &signature{rx: total.X}
	for i, p := range partials {
		sig, err := parseRawSignature(p)
		if err != nil {
			return nil, elementError(err, "signatures", i)
		}
		nonces[i], _ = liftQuadX(&sig.rx)
		sum.s.Add(&sig.s)
	}

	if !noncesMatchTotal(nonces, &total) {
		ctx.log.Debug("partial signature nonces do not match total",
			zap.Int("partials", len(partials)))
		return nil, errors.Wrap(ErrMismatch, "partial signature nonces do not sum to the nonce total")
	}
	return sum.raw(), nil
}

// noncesMatchTotal reports whether the partial nonce points add up to the
// total. Every partial nonce has a quadratic residue y, so each x lifts to
// exactly the point the signer published.
func noncesMatchTotal(nonces []btcec.JacobianPoint, total *btcec.JacobianPoint) bool {
	var sum btcec.JacobianPoint
	for i := range nonces {
		btcec.AddNonConst(&sum, &nonces[i], &sum)
	}
	if isInfinity(&sum) {
		return false
	}
	s := toAffine(&sum)
	return s.X.Equals(&total.X)
}

// VerifySingleSignerSignature verifies sig over msg against publicKey.
//
// publicNonce and publicKeyTotal are what the signer hashed into the
// challenge: for a partial signature the nonce total and the combined key,
// for a full signature usually nil and the combined key. A full signature also
// requires its nonce to have a quadratic residue y.
func (ctx *Context) VerifySingleSignerSignature(sig, msg, publicNonce, publicKey, publicKeyTotal []byte,
	isPartial bool) (bool, error) {

	s, err := parseRawSignature(sig)
	if err != nil {
		return false, err
	}
	if len(msg) != MessageSize {
		return false, errors.Wrapf(ErrParse, "message must be %d bytes", MessageSize)
	}
	pub, err := parsePublicKey(publicKey, "public key")
	if err != nil {
		return false, err
	}
	pubForE, err := parseOptionalPoint(publicKeyTotal, "public key total")
	if err != nil {
		return false, err
	}
	nonceForE, err := parseOptionalPoint(publicNonce, "public nonce")
	if err != nil {
		return false, err
	}

	rxForE := s.rx
	if nonceForE != nil {
		n := toAffine(nonceForE)
		rxForE = n.X
	}
	e := signatureChallenge(&rxForE, pubForE, msg)

	// R' = s*G - e*P
	sG := mulBase(&s.s)
	eP := mulPoint(&e, &pub)
	if !isInfinity(&eP) {
		negatePoint(&eP)
	}
	r := addPoints(&sG, &eP)
	if isInfinity(&r) {
		return false, nil
	}
	r = toAffine(&r)
	if !isPartial && !hasQuadY(&r) {
		return false, nil
	}
	return r.X.Equals(&s.rx), nil
}
