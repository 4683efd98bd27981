package zkp

import (
	"encoding/hex"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/pkg/errors"
)

// CommitmentSize is the length of a serialized Pedersen commitment.
const CommitmentSize = 33

const (
	commitmentQuadPrefix    = 0x08
	commitmentNonQuadPrefix = 0x09
)

var (
	// generatorH is the value generator: the even-y lift of
	// SHA256(uncompressed G).
	generatorH = mustPoint(
		"50929b74c1a04954b78b4b6035e97a5e078a5a0f28ec96d547bfee9ace803ac0",
		"31d3c6863973926e049e637cb1b5f40a36dac28af1766968c30c2313f3a38904",
	)
	// generatorJ is the switch generator: the even-y lift of
	// SHA256(SHA256(uncompressed G)).
	generatorJ = mustPoint(
		"b860f56795fc03f3c21685383d1b5a2f2954f49b7e398b8d2a0193933621155f",
		"a43f09d32caa8f53423f427403a56a3165a5a69a74cf56fc5901a2dca6c5c43a",
	)
)

// identityCommitment is the encoding of the point at infinity.
var identityCommitment [CommitmentSize]byte

// parseCommitment decodes a commitment. The all-zero encoding is the identity.
func parseCommitment(c []byte, what string) (btcec.JacobianPoint, error) {
	var p btcec.JacobianPoint
	if len(c) != CommitmentSize {
		return p, errors.Wrapf(ErrParse, "%s must be %d bytes, got %d", what, CommitmentSize, len(c))
	}
	if [CommitmentSize]byte(c) == identityCommitment {
		return p, nil
	}
	if c[0] != commitmentQuadPrefix && c[0] != commitmentNonQuadPrefix {
		return p, errors.Wrapf(ErrParse, "%s has invalid prefix %#02x", what, c[0])
	}
	x, ok := parseFieldX(c[1:])
	if !ok {
		return p, errors.Wrapf(ErrParse, "%s x coordinate is not below the field prime", what)
	}
	p, ok = liftQuadX(&x)
	if !ok {
		return p, errors.Wrapf(ErrParse, "%s is not on the curve", what)
	}
	if c[0] == commitmentNonQuadPrefix {
		negatePoint(&p)
	}
	return p, nil
}

// serializeCommitment encodes p with the 08/09 prefix selected by whether y is
// a quadratic residue.
func serializeCommitment(p *btcec.JacobianPoint) []byte {
	out := make([]byte, CommitmentSize)
	if isInfinity(p) {
		return out
	}
	a := toAffine(p)
	out[0] = commitmentNonQuadPrefix
	if hasQuadY(&a) {
		out[0] = commitmentQuadPrefix
	}
	a.X.PutBytesUnchecked(out[1:])
	return out
}

// IsValidCommitment reports whether c decodes to a commitment
func (ctx *Context) IsValidCommitment(c []byte) bool {
	_, err := parseCommitment(c, "commitment")
	return err == nil
}

// commit computes value*H + blind*G with the given blinder.
func commit(bl *blinder, blind *btcec.ModNScalar, value uint64) btcec.JacobianPoint {
	v := scalarFromUint64(value)
	vH := bl.mul(&v, &generatorH)
	bG := bl.mulBase(blind)
	return addPoints(&vH, &bG)
}

// PedersenCommit returns the commitment value*H + blind*G
func (ctx *Context) PedersenCommit(blind []byte, value uint64) ([]byte, error) {
	b, err := parseScalar(blind, "blind")
	if err != nil {
		return nil, err
	}
	c := commit(&ctx.static, &b, value)
	b.Zero()
	return serializeCommitment(&c), nil
}

// BlindSum returns the sum of positive blinds minus the sum of negative blinds
func (ctx *Context) BlindSum(positive, negative [][]byte) ([]byte, error) {
	if len(positive) == 0 && len(negative) == 0 {
		return nil, errors.Wrap(ErrEmptyInput, "no blinds")
	}

	var sum btcec.ModNScalar
	for i, b := range positive {
		s, err := parseScalar(b, "blind")
		if err != nil {
			return nil, elementError(err, "positive blinds", i)
		}
		sum.Add(&s)
	}
	for i, b := range negative {
		s, err := parseScalar(b, "blind")
		if err != nil {
			return nil, elementError(err, "negative blinds", i)
		}
		sum.Add(s.Negate())
	}
	return scalarBytes(&sum), nil
}

// sumCommitments adds the positive and subtracts the negative commitments.
func sumCommitments(positive, negative [][]byte) (btcec.JacobianPoint, error) {
	var sum btcec.JacobianPoint
	if len(positive) == 0 && len(negative) == 0 {
		return sum, errors.Wrap(ErrEmptyInput, "no commitments")
	}
	for i, c := range positive {
		p, err := parseCommitment(c, "commitment")
		if err != nil {
			return sum, elementError(err, "positive commitments", i)
		}
		btcec.AddNonConst(&sum, &p, &sum)
	}
	for i, c := range negative {
		p, err := parseCommitment(c, "commitment")
		if err != nil {
			return sum, elementError(err, "negative commitments", i)
		}
		if !isInfinity(&p) {
			negatePoint(&p)
		}
		btcec.AddNonConst(&sum, &p, &sum)
	}
	return sum, nil
}

// PedersenCommitSum returns the sum of positive commitments minus the sum of
// negative commitments. The result may be the identity commitment.
func (ctx *Context) PedersenCommitSum(positive, negative [][]byte) ([]byte, error) {
	sum, err := sumCommitments(positive, negative)
	if err != nil {
		return nil, err
	}
	return serializeCommitment(&sum), nil
}

// VerifyCommitSum reports whether the positive and negative commitments
// balance
func (ctx *Context) VerifyCommitSum(positive, negative [][]byte) bool {
	sum, err := sumCommitments(positive, negative)
	return err == nil && isInfinity(&sum)
}

// BlindSwitch returns blind + SHA256(commit(blind, value) || blind*J)
func (ctx *Context) BlindSwitch(blind []byte, value uint64) ([]byte, error) {
	b, err := parseSecretKey(blind, "blind")
	if err != nil {
		return nil, err
	}
	defer b.Zero()

	c := commit(&ctx.static, &b, value)
	bJ := ctx.static.mul(&b, &generatorJ)
	h := sha256Sum(serializeCommitment(&c), serializeCompressed(&bJ))
	t := hashToScalar(h)

	t.Add(&b)
	if t.IsZero() {
		return nil, errors.Wrap(ErrInvalidKey, "switched blind is zero")
	}
	return scalarBytes(&t), nil
}

// CommitmentToPublicKey reinterprets a commitment as a compressed public key
func (ctx *Context) CommitmentToPublicKey(c []byte) ([]byte, error) {
	p, err := parseCommitment(c, "commitment")
	if err != nil {
		return nil, err
	}
	if isInfinity(&p) {
		return nil, errors.Wrap(ErrParse, "identity commitment has no public key")
	}
	return serializeCompressed(&p), nil
}

// PublicKeyToCommitment reinterprets a public key as a commitment
func (ctx *Context) PublicKeyToCommitment(p []byte) ([]byte, error) {
	pt, err := parsePublicKey(p, "public key")
	if err != nil {
		return nil, err
	}
	return serializeCommitment(&pt), nil
}

// mustPoint builds an affine point from hex coordinates known to be on the
// curve.
func mustPoint(xHex, yHex string) btcec.JacobianPoint {
	var x, y, one btcec.FieldVal
	if x.SetByteSlice(mustHex(xHex)) || y.SetByteSlice(mustHex(yHex)) {
		panic("generator coordinate overflows field")
	}
	one.SetInt(1)
	p := btcec.MakeJacobianPoint(&x, &y, &one)
	if !btcec.NewPublicKey(&x, &y).IsOnCurve() {
		panic("generator is not on the curve")
	}
	return p
}

func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}
