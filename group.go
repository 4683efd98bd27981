package zkp

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/pkg/errors"
)

// Point encoding sizes in bytes.
const (
	PublicKeySize             = 33
	UncompressedPublicKeySize = 65
)

func isInfinity(p *btcec.JacobianPoint) bool {
	return (p.X.IsZero() && p.Y.IsZero()) || p.Z.IsZero()
}

// toAffine returns a normalized copy of p with Z = 1.
func toAffine(p *btcec.JacobianPoint) btcec.JacobianPoint {
	var r btcec.JacobianPoint
	r.Set(p)
	r.ToAffine()
	return r
}

func negatePoint(p *btcec.JacobianPoint) {
	p.Y.Normalize()
	p.Y.Negate(1).Normalize()
}

func addPoints(a, b *btcec.JacobianPoint) btcec.JacobianPoint {
	var r btcec.JacobianPoint
	btcec.AddNonConst(a, b, &r)
	return r
}

// mulPoint returns k*p for public scalars.
func mulPoint(k *btcec.ModNScalar, p *btcec.JacobianPoint) btcec.JacobianPoint {
	var r btcec.JacobianPoint
	btcec.ScalarMultNonConst(k, p, &r)
	return r
}

// mulBase returns k*G for public scalars.
func mulBase(k *btcec.ModNScalar) btcec.JacobianPoint {
	var r btcec.JacobianPoint
	btcec.ScalarBaseMultNonConst(k, &r)
	return r
}

func pointsEqual(a, b *btcec.JacobianPoint) bool {
	ai, bi := isInfinity(a), isInfinity(b)
	if ai || bi {
		return ai == bi
	}
	x, y := toAffine(a), toAffine(b)
	return x.X.Equals(&y.X) && x.Y.Equals(&y.Y)
}

// hasQuadY reports whether the y coordinate of the affine point p is a
// quadratic residue modulo the field prime.
func hasQuadY(p *btcec.JacobianPoint) bool {
	var r btcec.FieldVal
	return r.SquareRootVal(&p.Y)
}

// liftX returns the point with the given x coordinate and y parity.
func liftX(x *btcec.FieldVal, odd bool) (btcec.JacobianPoint, bool) {
	var y btcec.FieldVal
	if !btcec.DecompressY(x, odd, &y) {
		return btcec.JacobianPoint{}, false
	}
	y.Normalize()
	var one btcec.FieldVal
	one.SetInt(1)
	return btcec.MakeJacobianPoint(x, &y, &one), true
}

// liftQuadX returns the point with the given x coordinate whose y is a
// quadratic residue.
func liftQuadX(x *btcec.FieldVal) (btcec.JacobianPoint, bool) {
	p, ok := liftX(x, false)
	if !ok {
		return p, false
	}
	if !hasQuadY(&p) {
		negatePoint(&p)
	}
	return p, true
}

// parseFieldX decodes a 32-byte x coordinate below the field prime.
func parseFieldX(b []byte) (btcec.FieldVal, bool) {
	var x btcec.FieldVal
	if len(b) != 32 {
		return x, false
	}
	if overflow := x.SetByteSlice(b); overflow {
		return x, false
	}
	return x, true
}

// parsePublicKey decodes a compressed, uncompressed or hybrid public key.
func parsePublicKey(b []byte, what string) (btcec.JacobianPoint, error) {
	var p btcec.JacobianPoint
	pk, err := btcec.ParsePubKey(b)
	if err != nil {
		return p, errors.Wrapf(ErrParse, "%s: %v", what, err)
	}
	pk.AsJacobian(&p)
	return p, nil
}

// serializeCompressed encodes a non-infinity point as 02/03 || x.
func serializeCompressed(p *btcec.JacobianPoint) []byte {
	a := toAffine(p)
	return btcec.NewPublicKey(&a.X, &a.Y).SerializeCompressed()
}

func serializeUncompressed(p *btcec.JacobianPoint) []byte {
	a := toAffine(p)
	return btcec.NewPublicKey(&a.X, &a.Y).SerializeUncompressed()
}

// xBytes returns the big-endian x coordinate of a non-infinity point.
func xBytes(p *btcec.JacobianPoint) [32]byte {
	a := toAffine(p)
	return *a.X.Bytes()
}
