package zkp

import (
	"github.com/btcsuite/btcd/btcec/v2"
)

// innerProductRounds is log2(BulletproofBits).
const innerProductRounds = 6

// innerProductProof shows knowledge of vectors a, b with
// P = <a, G> + <b, H'> + <a, b>*U'. Each round halves the vectors.
type innerProductProof struct {
	l, r [innerProductRounds]btcec.JacobianPoint
	a, b btcec.ModNScalar
}

func innerProduct(a, b []btcec.ModNScalar) btcec.ModNScalar {
	var sum, t btcec.ModNScalar
	for i := range a {
		t.Mul2(&a[i], &b[i])
		sum.Add(&t)
	}
	return sum
}

// multiScalarMult returns sum(scalars[i] * points[i]). Zero scalars and
// infinity points are skipped.
func multiScalarMult(scalars []btcec.ModNScalar, points []btcec.JacobianPoint) btcec.JacobianPoint {
	var sum, term btcec.JacobianPoint
	for i := range scalars {
		if scalars[i].IsZero() || isInfinity(&points[i]) {
			continue
		}
		btcec.ScalarMultNonConst(&scalars[i], &points[i], &term)
		btcec.AddNonConst(&sum, &term, &sum)
	}
	return sum
}

// proveInnerProduct runs the folding argument over g, h and u. The slices are
// consumed.
func proveInnerProduct(tr *transcript, g, h []btcec.JacobianPoint, u *btcec.JacobianPoint,
	a, b []btcec.ModNScalar) (*innerProductProof, bool) {

	proof := &innerProductProof{}
	for round := 0; len(a) > 1; round++ {
		k := len(a) / 2
		aLo, aHi := a[:k], a[k:]
		bLo, bHi := b[:k], b[k:]
		gLo, gHi := g[:k], g[k:]
		hLo, hHi := h[:k], h[k:]

		// L = <aLo, gHi> + <bHi, hLo> + <aLo, bHi>*u
		cL := innerProduct(aLo, bHi)
		L := multiScalarMult(append(append([]btcec.ModNScalar{}, aLo...), bHi...),
			append(append([]btcec.JacobianPoint{}, gHi...), hLo...))
		cLU := mulPoint(&cL, u)
		btcec.AddNonConst(&L, &cLU, &L)

		// R = <aHi, gLo> + <bLo, hHi> + <aHi, bLo>*u
		cR := innerProduct(aHi, bLo)
		R := multiScalarMult(append(append([]btcec.ModNScalar{}, aHi...), bLo...),
			append(append([]btcec.JacobianPoint{}, gLo...), hHi...))
		cRU := mulPoint(&cR, u)
		btcec.AddNonConst(&R, &cRU, &R)

		proof.l[round], proof.r[round] = L, R
		tr.appendPoint("L", &L)
		tr.appendPoint("R", &R)
		x, ok := tr.challenge("u")
		if !ok {
			return nil, false
		}
		var xInv btcec.ModNScalar
		xInv.InverseValNonConst(&x)

		var t1, t2 btcec.ModNScalar
		var p1, p2 btcec.JacobianPoint
		for i := 0; i < k; i++ {
			// a' = aLo*x + aHi*x^-1
			t1.Mul2(&aLo[i], &x)
			t2.Mul2(&aHi[i], &xInv)
			a[i].Add2(&t1, &t2)

			// b' = bLo*x^-1 + bHi*x
			t1.Mul2(&bLo[i], &xInv)
			t2.Mul2(&bHi[i], &x)
			b[i].Add2(&t1, &t2)

			// g' = gLo*x^-1 + gHi*x
			btcec.ScalarMultNonConst(&xInv, &gLo[i], &p1)
			btcec.ScalarMultNonConst(&x, &gHi[i], &p2)
			btcec.AddNonConst(&p1, &p2, &g[i])

			// h' = hLo*x + hHi*x^-1
			btcec.ScalarMultNonConst(&x, &hLo[i], &p1)
			btcec.ScalarMultNonConst(&xInv, &hHi[i], &p2)
			btcec.AddNonConst(&p1, &p2, &h[i])
		}
		a, b, g, h = a[:k], b[:k], g[:k], h[:k]
	}
	proof.a, proof.b = a[0], b[0]
	return proof, true
}

// innerProductChallenges replays the rounds of proof into tr and returns the
// round challenges.
func innerProductChallenges(tr *transcript, proof *innerProductProof) ([innerProductRounds]btcec.ModNScalar, bool) {
	var xs [innerProductRounds]btcec.ModNScalar
	for j := range xs {
		tr.appendPoint("L", &proof.l[j])
		tr.appendPoint("R", &proof.r[j])
		x, ok := tr.challenge("u")
		if !ok {
			return xs, false
		}
		xs[j] = x
	}
	return xs, true
}

// foldingScalars returns s_i, the coefficient of G_i in the fully folded
// generator: the product over rounds j of x_j if bit (rounds-1-j) of i is set
// and x_j^-1 otherwise.
func foldingScalars(xs *[innerProductRounds]btcec.ModNScalar) [BulletproofBits]btcec.ModNScalar {
	var inv [innerProductRounds]btcec.ModNScalar
	for j := range xs {
		inv[j].InverseValNonConst(&xs[j])
	}
	var s [BulletproofBits]btcec.ModNScalar
	for i := range s {
		s[i].SetInt(1)
		for j := 0; j < innerProductRounds; j++ {
			if (i>>(innerProductRounds-1-j))&1 == 1 {
				s[i].Mul(&xs[j])
			} else {
				s[i].Mul(&inv[j])
			}
		}
	}
	return s
}
