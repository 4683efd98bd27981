package zkp

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/pkg/errors"
)

// challenges are the Fiat-Shamir challenges of a proof up to x.
type challenges struct {
	y, z, x btcec.ModNScalar
}

// replayChallenges rebuilds y, z and x from a decoded proof.
func replayChallenges(tr *transcript, proof *rangeProof) (challenges, bool) {
	var c challenges
	var ok bool
	tr.appendPoint("A", &proof.a)
	tr.appendPoint("S", &proof.s)
	if c.y, ok = tr.challenge("y"); !ok {
		return c, false
	}
	if c.z, ok = tr.challenge("z"); !ok {
		return c, false
	}
	tr.appendPoint("T1", &proof.t1)
	tr.appendPoint("T2", &proof.t2)
	if c.x, ok = tr.challenge("x"); !ok {
		return c, false
	}
	return c, true
}

// decodeProofInputs checks lengths and decodes the inputs. A proof or
// commitment of the right length that does not decode returns a nil proof and
// no error.
func decodeProofInputs(proof, commitment []byte) (*rangeProof, btcec.JacobianPoint, error) {
	var v btcec.JacobianPoint
	if len(proof) != BulletproofSize {
		return nil, v, errors.Wrapf(ErrParse, "bulletproof must be %d bytes, got %d", BulletproofSize, len(proof))
	}
	if len(commitment) != CommitmentSize {
		return nil, v, errors.Wrapf(ErrParse, "commitment must be %d bytes, got %d", CommitmentSize, len(commitment))
	}
	v, err := parseCommitment(commitment, "commitment")
	if err != nil {
		return nil, v, nil
	}
	p, ok := parseRangeProof(proof)
	if !ok {
		return nil, v, nil
	}
	return p, v, nil
}

// VerifyBulletproof reports whether proof shows that commitment opens to a
// value in [0, 2^64) under extraCommit. The error is non-nil only for a wrong
// proof or commitment length; anything else that does not decode is false.
func (ctx *Context) VerifyBulletproof(proof, commitment, extraCommit []byte) (bool, error) {
	p, v, err := decodeProofInputs(proof, commitment)
	if err != nil {
		return false, err
	}
	if p == nil {
		return false, nil
	}
	return verifyRangeProof(p, &v, extraCommit), nil
}

func verifyRangeProof(p *rangeProof, v *btcec.JacobianPoint, extraCommit []byte) bool {
	gens := generators()
	tr := newTranscript(serializeCommitment(v), extraCommit)
	c, ok := replayChallenges(tr, p)
	if !ok {
		return false
	}
	tr.appendScalar("taux", &p.taux)
	tr.appendScalar("mu", &p.mu)
	tr.appendScalar("t", &p.t)
	w, ok := tr.challenge("w")
	if !ok {
		return false
	}
	xs, ok := innerProductChallenges(tr, &p.ipp)
	if !ok {
		return false
	}

	var zz, zzz, xx, t btcec.ModNScalar
	zz.SquareVal(&c.z)
	zzz.Mul2(&zz, &c.z)
	xx.SquareVal(&c.x)
	yPow := powers(&c.y)

	// delta = (z - z^2)*<1, y^n> - z^3*<1, 2^n>
	var sumY, sumTwo, delta btcec.ModNScalar
	for i := range yPow {
		sumY.Add(&yPow[i])
		sumTwo.Add(&twoPowers[i])
	}
	delta.Set(&zz).Negate().Add(&c.z).Mul(&sumY)
	t.Mul2(&zzz, &sumTwo).Negate()
	delta.Add(&t)

	// t*H + taux*G == z^2*V + delta*H + x*T1 + x^2*T2
	var tMinusDelta btcec.ModNScalar
	tMinusDelta.Set(&delta).Negate().Add(&p.t)
	lhs := multiScalarMult(
		[]btcec.ModNScalar{tMinusDelta},
		[]btcec.JacobianPoint{generatorH},
	)
	tauG := mulBase(&p.taux)
	btcec.AddNonConst(&lhs, &tauG, &lhs)
	rhs := multiScalarMult(
		[]btcec.ModNScalar{zz, c.x, xx},
		[]btcec.JacobianPoint{*v, p.t1, p.t2},
	)
	if !pointsEqual(&lhs, &rhs) {
		return false
	}

	// A + x*S - z*<1,G> + <z + z^2*2^i*y^-i, H> - mu*G + t*wU
	// + sum(x_j^2*L_j + x_j^-2*R_j) == a*<s,G> + b*<s^-1,H'> + a*b*wU
	s := foldingScalars(&xs)
	var yInv btcec.ModNScalar
	yInv.InverseValNonConst(&c.y)
	yInvPow := powers(&yInv)

	n := BulletproofBits
	scalars := make([]btcec.ModNScalar, 0, 2*n+4+2*innerProductRounds)
	points := make([]btcec.JacobianPoint, 0, cap(scalars))

	var one btcec.ModNScalar
	one.SetInt(1)
	scalars = append(scalars, one, c.x)
	points = append(points, p.a, p.s)

	var ab btcec.ModNScalar
	ab.Mul2(&p.ipp.a, &p.ipp.b)
	for i := 0; i < n; i++ {
		// G_i: -z - a*s_i
		var gi btcec.ModNScalar
		gi.Mul2(&p.ipp.a, &s[i]).Add(&c.z).Negate()
		scalars = append(scalars, gi)
		points = append(points, gens.g[i])

		// H_i: z + (z^2*2^i - b*s_i^-1)*y^-i, with s_i^-1 = s_(n-1-i)
		var hi, bs btcec.ModNScalar
		bs.Mul2(&p.ipp.b, &s[n-1-i]).Negate()
		hi.Mul2(&zz, &twoPowers[i]).Add(&bs).Mul(&yInvPow[i]).Add(&c.z)
		scalars = append(scalars, hi)
		points = append(points, gens.h[i])
	}

	// U: (t - a*b)*w
	var uScalar btcec.ModNScalar
	uScalar.Set(&ab).Negate().Add(&p.t).Mul(&w)
	scalars = append(scalars, uScalar)
	points = append(points, gens.u)

	for j := range xs {
		var sq, sqInv btcec.ModNScalar
		sq.SquareVal(&xs[j])
		sqInv.InverseValNonConst(&sq)
		scalars = append(scalars, sq, sqInv)
		points = append(points, p.ipp.l[j], p.ipp.r[j])
	}

	sum := multiScalarMult(scalars, points)
	muG := mulBase(&p.mu)
	negatePoint(&muG)
	btcec.AddNonConst(&sum, &muG, &sum)
	return isInfinity(&sum)
}

// RewindBulletproof recovers the value, blind and message embedded in a proof
// created with nonce. extraCommit must match the one used at creation; nil
// means none. The blind is only correct when the proof's private nonce was
// nonce.
func (ctx *Context) RewindBulletproof(proof, commitment, nonce, extraCommit []byte) (*RewoundBulletproof, error) {
	p, v, err := decodeProofInputs(proof, commitment)
	if err != nil {
		return nil, err
	}
	if len(nonce) != NonceSize {
		return nil, errors.Wrapf(ErrInvalidKey, "nonce must be %d bytes", NonceSize)
	}
	if p == nil {
		return nil, errors.Wrap(ErrRewindFailed, "malformed proof")
	}

	tr := newTranscript(serializeCommitment(&v), extraCommit)
	c, challengesOK := replayChallenges(tr, p)

	// vals = mu - rho*x - alpha0
	rs := newScalarStream(nonce, streamAlphaRho)
	alpha0 := rs.next()
	rho := rs.next()
	var vals, t btcec.ModNScalar
	t.Mul2(&rho, &c.x).Add(&alpha0).Negate()
	vals.Add2(&p.mu, &t)
	raw := vals.Bytes()
	paddingOK := raw[0]|raw[1]|raw[2]|raw[3] == 0

	var value uint64
	for _, b := range raw[24:] {
		value = value<<8 | uint64(b)
	}
	message := make([]byte, BulletproofMessageSize)
	copy(message, raw[4:24])

	// A must recompute from alpha0 + vals and the recovered bits
	var alpha btcec.ModNScalar
	alpha.Add2(&alpha0, &vals)
	alphaG := ctx.static.mulBase(&alpha)
	bits := bitCommitment(value)
	a := addPoints(&alphaG, &bits)
	aOK := pointsEqual(&a, &p.a)

	// blind = (taux - tau1*x - tau2*x^2) / z^2
	tau1, tau2 := tauScalars(nonce)
	var blind, zzInv btcec.ModNScalar
	blind.Mul2(&tau2, &c.x).Add(&tau1).Mul(&c.x).Negate().Add(&p.taux)
	zzInv.SquareVal(&c.z)
	if !zzInv.IsZero() {
		zzInv.InverseNonConst()
	}
	blind.Mul(&zzInv)
	tau1.Zero()
	tau2.Zero()

	if !(challengesOK && paddingOK && aOK) {
		ctx.log.Debug("bulletproof rewind failed")
		return nil, errors.Wrap(ErrRewindFailed, "proof was not created with this nonce")
	}
	return &RewoundBulletproof{
		Value:   value,
		Blind:   scalarBytes(&blind),
		Message: message,
	}, nil
}
