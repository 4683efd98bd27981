package zkp

import (
	"encoding/binary"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/pkg/errors"
)

// Bulletproof sizes in bytes.
const (
	// BulletproofSize is five scalars, two bytes of y parity and sixteen x
	// coordinates.
	BulletproofSize        = 5*32 + 2 + 16*32
	BulletproofMessageSize = 20
	TauXSize               = 32
	NonceSize              = 32
)

const (
	proofScalarsEnd = 5 * 32
	proofParityEnd  = proofScalarsEnd + 2
	proofPoints     = 4 + 2*innerProductRounds
)

// Scalar stream indexes under a nonce.
const (
	streamAlphaRho uint32 = iota
	streamTau
	streamS
)

// rangeProof is a decoded 64-bit range proof for one commitment.
type rangeProof struct {
	a, s, t1, t2 btcec.JacobianPoint
	taux, mu, t  btcec.ModNScalar
	ipp          innerProductProof
}

func (p *rangeProof) points() [proofPoints]*btcec.JacobianPoint {
	var pts [proofPoints]*btcec.JacobianPoint
	pts[0], pts[1], pts[2], pts[3] = &p.a, &p.s, &p.t1, &p.t2
	for j := 0; j < innerProductRounds; j++ {
		pts[4+j] = &p.ipp.l[j]
		pts[4+innerProductRounds+j] = &p.ipp.r[j]
	}
	return pts
}

func (p *rangeProof) serialize() []byte {
	out := make([]byte, BulletproofSize)
	for i, s := range []*btcec.ModNScalar{&p.taux, &p.mu, &p.t, &p.ipp.a, &p.ipp.b} {
		s.PutBytesUnchecked(out[i*32:])
	}
	var parity uint16
	for i, pt := range p.points() {
		a := toAffine(pt)
		if a.Y.IsOdd() {
			parity |= 1 << i
		}
		a.X.PutBytesUnchecked(out[proofParityEnd+i*32:])
	}
	binary.LittleEndian.PutUint16(out[proofScalarsEnd:], parity)
	return out
}

// parseRangeProof decodes b, which must be BulletproofSize bytes. ok is false
// for out of range scalars and x coordinates that are not on the curve.
func parseRangeProof(b []byte) (*rangeProof, bool) {
	p := &rangeProof{}
	for i, s := range []*btcec.ModNScalar{&p.taux, &p.mu, &p.t, &p.ipp.a, &p.ipp.b} {
		if overflow := s.SetByteSlice(b[i*32 : (i+1)*32]); overflow {
			return nil, false
		}
	}
	parity := binary.LittleEndian.Uint16(b[proofScalarsEnd:])
	for i, pt := range p.points() {
		x, ok := parseFieldX(b[proofParityEnd+i*32 : proofParityEnd+(i+1)*32])
		if !ok {
			return nil, false
		}
		if *pt, ok = liftX(&x, parity&(1<<i) != 0); !ok {
			return nil, false
		}
	}
	return p, true
}

// RewoundBulletproof is the plaintext recovered from a range proof.
type RewoundBulletproof struct {
	Value   uint64
	Blind   []byte
	Message []byte
}

// embeddedValue packs 4 zero bytes, the message and the big-endian value into
// the scalar added to alpha.
func embeddedValue(message []byte, value uint64) btcec.ModNScalar {
	var b [32]byte
	copy(b[4:4+BulletproofMessageSize], message)
	binary.BigEndian.PutUint64(b[24:], value)
	var s btcec.ModNScalar
	s.SetBytes(&b)
	return s
}

// bitCommitment returns sum(G_i for set bits) - sum(H_i for clear bits), the
// vector part of A.
func bitCommitment(value uint64) btcec.JacobianPoint {
	gens := generators()
	var sum btcec.JacobianPoint
	for i := 0; i < BulletproofBits; i++ {
		if value>>i&1 == 1 {
			btcec.AddNonConst(&sum, &gens.g[i], &sum)
		} else {
			negH := gens.h[i]
			negatePoint(&negH)
			btcec.AddNonConst(&sum, &negH, &sum)
		}
	}
	return sum
}

// powers returns 1, x, x^2, ...
func powers(x *btcec.ModNScalar) [BulletproofBits]btcec.ModNScalar {
	var out [BulletproofBits]btcec.ModNScalar
	out[0].SetInt(1)
	for i := 1; i < len(out); i++ {
		out[i].Mul2(&out[i-1], x)
	}
	return out
}

var twoPowers = func() [BulletproofBits]btcec.ModNScalar {
	var two btcec.ModNScalar
	two.SetInt(2)
	return powers(&two)
}()

// prover holds the state of one proof up to the x challenge.
type prover struct {
	tr         *transcript
	alpha, rho btcec.ModNScalar
	a, s       btcec.JacobianPoint
	y, z       btcec.ModNScalar
	l0, l1     [BulletproofBits]btcec.ModNScalar
	r0, r1     [BulletproofBits]btcec.ModNScalar
	tOne, tTwo btcec.ModNScalar
	t1, t2     btcec.JacobianPoint
	x          btcec.ModNScalar
}

type proverInput struct {
	value       uint64
	commit      []byte
	nonce       []byte
	extraCommit []byte
	message     []byte
}

func checkProverInput(nonce, privateNonce, message []byte) error {
	if len(nonce) != NonceSize {
		return errors.Wrapf(ErrInvalidKey, "nonce must be %d bytes", NonceSize)
	}
	if privateNonce != nil && len(privateNonce) != NonceSize {
		return errors.Wrapf(ErrInvalidKey, "private nonce must be %d bytes", NonceSize)
	}
	if len(message) > BulletproofMessageSize {
		return errors.Wrapf(ErrInvalidInput, "message longer than %d bytes", BulletproofMessageSize)
	}
	return nil
}

// newProver commits to the bits and the blinding vectors and derives y, z.
func newProver(bl *blinder, in proverInput) (*prover, error) {
	gens := generators()
	p := &prover{tr: newTranscript(in.commit, in.extraCommit)}

	rs := newScalarStream(in.nonce, streamAlphaRho)
	alpha0 := rs.next()
	p.rho = rs.next()
	vals := embeddedValue(in.message, in.value)
	p.alpha.Add2(&alpha0, &vals)

	var sL, sR [BulletproofBits]btcec.ModNScalar
	ss := newScalarStream(in.nonce, streamS)
	for i := range sL {
		sL[i] = ss.next()
		sR[i] = ss.next()
	}

	// A = alpha*G + <aL, G> + <aR, H>
	alphaG := bl.mulBase(&p.alpha)
	bits := bitCommitment(in.value)
	p.a = addPoints(&alphaG, &bits)

	// S = rho*G + <sL, G> + <sR, H>
	rhoG := bl.mulBase(&p.rho)
	sG := multiScalarMult(sL[:], gens.g[:])
	sH := multiScalarMult(sR[:], gens.h[:])
	p.s = addPoints(&rhoG, &sG)
	btcec.AddNonConst(&p.s, &sH, &p.s)

	p.tr.appendPoint("A", &p.a)
	p.tr.appendPoint("S", &p.s)
	var ok bool
	if p.y, ok = p.tr.challenge("y"); !ok {
		return nil, errors.Wrap(ErrInvalidInput, "zero challenge")
	}
	if p.z, ok = p.tr.challenge("z"); !ok {
		return nil, errors.Wrap(ErrInvalidInput, "zero challenge")
	}

	var zz, t btcec.ModNScalar
	zz.SquareVal(&p.z)
	yPow := powers(&p.y)
	for i := 0; i < BulletproofBits; i++ {
		var aL, aR btcec.ModNScalar
		if in.value>>i&1 == 1 {
			aL.SetInt(1)
		} else {
			aR.SetInt(1)
			aR.Negate()
		}

		// l0 = aL - z, l1 = sL
		p.l0[i].Set(&p.z).Negate().Add(&aL)
		p.l1[i] = sL[i]

		// r0 = y^i*(aR + z) + z^2*2^i, r1 = y^i*sR
		p.r0[i].Add2(&aR, &p.z).Mul(&yPow[i])
		t.Mul2(&zz, &twoPowers[i])
		p.r0[i].Add(&t)
		p.r1[i].Mul2(&yPow[i], &sR[i])
	}

	// t(X) = <l(X), r(X)> = t0 + tOne*X + tTwo*X^2
	c1 := innerProduct(p.l0[:], p.r1[:])
	c2 := innerProduct(p.l1[:], p.r0[:])
	p.tOne.Add2(&c1, &c2)
	p.tTwo = innerProduct(p.l1[:], p.r1[:])
	return p, nil
}

// commitPolynomial sets T1 = tOne*H + tau1G and T2 = tTwo*H + tau2G and
// derives x.
func (p *prover) commitPolynomial(bl *blinder, tau1G, tau2G *btcec.JacobianPoint) error {
	t1H := bl.mul(&p.tOne, &generatorH)
	t2H := bl.mul(&p.tTwo, &generatorH)
	p.t1 = addPoints(&t1H, tau1G)
	p.t2 = addPoints(&t2H, tau2G)

	p.tr.appendPoint("T1", &p.t1)
	p.tr.appendPoint("T2", &p.t2)
	var ok bool
	if p.x, ok = p.tr.challenge("x"); !ok {
		return errors.Wrap(ErrInvalidInput, "zero challenge")
	}
	return nil
}

// tauX returns tau2*x^2 + tau1*x + z^2*gamma.
func (p *prover) tauX(tau1, tau2, gamma *btcec.ModNScalar) btcec.ModNScalar {
	var r, t btcec.ModNScalar
	r.Mul2(tau2, &p.x).Add(tau1).Mul(&p.x)
	t.SquareVal(&p.z).Mul(gamma)
	r.Add(&t)
	return r
}

// finish evaluates l, r at x and runs the inner product argument.
func (p *prover) finish(taux *btcec.ModNScalar) (*rangeProof, error) {
	gens := generators()
	proof := &rangeProof{a: p.a, s: p.s, t1: p.t1, t2: p.t2, taux: *taux}

	// mu = alpha + rho*x
	proof.mu.Mul2(&p.rho, &p.x).Add(&p.alpha)

	l := make([]btcec.ModNScalar, BulletproofBits)
	r := make([]btcec.ModNScalar, BulletproofBits)
	var t btcec.ModNScalar
	for i := range l {
		t.Mul2(&p.l1[i], &p.x)
		l[i].Add2(&p.l0[i], &t)
		t.Mul2(&p.r1[i], &p.x)
		r[i].Add2(&p.r0[i], &t)
	}
	proof.t = innerProduct(l, r)

	p.tr.appendScalar("taux", &proof.taux)
	p.tr.appendScalar("mu", &proof.mu)
	p.tr.appendScalar("t", &proof.t)
	w, ok := p.tr.challenge("w")
	if !ok {
		return nil, errors.Wrap(ErrInvalidInput, "zero challenge")
	}
	u := mulPoint(&w, &gens.u)

	// H'_i = y^-i * H_i
	var yInv btcec.ModNScalar
	yInv.InverseValNonConst(&p.y)
	yInvPow := powers(&yInv)
	g := make([]btcec.JacobianPoint, BulletproofBits)
	h := make([]btcec.JacobianPoint, BulletproofBits)
	copy(g, gens.g[:])
	for i := range h {
		h[i] = mulPoint(&yInvPow[i], &gens.h[i])
	}

	ipp, ok := proveInnerProduct(p.tr, g, h, &u, l, r)
	if !ok {
		return nil, errors.Wrap(ErrInvalidInput, "zero challenge")
	}
	proof.ipp = *ipp
	return proof, nil
}

// tauScalars derives tau1 and tau2 from the private nonce.
func tauScalars(privateNonce []byte) (tau1, tau2 btcec.ModNScalar) {
	ts := newScalarStream(privateNonce, streamTau)
	tau1 = ts.next()
	tau2 = ts.next()
	return tau1, tau2
}

// CreateBulletproof proves that the commitment to (blind, value) opens to a
// value in [0, 2^64). The message, at most BulletproofMessageSize bytes, is
// recoverable by anyone holding nonce. A nil privateNonce means nonce.
func (ctx *Context) CreateBulletproof(blind []byte, value uint64,
	nonce, privateNonce, extraCommit, message []byte) ([]byte, error) {

	gamma, err := parseScalar(blind, "blind")
	if err != nil {
		return nil, err
	}
	defer gamma.Zero()
	if err = checkProverInput(nonce, privateNonce, message); err != nil {
		return nil, err
	}
	if privateNonce == nil {
		privateNonce = nonce
	}
	bl, err := ctx.freshBlinder()
	if err != nil {
		return nil, err
	}

	v := commit(&bl, &gamma, value)
	p, err := newProver(&bl, proverInput{
		value:       value,
		commit:      serializeCommitment(&v),
		nonce:       nonce,
		extraCommit: extraCommit,
		message:     message,
	})
	if err != nil {
		return nil, err
	}

	tau1, tau2 := tauScalars(privateNonce)
	tau1G, tau2G := bl.mulBase(&tau1), bl.mulBase(&tau2)
	if err = p.commitPolynomial(&bl, &tau1G, &tau2G); err != nil {
		return nil, err
	}
	taux := p.tauX(&tau1, &tau2, &gamma)
	proof, err := p.finish(&taux)
	if err != nil {
		return nil, err
	}
	return proof.serialize(), nil
}

// BulletproofRoundOne returns this party's polynomial commitments
// tau1*G and tau2*G for a jointly created proof.
func (ctx *Context) BulletproofRoundOne(privateNonce []byte) (tOne, tTwo []byte, err error) {
	if len(privateNonce) != NonceSize {
		return nil, nil, errors.Wrapf(ErrInvalidKey, "private nonce must be %d bytes", NonceSize)
	}
	bl, err := ctx.freshBlinder()
	if err != nil {
		return nil, nil, err
	}
	tau1, tau2 := tauScalars(privateNonce)
	tau1G, tau2G := bl.mulBase(&tau1), bl.mulBase(&tau2)
	tau1.Zero()
	tau2.Zero()
	return serializeCompressed(&tau1G), serializeCompressed(&tau2G), nil
}

// BulletproofRoundTwo returns this party's tauX share for a jointly created
// proof. tOne and tTwo are the sums of every party's round one output and
// commit is the joint commitment.
func (ctx *Context) BulletproofRoundTwo(blind []byte, value uint64, nonce, privateNonce,
	commitment, tOne, tTwo, extraCommit, message []byte) ([]byte, error) {

	gamma, err := parseScalar(blind, "blind")
	if err != nil {
		return nil, err
	}
	defer gamma.Zero()
	if len(privateNonce) != NonceSize {
		return nil, errors.Wrapf(ErrInvalidKey, "private nonce must be %d bytes", NonceSize)
	}
	p, err := ctx.jointProver(commitment, tOne, tTwo, value, nonce, extraCommit, message)
	if err != nil {
		return nil, err
	}

	tau1, tau2 := tauScalars(privateNonce)
	share := p.tauX(&tau1, &tau2, &gamma)
	tau1.Zero()
	tau2.Zero()
	return scalarBytes(&share), nil
}

// CreateBulletproofBlindless finishes a jointly created proof from the summed
// tauX shares and the summed round one commitments.
func (ctx *Context) CreateBulletproofBlindless(tauX, tOne, tTwo, commitment []byte, value uint64,
	nonce, extraCommit, message []byte) ([]byte, error) {

	taux, err := parseScalar(tauX, "tau x")
	if err != nil {
		return nil, err
	}
	p, err := ctx.jointProver(commitment, tOne, tTwo, value, nonce, extraCommit, message)
	if err != nil {
		return nil, err
	}
	proof, err := p.finish(&taux)
	if err != nil {
		return nil, err
	}
	return proof.serialize(), nil
}

// jointProver runs a proof up to the x challenge using externally supplied
// polynomial commitments.
func (ctx *Context) jointProver(commitment, tOne, tTwo []byte, value uint64,
	nonce, extraCommit, message []byte) (*prover, error) {

	v, err := parseCommitment(commitment, "commitment")
	if err != nil {
		return nil, err
	}
	tau1G, err := parsePublicKey(tOne, "t one")
	if err != nil {
		return nil, err
	}
	tau2G, err := parsePublicKey(tTwo, "t two")
	if err != nil {
		return nil, err
	}
	if err = checkProverInput(nonce, nil, message); err != nil {
		return nil, err
	}
	bl, err := ctx.freshBlinder()
	if err != nil {
		return nil, err
	}

	p, err := newProver(&bl, proverInput{
		value:       value,
		commit:      serializeCommitment(&v),
		nonce:       nonce,
		extraCommit: extraCommit,
		message:     message,
	})
	if err != nil {
		return nil, err
	}
	if err = p.commitPolynomial(&bl, &tau1G, &tau2G); err != nil {
		return nil, err
	}
	return p, nil
}
