package zkp

import (
	"bytes"
	"math"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bulletproofFixture struct {
	blind, nonce, extra, message []byte
	value                        uint64
	commit, proof                []byte
}

func newBulletproofFixture(t *testing.T, ctx *Context, value uint64) *bulletproofFixture {
	t.Helper()
	f := &bulletproofFixture{
		blind:   bytes.Repeat([]byte{0x33}, BlindSize),
		nonce:   bytes.Repeat([]byte{0x44}, NonceSize),
		extra:   []byte("tx kernel"),
		message: []byte("switch commit path.."),
		value:   value,
	}
	var err error
	f.commit, err = ctx.PedersenCommit(f.blind, value)
	require.NoError(t, err)
	f.proof, err = ctx.CreateBulletproof(f.blind, value, f.nonce, nil, f.extra, f.message)
	require.NoError(t, err)
	require.Len(t, f.proof, BulletproofSize)
	return f
}

func TestBulletproofVerify(t *testing.T) {
	ctx := newTestContext(t)
	testCases := []struct {
		name  string
		value uint64
	}{
		{name: "zero", value: 0},
		{name: "one", value: 1},
		{name: "typical", value: 123456789},
		{name: "max", value: math.MaxUint64},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newBulletproofFixture(t, ctx, tc.value)
			ok, err := ctx.VerifyBulletproof(f.proof, f.commit, f.extra)
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestBulletproofRejects(t *testing.T) {
	ctx := newTestContext(t)
	f := newBulletproofFixture(t, ctx, 1000)

	t.Run("wrong_extra_commit", func(t *testing.T) {
		ok, err := ctx.VerifyBulletproof(f.proof, f.commit, []byte("other"))
		require.NoError(t, err)
		assert.False(t, ok)
		ok, err = ctx.VerifyBulletproof(f.proof, f.commit, nil)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("wrong_commitment", func(t *testing.T) {
		other, err := ctx.PedersenCommit(f.blind, 1001)
		require.NoError(t, err)
		ok, err := ctx.VerifyBulletproof(f.proof, other, f.extra)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("bit_flips", func(t *testing.T) {
		// one position in each scalar, the parity bits and a few points
		for _, pos := range []int{0, 40, 70, 100, 150, 160, 161, 200, 400, 673} {
			tampered := append([]byte(nil), f.proof...)
			tampered[pos] ^= 0x01
			ok, err := ctx.VerifyBulletproof(tampered, f.commit, f.extra)
			require.NoError(t, err, "byte %d", pos)
			assert.False(t, ok, "byte %d", pos)
		}
	})

	t.Run("wrong_length", func(t *testing.T) {
		_, err := ctx.VerifyBulletproof(f.proof[:BulletproofSize-1], f.commit, f.extra)
		require.ErrorIs(t, err, ErrParse)
	})

	t.Run("bad_commitment", func(t *testing.T) {
		_, err := ctx.VerifyBulletproof(f.proof, f.commit[:10], f.extra)
		require.ErrorIs(t, err, ErrParse)
	})

	t.Run("undecodable_commitment", func(t *testing.T) {
		// right length, x above the field prime
		c := append([]byte{commitmentQuadPrefix}, bytes.Repeat([]byte{0xff}, 32)...)
		ok, err := ctx.VerifyBulletproof(f.proof, c, f.extra)
		require.NoError(t, err)
		assert.False(t, ok)

		_, err = ctx.RewindBulletproof(f.proof, c, f.nonce, f.extra)
		require.ErrorIs(t, err, ErrRewindFailed)

		c[0] = 0x07
		ok, err = ctx.VerifyBulletproof(f.proof, c, f.extra)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestBulletproofOutOfRangeValueFails(t *testing.T) {
	ctx := newTestContext(t)
	f := newBulletproofFixture(t, ctx, 7)

	// commit(b, 7) - commit(0, 8) opens to n - 1
	neg, err := ctx.PedersenCommitSum([][]byte{f.commit}, [][]byte{mustCommit(t, ctx, make([]byte, 32), 8)})
	require.NoError(t, err)
	ok, err := ctx.VerifyBulletproof(f.proof, neg, f.extra)
	require.NoError(t, err)
	assert.False(t, ok)
}

func mustCommit(t *testing.T, ctx *Context, blind []byte, value uint64) []byte {
	t.Helper()
	c, err := ctx.PedersenCommit(blind, value)
	require.NoError(t, err)
	return c
}

func TestBulletproofRewind(t *testing.T) {
	ctx := newTestContext(t)
	f := newBulletproofFixture(t, ctx, 0xdeadbeef)

	got, err := ctx.RewindBulletproof(f.proof, f.commit, f.nonce, f.extra)
	require.NoError(t, err)
	assert.Equal(t, f.value, got.Value)
	assert.Equal(t, f.blind, got.Blind)
	assert.Equal(t, f.message, got.Message)

	t.Run("short_message_is_zero_padded", func(t *testing.T) {
		proof, err := ctx.CreateBulletproof(f.blind, 5, f.nonce, nil, nil, []byte("hi"))
		require.NoError(t, err)
		got, err := ctx.RewindBulletproof(proof, mustCommit(t, ctx, f.blind, 5), f.nonce, nil)
		require.NoError(t, err)
		want := make([]byte, BulletproofMessageSize)
		copy(want, "hi")
		assert.Equal(t, want, got.Message)
		assert.Equal(t, uint64(5), got.Value)
	})

	t.Run("wrong_nonce", func(t *testing.T) {
		_, err := ctx.RewindBulletproof(f.proof, f.commit, bytes.Repeat([]byte{0x45}, NonceSize), f.extra)
		require.ErrorIs(t, err, ErrRewindFailed)
	})

	t.Run("wrong_extra_commit", func(t *testing.T) {
		_, err := ctx.RewindBulletproof(f.proof, f.commit, f.nonce, nil)
		require.ErrorIs(t, err, ErrRewindFailed)
	})

	t.Run("tampered_proof", func(t *testing.T) {
		tampered := append([]byte(nil), f.proof...)
		tampered[40] ^= 0x01
		_, err := ctx.RewindBulletproof(tampered, f.commit, f.nonce, f.extra)
		require.ErrorIs(t, err, ErrRewindFailed)
	})

	t.Run("bad_nonce_length", func(t *testing.T) {
		_, err := ctx.RewindBulletproof(f.proof, f.commit, f.nonce[:16], f.extra)
		require.ErrorIs(t, err, ErrInvalidKey)
	})
}

func TestBulletproofPrivateNonce(t *testing.T) {
	ctx := newTestContext(t)
	blind := bytes.Repeat([]byte{0x33}, BlindSize)
	nonce := bytes.Repeat([]byte{0x44}, NonceSize)
	private := bytes.Repeat([]byte{0x55}, NonceSize)

	proof, err := ctx.CreateBulletproof(blind, 77, nonce, private, nil, nil)
	require.NoError(t, err)
	commit := mustCommit(t, ctx, blind, 77)
	ok, err := ctx.VerifyBulletproof(proof, commit, nil)
	require.NoError(t, err)
	assert.True(t, ok)

	// value rewinds with the shared nonce; the blind needs the private one
	got, err := ctx.RewindBulletproof(proof, commit, nonce, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(77), got.Value)
	assert.NotEqual(t, blind, got.Blind)
}

func TestCreateBulletproofErrors(t *testing.T) {
	ctx := newTestContext(t)
	blind := bytes.Repeat([]byte{0x33}, BlindSize)
	nonce := bytes.Repeat([]byte{0x44}, NonceSize)

	_, err := ctx.CreateBulletproof(orderBytes, 1, nonce, nil, nil, nil)
	require.ErrorIs(t, err, ErrInvalidKey)
	_, err = ctx.CreateBulletproof(blind, 1, nonce[:31], nil, nil, nil)
	require.ErrorIs(t, err, ErrInvalidKey)
	_, err = ctx.CreateBulletproof(blind, 1, nonce, nonce[:3], nil, nil)
	require.ErrorIs(t, err, ErrInvalidKey)
	_, err = ctx.CreateBulletproof(blind, 1, nonce, nil, nil, make([]byte, BulletproofMessageSize+1))
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestBulletproofMultiParty(t *testing.T) {
	ctx := newTestContext(t)
	const value = 424242
	nonce := bytes.Repeat([]byte{0x66}, NonceSize)
	extra := []byte("joint output")
	blinds := [][]byte{
		bytes.Repeat([]byte{0x01}, BlindSize),
		bytes.Repeat([]byte{0x02}, BlindSize),
		bytes.Repeat([]byte{0x03}, BlindSize),
	}
	privates := [][]byte{
		bytes.Repeat([]byte{0x71}, NonceSize),
		bytes.Repeat([]byte{0x72}, NonceSize),
		bytes.Repeat([]byte{0x73}, NonceSize),
	}

	// the value is committed once; the blinds are split between parties
	blind, err := ctx.BlindSum(blinds, nil)
	require.NoError(t, err)
	commit := mustCommit(t, ctx, blind, value)

	var tOnes, tTwos [][]byte
	for _, priv := range privates {
		t1, t2, err := ctx.BulletproofRoundOne(priv)
		require.NoError(t, err)
		tOnes = append(tOnes, t1)
		tTwos = append(tTwos, t2)
	}
	tOne, err := ctx.CombinePublicKeys(tOnes)
	require.NoError(t, err)
	tTwo, err := ctx.CombinePublicKeys(tTwos)
	require.NoError(t, err)

	var shares [][]byte
	for i := range blinds {
		share, err := ctx.BulletproofRoundTwo(blinds[i], value, nonce, privates[i],
			commit, tOne, tTwo, extra, nil)
		require.NoError(t, err)
		require.Len(t, share, TauXSize)
		shares = append(shares, share)
	}
	tauX, err := ctx.BlindSum(shares, nil)
	require.NoError(t, err)

	proof, err := ctx.CreateBulletproofBlindless(tauX, tOne, tTwo, commit, value, nonce, extra, nil)
	require.NoError(t, err)
	ok, err := ctx.VerifyBulletproof(proof, commit, extra)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := ctx.RewindBulletproof(proof, commit, nonce, extra)
	require.NoError(t, err)
	assert.Equal(t, uint64(value), got.Value)

	t.Run("missing_share", func(t *testing.T) {
		partial, err := ctx.BlindSum(shares[:2], nil)
		require.NoError(t, err)
		proof, err := ctx.CreateBulletproofBlindless(partial, tOne, tTwo, commit, value, nonce, extra, nil)
		require.NoError(t, err)
		ok, err := ctx.VerifyBulletproof(proof, commit, extra)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("round_one_errors", func(t *testing.T) {
		_, _, err := ctx.BulletproofRoundOne(privates[0][:5])
		require.ErrorIs(t, err, ErrInvalidKey)
	})

	t.Run("round_two_errors", func(t *testing.T) {
		_, err := ctx.BulletproofRoundTwo(blinds[0], value, nonce, privates[0],
			commit, []byte{0x02}, tTwo, extra, nil)
		require.ErrorIs(t, err, ErrParse)
		_, err = ctx.BulletproofRoundTwo(blinds[0], value, nonce, privates[0][:1],
			commit, tOne, tTwo, extra, nil)
		require.ErrorIs(t, err, ErrInvalidKey)
	})
}

func TestFoldingScalarsInverse(t *testing.T) {
	var xs [innerProductRounds]btcec.ModNScalar
	for j := range xs {
		xs[j] = scalarFromUint64(uint64(j + 2))
	}
	s := foldingScalars(&xs)
	one := scalarFromUint64(1)
	for i := range s {
		var p btcec.ModNScalar
		p.Mul2(&s[i], &s[BulletproofBits-1-i])
		assert.True(t, p.Equals(&one), "index %d", i)
	}
}
