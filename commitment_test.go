package zkp

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratorsOnCurve(t *testing.T) {
	h :=serializeCompressed(&generatorH)
	j := serializeCompressed(&generatorJ)
	assert.Equal(t, byte(0x02), h[0])
	assert.Equal(t, byte(0x02), j[0])
	assert.NotEqual(t, h, j)

	// H is the even lift of SHA256 of the uncompressed base point.
	one := scalarFromUint64(1)
	g := mulBase(&one)
	digest := sha256Sum(serializeUncompressed(&g))
	assert.Equal(t, digest[:], h[1:])
	digest = sha256Sum(digest[:])
	assert.Equal(t, digest[:], j[1:])
}

func TestPedersenCommit(t *testing.T) {
	ctx := newTestContext(t)
	blind := bytes.Repeat([]byte{0x03}, BlindSize)

	c, err := ctx.PedersenCommit(blind, 5)
	require.NoError(t, err)
	require.Len(t, c, CommitmentSize)
	assert.Contains(t, []byte{0x08, 0x09}, c[0])
	assert.True(t, ctx.IsValidCommitment(c))

	again, err := ctx.PedersenCommit(blind, 5)
	require.NoError(t, err)
	assert.Equal(t, c, again)

	other, err := ctx.PedersenCommit(bytes.Repeat([]byte{0x04}, BlindSize), 5)
	require.NoError(t, err)
	assert.NotEqual(t, c, other)

	zero, err := ctx.PedersenCommit(make([]byte, BlindSize), 0)
	require.NoError(t, err)
	assert.Equal(t, identityCommitment[:], zero)

	_, err = ctx.PedersenCommit(orderBytes, 1)
	require.ErrorIs(t, err, ErrInvalidKey)
	_, err = ctx.PedersenCommit(blind[:31], 1)
	require.ErrorIs(t, err, ErrParse)
}

func TestCommitmentValueOnly(t *testing.T) {
	ctx := newTestContext(t)
	c, err := ctx.PedersenCommit(make([]byte, BlindSize), 1)
	require.NoError(t, err)
	h := serializeCompressed(&generatorH)
	assert.Equal(t, h[1:], c[1:])
}

func TestPedersenCommitSumIdentity(t *testing.T) {
	ctx := newTestContext(t)
	b := bytes.Repeat([]byte{0x11}, BlindSize)
	c, err := ctx.PedersenCommit(b, 5)
	require.NoError(t, err)

	sum, err := ctx.PedersenCommitSum([][]byte{c}, [][]byte{c})
	require.NoError(t, err)
	assert.Equal(t, identityCommitment[:], sum)
	assert.True(t, ctx.VerifyCommitSum([][]byte{c}, [][]byte{c}))
}

func TestCommitmentHomomorphism(t *testing.T) {
	ctx := newTestContext(t)
	testCases := []struct {
		name    string
		posVals []uint64
		negVals []uint64
	}{
		{name: "two_in_one_out", posVals: []uint64{3, 4}, negVals: []uint64{2}},
		{name: "one_in_two_out", posVals: []uint64{100}, negVals: []uint64{60, 30}},
		{name: "positive_only", posVals: []uint64{1, 2, 3}},
		{name: "large_values", posVals: []uint64{1 << 62, 1 << 61}, negVals: []uint64{1 << 60}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var posBlinds, negBlinds, posCommits, negCommits [][]byte
			var total uint64
			for i, v := range tc.posVals {
				b := bytes.Repeat([]byte{byte(0x20 + i)}, BlindSize)
				c, err := ctx.PedersenCommit(b, v)
				require.NoError(t, err)
				posBlinds = append(posBlinds, b)
				posCommits = append(posCommits, c)
				total += v
			}
			for i, v := range tc.negVals {
				b := bytes.Repeat([]byte{byte(0x40 + i)}, BlindSize)
				c, err := ctx.PedersenCommit(b, v)
				require.NoError(t, err)
				negBlinds = append(negBlinds, b)
				negCommits = append(negCommits, c)
				total -= v
			}

			blind, err := ctx.BlindSum(posBlinds, negBlinds)
			require.NoError(t, err)
			want, err := ctx.PedersenCommit(blind, total)
			require.NoError(t, err)
			got, err := ctx.PedersenCommitSum(posCommits, negCommits)
			require.NoError(t, err)
			assert.Equal(t, want, got)

			assert.True(t, ctx.VerifyCommitSum(append(negCommits, want), posCommits))
		})
	}
}

func TestCommitSumErrors(t *testing.T) {
	ctx := newTestContext(t)

	_, err := ctx.BlindSum(nil, nil)
	require.ErrorIs(t, err, ErrEmptyInput)
	_, err = ctx.PedersenCommitSum(nil, nil)
	require.ErrorIs(t, err, ErrEmptyInput)
	assert.False(t, ctx.VerifyCommitSum(nil, nil))

	_, err = ctx.BlindSum([][]byte{make([]byte, 32)}, [][]byte{{0x01}})
	require.ErrorIs(t, err, ErrParse)
	assert.Contains(t, err.Error(), "negative blinds element 0")

	bad := make([]byte, CommitmentSize)
	bad[0] = 0x02
	_, err = ctx.PedersenCommitSum([][]byte{bad}, nil)
	require.ErrorIs(t, err, ErrParse)
	assert.Contains(t, err.Error(), "positive commitments element 0")
	assert.False(t, ctx.IsValidCommitment(bad))
}

func TestBlindSwitch(t *testing.T) {
	ctx := newTestContext(t)
	blind := bytes.Repeat([]byte{0x05}, BlindSize)

	a, err := ctx.BlindSwitch(blind, 10)
	require.NoError(t, err)
	assert.True(t, ctx.IsValidSecretKey(a))
	assert.NotEqual(t, blind, a)

	b, err := ctx.BlindSwitch(blind, 10)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := ctx.BlindSwitch(blind, 11)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)

	_, err = ctx.BlindSwitch(make([]byte, BlindSize), 10)
	require.ErrorIs(t, err, ErrInvalidKey)
}

func TestCommitmentPublicKeyConversion(t *testing.T) {
	ctx := newTestContext(t)

	for i := byte(1); i <= 8; i++ {
		c, err := ctx.PedersenCommit(bytes.Repeat([]byte{i}, BlindSize), uint64(i))
		require.NoError(t, err)

		pub, err := ctx.CommitmentToPublicKey(c)
		require.NoError(t, err)
		assert.True(t, ctx.IsValidPublicKey(pub))
		assert.Equal(t, c[1:], pub[1:])

		back, err := ctx.PublicKeyToCommitment(pub)
		require.NoError(t, err)
		assert.Equal(t, c, back)
	}

	// a zero-value commitment is blind*G
	blind := bytes.Repeat([]byte{0x09}, BlindSize)
	c, err := ctx.PedersenCommit(blind, 0)
	require.NoError(t, err)
	pub, err := ctx.CommitmentToPublicKey(c)
	require.NoError(t, err)
	want, err := ctx.PublicKeyFromSecretKey(blind)
	require.NoError(t, err)
	assert.Equal(t, want, pub)

	_, err = ctx.CommitmentToPublicKey(identityCommitment[:])
	require.ErrorIs(t, err, ErrParse)
	_, err = ctx.PublicKeyToCommitment([]byte{0x02})
	require.ErrorIs(t, err, ErrParse)
}
