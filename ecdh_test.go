package zkp

import (
	"bytes"
	"crypto/sha256"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSharedSecret(t *testing.T) {
	ctx := newTestContext(t)
	a := bytes.Repeat([]byte{0x0a}, 32)
	b := bytes.Repeat([]byte{0x0b}, 32)
	pubA, err := ctx.PublicKeyFromSecretKey(a)
	require.NoError(t, err)
	pubB, err := ctx.PublicKeyFromSecretKey(b)
	require.NoError(t, err)

	ab, err := ctx.SharedSecret(a, pubB)
	require.NoError(t, err)
	ba, err := ctx.SharedSecret(b, pubA)
	require.NoError(t, err)
	assert.Equal(t, ab, ba)
	assert.Len(t, ab, SharedSecretSize)
	assert.True(t, ctx.IsValidSecretKey(ab))

	// SHA256 of the compressed point a*b*G
	privA, _ := btcec.PrivKeyFromBytes(a)
	privB, _ := btcec.PrivKeyFromBytes(b)
	var product btcec.ModNScalar
	product.Mul2(&privA.Key, &privB.Key)
	point := btcec.PrivKeyFromScalar(&product).PubKey()
	want := sha256.Sum256(point.SerializeCompressed())
	assert.Equal(t, want[:], ab)
}

func TestSharedSecretErrors(t *testing.T) {
	ctx := newTestContext(t)
	k := bytes.Repeat([]byte{0x0a}, 32)
	pub, err := ctx.PublicKeyFromSecretKey(k)
	require.NoError(t, err)

	_, err = ctx.SharedSecret(make([]byte, 32), pub)
	require.ErrorIs(t, err, ErrInvalidKey)
	_, err = ctx.SharedSecret(k, pub[:20])
	require.ErrorIs(t, err, ErrParse)
}
