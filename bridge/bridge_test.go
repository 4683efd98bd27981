package bridge

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zkp.mleku.dev"
)

func newTestBridge(t *testing.T) *Bridge {
	t.Helper()
	return New(zkp.NewLazyContext(zkp.WithSeed(bytes.Repeat([]byte{0x01}, zkp.SeedSize))))
}

func hexRepeat(b byte, n int) string {
	return hex.EncodeToString(bytes.Repeat([]byte{b}, n))
}

func requireTag(t *testing.T, err error, tag Tag) {
	t.Helper()
	require.Error(t, err)
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, tag, e.Tag, e.Message)
}

func TestKeys(t *testing.T) {
	b := newTestBridge(t)

	pub, err := b.PublicKeyFromSecretKey(hexRepeat(0x01, 32))
	require.NoError(t, err)
	assert.Len(t, pub, 66)
	assert.Equal(t, strings.ToLower(pub), pub)

	ok, err := b.IsValidPublicKey(pub)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = b.IsValidSecretKey(hexRepeat(0x00, 32))
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = b.IsValidSecretKey("zz")
	requireTag(t, err, TagParse)
	_, err = b.PublicKeyFromSecretKey(hexRepeat(0x00, 32))
	requireTag(t, err, TagInvalidKey)
	_, err = b.SecretKeyTweakAdd(hexRepeat(0x01, 32), hexRepeat(0xff, 32))
	requireTag(t, err, TagTweakOutOfRange)
	_, err = b.CombinePublicKeys(nil)
	requireTag(t, err, TagEmptyInput)

	combined, err := b.CombinePublicKeys([]string{pub, pub})
	require.NoError(t, err)
	doubled, err := b.PublicKeyTweakMultiply(pub, hex.EncodeToString(append(make([]byte, 31), 2)))
	require.NoError(t, err)
	assert.Equal(t, doubled, combined)
}

func TestListElementErrors(t *testing.T) {
	b := newTestBridge(t)
	good := hexRepeat(0x01, 32)

	testCases := []struct {
		name string
		call func() error
		want string
	}{
		{
			name: "blind_sum_negative",
			call: func() error {
				_, err := b.BlindSum([]string{good}, []string{good, "not hex"})
				return err
			},
			want: "negative blinds element 1",
		},
		{
			name: "commit_sum_empty_element",
			call: func() error {
				_, err := b.PedersenCommitSum([]string{""}, nil)
				return err
			},
			want: "positive commitments element 0",
		},
		{
			name: "combine_odd_length",
			call: func() error {
				_, err := b.CombinePublicKeys([]string{"abc"})
				return err
			},
			want: "public keys element 0",
		},
		{
			name: "add_signatures",
			call: func() error {
				_, err := b.AddSingleSignerSignatures([]string{hexRepeat(0x01, 64), "0x"}, hexRepeat(0x02, 33))
				return err
			},
			want: "signatures element 1",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.call()
			requireTag(t, err, TagParse)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestValues(t *testing.T) {
	b := newTestBridge(t)
	blind := hexRepeat(0x03, 32)

	_, err := b.PedersenCommit(blind, "18446744073709551616")
	requireTag(t, err, TagInvalidInput)
	_, err = b.PedersenCommit(blind, "-1")
	requireTag(t, err, TagParse)
	_, err = b.PedersenCommit(blind, "five")
	requireTag(t, err, TagParse)

	c, err := b.PedersenCommit(blind, "18446744073709551615")
	require.NoError(t, err)
	ok, err := b.IsValidCommitment(c)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCommitSumIdentity(t *testing.T) {
	b := newTestBridge(t)
	c, err := b.PedersenCommit(hexRepeat(0x07, 32), "5")
	require.NoError(t, err)

	sum, err := b.PedersenCommitSum([]string{c}, []string{c})
	require.NoError(t, err)
	assert.Equal(t, hexRepeat(0x00, zkp.CommitmentSize), sum)

	ok, err := b.VerifyCommitSum([]string{c}, []string{c})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBulletproofRoundTrip(t *testing.T) {
	b := newTestBridge(t)
	blind := hexRepeat(0x05, 32)
	nonce := hexRepeat(0x06, 32)
	extra := hex.EncodeToString([]byte("extra"))
	message := hex.EncodeToString([]byte("hello"))

	commit, err := b.PedersenCommit(blind, "31337")
	require.NoError(t, err)
	proof, err := b.CreateBulletproof(blind, "31337", nonce, "", extra, message)
	require.NoError(t, err)

	ok, err := b.VerifyBulletproof(proof, commit, extra)
	require.NoError(t, err)
	assert.True(t, ok)

	r, err := b.RewindBulletproof(proof, commit, nonce, extra)
	require.NoError(t, err)
	assert.Equal(t, uint64(31337), r.Value)
	assert.Equal(t, blind, r.Blind)
	assert.True(t, strings.HasPrefix(r.Message, message))

	_, err = b.RewindBulletproof(proof, commit, hexRepeat(0x07, 32), extra)
	requireTag(t, err, TagRewindFailed)
	_, err = b.VerifyBulletproof(proof[:10], commit, extra)
	requireTag(t, err, TagParse)
}

func TestMultiPartyBulletproof(t *testing.T) {
	b := newTestBridge(t)
	nonce := hexRepeat(0x08, 32)
	blinds := []string{hexRepeat(0x11, 32), hexRepeat(0x12, 32)}
	privates := []string{hexRepeat(0x21, 32), hexRepeat(0x22, 32)}

	blind, err := b.BlindSum(blinds, nil)
	require.NoError(t, err)
	commit, err := b.PedersenCommit(blind, "99")
	require.NoError(t, err)

	var ones, twos []string
	for _, p := range privates {
		t1, t2, err := b.BulletproofRoundOne(p)
		require.NoError(t, err)
		ones, twos = append(ones, t1), append(twos, t2)
	}
	tOne, err := b.CombinePublicKeys(ones)
	require.NoError(t, err)
	tTwo, err := b.CombinePublicKeys(twos)
	require.NoError(t, err)

	var shares []string
	for i := range blinds {
		s, err := b.BulletproofRoundTwo(blinds[i], "99", nonce, privates[i], commit, tOne, tTwo, "", "")
		require.NoError(t, err)
		shares = append(shares, s)
	}
	tauX, err := b.BlindSum(shares, nil)
	require.NoError(t, err)

	proof, err := b.CreateBulletproofBlindless(tauX, tOne, tTwo, commit, "99", nonce, "", "")
	require.NoError(t, err)
	ok, err := b.VerifyBulletproof(proof, commit, "")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAggregatedSignature(t *testing.T) {
	b := newTestBridge(t)
	msg := hexRepeat(0x99, 32)
	secs := []string{hexRepeat(0x31, 32), hexRepeat(0x32, 32)}

	var pubs, pubNonces []string
	var nonces []*Nonce
	for _, sec := range secs {
		pub, err := b.PublicKeyFromSecretKey(sec)
		require.NoError(t, err)
		n, err := b.CreateSecretNonce()
		require.NoError(t, err)
		pubs = append(pubs, pub)
		nonces = append(nonces, n)
		pubNonces = append(pubNonces, n.PublicNonce)
	}
	keyTotal, err := b.CombinePublicKeys(pubs)
	require.NoError(t, err)
	nonceTotal, err := b.CombinePublicKeys(pubNonces)
	require.NoError(t, err)

	var partials []string
	for i, sec := range secs {
		sig, err := b.CreateSingleSignerSignature(msg, sec, nonces[i].SecretNonce, keyTotal, nonceTotal, nonceTotal)
		require.NoError(t, err)
		ok, err := b.VerifySingleSignerSignature(sig, msg, nonceTotal, pubs[i], keyTotal, true)
		require.NoError(t, err)
		assert.True(t, ok)
		partials = append(partials, sig)
	}

	sig, err := b.AddSingleSignerSignatures(partials, nonceTotal)
	require.NoError(t, err)
	ok, err := b.VerifySingleSignerSignature(sig, msg, "", keyTotal, keyTotal, false)
	require.NoError(t, err)
	assert.True(t, ok)

	compact, err := b.CompactSignature(sig)
	require.NoError(t, err)
	back, err := b.UncompactSignature(compact)
	require.NoError(t, err)
	assert.Equal(t, sig, back)

	_, err = b.AddSingleSignerSignatures(partials[:1], nonceTotal)
	requireTag(t, err, TagMismatch)
	_, err = b.SignatureFromData(sig[:20])
	requireTag(t, err, TagParse)
}

func TestNonceReuse(t *testing.T) {
	b := newTestBridge(t)
	sec := hexRepeat(0x41, 32)
	n, err := b.CreateSecretNonce()
	require.NoError(t, err)

	_, err = b.CreateSingleSignerSignature(hexRepeat(0x01, 32), sec, n.SecretNonce, "", "", "")
	require.NoError(t, err)
	_, err = b.CreateSingleSignerSignature(hexRepeat(0x02, 32), sec, n.SecretNonce, "", "", "")
	requireTag(t, err, TagNonceReused)
}

func TestNonceReuseAcrossBridges(t *testing.T) {
	first, second := newTestBridge(t), newTestBridge(t)
	sec := hexRepeat(0x42, 32)
	n, err := first.CreateSecretNonce()
	require.NoError(t, err)

	_, err = first.CreateSingleSignerSignature(hexRepeat(0x01, 32), sec, n.SecretNonce, "", "", "")
	require.NoError(t, err)
	_, err = second.CreateSingleSignerSignature(hexRepeat(0x02, 32), sec, n.SecretNonce, "", "", "")
	requireTag(t, err, TagNonceReused)
	_, err = New(nil).CreateSingleSignerSignature(hexRepeat(0x03, 32), sec, n.SecretNonce, "", "", "")
	requireTag(t, err, TagNonceReused)
}

func TestNonceReleasedOnFailure(t *testing.T) {
	b := newTestBridge(t)
	sec := hexRepeat(0x41, 32)
	n, err := b.CreateSecretNonce()
	require.NoError(t, err)

	// a short message fails before the nonce signs
	_, err = b.CreateSingleSignerSignature(hexRepeat(0x01, 31), sec, n.SecretNonce, "", "", "")
	requireTag(t, err, TagInvalidInput)
	_, err = b.CreateSingleSignerSignature(hexRepeat(0x01, 32), sec, n.SecretNonce, "", "", "")
	require.NoError(t, err)
}

func TestConcurrentNonceUse(t *testing.T) {
	b := newTestBridge(t)
	sec := hexRepeat(0x41, 32)
	n, err := b.CreateSecretNonce()
	require.NoError(t, err)

	const workers = 8
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = b.CreateSingleSignerSignature(hexRepeat(byte(i), 32), sec, n.SecretNonce, "", "", "")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		requireTag(t, err, TagNonceReused)
	}
	assert.Equal(t, 1, succeeded)
}

func TestMessageHashSignature(t *testing.T) {
	b := newTestBridge(t)
	sec := hexRepeat(0x51, 32)
	pub, err := b.PublicKeyFromSecretKey(sec)
	require.NoError(t, err)
	h := sha256.Sum256([]byte("hash me"))
	hash := hex.EncodeToString(h[:])

	sig, err := b.CreateMessageHashSignature(hash, sec)
	require.NoError(t, err)
	ok, err := b.VerifyMessageHashSignature(sig, hash, pub)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = b.VerifyMessageHashSignature("30", hash, pub)
	requireTag(t, err, TagParse)
}

func TestInitializationError(t *testing.T) {
	b := New(zkp.NewLazyContext(zkp.WithRandom(bytes.NewReader(nil))))
	_, err := b.CreateSecretKey()
	requireTag(t, err, TagInitialization)
}

func TestUnknownErrorsAreInvalidInput(t *testing.T) {
	err := toError(assert.AnError)
	requireTag(t, err, TagInvalidInput)
	assert.Nil(t, toError(nil))

	e := &Error{Tag: TagMismatch, Message: "x"}
	assert.Same(t, e, toError(e))
}
