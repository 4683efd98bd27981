package zkp

import (
	"encoding/binary"
	"hash"

	"github.com/btcsuite/btcd/btcec/v2"
	sha256simd "github.com/minio/sha256-simd"
	"golang.org/x/crypto/chacha20"
)

// SHA256 represents a SHA-256 hash context
type SHA256 struct {
	hasher hash.Hash
}

// NewSHA256 creates a new SHA-256 hash context
func NewSHA256() *SHA256 {
	return &SHA256{hasher: sha256simd.New()}
}

// Write writes data to the hash
func (h *SHA256) Write(data []byte) {
	h.hasher.Write(data)
}

// Finalize finalizes the hash and writes the result to out32 (must be 32 bytes)
func (h *SHA256) Finalize(out32 []byte) {
	if len(out32) != 32 {
		panic("output buffer must be 32 bytes")
	}
	copy(out32, h.hasher.Sum(nil))
}

// Clear drops the hash state
func (h *SHA256) Clear() {
	h.hasher.Reset()
}

// sha256Sum hashes the concatenation of parts.
func sha256Sum(parts ...[]byte) (out [32]byte) {
	h := NewSHA256()
	for _, p := range parts {
		h.Write(p)
	}
	h.Finalize(out[:])
	h.Clear()
	return out
}

// HMACSHA256 represents an HMAC-SHA256 context
type HMACSHA256 struct {
	inner, outer SHA256
}

// NewHMACSHA256 creates a new HMAC-SHA256 context with the given key
func NewHMACSHA256(key []byte) *HMACSHA256 {
	h := &HMACSHA256{}

	// Keys longer than the block are hashed first
	var rkey [64]byte
	if len(key) <= 64 {
		copy(rkey[:], key)
	} else {
		sum := sha256Sum(key)
		copy(rkey[:32], sum[:])
	}

	h.outer = SHA256{hasher: sha256simd.New()}
	for i := range rkey {
		rkey[i] ^= 0x5c
	}
	h.outer.hasher.Write(rkey[:])

	h.inner = SHA256{hasher: sha256simd.New()}
	for i := range rkey {
		rkey[i] ^= 0x5c ^ 0x36
	}
	h.inner.hasher.Write(rkey[:])

	clear(rkey[:])
	return h
}

// Write writes data to the inner hash
func (h *HMACSHA256) Write(data []byte) {
	h.inner.Write(data)
}

// Finalize finalizes the HMAC and writes the result to out32 (must be 32 bytes)
func (h *HMACSHA256) Finalize(out32 []byte) {
	if len(out32) != 32 {
		panic("output buffer must be 32 bytes")
	}
	var temp [32]byte
	h.inner.Finalize(temp[:])
	h.outer.Write(temp[:])
	h.outer.Finalize(out32)
	clear(temp[:])
}

// Clear clears the HMAC context
func (h *HMACSHA256) Clear() {
	h.inner.Clear()
	h.outer.Clear()
}

// RFC6979HMACSHA256 implements the RFC 6979 HMAC-DRBG. Secret nonces are
// drawn from it.
type RFC6979HMACSHA256 struct {
	v     [32]byte
	k     [32]byte
	retry bool
}

// NewRFC6979HMACSHA256 initializes a new RFC6979 HMAC-SHA256 context
func NewRFC6979HMACSHA256(key []byte) *RFC6979HMACSHA256 {
	rng := &RFC6979HMACSHA256{}

	// RFC6979 3.2.b: V = 0x01 0x01 ... 0x01
	for i := range rng.v {
		rng.v[i] = 0x01
	}

	// RFC6979 3.2.d: K = HMAC_K(V || 0x00 || key), V = HMAC_K(V)
	rng.update(0x00, key)

	// RFC6979 3.2.f: K = HMAC_K(V || 0x01 || key), V = HMAC_K(V)
	rng.update(0x01, key)
	return rng
}

func (rng *RFC6979HMACSHA256) update(sep byte, key []byte) {
	hmac := NewHMACSHA256(rng.k[:])
	hmac.Write(rng.v[:])
	hmac.Write([]byte{sep})
	hmac.Write(key)
	hmac.Finalize(rng.k[:])
	hmac.Clear()

	hmac = NewHMACSHA256(rng.k[:])
	hmac.Write(rng.v[:])
	hmac.Finalize(rng.v[:])
	hmac.Clear()
}

// Generate fills out with the next DRBG output
func (rng *RFC6979HMACSHA256) Generate(out []byte) {
	// RFC6979 3.2.h: on retry, K = HMAC_K(V || 0x00), V = HMAC_K(V)
	if rng.retry {
		rng.update(0x00, nil)
	}

	for len(out) > 0 {
		hmac := NewHMACSHA256(rng.k[:])
		hmac.Write(rng.v[:])
		hmac.Finalize(rng.v[:])
		hmac.Clear()

		n := copy(out, rng.v[:])
		out = out[n:]
	}
	rng.retry = true
}

// Clear clears the RFC6979 context
func (rng *RFC6979HMACSHA256) Clear() {
	clear(rng.v[:])
	clear(rng.k[:])
	rng.retry = false
}

// hashToScalar reduces a 32-byte digest modulo the group order.
func hashToScalar(h [32]byte) btcec.ModNScalar {
	var s btcec.ModNScalar
	s.SetBytes(&h)
	return s
}

// scalarStream derives a sequence of non-zero scalars from a 32-byte key with
// ChaCha20. Each stream index selects an independent keystream.
type scalarStream struct {
	c *chacha20.Cipher
}

func newScalarStream(key []byte, index uint32) *scalarStream {
	var nonce [chacha20.NonceSize]byte
	binary.BigEndian.PutUint32(nonce[8:], index)
	c, err := chacha20.NewUnauthenticatedCipher(key, nonce[:])
	if err != nil {
		// key length is checked by every caller
		panic(err)
	}
	return &scalarStream{c: c}
}

func (s *scalarStream) next() btcec.ModNScalar {
	var buf [32]byte
	for {
		clear(buf[:])
		s.c.XORKeyStream(buf[:], buf[:])
		var k btcec.ModNScalar
		if overflow := k.SetBytes(&buf); overflow == 0 && !k.IsZero() {
			clear(buf[:])
			return k
		}
	}
}
