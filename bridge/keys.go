package bridge

import (
	"zkp.mleku.dev"
)

// IsValidSecretKey reports whether sec is a valid secret key. Malformed hex
// is an error.
func (b *Bridge) IsValidSecretKey(sec string) (bool, error) {
	return b.runBool("IsValidSecretKey", func(ctx *zkp.Context) (bool, error) {
		k, err := decodeHex(sec, "secret key")
		if err != nil {
			return false, err
		}
		return ctx.IsValidSecretKey(k), nil
	})
}

// IsValidPublicKey reports whether pub parses as a public key in either encoding.
func (b *Bridge) IsValidPublicKey(pub string) (bool, error) {
	return b.runBool("IsValidPublicKey", func(ctx *zkp.Context) (bool, error) {
		p, err := decodeHex(pub, "public key")
		if err != nil {
			return false, err
		}
		return ctx.IsValidPublicKey(p), nil
	})
}

// CreateSecretKey returns a fresh random secret key.
func (b *Bridge) CreateSecretKey() (string, error) {
	return b.runHex("CreateSecretKey", func(ctx *zkp.Context) ([]byte, error) {
		return ctx.CreateSecretKey()
	})
}

// PublicKeyFromSecretKey returns the compressed public key for sec.
func (b *Bridge) PublicKeyFromSecretKey(sec string) (string, error) {
	return b.runHex("PublicKeyFromSecretKey", func(ctx *zkp.Context) ([]byte, error) {
		k, err := decodeHex(sec, "secret key")
		if err != nil {
			return nil, err
		}
		return ctx.PublicKeyFromSecretKey(k)
	})
}

// PublicKeyFromData normalizes a public key in either encoding to the compressed form.
func (b *Bridge) PublicKeyFromData(data string) (string, error) {
	return b.runHex("PublicKeyFromData", func(ctx *zkp.Context) ([]byte, error) {
		d, err := decodeHex(data, "public key")
		if err != nil {
			return nil, err
		}
		return ctx.PublicKeyFromData(d)
	})
}

// UncompressPublicKey returns the 65 byte encoding of pub.
func (b *Bridge) UncompressPublicKey(pub string) (string, error) {
	return b.runHex("UncompressPublicKey", func(ctx *zkp.Context) ([]byte, error) {
		p, err := decodeHex(pub, "public key")
		if err != nil {
			return nil, err
		}
		return ctx.UncompressPublicKey(p)
	})
}

// SecretKeyNegate returns the negation of sec modulo the group order.
func (b *Bridge) SecretKeyNegate(sec string) (string, error) {
	return b.runHex("SecretKeyNegate", func(ctx *zkp.Context) ([]byte, error) {
		k, err := decodeHex(sec, "secret key")
		if err != nil {
			return nil, err
		}
		return ctx.SecretKeyNegate(k)
	})
}

// tweak decodes a key and a tweak and applies op.
func (b *Bridge) tweak(name, key, keyWhat, tweak string, op func(ctx *zkp.Context, k, t []byte) ([]byte, error)) (string, error) {
	return b.runHex(name, func(ctx *zkp.Context) ([]byte, error) {
		var k, t []byte
		if err := decodeHexes(
			hexArg{&k, key, keyWhat},
			hexArg{&t, tweak, "tweak"},
		); err != nil {
			return nil, err
		}
		return op(ctx, k, t)
	})
}

// SecretKeyTweakAdd returns sec + tweak.
func (b *Bridge) SecretKeyTweakAdd(sec, tweak string) (string, error) {
	return b.tweak("SecretKeyTweakAdd", sec, "secret key", tweak, (*zkp.Context).SecretKeyTweakAdd)
}

// SecretKeyTweakMultiply returns sec * tweak.
func (b *Bridge) SecretKeyTweakMultiply(sec, tweak string) (string, error) {
	return b.tweak("SecretKeyTweakMultiply", sec, "secret key", tweak, (*zkp.Context).SecretKeyTweakMultiply)
}

// PublicKeyTweakAdd returns pub + tweak*G.
func (b *Bridge) PublicKeyTweakAdd(pub, tweak string) (string, error) {
	return b.tweak("PublicKeyTweakAdd", pub, "public key", tweak, (*zkp.Context).PublicKeyTweakAdd)
}

// PublicKeyTweakMultiply returns tweak*pub.
func (b *Bridge) PublicKeyTweakMultiply(pub, tweak string) (string, error) {
	return b.tweak("PublicKeyTweakMultiply", pub, "public key", tweak, (*zkp.Context).PublicKeyTweakMultiply)
}

// CombinePublicKeys returns the sum of pubs.
func (b *Bridge) CombinePublicKeys(pubs []string) (string, error) {
	return b.runHex("CombinePublicKeys", func(ctx *zkp.Context) ([]byte, error) {
		keys, err := decodeList(pubs, "public keys")
		if err != nil {
			return nil, err
		}
		return ctx.CombinePublicKeys(keys)
	})
}

// SharedSecret returns the ECDH secret of sec and pub.
func (b *Bridge) SharedSecret(sec, pub string) (string, error) {
	return b.runHex("SharedSecret", func(ctx *zkp.Context) ([]byte, error) {
		var k, p []byte
		if err := decodeHexes(
			hexArg{&k, sec, "secret key"},
			hexArg{&p, pub, "public key"},
		); err != nil {
			return nil, err
		}
		return ctx.SharedSecret(k, p)
	})
}
