package bridge

import (
	"encoding/hex"

	"zkp.mleku.dev"
)

// Rewound is the plaintext recovered by RewindBulletproof.
type Rewound struct {
	Value   uint64 `json:"value,string"`
	Blind   string `json:"blind"`
	Message string `json:"message"`
}

// CreateBulletproof proves value is in range for the commitment under blind.
// privateNonce, extraCommit and message may be empty.
func (b *Bridge) CreateBulletproof(blind, value, nonce, privateNonce, extraCommit, message string) (string, error) {
	return b.runHex("CreateBulletproof", func(ctx *zkp.Context) ([]byte, error) {
		var bl, n, pn, extra, msg []byte
		if err := decodeHexes(
			hexArg{&bl, blind, "blind"},
			hexArg{&n, nonce, "nonce"},
			hexArg{&pn, privateNonce, "private nonce"},
			hexArg{&extra, extraCommit, "extra commit"},
			hexArg{&msg, message, "message"},
		); err != nil {
			return nil, err
		}
		v, err := parseValue(value)
		if err != nil {
			return nil, err
		}
		return ctx.CreateBulletproof(bl, v, n, pn, extra, msg)
	})
}

// BulletproofRoundOne returns this party's tOne and tTwo.
func (b *Bridge) BulletproofRoundOne(privateNonce string) (tOne, tTwo string, err error) {
	err = b.run("BulletproofRoundOne", func(ctx *zkp.Context) error {
		pn, err := decodeHex(privateNonce, "private nonce")
		if err != nil {
			return err
		}
		t1, t2, err := ctx.BulletproofRoundOne(pn)
		if err != nil {
			return err
		}
		tOne, tTwo = hex.EncodeToString(t1), hex.EncodeToString(t2)
		return nil
	})
	return tOne, tTwo, err
}

// BulletproofRoundTwo returns this party's tauX share.
func (b *Bridge) BulletproofRoundTwo(blind, value, nonce, privateNonce, commit, tOne, tTwo,
	extraCommit, message string) (string, error) {

	return b.runHex("BulletproofRoundTwo", func(ctx *zkp.Context) ([]byte, error) {
		var bl, n, pn, c, t1, t2, extra, msg []byte
		if err := decodeHexes(
			hexArg{&bl, blind, "blind"},
			hexArg{&n, nonce, "nonce"},
			hexArg{&pn, privateNonce, "private nonce"},
			hexArg{&c, commit, "commitment"},
			hexArg{&t1, tOne, "t one"},
			hexArg{&t2, tTwo, "t two"},
			hexArg{&extra, extraCommit, "extra commit"},
			hexArg{&msg, message, "message"},
		); err != nil {
			return nil, err
		}
		v, err := parseValue(value)
		if err != nil {
			return nil, err
		}
		return ctx.BulletproofRoundTwo(bl, v, n, pn, c, t1, t2, extra, msg)
	})
}

// CreateBulletproofBlindless finishes a joint proof from the summed tauX.
func (b *Bridge) CreateBulletproofBlindless(tauX, tOne, tTwo, commit, value, nonce,
	extraCommit, message string) (string, error) {

	return b.runHex("CreateBulletproofBlindless", func(ctx *zkp.Context) ([]byte, error) {
		var tx, t1, t2, c, n, extra, msg []byte
		if err := decodeHexes(
			hexArg{&tx, tauX, "tau x"},
			hexArg{&t1, tOne, "t one"},
			hexArg{&t2, tTwo, "t two"},
			hexArg{&c, commit, "commitment"},
			hexArg{&n, nonce, "nonce"},
			hexArg{&extra, extraCommit, "extra commit"},
			hexArg{&msg, message, "message"},
		); err != nil {
			return nil, err
		}
		v, err := parseValue(value)
		if err != nil {
			return nil, err
		}
		return ctx.CreateBulletproofBlindless(tx, t1, t2, c, v, n, extra, msg)
	})
}

// VerifyBulletproof checks a range proof against commit and extraCommit.
func (b *Bridge) VerifyBulletproof(proof, commit, extraCommit string) (bool, error) {
	return b.runBool("VerifyBulletproof", func(ctx *zkp.Context) (bool, error) {
		var p, c, extra []byte
		if err := decodeHexes(
			hexArg{&p, proof, "proof"},
			hexArg{&c, commit, "commitment"},
			hexArg{&extra, extraCommit, "extra commit"},
		); err != nil {
			return false, err
		}
		return ctx.VerifyBulletproof(p, c, extra)
	})
}

// RewindBulletproof recovers the value, blind and message of a proof made
// with nonce.
func (b *Bridge) RewindBulletproof(proof, commit, nonce, extraCommit string) (*Rewound, error) {
	var out *Rewound
	err := b.run("RewindBulletproof", func(ctx *zkp.Context) error {
		var p, c, n, extra []byte
		if err := decodeHexes(
			hexArg{&p, proof, "proof"},
			hexArg{&c, commit, "commitment"},
			hexArg{&n, nonce, "nonce"},
			hexArg{&extra, extraCommit, "extra commit"},
		); err != nil {
			return err
		}
		r, err := ctx.RewindBulletproof(p, c, n, extra)
		if err != nil {
			return err
		}
		out = &Rewound{
			Value:   r.Value,
			Blind:   hex.EncodeToString(r.Blind),
			Message: hex.EncodeToString(r.Message),
		}
		return nil
	})
	return out, err
}
