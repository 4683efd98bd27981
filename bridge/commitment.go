package bridge

import (
	"zkp.mleku.dev"
)

// IsValidCommitment reports whether commit decodes to a curve point.
func (b *Bridge) IsValidCommitment(commit string) (bool, error) {
	return b.runBool("IsValidCommitment", func(ctx *zkp.Context) (bool, error) {
		c, err := decodeHex(commit, "commitment")
		if err != nil {
			return false, err
		}
		return ctx.IsValidCommitment(c), nil
	})
}

// PedersenCommit commits to value, a decimal string, under blind.
func (b *Bridge) PedersenCommit(blind, value string) (string, error) {
	return b.runHex("PedersenCommit", func(ctx *zkp.Context) ([]byte, error) {
		bl, err := decodeHex(blind, "blind")
		if err != nil {
			return nil, err
		}
		v, err := parseValue(value)
		if err != nil {
			return nil, err
		}
		return ctx.PedersenCommit(bl, v)
	})
}

// sums decodes a positive and a negative list and applies op.
func (b *Bridge) sums(name string, positive, negative []string, what string,
	op func(ctx *zkp.Context, pos, neg [][]byte) ([]byte, error)) (string, error) {

	return b.runHex(name, func(ctx *zkp.Context) ([]byte, error) {
		pos, err := decodeList(positive, "positive "+what)
		if err != nil {
			return nil, err
		}
		neg, err := decodeList(negative, "negative "+what)
		if err != nil {
			return nil, err
		}
		return op(ctx, pos, neg)
	})
}

// BlindSum returns the sum of the positive blinds minus the negative ones.
func (b *Bridge) BlindSum(positive, negative []string) (string, error) {
	return b.sums("BlindSum", positive, negative, "blinds", (*zkp.Context).BlindSum)
}

// PedersenCommitSum returns the sum of the positive commitments minus the negative ones.
func (b *Bridge) PedersenCommitSum(positive, negative []string) (string, error) {
	return b.sums("PedersenCommitSum", positive, negative, "commitments", (*zkp.Context).PedersenCommitSum)
}

// VerifyCommitSum reports whether the positive and negative commitments balance.
func (b *Bridge) VerifyCommitSum(positive, negative []string) (bool, error) {
	return b.runBool("VerifyCommitSum", func(ctx *zkp.Context) (bool, error) {
		pos, err := decodeList(positive, "positive commitments")
		if err != nil {
			return false, err
		}
		neg, err := decodeList(negative, "negative commitments")
		if err != nil {
			return false, err
		}
		return ctx.VerifyCommitSum(pos, neg), nil
	})
}

// BlindSwitch returns the switch-commitment blind for blind and value.
func (b *Bridge) BlindSwitch(blind, value string) (string, error) {
	return b.runHex("BlindSwitch", func(ctx *zkp.Context) ([]byte, error) {
		bl, err := decodeHex(blind, "blind")
		if err != nil {
			return nil, err
		}
		v, err := parseValue(value)
		if err != nil {
			return nil, err
		}
		return ctx.BlindSwitch(bl, v)
	})
}

// CommitmentToPublicKey re-encodes a commitment as a public key.
func (b *Bridge) CommitmentToPublicKey(commit string) (string, error) {
	return b.runHex("CommitmentToPublicKey", func(ctx *zkp.Context) ([]byte, error) {
		c, err := decodeHex(commit, "commitment")
		if err != nil {
			return nil, err
		}
		return ctx.CommitmentToPublicKey(c)
	})
}

// PublicKeyToCommitment re-encodes a public key as a commitment.
func (b *Bridge) PublicKeyToCommitment(pub string) (string, error) {
	return b.runHex("PublicKeyToCommitment", func(ctx *zkp.Context) ([]byte, error) {
		p, err := decodeHex(pub, "public key")
		if err != nil {
			return nil, err
		}
		return ctx.PublicKeyToCommitment(p)
	})
}
