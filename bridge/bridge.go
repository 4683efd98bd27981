// Package bridge exposes the protocol operations over hex strings. Every byte
// value crosses as lowercase hex, values as decimal strings, and every failure
// as an *Error.
package bridge

import (
	"encoding/hex"
	"strconv"

	"go.uber.org/zap"

	"zkp.mleku.dev"
)

// Bridge runs operations against a lazily created context.
type Bridge struct {
	lazy *zkp.LazyContext
}

// New returns a Bridge over lc. A nil lc uses the process-wide context.
func New(lc *zkp.LazyContext) *Bridge {
	return &Bridge{lazy: lc}
}

func (b *Bridge) context() (*zkp.Context, error) {
	var (
		ctx *zkp.Context
		err error
	)
	if b.lazy == nil {
		ctx, err = zkp.Default()
	} else {
		ctx, err = b.lazy.Get()
	}
	return ctx, toError(err)
}

// run gets the context and converts any error fn returns.
func (b *Bridge) run(op string, fn func(ctx *zkp.Context) error) error {
	ctx, err := b.context()
	if err != nil {
		return err
	}
	if err = fn(ctx); err != nil {
		err = toError(err)
		ctx.Logger().Debug("operation failed", zap.String("op", op), zap.Error(err))
	}
	return err
}

// runHex is run for operations returning bytes.
func (b *Bridge) runHex(op string, fn func(ctx *zkp.Context) ([]byte, error)) (string, error) {
	var out []byte
	err := b.run(op, func(ctx *zkp.Context) error {
		var err error
		out, err = fn(ctx)
		return err
	})
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(out), nil
}

// runBool is run for predicates.
func (b *Bridge) runBool(op string, fn func(ctx *zkp.Context) (bool, error)) (bool, error) {
	var ok bool
	err := b.run(op, func(ctx *zkp.Context) error {
		var err error
		ok, err = fn(ctx)
		return err
	})
	return ok, err
}

// decodeHex decodes s. An empty string decodes to nil.
func decodeHex(s, what string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, parseError("%s is not a hex string: %v", what, err)
	}
	return b, nil
}

// decodeHexes decodes each argument into the matching destination, stopping
// at the first failure.
func decodeHexes(args ...hexArg) error {
	for _, a := range args {
		b, err := decodeHex(a.s, a.what)
		if err != nil {
			return err
		}
		*a.dst = b
	}
	return nil
}

type hexArg struct {
	dst  *[]byte
	s    string
	what string
}

// decodeList decodes every element of list before any of them is used.
func decodeList(list []string, what string) ([][]byte, error) {
	out := make([][]byte, len(list))
	for i, s := range list {
		if s == "" {
			return nil, parseError("%s element %d: empty string", what, i)
		}
		b, err := hex.DecodeString(s)
		if err != nil {
			return nil, parseError("%s element %d: not a hex string: %v", what, i, err)
		}
		out[i] = b
	}
	return out, nil
}

// parseValue decodes a decimal value that must fit in 64 bits.
func parseValue(s string) (uint64, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return 0, &Error{Tag: TagInvalidInput, Message: "value exceeds 64 bits"}
		}
		return 0, parseError("value is not a decimal integer: %q", s)
	}
	return v, nil
}
