package zkp

import (
	"crypto/rand"
	"io"
	"sync"
	"sync/atomic"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// SeedSize is the length of the context seed in bytes.
const SeedSize = 32

var contextSeedTag = []byte("zkp.mleku.dev/context")

// Context holds the randomized seed used to blind secret scalar
// multiplications. It is immutable after construction and safe for concurrent
// use; only the random source is guarded.
type Context struct {
	seed   [SeedSize]byte
	static blinder
	rand   *lockedReader
	log    *zap.Logger
}

// Option configures a Context.
type Option func(*options)

type options struct {
	random io.Reader
	seed   []byte
	logger *zap.Logger
}

// WithRandom sets the source of randomness for the seed and for every
// operation that needs fresh entropy. The default is crypto/rand.
func WithRandom(r io.Reader) Option {
	return func(o *options) {
		o.random = r
	}
}

// WithSeed fixes the context seed instead of drawing it from the random
// source. Per-call randomness is still drawn from the random source.
func WithSeed(seed []byte) Option {
	return func(o *options) {
		o.seed = append([]byte(nil), seed...)
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// NewContext creates a seeded context. If the seed cannot be drawn no context
// is returned and the error is ErrInitialization.
func NewContext(opts ...Option) (*Context, error) {
	o := options{random: rand.Reader, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.random == nil {
		return nil, errors.Wrap(ErrInitialization, "nil random source")
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	ctx := &Context{
		rand: &lockedReader{r: o.random},
		log:  o.logger,
	}
	switch {
	case o.seed != nil:
		if len(o.seed) != SeedSize {
			return nil, errors.Wrapf(
				ErrInitialization, "seed must be %d bytes", SeedSize,
			)
		}
		copy(ctx.seed[:], o.seed)
	default:
		if err := ctx.rand.read(ctx.seed[:]); err != nil {
			ctx.log.Warn("could not seed context", zap.Error(err))
			return nil, errors.Wrapf(ErrInitialization, "read seed: %v", err)
		}
	}

	ctx.static = newBlinder(ctx.seed[:], nil)
	ctx.log.Debug("context initialized", zap.Bool("fixed_seed", o.seed != nil))
	return ctx, nil
}

// Logger returns the context logger.
func (ctx *Context) Logger() *zap.Logger {
	return ctx.log
}

// randomBytes fills a fresh buffer from the random source. Every caller gets
// its own draw.
func (ctx *Context) randomBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if err := ctx.rand.read(buf); err != nil {
		ctx.log.Warn("random source failed", zap.Error(err))
		return nil, errors.Wrapf(ErrInitialization, "read randomness: %v", err)
	}
	return buf, nil
}

// freshBlinder derives a single-call blinder from a new random draw mixed with
// the seed.
func (ctx *Context) freshBlinder() (blinder, error) {
	r, err := ctx.randomBytes(32)
	if err != nil {
		return blinder{}, err
	}
	b := newBlinder(ctx.seed[:], r)
	clear(r)
	return b, nil
}

// blinder computes k*P as (k+b)*P - b*P so the scalar handed to the engine is
// never the secret itself.
type blinder struct {
	b     btcec.ModNScalar
	negBG btcec.JacobianPoint
}

func newBlinder(seed, extra []byte) blinder {
	var bl blinder
	h := sha256Sum(contextSeedTag, seed, extra)
	bl.b.SetBytes(&h)
	if bl.b.IsZero() {
		bl.b.SetInt(1)
	}
	clear(h[:])
	btcec.ScalarBaseMultNonConst(&bl.b, &bl.negBG)
	negatePoint(&bl.negBG)
	return bl
}

// mulBase returns k*G.
func (bl *blinder) mulBase(k *btcec.ModNScalar) btcec.JacobianPoint {
	var t btcec.ModNScalar
	t.Add2(k, &bl.b)
	var r btcec.JacobianPoint
	btcec.ScalarBaseMultNonConst(&t, &r)
	btcec.AddNonConst(&r, &bl.negBG, &r)
	t.Zero()
	return r
}

// mul returns k*p.
func (bl *blinder) mul(k *btcec.ModNScalar, p *btcec.JacobianPoint) btcec.JacobianPoint {
	var t btcec.ModNScalar
	t.Add2(k, &bl.b)
	var r, bp btcec.JacobianPoint
	btcec.ScalarMultNonConst(&t, p, &r)
	btcec.ScalarMultNonConst(&bl.b, p, &bp)
	negatePoint(&bp)
	btcec.AddNonConst(&r, &bp, &r)
	t.Zero()
	return r
}

// lockedReader serializes reads so readers supplied by tests need not be safe
// for concurrent use.
type lockedReader struct {
	mu sync.Mutex
	r  io.Reader
}

func (lr *lockedReader) read(p []byte) error {
	lr.mu.Lock()
	defer lr.mu.Unlock()
	_, err := io.ReadFull(lr.r, p)
	return err
}

// LazyContext creates a Context on first use. A failed attempt stores nothing
// so the next Get retries; once a Context exists every caller sees the same
// one.
type LazyContext struct {
	mu   sync.Mutex
	ctx  atomic.Pointer[Context]
	opts []Option
}

// NewLazyContext returns a LazyContext that builds its Context with opts.
func NewLazyContext(opts ...Option) *LazyContext {
	return &LazyContext{opts: opts}
}

// Get returns the Context, creating it if needed.
func (lc *LazyContext) Get() (*Context, error) {
	if ctx := lc.ctx.Load(); ctx != nil {
		return ctx, nil
	}
	lc.mu.Lock()
	defer lc.mu.Unlock()
	if ctx := lc.ctx.Load(); ctx != nil {
		return ctx, nil
	}
	ctx, err := NewContext(lc.opts...)
	if err != nil {
		return nil, err
	}
	lc.ctx.Store(ctx)
	return ctx, nil
}

var defaultContext = NewLazyContext()

// Default returns the process-wide context, seeding it from crypto/rand on
// first use.
func Default() (*Context, error) {
	return defaultContext.Get()
}
