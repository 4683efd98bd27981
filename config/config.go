package config

import (
	"encoding/hex"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"

	"zkp.mleku.dev"
)

const (
	RandomSourceCrypto = "crypto"
	RandomSourceSeed   = "seed"
)

type Config struct {
	Logger LoggerConfig `yaml:"logger"`
	Random RandomConfig `yaml:"random"`
}

type RandomConfig struct {
	// Where the context seed comes from.
	// Options: "crypto", "seed".
	Source string `yaml:"source"`
	// Hex seed used when Source is "seed". Per-call randomness still comes
	// from crypto/rand; the fixed seed only makes blinding reproducible.
	Seed string `yaml:"seed"`
}

// WithDefaults returns a copy of the RandomConfig with any missing fields set
// to their default values.
func (c RandomConfig) WithDefaults() RandomConfig {
	cpy := c
	if cpy.Source == "" {
		cpy.Source = RandomSourceCrypto
	}
	return cpy
}

// WithDefaults returns a copy of the Config with any missing fields set to
// their default values.
func (c Config) WithDefaults() Config {
	cpy := c
	cpy.Logger = cpy.Logger.WithDefaults()
	cpy.Random = cpy.Random.WithDefaults()
	return cpy
}

// Validate checks option values that defaults cannot fix.
func (c Config) Validate() error {
	switch c.Random.Source {
	case RandomSourceCrypto:
	case RandomSourceSeed:
		seed, err := hex.DecodeString(c.Random.Seed)
		if err != nil {
			return errors.Wrap(err, "random seed")
		}
		if len(seed) != zkp.SeedSize {
			return errors.Errorf("random seed must be %d bytes, got %d", zkp.SeedSize, len(seed))
		}
	default:
		return errors.Errorf("unknown random source %q", c.Random.Source)
	}
	if _, err := zap.ParseAtomicLevel(c.Logger.Level); err != nil {
		return errors.Wrap(err, "logger level")
	}
	return nil
}

// LoadConfig reads a YAML config file. An empty path returns the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "load config")
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(err, "load config")
		}
	}
	*cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	return cfg, nil
}

// ContextOptions returns the options for a zkp.Context built from c.
func (c *Config) ContextOptions(logger *zap.Logger) ([]zkp.Option, error) {
	opts := []zkp.Option{zkp.WithLogger(logger)}
	if c.Random.Source == RandomSourceSeed {
		seed, err := hex.DecodeString(c.Random.Seed)
		if err != nil {
			return nil, errors.Wrap(err, "random seed")
		}
		opts = append(opts, zkp.WithSeed(seed))
	}
	return opts, nil
}

// NewLazyContext returns a context that is seeded as c describes on first
// use.
func (c *Config) NewLazyContext(logger *zap.Logger) (*zkp.LazyContext, error) {
	opts, err := c.ContextOptions(logger)
	if err != nil {
		return nil, err
	}
	return zkp.NewLazyContext(opts...), nil
}
