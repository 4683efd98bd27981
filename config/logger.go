package config

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type LoggerConfig struct {
	// Minimum level: "debug", "info", "warn" or "error".
	Level string `yaml:"level"`
	// Options: "json", "console".
	Encoding    string   `yaml:"encoding"`
	Development bool     `yaml:"development"`
	OutputPaths []string `yaml:"outputPaths"`
}

// WithDefaults returns a copy of the LoggerConfig with any missing fields set
// to their default values.
func (c LoggerConfig) WithDefaults() LoggerConfig {
	cpy := c
	if cpy.Level == "" {
		cpy.Level = "warn"
	}
	if cpy.Encoding == "" {
		cpy.Encoding = "console"
	}
	if len(cpy.OutputPaths) == 0 {
		cpy.OutputPaths = []string{"stderr"}
	}
	return cpy
}

// CreateLogger builds the zap logger described by the config. levelOverride,
// when not empty, replaces the configured level.
func (c *Config) CreateLogger(levelOverride string) (*zap.Logger, error) {
	lc := c.Logger.WithDefaults()
	if levelOverride != "" {
		lc.Level = levelOverride
	}
	level, err := zap.ParseAtomicLevel(lc.Level)
	if err != nil {
		return nil, errors.Wrap(err, "create logger")
	}

	var zc zap.Config
	if lc.Development {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}
	zc.Level = level
	zc.Encoding = lc.Encoding
	zc.OutputPaths = lc.OutputPaths
	zc.ErrorOutputPaths = lc.OutputPaths

	logger, err := zc.Build()
	return logger, errors.Wrap(err, "create logger")
}
