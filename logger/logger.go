// Package logger builds the zap root logger of the ringmix tools from a Config.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/iotaledger/ringmix/ierrors"
)

var (
	// ErrInvalidLevel is returned if the configured level is not a zap level.
	ErrInvalidLevel = ierrors.New("invalid log level")
	// ErrInvalidEncoding is returned if the configured encoding is neither "json" nor "console".
	ErrInvalidEncoding = ierrors.New("invalid log encoding")
)

// NewRootLogger creates a new root logger from the provided configuration.
// Empty settings fall back to the values of DefaultConfig.
func NewRootLogger(cfg Config) (*zap.Logger, error) {
	defaults := DefaultConfig()
	if cfg.Level == "" {
		cfg.Level = defaults.Level
	}
	if cfg.Encoding == "" {
		cfg.Encoding = defaults.Encoding
	}
	if len(cfg.OutputPaths) == 0 {
		cfg.OutputPaths = defaults.OutputPaths
	}

	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	if cfg.Encoding != "json" && cfg.Encoding != "console" {
		return nil, ierrors.Wrapf(ErrInvalidEncoding, "encoding %q", cfg.Encoding)
	}

	zapCfg := &zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		DisableCaller:     cfg.DisableCaller,
		DisableStacktrace: cfg.DisableStacktrace,
		Encoding:          cfg.Encoding,
		EncoderConfig:     defaultEncoderConfig,
		OutputPaths:       cfg.OutputPaths,
		ErrorOutputPaths:  []string{"stderr"},
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, ierrors.Wrap(err, "building logger")
	}

	return logger, nil
}

// ParseLevel parses a textual zap level ("debug", "info", "warn", "error", "dpanic", "panic", "fatal").
func ParseLevel(text string) (zapcore.Level, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(text)); err != nil {
		return level, ierrors.Wrapf(ErrInvalidLevel, "level %q", text)
	}

	return level, nil
}
