package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iotaledger/ringmix/ierrors"
)

func init() {
	defaultEncoderConfig.TimeKey = "" // no timestamps in tests
}

func TestNewRootLogger(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		expectRx string
	}{
		{
			name: "console",
			cfg: Config{
				Level:    "info",
				Encoding: "console",
			},
			expectRx: `INFO\tlogger/logger_test.go:\d+\tinfo\n` +
				`WARN\tlogger/logger_test.go:\d+\twarn\n`,
		},
		{
			name: "json",
			cfg: Config{
				Level:    "info",
				Encoding: "json",
			},
			expectRx: `{"level":"INFO","caller":"logger/logger_test.go:\d+","msg":"info"}\n` +
				`{"level":"WARN","caller":"logger/logger_test.go:\d+","msg":"warn"}\n`,
		},
		{
			name: "debug without caller",
			cfg: Config{
				Level:         "debug",
				Encoding:      "console",
				DisableCaller: true,
			},
			expectRx: `DEBUG\tdebug\nINFO\tinfo\nWARN\twarn\n`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "log")
			tt.cfg.OutputPaths = []string{path}

			logger, err := NewRootLogger(tt.cfg)
			require.NoError(t, err)

			logger.Debug("debug")
			logger.Info("info")
			logger.Warn("warn")
			require.NoError(t, logger.Sync())

			content, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Regexp(t, "^"+tt.expectRx+"$", string(content))
		})
	}
}

func TestNewRootLoggerDefaults(t *testing.T) {
	logger, err := NewRootLogger(Config{})
	require.NoError(t, err)
	require.NotNil(t, logger)
}

func TestNewRootLoggerInvalid(t *testing.T) {
	_, err := NewRootLogger(Config{Level: "loud"})
	require.True(t, ierrors.Is(err, ErrInvalidLevel))

	_, err = NewRootLogger(Config{Encoding: "xml"})
	require.True(t, ierrors.Is(err, ErrInvalidEncoding))
}
