// Package logger builds the zap-backed logr.Logger used across terragrip.
package logger

import (
	"os"
	"sync"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	once sync.Once

	// globalZapLogger is kept for explicit Sync() on shutdown.
	globalZapLogger *zap.Logger

	globalLogrLogger logr.Logger = logr.Discard()
)

// Options controls logger construction.
type Options struct {
	// Level is the minimum zap level; negative values enable verbose output.
	Level int8
	// FilePath, when non-empty, appends JSON log lines to the given file
	// instead of stderr. A TUI owns the terminal, so file output is the
	// default for interactive runs.
	FilePath string
}

// Get initializes the global logger on first call and returns it.
// Subsequent calls return the already-built logger regardless of options.
func Get(opts Options) logr.Logger {
	once.Do(func() {
		encoderCfg := zap.NewProductionEncoderConfig()
		encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

		sink := zapcore.Lock(os.Stderr)
		if opts.FilePath != "" {
			f, err := os.OpenFile(opts.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err == nil {
				sink = zapcore.Lock(f)
			}
		}

		core := zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderCfg),
			sink,
			zapcore.Level(opts.Level),
		)

		globalZapLogger = zap.New(core)
		globalLogrLogger = zapr.NewLogger(globalZapLogger)
	})
	return globalLogrLogger
}

// Sync flushes buffered log entries; safe to call on a nil global.
func Sync() {
	if globalZapLogger != nil {
		_ = globalZapLogger.Sync()
	}
}
