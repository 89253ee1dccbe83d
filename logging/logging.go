// Package logging provides the single zap logger used across moxide.
// All output goes to stderr; stdout is reserved for the LSP transport
// (spec §6: "Logs are emitted on standard error, never standard output").
package logging

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.Mutex
	logger *zap.Logger
)

// LevelEnvVar is the environment variable that controls verbosity.
const LevelEnvVar = "MOXIDE_LOG"

// Init builds the process-wide logger from MOXIDE_LOG ("error", "warn",
// "info", "debug", "trace"). "trace" maps to zap's debug level with an
// always-on verbose field, since zap has no lower level. Safe to call more
// than once; the last call wins.
func Init() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()

	level, trace := parseLevel(os.Getenv(LevelEnvVar))

	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(cfg),
		zapcore.Lock(zapcore.AddSync(os.Stderr)),
		level,
	)

	fields := []zap.Field{zap.String("component", "moxide-ls")}
	if trace {
		fields = append(fields, zap.Bool("trace", true))
	}

	logger = zap.New(core).With(fields...)
	return logger
}

func parseLevel(raw string) (zapcore.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "error":
		return zapcore.ErrorLevel, false
	case "warn", "warning":
		return zapcore.WarnLevel, false
	case "debug":
		return zapcore.DebugLevel, false
	case "trace":
		return zapcore.DebugLevel, true
	case "info", "":
		return zapcore.InfoLevel, false
	default:
		return zapcore.InfoLevel, false
	}
}

// L returns the process-wide logger, initializing it with defaults if
// Init has not yet been called.
func L() *zap.Logger {
	mu.Lock()
	l := logger
	mu.Unlock()
	if l == nil {
		return Init()
	}
	return l
}

// Named returns a child logger scoped to subsystem name, e.g. "session",
// "vault", "lspserver".
func Named(name string) *zap.Logger {
	return L().Named(name)
}

// Sync flushes buffered log entries. Errors from syncing a terminal fd are
// expected and ignored.
func Sync() {
	mu.Lock()
	l := logger
	mu.Unlock()
	if l != nil {
		_ = l.Sync()
	}
}
