// Package logging wraps go.uber.org/zap with a named-logger registry
// so each planner component (rrtx.core, rrtx.robot, rrtx.queue,
// rrtx.configspace, rrtx.cmd) logs under its own name and can have its level raised independently
// at runtime, mirroring go.viam.com/rdk/logging's NewLogger/Sublogger/
// per-name level registry shape (see logging_test.go,
// logger_registry_test.go in the reference pack) scaled down to what
// this planner actually needs.
package logging

import (
	"os"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

// Logger is a named, independently-levelled structured logger.
type Logger struct {
	name  string
	level zap.AtomicLevel
	zap   *zap.SugaredLogger
}

var (
	registryMu sync.Mutex
	registry   = map[string]*Logger{}
)

// NewLogger returns (creating if necessary) the named logger, backed by
// a zap production encoder writing to stderr at Info level by default.
func NewLogger(name string) *Logger {
	registryMu.Lock()
	defer registryMu.Unlock()
	if l, ok := registry[name]; ok {
		return l
	}
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.Lock(zapcore.AddSync(os.Stderr)), level)
	z := zap.New(core).Named(name).Sugar()
	l := &Logger{name: name, level: level, zap: z}
	registry[name] = l
	return l
}

// Sublogger returns a logger scoped under name.subname, inheriting this
// logger's level unless independently adjusted later.
func (l *Logger) Sublogger(name string) *Logger {
	full := l.name + "." + name
	registryMu.Lock()
	_, existed := registry[full]
	registryMu.Unlock()
	sub := NewLogger(full)
	if !existed {
		sub.SetLevel(l.level.Level())
	}
	return sub
}

// SetLevel adjusts this logger's minimum emitted level at runtime.
func (l *Logger) SetLevel(lvl zapcore.Level) { l.level.SetLevel(lvl) }

func (l *Logger) Debugw(msg string, kv ...interface{}) { l.zap.Debugw(msg, kv...) }
func (l *Logger) Infow(msg string, kv ...interface{})  { l.zap.Infow(msg, kv...) }
func (l *Logger) Warnw(msg string, kv ...interface{})  { l.zap.Warnw(msg, kv...) }
func (l *Logger) Errorw(msg string, kv ...interface{}) { l.zap.Errorw(msg, kv...) }

// Sync flushes any buffered log entries.
func (l *Logger) Sync() error { return l.zap.Sync() }

// NewTestLogger returns a logger that writes through t.Log so test
// output interleaves correctly with `go test -v`.
func NewTestLogger(t *testing.T) *Logger {
	t.Helper()
	level := zap.NewAtomicLevelAt(zapcore.DebugLevel)
	z := zaptest.NewLogger(t, zaptest.Level(level)).Sugar()
	return &Logger{name: "test", level: level, zap: z}
}

// resetRegistry clears the package-level name registry; only used by
// this package's own tests to avoid cross-test name collisions.
func resetRegistry() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = map[string]*Logger{}
}
