package core

import "go.uber.org/zap"

// Logger is the logging contract used by scene construction and the
// render driver. Kept as a minimal interface (mirroring the teacher's
// original Printf-style logger) so that code taking a Logger never
// depends on a concrete logging library. zap is imported only by this
// file; cmd/tracer wires the zap-backed implementation below, and
// pkg/scene and pkg/renderer fall back to NewNopLogger when given nil.
type Logger interface {
	Printf(format string, args ...interface{})
}

// ZapLogger adapts a zap.SugaredLogger to the Logger interface. This is
// the default Logger used outside of tests.
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZapLogger builds a production zap logger (JSON encoding, info
// level) wrapped as a Logger.
func NewZapLogger() *ZapLogger {
	l, err := zap.NewProduction()
	if err != nil {
		l = zap.NewNop()
	}
	return &ZapLogger{sugar: l.Sugar()}
}

// NewNopLogger returns a Logger that discards everything, used by tests
// and by call sites that don't want to wire a real logger.
func NewNopLogger() *ZapLogger {
	return &ZapLogger{sugar: zap.NewNop().Sugar()}
}

func (z *ZapLogger) Printf(format string, args ...interface{}) {
	z.sugar.Infof(format, args...)
}

// Sync flushes any buffered log entries; callers should defer this in
// main.
func (z *ZapLogger) Sync() error { return z.sugar.Sync() }
