package codec

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the codec package's logger instance.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger configures the codec package's logger.
// This must be called before any codec operations.
func SetLogger(l *zap.Logger) {
	loggerOnce.Do(func() {})
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

// debugf logs when ctx has KeyDebug set, which Config.Debug does for the
// root context of a Codec.
func debugf(ctx Context, format string, args ...any) {
	if ctx.Flag(KeyDebug) {
		Logger().Sugar().Debugf(format, args...)
	}
}
