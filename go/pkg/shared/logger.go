package shared

import (
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a thin wrapper to allow DI/testing.
type Logger interface {
	Printf(string, ...any)
	Debugf(string, ...any)
	Warnw(string, ...any)
	Errorw(string, ...any)
	With(...any) Logger
	Sync() error
}

type zapLogger struct{ *zap.SugaredLogger }

func (l *zapLogger) Printf(format string, args ...any) { l.Infof(format, args...) }

func (l *zapLogger) With(kv ...any) Logger {
	return &zapLogger{l.SugaredLogger.With(kv...)}
}

// NewLogger returns a zap-backed logger named after prefix.
func NewLogger(prefix string, cfg LogConfig) (Logger, error) {
	zc := zap.NewProductionConfig()
	if strings.EqualFold(strings.TrimSpace(cfg.Format), "console") {
		zc = zap.NewDevelopmentConfig()
	}
	lvl, err := zapcore.ParseLevel(strings.TrimSpace(cfg.Level))
	if err != nil {
		return nil, errors.Wrapf(err, "log level %q", cfg.Level)
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.EncoderConfig.MessageKey = "message"

	z, err := zc.Build()
	if err != nil {
		return nil, errors.Wrap(err, "build logger")
	}
	return &zapLogger{z.Named(prefix).Sugar()}, nil
}

// FromZap wraps an existing zap logger, e.g. one built on zaptest/observer.
func FromZap(z *zap.Logger) Logger {
	return &zapLogger{z.Sugar()}
}

// NopLogger discards everything.
func NopLogger() Logger {
	return FromZap(zap.NewNop())
}
