package logging

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxFieldsKey struct{}

// WithContextFields returns a context carrying zap fields that every
// *Ctx logging call will attach to its entry.
func WithContextFields(ctx context.Context, fields ...zap.Field) context.Context {
	existing, _ := ctx.Value(ctxFieldsKey{}).([]zap.Field)
	combined := make([]zap.Field, 0, len(existing)+len(fields))
	combined = append(combined, existing...)
	combined = append(combined, fields...)
	return context.WithValue(ctx, ctxFieldsKey{}, combined)
}

type ZapLogger struct {
	inner *zap.Logger
}

func NewZapLogger(level zapcore.Level) (*ZapLogger, error) {
	settings := defaultSettings(zap.NewAtomicLevelAt(level))
	logger, err := settings.config.Build(settings.opts...)
	if err != nil {
		return nil, err
	}
	return &ZapLogger{inner: logger}, nil
}

// NewNop returns a logger dropping every entry, for tests.
func NewNop() *ZapLogger {
	return &ZapLogger{inner: zap.NewNop()}
}

func (l *ZapLogger) DebugCtx(ctx context.Context, msg string, fields ...zap.Field) {
	l.inner.Debug(msg, withContextFields(ctx, fields)...)
}

func (l *ZapLogger) InfoCtx(ctx context.Context, msg string, fields ...zap.Field) {
	l.inner.Info(msg, withContextFields(ctx, fields)...)
}

func (l *ZapLogger) WarnCtx(ctx context.Context, msg string, fields ...zap.Field) {
	l.inner.Warn(msg, withContextFields(ctx, fields)...)
}

func (l *ZapLogger) ErrorCtx(ctx context.Context, msg string, fields ...zap.Field) {
	l.inner.Error(msg, withContextFields(ctx, fields)...)
}

func (l *ZapLogger) Sync() error {
	return l.inner.Sync()
}

func withContextFields(ctx context.Context, fields []zap.Field) []zap.Field {
	ctxFields, _ := ctx.Value(ctxFieldsKey{}).([]zap.Field)
	if len(ctxFields) == 0 {
		return fields
	}
	combined := make([]zap.Field, 0, len(ctxFields)+len(fields))
	combined = append(combined, ctxFields...)
	combined = append(combined, fields...)
	return combined
}
