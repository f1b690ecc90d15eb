package logger

import (
	"context"

	"go.uber.org/zap"
)

// ctxKey is the private context key under which the scoped logger is stored.
type ctxKey struct{}

// ToContext returns a copy of ctx carrying the provided logger.
func ToContext(ctx context.Context, l *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger stored in ctx or the global logger when none is attached.
func FromContext(ctx context.Context) *zap.SugaredLogger {
	if ctx == nil {
		return global
	}

	if l, ok := ctx.Value(ctxKey{}).(*zap.SugaredLogger); ok && l != nil {
		return l
	}

	return global
}

// WithName adds a named segment to the context logger, e.g. "alert-router.pipeline".
// A level set for name with SetComponentLevels applies to the new logger.
func WithName(ctx context.Context, name string) context.Context {
	named := FromContext(ctx).Named(name)
	if level, ok := componentLevel(name); ok {
		named = named.WithOptions(WithLevel(level))
	}

	return ToContext(ctx, named)
}

// WithKV attaches key-value pairs that will be emitted with every subsequent message.
func WithKV(ctx context.Context, kvs ...any) context.Context {
	return ToContext(ctx, FromContext(ctx).With(kvs...))
}

// WithFields attaches strongly typed zap fields to the context logger.
func WithFields(ctx context.Context, fields ...zap.Field) context.Context {
	return ToContext(ctx, FromContext(ctx).Desugar().With(fields...).Sugar())
}
