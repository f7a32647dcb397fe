package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey string

const (
	requestIDKey  ctxKey = "request_id"
	requestKeyKey ctxKey = "request_key"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestIDFrom(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// WithRequestKey tags the context with the coordinator slot an operation runs under.
func WithRequestKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, requestKeyKey, key)
}

func RequestKeyFrom(ctx context.Context) string {
	if v, ok := ctx.Value(requestKeyKey).(string); ok {
		return v
	}
	return ""
}

// FromCtx returns logger with request_id and request_key added when present
func FromCtx(ctx context.Context) *zap.Logger {
	l := L()
	if reqID := RequestIDFrom(ctx); reqID != "" {
		l = l.With(zap.String("request_id", reqID))
	}
	if key := RequestKeyFrom(ctx); key != "" {
		l = l.With(zap.String("request_key", key))
	}
	return l
}
