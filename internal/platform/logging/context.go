package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

type ctxKey struct{}

// Attribute keys shared by the HTTP middleware and the sync scheduler.
const (
	KeyRequestID     = "request_id"
	KeyCorrelationID = "correlation_id"
	KeyTraceID       = "trace_id"
	KeySyncRun       = "sync_run"
)

var defaultLogger atomic.Pointer[slog.Logger]

func init() {
	defaultLogger.Store(slog.Default())
}

// FromContext returns the logger stored in ctx, or the process default.
func FromContext(ctx context.Context) *slog.Logger {
	return FromContextOr(ctx, nil)
}

// FromContextOr returns the logger stored in ctx, or fallback.
// Components built with their own logger pass it here so request fields win
// when present without losing the component attribute otherwise.
func FromContextOr(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
			return logger
		}
	}

	if fallback != nil {
		return fallback
	}

	return defaultLogger.Load()
}

// WithContext stores logger in ctx.
func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

func withAttr(ctx context.Context, key, value string) context.Context {
	return WithContext(ctx, FromContext(ctx).With(slog.String(key, value)))
}

// WithRequestID tags every later log line from ctx with the request ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return withAttr(ctx, KeyRequestID, requestID)
}

// WithCorrelationID tags every later log line from ctx with the correlation ID.
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return withAttr(ctx, KeyCorrelationID, correlationID)
}

// WithTraceID tags every later log line from ctx with the OpenTelemetry trace ID.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return withAttr(ctx, KeyTraceID, traceID)
}

// WithSyncRun tags every later log line from ctx with a scheduled sync run ID.
func WithSyncRun(ctx context.Context, runID string) context.Context {
	return withAttr(ctx, KeySyncRun, runID)
}

// SetDefault replaces the process default logger, including slog's.
func SetDefault(logger *slog.Logger) {
	if logger == nil {
		return
	}

	defaultLogger.Store(logger)
	slog.SetDefault(logger)
}
