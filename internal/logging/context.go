package logging

import (
	"context"
	"crypto/rand"
	"os"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

// EnvTraceID overrides the generated trace ID for an invocation.
const EnvTraceID = "FERTCALC_TRACE_ID"

type traceIDKey struct{}

// NewTraceID returns a new lexically sortable trace ID.
func NewTraceID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}

// ContextWithTraceID stores the trace ID in ctx.
func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

// TraceIDFromContext returns the trace ID stored in ctx, or "".
func TraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(traceIDKey{}).(string)
	return id
}

// GetOrGenerateTraceID returns, in order: the trace ID in ctx, the
// FERTCALC_TRACE_ID environment variable, or a fresh ID.
func GetOrGenerateTraceID(ctx context.Context) string {
	if id := TraceIDFromContext(ctx); id != "" {
		return id
	}
	if id := os.Getenv(EnvTraceID); id != "" {
		return id
	}
	return NewTraceID()
}

// FromContext returns the logger attached to ctx with the trace ID added.
// Without an attached logger it returns a disabled logger.
func FromContext(ctx context.Context) zerolog.Logger {
	if ctx == nil {
		return zerolog.Nop()
	}
	logger := zerolog.Ctx(ctx)
	if logger.GetLevel() == zerolog.Disabled {
		return zerolog.Nop()
	}
	if id := TraceIDFromContext(ctx); id != "" {
		return logger.With().Str("trace_id", id).Logger()
	}
	return *logger
}
