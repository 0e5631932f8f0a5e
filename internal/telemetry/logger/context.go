package logger

import "context"

type contextKey string

const (
	loggerKey    contextKey = "grcbridge.logger"
	requestIDKey contextKey = "grcbridge.request_id"
	traceIDKey   contextKey = "grcbridge.trace_id"
)

// WithLogger stores a logger in the context.
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the logger stored in the context, or the default
// logger when none is set.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey).(Logger); ok {
		return l
	}
	return Default()
}

// WithRequestID stores a request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the request ID, or "" when unset.
func RequestIDFromContext(ctx context.Context) string {
	return stringValue(ctx, requestIDKey)
}

// WithTraceID stores a trace ID in the context.
func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceIDKey, id)
}

// TraceIDFromContext returns the trace ID, or "" when unset.
func TraceIDFromContext(ctx context.Context) string {
	return stringValue(ctx, traceIDKey)
}

func stringValue(ctx context.Context, key contextKey) string {
	s, _ := ctx.Value(key).(string)
	return s
}

// L returns the context logger enriched with the request and trace IDs
// carried by the context.
func L(ctx context.Context) Logger {
	l := FromContext(ctx)
	if id := stringValue(ctx, requestIDKey); id != "" {
		l = l.With("request_id", id)
	}
	if id := stringValue(ctx, traceIDKey); id != "" {
		l = l.With("trace_id", id)
	}
	return l
}
