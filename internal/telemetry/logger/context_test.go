package logger

import (
	"context"
	"testing"
)

func TestLoggerRoundTripsThroughContext(t *testing.T) {
	l, buf := newBufLogger(t, "info", "json")
	ctx := WithLogger(context.Background(), l)

	FromContext(ctx).Info("probe")
	if buf.Len() == 0 {
		t.Error("logger from context produced no output")
	}
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Error("FromContext returned nil for bare context")
	}
}

func TestIDAccessors(t *testing.T) {
	ctx := context.Background()
	if got := RequestIDFromContext(ctx); got != "" {
		t.Errorf("request ID on bare context = %q", got)
	}
	if got := TraceIDFromContext(ctx); got != "" {
		t.Errorf("trace ID on bare context = %q", got)
	}

	ctx = WithRequestID(ctx, "req-123")
	ctx = WithTraceID(ctx, "trace-456")

	if got := RequestIDFromContext(ctx); got != "req-123" {
		t.Errorf("RequestIDFromContext = %q, want req-123", got)
	}
	if got := TraceIDFromContext(ctx); got != "trace-456" {
		t.Errorf("TraceIDFromContext = %q, want trace-456", got)
	}
}

func TestLEnrichment(t *testing.T) {
	cases := []struct {
		name      string
		requestID string
		traceID   string
	}{
		{"request id only", "req-123", ""},
		{"trace id only", "", "trace-456"},
		{"both ids", "req-123", "trace-456"},
		{"no ids", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l, buf := newBufLogger(t, "info", "json")
			ctx := WithLogger(context.Background(), l)
			if tc.requestID != "" {
				ctx = WithRequestID(ctx, tc.requestID)
			}
			if tc.traceID != "" {
				ctx = WithTraceID(ctx, tc.traceID)
			}

			L(ctx).Info("probe")

			entry := decodeEntry(t, buf.Bytes())
			assertField := func(key, want string) {
				t.Helper()
				got, present := entry[key]
				if want == "" {
					if present {
						t.Errorf("%s present without being set: %v", key, got)
					}
					return
				}
				if got != want {
					t.Errorf("%s = %v, want %q", key, got, want)
				}
			}
			assertField("request_id", tc.requestID)
			assertField("trace_id", tc.traceID)
		})
	}
}
