package logger

import (
	"log/slog"
	"strings"
)

// redactedValue replaces fully redacted sensitive data.
const redactedValue = "***REDACTED***"

// sensitiveValuePrefixes are wire shapes that carry live credentials
// when they leak into a log argument. Matching values are partially
// masked so operators can still correlate them.
var sensitiveValuePrefixes = []string{
	"GRC session-id=", // vendor Authorization header value
	"eyJ",             // JWT
}

// sensitiveKeyFragments mark attribute keys whose string values are
// fully redacted.
var sensitiveKeyFragments = []string{
	"password",
	"secret",
	"token",
	"key",
	"credential",
	"auth",
	"bearer",
}

// redactSensitive rewrites one attribute, recursing into groups. A
// recognized value prefix wins over key-based detection because the
// partial mask keeps the value correlatable.
func redactSensitive(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindString:
		val := a.Value.String()
		for _, prefix := range sensitiveValuePrefixes {
			if strings.HasPrefix(val, prefix) {
				return slog.String(a.Key, maskValue(val, prefix))
			}
		}
		if val != "" && IsSensitiveKey(a.Key) {
			return slog.String(a.Key, redactedValue)
		}

	case slog.KindGroup:
		attrs := a.Value.Group()
		out := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			out[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}

	return a
}

// maskValue keeps the prefix plus the first and last three characters
// of the body; short bodies collapse to "***".
func maskValue(value, prefix string) string {
	body := value[len(prefix):]
	if len(body) <= 6 {
		return prefix + "***"
	}
	return prefix + body[:3] + "..." + body[len(body)-3:]
}

// RedactString masks a value before it is handed to a logger. Values
// without a recognized sensitive prefix pass through unchanged.
func RedactString(value string) string {
	for _, prefix := range sensitiveValuePrefixes {
		if strings.HasPrefix(value, prefix) {
			return maskValue(value, prefix)
		}
	}
	return value
}

// IsSensitiveKey reports whether a key name suggests sensitive content.
func IsSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, fragment := range sensitiveKeyFragments {
		if strings.Contains(lower, fragment) {
			return true
		}
	}
	return false
}

// IsSensitiveValue reports whether a value carries a recognized
// credential shape.
func IsSensitiveValue(value string) bool {
	for _, prefix := range sensitiveValuePrefixes {
		if strings.HasPrefix(value, prefix) {
			return true
		}
	}
	return false
}
