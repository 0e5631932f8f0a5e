// Package logger provides structured logging for grcbridge.
//
// This package wraps log/slog for structured logging:
//
//   - logger.go: Logger interface, slog configuration and level control
//   - context.go: Context-aware logging with request/trace IDs
//   - redact.go: Sensitive data redaction
//
// Features:
//
//   - JSON and text output formats
//   - Dynamic log level adjustment
//   - Automatic credential masking in log attributes
//   - Context propagation for request tracing
package logger
