// Package main provides the entry point for grcbridge-server.
//
// The server authenticates against a GRC platform, discovers its
// record containers, and exposes retrieval, transformation, and
// privacy masking over a REST API:
//
//   - Container discovery and field catalogs
//   - Paged and full record retrieval
//   - Top-N record queries and field population statistics
//   - Privacy masking with per-request overrides
//
// Usage:
//
//	grcbridge-server -config /etc/grcbridge/server.yaml
//	grcbridge-server -version
//
// Configuration is layered: file, then GRCBRIDGE_* environment
// variables. Masking settings and the log level reload on file change.
package main
