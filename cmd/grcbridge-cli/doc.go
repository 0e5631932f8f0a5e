// Package main provides the entry point for grcbridge-cli.
//
// The CLI tool provides command-line access to a grcbridge server for:
//
//   - Container discovery and field inspection
//   - Record retrieval (paged search, top-N, single lookup)
//   - Field population statistics
//   - Cache management
//   - Server health checks
//
// Usage:
//
//	grcbridge-cli [command] [flags]
//	grcbridge-cli container list --output json
//	grcbridge-cli record search "Risk Register" --page-size 20
//	grcbridge-cli record get risk_register RR-007 --masking off
//
// Running without arguments starts the interactive REPL.
package main
