// Package connection provides connection management for grcbridge-cli.
//
// This package manages connections to grcbridge servers:
//
//   - manager.go: Connection profile and lifecycle
//   - http.go: HTTP/HTTPS client and response envelope parsing
package connection
