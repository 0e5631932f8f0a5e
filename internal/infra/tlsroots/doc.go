// Package tlsroots provides TLS certificate management for grcbridge.
//
//   - roots.go: trust pool (system roots + private CA bundles) for the
//     outbound platform client
//   - watcher.go: server key-pair hot reload via fsnotify
package tlsroots
