// Package metric provides Prometheus metrics for grcbridge.
//
// This package implements metrics collection and exposition:
//
//   - prometheus.go: metric registry and HTTP handler
//   - collector.go: custom collector for cache and token-store occupancy
//
// Metrics include:
//
//   - Login and vendor call counters
//   - Retrieval strategy and fallback counters
//   - Cache hit/miss counters
//   - Masked value counters per category
//   - HTTP request counters and latency histograms
//
// Metrics are exposed at /metrics in Prometheus format.
package metric
