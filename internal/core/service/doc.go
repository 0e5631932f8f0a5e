// Package service provides the domain services for grcbridge.
//
// The pipeline runs session management, topology resolution, record
// retrieval, transformation, and quality analysis, with the Gateway as
// the single inbound facade. Every payload and error leaving the
// Gateway has passed through the privacy masking engine.
//
//   - session.go: authenticated platform session lifecycle
//   - topology.go: container discovery and retrieval path resolution
//   - retrieval.go: record fetching with strategy fallbacks
//   - transform.go: alias-to-display re-keying and value formatting
//   - quality.go: field population statistics
//   - gateway.go: the masked operation facade
package service
