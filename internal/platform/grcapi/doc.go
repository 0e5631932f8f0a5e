// Package grcapi provides the HTTP client for the vendor GRC platform.
//
// The platform exposes two API roots: the platform API (login, catalog
// discovery, field definitions) whose responses arrive wrapped in
// success envelopes, and the content API (record retrieval) addressed by
// level alias with OData-style paging parameters.
//
// The client injects the current session token into every request,
// applies a fixed per-call timeout, and throttles outbound calls with a
// client-side rate limiter. It performs no retries and no fallback
// logic; strategy decisions belong to the retrieval engine.
package grcapi
