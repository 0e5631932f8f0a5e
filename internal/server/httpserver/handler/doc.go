// Package handler provides HTTP request handlers for grcbridge.
//
// This package implements the read-only REST endpoints over the record
// gateway: container discovery, field listings, record search, top-N
// extraction, single-record lookup, and quality statistics. Every
// payload leaving these handlers has already passed the masking engine
// inside the gateway.
package handler
