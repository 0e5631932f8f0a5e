// Package token provides privacy-token utilities for grcbridge.
//
// A privacy token is an opaque placeholder substituted for a sensitive
// value by the masking engine when tokenization is enabled. Tokens are
// ULID-based (pv_{ulid}) so they sort by issuance time and never embed
// any part of the original value.
package token
