// Package token provides opaque privacy-token generation and fingerprinting.
package token

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// Prefix is the prefix carried by every privacy token.
const Prefix = "pv_"

// Generate generates a new opaque privacy token.
// Format: pv_{ulid_lowercase}, 29 characters total.
//
// The token carries no information about the value it stands for; the
// ULID payload encodes only issuance time and random entropy.
func Generate() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return Prefix + strings.ToLower(id.String()), nil
}

// IsToken reports whether a string has the privacy-token shape.
func IsToken(s string) bool {
	if !strings.HasPrefix(s, Prefix) {
		return false
	}
	// pv_ (3) + ULID (26) = 29 characters
	if len(s) != 29 {
		return false
	}
	_, err := ulid.Parse(strings.ToUpper(s[len(Prefix):]))
	return err == nil
}
