// Package token provides opaque privacy-token generation and fingerprinting.
package token

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint returns a stable hex fingerprint of a value.
//
// The token store keys its reverse index on fingerprints so that
// repeated occurrences of the same sensitive value map to one token
// without keeping the plaintext as a map key.
func Fingerprint(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
