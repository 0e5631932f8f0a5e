// Package seal provides in-memory authenticated encryption of tokenized values.
package seal

import (
	"crypto/rand"
	"errors"

	"golang.org/x/crypto/chacha20poly1305"
)

// Sealer encrypts and decrypts short values with ChaCha20-Poly1305
// under a process-local key.
//
// The token store keeps tokenized originals sealed so plaintext
// sensitive values never sit in long-lived heap structures. The key is
// generated at startup and never leaves the process; sealed values are
// unrecoverable after restart, matching the token store's lifetime.
type Sealer struct {
	aead interface {
		Seal(dst, nonce, plaintext, additionalData []byte) []byte
		Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error)
		NonceSize() int
	}
}

// New creates a Sealer with a freshly generated random key.
func New() (*Sealer, error) {
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	return NewWithKey(key)
}

// NewWithKey creates a Sealer with the given 32-byte key.
func NewWithKey(key []byte) (*Sealer, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, errors.New("invalid key size for ChaCha20-Poly1305: must be 32 bytes")
	}

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}

	return &Sealer{aead: aead}, nil
}

// Seal encrypts a value, binding it to a context label.
// The nonce is prepended to the returned ciphertext.
func (s *Sealer) Seal(value string, context string) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	sealed := s.aead.Seal(nonce, nonce, []byte(value), []byte(context))
	return sealed, nil
}

// Open decrypts a sealed value. The context label must match the one
// used at seal time.
func (s *Sealer) Open(sealed []byte, context string) (string, error) {
	nonceSize := s.aead.NonceSize()
	if len(sealed) < nonceSize {
		return "", errors.New("sealed value too short")
	}

	nonce, ciphertext := sealed[:nonceSize], sealed[nonceSize:]
	plaintext, err := s.aead.Open(nil, nonce, ciphertext, []byte(context))
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}
