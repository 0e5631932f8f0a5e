// Package privacy implements the masking engine.
package privacy

import (
	"github.com/veridane/grcbridge/internal/core/domain"
	"github.com/veridane/grcbridge/pkg/cmap"
	"github.com/veridane/grcbridge/pkg/crypto/seal"
	"github.com/veridane/grcbridge/pkg/token"
)

// TokenStore maps issued privacy tokens back to their original values.
//
// Originals are sealed under a process-local key before entering the
// map, so the plaintext never rests in the store. The store is never
// pruned and never persisted: tokens become unresolvable on restart,
// and unbounded growth over a long-lived process is an accepted
// tradeoff of the process-lifetime scope.
type TokenStore struct {
	sealer *seal.Sealer

	// entries: token -> sealed original + context label
	entries *cmap.Map[string, *storedEntry]

	// byFingerprint: value fingerprint -> token, so a value repeated
	// across records maps to one stable token within the process
	byFingerprint *cmap.Map[string, string]
}

type storedEntry struct {
	sealed  []byte
	context string
}

// NewTokenStore creates an empty token store with a fresh sealing key.
func NewTokenStore() (*TokenStore, error) {
	sealer, err := seal.New()
	if err != nil {
		return nil, err
	}
	return &TokenStore{
		sealer:        sealer,
		entries:       cmap.New[string, *storedEntry](),
		byFingerprint: cmap.New[string, string](),
	}, nil
}

// Tokenize issues (or reuses) an opaque token for a value.
func (s *TokenStore) Tokenize(value, context string) (string, error) {
	fp := token.Fingerprint(value)
	if existing, ok := s.byFingerprint.Get(fp); ok {
		return existing, nil
	}

	tok, err := token.Generate()
	if err != nil {
		return "", domain.ErrInternal.WithCause(err)
	}

	sealed, err := s.sealer.Seal(value, context)
	if err != nil {
		return "", domain.ErrInternal.WithCause(err)
	}

	s.entries.Set(tok, &storedEntry{sealed: sealed, context: context})

	// A racing caller may have tokenized the same value; keep whichever
	// fingerprint mapping landed first so lookups stay stable.
	winner, existed := s.byFingerprint.GetOrSet(fp, tok)
	if existed {
		s.entries.Delete(tok)
		return winner, nil
	}
	return tok, nil
}

// Resolve returns the original value and context label for a token.
// This is a trusted internal operation; resolution is never performed
// automatically on output.
func (s *TokenStore) Resolve(tok string) (value, context string, err error) {
	entry, ok := s.entries.Get(tok)
	if !ok {
		return "", "", domain.ErrRecordNotFound.WithDetails("unknown privacy token")
	}

	plain, err := s.sealer.Open(entry.sealed, entry.context)
	if err != nil {
		return "", "", domain.ErrInternal.WithCause(err)
	}
	return plain, entry.context, nil
}

// Size returns the number of stored tokens.
func (s *TokenStore) Size() int {
	return s.entries.Count()
}
