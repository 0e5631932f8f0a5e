// Package domain defines the core domain models for grcbridge.
package domain

import "time"

// SessionLease is the fixed lease granted by the platform on login.
const SessionLease = 20 * time.Minute

// RenewalMargin is subtracted from the lease when judging validity, so
// a call issued just before expiry does not ride a dying token.
const RenewalMargin = 30 * time.Second

// Session is the authenticated lease against the platform: an opaque
// token and its absolute expiry. Owned exclusively by the session
// manager; replaced wholesale on re-login, never refreshed in place.
// Expiry is a pure time comparison; the platform never pushes an
// invalidation.
type Session struct {
	// Token is the opaque session token.
	Token string

	// IssuedAt is the login instant.
	IssuedAt time.Time

	// ExpiresAt is the absolute expiry instant.
	ExpiresAt time.Time
}

// NewSession creates a session with the fixed lease from the given instant.
func NewSession(token string, now time.Time) *Session {
	return &Session{
		Token:     token,
		IssuedAt:  now,
		ExpiresAt: now.Add(SessionLease),
	}
}

// IsValid reports whether the session is usable at the given instant,
// leaving the renewal margin.
func (s *Session) IsValid(now time.Time) bool {
	if s == nil || s.Token == "" {
		return false
	}
	return now.Before(s.ExpiresAt.Add(-RenewalMargin))
}

// Remaining returns the time left on the lease, zero if lapsed.
func (s *Session) Remaining(now time.Time) time.Duration {
	if s == nil {
		return 0
	}
	d := s.ExpiresAt.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}
