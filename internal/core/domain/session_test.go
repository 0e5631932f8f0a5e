// Package domain defines the core domain models for grcbridge.
package domain

import (
	"testing"
	"time"
)

func TestSession_IsValid(t *testing.T) {
	now := time.Now()
	s := NewSession("opaque-token", now)

	if !s.IsValid(now) {
		t.Error("fresh session should be valid")
	}
	if !s.IsValid(now.Add(SessionLease - RenewalMargin - time.Second)) {
		t.Error("session inside the lease should be valid")
	}
	if s.IsValid(now.Add(SessionLease - RenewalMargin + time.Second)) {
		t.Error("session inside the renewal margin should count as expired")
	}
	if s.IsValid(now.Add(SessionLease + time.Minute)) {
		t.Error("lapsed session should be invalid")
	}
}

func TestSession_IsValid_Degenerate(t *testing.T) {
	var nilSession *Session
	if nilSession.IsValid(time.Now()) {
		t.Error("nil session should be invalid")
	}

	empty := NewSession("", time.Now())
	if empty.IsValid(time.Now()) {
		t.Error("session without a token should be invalid")
	}
}

func TestSession_Remaining(t *testing.T) {
	now := time.Now()
	s := NewSession("tok", now)

	if got := s.Remaining(now); got != SessionLease {
		t.Errorf("Remaining = %v, want %v", got, SessionLease)
	}
	if got := s.Remaining(now.Add(SessionLease + time.Minute)); got != 0 {
		t.Errorf("Remaining after expiry = %v, want 0", got)
	}
}
