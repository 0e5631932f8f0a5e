// Package service provides the domain services for grcbridge.
package service

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/veridane/grcbridge/internal/core/domain"
	"github.com/veridane/grcbridge/internal/platform/grcapi"
	"github.com/veridane/grcbridge/internal/telemetry/logger"
	"github.com/veridane/grcbridge/internal/telemetry/metric"
)

// Credentials are the platform login parameters.
type Credentials struct {
	Username string
	Password string
}

// SessionManager owns the one authenticated session against the
// platform. Validity is a pure time comparison against the fixed lease;
// there is no heartbeat and no login retry. Re-login replaces the token
// wholesale and pushes it into the transport immediately.
type SessionManager struct {
	client  *grcapi.Client
	creds   Credentials
	log     logger.Logger
	metrics *metric.Registry
	now     func() time.Time

	mu      sync.Mutex
	session *domain.Session
}

// NewSessionManager creates a session manager for the given client and
// credentials.
func NewSessionManager(client *grcapi.Client, creds Credentials, log logger.Logger, metrics *metric.Registry) *SessionManager {
	if log == nil {
		log = logger.Default()
	}
	return &SessionManager{
		client:  client,
		creds:   creds,
		log:     log,
		metrics: metrics,
		now:     time.Now,
	}
}

// EnsureValid guarantees that, on nil return, a non-expired session
// token is attached to all subsequent outbound calls. A rejected login
// surfaces as ErrAuthFailed; an unreachable platform as
// ErrVendorUnavailable.
func (m *SessionManager) EnsureValid(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session.IsValid(m.now()) {
		return nil
	}
	return m.login(ctx)
}

// login holds m.mu.
func (m *SessionManager) login(ctx context.Context) error {
	token, err := m.client.Login(ctx, m.creds.Username, m.creds.Password)
	if err != nil {
		if m.metrics != nil {
			m.metrics.LoginFailures.Inc()
		}
		var se *grcapi.StatusError
		if errors.As(err, &se) && (se.Status == http.StatusUnauthorized || se.Status == http.StatusForbidden) {
			return domain.ErrAuthFailed.WithCause(err)
		}
		return domain.ErrVendorUnavailable.WithCause(err)
	}

	m.session = domain.NewSession(token, m.now())
	m.client.SetSessionToken(token)

	if m.metrics != nil {
		m.metrics.Logins.Inc()
	}
	m.log.Info("platform session established",
		"expires_at", m.session.ExpiresAt,
		"lease", domain.SessionLease.String())
	return nil
}

// Invalidate discards the current session. The next EnsureValid logs in
// again.
func (m *SessionManager) Invalidate() {
	m.mu.Lock()
	m.session = nil
	m.client.SetSessionToken("")
	m.mu.Unlock()
}

// Token returns the current session token, empty when no session is held.
func (m *SessionManager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return ""
	}
	return m.session.Token
}

// Remaining returns the time left on the current lease.
func (m *SessionManager) Remaining() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.Remaining(m.now())
}

// Do runs fn under a valid session. A call rejected mid-flight with a
// session-auth status gets exactly one retry after a forced re-login;
// all other failures surface as returned by fn.
func (m *SessionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := m.EnsureValid(ctx); err != nil {
		return err
	}

	err := fn(ctx)
	if err == nil || !isSessionRejected(err) {
		return err
	}

	m.log.Warn("session rejected mid-flight, re-logging in once")
	m.Invalidate()
	if err := m.EnsureValid(ctx); err != nil {
		return err
	}
	return fn(ctx)
}

// isSessionRejected reports a platform response that indicates the
// session token itself was refused.
func isSessionRejected(err error) bool {
	var se *grcapi.StatusError
	if !errors.As(err, &se) {
		return false
	}
	return se.Status == http.StatusUnauthorized || se.Status == http.StatusForbidden
}
