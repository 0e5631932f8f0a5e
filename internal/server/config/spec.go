// Package config defines the server configuration structure.
package config

import (
	"time"

	"github.com/veridane/grcbridge/internal/privacy"
)

// ServerConfig is the root configuration for grcbridge-server.
type ServerConfig struct {
	Server     ServerSection     `koanf:"server"`
	Connection ConnectionSection `koanf:"connection"`
	Masking    privacy.Config    `koanf:"masking"`
	Retrieval  RetrievalSection  `koanf:"retrieval"`
	Log        LogSection        `koanf:"log"`
}

// ServerSection configures the HTTP endpoint.
type ServerSection struct {
	HTTP HTTPConfig `koanf:"http"`

	// RateLimit is the per-client request limit (requests/second, 0 = off).
	RateLimit int `koanf:"rate_limit"`

	// CORSAllowedOrigins lists allowed CORS origins (empty = allow all).
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Addr        string `koanf:"addr"`
	TLSCertFile string `koanf:"tls_cert_file"`
	TLSKeyFile  string `koanf:"tls_key_file"`
}

// ConnectionSection configures the upstream GRC platform connection.
// These values are fixed at startup; changing them requires a restart.
type ConnectionSection struct {
	// Endpoint is the platform base URL, e.g. "https://grc.corp.example".
	Endpoint string `koanf:"endpoint"`

	// Instance is the platform instance name used in login and
	// questionnaire content paths.
	Instance string `koanf:"instance"`

	// Username and Password are the service-account credentials.
	Username string `koanf:"username"`
	Password string `koanf:"password"`

	// CACertFile points to a PEM bundle trusted in addition to the
	// system roots, for platforms behind a private CA.
	CACertFile string `koanf:"ca_cert_file"`

	// Timeout is the per-call network timeout.
	Timeout time.Duration `koanf:"timeout"`

	// RateLimit is the maximum outbound requests per second.
	RateLimit int `koanf:"rate_limit"`
}

// RetrievalSection tunes record retrieval behavior.
type RetrievalSection struct {
	// DefaultPageSize is used when a request does not specify one.
	DefaultPageSize int `koanf:"default_page_size"`

	// StatsSampleSize bounds the records sampled for quality reports.
	StatsSampleSize int `koanf:"stats_sample_size"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
