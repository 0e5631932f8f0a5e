// Package config defines the server configuration structure.
package config

import (
	"errors"
	"os"
)

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyConnection(&cfg.Connection); err != nil {
		return err
	}
	if err := verifyRetrieval(&cfg.Retrieval); err != nil {
		return err
	}
	return verifyServer(&cfg.Server)
}

func verifyConnection(cfg *ConnectionSection) error {
	if cfg.Endpoint == "" {
		return errors.New("connection.endpoint is required")
	}
	if cfg.Instance == "" {
		return errors.New("connection.instance is required")
	}
	if cfg.Username == "" {
		return errors.New("connection.username is required")
	}
	if cfg.Password == "" {
		return errors.New("connection.password is required")
	}
	if cfg.RateLimit < 1 {
		return errors.New("connection.rate_limit must be at least 1")
	}
	if cfg.Timeout <= 0 {
		return errors.New("connection.timeout must be positive")
	}
	if cfg.CACertFile != "" {
		if _, err := os.Stat(cfg.CACertFile); err != nil {
			return errors.New("connection: cannot read CA cert file: " + err.Error())
		}
	}
	return nil
}

func verifyRetrieval(cfg *RetrievalSection) error {
	if cfg.DefaultPageSize < 1 || cfg.DefaultPageSize > 500 {
		return errors.New("retrieval.default_page_size must be between 1 and 500")
	}
	if cfg.StatsSampleSize < 1 {
		return errors.New("retrieval.stats_sample_size must be at least 1")
	}
	return nil
}

func verifyServer(cfg *ServerSection) error {
	if cfg.HTTP.Addr == "" {
		return errors.New("server.http.addr is required")
	}
	// TLS is all-or-nothing: a cert without a key (or vice versa) is a
	// deployment mistake, not a fallback to plaintext.
	if (cfg.HTTP.TLSCertFile == "") != (cfg.HTTP.TLSKeyFile == "") {
		return errors.New("server.http: tls_cert_file and tls_key_file must be set together")
	}
	for _, f := range []string{cfg.HTTP.TLSCertFile, cfg.HTTP.TLSKeyFile} {
		if f == "" {
			continue
		}
		if _, err := os.Stat(f); err != nil {
			return errors.New("server.http: cannot read TLS file: " + err.Error())
		}
	}
	return nil
}
