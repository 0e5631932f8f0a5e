// Package config defines the server configuration structure.
package config

import (
	"time"

	"github.com/veridane/grcbridge/internal/privacy"
)

// Default configuration values.
const (
	DefaultHTTPAddr = "127.0.0.1:5080"

	DefaultHTTPRateLimit = 100

	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 10

	DefaultPageSize        = 50
	DefaultStatsSampleSize = 100

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			HTTP: HTTPConfig{
				Addr: DefaultHTTPAddr,
			},
			RateLimit: DefaultHTTPRateLimit,
		},
		Connection: ConnectionSection{
			Timeout:   DefaultTimeout,
			RateLimit: DefaultRateLimit,
		},
		Masking: privacy.DefaultConfig(),
		Retrieval: RetrievalSection{
			DefaultPageSize: DefaultPageSize,
			StatsSampleSize: DefaultStatsSampleSize,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
