// Package config defines the CLI configuration structure.
package config

// CLIConfig is the grcbridge-cli configuration, stored at
// ~/.grcbridge/cli.yaml.
type CLIConfig struct {
	DefaultServer string `yaml:"default_server"`

	// DefaultOutput is one of table, json, yaml.
	DefaultOutput string `yaml:"default_output"`

	// DefaultMasking is the masking override sent with every request
	// when set (off, light, moderate, strict).
	DefaultMasking string `yaml:"default_masking,omitempty"`

	// Connections are saved servers, keyed by name.
	Connections map[string]ConnectionConfig `yaml:"connections"`

	CurrentConnection string `yaml:"current_connection"`
}

// ConnectionConfig stores one saved server.
type ConnectionConfig struct {
	Server string `yaml:"server"`
	TLS    bool   `yaml:"tls"`
}

// Default returns the configuration used when no file exists.
func Default() *CLIConfig {
	return &CLIConfig{
		DefaultServer: "http://localhost:5080",
		DefaultOutput: "table",
		Connections:   make(map[string]ConnectionConfig),
	}
}
