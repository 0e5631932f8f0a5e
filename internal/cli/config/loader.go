// Package config defines the CLI configuration structure.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath returns the default CLI config file path.
func DefaultConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".grcbridge", "cli.yaml")
}

// Load loads CLI configuration from file. A missing file yields the
// default configuration.
func Load(path string) (*CLIConfig, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Connections == nil {
		cfg.Connections = make(map[string]ConnectionConfig)
	}
	return cfg, nil
}

// Save saves CLI configuration to file with owner-only permissions.
func Save(cfg *CLIConfig, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// Merge overlays environment variables and command-line flags onto the
// config. Flags win over environment, environment over file.
func Merge(cfg *CLIConfig, env map[string]string, flags map[string]string) *CLIConfig {
	if v := env["GRCBRIDGE_SERVER"]; v != "" {
		cfg.DefaultServer = v
	}
	if v := env["GRCBRIDGE_MASKING"]; v != "" {
		cfg.DefaultMasking = v
	}

	if v := flags["server"]; v != "" {
		cfg.DefaultServer = v
	}
	if v := flags["output"]; v != "" {
		cfg.DefaultOutput = v
	}
	if v := flags["masking"]; v != "" {
		cfg.DefaultMasking = v
	}
	return cfg
}
