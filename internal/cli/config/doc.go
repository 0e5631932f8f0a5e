// Package config provides CLI configuration for grcbridge.
//
// This package defines CLI-specific configuration:
//
//   - spec.go: CLIConfig struct (~/.grcbridge/cli.yaml)
//   - loader.go: Configuration loading and merging
//
// Configuration includes:
//
//   - Default connection profile
//   - Output format preferences
//   - Default masking override
package config
