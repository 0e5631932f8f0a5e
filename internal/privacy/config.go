// Package privacy implements the masking engine.
package privacy

import "strings"

// Level is the configured strength of redaction.
type Level string

const (
	LevelLight    Level = "light"
	LevelModerate Level = "moderate"
	LevelStrict   Level = "strict"
)

// ParseLevel normalizes a level string, defaulting to moderate.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "light":
		return LevelLight
	case "strict":
		return LevelStrict
	default:
		return LevelModerate
	}
}

// Config is the process-wide masking configuration. It is loaded once
// at startup and may be overridden per call.
type Config struct {
	// Enabled turns the gate on. When false values pass unmodified.
	Enabled bool `koanf:"enabled"`

	// Level is the protection level: light, moderate, or strict.
	Level Level `koanf:"level"`

	// Tokenize substitutes reversible opaque tokens for sensitive
	// values instead of character masks.
	Tokenize bool `koanf:"tokenize"`

	// CustomPatterns are operator-supplied additional sensitive
	// field-name fragments.
	CustomPatterns []string `koanf:"custom_patterns"`
}

// DefaultConfig returns the default masking configuration.
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		Level:   LevelModerate,
	}
}

// Merge overlays a per-call override onto the base configuration.
// Boolean flags are taken from the override as given; an empty level
// keeps the base level; custom patterns are appended, not replaced.
func (c Config) Merge(override *Config) Config {
	if override == nil {
		return c
	}
	merged := *override
	if merged.Level == "" {
		merged.Level = c.Level
	}
	merged.CustomPatterns = append(append([]string{}, c.CustomPatterns...), override.CustomPatterns...)
	return merged
}
