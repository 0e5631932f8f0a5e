// Package confloader provides configuration loading mechanism.
package confloader

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultEnvPrefix is the prefix for environment variable overrides.
// GRCBRIDGE_CONNECTION_ENDPOINT becomes the key connection.endpoint.
const DefaultEnvPrefix = "GRCBRIDGE_"

// Loader loads configuration from files, environment variables, and maps.
// Sources merge in priority order: file < environment < explicit map.
type Loader struct {
	k         *koanf.Koanf
	envPrefix string
	filePath  string
	loaded    bool
}

// Option configures a Loader.
type Option func(*Loader)

// WithEnvPrefix overrides the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(l *Loader) {
		l.envPrefix = prefix
	}
}

// WithConfigFile sets the configuration file path for Load.
func WithConfigFile(path string) Option {
	return func(l *Loader) {
		l.filePath = path
	}
}

// NewLoader creates a configuration loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		k:         koanf.New("."),
		envPrefix: DefaultEnvPrefix,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads the configured file (if any), applies environment overrides,
// and unmarshals the merged result into out.
func (l *Loader) Load(out any) error {
	if err := l.LoadFile(l.filePath); err != nil {
		return err
	}
	if err := l.LoadEnv(); err != nil {
		return err
	}
	if err := l.k.Unmarshal("", out); err != nil {
		return fmt.Errorf("confloader: unmarshal: %w", err)
	}
	l.loaded = true
	return nil
}

// LoadFile merges a YAML configuration file. An empty path is a no-op so
// callers can pass an optional flag value straight through.
func (l *Loader) LoadFile(path string) error {
	if path == "" {
		return nil
	}
	if err := l.k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("confloader: load file %s: %w", path, err)
	}
	return nil
}

// LoadEnv merges environment variables carrying the loader's prefix.
// Underscores in the variable name map to key separators, so
// GRCBRIDGE_MASKING_LEVEL sets masking.level.
func (l *Loader) LoadEnv() error {
	err := l.k.Load(env.Provider(l.envPrefix, ".", func(s string) string {
		key := strings.TrimPrefix(s, l.envPrefix)
		return strings.ReplaceAll(strings.ToLower(key), "_", ".")
	}), nil)
	if err != nil {
		return fmt.Errorf("confloader: load env: %w", err)
	}
	return nil
}

// LoadMap merges explicit key/value overrides. Keys use dot notation.
func (l *Loader) LoadMap(data map[string]any) error {
	if err := l.k.Load(mapProvider(data), nil); err != nil {
		return fmt.Errorf("confloader: load map: %w", err)
	}
	return nil
}

// Unmarshal decodes the subtree at key into out. An empty key decodes the
// whole configuration.
func (l *Loader) Unmarshal(key string, out any) error {
	return l.k.Unmarshal(key, out)
}

// GetString returns the string value at key, or "" when unset.
func (l *Loader) GetString(key string) string {
	return l.k.String(key)
}

// GetBool returns the boolean value at key, or false when unset.
func (l *Loader) GetBool(key string) bool {
	return l.k.Bool(key)
}

// GetInt returns the integer value at key, or 0 when unset.
func (l *Loader) GetInt(key string) int {
	return l.k.Int(key)
}

// All returns a flat map of every loaded key.
func (l *Loader) All() map[string]any {
	return l.k.All()
}

// IsLoaded reports whether Load has completed successfully.
func (l *Loader) IsLoaded() bool {
	return l.loaded
}
