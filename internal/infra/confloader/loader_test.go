package confloader

import (
	"os"
	"path/filepath"
	"testing"
)

type testConfig struct {
	Connection struct {
		Endpoint string `koanf:"endpoint"`
		Instance string `koanf:"instance"`
	} `koanf:"connection"`
	Masking struct {
		Enabled bool   `koanf:"enabled"`
		Level   string `koanf:"level"`
	} `koanf:"masking"`
}

func TestNewLoader(t *testing.T) {
	l := NewLoader()
	if l == nil {
		t.Fatal("NewLoader() returned nil")
	}
	if l.envPrefix != DefaultEnvPrefix {
		t.Errorf("envPrefix = %q, want %q", l.envPrefix, DefaultEnvPrefix)
	}
}

func TestNewLoader_WithOptions(t *testing.T) {
	l := NewLoader(
		WithEnvPrefix("TEST_"),
		WithConfigFile("/path/to/config.yaml"),
	)

	if l.envPrefix != "TEST_" {
		t.Errorf("envPrefix = %q, want %q", l.envPrefix, "TEST_")
	}
	if l.filePath != "/path/to/config.yaml" {
		t.Errorf("filePath = %q, want %q", l.filePath, "/path/to/config.yaml")
	}
}

func TestLoader_LoadFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
connection:
  endpoint: "https://grc.corp.example"
  instance: "corp"
masking:
  enabled: true
  level: "moderate"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	l := NewLoader()
	if err := l.LoadFile(configPath); err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if got := l.GetString("connection.endpoint"); got != "https://grc.corp.example" {
		t.Errorf("connection.endpoint = %q", got)
	}
	if !l.GetBool("masking.enabled") {
		t.Error("masking.enabled should be true")
	}
}

func TestLoader_LoadFile_NotFound(t *testing.T) {
	l := NewLoader()
	if err := l.LoadFile("/nonexistent/config.yaml"); err == nil {
		t.Error("LoadFile() should return error for nonexistent file")
	}
}

func TestLoader_LoadFile_Empty(t *testing.T) {
	l := NewLoader()
	if err := l.LoadFile(""); err != nil {
		t.Errorf("LoadFile(\"\") should not error, got: %v", err)
	}
}

func TestLoader_LoadEnv(t *testing.T) {
	t.Setenv("GRCBRIDGE_CONNECTION_ENDPOINT", "https://env.corp.example")
	t.Setenv("GRCBRIDGE_MASKING_ENABLED", "true")

	l := NewLoader()
	if err := l.LoadEnv(); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}

	if got := l.GetString("connection.endpoint"); got != "https://env.corp.example" {
		t.Errorf("connection.endpoint = %q", got)
	}
	if !l.GetBool("masking.enabled") {
		t.Error("masking.enabled should be true")
	}
}

func TestLoader_LoadEnv_CustomPrefix(t *testing.T) {
	t.Setenv("MYAPP_CONNECTION_INSTANCE", "sandbox")

	l := NewLoader(WithEnvPrefix("MYAPP_"))
	if err := l.LoadEnv(); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}

	if got := l.GetString("connection.instance"); got != "sandbox" {
		t.Errorf("connection.instance = %q, want %q", got, "sandbox")
	}
}

func TestLoader_LoadMap(t *testing.T) {
	l := NewLoader()

	data := map[string]any{
		"connection.endpoint": "https://map.corp.example",
		"masking.enabled":     true,
	}

	if err := l.LoadMap(data); err != nil {
		t.Fatalf("LoadMap() error = %v", err)
	}

	if got := l.GetString("connection.endpoint"); got != "https://map.corp.example" {
		t.Errorf("connection.endpoint = %q", got)
	}
	if !l.GetBool("masking.enabled") {
		t.Error("masking.enabled should be true")
	}
}

func TestLoader_Load_Priority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
connection:
  endpoint: "https://from-file.example"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	t.Setenv("GRCBRIDGE_CONNECTION_ENDPOINT", "https://from-env.example")

	l := NewLoader(WithConfigFile(configPath))

	var cfg testConfig
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Environment overrides file.
	if cfg.Connection.Endpoint != "https://from-env.example" {
		t.Errorf("Endpoint = %q, want the env value", cfg.Connection.Endpoint)
	}
}

func TestLoader_Unmarshal(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
connection:
  endpoint: "https://grc.corp.example"
  instance: "corp"
masking:
  enabled: true
  level: "strict"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	l := NewLoader(WithConfigFile(configPath))

	var cfg testConfig
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Connection.Instance != "corp" {
		t.Errorf("Instance = %q, want %q", cfg.Connection.Instance, "corp")
	}
	if cfg.Masking.Level != "strict" {
		t.Errorf("Level = %q, want %q", cfg.Masking.Level, "strict")
	}
}

func TestLoader_IsLoaded(t *testing.T) {
	l := NewLoader()

	if l.IsLoaded() {
		t.Error("IsLoaded() should be false before Load()")
	}

	var cfg testConfig
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !l.IsLoaded() {
		t.Error("IsLoaded() should be true after Load()")
	}
}
