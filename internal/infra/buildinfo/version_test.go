package buildinfo

import (
	"runtime"
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	info := Get()

	if info.Version == "" || info.Commit == "" || info.BuildTime == "" {
		t.Errorf("unpopulated build info: %+v", info)
	}
	if info.GoVersion == "" || info.GoVersion == "unknown" {
		t.Errorf("GoVersion = %q, want injected or runtime value", info.GoVersion)
	}
}

func TestGetRuntimeGoVersionFallback(t *testing.T) {
	orig := GoVersion
	defer func() { GoVersion = orig }()

	GoVersion = "unknown"
	if got := Get().GoVersion; got != runtime.Version() {
		t.Errorf("GoVersion = %q, want runtime %q", got, runtime.Version())
	}

	GoVersion = "go1.24.0"
	if got := Get().GoVersion; got != "go1.24.0" {
		t.Errorf("GoVersion = %q, want injected value", got)
	}
}

func TestString(t *testing.T) {
	s := String()

	want := Version + " (" + Commit + ") built at " + BuildTime
	if s != want {
		t.Errorf("String() = %q, want %q", s, want)
	}
	if !strings.Contains(s, "built at") {
		t.Errorf("String() = %q, missing build time marker", s)
	}
}
