package command

import (
	"net/http"
	"strings"
	"testing"
)

func TestStatsCommand(t *testing.T) {
	cmd := StatsCommand()
	if cmd == nil {
		t.Fatal("StatsCommand returned nil")
	}
	if cmd.Name != "stats" {
		t.Errorf("Name = %q, want %q", cmd.Name, "stats")
	}
}

func TestStatsShow(t *testing.T) {
	server := newMockServer()
	defer server.Close()

	server.handle("/v1/containers/risk_register/stats", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("sample"); got != "25" {
			t.Errorf("sample = %q, want 25", got)
		}
		okEnvelope(w, map[string]any{
			"container":   "Risk Register",
			"total_count": 30,
			"sample_size": 25,
			"fields": []map[string]any{
				{"alias": "Id", "populated": 25, "total": 25, "rate": 1.0},
				{"alias": "owner_email", "populated": 20, "total": 25, "rate": 0.8},
				{"alias": "closed_at", "populated": 0, "total": 25, "rate": 0.0},
			},
			"top_populated": []string{"Id", "owner_email"},
			"empty_fields":  []string{"closed_at"},
		})
	})

	ctx := makeTestContext(server, map[string]any{"sample": 25, "top": 2}, []string{"risk_register"})
	out, err := captureStdout(t, func() error { return statsShow(ctx) })
	if err != nil {
		t.Fatalf("statsShow() error = %v", err)
	}

	if !strings.Contains(out, "Container:   Risk Register") {
		t.Errorf("output missing container line:\n%s", out)
	}
	if !strings.Contains(out, "Sample size: 25") {
		t.Errorf("output missing sample size:\n%s", out)
	}
	if !strings.Contains(out, "20/25") {
		t.Errorf("output missing populated ratio:\n%s", out)
	}
	if !strings.Contains(out, "80%") {
		t.Errorf("output missing rate:\n%s", out)
	}
	if !strings.Contains(out, "Empty fields:  closed_at") {
		t.Errorf("output missing empty fields line:\n%s", out)
	}
}

func TestStatsShow_MissingArg(t *testing.T) {
	server := newMockServer()
	defer server.Close()

	ctx := makeTestContext(server, nil, nil)
	if err := statsShow(ctx); err == nil {
		t.Fatal("expected error for missing container name")
	}
}

func TestStatsShow_ContainerNotFound(t *testing.T) {
	server := newMockServer()
	defer server.Close()

	server.handle("/v1/containers/unknown/stats", func(w http.ResponseWriter, r *http.Request) {
		errorEnvelope(w, http.StatusNotFound, "GB-TOPO-4040", "container not found: unknown")
	})

	ctx := makeTestContext(server, nil, []string{"unknown"})
	_, err := captureStdout(t, func() error { return statsShow(ctx) })
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "GB-TOPO-4040") {
		t.Errorf("error = %v, want GB-TOPO-4040", err)
	}
}
