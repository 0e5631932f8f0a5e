// Package service provides the domain services for grcbridge.
package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/veridane/grcbridge/internal/cache"
	"github.com/veridane/grcbridge/internal/core/domain"
	"github.com/veridane/grcbridge/internal/privacy"
)

func newTestGateway(t *testing.T, f *fakePlatform, masking privacy.Config) *Gateway {
	t.Helper()
	client := f.client()
	sessions := NewSessionManager(client, Credentials{Username: "svc", Password: "secret"}, nil, nil)
	topo := NewTopology(client, cache.NewCatalog(), nil, nil)
	retrieval := NewRetrieval(client, topo, sessions, nil, nil)

	tokens, err := privacy.NewTokenStore()
	if err != nil {
		t.Fatalf("NewTokenStore: %v", err)
	}
	return NewGateway(GatewayConfig{
		Sessions:  sessions,
		Topology:  topo,
		Retrieval: retrieval,
		Masking:   masking,
		Tokens:    tokens,
	})
}

func TestGateway_DiscoverContainers(t *testing.T) {
	f := newFakePlatform()
	defer f.Close()
	f.seedCatalog()

	g := newTestGateway(t, f, privacy.DefaultConfig())
	containers, err := g.DiscoverContainers(context.Background(), nil)
	if err != nil {
		t.Fatalf("DiscoverContainers: %v", err)
	}
	if len(containers) != 4 {
		t.Fatalf("got %d containers", len(containers))
	}
	if containers[1].Name != "Risk Register" || containers[1].Kind != "application" {
		t.Errorf("containers[1] = %+v", containers[1])
	}
}

func TestGateway_ContainerFields(t *testing.T) {
	f := newFakePlatform()
	defer f.Close()
	f.seedCatalog()

	g := newTestGateway(t, f, privacy.DefaultConfig())
	fields, err := g.ContainerFields(context.Background(), "risk_register", nil)
	if err != nil {
		t.Fatalf("ContainerFields: %v", err)
	}
	if len(fields) != 4 {
		t.Fatalf("got %d fields, want 4 active", len(fields))
	}
	if fields[2].Name != "Risk Score" || fields[2].Type != "numeric" {
		t.Errorf("fields[2] = %+v", fields[2])
	}
}

func TestGateway_SearchRecordsMasksOutput(t *testing.T) {
	f := newFakePlatform()
	defer f.Close()
	f.seedCatalog()

	g := newTestGateway(t, f, privacy.Config{Enabled: true, Level: privacy.LevelStrict})
	resp, err := g.SearchRecords(context.Background(), &SearchRecordsRequest{
		Container:  "Risk Register",
		PageSize:   10,
		PageNumber: 1,
	})
	if err != nil {
		t.Fatalf("SearchRecords: %v", err)
	}
	if len(resp.Records) != 10 || resp.TotalCount != 120 {
		t.Fatalf("page shape: %d records, total %d", len(resp.Records), resp.TotalCount)
	}

	rec := resp.Records[0]
	// Alias re-keyed to display name, email masked, score untouched.
	if got := rec["Contact Email"].Text(); got != "[MASKED_EMAIL]" {
		t.Errorf("Contact Email = %q, want [MASKED_EMAIL]", got)
	}
	if rec["Risk Score"].Kind() != domain.KindNumber {
		t.Errorf("Risk Score = %v, want untouched number", rec["Risk Score"])
	}
	if _, ok := rec["Contact_Email"]; ok {
		t.Error("raw alias key leaked through transformation")
	}
}

func TestGateway_SearchRecordsMaskingOverride(t *testing.T) {
	f := newFakePlatform()
	defer f.Close()
	f.seedCatalog()

	g := newTestGateway(t, f, privacy.Config{Enabled: true, Level: privacy.LevelStrict})
	resp, err := g.SearchRecords(context.Background(), &SearchRecordsRequest{
		Container:  "Risk Register",
		PageSize:   1,
		PageNumber: 1,
		Masking:    &privacy.Config{Enabled: true, Level: privacy.LevelLight},
	})
	if err != nil {
		t.Fatalf("SearchRecords: %v", err)
	}

	got := resp.Records[0]["Contact Email"].Text()
	if got == "[MASKED_EMAIL]" {
		t.Error("per-call light override did not replace the strict level")
	}
	if !strings.HasSuffix(got, "@corp.example") {
		t.Errorf("light-masked email = %q, want domain retained", got)
	}
}

func TestGateway_AuthFailureIsMaskedAndTyped(t *testing.T) {
	f := newFakePlatform()
	defer f.Close()
	f.seedCatalog()
	f.password = "rotated"

	g := newTestGateway(t, f, privacy.DefaultConfig())
	_, err := g.SearchRecords(context.Background(), &SearchRecordsRequest{Container: "Risk Register"})
	if !errors.Is(err, domain.ErrAuthFailed) {
		t.Fatalf("err = %v, want ErrAuthFailed", err)
	}

	var de *domain.Error
	if !errors.As(err, &de) {
		t.Fatalf("err lost its type: %T", err)
	}
	if de.Cause != nil {
		t.Error("masked error must not carry the raw cause chain")
	}
}

func TestGateway_NotFoundKeepsSuggestions(t *testing.T) {
	f := newFakePlatform()
	defer f.Close()
	f.seedCatalog()

	g := newTestGateway(t, f, privacy.DefaultConfig())
	_, err := g.SearchRecords(context.Background(), &SearchRecordsRequest{Container: "Nonexistent App"})

	var nf *domain.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
	if len(nf.AvailableNames) == 0 {
		t.Error("masked NotFoundError lost its suggestions")
	}
}

func TestGateway_TopRecordsSortsByDisplayName(t *testing.T) {
	f := newFakePlatform()
	defer f.Close()
	f.seedCatalog()

	g := newTestGateway(t, f, privacy.DefaultConfig())
	resp, err := g.TopRecords(context.Background(), &TopRecordsRequest{
		Container: "Risk Register",
		Limit:     3,
		SortField: "Risk Score",
	})
	if err != nil {
		t.Fatalf("TopRecords: %v", err)
	}
	if len(resp.Records) != 3 {
		t.Fatalf("got %d records", len(resp.Records))
	}
	for i, rec := range resp.Records {
		if rec["Risk Score"].Num() != 9 {
			t.Errorf("record %d score = %v, want 9", i, rec["Risk Score"])
		}
	}
}

func TestGateway_FindRecord(t *testing.T) {
	f := newFakePlatform()
	defer f.Close()
	f.seedCatalog()

	g := newTestGateway(t, f, privacy.DefaultConfig())
	resp, err := g.FindRecord(context.Background(), &FindRecordRequest{
		Container: "Risk Register",
		RecordID:  "RR-007",
	})
	if err != nil {
		t.Fatalf("FindRecord: %v", err)
	}
	if resp.Record["Title"].Text() != "Risk 7" {
		t.Errorf("Title = %q", resp.Record["Title"].Text())
	}

	_, err = g.FindRecord(context.Background(), &FindRecordRequest{
		Container: "Risk Register",
		RecordID:  "RR-999",
	})
	if !errors.Is(err, domain.ErrRecordNotFound) {
		t.Errorf("miss = %v, want ErrRecordNotFound", err)
	}
}

func TestGateway_ContainerStats(t *testing.T) {
	f := newFakePlatform()
	defer f.Close()
	f.seedCatalog()

	g := newTestGateway(t, f, privacy.DefaultConfig())
	resp, err := g.ContainerStats(context.Background(), &ContainerStatsRequest{
		Container:  "Risk Register",
		SampleSize: 50,
		TopN:       3,
	})
	if err != nil {
		t.Fatalf("ContainerStats: %v", err)
	}
	if resp.TotalCount != 120 || resp.SampleSize != 50 {
		t.Errorf("counts: total %d sample %d", resp.TotalCount, resp.SampleSize)
	}
	if len(resp.TopPopulated) != 3 {
		t.Errorf("TopPopulated = %v", resp.TopPopulated)
	}
	if resp.Cache.Containers == 0 {
		t.Error("cache stats should report discovered containers")
	}
}

func TestGateway_Occupancy(t *testing.T) {
	f := newFakePlatform()
	defer f.Close()
	f.seedCatalog()

	g := newTestGateway(t, f, privacy.DefaultConfig())
	if _, err := g.DiscoverContainers(context.Background(), nil); err != nil {
		t.Fatalf("discover: %v", err)
	}

	occ := g.Occupancy()
	if occ.Containers != 4 {
		t.Errorf("Occupancy.Containers = %d, want 4", occ.Containers)
	}

	g.InvalidateCaches()
	if g.Occupancy().Containers != 0 {
		t.Error("InvalidateCaches should empty the catalog")
	}
}
