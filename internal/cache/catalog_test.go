// Package cache provides the process-lifetime catalog caches.
package cache

import (
	"testing"

	"github.com/veridane/grcbridge/internal/core/domain"
)

func TestCatalog_Containers(t *testing.T) {
	c := NewCatalog()

	c.PutContainer(&domain.Container{ID: 75, Kind: domain.KindApplication, Name: "Risk Register", Status: domain.StatusActive})
	c.PutContainer(&domain.Container{ID: 75, Kind: domain.KindQuestionnaire, Name: "Vendor Assessment", Status: domain.StatusActive})
	c.PutContainer(&domain.Container{ID: 80, Kind: domain.KindApplication, Name: "Old App", Status: domain.StatusRetired})

	// Same numeric id under different kinds must not collide.
	if got := len(c.Containers()); got != 3 {
		t.Fatalf("Containers() = %d entries, want 3", got)
	}

	names := c.ActiveNames()
	if len(names) != 2 {
		t.Fatalf("ActiveNames() = %v, want 2 active", names)
	}
	if names[0] != "Risk Register" || names[1] != "Vendor Assessment" {
		t.Errorf("ActiveNames() = %v, want sorted active names", names)
	}
}

func TestCatalog_Levels(t *testing.T) {
	c := NewCatalog()
	c.PutLevel(&domain.LevelMapping{ID: 101, Alias: "Risk_Register", ModuleID: 75, ModuleName: "Risk Register"})

	if m, ok := c.LevelByID(101); !ok || m.Alias != "Risk_Register" {
		t.Errorf("LevelByID(101) = %+v, %v", m, ok)
	}
	if m, ok := c.LevelByModule(75); !ok || m.ID != 101 {
		t.Errorf("LevelByModule(75) = %+v, %v", m, ok)
	}
	if _, ok := c.LevelByModule(999); ok {
		t.Error("LevelByModule(999) should miss")
	}
}

func TestCatalog_Fields(t *testing.T) {
	c := NewCatalog()
	fields := []*domain.FieldDefinition{{ID: 1, Alias: "risk_score", Name: "Risk Score", IsActive: true}}
	c.PutFields(75, fields)

	got, ok := c.FieldsFor(75)
	if !ok || len(got) != 1 || got[0].Alias != "risk_score" {
		t.Errorf("FieldsFor(75) = %v, %v", got, ok)
	}
	if _, ok := c.FieldsFor(76); ok {
		t.Error("FieldsFor(76) should miss")
	}
}

func TestCatalog_Invalidate(t *testing.T) {
	c := NewCatalog()
	c.PutContainer(&domain.Container{ID: 1, Kind: domain.KindApplication, Name: "A", Status: domain.StatusActive})
	c.PutLevel(&domain.LevelMapping{ID: 2, ModuleID: 1})
	c.PutFields(1, nil)
	c.MarkContainersLoaded()
	c.MarkLevelsLoaded()

	c.Invalidate()

	if c.ContainersLoaded() || c.LevelsLoaded() {
		t.Error("loaded markers should reset on Invalidate")
	}
	s := c.Stats()
	if s.Containers != 0 || s.Levels != 0 || s.FieldSets != 0 {
		t.Errorf("Stats() after Invalidate = %+v, want empty", s)
	}
}

func TestCatalog_LoadedMarkers(t *testing.T) {
	c := NewCatalog()
	if c.ContainersLoaded() || c.LevelsLoaded() {
		t.Error("fresh catalog should report nothing loaded")
	}
	c.MarkContainersLoaded()
	c.MarkLevelsLoaded()
	if !c.ContainersLoaded() || !c.LevelsLoaded() {
		t.Error("markers should stick")
	}
}
