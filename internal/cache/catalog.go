// Package cache provides the process-lifetime catalog caches.
package cache

import (
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/veridane/grcbridge/internal/core/domain"
	"github.com/veridane/grcbridge/pkg/cmap"
)

// Catalog caches discovered containers, the level table, and field
// definitions for the lifetime of the process.
type Catalog struct {
	// containers: "application:75" / "questionnaire:12" -> Container
	containers *cmap.Map[string, *domain.Container]

	// levelsByID: level id -> mapping
	levelsByID *cmap.Map[int, *domain.LevelMapping]

	// levelsByModule: owning module id -> mapping (bidirectional lookup)
	levelsByModule *cmap.Map[int, *domain.LevelMapping]

	// fields: container id -> active field definitions
	fields *cmap.Map[int, []*domain.FieldDefinition]

	containersLoaded atomic.Bool
	levelsLoaded     atomic.Bool
}

// NewCatalog creates an empty catalog cache.
func NewCatalog() *Catalog {
	return &Catalog{
		containers:     cmap.New[string, *domain.Container](),
		levelsByID:     cmap.New[int, *domain.LevelMapping](),
		levelsByModule: cmap.New[int, *domain.LevelMapping](),
		fields:         cmap.New[int, []*domain.FieldDefinition](),
	}
}

func containerKey(c *domain.Container) string {
	return fmt.Sprintf("%s:%d", c.Kind, c.ID)
}

// PutContainer stores a discovered container.
func (c *Catalog) PutContainer(container *domain.Container) {
	c.containers.Set(containerKey(container), container)
}

// Containers returns all cached containers.
func (c *Catalog) Containers() []*domain.Container {
	return c.containers.Values()
}

// ActiveNames returns the sorted display names of active cached
// containers, for NotFoundError suggestions.
func (c *Catalog) ActiveNames() []string {
	var names []string
	c.containers.Range(func(_ string, container *domain.Container) bool {
		if container.IsActive() {
			names = append(names, container.Name)
		}
		return true
	})
	sort.Strings(names)
	return names
}

// ContainersLoaded reports whether container discovery has run.
func (c *Catalog) ContainersLoaded() bool {
	return c.containersLoaded.Load()
}

// MarkContainersLoaded records that container discovery has run.
func (c *Catalog) MarkContainersLoaded() {
	c.containersLoaded.Store(true)
}

// PutLevel stores one level mapping under both its level id and its
// owning module id.
func (c *Catalog) PutLevel(m *domain.LevelMapping) {
	c.levelsByID.Set(m.ID, m)
	if m.ModuleID != 0 {
		c.levelsByModule.Set(m.ModuleID, m)
	}
}

// LevelByID looks a mapping up by level id.
func (c *Catalog) LevelByID(id int) (*domain.LevelMapping, bool) {
	return c.levelsByID.Get(id)
}

// LevelByModule looks a mapping up by owning module id.
func (c *Catalog) LevelByModule(moduleID int) (*domain.LevelMapping, bool) {
	return c.levelsByModule.Get(moduleID)
}

// Levels returns all cached level mappings.
func (c *Catalog) Levels() []*domain.LevelMapping {
	return c.levelsByID.Values()
}

// LevelsLoaded reports whether the level table has been fetched.
func (c *Catalog) LevelsLoaded() bool {
	return c.levelsLoaded.Load()
}

// MarkLevelsLoaded records that the level table has been fetched.
func (c *Catalog) MarkLevelsLoaded() {
	c.levelsLoaded.Store(true)
}

// PutFields stores the field definitions for a container. Callers must
// filter to active fields first; the cache never hands inactive fields
// to the transformation engine.
func (c *Catalog) PutFields(containerID int, fields []*domain.FieldDefinition) {
	c.fields.Set(containerID, fields)
}

// FieldsFor returns the cached field definitions for a container.
func (c *Catalog) FieldsFor(containerID int) ([]*domain.FieldDefinition, bool) {
	return c.fields.Get(containerID)
}

// Invalidate drops every cached entry and loaded marker. The next
// resolution rediscovers the world from the platform.
func (c *Catalog) Invalidate() {
	c.containers.Clear()
	c.levelsByID.Clear()
	c.levelsByModule.Clear()
	c.fields.Clear()
	c.containersLoaded.Store(false)
	c.levelsLoaded.Store(false)
}

// Stats summarizes cache occupancy for observability.
type Stats struct {
	Containers int
	Levels     int
	FieldSets  int
}

// Stats returns current occupancy.
func (c *Catalog) Stats() Stats {
	return Stats{
		Containers: c.containers.Count(),
		Levels:     c.levelsByID.Count(),
		FieldSets:  c.fields.Count(),
	}
}
