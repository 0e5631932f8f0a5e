// Package service provides the domain services for grcbridge.
package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/veridane/grcbridge/internal/cache"
	"github.com/veridane/grcbridge/internal/core/domain"
	"github.com/veridane/grcbridge/internal/platform/grcapi"
	"github.com/veridane/grcbridge/internal/telemetry/logger"
	"github.com/veridane/grcbridge/internal/telemetry/metric"
)

// Topology discovers and caches the mapping between logical containers
// and the platform's level addressing scheme, and derives the one
// stable retrieval path per container.
type Topology struct {
	client  *grcapi.Client
	catalog *cache.Catalog
	log     logger.Logger
	metrics *metric.Registry
}

// NewTopology creates a topology resolver over the given catalog cache.
func NewTopology(client *grcapi.Client, catalog *cache.Catalog, log logger.Logger, metrics *metric.Registry) *Topology {
	if log == nil {
		log = logger.Default()
	}
	return &Topology{
		client:  client,
		catalog: catalog,
		log:     log,
		metrics: metrics,
	}
}

// DiscoverContainers returns every known container, discovering on
// first call, sorted by display name.
func (t *Topology) DiscoverContainers(ctx context.Context) ([]*domain.Container, error) {
	if err := t.ensureContainers(ctx, false); err != nil {
		return nil, err
	}
	return t.sortedContainers(), nil
}

// ResolveContainer finds a container by name or alias.
//
// The matching ladder runs exact against the container catalog, then
// exact against the level table's module linkage, then substring
// against the catalog, then substring against the level table. A
// level-only match with no catalog record synthesizes a
// minimal active container: a level reference is still usable even when
// the high-level catalog omits it. One forced cache refresh runs before
// the lookup fails with the names of the active containers.
func (t *Topology) ResolveContainer(ctx context.Context, nameOrAlias string) (*domain.Container, error) {
	q := strings.TrimSpace(nameOrAlias)
	if q == "" {
		return nil, domain.ErrMissingArgument.WithDetails("container name or alias is required")
	}

	c, err := t.resolveOnce(ctx, q, false)
	if err != nil || c != nil {
		return c, err
	}

	t.log.Debug("container not in cache, forcing discovery refresh", "query", q)
	c, err = t.resolveOnce(ctx, q, true)
	if err != nil || c != nil {
		return c, err
	}

	return nil, domain.NewNotFound(q, t.catalog.ActiveNames())
}

// resolveOnce runs one pass of the matching ladder. A nil, nil return
// means no match.
func (t *Topology) resolveOnce(ctx context.Context, q string, force bool) (*domain.Container, error) {
	if err := t.ensureContainers(ctx, force); err != nil {
		return nil, err
	}
	containers := t.sortedContainers()

	// 1. Exact match on name or alias.
	for _, c := range containers {
		if c.IsActive() && c.MatchesExact(q) {
			return c, nil
		}
	}

	if err := t.ensureLevels(ctx, force); err != nil {
		return nil, err
	}
	levels := t.sortedLevels()

	// 2. Exact match against the level table's module linkage. Runs
	// before any substring pass: a query that names a module precisely
	// must not be claimed by a loose catalog match.
	var mapping *domain.LevelMapping
	for _, m := range levels {
		if strings.EqualFold(m.ModuleName, q) || strings.EqualFold(m.Alias, q) {
			mapping = m
			break
		}
	}

	// 3. Substring match on catalog name or alias.
	if mapping == nil {
		for _, c := range containers {
			if c.IsActive() && c.MatchesSubstring(q) {
				return c, nil
			}
		}
	}

	// 4. Substring match against module name or alias.
	if mapping == nil {
		for _, m := range levels {
			if m.MatchesModule(q) {
				mapping = m
				break
			}
		}
	}
	if mapping == nil {
		return nil, nil
	}

	// A catalog record linked to the matched level wins over synthesis.
	for _, c := range containers {
		if c.IsActive() && c.LevelID == mapping.ID {
			return c, nil
		}
	}

	synthesized := &domain.Container{
		ID:          mapping.ModuleID,
		Kind:        domain.KindApplication,
		Name:        mapping.ModuleName,
		Alias:       mapping.Alias,
		Status:      domain.StatusActive,
		LevelID:     mapping.ID,
		Synthesized: true,
	}
	t.catalog.PutContainer(synthesized)
	t.log.Info("synthesized container from level mapping",
		"module", mapping.ModuleName, "level_id", mapping.ID)
	return synthesized, nil
}

// RetrievalPath derives the stable record path for a container and
// attaches it. Once set, the path is never recomputed unless the
// catalog cache is invalidated.
//
// Applications are addressed by level alias. Questionnaires use the
// instance+module shape and get a one-time existence probe; a failed
// probe marks the path unverified but still returns it, so the caller
// can attempt retrieval and surface the real error.
func (t *Topology) RetrievalPath(ctx context.Context, c *domain.Container) (*domain.RetrievalPath, error) {
	if c.Path != nil {
		return c.Path, nil
	}
	if err := t.ensureLevels(ctx, false); err != nil {
		return nil, err
	}

	mapping, ok := t.catalog.LevelByID(c.LevelID)

	var path *domain.RetrievalPath
	switch c.Kind {
	case domain.KindQuestionnaire:
		if !ok {
			return nil, domain.ErrUnsupportedPath.WithDetails(
				fmt.Sprintf("questionnaire %q has no level mapping", c.Name))
		}
		p := fmt.Sprintf("contentapi/quest/%s/%d", t.client.Instance(), mapping.ModuleID)
		path = &domain.RetrievalPath{Path: p, Verified: true}
		if err := t.client.Probe(ctx, p); err != nil {
			path.Verified = false
			t.log.Warn("questionnaire path probe failed, keeping path unverified",
				"container", c.Name, "path", p, "error", err)
		}

	default:
		alias := c.Alias
		if ok && mapping.Alias != "" {
			alias = mapping.Alias
		}
		if alias == "" {
			return nil, domain.ErrUnsupportedPath.WithDetails(
				fmt.Sprintf("container %q has no level alias", c.Name))
		}
		path = &domain.RetrievalPath{Path: "contentapi/" + alias, Verified: true}
	}

	c.Path = path
	return path, nil
}

// Fields returns the active field definitions for a container, fetching
// and caching them on first call.
func (t *Topology) Fields(ctx context.Context, c *domain.Container) ([]*domain.FieldDefinition, error) {
	if fields, ok := t.catalog.FieldsFor(c.ID); ok {
		t.countCache("fields", true)
		return fields, nil
	}
	t.countCache("fields", false)

	rows, err := t.client.Fields(ctx, c.ID)
	if err != nil {
		return nil, err
	}

	all := make([]*domain.FieldDefinition, len(rows))
	for i, row := range rows {
		all[i] = &domain.FieldDefinition{
			ID:           row.ID,
			Name:         row.Name,
			Alias:        row.Alias,
			Type:         domain.FieldType(row.Type),
			IsActive:     row.IsActive,
			IsCalculated: row.IsCalculated,
			IsRequired:   row.IsRequired,
			IsKey:        row.IsKey,
		}
	}

	active := domain.ActiveOnly(all)
	t.catalog.PutFields(c.ID, active)
	return active, nil
}

// Invalidate drops every cached discovery result.
func (t *Topology) Invalidate() {
	t.catalog.Invalidate()
}

// CacheStats reports catalog occupancy.
func (t *Topology) CacheStats() cache.Stats {
	return t.catalog.Stats()
}

// ensureContainers loads the application and questionnaire catalogs
// once, or again when forced.
func (t *Topology) ensureContainers(ctx context.Context, force bool) error {
	if !force && t.catalog.ContainersLoaded() {
		t.countCache("containers", true)
		return nil
	}
	t.countCache("containers", false)

	apps, err := t.client.Applications(ctx)
	if err != nil {
		return err
	}
	for _, row := range apps {
		t.catalog.PutContainer(&domain.Container{
			ID:         row.ID,
			Kind:       domain.KindApplication,
			Name:       row.Name,
			Alias:      row.Alias,
			ExternalID: row.GUID,
			Status:     domain.ContainerStatus(row.Status),
			LevelID:    row.LevelID,
		})
	}

	quests, err := t.client.Questionnaires(ctx)
	if err != nil {
		return err
	}
	for _, row := range quests {
		t.catalog.PutContainer(&domain.Container{
			ID:         row.ID,
			Kind:       domain.KindQuestionnaire,
			Name:       row.Name,
			Alias:      row.Alias,
			ExternalID: row.GUID,
			Status:     domain.ContainerStatus(row.Status),
			LevelID:    row.TargetLevelID,
		})
	}

	t.catalog.MarkContainersLoaded()
	t.log.Info("container catalog loaded",
		"applications", len(apps), "questionnaires", len(quests))
	return nil
}

// ensureLevels loads the level table once, dropping soft-deleted rows.
func (t *Topology) ensureLevels(ctx context.Context, force bool) error {
	if !force && t.catalog.LevelsLoaded() {
		t.countCache("levels", true)
		return nil
	}
	t.countCache("levels", false)

	rows, err := t.client.Levels(ctx)
	if err != nil {
		return err
	}

	kept := 0
	for _, row := range rows {
		if row.IsDeleted {
			continue
		}
		t.catalog.PutLevel(&domain.LevelMapping{
			ID:         row.ID,
			Alias:      row.Alias,
			ModuleID:   row.ModuleID,
			ModuleName: row.ModuleName,
			IsDeleted:  row.IsDeleted,
		})
		kept++
	}

	t.catalog.MarkLevelsLoaded()
	t.log.Info("level table loaded", "levels", kept, "dropped", len(rows)-kept)
	return nil
}

// sortedContainers returns cached containers in a deterministic order,
// so a query matching several candidates always resolves the same one.
func (t *Topology) sortedContainers() []*domain.Container {
	containers := t.catalog.Containers()
	sort.Slice(containers, func(i, j int) bool {
		if containers[i].Name != containers[j].Name {
			return containers[i].Name < containers[j].Name
		}
		return containers[i].ID < containers[j].ID
	})
	return containers
}

// sortedLevels returns cached level mappings ordered by id.
func (t *Topology) sortedLevels() []*domain.LevelMapping {
	levels := t.catalog.Levels()
	sort.Slice(levels, func(i, j int) bool { return levels[i].ID < levels[j].ID })
	return levels
}

func (t *Topology) countCache(name string, hit bool) {
	if t.metrics == nil {
		return
	}
	if hit {
		t.metrics.CacheHits.WithLabelValues(name).Inc()
	} else {
		t.metrics.CacheMisses.WithLabelValues(name).Inc()
	}
}
