// Package service provides the domain services for grcbridge.
package service

import (
	"context"
	"errors"
	"sync"

	"github.com/veridane/grcbridge/internal/cache"
	"github.com/veridane/grcbridge/internal/core/domain"
	"github.com/veridane/grcbridge/internal/privacy"
	"github.com/veridane/grcbridge/internal/telemetry/logger"
	"github.com/veridane/grcbridge/internal/telemetry/metric"
)

// Gateway is the inbound operation facade. Every payload and error it
// returns has passed through the masking engine; callers never see raw
// records or transport internals.
type Gateway struct {
	sessions  *SessionManager
	topology  *Topology
	retrieval *Retrieval
	transform *Transform
	tokens    *privacy.TokenStore
	log       logger.Logger
	metrics   *metric.Registry

	maskmu  sync.RWMutex
	masking privacy.Config
}

// GatewayConfig wires the gateway's collaborators.
type GatewayConfig struct {
	Sessions  *SessionManager
	Topology  *Topology
	Retrieval *Retrieval
	Transform *Transform
	Masking   privacy.Config
	Tokens    *privacy.TokenStore
	Log       logger.Logger
	Metrics   *metric.Registry
}

// NewGateway creates the operation facade.
func NewGateway(cfg GatewayConfig) *Gateway {
	log := cfg.Log
	if log == nil {
		log = logger.Default()
	}
	transform := cfg.Transform
	if transform == nil {
		transform = NewTransform()
	}
	return &Gateway{
		sessions:  cfg.Sessions,
		topology:  cfg.Topology,
		retrieval: cfg.Retrieval,
		transform: transform,
		masking:   cfg.Masking,
		tokens:    cfg.Tokens,
		log:       log,
		metrics:   cfg.Metrics,
	}
}

// protectorFor builds the masking gate for one call, overlaying a
// per-call override on the process configuration.
func (g *Gateway) protectorFor(override *privacy.Config) *privacy.Protector {
	g.maskmu.RLock()
	base := g.masking
	g.maskmu.RUnlock()

	p := privacy.NewProtector(base.Merge(override), g.tokens)
	if g.metrics != nil {
		p.Observe(func(cat privacy.Category) {
			g.metrics.MaskedValues.WithLabelValues(string(cat)).Inc()
		})
	}
	return p
}

// SetMasking replaces the process masking configuration. Used for
// config hot reload; in-flight calls keep the protector they built.
func (g *Gateway) SetMasking(cfg privacy.Config) {
	g.maskmu.Lock()
	g.masking = cfg
	g.maskmu.Unlock()
}

// asDomain normalizes an escaping error to the typed taxonomy. Already
// typed errors pass through; everything else is a platform failure.
func asDomain(err error) error {
	var de *domain.Error
	var nf *domain.NotFoundError
	var re *domain.RetrievalError
	if errors.As(err, &de) || errors.As(err, &nf) || errors.As(err, &re) {
		return err
	}
	return domain.ErrVendorUnavailable.WithDetails(err.Error()).WithCause(err)
}

// ============================================================================
// Discover Containers Operation
// ============================================================================

// ContainerSummary is the caller-facing shape of one container.
type ContainerSummary struct {
	ID          int    `json:"id"`
	Kind        string `json:"kind"`
	Name        string `json:"name"`
	Alias       string `json:"alias,omitempty"`
	Status      string `json:"status"`
	Synthesized bool   `json:"synthesized,omitempty"`
}

// DiscoverContainers lists every known container.
func (g *Gateway) DiscoverContainers(ctx context.Context, masking *privacy.Config) ([]ContainerSummary, error) {
	p := g.protectorFor(masking)

	var out []ContainerSummary
	err := g.sessions.Do(ctx, func(ctx context.Context) error {
		containers, err := g.topology.DiscoverContainers(ctx)
		if err != nil {
			return err
		}
		out = make([]ContainerSummary, len(containers))
		for i, c := range containers {
			out[i] = ContainerSummary{
				ID:          c.ID,
				Kind:        string(c.Kind),
				Name:        c.Name,
				Alias:       c.Alias,
				Status:      c.Status.String(),
				Synthesized: c.Synthesized,
			}
		}
		return nil
	})
	if err != nil {
		return nil, p.Error(asDomain(err))
	}
	return out, nil
}

// ============================================================================
// Container Fields Operation
// ============================================================================

// FieldSummary is the caller-facing shape of one field definition.
type FieldSummary struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Alias      string `json:"alias"`
	Type       string `json:"type"`
	Required   bool   `json:"required,omitempty"`
	Calculated bool   `json:"calculated,omitempty"`
	Key        bool   `json:"key,omitempty"`
}

// ContainerFields returns the active field definitions of a container.
func (g *Gateway) ContainerFields(ctx context.Context, nameOrAlias string, masking *privacy.Config) ([]FieldSummary, error) {
	p := g.protectorFor(masking)

	var out []FieldSummary
	err := g.sessions.Do(ctx, func(ctx context.Context) error {
		c, err := g.topology.ResolveContainer(ctx, nameOrAlias)
		if err != nil {
			return err
		}
		fields, err := g.topology.Fields(ctx, c)
		if err != nil {
			return err
		}
		out = make([]FieldSummary, len(fields))
		for i, f := range fields {
			out[i] = FieldSummary{
				ID:         f.ID,
				Name:       f.Name,
				Alias:      f.Alias,
				Type:       f.Type.String(),
				Required:   f.IsRequired,
				Calculated: f.IsCalculated,
				Key:        f.IsKey,
			}
		}
		return nil
	})
	if err != nil {
		return nil, p.Error(asDomain(err))
	}
	return out, nil
}

// ============================================================================
// Search Records Operation
// ============================================================================

// SearchRecordsRequest contains parameters for a record search.
type SearchRecordsRequest struct {
	Container    string
	PageSize     int
	PageNumber   int
	FullData     bool
	IncludeEmpty bool
	Masking      *privacy.Config
}

// SearchRecordsResponse contains one masked record page.
type SearchRecordsResponse struct {
	Container  string                     `json:"container"`
	Records    []domain.TransformedRecord `json:"records"`
	TotalCount int                        `json:"total_count"`
	Page       int                        `json:"page"`
	PageSize   int                        `json:"page_size"`
	HasMore    bool                       `json:"has_more"`
	Capped     bool                       `json:"capped,omitempty"`
}

// SearchRecords retrieves, transforms, and masks one record page.
func (g *Gateway) SearchRecords(ctx context.Context, req *SearchRecordsRequest) (*SearchRecordsResponse, error) {
	p := g.protectorFor(req.Masking)

	var resp *SearchRecordsResponse
	err := g.sessions.Do(ctx, func(ctx context.Context) error {
		c, err := g.topology.ResolveContainer(ctx, req.Container)
		if err != nil {
			return err
		}
		fields := g.fieldsLenient(ctx, c)

		page, err := g.retrieval.SearchRecords(ctx, c, req.PageSize, req.PageNumber, req.FullData)
		if err != nil {
			return err
		}

		records := g.transform.Records(page.Records, fields, TransformOptions{IncludeEmpty: req.IncludeEmpty})
		resp = &SearchRecordsResponse{
			Container:  c.Name,
			Records:    p.Records(records),
			TotalCount: page.TotalCount,
			Page:       page.Page,
			PageSize:   page.PageSize,
			HasMore:    page.HasMore,
			Capped:     page.Capped,
		}
		return nil
	})
	if err != nil {
		return nil, p.Error(asDomain(err))
	}
	return resp, nil
}

// ============================================================================
// Top Records Operation
// ============================================================================

// TopRecordsRequest contains parameters for a top-N extraction.
type TopRecordsRequest struct {
	Container string
	Limit     int
	SortField string
	Masking   *privacy.Config
}

// TopRecordsResponse contains the masked top records.
type TopRecordsResponse struct {
	Container string                     `json:"container"`
	Records   []domain.TransformedRecord `json:"records"`
}

// TopRecords returns the first n records, sorted descending by the
// requested field. The sort field may be given as display name or
// alias.
func (g *Gateway) TopRecords(ctx context.Context, req *TopRecordsRequest) (*TopRecordsResponse, error) {
	p := g.protectorFor(req.Masking)

	var resp *TopRecordsResponse
	err := g.sessions.Do(ctx, func(ctx context.Context) error {
		c, err := g.topology.ResolveContainer(ctx, req.Container)
		if err != nil {
			return err
		}
		fields := g.fieldsLenient(ctx, c)

		records, err := g.retrieval.TopRecords(ctx, c, req.Limit, sortAlias(fields, req.SortField))
		if err != nil {
			return err
		}

		transformed := g.transform.Records(records, fields, TransformOptions{})
		resp = &TopRecordsResponse{
			Container: c.Name,
			Records:   p.Records(transformed),
		}
		return nil
	})
	if err != nil {
		return nil, p.Error(asDomain(err))
	}
	return resp, nil
}

// ============================================================================
// Find Record Operation
// ============================================================================

// FindRecordRequest contains parameters for a single-record lookup.
type FindRecordRequest struct {
	Container    string
	RecordID     string
	IncludeEmpty bool
	Masking      *privacy.Config
}

// FindRecordResponse contains one masked record.
type FindRecordResponse struct {
	Container string                   `json:"container"`
	Record    domain.TransformedRecord `json:"record"`
}

// FindRecord locates one record by id.
func (g *Gateway) FindRecord(ctx context.Context, req *FindRecordRequest) (*FindRecordResponse, error) {
	p := g.protectorFor(req.Masking)

	var resp *FindRecordResponse
	err := g.sessions.Do(ctx, func(ctx context.Context) error {
		c, err := g.topology.ResolveContainer(ctx, req.Container)
		if err != nil {
			return err
		}
		fields := g.fieldsLenient(ctx, c)

		record, err := g.retrieval.FindRecord(ctx, c, req.RecordID)
		if err != nil {
			return err
		}

		transformed := g.transform.Record(record, domain.DisplayNames(fields), TransformOptions{IncludeEmpty: req.IncludeEmpty})
		resp = &FindRecordResponse{
			Container: c.Name,
			Record:    p.Record(transformed),
		}
		return nil
	})
	if err != nil {
		return nil, p.Error(asDomain(err))
	}
	return resp, nil
}

// ============================================================================
// Container Stats Operation
// ============================================================================

// ContainerStatsRequest contains parameters for a statistics run.
type ContainerStatsRequest struct {
	Container  string
	SampleSize int
	TopN       int
	Masking    *privacy.Config
}

// ContainerStatsResponse summarizes a container's population quality.
type ContainerStatsResponse struct {
	Container    string         `json:"container"`
	TotalCount   int            `json:"total_count"`
	SampleSize   int            `json:"sample_size"`
	Fields       []FieldQuality `json:"fields"`
	TopPopulated []string       `json:"top_populated"`
	EmptyFields  []string       `json:"empty_fields"`
	Cache        cache.Stats    `json:"cache"`
}

// ContainerStats computes field population statistics over a record
// sample. Field aliases and counts carry no record values, so no
// masking pass runs over the report itself.
func (g *Gateway) ContainerStats(ctx context.Context, req *ContainerStatsRequest) (*ContainerStatsResponse, error) {
	p := g.protectorFor(req.Masking)

	sample := req.SampleSize
	if sample <= 0 {
		sample = 100
	}

	var resp *ContainerStatsResponse
	err := g.sessions.Do(ctx, func(ctx context.Context) error {
		c, err := g.topology.ResolveContainer(ctx, req.Container)
		if err != nil {
			return err
		}
		page, err := g.retrieval.SearchRecords(ctx, c, sample, 1, false)
		if err != nil {
			return err
		}

		report := AnalyzeQuality(page.Records, req.TopN)
		resp = &ContainerStatsResponse{
			Container:    c.Name,
			TotalCount:   page.TotalCount,
			SampleSize:   len(page.Records),
			Fields:       report.Fields,
			TopPopulated: report.TopPopulated,
			EmptyFields:  report.EmptyFields,
			Cache:        g.topology.CacheStats(),
		}
		return nil
	})
	if err != nil {
		return nil, p.Error(asDomain(err))
	}
	return resp, nil
}

// ============================================================================
// Support
// ============================================================================

// fieldsLenient fetches field definitions, tolerating failure: records
// can still flow with alias keys when the definition endpoint is
// unavailable, which synthesized containers routinely hit.
func (g *Gateway) fieldsLenient(ctx context.Context, c *domain.Container) []*domain.FieldDefinition {
	fields, err := g.topology.Fields(ctx, c)
	if err != nil {
		g.log.Warn("field definitions unavailable, records keep alias keys",
			"container", c.Name, "error", err)
		return nil
	}
	return fields
}

// sortAlias maps a display-named sort field back to its alias.
func sortAlias(fields []*domain.FieldDefinition, sortField string) string {
	if sortField == "" {
		return ""
	}
	for _, f := range fields {
		if f.Name == sortField {
			return f.Alias
		}
	}
	return sortField
}

// Occupancy samples cache and token-store sizes for the metrics
// collector.
func (g *Gateway) Occupancy() metric.Occupancy {
	stats := g.topology.CacheStats()
	occ := metric.Occupancy{
		Containers: stats.Containers,
		Levels:     stats.Levels,
		FieldSets:  stats.FieldSets,
	}
	if g.tokens != nil {
		occ.Tokens = g.tokens.Size()
	}
	return occ
}

// InvalidateCaches drops the discovery caches and the session-scoped
// retrieval cache.
func (g *Gateway) InvalidateCaches() {
	g.topology.Invalidate()
	g.retrieval.ClearSessionCache()
}
