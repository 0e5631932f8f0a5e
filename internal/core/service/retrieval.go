// Package service provides the domain services for grcbridge.
package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/veridane/grcbridge/internal/core/domain"
	"github.com/veridane/grcbridge/internal/platform/grcapi"
	"github.com/veridane/grcbridge/internal/telemetry/logger"
	"github.com/veridane/grcbridge/internal/telemetry/metric"
	"github.com/veridane/grcbridge/pkg/cmap"
)

const (
	// DefaultPageSize applies when the caller passes no page size.
	DefaultPageSize = 50

	// MaxPageSize bounds a single requested page.
	MaxPageSize = 500

	// fullFetchBatchSize is the fixed batch size of the sequential
	// full-retrieval fallback.
	fullFetchBatchSize = 250

	// maxFullFetchBatches caps the batched fallback loop against a
	// misbehaving or unbounded remote data set.
	maxFullFetchBatches = 50

	// DefaultTopN applies when a top-N extraction passes no limit.
	DefaultTopN = 10
)

// PageResult is one page of raw records with pagination facts.
type PageResult struct {
	Records    []domain.RawRecord
	TotalCount int
	Page       int
	PageSize   int
	HasMore    bool

	// Capped reports that the batched full fetch stopped at the
	// iteration cap, so TotalCount undercounts the source.
	Capped bool
}

// fullFetch is one completed full retrieval held in the session cache.
type fullFetch struct {
	records []domain.RawRecord
	capped  bool
}

// Retrieval fetches records over resolved container paths, choosing
// between full-set and paged strategies with fallback between them.
// Record pages are never cached; the one exception is the full fetch
// forced by a count-probe ambiguity, which is kept for the remainder of
// the session so repeated page requests do not re-trigger it.
type Retrieval struct {
	client   *grcapi.Client
	topology *Topology
	sessions *SessionManager
	log      logger.Logger
	metrics  *metric.Registry

	mu         sync.Mutex
	cacheToken string
	fullCache  *cmap.Map[string, *fullFetch]
}

// NewRetrieval creates a retrieval engine.
func NewRetrieval(client *grcapi.Client, topology *Topology, sessions *SessionManager, log logger.Logger, metrics *metric.Registry) *Retrieval {
	if log == nil {
		log = logger.Default()
	}
	return &Retrieval{
		client:    client,
		topology:  topology,
		sessions:  sessions,
		log:       log,
		metrics:   metrics,
		fullCache: cmap.New[string, *fullFetch](),
	}
}

// SearchRecords returns one page of records for a container.
//
// With fullData the whole set is fetched (bulk, then batched on
// failure) and sliced locally. Without it a count probe and a bounded
// page fetch run first; count ambiguity or a transient page failure
// falls back to the full retrieval path. A confirmed not-found never
// falls back. An exhausted chain surfaces as RetrievalError; an empty
// page is returned only when the source legitimately reports none.
func (r *Retrieval) SearchRecords(ctx context.Context, c *domain.Container, pageSize, pageNumber int, fullData bool) (*PageResult, error) {
	pageSize, pageNumber = normalizePage(pageSize, pageNumber)

	path, err := r.topology.RetrievalPath(ctx, c)
	if err != nil {
		return nil, err
	}

	if fullData {
		return r.pageFromFull(ctx, path.Path, pageNumber, pageSize)
	}

	count, counted, err := r.client.ContentCount(ctx, path.Path)
	if err != nil {
		if confirmedNotFound(err) {
			return nil, retrievalFailure(path.Path, err)
		}
		r.noteFallback("count probe failed, falling back to full retrieval", path.Path, err)
		return r.pageFromFull(ctx, path.Path, pageNumber, pageSize)
	}
	if !counted {
		// Some deployments never report a count. Fetch everything once
		// and derive the count locally, cached for this session.
		r.noteFallback("count probe ambiguous, falling back to cached full retrieval", path.Path, nil)
		return r.pageFromCachedFull(ctx, path.Path, pageNumber, pageSize)
	}

	skip := (pageNumber - 1) * pageSize
	records, err := r.client.ContentPage(ctx, path.Path, skip, pageSize)
	if err != nil {
		if confirmedNotFound(err) {
			return nil, retrievalFailure(path.Path, err)
		}
		r.noteFallback("page fetch failed, falling back to full retrieval", path.Path, err)
		return r.pageFromFull(ctx, path.Path, pageNumber, pageSize)
	}

	r.countStrategy("paged")
	return &PageResult{
		Records:    records,
		TotalCount: count,
		Page:       pageNumber,
		PageSize:   pageSize,
		HasMore:    skip+len(records) < count,
	}, nil
}

// TopRecords fetches the full record set and returns the first n,
// sorted descending by sortField when one is given. Numeric or
// lexicographic compare is chosen from the first observed value.
func (r *Retrieval) TopRecords(ctx context.Context, c *domain.Container, n int, sortField string) ([]domain.RawRecord, error) {
	if n <= 0 {
		n = DefaultTopN
	}

	path, err := r.topology.RetrievalPath(ctx, c)
	if err != nil {
		return nil, err
	}

	all, _, err := r.fetchAll(ctx, path.Path)
	if err != nil {
		return nil, retrievalFailure(path.Path, err)
	}

	if sortField != "" {
		sortDescending(all, sortField)
	}
	if len(all) > n {
		all = all[:n]
	}
	return all, nil
}

// FindRecord locates one record by its key field value.
func (r *Retrieval) FindRecord(ctx context.Context, c *domain.Container, id string) (domain.RawRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrMissingArgument.WithDetails("record id is required")
	}

	path, err := r.topology.RetrievalPath(ctx, c)
	if err != nil {
		return nil, err
	}

	aliases := r.keyAliases(ctx, c)

	all, _, err := r.fetchAll(ctx, path.Path)
	if err != nil {
		return nil, retrievalFailure(path.Path, err)
	}

	for _, rec := range all {
		for _, alias := range aliases {
			if v, ok := rec[alias]; ok && strings.EqualFold(v.Text(), id) {
				return rec, nil
			}
		}
	}
	return nil, domain.ErrRecordNotFound.WithDetails("no record matches id " + id)
}

// keyAliases returns the aliases to match an id against: declared key
// fields first, then the conventional id keys. Field definitions may be
// missing for synthesized containers; matching proceeds on the
// conventional keys alone.
func (r *Retrieval) keyAliases(ctx context.Context, c *domain.Container) []string {
	aliases := []string{}
	fields, err := r.topology.Fields(ctx, c)
	if err != nil {
		r.log.Warn("field definitions unavailable, matching on conventional id keys",
			"container", c.Name, "error", err)
	} else {
		for _, f := range fields {
			if f.IsKey && f.Alias != "" {
				aliases = append(aliases, f.Alias)
			}
		}
	}
	return append(aliases, "Id", "ID", "id")
}

// ClearSessionCache drops the session-scoped full-fetch cache.
func (r *Retrieval) ClearSessionCache() {
	r.mu.Lock()
	r.fullCache.Clear()
	r.cacheToken = ""
	r.mu.Unlock()
}

// fetchAll retrieves the complete record set: one bulk fetch, then a
// batched sequential fallback bounded by the iteration cap. The bool
// return reports that the cap was hit.
func (r *Retrieval) fetchAll(ctx context.Context, path string) ([]domain.RawRecord, bool, error) {
	all, err := r.client.ContentPage(ctx, path, 0, -1)
	if err == nil {
		r.countStrategy("bulk")
		return all, false, nil
	}
	if confirmedNotFound(err) {
		return nil, false, err
	}

	r.noteFallback("bulk fetch failed, falling back to batched retrieval", path, err)

	var out []domain.RawRecord
	for batch := 0; batch < maxFullFetchBatches; batch++ {
		page, perr := r.client.ContentPage(ctx, path, batch*fullFetchBatchSize, fullFetchBatchSize)
		if perr != nil {
			// A mid-loop failure is a hard failure, not a short set.
			return nil, false, perr
		}
		out = append(out, page...)
		if len(page) < fullFetchBatchSize {
			r.countStrategy("batched")
			return out, false, nil
		}
	}

	if r.metrics != nil {
		r.metrics.RetrievalCapped.Inc()
	}
	r.log.Warn("batched retrieval stopped at the iteration cap",
		"path", path, "batches", maxFullFetchBatches, "records", len(out))
	r.countStrategy("batched")
	return out, true, nil
}

// pageFromFull serves a page by slicing a fresh full fetch. Nothing is
// retained, so a later request observes source changes.
func (r *Retrieval) pageFromFull(ctx context.Context, path string, pageNumber, pageSize int) (*PageResult, error) {
	all, capped, err := r.fetchAll(ctx, path)
	if err != nil {
		return nil, retrievalFailure(path, err)
	}
	return pageOf(all, pageNumber, pageSize, capped), nil
}

// pageFromCachedFull serves a page by slicing the session-cached full
// fetch, fetching it on first need. Reserved for the count-ambiguity
// path, where the source cannot page at all and every page request
// would otherwise repeat the full retrieval.
func (r *Retrieval) pageFromCachedFull(ctx context.Context, path string, pageNumber, pageSize int) (*PageResult, error) {
	r.mu.Lock()
	if tok := r.sessions.Token(); tok != r.cacheToken {
		r.fullCache.Clear()
		r.cacheToken = tok
	}
	r.mu.Unlock()

	ff, ok := r.fullCache.Get(path)
	if ok {
		r.countCache(true)
	} else {
		r.countCache(false)
		records, capped, err := r.fetchAll(ctx, path)
		if err != nil {
			return nil, retrievalFailure(path, err)
		}
		ff = &fullFetch{records: records, capped: capped}
		r.fullCache.Set(path, ff)
	}

	return pageOf(ff.records, pageNumber, pageSize, ff.capped), nil
}

// pageOf slices a full result set into the requested page.
func pageOf(all []domain.RawRecord, pageNumber, pageSize int, capped bool) *PageResult {
	start := (pageNumber - 1) * pageSize
	end := start + pageSize
	var records []domain.RawRecord
	if start < len(all) {
		if end > len(all) {
			end = len(all)
		}
		records = all[start:end]
	}
	return &PageResult{
		Records:    records,
		TotalCount: len(all),
		Page:       pageNumber,
		PageSize:   pageSize,
		HasMore:    end < len(all),
		Capped:     capped,
	}
}

// sortDescending sorts records in place by one field, descending.
func sortDescending(records []domain.RawRecord, field string) {
	numeric := false
	for _, rec := range records {
		if v, ok := rec[field]; ok && !v.IsEmpty() {
			numeric = v.Kind() == domain.KindNumber
			break
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i][field], records[j][field]
		if numeric {
			return a.Num() > b.Num()
		}
		return a.Text() > b.Text()
	})
}

func normalizePage(pageSize, pageNumber int) (int, int) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	if pageNumber < 1 {
		pageNumber = 1
	}
	return pageSize, pageNumber
}

// confirmedNotFound distinguishes a definitive 404 from a transient
// failure: only the former may bypass the fallback chain.
func confirmedNotFound(err error) bool {
	var se *grcapi.StatusError
	return errors.As(err, &se) && se.IsNotFound()
}

// retrievalFailure wraps an exhausted chain, preserving an already
// typed error.
func retrievalFailure(path string, err error) error {
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	var re *domain.RetrievalError
	if errors.As(err, &re) {
		return err
	}
	return domain.NewRetrievalError(path, err)
}

func (r *Retrieval) countStrategy(strategy string) {
	if r.metrics != nil {
		r.metrics.RetrievalStrategies.WithLabelValues(strategy).Inc()
	}
}

func (r *Retrieval) countCache(hit bool) {
	if r.metrics == nil {
		return
	}
	if hit {
		r.metrics.CacheHits.WithLabelValues("full_fetch").Inc()
	} else {
		r.metrics.CacheMisses.WithLabelValues("full_fetch").Inc()
	}
}

func (r *Retrieval) noteFallback(msg, path string, err error) {
	if r.metrics != nil {
		r.metrics.RetrievalFallbacks.Inc()
	}
	if err != nil {
		r.log.Warn(msg, "path", path, "error", err)
	} else {
		r.log.Warn(msg, "path", path)
	}
}
