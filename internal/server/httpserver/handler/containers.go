// Package handler provides HTTP request handlers for grcbridge.
package handler

import (
	"net/http"

	"github.com/veridane/grcbridge/internal/core/service"
)

// handleListContainers handles GET /v1/containers.
func (h *Handler) handleListContainers(w http.ResponseWriter, r *http.Request) {
	containers, err := h.gateway.DiscoverContainers(r.Context(), maskingOverride(r))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, map[string]any{
		"containers": containers,
		"count":      len(containers),
	})
}

// handleContainerFields handles GET /v1/containers/{name}/fields.
func (h *Handler) handleContainerFields(w http.ResponseWriter, r *http.Request) {
	fields, err := h.gateway.ContainerFields(r.Context(), r.PathValue("name"), maskingOverride(r))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, map[string]any{
		"fields": fields,
		"count":  len(fields),
	})
}

// handleSearchRecords handles GET /v1/containers/{name}/records.
//
// Query parameters: page, page_size, full, include_empty, masking.
func (h *Handler) handleSearchRecords(w http.ResponseWriter, r *http.Request) {
	resp, err := h.gateway.SearchRecords(r.Context(), &service.SearchRecordsRequest{
		Container:    r.PathValue("name"),
		PageSize:     queryInt(r, "page_size", h.opts.DefaultPageSize),
		PageNumber:   queryInt(r, "page", 1),
		FullData:     queryBool(r, "full"),
		IncludeEmpty: queryBool(r, "include_empty"),
		Masking:      maskingOverride(r),
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, resp)
}

// handleTopRecords handles GET /v1/containers/{name}/records/top.
//
// Query parameters: n, sort, masking.
func (h *Handler) handleTopRecords(w http.ResponseWriter, r *http.Request) {
	resp, err := h.gateway.TopRecords(r.Context(), &service.TopRecordsRequest{
		Container: r.PathValue("name"),
		Limit:     queryInt(r, "n", 0),
		SortField: r.URL.Query().Get("sort"),
		Masking:   maskingOverride(r),
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, resp)
}

// handleFindRecord handles GET /v1/containers/{name}/records/{id}.
func (h *Handler) handleFindRecord(w http.ResponseWriter, r *http.Request) {
	resp, err := h.gateway.FindRecord(r.Context(), &service.FindRecordRequest{
		Container:    r.PathValue("name"),
		RecordID:     r.PathValue("id"),
		IncludeEmpty: queryBool(r, "include_empty"),
		Masking:      maskingOverride(r),
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, resp)
}

// handleContainerStats handles GET /v1/containers/{name}/stats.
//
// Query parameters: sample, top, masking.
func (h *Handler) handleContainerStats(w http.ResponseWriter, r *http.Request) {
	resp, err := h.gateway.ContainerStats(r.Context(), &service.ContainerStatsRequest{
		Container:  r.PathValue("name"),
		SampleSize: queryInt(r, "sample", h.opts.StatsSampleSize),
		TopN:       queryInt(r, "top", 10),
		Masking:    maskingOverride(r),
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, resp)
}

// handleInvalidateCaches handles POST /v1/caches/invalidate.
func (h *Handler) handleInvalidateCaches(w http.ResponseWriter, r *http.Request) {
	h.gateway.InvalidateCaches()
	h.writeJSON(w, r, http.StatusOK, map[string]string{"status": "invalidated"})
}
