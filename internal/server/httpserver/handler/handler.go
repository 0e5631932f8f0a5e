// Package handler provides HTTP request handlers for grcbridge.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/veridane/grcbridge/internal/core/domain"
	"github.com/veridane/grcbridge/internal/core/service"
	"github.com/veridane/grcbridge/internal/privacy"
	"github.com/veridane/grcbridge/internal/telemetry/logger"
)

// Options tunes request defaults.
type Options struct {
	// DefaultPageSize is used when a search request omits page_size.
	DefaultPageSize int

	// StatsSampleSize bounds the records sampled for quality reports.
	StatsSampleSize int
}

// Handler is the main HTTP handler that routes requests to the gateway.
type Handler struct {
	gateway *service.Gateway
	opts    Options
	log     logger.Logger
	mux     *http.ServeMux
}

// New creates a new Handler over the gateway.
func New(gateway *service.Gateway, opts Options, log logger.Logger) *Handler {
	if log == nil {
		log = logger.Default()
	}
	h := &Handler{
		gateway: gateway,
		opts:    opts,
		log:     log,
		mux:     http.NewServeMux(),
	}

	h.registerRoutes()
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// registerRoutes registers all HTTP routes.
func (h *Handler) registerRoutes() {
	h.mux.HandleFunc("GET /health", h.handleHealth)
	h.mux.HandleFunc("GET /ready", h.handleReady)

	h.mux.HandleFunc("GET /v1/containers", h.handleListContainers)
	h.mux.HandleFunc("GET /v1/containers/{name}/fields", h.handleContainerFields)
	h.mux.HandleFunc("GET /v1/containers/{name}/records", h.handleSearchRecords)
	h.mux.HandleFunc("GET /v1/containers/{name}/records/top", h.handleTopRecords)
	h.mux.HandleFunc("GET /v1/containers/{name}/records/{id}", h.handleFindRecord)
	h.mux.HandleFunc("GET /v1/containers/{name}/stats", h.handleContainerStats)

	h.mux.HandleFunc("POST /v1/caches/invalidate", h.handleInvalidateCaches)
}

// writeJSON writes a JSON response with standard envelope format.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	requestID := getRequestID(r)
	response := NewResponse(requestID, data)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.log.Error("failed to encode response", "error", err)
	}
}

// writeError writes an error response with standard envelope format.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, details any) {
	requestID := getRequestID(r)
	response := NewErrorResponse(requestID, code, message, details)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Error-Code", code)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

// getRequestID extracts the request ID set by the middleware.
func getRequestID(r *http.Request) string {
	return r.Header.Get("X-Request-ID")
}

// handleServiceError converts gateway errors to HTTP responses. The
// gateway masks every escaping error, so messages are safe to forward.
func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var nf *domain.NotFoundError
	if errors.As(err, &nf) {
		h.writeError(w, r, http.StatusNotFound, nf.Err.Code, nf.Error(), map[string]any{
			"requested": nf.Requested,
			"available": nf.AvailableNames,
		})
		return
	}

	code := domain.ErrorCode(err)
	if code == "" {
		code = "GB-SYS-5000"
	}
	h.writeError(w, r, statusFor(code), code, err.Error(), nil)
}

// statusFor maps a structured error code to an HTTP status. Codes end
// with the intended status plus a discriminator digit; argument errors
// use their own 1xxx series.
func statusFor(code string) int {
	i := strings.LastIndex(code, "-")
	if i < 0 || len(code) != i+5 {
		return http.StatusInternalServerError
	}
	switch n, _ := strconv.Atoi(code[i+1 : i+4]); n {
	case 401:
		return http.StatusUnauthorized
	case 404:
		return http.StatusNotFound
	case 400:
		return http.StatusBadRequest
	case 429:
		return http.StatusTooManyRequests
	case 503:
		return http.StatusServiceUnavailable
	case 100:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// maskingOverride parses the per-call masking query parameter.
// Accepted values: "off", "light", "moderate", "strict". Absent or
// empty means the configured process default.
func maskingOverride(r *http.Request) *privacy.Config {
	v := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("masking")))
	switch v {
	case "":
		return nil
	case "off":
		return &privacy.Config{Enabled: false}
	default:
		return &privacy.Config{Enabled: true, Level: privacy.ParseLevel(v)}
	}
}

// queryInt parses an integer query parameter, returning def when the
// parameter is absent or malformed.
func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// queryBool parses a boolean query parameter.
func queryBool(r *http.Request, key string) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get(key))
	return v
}
