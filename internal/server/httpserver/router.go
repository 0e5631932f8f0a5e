// Package httpserver provides the HTTP/HTTPS server for grcbridge.
package httpserver

import (
	"net/http"

	"github.com/veridane/grcbridge/internal/core/service"
	"github.com/veridane/grcbridge/internal/server/httpserver/handler"
	"github.com/veridane/grcbridge/internal/telemetry/logger"
	"github.com/veridane/grcbridge/internal/telemetry/metric"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// Gateway serves every business operation.
	Gateway *service.Gateway

	// Logger for request logging.
	Logger logger.Logger

	// Metrics registry; also serves the /metrics endpoint.
	Metrics *metric.Registry

	// DefaultPageSize is used when a search request omits page_size.
	DefaultPageSize int

	// StatsSampleSize bounds the records sampled for quality reports.
	StatsSampleSize int

	// CORSAllowedOrigins is the list of allowed CORS origins (empty = allow all).
	CORSAllowedOrigins []string

	// GlobalRateLimit is the per-IP rate limit (requests/second, 0 = off).
	GlobalRateLimit int
}

// NewRouter creates and configures the HTTP router with all routes and
// middleware.
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}

	h := handler.New(cfg.Gateway, handler.Options{
		DefaultPageSize: cfg.DefaultPageSize,
		StatsSampleSize: cfg.StatsSampleSize,
	}, log)

	// Order: Recover -> CORS -> RequestID -> RateLimit -> Measure -> AccessLog -> Handler
	middlewares := []Middleware{
		Recover(log),
		CORS(cfg.CORSAllowedOrigins),
		RequestID(),
	}
	if cfg.GlobalRateLimit > 0 {
		middlewares = append(middlewares, RateLimit(cfg.GlobalRateLimit))
	}
	if cfg.Metrics != nil {
		middlewares = append(middlewares, Measure(cfg.Metrics))
	}
	middlewares = append(middlewares, AccessLog(log))

	businessHandler := Chain(h, middlewares...)

	mux := http.NewServeMux()

	// Health endpoints skip the access log and rate limiter.
	probeHandler := Chain(h, RequestID(), Recover(log))
	mux.Handle("GET /health", probeHandler)
	mux.Handle("GET /ready", probeHandler)

	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", Chain(cfg.Metrics.Handler(), RequestID(), Recover(log)))
	}

	mux.Handle("GET /v1/containers", businessHandler)
	mux.Handle("GET /v1/containers/{name}/fields", businessHandler)
	mux.Handle("GET /v1/containers/{name}/records", businessHandler)
	mux.Handle("GET /v1/containers/{name}/records/top", businessHandler)
	mux.Handle("GET /v1/containers/{name}/records/{id}", businessHandler)
	mux.Handle("GET /v1/containers/{name}/stats", businessHandler)

	mux.Handle("POST /v1/caches/invalidate", businessHandler)

	return mux
}

// DefaultRouterConfig returns default router configuration.
func DefaultRouterConfig() *RouterConfig {
	return &RouterConfig{
		DefaultPageSize: 50,
		StatsSampleSize: 100,
		GlobalRateLimit: 100,
	}
}
