// Package main provides the entry point for grcbridge-server.
//
// grcbridge-server is the bridge service between GRC platform REST
// APIs and internal consumers, with caching, record transformation,
// and privacy masking.
package main

import (
	"context"
	"crypto/tls"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/veridane/grcbridge/internal/cache"
	"github.com/veridane/grcbridge/internal/core/service"
	"github.com/veridane/grcbridge/internal/infra/confloader"
	"github.com/veridane/grcbridge/internal/infra/shutdown"
	"github.com/veridane/grcbridge/internal/infra/tlsroots"
	"github.com/veridane/grcbridge/internal/platform/grcapi"
	"github.com/veridane/grcbridge/internal/privacy"
	"github.com/veridane/grcbridge/internal/server/config"
	"github.com/veridane/grcbridge/internal/server/httpserver"
	"github.com/veridane/grcbridge/internal/telemetry/logger"
	"github.com/veridane/grcbridge/internal/telemetry/metric"
)

// Build information, set via ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Parse command line flags
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	// Show version and exit
	if *showVersion {
		fmt.Printf("grcbridge-server %s (commit: %s, built: %s)\n", version, commit, buildTime)
		return nil
	}

	// Load configuration
	cfg, err := loadConfig(*configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Initialize logger
	log, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	log.Info("starting grcbridge-server",
		"version", version,
		"commit", commit,
		"config", *configFile)

	safe := config.Sanitize(cfg)
	log.Info("configuration loaded",
		"endpoint", safe.Connection.Endpoint,
		"instance", safe.Connection.Instance,
		"username", safe.Connection.Username,
		"masking_enabled", safe.Masking.Enabled,
		"masking_level", safe.Masking.Level)

	// Platform client
	client, err := initPlatformClient(cfg)
	if err != nil {
		return fmt.Errorf("init platform client: %w", err)
	}

	// Metrics
	metrics := metric.NewRegistry()

	// Privacy token store
	tokens, err := privacy.NewTokenStore()
	if err != nil {
		return fmt.Errorf("init token store: %w", err)
	}

	// Domain services
	gateway, err := initServices(cfg, client, tokens, log, metrics)
	if err != nil {
		return fmt.Errorf("init services: %w", err)
	}

	// Occupancy gauges sampled at scrape time
	if err := metrics.Register(metric.NewCollector(gateway.Occupancy)); err != nil {
		return fmt.Errorf("register collector: %w", err)
	}

	// HTTP router and server
	router := httpserver.NewRouter(&httpserver.RouterConfig{
		Gateway:            gateway,
		Logger:             log,
		Metrics:            metrics,
		DefaultPageSize:    cfg.Retrieval.DefaultPageSize,
		StatsSampleSize:    cfg.Retrieval.StatsSampleSize,
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
		GlobalRateLimit:    cfg.Server.RateLimit,
	})
	httpServer := httpserver.New(cfg.Server.HTTP.Addr, router)

	// Setup graceful shutdown
	shutdownHandler := shutdown.NewHandler(30 * time.Second)

	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down HTTP server")
		return httpServer.Shutdown(ctx)
	})

	// Config hot reload (masking and log level only)
	if *configFile != "" {
		watcher, err := startConfigWatch(*configFile, gateway, log)
		if err != nil {
			log.Warn("config watch disabled", "error", err)
		} else {
			shutdownHandler.OnShutdown(func(ctx context.Context) error {
				return watcher.Stop()
			})
		}
	}

	// TLS with cert rotation: serve via a watcher so rotated certs are
	// picked up without a restart.
	var certWatcher *tlsroots.Watcher
	if cfg.Server.HTTP.TLSCertFile != "" && cfg.Server.HTTP.TLSKeyFile != "" {
		certWatcher, err = tlsroots.NewWatcher(cfg.Server.HTTP.TLSCertFile, cfg.Server.HTTP.TLSKeyFile,
			tlsroots.WithLogger(slog.Default()))
		if err != nil {
			return fmt.Errorf("init cert watcher: %w", err)
		}
		certWatcher.StartAsync()
		shutdownHandler.OnShutdown(func(ctx context.Context) error {
			certWatcher.Stop()
			return nil
		})
	}

	// Start HTTP server in goroutine
	go func() {
		log.Info("HTTP server listening", "addr", cfg.Server.HTTP.Addr, "tls", certWatcher != nil)

		var err error
		if certWatcher != nil {
			err = httpServer.ListenAndServeTLSConfig(&tls.Config{
				GetCertificate: certWatcher.GetCertificate,
				MinVersion:     tls.VersionTLS12,
			})
		} else {
			err = httpServer.ListenAndServe()
		}

		if err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	// Wait for shutdown signal
	log.Info("server started, press Ctrl+C to stop")
	if err := shutdownHandler.Wait(); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// loadConfig loads configuration from file and environment.
func loadConfig(configFile string) (*config.ServerConfig, error) {
	// Start with defaults
	cfg := config.Default()

	// Create loader with optional config file
	opts := []confloader.Option{}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}

	loader := confloader.NewLoader(opts...)

	// Load and unmarshal
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}

	// Validate configuration
	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// initLogger initializes the structured logger with redaction.
func initLogger(cfg *config.ServerConfig) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return nil, err
	}

	logger.SetDefault(log)
	return log, nil
}

// initPlatformClient builds the outbound GRC platform client. A
// configured CA bundle is trusted in addition to the system roots.
func initPlatformClient(cfg *config.ServerConfig) (*grcapi.Client, error) {
	opts := []grcapi.Option{
		grcapi.WithTimeout(cfg.Connection.Timeout),
		grcapi.WithRateLimit(cfg.Connection.RateLimit),
	}

	if cfg.Connection.CACertFile != "" {
		pool, err := tlsroots.NewPool()
		if err != nil {
			return nil, err
		}
		if err := pool.AddCertFile(cfg.Connection.CACertFile); err != nil {
			return nil, err
		}
		opts = append(opts, grcapi.WithHTTPClient(&http.Client{
			Timeout: cfg.Connection.Timeout,
			Transport: &http.Transport{
				TLSClientConfig: pool.TLSConfig(),
			},
		}))
	}

	return grcapi.New(cfg.Connection.Endpoint, cfg.Connection.Instance, opts...), nil
}

// initServices wires the retrieval pipeline behind the gateway facade.
func initServices(cfg *config.ServerConfig, client *grcapi.Client, tokens *privacy.TokenStore, log logger.Logger, metrics *metric.Registry) (*service.Gateway, error) {
	sessions := service.NewSessionManager(client, service.Credentials{
		Username: cfg.Connection.Username,
		Password: cfg.Connection.Password,
	}, log, metrics)

	topology := service.NewTopology(client, cache.NewCatalog(), log, metrics)
	retrieval := service.NewRetrieval(client, topology, sessions, log, metrics)

	gateway := service.NewGateway(service.GatewayConfig{
		Sessions:  sessions,
		Topology:  topology,
		Retrieval: retrieval,
		Masking:   cfg.Masking,
		Tokens:    tokens,
		Log:       log,
		Metrics:   metrics,
	})

	log.Info("services initialized",
		"session_manager", "ready",
		"topology", "ready",
		"retrieval", "ready")

	return gateway, nil
}

// startConfigWatch reloads masking settings and the log level when the
// config file changes. Connection and server settings stay fixed until
// restart.
func startConfigWatch(configFile string, gateway *service.Gateway, log logger.Logger) (*confloader.Watcher, error) {
	watcher, err := confloader.NewWatcher(confloader.WithWatcherLogger(slog.Default()))
	if err != nil {
		return nil, err
	}
	if err := watcher.Watch(configFile); err != nil {
		watcher.Stop()
		return nil, err
	}

	watcher.OnChange(func(path string) {
		cfg, err := loadConfig(configFile)
		if err != nil {
			log.Warn("config reload failed, keeping previous settings", "error", err)
			return
		}

		gateway.SetMasking(cfg.Masking)
		if cfg.Log.Level != logger.GetLevel() {
			logger.SetLevel(cfg.Log.Level)
		}
		log.Info("configuration reloaded",
			"masking_enabled", cfg.Masking.Enabled,
			"masking_level", cfg.Masking.Level,
			"log_level", cfg.Log.Level)
	})

	watcher.StartAsync()
	log.Info("watching config file for changes", "path", configFile)
	return watcher, nil
}
