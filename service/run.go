// Package service wires configuration, backends and the HTTP API into the
// dineguide service process.
package service

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/dineguide/dineguide/internal/api"
	"github.com/dineguide/dineguide/internal/api/auth"
	"github.com/dineguide/dineguide/internal/api/metrics"
	"github.com/dineguide/dineguide/internal/config"
	"github.com/dineguide/dineguide/internal/content"
	"github.com/dineguide/dineguide/internal/events"
	"github.com/dineguide/dineguide/internal/factory"
	"github.com/dineguide/dineguide/internal/health"
	"github.com/dineguide/dineguide/internal/logger"
	"github.com/dineguide/dineguide/internal/services"
	"github.com/dineguide/dineguide/internal/store"
	"github.com/dineguide/dineguide/internal/store/sqldb"
)

// dependencies are the long-lived backends built at startup.
type dependencies struct {
	store   *sqldb.DB
	media   *factory.Media
	content *factory.Content
	events  events.Publisher
	bus     *events.Bus
}

func (d *dependencies) close(log zerolog.Logger) {
	if d.events != nil {
		if err := d.events.Close(); err != nil {
			log.Warn().Err(err).Msg("event publisher close failed")
		}
	}
	if d.content != nil {
		if err := d.content.Close(); err != nil {
			log.Warn().Err(err).Msg("cache close failed")
		}
	}
	if d.store != nil {
		if err := d.store.Close(); err != nil {
			log.Warn().Err(err).Msg("store close failed")
		}
	}
}

// Run starts the dineguide HTTP server and blocks until shutdown or error.
func Run() error {
	cfg, err := config.New()
	if err != nil {
		zlog.Error().Err(err).Msg("Failed to load configuration")
		return err
	}

	log := logger.NewWithOptions("dineguide-service", logger.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	zlog.Logger = log

	log.Info().
		Str("environment", string(cfg.Environment)).
		Str("db_driver", cfg.DBDriver).
		Str("media_driver", cfg.MediaDriver).
		Int("http_port", cfg.HTTPPort).
		Int("page_size", cfg.PageSize).
		Msg("dineguide service starting")
	if cfg.AdminAPIKey == "" {
		log.Warn().Msg("DINEGUIDE_ADMIN_API_KEY is empty; admin writes will be rejected")
	}

	// Create cancellable root context bound to SIGINT/SIGTERM
	ctx, stop := newServerContext()
	defer stop()

	deps, err := initDependencies(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer deps.close(log)

	if deps.bus != nil {
		go deps.bus.Consume(ctx, events.LogHandler(log.With().Str("component", "events").Logger()))
	}

	// Start health checkers before serving so /api/health is meaningful immediately
	svcHealth := startHealthCheckers(ctx, cfg, log, deps)
	if err := waitUntilHealthy(ctx, cfg, svcHealth); err != nil {
		log.Error().Stack().Err(err).Msg("startup health check failed")
		return err
	}

	handler := buildHandler(cfg, deps, svcHealth)

	server := newHTTPServer(ctx, cfg, handler)
	errCh := serveHTTP(server, log, cfg)

	// Graceful shutdown on context cancel or server error
	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Stack().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Stack().Err(err).Msg("HTTP server failed")
		return err
	}
}

// initDependencies constructs required components and fails fast on missing ones.
func initDependencies(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*dependencies, error) {
	d := &dependencies{}
	var err error

	if d.store, err = factory.NewStore(ctx, cfg, log); err != nil {
		log.Error().Stack().Err(err).Msg("Store adapter unavailable")
		return nil, err
	}
	if d.media, err = factory.NewMedia(ctx, cfg, log); err != nil {
		log.Error().Stack().Err(err).Msg("Media store unavailable")
		d.close(log)
		return nil, err
	}
	d.content = factory.NewContent(ctx, cfg, content.NewStoreRepository(d.store), log)
	d.events, d.bus = factory.NewEvents(cfg, log)
	return d, nil
}

// buildHandler wires services and handlers, then applies CORS.
func buildHandler(cfg *config.Config, d *dependencies, svcHealth *health.ServiceHealthChecker) http.Handler {
	svcDeps := services.Deps{
		Media:     d.media.Store,
		Events:    d.events,
		Cache:     d.content.Invalidator,
		MediaURLs: &d.media.URLs,
	}
	svc := api.Services{
		Restaurants: services.NewRestaurantService(d.store, svcDeps),
		Menus:       services.NewMenuService(d.store, svcDeps),
		Reviews:     services.NewReviewService(d.store, svcDeps),
		Collections: services.NewCollectionService(d.store, svcDeps),
		Listing:     services.NewListingService(d.content.Repository, d.media.URLs, cfg.PageSize),
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	router := api.NewRouter(svc, api.RouterOptions{
		Authorizer:     auth.NewKeyAuthorizer(cfg.AdminAPIKey),
		Health:         svcHealth,
		Metrics:        metrics.New(reg),
		MaxUploadBytes: cfg.MaxUploadBytes(),
		MediaDir:       d.media.Dir,
		MediaPath:      cfg.MediaBaseURL,
	})
	return api.WithCORS(router, cfg.CORSAllowedOrigins)
}

// startHealthCheckers starts component checkers and the service-level aggregator.
func startHealthCheckers(ctx context.Context, cfg *config.Config, log zerolog.Logger, d *dependencies) *health.ServiceHealthChecker {
	var checkers []health.HealthChecker
	probeTimeout := cfg.HealthProbeTimeout()
	interval := cfg.HealthInterval()

	// First probes run synchronously so the aggregator starts from real results
	storeChecker := store.NewStoreHealthChecker(d.store, log, probeTimeout)
	storeChecker.Check(ctx)
	go storeChecker.Start(ctx, interval)
	checkers = append(checkers, storeChecker)

	if d.content.Redis != nil {
		cacheChecker := health.NewPingChecker("redis", d.content.Redis, log, probeTimeout)
		cacheChecker.Check(ctx)
		go cacheChecker.Start(ctx, interval)
		checkers = append(checkers, cacheChecker)
	}

	svcHealth := health.NewServiceHealthChecker(log, checkers...)
	go svcHealth.Start(ctx, interval)
	return svcHealth
}

func newHTTPServer(ctx context.Context, cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
}

func serveHTTP(server *http.Server, log zerolog.Logger, cfg *config.Config) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	return errCh
}

// calculateStartupHealthTimeout returns the startup health timeout in seconds,
// calculated as interval*2 with a minimum of 60 seconds.
func calculateStartupHealthTimeout(healthIntervalSeconds int) int {
	timeout := healthIntervalSeconds * 2
	if timeout < 60 {
		return 60
	}
	return timeout
}

// waitUntilHealthy blocks until service health is healthy or the startup window expires.
func waitUntilHealthy(ctx context.Context, cfg *config.Config, svcHealth *health.ServiceHealthChecker) error {
	timeoutSeconds := calculateStartupHealthTimeout(cfg.HealthIntervalSeconds)
	deadline := time.Now().Add(time.Duration(timeoutSeconds) * time.Second)
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		if svcHealth.IsHealthy() {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("startup aborted: dependencies not healthy within %d seconds", timeoutSeconds)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// newServerContext returns a cancellable context that is cancelled on SIGINT/SIGTERM.
func newServerContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
