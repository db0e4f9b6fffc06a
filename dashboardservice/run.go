package dashboardservice

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecfrdash/ecfr-dashboard/internal/api"
	"github.com/ecfrdash/ecfr-dashboard/internal/collection"
	"github.com/ecfrdash/ecfr-dashboard/internal/config"
	"github.com/ecfrdash/ecfr-dashboard/internal/freshcache"
	"github.com/ecfrdash/ecfr-dashboard/internal/health"
	"github.com/ecfrdash/ecfr-dashboard/internal/imagestore"
	"github.com/ecfrdash/ecfr-dashboard/internal/localstate"
	"github.com/ecfrdash/ecfr-dashboard/internal/logger"
	"github.com/ecfrdash/ecfr-dashboard/internal/services"
	"github.com/ecfrdash/ecfr-dashboard/internal/upstream"
)

// Run starts the dashboard HTTP server and blocks until shutdown or error.
func Run() error {
	log := logger.New("ecfr-dashboard")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		log.Error().Err(err).Msg("Invalid log level")
		return err
	}

	log.Info().
		Int("http_port", cfg.HTTPPort).
		Str("data_dir", cfg.DataDir).
		Str("upstream", cfg.UpstreamBaseURL).
		Msg("Dashboard service starting")

	// Create cancellable root context bound to SIGINT/SIGTERM
	ctx, stop := newServerContext()
	defer stop()

	handler, err := Build(cfg, log)
	if err != nil {
		return err
	}

	// HTTP server and serve
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

// Build constructs every component from cfg and returns the routed handler.
func Build(cfg *config.Config, log zerolog.Logger) (http.Handler, error) {
	layout := localstate.New(cfg.DataDir, cfg.ImageDir)
	if err := layout.Ensure(); err != nil {
		log.Error().Stack().Err(err).Msg("Data directories unavailable")
		return nil, fmt.Errorf("prepare data directories: %w", err)
	}

	client := upstream.NewClient(cfg.UpstreamBaseURL, cfg.UpstreamTimeout, log.With().Str("component", "upstream").Logger())
	fetcher := freshcache.New(layout, cfg.StaleAfter, client, log.With().Str("component", "freshcache").Logger())
	store := newCollectionStore(cfg, layout, log)
	images := imagestore.New(layout, log.With().Str("component", "imagestore").Logger())

	checker := health.NewServiceHealthChecker(log, cfg.HealthProbeTimeout,
		health.NewDirChecker("data_dir", layout.DataDir),
		health.NewDirChecker("image_dir", layout.ImageDir),
		health.NewPingChecker("upstream", client),
	)

	return api.NewRouter(api.Deps{
		Agencies:       services.NewAgencyService(fetcher, client),
		Chat:           services.NewChatService(store),
		Activities:     services.NewActivityService(store, images),
		Users:          services.NewUserService(store),
		Health:         checker,
		Layout:         layout,
		MaxUploadBytes: cfg.MaxUploadBytes,
		CORSOrigins:    cfg.CORSOrigins,
		Log:            log,
	}), nil
}

func newCollectionStore(cfg *config.Config, layout localstate.Layout, log zerolog.Logger) *collection.Store {
	var opts []collection.Option
	if cfg.CollectionLocking {
		opts = append(opts, collection.WithFileLocks())
	}
	return collection.NewStore(layout, log.With().Str("component", "collection").Logger(), opts...)
}

func newHTTPServer(ctx context.Context, cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
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

// newServerContext returns a cancellable context that is cancelled on SIGINT/SIGTERM.
func newServerContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
