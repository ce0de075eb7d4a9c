package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/mrlokans/stargazer/internal/apod"
	"github.com/mrlokans/stargazer/internal/config"
	"github.com/mrlokans/stargazer/internal/database"
	"github.com/mrlokans/stargazer/internal/database/favourites"
	http_controllers "github.com/mrlokans/stargazer/internal/http"
	"github.com/mrlokans/stargazer/internal/logging"
	"github.com/mrlokans/stargazer/internal/metrics"
	"github.com/mrlokans/stargazer/internal/scheduler"
)

// App holds the long-lived components shared by the server and the CLI.
type App struct {
	Config     *config.Config
	Logger     zerolog.Logger
	Database   *database.Database
	Favourites *favourites.InstrumentedRepository
	Fetcher    apod.Fetcher

	// Metrics is nil when metrics are disabled; Recorder is then a no-op.
	Metrics  *metrics.Provider
	Recorder metrics.Recorder
}

// NewApp validates cfg, opens the database and assembles the fetch chain:
// client, then cache, then instrumentation.
func NewApp(cfg *config.Config, logger zerolog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	db, err := database.NewDatabase(cfg.Database.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	repo := favourites.NewRepository(db.DB)

	var provider *metrics.Provider
	var recorder metrics.Recorder = metrics.Noop{}
	if cfg.Metrics.Enabled {
		provider = metrics.NewProvider(func() float64 {
			count, err := repo.Count()
			if err != nil {
				return 0
			}
			return float64(count)
		})
		recorder = provider
	}

	client := apod.NewClient(cfg.APOD.APIKey,
		apod.WithBaseURL(cfg.APOD.BaseURL),
		apod.WithTimeout(cfg.APOD.Timeout),
		apod.WithLogger(logger.With().Str("component", "apod").Logger()),
	)
	cached := apod.NewCachedFetcher(client, cfg.CacheSizeMB(), cfg.Cache.TTL, recorder, logger)
	fetcher := apod.Instrument(cached, recorder, logger.With().Str("component", "fetch").Logger())

	if cfg.APOD.APIKey == config.DefaultAPIKey {
		logger.Warn().Msg("Using the shared DEMO_KEY; set APOD_API_KEY to avoid strict rate limits")
	}

	return &App{
		Config:     cfg,
		Logger:     logger,
		Database:   db,
		Favourites: favourites.NewInstrumentedRepository(repo, recorder, logger.With().Str("component", "favourites").Logger()),
		Fetcher:    fetcher,
		Metrics:    provider,
		Recorder:   recorder,
	}, nil
}

func (a *App) Close() error {
	return a.Database.Close()
}

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs handler until ctx is cancelled, then shuts down gracefully
// within the configured timeout.
func Serve(ctx context.Context, handler http.Handler, cfg *config.Config, logger zerolog.Logger, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err, ok := <-serveErr:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Dur("timeout", timeout).Msg("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(shutdownCtx)
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info().Msg("Server exiting")
	return nil
}

// Run starts the HTTP server and, when enabled, the daily prefetch job. It
// returns after SIGINT or SIGTERM.
func Run(cfg *config.Config, version string) error {
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	if err != nil {
		return err
	}
	logger.Info().Str("version", version).Msg("Starting Stargazer")

	if logger.GetLevel() > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	app, err := NewApp(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error().Err(err).Msg("Error closing database")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var prefetch *scheduler.PrefetchScheduler
	routerCfg := http_controllers.RouterConfig{
		Fetcher:      app.Fetcher,
		Favourites:   app.Favourites,
		Database:     app.Database,
		Logger:       logger,
		FetchTimeout: cfg.APOD.Timeout,
		Version:      version,
	}
	if app.Metrics != nil {
		routerCfg.Recorder = app.Metrics
		routerCfg.MetricsHandler = app.Metrics.Handler()
	}

	if cfg.Prefetch.Enabled {
		prefetch = scheduler.NewPrefetchScheduler(app.Fetcher, app.Favourites, cfg.Prefetch.Schedule, cfg.Prefetch.AutoLike, cfg.APOD.Timeout, logger)
		if err := prefetch.Start(ctx); err != nil {
			return err
		}
		routerCfg.Prefetch = prefetch
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if prefetch != nil {
			prefetch.Stop()
		}
	}

	return Serve(ctx, router, cfg, logger, onShutdown)
}
