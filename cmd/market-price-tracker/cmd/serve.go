package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/donaldgifford/market-price-tracker/internal/api/handlers"
	"github.com/donaldgifford/market-price-tracker/internal/api/middleware"
	"github.com/donaldgifford/market-price-tracker/internal/config"
	"github.com/donaldgifford/market-price-tracker/internal/engine"
	"github.com/donaldgifford/market-price-tracker/internal/history"
	"github.com/donaldgifford/market-price-tracker/internal/store"
	"github.com/donaldgifford/market-price-tracker/internal/telemetry"
	"github.com/donaldgifford/market-price-tracker/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  runServe,
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Setup(ctx, telemetry.Config{
		Enabled:     cfg.Telemetry.Enabled,
		Endpoint:    cfg.Telemetry.Endpoint,
		Insecure:    cfg.Telemetry.Insecure,
		ServiceName: cfg.Telemetry.ServiceName,
		Version:     Version,
		Interval:    cfg.Telemetry.Interval,
	}, logger.Component(log, "telemetry"))
	if err != nil {
		return fmt.Errorf("setting up telemetry: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(flushCtx); err != nil {
			log.Error("telemetry shutdown error", "error", err)
		}
	}()

	repo, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer repo.Close()

	h := history.New(repo, history.WithLogger(logger.Component(log, "history")))
	if err := h.Load(ctx); err != nil {
		return fmt.Errorf("loading price history: %w", err)
	}
	log.Info("price history loaded", "products", h.Len())

	if err := telemetry.RegisterTrackedProducts(otel.Meter("market-price-tracker"), h.Len); err != nil {
		return fmt.Errorf("registering telemetry gauges: %w", err)
	}

	source, target, err := newBackends(&cfg.Scrape, logger.Component(log, "scrape"))
	if err != nil {
		return fmt.Errorf("building site adapters: %w", err)
	}
	defer closeBackend(source)
	defer closeBackend(target)

	n := newNotifier(&cfg.Notifications, logger.Component(log, "notify"))
	eng := engine.NewEngine(source, target, h, n,
		engineOptions(cfg, source, logger.Component(log, "engine"))...)

	if cfg.Schedule.RefreshInterval > 0 {
		sched, err := engine.NewScheduler(eng, cfg.Schedule.RefreshInterval, logger.Component(log, "scheduler"))
		if err != nil {
			return fmt.Errorf("creating scheduler: %w", err)
		}
		sched.Start()
		defer func() { <-sched.Stop().Done() }()
	}

	e := newServer(cfg, eng, log)
	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", "addr", addr, "backend", cfg.Scrape.Backend, "driver", cfg.Database.Driver)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}

func openStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (store.ProductRepository, error) {
	repo, err := store.Open(ctx, cfg.Database.Driver, cfg.Database.DSN(), logger.Component(log, "store"))
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	if m, ok := repo.(store.Migrator); ok {
		if err := m.Migrate(ctx); err != nil {
			repo.Close()
			return nil, fmt.Errorf("running migrations: %w", err)
		}
	}
	return repo, nil
}

// newServer builds the echo instance with health checks, metrics and the huma API.
func newServer(cfg *config.Config, eng *engine.Engine, log *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	httpLog := logger.Component(log, "http")
	e.Use(middleware.Recovery(httpLog))
	e.Use(middleware.RequestLog(httpLog))
	e.Use(middleware.Metrics())

	health := handlers.NewHealthHandler(eng)
	e.GET("/healthz", health.Healthz)
	e.GET("/readyz", health.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := humaecho.New(e, huma.DefaultConfig("Market Price Tracker API", Version))
	handlers.RegisterTrackRoutes(api, handlers.NewTrackHandler(eng))
	handlers.RegisterProductRoutes(api, handlers.NewProductsHandler(eng))
	handlers.RegisterRefreshRoutes(api, handlers.NewRefreshHandler(eng))

	return e
}
