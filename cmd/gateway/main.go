package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/RayAntonyEnriquez/PrograWeb-StreamApp/internal/adapter/authapi"
	"github.com/RayAntonyEnriquez/PrograWeb-StreamApp/internal/adapter/httpserver"
	"github.com/RayAntonyEnriquez/PrograWeb-StreamApp/internal/adapter/metrics"
	appredis "github.com/RayAntonyEnriquez/PrograWeb-StreamApp/internal/adapter/redis"
	"github.com/RayAntonyEnriquez/PrograWeb-StreamApp/internal/adapter/statefile"
	"github.com/RayAntonyEnriquez/PrograWeb-StreamApp/internal/domain"
	"github.com/RayAntonyEnriquez/PrograWeb-StreamApp/internal/platform/config"
	"github.com/RayAntonyEnriquez/PrograWeb-StreamApp/internal/platform/logging"
	"github.com/RayAntonyEnriquez/PrograWeb-StreamApp/internal/session"
)

func main() {
	cfg := setupConfig()
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)

	state, healthChecks := setupStateStore(cfg)

	api := authapi.NewClient(cfg.APIBaseURL)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store := session.New(ctx, api, state, session.Defaults{
		StreamerProfileID: cfg.DefaultStreamerProfileID,
		ViewerProfileID:   cfg.DefaultViewerProfileID,
	}, clockwork.NewRealClock())
	cancel()

	registry := metrics.NewRegistry()
	sessionMetrics := metrics.NewSessionMetrics(registry)

	srv, err := httpserver.NewServer(cfg, store, sessionMetrics, metrics.Handler(registry), healthChecks)
	if err != nil {
		slog.Error("Failed to create server", "error", err)
		os.Exit(1)
	}

	done := runGracefulShutdown(srv)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
	slog.Info("Shutdown complete")
}

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

// setupStateStore picks Redis when a URL is configured, otherwise the
// local state file.
func setupStateStore(cfg *config.Config) (domain.StateStore, []httpserver.HealthCheck) {
	if cfg.RedisURL != "" {
		client, err := appredis.NewClient(cfg.RedisURL)
		if err != nil {
			slog.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := appredis.Ping(ctx, client); err != nil {
			slog.Error("Redis not reachable", "error", err)
			os.Exit(1)
		}

		checks := []httpserver.HealthCheck{
			{Name: "redis", Check: func(ctx context.Context) error { return appredis.Ping(ctx, client) }},
		}
		return appredis.NewStateStore(client), checks
	}

	store, err := statefile.Open(cfg.StatePath)
	if err != nil {
		slog.Error("Failed to open state file", "path", cfg.StatePath, "error", err)
		os.Exit(1)
	}
	return store, nil
}

func runGracefulShutdown(srv *httpserver.Server) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		close(done)
	}()

	return done
}
