// Package plannerservice boots the planner HTTP service.
package plannerservice

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/TanoojVardhan/sloth-planner/internal/api"
	"github.com/TanoojVardhan/sloth-planner/internal/auth"
	"github.com/TanoojVardhan/sloth-planner/internal/config"
	"github.com/TanoojVardhan/sloth-planner/internal/health"
	"github.com/TanoojVardhan/sloth-planner/internal/logger"
	"github.com/TanoojVardhan/sloth-planner/internal/services"
	"github.com/TanoojVardhan/sloth-planner/internal/store"
	"github.com/TanoojVardhan/sloth-planner/internal/store/postgres"
	"github.com/TanoojVardhan/sloth-planner/internal/store/sqlite"
)

// Run starts the planner service HTTP server and blocks until shutdown or error.
func Run() error {
	log := logger.New("sloth-planner")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}

	log.Info().
		Str("build_target", cfg.BuildTarget).
		Str("db_driver", cfg.DBDriver).
		Int("http_port", cfg.HTTPPort).
		Msg("Planner service starting")

	ctx, stop := newServerContext()
	defer stop()

	st, err := newStore(cfg, log)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Store adapter unavailable")
		return err
	}

	authorizer := newAuthorizer(cfg, st)

	svcHealth := startHealthCheckers(ctx, cfg, log, st, authorizer)
	if err := waitUntilHealthy(ctx, cfg, svcHealth); err != nil {
		log.Error().Stack().Err(err).Msg("startup health check failed")
		return err
	}

	router := api.NewRouter(api.RouterDeps{
		Store:      st,
		Authorizer: authorizer,
		Health:     svcHealth,
		Log:        log,
	})

	startExpirySweeper(ctx, cfg, log, st)

	server := newHTTPServer(ctx, cfg, router)
	errCh := serveHTTP(server, log, cfg)

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

// newStore selects the adapter from the resolved driver.
func newStore(cfg *config.Config, log zerolog.Logger) (store.Store, error) {
	switch cfg.DBDriver {
	case "sqlite":
		log.Info().Str("path", cfg.SQLitePath).Msg("using sqlite store")
		return sqlite.New(cfg.SQLitePath)
	case "postgres":
		db, err := postgres.Open(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return postgres.NewWithDB(db), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER: %s", cfg.DBDriver)
	}
}

// newAuthorizer picks provider-backed verification when configured, otherwise
// the static local-dev tokens.
func newAuthorizer(cfg *config.Config, st store.Store) auth.Authorizer {
	if cfg.AuthProviderURL == "" {
		return auth.NewStaticAuthorizer()
	}
	users := services.NewUserService(st)
	return auth.NewProviderAuthorizer(cfg.AuthProviderURL, users.GetRole)
}

// startHealthCheckers starts per-dependency checkers and the service
// aggregator. The store always pings; the identity provider is probed only
// when a provider-backed authorizer is configured.
func startHealthCheckers(ctx context.Context, cfg *config.Config, log zerolog.Logger, st store.Store, authorizer auth.Authorizer) *health.ServiceChecker {
	interval := time.Duration(cfg.HealthIntervalSeconds) * time.Second
	probeTimeout := 2 * time.Second

	var checkers []health.Checker
	if pinger, ok := st.(health.Pinger); ok {
		checkers = append(checkers, health.NewPingChecker("store", pinger, log, probeTimeout))
	}
	if pinger, ok := authorizer.(health.Pinger); ok {
		checkers = append(checkers, health.NewPingChecker("identity-provider", pinger, log, probeTimeout))
	}
	for _, c := range checkers {
		go c.Start(ctx, interval)
	}

	svc := health.NewServiceChecker(log, checkers...)
	go svc.Start(ctx, interval)
	return svc
}

// startExpirySweeper deletes expired notifications on a ticker.
func startExpirySweeper(ctx context.Context, cfg *config.Config, log zerolog.Logger, st store.Store) {
	if cfg.NotificationSweepMinutes <= 0 {
		return
	}
	notifications := services.NewNotificationService(st)
	interval := time.Duration(cfg.NotificationSweepMinutes) * time.Minute

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := notifications.SweepExpired(ctx)
				if err != nil {
					log.Error().Err(err).Msg("notification sweep failed")
					continue
				}
				if n > 0 {
					log.Info().Int64("removed", n).Msg("swept expired notifications")
				}
			}
		}
	}()
}

func newHTTPServer(ctx context.Context, cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      15 * time.Second,
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

// waitUntilHealthy blocks until service health is healthy or the startup
// window expires. Checkers start unhealthy and need a first probe cycle.
func waitUntilHealthy(ctx context.Context, cfg *config.Config, svcHealth *health.ServiceChecker) error {
	timeoutSeconds := cfg.HealthIntervalSeconds * 2
	if timeoutSeconds < 60 {
		timeoutSeconds = 60
	}
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

// newServerContext returns a cancellable context bound to SIGINT/SIGTERM.
func newServerContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
