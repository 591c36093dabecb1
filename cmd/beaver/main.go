package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/beaver-systems/beaver/internal/config"
	"github.com/beaver-systems/beaver/internal/handlers"
	"github.com/beaver-systems/beaver/internal/logging"
	"github.com/beaver-systems/beaver/internal/middleware"
	"github.com/beaver-systems/beaver/internal/ratelimit"
	"github.com/beaver-systems/beaver/internal/repository"
	"github.com/beaver-systems/beaver/internal/server"
	"github.com/beaver-systems/beaver/internal/service"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logging.New(
		logging.ParseLevel(cfg.Logging.Level),
		cfg.Logging.Format,
	).With(logging.Service("beaver"))
	logging.SetDefault(logger)

	logger.Info("starting beaver",
		"addr", cfg.Server.Addr(),
		"log_level", cfg.Logging.Level,
		"poll_interval", cfg.Stream.PollInterval().String(),
	)
	if dump, err := cfg.Dump(); err == nil {
		logger.Debug("effective configuration", "config", string(dump))
	}

	if err := runMigrations(cfg); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := repository.New(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer repo.Close()

	var limiter ratelimit.RateLimiter = ratelimit.NoOp{}
	if cfg.RateLimit.Enabled {
		rl, err := ratelimit.NewRedis(cfg.RateLimit.RedisURL, cfg.RateLimit.Requests, cfg.RateLimit.Window())
		if err != nil {
			logger.Warn("rate limiter unavailable, continuing without", logging.Error(err))
		} else {
			limiter = rl
			logger.Info("rate limiting enabled",
				"requests", cfg.RateLimit.Requests,
				"window", cfg.RateLimit.Window().String())
		}
	}
	defer limiter.Close()

	authSvc := service.NewAuthService(repo, cfg.Auth.JWTSecret,
		cfg.Auth.AccessTokenTTL(), cfg.Auth.SessionTTL(), logger)
	go purgeSessions(ctx, authSvc, logger)

	h := handlers.NewHandler(
		service.NewEventService(repo, logger),
		service.NewProjectService(repo, logger),
		service.NewChannelService(repo, logger),
		authSvc,
		limiter,
		logger,
		cfg.Stream.PollInterval(),
		cfg.Stream.BatchLimit,
	)

	router := server.NewRouter(h, middleware.NewAuth(authSvc), handlers.Health(repo))
	srv := server.New(cfg.Server.Addr(), router,
		cfg.Server.ReadTimeout(), cfg.Server.WriteTimeout(), cfg.Server.IdleTimeout(), logger)

	if err := srv.Run(ctx); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	logger.Info("shutdown complete")
}

// purgeSessions clears expired refresh sessions once an hour.
func purgeSessions(ctx context.Context, auth *service.AuthService, logger *logging.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := auth.PurgeExpiredSessions(ctx)
			if err != nil {
				logger.Warn("session purge failed", logging.Error(err))
				continue
			}
			if n > 0 {
				logger.Info("purged expired sessions", "count", n)
			}
		}
	}
}

func runMigrations(cfg *config.Config) error {
	m, err := migrate.New("file://"+cfg.Database.MigrationsPath, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
