package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/carehaven/carehome-admin/config"
	"github.com/carehaven/carehome-admin/internal/bootstrap"
	"github.com/redis/go-redis/v9"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.ErrorContext(ctx, "fatal error", "error", err)
		stop()
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	logger, logCloser := bootstrap.InitLogger(cfg.Log)
	defer func() { _ = logCloser.Close() }()

	if err = cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logStartupInfo(ctx, logger, &cfg)

	redisClient, err := initInfrastructure(ctx, &cfg, logger)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer func() {
			if cerr := redisClient.Close(); cerr != nil {
				logger.ErrorContext(ctx, "close redis failed", "error", cerr)
			}
		}()
	}

	services, err := bootstrap.InitializeServices(ctx, bootstrap.ServiceDeps{
		Config:      &cfg,
		RedisClient: redisClient,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("initialize services: %w", err)
	}

	server, err := bootstrap.StartHTTPServer(&bootstrap.HTTPServerConfig{
		Config:   &cfg,
		Services: services,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	<-ctx.Done()
	logger.Info("shutdown signal received")

	return bootstrap.ShutdownHTTPServer(bootstrap.ShutdownConfig{
		Context: context.WithoutCancel(ctx),
		Server:  server,
		Timeout: cfg.HTTP.ShutdownTimeout,
		Logger:  logger,
	})
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	logger.InfoContext(ctx, "starting carehome admin dashboard",
		"addr", cfg.HTTP.Addr,
		"backend", cfg.Backend.BaseURL,
		"auth_mode", cfg.Auth.Mode,
		"session_store", cfg.Session.Store,
		"dev", cfg.IsDev)
}

// initInfrastructure connects Redis when sessions are shared through it.
//
//nolint:ireturn // returning redis.UniversalClient keeps sentinel/cluster support flexible.
func initInfrastructure(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (redis.UniversalClient, error) {
	if cfg.Session.Store != config.SessionStoreRedis {
		return nil, nil
	}
	client, err := bootstrap.ConnectRedis(ctx, cfg.Redis, logger)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return client, nil
}
