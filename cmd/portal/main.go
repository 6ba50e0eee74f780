package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/clientus/portal/config"
	"github.com/clientus/portal/internal/bootstrap"
)

func main() {
	logger := bootstrap.InitLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger); err != nil {
		logger.Error("portal exited with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	logStartupInfo(logger, &cfg)

	db, redisClient, err := initInfrastructure(&cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logger.Error("failed to close database", "error", cerr)
		}
	}()
	defer func() {
		if redisClient == nil {
			return
		}
		if cerr := redisClient.Close(); cerr != nil {
			logger.Error("failed to close redis client", "error", cerr)
		}
	}()

	if cfg.Postgres.RunMigrationsOnStart {
		if err := bootstrap.RunMigrations(ctx, db, logger); err != nil {
			return err
		}
	} else {
		logger.Info("skipping database migrations on start")
	}

	services := bootstrap.NewServices(&bootstrap.ServiceDeps{
		Config:      &cfg,
		DB:          db,
		RedisClient: redisClient,
		Logger:      logger,
	})

	server := bootstrap.StartHTTPServer(&bootstrap.HTTPServerConfig{
		Config:      &cfg,
		Services:    services,
		DB:          db,
		RedisClient: redisClient,
		Logger:      logger,
	})

	<-ctx.Done()
	logger.Info("shutdown signal received")

	return bootstrap.ShutdownHTTPServer(bootstrap.ShutdownConfig{
		Context: context.Background(),
		Server:  server,
		Logger:  logger,
	})
}

func logStartupInfo(logger *slog.Logger, cfg *config.AppConfig) {
	logger.Info("starting clientus portal",
		"dev", cfg.IsDev,
		"auth_mode", cfg.Auth.Mode,
		"db_host", cfg.Postgres.Host,
		"db_port", cfg.Postgres.Port,
		"db_name", cfg.Postgres.Name,
	)
}

// initInfrastructure connects to PostgreSQL and Redis. If the Redis
// connection fails the database handle is closed before returning.
func initInfrastructure(cfg *config.AppConfig, logger *slog.Logger) (*sql.DB, redis.UniversalClient, error) {
	db, err := bootstrap.ConnectDB(cfg.Postgres, logger)
	if err != nil {
		return nil, nil, err
	}

	redisClient, err := bootstrap.ConnectRedis(cfg.Redis, logger)
	if err != nil {
		return nil, nil, errors.Join(err, db.Close())
	}

	return db, redisClient, nil
}
