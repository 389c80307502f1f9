package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/lovenote/lovenote-web/config"
)

// Run starts the web application and blocks until ctx is cancelled or a
// component fails.
func Run(ctx context.Context, cfg config.AppConfig, log *slog.Logger) error {
	log = logger(log)

	db, err := ConnectDB(ctx, DatabaseConfig{DBConfig: cfg.Postgres, Logger: log})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Warn("close database", "error", cerr)
		}
	}()

	if cfg.Postgres.RunMigrationsOnStart {
		if merr := RunMigrations(ctx, db, log); merr != nil {
			if cfg.Postgres.Required {
				return merr
			}
			log.Warn("migrations skipped", "error", merr)
		}
	}

	rdb, err := ConnectRedis(ctx, DatabaseConfig{RedisConfig: cfg.Redis, Logger: log})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := rdb.Close(); cerr != nil {
			log.Warn("close redis", "error", cerr)
		}
	}()

	statsd, err := NewMetrics(ctx, cfg.Metrics, log)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := statsd.Close(); cerr != nil {
			log.Warn("close statsd", "error", cerr)
		}
	}()

	services, err := BuildServices(ServiceConfig{
		Config:      &cfg,
		DB:          db,
		RedisClient: rdb,
		Metrics:     statsd,
		Logger:      log,
	})
	if err != nil {
		return err
	}
	status := services.Catalog.Recheck(ctx)
	log.InfoContext(ctx, "catalog source selected", "connection_status", status)

	server, err := NewHTTPServer(&HTTPServerConfig{Config: &cfg, Services: services, Logger: log})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return ServeHTTP(gctx, server, cfg.HTTP.ShutdownTimeout, log) })
	g.Go(func() error { return services.Registry.Run(gctx) })
	if err := g.Wait(); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}
