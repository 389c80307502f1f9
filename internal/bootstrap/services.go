package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/lovenote/lovenote-web/config"
	"github.com/lovenote/lovenote-web/internal/adapters/healthprobe"
	redisadapter "github.com/lovenote/lovenote-web/internal/adapters/redis"
	"github.com/lovenote/lovenote-web/internal/core"
	"github.com/lovenote/lovenote-web/internal/data"
	httpx "github.com/lovenote/lovenote-web/internal/http"
	"github.com/lovenote/lovenote-web/internal/observability/metrics"
	"github.com/lovenote/lovenote-web/internal/service"
	"github.com/lovenote/lovenote-web/internal/service/connection"
)

// HealthCheckPath is the endpoint the connection banner probes.
const HealthCheckPath = "/api/health-check"

// ServiceContainer holds the services shared by the HTTP server and background loops.
type ServiceContainer struct {
	Auth         *service.AuthService // nil when auth is disabled
	Catalog      *service.CatalogService
	Registry     *connection.Registry
	Flags        *redisadapter.FlagStore
	HealthChecks []httpx.HealthCheck
	Metrics      metrics.Sink
}

// ServiceConfig contains dependencies for BuildServices.
type ServiceConfig struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Metrics     metrics.Sink // optional
	Logger      *slog.Logger
}

// BuildServices wires repositories, adapters and services.
func BuildServices(cfg ServiceConfig) (ServiceContainer, error) {
	if cfg.Config == nil {
		return ServiceContainer{}, errors.New("config is required")
	}
	if cfg.DB == nil || cfg.RedisClient == nil {
		return ServiceContainer{}, errors.New("database and redis clients are required")
	}
	appCfg := cfg.Config
	log := logger(cfg.Logger)

	categories := core.NewCategoryCache(core.CategoryCacheOptions{
		Cache:  data.NewRedisCacheRepo(cfg.RedisClient, ""),
		TTL:    appCfg.Catalog.CategoryCacheTTL,
		Logger: log,
	})
	catalog := service.NewCatalogService(service.CatalogServiceOptions{
		Live:         data.NewTemplateRepo(cfg.DB, appCfg.Catalog.Limit),
		Fallback:     data.NewStaticCatalog(),
		Categories:   categories,
		ProbeTimeout: appCfg.Catalog.ProbeTimeout,
		Limit:        appCfg.Catalog.Limit,
		Metrics:      cfg.Metrics,
		Logger:       log,
	})

	flags := redisadapter.NewFlagStore(cfg.RedisClient, redisadapter.FlagStoreOptions{TTL: appCfg.Redis.TabFlagTTL})

	prober, err := healthprobe.NewHTTPProber(healthprobe.Options{
		URL:     appCfg.HTTP.BaseURL + HealthCheckPath,
		Timeout: appCfg.Connection.ProbeTimeout,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("create health prober: %w", err)
	}
	registry, err := connection.NewRegistry(connection.Options{
		Prober:        prober,
		Flags:         flags,
		ProbeInterval: appCfg.Connection.ProbeInterval,
		ProbeTimeout:  appCfg.Connection.ProbeTimeout,
		RetryDelay:    appCfg.Connection.RetryDelay,
		IdleTTL:       appCfg.Connection.IdleTTL,
		OnRetry:       func(ctx context.Context) { catalog.Recheck(ctx) },
		Metrics:       cfg.Metrics,
		Logger:        log,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("create connection registry: %w", err)
	}

	auth := BuildAuthService(AuthConfig{
		Auth:        appCfg.Auth,
		RedisClient: cfg.RedisClient,
		Permissions: data.NewPermissionRepo(cfg.DB),
		Logger:      log,
	})

	return ServiceContainer{
		Auth:         auth,
		Catalog:      catalog,
		Registry:     registry,
		Flags:        flags,
		HealthChecks: healthChecks(appCfg.Postgres, cfg.DB, cfg.RedisClient),
		Metrics:      cfg.Metrics,
	}, nil
}

// healthChecks lists the dependencies behind /api/health-check. The
// database only counts when the deployment requires it.
func healthChecks(db config.DBConfig, sqlDB *sql.DB, client redis.UniversalClient) []httpx.HealthCheck {
	checks := []httpx.HealthCheck{{
		Name:  "redis",
		Check: func(ctx context.Context) error { return client.Ping(ctx).Err() },
	}}
	if db.Required {
		checks = append(checks, httpx.HealthCheck{Name: "postgres", Check: sqlDB.PingContext})
	}
	return checks
}
