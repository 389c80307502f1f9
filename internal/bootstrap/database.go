package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/redis/go-redis/v9"

	"github.com/lovenote/lovenote-web/config"
	"github.com/lovenote/lovenote-web/internal/data"
)

const connectTimeout = 5 * time.Second

// DatabaseConfig bundles what ConnectDB and ConnectRedis need.
type DatabaseConfig struct {
	DBConfig    config.DBConfig
	RedisConfig config.RedisConfig
	Logger      *slog.Logger
}

// DSN renders c as a postgres:// URL with escaped credentials.
func DSN(c config.DBConfig) string {
	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/" + c.Name,
	}
	q := u.Query()
	q.Set("sslmode", c.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// ConnectDB opens the Postgres pool. An unreachable database is fatal only
// when DB_REQUIRED is set; otherwise the pool is returned and the catalog
// serves its built-in templates until the database answers.
func ConnectDB(ctx context.Context, cfg DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("pgx", DSN(cfg.DBConfig))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.DBConfig.MaxOpenConns)
	db.SetMaxIdleConns(cfg.DBConfig.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.DBConfig.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if pingErr := db.PingContext(pingCtx); pingErr != nil {
		if cfg.DBConfig.Required {
			return nil, errors.Join(fmt.Errorf("ping database: %w", pingErr), db.Close())
		}
		logger(cfg.Logger).WarnContext(ctx, "database unreachable, catalog starts offline", "error", pingErr)
		return db, nil
	}

	logger(cfg.Logger).InfoContext(ctx, "database connected",
		"host", cfg.DBConfig.Host,
		"port", cfg.DBConfig.Port,
		"database", cfg.DBConfig.Name,
	)
	return db, nil
}

// ConnectRedis builds the Redis client. Only configuration errors are
// returned. An unreachable server is logged, and guards see sessions as
// loading until it answers.
//
//nolint:ireturn // cluster, sentinel and direct modes share redis.UniversalClient.
func ConnectRedis(ctx context.Context, cfg DatabaseConfig) (redis.UniversalClient, error) {
	opts, desc, err := redisOptions(cfg.RedisConfig)
	if err != nil {
		return nil, err
	}
	client := redis.NewUniversalClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	log := logger(cfg.Logger).With("redis", redactAddr(desc))
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.WarnContext(ctx, "redis unreachable at startup", "error", err)
		return client, nil
	}
	log.InfoContext(ctx, "redis connected")
	return client, nil
}

// redisOptions maps the config onto UniversalOptions and returns a
// description of the target for logs.
func redisOptions(cfg config.RedisConfig) (*redis.UniversalOptions, string, error) {
	switch {
	case cfg.UseCluster:
		nodes := trimmed(cfg.ClusterNodes)
		if len(nodes) == 0 {
			return nil, "", errors.New("REDIS_USE_CLUSTER needs REDIS_CLUSTER_NODES")
		}
		return &redis.UniversalOptions{Addrs: nodes, Password: cfg.Password, IsClusterMode: true},
			"cluster:" + strings.Join(nodes, ","), nil

	case cfg.UseSentinel:
		nodes := trimmed(cfg.SentinelNodes)
		if len(nodes) == 0 || cfg.SentinelMasterName == "" {
			return nil, "", errors.New("REDIS_USE_SENTINEL needs REDIS_SENTINEL_NODES and REDIS_SENTINEL_MASTER_NAME")
		}
		return &redis.UniversalOptions{
			Addrs:            nodes,
			MasterName:       cfg.SentinelMasterName,
			Password:         cfg.Password,
			SentinelPassword: cfg.SentinelPassword,
		}, "sentinel:" + cfg.SentinelMasterName, nil
	}

	uri := strings.TrimSpace(cfg.URI)
	switch {
	case uri == "":
		return nil, "", errors.New("REDIS_URI is required")
	case strings.HasPrefix(uri, "redis://"), strings.HasPrefix(uri, "rediss://"):
		o, err := redis.ParseURL(uri)
		if err != nil {
			return nil, "", fmt.Errorf("parse REDIS_URI: %w", err)
		}
		return &redis.UniversalOptions{
			Addrs:     []string{o.Addr},
			Username:  o.Username,
			Password:  o.Password,
			DB:        o.DB,
			TLSConfig: o.TLSConfig,
		}, uri, nil
	default:
		return &redis.UniversalOptions{Addrs: []string{uri}, Password: cfg.Password}, uri, nil
	}
}

// redactAddr hides credentials in a Redis URL before it is logged.
func redactAddr(addr string) string {
	if u, err := url.Parse(addr); err == nil && u.User != nil {
		u.User = url.User("*")
		return u.Redacted()
	}
	if i := strings.LastIndex(addr, "@"); i >= 0 {
		return addr[i+1:]
	}
	return addr
}

func trimmed(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// RunMigrations applies the embedded catalog and permission migrations.
func RunMigrations(ctx context.Context, db *sql.DB, log *slog.Logger) error {
	if err := data.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	logger(log).InfoContext(ctx, "database migrations completed")
	return nil
}

func logger(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return slog.Default()
}
