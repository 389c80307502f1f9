// Package testutil connects tests to the docker-compose Postgres and Redis
// and builds catalog fixtures. Integration tests skip when either is down
// unless the matching TEST_REQUIRE_* variable is set.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"os"
	"time"

	env "github.com/caarlos0/env/v11"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/lovenote/lovenote-web/internal/migrate"
	"github.com/redis/go-redis/v9"
)

// TB is the subset of testing.TB the helpers need.
type TB interface {
	Helper()
	Skipf(format string, args ...any)
	Fatalf(format string, args ...any)
	Logf(format string, args ...any)
	Cleanup(func())
}

// Infra locates the test services. Defaults match the compose test profile.
type Infra struct {
	DBHost     string `env:"TEST_DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"TEST_DB_PORT" envDefault:"55432"`
	DBUser     string `env:"TEST_DB_USER" envDefault:"lovenote"`
	DBPassword string `env:"TEST_DB_PASSWORD" envDefault:"lovenote"`
	DBName     string `env:"TEST_DB_NAME" envDefault:"lovenote"`

	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:56379"`
	// RedisDB pins the database index; -1 reserves a free one.
	RedisDB int `env:"TEST_REDIS_DB" envDefault:"-1"`

	RequireDB    bool `env:"TEST_REQUIRE_DB"`
	RequireRedis bool `env:"TEST_REQUIRE_REDIS"`
	RequireAll   bool `env:"TEST_REQUIRE_INFRA"`
}

func LoadInfra() (Infra, error) {
	return env.ParseAs[Infra]()
}

func (i Infra) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(i.DBUser, i.DBPassword),
		Host:     net.JoinHostPort(i.DBHost, i.DBPort),
		Path:     "/" + i.DBName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// unavailable fails or skips depending on whether the service is required.
func unavailable(t TB, required bool, format string, args ...any) {
	t.Helper()
	if required {
		t.Fatalf(format, args...)
	}
	t.Skipf(format, args...)
}

func mustInfra(t TB) Infra {
	t.Helper()
	infra, err := LoadInfra()
	if err != nil {
		t.Fatalf("parse test infra env: %v", err)
	}
	return infra
}

// SetupTestDB returns a migrated database with empty catalog and permission
// tables. It is closed when the test ends.
func SetupTestDB(t TB) *sql.DB {
	t.Helper()
	infra := mustInfra(t)

	db, err := sql.Open("pgx", infra.DSN())
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		unavailable(t, infra.RequireDB || infra.RequireAll, "test database not available: %v", err)
		return nil
	}
	if err := migrate.Run(ctx, db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	// Children before parents.
	for _, table := range []string{"template_images", "templates", "template_categories", "role_permissions"} {
		if _, err := db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			t.Fatalf("truncate %s: %v", table, err)
		}
	}
	return db
}

// SetupTestRedis returns a client on a flushed database index of its own.
func SetupTestRedis(t TB) *redis.Client {
	t.Helper()
	infra := mustInfra(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	meta := redis.NewClient(&redis.Options{Addr: infra.RedisAddr})
	t.Cleanup(func() { _ = meta.Close() })
	if err := meta.Ping(ctx).Err(); err != nil {
		unavailable(t, infra.RequireRedis || infra.RequireAll, "redis not available at %s: %v", infra.RedisAddr, err)
		return nil
	}

	db := infra.RedisDB
	if db < 0 {
		db = reserveRedisDB(ctx, t, meta)
	}
	client := redis.NewClient(&redis.Options{Addr: infra.RedisAddr, DB: db})
	t.Cleanup(func() { _ = client.Close() })
	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("flush redis db %d: %v", db, err)
	}
	return client
}

// reserveRedisDB claims an index in 1..15 with a lock key in DB 0 so
// packages tested in parallel never flush each other.
func reserveRedisDB(ctx context.Context, t TB, meta *redis.Client) int {
	t.Helper()
	for i := 1; i <= 15; i++ {
		key := fmt.Sprintf("lovenote:testutil:db_lock:%d", i)
		ok, err := meta.SetNX(ctx, key, os.Getpid(), 30*time.Minute).Result()
		if err != nil || !ok {
			continue
		}
		t.Cleanup(func() {
			if err := meta.Del(context.Background(), key).Err(); err != nil {
				t.Logf("release redis db lock %s: %v", key, err)
			}
		})
		return i
	}
	t.Logf("no free redis db index, sharing db 1")
	return 1
}

// TestTime is the fixed clock fixtures are stamped with.
func TestTime() time.Time {
	return time.Date(2024, 6, 15, 14, 0, 0, 0, time.UTC)
}
