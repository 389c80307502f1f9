package config

import "time"

// DBConfig is read from DB_*. Postgres backs the live template catalog and
// the role permission table.
type DBConfig struct {
	Host     string `env:"HOST"     envDefault:"localhost"`
	Port     int    `env:"PORT"     envDefault:"5432"`
	User     string `env:"USER"     envDefault:"lovenote"`
	Password string `env:"PASSWORD" envDefault:"lovenote"`
	Name     string `env:"NAME"     envDefault:"lovenote"`
	SSLMode  string `env:"SSL_MODE" envDefault:"disable"`

	MaxOpenConns    int           `env:"MAX_OPEN_CONNS"    envDefault:"25"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS"    envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"5m"`

	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`

	// Required makes an unreachable database fatal at startup. Otherwise the
	// catalog starts on its built-in fallback and the health check skips Postgres.
	Required bool `env:"REQUIRED" envDefault:"false"`
}

// RedisConfig is read from REDIS_*. Redis holds sessions, tab flags and
// the category cache.
type RedisConfig struct {
	URI                string        `env:"URI"                  envDefault:"localhost:6379"`
	Password           string        `env:"PASSWORD"             envDefault:""`
	SentinelNodes      []string      `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string        `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string        `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool          `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string      `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool          `env:"USE_CLUSTER"          envDefault:"false"`
	TabFlagTTL         time.Duration `env:"TAB_FLAG_TTL"         envDefault:"12h"`
}
