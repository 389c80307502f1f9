// Package config loads lovenote-web settings from the environment with
// caarlos0/env. Each concern lives in its own file:
//   - auth.go: login provider, role groups and the /me key gate
//   - database.go: Postgres and Redis
//   - http.go: listener, cookies and compression
//   - catalog.go: template catalog and connection banner
//   - metrics.go: StatsD
package config

import (
	"os"
	"slices"
	"strings"
)

type AppConfig struct {
	// IsDev reloads templates from disk and logs at debug level.
	// NODE_ENV=development also turns it on.
	IsDev bool `env:"DEV" envDefault:"false"`

	Auth AuthConfig
	Gate GateConfig

	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`

	HTTP       HTTPConfig
	Catalog    CatalogConfig
	Connection ConnectionConfig
	Metrics    MetricsConfig
}

// Sanitize clamps out-of-range values. Call it once after parsing.
func (c *AppConfig) Sanitize() {
	c.HTTP.Sanitize()
	c.Catalog.Sanitize()
	c.Connection.Sanitize()
	c.Gate.Sanitize()

	if !c.IsDev {
		c.IsDev = slices.Contains([]string{"development", "dev"}, strings.ToLower(os.Getenv("NODE_ENV")))
	}
}
