package config

import "time"

// CatalogConfig contains template catalog configuration.
type CatalogConfig struct {
	// Limit caps the number of templates returned by a catalog query.
	Limit int `env:"CATALOG_LIMIT" envDefault:"50"`

	// ProbeTimeout bounds the reachability probe run when the catalog starts.
	ProbeTimeout time.Duration `env:"CATALOG_PROBE_TIMEOUT" envDefault:"3s"`

	// CategoryCacheTTL is how long category listings are cached in Redis.
	CategoryCacheTTL time.Duration `env:"CATALOG_CATEGORY_CACHE_TTL" envDefault:"10m"`

	// RecommendedLimit is the default size of the recommendation list.
	RecommendedLimit int `env:"CATALOG_RECOMMENDED_LIMIT" envDefault:"6"`
}

// Sanitize applies guardrails to catalog configuration values.
func (c *CatalogConfig) Sanitize() {
	if c.Limit < 1 {
		c.Limit = 1
	}
	if c.Limit > 500 {
		c.Limit = 500
	}
	if c.ProbeTimeout <= 0 {
		c.ProbeTimeout = 3 * time.Second
	}
	if c.CategoryCacheTTL < 0 {
		c.CategoryCacheTTL = 0
	}
	if c.RecommendedLimit < 1 {
		c.RecommendedLimit = 1
	}
}

// ConnectionConfig controls the connection banner health probing.
type ConnectionConfig struct {
	// ProbeInterval is how often a visible banner re-probes the health endpoint.
	ProbeInterval time.Duration `env:"CONNECTION_PROBE_INTERVAL" envDefault:"30s"`

	// ProbeTimeout bounds a single health probe.
	ProbeTimeout time.Duration `env:"CONNECTION_PROBE_TIMEOUT" envDefault:"5s"`

	// RetryDelay is the delay between an "online" event and the retry callback.
	RetryDelay time.Duration `env:"CONNECTION_RETRY_DELAY" envDefault:"1500ms"`

	// IdleTTL evicts banners of tabs that stopped talking to the server.
	IdleTTL time.Duration `env:"CONNECTION_IDLE_TTL" envDefault:"30m"`
}

// Sanitize applies guardrails to connection configuration values.
func (c *ConnectionConfig) Sanitize() {
	if c.ProbeInterval < time.Second {
		c.ProbeInterval = time.Second
	}
	if c.ProbeTimeout <= 0 || c.ProbeTimeout > c.ProbeInterval {
		c.ProbeTimeout = min(5*time.Second, c.ProbeInterval)
	}
	if c.RetryDelay < 0 {
		c.RetryDelay = 0
	}
	if c.IdleTTL < time.Minute {
		c.IdleTTL = time.Minute
	}
}
