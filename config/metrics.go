package config

// MetricsConfig configures StatsD emission.
type MetricsConfig struct {
	// StatsDAddress is the UDP host:port of the agent. Empty disables metrics.
	StatsDAddress string `env:"STATSD_ADDRESS"`

	// Prefix is prepended to every metric name.
	Prefix string `env:"STATSD_PREFIX" envDefault:"lovenote"`

	// Env is added as the "env" tag when set.
	Env string `env:"STATSD_ENV"`
}
