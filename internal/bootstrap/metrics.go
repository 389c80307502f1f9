package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lovenote/lovenote-web/config"
	"github.com/lovenote/lovenote-web/internal/observability/metrics"
)

// NewMetrics creates the StatsD client. Without an address it records nothing.
func NewMetrics(ctx context.Context, cfg config.MetricsConfig, log *slog.Logger) (*metrics.StatsD, error) {
	var tags metrics.Tags
	if cfg.Env != "" {
		tags = metrics.Tags{"env": cfg.Env}
	}
	client, err := metrics.NewStatsD(ctx, metrics.StatsDConfig{
		Address: cfg.StatsDAddress,
		Prefix:  cfg.Prefix,
		Tags:    tags,
		Logger:  log,
	})
	if err != nil {
		return nil, fmt.Errorf("init statsd: %w", err)
	}
	if client.Enabled() {
		logger(log).InfoContext(ctx, "statsd metrics enabled", "address", cfg.StatsDAddress, "prefix", cfg.Prefix)
	}
	return client, nil
}
