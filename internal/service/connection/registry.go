package connection

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/lovenote/lovenote-web/internal/observability/metrics"
	"github.com/lovenote/lovenote-web/internal/ports"
	"golang.org/x/sync/errgroup"
)

// Defaults applied by NewRegistry.
const (
	DefaultProbeInterval = 30 * time.Second
	DefaultProbeTimeout  = 5 * time.Second
	DefaultRetryDelay    = 1500 * time.Millisecond
	DefaultIdleTTL       = 30 * time.Minute

	sweepConcurrency = 16
)

// Options configures a Registry.
type Options struct {
	Prober ports.Prober    // Required
	Flags  ports.FlagStore // Optional: persists the error flag across reloads

	ProbeInterval time.Duration
	ProbeTimeout  time.Duration
	RetryDelay    time.Duration
	IdleTTL       time.Duration

	// OnRetry runs after a manual retry and, delayed, when a tab comes back online.
	OnRetry func(context.Context)
	Logger  *slog.Logger
	Metrics metrics.Sink // optional
	Now     func() time.Time
}

type deps struct {
	prober        ports.Prober
	flags         ports.FlagStore
	probeInterval time.Duration
	probeTimeout  time.Duration
	retryDelay    time.Duration
	onRetry       func(context.Context)
	logger        *slog.Logger
	metrics       metrics.Sink
	now           func() time.Time
}

func (d *deps) runProbe(ctx context.Context) error {
	probeCtx, cancel := context.WithTimeout(ctx, d.probeTimeout)
	defer cancel()
	err := d.prober.Probe(probeCtx)
	metrics.Count(d.metrics, metrics.BannerProbe, metrics.Tags{"result": metrics.Result(err)})
	return err
}

// Registry holds the banners of live tabs and evicts idle ones.
type Registry struct {
	deps    *deps
	idleTTL time.Duration

	mu      sync.Mutex
	banners map[string]*Banner
}

// NewRegistry creates a Registry.
func NewRegistry(opts Options) (*Registry, error) {
	if opts.Prober == nil {
		return nil, errors.New("prober is required")
	}
	d := &deps{
		prober:        opts.Prober,
		flags:         opts.Flags,
		probeInterval: orDefault(opts.ProbeInterval, DefaultProbeInterval),
		probeTimeout:  orDefault(opts.ProbeTimeout, DefaultProbeTimeout),
		retryDelay:    opts.RetryDelay,
		onRetry:       opts.OnRetry,
		logger:        opts.Logger,
		metrics:       opts.Metrics,
		now:           opts.Now,
	}
	if opts.RetryDelay < 0 {
		d.retryDelay = 0
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	d.logger = d.logger.With("component", "connection_registry")
	if d.now == nil {
		d.now = time.Now
	}
	return &Registry{
		deps:    d,
		idleTTL: orDefault(opts.IdleTTL, DefaultIdleTTL),
		banners: make(map[string]*Banner),
	}, nil
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}

// Banner returns the banner of tabID, creating it on first use. A new banner
// starts offline when the tab's error flag is set.
func (r *Registry) Banner(ctx context.Context, tabID string) *Banner {
	r.mu.Lock()
	b, ok := r.banners[tabID]
	r.mu.Unlock()
	if ok {
		b.touch()
		return b
	}

	initial := StateHidden
	if r.deps.flags != nil {
		_, seen, err := r.deps.flags.Get(ctx, tabID, FlagErrorSeen)
		if err != nil {
			r.deps.logger.WarnContext(ctx, "read connection flag failed", "tab_id", tabID, "error", err)
		}
		if seen {
			initial = StateOffline
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.banners[tabID]; ok {
		return existing
	}
	b = newBanner(tabID, r.deps, initial)
	r.banners[tabID] = b
	return b
}

// Len returns the number of tracked tabs.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.banners)
}

// Run evicts idle tabs and probes for visible banners on every interval until ctx ends.
// Returns nil on graceful shutdown.
func (r *Registry) Run(ctx context.Context) error {
	r.deps.logger.InfoContext(ctx, "starting connection registry",
		"probe_interval", r.deps.probeInterval,
		"idle_ttl", r.idleTTL,
	)
	ticker := time.NewTicker(r.deps.probeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.stopAll()
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
			r.Sweep(ctx)
		}
	}
}

// Sweep runs one eviction and probe pass.
func (r *Registry) Sweep(ctx context.Context) {
	now := r.deps.now()

	r.mu.Lock()
	active := make([]*Banner, 0, len(r.banners))
	for id, b := range r.banners {
		if b.idleSince(now) > r.idleTTL {
			b.stop()
			delete(r.banners, id)
			continue
		}
		active = append(active, b)
	}
	r.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(sweepConcurrency)
	for _, b := range active {
		g.Go(func() error {
			b.Check(gctx)
			return nil
		})
	}
	_ = g.Wait()
}

func (r *Registry) stopAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.banners {
		b.stop()
	}
}
