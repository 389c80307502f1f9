// Package healthprobe checks backend reachability with a bounded HEAD request.
package healthprobe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultTimeout bounds a single probe.
const DefaultTimeout = 5 * time.Second

// ErrUnhealthy is returned for a non-2xx response.
var ErrUnhealthy = errors.New("health check returned non-2xx status")

// Options configures NewHTTPProber.
type Options struct {
	URL     string
	Timeout time.Duration
	Client  *http.Client
}

// HTTPProber issues HEAD requests against a health endpoint. Concurrent
// probes share one in-flight request.
type HTTPProber struct {
	url     string
	timeout time.Duration
	client  *http.Client
	group   singleflight.Group
}

// NewHTTPProber creates a prober for opts.URL.
func NewHTTPProber(opts Options) (*HTTPProber, error) {
	if opts.URL == "" {
		return nil, errors.New("health check URL is required")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Client == nil {
		opts.Client = &http.Client{}
	}
	return &HTTPProber{url: opts.URL, timeout: opts.Timeout, client: opts.Client}, nil
}

// Probe reports nil when the endpoint answers 2xx within the timeout.
func (p *HTTPProber) Probe(ctx context.Context) error {
	ch := p.group.DoChan(p.url, func() (any, error) {
		return nil, p.do(context.WithoutCancel(ctx))
	})
	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *HTTPProber) do(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.url, nil)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("health request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %d", ErrUnhealthy, resp.StatusCode)
	}
	return nil
}
