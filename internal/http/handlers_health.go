package httpx

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const healthResponse = `{"status":"ok"}`

// healthHandler is the process liveness check.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = io.WriteString(w, healthResponse)
}

// HealthCheck is one dependency probed by the health-check endpoint.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// HealthHandler answers the connection banner's reachability probe.
// HEAD|GET /api/health-check.
type HealthHandler struct {
	Checks  []HealthCheck
	Timeout time.Duration
	Logger  *slog.Logger
}

type healthReport struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	var (
		mu     sync.Mutex
		report = healthReport{Status: "ok", Checks: make(map[string]string, len(h.Checks))}
	)
	var g errgroup.Group
	for _, c := range h.Checks {
		g.Go(func() error {
			result := "ok"
			if err := c.Check(ctx); err != nil {
				result = "error"
				h.logger().WarnContext(r.Context(), "health check failed",
					slog.String("check", c.Name), slog.Any("error", err))
			}
			mu.Lock()
			report.Checks[c.Name] = result
			if result != "ok" {
				report.Status = "unavailable"
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	status := http.StatusOK
	if report.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	w.Header().Set("Cache-Control", "no-store")
	if r.Method == http.MethodHead {
		w.WriteHeader(status)
		return
	}
	WriteJSON(w, status, report)
}

func (h *HealthHandler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}
