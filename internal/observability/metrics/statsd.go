package metrics

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"net"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

const dialTimeout = 5 * time.Second

// StatsDConfig configures NewStatsD.
type StatsDConfig struct {
	Address string // host:port; empty disables emission
	Prefix  string
	Tags    Tags // added to every sample
	Logger  *slog.Logger
}

// StatsD writes samples as UDP datagrams in the DogStatsD line format.
type StatsD struct {
	prefix string
	tags   Tags
	logger *slog.Logger

	mu   sync.Mutex
	conn net.Conn
}

var _ Sink = (*StatsD)(nil)

// NewStatsD dials cfg.Address. With no address the client is a no-op.
func NewStatsD(ctx context.Context, cfg StatsDConfig) (*StatsD, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &StatsD{
		prefix: strings.Trim(strings.TrimSpace(cfg.Prefix), "."),
		tags:   maps.Clone(cfg.Tags),
		logger: logger.With("component", "statsd"),
	}
	addr := strings.TrimSpace(cfg.Address)
	if addr == "" {
		return s, nil
	}

	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	conn, err := (&net.Dialer{}).DialContext(dialCtx, "udp", addr)
	if err != nil {
		return nil, fmt.Errorf("statsd dial %s: %w", addr, err)
	}
	s.conn = conn
	return s, nil
}

// Enabled reports whether samples are sent anywhere.
func (s *StatsD) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil
}

func (s *StatsD) Count(name string, value int64, tags Tags) {
	s.send(name, strconv.FormatInt(value, 10), "c", tags)
}

func (s *StatsD) Gauge(name string, value float64, tags Tags) {
	s.send(name, strconv.FormatFloat(value, 'f', -1, 64), "g", tags)
}

func (s *StatsD) Timing(name string, value time.Duration, tags Tags) {
	ms := float64(value) / float64(time.Millisecond)
	s.send(name, strconv.FormatFloat(ms, 'f', -1, 64), "ms", tags)
}

// Close releases the UDP socket. Later samples are dropped.
func (s *StatsD) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

func (s *StatsD) send(name, value, kind string, tags Tags) {
	line := s.line(name, value, kind, tags)
	if line == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return
	}
	if _, err := s.conn.Write([]byte(line)); err != nil {
		s.logger.Debug("statsd write failed", "error", err)
	}
}

// line renders "prefix.name:value|kind|#k:v,..." with tags sorted by key.
func (s *StatsD) line(name, value, kind string, tags Tags) string {
	name = metricName(name)
	if name == "" {
		return ""
	}
	if s.prefix != "" {
		name = s.prefix + "." + name
	}

	var b strings.Builder
	b.WriteString(name)
	b.WriteByte(':')
	b.WriteString(value)
	b.WriteByte('|')
	b.WriteString(kind)

	merged := make(Tags, len(s.tags)+len(tags))
	for _, src := range []Tags{s.tags, tags} {
		for k, v := range src {
			if k = strings.TrimSpace(k); k != "" {
				merged[k] = strings.TrimSpace(v)
			}
		}
	}
	for i, k := range slices.Sorted(maps.Keys(merged)) {
		if i == 0 {
			b.WriteString("|#")
		} else {
			b.WriteByte(',')
		}
		b.WriteString(k)
		b.WriteByte(':')
		b.WriteString(merged[k])
	}
	return b.String()
}

var nameReplacer = strings.NewReplacer(" ", "_", "/", "_", ":", "_", "|", "_")

func metricName(name string) string {
	n := nameReplacer.Replace(strings.TrimSpace(name))
	for strings.Contains(n, "..") {
		n = strings.ReplaceAll(n, "..", ".")
	}
	return strings.Trim(n, ".")
}
