package metrics

import (
	"maps"
	"sync"
	"time"
)

// Sample is one recorded metric.
type Sample struct {
	Name  string
	Kind  string // "c", "g" or "ms"
	Value float64
	Tags  Tags
}

// Recorder is an in-memory Sink for tests.
type Recorder struct {
	mu      sync.Mutex
	samples []Sample
}

var _ Sink = (*Recorder)(nil)

func (r *Recorder) Count(name string, value int64, tags Tags) {
	r.add(Sample{Name: name, Kind: "c", Value: float64(value), Tags: maps.Clone(tags)})
}

func (r *Recorder) Gauge(name string, value float64, tags Tags) {
	r.add(Sample{Name: name, Kind: "g", Value: value, Tags: maps.Clone(tags)})
}

func (r *Recorder) Timing(name string, value time.Duration, tags Tags) {
	r.add(Sample{Name: name, Kind: "ms", Value: float64(value) / float64(time.Millisecond), Tags: maps.Clone(tags)})
}

func (r *Recorder) add(s Sample) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples = append(r.samples, s)
}

// Samples returns the samples named name, in order.
func (r *Recorder) Samples(name string) []Sample {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Sample
	for _, s := range r.samples {
		if s.Name == name {
			out = append(out, s)
		}
	}
	return out
}
