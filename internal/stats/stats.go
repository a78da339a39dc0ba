// Package stats accumulates StreamMetrics across repeat sessions and,
// optionally, exposes them over a small read-only HTTP surface built with
// go-chi/chi, grounded on the teacher's cmd/server HTTP wiring. The HTTP
// surface never participates in the raw-TCP wire protocol; it is a side
// channel for observability only.
package stats

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/SigmaX-ai/illex/internal/producer"
)

// StreamMetrics is additive across repeat sessions (spec.md §3).
type StreamMetrics struct {
	NumMessages int64             `json:"num_messages"`
	NumBytes    int64             `json:"num_bytes"`
	Time        time.Duration     `json:"time_ns"`
	Producer    producer.Metrics  `json:"producer"`
}

// Merge folds other into a copy of m and returns it.
func (m StreamMetrics) Merge(other StreamMetrics) StreamMetrics {
	return StreamMetrics{
		NumMessages: m.NumMessages + other.NumMessages,
		NumBytes:    m.NumBytes + other.NumBytes,
		Time:        m.Time + other.Time,
		Producer:    m.Producer.Merge(other.Producer),
	}
}

// Registry holds the current StreamMetrics snapshot behind a mutex so the
// optional HTTP endpoint can read it concurrently with session updates.
type Registry struct {
	mu      sync.RWMutex
	metrics StreamMetrics
	alive   bool
}

// NewRegistry returns an empty, "alive" registry.
func NewRegistry() *Registry {
	return &Registry{alive: true}
}

// Set replaces the current snapshot.
func (r *Registry) Set(m StreamMetrics) {
	r.mu.Lock()
	r.metrics = m
	r.mu.Unlock()
}

// Snapshot returns a copy of the current metrics.
func (r *Registry) Snapshot() StreamMetrics {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.metrics
}

// SetAlive flips the health flag reported by /healthz.
func (r *Registry) SetAlive(alive bool) {
	r.mu.Lock()
	r.alive = alive
	r.mu.Unlock()
}

func (r *Registry) isAlive() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.alive
}

// NewHTTPHandler builds a chi router exposing GET /stats and GET /healthz
// over the Registry.
func NewHTTPHandler(reg *Registry, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if !reg.isAlive() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	r.Get("/stats", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(reg.Snapshot()); err != nil && logger != nil {
			logger.Error("failed to encode stats", zap.Error(err))
		}
	})

	return r
}
