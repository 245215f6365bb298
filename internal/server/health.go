// health.go — Request counters and the /health endpoint.
package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
)

// metrics counts requests and failures per endpoint.
type metrics struct {
	mu        sync.RWMutex
	startTime time.Time
	requests  map[string]int64
	errors    map[string]int64
}

func newMetrics() *metrics {
	return &metrics{
		startTime: time.Now(),
		requests:  make(map[string]int64),
		errors:    make(map[string]int64),
	}
}

func (m *metrics) record(name string, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[name]++
	if status >= 400 {
		m.errors[name]++
	}
}

func (m *metrics) snapshot() (map[string]int64, map[string]int64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	req := make(map[string]int64, len(m.requests))
	for k, v := range m.requests {
		req[k] = v
	}
	errs := make(map[string]int64, len(m.errors))
	for k, v := range m.errors {
		errs[k] = v
	}
	return req, errs
}

// statusRecorder captures the status written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// count wraps h so its requests show up in /health.
func (s *Server) count(name string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h(rec, r)
		s.metrics.record(name, rec.status)
	}
}

type healthResponse struct {
	Status    string           `json:"status"`
	Version   string           `json:"version,omitempty"`
	Session   string           `json:"session,omitempty"`
	Detached  bool             `json:"detached"`
	Uptime    string           `json:"uptime"`
	StartedAt string           `json:"startedAt"`
	Errors    int              `json:"errors"`
	Network   int              `json:"network"`
	Requests  map[string]int64 `json:"requests"`
	Failures  map[string]int64 `json:"failures,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		errorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	req, errs := s.metrics.snapshot()
	resp := healthResponse{
		Status:    "ok",
		Version:   s.version,
		Session:   s.sessionID(),
		Uptime:    time.Since(s.metrics.startTime).Round(time.Second).String(),
		StartedAt: humanize.Time(s.metrics.startTime),
		Requests:  req,
		Failures:  errs,
	}
	if s.session != nil {
		resp.Detached = s.session.Detached()
		resp.Errors = len(s.session.Errors())
		resp.Network = len(s.session.Network())
	}
	if s.bus == nil || s.bus.Closed() {
		resp.Detached = true
	}
	jsonResponse(w, http.StatusOK, resp)
}
