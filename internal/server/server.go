// server.go — Local HTTP bridge between the observed page and the engine.
// The page posts captured events and page snapshots; the UI side asks for
// context documents and streams broadcasts over SSE.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/dev-console/pagectx/internal/bus"
	"github.com/dev-console/pagectx/internal/capture"
	"github.com/dev-console/pagectx/internal/engine"
)

// maxPostBodySize bounds every request body.
const maxPostBodySize = 5 << 20

// Server serves the bridge endpoints.
type Server struct {
	session *capture.Session
	bus     *bus.Bus
	engine  *engine.Engine
	logger  *slog.Logger
	version string
	metrics *metrics
}

// Options configures a Server.
type Options struct {
	Session *capture.Session
	Bus     *bus.Bus
	Engine  *engine.Engine
	Logger  *slog.Logger
	Version string
}

// New creates a Server.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Server{
		session: opts.Session,
		bus:     opts.Bus,
		engine:  opts.Engine,
		logger:  opts.Logger,
		version: opts.Version,
		metrics: newMetrics(),
	}
}

// Handler returns the routed, CORS-guarded handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.count("health", s.handleHealth))
	mux.HandleFunc("/capture/network", s.count("capture_network", s.handleCaptureNetwork))
	mux.HandleFunc("/capture/console", s.count("capture_console", s.handleCaptureConsole))
	mux.HandleFunc("/capture/page", s.count("capture_page", s.handleCapturePage))
	mux.HandleFunc("/message", s.count("message", s.handleMessage))
	mux.HandleFunc("/events", s.handleEvents)
	mux.HandleFunc("/context", s.count("context", s.handleContext))
	mux.HandleFunc("/index", s.count("index", s.handleIndex))
	mux.HandleFunc("/resolve", s.count("resolve", s.handleResolve))
	mux.HandleFunc("/history", s.count("history", s.handleHistory))
	return corsMiddleware(mux)
}

// ListenAndServe serves on addr until ctx is done, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("http shutdown", "error", err)
		}
	}()
	s.logger.Info("bridge listening", "addr", ln.Addr().String())
	err := srv.Serve(ln)
	wg.Wait()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) sessionID() string {
	if s.session == nil {
		return ""
	}
	return s.session.ID()
}

// jsonResponse writes data as a JSON response with the given status.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Default().Warn("encode JSON response", "error", err)
	}
}

func errorResponse(w http.ResponseWriter, status int, msg string) {
	jsonResponse(w, status, map[string]string{"error": msg})
}

// decodeBody decodes a bounded JSON request body into dst.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxPostBodySize)
	return json.NewDecoder(r.Body).Decode(dst)
}
