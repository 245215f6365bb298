// session.go — CaptureSession: ring buffers, page snapshot and notifications.
// Design: one Session per observed page, constructed once by whoever attaches
// it. Reads return newest-first copies; Reset empties both buffers.
package capture

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dev-console/pagectx/internal/buffers"
	"github.com/dev-console/pagectx/internal/bus"
	"github.com/dev-console/pagectx/internal/coalesce"
	"github.com/dev-console/pagectx/internal/types"
)

// Default buffer capacities.
const (
	DefaultErrorCapacity   = 20
	DefaultNetworkCapacity = 50
)

// Broadcaster delivers fire-and-forget notifications to the UI side.
// Implemented by *bus.Bus.
type Broadcaster interface {
	Broadcast(action string, payload any) error
}

// Options configures a Session. Zero values select the defaults.
type Options struct {
	ErrorCapacity   int
	NetworkCapacity int
	Debounce        time.Duration
	Broadcaster     Broadcaster
	Logger          *slog.Logger
	Now             func() time.Time
}

// Session holds the transient capture state of one observed page.
type Session struct {
	id      string
	errors  *buffers.RingBuffer[types.ConsoleEvent]
	network *buffers.RingBuffer[types.NetworkEvent]

	networkEmitter *coalesce.Emitter
	errorEmitter   *coalesce.Emitter

	broadcaster Broadcaster
	detached    atomic.Bool
	logger      *slog.Logger
	now         func() time.Time

	mu          sync.RWMutex
	url         string
	title       string
	performance types.PerformanceSnapshot
	lastError   types.ConsoleEvent
}

// NewSession constructs a capture session.
func NewSession(opts Options) *Session {
	if opts.ErrorCapacity <= 0 {
		opts.ErrorCapacity = DefaultErrorCapacity
	}
	if opts.NetworkCapacity <= 0 {
		opts.NetworkCapacity = DefaultNetworkCapacity
	}
	if opts.Debounce <= 0 {
		opts.Debounce = coalesce.DefaultWindow
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &Session{
		id:          uuid.NewString(),
		errors:      buffers.NewRingBuffer[types.ConsoleEvent](opts.ErrorCapacity),
		network:     buffers.NewRingBuffer[types.NetworkEvent](opts.NetworkCapacity),
		broadcaster: opts.Broadcaster,
		now:         opts.Now,
	}
	s.logger = opts.Logger.With("session", s.id)
	s.networkEmitter = coalesce.NewEmitter(opts.Debounce, s.notifyNetwork)
	s.errorEmitter = coalesce.NewEmitter(opts.Debounce, s.notifyError)
	if s.broadcaster == nil {
		s.detached.Store(true)
	}
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// RecordNetwork stamps ev with the capture time when it has none, normalizes
// it, pushes it onto the network buffer and schedules a networkDataUpdated
// broadcast.
func (s *Session) RecordNetwork(ev types.NetworkEvent) types.NetworkEvent {
	if ev.Timestamp <= 0 {
		ev.Timestamp = s.now().UnixMilli()
	}
	ev = types.NormalizeNetworkEvent(ev)
	s.network.Push(ev)
	if !s.detached.Load() {
		s.networkEmitter.Trigger()
	}
	return ev
}

// RecordConsole pushes a console event and schedules a consoleError broadcast.
// Unknown kinds are recorded as console.error.
func (s *Session) RecordConsole(ev types.ConsoleEvent) {
	if !types.ValidConsoleType(ev.Type) {
		ev.Type = types.ConsoleError
	}
	if ev.Timestamp <= 0 {
		ev.Timestamp = s.now().UnixMilli()
	}
	s.errors.Push(ev)
	s.mu.Lock()
	s.lastError = ev
	s.mu.Unlock()
	if !s.detached.Load() {
		s.errorEmitter.Trigger()
	}
}

// Errors returns up to capacity console events, newest first.
func (s *Session) Errors() []types.ConsoleEvent {
	return s.errors.Newest(0)
}

// Network returns up to capacity network events, newest first.
func (s *Session) Network() []types.NetworkEvent {
	return s.network.Newest(0)
}

// Reset empties both buffers.
func (s *Session) Reset() {
	s.errors.Clear()
	s.network.Clear()
}

// SetPage records the current page URL, title and performance snapshot.
func (s *Session) SetPage(url, title string, perf *types.PerformanceSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.url = url
	s.title = title
	if perf != nil {
		s.performance = *perf
	}
}

// DebugInfo returns the getDebugInfo payload.
func (s *Session) DebugInfo() types.DebugInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	info := types.DebugInfo{
		Errors:      s.Errors(),
		Network:     s.Network(),
		Performance: s.performance,
		URL:         s.url,
		Title:       s.title,
	}
	if info.Errors == nil {
		info.Errors = []types.ConsoleEvent{}
	}
	if info.Network == nil {
		info.Network = []types.NetworkEvent{}
	}
	return info
}

// Attach registers the getDebugInfo and clearDebugInfo handlers on b and
// uses b for broadcasts.
func (s *Session) Attach(b *bus.Bus) {
	b.Handle(bus.ActionGetDebugInfo, func(context.Context, bus.Message) (any, error) {
		return s.DebugInfo(), nil
	})
	b.Handle(bus.ActionClearDebugInfo, func(context.Context, bus.Message) (any, error) {
		s.Reset()
		return bus.ClearResult{OK: true}, nil
	})
	s.broadcaster = b
	s.detached.Store(b.Closed())
}

// Detached reports whether notifications have stopped.
func (s *Session) Detached() bool { return s.detached.Load() }

// Flush delivers any pending notifications immediately.
func (s *Session) Flush() {
	s.networkEmitter.Flush()
	s.errorEmitter.Flush()
}

// Close stops pending notifications. Buffers stay readable.
func (s *Session) Close() {
	s.networkEmitter.Stop()
	s.errorEmitter.Stop()
}

func (s *Session) notifyNetwork() {
	s.broadcast(bus.ActionNetworkDataUpdated, bus.NetworkDataUpdatedPayload{Count: s.network.Len()})
}

func (s *Session) notifyError() {
	s.mu.RLock()
	last := s.lastError
	s.mu.RUnlock()
	s.broadcast(bus.ActionConsoleError, bus.ConsoleErrorPayload{Error: last})
}

// broadcast sends one notification. A detached channel is detected once;
// afterwards the session stops notifying. Other failures are logged and dropped.
func (s *Session) broadcast(action string, payload any) {
	if s.detached.Load() || s.broadcaster == nil {
		return
	}
	err := s.broadcaster.Broadcast(action, payload)
	if err == nil {
		return
	}
	if errors.Is(err, types.ErrDetached) {
		if s.detached.CompareAndSwap(false, true) {
			s.logger.Warn("broadcast channel detached; capture continues without notifications")
			s.networkEmitter.Stop()
			s.errorEmitter.Stop()
		}
		return
	}
	s.logger.Debug("broadcast failed", "action", action, "error", err)
}
