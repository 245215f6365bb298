// console_hook.go — Console capture for the host process.
// ConsoleHook wraps a slog.Handler: error-level records become console.error
// events on the session, then pass through to the wrapped handler unchanged.
// RecoverUncaught and RecordRejection cover the other two console kinds.
package capture

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"

	"github.com/dev-console/pagectx/internal/types"
)

// ConsoleHook is a slog.Handler that mirrors errors into a Session.
type ConsoleHook struct {
	next    slog.Handler
	session *Session
	attrs   []slog.Attr
}

// NewConsoleHook wraps next so that error records are captured in s.
func NewConsoleHook(next slog.Handler, s *Session) *ConsoleHook {
	return &ConsoleHook{next: next, session: s}
}

func (h *ConsoleHook) Enabled(ctx context.Context, l slog.Level) bool {
	return l >= slog.LevelError || h.next.Enabled(ctx, l)
}

func (h *ConsoleHook) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError && h.session != nil {
		h.capture(r)
	}
	if !h.next.Enabled(ctx, r.Level) {
		return nil
	}
	return h.next.Handle(ctx, r)
}

func (h *ConsoleHook) capture(r slog.Record) {
	// Capturing must never feed back into the host's own error path.
	defer func() { _ = recover() }()
	var b strings.Builder
	b.WriteString(r.Message)
	for _, a := range h.attrs {
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value)
		return true
	})
	h.session.RecordConsole(types.ConsoleEvent{
		Type:      types.ConsoleError,
		Message:   b.String(),
		Timestamp: r.Time.UnixMilli(),
	})
}

func (h *ConsoleHook) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &ConsoleHook{next: h.next.WithAttrs(attrs), session: h.session, attrs: merged}
}

func (h *ConsoleHook) WithGroup(name string) slog.Handler {
	return &ConsoleHook{next: h.next.WithGroup(name), session: h.session, attrs: h.attrs}
}

// RecoverUncaught records a panic in progress as an uncaught event and
// re-panics. Use as: defer capture.RecoverUncaught(s).
func RecoverUncaught(s *Session) {
	r := recover()
	if r == nil {
		return
	}
	s.RecordConsole(types.ConsoleEvent{
		Type:    types.ConsoleUncaught,
		Message: fmt.Sprint(r),
		Stack:   string(debug.Stack()),
	})
	panic(r)
}

// RecordRejection records an error from an abandoned asynchronous operation.
func (s *Session) RecordRejection(err error) {
	if err == nil {
		return
	}
	s.RecordConsole(types.ConsoleEvent{
		Type:    types.ConsoleUnhandled,
		Message: err.Error(),
	})
}
