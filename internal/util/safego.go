// safego.go — Panic-recovering goroutine launcher.
package util

import (
	"log/slog"
	"runtime/debug"
)

// SafeGo launches fn in a goroutine with deferred panic recovery.
// On panic: logs the value and stack through logger. Background panics are
// survivable so the server stays up.
func SafeGo(logger *slog.Logger, fn func()) {
	if logger == nil {
		logger = slog.Default()
	}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic in background goroutine", "panic", r, "stack", string(debug.Stack()))
			}
		}()
		fn()
	}()
}
