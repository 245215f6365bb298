// console_hook_test.go — Tests for console, uncaught and rejection capture.
package capture

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/dev-console/pagectx/internal/types"
)

func TestConsoleHook_CapturesErrorsAndPassesThrough(t *testing.T) {
	t.Parallel()
	s := NewSession(Options{Debounce: time.Hour})
	defer s.Close()
	var out bytes.Buffer
	logger := slog.New(NewConsoleHook(slog.NewTextHandler(&out, nil), s)).With("route", "/login")

	logger.Info("rendered")
	logger.Error("fetch failed", "status", 500)

	errs := s.Errors()
	if len(errs) != 1 {
		t.Fatalf("captured %d events, want 1", len(errs))
	}
	if errs[0].Type != types.ConsoleError || !strings.Contains(errs[0].Message, "fetch failed") || !strings.Contains(errs[0].Message, "route=/login") {
		t.Errorf("event = %+v", errs[0])
	}
	if !strings.Contains(out.String(), "rendered") || !strings.Contains(out.String(), "fetch failed") {
		t.Errorf("wrapped handler output = %q", out.String())
	}
}

func TestRecoverUncaught_RecordsAndRepanics(t *testing.T) {
	t.Parallel()
	s := NewSession(Options{Debounce: time.Hour})
	defer s.Close()

	func() {
		defer func() {
			if r := recover(); r != "render crashed" {
				t.Errorf("re-panic value = %v", r)
			}
		}()
		defer RecoverUncaught(s)
		panic("render crashed")
	}()

	errs := s.Errors()
	if len(errs) != 1 || errs[0].Type != types.ConsoleUncaught || errs[0].Stack == "" {
		t.Errorf("errors = %+v", errs)
	}
}

func TestRecordRejection(t *testing.T) {
	t.Parallel()
	s := NewSession(Options{Debounce: time.Hour})
	defer s.Close()
	s.RecordRejection(nil)
	s.RecordRejection(errors.New("promise rejected"))
	errs := s.Errors()
	if len(errs) != 1 || errs[0].Type != types.ConsoleUnhandled {
		t.Errorf("errors = %+v", errs)
	}
}
