// logging.go — Structured JSONL logging to the state log file.
// Every record goes to the file as one JSON object per line; warnings and
// errors are also echoed to stderr with the [pagectx] prefix for operators.
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dev-console/pagectx/internal/state"
)

// ParseLevel maps a config log level to a slog.Level. Unknown values map to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Open creates a logger writing JSON lines to path (the default log file when
// empty). The returned closer releases the file.
func Open(path string, level slog.Level) (*slog.Logger, io.Closer, error) {
	if path == "" {
		p, err := state.DefaultLogFile()
		if err != nil {
			return nil, nil, err
		}
		path = p
	}
	if err := state.EnsureParent(path); err != nil {
		return nil, nil, err
	}
	// #nosec G304 -- path resolved from the runtime state directory
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return New(f, os.Stderr, level), f, nil
}

// New builds a logger that writes JSON to file and operator lines to stderr.
func New(file, stderr io.Writer, level slog.Level) *slog.Logger {
	jsonHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level})
	return slog.New(&teeHandler{
		primary: jsonHandler,
		echo:    &operatorHandler{w: stderr},
	})
}

// teeHandler forwards records to the primary handler and, for warn and above,
// to the operator echo.
type teeHandler struct {
	primary slog.Handler
	echo    slog.Handler
}

func (h *teeHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return h.primary.Enabled(ctx, l) || l >= slog.LevelWarn
}

func (h *teeHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	if h.primary.Enabled(ctx, r.Level) {
		errs = append(errs, h.primary.Handle(ctx, r))
	}
	if r.Level >= slog.LevelWarn {
		errs = append(errs, h.echo.Handle(ctx, r))
	}
	return errors.Join(errs...)
}

func (h *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &teeHandler{primary: h.primary.WithAttrs(attrs), echo: h.echo.WithAttrs(attrs)}
}

func (h *teeHandler) WithGroup(name string) slog.Handler {
	return &teeHandler{primary: h.primary.WithGroup(name), echo: h.echo.WithGroup(name)}
}

// operatorHandler prints "[pagectx] LEVEL msg key=value ..." lines.
type operatorHandler struct {
	w     io.Writer
	attrs []slog.Attr
}

func (h *operatorHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *operatorHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	fmt.Fprintf(&b, "[pagectx] %s %s", r.Level, r.Message)
	for _, a := range h.attrs {
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value)
		return true
	})
	b.WriteByte('\n')
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *operatorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &operatorHandler{w: h.w, attrs: merged}
}

func (h *operatorHandler) WithGroup(string) slog.Handler { return h }
