package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_InfoGoesToFileOnly(t *testing.T) {
	t.Parallel()
	var file, stderr bytes.Buffer
	logger := New(&file, &stderr, slog.LevelInfo)

	logger.Info("indexed project", "files", 12)
	logger.Debug("hidden")

	var rec map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(file.Bytes()), &rec); err != nil {
		t.Fatalf("file output is not one JSON line: %v (%q)", err, file.String())
	}
	if rec["msg"] != "indexed project" || rec["files"] != float64(12) {
		t.Errorf("record = %v", rec)
	}
	if stderr.Len() != 0 {
		t.Errorf("info should not echo to stderr: %q", stderr.String())
	}
}

func TestNew_WarnEchoesToStderr(t *testing.T) {
	t.Parallel()
	var file, stderr bytes.Buffer
	logger := New(&file, &stderr, slog.LevelError).With("component", "capture")

	logger.Warn("broadcast channel detached")

	if file.Len() != 0 {
		t.Errorf("warn below file level should not be written: %q", file.String())
	}
	got := stderr.String()
	if !strings.HasPrefix(got, "[pagectx] WARN broadcast channel detached") || !strings.Contains(got, "component=capture") {
		t.Errorf("stderr = %q", got)
	}
}

func TestOpen_CreatesLogFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "logs", "out.jsonl")
	logger, closer, err := Open(path, slog.LevelDebug)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	logger.Debug("hello")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()
	cases := map[string]slog.Level{"debug": slog.LevelDebug, "WARN": slog.LevelWarn, "error": slog.LevelError, "": slog.LevelInfo, "x": slog.LevelInfo}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
