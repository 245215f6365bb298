// Package state locates pagectx files on disk: the JSONL log, the SQLite
// store and the config file candidates.
package state

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// StateDirEnv overrides the state root.
const StateDirEnv = "PAGECTX_STATE_DIR"

const appName = "pagectx"

// Layout is the set of files kept under one state root.
type Layout struct {
	Root     string
	LogFile  string
	Database string
	Configs  []string
}

// At lays out the state files under root.
func At(root string) Layout {
	return Layout{
		Root:     root,
		LogFile:  filepath.Join(root, "logs", appName+".jsonl"),
		Database: filepath.Join(root, "data", appName+".db"),
		Configs: []string{
			filepath.Join(root, "config.yaml"),
			filepath.Join(root, "config.yml"),
			filepath.Join(root, "config.toml"),
		},
	}
}

// Default resolves the state root and lays out files under it. The root is
// $PAGECTX_STATE_DIR, then $XDG_STATE_HOME/pagectx, then the user config
// directory joined with pagectx.
func Default() (Layout, error) {
	root, err := rootDir()
	if err != nil {
		return Layout{}, err
	}
	return At(root), nil
}

func rootDir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(StateDirEnv)); dir != "" {
		return absolute(dir)
	}
	base := strings.TrimSpace(os.Getenv("XDG_STATE_HOME"))
	if base == "" {
		var err error
		if base, err = os.UserConfigDir(); err != nil {
			return "", fmt.Errorf("locate state directory: %w", err)
		}
	}
	abs, err := absolute(base)
	if err != nil {
		return "", err
	}
	return filepath.Join(abs, appName), nil
}

// DefaultLogFile returns the log file under the default root.
func DefaultLogFile() (string, error) {
	l, err := Default()
	return l.LogFile, err
}

// DatabaseFile returns the SQLite store under the default root.
func DatabaseFile() (string, error) {
	l, err := Default()
	return l.Database, err
}

// ConfigCandidates returns the config files probed in order.
func ConfigCandidates() ([]string, error) {
	l, err := Default()
	return l.Configs, err
}

// EnsureParent creates the directory that will hold path.
func EnsureParent(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}
	return nil
}

func absolute(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", p, err)
	}
	return abs, nil
}
