// app.go — Shared wiring for every command: config, logging, storage and
// the UI-side services built on them.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/dev-console/pagectx/internal/assemble"
	"github.com/dev-console/pagectx/internal/bus"
	"github.com/dev-console/pagectx/internal/capture"
	"github.com/dev-console/pagectx/internal/config"
	"github.com/dev-console/pagectx/internal/engine"
	"github.com/dev-console/pagectx/internal/history"
	"github.com/dev-console/pagectx/internal/indexer"
	"github.com/dev-console/pagectx/internal/kvstore"
	"github.com/dev-console/pagectx/internal/logging"
	"github.com/dev-console/pagectx/internal/redaction"
	"github.com/dev-console/pagectx/internal/resolver"
	"github.com/dev-console/pagectx/internal/state"
)

// app holds the long-lived collaborators of one command invocation.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	kv       kvstore.Store
	redactor *redaction.Redactor
	index    *indexer.Service
	history  *history.Store
	closers  []io.Closer
}

// openApp loads configuration and opens the log file and the database.
func openApp(cmd *cobra.Command) (*app, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg}

	paths, err := a.layout()
	if err != nil {
		return nil, err
	}
	logger, logCloser, err := logging.Open(paths.LogFile, logging.ParseLevel(cfg.LogLevel))
	if err != nil {
		return nil, err
	}
	a.logger = logger
	a.closers = append(a.closers, logCloser)

	db, err := kvstore.OpenSQLite(paths.Database)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}
	a.kv = db
	a.closers = append(a.closers, db)

	// Validated by config.Load.
	a.redactor, err = redaction.New(cfg.Redaction)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.index = indexer.NewService(a.kv, cfg.Extensions, logger)
	a.history = history.NewStore(a.kv, cfg.Capacity.History, logger)
	return a, nil
}

// layout honors config.state_dir before the default state root.
func (a *app) layout() (state.Layout, error) {
	if a.cfg.StateDir != "" {
		return state.At(a.cfg.StateDir), nil
	}
	return state.Default()
}

// newSession creates a capture session attached to a fresh bus.
func (a *app) newSession() (*capture.Session, *bus.Bus) {
	b := bus.New(a.logger)
	s := capture.NewSession(capture.Options{
		ErrorCapacity:   a.cfg.Capacity.Errors,
		NetworkCapacity: a.cfg.Capacity.Network,
		Debounce:        time.Duration(a.cfg.DebounceMS) * time.Millisecond,
		Logger:          a.logger,
	})
	s.Attach(b)
	return s, b
}

// newEngine builds the UI-side engine. A nil bus means no page is attached
// and every context is built from history.
func (a *app) newEngine(b *bus.Bus) *engine.Engine {
	return engine.New(engine.Deps{
		Bus:       b,
		History:   a.history,
		Index:     a.index,
		Resolver:  resolver.New(a.cfg.Resolver),
		Assembler: assemble.New(assemble.Options{Redactor: a.redactor, Logger: a.logger}),
		Logger:    a.logger,
	})
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil && a.logger != nil {
			a.logger.Warn("close", "error", err)
		}
	}
	a.closers = nil
}
