// engine.go — The UI-side context: pulls captured data over the bus, keeps
// the persisted history current and assembles context documents.
// Design: the engine never touches the capture session directly. Every read
// goes through a bus request so a detached page degrades to history only.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dev-console/pagectx/internal/assemble"
	"github.com/dev-console/pagectx/internal/bus"
	"github.com/dev-console/pagectx/internal/history"
	"github.com/dev-console/pagectx/internal/indexer"
	"github.com/dev-console/pagectx/internal/intent"
	"github.com/dev-console/pagectx/internal/resolver"
	"github.com/dev-console/pagectx/internal/types"
	"github.com/dev-console/pagectx/internal/util"
)

// Engine wires the UI-side components together.
type Engine struct {
	bus       *bus.Bus
	history   *history.Store
	index     *indexer.Service
	resolver  *resolver.Resolver
	assembler *assemble.Assembler
	selector  *intent.Selector
	logger    *slog.Logger
}

// Deps are the collaborators of an Engine.
type Deps struct {
	Bus       *bus.Bus
	History   *history.Store
	Index     *indexer.Service
	Resolver  *resolver.Resolver
	Assembler *assemble.Assembler
	Selector  *intent.Selector
	Logger    *slog.Logger
}

// New creates an Engine. Nil Resolver, Assembler and Selector get defaults.
func New(d Deps) *Engine {
	e := &Engine{
		bus:       d.Bus,
		history:   d.History,
		index:     d.Index,
		resolver:  d.Resolver,
		assembler: d.Assembler,
		selector:  d.Selector,
		logger:    d.Logger,
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.resolver == nil {
		e.resolver = resolver.New(resolver.DefaultWeights())
	}
	if e.assembler == nil {
		e.assembler = assemble.New(assemble.Options{Logger: e.logger})
	}
	if e.selector == nil {
		e.selector = intent.NewSelector()
	}
	return e
}

// Selector returns the preset selector shared by all requests.
func (e *Engine) Selector() *intent.Selector { return e.selector }

// History returns the persisted history store.
func (e *Engine) History() *history.Store { return e.history }

// Index returns the index service.
func (e *Engine) Index() *indexer.Service { return e.index }

// DebugInfo asks the page side for its current capture state.
func (e *Engine) DebugInfo(ctx context.Context) (types.DebugInfo, error) {
	var info types.DebugInfo
	if e.bus == nil {
		return info, types.NewCaptureError(types.Detached, bus.ActionGetDebugInfo, nil)
	}
	err := e.bus.RequestInto(ctx, bus.ActionGetDebugInfo, nil, &info)
	return info, err
}

// ClearCapture empties the page-side buffers.
func (e *Engine) ClearCapture(ctx context.Context) error {
	if e.bus == nil {
		return types.NewCaptureError(types.Detached, bus.ActionClearDebugInfo, nil)
	}
	var res bus.ClearResult
	return e.bus.RequestInto(ctx, bus.ActionClearDebugInfo, nil, &res)
}

// Pull fetches the page's network events and merges them into history.
// It returns the merged history, newest first.
func (e *Engine) Pull(ctx context.Context) ([]types.NetworkEvent, error) {
	info, err := e.DebugInfo(ctx)
	if err != nil {
		return nil, err
	}
	if e.history == nil {
		return info.Network, nil
	}
	return e.history.Merge(ctx, info.Network)
}

// Sync merges history on every networkDataUpdated broadcast until ctx is
// done or the bus detaches.
func (e *Engine) Sync(ctx context.Context) error {
	if e.bus == nil {
		return nil
	}
	msgs, cancel := e.bus.Subscribe(16)
	defer cancel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				e.logger.Info("bus detached; history sync stopped")
				return nil
			}
			if msg.Action != bus.ActionNetworkDataUpdated {
				continue
			}
			if _, err := e.Pull(ctx); err != nil {
				if bus.IsDetached(err) {
					return nil
				}
				e.logger.Warn("history sync failed", "error", err)
			}
		}
	}
}

// LoadIndex picks the index for a request: an explicit project path, then
// the mapping for the page URL, then the last picked index.
func (e *Engine) LoadIndex(ctx context.Context, projectPath, pageURL string) (indexer.ProjectFileIndex, bool, error) {
	if e.index == nil {
		return indexer.ProjectFileIndex{}, false, nil
	}
	if projectPath != "" {
		return e.index.Load(ctx, projectPath, true)
	}
	if pageURL != "" {
		return e.index.IndexForPage(ctx, pageURL)
	}
	return e.index.LastPicked(ctx)
}

// Resolve resolves route against the selected index. A missing index is a
// miss, not an error.
func (e *Engine) Resolve(ctx context.Context, route, projectPath, pageURL string) (resolver.Resolution, bool, error) {
	idx, ok, err := e.LoadIndex(ctx, projectPath, pageURL)
	if err != nil {
		return resolver.Resolution{}, false, fmt.Errorf("load index: %w", err)
	}
	if !ok || idx.Empty() {
		return resolver.Resolution{Route: "/" + util.TrimRoute(route)}, false, nil
	}
	return e.resolver.Analyze(route, idx.Files), true, nil
}

// ContextRequest asks for one context document. Capture data comes from the
// page side; everything here is what only the caller knows. Toggles
// overrides single toggles of the selected preset.
type ContextRequest struct {
	Task        string                   `json:"task"`
	Preset      string                   `json:"preset,omitempty"`
	Dismiss     bool                     `json:"dismiss,omitempty"`
	Toggles     intent.Toggles           `json:"toggles,omitempty"`
	URL         string                   `json:"url,omitempty"`
	Title       string                   `json:"title,omitempty"`
	Route       string                   `json:"route,omitempty"`
	Selection   string                   `json:"selection,omitempty"`
	ProjectPath string                   `json:"projectPath,omitempty"`
	Framework   *types.Framework         `json:"framework,omitempty"`
	Components  []assemble.ComponentNode `json:"components,omitempty"`
	UIState     map[string]string        `json:"uiState,omitempty"`
	A11yTree    string                   `json:"accessibilityTree,omitempty"`
	Viewport    *types.Viewport          `json:"viewport,omitempty"`
	DOM         string                   `json:"dom,omitempty"`
}

// ContextResponse is the assembled document and how it was configured.
type ContextResponse struct {
	Document   assemble.Document    `json:"document"`
	Selection  intent.Selection     `json:"selection"`
	Resolution *resolver.Resolution `json:"resolution,omitempty"`
	Detached   bool                 `json:"detached,omitempty"`
}

// Context assembles a document for req. A detached page yields a document
// built from persisted history alone.
func (e *Engine) Context(ctx context.Context, req ContextRequest) (ContextResponse, error) {
	var resp ContextResponse

	info, err := e.DebugInfo(ctx)
	switch {
	case err == nil:
	case errors.Is(err, types.ErrDetached):
		resp.Detached = true
	default:
		return resp, fmt.Errorf("get debug info: %w", err)
	}

	network := info.Network
	if e.history != nil {
		merged, err := e.history.Merge(ctx, info.Network)
		if err != nil {
			e.logger.Warn("history merge failed; using live events", "error", err)
		} else {
			network = merged
		}
	}

	if req.Preset != "" {
		p, err := intent.ParsePreset(req.Preset)
		if err != nil {
			return resp, err
		}
		e.selector.SetPreset(p)
	}
	if req.Dismiss {
		e.selector.Dismiss(req.Task)
	}
	resp.Selection = e.selector.Evaluate(req.Task)
	toggles := resp.Selection.Toggles.Apply(req.Toggles)

	pageURL := firstNonEmpty(req.URL, info.URL)
	route := req.Route
	if route == "" && pageURL != "" {
		route = util.ExtractURLPath(pageURL)
	}
	if route != "" {
		res, ok, err := e.Resolve(ctx, route, req.ProjectPath, pageURL)
		if err != nil {
			e.logger.Warn("resolve failed", "route", route, "error", err)
		} else if ok {
			resp.Resolution = &res
		}
	}

	var components assemble.ComponentTreeProvider = assemble.NullComponents{}
	if len(req.Components) > 0 {
		components = assemble.ComponentList(req.Components)
	}
	perf := info.Performance
	resp.Document = e.assembler.Assemble(assemble.Input{
		Task:          req.Task,
		Toggles:       toggles,
		URL:           pageURL,
		Title:         firstNonEmpty(req.Title, info.Title),
		Route:         route,
		Selection:     req.Selection,
		Framework:     req.Framework,
		Resolution:    resp.Resolution,
		Components:    components,
		UIState:       req.UIState,
		Errors:        info.Errors,
		Network:       network,
		Accessibility: req.A11yTree,
		Viewport:      req.Viewport,
		Performance:   &perf,
		DOM:           req.DOM,
	})
	return resp, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
