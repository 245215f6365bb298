package engine

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dev-console/pagectx/internal/assemble"
	"github.com/dev-console/pagectx/internal/bus"
	"github.com/dev-console/pagectx/internal/capture"
	"github.com/dev-console/pagectx/internal/history"
	"github.com/dev-console/pagectx/internal/indexer"
	"github.com/dev-console/pagectx/internal/intent"
	"github.com/dev-console/pagectx/internal/kvstore"
	"github.com/dev-console/pagectx/internal/types"
)

type fixture struct {
	bus     *bus.Bus
	session *capture.Session
	engine  *Engine
	index   *indexer.Service
	history *history.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	kv := kvstore.NewMemory()
	b := bus.New(nil)
	s := capture.NewSession(capture.Options{Debounce: 5 * time.Millisecond})
	s.Attach(b)
	t.Cleanup(s.Close)
	idx := indexer.NewService(kv, nil, nil)
	h := history.NewStore(kv, 0, nil)
	return &fixture{
		bus:     b,
		session: s,
		index:   idx,
		history: h,
		engine:  New(Deps{Bus: b, History: h, Index: idx}),
	}
}

func TestEngine_PullMergesHistory(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	f.session.RecordNetwork(types.NetworkEvent{Method: "get", URL: "http://x/api/a", Status: 200, Timestamp: 1})
	f.session.RecordNetwork(types.NetworkEvent{Method: "POST", URL: "http://x/api/b", Status: 201, Timestamp: 2})

	merged, err := f.engine.Pull(ctx)
	if err != nil {
		t.Fatalf("Pull() error = %v", err)
	}
	if len(merged) != 2 || merged[0].URL != "http://x/api/b" {
		t.Fatalf("merged = %+v", merged)
	}
	if _, err := f.engine.Pull(ctx); err != nil {
		t.Fatal(err)
	}
	got, err := f.history.Read(ctx)
	if err != nil || len(got) != 2 {
		t.Errorf("history after repeat pull = %d events, err %v", len(got), err)
	}
}

func TestEngine_SyncFollowsBroadcasts(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.engine.Sync(ctx) }()

	ev := types.NetworkEvent{Method: "GET", URL: "http://x/api/sync", Status: 200, Timestamp: 10}
	deadline := time.Now().Add(5 * time.Second)
	for {
		f.session.RecordNetwork(ev)
		time.Sleep(20 * time.Millisecond)
		got, _ := f.history.Read(context.Background())
		if len(got) == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("history never synced")
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Sync() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Sync did not stop")
	}
}

func TestEngine_SyncStopsOnDetach(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	done := make(chan error, 1)
	go func() { done <- f.engine.Sync(context.Background()) }()
	time.Sleep(10 * time.Millisecond)
	f.bus.Close()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Sync() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Sync did not stop after detach")
	}
}

func TestEngine_Context(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.index.Index(ctx, "/work/app", "", []string{
		"app/layout.tsx",
		"app/orders/[id]/page.tsx",
	}); err != nil {
		t.Fatal(err)
	}
	f.session.SetPage("http://localhost:3000/orders/7", "Order 7", nil)
	f.session.RecordConsole(types.ConsoleEvent{Type: types.ConsoleUncaught, Message: "TypeError: boom"})
	f.session.RecordNetwork(types.NetworkEvent{Method: "GET", URL: "http://localhost:3000/api/orders/7", Status: 500, ResponseBody: `{"error":"x"}`})

	resp, err := f.engine.Context(ctx, ContextRequest{Task: "fix the crash on this page"})
	if err != nil {
		t.Fatalf("Context() error = %v", err)
	}
	if resp.Detached {
		t.Error("Detached = true")
	}
	if resp.Resolution == nil || resp.Resolution.Page != "app/orders/[id]/page.tsx" {
		t.Fatalf("Resolution = %+v", resp.Resolution)
	}
	if resp.Selection.Intent.Name != "bug" {
		t.Errorf("intent = %q, want bug", resp.Selection.Intent.Name)
	}
	for _, name := range []string{assemble.SectionTask, assemble.SectionRoute, assemble.SectionRouteParams, assemble.SectionErrors, assemble.SectionDataFetching} {
		if !resp.Document.Has(name) {
			t.Errorf("document missing %s:\n%s", name, resp.Document.Text)
		}
	}
	if !strings.Contains(resp.Document.Text, "Title: Order 7") {
		t.Errorf("page title not used:\n%s", resp.Document.Text)
	}
	got, _ := f.history.Read(ctx)
	if len(got) != 1 {
		t.Errorf("history has %d events, want 1", len(got))
	}
}

func TestEngine_ContextDetachedUsesHistory(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.history.Merge(ctx, []types.NetworkEvent{{Method: "GET", URL: "http://x/api/old", Status: 404, Timestamp: 5}}); err != nil {
		t.Fatal(err)
	}
	f.bus.Close()

	resp, err := f.engine.Context(ctx, ContextRequest{Task: "list", Preset: "bug"})
	if err != nil {
		t.Fatalf("Context() error = %v", err)
	}
	if !resp.Detached {
		t.Error("Detached = false")
	}
	if !strings.Contains(resp.Document.Text, "/api/old") {
		t.Errorf("history not used:\n%s", resp.Document.Text)
	}
}

func TestEngine_ContextDismissForcesMinimal(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	resp, err := f.engine.Context(ctx, ContextRequest{Task: "button color", Dismiss: true})
	if err != nil {
		t.Fatal(err)
	}
	if !resp.Selection.Dismissed {
		t.Errorf("Selection = %+v", resp.Selection)
	}
	resp, _ = f.engine.Context(ctx, ContextRequest{Task: "button colors"})
	if resp.Selection.Dismissed {
		t.Error("dismissal survived a text change")
	}
}

func TestEngine_ContextTogglesOverridePreset(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	resp, err := f.engine.Context(context.Background(), ContextRequest{
		Task:      "look at the page",
		Preset:    "minimal",
		Toggles:   intent.Toggles{intent.ToggleDOMSnapshot: true, intent.ToggleSelection: false},
		Selection: "Add to cart",
		DOM:       "<main><button>Add to cart</button></main>",
	})
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, sec := range resp.Document.Sections {
		names = append(names, sec.Name)
	}
	// Minimal's other toggles survive; the overrides flip only their keys.
	if !resp.Selection.Toggles.On(intent.ToggleRoute) {
		t.Errorf("selection toggles changed: %v", resp.Selection.Toggles)
	}
	got := strings.Join(names, ",")
	if !strings.Contains(got, assemble.SectionDOMSnapshot) || strings.Contains(got, assemble.SectionSelection) {
		t.Errorf("sections = %s", got)
	}
}

func TestEngine_ContextBadPreset(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	if _, err := f.engine.Context(context.Background(), ContextRequest{Preset: "everything"}); err == nil {
		t.Error("Context(bad preset) error = nil")
	}
}

func TestEngine_ResolveWithoutIndex(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	res, ok, err := f.engine.Resolve(context.Background(), "/a/b/", "", "")
	if err != nil || ok {
		t.Fatalf("Resolve = ok %v err %v", ok, err)
	}
	if res.Route != "/a/b" {
		t.Errorf("Route = %q", res.Route)
	}
}
