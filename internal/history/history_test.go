// history_test.go — Tests for merge semantics, persistence and filtering.
package history

import (
	"context"
	"fmt"
	"testing"
	"testing/quick"

	"github.com/google/go-cmp/cmp"

	"github.com/dev-console/pagectx/internal/kvstore"
	"github.com/dev-console/pagectx/internal/types"
)

func ev(ts int64, method, url string, status int) types.NetworkEvent {
	return types.NetworkEvent{Timestamp: ts, Method: method, URL: url, Status: status}
}

func ids(events []types.NetworkEvent) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.ID
	}
	return out
}

func TestMergeEvents_PrependsAndDedups(t *testing.T) {
	t.Parallel()
	existing := MergeEvents(nil, []types.NetworkEvent{ev(1, "GET", "/a", 200), ev(2, "GET", "/b", 200)}, 10)

	updated := ev(2, "get", "/b", 500) // same ID as existing /b, newer write
	merged := MergeEvents(existing, []types.NetworkEvent{updated, ev(3, "POST", "/c", 201)}, 10)

	want := []string{"2-GET-/b", "3-POST-/c", "1-GET-/a"}
	if diff := cmp.Diff(want, ids(merged)); diff != "" {
		t.Fatalf("order (-want +got):\n%s", diff)
	}
	if merged[0].Status != 500 {
		t.Errorf("newest write should win: status = %d", merged[0].Status)
	}
}

func TestMergeEvents_Truncates(t *testing.T) {
	t.Parallel()
	var batch []types.NetworkEvent
	for i := 0; i < 400; i++ {
		batch = append(batch, ev(int64(i+1), "GET", fmt.Sprintf("/r/%d", i), 200))
	}
	merged := MergeEvents(nil, batch, DefaultCapacity)
	if len(merged) != DefaultCapacity {
		t.Fatalf("len = %d, want %d", len(merged), DefaultCapacity)
	}
	if merged[0].URL != "/r/0" {
		t.Errorf("first = %s, incoming order must be preserved", merged[0].URL)
	}
}

type quickEvent struct {
	TS     uint8
	Method bool
	Path   uint8
}

func toEvents(q []quickEvent) []types.NetworkEvent {
	out := make([]types.NetworkEvent, len(q))
	for i, e := range q {
		m := "GET"
		if e.Method {
			m = "POST"
		}
		out[i] = ev(int64(e.TS)+1, m, fmt.Sprintf("/p/%d", e.Path%8), 200)
	}
	return out
}

// TestPropertyMergeIdempotent checks merge(merge(S, X), X) == merge(S, X).
func TestPropertyMergeIdempotent(t *testing.T) {
	t.Parallel()
	f := func(s, x []quickEvent, capOffset uint8) bool {
		capacity := int(capOffset%64) + 1
		state := MergeEvents(nil, toEvents(s), capacity)
		once := MergeEvents(state, toEvents(x), capacity)
		twice := MergeEvents(once, toEvents(x), capacity)
		return cmp.Equal(ids(once), ids(twice))
	}
	if err := quick.Check(f, &quick.Config{MaxCount: 500}); err != nil {
		t.Error(err)
	}
}

// TestPropertyMergeIdempotentWithoutTimestamps re-merges events that carry
// no timestamp on separate calls; their IDs must not depend on merge time.
func TestPropertyMergeIdempotentWithoutTimestamps(t *testing.T) {
	t.Parallel()
	f := func(s, x []quickEvent) bool {
		batch := toEvents(x)
		for i := range batch {
			batch[i].Timestamp = 0
		}
		state := MergeEvents(nil, toEvents(s), DefaultCapacity)
		once := MergeEvents(state, batch, DefaultCapacity)
		twice := MergeEvents(once, batch, DefaultCapacity)
		return cmp.Equal(ids(once), ids(twice))
	}
	if err := quick.Check(f, &quick.Config{MaxCount: 50}); err != nil {
		t.Error(err)
	}
}

func TestStore_MergeEventWithoutTimestampTwice(t *testing.T) {
	t.Parallel()
	s := NewStore(kvstore.NewMemory(), 0, nil)
	ctx := context.Background()
	batch := []types.NetworkEvent{{Method: "get", URL: "https://x.test/api/users"}}
	once, err := s.Merge(ctx, batch)
	if err != nil {
		t.Fatal(err)
	}
	twice, err := s.Merge(ctx, batch)
	if err != nil {
		t.Fatal(err)
	}
	if len(once) != 1 || len(twice) != 1 || once[0].ID != twice[0].ID {
		t.Errorf("once = %v, twice = %v", ids(once), ids(twice))
	}
}

// TestPropertyMergeCapAndUnique checks the cap and ID uniqueness.
func TestPropertyMergeCapAndUnique(t *testing.T) {
	t.Parallel()
	f := func(s, x []quickEvent) bool {
		merged := MergeEvents(MergeEvents(nil, toEvents(s), DefaultCapacity), toEvents(x), DefaultCapacity)
		if len(merged) > DefaultCapacity {
			return false
		}
		seen := map[string]bool{}
		for _, e := range merged {
			if seen[e.ID] {
				return false
			}
			seen[e.ID] = true
		}
		return true
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestStore_MergePersists(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	kv := kvstore.NewMemory()
	s := NewStore(kv, 5, nil)

	empty, err := s.Read(ctx)
	if err != nil || len(empty) != 0 {
		t.Fatalf("initial read = %v, %v", empty, err)
	}
	if _, err := s.Merge(ctx, []types.NetworkEvent{ev(1, "GET", "/a", 200)}); err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if _, err := s.Merge(ctx, []types.NetworkEvent{ev(2, "GET", "/b", 404)}); err != nil {
		t.Fatalf("Merge() error = %v", err)
	}

	reopened := NewStore(kv, 5, nil)
	got, err := reopened.Read(ctx)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if diff := cmp.Diff([]string{"2-GET-/b", "1-GET-/a"}, ids(got)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if got, _ := s.Read(ctx); len(got) != 0 {
		t.Errorf("after clear: %v", got)
	}
}

func TestStore_CorruptValueReadsEmpty(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	kv := kvstore.NewMemory()
	_ = kv.PutRaw(ctx, kvstore.KeyRecentNetworkRequests, []byte(`{"oops":1}`))
	s := NewStore(kv, 0, nil)
	got, err := s.Read(ctx)
	if err != nil || len(got) != 0 {
		t.Fatalf("Read() = %v, %v", got, err)
	}
	if s.Capacity() != DefaultCapacity {
		t.Errorf("Capacity = %d", s.Capacity())
	}
}

func TestFilter_Apply(t *testing.T) {
	t.Parallel()
	events := MergeEvents(nil, []types.NetworkEvent{
		ev(1, "GET", "https://x.test/api/users", 200),
		ev(2, "POST", "https://x.test/api/login", 401),
		ev(3, "GET", "https://x.test/api/orders", 503),
		{Timestamp: 4, Method: "GET", URL: "https://x.test/ws", Error: "net::ERR_FAILED"},
	}, 10)

	cases := []struct {
		name string
		f    Filter
		want int
	}{
		{"all", Filter{}, 4},
		{"method", Filter{Method: "post"}, 1},
		{"text", Filter{Text: "ORDERS"}, 1},
		{"status text", Filter{Text: "401"}, 1},
		{"failed", Filter{Status: "failed"}, 3},
		{"ok", Filter{Status: "ok"}, 1},
		{"5xx", Filter{Status: "5xx"}, 1},
		{"exact", Filter{Status: "401"}, 1},
		{"limit", Filter{Limit: 2}, 2},
		{"combined", Filter{Method: "GET", Status: "error"}, 2},
	}
	for _, tc := range cases {
		if got := tc.f.Apply(events); len(got) != tc.want {
			t.Errorf("%s: got %d events, want %d", tc.name, len(got), tc.want)
		}
	}
}

func TestParseCursor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in      string
		want    Cursor
		wantErr bool
	}{
		{in: "", want: Cursor{}},
		{in: "1700:1700-GET-http://x/a", want: Cursor{Timestamp: 1700, ID: "1700-GET-http://x/a"}},
		{in: "nocolon", wantErr: true},
		{in: "abc:id", wantErr: true},
		{in: "12:", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseCursor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseCursor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCursor(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestPage_WalksWithCursor(t *testing.T) {
	t.Parallel()
	var incoming []types.NetworkEvent
	for i := 5; i >= 1; i-- {
		incoming = append(incoming, types.NetworkEvent{Method: "GET", URL: fmt.Sprintf("http://x/%d", i), Timestamp: int64(i)})
	}
	events := MergeEvents(nil, incoming, 0)

	var seen []string
	c := Cursor{}
	for pages := 0; ; pages++ {
		if pages > 5 {
			t.Fatal("pagination did not terminate")
		}
		page, info := Page(events, c, 2)
		for _, ev := range page {
			seen = append(seen, ev.Path)
		}
		if !info.HasMore {
			break
		}
		var err error
		if c, err = ParseCursor(info.Cursor); err != nil {
			t.Fatal(err)
		}
	}
	if diff := cmp.Diff([]string{"/5", "/4", "/3", "/2", "/1"}, seen); diff != "" {
		t.Errorf("pages (-want +got):\n%s", diff)
	}
}

func TestPage_EvictedCursorFallsBackToTimestamp(t *testing.T) {
	t.Parallel()
	events := MergeEvents(nil, []types.NetworkEvent{
		{Method: "GET", URL: "http://x/new", Timestamp: 30},
		{Method: "GET", URL: "http://x/old", Timestamp: 10},
	}, 0)
	page, info := Page(events, Cursor{Timestamp: 20, ID: "gone"}, 0)
	if !info.Expired || len(page) != 1 || page[0].Path != "/old" {
		t.Errorf("page = %+v, info = %+v", page, info)
	}
}
