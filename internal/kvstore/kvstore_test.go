package kvstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func storesUnderTest(t *testing.T) map[string]Store {
	t.Helper()
	sq, err := OpenSQLite(filepath.Join(t.TempDir(), "kv.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	t.Cleanup(func() { _ = sq.Close() })
	return map[string]Store{"memory": NewMemory(), "sqlite": sq}
}

type prefs struct {
	Extensions []string `json:"extensions"`
}

func TestStore_RoundTripAndReplace(t *testing.T) {
	t.Parallel()
	for name, s := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			var got prefs
			found, err := Get(ctx, s, KeyIndexPreferences, &got)
			if err != nil || found {
				t.Fatalf("absent key: found=%v err=%v", found, err)
			}

			if err := Put(ctx, s, KeyIndexPreferences, prefs{Extensions: []string{"tsx", "ts"}}); err != nil {
				t.Fatalf("Put() error = %v", err)
			}
			if err := Put(ctx, s, KeyIndexPreferences, prefs{Extensions: []string{"vue"}}); err != nil {
				t.Fatalf("Put() error = %v", err)
			}
			found, err = Get(ctx, s, KeyIndexPreferences, &got)
			if err != nil || !found {
				t.Fatalf("Get() found=%v err=%v", found, err)
			}
			if diff := cmp.Diff(prefs{Extensions: []string{"vue"}}, got); diff != "" {
				t.Errorf("value not replaced wholesale (-want +got):\n%s", diff)
			}

			if err := Put(ctx, s, KeyProjectMappings, map[string]string{}); err != nil {
				t.Fatalf("Put() error = %v", err)
			}
			keys, err := s.Keys(ctx)
			if err != nil {
				t.Fatalf("Keys() error = %v", err)
			}
			if diff := cmp.Diff([]string{KeyIndexPreferences, KeyProjectMappings}, keys); diff != "" {
				t.Errorf("Keys (-want +got):\n%s", diff)
			}

			if err := s.Delete(ctx, KeyIndexPreferences); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if err := s.Delete(ctx, "missing"); err != nil {
				t.Fatalf("Delete(missing) error = %v", err)
			}
			if _, ok, _ := s.GetRaw(ctx, KeyIndexPreferences); ok {
				t.Error("key still present after Delete")
			}
		})
	}
}

func TestGet_CorruptValue(t *testing.T) {
	t.Parallel()
	s := NewMemory()
	ctx := context.Background()
	_ = s.PutRaw(ctx, KeyIndexPreferences, []byte("{not json"))
	var p prefs
	if _, err := Get(ctx, s, KeyIndexPreferences, &p); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "kv.db")
	ctx := context.Background()

	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	if err := Put(ctx, s, KeyRecentNetworkRequests, []int{1, 2, 3}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	_ = s.Close()

	s2, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer s2.Close()
	var got []int
	if found, err := Get(ctx, s2, KeyRecentNetworkRequests, &got); err != nil || !found {
		t.Fatalf("Get() found=%v err=%v", found, err)
	}
	if diff := cmp.Diff([]int{1, 2, 3}, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}
