// url_test.go — Tests for URL parsing utilities.
package util

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// ============================================
// ExtractURLPath Tests
// ============================================

func TestExtractURLPath(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"https://example.com/api/v1/users?page=2&limit=10": "/api/v1/users",
		"https://example.com/docs#section-3":               "/docs",
		"https://example.com/":                             "/",
		"https://example.com":                              "/",
		"":                                                 "/",
		"/api/health":                                      "/api/health",
		"http://[::1:bad/path?x=1":                         "http://[::1:bad/path",
	}
	for in, want := range cases {
		if got := ExtractURLPath(in); got != want {
			t.Errorf("ExtractURLPath(%q) = %q, want %q", in, got, want)
		}
	}
}

// ============================================
// Route helpers
// ============================================

func TestTrimRoute(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"/":                    "",
		"":                     "",
		"/dashboard/clients/":  "dashboard/clients",
		"login?next=/home":     "login",
		"//nested//path//#top": "nested//path",
	}
	for in, want := range cases {
		if got := TrimRoute(in); got != want {
			t.Errorf("TrimRoute(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRouteSegments(t *testing.T) {
	t.Parallel()
	if diff := cmp.Diff([]string{"dashboard", "clients", "42"}, RouteSegments("/dashboard//clients/42/")); diff != "" {
		t.Errorf("RouteSegments mismatch (-want +got):\n%s", diff)
	}
	if got := RouteSegments("/"); len(got) != 0 {
		t.Errorf("RouteSegments(/) = %v, want empty", got)
	}
}

func TestSafeGo_RecoversPanic(t *testing.T) {
	t.Parallel()
	var wg sync.WaitGroup
	wg.Add(1)
	SafeGo(nil, func() {
		defer wg.Done()
		panic("boom")
	})
	wg.Wait()
}
