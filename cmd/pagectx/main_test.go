package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// run executes the CLI with args against an isolated state directory set
// by the caller.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func decodeJSON(t *testing.T, out string, dst any) {
	t.Helper()
	if err := json.Unmarshal([]byte(out), dst); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
}

func writeTree(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte("export {}\n"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestCLI_IndexResolveContext(t *testing.T) {
	t.Setenv("PAGECTX_STATE_DIR", t.TempDir())
	project := writeTree(t,
		"app/layout.tsx",
		"app/orders/[id]/page.tsx",
		"node_modules/pkg/index.js",
	)

	out, err := run(t, "index", project, "--format", "json")
	if err != nil {
		t.Fatalf("index: %v\n%s", err, out)
	}
	var indexed struct {
		Success bool   `json:"success"`
		Files   int    `json:"files"`
		Project string `json:"project"`
	}
	decodeJSON(t, out, &indexed)
	if !indexed.Success || indexed.Files != 2 || indexed.Project != project {
		t.Errorf("index result = %+v", indexed)
	}

	out, err = run(t, "resolve", "/orders/7", "--format", "json")
	if err != nil {
		t.Fatalf("resolve: %v\n%s", err, out)
	}
	var resolved struct {
		Resolution struct {
			Page  string `json:"page"`
			Chain []struct {
				Label string `json:"label"`
				File  string `json:"file"`
			} `json:"chain"`
		} `json:"resolution"`
	}
	decodeJSON(t, out, &resolved)
	if resolved.Resolution.Page != "app/orders/[id]/page.tsx" {
		t.Errorf("page = %q", resolved.Resolution.Page)
	}
	if len(resolved.Resolution.Chain) != 2 || resolved.Resolution.Chain[0].File != "app/layout.tsx" {
		t.Errorf("chain = %v", resolved.Resolution.Chain)
	}

	out, err = run(t, "context", "--intent", "fix the crash on the order page", "--route", "/orders/7")
	if err != nil {
		t.Fatalf("context: %v\n%s", err, out)
	}
	for _, want := range []string{"[OK] context:", "intent bug", "(history only)", "# Page context", "app/orders/[id]/page.tsx"} {
		if !strings.Contains(out, want) {
			t.Errorf("context output missing %q:\n%s", want, out)
		}
	}

	out, err = run(t, "projects", "--format", "csv")
	if err != nil {
		t.Fatalf("projects: %v", err)
	}
	if !strings.HasPrefix(out, "PROJECT,FILES,INDEXED\n"+project+",2,") {
		t.Errorf("projects csv:\n%s", out)
	}
}

func TestCLI_ResolveWithoutIndexFails(t *testing.T) {
	t.Setenv("PAGECTX_STATE_DIR", t.TempDir())
	out, err := run(t, "resolve", "/anything")
	if !errors.Is(err, errSilent) {
		t.Fatalf("err = %v, want errSilent", err)
	}
	if !strings.Contains(out, "no project index") {
		t.Errorf("output:\n%s", out)
	}
}

func TestCLI_FetchRecordsHistory(t *testing.T) {
	t.Setenv("PAGECTX_STATE_DIR", t.TempDir())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":7}`))
	}))
	defer srv.Close()

	out, err := run(t, "fetch", srv.URL+"/api/orders", "-X", "post", "-d", `{"qty":1}`, "-H", "Authorization: Bearer abc.def", "--format", "json")
	if err != nil {
		t.Fatalf("fetch: %v\n%s", err, out)
	}
	var fetched struct {
		Status   int `json:"status"`
		Recorded int `json:"recorded"`
	}
	decodeJSON(t, out, &fetched)
	if fetched.Status != http.StatusCreated || fetched.Recorded != 1 {
		t.Errorf("fetch result = %+v", fetched)
	}

	out, err = run(t, "history", "--method", "POST", "--format", "json")
	if err != nil {
		t.Fatalf("history: %v\n%s", err, out)
	}
	var hist struct {
		Total int                 `json:"total"`
		Rows  []map[string]string `json:"rows"`
	}
	decodeJSON(t, out, &hist)
	if hist.Total != 1 || len(hist.Rows) != 1 {
		t.Fatalf("history = %+v", hist)
	}
	if row := hist.Rows[0]; row["PATH"] != "/api/orders" || row["STATUS"] != "201" || row["METHOD"] != "POST" {
		t.Errorf("row = %v", row)
	}

	if _, err := run(t, "history", "--clear"); err != nil {
		t.Fatal(err)
	}
	out, _ = run(t, "history", "--format", "json")
	decodeJSON(t, out, &hist)
	if hist.Total != 0 {
		t.Errorf("history after clear = %+v", hist)
	}
}

func TestCLI_ConfigErrorsSurface(t *testing.T) {
	t.Setenv("PAGECTX_STATE_DIR", t.TempDir())
	cfg := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfg, []byte("port: -1\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "history", "--config", cfg); err == nil || !strings.Contains(err.Error(), "port") {
		t.Errorf("err = %v, want port validation error", err)
	}
}
