// output_test.go — Tests for output formatters (human, JSON, CSV).
package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHumanFormat(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		result *Result
		want   []string
	}{
		{
			name:   "summary and data",
			result: &Result{Success: true, Command: "index", Summary: "42 files", Data: map[string]any{"project": "/work/app"}},
			want:   []string{"[OK] index: 42 files", "project: /work/app"},
		},
		{
			name:   "error",
			result: &Result{Command: "resolve", Error: "no project index"},
			want:   []string{"[Error] resolve failed", "Error: no project index"},
		},
		{
			name:   "table",
			result: &Result{Success: true, Command: "history", Headers: []string{"METHOD", "PATH"}, Rows: [][]string{{"GET", "/api/users"}}},
			want:   []string{"METHOD  PATH", "GET     /api/users"},
		},
		{
			name:   "text",
			result: &Result{Success: true, Command: "context", Text: "# Page context"},
			want:   []string{"# Page context\n"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			if err := (&HumanFormatter{}).Format(&buf, tt.result); err != nil {
				t.Fatalf("Format() error = %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(buf.String(), w) {
					t.Errorf("output missing %q:\n%s", w, buf.String())
				}
			}
		})
	}
}

func TestJSONFormat(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	result := &Result{
		Success: true,
		Command: "history",
		Headers: []string{"method", "path"},
		Rows:    [][]string{{"GET", "/a"}, {"POST", "/b"}},
		Data:    map[string]any{"total": 2},
	}
	if err := (&JSONFormatter{}).Format(&buf, result); err != nil {
		t.Fatal(err)
	}
	var got struct {
		Success bool                `json:"success"`
		Command string              `json:"command"`
		Total   int                 `json:"total"`
		Rows    []map[string]string `json:"rows"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	want := []map[string]string{{"method": "GET", "path": "/a"}, {"method": "POST", "path": "/b"}}
	if diff := cmp.Diff(want, got.Rows); diff != "" {
		t.Errorf("rows (-want +got):\n%s", diff)
	}
	if !got.Success || got.Command != "history" || got.Total != 2 {
		t.Errorf("got %+v", got)
	}
}

func TestCSVFormat(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	result := &Result{Success: true, Command: "history", Headers: []string{"method", "path"}, Rows: [][]string{{"GET", "/a,b"}}}
	if err := (&CSVFormatter{}).Format(&buf, result); err != nil {
		t.Fatal(err)
	}
	if want := "method,path\nGET,\"/a,b\"\n"; buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}

	buf.Reset()
	result = &Result{Success: false, Command: "index", Error: "boom", Data: map[string]any{"b": 2, "a": 1}}
	if err := (&CSVFormatter{}).Format(&buf, result); err != nil {
		t.Fatal(err)
	}
	if want := "success,command,error,a,b\nfalse,index,boom,1,2\n"; buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestGetFormatter(t *testing.T) {
	t.Parallel()
	if _, ok := GetFormatter("json").(*JSONFormatter); !ok {
		t.Error("json")
	}
	if _, ok := GetFormatter("csv").(*CSVFormatter); !ok {
		t.Error("csv")
	}
	if _, ok := GetFormatter("yaml").(*HumanFormatter); !ok {
		t.Error("fallback")
	}
}
