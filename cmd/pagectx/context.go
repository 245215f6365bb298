// context.go — context: assemble a context document for a task.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/dev-console/pagectx/cmd/pagectx/output"
	"github.com/dev-console/pagectx/internal/engine"
)

func contextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "context",
		Short: "Assemble a context document for a task",
		Long: `Assemble a context document. By default it is built from persisted history
and the project index. With --live the running bridge assembles it from the
attached page's capture.

Examples:
  pagectx context --intent "fix the crash on checkout" --route /checkout
  pagectx context --intent "tweak the header spacing" --preset ui --live`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			req := engine.ContextRequest{}
			req.Task, _ = cmd.Flags().GetString("intent")
			req.Preset, _ = cmd.Flags().GetString("preset")
			req.Route, _ = cmd.Flags().GetString("route")
			req.URL, _ = cmd.Flags().GetString("url")
			req.ProjectPath, _ = cmd.Flags().GetString("project")
			req.Selection, _ = cmd.Flags().GetString("selection")

			var resp engine.ContextResponse
			if live, _ := cmd.Flags().GetBool("live"); live {
				resp, err = liveContext(cmd.Context(), portFlag(cmd, a), req)
			} else {
				resp, err = a.newEngine(nil).Context(cmd.Context(), req)
			}
			if err != nil {
				return emit(cmd, &output.Result{Command: "context", Error: err.Error()})
			}
			return emit(cmd, contextResult(resp))
		},
	}
	cmd.Flags().String("intent", "", "task description used for intent detection")
	cmd.Flags().String("preset", "", "section preset: auto, bug, ui, full or minimal")
	cmd.Flags().String("route", "", "route to resolve (default: path of --url)")
	cmd.Flags().String("url", "", "page URL")
	cmd.Flags().String("project", "", "project key for route resolution")
	cmd.Flags().String("selection", "", "selected text to include")
	cmd.Flags().Bool("live", false, "ask the running bridge instead of reading history")
	cmd.Flags().Int("port", 0, "bridge port for --live (default: config port)")
	return cmd
}

func contextResult(resp engine.ContextResponse) *output.Result {
	intentName := resp.Selection.Intent.Name
	if intentName == "" {
		intentName = string(resp.Selection.Preset)
	}
	summary := fmt.Sprintf("%s sections, ~%s tokens, intent %s",
		humanize.Comma(int64(len(resp.Document.Sections))),
		humanize.Comma(int64(resp.Document.Tokens)),
		intentName)
	if resp.Detached {
		summary += " (history only)"
	}
	return &output.Result{
		Success: true,
		Command: "context",
		Summary: summary,
		Text:    resp.Document.Text,
		Data: map[string]any{
			"tokens":   resp.Document.Tokens,
			"sections": len(resp.Document.Sections),
			"intent":   intentName,
		},
	}
}

// liveContext posts req to the bridge's /context endpoint.
func liveContext(ctx context.Context, port int, req engine.ContextRequest) (engine.ContextResponse, error) {
	var resp engine.ContextResponse
	body, err := json.Marshal(req)
	if err != nil {
		return resp, err
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	url := fmt.Sprintf("http://127.0.0.1:%d/context", port)
	hreq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return resp, err
	}
	hreq.Header.Set("Content-Type", "application/json")
	hresp, err := http.DefaultClient.Do(hreq)
	if err != nil {
		return resp, fmt.Errorf("bridge not reachable on port %d (is 'pagectx serve' running?): %w", port, err)
	}
	defer hresp.Body.Close()
	if hresp.StatusCode != http.StatusOK {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(hresp.Body).Decode(&e)
		return resp, fmt.Errorf("bridge returned %s: %s", hresp.Status, e.Error)
	}
	if err := json.NewDecoder(hresp.Body).Decode(&resp); err != nil {
		return resp, fmt.Errorf("decode bridge response: %w", err)
	}
	return resp, nil
}
