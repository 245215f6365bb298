// tools.go — Tool definitions and handlers.
package mcptool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dev-console/pagectx/internal/engine"
	"github.com/dev-console/pagectx/internal/history"
	"github.com/dev-console/pagectx/internal/intent"
	"github.com/dev-console/pagectx/internal/types"
)

// defaultRequestLimit bounds recent_requests when no limit is given.
const defaultRequestLimit = 20

// Tools holds the handlers. Each handler is safe for concurrent use.
type Tools struct {
	engine *engine.Engine
	now    func() time.Time
}

// NewTools creates the tool set over eng.
func NewTools(eng *engine.Engine) *Tools {
	return &Tools{engine: eng, now: time.Now}
}

// ============================================
// page_context
// ============================================

func (t *Tools) pageContextTool() mcp.Tool {
	return mcp.NewTool("page_context",
		mcp.WithDescription("Assemble a markdown context document about the observed page for a task. "+
			"Sections are chosen from the task intent unless a preset is given."),
		mcp.WithString("task", mcp.Required(), mcp.Description("What you are trying to do, in plain words")),
		mcp.WithString("preset", mcp.Description("Section preset"),
			mcp.Enum(string(intent.PresetAuto), string(intent.PresetBug), string(intent.PresetUI),
				string(intent.PresetFull), string(intent.PresetMinimal))),
		mcp.WithString("route", mcp.Description("Route to resolve, defaults to the page URL path")),
		mcp.WithString("url", mcp.Description("Page URL, defaults to the captured page URL")),
		mcp.WithString("project", mcp.Description("Project path whose index is used for route resolution")),
		mcp.WithString("selection", mcp.Description("Text the user selected on the page")),
		mcp.WithString("format", mcp.Description("markdown (default) or json"), mcp.Enum("markdown", "json")),
	)
}

func (t *Tools) handlePageContext(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	task := strings.TrimSpace(req.GetString("task", ""))
	if task == "" {
		return errorResult(ErrMissingParam, "task is required", "Add the 'task' parameter and call again", withParam("task")), nil
	}
	preset := req.GetString("preset", "")
	if preset != "" {
		if _, err := intent.ParsePreset(preset); err != nil {
			return errorResult(ErrInvalidParam, err.Error(), "Use one of auto, bug, ui, full, minimal", withParam("preset")), nil
		}
	}
	resp, err := t.engine.Context(ctx, engine.ContextRequest{
		Task:        task,
		Preset:      preset,
		Route:       req.GetString("route", ""),
		URL:         req.GetString("url", ""),
		ProjectPath: req.GetString("project", ""),
		Selection:   req.GetString("selection", ""),
	})
	if err != nil {
		return captureErrorResult(err), nil
	}
	if req.GetString("format", "markdown") == "json" {
		raw, err := json.Marshal(resp)
		if err != nil {
			return errorResult(ErrInternal, err.Error(), "Do not retry"), nil
		}
		return mcp.NewToolResultText(string(raw)), nil
	}
	summary := fmt.Sprintf("%s sections, ~%s tokens (intent: %s)",
		humanize.Comma(int64(len(resp.Document.Sections))),
		humanize.Comma(int64(resp.Document.Tokens)),
		intentName(resp.Selection))
	if resp.Detached {
		summary += "; page detached, network from history"
	}
	return mcp.NewToolResultText(summary + "\n\n" + resp.Document.Text), nil
}

func intentName(sel intent.Selection) string {
	if sel.Intent.Name == "" {
		return string(sel.Preset)
	}
	return sel.Intent.Name
}

// ============================================
// resolve_route
// ============================================

func (t *Tools) resolveRouteTool() mcp.Tool {
	return mcp.NewTool("resolve_route",
		mcp.WithDescription("Map a route to its page file, layout chain and route params using the project index."),
		mcp.WithString("route", mcp.Required(), mcp.Description("Route such as /users/42")),
		mcp.WithString("project", mcp.Description("Project path; defaults to the mapping for url or the last indexed project")),
		mcp.WithString("url", mcp.Description("Page URL used to find the project mapping")),
	)
}

func (t *Tools) handleResolveRoute(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	route := strings.TrimSpace(req.GetString("route", ""))
	if route == "" {
		return errorResult(ErrMissingParam, "route is required", "Add the 'route' parameter and call again", withParam("route")), nil
	}
	res, ok, err := t.engine.Resolve(ctx, route, req.GetString("project", ""), req.GetString("url", ""))
	if err != nil {
		return errorResult(ErrInternal, err.Error(), "Do not retry"), nil
	}
	if !ok {
		return errorResult(ErrNoIndex, "no project index is available",
			"Index the project with 'pagectx index <dir>' then call again"), nil
	}
	return mcp.NewToolResultText(resolutionText(res)), nil
}

// ============================================
// recent_requests
// ============================================

func (t *Tools) recentRequestsTool() mcp.Tool {
	return mcp.NewTool("recent_requests",
		mcp.WithDescription("List recent network requests of the observed page, newest first. "+
			"Falls back to persisted history when the page is detached."),
		mcp.WithString("filter", mcp.Description("Free text matched against URL, method and status")),
		mcp.WithString("method", mcp.Description("HTTP method, or ALL")),
		mcp.WithString("status", mcp.Description("ok, error, failed, 2xx..5xx or an exact code")),
		mcp.WithNumber("limit", mcp.Description("Maximum rows, default 20")),
	)
}

func (t *Tools) handleRecentRequests(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	events, err := t.engine.Pull(ctx)
	detached := false
	if err != nil {
		if !errors.Is(err, types.ErrDetached) || t.engine.History() == nil {
			return captureErrorResult(err), nil
		}
		detached = true
		if events, err = t.engine.History().Read(ctx); err != nil {
			return errorResult(ErrInternal, err.Error(), "Do not retry"), nil
		}
	}
	limit := req.GetInt("limit", defaultRequestLimit)
	if limit <= 0 {
		limit = defaultRequestLimit
	}
	f := history.Filter{
		Text:   req.GetString("filter", ""),
		Method: req.GetString("method", ""),
		Status: req.GetString("status", ""),
		Limit:  limit,
	}
	matched := f.Apply(events)
	if len(matched) == 0 {
		return errorResult(ErrNoData, "no requests match", "Interact with the page or widen the filter, then call again"), nil
	}
	summary := fmt.Sprintf("%s of %s requests", humanize.Comma(int64(len(matched))), humanize.Comma(int64(len(events))))
	if detached {
		summary += " (history; page detached)"
	}
	table := markdownTable([]string{"Method", "Status", "Path", "Duration", "When"}, requestRows(matched, t.now()))
	return mcp.NewToolResultText(summary + "\n\n" + table), nil
}

// ============================================
// list_projects / clear_capture
// ============================================

func (t *Tools) listProjectsTool() mcp.Tool {
	return mcp.NewTool("list_projects",
		mcp.WithDescription("List indexed projects with their file counts."),
	)
}

func (t *Tools) handleListProjects(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idx := t.engine.Index()
	if idx == nil {
		return errorResult(ErrNoIndex, "indexing is disabled", "Do not retry"), nil
	}
	projects, err := idx.Projects(ctx)
	if err != nil {
		return errorResult(ErrInternal, err.Error(), "Do not retry"), nil
	}
	if len(projects) == 0 {
		return errorResult(ErrNoIndex, "no projects indexed", "Index the project with 'pagectx index <dir>' then call again"), nil
	}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		pi, _, err := idx.Load(ctx, p, false)
		if err != nil {
			return errorResult(ErrInternal, err.Error(), "Do not retry"), nil
		}
		rows = append(rows, []string{p, humanize.Comma(int64(len(pi.Files))), humanize.RelTime(pi.UpdatedAt, t.now(), "ago", "from now")})
	}
	return mcp.NewToolResultText(markdownTable([]string{"Project", "Files", "Indexed"}, rows)), nil
}

func (t *Tools) clearCaptureTool() mcp.Tool {
	return mcp.NewTool("clear_capture",
		mcp.WithDescription("Empty the page-side error and network buffers. Persisted history is kept."),
	)
}

func (t *Tools) handleClearCapture(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := t.engine.ClearCapture(ctx); err != nil {
		return captureErrorResult(err), nil
	}
	return mcp.NewToolResultText("capture buffers cleared"), nil
}
