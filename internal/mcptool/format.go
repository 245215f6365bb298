// format.go — Markdown rendering for tool results.
package mcptool

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/dev-console/pagectx/internal/resolver"
	"github.com/dev-console/pagectx/internal/types"
)

// markdownTable renders rows under headers. Pipes in cells are escaped and
// newlines flattened.
func markdownTable(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("| " + strings.Join(headers, " | ") + " |\n|")
	for range headers {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cell = strings.ReplaceAll(cell, "\n", " ")
			cells[i] = strings.ReplaceAll(cell, "|", `\|`)
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	return b.String()
}

// requestRows renders one row per event, newest first as given.
func requestRows(events []types.NetworkEvent, now time.Time) [][]string {
	rows := make([][]string, 0, len(events))
	for _, ev := range events {
		status := strconv.Itoa(ev.Status)
		switch {
		case ev.Error != "":
			status = "failed: " + ev.Error
		case ev.Status == 0:
			status = "pending"
		}
		dur := "-"
		if ev.Duration != nil {
			dur = humanize.Ftoa(ev.DurationMS()) + "ms"
		}
		path := ev.Path
		if path == "" {
			path = ev.URL
		}
		rows = append(rows, []string{
			ev.Method,
			status,
			truncate(path, 80),
			dur,
			humanize.RelTime(time.UnixMilli(ev.Timestamp), now, "ago", "from now"),
		})
	}
	return rows
}

// resolutionText renders a resolver result for a reader.
func resolutionText(res resolver.Resolution) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Route: %s\n", res.Route)
	switch {
	case res.Page == "":
		b.WriteString("Page: not found\n")
	case res.Direct:
		fmt.Fprintf(&b, "Page: %s (direct)\n", res.Page)
	default:
		fmt.Fprintf(&b, "Page: %s (fuzzy)\n", res.Page)
	}
	if len(res.Chain) > 0 {
		b.WriteString("Layout chain:\n")
		for i, e := range res.Chain {
			fmt.Fprintf(&b, "  %d. %s (%s)\n", i+1, e.File, e.Label)
		}
	}
	if len(res.Params) > 0 {
		parts := make([]string, len(res.Params))
		for i, p := range res.Params {
			parts[i] = p.Name + "=" + p.Value
		}
		fmt.Fprintf(&b, "Params: %s\n", strings.Join(parts, ", "))
	}
	if len(res.Related) > 0 {
		b.WriteString("Related:\n")
		for _, m := range res.Related {
			fmt.Fprintf(&b, "  - %s (%d)\n", m.File, m.Score)
		}
	}
	return b.String()
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
