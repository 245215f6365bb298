// sections.go — Builders for the individual document sections.
// Each builder returns "" when it has nothing to report.
package assemble

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"github.com/dev-console/pagectx/internal/resolver"
	"github.com/dev-console/pagectx/internal/types"
)

const (
	maxSelection      = 2000
	maxDOMSnapshot    = 4000
	maxAccessibility  = 3000
	maxComponents     = 40
	maxComponentDepth = 12
	maxErrors         = 10
	maxStackFrames    = 3
	maxUIStateValue   = 200

	slowResourceMS     = 1000
	largeTransferBytes = 500 * 1000
	slowDOMLoadMS      = 3000
)

// truncate shortens s to at most limit runes, noting how much was cut.
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	r := []rune(s)
	return string(r[:limit]) + fmt.Sprintf("\n... (truncated, %d more characters)", len(r)-limit)
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}

func frameworkSection(fw *types.Framework, res *resolver.Resolution) string {
	var parts []string
	if fw != nil && fw.Name != "" {
		name := fw.Name
		if fw.Version != "" {
			name += " " + fw.Version
		}
		parts = append(parts, name)
	}
	if res != nil && res.Page != "" {
		if kind := routerKind(res.Page); kind != "" {
			parts = append(parts, kind+" router")
		}
	}
	return strings.Join(parts, ", ")
}

// routerKind reports "app" or "pages" for files under those directories.
func routerKind(file string) string {
	for _, seg := range strings.Split(strings.ToLower(file), "/") {
		switch seg {
		case "app":
			return "app"
		case "pages":
			return "pages"
		}
	}
	return ""
}

func routeSection(route, url, title string, res *resolver.Resolution) string {
	var b strings.Builder
	if route != "" {
		fmt.Fprintf(&b, "Route: %s\n", route)
	}
	if url != "" {
		fmt.Fprintf(&b, "URL: %s\n", url)
	}
	if title != "" {
		fmt.Fprintf(&b, "Title: %s\n", title)
	}
	if res != nil && res.Page != "" {
		how := "best guess"
		if res.Direct {
			how = "direct match"
		}
		fmt.Fprintf(&b, "Page file: %s (%s)\n", res.Page, how)
	}
	return strings.TrimRight(b.String(), "\n")
}

func routeParamsSection(res *resolver.Resolution) string {
	if res == nil || len(res.Params) == 0 {
		return ""
	}
	lines := make([]string, len(res.Params))
	for i, p := range res.Params {
		lines[i] = fmt.Sprintf("- %s = %s", p.Name, p.Value)
	}
	return strings.Join(lines, "\n")
}

func selectionSection(sel string) string {
	sel = strings.TrimSpace(sel)
	if sel == "" {
		return ""
	}
	return "```\n" + truncate(sel, maxSelection) + "\n```"
}

func relatedFilesSection(res *resolver.Resolution) string {
	if res == nil || len(res.Related) == 0 {
		return ""
	}
	lines := make([]string, len(res.Related))
	for i, m := range res.Related {
		lines[i] = fmt.Sprintf("- %s (score %d)", m.File, m.Score)
	}
	return strings.Join(lines, "\n")
}

func layoutChainSection(res *resolver.Resolution) string {
	if res == nil || len(res.Chain) == 0 {
		return ""
	}
	lines := make([]string, len(res.Chain))
	for i, e := range res.Chain {
		lines[i] = fmt.Sprintf("%d. %s (%s)", i+1, e.File, e.Label)
	}
	return strings.Join(lines, "\n")
}

func componentSection(p ComponentTreeProvider) string {
	if p == nil {
		return ""
	}
	var b strings.Builder
	n := 0
	for node := range p.Components() {
		if n == maxComponents {
			b.WriteString("...\n")
			break
		}
		if node.Name == "" {
			continue
		}
		depth := min(max(node.Depth, 0), maxComponentDepth)
		fmt.Fprintf(&b, "%s- %s", strings.Repeat("  ", depth), node.Name)
		if len(node.PropKeys) > 0 {
			fmt.Fprintf(&b, " (%s)", strings.Join(node.PropKeys, ", "))
		}
		b.WriteByte('\n')
		n++
	}
	return strings.TrimRight(b.String(), "\n")
}

func uiStateSection(state map[string]string) string {
	if len(state) == 0 {
		return ""
	}
	keys := make([]string, 0, len(state))
	for k := range state {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("- %s: %s", k, truncate(oneLine(state[k]), maxUIStateValue)))
	}
	return strings.Join(lines, "\n")
}

// structuredErrors dedupes by message, keeping the newest occurrence first.
func structuredErrors(events []types.ConsoleEvent, now time.Time) string {
	type group struct {
		ev    types.ConsoleEvent
		count int
	}
	var order []*group
	byMsg := map[string]*group{}
	for _, ev := range events {
		key := ev.Type + "\x00" + ev.Message
		if g, ok := byMsg[key]; ok {
			g.count++
			continue
		}
		g := &group{ev: ev, count: 1}
		byMsg[key] = g
		order = append(order, g)
	}

	var b strings.Builder
	for i, g := range order {
		if i == maxErrors {
			fmt.Fprintf(&b, "... %d more distinct errors\n", len(order)-maxErrors)
			break
		}
		fmt.Fprintf(&b, "### %s x%d", g.ev.Type, g.count)
		if g.ev.Timestamp > 0 {
			fmt.Fprintf(&b, ", last %s", humanize.RelTime(time.UnixMilli(g.ev.Timestamp), now, "ago", "from now"))
		}
		fmt.Fprintf(&b, "\n%s\n", g.ev.Message)
		for _, f := range stackFrames(g.ev.Stack) {
			fmt.Fprintf(&b, "    %s\n", f)
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

// stackFrames returns the first frames of a stack, skipping a leading line
// that repeats the message.
func stackFrames(stack string) []string {
	var frames []string
	for _, line := range strings.Split(stack, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(frames) == 0 && !strings.HasPrefix(line, "at ") && !strings.Contains(line, "@") && !strings.Contains(line, ".go:") {
			continue
		}
		frames = append(frames, line)
		if len(frames) == maxStackFrames {
			break
		}
	}
	return frames
}

func simpleErrors(events []types.ConsoleEvent) string {
	var lines []string
	for i, ev := range events {
		if i == maxErrors {
			lines = append(lines, "- ...")
			break
		}
		lines = append(lines, fmt.Sprintf("- [%s] %s", ev.Type, firstLine(ev.Message)))
	}
	return strings.Join(lines, "\n")
}

func accessibilitySection(tree string) string {
	tree = strings.TrimSpace(tree)
	if tree == "" {
		return ""
	}
	return truncate(tree, maxAccessibility)
}

func viewportSection(vp *types.Viewport) string {
	if vp == nil || (vp.Width == 0 && vp.Height == 0) {
		return ""
	}
	s := fmt.Sprintf("%dx%d", vp.Width, vp.Height)
	if vp.DevicePixelRatio > 0 && vp.DevicePixelRatio != 1 {
		s += fmt.Sprintf(" @%sx", humanize.Ftoa(vp.DevicePixelRatio))
	}
	if vp.ScrollX != 0 || vp.ScrollY != 0 {
		s += fmt.Sprintf(", scrolled to (%d, %d)", vp.ScrollX, vp.ScrollY)
	}
	return s
}

func performanceSection(perf *types.PerformanceSnapshot, events []types.NetworkEvent) string {
	var hints []string
	if perf != nil {
		if perf.DomContentLoaded > slowDOMLoadMS {
			hints = append(hints, fmt.Sprintf("- Slow DOMContentLoaded: %.0fms", perf.DomContentLoaded))
		}
		if perf.TransferSize > largeTransferBytes {
			hints = append(hints, fmt.Sprintf("- Page transferred %s in total", humanize.Bytes(uint64(perf.TransferSize))))
		}
		for _, r := range perf.Resources {
			if r.Duration > slowResourceMS {
				hints = append(hints, fmt.Sprintf("- Slow resource (%.0fms): %s", r.Duration, r.URL))
			}
			if r.TransferSize > largeTransferBytes {
				hints = append(hints, fmt.Sprintf("- Large resource (%s): %s", humanize.Bytes(uint64(r.TransferSize)), r.URL))
			}
		}
	}
	for _, ev := range events {
		if d := ev.DurationMS(); d > slowResourceMS {
			hints = append(hints, fmt.Sprintf("- Slow request (%.0fms): %s %s", d, ev.Method, ev.URL))
		}
	}
	return strings.Join(hints, "\n")
}

func domSection(dom string) string {
	dom = strings.TrimSpace(dom)
	if dom == "" {
		return ""
	}
	return "```html\n" + truncate(dom, maxDOMSnapshot) + "\n```"
}
