// filter.go — Stateless filtering over history lists.
package history

import (
	"strconv"
	"strings"

	"github.com/dev-console/pagectx/internal/types"
)

// Filter selects events by free text, method and status class.
// Status accepts "", "ok", "error", "failed", "2xx".."5xx" or an exact code.
type Filter struct {
	Text   string
	Method string
	Status string
	Limit  int
}

// Apply returns the events matching f, preserving order.
func (f Filter) Apply(events []types.NetworkEvent) []types.NetworkEvent {
	text := strings.ToLower(strings.TrimSpace(f.Text))
	method := strings.ToUpper(strings.TrimSpace(f.Method))
	out := make([]types.NetworkEvent, 0, len(events))
	for _, ev := range events {
		if method != "" && method != "ALL" && ev.Method != method {
			continue
		}
		if !matchStatus(f.Status, ev) {
			continue
		}
		if text != "" && !matchText(text, ev) {
			continue
		}
		out = append(out, ev)
		if f.Limit > 0 && len(out) >= f.Limit {
			break
		}
	}
	return out
}

func matchText(text string, ev types.NetworkEvent) bool {
	return strings.Contains(strings.ToLower(ev.URL), text) ||
		strings.Contains(strings.ToLower(ev.Method), text) ||
		strings.Contains(strconv.Itoa(ev.Status), text) ||
		strings.Contains(strings.ToLower(ev.Error), text)
}

func matchStatus(status string, ev types.NetworkEvent) bool {
	switch s := strings.ToLower(strings.TrimSpace(status)); s {
	case "", "all":
		return true
	case "ok":
		return ev.Status >= 200 && ev.Status < 400
	case "error", "failed":
		return ev.Failed()
	case "1xx", "2xx", "3xx", "4xx", "5xx":
		class := int(s[0]-'0') * 100
		return ev.Status >= class && ev.Status < class+100
	default:
		code, err := strconv.Atoi(s)
		return err == nil && ev.Status == code
	}
}
