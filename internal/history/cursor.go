// cursor.go — Cursor pagination over history lists.
// A cursor names the last event of the previous page as "timestamp:id".
// History is ordered by merge (newest batch first), not by timestamp, so the
// ID locates the position; the timestamp is the fallback once that event has
// been evicted by later merges.
package history

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dev-console/pagectx/internal/types"
)

// Cursor identifies the last event a caller has seen.
type Cursor struct {
	Timestamp int64
	ID        string
}

// ParseCursor parses "timestamp:id". An empty string is the zero cursor,
// meaning the first page.
func ParseCursor(s string) (Cursor, error) {
	if s == "" {
		return Cursor{}, nil
	}
	tsStr, id, ok := strings.Cut(s, ":")
	if !ok || id == "" {
		return Cursor{}, fmt.Errorf("invalid cursor %q: expected 'timestamp:id'", s)
	}
	ts, err := strconv.ParseInt(tsStr, 10, 64)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid timestamp in cursor: %w", err)
	}
	return Cursor{Timestamp: ts, ID: id}, nil
}

// CursorFor returns the cursor pointing at ev.
func CursorFor(ev types.NetworkEvent) string {
	return strconv.FormatInt(ev.Timestamp, 10) + ":" + ev.ID
}

// IsZero reports whether c is the first-page cursor.
func (c Cursor) IsZero() bool { return c.ID == "" }

// PageInfo describes one page.
type PageInfo struct {
	Cursor  string `json:"cursor,omitempty"`
	HasMore bool   `json:"hasMore"`
	Total   int    `json:"total"`
	// Expired is set when the cursor's event is gone and the page was
	// located by timestamp instead.
	Expired bool `json:"expired,omitempty"`
}

// Page returns up to limit events following c in events. limit <= 0 means
// the rest of the list.
func Page(events []types.NetworkEvent, c Cursor, limit int) ([]types.NetworkEvent, PageInfo) {
	info := PageInfo{Total: len(events)}
	rest := events
	if !c.IsZero() {
		rest = nil
		found := false
		for i, ev := range events {
			if ev.ID == c.ID {
				rest = events[i+1:]
				found = true
				break
			}
		}
		if !found {
			info.Expired = true
			for _, ev := range events {
				if ev.Timestamp < c.Timestamp {
					rest = append(rest, ev)
				}
			}
		}
	}
	page := rest
	if limit > 0 && len(rest) > limit {
		page = rest[:limit]
		info.HasMore = true
	}
	if len(page) > 0 {
		info.Cursor = CursorFor(page[len(page)-1])
	}
	return page, info
}
