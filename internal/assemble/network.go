// network.go — Data-fetching summary and failed-request fallback.
package assemble

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/dev-console/pagectx/internal/types"
	"github.com/dev-console/pagectx/internal/util"
)

var (
	uuidSegment    = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
	numericSegment = regexp.MustCompile(`^\d+$`)
	hashSegment    = regexp.MustCompile(`^[0-9a-fA-F]{16,}$`)
)

// EndpointPattern replaces dynamic path segments (UUIDs, numbers, long hex
// hashes) with placeholders so calls to one endpoint group together.
func EndpointPattern(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		switch {
		case seg == "":
		case uuidSegment.MatchString(seg):
			segments[i] = "{uuid}"
		case numericSegment.MatchString(seg):
			segments[i] = "{id}"
		case hashSegment.MatchString(seg):
			segments[i] = "{hash}"
		}
	}
	return strings.Join(segments, "/")
}

func eventPath(ev types.NetworkEvent) string {
	if ev.Path != "" {
		return ev.Path
	}
	return util.ExtractURLPath(ev.URL)
}

// endpointStats aggregates the calls to one METHOD + pattern.
type endpointStats struct {
	key       string
	count     int
	failures  int
	durSum    float64
	durCount  int
	lastState string
	types     map[string]bool
}

const maxEndpoints = 15

// dataFetchingSummary groups events by endpoint in first-seen order
// (events arrive newest first).
func dataFetchingSummary(events []types.NetworkEvent) string {
	if len(events) == 0 {
		return ""
	}
	var order []*endpointStats
	byKey := map[string]*endpointStats{}
	for _, ev := range events {
		key := ev.Method + " " + EndpointPattern(eventPath(ev))
		st, ok := byKey[key]
		if !ok {
			st = &endpointStats{key: key, lastState: statusText(ev), types: map[string]bool{}}
			byKey[key] = st
			order = append(order, st)
		}
		st.count++
		if ev.Failed() {
			st.failures++
		}
		if ev.Duration != nil {
			st.durSum += ev.DurationMS()
			st.durCount++
		}
		if ev.Type != "" {
			st.types[ev.Type] = true
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s requests across %d endpoints (newest first)\n", humanize.Comma(int64(len(events))), len(order))
	for i, st := range order {
		if i == maxEndpoints {
			fmt.Fprintf(&b, "- ... %d more endpoints\n", len(order)-maxEndpoints)
			break
		}
		fmt.Fprintf(&b, "- %s x%d, last %s", st.key, st.count, st.lastState)
		if st.failures > 0 {
			fmt.Fprintf(&b, ", %d failed", st.failures)
		}
		if st.durCount > 0 {
			fmt.Fprintf(&b, ", avg %.0fms", st.durSum/float64(st.durCount))
		}
		if st.types[types.NetworkTypeGraphQL] {
			b.WriteString(", graphql")
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

const maxFailed = 10

// failedRequests lists only the failed events.
func failedRequests(events []types.NetworkEvent) string {
	var b strings.Builder
	n := 0
	for _, ev := range events {
		if !ev.Failed() {
			continue
		}
		if n == maxFailed {
			b.WriteString("- ...\n")
			break
		}
		fmt.Fprintf(&b, "- %s %s -> %s\n", ev.Method, ev.URL, statusText(ev))
		n++
	}
	return strings.TrimRight(b.String(), "\n")
}

func statusText(ev types.NetworkEvent) string {
	switch {
	case ev.Status == 0 && ev.Error != "":
		return "network error: " + ev.Error
	case ev.Status == 0:
		return "pending"
	case ev.StatusText != "":
		return fmt.Sprintf("%d %s", ev.Status, ev.StatusText)
	default:
		return fmt.Sprintf("%d", ev.Status)
	}
}
