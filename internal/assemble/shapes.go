// shapes.go — Outline of JSON response bodies.
// Only structure is reported: key names and value types, never values.
package assemble

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/dev-console/pagectx/internal/types"
)

const (
	maxShapeEndpoints = 6
	maxShapeKeys      = 12
	maxShapeDepth     = 2
	rawBodyPrefix     = 120
)

// responseShapes outlines the newest response body per endpoint.
func responseShapes(events []types.NetworkEvent) string {
	var b strings.Builder
	seen := map[string]bool{}
	n := 0
	for _, ev := range events {
		body := strings.TrimSpace(ev.ResponseBody)
		if body == "" {
			continue
		}
		key := ev.Method + " " + EndpointPattern(eventPath(ev))
		if seen[key] {
			continue
		}
		seen[key] = true
		if n == maxShapeEndpoints {
			break
		}
		n++
		fmt.Fprintf(&b, "%s (%s)\n", key, statusText(ev))
		b.WriteString(Shape(body))
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// Shape renders the structure of a JSON document. Non-JSON bodies fall back
// to a raw prefix.
func Shape(body string) string {
	if !gjson.Valid(body) {
		return "  (non-JSON) " + truncate(oneLine(body), rawBodyPrefix)
	}
	var b strings.Builder
	writeShape(&b, gjson.Parse(body), 1, "")
	return strings.TrimRight(b.String(), "\n")
}

func writeShape(b *strings.Builder, v gjson.Result, depth int, label string) {
	indent := strings.Repeat("  ", depth)
	prefix := indent
	if label != "" {
		prefix += label + ": "
	}
	switch {
	case v.IsObject():
		m := v.Map()
		keys := make([]string, 0, len(m))
		// Keep document order for keys.
		v.ForEach(func(k, _ gjson.Result) bool {
			keys = append(keys, k.String())
			return true
		})
		if depth > maxShapeDepth {
			sort.Strings(keys)
			fmt.Fprintf(b, "%sobject{%s}\n", prefix, strings.Join(limitKeys(keys), ", "))
			return
		}
		fmt.Fprintf(b, "%sobject\n", prefix)
		for i, k := range keys {
			if i == maxShapeKeys {
				fmt.Fprintf(b, "%s  ... %d more keys\n", indent, len(keys)-maxShapeKeys)
				break
			}
			writeShape(b, m[k], depth+1, k)
		}
	case v.IsArray():
		items := v.Array()
		if len(items) == 0 {
			fmt.Fprintf(b, "%sarray[0]\n", prefix)
			return
		}
		first := items[0]
		if first.IsObject() && depth <= maxShapeDepth {
			fmt.Fprintf(b, "%sarray[%d] of\n", prefix, len(items))
			writeShape(b, first, depth+1, "")
			return
		}
		fmt.Fprintf(b, "%sarray[%d] of %s\n", prefix, len(items), typeName(first))
	default:
		fmt.Fprintf(b, "%s%s\n", prefix, typeName(v))
	}
}

func limitKeys(keys []string) []string {
	if len(keys) <= maxShapeKeys {
		return keys
	}
	return append(keys[:maxShapeKeys:maxShapeKeys], "...")
}

func typeName(v gjson.Result) string {
	switch v.Type {
	case gjson.Null:
		return "null"
	case gjson.False, gjson.True:
		return "boolean"
	case gjson.Number:
		if v.Num == float64(int64(v.Num)) {
			return "integer"
		}
		return "number"
	case gjson.String:
		return "string"
	}
	if v.IsArray() {
		return "array"
	}
	return "object"
}
