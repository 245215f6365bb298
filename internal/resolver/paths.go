// paths.go — Route and file path helpers shared by resolution and layouts.
package resolver

import (
	"path"
	"strings"

	"github.com/dev-console/pagectx/internal/util"
)

// SourceRoots are the directory prefixes tried for direct candidates, in
// priority order.
var SourceRoots = []string{"", "src/", "app/", "pages/", "src/app/", "src/pages/"}

// CandidateExtensions are the extensions tried for direct candidates, in
// priority order.
var CandidateExtensions = []string{"tsx", "jsx", "ts", "js"}

// strippableRoots is SourceRoots without the empty prefix, longest first.
var strippableRoots = []string{"src/pages/", "src/app/", "pages/", "app/", "src/"}

// NormalizeRoute lowercases a route and strips separators, query and
// fragment. The root route normalizes to "".
func NormalizeRoute(route string) string {
	return strings.ToLower(util.TrimRoute(strings.TrimSpace(route)))
}

// baseName returns the lowercase file name without its extension.
func baseName(file string) string {
	name := strings.ToLower(path.Base(file))
	if i := strings.LastIndex(name, "."); i > 0 {
		return name[:i]
	}
	return name
}

// extension returns the lowercase extension without the dot.
func extension(file string) string {
	return strings.TrimPrefix(strings.ToLower(path.Ext(file)), ".")
}

// stripSourceRoot removes the longest known source-root prefix.
func stripSourceRoot(file string) string {
	lower := strings.ToLower(file)
	for _, root := range strippableRoots {
		if strings.HasPrefix(lower, root) {
			return file[len(root):]
		}
	}
	return file
}

// isRouteGroup reports whether seg is an organizational "(group)" segment.
func isRouteGroup(seg string) bool {
	return len(seg) > 2 && strings.HasPrefix(seg, "(") && strings.HasSuffix(seg, ")")
}

// isPlaceholder reports whether seg is a "[param]" segment.
func isPlaceholder(seg string) bool {
	return len(seg) > 2 && strings.HasPrefix(seg, "[") && strings.HasSuffix(seg, "]")
}

// EffectiveSegments returns the URL segments a file contributes: the source
// root and route groups are dropped. The file name itself counts as a segment
// only when withFile is set and it is not a page, index or layout file.
func EffectiveSegments(file string, withFile bool) []string {
	rel := stripSourceRoot(strings.Trim(file, "/"))
	parts := strings.Split(rel, "/")
	dirs := parts[:len(parts)-1]

	segs := make([]string, 0, len(parts))
	for _, seg := range dirs {
		if seg == "" || isRouteGroup(seg) {
			continue
		}
		segs = append(segs, seg)
	}
	if withFile {
		switch name := parts[len(parts)-1]; baseName(name) {
		case "page", "index", "layout", "route":
		default:
			if i := strings.LastIndex(name, "."); i > 0 {
				name = name[:i]
			}
			segs = append(segs, name)
		}
	}
	return segs
}
