// url.go — URL parsing utilities: path extraction and route normalization.
package util

import (
	"net/url"
	"strings"
)

// ExtractURLPath extracts the path portion from a URL string, stripping query
// parameters and fragments. Returns "/" if the URL has no path component.
// Unparseable input falls back to the raw string with any query or fragment cut.
func ExtractURLPath(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		raw := rawURL
		if i := strings.IndexAny(raw, "?#"); i >= 0 {
			raw = raw[:i]
		}
		return raw
	}
	if parsed.Path == "" {
		return "/"
	}
	return parsed.Path
}

// TrimRoute strips leading and trailing slashes and any query or fragment.
// "/dashboard/clients/" becomes "dashboard/clients"; "/" becomes "".
func TrimRoute(route string) string {
	if i := strings.IndexAny(route, "?#"); i >= 0 {
		route = route[:i]
	}
	return strings.Trim(route, "/")
}

// RouteSegments splits a route into its non-empty segments.
func RouteSegments(route string) []string {
	parts := strings.Split(TrimRoute(route), "/")
	segs := parts[:0]
	for _, p := range parts {
		if p != "" {
			segs = append(segs, p)
		}
	}
	return segs
}
