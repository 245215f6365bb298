// normalize.go — Path normalization and extension filtering.
package indexer

import (
	"path"
	"sort"
	"strings"
)

// DefaultExtensions is the default extension allow-list.
var DefaultExtensions = []string{"tsx", "ts", "jsx", "js", "json", "md"}

// NormalizePath converts backslashes to forward slashes and strips leading
// separators and "./" prefixes.
func NormalizePath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	for {
		switch {
		case strings.HasPrefix(p, "/"):
			p = p[1:]
		case strings.HasPrefix(p, "./"):
			p = p[2:]
		default:
			return p
		}
	}
}

// sourceDirs are top-level folders of a project itself. A shared first
// segment with one of these names means the paths are already root-relative.
var sourceDirs = map[string]bool{
	"src": true, "app": true, "pages": true, "components": true,
	"lib": true, "public": true, "styles": true,
}

// NormalizePaths normalizes every path and strips the folder every path
// starts with. With an alias, only a folder matching it is stripped. Without
// one, any shared folder is stripped unless it is a source folder such as
// src or app, so root-relative input is never stripped twice.
func NormalizePaths(paths []string, alias string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if n := NormalizePath(p); n != "" {
			out = append(out, n)
		}
	}
	root := commonRoot(out)
	if root == "" || !stripRoot(root, alias) {
		return out
	}
	prefix := root + "/"
	for i, p := range out {
		out[i] = strings.TrimPrefix(p, prefix)
	}
	return out
}

func stripRoot(root, alias string) bool {
	if a := strings.Trim(NormalizePath(alias), "/"); a != "" {
		return strings.EqualFold(root, a)
	}
	return !sourceDirs[strings.ToLower(root)]
}

// commonRoot returns the first segment shared by every path, or "" when any
// path lacks a folder or the first segments differ.
func commonRoot(paths []string) string {
	if len(paths) == 0 {
		return ""
	}
	var root string
	for i, p := range paths {
		idx := strings.Index(p, "/")
		if idx <= 0 {
			return ""
		}
		seg := p[:idx]
		if i == 0 {
			root = seg
			continue
		}
		if seg != root {
			return ""
		}
	}
	return root
}

// NormalizeExtensions lowercases, strips dots and dedupes. Empty input yields
// the defaults.
func NormalizeExtensions(exts []string) []string {
	seen := make(map[string]bool, len(exts))
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(e), "."))
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	if len(out) == 0 {
		return append([]string(nil), DefaultExtensions...)
	}
	sort.Strings(out)
	return out
}

// Extension returns the lowercase extension of p without the dot.
func Extension(p string) string {
	return strings.TrimPrefix(strings.ToLower(path.Ext(p)), ".")
}

// ExtensionSet builds a lookup set from an extension list.
func ExtensionSet(exts []string) map[string]bool {
	set := make(map[string]bool, len(exts))
	for _, e := range NormalizeExtensions(exts) {
		set[e] = true
	}
	return set
}

// Retain reports whether p survives both index predicates.
func Retain(p string, allowed map[string]bool) bool {
	if IsExcludedPath(p) {
		return false
	}
	return allowed[Extension(p)]
}
