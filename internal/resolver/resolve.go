// resolve.go — Route to page-file resolution.
package resolver

import (
	"path"
	"sort"
	"strings"

	"github.com/dev-console/pagectx/internal/indexer"
)

// Match is a scored fuzzy candidate.
type Match struct {
	File  string `json:"file"`
	Score int    `json:"score"`
}

// Resolver resolves routes against a flat file list.
type Resolver struct {
	weights Weights
}

// New creates a resolver. Zero weights select DefaultWeights.
func New(w Weights) *Resolver {
	if w.IsZero() {
		w = DefaultWeights()
	}
	return &Resolver{weights: w}
}

// Weights returns the weights in use.
func (r *Resolver) Weights() Weights { return r.weights }

// DirectCandidates lists the conventional file paths for route, in lookup
// order: every source root, then every extension, then the three naming
// forms. The root route expands to page and index files.
func DirectCandidates(route string) []string {
	route = NormalizeRoute(route)
	var forms []string
	if route == "" {
		forms = []string{"page", "index"}
	} else {
		forms = []string{route, route + "/page", route + "/index"}
	}
	out := make([]string, 0, len(SourceRoots)*len(CandidateExtensions)*len(forms))
	for _, root := range SourceRoots {
		for _, ext := range CandidateExtensions {
			for _, form := range forms {
				out = append(out, root+form+"."+ext)
			}
		}
	}
	return out
}

// Resolve returns the most plausible file for route, or ("", false).
func (r *Resolver) Resolve(route string, files []string) (string, bool) {
	if f, ok := ResolveDirect(route, files); ok {
		return f, true
	}
	best, ok := r.best(route, files)
	return best.File, ok
}

// ResolveDirect looks the direct candidates up case-insensitively and
// returns the index's spelling of the first hit.
func ResolveDirect(route string, files []string) (string, bool) {
	if len(files) == 0 {
		return "", false
	}
	lookup := make(map[string]string, len(files))
	for _, f := range files {
		key := strings.ToLower(f)
		if _, dup := lookup[key]; !dup {
			lookup[key] = f
		}
	}
	for _, c := range DirectCandidates(route) {
		if f, ok := lookup[c]; ok {
			return f, true
		}
	}
	return "", false
}

// best returns the highest fuzzy score. Ties keep the earlier file.
func (r *Resolver) best(route string, files []string) (Match, bool) {
	var best Match
	found := false
	for _, f := range files {
		s, ok := r.score(route, f)
		if !ok || s <= 0 {
			continue
		}
		if !found || s > best.Score {
			best = Match{File: f, Score: s}
			found = true
		}
	}
	return best, found
}

// Ranked returns up to limit files with a positive fuzzy score, highest
// first, ties in index order. limit <= 0 means all.
func (r *Resolver) Ranked(route string, files []string, limit int) []Match {
	var out []Match
	for _, f := range files {
		if s, ok := r.score(route, f); ok && s > 0 {
			out = append(out, Match{File: f, Score: s})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Score returns the fuzzy score of file for route. Excluded files score 0.
func (r *Resolver) Score(route, file string) int {
	s, ok := r.score(route, file)
	if !ok {
		return 0
	}
	return s
}

func (r *Resolver) score(route, file string) (int, bool) {
	if indexer.IsExcludedPath(file) {
		return 0, false
	}
	w := r.weights
	route = NormalizeRoute(route)
	lowerPath := strings.ToLower(strings.ReplaceAll(file, "\\", "/"))
	base := baseName(lowerPath)

	score := 0
	if route != "" {
		last := route[strings.LastIndex(route, "/")+1:]
		switch {
		case strings.HasPrefix(base, last):
			score += w.BaseStartsWith
		case strings.Contains(base, last):
			score += w.BaseContains
		}
		if strings.Contains(lowerPath, route) {
			score += w.PathContains
		}
	}
	if base == "page" || base == "index" {
		score += w.NamedPage
	}
	if underRouterDir(lowerPath) {
		score += w.RouterDir
	}
	switch base {
	case "page", "layout", "index", "route":
		score += w.RouteFile
	}
	switch extension(lowerPath) {
	case "tsx", "jsx", "ts":
		score += w.SourceExt
	case "js":
		score += w.PlainJS
	}
	score -= w.DepthPenalty * strings.Count(lowerPath, "/")
	return score, true
}

// underRouterDir reports whether any directory of p is named app or pages.
func underRouterDir(p string) bool {
	dir := path.Dir(p)
	if dir == "." {
		return false
	}
	for _, seg := range strings.Split(dir, "/") {
		if seg == "app" || seg == "pages" {
			return true
		}
	}
	return false
}
