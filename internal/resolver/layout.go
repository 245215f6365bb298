// layout.go — Ancestor layout chain and route parameters.
package resolver

import (
	"slices"
	"sort"
	"strings"

	"github.com/dev-console/pagectx/internal/util"
)

// IsLayoutFile reports whether file is a layout file of any extension.
func IsLayoutFile(file string) bool {
	return baseName(file) == "layout"
}

// LayoutChain returns the layouts that wrap route, root first. Layouts whose
// effective segments do not all match the route (placeholders match any
// segment) are excluded. An empty result means the chain is unknown.
func LayoutChain(route string, files []string) []string {
	routeSegs := util.RouteSegments(route)

	type layout struct {
		file  string
		depth int
	}
	var applicable []layout
	for _, f := range files {
		if !IsLayoutFile(f) {
			continue
		}
		segs := EffectiveSegments(f, false)
		if !segmentsMatch(segs, routeSegs) {
			continue
		}
		applicable = append(applicable, layout{file: f, depth: len(segs)})
	}
	sort.SliceStable(applicable, func(i, j int) bool { return applicable[i].depth < applicable[j].depth })

	out := make([]string, len(applicable))
	for i, l := range applicable {
		out[i] = l.file
	}
	return out
}

// segmentsMatch reports whether a layout's segments prefix the route.
func segmentsMatch(layoutSegs, routeSegs []string) bool {
	if len(layoutSegs) > len(routeSegs) {
		return false
	}
	for i, seg := range layoutSegs {
		if isPlaceholder(seg) {
			continue
		}
		if !strings.EqualFold(seg, routeSegs[i]) {
			return false
		}
	}
	return true
}

// Param is one dynamic route segment bound to its value.
type Param struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// RouteParams binds the placeholder segments of page to route values. A
// catch-all placeholder ("[...slug]" or "[[...slug]]") takes the remaining
// segments joined by "/".
func RouteParams(route, page string) []Param {
	if page == "" {
		return nil
	}
	routeSegs := util.RouteSegments(route)
	var out []Param
	for i, seg := range EffectiveSegments(page, true) {
		if !isPlaceholder(seg) {
			continue
		}
		name := strings.Trim(seg, "[]")
		if strings.HasPrefix(name, "...") {
			name = strings.TrimPrefix(name, "...")
			if i < len(routeSegs) {
				out = append(out, Param{Name: name, Value: strings.Join(routeSegs[i:], "/")})
			}
			break
		}
		if i < len(routeSegs) {
			out = append(out, Param{Name: name, Value: routeSegs[i]})
		}
	}
	return out
}

// ChainEntry is one labeled step of a layout chain.
type ChainEntry struct {
	Label string `json:"label"`
	File  string `json:"file"`
}

// labelChain labels layouts by the route prefix they wrap and appends page.
// With no layout files indexed the chain is unknown and stays empty.
func labelChain(layouts []string, page string, indexed bool) []ChainEntry {
	if !indexed {
		return nil
	}
	out := make([]ChainEntry, 0, len(layouts)+1)
	for _, l := range layouts {
		label := "root layout"
		if segs := EffectiveSegments(l, false); len(segs) > 0 {
			label = "/" + strings.Join(segs, "/") + " layout"
		}
		out = append(out, ChainEntry{Label: label, File: l})
	}
	if page != "" && (len(layouts) == 0 || page != layouts[len(layouts)-1]) {
		out = append(out, ChainEntry{Label: "page", File: page})
	}
	return out
}

// Resolution is the full resolver output for one route.
type Resolution struct {
	Route   string       `json:"route"`
	Page    string       `json:"page,omitempty"`
	Direct  bool         `json:"direct"`
	Layouts []string     `json:"layouts"`
	Chain   []ChainEntry `json:"chain"`
	Params  []Param      `json:"params,omitempty"`
	Related []Match      `json:"related,omitempty"`
}

// maxRelated bounds Resolution.Related.
const maxRelated = 5

// Analyze resolves the page, its layout chain (page appended whenever layout
// files are indexed), route params and the next-best fuzzy matches.
func (r *Resolver) Analyze(route string, files []string) Resolution {
	res := Resolution{Route: "/" + util.TrimRoute(route)}
	if page, ok := ResolveDirect(route, files); ok {
		res.Page, res.Direct = page, true
	} else if m, ok := r.best(route, files); ok {
		res.Page = m.File
	}

	res.Layouts = LayoutChain(route, files)
	res.Chain = labelChain(res.Layouts, res.Page, slices.ContainsFunc(files, IsLayoutFile))
	res.Params = RouteParams(route, res.Page)

	for _, m := range r.Ranked(route, files, 0) {
		if m.File == res.Page || IsLayoutFile(m.File) {
			continue
		}
		res.Related = append(res.Related, m)
		if len(res.Related) == maxRelated {
			break
		}
	}
	return res
}
