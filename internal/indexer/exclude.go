// exclude.go — Generated-path exclusion rules.
package indexer

import (
	"regexp"
	"strings"
)

// excludedSegments are directory names whose subtrees never reach the index.
var excludedSegments = map[string]bool{
	"node_modules":     true,
	"bower_components": true,
	"jspm_packages":    true,
	".pnpm":            true,
	".yarn":            true,
	".git":             true,
	".hg":              true,
	".svn":             true,
	".next":            true,
	".nuxt":            true,
	".output":          true,
	".svelte-kit":      true,
	".vercel":          true,
	".netlify":         true,
	".turbo":           true,
	".cache":           true,
	".parcel-cache":    true,
	".vite":            true,
	".angular":         true,
	".expo":            true,
	"dist":             true,
	"build":            true,
	"out":              true,
	"coverage":         true,
	".nyc_output":      true,
	"storybook-static": true,
	"__generated__":    true,
	"chunks":           true,
	"_next":            true,
	"__pycache__":      true,
}

var excludedNamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\.hot-update\.(js|json)$`),
	regexp.MustCompile(`^webpack-(runtime|hmr)`),
	regexp.MustCompile(`\.chunk\.(js|css)$`),
	regexp.MustCompile(`\.bundle\.js$`),
	regexp.MustCompile(`\.min\.(js|css)$`),
	regexp.MustCompile(`\.[0-9a-f]{8,}\.(js|mjs|cjs|css)$`),
	regexp.MustCompile(`^\.DS_Store$`),
	regexp.MustCompile(`\.tsbuildinfo$`),
}

// IsExcludedPath reports whether a normalized relative path belongs to a
// generated, dependency, build or cache location.
func IsExcludedPath(path string) bool {
	p := strings.ToLower(NormalizePath(path))
	if p == "" {
		return true
	}
	if strings.HasSuffix(p, ".map") {
		return true
	}
	segments := strings.Split(p, "/")
	for _, seg := range segments[:len(segments)-1] {
		if excludedSegments[seg] {
			return true
		}
	}
	name := segments[len(segments)-1]
	for _, re := range excludedNamePatterns {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// IsExcludedDir reports whether a directory name should be skipped while walking.
func IsExcludedDir(name string) bool {
	return excludedSegments[strings.ToLower(name)]
}
