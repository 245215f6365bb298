// detect.go — Free-text intent classification.
package intent

import (
	"regexp"
	"strings"
)

// Definition is one row of the intent table.
type Definition struct {
	Name     string
	Patterns []*regexp.Regexp
	Toggles  []Toggle
}

// Table is the ordered intent table. Earlier rows win ties.
var Table = []Definition{
	{
		Name: "bug",
		Patterns: compile(
			`\b(bug|broken|crash(es|ed|ing)?|exception|error|fails?|failed|failing)\b`,
			`\b(not working|doesn'?t work|isn'?t working|stopped working)\b`,
			`\b(fix|debug|stack ?trace|regression)\b`,
			`\b(undefined|null|nan|cannot read)\b`,
			`\b(wrong|unexpected|issue)\b`,
		),
		Toggles: []Toggle{ToggleStructuredErrors, ToggleDataFetching, ToggleComponentSummary, ToggleUIState, ToggleResponseShapes, ToggleRelatedFiles},
	},
	{
		Name: "api",
		Patterns: compile(
			`\b(api|endpoint|request|response|fetch|graphql|payload|json)\b`,
			`\b(4\d\d|5\d\d|status code|cors|timeout)\b`,
			`\b(get|post|put|patch|delete) (request|call)\b`,
			`\b(server|backend|query|mutation)\b`,
		),
		Toggles: []Toggle{ToggleDataFetching, ToggleResponseShapes, TogglePerformance},
	},
	{
		Name: "ui",
		Patterns: compile(
			`\b(css|style|styles|styling|align(ed|ment)?|margin|padding|spacing|color|colou?rs?|font)\b`,
			`\b(button|modal|dialog|component|design|ui|ux|looks?|layout)\b`,
			`\b(mobile|desktop|responsive|viewport|screen size|breakpoint)\b`,
			`\b(animation|hover|overflow|scroll(ing)?|dark mode)\b`,
		),
		Toggles: []Toggle{ToggleComponentSummary, ToggleUIState, ToggleLayoutChain, ToggleViewport, ToggleDOMSnapshot, ToggleRelatedFiles},
	},
	{
		Name: "accessibility",
		Patterns: compile(
			`\b(a11y|accessib(le|ility)|aria|wcag)\b`,
			`\b(screen ?reader|keyboard|tab order|focus)\b`,
			`\b(contrast|alt text|label(s|led)?)\b`,
		),
		Toggles: []Toggle{ToggleAccessibility, ToggleDOMSnapshot, ToggleComponentSummary},
	},
	{
		Name: "performance",
		Patterns: compile(
			`\b(perf|performance|slow|slowly|laggy|lag|jank|sluggish)\b`,
			`\b(re-?renders?|rendering|memory|leak|bundle size)\b`,
			`\b(lcp|fcp|cls|ttfb|inp|web vitals|load time)\b`,
		),
		Toggles: []Toggle{TogglePerformance, ToggleDataFetching, ToggleViewport},
	},
	{
		Name: "feature",
		Patterns: compile(
			`\b(add|implement|create|build|introduce)\b`,
			`\b(new (page|feature|route|section)|refactor|rename|move)\b`,
			`\b(where is|which file|find the)\b`,
		),
		Toggles: []Toggle{ToggleRelatedFiles, ToggleLayoutChain, ToggleComponentSummary},
	},
}

func compile(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}

// Result is the outcome of Detect. Name is empty when nothing matched.
type Result struct {
	Name    string   `json:"name,omitempty"`
	Score   int      `json:"score"`
	Toggles []Toggle `json:"toggles,omitempty"`
}

// Matched reports whether an intent was found.
func (r Result) Matched() bool { return r.Name != "" }

// Detect scores text against Table. Each pattern counts once when present.
// The strictly highest score wins; ties keep the earlier definition.
func Detect(text string) Result {
	return DetectWith(Table, text)
}

// DetectWith is Detect over a caller-supplied table.
func DetectWith(table []Definition, text string) Result {
	lower := strings.ToLower(text)
	var best Result
	if strings.TrimSpace(lower) == "" {
		return best
	}
	for _, def := range table {
		score := 0
		for _, re := range def.Patterns {
			if re.MatchString(lower) {
				score++
			}
		}
		if score > best.Score {
			best = Result{Name: def.Name, Score: score, Toggles: def.Toggles}
		}
	}
	return best
}
