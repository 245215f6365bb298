// document.go — Ordered assembly of the context document.
package assemble

import (
	"log/slog"
	"strings"
	"time"

	"github.com/dev-console/pagectx/internal/intent"
	"github.com/dev-console/pagectx/internal/redaction"
	"github.com/dev-console/pagectx/internal/util"
)

// Section names in document order.
const (
	SectionTask             = "task"
	SectionFramework        = "framework"
	SectionRoute            = "route"
	SectionRouteParams      = "routeParams"
	SectionSelection        = "selection"
	SectionRelatedFiles     = "relatedFiles"
	SectionLayoutChain      = "layoutChain"
	SectionComponentSummary = "componentSummary"
	SectionUIState          = "uiState"
	SectionErrors           = "errors"
	SectionDataFetching     = "dataFetching"
	SectionResponseShapes   = "responseShapes"
	SectionAccessibility    = "accessibilityTree"
	SectionViewport         = "viewport"
	SectionPerformance      = "performance"
	SectionDOMSnapshot      = "domSnapshot"
)

// Order lists every section in the order it appears.
var Order = []string{
	SectionTask, SectionFramework, SectionRoute, SectionRouteParams, SectionSelection,
	SectionRelatedFiles, SectionLayoutChain, SectionComponentSummary, SectionUIState,
	SectionErrors, SectionDataFetching, SectionResponseShapes, SectionAccessibility,
	SectionViewport, SectionPerformance, SectionDOMSnapshot,
}

// Section is one rendered block of the document.
type Section struct {
	Name   string `json:"name"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	Tokens int    `json:"tokens"`
}

// Document is the assembled output.
type Document struct {
	Sections []Section `json:"sections"`
	Text     string    `json:"text"`
	Tokens   int       `json:"tokens"`
}

// Has reports whether the document contains the named section.
func (d Document) Has(name string) bool {
	for _, s := range d.Sections {
		if s.Name == name {
			return true
		}
	}
	return false
}

// Options configures an Assembler.
type Options struct {
	// Redactor scrubs every section body. Nil uses redaction.Default().
	Redactor *redaction.Redactor
	Logger   *slog.Logger
	Now      func() time.Time
}

// Assembler renders Inputs into Documents. It holds no per-request state.
type Assembler struct {
	redactor *redaction.Redactor
	logger   *slog.Logger
	now      func() time.Time
}

// New creates an Assembler.
func New(opts Options) *Assembler {
	a := &Assembler{redactor: opts.Redactor, logger: opts.Logger, now: opts.Now}
	if a.redactor == nil {
		a.redactor = redaction.Default()
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	if a.now == nil {
		a.now = time.Now
	}
	return a
}

// Assemble builds the document for in. Absent inputs only shorten it.
func (a *Assembler) Assemble(in Input) Document {
	ts := in.Toggles
	if ts == nil {
		ts, _ = intent.AutoToggles(in.Task)
	}
	route := in.Route
	if route == "" && in.URL != "" {
		route = util.ExtractURLPath(in.URL)
	}
	if route == "" && in.Resolution != nil {
		route = in.Resolution.Route
	}
	components := in.Components
	if components == nil {
		components = NullComponents{}
	}

	var doc Document
	add := func(name, title, body string) {
		body = strings.TrimSpace(a.redactor.Redact(body))
		if body == "" {
			return
		}
		doc.Sections = append(doc.Sections, Section{Name: name, Title: title, Body: body, Tokens: EstimateTokens(body)})
	}

	add(SectionTask, "Task", in.Task)
	if ts.On(intent.ToggleFramework) {
		add(SectionFramework, "Framework", frameworkSection(in.Framework, in.Resolution))
	}
	if ts.On(intent.ToggleRoute) {
		add(SectionRoute, "Route", routeSection(route, in.URL, in.Title, in.Resolution))
	}
	if ts.On(intent.ToggleRouteParams) {
		add(SectionRouteParams, "Route params", routeParamsSection(in.Resolution))
	}
	if ts.On(intent.ToggleSelection) {
		add(SectionSelection, "Selection", selectionSection(in.Selection))
	}
	if ts.On(intent.ToggleRelatedFiles) {
		add(SectionRelatedFiles, "Related files", relatedFilesSection(in.Resolution))
	}
	if ts.On(intent.ToggleLayoutChain) {
		add(SectionLayoutChain, "Layout chain", layoutChainSection(in.Resolution))
	}
	if ts.On(intent.ToggleComponentSummary) {
		add(SectionComponentSummary, "Components", componentSection(components))
	}
	if ts.On(intent.ToggleUIState) {
		add(SectionUIState, "UI state", uiStateSection(in.UIState))
	}
	switch {
	case ts.On(intent.ToggleStructuredErrors):
		add(SectionErrors, "Errors", structuredErrors(in.Errors, a.now()))
	case ts.On(intent.ToggleErrors):
		add(SectionErrors, "Errors", simpleErrors(in.Errors))
	}
	switch {
	case ts.On(intent.ToggleDataFetching):
		add(SectionDataFetching, "Data fetching", dataFetchingSummary(in.Network))
	case ts.On(intent.ToggleFailedRequests):
		add(SectionDataFetching, "Failed requests", failedRequests(in.Network))
	}
	if ts.On(intent.ToggleResponseShapes) {
		add(SectionResponseShapes, "API response shapes", responseShapes(in.Network))
	}
	if ts.On(intent.ToggleAccessibility) {
		add(SectionAccessibility, "Accessibility tree", accessibilitySection(in.Accessibility))
	}
	if ts.On(intent.ToggleViewport) {
		add(SectionViewport, "Viewport", viewportSection(in.Viewport))
	}
	if ts.On(intent.TogglePerformance) {
		add(SectionPerformance, "Performance hints", performanceSection(in.Performance, in.Network))
	}
	if ts.On(intent.ToggleDOMSnapshot) {
		add(SectionDOMSnapshot, "DOM snapshot", domSection(in.DOM))
	}

	doc.Text = Render(doc.Sections)
	doc.Tokens = EstimateTokens(doc.Text)
	a.logger.Debug("context assembled", "sections", len(doc.Sections), "tokens", doc.Tokens)
	return doc
}

// Render joins sections as markdown.
func Render(sections []Section) string {
	var b strings.Builder
	b.WriteString("# Page context\n")
	for _, s := range sections {
		b.WriteString("\n## ")
		b.WriteString(s.Title)
		b.WriteString("\n\n")
		b.WriteString(s.Body)
		b.WriteByte('\n')
	}
	return b.String()
}
