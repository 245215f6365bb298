// toggles.go — Section toggles and named presets.
package intent

import (
	"fmt"
	"strings"
)

// Toggle names one optional section of the context document.
type Toggle string

const (
	ToggleFramework        Toggle = "framework"
	ToggleRoute            Toggle = "route"
	ToggleRouteParams      Toggle = "routeParams"
	ToggleSelection        Toggle = "selection"
	ToggleRelatedFiles     Toggle = "relatedFiles"
	ToggleLayoutChain      Toggle = "layoutChain"
	ToggleComponentSummary Toggle = "componentSummary"
	ToggleUIState          Toggle = "uiState"
	ToggleStructuredErrors Toggle = "structuredErrors"
	ToggleErrors           Toggle = "errors"
	ToggleDataFetching     Toggle = "dataFetching"
	ToggleFailedRequests   Toggle = "failedRequests"
	ToggleResponseShapes   Toggle = "responseShapes"
	ToggleAccessibility    Toggle = "accessibilityTree"
	ToggleViewport         Toggle = "viewport"
	TogglePerformance      Toggle = "performance"
	ToggleDOMSnapshot      Toggle = "domSnapshot"
)

// AllToggles lists every toggle in document order.
var AllToggles = []Toggle{
	ToggleFramework, ToggleRoute, ToggleRouteParams, ToggleSelection,
	ToggleRelatedFiles, ToggleLayoutChain, ToggleComponentSummary, ToggleUIState,
	ToggleStructuredErrors, ToggleErrors, ToggleDataFetching, ToggleFailedRequests,
	ToggleResponseShapes, ToggleAccessibility, ToggleViewport, TogglePerformance,
	ToggleDOMSnapshot,
}

// Toggles is a toggle state. Missing keys are off.
type Toggles map[Toggle]bool

// On reports whether t is enabled.
func (ts Toggles) On(t Toggle) bool { return ts[t] }

// Enabled lists the enabled toggles in document order.
func (ts Toggles) Enabled() []Toggle {
	var out []Toggle
	for _, t := range AllToggles {
		if ts[t] {
			out = append(out, t)
		}
	}
	return out
}

// Clone returns a copy of ts.
func (ts Toggles) Clone() Toggles {
	out := make(Toggles, len(ts))
	for k, v := range ts {
		out[k] = v
	}
	return out
}

// Apply overwrites every toggle present in preset, leaving others as they
// are, and returns the result as a new state.
func (ts Toggles) Apply(preset Toggles) Toggles {
	out := ts.Clone()
	for k, v := range preset {
		out[k] = v
	}
	return out
}

// only builds a complete toggle state with exactly on enabled.
func only(on ...Toggle) Toggles {
	ts := make(Toggles, len(AllToggles))
	for _, t := range AllToggles {
		ts[t] = false
	}
	for _, t := range on {
		ts[t] = true
	}
	return ts
}

// Preset names a complete toggle configuration.
type Preset string

const (
	PresetAuto    Preset = "auto"
	PresetBug     Preset = "bug"
	PresetUI      Preset = "ui"
	PresetFull    Preset = "full"
	PresetMinimal Preset = "minimal"
)

// Presets lists the presets in display order.
var Presets = []Preset{PresetAuto, PresetBug, PresetUI, PresetFull, PresetMinimal}

// ParsePreset maps a case-insensitive name to a preset.
func ParsePreset(name string) (Preset, error) {
	p := Preset(strings.ToLower(strings.TrimSpace(name)))
	if p == "" {
		return PresetAuto, nil
	}
	for _, known := range Presets {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown preset %q (want auto, bug, ui, full or minimal)", name)
}

// AutoBase is always on under the auto preset.
var AutoBase = []Toggle{ToggleFramework, ToggleRoute, ToggleRouteParams, ToggleSelection, ToggleErrors, ToggleFailedRequests}

// PresetToggles returns the static toggle state of p. The auto preset
// returns only its base set; use AutoToggles for the live value.
func PresetToggles(p Preset) Toggles {
	switch p {
	case PresetBug:
		return only(ToggleFramework, ToggleRoute, ToggleRouteParams, ToggleSelection,
			ToggleRelatedFiles, ToggleComponentSummary, ToggleUIState,
			ToggleStructuredErrors, ToggleErrors, ToggleDataFetching, ToggleFailedRequests,
			ToggleResponseShapes)
	case PresetUI:
		return only(ToggleFramework, ToggleRoute, ToggleSelection, ToggleRelatedFiles,
			ToggleLayoutChain, ToggleComponentSummary, ToggleUIState, ToggleAccessibility,
			ToggleViewport, ToggleDOMSnapshot)
	case PresetFull:
		return only(AllToggles...)
	case PresetMinimal:
		return only(ToggleRoute, ToggleSelection, ToggleErrors)
	default:
		return only(AutoBase...)
	}
}

// AutoToggles unions the auto base set with the toggles of the intent that
// best matches text.
func AutoToggles(text string) (Toggles, Result) {
	ts := PresetToggles(PresetAuto)
	res := Detect(text)
	for _, t := range res.Toggles {
		ts[t] = true
	}
	return ts, res
}
