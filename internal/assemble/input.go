// input.go — Everything the assembler may draw on. Every field is optional.
package assemble

import (
	"github.com/dev-console/pagectx/internal/intent"
	"github.com/dev-console/pagectx/internal/resolver"
	"github.com/dev-console/pagectx/internal/types"
)

// Input is one assembly request.
type Input struct {
	Task string `json:"task,omitempty"`

	// Toggles selects sections. Nil means the auto preset for Task.
	Toggles intent.Toggles `json:"toggles,omitempty"`

	URL       string `json:"url,omitempty"`
	Title     string `json:"title,omitempty"`
	Route     string `json:"route,omitempty"`
	Selection string `json:"selection,omitempty"`

	Framework  *types.Framework      `json:"framework,omitempty"`
	Resolution *resolver.Resolution  `json:"resolution,omitempty"`
	Components ComponentTreeProvider `json:"-"`

	UIState       map[string]string          `json:"uiState,omitempty"`
	Errors        []types.ConsoleEvent       `json:"errors,omitempty"`
	Network       []types.NetworkEvent       `json:"network,omitempty"`
	Accessibility string                     `json:"accessibility,omitempty"`
	Viewport      *types.Viewport            `json:"viewport,omitempty"`
	Performance   *types.PerformanceSnapshot `json:"performance,omitempty"`
	DOM           string                     `json:"dom,omitempty"`
}
