// types.go — Shared types for CLI output formatting.
package output

import "io"

// Result is the outcome of one command.
type Result struct {
	Success bool           `json:"success"`
	Command string         `json:"command"`
	Summary string         `json:"summary,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
	// Headers and Rows carry tabular results (history, projects).
	Headers []string   `json:"-"`
	Rows    [][]string `json:"-"`
	// Text is preformatted output such as a rendered document.
	Text string `json:"-"`
}

// Formatter writes a Result.
type Formatter interface {
	Format(w io.Writer, result *Result) error
}

// GetFormatter returns the formatter for format. Unknown formats are human.
func GetFormatter(format string) Formatter {
	switch format {
	case "json":
		return &JSONFormatter{}
	case "csv":
		return &CSVFormatter{}
	default:
		return &HumanFormatter{}
	}
}
