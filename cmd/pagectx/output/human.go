// human.go — Human-readable output formatter.
package output

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
)

// HumanFormatter produces terminal output.
type HumanFormatter struct{}

// Format writes a human-readable representation of result.
func (h *HumanFormatter) Format(w io.Writer, result *Result) error {
	var sb strings.Builder

	if !result.Success {
		fmt.Fprintf(&sb, "[Error] %s failed\n", result.Command)
		if result.Error != "" {
			fmt.Fprintf(&sb, "   Error: %s\n", result.Error)
		}
	} else if result.Summary != "" {
		fmt.Fprintf(&sb, "[OK] %s: %s\n", result.Command, result.Summary)
	}

	if result.Text != "" {
		sb.WriteString("\n")
		sb.WriteString(result.Text)
		if !strings.HasSuffix(result.Text, "\n") {
			sb.WriteString("\n")
		}
	}

	if len(result.Rows) > 0 {
		sb.WriteString("\n")
		tw := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, strings.Join(result.Headers, "\t"))
		for _, row := range result.Rows {
			fmt.Fprintln(tw, strings.Join(row, "\t"))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if result.Data != nil && result.Text == "" && len(result.Rows) == 0 {
		keys := make([]string, 0, len(result.Data))
		for k := range result.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&sb, "   %s: %v\n", k, result.Data[k])
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
