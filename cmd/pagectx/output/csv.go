// csv.go — CSV output formatter for piping tabular results.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
)

// CSVFormatter produces CSV output.
type CSVFormatter struct{}

// Format writes tabular results as header plus rows. Non-tabular results
// become a single row of success, command, error and sorted data keys.
func (f *CSVFormatter) Format(w io.Writer, result *Result) error {
	cw := csv.NewWriter(w)
	if len(result.Rows) > 0 {
		if err := cw.Write(result.Headers); err != nil {
			return fmt.Errorf("write CSV header: %w", err)
		}
		if err := cw.WriteAll(result.Rows); err != nil {
			return fmt.Errorf("write CSV rows: %w", err)
		}
		return nil
	}

	keys := make([]string, 0, len(result.Data))
	for k := range result.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	header := append([]string{"success", "command", "error"}, keys...)
	row := []string{fmt.Sprintf("%t", result.Success), result.Command, result.Error}
	for _, k := range keys {
		row = append(row, fmt.Sprintf("%v", result.Data[k]))
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}
	if err := cw.Write(row); err != nil {
		return fmt.Errorf("write CSV row: %w", err)
	}
	cw.Flush()
	return cw.Error()
}
