// json.go — JSON output formatter.
package output

import (
	"encoding/json"
	"io"
)

// JSONFormatter produces machine-parseable JSON.
type JSONFormatter struct{}

// Format writes result as one indented JSON object. Data fields are merged
// into the top level; tabular rows become an array of header-keyed objects.
func (f *JSONFormatter) Format(w io.Writer, result *Result) error {
	out := map[string]any{
		"success": result.Success,
		"command": result.Command,
	}
	if result.Summary != "" {
		out["summary"] = result.Summary
	}
	if result.Error != "" {
		out["error"] = result.Error
	}
	if result.Text != "" {
		out["text"] = result.Text
	}
	if len(result.Rows) > 0 {
		rows := make([]map[string]string, 0, len(result.Rows))
		for _, row := range result.Rows {
			obj := make(map[string]string, len(result.Headers))
			for i, h := range result.Headers {
				if i < len(row) {
					obj[h] = row[i]
				}
			}
			rows = append(rows, obj)
		}
		out["rows"] = rows
	}
	for k, v := range result.Data {
		out[k] = v
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
