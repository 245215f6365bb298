// history.go — history: list or clear persisted network history.
package main

import (
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/dev-console/pagectx/cmd/pagectx/output"
	"github.com/dev-console/pagectx/internal/history"
	"github.com/dev-console/pagectx/internal/types"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List persisted network history, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := cmd.Context()

			if clear, _ := cmd.Flags().GetBool("clear"); clear {
				if err := a.history.Clear(ctx); err != nil {
					return err
				}
				return emit(cmd, &output.Result{Success: true, Command: "history", Summary: "cleared"})
			}

			events, err := a.history.Read(ctx)
			if err != nil {
				return err
			}
			after, _ := cmd.Flags().GetString("after")
			cursor, err := history.ParseCursor(after)
			if err != nil {
				return err
			}
			f := history.Filter{}
			f.Text, _ = cmd.Flags().GetString("filter")
			f.Method, _ = cmd.Flags().GetString("method")
			f.Status, _ = cmd.Flags().GetString("status")
			limit, _ := cmd.Flags().GetInt("limit")
			page, info := history.Page(f.Apply(events), cursor, limit)
			res := historyResult(page, len(events), time.Now())
			if info.HasMore {
				res.Data["next"] = info.Cursor
			}
			return emit(cmd, res)
		},
	}
	cmd.Flags().String("filter", "", "free text matched against URL, method and status")
	cmd.Flags().String("method", "", "HTTP method, or ALL")
	cmd.Flags().String("status", "", "ok, error, failed, 2xx..5xx or an exact code")
	cmd.Flags().Int("limit", 0, "maximum rows (0: all)")
	cmd.Flags().String("after", "", "continue after this cursor (printed as next)")
	cmd.Flags().Bool("clear", false, "delete the persisted history")
	return cmd
}

func historyResult(matched []types.NetworkEvent, total int, now time.Time) *output.Result {
	res := &output.Result{
		Success: true,
		Command: "history",
		Summary: humanize.Comma(int64(len(matched))) + " of " + humanize.Comma(int64(total)) + " requests",
		Headers: []string{"WHEN", "METHOD", "STATUS", "DURATION", "PATH"},
		Data:    map[string]any{"total": total, "matched": len(matched)},
	}
	for _, ev := range matched {
		status := strconv.Itoa(ev.Status)
		if ev.Error != "" {
			status = "ERR"
		}
		dur := "-"
		if ev.Duration != nil {
			dur = humanize.Ftoa(ev.DurationMS()) + "ms"
		}
		res.Rows = append(res.Rows, []string{
			humanize.RelTime(time.UnixMilli(ev.Timestamp), now, "ago", "from now"),
			ev.Method,
			status,
			dur,
			ev.Path,
		})
	}
	return res
}
