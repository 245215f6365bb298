// resolve.go — resolve: map a route to its page file and layout chain.
package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dev-console/pagectx/cmd/pagectx/output"
)

func resolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <route>",
		Short: "Resolve a route against a project index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			project, _ := cmd.Flags().GetString("project")
			pageURL, _ := cmd.Flags().GetString("url")
			res, ok, err := a.newEngine(nil).Resolve(cmd.Context(), args[0], project, pageURL)
			if err != nil {
				return err
			}
			if !ok {
				return emit(cmd, &output.Result{Command: "resolve", Error: "no project index; run 'pagectx index <dir>' first"})
			}
			if res.Page == "" {
				return emit(cmd, &output.Result{Command: "resolve", Error: "no file matches " + res.Route})
			}

			how := "fuzzy"
			if res.Direct {
				how = "direct"
			}
			out := &output.Result{
				Success: true,
				Command: "resolve",
				Summary: res.Route + " -> " + res.Page + " (" + how + ")",
				Data:    map[string]any{"resolution": res},
				Headers: []string{"ROLE", "FILE"},
			}
			for _, e := range res.Chain {
				if e.File != res.Page {
					out.Rows = append(out.Rows, []string{e.Label, e.File})
				}
			}
			out.Rows = append(out.Rows, []string{"page", res.Page})
			for _, p := range res.Params {
				out.Rows = append(out.Rows, []string{"param", p.Name + "=" + p.Value})
			}
			for _, m := range res.Related {
				out.Rows = append(out.Rows, []string{"related", m.File + " (" + strconv.Itoa(m.Score) + ")"})
			}
			return emit(cmd, out)
		},
	}
	cmd.Flags().String("project", "", "project key (default: mapping for --url, then last indexed)")
	cmd.Flags().String("url", "", "page URL used to pick the project mapping")
	return cmd
}
