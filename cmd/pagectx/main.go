// main.go — Entry point for the pagectx CLI.
//
// Usage: pagectx <command> [flags]
//
// Commands:
//
//	serve     run the capture bridge the page talks to
//	mcp       serve the MCP tools over stdio (bridge included)
//	index     index a project directory, optionally watching it
//	projects  list or remove indexed projects
//	resolve   map a route to its page file and layout chain
//	context   assemble a context document from persisted history
//	history   list persisted network history
//	fetch     send a request through the capture transport into history
//
// Exit codes: 0 success, 1 failure.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dev-console/pagectx/cmd/pagectx/output"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errSilent) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "pagectx",
		Short:         "pagectx - page context for coding assistants",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "config file (default: config.yaml|toml in the state directory)")
	root.PersistentFlags().String("format", "human", "output format: human, json or csv")

	root.AddCommand(
		serveCmd(),
		mcpCmd(),
		indexCmd(),
		projectsCmd(),
		resolveCmd(),
		contextCmd(),
		historyCmd(),
		fetchCmd(),
	)
	return root
}

// emit writes result in the format selected by --format. A failed result
// is also returned as an error so the exit code reflects it.
func emit(cmd *cobra.Command, result *output.Result) error {
	format, _ := cmd.Flags().GetString("format")
	if err := output.GetFormatter(format).Format(cmd.OutOrStdout(), result); err != nil {
		return err
	}
	if !result.Success {
		return errSilent
	}
	return nil
}

// errSilent marks a failure that emit already reported.
var errSilent = silentError{}

type silentError struct{}

func (silentError) Error() string { return "" }
