// serve.go — serve: run the capture bridge until interrupted.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dev-console/pagectx/internal/server"
	"github.com/dev-console/pagectx/internal/util"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local bridge the observed page posts captures to",
		Long: `Run the local HTTP bridge. The page posts network and console captures,
the UI side asks for context documents and follows broadcasts over SSE.
Network history is merged into the database on every networkDataUpdated.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runBridge(ctx, a, portFlag(cmd, a))
		},
	}
	cmd.Flags().Int("port", 0, "listen port (default: config port)")
	return cmd
}

func portFlag(cmd *cobra.Command, a *app) int {
	if p, _ := cmd.Flags().GetInt("port"); p > 0 {
		return p
	}
	return a.cfg.Port
}

// runBridge serves the bridge on localhost:port and keeps history in sync
// until ctx is done.
func runBridge(ctx context.Context, a *app, port int) error {
	session, b := a.newSession()
	defer session.Close()
	defer b.Close()
	eng := a.newEngine(b)

	util.SafeGo(a.logger, func() {
		if err := eng.Sync(ctx); err != nil {
			a.logger.Warn("history sync stopped", "error", err)
		}
	})

	srv := server.New(server.Options{
		Session: session,
		Bus:     b,
		Engine:  eng,
		Logger:  a.logger,
		Version: version,
	})
	return srv.ListenAndServe(ctx, fmt.Sprintf("127.0.0.1:%d", port))
}
