// mcp.go — mcp: serve the MCP tools over stdio with the bridge alongside.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/dev-console/pagectx/internal/mcptool"
	"github.com/dev-console/pagectx/internal/server"
	"github.com/dev-console/pagectx/internal/util"
)

func mcpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve page_context and friends to an MCP client over stdio",
		Long: `Serve the MCP tools over stdin/stdout. Unless --no-bridge is given the
capture bridge also listens on localhost so the page can attach; without it
every tool answers from persisted history and the project index.
Stdout carries protocol frames only; diagnostics go to the log file and stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			noBridge, _ := cmd.Flags().GetBool("no-bridge")
			if noBridge {
				s := mcptool.New(a.newEngine(nil), version)
				return serveStdio(ctx, s)
			}

			session, b := a.newSession()
			defer session.Close()
			defer b.Close()
			eng := a.newEngine(b)
			util.SafeGo(a.logger, func() { _ = eng.Sync(ctx) })
			srv := server.New(server.Options{Session: session, Bus: b, Engine: eng, Logger: a.logger, Version: version})
			addr := "127.0.0.1:" + strconv.Itoa(portFlag(cmd, a))
			util.SafeGo(a.logger, func() {
				// A second instance finds the port taken; tools still answer
				// from history.
				if err := srv.ListenAndServe(ctx, addr); err != nil {
					a.logger.Warn("bridge unavailable", "addr", addr, "error", err)
				}
			})
			return serveStdio(ctx, mcptool.New(eng, version))
		},
	}
	cmd.Flags().Int("port", 0, "bridge port (default: config port)")
	cmd.Flags().Bool("no-bridge", false, "do not start the capture bridge")
	return cmd
}

func serveStdio(ctx context.Context, s *mcpserver.MCPServer) error {
	errLog := log.New(os.Stderr, "[pagectx] ", log.LstdFlags)
	err := mcptool.Serve(ctx, s, os.Stdin, os.Stdout, errLog)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
