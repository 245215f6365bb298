// fetch.go — fetch: send one request through the capture transport and
// merge the observed cycle into history.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/dev-console/pagectx/cmd/pagectx/output"
	"github.com/dev-console/pagectx/internal/capture"
)

// fetchBodyLimit caps captured request and response bodies.
const fetchBodyLimit = 64 << 10

func fetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch <url>",
		Short: "Request a URL and record the exchange in network history",
		Long: `Send one HTTP request through the capture transport. The exchange is
redacted, recorded like a page request and merged into persisted history,
so API calls made outside the browser show up in context documents.

Examples:
  pagectx fetch http://localhost:3000/api/orders
  pagectx fetch -X POST -d '{"id":7}' -H 'Content-Type: application/json' http://localhost:3000/api/orders`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			session := capture.NewSession(capture.Options{
				ErrorCapacity:   a.cfg.Capacity.Errors,
				NetworkCapacity: a.cfg.Capacity.Network,
				Logger:          a.logger,
			})
			defer session.Close()
			// Errors logged while fetching land in the session like console errors.
			logger := slog.New(capture.NewConsoleHook(a.logger.Handler(), session))

			method, _ := cmd.Flags().GetString("method")
			data, _ := cmd.Flags().GetString("data")
			headers, _ := cmd.Flags().GetStringArray("header")
			timeout, _ := cmd.Flags().GetDuration("timeout")

			var body io.Reader
			if data != "" {
				body = strings.NewReader(data)
			}
			req, err := http.NewRequestWithContext(cmd.Context(), strings.ToUpper(method), args[0], body)
			if err != nil {
				return err
			}
			for _, h := range headers {
				k, v, ok := strings.Cut(h, ":")
				if !ok {
					return fmt.Errorf("invalid header %q, want 'Name: value'", h)
				}
				req.Header.Add(strings.TrimSpace(k), strings.TrimSpace(v))
			}

			client := &http.Client{
				Timeout:   timeout,
				Transport: &capture.Transport{Session: session, Redactor: a.redactor, MaxBodyBytes: fetchBodyLimit},
			}
			resp, doErr := client.Do(req)
			if doErr == nil {
				_, _ = io.Copy(io.Discard, resp.Body)
				_ = resp.Body.Close()
			} else {
				logger.Error("fetch failed", "url", args[0], "error", doErr)
			}

			recorded := session.Network()
			if _, err := a.history.Merge(cmd.Context(), recorded); err != nil {
				return err
			}
			if doErr != nil {
				return emit(cmd, &output.Result{Command: "fetch", Error: doErr.Error(), Data: map[string]any{"errors": len(session.Errors())}})
			}
			res := &output.Result{
				Success: true,
				Command: "fetch",
				Summary: fmt.Sprintf("%s %s -> %s", req.Method, args[0], resp.Status),
				Data:    map[string]any{"status": resp.StatusCode, "recorded": len(recorded)},
			}
			if len(recorded) > 0 && recorded[0].Duration != nil {
				res.Data["duration"] = humanize.Ftoa(recorded[0].DurationMS()) + "ms"
			}
			if resp.ContentLength >= 0 {
				res.Data["size"] = humanize.Bytes(uint64(resp.ContentLength))
			}
			res.Data["status_text"] = strconv.Itoa(resp.StatusCode) + " " + http.StatusText(resp.StatusCode)
			return emit(cmd, res)
		},
	}
	cmd.Flags().StringP("method", "X", http.MethodGet, "HTTP method")
	cmd.Flags().StringP("data", "d", "", "request body")
	cmd.Flags().StringArrayP("header", "H", nil, "request header 'Name: value' (repeatable)")
	cmd.Flags().Duration("timeout", 30*time.Second, "request timeout")
	return cmd
}
