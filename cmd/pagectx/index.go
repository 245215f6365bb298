// index.go — index and projects: build, watch and list project file indexes.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/dev-console/pagectx/cmd/pagectx/output"
	"github.com/dev-console/pagectx/internal/indexer"
)

func indexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index <dir>",
		Short: "Index a project directory for route resolution",
		Long: `Walk a project directory and store its file index. Dependency, build and
cache directories are skipped; only files with an allowed extension are kept.

Examples:
  pagectx index ./web
  pagectx index ./web --alias web --map-url http://localhost:3000
  pagectx index ./web --watch`,
		Args: cobra.ExactArgs(1),
		RunE: runIndex,
	}
	cmd.Flags().String("project", "", "project key (default: absolute path of <dir>)")
	cmd.Flags().String("alias", "", "folder alias; strips a common root folder when set")
	cmd.Flags().String("map-url", "", "map this page origin to the project")
	cmd.Flags().String("editor", "", "editor recorded with --map-url")
	cmd.Flags().StringSlice("extensions", nil, "replace the persisted extension allow-list")
	cmd.Flags().Bool("watch", false, "keep re-indexing while the directory changes")
	return cmd
}

func runIndex(cmd *cobra.Command, args []string) error {
	root, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("path not found: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", root)
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	ctx := cmd.Context()

	project, _ := cmd.Flags().GetString("project")
	if project == "" {
		project = root
	}
	alias, _ := cmd.Flags().GetString("alias")
	if alias == "" {
		// Walked paths are root-relative; naming the alias after the root
		// keeps a single shared folder from being stripped.
		alias = filepath.Base(root)
	}

	if exts, _ := cmd.Flags().GetStringSlice("extensions"); len(exts) > 0 {
		if err := a.index.SetPreferences(ctx, indexer.Preferences{Extensions: exts}); err != nil {
			return err
		}
	}
	if mapURL, _ := cmd.Flags().GetString("map-url"); mapURL != "" {
		editor, _ := cmd.Flags().GetString("editor")
		m := indexer.ProjectMapping{Name: filepath.Base(root), Path: project, Editor: editor}
		if err := a.index.SetMapping(ctx, mapURL, m); err != nil {
			return err
		}
	}

	if watch, _ := cmd.Flags().GetBool("watch"); watch {
		wctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		window := time.Duration(a.cfg.DebounceMS) * time.Millisecond
		return a.index.Watch(wctx, project, alias, root, window, func(idx indexer.ProjectFileIndex) {
			_ = emit(cmd, indexResult(project, idx))
		})
	}

	paths, err := indexer.Walk(root)
	if err != nil {
		return err
	}
	idx, err := a.index.Index(ctx, project, alias, paths)
	if err != nil {
		return err
	}
	return emit(cmd, indexResult(project, idx))
}

func indexResult(project string, idx indexer.ProjectFileIndex) *output.Result {
	return &output.Result{
		Success: true,
		Command: "index",
		Summary: fmt.Sprintf("%s files in %s folders", humanize.Comma(int64(len(idx.Files))), humanize.Comma(int64(len(idx.Folders)))),
		Data: map[string]any{
			"project": project,
			"files":   len(idx.Files),
			"folders": len(idx.Folders),
		},
	}
}

func projectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List indexed projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := cmd.Context()

			if remove, _ := cmd.Flags().GetString("remove"); remove != "" {
				if err := a.index.Remove(ctx, remove); err != nil {
					return err
				}
				return emit(cmd, &output.Result{Success: true, Command: "projects", Summary: "removed " + remove})
			}

			projects, err := a.index.Projects(ctx)
			if err != nil {
				return err
			}
			res := &output.Result{
				Success: true,
				Command: "projects",
				Summary: humanize.Comma(int64(len(projects))) + " indexed",
				Headers: []string{"PROJECT", "FILES", "INDEXED"},
			}
			for _, p := range projects {
				idx, _, err := a.index.Load(ctx, p, false)
				if err != nil {
					return err
				}
				res.Rows = append(res.Rows, []string{p, humanize.Comma(int64(len(idx.Files))), humanize.Time(idx.UpdatedAt)})
			}
			return emit(cmd, res)
		},
	}
	cmd.Flags().String("remove", "", "delete the index of this project")
	return cmd
}
