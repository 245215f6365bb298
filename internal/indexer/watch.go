// watch.go — Re-index a project when its directory tree changes.
// Bursts of filesystem events are coalesced so a branch switch or an
// install produces one rebuild.
package indexer

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dev-console/pagectx/internal/coalesce"
)

// Watch indexes root once, then rebuilds and replaces the index for
// projectPath whenever the tree changes, until ctx is done. onIndexed, when
// non-nil, receives every rebuilt index.
func (s *Service) Watch(ctx context.Context, projectPath, alias, root string, window time.Duration, onIndexed func(ProjectFileIndex)) error {
	reindex := func() {
		paths, err := Walk(root)
		if err != nil {
			s.logger.Warn("re-index walk failed", "root", root, "error", err)
			return
		}
		idx, err := s.Index(ctx, projectPath, alias, paths)
		if err != nil {
			s.logger.Warn("re-index failed", "project", projectPath, "error", err)
			return
		}
		if onIndexed != nil {
			onIndexed(idx)
		}
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()
	if err := addTree(w, root); err != nil {
		return err
	}

	reindex()
	emitter := coalesce.NewEmitter(window, reindex)
	defer emitter.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() && !IsExcludedDir(filepath.Base(ev.Name)) {
					if err := addTree(w, ev.Name); err != nil {
						s.logger.Debug("watch new directory failed", "dir", ev.Name, "error", err)
					}
				}
			}
			if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) {
				continue
			}
			emitter.Trigger()
		case werr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("watcher error", "root", root, "error", werr)
		}
	}
}

// addTree registers dir and every non-excluded subdirectory with w.
func addTree(w *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != dir && IsExcludedDir(d.Name()) {
			return fs.SkipDir
		}
		if err := w.Add(p); err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
		return nil
	})
}
