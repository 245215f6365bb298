// service.go — Persistence of project indexes, preferences and mappings.
package indexer

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dev-console/pagectx/internal/kvstore"
)

// Preferences is the persisted indexPreferences value.
type Preferences struct {
	Extensions []string `json:"extensions"`
}

// ProjectMapping links a page origin to a project on disk.
type ProjectMapping struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	Editor string `json:"editor,omitempty"`
}

// Service builds indexes and persists them in a kvstore.Store.
// Each write replaces the stored value whole.
type Service struct {
	mu     sync.Mutex
	kv     kvstore.Store
	logger *slog.Logger
	now    func() time.Time

	defaultExtensions []string
}

// NewService creates an index service. defaultExtensions applies when no
// preferences are persisted; nil selects DefaultExtensions.
func NewService(kv kvstore.Store, defaultExtensions []string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		kv:                kv,
		logger:            logger,
		now:               time.Now,
		defaultExtensions: NormalizeExtensions(defaultExtensions),
	}
}

// Preferences returns the persisted preferences or the defaults.
func (s *Service) Preferences(ctx context.Context) (Preferences, error) {
	var p Preferences
	found, err := kvstore.Get(ctx, s.kv, kvstore.KeyIndexPreferences, &p)
	if err != nil {
		return Preferences{}, err
	}
	if !found || len(p.Extensions) == 0 {
		return Preferences{Extensions: append([]string(nil), s.defaultExtensions...)}, nil
	}
	p.Extensions = NormalizeExtensions(p.Extensions)
	return p, nil
}

// SetPreferences persists normalized preferences.
func (s *Service) SetPreferences(ctx context.Context, p Preferences) error {
	p.Extensions = NormalizeExtensions(p.Extensions)
	return kvstore.Put(ctx, s.kv, kvstore.KeyIndexPreferences, p)
}

// Index builds an index from paths and stores it under projectPath
// (replacing any previous one) and in the last-picked slot.
func (s *Service) Index(ctx context.Context, projectPath, alias string, paths []string) (ProjectFileIndex, error) {
	prefs, err := s.Preferences(ctx)
	if err != nil {
		return ProjectFileIndex{}, err
	}
	idx := Build(paths, alias, prefs.Extensions, s.now())
	idx.SourcePath = projectPath
	if err := s.Save(ctx, projectPath, idx); err != nil {
		return ProjectFileIndex{}, err
	}
	s.logger.Info("project indexed", "project", projectPath, "alias", alias, "files", len(idx.Files), "folders", len(idx.Folders))
	return idx, nil
}

// Save stores idx under projectPath and in the last-picked slot.
// An empty projectPath only updates the last-picked slot.
func (s *Service) Save(ctx context.Context, projectPath string, idx ProjectFileIndex) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if projectPath != "" {
		all, err := s.loadAllLocked(ctx)
		if err != nil {
			return err
		}
		all[projectPath] = idx
		if err := kvstore.Put(ctx, s.kv, kvstore.KeyProjectFileIndexes, all); err != nil {
			return fmt.Errorf("save index for %s: %w", projectPath, err)
		}
	}
	if err := kvstore.Put(ctx, s.kv, kvstore.KeyLastPickedProjectIndex, idx); err != nil {
		return fmt.Errorf("save last picked index: %w", err)
	}
	return nil
}

// Load returns the index for projectPath. An empty projectPath, or a project
// without an index, falls back to the last-picked index when fallback is set.
func (s *Service) Load(ctx context.Context, projectPath string, fallback bool) (ProjectFileIndex, bool, error) {
	if projectPath != "" {
		s.mu.Lock()
		all, err := s.loadAllLocked(ctx)
		s.mu.Unlock()
		if err != nil {
			return ProjectFileIndex{}, false, err
		}
		if idx, ok := all[projectPath]; ok {
			return idx, true, nil
		}
		if !fallback {
			return ProjectFileIndex{}, false, nil
		}
	}
	return s.LastPicked(ctx)
}

// LastPicked returns the most recently built index.
func (s *Service) LastPicked(ctx context.Context) (ProjectFileIndex, bool, error) {
	var idx ProjectFileIndex
	found, err := kvstore.Get(ctx, s.kv, kvstore.KeyLastPickedProjectIndex, &idx)
	if err != nil || !found {
		return ProjectFileIndex{}, false, err
	}
	return idx, true, nil
}

// Projects lists the project paths that have an index, sorted.
func (s *Service) Projects(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all, err := s.loadAllLocked(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(all))
	for p := range all {
		out = append(out, p)
	}
	sort.Strings(out)
	return out, nil
}

// Remove deletes the index for projectPath.
func (s *Service) Remove(ctx context.Context, projectPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	all, err := s.loadAllLocked(ctx)
	if err != nil {
		return err
	}
	delete(all, projectPath)
	return kvstore.Put(ctx, s.kv, kvstore.KeyProjectFileIndexes, all)
}

func (s *Service) loadAllLocked(ctx context.Context) (map[string]ProjectFileIndex, error) {
	all := map[string]ProjectFileIndex{}
	if _, err := kvstore.Get(ctx, s.kv, kvstore.KeyProjectFileIndexes, &all); err != nil {
		return nil, err
	}
	if all == nil {
		all = map[string]ProjectFileIndex{}
	}
	return all, nil
}

// ============================================
// Project mappings
// ============================================

// RouteKey returns the mapping key for a page URL: its origin, or the raw
// value when it has no scheme and host.
func RouteKey(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return strings.TrimSpace(pageURL)
	}
	return strings.ToLower(u.Scheme + "://" + u.Host)
}

// Mapping returns the project mapped to pageURL's route key.
func (s *Service) Mapping(ctx context.Context, pageURL string) (ProjectMapping, bool, error) {
	var all map[string]ProjectMapping
	if _, err := kvstore.Get(ctx, s.kv, kvstore.KeyProjectMappings, &all); err != nil {
		return ProjectMapping{}, false, err
	}
	m, ok := all[RouteKey(pageURL)]
	return m, ok, nil
}

// SetMapping stores m for pageURL's route key.
func (s *Service) SetMapping(ctx context.Context, pageURL string, m ProjectMapping) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := map[string]ProjectMapping{}
	if _, err := kvstore.Get(ctx, s.kv, kvstore.KeyProjectMappings, &all); err != nil {
		return err
	}
	if all == nil {
		all = map[string]ProjectMapping{}
	}
	all[RouteKey(pageURL)] = m
	return kvstore.Put(ctx, s.kv, kvstore.KeyProjectMappings, all)
}

// IndexForPage returns the index of the project mapped to pageURL, falling
// back to the last-picked index.
func (s *Service) IndexForPage(ctx context.Context, pageURL string) (ProjectFileIndex, bool, error) {
	m, ok, err := s.Mapping(ctx, pageURL)
	if err != nil {
		return ProjectFileIndex{}, false, err
	}
	if ok {
		return s.Load(ctx, m.Path, true)
	}
	return s.LastPicked(ctx)
}
