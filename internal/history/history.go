// history.go — Bounded, deduplicated history of network events.
// Merge prepends normalized incoming events ahead of the persisted list,
// keeps the first occurrence of each ID and truncates to capacity.
// Merges within a process are serialized; writers in other processes are
// last-writer-wins at the storage row.
package history

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dev-console/pagectx/internal/kvstore"
	"github.com/dev-console/pagectx/internal/types"
)

// DefaultCapacity is the maximum number of persisted events.
const DefaultCapacity = 300

// MergeEvents is the pure merge: normalize incoming, prepend to existing,
// dedup by ID keeping the first occurrence, truncate to capacity.
func MergeEvents(existing, incoming []types.NetworkEvent, capacity int) []types.NetworkEvent {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	combined := make([]types.NetworkEvent, 0, len(incoming)+len(existing))
	for _, ev := range incoming {
		combined = append(combined, types.NormalizeNetworkEvent(ev))
	}
	combined = append(combined, existing...)

	seen := make(map[string]struct{}, len(combined))
	out := make([]types.NetworkEvent, 0, min(len(combined), capacity))
	for _, ev := range combined {
		if ev.ID == "" {
			ev = types.NormalizeNetworkEvent(ev)
		}
		if _, dup := seen[ev.ID]; dup {
			continue
		}
		seen[ev.ID] = struct{}{}
		out = append(out, ev)
		if len(out) == capacity {
			break
		}
	}
	return out
}

// Store persists merged history under kvstore.KeyRecentNetworkRequests.
type Store struct {
	mu       sync.Mutex
	kv       kvstore.Store
	capacity int
	logger   *slog.Logger
}

// NewStore creates a history store over kv with the given capacity.
func NewStore(kv kvstore.Store, capacity int, logger *slog.Logger) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{kv: kv, capacity: capacity, logger: logger}
}

// Capacity returns the maximum number of persisted events.
func (s *Store) Capacity() int { return s.capacity }

// Merge folds incoming into the persisted list and returns the new list.
// The persisted value is created on the first merge.
func (s *Store) Merge(ctx context.Context, incoming []types.NetworkEvent) ([]types.NetworkEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.readLocked(ctx)
	if err != nil {
		return nil, err
	}
	merged := MergeEvents(existing, incoming, s.capacity)
	if err := kvstore.Put(ctx, s.kv, kvstore.KeyRecentNetworkRequests, merged); err != nil {
		return nil, fmt.Errorf("persist history: %w", err)
	}
	s.logger.Debug("history merged", "incoming", len(incoming), "total", len(merged))
	return merged, nil
}

// Read returns the persisted list, most recent first. A missing or corrupt
// value reads as empty.
func (s *Store) Read(ctx context.Context) ([]types.NetworkEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLocked(ctx)
}

func (s *Store) readLocked(ctx context.Context) ([]types.NetworkEvent, error) {
	raw, ok, err := s.kv.GetRaw(ctx, kvstore.KeyRecentNetworkRequests)
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	if !ok {
		return []types.NetworkEvent{}, nil
	}
	events, err := types.DecodeNetworkEvents(raw)
	if err != nil {
		s.logger.Warn("discarding unreadable history", "error", err)
		return []types.NetworkEvent{}, nil
	}
	for i := range events {
		if events[i].ID == "" || events[i].Path == "" {
			events[i] = types.NormalizeNetworkEvent(events[i])
		}
	}
	return events, nil
}

// Clear deletes the persisted history.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kv.Delete(ctx, kvstore.KeyRecentNetworkRequests)
}
