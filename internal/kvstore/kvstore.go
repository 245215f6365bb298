// kvstore.go — Durable key/value store with JSON values.
// Values are always replaced whole; there are no partial updates. An absent
// key reads as not found so callers fall back to their empty default.
package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
)

// Persisted schema keys.
const (
	KeyRecentNetworkRequests  = "recentNetworkRequests"
	KeyProjectFileIndexes     = "projectFileIndexes"
	KeyLastPickedProjectIndex = "lastPickedProjectIndex"
	KeyIndexPreferences       = "indexPreferences"
	KeyProjectMappings        = "projectMappings"
)

// Store is the durable key/value surface used by the history store and indexer.
type Store interface {
	// GetRaw returns the stored bytes for key and whether the key exists.
	GetRaw(ctx context.Context, key string) ([]byte, bool, error)
	// PutRaw replaces the value stored under key.
	PutRaw(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Keys lists all stored keys in ascending order.
	Keys(ctx context.Context) ([]string, error)
	Close() error
}

// Get decodes the JSON value under key into dst. Returns false when the key
// is absent; dst is left untouched in that case.
func Get(ctx context.Context, s Store, key string, dst any) (bool, error) {
	raw, ok, err := s.GetRaw(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// Put JSON-encodes value and stores it under key.
func Put(ctx context.Context, s Store, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.PutRaw(ctx, key, raw)
}
