// Package kvstore is the durable key-value storage behind the client
// session. Every backend applies SetMany and Delete to all given keys or to
// none of them, so related keys never drift apart.
package kvstore

import (
	"context"
	"sort"

	"github.com/pkg/errors"
)

// ErrCorrupt is returned by GetMany when the stored data cannot be decoded.
// Overwriting or deleting the keys recovers the store.
var ErrCorrupt = errors.New("kvstore: stored data is corrupt")

type Store interface {
	// GetMany returns the values that exist; missing keys are absent from
	// the map, not an error.
	GetMany(ctx context.Context, keys ...string) (map[string]string, error)
	SetMany(ctx context.Context, values map[string]string) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

func sortedKeys(values map[string]string) []string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
