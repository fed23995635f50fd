// Package cache stores rendered diagram artifacts so that re-running an
// unchanged diagram skips the Graphviz layout.
//
// Three backends implement [Cache]:
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: a shared Redis instance, for teams rendering in CI
//   - [NullCache]: stores nothing (--no-cache)
//
// Keys come from a [Keyer]; [DefaultKeyer] hashes the DOT source together
// with the output format, so any change to the diagram or its styling
// produces a new key.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Cache is a byte-oriented key-value store with optional expiry.
type Cache interface {
	// Get returns the data and true on a hit, or nil and false on a miss.
	// Expired entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Open selects a backend from spec:
//   - "none" or "off": [NullCache]
//   - "file" or "": [FileCache] rooted at dir
//   - "redis://..." or "rediss://...": [RedisCache]
func Open(ctx context.Context, spec, dir string) (Cache, error) {
	switch {
	case spec == "none" || spec == "off":
		return NewNullCache(), nil
	case spec == "" || spec == "file":
		fc, err := NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return fc, nil
	case strings.HasPrefix(spec, "redis://") || strings.HasPrefix(spec, "rediss://"):
		rc, err := NewRedisCache(ctx, spec)
		if err != nil {
			return nil, err
		}
		return rc, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q (want file, none or a redis:// URL)", spec)
	}
}
