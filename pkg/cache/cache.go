// Package cache stores placement results and exported artifacts.
//
// # Overview
//
// Placing a long chain in a large box can take many search attempts, and
// rendering or encoding a layout is not free either. The [Cache] interface
// lets the pipeline reuse earlier results:
//
//   - [FileCache]: one file per entry under a directory, for the CLI
//   - [RedisCache]: shared cache for API deployments
//   - [NullCache]: caching disabled
//
// Keys come from a [Keyer], which hashes every input that influences the
// cached value. [ScopedKeyer] adds a namespace prefix and [Instrumented]
// reports hits and misses to the observability hooks.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key-value store with optional expiry.
type Cache interface {
	// Get returns the value for key. The bool reports a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Clearer is implemented by caches that can drop all entries.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Default lifetimes for cached values.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)
