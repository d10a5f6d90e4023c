// Package cache stores rendered snapshot artifacts.
//
// The [Cache] interface is a byte store with per-entry TTL. Backends:
//
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared cache for server deployments
//   - [MongoCache]: document store with a TTL index
//   - [NullCache]: caching disabled
//
// Keys come from a [Keyer] so every caller derives the same key for the same
// snapshot. Only rendered output is cached; pan state is never persisted.
package cache

import (
	"context"
	"time"
)

// TTLArtifact is the default lifetime of a rendered artifact.
const TTLArtifact = 7 * 24 * time.Hour

// Cache is a byte store with per-entry expiry. A zero ttl means no expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
