// Package cache stores rendered curve artifacts.
//
// Rendering a deep level of a space-filling curve can take a while, and the
// result is a pure function of the curve, the level and the render options.
// The HTTP server and the render command therefore keep the finished bytes
// (SVG, PNG or JSON) keyed by those inputs. Expanded symbol strings are never
// cached; they are recomputed for every render.
//
// # Backends
//
//   - [NullCache]: stores nothing, used when caching is disabled
//   - [FileCache]: one JSON file per entry under the user cache directory
//   - [RedisCache]: shared cache for multi-instance servers
//
// # Keys
//
// A [Keyer] derives keys from the render inputs. [ScopedKeyer] adds a prefix
// so several deployments can share one backend.
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.ArtifactKey("hilbert-curve", 5, cache.ArtifactKeyOpts{Format: "svg"})
//	data, hit, err := c.Get(ctx, key)
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero or less never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}

// DefaultTTL is how long artifacts live when no TTL is configured.
const DefaultTTL = 24 * time.Hour
