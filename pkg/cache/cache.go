// Package cache stores rendered snapshot artifacts so repeated exports
// of an unchanged scenario skip the rasterization work. Keys are derived
// from the scenario content and the render parameters, so any change to
// either produces a fresh entry.
package cache

import (
	"context"
	"time"
)

// Cache is the artifact store contract.
type Cache interface {
	// Get retrieves a value. The second return is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores a value. A non-positive ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes a value; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases any resources held by the cache.
	Close() error
}
