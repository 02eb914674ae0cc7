// Package cache provides byte-level caching for fetched manifests.
//
// The CLI uses a [FileCache] under the user cache directory; the HTTP server
// can share a [RedisCache] across instances. [NullCache] disables caching.
//
// All backends treat an expired or unreadable entry as a miss. Errors are
// returned only when the backend itself fails.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte payloads by key.
type Cache interface {
	// Get returns the value for key. hit is false when the key is absent or
	// expired.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
