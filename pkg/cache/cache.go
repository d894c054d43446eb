// Package cache provides a small artifact cache for rendered output.
//
// Rendering the inheritance graph through Graphviz is the only expensive
// operation in facezoom, so the graph command caches rendered bytes keyed by
// a hash of the DOT source. Two backends exist: a file cache under the user's
// cache directory, and a null cache for tests and --no-cache runs.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache stores rendered artifacts by key.
type Cache interface {
	// Get retrieves a value. The second return is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Hash computes a SHA-256 hash of the input, returned as 64 hex chars.
// Used to derive cache keys from DOT sources.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
