// Package pagecache keeps rendered pages for a fixed time window.
// Entries are keyed by view identity; Clear drops everything at once.
package pagecache

import (
	"context"
	"errors"
	"time"
)

// DefaultTTL is how long a rendered home page is served from the cache.
const DefaultTTL = 20 * time.Second

// ErrStoreUnavailable is returned when the backing store cannot be reached.
var ErrStoreUnavailable = errors.New("page cache store unavailable")

// Store is a TTL keyed byte store
type Store interface {
	// Get returns the value and true if key is present and not expired
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value under key for ttl
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Clear removes every entry
	Clear(ctx context.Context) error
}
