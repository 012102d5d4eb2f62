package pagecache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMaxEntries bounds the in-memory cache; the least recently used page is evicted first.
const DefaultMaxEntries = 1000

// sweepInterval is how often Set drops expired entries that were never read again
const sweepInterval = time.Minute

type memoryEntry struct {
	expiresAt time.Time
	value     []byte
}

// MemoryStore is an in-process Store bounded by an LRU.
// Expired entries are dropped on read and by a periodic sweep on write.
type MemoryStore struct {
	nextSweep time.Time
	entries   *lru.Cache[string, memoryEntry]
	now       func() time.Time
	logger    *slog.Logger
	mu        sync.Mutex // guards nextSweep and Clear
}

// NewMemoryStore creates an empty store holding up to DefaultMaxEntries pages.
// now defaults to time.Now and logger to slog.Default().
func NewMemoryStore(now func() time.Time, logger *slog.Logger) *MemoryStore {
	return NewMemoryStoreWithSize(DefaultMaxEntries, now, logger)
}

// NewMemoryStoreWithSize is NewMemoryStore with an explicit capacity
func NewMemoryStoreWithSize(size int, now func() time.Time, logger *slog.Logger) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	if size <= 0 {
		size = DefaultMaxEntries
	}

	entries, err := lru.New[string, memoryEntry](size)
	if err != nil {
		// only fails for a non-positive size
		logger.Error("failed to create page cache, using size 1", "size", size, "error", err)
		entries, _ = lru.New[string, memoryEntry](1)
	}

	return &MemoryStore{
		entries: entries,
		now:     now,
		logger:  logger,
	}
}

// Get returns the cached value if it has not expired
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	entry, ok := s.entries.Get(key)
	if !ok {
		return nil, false, nil
	}

	if !s.now().Before(entry.expiresAt) {
		// a concurrent Set may have refreshed the entry
		if current, ok := s.entries.Peek(key); ok && !s.now().Before(current.expiresAt) {
			s.entries.Remove(key)
		}
		return nil, false, nil
	}

	return entry.value, true, nil
}

// Set stores value until now+ttl
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	now := s.now()
	s.sweep(now)

	expiresAt := now.Add(ttl)
	if evicted := s.entries.Add(key, memoryEntry{value: value, expiresAt: expiresAt}); evicted {
		s.logger.Debug("page cache full, evicted least recently used entry")
	}

	s.logger.Debug("page cached", "key", key, "bytes", len(value), "expires_at", expiresAt)
	return nil
}

// sweep removes every expired entry, at most once per sweepInterval
func (s *MemoryStore) sweep(now time.Time) {
	s.mu.Lock()
	if now.Before(s.nextSweep) {
		s.mu.Unlock()
		return
	}
	s.nextSweep = now.Add(sweepInterval)
	s.mu.Unlock()

	removed := 0
	for _, key := range s.entries.Keys() {
		if entry, ok := s.entries.Peek(key); ok && !now.Before(entry.expiresAt) {
			s.entries.Remove(key)
			removed++
		}
	}
	if removed > 0 {
		s.logger.Debug("swept expired pages", "removed", removed)
	}
}

// Clear removes all entries
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.entries.Len()
	s.entries.Purge()

	s.logger.Info("page cache cleared", "entries", n)
	return nil
}

// Len returns the number of stored entries, expired or not
func (s *MemoryStore) Len() int {
	return s.entries.Len()
}
