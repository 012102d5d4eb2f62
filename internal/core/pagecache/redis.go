package pagecache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
)

// DefaultKeyPrefix namespaces page cache keys in a shared Redis.
const DefaultKeyPrefix = "quill:page:"

// RedisStore is a Store shared by every server process pointing at the same Redis
type RedisStore struct {
	client *redis.Client
	logger *slog.Logger
	prefix string
}

// NewRedisStore connects using a redis:// URL and verifies the connection with PING
func NewRedisStore(ctx context.Context, redisURL string, logger *slog.Logger) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return NewRedisStoreWithClient(client, DefaultKeyPrefix, logger), nil
}

// NewRedisStoreWithClient wraps an existing client
func NewRedisStoreWithClient(client *redis.Client, prefix string, logger *slog.Logger) *RedisStore {
	if logger == nil {
		logger = slog.Default()
	}
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisStore{client: client, prefix: prefix, logger: logger}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read cached page: %w", err)
	}
	return value, true, nil
}

// Set stores the value with a millisecond-precision expiry (SET ... PX)
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache page: %w", err)
	}
	return nil
}

// Clear deletes every key under the prefix, SCANning in batches
func (s *RedisStore) Clear(ctx context.Context) error {
	var (
		cursor  uint64
		deleted int64
	)

	for {
		keys, next, err := s.client.Scan(ctx, cursor, s.prefix+"*", 100).Result()
		if err != nil {
			return fmt.Errorf("failed to scan cached pages: %w", err)
		}

		if len(keys) > 0 {
			n, err := s.client.Del(ctx, keys...).Result()
			if err != nil {
				return fmt.Errorf("failed to clear cached pages: %w", err)
			}
			deleted += n
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	s.logger.Info("page cache cleared", "store", "redis", "entries", deleted)
	return nil
}

// Close releases the underlying connection pool
func (s *RedisStore) Close() error {
	return s.client.Close()
}
