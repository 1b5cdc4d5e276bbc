package upsert

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// lockTTL bounds how long a crashed worker can hold a SKU.
const lockTTL = 30 * time.Second

// RedisLocker is a short-lived per-SKU lock for deployments running more
// than one worker. SetNX with a TTL; no fencing, best effort.
type RedisLocker struct {
	rdb    *redis.Client
	logger zerolog.Logger
}

// NewRedisLocker connects to the given redis URL. Returns an error when the
// URL does not parse; connectivity is only exercised on first use.
func NewRedisLocker(redisURL string, logger zerolog.Logger) (*RedisLocker, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &RedisLocker{rdb: redis.NewClient(opts), logger: logger}, nil
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (bool, error) {
	return l.rdb.SetNX(ctx, "esyncify:lock:"+key, 1, lockTTL).Result()
}

func (l *RedisLocker) Unlock(ctx context.Context, key string) {
	if err := l.rdb.Del(ctx, "esyncify:lock:"+key).Err(); err != nil {
		l.logger.Warn().Err(err).Str("key", key).Msg("failed to release SKU lock")
	}
}

func (l *RedisLocker) Close() error {
	return l.rdb.Close()
}
