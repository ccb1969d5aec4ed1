package revokedtokens

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "revoked:"

// RedisRepository stores revocations as redis keys whose TTL equals the
// token's remaining lifetime, so expired entries vanish without a sweep.
type RedisRepository struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisRepository constructs a repository over the given redis client.
func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{client: client, now: time.Now}
}

// WithClock overrides the time source. Tests use this to pin "now".
func (r *RedisRepository) WithClock(now func() time.Time) *RedisRepository {
	r.now = now
	return r
}

// Save records the jti until its original expiry. A token already past its
// expiry needs no record: the deadline check rejects it on its own.
func (r *RedisRepository) Save(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, redisKeyPrefix+jti, 1, ttl).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

// Contains reports whether the jti is present.
func (r *RedisRepository) Contains(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, redisKeyPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("redis error: %w", err)
	}
	return n > 0, nil
}

// DeleteExpired is a no-op: redis evicts entries by TTL.
func (r *RedisRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}
