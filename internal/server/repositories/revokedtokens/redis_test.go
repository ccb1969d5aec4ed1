package revokedtokens

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisRepo(t *testing.T) (*RedisRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisRepository(client), mr
}

func TestRedisSaveAndContains(t *testing.T) {
	repo, _ := newRedisRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "jti-1", time.Now().Add(time.Hour)))

	got, err := repo.Contains(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, got)

	got, err = repo.Contains(ctx, "jti-other")
	require.NoError(t, err)
	assert.False(t, got)
}

func TestRedisSave_Idempotent(t *testing.T) {
	repo, _ := newRedisRepo(t)
	ctx := context.Background()

	exp := time.Now().Add(time.Hour)
	require.NoError(t, repo.Save(ctx, "jti-1", exp))
	require.NoError(t, repo.Save(ctx, "jti-1", exp))

	got, err := repo.Contains(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, got)
}

func TestRedisSave_AlreadyExpiredIsNoop(t *testing.T) {
	repo, _ := newRedisRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "jti-stale", time.Now().Add(-time.Minute)))

	got, err := repo.Contains(ctx, "jti-stale")
	require.NoError(t, err)
	assert.False(t, got)
}

func TestRedisEntriesExpireWithTokenLifetime(t *testing.T) {
	repo, mr := newRedisRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "jti-1", time.Now().Add(30*time.Second)))

	mr.FastForward(time.Minute)

	got, err := repo.Contains(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, got, "entry must vanish once the token's own expiry passed")
}
