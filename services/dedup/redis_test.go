package dedupsvc

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupGuard(t *testing.T) (*RedisGuard, *miniredis.Miniredis) {
	s := miniredis.RunT(t)
	guard, err := NewRedisGuard(context.Background(), "redis://"+s.Addr(), time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { _ = guard.Close() })
	return guard, s
}

func TestRedisGuard(t *testing.T) {
	ctx := context.Background()
	guard, s := setupGuard(t)

	ok, err := guard.Claim(ctx, "chat:7:abc")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, s.Exists("upload:chat:7:abc"))

	ok, err = guard.Claim(ctx, "chat:7:abc")
	require.NoError(t, err)
	assert.False(t, ok, "second claim must fail")

	ok, err = guard.Claim(ctx, "chat:8:abc")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, guard.Release(ctx, "chat:7:abc"))
	ok, err = guard.Claim(ctx, "chat:7:abc")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisGuard_expiry(t *testing.T) {
	ctx := context.Background()
	guard, s := setupGuard(t)

	ok, err := guard.Claim(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)

	s.FastForward(2 * time.Minute)

	ok, err = guard.Claim(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNewRedisGuard_errors(t *testing.T) {
	_, err := NewRedisGuard(context.Background(), "not-a-url", time.Minute)
	assert.Error(t, err)

	s := miniredis.RunT(t)
	addr := s.Addr()
	s.Close()
	_, err = NewRedisGuard(context.Background(), "redis://"+addr, time.Minute)
	assert.Error(t, err)
}
