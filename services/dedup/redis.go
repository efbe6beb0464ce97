// Package dedupsvc remembers recently relayed documents so the same file is not posted twice to a topic.
package dedupsvc

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/akademflow/backend/core/relay"
)

const keyPrefix = "upload:"

type RedisGuard struct {
	client *redis.Client
	ttl    time.Duration
}

var _ relay.Guard = (*RedisGuard)(nil)

// NewRedisGuard connects to `redisURL`. Claims expire after `ttl`.
func NewRedisGuard(ctx context.Context, redisURL string, ttl time.Duration) (*RedisGuard, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, errors.Wrap(err, "parsing redis url")
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err = client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "connecting to redis")
	}
	return NewRedisGuardWithClient(client, ttl), nil
}

func NewRedisGuardWithClient(client *redis.Client, ttl time.Duration) *RedisGuard {
	return &RedisGuard{client: client, ttl: ttl}
}

func (g *RedisGuard) Claim(ctx context.Context, key string) (bool, error) {
	ok, err := g.client.SetNX(ctx, keyPrefix+key, time.Now().UTC().Format(time.RFC3339), g.ttl).Result()
	if err != nil {
		return false, errors.Wrap(err, "claiming upload key")
	}
	return ok, nil
}

func (g *RedisGuard) Release(ctx context.Context, key string) error {
	return errors.Wrap(g.client.Del(ctx, keyPrefix+key).Err(), "releasing upload key")
}

func (g *RedisGuard) Close() error {
	return g.client.Close()
}
