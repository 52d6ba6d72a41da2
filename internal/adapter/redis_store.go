package adapter

import (
	"context"
	"errors"
	"time"

	"pulse-survey/internal/domain"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps answer snapshots as plain string values in Redis.
type RedisStore struct {
	client redis.Cmdable
}

// NewRedisStore wraps a connected client.
func NewRedisStore(client redis.Cmdable) domain.Cache {
	return &RedisStore{client: client}
}

// Get maps redis.Nil to domain.ErrCacheMiss.
func (r *RedisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrCacheMiss
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (r *RedisStore) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	return r.client.Set(ctx, key, value, expiration).Err()
}

// Delete succeeds whether or not the key existed.
func (r *RedisStore) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
