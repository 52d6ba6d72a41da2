package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"pulse-survey/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestSafeStorage_SwallowsFaults(t *testing.T) {
	fault := errors.New("storage unavailable")
	calls := 0
	failing := &ManualMockCache{
		GetFunc:    func(ctx context.Context, key string) (string, error) { calls++; return "", fault },
		SetFunc:    func(ctx context.Context, key, value string, ttl time.Duration) error { calls++; return fault },
		DeleteFunc: func(ctx context.Context, key string) error { calls++; return fault },
		PingFunc:   func(ctx context.Context) error { return fault },
	}
	storage := NewSafeStorage(failing, 0, time.Second)
	ctx := context.Background()

	val, ok := storage.Get(ctx, "k")
	assert.False(t, ok)
	assert.Empty(t, val)
	assert.NotPanics(t, func() { storage.Set(ctx, "k", "v") })
	assert.NotPanics(t, func() { storage.Remove(ctx, "k") })
	assert.Equal(t, 3, calls)
	assert.ErrorIs(t, storage.Ping(ctx), fault)
}

func TestSafeStorage_MissIsNotFound(t *testing.T) {
	storage := NewSafeStorage(&ManualMockCache{}, 0, 0)
	_, ok := storage.Get(context.Background(), "absent")
	assert.False(t, ok)
}

func TestSafeStorage_PassesTTLAndDeadline(t *testing.T) {
	var gotTTL time.Duration
	var hadDeadline bool
	cache := &ManualMockCache{
		SetFunc: func(ctx context.Context, key, value string, ttl time.Duration) error {
			gotTTL = ttl
			_, hadDeadline = ctx.Deadline()
			return nil
		},
		GetFunc: func(ctx context.Context, key string) (string, error) { return "stored", nil },
	}
	storage := NewSafeStorage(cache, time.Hour, time.Second)

	storage.Set(context.Background(), "k", "v")
	assert.Equal(t, time.Hour, gotTTL)
	assert.True(t, hadDeadline)

	val, ok := storage.Get(context.Background(), "k")
	assert.True(t, ok)
	assert.Equal(t, "stored", val)
}

func TestSafeStorage_NilCache(t *testing.T) {
	storage := NewSafeStorage(nil, 0, 0)
	ctx := context.Background()

	_, ok := storage.Get(ctx, "k")
	assert.False(t, ok)
	assert.NotPanics(t, func() {
		storage.Set(ctx, "k", "v")
		storage.Remove(ctx, "k")
	})
	assert.Error(t, storage.Ping(ctx))
	assert.NotErrorIs(t, storage.Ping(ctx), domain.ErrCacheMiss)
}
