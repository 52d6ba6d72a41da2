package service

import (
	"context"
	"errors"
	"time"

	"pulse-survey/internal/domain"
	"pulse-survey/internal/logger"

	"go.uber.org/zap"
)

// SafeStorage is a fault-swallowing view of the snapshot cache. A storage
// outage must never surface to the respondent, so every fault is logged and
// reported as "nothing there" or silently dropped.
type SafeStorage struct {
	cache     domain.Cache
	ttl       time.Duration
	opTimeout time.Duration
}

// NewSafeStorage wraps a cache. With a nil cache every read misses and every
// write is dropped.
func NewSafeStorage(cache domain.Cache, ttl, opTimeout time.Duration) *SafeStorage {
	if cache == nil {
		logger.Get().Warn("SafeStorage initialized with nil cache. Answers will not be persisted.")
	}
	return &SafeStorage{cache: cache, ttl: ttl, opTimeout: opTimeout}
}

func (s *SafeStorage) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opTimeout > 0 {
		return context.WithTimeout(ctx, s.opTimeout)
	}
	return context.WithCancel(ctx)
}

// Get returns the stored value and whether one was found.
func (s *SafeStorage) Get(ctx context.Context, key string) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	val, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Error("Failed to read from storage", zap.String("key", key), zap.Error(err))
		}
		return "", false
	}
	return val, true
}

func (s *SafeStorage) Set(ctx context.Context, key, value string) {
	if s.cache == nil {
		return
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
		logger.Get().Error("Failed to write to storage", zap.String("key", key), zap.Error(err))
	}
}

func (s *SafeStorage) Remove(ctx context.Context, key string) {
	if s.cache == nil {
		return
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.cache.Delete(ctx, key); err != nil {
		logger.Get().Error("Failed to remove from storage", zap.String("key", key), zap.Error(err))
	}
}

// Ping reports whether the backing cache answers.
func (s *SafeStorage) Ping(ctx context.Context) error {
	if s.cache == nil {
		return errors.New("no storage configured")
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.cache.Ping(ctx)
}
