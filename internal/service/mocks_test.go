package service

import (
	"context"
	"sync"
	"time"

	"pulse-survey/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockTransport ---
type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Send(ctx context.Context, payload domain.Payload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

// --- MockSubmissionArchive ---
type MockSubmissionArchive struct {
	mock.Mock
}

func (m *MockSubmissionArchive) Record(ctx context.Context, submission *domain.Submission) error {
	args := m.Called(ctx, submission)
	return args.Error(0)
}

func (m *MockSubmissionArchive) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// ManualMockCache for domain.Cache interface
type ManualMockCache struct {
	GetFunc    func(ctx context.Context, key string) (string, error)
	SetFunc    func(ctx context.Context, key string, value string, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
	PingFunc   func(ctx context.Context) error
}

func (m *ManualMockCache) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	return "", domain.ErrCacheMiss
}

func (m *ManualMockCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	return nil
}

func (m *ManualMockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	return nil
}

func (m *ManualMockCache) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

// recordingCache logs every write in the order it reached the cache.
type recordingCache struct {
	mu  sync.Mutex
	ops []string
}

func (r *recordingCache) Get(ctx context.Context, key string) (string, error) {
	return "", domain.ErrCacheMiss
}

func (r *recordingCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, "set "+key+"="+value)
	return nil
}

func (r *recordingCache) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, "del "+key)
	return nil
}

func (r *recordingCache) Ping(ctx context.Context) error { return nil }

func (r *recordingCache) Ops() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ops...)
}
