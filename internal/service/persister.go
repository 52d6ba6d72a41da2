package service

import (
	"context"
	"sync"

	"pulse-survey/internal/logger"

	"go.uber.org/zap"
)

type persistOp struct {
	key    string
	value  string
	remove bool
	done   chan struct{} // set for flush barriers only
}

// Persister applies snapshot writes on a single goroutine in the order they
// were requested, so a removal is never overtaken by an older write.
type Persister struct {
	storage *SafeStorage
	ops     chan persistOp
	stopped chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewPersister(storage *SafeStorage, queueSize int) *Persister {
	if queueSize <= 0 {
		queueSize = 1
	}
	p := &Persister{
		storage: storage,
		ops:     make(chan persistOp, queueSize),
		stopped: make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *Persister) run() {
	defer close(p.stopped)
	for op := range p.ops {
		switch {
		case op.done != nil:
			close(op.done)
		case op.remove:
			p.storage.Remove(context.Background(), op.key)
		default:
			p.storage.Set(context.Background(), op.key, op.value)
		}
	}
}

// Save queues a snapshot write without waiting. When the queue is full the
// write is dropped; the next edit carries a newer snapshot anyway.
func (p *Persister) Save(key, value string) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return
	}
	select {
	case p.ops <- persistOp{key: key, value: value}:
	default:
		logger.Get().Warn("Persist queue full, dropping snapshot write", zap.String("key", key))
	}
}

// Remove queues a deletion. It waits for queue space rather than dropping.
func (p *Persister) Remove(key string) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return
	}
	p.ops <- persistOp{key: key, remove: true}
}

// Flush blocks until every operation queued before it has been applied.
func (p *Persister) Flush() {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return
	}
	done := make(chan struct{})
	p.ops <- persistOp{done: done}
	p.mu.RUnlock()
	<-done
}

// Close stops accepting work and waits for the queue to drain.
func (p *Persister) Close() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.ops)
	}
	p.mu.Unlock()
	<-p.stopped
}
