package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersister_KeepsRequestOrder(t *testing.T) {
	cache := &recordingCache{}
	p := NewPersister(NewSafeStorage(cache, 0, 0), 16)
	defer p.Close()

	p.Save("k", "v1")
	p.Save("k", "v2")
	p.Remove("k")
	p.Save("other", "x")
	p.Flush()

	assert.Equal(t, []string{"set k=v1", "set k=v2", "del k", "set other=x"}, cache.Ops())
}

func TestPersister_CloseDrainsQueue(t *testing.T) {
	cache := &recordingCache{}
	p := NewPersister(NewSafeStorage(cache, 0, 0), 64)

	for i := 0; i < 50; i++ {
		p.Save("k", fmt.Sprint(i))
	}
	p.Close()

	ops := cache.Ops()
	require.Len(t, ops, 50)
	assert.Equal(t, "set k=49", ops[49])

	assert.NotPanics(t, func() {
		p.Save("k", "late")
		p.Remove("k")
		p.Flush()
		p.Close()
	})
	assert.Len(t, cache.Ops(), 50, "work after Close is discarded")
}

func TestPersister_DropsSavesWhenFull(t *testing.T) {
	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	var written []string
	cache := &ManualMockCache{
		SetFunc: func(ctx context.Context, key, value string, ttl time.Duration) error {
			written = append(written, value)
			if value == "v1" {
				entered <- struct{}{}
				<-release
			}
			return nil
		},
	}
	p := NewPersister(NewSafeStorage(cache, 0, 0), 1)

	p.Save("k", "v1")
	<-entered // worker is busy with v1
	p.Save("k", "v2")
	p.Save("k", "v3")
	close(release)
	p.Close()

	assert.Equal(t, []string{"v1", "v2"}, written)
}
