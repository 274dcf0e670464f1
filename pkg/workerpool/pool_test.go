package workerpool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_RunsWork(t *testing.T) {
	p := New(2)

	ran := false
	err := p.Do(context.Background(), func() error {
		ran = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)
}

func TestPool_PropagatesError(t *testing.T) {
	p := New(1)
	want := errors.New("boom")

	err := p.Do(context.Background(), func() error { return want })
	assert.ErrorIs(t, err, want)
}

func TestPool_BoundsConcurrency(t *testing.T) {
	const size = 3
	p := New(size)

	var inFlight, peak int64
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = p.Do(context.Background(), func() error {
				n := atomic.AddInt64(&inFlight, 1)
				for {
					old := atomic.LoadInt64(&peak)
					if n <= old || atomic.CompareAndSwapInt64(&peak, old, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				atomic.AddInt64(&inFlight, -1)
				return nil
			})
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, atomic.LoadInt64(&peak), int64(size))
	assert.Greater(t, atomic.LoadInt64(&peak), int64(0))
}

func TestPool_CancelledWhileWaiting(t *testing.T) {
	p := New(1)

	release := make(chan struct{})
	go func() {
		_ = p.Do(context.Background(), func() error {
			<-release
			return nil
		})
	}()

	// Give the occupier time to take the only slot.
	time.Sleep(10 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := p.Do(ctx, func() error { return nil })
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
}

func TestNew_MinimumSize(t *testing.T) {
	assert.Equal(t, 1, New(0).Size())
	assert.Equal(t, 1, New(-5).Size())
	assert.Equal(t, 4, New(4).Size())
}
