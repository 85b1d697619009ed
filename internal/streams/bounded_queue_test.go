package streams

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestBoundedQueue_FIFO(t *testing.T) {
	t.Parallel()

	queue := NewBoundedQueue[int]("test", 3)
	ctx := context.Background()
	for i := 1; i <= 3; i++ {
		require.NoError(t, queue.Publish(ctx, i))
	}
	assert.Equal(t, 3, queue.Len())
	assert.Equal(t, 3, queue.Cap())

	for want := 1; want <= 3; want++ {
		got, ok := queue.Receive(time.Second)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
}

func TestBoundedQueue_ReceiveTimesOut(t *testing.T) {
	t.Parallel()

	queue := NewBoundedQueue[string]("test", 1)
	start := time.Now()
	got, ok := queue.Receive(20 * time.Millisecond)

	assert.False(t, ok)
	assert.Empty(t, got)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestBoundedQueue_PublishBlocksWhenFull(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	queue := NewBoundedQueue[int]("test", 1)
	ctx := context.Background()
	require.NoError(t, queue.Publish(ctx, 1))

	published := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = queue.Publish(ctx, 2)
		close(published)
	}()

	select {
	case <-published:
		t.Fatal("publish to a full queue returned before room was made")
	case <-time.After(50 * time.Millisecond):
	}

	first, ok := queue.Receive(time.Second)
	require.True(t, ok)
	assert.Equal(t, 1, first)

	<-published
	second, ok := queue.Receive(time.Second)
	require.True(t, ok)
	assert.Equal(t, 2, second)
	wg.Wait()
}

func TestBoundedQueue_PublishHonoursContext(t *testing.T) {
	t.Parallel()

	queue := NewBoundedQueue[int]("test", 1)
	require.NoError(t, queue.Publish(context.Background(), 1))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := queue.Publish(ctx, 2)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, queue.Len())
}

func TestNewBoundedQueue_MinimumCapacity(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, NewBoundedQueue[int]("test", 0).Cap())
}
