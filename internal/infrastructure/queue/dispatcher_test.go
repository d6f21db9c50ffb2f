package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/awesome-restaurant/restaurant-api/internal/core/ports"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingCleaner struct {
	mu    sync.Mutex
	calls []ports.CartCleanupJob
	err   error
	block chan struct{}
}

func (c *recordingCleaner) RemoveMany(ctx context.Context, email string, ids []string) (int64, error) {
	if c.block != nil {
		select {
		case <-c.block:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, ports.CartCleanupJob{Email: email, CartItemIDs: ids})
	return int64(len(ids)), c.err
}

func (c *recordingCleaner) snapshot() []ports.CartCleanupJob {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]ports.CartCleanupJob(nil), c.calls...)
}

func TestDispatcher_ProcessesJobsInOrderPerPayer(t *testing.T) {
	cleaner := &recordingCleaner{}
	d := NewDispatcher(3, cleaner, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)
	defer func() {
		cancel()
		d.Wait()
	}()

	for _, id := range []string{"a", "b", "c"} {
		require.True(t, d.Enqueue(ports.CartCleanupJob{Email: "p@x.com", CartItemIDs: []string{id}}))
	}

	require.Eventually(t, func() bool { return len(cleaner.snapshot()) == 3 }, time.Second, 5*time.Millisecond)
	var got []string
	for _, call := range cleaner.snapshot() {
		got = append(got, call.CartItemIDs[0])
	}
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestDispatcher_FailuresDoNotStopWorker(t *testing.T) {
	cleaner := &recordingCleaner{err: errors.New("mongo down")}
	d := NewDispatcher(1, cleaner, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)
	defer func() {
		cancel()
		d.Wait()
	}()

	d.Enqueue(ports.CartCleanupJob{Email: "a@x.com", CartItemIDs: []string{"1"}})
	d.Enqueue(ports.CartCleanupJob{Email: "a@x.com", CartItemIDs: []string{"2"}})

	require.Eventually(t, func() bool { return len(cleaner.snapshot()) == 2 }, time.Second, 5*time.Millisecond)
}

func TestDispatcher_EnqueueNeverBlocks(t *testing.T) {
	cleaner := &recordingCleaner{}
	d := NewDispatcher(1, cleaner, zerolog.Nop())

	// Workers not started: the buffer fills and further jobs are refused.
	for i := 0; i < channelBuffer; i++ {
		require.True(t, d.Enqueue(ports.CartCleanupJob{Email: "a@x.com"}))
	}
	assert.False(t, d.Enqueue(ports.CartCleanupJob{Email: "a@x.com"}))
}

func TestDispatcher_ShardIndexStable(t *testing.T) {
	d := NewDispatcher(8, &recordingCleaner{}, zerolog.Nop())
	first := d.shardIndex("someone@example.com")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, d.shardIndex("someone@example.com"))
	}
	assert.GreaterOrEqual(t, first, 0)
	assert.Less(t, first, 8)
}

func TestDispatcher_StopsOnCancel(t *testing.T) {
	cleaner := &recordingCleaner{block: make(chan struct{})}
	d := NewDispatcher(2, cleaner, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	d.Enqueue(ports.CartCleanupJob{Email: "a@x.com", CartItemIDs: []string{"1"}})
	cancel()

	done := make(chan struct{})
	go func() {
		d.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("workers did not stop after cancel")
	}
}
