package prewarm

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/smallbiznis/ledgerline/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestPool(t *testing.T, workers, queue int) *Pool {
	t.Helper()

	pool := NewPool(Params{
		Holder: config.NewStaticReportConfigHolder(config.ReportConfig{
			ClosedPeriodTTLSeconds: 3600,
			OpenPeriodTTLSeconds:   60,
			PrewarmYears:           2,
			PrewarmWorkers:         workers,
			PrewarmQueueSize:       queue,
		}),
		Log: zap.NewNop(),
	})
	pool.Start()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = pool.Stop(ctx)
	})
	return pool
}

func TestPoolRunsSubmittedTasks(t *testing.T) {
	pool := newTestPool(t, 2, 8)

	var ran atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		key := string(rune('a' + i))
		require.True(t, pool.Submit(Task{
			Key: key,
			Run: func(context.Context) error {
				defer wg.Done()
				ran.Add(1)
				return nil
			},
		}))
	}
	wg.Wait()
	assert.Equal(t, int32(4), ran.Load())
}

func TestPoolDeduplicatesByKey(t *testing.T) {
	pool := newTestPool(t, 1, 8)

	blocked := make(chan struct{})
	started := make(chan struct{})
	require.True(t, pool.Submit(Task{
		Key: "fy2025",
		Run: func(context.Context) error {
			close(started)
			<-blocked
			return nil
		},
	}))
	<-started

	// Same key while the first is still running must be rejected.
	assert.False(t, pool.Submit(Task{Key: "fy2025", Run: func(context.Context) error { return nil }}))
	close(blocked)
}

func TestPoolDropsWhenQueueFull(t *testing.T) {
	pool := newTestPool(t, 1, 1)

	blocked := make(chan struct{})
	started := make(chan struct{})
	require.True(t, pool.Submit(Task{
		Key: "busy",
		Run: func(context.Context) error {
			close(started)
			<-blocked
			return nil
		},
	}))
	<-started

	require.True(t, pool.Submit(Task{Key: "queued", Run: func(context.Context) error { return nil }}))
	assert.False(t, pool.Submit(Task{Key: "overflow", Run: func(context.Context) error { return nil }}))
	close(blocked)

	// A dropped key must be resubmittable once capacity frees up.
	assert.Eventually(t, func() bool {
		return pool.Submit(Task{Key: "overflow", Run: func(context.Context) error { return nil }})
	}, time.Second, 10*time.Millisecond)
}

func TestPoolRejectsInvalidTask(t *testing.T) {
	pool := newTestPool(t, 1, 4)

	assert.False(t, pool.Submit(Task{Key: "", Run: func(context.Context) error { return nil }}))
	assert.False(t, pool.Submit(Task{Key: "no-fn"}))
}

func TestPoolFailureDoesNotStopWorkers(t *testing.T) {
	pool := newTestPool(t, 1, 4)

	done := make(chan struct{})
	require.True(t, pool.Submit(Task{Key: "boom", Run: func(context.Context) error { return assert.AnError }}))
	require.True(t, pool.Submit(Task{Key: "after", Run: func(context.Context) error {
		close(done)
		return nil
	}}))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not survive a failed task")
	}
}
