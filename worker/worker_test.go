package worker

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_RunsSubmittedTasks(t *testing.T) {
	var mu sync.Mutex
	seen := make(map[string]int)
	done := make(chan struct{}, 3)

	pool := New(2, 4, func(task Task) {
		mu.Lock()
		seen[task.ClientID]++
		mu.Unlock()
		done <- struct{}{}
	})
	pool.Start()

	require.True(t, pool.TrySubmit(Task{ID: "1", ClientID: "a", Text: "one"}))
	require.True(t, pool.TrySubmit(Task{ID: "2", ClientID: "b", Text: "two"}))
	require.True(t, pool.TrySubmit(Task{ID: "3", ClientID: "a", Text: "three"}))

	for i := 0; i < 3; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for tasks")
		}
	}
	pool.Stop()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, seen["a"])
	assert.Equal(t, 1, seen["b"])
}

func TestPool_TrySubmitRejectsWhenSaturated(t *testing.T) {
	block := make(chan struct{})
	pool := New(1, 1, func(Task) {
		<-block
	})
	pool.Start()

	// First task occupies the worker, second fills the queue.
	require.True(t, pool.TrySubmit(Task{ID: "1"}))
	require.Eventually(t, func() bool {
		return pool.TrySubmit(Task{ID: "2"}) && !pool.TrySubmit(Task{ID: "3"})
	}, time.Second, 5*time.Millisecond)

	assert.False(t, pool.TrySubmit(Task{ID: "4"}))

	close(block)
	pool.Stop()
}

func TestPool_StopWaitsForInFlightTasks(t *testing.T) {
	var completed atomic.Int64
	pool := New(2, 8, func(Task) {
		time.Sleep(20 * time.Millisecond)
		completed.Add(1)
	})
	pool.Start()

	for i := 0; i < 6; i++ {
		require.True(t, pool.TrySubmit(Task{}))
	}
	pool.Stop()

	assert.Equal(t, int64(6), completed.Load())
}
