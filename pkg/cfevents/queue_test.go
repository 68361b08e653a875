package cfevents

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueFIFOOrder(t *testing.T) {
	q := NewQueue("test", 0)
	for i := 0; i < 5; i++ {
		assert.True(t, q.Enqueue(New("evt", i)))
	}
	for i := 0; i < 5; i++ {
		evt, ok := q.Dequeue()
		require.True(t, ok)
		assert.Equal(t, i, evt.Data)
	}
	_, ok := q.Dequeue()
	assert.False(t, ok)
}

func TestQueueOverflowRejectsWithoutDiscarding(t *testing.T) {
	q := NewQueue("bounded", 2)
	assert.True(t, q.Enqueue(New("a", nil)))
	assert.True(t, q.Enqueue(New("b", nil)))
	assert.False(t, q.Enqueue(New("c", nil)), "enqueue on a full queue must fail")
	assert.Equal(t, 2, q.Size())

	first, ok := q.Dequeue()
	require.True(t, ok)
	assert.Equal(t, "a", first.ID)
}

func TestQueueClearReturnsDiscardedCount(t *testing.T) {
	q := NewQueue("clear-me", 0)
	q.Enqueue(New("a", nil))
	q.Enqueue(New("b", nil))
	q.Enqueue(New("c", nil))

	assert.Equal(t, 3, q.Clear())
	assert.True(t, q.IsEmpty())
}

func TestQueueSnapshotIsPointInTime(t *testing.T) {
	q := NewQueue("snap", 0)
	q.Enqueue(New("a", nil))
	snap := q.Snapshot()
	q.Enqueue(New("b", nil))

	require.Len(t, snap, 1)
	assert.Equal(t, 2, q.Size())
}

func TestQueueStats(t *testing.T) {
	q := NewQueue("stats", 3)
	q.Enqueue(New("a", nil))
	q.Enqueue(New("b", nil))
	stats := q.Stats()

	assert.Equal(t, "stats", stats.Name)
	assert.Equal(t, 2, stats.CurrentSize)
	assert.Equal(t, 3, stats.MaxSize)
	assert.EqualValues(t, 2, stats.TotalEnqueued)
	assert.False(t, stats.IsFull)
}

func TestQueueConcurrentEnqueueDequeue(t *testing.T) {
	q := NewQueue("concurrent", 0)
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			q.Enqueue(New("e", n))
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 100, q.Size())
}
