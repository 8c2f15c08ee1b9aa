package queue

import (
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dubaiprice/server/internal/models"
)

func record(area string) *models.PredictionRecord {
	return &models.PredictionRecord{AreaName: area, AdjustedPrice: 1_000_000}
}

// collector gathers delivered batches behind a mutex so tests can poll
// them from the main goroutine.
type collector struct {
	mu      sync.Mutex
	batches [][]*models.PredictionRecord
}

func (c *collector) handle(batch []*models.PredictionRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	copied := make([]*models.PredictionRecord, len(batch))
	copy(copied, batch)
	c.batches = append(c.batches, copied)
	return nil
}

func (c *collector) snapshot() [][]*models.PredictionRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]*models.PredictionRecord, len(c.batches))
	copy(out, c.batches)
	return out
}

func (c *collector) total() int {
	n := 0
	for _, b := range c.snapshot() {
		n += len(b)
	}
	return n
}

func TestPredictionQueue_PushAndLen(t *testing.T) {
	q := NewPredictionQueue(4, 10, time.Second, logrus.New())

	require.NoError(t, q.Push(record("DUBAI MARINA")))
	require.NoError(t, q.Push(record("BUSINESS BAY")))
	assert.Equal(t, 2, q.Len())
}

func TestPredictionQueue_PushFull(t *testing.T) {
	q := NewPredictionQueue(1, 10, time.Second, logrus.New())

	require.NoError(t, q.Push(record("DUBAI MARINA")))
	err := q.Push(record("BUSINESS BAY"))
	assert.ErrorIs(t, err, ErrQueueFull)
}

func TestPredictionQueue_PushAfterClose(t *testing.T) {
	q := NewPredictionQueue(4, 10, time.Second, logrus.New())
	q.Start()
	require.NoError(t, q.Close())

	assert.True(t, q.IsClosed())
	assert.ErrorIs(t, q.Push(record("DUBAI MARINA")), ErrQueueClosed)
}

func TestPredictionQueue_CloseIsIdempotent(t *testing.T) {
	q := NewPredictionQueue(4, 10, time.Second, logrus.New())
	q.Start()

	require.NoError(t, q.Close())
	require.NoError(t, q.Close())
}

func TestPredictionQueue_FlushesFullBatch(t *testing.T) {
	c := &collector{}
	q := NewPredictionQueue(16, 3, time.Hour, logrus.New())
	q.Subscribe(c.handle)
	q.Start()
	defer q.Close()

	for i := 0; i < 3; i++ {
		require.NoError(t, q.Push(record("DUBAI MARINA")))
	}

	// The flush interval is an hour, so only the size trigger can
	// deliver this batch.
	assert.Eventually(t, func() bool {
		batches := c.snapshot()
		return len(batches) == 1 && len(batches[0]) == 3
	}, time.Second, 10*time.Millisecond)
}

func TestPredictionQueue_FlushesPartialBatchOnTimer(t *testing.T) {
	c := &collector{}
	q := NewPredictionQueue(16, 100, 20*time.Millisecond, logrus.New())
	q.Subscribe(c.handle)
	q.Start()
	defer q.Close()

	require.NoError(t, q.Push(record("DUBAI MARINA")))

	assert.Eventually(t, func() bool {
		return c.total() == 1
	}, time.Second, 10*time.Millisecond)
}

func TestPredictionQueue_CloseDrainsBuffered(t *testing.T) {
	c := &collector{}
	q := NewPredictionQueue(16, 100, time.Hour, logrus.New())
	q.Subscribe(c.handle)
	q.Start()

	for i := 0; i < 5; i++ {
		require.NoError(t, q.Push(record("JVC")))
	}
	require.NoError(t, q.Close())

	assert.Equal(t, 5, c.total())
}

func TestPredictionQueue_MultipleSubscribers(t *testing.T) {
	first := &collector{}
	second := &collector{}
	q := NewPredictionQueue(16, 2, time.Hour, logrus.New())
	q.Subscribe(first.handle)
	q.Subscribe(second.handle)
	q.Start()

	require.NoError(t, q.Push(record("DUBAI MARINA")))
	require.NoError(t, q.Push(record("BUSINESS BAY")))
	require.NoError(t, q.Close())

	assert.Equal(t, 2, first.total())
	assert.Equal(t, 2, second.total())
}

func TestPredictionQueue_HandlerErrorDoesNotStopFlushing(t *testing.T) {
	c := &collector{}
	q := NewPredictionQueue(16, 1, time.Hour, logrus.New())
	q.Subscribe(func(batch []*models.PredictionRecord) error {
		return assert.AnError
	})
	q.Subscribe(c.handle)
	q.Start()

	require.NoError(t, q.Push(record("DUBAI MARINA")))
	require.NoError(t, q.Push(record("BUSINESS BAY")))
	require.NoError(t, q.Close())

	assert.Equal(t, 2, c.total())
}
