package queue

import (
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"dubaiprice/server/internal/models"
)

var (
	ErrQueueFull   = errors.New("queue is full")
	ErrQueueClosed = errors.New("queue is closed")
)

// PredictionQueue buffers prediction records and hands them to
// subscribers in batches, either when a batch fills up or when the
// flush interval elapses with a partial batch pending.
type PredictionQueue struct {
	items    chan *models.PredictionRecord
	done     chan struct{}
	maxBatch int
	flushGap time.Duration
	closed   bool
	mu       sync.RWMutex
	wg       sync.WaitGroup
	logger   *logrus.Logger
	handlers []func([]*models.PredictionRecord) error
}

// NewPredictionQueue creates a queue with the given buffer size, batch
// size and flush interval.
func NewPredictionQueue(bufferSize, maxBatch int, flushGap time.Duration, logger *logrus.Logger) *PredictionQueue {
	if maxBatch < 1 {
		maxBatch = 1
	}
	return &PredictionQueue{
		items:    make(chan *models.PredictionRecord, bufferSize),
		done:     make(chan struct{}),
		maxBatch: maxBatch,
		flushGap: flushGap,
		logger:   logger,
	}
}

// Push adds a record to the queue. The send is non-blocking: a full
// queue returns ErrQueueFull so callers can degrade to dropping the
// record instead of stalling a prediction response.
func (q *PredictionQueue) Push(record *models.PredictionRecord) error {
	q.mu.RLock()
	if q.closed {
		q.mu.RUnlock()
		return ErrQueueClosed
	}
	q.mu.RUnlock()

	select {
	case q.items <- record:
		return nil
	default:
		return ErrQueueFull
	}
}

// Subscribe adds a handler that will be called with each flushed batch.
func (q *PredictionQueue) Subscribe(handler func([]*models.PredictionRecord) error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers = append(q.handlers, handler)
}

// Start begins accumulating and flushing batches.
func (q *PredictionQueue) Start() {
	q.wg.Add(1)
	go q.process()
}

// process accumulates records until the batch is full or the flush
// timer fires, then delivers the batch to all subscribers.
func (q *PredictionQueue) process() {
	defer q.wg.Done()

	batch := make([]*models.PredictionRecord, 0, q.maxBatch)
	timer := time.NewTimer(q.flushGap)
	defer timer.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		q.deliver(batch)
		batch = make([]*models.PredictionRecord, 0, q.maxBatch)
	}

	for {
		select {
		case <-q.done:
			// Drain whatever is still buffered before stopping.
			for {
				select {
				case record := <-q.items:
					batch = append(batch, record)
				default:
					flush()
					return
				}
			}
		case record := <-q.items:
			batch = append(batch, record)
			if len(batch) >= q.maxBatch {
				flush()
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(q.flushGap)
			}
		case <-timer.C:
			flush()
			timer.Reset(q.flushGap)
		}
	}
}

func (q *PredictionQueue) deliver(batch []*models.PredictionRecord) {
	q.mu.RLock()
	handlers := q.handlers
	q.mu.RUnlock()

	q.logger.WithField("batch_size", len(batch)).Debug("Flushing prediction batch")
	for _, handler := range handlers {
		if err := handler(batch); err != nil {
			q.logger.WithError(err).Error("Handler failed to process prediction batch")
		}
	}
}

// Close stops the queue after draining buffered records. Further pushes
// return ErrQueueClosed.
func (q *PredictionQueue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	q.mu.Unlock()

	close(q.done)
	q.wg.Wait()
	return nil
}

// Len returns the number of buffered records not yet batched.
func (q *PredictionQueue) Len() int {
	return len(q.items)
}

// IsClosed reports whether the queue has been closed.
func (q *PredictionQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
