package processor

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"dubaiprice/server/config"
	"dubaiprice/server/internal/models"
	"dubaiprice/server/internal/queue"
)

// RecordStore persists prediction record batches.
type RecordStore interface {
	SaveRecords(records []*models.PredictionRecord) error
}

// HistoryProcessor consumes flushed batches from the prediction queue
// and writes them to the history store, with retries for transient
// storage failures.
type HistoryProcessor struct {
	store      RecordStore
	queue      *queue.PredictionQueue
	maxRetries int
	retryDelay time.Duration
	logger     *logrus.Logger
}

// NewHistoryProcessor creates a processor instance.
func NewHistoryProcessor(store RecordStore, q *queue.PredictionQueue, cfg *config.Config, logger *logrus.Logger) *HistoryProcessor {
	return &HistoryProcessor{
		store:      store,
		queue:      q,
		maxRetries: cfg.History.MaxRetries,
		retryDelay: time.Duration(cfg.History.RetryDelay) * time.Second,
		logger:     logger,
	}
}

// Start subscribes the processor to the queue's flushed batches.
func (p *HistoryProcessor) Start() {
	p.queue.Subscribe(p.processBatch)
}

// processBatch persists a single batch with retry logic.
func (p *HistoryProcessor) processBatch(batch []*models.PredictionRecord) error {
	var err error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if attempt > 0 {
			p.logger.Infof("Retrying history batch write, attempt %d of %d", attempt, p.maxRetries)
			time.Sleep(p.retryDelay)
		}

		err = p.store.SaveRecords(batch)
		if err == nil {
			p.logger.WithField("batch_size", len(batch)).Debug("Persisted prediction batch")
			return nil
		}

		p.logger.Errorf("History batch write failed: %v", err)
	}

	return fmt.Errorf("failed to persist batch after %d attempts: %w", p.maxRetries, err)
}
