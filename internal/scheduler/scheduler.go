package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"dubaiprice/server/internal/reference"
)

// Loader produces a fresh tables bundle, typically by re-reading the
// reference data files.
type Loader func() (*reference.Tables, error)

// Scheduler periodically reloads the reference tables. A successful
// reload swaps the whole bundle atomically; a failed reload keeps the
// previous tables in place.
type Scheduler struct {
	cron   *cron.Cron
	store  *reference.Store
	loader Loader
	spec   string
	logger *logrus.Logger
}

// NewScheduler creates a scheduler with a cron spec like "@hourly" or
// "0 3 * * *".
func NewScheduler(spec string, store *reference.Store, loader Loader, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		store:  store,
		loader: loader,
		spec:   spec,
		logger: logger,
	}
}

// Start registers the reload job and starts the cron loop.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, s.reload)
	if err != nil {
		return fmt.Errorf("invalid reload schedule %q: %w", s.spec, err)
	}
	s.cron.Start()
	s.logger.WithField("schedule", s.spec).Info("Reference table reload scheduled")
	return nil
}

func (s *Scheduler) reload() {
	tables, err := s.loader()
	if err != nil {
		s.logger.WithError(err).Error("Reference table reload failed, keeping current tables")
		return
	}
	s.store.Swap(tables)
	s.logger.WithFields(logrus.Fields{
		"areas":        len(tables.AreaTiers.Names()),
		"size_buckets": tables.SizeRanges.Buckets(),
	}).Info("Reference tables reloaded")
}

// Stop halts the cron loop, waiting for a running reload to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
