// Package processing runs the scheduled re-ingestion of the reference
// document directory into the embedding library.
package processing

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/ideaforge/ideaforge/internal/services/vectors"
)

// Scheduler handles periodic reference library ingestion
type Scheduler struct {
	loader *vectors.Loader
	cron   *cron.Cron
	logger arbor.ILogger
}

// NewScheduler creates a new ingestion scheduler
func NewScheduler(loader *vectors.Loader, logger arbor.ILogger) *Scheduler {
	return &Scheduler{
		loader: loader,
		cron:   cron.New(cron.WithSeconds()),
		logger: logger,
	}
}

// Start begins the scheduled ingestion
func (s *Scheduler) Start(schedule string) error {
	if schedule == "" {
		// Default: every 6 hours
		schedule = "0 0 */6 * * *"
	}

	_, err := s.cron.AddFunc(schedule, func() {
		s.runIngestion()
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info().
		Str("schedule", schedule).
		Msg("Reference ingestion scheduler started")

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info().Msg("Reference ingestion scheduler stopped")
}

// RunNow triggers an immediate ingestion run
func (s *Scheduler) RunNow() {
	s.logger.Info().Msg("Triggering immediate reference ingestion")
	go s.runIngestion()
}

func (s *Scheduler) runIngestion() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	s.logger.Info().Msg("Starting scheduled reference ingestion")

	stats, err := s.loader.Run(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("Scheduled reference ingestion failed")
		return
	}

	s.logger.Info().
		Int("scanned", stats.Scanned).
		Int("uploaded", stats.Uploaded).
		Int("failed", stats.Failed).
		Int("skipped", stats.Skipped).
		Dur("duration", stats.Duration).
		Msg("Scheduled reference ingestion completed")
}
