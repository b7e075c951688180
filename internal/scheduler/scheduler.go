// Package scheduler runs the periodic cache warm for leaderboard views so
// the most requested listings are never computed on a user's request.
package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"

	"hekaya/internal/logger"
)

// Warmer recomputes the hot leaderboard views
type Warmer interface {
	WarmLeaderboards(ctx context.Context)
}

// Scheduler owns the background job loop
type Scheduler struct {
	cron   *gocron.Scheduler
	warmer Warmer
	log    *logger.Logger
}

// New creates a scheduler that warms leaderboards every interval.
func New(warmer Warmer, interval time.Duration, log *logger.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:   gocron.NewScheduler(time.UTC),
		warmer: warmer,
		log:    log.With("component", "scheduler"),
	}

	_, err := s.cron.Every(interval).Do(s.warmRun)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Start launches the job loop in the background.
func (s *Scheduler) Start() {
	s.cron.StartAsync()
	s.log.Info("scheduler started", "jobs", len(s.cron.Jobs()))
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.log.Info("scheduler stopped")
}

func (s *Scheduler) warmRun() {
	runID := uuid.NewString()
	start := time.Now()
	s.log.Info("leaderboard warm started", "run_id", runID)

	s.warmer.WarmLeaderboards(context.Background())

	s.log.Info("leaderboard warm finished", "run_id", runID, "duration", time.Since(start))
}
