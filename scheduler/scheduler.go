// Package scheduler drives the nightly sync sweep at a fixed local hour.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/RitamPal26/student-progress-site/services"
)

// Scheduler fires the full-student sweep once per day at the configured
// hour. There is no catch-up: a firing missed because the process was down
// simply waits for the next one.
type Scheduler struct {
	sync   services.SyncService
	logger *slog.Logger
	hour   int
	now    func() time.Time
}

func New(sync services.SyncService, logger *slog.Logger, hour int) *Scheduler {
	return &Scheduler{
		sync:   sync,
		logger: logger,
		hour:   hour,
		now:    time.Now,
	}
}

// Run blocks until ctx is cancelled, firing one sweep per day.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("sync scheduler started", slog.Int("hour", s.hour))

	for {
		next := s.nextRun(s.now())
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("sync scheduler stopped")
			return ctx.Err()
		case <-timer.C:
		}

		s.runSweep(ctx)
	}
}

func (s *Scheduler) runSweep(ctx context.Context) {
	s.logger.Info("nightly sync started")

	report, err := s.sync.SyncAllStudents(ctx)
	if err != nil {
		s.logger.Error("nightly sync failed", slog.Any("error", err))
		return
	}

	s.logger.Info("nightly sync done",
		slog.String("run_id", report.RunID),
		slog.Int("total", report.Total),
		slog.Int("synced", report.Synced),
		slog.Int("failed", report.Failed),
		slog.Duration("took", report.FinishedAt.Sub(report.StartedAt)),
	)
}

// nextRun returns the next occurrence of the fire hour strictly after now.
func (s *Scheduler) nextRun(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), s.hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
