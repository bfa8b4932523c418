package sync

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/taskdeck/searchd/internal/metrics"
)

// Scheduler runs SyncAll on a fixed interval until its context is
// cancelled. A run that fails only logs; the next tick tries again.
type Scheduler struct {
	svc      *Service
	interval time.Duration
	log      *zap.Logger
}

// NewScheduler creates a periodic resync scheduler.
func NewScheduler(svc *Service, interval time.Duration, log *zap.Logger) *Scheduler {
	return &Scheduler{svc: svc, interval: interval, log: log}
}

// Run blocks until ctx is done. The first resync happens immediately so a
// fresh deployment converges without waiting a full interval.
func (s *Scheduler) Run(ctx context.Context) {
	s.log.Info("resync scheduler started", zap.Duration("interval", s.interval))

	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("resync scheduler stopped")
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	started := time.Now()
	ok := s.svc.SyncAll(ctx)
	took := time.Since(started)

	metrics.RecordResync(took)
	s.log.Info("scheduled resync run",
		zap.Bool("clean", ok),
		zap.Duration("took", took))
}
