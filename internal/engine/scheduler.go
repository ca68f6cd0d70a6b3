package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler re-tracks the whole working set on a fixed interval.
type Scheduler struct {
	cron     *cron.Cron
	engine   *Engine
	interval time.Duration
	log      *slog.Logger
}

// NewScheduler registers a refresh every interval. Runs never overlap: a
// tick that fires while a refresh is still going is skipped, and each run
// is cut off after one interval.
func NewScheduler(eng *Engine, interval time.Duration, log *slog.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		engine:   eng,
		interval: interval,
		log:      log,
	}
	if _, err := s.cron.AddFunc("@every "+interval.String(), s.runRefresh); err != nil {
		return nil, err
	}
	return s, nil
}

// Start runs the cron loop in its own goroutine.
func (s *Scheduler) Start() {
	s.log.Info("scheduler started", "interval", s.interval)
	s.cron.Start()
}

// Stop halts future ticks. The returned context is done once an in-flight
// refresh has returned.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("scheduler stopping")
	return s.cron.Stop()
}

// Entries exposes the registered cron entries.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

func (s *Scheduler) runRefresh() {
	ctx, cancel := context.WithTimeout(context.Background(), s.interval)
	defer cancel()

	sum, err := s.engine.RefreshAll(ctx)
	if err != nil {
		s.log.Error("scheduled refresh failed", "error", err)
		return
	}
	s.log.Info("scheduled refresh finished",
		"refreshed", sum.Refreshed,
		"failed", sum.Failed,
		"triggered", sum.Triggered,
	)
}
