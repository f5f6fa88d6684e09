// Package scheduler runs recurring tasks with explicit cancellation, so
// background loops can be started and halted deterministically in tests.
package scheduler

import (
	"context"
	"time"

	"optrader/internal/logger"
)

// Interval runs a task every Every until the context is cancelled. It has
// no terminal state of its own, only the pause between runs.
type Interval struct {
	Name           string
	Every          time.Duration
	RunImmediately bool

	nowFn func() time.Time
}

func NewInterval(name string, every time.Duration) *Interval {
	return &Interval{Name: name, Every: every, nowFn: time.Now}
}

// Run blocks, invoking task on every tick. It returns nil when ctx is
// cancelled; the task itself never stops the loop.
func (s *Interval) Run(ctx context.Context, task func(context.Context)) error {
	if task == nil || s.Every <= 0 {
		logger.Warnf("scheduler %s: nothing to run (interval=%s)", s.Name, s.Every)
		return nil
	}
	if s.nowFn == nil {
		s.nowFn = time.Now
	}
	logger.Infof("scheduler %s: started interval=%s run_immediately=%v", s.Name, s.Every, s.RunImmediately)

	if s.RunImmediately {
		task(ctx)
	}
	ticker := time.NewTicker(s.Every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Infof("scheduler %s: stopped", s.Name)
			return nil
		case <-ticker.C:
			task(ctx)
		}
	}
}
