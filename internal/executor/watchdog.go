package executor

import (
	"context"
	"errors"
	"time"

	"optrader/internal/logger"
	"optrader/internal/market"
	"optrader/internal/scheduler"
)

// WatchdogInterval is how often the square-off check fires.
const WatchdogInterval = 60 * time.Second

// Watchdog is the recurring end-of-day check: whenever the clock lands in
// the square-off window on a trading day it flattens all open positions.
// It never stops on its own; cancelling the context is the only exit.
type Watchdog struct {
	exec     *Executor
	clock    market.Clock
	interval time.Duration
}

func NewWatchdog(exec *Executor, clock market.Clock) *Watchdog {
	return &Watchdog{exec: exec, clock: clock, interval: WatchdogInterval}
}

// Run blocks until ctx is cancelled. Per-sweep failures are logged and
// the loop keeps going; a partially failed sweep retries naturally on the
// next tick because the failed legs are still OPEN.
func (w *Watchdog) Run(ctx context.Context) error {
	tick := scheduler.NewInterval("square-off-watchdog", w.interval)
	return tick.Run(ctx, w.check)
}

func (w *Watchdog) check(ctx context.Context) {
	now := w.clock.Now()
	if !w.clock.IsTradingDay(now) || !market.InSquareOffWindow(now) {
		return
	}
	closed, err := w.exec.SquareOffAll(ctx)
	if err != nil {
		var partial *PartialSquareOffError
		if errors.As(err, &partial) {
			logger.Errorf("square-off incomplete: closed=%v still_open=%d", partial.Closed, len(partial.Failed))
			return
		}
		logger.Errorf("square-off sweep failed: %v", err)
		return
	}
	if len(closed) > 0 {
		logger.Infof("square-off complete: %v", closed)
	}
}
