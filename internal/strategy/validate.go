package strategy

import (
	"errors"
	"fmt"
	"time"

	"optrader/internal/market"
)

// Signals are rejected this close to the session boundaries.
const boundaryBuffer = 30 * time.Minute

var (
	ErrTooCloseToOpen   = errors.New("too close to market open")
	ErrTooCloseToClose  = errors.New("too close to market close")
	ErrTargetBelowEntry = errors.New("target must be above entry")
)

// Validate runs exactly once per signal, immediately before the signal is
// offered to the risk gate. A rejected signal is discarded, never retried.
func (e *Engine) Validate(sig *Signal, now time.Time) error {
	if sig == nil {
		return errors.New("nil signal")
	}
	if !e.clock.IsTradingDay(now) {
		return fmt.Errorf("%s is not a trading day", now.In(market.IST).Format("2006-01-02"))
	}
	if since := market.SinceOpen(now); since < boundaryBuffer {
		return fmt.Errorf("%w (open was %s ago)", ErrTooCloseToOpen, since.Truncate(time.Second))
	}
	if until := market.UntilClose(now); until < boundaryBuffer {
		return fmt.Errorf("%w (%s remaining)", ErrTooCloseToClose, until.Truncate(time.Second))
	}
	if sig.Strategy == ATMCall && sig.Target <= sig.Entry {
		return ErrTargetBelowEntry
	}
	return nil
}
