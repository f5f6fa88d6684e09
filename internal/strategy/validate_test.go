package strategy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"optrader/internal/market"
)

func TestValidate(t *testing.T) {
	day := time.Date(2026, 8, 26, 0, 0, 0, 0, market.IST) // Wednesday
	at := func(h, m int) time.Time {
		return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
	}

	sig := &Signal{Strategy: IronCondor, Symbol: "NIFTY", Score: 90, Entry: 21500, StopLoss: 21500, Target: 21500}

	t.Run("rejects right after the open", func(t *testing.T) {
		e := testEngine(DefaultMinScore, at(9, 20))
		err := e.Validate(sig, at(9, 20))
		assert.ErrorIs(t, err, ErrTooCloseToOpen)
	})

	t.Run("accepts at 09:45", func(t *testing.T) {
		e := testEngine(DefaultMinScore, at(9, 45))
		assert.NoError(t, e.Validate(sig, at(9, 45)))
	})

	t.Run("rejects in the final half hour", func(t *testing.T) {
		e := testEngine(DefaultMinScore, at(15, 10))
		err := e.Validate(sig, at(15, 10))
		assert.ErrorIs(t, err, ErrTooCloseToClose)
	})

	t.Run("rejects on a holiday regardless of score", func(t *testing.T) {
		e := NewEngine("NIFTY", DefaultMinScore, &market.FixedClock{At: at(12, 0), Holiday: true})
		assert.Error(t, e.Validate(sig, at(12, 0)))
	})

	t.Run("directional signal needs target above entry", func(t *testing.T) {
		e := testEngine(DefaultMinScore, at(12, 0))
		bad := &Signal{Strategy: ATMCall, Symbol: "NIFTY", Entry: 21800, StopLoss: 21300, Target: 21700}
		err := e.Validate(bad, at(12, 0))
		assert.ErrorIs(t, err, ErrTargetBelowEntry)

		good := &Signal{Strategy: ATMCall, Symbol: "NIFTY", Entry: 21700, StopLoss: 21300, Target: 21800}
		assert.NoError(t, e.Validate(good, at(12, 0)))
	})

	t.Run("nil signal", func(t *testing.T) {
		e := testEngine(DefaultMinScore, at(12, 0))
		assert.Error(t, e.Validate(nil, at(12, 0)))
	})
}
