package risk

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"optrader/internal/market"
)

type fakeLedger struct {
	pnl     float64
	trades  int
	open    int
	wins    int
	total   int
	err     error
	winErr  error
}

func (f *fakeLedger) DailyRealizedPnL(context.Context, string, time.Time) (float64, error) {
	return f.pnl, f.err
}

func (f *fakeLedger) TradesOn(context.Context, string, time.Time) (int, error) {
	return f.trades, f.err
}

func (f *fakeLedger) CountOpen(context.Context, string) (int, error) {
	return f.open, f.err
}

func (f *fakeLedger) WinRate(context.Context, string, time.Time) (int, int, error) {
	return f.wins, f.total, f.winErr
}

func testClock() *market.FixedClock {
	return &market.FixedClock{At: time.Date(2026, 8, 26, 12, 0, 0, 0, market.IST)}
}

func TestGateCheck(t *testing.T) {
	ctx := context.Background()

	t.Run("clean slate is approved", func(t *testing.T) {
		g := NewGate(DefaultRules(), &fakeLedger{}, testClock())
		dec, err := g.Check(ctx, "ACC1")
		require.NoError(t, err)
		assert.True(t, dec.Approved)
		assert.Empty(t, dec.Reason)
		assert.Equal(t, 3, dec.Snapshot.TradesRemaining)
		assert.Equal(t, 4, dec.Snapshot.PositionSlotsFree)
	})

	t.Run("circuit breaker dominates every other reason", func(t *testing.T) {
		g := NewGate(DefaultRules(), &fakeLedger{pnl: -20001, trades: 0, open: 0}, testClock())
		dec, err := g.Check(ctx, "ACC1")
		require.NoError(t, err)
		assert.False(t, dec.Approved)
		assert.True(t, dec.Snapshot.CircuitBreakerHit)
		assert.Contains(t, dec.Reason, "circuit breaker")
	})

	t.Run("breaker trips exactly at the limit", func(t *testing.T) {
		g := NewGate(DefaultRules(), &fakeLedger{pnl: -20000}, testClock())
		dec, err := g.Check(ctx, "ACC1")
		require.NoError(t, err)
		assert.False(t, dec.Approved)
		assert.True(t, dec.Snapshot.CircuitBreakerHit)
	})

	t.Run("profit never trips the breaker", func(t *testing.T) {
		g := NewGate(DefaultRules(), &fakeLedger{pnl: 35000}, testClock())
		dec, err := g.Check(ctx, "ACC1")
		require.NoError(t, err)
		assert.True(t, dec.Approved)
		assert.False(t, dec.Snapshot.CircuitBreakerHit)
	})

	t.Run("daily trade cap", func(t *testing.T) {
		g := NewGate(DefaultRules(), &fakeLedger{trades: 3}, testClock())
		dec, err := g.Check(ctx, "ACC1")
		require.NoError(t, err)
		assert.False(t, dec.Approved)
		assert.Contains(t, dec.Reason, "trade cap")
		assert.Zero(t, dec.Snapshot.TradesRemaining)
	})

	t.Run("open position cap", func(t *testing.T) {
		g := NewGate(DefaultRules(), &fakeLedger{open: 4}, testClock())
		dec, err := g.Check(ctx, "ACC1")
		require.NoError(t, err)
		assert.False(t, dec.Approved)
		assert.Contains(t, dec.Reason, "position cap")
	})

	t.Run("ledger failure is an error, not a rejection", func(t *testing.T) {
		g := NewGate(DefaultRules(), &fakeLedger{err: errors.New("db locked")}, testClock())
		_, err := g.Check(ctx, "ACC1")
		assert.Error(t, err)
	})
}

func TestSizePosition(t *testing.T) {
	ctx := context.Background()

	t.Run("kelly sizing respects the hard cap", func(t *testing.T) {
		g := NewGate(DefaultRules(), &fakeLedger{wins: 8, total: 10}, testClock())
		// risk 20000 over 300 points -> 66 raw, 16 after kelly, capped at 1
		size := g.SizePosition(ctx, "NIFTY", 21700, 21400, 1_000_000)
		assert.Equal(t, 1, size)
	})

	t.Run("empty history still sizes", func(t *testing.T) {
		g := NewGate(DefaultRules(), &fakeLedger{}, testClock())
		size := g.SizePosition(ctx, "NIFTY", 21700, 21400, 1_000_000)
		assert.Equal(t, 1, size)
	})

	t.Run("tiny balance can round to zero", func(t *testing.T) {
		g := NewGate(DefaultRules(), &fakeLedger{}, testClock())
		// risk 200 over 10000 points -> raw 0
		size := g.SizePosition(ctx, "NIFTY", 31400, 21400, 10_000)
		assert.Equal(t, 0, size)
	})

	t.Run("defaults to one lot on bad inputs", func(t *testing.T) {
		g := NewGate(DefaultRules(), &fakeLedger{winErr: errors.New("db locked")}, testClock())
		assert.Equal(t, 1, g.SizePosition(ctx, "NIFTY", 21700, 21400, 1_000_000))

		g = NewGate(DefaultRules(), &fakeLedger{}, testClock())
		assert.Equal(t, 1, g.SizePosition(ctx, "NIFTY", 21700, 21400, 0))
		assert.Equal(t, 1, g.SizePosition(ctx, "NIFTY", 21500, 21500, 1_000_000))
	})

	t.Run("never exceeds max position size", func(t *testing.T) {
		rules := DefaultRules()
		rules.MaxPositionSize = 2
		g := NewGate(rules, &fakeLedger{}, testClock())
		for _, stop := range []float64{21699, 21650, 21500, 21000} {
			size := g.SizePosition(ctx, "NIFTY", 21700, stop, 10_000_000)
			assert.LessOrEqual(t, size, 2)
		}
	})
}

func TestRulesValidate(t *testing.T) {
	assert.NoError(t, DefaultRules().Validate())

	bad := DefaultRules()
	bad.MaxDailyLoss = 0
	assert.Error(t, bad.Validate())

	bad = DefaultRules()
	bad.MaxTradesPerDay = -1
	assert.Error(t, bad.Validate())

	bad = DefaultRules()
	bad.MaxRiskPerTrade = 1.5
	assert.Error(t, bad.Validate())

	bad = DefaultRules()
	bad.KellyMultiplier = 0
	assert.Error(t, bad.Validate())
}
