package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"optrader/internal/config"
	"optrader/internal/market"
	"optrader/internal/strategy"
)

func testApp(minScore float64) *App {
	cfg := &config.Config{}
	cfg.Market.Symbol = "NSE:NIFTY 50"
	cfg.Market.Underlying = "NIFTY"
	cfg.Market.ExpiryDays = 7
	cfg.Market.MaxCachedBars = 3
	cfg.Trading.MinSignalScore = minScore
	cfg.Trading.ImpliedVol = 0.15
	cfg.Trading.IVPercentile = 50
	clock := &market.FixedClock{At: time.Date(2026, 8, 26, 12, 0, 0, 0, market.IST)}
	return &App{
		cfg:    cfg,
		clock:  clock,
		engine: strategy.NewEngine(cfg.Market.Underlying, cfg.Trading.MinSignalScore, clock),
	}
}

func TestAppendBar(t *testing.T) {
	a := testApp(70)
	now := time.Date(2026, 8, 26, 10, 0, 0, 0, market.IST)

	for i, price := range []float64{21500, 21520, 21510, 21530, 21540} {
		a.appendBar(market.Quote{Symbol: "NSE:NIFTY 50", LastPrice: price}, now.Add(time.Duration(i)*time.Minute))
	}

	require.Len(t, a.series, 3) // capped
	assert.Equal(t, 21540.0, a.series.Last().Close)

	// A rising bar stretches its low back to the previous close.
	last := a.series[len(a.series)-1]
	assert.Equal(t, 21530.0, last.Low)
	assert.Equal(t, 21540.0, last.High)
}

func TestBestSignal(t *testing.T) {
	a := testApp(70)
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 21500
	}

	sig := a.bestSignal(21500, closes)
	require.NotNil(t, sig)
	// On a flat tape with default expiries the calendar spread is the only
	// variant that clears the bar, on theta decay alone.
	assert.Equal(t, strategy.CalendarSpread, sig.Strategy)
	assert.Equal(t, 85.0, sig.Score)
}

func TestBestSignalPrefersHigherScore(t *testing.T) {
	a := testApp(40)
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 21500
	}

	// Both the condor (50) and the calendar (85) qualify at this threshold.
	sig := a.bestSignal(21500, closes)
	require.NotNil(t, sig)
	assert.Equal(t, strategy.CalendarSpread, sig.Strategy)
}
