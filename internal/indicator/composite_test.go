package indicator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"optrader/internal/market"
)

func TestCompositeWeightsSumToOne(t *testing.T) {
	var sum float64
	for _, w := range compositeWeights {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestAggregate(t *testing.T) {
	t.Run("max bullish readings", func(t *testing.T) {
		sig := aggregate([]Reading{
			{Name: "rsi", Score: 100},
			{Name: "macd", Score: 80},
			{Name: "bollinger", Score: 70},
			{Name: "supertrend", Score: 90},
			{Name: "ema", Score: 85},
		})
		assert.InDelta(t, 85.5, sig.TotalScore, 1e-9)
		assert.Equal(t, Buy, sig.Action)
		assert.InDelta(t, 85.5, sig.Confidence, 1e-9)
	})

	t.Run("max bearish readings", func(t *testing.T) {
		sig := aggregate([]Reading{
			{Name: "rsi", Score: -100},
			{Name: "macd", Score: -80},
			{Name: "bollinger", Score: -70},
			{Name: "supertrend", Score: -90},
			{Name: "ema", Score: -85},
		})
		assert.Equal(t, Sell, sig.Action)
		assert.InDelta(t, 85.5, sig.Confidence, 1e-9)
	})

	t.Run("threshold is inclusive", func(t *testing.T) {
		// rsi weight 0.20, score 250 -> exactly 50.
		sig := aggregate([]Reading{{Name: "rsi", Score: 250}})
		assert.Equal(t, Buy, sig.Action)

		sig = aggregate([]Reading{{Name: "rsi", Score: 249}})
		assert.Equal(t, Neutral, sig.Action)
		assert.InDelta(t, 100-49.8, sig.Confidence, 1e-9)
	})

	t.Run("empty readings are neutral at full confidence", func(t *testing.T) {
		sig := aggregate(nil)
		assert.Equal(t, Neutral, sig.Action)
		assert.Equal(t, 100.0, sig.Confidence)
	})
}

func TestComposite(t *testing.T) {
	t.Run("short history degrades to neutral", func(t *testing.T) {
		series := flatSeries(5, 21500)
		sig := Composite(series)
		assert.Equal(t, Neutral, sig.Action)
		assert.Len(t, sig.Readings, 5)
		for _, r := range sig.Readings {
			assert.Zero(t, r.Score, r.Name)
		}
	})

	t.Run("quiet market leans on trend reading only", func(t *testing.T) {
		series := flatSeries(60, 21500)
		sig := Composite(series)
		// RSI/MACD/Bollinger/EMA are neutral on a flat tape; supertrend
		// reads sell, which alone cannot clear the threshold.
		assert.Equal(t, Neutral, sig.Action)
		assert.InDelta(t, -18.0, sig.TotalScore, 1e-9)
	})
}

func flatSeries(n int, price float64) market.Series {
	s := make(market.Series, n)
	for i := range s {
		s[i] = market.Candle{Open: price, High: price, Low: price, Close: price}
	}
	return s
}
