package greeks

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceAndGreeks(t *testing.T) {
	t.Run("weekly OTM call", func(t *testing.T) {
		g, err := PriceAndGreeks(21500, 21600, 7, Call, 0.18, DefaultRiskFreeRate)
		require.NoError(t, err)
		assert.InDelta(t, 0.449, g.Delta, 0.02)
		assert.Greater(t, g.Price, 0.0)
		assert.Greater(t, g.Gamma, 0.0)
		assert.Less(t, g.Theta, 0.0)
		assert.Greater(t, g.Vega, 0.0)
		assert.Equal(t, 18.0, g.IV)
	})

	t.Run("put delta mirrors call delta", func(t *testing.T) {
		call, err := PriceAndGreeks(21500, 21600, 7, Call, 0.18, DefaultRiskFreeRate)
		require.NoError(t, err)
		put, err := PriceAndGreeks(21500, 21600, 7, Put, 0.18, DefaultRiskFreeRate)
		require.NoError(t, err)
		assert.Less(t, put.Delta, 0.0)
		assert.GreaterOrEqual(t, put.Delta, -1.0)
		assert.InDelta(t, 1.0, call.Delta-put.Delta, 1e-3)
	})

	t.Run("deep ITM call delta approaches 1", func(t *testing.T) {
		g, err := PriceAndGreeks(21500, 18000, 7, Call, 0.18, DefaultRiskFreeRate)
		require.NoError(t, err)
		assert.Greater(t, g.Delta, 0.99)
	})

	t.Run("degenerate inputs fail fast", func(t *testing.T) {
		cases := []struct {
			name   string
			spot   float64
			strike float64
			days   int
			typ    OptionType
			iv     float64
		}{
			{"zero expiry", 21500, 21600, 0, Call, 0.18},
			{"negative expiry", 21500, 21600, -3, Call, 0.18},
			{"zero vol", 21500, 21600, 7, Call, 0},
			{"negative spot", -1, 21600, 7, Call, 0.18},
			{"zero strike", 21500, 0, 7, Put, 0.18},
			{"unknown type", 21500, 21600, 7, OptionType("XX"), 0.18},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := PriceAndGreeks(tc.spot, tc.strike, tc.days, tc.typ, tc.iv, DefaultRiskFreeRate)
				require.Error(t, err)
				var cerr *ComputationError
				assert.True(t, errors.As(err, &cerr))
			})
		}
	})
}

func TestEvaluateStrategy(t *testing.T) {
	t.Run("balanced iron condor executes", func(t *testing.T) {
		legs := map[string]Snapshot{
			"sell_ce": {Delta: 0.30, Theta: 20, IV: 20},
			"sell_pe": {Delta: -0.29, Theta: 22, IV: 21},
			"buy_ce":  {Delta: 0.10, Theta: 5, IV: 19},
			"buy_pe":  {Delta: -0.09, Theta: 6, IV: 20},
		}
		ev := EvaluateStrategy(IronCondor, legs)
		assert.Equal(t, 80.0, ev.Score)
		assert.Equal(t, Execute, ev.Recommendation)
		assert.Contains(t, ev.Analysis, "delta neutral")
	})

	t.Run("skewed condor waits", func(t *testing.T) {
		legs := map[string]Snapshot{
			"sell_ce": {Delta: 0.45, Theta: 10, IV: 12},
			"sell_pe": {Delta: -0.10, Theta: 8, IV: 12},
		}
		ev := EvaluateStrategy(IronCondor, legs)
		assert.Equal(t, 0.0, ev.Score)
		assert.Equal(t, Wait, ev.Recommendation)
	})

	t.Run("strangle in the delta band executes", func(t *testing.T) {
		legs := map[string]Snapshot{
			"sell_ce": {Delta: 0.30, Theta: 35, IV: 20},
			"sell_pe": {Delta: -0.30, Theta: 30, IV: 21},
		}
		ev := EvaluateStrategy(ShortStrangle, legs)
		assert.Equal(t, 90.0, ev.Score)
		assert.Equal(t, Execute, ev.Recommendation)
	})

	t.Run("strangle outside the band waits", func(t *testing.T) {
		legs := map[string]Snapshot{
			"sell_ce": {Delta: 0.50, Theta: 10, IV: 10},
			"sell_pe": {Delta: -0.10, Theta: 9, IV: 10},
		}
		ev := EvaluateStrategy(ShortStrangle, legs)
		assert.Equal(t, Wait, ev.Recommendation)
	})

	t.Run("unknown kind waits", func(t *testing.T) {
		ev := EvaluateStrategy("butterfly", nil)
		assert.Equal(t, 0.0, ev.Score)
		assert.Equal(t, Wait, ev.Recommendation)
	})
}
