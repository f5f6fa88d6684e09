package indicator

import (
	"errors"
	"fmt"

	"github.com/markcheno/go-talib"
)

// Default periods, matching the signal engine's tuning.
const (
	DefaultRSIPeriod     = 14
	MACDFastPeriod       = 12
	MACDSlowPeriod       = 26
	MACDSignalPeriod     = 9
	BollingerPeriod      = 20
	SupertrendPeriod     = 10
	SupertrendMultiplier = 3.0
	EMAFastPeriod        = 9
	EMASlowPeriod        = 21
)

// ErrInsufficientData marks an indicator that was asked for more history
// than the series holds. Callers substitute a neutral reading.
var ErrInsufficientData = errors.New("insufficient data")

// RSI computes the relative strength index over the last period+1 samples.
// With fewer samples it returns the neutral 50 instead of failing; callers
// must treat that as "no reading", not as a real midpoint.
func RSI(prices []float64, period int) float64 {
	if period <= 0 || len(prices) < period+1 {
		return 50.0
	}
	window := prices[len(prices)-period-1:]
	var gains, losses float64
	for i := 1; i < len(window); i++ {
		delta := window[i] - window[i-1]
		if delta > 0 {
			gains += delta
		} else {
			losses -= delta
		}
	}
	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)
	if avgLoss == 0 {
		if avgGain > 0 {
			return 100.0
		}
		return 50.0
	}
	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}

// EMA is the recursive exponential average with multiplier 2/(period+1),
// seeded by the first price. The seed matters: reference backtests were
// produced with a first-price seed, not an SMA seed.
func EMA(prices []float64, period int) float64 {
	s := emaSeries(prices, period)
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1]
}

func emaSeries(prices []float64, period int) []float64 {
	if len(prices) == 0 {
		return nil
	}
	k := 2.0 / float64(period+1)
	out := make([]float64, len(prices))
	out[0] = prices[0]
	for i := 1; i < len(prices); i++ {
		out[i] = prices[i]*k + out[i-1]*(1-k)
	}
	return out
}

// MACDResult carries the MACD line, its signal line and the histogram.
type MACDResult struct {
	Line      float64
	Signal    float64
	Histogram float64
}

// MACD computes MACD(12,26,9). Shorter series than the slow period yield
// the zero result, which downstream scoring reads as neutral.
func MACD(prices []float64) MACDResult {
	if len(prices) < MACDSlowPeriod {
		return MACDResult{}
	}
	fast := emaSeries(prices, MACDFastPeriod)
	slow := emaSeries(prices, MACDSlowPeriod)
	macd := make([]float64, len(prices))
	for i := range prices {
		macd[i] = fast[i] - slow[i]
	}
	signal := emaSeries(macd, MACDSignalPeriod)
	line := macd[len(macd)-1]
	sig := signal[len(signal)-1]
	return MACDResult{Line: line, Signal: sig, Histogram: line - sig}
}

// BollingerResult holds the band values plus the price position inside the
// band: (price-lower)/(upper-lower). Below 0.2 is oversold, above 0.8
// overbought.
type BollingerResult struct {
	Upper    float64
	Middle   float64
	Lower    float64
	Position float64
}

func (b BollingerResult) Oversold() bool   { return b.Position < 0.2 }
func (b BollingerResult) Overbought() bool { return b.Position > 0.8 }

// Bollinger computes 2-sigma bands over period samples.
func Bollinger(prices []float64, period int) (BollingerResult, error) {
	if period <= 0 {
		return BollingerResult{}, fmt.Errorf("bollinger: invalid period %d", period)
	}
	if len(prices) < period {
		return BollingerResult{}, ErrInsufficientData
	}
	upper, middle, lower := talib.BBands(prices, period, 2, 2, talib.SMA)
	last := len(prices) - 1
	res := BollingerResult{Upper: upper[last], Middle: middle[last], Lower: lower[last]}
	if width := res.Upper - res.Lower; width != 0 {
		res.Position = (prices[last] - res.Lower) / width
	} else {
		res.Position = 0.5
	}
	return res, nil
}

// SupertrendResult carries the band value and the trend direction:
// +1 buy, -1 sell.
type SupertrendResult struct {
	Value     float64
	Direction int
}

// Supertrend computes the ATR-band trend indicator. The direction flips to
// -1 when close <= upper band and to +1 otherwise. It is only defined from
// index >= period, so the series must be longer than that.
func Supertrend(high, low, close []float64, period int, multiplier float64) (SupertrendResult, error) {
	n := len(close)
	if len(high) != n || len(low) != n {
		return SupertrendResult{}, fmt.Errorf("supertrend: series length mismatch (%d/%d/%d)", len(high), len(low), n)
	}
	if period <= 0 {
		return SupertrendResult{}, fmt.Errorf("supertrend: invalid period %d", period)
	}
	if n <= period {
		return SupertrendResult{}, ErrInsufficientData
	}
	atr := talib.Atr(high, low, close, period)
	var res SupertrendResult
	for i := period; i < n; i++ {
		hl := (high[i] + low[i]) / 2
		upper := hl + multiplier*atr[i]
		lower := hl - multiplier*atr[i]
		if close[i] <= upper {
			res = SupertrendResult{Value: upper, Direction: -1}
		} else {
			res = SupertrendResult{Value: lower, Direction: 1}
		}
	}
	return res, nil
}

// CrossoverResult describes the state of the fast/slow EMA pair. Signal is
// BUY only on the bar where fast crosses above slow, SELL on the bar where
// it crosses below, NEUTRAL otherwise.
type CrossoverResult struct {
	Fast   float64
	Slow   float64
	Above  bool
	Signal Action
}

// EMACrossover evaluates the fast/slow EMA cross on the latest bar.
func EMACrossover(prices []float64, fast, slow int) CrossoverResult {
	if len(prices) < 2 {
		return CrossoverResult{Signal: Neutral}
	}
	fastSeries := emaSeries(prices, fast)
	slowSeries := emaSeries(prices, slow)
	last := len(prices) - 1
	above := fastSeries[last] > slowSeries[last]
	prevAbove := fastSeries[last-1] > slowSeries[last-1]
	res := CrossoverResult{
		Fast:   fastSeries[last],
		Slow:   slowSeries[last],
		Above:  above,
		Signal: Neutral,
	}
	switch {
	case above && !prevAbove:
		res.Signal = Buy
	case !above && prevAbove:
		res.Signal = Sell
	}
	return res
}

// Slope fits a least-squares line through values (x = 0..n-1) and returns
// its gradient. Used for short-window momentum checks.
func Slope(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	var sumX, sumY, sumXY, sumXX float64
	for i, v := range values {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumXX += x * x
	}
	fn := float64(n)
	denom := fn*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (fn*sumXY - sumX*sumY) / denom
}
