// Package strategy turns indicator and greeks readings into scored,
// executable signals for a single index underlying.
package strategy

import (
	"fmt"

	"optrader/internal/greeks"
	"optrader/internal/indicator"
	"optrader/internal/market"
)

// DefaultMinScore is the score a generator must reach before it emits a
// signal at all.
const DefaultMinScore = 70.0

// Engine generates signals for one underlying. Generators are pure over
// the market state they are handed; only Validate consults the clock.
type Engine struct {
	symbol   string
	minScore float64
	clock    market.Clock
}

func NewEngine(symbol string, minScore float64, clock market.Clock) *Engine {
	if minScore <= 0 {
		minScore = DefaultMinScore
	}
	return &Engine{symbol: symbol, minScore: minScore, clock: clock}
}

// ATMCallSignal scores a directional ATM call entry from RSI, MACD and
// short-window momentum. It returns nil below the minimum score.
func (e *Engine) ATMCallSignal(spot float64, history []float64, rsi, macdLine, macdSignal float64) *Signal {
	var reasons []string
	var score float64

	switch {
	case rsi > 30 && rsi < 70:
		score += 25
		reasons = append(reasons, fmt.Sprintf("RSI %.1f in neutral zone", rsi))
	case rsi <= 30:
		score += 35
		reasons = append(reasons, fmt.Sprintf("RSI %.1f oversold - bullish signal", rsi))
	}

	switch {
	case macdLine > macdSignal && macdLine > 0:
		score += 25
		reasons = append(reasons, "MACD bullish crossover")
	case macdLine > macdSignal:
		score += 15
		reasons = append(reasons, "MACD above signal line")
	}

	if len(history) >= 5 {
		slope := indicator.Slope(history[len(history)-5:])
		if slope > 0 {
			score += 25
			reasons = append(reasons, fmt.Sprintf("uptrend confirmed: %.4f slope", slope))
		} else if slope < -0.1 {
			score -= 15
			reasons = append(reasons, "downtrend - skip signal")
		}
	}

	if score < e.minScore {
		return nil
	}
	atm := ATMStrike(spot)
	return &Signal{
		Strategy: ATMCall,
		Symbol:   e.symbol,
		Score:    score,
		Entry:    spot * 1.01,
		StopLoss: atm - 200,
		Target:   atm + 300,
		Reasons:  reasons,
		At:       e.clock.Now(),
	}
}

// IronCondorSignal scores a delta-neutral condor from the IV percentile.
// Entry, stop and target all collapse to the ATM strike.
func (e *Engine) IronCondorSignal(spot, ivPercentile float64) *Signal {
	var reasons []string
	var score float64

	switch {
	case ivPercentile > 30 && ivPercentile < 70:
		score += 50
		reasons = append(reasons, fmt.Sprintf("IV percentile %.1f ideal for IC", ivPercentile))
	case ivPercentile > 50:
		score += 30
		reasons = append(reasons, fmt.Sprintf("IV percentile %.1f acceptable", ivPercentile))
	default:
		score -= 20
		reasons = append(reasons, fmt.Sprintf("IV percentile %.1f too low for IC", ivPercentile))
	}

	if score < e.minScore {
		return nil
	}
	atm := ATMStrike(spot)
	return &Signal{
		Strategy: IronCondor,
		Symbol:   e.symbol,
		Score:    score,
		Entry:    spot,
		StopLoss: atm,
		Target:   atm,
		Reasons:  reasons,
		At:       e.clock.Now(),
	}
}

// ShortStrangleSignal scores a premium-collection strangle from the greeks
// of its two short legs, keyed "sell_ce" and "sell_pe".
func (e *Engine) ShortStrangleSignal(spot float64, legs map[string]greeks.Snapshot) *Signal {
	ev := greeks.EvaluateStrategy(greeks.ShortStrangle, legs)
	if ev.Score < e.minScore {
		return nil
	}
	atm := ATMStrike(spot)
	return &Signal{
		Strategy: ShortStrangle,
		Symbol:   e.symbol,
		Score:    ev.Score,
		Entry:    spot,
		StopLoss: atm,
		Target:   atm,
		Reasons:  ev.Analysis,
		At:       e.clock.Now(),
	}
}

// CalendarSpreadSignal scores a theta-decay calendar: the front leg must
// decay faster than the back leg, ideally in a moderate IV environment.
func (e *Engine) CalendarSpreadSignal(spot float64, front, back greeks.Snapshot) *Signal {
	var reasons []string
	var score float64

	if front.Theta < back.Theta {
		score += 40
		reasons = append(reasons, fmt.Sprintf("front theta %.2f decays faster than back %.2f", front.Theta, back.Theta))
	}
	avgIV := (front.IV + back.IV) / 2
	switch {
	case avgIV >= 15 && avgIV <= 25:
		score += 30
		reasons = append(reasons, fmt.Sprintf("IV %.1f moderate, favours calendar", avgIV))
	case avgIV > 25:
		score += 10
		reasons = append(reasons, fmt.Sprintf("IV %.1f elevated", avgIV))
	}
	if front.Vega < back.Vega {
		score += 15
		reasons = append(reasons, "net long vega")
	}

	if score < e.minScore {
		return nil
	}
	atm := ATMStrike(spot)
	return &Signal{
		Strategy: CalendarSpread,
		Symbol:   e.symbol,
		Score:    score,
		Entry:    spot,
		StopLoss: atm,
		Target:   atm,
		Reasons:  reasons,
		At:       e.clock.Now(),
	}
}
