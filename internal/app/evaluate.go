package app

import (
	"context"
	"math/rand"
	"sort"
	"time"

	"optrader/internal/broker"
	"optrader/internal/greeks"
	"optrader/internal/indicator"
	"optrader/internal/logger"
	"optrader/internal/market"
	"optrader/internal/strategy"
)

// evaluate is one pipeline cycle: pull a quote, extend the series, score
// every strategy variant, and hand the best surviving signal to the
// executor. Rejections along the way are logged and dropped; only ledger
// and placement problems are real errors.
func (a *App) evaluate(ctx context.Context) {
	now := a.clock.Now()
	if !a.clock.IsTradingDay(now) {
		logger.Debugf("not a trading day, skipping evaluation")
		return
	}
	if !market.WithinSession(now) {
		logger.Debugf("outside session hours, skipping evaluation")
		return
	}
	if a.exec.Halted() {
		logger.Errorf("executor halted, evaluation suspended until ledger is reconciled")
		return
	}

	if a.walker != nil {
		a.walker.step(a.paper, now)
	}
	quotes, err := a.data.Quote(ctx, []string{a.cfg.Market.Symbol})
	if err != nil {
		logger.Errorf("quote fetch failed: %v", err)
		return
	}
	quote, ok := quotes[a.cfg.Market.Symbol]
	if !ok || quote.LastPrice <= 0 {
		logger.Warnf("no usable quote for %s", a.cfg.Market.Symbol)
		return
	}
	a.appendBar(quote, now)

	spot := quote.LastPrice
	closes := a.series.Closes()

	comp := indicator.Composite(a.series)
	logger.Infof("composite: action=%s score=%.1f confidence=%.1f",
		comp.Action, comp.TotalScore, comp.Confidence)

	candidate := a.bestSignal(spot, closes)
	if candidate == nil {
		logger.Debugf("no strategy reached the minimum score")
		return
	}
	if err := a.engine.Validate(candidate, now); err != nil {
		logger.Warnf("signal %s rejected: %v", candidate.Strategy, err)
		return
	}

	side := broker.Buy
	if candidate.Strategy != strategy.ATMCall {
		side = broker.Sell // premium-collection variants sell the structure
	}
	quantity := a.gate.SizePosition(ctx, candidate.Symbol, candidate.Entry, candidate.StopLoss, a.cfg.Trading.AccountBalance)
	if quantity <= 0 {
		logger.Warnf("position size came out zero for %s, skipping", candidate.Symbol)
		return
	}

	receipt, err := a.exec.Place(ctx, candidate, side, quantity)
	if err != nil {
		logger.Errorf("placement failed for %s: %v", candidate.Strategy, err)
		return
	}
	logger.Infof("trade on: %s %s x%d (order_id=%s)", side, receipt.Symbol, receipt.Quantity, receipt.OrderID)
}

// bestSignal scores every variant and returns the highest-scoring one.
func (a *App) bestSignal(spot float64, closes []float64) *strategy.Signal {
	rsi := indicator.RSI(closes, indicator.DefaultRSIPeriod)
	macd := indicator.MACD(closes)

	var candidates []*strategy.Signal
	if sig := a.engine.ATMCallSignal(spot, closes, rsi, macd.Line, macd.Signal); sig != nil {
		candidates = append(candidates, sig)
	}
	if sig := a.engine.IronCondorSignal(spot, a.cfg.Trading.IVPercentile); sig != nil {
		candidates = append(candidates, sig)
	}
	if legs, err := a.strangleLegs(spot); err != nil {
		logger.Warnf("strangle greeks unavailable: %v", err)
	} else if sig := a.engine.ShortStrangleSignal(spot, legs); sig != nil {
		candidates = append(candidates, sig)
	}
	if front, back, err := a.calendarLegs(spot); err != nil {
		logger.Warnf("calendar greeks unavailable: %v", err)
	} else if sig := a.engine.CalendarSpreadSignal(spot, front, back); sig != nil {
		candidates = append(candidates, sig)
	}

	if len(candidates) == 0 {
		return nil
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Score > candidates[j].Score })
	return candidates[0]
}

// strangleLegs prices the two short legs 200 points either side of ATM.
func (a *App) strangleLegs(spot float64) (map[string]greeks.Snapshot, error) {
	atm := strategy.ATMStrike(spot)
	iv := a.cfg.Trading.ImpliedVol
	days := a.cfg.Market.ExpiryDays

	ce, err := greeks.PriceAndGreeks(spot, atm+200, days, greeks.Call, iv, greeks.DefaultRiskFreeRate)
	if err != nil {
		return nil, err
	}
	pe, err := greeks.PriceAndGreeks(spot, atm-200, days, greeks.Put, iv, greeks.DefaultRiskFreeRate)
	if err != nil {
		return nil, err
	}
	return map[string]greeks.Snapshot{"sell_ce": ce, "sell_pe": pe}, nil
}

// calendarLegs prices the ATM call at the near and far expiries.
func (a *App) calendarLegs(spot float64) (front, back greeks.Snapshot, err error) {
	atm := strategy.ATMStrike(spot)
	iv := a.cfg.Trading.ImpliedVol
	days := a.cfg.Market.ExpiryDays

	front, err = greeks.PriceAndGreeks(spot, atm, days, greeks.Call, iv, greeks.DefaultRiskFreeRate)
	if err != nil {
		return front, back, err
	}
	back, err = greeks.PriceAndGreeks(spot, atm, days+28, greeks.Call, iv, greeks.DefaultRiskFreeRate)
	return front, back, err
}

func (a *App) appendBar(q market.Quote, now time.Time) {
	bar := market.Candle{
		Time:   now,
		Open:   q.LastPrice,
		High:   q.LastPrice,
		Low:    q.LastPrice,
		Close:  q.LastPrice,
		Volume: float64(q.Volume),
	}
	if n := len(a.series); n > 0 {
		prev := a.series[n-1]
		if q.LastPrice > prev.Close {
			bar.Low = prev.Close
		} else {
			bar.High = prev.Close
		}
	}
	a.series = append(a.series, bar)
	if max := a.cfg.Market.MaxCachedBars; len(a.series) > max {
		a.series = a.series[len(a.series)-max:]
	}
}

// randomWalk feeds the paper broker when no live quote source exists.
type randomWalk struct {
	symbol string
	price  float64
	rng    *rand.Rand
}

func newRandomWalk(symbol string, start float64) *randomWalk {
	return &randomWalk{symbol: symbol, price: start, rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (w *randomWalk) step(p *broker.Paper, now time.Time) {
	w.price += (w.rng.Float64() - 0.5) * 40
	p.SetQuote(w.symbol, w.price, now)
}
