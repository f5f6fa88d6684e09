package risk

import (
	"context"
	"time"

	"optrader/internal/logger"

	"github.com/shopspring/decimal"
)

// winRateWindow is the trailing window for the Kelly edge estimate.
const winRateWindow = 30 * 24 * time.Hour

// SizePosition computes the lot count for one entry: 2% of the balance at
// risk over the entry-stop distance, scaled by the conservative Kelly
// multiplier and capped at the maximum position size. Sizing fails open to
// the minimum tradable size (1 lot) on any computation failure - the hard
// stop lives in Check, not here.
func (g *Gate) SizePosition(ctx context.Context, symbol string, entry, stop, balance float64) int {
	if balance <= 0 {
		logger.Warnf("position sizing: non-positive balance %.2f, defaulting to 1 lot", balance)
		return 1
	}
	points := decimal.NewFromFloat(entry).Sub(decimal.NewFromFloat(stop)).Abs()
	if points.IsZero() {
		logger.Warnf("position sizing: entry equals stop (%s), defaulting to 1 lot", symbol)
		return 1
	}

	// Trailing win rate. An empty ledger counts as 1/1 so the division
	// is defined; the Kelly multiplier and the hard cap bound the
	// optimism of that default.
	since := g.clock.Now().Add(-winRateWindow)
	wins, total, err := g.ledger.WinRate(ctx, symbol, since)
	if err != nil {
		logger.Warnf("position sizing: win rate query failed (%s): %v, defaulting to 1 lot", symbol, err)
		return 1
	}
	if total == 0 {
		wins, total = 1, 1
	}
	winRate := float64(wins) / float64(total)

	riskAmount := decimal.NewFromFloat(balance).Mul(decimal.NewFromFloat(g.rules.MaxRiskPerTrade))
	rawSize := riskAmount.Div(points).IntPart()
	kellySize := decimal.NewFromInt(rawSize).Mul(decimal.NewFromFloat(g.rules.KellyMultiplier)).IntPart()

	size := int(kellySize)
	if size > g.rules.MaxPositionSize {
		size = g.rules.MaxPositionSize
	}
	logger.Infof("position size %s: %d lots (raw=%d win_rate=%.2f over %d trades)", symbol, size, rawSize, winRate, total)
	return size
}
