package risk

import (
	"context"
	"fmt"
	"time"

	"optrader/internal/market"
)

// LedgerReader is the slice of the trade ledger the gate needs. The
// ledger is the single source of truth: the gate recomputes every
// snapshot from it and never caches across decisions.
type LedgerReader interface {
	DailyRealizedPnL(ctx context.Context, account string, day time.Time) (float64, error)
	TradesOn(ctx context.Context, account string, day time.Time) (int, error)
	CountOpen(ctx context.Context, account string) (int, error)
	WinRate(ctx context.Context, symbol string, since time.Time) (wins, total int, err error)
}

// Snapshot is a point-in-time read of account state against the rules.
type Snapshot struct {
	DailyPnL           float64 `json:"daily_pnl"`
	TradesToday        int     `json:"trades_today"`
	OpenPositions      int     `json:"open_positions"`
	Allowed            bool    `json:"allowed"`
	CircuitBreakerHit  bool    `json:"circuit_breaker_hit"`
	LossRemaining      float64 `json:"daily_loss_remaining"`
	TradesRemaining    int     `json:"trades_remaining"`
	PositionSlotsFree  int     `json:"position_slots_remaining"`
}

// Decision is the gate's answer for one order attempt. Rejection is
// expected control flow, not an error; ledger failures surface as errors.
type Decision struct {
	Approved bool
	Reason   string
	Snapshot Snapshot
}

// Gate applies the account rules to the ledger state.
type Gate struct {
	rules  Rules
	ledger LedgerReader
	clock  market.Clock
}

func NewGate(rules Rules, ledger LedgerReader, clock market.Clock) *Gate {
	return &Gate{rules: rules, ledger: ledger, clock: clock}
}

func (g *Gate) Rules() Rules { return g.rules }

// Check recomputes the risk snapshot from the ledger and decides whether
// a new trade is permitted right now. The circuit breaker dominates: once
// the daily loss ceiling is breached nothing else matters.
func (g *Gate) Check(ctx context.Context, account string) (Decision, error) {
	day := market.StartOfDay(g.clock.Now())

	pnl, err := g.ledger.DailyRealizedPnL(ctx, account, day)
	if err != nil {
		return Decision{}, fmt.Errorf("risk check: daily pnl: %w", err)
	}
	trades, err := g.ledger.TradesOn(ctx, account, day)
	if err != nil {
		return Decision{}, fmt.Errorf("risk check: trade count: %w", err)
	}
	open, err := g.ledger.CountOpen(ctx, account)
	if err != nil {
		return Decision{}, fmt.Errorf("risk check: open positions: %w", err)
	}

	snap := Snapshot{
		DailyPnL:          pnl,
		TradesToday:       trades,
		OpenPositions:     open,
		CircuitBreakerHit: pnl <= -g.rules.MaxDailyLoss,
		LossRemaining:     g.rules.MaxDailyLoss + pnl,
		TradesRemaining:   g.rules.MaxTradesPerDay - trades,
		PositionSlotsFree: g.rules.MaxOpenPositions - open,
	}
	snap.Allowed = pnl > -g.rules.MaxDailyLoss &&
		trades < g.rules.MaxTradesPerDay &&
		open < g.rules.MaxOpenPositions

	dec := Decision{Approved: snap.Allowed, Snapshot: snap}
	if !snap.Allowed {
		switch {
		case snap.CircuitBreakerHit:
			dec.Reason = fmt.Sprintf("daily loss circuit breaker hit (pnl %.2f, limit %.2f)", pnl, g.rules.MaxDailyLoss)
		case trades >= g.rules.MaxTradesPerDay:
			dec.Reason = fmt.Sprintf("daily trade cap reached (%d/%d)", trades, g.rules.MaxTradesPerDay)
		default:
			dec.Reason = fmt.Sprintf("open position cap reached (%d/%d)", open, g.rules.MaxOpenPositions)
		}
	}
	return dec, nil
}
