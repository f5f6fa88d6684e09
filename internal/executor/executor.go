// Package executor places risk-gated orders, persists them to the trade
// ledger and owns the end-of-day square-off watchdog.
package executor

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"optrader/internal/broker"
	"optrader/internal/ledger"
	"optrader/internal/logger"
	"optrader/internal/market"
	"optrader/internal/notifier"
	"optrader/internal/risk"
	"optrader/internal/strategy"
)

// Ledger is the slice of the trade store the executor writes. The
// executor is the only writer; the gate reads through its own interface.
type Ledger interface {
	Insert(ctx context.Context, t *ledger.Trade) error
	MarkClosed(ctx context.Context, orderID string, exitTime time.Time, exitPrice, pnl float64) error
	OpenTrades(ctx context.Context, account string) ([]ledger.Trade, error)
}

// Receipt confirms a placed order.
type Receipt struct {
	OrderID    string  `json:"order_id"`
	Symbol     string  `json:"symbol"`
	Quantity   int     `json:"quantity"`
	EntryPrice float64 `json:"entry_price"`
	Status     string  `json:"status"`
}

// Executor serializes every order mutation for the single trading
// account: the mutex spans risk check, venue call and ledger write, so
// two concurrent attempts can never both pass the gate on the same
// snapshot. The watchdog's square-off competes for the same lock.
type Executor struct {
	mu      sync.Mutex
	account string
	gate    *risk.Gate
	venue   broker.Broker
	ledger  Ledger
	notify  notifier.TextNotifier
	clock   market.Clock
	halted  atomic.Bool
}

func New(account string, gate *risk.Gate, venue broker.Broker, store Ledger, notify notifier.TextNotifier, clock market.Clock) *Executor {
	if notify == nil {
		notify = notifier.Noop{}
	}
	return &Executor{
		account: account,
		gate:    gate,
		venue:   venue,
		ledger:  store,
		notify:  notify,
		clock:   clock,
	}
}

// Halted reports whether automated placement is disabled.
func (e *Executor) Halted() bool { return e.halted.Load() }

// Place runs the full placement path for one validated signal: a fresh
// risk check (a stale snapshot is never trusted), the venue call, the
// ledger write and a fire-and-forget notification.
func (e *Executor) Place(ctx context.Context, sig *strategy.Signal, side broker.Side, quantity int) (*Receipt, error) {
	if sig == nil {
		return nil, fmt.Errorf("nil signal")
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("invalid quantity %d", quantity)
	}
	if e.halted.Load() {
		return nil, ErrHalted
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	dec, err := e.gate.Check(ctx, e.account)
	if err != nil {
		return nil, err
	}
	if !dec.Approved {
		logger.Warnf("order rejected by risk gate: %s", dec.Reason)
		return nil, &RiskLimitError{Reason: dec.Reason, Snapshot: dec.Snapshot}
	}

	orderID, err := e.venue.PlaceOrder(ctx, broker.OrderRequest{
		Symbol:   sig.Symbol,
		Side:     side,
		Quantity: quantity,
		Type:     broker.Limit,
		Price:    sig.Entry,
	})
	if err != nil {
		return nil, fmt.Errorf("order placement failed: %w", err)
	}

	now := e.clock.Now()
	trade := &ledger.Trade{
		OrderID:    orderID,
		AccountID:  e.account,
		Symbol:     sig.Symbol,
		Strategy:   string(sig.Strategy),
		Side:       string(side),
		Quantity:   quantity,
		EntryPrice: sig.Entry,
		EntryTime:  now,
		StopLoss:   sig.StopLoss,
		Target:     sig.Target,
		Status:     ledger.StatusOpen,
	}
	if err := e.ledger.Insert(ctx, trade); err != nil {
		// The venue holds a live position the ledger does not know
		// about. Stop placing anything until a human reconciles.
		e.halted.Store(true)
		perr := &PersistenceInconsistencyError{OrderID: orderID, Symbol: sig.Symbol, Err: err}
		logger.Errorf("HALTING automated placement: %v", perr)
		e.sendText(fmt.Sprintf("⚠️ LEDGER INCONSISTENCY\nOrder %s (%s) is live but unrecorded. Trading halted.", orderID, sig.Symbol))
		return nil, perr
	}

	e.sendText(fmt.Sprintf(
		"🟢 ORDER PLACED\nStrategy: %s\nSymbol: %s\nSide: %s\nQuantity: %d\nEntry: %.2f\nSL: %.2f\nTarget: %.2f",
		sig.Strategy, sig.Symbol, side, quantity, sig.Entry, sig.StopLoss, sig.Target))

	logger.Infof("order placed: %s %s x%d @ %.2f (order_id=%s score=%.0f)",
		side, sig.Symbol, quantity, sig.Entry, orderID, sig.Score)
	return &Receipt{
		OrderID:    orderID,
		Symbol:     sig.Symbol,
		Quantity:   quantity,
		EntryPrice: sig.Entry,
		Status:     "PLACED",
	}, nil
}

// sendText notifies best-effort; delivery failures are logged, never
// propagated.
func (e *Executor) sendText(text string) {
	if err := e.notify.SendText(text); err != nil {
		logger.Warnf("notification failed: %v", err)
	}
}
