package executor

import (
	"context"
	"fmt"
	"strings"

	"optrader/internal/broker"
	"optrader/internal/ledger"
	"optrader/internal/logger"
)

// SquareOffAll flattens every OPEN position with opposite-side market
// exits. One leg's failure never blocks the remaining legs: failed legs
// stay OPEN in the ledger and come back in a PartialSquareOffError so the
// caller knows exactly what is still live.
func (e *Executor) SquareOffAll(ctx context.Context) ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	open, err := e.ledger.OpenTrades(ctx, e.account)
	if err != nil {
		return nil, fmt.Errorf("square-off: listing open positions: %w", err)
	}
	if len(open) == 0 {
		return nil, nil
	}

	var closed []string
	failed := make(map[string]error)
	for _, pos := range open {
		if err := e.squareOffOne(ctx, pos); err != nil {
			logger.Errorf("failed to square off %s (order %s): %v", pos.Symbol, pos.OrderID, err)
			failed[pos.Symbol] = err
			continue
		}
		closed = append(closed, pos.Symbol)
		logger.Infof("auto squared off: %s (order %s)", pos.Symbol, pos.OrderID)
	}

	if len(closed) > 0 {
		e.sendText(fmt.Sprintf("🔴 AUTO SQUARE-OFF (market close)\nPositions closed: %s", strings.Join(closed, ", ")))
	}
	if len(failed) > 0 {
		return closed, &PartialSquareOffError{Closed: closed, Failed: failed}
	}
	return closed, nil
}

// squareOffOne exits one position at market and finalizes its ledger row.
// The row is only marked CLOSED after the venue accepted the exit; a
// failed exit leaves it OPEN so reality and ledger agree.
func (e *Executor) squareOffOne(ctx context.Context, pos ledger.Trade) error {
	exitSide := broker.Side(pos.Side).Opposite()
	if _, err := e.venue.PlaceOrder(ctx, broker.OrderRequest{
		Symbol:   pos.Symbol,
		Side:     exitSide,
		Quantity: pos.Quantity,
		Type:     broker.Market,
	}); err != nil {
		return err
	}

	exitPrice := e.lastPrice(ctx, pos.Symbol, pos.EntryPrice)
	pnl := exitPrice - pos.EntryPrice
	if broker.Side(pos.Side) == broker.Sell {
		pnl = -pnl
	}
	pnl *= float64(pos.Quantity)

	if err := e.ledger.MarkClosed(ctx, pos.OrderID, e.clock.Now(), exitPrice, pnl); err != nil {
		return fmt.Errorf("exit placed but ledger update failed: %w", err)
	}
	return nil
}

// lastPrice fetches the current quote for pnl booking, falling back to
// the entry price (pnl 0) when the venue cannot be asked.
func (e *Executor) lastPrice(ctx context.Context, symbol string, fallback float64) float64 {
	quotes, err := e.venue.Quote(ctx, []string{symbol})
	if err != nil {
		logger.Warnf("square-off: quote for %s unavailable, booking exit at entry: %v", symbol, err)
		return fallback
	}
	q, ok := quotes[symbol]
	if !ok || q.LastPrice == 0 {
		return fallback
	}
	return q.LastPrice
}
