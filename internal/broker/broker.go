// Package broker is the gateway to the trading venue: a live Kite Connect
// REST client and a paper simulator behind the same interface.
package broker

import (
	"context"
	"fmt"

	"optrader/internal/market"
)

// Side of an order.
type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// Opposite returns the exit side for a position opened on s.
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

// OrderType as accepted by the venue.
type OrderType string

const (
	Market    OrderType = "MARKET"
	Limit     OrderType = "LIMIT"
	StopLoss  OrderType = "SL"
	StopLossM OrderType = "SL-M"
)

// OrderRequest describes one order. Price is ignored for market orders.
type OrderRequest struct {
	Symbol   string
	Side     Side
	Quantity int
	Type     OrderType
	Price    float64
	Exchange string // defaults to NSE
	Product  string // defaults to MIS (intraday)
	Validity string // defaults to DAY
}

func (r *OrderRequest) applyDefaults() {
	if r.Exchange == "" {
		r.Exchange = "NSE"
	}
	if r.Product == "" {
		r.Product = "MIS"
	}
	if r.Validity == "" {
		r.Validity = "DAY"
	}
}

// Broker is the narrow venue interface the executor depends on. Both the
// live client and the paper simulator implement it; paper mode still
// exercises the full risk/ledger path.
type Broker interface {
	Name() string
	PlaceOrder(ctx context.Context, req OrderRequest) (orderID string, err error)
	Quote(ctx context.Context, symbols []string) (map[string]market.Quote, error)
}

// CallError wraps a failed venue call. Transient failures (network, 5xx,
// throttling) are retried with bounded backoff; the rest fail the attempt
// immediately.
type CallError struct {
	Op        string
	Transient bool
	Err       error
}

func (e *CallError) Error() string {
	kind := "fatal"
	if e.Transient {
		kind = "transient"
	}
	return fmt.Sprintf("broker %s: %s: %v", e.Op, kind, e.Err)
}

func (e *CallError) Unwrap() error { return e.Err }

// IsTransient reports whether err is a retryable venue failure.
func IsTransient(err error) bool {
	var ce *CallError
	if ok := asCallError(err, &ce); ok {
		return ce.Transient
	}
	return false
}
