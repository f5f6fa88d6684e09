package broker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"optrader/internal/logger"
	"optrader/internal/market"

	"github.com/google/uuid"
)

// Paper simulates the venue in memory. Orders always fill, ids are
// synthesized, and quotes come from whatever was last fed in. Everything
// upstream of the venue (gate, ledger, notifications) behaves exactly as
// in live mode.
type Paper struct {
	mu     sync.Mutex
	quotes map[string]market.Quote
	orders []OrderRequest
}

func NewPaper() *Paper {
	return &Paper{quotes: make(map[string]market.Quote)}
}

func (p *Paper) Name() string { return "paper" }

// SetQuote feeds a simulated price for symbol.
func (p *Paper) SetQuote(symbol string, last float64, at time.Time) {
	p.mu.Lock()
	p.quotes[symbol] = market.Quote{Symbol: symbol, LastPrice: last, At: at}
	p.mu.Unlock()
}

func (p *Paper) PlaceOrder(_ context.Context, req OrderRequest) (string, error) {
	req.applyDefaults()
	if req.Quantity <= 0 {
		return "", &CallError{Op: "place_order", Err: fmt.Errorf("invalid quantity %d", req.Quantity)}
	}
	p.mu.Lock()
	p.orders = append(p.orders, req)
	p.mu.Unlock()
	orderID := "PAPER-" + uuid.NewString()
	logger.Infof("paper order simulated: %s %s %d %s -> %s", req.Side, req.Symbol, req.Quantity, req.Type, orderID)
	return orderID, nil
}

func (p *Paper) Quote(_ context.Context, symbols []string) (map[string]market.Quote, error) {
	out := make(map[string]market.Quote, len(symbols))
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, sym := range symbols {
		q, ok := p.quotes[sym]
		if !ok {
			return nil, &CallError{Op: "quote", Err: fmt.Errorf("no simulated quote for %s", sym)}
		}
		out[sym] = q
	}
	return out, nil
}

// Orders returns a copy of everything placed so far.
func (p *Paper) Orders() []OrderRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]OrderRequest, len(p.orders))
	copy(out, p.orders)
	return out
}
