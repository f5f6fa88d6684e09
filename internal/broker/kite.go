package broker

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"optrader/internal/logger"
	"optrader/internal/market"

	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

const (
	kiteBaseURL    = "https://api.kite.trade"
	kiteAPIVersion = "3"
	// Kite allows roughly 3 requests per second per app.
	kiteRatePerSec = 3
)

// TokenProvider supplies the session token for venue calls. Refresh is
// invoked once when the venue rejects the current token; the next call
// uses whatever Refresh produced.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
	Refresh(ctx context.Context) (string, error)
}

// StaticToken is a TokenProvider for long-lived session tokens obtained
// out of band (the interactive login flow is not part of this process).
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) { return string(t), nil }

func (t StaticToken) Refresh(context.Context) (string, error) {
	return "", &CallError{Op: "token_refresh", Err: fmt.Errorf("static token cannot be refreshed, re-login required")}
}

// Kite is the live Kite Connect REST client.
type Kite struct {
	apiKey  string
	tokens  TokenProvider
	base    string
	httpc   *http.Client
	limiter *rate.Limiter
	retry   RetryPolicy
}

// KiteOption tweaks the client at construction.
type KiteOption func(*Kite)

func WithBaseURL(base string) KiteOption {
	return func(k *Kite) { k.base = strings.TrimRight(base, "/") }
}

func WithHTTPClient(c *http.Client) KiteOption {
	return func(k *Kite) { k.httpc = c }
}

func WithRetryPolicy(p RetryPolicy) KiteOption {
	return func(k *Kite) { k.retry = p }
}

func NewKite(apiKey string, tokens TokenProvider, opts ...KiteOption) *Kite {
	k := &Kite{
		apiKey:  apiKey,
		tokens:  tokens,
		base:    kiteBaseURL,
		httpc:   &http.Client{Timeout: 15 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(kiteRatePerSec), kiteRatePerSec),
		retry:   DefaultRetryPolicy(),
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

func (k *Kite) Name() string { return "kite" }

// PlaceOrder submits a regular-variety order and returns the venue order
// id. Transient failures are retried per the client's policy; an auth
// rejection triggers one token refresh before the next attempt.
func (k *Kite) PlaceOrder(ctx context.Context, req OrderRequest) (string, error) {
	req.applyDefaults()
	if req.Quantity <= 0 {
		return "", &CallError{Op: "place_order", Err: fmt.Errorf("invalid quantity %d", req.Quantity)}
	}
	form := url.Values{
		"exchange":         {req.Exchange},
		"tradingsymbol":    {req.Symbol},
		"transaction_type": {string(req.Side)},
		"quantity":         {strconv.Itoa(req.Quantity)},
		"order_type":       {string(req.Type)},
		"product":          {req.Product},
		"validity":         {req.Validity},
	}
	if req.Type == Limit || req.Type == StopLoss {
		form.Set("price", strconv.FormatFloat(req.Price, 'f', 2, 64))
	}

	var orderID string
	err := k.retry.Do(ctx, "kite place_order", func() error {
		body, err := k.call(ctx, http.MethodPost, "/orders/regular", form)
		if err != nil {
			return err
		}
		orderID = gjson.GetBytes(body, "data.order_id").String()
		if orderID == "" {
			return &CallError{Op: "place_order", Err: fmt.Errorf("response missing order_id: %s", body)}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return orderID, nil
}

// Quote fetches last-traded prices for fully qualified symbols
// (e.g. "NSE:NIFTY 50", "NFO:NIFTY25SEP21600CE").
func (k *Kite) Quote(ctx context.Context, symbols []string) (map[string]market.Quote, error) {
	if len(symbols) == 0 {
		return map[string]market.Quote{}, nil
	}
	q := url.Values{}
	for _, sym := range symbols {
		q.Add("i", sym)
	}

	var out map[string]market.Quote
	err := k.retry.Do(ctx, "kite quote", func() error {
		body, err := k.call(ctx, http.MethodGet, "/quote?"+q.Encode(), nil)
		if err != nil {
			return err
		}
		now := time.Now().In(market.IST)
		out = make(map[string]market.Quote, len(symbols))
		for _, sym := range symbols {
			node := gjson.GetBytes(body, "data."+escapeGJSONKey(sym))
			if !node.Exists() {
				continue
			}
			out[sym] = market.Quote{
				Symbol:    sym,
				LastPrice: node.Get("last_price").Float(),
				Volume:    node.Get("volume").Int(),
				At:        now,
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// OptionChain quotes CE/PE pairs on the strike grid around the ATM
// strike. expiry is the venue's contract code (e.g. "25SEP").
func (k *Kite) OptionChain(ctx context.Context, underlying string, spot float64, expiry string, strikes int) (map[float64]market.OptionQuote, error) {
	atm := int(spotToATM(spot))
	symbols := make([]string, 0, strikes*4+2)
	for strike := atm - strikes*100; strike <= atm+strikes*100; strike += 100 {
		symbols = append(symbols,
			fmt.Sprintf("NFO:%s%s%dCE", underlying, expiry, strike),
			fmt.Sprintf("NFO:%s%s%dPE", underlying, expiry, strike),
		)
	}
	quotes, err := k.Quote(ctx, symbols)
	if err != nil {
		return nil, err
	}
	chain := make(map[float64]market.OptionQuote)
	for strike := atm - strikes*100; strike <= atm+strikes*100; strike += 100 {
		ce := quotes[fmt.Sprintf("NFO:%s%s%dCE", underlying, expiry, strike)]
		pe := quotes[fmt.Sprintf("NFO:%s%s%dPE", underlying, expiry, strike)]
		if ce.LastPrice == 0 && pe.LastPrice == 0 {
			continue
		}
		chain[float64(strike)] = market.OptionQuote{Strike: float64(strike), Call: ce, Put: pe}
	}
	return chain, nil
}

func spotToATM(spot float64) float64 {
	return float64(int(spot/100+0.5)) * 100
}

// call performs one authenticated request, classifying failures for the
// retry policy. A 403 refreshes the session token and reports transient
// so the policy retries with the fresh token.
func (k *Kite) call(ctx context.Context, method, path string, form url.Values) ([]byte, error) {
	if err := k.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	token, err := k.tokens.Token(ctx)
	if err != nil {
		return nil, &CallError{Op: "auth", Err: err}
	}

	var reqBody io.Reader
	if form != nil {
		reqBody = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, k.base+path, reqBody)
	if err != nil {
		return nil, &CallError{Op: path, Err: err}
	}
	req.Header.Set("X-Kite-Version", kiteAPIVersion)
	req.Header.Set("Authorization", fmt.Sprintf("token %s:%s", k.apiKey, token))
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := k.httpc.Do(req)
	if err != nil {
		return nil, &CallError{Op: path, Transient: true, Err: err}
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &CallError{Op: path, Transient: true, Err: err}
	}

	switch {
	case resp.StatusCode/100 == 2:
		return body, nil
	case resp.StatusCode == http.StatusForbidden:
		logger.Warnf("kite rejected session token, refreshing")
		if _, rerr := k.tokens.Refresh(ctx); rerr != nil {
			return nil, &CallError{Op: path, Err: fmt.Errorf("token refresh failed: %w", rerr)}
		}
		return nil, &CallError{Op: path, Transient: true, Err: fmt.Errorf("session token rejected (status %d)", resp.StatusCode)}
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode/100 == 5:
		return nil, &CallError{Op: path, Transient: true, Err: fmt.Errorf("status %d: %s", resp.StatusCode, truncate(body, 200))}
	default:
		return nil, &CallError{Op: path, Err: fmt.Errorf("status %d: %s", resp.StatusCode, truncate(body, 200))}
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

func escapeGJSONKey(key string) string {
	r := strings.NewReplacer(".", "\\.", "*", "\\*", "?", "\\?")
	return r.Replace(key)
}
