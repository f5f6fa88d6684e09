package config

import (
	"fmt"
	"strings"
)

func validate(c *Config) error {
	if err := c.Market.validate(); err != nil {
		return err
	}
	if err := c.Trading.validate(); err != nil {
		return err
	}
	if err := c.Risk.Validate(); err != nil {
		return err
	}
	return nil
}

func (m *MarketConfig) validate() error {
	if strings.TrimSpace(m.Symbol) == "" {
		return fmt.Errorf("market.symbol cannot be empty")
	}
	if strings.TrimSpace(m.Underlying) == "" {
		return fmt.Errorf("market.underlying cannot be empty")
	}
	if m.ExpiryDays <= 0 {
		return fmt.Errorf("market.expiry_days must be positive, got %d", m.ExpiryDays)
	}
	return nil
}

func (t *TradingConfig) validate() error {
	if strings.TrimSpace(t.AccountID) == "" {
		return fmt.Errorf("trading.account_id cannot be empty")
	}
	if t.MinSignalScore < 0 || t.MinSignalScore > 100 {
		return fmt.Errorf("trading.min_signal_score must be in [0,100], got %v", t.MinSignalScore)
	}
	if t.PollSeconds < 1 {
		return fmt.Errorf("trading.poll_seconds must be positive, got %d", t.PollSeconds)
	}
	if t.ImpliedVol <= 0 || t.ImpliedVol >= 3 {
		return fmt.Errorf("trading.implied_vol must be a fraction like 0.15, got %v", t.ImpliedVol)
	}
	return nil
}
