// Package risk is the hard gate between signal generation and order
// placement: trading limits, the daily-loss circuit breaker and position
// sizing.
package risk

import "fmt"

// Rules are the account's trading limits. They are fixed at construction;
// nothing may relax them during a session.
type Rules struct {
	MaxDailyLoss        float64 `mapstructure:"max_daily_loss"`
	MaxTradesPerDay     int     `mapstructure:"max_trades_per_day"`
	MaxOpenPositions    int     `mapstructure:"max_open_positions"`
	MaxPositionSize     int     `mapstructure:"max_position_size"`
	StopLossPercent     float64 `mapstructure:"stop_loss_percent"`
	ProfitTargetPercent float64 `mapstructure:"profit_target_percent"`
	MaxRiskPerTrade     float64 `mapstructure:"max_risk_per_trade"`
	KellyMultiplier     float64 `mapstructure:"kelly_multiplier"`
}

// DefaultRules mirrors the production account limits.
func DefaultRules() Rules {
	return Rules{
		MaxDailyLoss:        20000,
		MaxTradesPerDay:     3,
		MaxOpenPositions:    4,
		MaxPositionSize:     1,
		StopLossPercent:     0.40,
		ProfitTargetPercent: 0.40,
		MaxRiskPerTrade:     0.02,
		KellyMultiplier:     0.25,
	}
}

// Validate rejects limit sets that would disable the gate entirely.
func (r Rules) Validate() error {
	if r.MaxDailyLoss <= 0 {
		return fmt.Errorf("risk: max_daily_loss must be positive, got %v", r.MaxDailyLoss)
	}
	if r.MaxTradesPerDay <= 0 {
		return fmt.Errorf("risk: max_trades_per_day must be positive, got %d", r.MaxTradesPerDay)
	}
	if r.MaxOpenPositions <= 0 {
		return fmt.Errorf("risk: max_open_positions must be positive, got %d", r.MaxOpenPositions)
	}
	if r.MaxPositionSize <= 0 {
		return fmt.Errorf("risk: max_position_size must be positive, got %d", r.MaxPositionSize)
	}
	if r.MaxRiskPerTrade <= 0 || r.MaxRiskPerTrade >= 1 {
		return fmt.Errorf("risk: max_risk_per_trade must be in (0,1), got %v", r.MaxRiskPerTrade)
	}
	if r.KellyMultiplier <= 0 || r.KellyMultiplier > 1 {
		return fmt.Errorf("risk: kelly_multiplier must be in (0,1], got %v", r.KellyMultiplier)
	}
	return nil
}
