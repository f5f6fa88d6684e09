package config

import "optrader/internal/risk"

const (
	defaultEnv            = "dev"
	defaultLogLevel       = "info"
	defaultSymbol         = "NSE:NIFTY 50"
	defaultUnderlying     = "NIFTY"
	defaultExpiryDays     = 7
	defaultMaxCachedBars  = 300
	defaultAccountID      = "primary"
	defaultBalance        = 1_000_000
	defaultMinSignalScore = 70
	defaultPollSeconds    = 900 // 15-minute bars
	defaultImpliedVol     = 0.15
	defaultIVPercentile   = 50
	defaultStorePath      = "data/trades.db"
)

func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = defaultEnv
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = defaultLogLevel
	}
	if c.Market.Symbol == "" {
		c.Market.Symbol = defaultSymbol
	}
	if c.Market.Underlying == "" {
		c.Market.Underlying = defaultUnderlying
	}
	if c.Market.ExpiryDays <= 0 {
		c.Market.ExpiryDays = defaultExpiryDays
	}
	if c.Market.MaxCachedBars <= 0 {
		c.Market.MaxCachedBars = defaultMaxCachedBars
	}
	if c.Trading.AccountID == "" {
		c.Trading.AccountID = defaultAccountID
	}
	if c.Trading.AccountBalance <= 0 {
		c.Trading.AccountBalance = defaultBalance
	}
	if c.Trading.MinSignalScore <= 0 {
		c.Trading.MinSignalScore = defaultMinSignalScore
	}
	if c.Trading.PollSeconds <= 0 {
		c.Trading.PollSeconds = defaultPollSeconds
	}
	if c.Trading.ImpliedVol <= 0 {
		c.Trading.ImpliedVol = defaultImpliedVol
	}
	if c.Trading.IVPercentile <= 0 {
		c.Trading.IVPercentile = defaultIVPercentile
	}
	if c.Store.Path == "" {
		c.Store.Path = defaultStorePath
	}
	def := risk.DefaultRules()
	if c.Risk.MaxDailyLoss <= 0 {
		c.Risk.MaxDailyLoss = def.MaxDailyLoss
	}
	if c.Risk.MaxTradesPerDay <= 0 {
		c.Risk.MaxTradesPerDay = def.MaxTradesPerDay
	}
	if c.Risk.MaxOpenPositions <= 0 {
		c.Risk.MaxOpenPositions = def.MaxOpenPositions
	}
	if c.Risk.MaxPositionSize <= 0 {
		c.Risk.MaxPositionSize = def.MaxPositionSize
	}
	if c.Risk.StopLossPercent <= 0 {
		c.Risk.StopLossPercent = def.StopLossPercent
	}
	if c.Risk.ProfitTargetPercent <= 0 {
		c.Risk.ProfitTargetPercent = def.ProfitTargetPercent
	}
	if c.Risk.MaxRiskPerTrade <= 0 {
		c.Risk.MaxRiskPerTrade = def.MaxRiskPerTrade
	}
	if c.Risk.KellyMultiplier <= 0 {
		c.Risk.KellyMultiplier = def.KellyMultiplier
	}
}
