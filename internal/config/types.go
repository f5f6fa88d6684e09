package config

import "optrader/internal/risk"

// Config is the process configuration. Secrets (venue and Telegram
// credentials) never live here; they come from the environment.
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Market  MarketConfig  `mapstructure:"market"`
	Trading TradingConfig `mapstructure:"trading"`
	Risk    risk.Rules    `mapstructure:"risk"`
	Notify  NotifyConfig  `mapstructure:"notify"`
	Store   StoreConfig   `mapstructure:"store"`
}

type AppConfig struct {
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
	LogPath  string `mapstructure:"log_path"`
}

type MarketConfig struct {
	Symbol        string `mapstructure:"symbol"`         // quote symbol, e.g. "NSE:NIFTY 50"
	Underlying    string `mapstructure:"underlying"`     // option contract prefix, e.g. "NIFTY"
	ExpiryCode    string `mapstructure:"expiry_code"`    // venue contract code, e.g. "25SEP"
	ExpiryDays    int    `mapstructure:"expiry_days"`    // days to expiry for greeks
	HolidayFile   string `mapstructure:"holiday_file"`   // yaml holiday calendar, optional
	MaxCachedBars int    `mapstructure:"max_cached_bars"`
}

type TradingConfig struct {
	AccountID      string  `mapstructure:"account_id"`
	Paper          bool    `mapstructure:"paper"`
	AccountBalance float64 `mapstructure:"account_balance"`
	MinSignalScore float64 `mapstructure:"min_signal_score"`
	PollSeconds    int     `mapstructure:"poll_seconds"`
	ImpliedVol     float64 `mapstructure:"implied_vol"`
	IVPercentile   float64 `mapstructure:"iv_percentile"`
}

type NotifyConfig struct {
	Telegram TelegramConfig `mapstructure:"telegram"`
}

type TelegramConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type StoreConfig struct {
	Path string `mapstructure:"path"`
}
