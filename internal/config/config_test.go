package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("minimal file gets full defaults", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "config.yaml", "app:\n  env: test\n")
		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "test", cfg.App.Env)
		assert.Equal(t, "info", cfg.App.LogLevel)
		assert.Equal(t, "NSE:NIFTY 50", cfg.Market.Symbol)
		assert.Equal(t, "NIFTY", cfg.Market.Underlying)
		assert.Equal(t, 7, cfg.Market.ExpiryDays)
		assert.Equal(t, 70.0, cfg.Trading.MinSignalScore)
		assert.Equal(t, 900, cfg.Trading.PollSeconds)
		assert.Equal(t, 20000.0, cfg.Risk.MaxDailyLoss)
		assert.Equal(t, 3, cfg.Risk.MaxTradesPerDay)
		assert.Equal(t, 1, cfg.Risk.MaxPositionSize)
		assert.Equal(t, "data/trades.db", cfg.Store.Path)
	})

	t.Run("partial risk override keeps the other defaults", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "config.yaml", "risk:\n  max_daily_loss: 5000\n")
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 5000.0, cfg.Risk.MaxDailyLoss)
		assert.Equal(t, 3, cfg.Risk.MaxTradesPerDay)
		assert.Equal(t, 0.25, cfg.Risk.KellyMultiplier)
	})

	t.Run("includes merge and the including file wins", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "base.yaml", "app:\n  env: base\n  log_level: debug\ntrading:\n  paper: true\n")
		path := writeConfig(t, dir, "config.yaml", "include:\n  - base.yaml\napp:\n  env: prod\n")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "prod", cfg.App.Env)
		assert.Equal(t, "debug", cfg.App.LogLevel)
		assert.True(t, cfg.Trading.Paper)
	})

	t.Run("include cycle detected", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "a.yaml", "include: [b.yaml]\n")
		path := writeConfig(t, dir, "b.yaml", "include: [a.yaml]\n")
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cycle")
	})

	t.Run("invalid values rejected", func(t *testing.T) {
		dir := t.TempDir()

		path := writeConfig(t, dir, "bad_score.yaml", "trading:\n  min_signal_score: 150\n")
		_, err := Load(path)
		assert.Error(t, err)

		path = writeConfig(t, dir, "bad_kelly.yaml", "risk:\n  kelly_multiplier: 2\n")
		_, err = Load(path)
		assert.Error(t, err)

		path = writeConfig(t, dir, "bad_vol.yaml", "trading:\n  implied_vol: 15\n")
		_, err = Load(path)
		assert.Error(t, err)
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := Load("")
		assert.Error(t, err)
		_, err = Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestLoadSecrets(t *testing.T) {
	clear := func(t *testing.T) {
		t.Helper()
		for _, k := range []string{"KITE_API_KEY", "KITE_API_SECRET", "KITE_ACCESS_TOKEN", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID"} {
			t.Setenv(k, "")
			require.NoError(t, os.Unsetenv(k))
		}
	}

	t.Run("paper mode needs nothing", func(t *testing.T) {
		clear(t)
		_, err := LoadSecrets(true, false)
		assert.NoError(t, err)
	})

	t.Run("live mode requires venue credentials", func(t *testing.T) {
		clear(t)
		_, err := LoadSecrets(false, false)
		assert.Error(t, err)

		t.Setenv("KITE_API_KEY", "key")
		t.Setenv("KITE_ACCESS_TOKEN", "token")
		s, err := LoadSecrets(false, false)
		require.NoError(t, err)
		assert.Equal(t, "key", s.KiteAPIKey)
		assert.Equal(t, "token", s.KiteAccessToken)
	})

	t.Run("telegram requires bot credentials when enabled", func(t *testing.T) {
		clear(t)
		_, err := LoadSecrets(true, true)
		assert.Error(t, err)

		t.Setenv("TELEGRAM_BOT_TOKEN", "bot")
		t.Setenv("TELEGRAM_CHAT_ID", "chat")
		s, err := LoadSecrets(true, true)
		require.NoError(t, err)
		assert.Equal(t, "bot", s.TelegramToken)
	})
}
