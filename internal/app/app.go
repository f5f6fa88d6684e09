// Package app assembles the pipeline: market data in, indicators and
// greeks scored, signals validated, risk-gated orders out, watchdog
// running behind it all.
package app

import (
	"context"
	"fmt"
	"time"

	"optrader/internal/broker"
	"optrader/internal/config"
	"optrader/internal/executor"
	"optrader/internal/ledger"
	"optrader/internal/logger"
	"optrader/internal/market"
	"optrader/internal/notifier"
	"optrader/internal/risk"
	"optrader/internal/scheduler"
	"optrader/internal/strategy"

	"golang.org/x/sync/errgroup"
)

// App owns the long-lived components and the two background loops.
type App struct {
	cfg      *config.Config
	clock    market.Clock
	calendar *market.Calendar
	store    *ledger.Store
	venue    broker.Broker
	data     broker.Broker // quote source; may differ from venue in paper mode
	paper    *broker.Paper // non-nil when the venue is simulated
	walker   *randomWalk   // synthetic feed for offline paper runs
	engine   *strategy.Engine
	gate     *risk.Gate
	exec     *executor.Executor
	watchdog *executor.Watchdog

	series market.Series
}

// New wires the application from config and secrets. Nothing starts yet.
func New(cfg *config.Config, secrets config.Secrets) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}

	calendar, err := market.LoadCalendar(cfg.Market.HolidayFile)
	if err != nil {
		return nil, err
	}
	clock := &market.SessionClock{Calendar: calendar}

	store, err := ledger.Open(cfg.Store.Path)
	if err != nil {
		return nil, err
	}

	a := &App{cfg: cfg, clock: clock, calendar: calendar, store: store}

	if cfg.Trading.Paper {
		a.paper = broker.NewPaper()
		a.venue = a.paper
		if secrets.KiteAPIKey != "" && secrets.KiteAccessToken != "" {
			// Paper orders against live prices.
			a.data = broker.NewKite(secrets.KiteAPIKey, broker.StaticToken(secrets.KiteAccessToken))
		} else {
			a.data = a.paper
			a.walker = newRandomWalk(cfg.Market.Symbol, 21500)
			logger.Warnf("no venue credentials, paper run uses a synthetic price feed")
		}
	} else {
		kite := broker.NewKite(secrets.KiteAPIKey, broker.StaticToken(secrets.KiteAccessToken))
		a.venue = kite
		a.data = kite
	}

	var notify notifier.TextNotifier = notifier.Noop{}
	if cfg.Notify.Telegram.Enabled {
		notify = notifier.NewTelegram(secrets.TelegramToken, secrets.TelegramChatID)
	}

	a.engine = strategy.NewEngine(cfg.Market.Underlying, cfg.Trading.MinSignalScore, clock)
	a.gate = risk.NewGate(cfg.Risk, store, clock)
	a.exec = executor.New(cfg.Trading.AccountID, a.gate, a.venue, store, notify, clock)
	a.watchdog = executor.NewWatchdog(a.exec, clock)
	return a, nil
}

// Run starts the evaluation loop and the square-off watchdog and blocks
// until the context is cancelled or one of them fails fatally.
func (a *App) Run(ctx context.Context) error {
	if err := a.calendar.Watch(); err != nil {
		logger.Warnf("holiday calendar watch unavailable: %v", err)
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return a.watchdog.Run(ctx)
	})
	group.Go(func() error {
		poll := scheduler.NewInterval("signal-evaluation", time.Duration(a.cfg.Trading.PollSeconds)*time.Second)
		poll.RunImmediately = true
		return poll.Run(ctx, a.evaluate)
	})
	return group.Wait()
}

func (a *App) Close() {
	if a.calendar != nil {
		a.calendar.Close()
	}
	if a.store != nil {
		a.store.Close()
	}
}
