package config

import (
	"context"

	"optrader/internal/logger"

	"github.com/fsnotify/fsnotify"
)

// WatchLogLevel re-reads the config file on change and applies the log
// level, so verbosity can be adjusted on a running process. Other
// settings stay frozen for the session (risk limits deliberately so).
func WatchLogLevel(ctx context.Context, path string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(path); err != nil {
		w.Close()
		return err
	}
	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				cfg, err := Load(path)
				if err != nil {
					logger.Warnf("config reload skipped: %v", err)
					continue
				}
				logger.SetLevel(cfg.App.LogLevel)
				logger.Infof("log level set to %s", cfg.App.LogLevel)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Warnf("config watcher error: %v", err)
			}
		}
	}()
	return nil
}
