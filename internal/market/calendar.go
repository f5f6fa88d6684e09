package market

import (
	"fmt"
	"os"
	"sync"
	"time"

	"optrader/internal/logger"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Calendar holds the exchange holiday list, loaded from a yaml file and
// hot-reloaded when the file changes.
type Calendar struct {
	mu       sync.RWMutex
	path     string
	holidays map[string]string // "2006-01-02" -> name
	watcher  *fsnotify.Watcher
}

type calendarFile struct {
	Holidays map[string]string `yaml:"holidays"`
}

// LoadCalendar reads the holiday file. An empty path yields a calendar
// with no holidays (weekends still apply via the clock).
func LoadCalendar(path string) (*Calendar, error) {
	c := &Calendar{path: path, holidays: map[string]string{}}
	if path == "" {
		return c, nil
	}
	if err := c.reload(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Calendar) reload() error {
	raw, err := os.ReadFile(c.path)
	if err != nil {
		return fmt.Errorf("reading holiday calendar failed: %w", err)
	}
	var file calendarFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("parsing holiday calendar failed: %w", err)
	}
	for day := range file.Holidays {
		if _, err := time.ParseInLocation("2006-01-02", day, IST); err != nil {
			return fmt.Errorf("holiday calendar has invalid date %q: %w", day, err)
		}
	}
	c.mu.Lock()
	c.holidays = file.Holidays
	c.mu.Unlock()
	return nil
}

// IsHoliday reports whether t's IST date is an exchange holiday.
func (c *Calendar) IsHoliday(t time.Time) bool {
	key := t.In(IST).Format("2006-01-02")
	c.mu.RLock()
	_, ok := c.holidays[key]
	c.mu.RUnlock()
	return ok
}

// Watch reloads the calendar whenever the file is rewritten. It returns
// immediately; the watch loop stops when Close is called.
func (c *Calendar) Watch() error {
	if c.path == "" {
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(c.path); err != nil {
		w.Close()
		return err
	}
	c.watcher = w
	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if err := c.reload(); err != nil {
					logger.Warnf("holiday calendar reload failed: %v", err)
					continue
				}
				logger.Infof("holiday calendar reloaded (%s)", c.path)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Warnf("holiday calendar watcher error: %v", err)
			}
		}
	}()
	return nil
}

func (c *Calendar) Close() error {
	if c.watcher == nil {
		return nil
	}
	return c.watcher.Close()
}
