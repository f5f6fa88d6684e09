package market

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCalendar(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "holidays.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCalendar(t *testing.T) {
	t.Run("empty path has no holidays", func(t *testing.T) {
		c, err := LoadCalendar("")
		require.NoError(t, err)
		assert.False(t, c.IsHoliday(time.Date(2026, 1, 26, 12, 0, 0, 0, IST)))
	})

	t.Run("loads and matches IST dates", func(t *testing.T) {
		path := writeCalendar(t, "holidays:\n  \"2026-01-26\": Republic Day\n")
		c, err := LoadCalendar(path)
		require.NoError(t, err)
		assert.True(t, c.IsHoliday(time.Date(2026, 1, 26, 12, 0, 0, 0, IST)))
		assert.False(t, c.IsHoliday(time.Date(2026, 1, 27, 12, 0, 0, 0, IST)))

		// 2026-01-25 20:00 UTC is already the 26th in IST.
		assert.True(t, c.IsHoliday(time.Date(2026, 1, 25, 20, 0, 0, 0, time.UTC)))
	})

	t.Run("invalid date rejected", func(t *testing.T) {
		path := writeCalendar(t, "holidays:\n  \"26-01-2026\": Republic Day\n")
		_, err := LoadCalendar(path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadCalendar(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("holiday blocks the trading day", func(t *testing.T) {
		path := writeCalendar(t, "holidays:\n  \"2026-08-26\": Janmashtami\n")
		c, err := LoadCalendar(path)
		require.NoError(t, err)
		clock := &SessionClock{Calendar: c}
		assert.False(t, clock.IsTradingDay(time.Date(2026, 8, 26, 12, 0, 0, 0, IST)))
	})
}

func TestCalendarWatch(t *testing.T) {
	path := writeCalendar(t, "holidays: {}\n")
	c, err := LoadCalendar(path)
	require.NoError(t, err)
	require.NoError(t, c.Watch())
	defer c.Close()

	day := time.Date(2026, 10, 20, 12, 0, 0, 0, IST)
	assert.False(t, c.IsHoliday(day))

	require.NoError(t, os.WriteFile(path, []byte("holidays:\n  \"2026-10-20\": Diwali\n"), 0o644))

	assert.Eventually(t, func() bool {
		return c.IsHoliday(day)
	}, 2*time.Second, 20*time.Millisecond)
}
