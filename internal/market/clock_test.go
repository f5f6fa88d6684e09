package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func istTime(h, m int) time.Time {
	return time.Date(2026, 8, 26, h, m, 0, 0, IST) // Wednesday
}

func TestSessionWindows(t *testing.T) {
	t.Run("within session", func(t *testing.T) {
		assert.False(t, WithinSession(istTime(8, 0)))
		assert.False(t, WithinSession(istTime(9, 14)))
		assert.True(t, WithinSession(istTime(9, 15)))
		assert.True(t, WithinSession(istTime(12, 0)))
		assert.True(t, WithinSession(istTime(15, 30)))
		assert.False(t, WithinSession(istTime(15, 31)))
	})

	t.Run("square-off window", func(t *testing.T) {
		assert.False(t, InSquareOffWindow(istTime(15, 28)))
		assert.True(t, InSquareOffWindow(istTime(15, 29)))
		assert.True(t, InSquareOffWindow(istTime(15, 30)))
		assert.False(t, InSquareOffWindow(istTime(15, 31)))
	})

	t.Run("distances to the boundaries", func(t *testing.T) {
		assert.Equal(t, 45*time.Minute, SinceOpen(istTime(10, 0)))
		assert.Equal(t, -15*time.Minute, SinceOpen(istTime(9, 0)))
		assert.Equal(t, 3*time.Hour+30*time.Minute, UntilClose(istTime(12, 0)))
	})

	t.Run("other zones convert to IST", func(t *testing.T) {
		// 06:30 UTC is 12:00 IST
		assert.True(t, WithinSession(time.Date(2026, 8, 26, 6, 30, 0, 0, time.UTC)))
	})
}

func TestSessionClockTradingDay(t *testing.T) {
	c := &SessionClock{}
	// Wednesday, then the weekend.
	assert.True(t, c.IsTradingDay(istTime(12, 0)))
	assert.False(t, c.IsTradingDay(time.Date(2026, 8, 29, 12, 0, 0, 0, IST)))
	assert.False(t, c.IsTradingDay(time.Date(2026, 8, 30, 12, 0, 0, 0, IST)))
}

func TestStartOfDay(t *testing.T) {
	got := StartOfDay(istTime(15, 29))
	assert.Equal(t, time.Date(2026, 8, 26, 0, 0, 0, 0, IST), got)
}
