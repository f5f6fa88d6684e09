package market

import "time"

// NSE session boundaries, expressed as minutes from midnight IST.
const (
	openMinute      = 9*60 + 15  // 09:15
	closeMinute     = 15*60 + 30 // 15:30
	squareOffMinute = 15*60 + 29 // 15:29
)

// IST is the exchange time zone. All session math happens in it.
var IST = loadIST()

func loadIST() *time.Location {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		return time.FixedZone("IST", 5*3600+1800)
	}
	return loc
}

// Clock supplies wall-clock time and the trading calendar. Components
// depend on it instead of time.Now so sessions are reproducible in tests.
type Clock interface {
	Now() time.Time
	IsTradingDay(t time.Time) bool
}

// SessionClock is the production clock: real time in IST, Mon-Fri minus
// the holidays known to the calendar.
type SessionClock struct {
	Calendar *Calendar
}

func (c *SessionClock) Now() time.Time { return time.Now().In(IST) }

func (c *SessionClock) IsTradingDay(t time.Time) bool {
	t = t.In(IST)
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	if c.Calendar != nil && c.Calendar.IsHoliday(t) {
		return false
	}
	return true
}

func minuteOfDay(t time.Time) int {
	t = t.In(IST)
	return t.Hour()*60 + t.Minute()
}

// SessionOpen returns the 09:15 IST open for t's day.
func SessionOpen(t time.Time) time.Time {
	t = t.In(IST)
	return time.Date(t.Year(), t.Month(), t.Day(), openMinute/60, openMinute%60, 0, 0, IST)
}

// SessionClose returns the 15:30 IST close for t's day.
func SessionClose(t time.Time) time.Time {
	t = t.In(IST)
	return time.Date(t.Year(), t.Month(), t.Day(), closeMinute/60, closeMinute%60, 0, 0, IST)
}

// WithinSession reports whether t falls inside [open, close].
func WithinSession(t time.Time) bool {
	m := minuteOfDay(t)
	return m >= openMinute && m <= closeMinute
}

// InSquareOffWindow reports whether t falls inside [15:29, 15:30], the
// window in which the watchdog flattens everything.
func InSquareOffWindow(t time.Time) bool {
	m := minuteOfDay(t)
	return m >= squareOffMinute && m <= closeMinute
}

// SinceOpen is the elapsed time since the session open (negative before it).
func SinceOpen(t time.Time) time.Duration {
	return t.In(IST).Sub(SessionOpen(t))
}

// UntilClose is the time remaining to the session close (negative after it).
func UntilClose(t time.Time) time.Duration {
	return SessionClose(t).Sub(t.In(IST))
}

// StartOfDay truncates t to midnight IST.
func StartOfDay(t time.Time) time.Time {
	t = t.In(IST)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, IST)
}

// FixedClock returns a canned time; tests use it to pin the session.
type FixedClock struct {
	At      time.Time
	Holiday bool
}

func (c *FixedClock) Now() time.Time { return c.At }

func (c *FixedClock) IsTradingDay(time.Time) bool { return !c.Holiday }
