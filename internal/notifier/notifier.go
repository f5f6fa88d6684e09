// Package notifier pushes trade events to an external channel. Sends are
// fire-and-forget: a failed notification never blocks or rolls back an
// order.
package notifier

// TextNotifier is the minimal interface components depend on, so nothing
// outside this package imports the Telegram implementation directly.
type TextNotifier interface {
	SendText(text string) error
}

// Noop discards every message. Used in tests and quiet paper runs.
type Noop struct{}

func (Noop) SendText(string) error { return nil }
