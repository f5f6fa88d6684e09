package strategy

import (
	"math"
	"time"
)

// Kind enumerates the strategy variants. The set is closed; the executor
// refuses anything else.
type Kind string

const (
	ATMCall        Kind = "ATM_CALL"
	IronCondor     Kind = "IRON_CONDOR"
	ShortStrangle  Kind = "SHORT_STRANGLE"
	CalendarSpread Kind = "CALENDAR_SPREAD"
)

// Signal is the unit handed from signal generation to risk and execution.
// It is immutable after creation and consumed exactly once.
type Signal struct {
	Strategy Kind      `json:"strategy"`
	Symbol   string    `json:"symbol"`
	Score    float64   `json:"signal_score"`
	Entry    float64   `json:"entry_price"`
	StopLoss float64   `json:"stop_loss"`
	Target   float64   `json:"target"`
	Reasons  []string  `json:"reasons"`
	At       time.Time `json:"timestamp"`
}

// ATMStrike rounds spot to the nearest 100, the index option strike grid.
func ATMStrike(spot float64) float64 {
	return math.Round(spot/100) * 100
}
