package market

import "time"

// Quote is a point-in-time price snapshot for one tradable symbol.
type Quote struct {
	Symbol    string    `json:"symbol"`
	LastPrice float64   `json:"last_price"`
	Volume    int64     `json:"volume,omitempty"`
	At        time.Time `json:"at"`
}

// OptionQuote pairs the call and put quotes at one strike.
type OptionQuote struct {
	Strike float64 `json:"strike"`
	Call   Quote   `json:"call"`
	Put    Quote   `json:"put"`
}
