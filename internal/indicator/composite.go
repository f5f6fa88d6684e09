package indicator

import (
	"math"

	"optrader/internal/market"
)

// Action is the direction a composite signal points at.
type Action string

const (
	Buy     Action = "BUY"
	Sell    Action = "SELL"
	Neutral Action = "NEUTRAL"
)

// Sub-indicator weights. They must sum to 1.0; aggregate() relies on it.
var compositeWeights = map[string]float64{
	"rsi":        0.20,
	"macd":       0.25,
	"bollinger":  0.15,
	"supertrend": 0.20,
	"ema":        0.20,
}

// Reading is one scored sub-indicator: a signed score in a fixed range and
// a directional label.
type Reading struct {
	Name  string
	Score float64
	Label string
}

// CompositeSignal aggregates the weighted readings into a single action.
type CompositeSignal struct {
	Readings   []Reading
	TotalScore float64
	Action     Action
	Confidence float64
}

// Composite scores every sub-indicator over the series and aggregates
// them. Indicators without enough history degrade to a neutral reading
// rather than failing the whole evaluation.
func Composite(series market.Series) CompositeSignal {
	closes := series.Closes()
	readings := make([]Reading, 0, 5)

	rsi := RSI(closes, DefaultRSIPeriod)
	switch {
	case rsi < 30:
		readings = append(readings, Reading{Name: "rsi", Score: 100, Label: "OVERSOLD"})
	case rsi > 70:
		readings = append(readings, Reading{Name: "rsi", Score: -100, Label: "OVERBOUGHT"})
	default:
		readings = append(readings, Reading{Name: "rsi", Score: 0, Label: "NEUTRAL"})
	}

	macd := MACD(closes)
	switch {
	case macd.Histogram > 0 && macd.Line > macd.Signal:
		readings = append(readings, Reading{Name: "macd", Score: 80, Label: "BULLISH"})
	case macd.Histogram < 0 && macd.Line < macd.Signal:
		readings = append(readings, Reading{Name: "macd", Score: -80, Label: "BEARISH"})
	default:
		readings = append(readings, Reading{Name: "macd", Score: 0, Label: "NEUTRAL"})
	}

	if bb, err := Bollinger(closes, BollingerPeriod); err != nil {
		readings = append(readings, Reading{Name: "bollinger", Score: 0, Label: "NEUTRAL"})
	} else {
		switch {
		case bb.Oversold():
			readings = append(readings, Reading{Name: "bollinger", Score: 70, Label: "OVERSOLD"})
		case bb.Overbought():
			readings = append(readings, Reading{Name: "bollinger", Score: -70, Label: "OVERBOUGHT"})
		default:
			readings = append(readings, Reading{Name: "bollinger", Score: 0, Label: "NEUTRAL"})
		}
	}

	if st, err := Supertrend(series.Highs(), series.Lows(), closes, SupertrendPeriod, SupertrendMultiplier); err != nil {
		readings = append(readings, Reading{Name: "supertrend", Score: 0, Label: "NEUTRAL"})
	} else if st.Direction == 1 {
		readings = append(readings, Reading{Name: "supertrend", Score: 90, Label: "BUY"})
	} else {
		readings = append(readings, Reading{Name: "supertrend", Score: -90, Label: "SELL"})
	}

	cross := EMACrossover(closes, EMAFastPeriod, EMASlowPeriod)
	switch cross.Signal {
	case Buy:
		readings = append(readings, Reading{Name: "ema", Score: 85, Label: "BUY"})
	case Sell:
		readings = append(readings, Reading{Name: "ema", Score: -85, Label: "SELL"})
	default:
		readings = append(readings, Reading{Name: "ema", Score: 0, Label: "NEUTRAL"})
	}

	return aggregate(readings)
}

// aggregate folds weighted readings into the final action. BUY needs a
// weighted score of at least +50, SELL of at most -50; anything in between
// is NEUTRAL with confidence fading toward the thresholds.
func aggregate(readings []Reading) CompositeSignal {
	var total float64
	for _, r := range readings {
		total += r.Score * compositeWeights[r.Name]
	}
	sig := CompositeSignal{Readings: readings, TotalScore: total}
	switch {
	case total >= 50:
		sig.Action = Buy
		sig.Confidence = math.Min(total, 100)
	case total <= -50:
		sig.Action = Sell
		sig.Confidence = math.Min(math.Abs(total), 100)
	default:
		sig.Action = Neutral
		sig.Confidence = 100 - math.Abs(total)
	}
	return sig
}
