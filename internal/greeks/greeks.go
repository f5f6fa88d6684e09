// Package greeks prices index options with the Black-Scholes closed form
// and derives the first-order sensitivities used for strategy selection.
package greeks

import (
	"fmt"
	"math"
)

// OptionType follows the exchange convention: CE for calls, PE for puts.
type OptionType string

const (
	Call OptionType = "CE"
	Put  OptionType = "PE"
)

// DefaultRiskFreeRate is the annualized rate applied when the caller has
// no better figure.
const DefaultRiskFreeRate = 0.06

// Snapshot holds the theoretical price and greeks for one option leg at
// one instant. IV is expressed in percent.
type Snapshot struct {
	Price float64 `json:"price"`
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Theta float64 `json:"theta"`
	Vega  float64 `json:"vega"`
	IV    float64 `json:"iv"`
}

// ComputationError marks numeric input the pricing model cannot handle.
// It is fatal for the evaluation that produced it and is never retried.
type ComputationError struct {
	Reason string
}

func (e *ComputationError) Error() string {
	return "greeks computation: " + e.Reason
}

// PriceAndGreeks prices one leg with T = expiryDays/365. Degenerate
// inputs fail fast instead of propagating NaN into the scoring.
func PriceAndGreeks(spot, strike float64, expiryDays int, typ OptionType, iv, riskFree float64) (Snapshot, error) {
	switch {
	case expiryDays <= 0:
		return Snapshot{}, &ComputationError{Reason: fmt.Sprintf("expiry_days must be positive, got %d", expiryDays)}
	case iv <= 0:
		return Snapshot{}, &ComputationError{Reason: fmt.Sprintf("implied volatility must be positive, got %v", iv)}
	case spot <= 0 || strike <= 0:
		return Snapshot{}, &ComputationError{Reason: fmt.Sprintf("spot and strike must be positive, got %v/%v", spot, strike)}
	}
	if typ != Call && typ != Put {
		return Snapshot{}, &ComputationError{Reason: fmt.Sprintf("unknown option type %q", typ)}
	}

	t := float64(expiryDays) / 365.0
	sqrtT := math.Sqrt(t)
	d1 := (math.Log(spot/strike) + (riskFree+iv*iv/2)*t) / (iv * sqrtT)
	d2 := d1 - iv*sqrtT

	var price, delta, theta float64
	if typ == Call {
		price = spot*normCDF(d1) - strike*math.Exp(-riskFree*t)*normCDF(d2)
		delta = normCDF(d1)
		theta = (-spot*normPDF(d1)*iv/(2*sqrtT) - riskFree*strike*math.Exp(-riskFree*t)*normCDF(d2)) / 365
	} else {
		price = strike*math.Exp(-riskFree*t)*normCDF(-d2) - spot*normCDF(-d1)
		delta = normCDF(d1) - 1
		theta = (-spot*normPDF(d1)*iv/(2*sqrtT) + riskFree*strike*math.Exp(-riskFree*t)*normCDF(-d2)) / 365
	}
	gamma := normPDF(d1) / (spot * iv * sqrtT)
	vega := spot * normPDF(d1) * sqrtT / 100

	return Snapshot{
		Price: round(price, 2),
		Delta: round(delta, 4),
		Gamma: round(gamma, 4),
		Theta: round(theta, 2),
		Vega:  round(vega, 2),
		IV:    round(iv*100, 2),
	}, nil
}

func normCDF(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}

func normPDF(x float64) float64 {
	return math.Exp(-x*x/2) / math.Sqrt(2*math.Pi)
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
