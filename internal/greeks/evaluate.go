package greeks

// Strategy kinds the evaluator knows how to score.
const (
	IronCondor    = "iron_condor"
	ShortStrangle = "short_strangle"
)

// Recommendation values.
const (
	Execute = "EXECUTE"
	Wait    = "WAIT"
)

// Evaluation scores how well a multi-leg structure's aggregate greeks fit
// the target strategy. Execute is only recommended at 70 or above.
type Evaluation struct {
	Score          float64  `json:"score"`
	Analysis       []string `json:"analysis"`
	Recommendation string   `json:"recommendation"`
}

const (
	deltaNeutralBand = 0.05
	thetaThreshold   = 50.0
	highIVThreshold  = 18.0
	executeScore     = 70.0
)

// EvaluateStrategy scores legs keyed by role (e.g. "sell_ce", "sell_pe",
// "buy_ce", "buy_pe"). Unknown kinds score zero and recommend WAIT.
func EvaluateStrategy(kind string, legs map[string]Snapshot) Evaluation {
	var ev Evaluation
	switch kind {
	case IronCondor:
		ev = evaluateIronCondor(legs)
	case ShortStrangle:
		ev = evaluateShortStrangle(legs)
	}
	if ev.Score >= executeScore {
		ev.Recommendation = Execute
	} else {
		ev.Recommendation = Wait
	}
	return ev
}

func evaluateIronCondor(legs map[string]Snapshot) Evaluation {
	var ev Evaluation
	var totalDelta, totalTheta float64
	for _, g := range legs {
		totalDelta += g.Delta
		totalTheta += g.Theta
	}
	if abs(totalDelta) < deltaNeutralBand {
		ev.Score += 30
		ev.Analysis = append(ev.Analysis, "delta neutral")
	}
	if totalTheta > thetaThreshold {
		ev.Score += 30
		ev.Analysis = append(ev.Analysis, "good theta decay")
	}
	if averageIV(legs) > highIVThreshold {
		ev.Score += 20
		ev.Analysis = append(ev.Analysis, "high IV environment")
	}
	return ev
}

func evaluateShortStrangle(legs map[string]Snapshot) Evaluation {
	var ev Evaluation
	ceDelta := legs["sell_ce"].Delta
	peDelta := abs(legs["sell_pe"].Delta)
	if ceDelta >= 0.25 && ceDelta <= 0.35 && peDelta >= 0.25 && peDelta <= 0.35 {
		ev.Score += 40
		ev.Analysis = append(ev.Analysis, "optimal delta range")
	}
	var totalTheta float64
	for _, g := range legs {
		totalTheta += g.Theta
	}
	if totalTheta > thetaThreshold {
		ev.Score += 30
		ev.Analysis = append(ev.Analysis, "good theta decay")
	}
	if averageIV(legs) > highIVThreshold {
		ev.Score += 20
		ev.Analysis = append(ev.Analysis, "high IV environment")
	}
	return ev
}

func averageIV(legs map[string]Snapshot) float64 {
	if len(legs) == 0 {
		return 0
	}
	var sum float64
	for _, g := range legs {
		sum += g.IV
	}
	return sum / float64(len(legs))
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
