package elo

import "math"

// Outcome pairs a pre-match home win probability with the actual result
// (1 home win, 0 away win, 0.5 draw).
type Outcome struct {
	Prob   float64
	Actual float64
}

// Metrics aggregates forecast quality over a set of matches. Lower is
// better for Brier and LogLoss.
type Metrics struct {
	Accuracy float64
	Brier    float64
	LogLoss  float64
	Matches  int
}

const (
	probFloor = 0.001
	probCeil  = 0.999
)

// ClampProb bounds a probability away from 0 and 1 before logarithms, so an
// overconfident wrong forecast costs a large but finite loss.
func ClampProb(p float64) float64 {
	return math.Max(probFloor, math.Min(probCeil, p))
}

// Evaluate computes accuracy, Brier score and log loss over outcome pairs.
//
// Accuracy treats p ≥ 0.5 as a home pick (the same home-side tie-break the
// forecast path uses) and counts a pick correct only when that side won;
// draws always score as misses. Draw log loss measures how close p sat to
// 0.5: −ln(1 − |0.5 − p|).
//
// An empty input yields the no-information result: accuracy 0, Brier 1,
// log loss +Inf.
func Evaluate(outcomes []Outcome) Metrics {
	if len(outcomes) == 0 {
		return Metrics{Accuracy: 0, Brier: 1.0, LogLoss: math.Inf(1)}
	}

	var correct int
	var brierSum, lossSum float64

	for _, o := range outcomes {
		pickedHome := o.Prob >= 0.5
		if (pickedHome && o.Actual == 1.0) || (!pickedHome && o.Actual == 0.0) {
			correct++
		}

		brierSum += (o.Prob - o.Actual) * (o.Prob - o.Actual)

		p := ClampProb(o.Prob)
		switch o.Actual {
		case 1.0:
			lossSum += -math.Log(p)
		case 0.0:
			lossSum += -math.Log(1 - p)
		default: // draw
			lossSum += -math.Log(1 - math.Abs(0.5-p))
		}
	}

	n := float64(len(outcomes))
	return Metrics{
		Accuracy: float64(correct) / n,
		Brier:    brierSum / n,
		LogLoss:  lossSum / n,
		Matches:  len(outcomes),
	}
}
