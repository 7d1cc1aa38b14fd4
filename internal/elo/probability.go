package elo

import "math"

// WinProbability converts a rating differential into the home side's win
// probability via the base-10 logistic curve with a 400-point scale:
//
//	p = 1 / (1 + 10^(-((home + homeAdvantage) - away) / 400))
//
// Equal effective ratings give exactly 0.5. The result is strictly between
// 0 and 1 for any differential a rating system can realistically produce;
// float64 only rounds to 0 or 1 past |diff| ≈ 6400. No clamping happens
// here — metric consumers clamp before taking logarithms.
func WinProbability(home, away, homeAdvantage float64) float64 {
	diff := (home + homeAdvantage) - away
	return 1.0 / (1.0 + math.Pow(10, -diff/400.0))
}
