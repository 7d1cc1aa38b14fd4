package elo

import (
	"math"
	"testing"
)

func TestWinProbabilityEqualRatings(t *testing.T) {
	if p := WinProbability(1500, 1500, 0); p != 0.5 {
		t.Errorf("equal ratings, no advantage: got %v, want exactly 0.5", p)
	}
}

func TestWinProbabilityKnownValue(t *testing.T) {
	// diff = 50 → 1/(1+10^(-50/400)) ≈ 0.5706
	p := WinProbability(1500, 1500, 50)
	if math.Abs(p-0.5706) > 0.0005 {
		t.Errorf("50-point advantage: got %v, want ≈0.5706", p)
	}
}

func TestWinProbabilityMonotonic(t *testing.T) {
	prev := WinProbability(1300, 1500, 0)
	for home := 1320.0; home <= 1700; home += 20 {
		p := WinProbability(home, 1500, 0)
		if p <= prev {
			t.Fatalf("probability not strictly increasing in home rating at %v: %v <= %v", home, p, prev)
		}
		prev = p
	}

	prev = WinProbability(1500, 1300, 0)
	for away := 1320.0; away <= 1700; away += 20 {
		p := WinProbability(1500, away, 0)
		if p >= prev {
			t.Fatalf("probability not strictly decreasing in away rating at %v: %v >= %v", away, p, prev)
		}
		prev = p
	}
}

func TestWinProbabilityBounds(t *testing.T) {
	for _, diff := range []float64{-3000, -400, 0, 400, 3000} {
		p := WinProbability(1500+diff, 1500, 0)
		if p <= 0 || p >= 1 {
			t.Errorf("diff %v: probability %v outside (0,1)", diff, p)
		}
	}
}
