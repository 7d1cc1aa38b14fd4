package tuning

import (
	"context"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/jasonacollins/afl-predictions/internal/elo"
)

func intp(v int) *int { return &v }

// history builds n alternating fixtures between four teams where "Strong"
// always beats "Weak", spread over seasons of 20 matches each, dates
// strictly increasing.
func history(n int) []elo.MatchResult {
	teams := [][2]string{
		{"Strong", "Weak"},
		{"Strong", "Middling"},
		{"Middling", "Weak"},
	}
	out := make([]elo.MatchResult, 0, n)
	base := time.Date(2018, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		pair := teams[i%len(teams)]
		out = append(out, elo.MatchResult{
			ID:        int64(i + 1),
			Year:      2018 + i/20,
			Date:      base.AddDate(0, 0, i*4),
			HomeTeam:  pair[0],
			AwayTeam:  pair[1],
			HomeScore: intp(90),
			AwayScore: intp(60),
		})
	}
	return out
}

func TestExpandingSplitsGeometry(t *testing.T) {
	splits := expandingSplits(100, 4)
	if len(splits) != 4 {
		t.Fatalf("got %d splits, want 4", len(splits))
	}

	// testSize = 100/5 = 20; folds end at 40/60/80/100.
	wantTrainEnds := []int{20, 40, 60, 80}
	for i, sp := range splits {
		if sp.trainEnd != wantTrainEnds[i] {
			t.Errorf("fold %d: trainEnd %d, want %d", i, sp.trainEnd, wantTrainEnds[i])
		}
		if sp.testEnd-sp.trainEnd != 20 {
			t.Errorf("fold %d: test size %d, want 20", i, sp.testEnd-sp.trainEnd)
		}
	}

	if expandingSplits(3, 5) != nil {
		t.Error("too few matches should produce no splits")
	}
	if expandingSplits(100, 0) != nil {
		t.Error("zero folds should produce no splits")
	}
}

func TestSplitsNeverLeakFuture(t *testing.T) {
	matches := history(90)
	for _, folds := range []int{2, 3, 5} {
		for fi, sp := range expandingSplits(len(matches), folds) {
			lastTrain := matches[sp.trainEnd-1].Date
			for _, m := range matches[sp.trainEnd:sp.testEnd] {
				if !m.Date.After(lastTrain) {
					t.Fatalf("folds=%d fold=%d: test match %d at %s not after train end %s",
						folds, fi, m.ID, m.Date, lastTrain)
				}
			}
		}
	}
}

func TestSearcherRun(t *testing.T) {
	matches := history(80)
	candidates := []elo.Parameters{
		{BaseRating: 1500, KFactor: 30, HomeAdvantage: 50, MarginFactor: 0.5, SeasonCarryover: 0.75, MaxMargin: 100},
		{BaseRating: 1500, KFactor: 20, HomeAdvantage: 30, MarginFactor: 0, SeasonCarryover: 0.6, MaxMargin: 80},
	}

	report, err := NewSearcher(3, 2).Run(context.Background(), matches, candidates)
	if err != nil {
		t.Fatal(err)
	}

	if report.Candidates != 2 || report.Folds != 3 {
		t.Errorf("report shape: %d candidates %d folds", report.Candidates, report.Folds)
	}
	if report.RunID == "" {
		t.Error("missing run id")
	}
	if len(report.Ranked) != 2 {
		t.Fatalf("ranked: got %d entries", len(report.Ranked))
	}

	for _, cr := range report.Ranked {
		if len(cr.Folds) != 3 {
			t.Fatalf("candidate %d: %d fold scores", cr.Index, len(cr.Folds))
		}
		var sum float64
		for _, fs := range cr.Folds {
			if fs.LogLoss < 0 {
				t.Errorf("negative log loss %v", fs.LogLoss)
			}
			sum += fs.LogLoss
		}
		if math.Abs(cr.MeanLogLoss-sum/3) > 1e-9 {
			t.Errorf("candidate %d: mean %v != fold average %v", cr.Index, cr.MeanLogLoss, sum/3)
		}
	}

	if report.BestScore != report.Ranked[0].MeanLogLoss {
		t.Errorf("best score %v disagrees with top ranked %v", report.BestScore, report.Ranked[0].MeanLogLoss)
	}
}

func TestSearcherDeterministic(t *testing.T) {
	matches := history(60)
	candidates := Grid{
		BaseRating:      []float64{1500},
		KFactor:         []float64{20, 30, 40},
		HomeAdvantage:   []float64{50},
		MarginFactor:    []float64{0.5},
		SeasonCarryover: []float64{0.75},
		MaxMargin:       []float64{100},
	}.Candidates()

	s := NewSearcher(3, 4)
	first, err := s.Run(context.Background(), matches, candidates)
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.Run(context.Background(), matches, candidates)
	if err != nil {
		t.Fatal(err)
	}

	if first.BestIndex != second.BestIndex {
		t.Errorf("best index changed across runs: %d vs %d", first.BestIndex, second.BestIndex)
	}
	if first.BestScore != second.BestScore {
		t.Errorf("best score changed across runs: %v vs %v", first.BestScore, second.BestScore)
	}
}

func TestSearcherTieBreakFirstCandidate(t *testing.T) {
	matches := history(60)
	// Identical parameter tuples score identically; the first must win.
	p := elo.Parameters{BaseRating: 1500, KFactor: 30, HomeAdvantage: 50, MarginFactor: 0.5, SeasonCarryover: 0.75, MaxMargin: 100}
	report, err := NewSearcher(3, 4).Run(context.Background(), matches, []elo.Parameters{p, p, p})
	if err != nil {
		t.Fatal(err)
	}
	if report.BestIndex != 0 {
		t.Errorf("tie broken to index %d, want 0", report.BestIndex)
	}
	if !reflect.DeepEqual(report.BestParams, p) {
		t.Errorf("best params %+v", report.BestParams)
	}
}

func TestSearcherEmptyHistory(t *testing.T) {
	p := elo.Parameters{BaseRating: 1500, KFactor: 30, HomeAdvantage: 50, MarginFactor: 0.5, SeasonCarryover: 0.75, MaxMargin: 100}
	report, err := NewSearcher(3, 2).Run(context.Background(), nil, []elo.Parameters{p})
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsInf(report.BestScore, 1) {
		t.Errorf("empty history best score: got %v, want +Inf", report.BestScore)
	}
	if report.BestIndex != 0 {
		t.Errorf("degenerate search should fall back to first candidate, got %d", report.BestIndex)
	}
}

func TestSearcherNoCandidates(t *testing.T) {
	if _, err := NewSearcher(3, 2).Run(context.Background(), history(30), nil); err == nil {
		t.Error("expected error for empty candidate list")
	}
}

func TestSearcherCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSearcher(3, 2).Run(ctx, history(200), DefaultGrid().Candidates())
	if err == nil {
		t.Error("expected error from cancelled context")
	}
}
