package tuning

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/jasonacollins/afl-predictions/internal/elo"
	"github.com/jasonacollins/afl-predictions/internal/telemetry"
)

// split is one expanding-window fold: train [0, trainEnd), test
// [trainEnd, testEnd). Test segments always lie strictly after their
// training segment, which is what keeps future results out of the ratings
// they are scored against.
type split struct {
	trainEnd int
	testEnd  int
}

// expandingSplits cuts n chronologically ordered matches into folds of
// equal test size n/(folds+1), each fold training on everything before its
// test segment. Returns nil when there are too few matches to form a
// single non-empty fold.
func expandingSplits(n, folds int) []split {
	if folds < 1 {
		return nil
	}
	testSize := n / (folds + 1)
	if testSize == 0 {
		return nil
	}

	out := make([]split, 0, folds)
	for i := 0; i < folds; i++ {
		trainEnd := n - (folds-i)*testSize
		out = append(out, split{trainEnd: trainEnd, testEnd: trainEnd + testSize})
	}
	return out
}

// FoldScore is the held-out log loss of one candidate on one fold.
type FoldScore struct {
	Fold         int     `json:"fold"`
	TrainMatches int     `json:"train_matches"`
	TestMatches  int     `json:"test_matches"`
	LogLoss      float64 `json:"log_loss"`
}

// CandidateResult is one parameter tuple with its cross-validation scores.
type CandidateResult struct {
	Index       int            `json:"index"`
	Params      elo.Parameters `json:"params"`
	MeanLogLoss float64        `json:"mean_log_loss"`
	Folds       []FoldScore    `json:"folds"`
}

// Report is the full search outcome: the winning tuple plus every
// per-candidate, per-fold score for audit.
type Report struct {
	RunID      string            `json:"run_id"`
	Matches    int               `json:"matches"`
	Folds      int               `json:"folds"`
	Candidates int               `json:"candidates"`
	Elapsed    time.Duration     `json:"elapsed_ns"`
	BestIndex  int               `json:"best_index"`
	BestParams elo.Parameters    `json:"best_params"`
	BestScore  float64           `json:"best_score"`
	Ranked     []CandidateResult `json:"ranked"`
}

// Searcher drives time-ordered cross-validation over a candidate grid.
// Every (candidate, fold) cell trains an independent store from scratch, so
// cells are embarrassingly parallel; Workers bounds the pool.
type Searcher struct {
	Folds   int
	Workers int

	progress rate.Sometimes
}

func NewSearcher(folds, workers int) *Searcher {
	if folds < 1 {
		folds = 3
	}
	if workers < 1 {
		workers = 1
	}
	return &Searcher{
		Folds:    folds,
		Workers:  workers,
		progress: rate.Sometimes{Interval: 2 * time.Second},
	}
}

// Run scores every candidate and returns the report. Matches must be in
// chronological order. An empty or too-short history is degenerate, not
// fatal: every cell scores +Inf and the first candidate wins by tie-break.
func (s *Searcher) Run(ctx context.Context, matches []elo.MatchResult, candidates []elo.Parameters) (Report, error) {
	if len(candidates) == 0 {
		return Report{}, fmt.Errorf("no candidates to evaluate")
	}

	start := time.Now()
	splits := expandingSplits(len(matches), s.Folds)
	if splits == nil {
		telemetry.Warnf("tuning: %d matches cannot fill %d folds, scores will be +Inf", len(matches), s.Folds)
	}

	scores := make([][]float64, len(candidates))
	for i := range scores {
		scores[i] = make([]float64, len(splits))
	}

	total := int64(len(candidates) * max(len(splits), 1))
	var done atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.Workers)

	for ci := range candidates {
		for fi := range splits {
			ci, fi := ci, fi
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}

				cellStart := time.Now()
				loss, err := scoreCell(matches, splits[fi], candidates[ci])
				if err != nil {
					return fmt.Errorf("candidate %d fold %d: %w", ci, fi, err)
				}
				scores[ci][fi] = loss

				telemetry.Metrics.CellsEvaluated.Inc()
				telemetry.Metrics.CellLatency.Record(time.Since(cellStart))

				n := done.Add(1)
				s.progress.Do(func() {
					telemetry.Infof("tuning: %d/%d cells evaluated", n, total)
				})
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	results := make([]CandidateResult, len(candidates))
	for ci, params := range candidates {
		cr := CandidateResult{Index: ci, Params: params}
		var sum float64
		for fi, sp := range splits {
			cr.Folds = append(cr.Folds, FoldScore{
				Fold:         fi,
				TrainMatches: sp.trainEnd,
				TestMatches:  sp.testEnd - sp.trainEnd,
				LogLoss:      scores[ci][fi],
			})
			sum += scores[ci][fi]
		}
		if len(splits) > 0 {
			cr.MeanLogLoss = sum / float64(len(splits))
		} else {
			cr.MeanLogLoss = math.Inf(1)
		}
		results[ci] = cr
	}

	// Strict less-than scan in candidate order: first encountered wins ties.
	best := 0
	for i := 1; i < len(results); i++ {
		if results[i].MeanLogLoss < results[best].MeanLogLoss {
			best = i
		}
	}

	ranked := make([]CandidateResult, len(results))
	copy(ranked, results)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].MeanLogLoss < ranked[j].MeanLogLoss
	})

	return Report{
		RunID:      uuid.NewString(),
		Matches:    len(matches),
		Folds:      len(splits),
		Candidates: len(candidates),
		Elapsed:    time.Since(start),
		BestIndex:  best,
		BestParams: results[best].Params,
		BestScore:  results[best].MeanLogLoss,
		Ranked:     ranked,
	}, nil
}

// scoreCell trains a fresh engine on the fold's training segment and scores
// the test segment read-only. If the first test match opens a new season
// relative to the last training match, one carryover regression is applied
// before scoring — the same step training would have taken. Test results
// never feed back into the ratings.
func scoreCell(matches []elo.MatchResult, sp split, params elo.Parameters) (float64, error) {
	train := matches[:sp.trainEnd]
	test := matches[sp.trainEnd:sp.testEnd]

	result, err := elo.Train(train, params)
	if err != nil {
		return 0, err
	}

	updater := elo.NewUpdater(params, result.Store)
	if len(train) > 0 && len(test) > 0 && test[0].Year != train[len(train)-1].Year {
		updater.ApplyCarryover(test[0].Year)
	}

	predictor := elo.NewPredictor(params, result.Store)
	outcomes := make([]elo.Outcome, 0, len(test))
	for _, m := range test {
		if !m.Played() {
			continue
		}
		rec := predictor.Forecast(m)

		actual := 0.5
		switch {
		case *m.HomeScore > *m.AwayScore:
			actual = 1.0
		case *m.HomeScore < *m.AwayScore:
			actual = 0.0
		}
		outcomes = append(outcomes, elo.Outcome{Prob: rec.HomeWinProb, Actual: actual})
	}

	return elo.Evaluate(outcomes).LogLoss, nil
}
