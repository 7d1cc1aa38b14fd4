package elo

import (
	"strconv"

	"github.com/jasonacollins/afl-predictions/internal/telemetry"
)

// TrainResult is the outcome of one full chronological pass over a match
// history.
type TrainResult struct {
	Params  Parameters
	Store   *Store
	Ledger  []Event
	Records []PredictionRecord

	// Yearly holds a snapshot of the ratings at the end of each season,
	// captured before the carryover regression, keyed by season year.
	Yearly map[string]map[string]float64
}

// Metrics evaluates the in-sample prediction log.
func (r TrainResult) Metrics() Metrics {
	outcomes := make([]Outcome, 0, len(r.Records))
	for _, rec := range r.Records {
		if rec.Actual == nil {
			continue
		}
		outcomes = append(outcomes, Outcome{Prob: rec.HomeWinProb, Actual: *rec.Actual})
	}
	return Evaluate(outcomes)
}

// Train runs the rating engine over a chronologically ordered match history:
// a fresh store, one update per completed match, and a carryover regression
// each time the season year changes. Matches without a final score are
// routed past the updater with a warning — a missing score means "not yet
// played", never a failure.
func Train(matches []MatchResult, params Parameters) (TrainResult, error) {
	if err := params.Validate(); err != nil {
		return TrainResult{}, err
	}

	store := NewStore(params.BaseRating)
	updater := NewUpdater(params, store)
	yearly := make(map[string]map[string]float64)

	var tracker SeasonTracker
	for _, m := range matches {
		if !m.Played() {
			telemetry.Warnf("match %d (%s vs %s) has no final score, skipping update",
				m.ID, m.HomeTeam, m.AwayTeam)
			telemetry.Metrics.PendingRouted.Inc()
			continue
		}

		if endedYear := tracker.LastYear(); tracker.Crossed(m.Year) {
			yearly[strconv.Itoa(endedYear)] = store.Snapshot()
			updater.ApplyCarryover(m.Year)
			telemetry.Metrics.CarryoversApplied.Inc()
		}

		updater.ApplyResult(m)
		telemetry.Metrics.MatchesProcessed.Inc()
	}

	if tracker.LastYear() != 0 {
		yearly[strconv.Itoa(tracker.LastYear())] = store.Snapshot()
	}

	return TrainResult{
		Params:  params,
		Store:   store,
		Ledger:  updater.Ledger(),
		Records: updater.Records(),
		Yearly:  yearly,
	}, nil
}
