package elo

import "time"

// MatchResult is one row of the ordered match feed. Scores are pointers
// because fixtures that have not been played yet carry NULL scores; the
// engine routes those to the forecast path instead of the update path.
// ID, Round, Date and Venue are carried through for output and audit only —
// the engine uses Year for season boundaries and nothing else.
type MatchResult struct {
	ID        int64
	Round     int
	Date      time.Time
	Venue     string
	Year      int
	HomeTeam  string
	AwayTeam  string
	HomeScore *int
	AwayScore *int
}

// Played reports whether the match has a final score on both sides.
func (m MatchResult) Played() bool {
	return m.HomeScore != nil && m.AwayScore != nil
}

// PredictionRecord is the per-match output row. The forecast fields are
// always populated; the outcome fields only when the match carried a final
// score and went through the updater.
type PredictionRecord struct {
	MatchID  int64
	Round    int
	Date     time.Time
	Venue    string
	Year     int
	HomeTeam string
	AwayTeam string

	HomeRating      float64 // pre-match
	AwayRating      float64
	RatingDiff      float64 // home − away, raw
	AdjustedDiff    float64 // with home advantage applied
	HomeWinProb     float64
	AwayWinProb     float64
	PredictedWinner string
	Confidence      float64 // max(p, 1−p)

	// Outcome fields, nil for pending matches.
	HomeScore    *int
	AwayScore    *int
	Actual       *float64 // 1 home win, 0 away win, 0.5 draw
	Margin       *int
	RatingChange *float64
	HomeAfter    *float64
	AwayAfter    *float64
	Correct      *bool
}
