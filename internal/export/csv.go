// Package export writes prediction and ledger rows as CSV for archival and
// downstream accuracy analysis.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/jasonacollins/afl-predictions/internal/elo"
)

// WritePredictions writes one row per prediction record. Outcome columns
// are blank for pending fixtures.
func WritePredictions(path string, recs []elo.PredictionRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"match_id", "round", "date", "venue", "year", "home_team", "away_team",
		"home_rating", "away_rating", "rating_difference", "adjusted_rating_difference",
		"home_win_probability", "away_win_probability", "predicted_winner", "confidence",
		"home_score", "away_score", "actual_result", "margin", "rating_change",
		"home_rating_after", "away_rating_after", "correct",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range recs {
		row := []string{
			strconv.FormatInt(r.MatchID, 10),
			strconv.Itoa(r.Round),
			fmtDate(r.Date),
			r.Venue,
			strconv.Itoa(r.Year),
			r.HomeTeam,
			r.AwayTeam,
			fmtFloat(r.HomeRating),
			fmtFloat(r.AwayRating),
			fmtFloat(r.RatingDiff),
			fmtFloat(r.AdjustedDiff),
			fmtProb(r.HomeWinProb),
			fmtProb(r.AwayWinProb),
			r.PredictedWinner,
			fmtProb(r.Confidence),
			fmtIntPtr(r.HomeScore),
			fmtIntPtr(r.AwayScore),
			fmtFloatPtr(r.Actual),
			fmtIntPtr(r.Margin),
			fmtFloatPtr(r.RatingChange),
			fmtFloatPtr(r.HomeAfter),
			fmtFloatPtr(r.AwayAfter),
			fmtBoolPtr(r.Correct),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// WriteLedger writes one row per ledger event: a single row per match
// update, and one row per team per season carryover.
func WriteLedger(path string, events []elo.Event) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"event", "year", "home_team", "away_team", "team",
		"home_before", "away_before", "home_after", "away_after",
		"before", "after", "delta", "win_probability", "actual", "margin",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, ev := range events {
		var row []string
		switch e := ev.(type) {
		case elo.MatchEvent:
			row = []string{
				string(e.Kind()), strconv.Itoa(e.Year),
				e.HomeTeam, e.AwayTeam, "",
				fmtFloat(e.HomeBefore), fmtFloat(e.AwayBefore),
				fmtFloat(e.HomeAfter), fmtFloat(e.AwayAfter),
				"", "",
				fmtFloat(e.Delta), fmtProb(e.WinProb),
				fmtFloatPtr(&e.Actual), strconv.Itoa(e.Margin),
			}
		case elo.SeasonCarryoverEvent:
			row = []string{
				string(e.Kind()), strconv.Itoa(e.Year),
				"", "", e.Team,
				"", "", "", "",
				fmtFloat(e.Before), fmtFloat(e.After),
				fmtFloat(e.Delta()), "", "", "",
			}
		default:
			return fmt.Errorf("unknown ledger event type %T", ev)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func fmtDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func fmtFloat(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
func fmtProb(v float64) string  { return strconv.FormatFloat(v, 'f', 4, 64) }

func fmtIntPtr(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func fmtFloatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 4, 64)
}

func fmtBoolPtr(v *bool) string {
	if v == nil {
		return ""
	}
	return strconv.FormatBool(*v)
}
