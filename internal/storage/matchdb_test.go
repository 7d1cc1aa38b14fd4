package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/jasonacollins/afl-predictions/internal/elo"
)

func forecastFixture(matchID int64, prob float64) []elo.PredictionRecord {
	return []elo.PredictionRecord{{
		MatchID:         matchID,
		HomeTeam:        "Geelong",
		AwayTeam:        "Carlton",
		HomeRating:      1540,
		AwayRating:      1480,
		RatingDiff:      60,
		AdjustedDiff:    110,
		HomeWinProb:     prob,
		AwayWinProb:     1 - prob,
		PredictedWinner: "Geelong",
		Confidence:      prob,
	}}
}

const fixtureSchema = `
CREATE TABLE teams (
	team_id INTEGER PRIMARY KEY,
	name    TEXT NOT NULL
);
CREATE TABLE matches (
	match_id     INTEGER PRIMARY KEY,
	round_number INTEGER,
	match_date   TEXT,
	venue        TEXT,
	year         INTEGER,
	hscore       INTEGER,
	ascore       INTEGER,
	complete     INTEGER,
	home_team_id INTEGER,
	away_team_id INTEGER
);
INSERT INTO teams (team_id, name) VALUES
	(1, 'Geelong'), (2, 'Sydney'), (3, 'Carlton');
INSERT INTO matches
	(match_id, round_number, match_date, venue, year, hscore, ascore, complete, home_team_id, away_team_id)
VALUES
	(10, 1, '2022-03-18', 'MCG',   2022, 95,  70,  100, 1, 2),
	(11, 2, '2022-03-25', 'SCG',   2022, 60,  88,  100, 2, 3),
	(12, 1, '2023-03-17', 'MCG',   2023, 101, 99,  100, 3, 1),
	(13, 2, '9999-12-01', 'MCG',   9999, NULL, NULL, 0, 1, 3),
	(14, 3, '2021-05-01', 'SCG',   2021, 55,  55,  100, 2, 1);
`

func openFixture(t *testing.T) *MatchDB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "afl.db")
	raw, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := raw.Exec(fixtureSchema); err != nil {
		t.Fatal(err)
	}
	raw.Close()

	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenMissingDatabase(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "nope.db")); err == nil {
		t.Error("expected error for missing database file")
	}
}

func TestCompletedMatchesOrderedAndFiltered(t *testing.T) {
	db := openFixture(t)

	matches, err := db.CompletedMatches(context.Background(), 1990, 0)
	if err != nil {
		t.Fatal(err)
	}

	// Four completed matches, chronological; the unplayed fixture excluded.
	if len(matches) != 4 {
		t.Fatalf("got %d matches, want 4", len(matches))
	}
	wantIDs := []int64{14, 10, 11, 12}
	for i, m := range matches {
		if m.ID != wantIDs[i] {
			t.Errorf("position %d: match %d, want %d", i, m.ID, wantIDs[i])
		}
		if !m.Played() {
			t.Errorf("match %d should have scores", m.ID)
		}
	}

	if matches[1].HomeTeam != "Geelong" || matches[1].AwayTeam != "Sydney" {
		t.Errorf("team join wrong: %s vs %s", matches[1].HomeTeam, matches[1].AwayTeam)
	}

	// Year filter.
	matches, err = db.CompletedMatches(context.Background(), 2022, 2022)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 2 {
		t.Errorf("2022 only: got %d matches, want 2", len(matches))
	}
}

func TestUpcomingMatchesPending(t *testing.T) {
	db := openFixture(t)

	matches, err := db.UpcomingMatches(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Fatalf("got %d upcoming, want 1", len(matches))
	}
	m := matches[0]
	if m.ID != 13 {
		t.Errorf("got match %d, want 13", m.ID)
	}
	if m.Played() {
		t.Error("upcoming match must not report Played")
	}
	if m.HomeScore != nil || m.AwayScore != nil {
		t.Error("pending scores should be nil")
	}
}

func TestRecentCompletedChronological(t *testing.T) {
	db := openFixture(t)

	matches, err := db.RecentCompleted(context.Background(), 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 3 {
		t.Fatalf("got %d matches, want 3", len(matches))
	}

	// Newest three, returned oldest-first for sequential application.
	wantIDs := []int64{10, 11, 12}
	for i, m := range matches {
		if m.ID != wantIDs[i] {
			t.Errorf("position %d: match %d, want %d", i, m.ID, wantIDs[i])
		}
	}
}

func TestSavePredictionsUpsert(t *testing.T) {
	db := openFixture(t)
	ctx := context.Background()

	upcoming, err := db.UpcomingMatches(ctx)
	if err != nil {
		t.Fatal(err)
	}

	rec := forecastFixture(upcoming[0].ID, 0.62)
	if err := db.SavePredictions(ctx, rec); err != nil {
		t.Fatal(err)
	}

	// Second save for the same match must overwrite, not duplicate.
	rec = forecastFixture(upcoming[0].ID, 0.58)
	if err := db.SavePredictions(ctx, rec); err != nil {
		t.Fatal(err)
	}

	rows, err := db.RecentPredictions(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		count++
	}
	if count != 1 {
		t.Errorf("got %d prediction rows, want 1 after upsert", count)
	}
}
