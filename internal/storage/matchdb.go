package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"golang.org/x/text/unicode/norm"
	_ "modernc.org/sqlite"

	"github.com/jasonacollins/afl-predictions/internal/elo"
	"github.com/jasonacollins/afl-predictions/internal/telemetry"
)

// MatchDB wraps the SQLite database holding the match history (matches +
// teams tables, maintained by the ingestion side) and the elo_predictions
// output table, which this package owns.
type MatchDB struct {
	db *sql.DB
}

// Open connects to an existing match database. A missing file is an error —
// the pipeline never invents an empty history.
func Open(path string) (*MatchDB, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("match database %s: %w", path, err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(1)

	if _, err := db.Exec(predictionsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init elo_predictions schema: %w", err)
	}

	return &MatchDB{db: db}, nil
}

func (d *MatchDB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

const predictionsSchema = `CREATE TABLE IF NOT EXISTS elo_predictions (
	prediction_id              INTEGER PRIMARY KEY AUTOINCREMENT,
	match_id                   INTEGER NOT NULL UNIQUE,
	prediction_time            TEXT    NOT NULL,
	home_win_probability       REAL,
	away_win_probability       REAL,
	predicted_winner           TEXT,
	confidence                 REAL,
	home_rating                REAL,
	away_rating                REAL,
	rating_difference          REAL,
	adjusted_rating_difference REAL,
	FOREIGN KEY (match_id) REFERENCES matches (match_id)
)`

const matchColumns = `
	m.match_id, m.round_number, m.match_date, COALESCE(m.venue, ''), m.year,
	m.hscore, m.ascore,
	ht.name AS home_team, at.name AS away_team
FROM matches m
JOIN teams ht ON m.home_team_id = ht.team_id
JOIN teams at ON m.away_team_id = at.team_id`

// CompletedMatches returns the played matches between startYear and endYear
// inclusive, ordered by year then date — the order the engine consumes.
// endYear 0 means no upper bound.
func (d *MatchDB) CompletedMatches(ctx context.Context, startYear, endYear int) ([]elo.MatchResult, error) {
	if endYear == 0 {
		endYear = 9999
	}
	rows, err := d.db.QueryContext(ctx, `SELECT `+matchColumns+`
		WHERE m.year >= ? AND m.year <= ?
		  AND m.hscore IS NOT NULL AND m.ascore IS NOT NULL
		ORDER BY m.year, m.match_date`, startYear, endYear)
	if err != nil {
		return nil, fmt.Errorf("query completed matches: %w", err)
	}
	return scanMatches(rows)
}

// UpcomingMatches returns fixtures that have no final score yet, ordered by
// date. A row with partial or missing scores is pending, never an error.
func (d *MatchDB) UpcomingMatches(ctx context.Context) ([]elo.MatchResult, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT `+matchColumns+`
		WHERE (m.hscore IS NULL OR m.ascore IS NULL OR m.complete < 100)
		  AND m.match_date >= datetime('now')
		ORDER BY m.match_date`)
	if err != nil {
		return nil, fmt.Errorf("query upcoming matches: %w", err)
	}
	return scanMatches(rows)
}

// RecentCompleted returns the latest limit fully completed matches in
// chronological order, for incremental rating updates.
func (d *MatchDB) RecentCompleted(ctx context.Context, limit int) ([]elo.MatchResult, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT `+matchColumns+`
		WHERE m.hscore IS NOT NULL AND m.ascore IS NOT NULL AND m.complete = 100
		ORDER BY m.match_date DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent matches: %w", err)
	}
	matches, err := scanMatches(rows)
	if err != nil {
		return nil, err
	}

	// Query is newest-first for the LIMIT; updates must apply oldest-first.
	for i, j := 0, len(matches)-1; i < j; i, j = i+1, j-1 {
		matches[i], matches[j] = matches[j], matches[i]
	}
	return matches, nil
}

// SavePredictions upserts one row per forecast, keyed by match id. The
// table is a single-writer artifact: a re-run overwrites the previous
// forecast for the same fixture.
func (d *MatchDB) SavePredictions(ctx context.Context, recs []elo.PredictionRecord) error {
	if len(recs) == 0 {
		return nil
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin predictions tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, r := range recs {
		_, err := tx.ExecContext(ctx, `INSERT INTO elo_predictions (
			match_id, prediction_time, home_win_probability, away_win_probability,
			predicted_winner, confidence, home_rating, away_rating,
			rating_difference, adjusted_rating_difference
		) VALUES (?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT(match_id) DO UPDATE SET
			prediction_time            = excluded.prediction_time,
			home_win_probability       = excluded.home_win_probability,
			away_win_probability       = excluded.away_win_probability,
			predicted_winner           = excluded.predicted_winner,
			confidence                 = excluded.confidence,
			home_rating                = excluded.home_rating,
			away_rating                = excluded.away_rating,
			rating_difference          = excluded.rating_difference,
			adjusted_rating_difference = excluded.adjusted_rating_difference`,
			r.MatchID, now, r.HomeWinProb, r.AwayWinProb,
			r.PredictedWinner, r.Confidence, r.HomeRating, r.AwayRating,
			r.RatingDiff, r.AdjustedDiff,
		)
		if err != nil {
			return fmt.Errorf("upsert prediction for match %d: %w", r.MatchID, err)
		}
		telemetry.Metrics.PredictionsSaved.Inc()
	}

	return tx.Commit()
}

// RecentPredictions returns the latest stored forecasts, newest first, for
// inspection tooling.
func (d *MatchDB) RecentPredictions(ctx context.Context, limit int) (*sql.Rows, error) {
	return d.db.QueryContext(ctx, `SELECT
		match_id, prediction_time, predicted_winner,
		printf('%.1f', home_win_probability*100) AS home_pct,
		printf('%.1f', away_win_probability*100) AS away_pct,
		printf('%.1f', confidence*100) AS conf_pct,
		printf('%.1f', home_rating) AS home_rating,
		printf('%.1f', away_rating) AS away_rating
	FROM elo_predictions ORDER BY prediction_id DESC LIMIT ?`, limit)
}

func scanMatches(rows *sql.Rows) ([]elo.MatchResult, error) {
	defer rows.Close()

	var out []elo.MatchResult
	for rows.Next() {
		var (
			m        elo.MatchResult
			date     string
			hs, as   sql.NullInt64
			home, aw string
		)
		if err := rows.Scan(&m.ID, &m.Round, &date, &m.Venue, &m.Year, &hs, &as, &home, &aw); err != nil {
			return nil, fmt.Errorf("scan match row: %w", err)
		}

		m.Date = parseDate(date)
		// NFC so the same club can't split into two rating entries over
		// unicode composition differences in the source feed.
		m.HomeTeam = norm.NFC.String(home)
		m.AwayTeam = norm.NFC.String(aw)

		if hs.Valid {
			v := int(hs.Int64)
			m.HomeScore = &v
		}
		if as.Valid {
			v := int(as.Int64)
			m.AwayScore = &v
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func parseDate(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	telemetry.Debugf("unparseable match_date %q", s)
	return time.Time{}
}
