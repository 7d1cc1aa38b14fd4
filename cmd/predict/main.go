package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/jasonacollins/afl-predictions/internal/config"
	"github.com/jasonacollins/afl-predictions/internal/elo"
	"github.com/jasonacollins/afl-predictions/internal/export"
	"github.com/jasonacollins/afl-predictions/internal/modelio"
	"github.com/jasonacollins/afl-predictions/internal/storage"
	"github.com/jasonacollins/afl-predictions/internal/telemetry"
)

func main() {
	recentLimit := flag.Int("recent", 20, "completed matches to fold into the ratings before predicting")
	noSave := flag.Bool("no-save", false, "skip writing the updated model and database rows")
	flag.Parse()

	cfg := config.Load()
	telemetry.Init(telemetry.ParseLogLevel(cfg.LogLevel))

	// A missing or malformed model is fatal here — predictions must come
	// from a trained model, never from silent defaults.
	model, err := modelio.Load(cfg.ModelPath)
	if err != nil {
		telemetry.Fatalf("load model: %v", err)
	}
	telemetry.Infof("loaded model with %d team ratings (%s)", len(model.TeamRatings), model.Parameters)

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		telemetry.Fatalf("open match database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	store := elo.NewStoreWith(model.Parameters.BaseRating, model.TeamRatings)

	applied := updateRecent(ctx, db, model.Parameters, store, *recentLimit)
	if applied > 0 && !*noSave {
		model.TeamRatings = store.Snapshot()
		if err := modelio.Save(cfg.ModelPath, model); err != nil {
			telemetry.Fatalf("save updated model: %v", err)
		}
		telemetry.Infof("saved updated model to %s", cfg.ModelPath)
	}

	upcoming, err := db.UpcomingMatches(ctx)
	if err != nil {
		telemetry.Fatalf("fetch upcoming matches: %v", err)
	}
	if len(upcoming) == 0 {
		telemetry.Infof("no upcoming matches to predict")
		return
	}
	telemetry.Infof("forecasting %d upcoming matches", len(upcoming))

	predictor := elo.NewPredictor(model.Parameters, store)
	recs := make([]elo.PredictionRecord, 0, len(upcoming))
	for _, m := range upcoming {
		recs = append(recs, predictor.Forecast(m))
	}

	printForecasts(recs)

	if !*noSave {
		if err := db.SavePredictions(ctx, recs); err != nil {
			telemetry.Fatalf("save predictions: %v", err)
		}
		telemetry.Infof("saved %d predictions to database", len(recs))
	}

	if err := export.WritePredictions(cfg.PredictionsCSV, recs); err != nil {
		telemetry.Fatalf("export predictions: %v", err)
	}
	telemetry.Infof("predictions written to %s", cfg.PredictionsCSV)
}

// updateRecent folds the latest completed results into the loaded ratings,
// oldest first. Carryover is handled relative to the years present in the
// batch; results recorded before the model's last save simply re-enter at
// their stored ratings' scale.
func updateRecent(ctx context.Context, db *storage.MatchDB, params elo.Parameters, store *elo.Store, limit int) int {
	recent, err := db.RecentCompleted(ctx, limit)
	if err != nil {
		telemetry.Warnf("fetch recent results: %v", err)
		return 0
	}

	updater := elo.NewUpdater(params, store)
	var tracker elo.SeasonTracker
	applied := 0
	for _, m := range recent {
		if tracker.Crossed(m.Year) {
			updater.ApplyCarryover(m.Year)
		}
		updater.ApplyResult(m)
		applied++
	}

	telemetry.Infof("applied %d rating updates from recent matches", applied)
	return applied
}

func printForecasts(recs []elo.PredictionRecord) {
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "round\tdate\thome\taway\thome%\taway%\tpick\tconf%")
	for _, r := range recs {
		date := ""
		if !r.Date.IsZero() {
			date = r.Date.Format("2006-01-02")
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.1f\t%.1f\t%s\t%.1f\n",
			r.Round, date, r.HomeTeam, r.AwayTeam,
			r.HomeWinProb*100, r.AwayWinProb*100, r.PredictedWinner, r.Confidence*100)
	}
	w.Flush()
}
