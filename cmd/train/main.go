package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/jasonacollins/afl-predictions/internal/config"
	"github.com/jasonacollins/afl-predictions/internal/elo"
	"github.com/jasonacollins/afl-predictions/internal/export"
	"github.com/jasonacollins/afl-predictions/internal/modelio"
	"github.com/jasonacollins/afl-predictions/internal/storage"
	"github.com/jasonacollins/afl-predictions/internal/telemetry"
	"github.com/jasonacollins/afl-predictions/internal/tuning"
)

func main() {
	tune := flag.Bool("tune", false, "run the hyperparameter search before training")
	flag.Parse()

	cfg := config.Load()
	telemetry.Init(telemetry.ParseLogLevel(cfg.LogLevel))

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		telemetry.Fatalf("open match database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	matches, err := db.CompletedMatches(ctx, cfg.StartYear, cfg.EndYear)
	if err != nil {
		telemetry.Fatalf("fetch match history: %v", err)
	}
	if len(matches) == 0 {
		telemetry.Warnf("no completed matches in %d..%d — nothing to learn from", cfg.StartYear, cfg.EndYear)
	} else {
		telemetry.Infof("fetched %d matches, %d to %d", len(matches),
			matches[0].Year, matches[len(matches)-1].Year)
	}

	params := elo.DefaultParameters()
	if *tune {
		params = runSearch(ctx, cfg, matches)
	}

	result, err := elo.Train(matches, params)
	if err != nil {
		telemetry.Fatalf("train: %v", err)
	}

	metrics := result.Metrics()
	telemetry.Infof("in-sample metrics: accuracy=%.4f brier=%.4f log_loss=%.4f over %d matches",
		metrics.Accuracy, metrics.Brier, metrics.LogLoss, metrics.Matches)

	if err := modelio.Save(cfg.ModelPath, modelio.Model{
		Parameters:  result.Params,
		TeamRatings: result.Store.Snapshot(),
		Yearly:      result.Yearly,
	}); err != nil {
		telemetry.Fatalf("save model: %v", err)
	}
	telemetry.Infof("model saved to %s", cfg.ModelPath)

	if err := export.WritePredictions(cfg.PredictionsCSV, result.Records); err != nil {
		telemetry.Fatalf("export predictions: %v", err)
	}
	if err := export.WriteLedger(cfg.LedgerCSV, result.Ledger); err != nil {
		telemetry.Fatalf("export ledger: %v", err)
	}
	telemetry.Infof("exports written to %s, %s", cfg.PredictionsCSV, cfg.LedgerCSV)

	printRatings(result.Store)
}

func runSearch(ctx context.Context, cfg *config.Config, matches []elo.MatchResult) elo.Parameters {
	grid := tuning.DefaultGrid()
	if g, err := tuning.LoadGrid(cfg.GridPath); err == nil {
		grid = g
	} else {
		telemetry.Warnf("param grid %s unavailable (%v), using defaults", cfg.GridPath, err)
	}

	candidates := grid.Sample(cfg.MaxCandidates, cfg.SampleSeed)
	telemetry.Infof("tuning: %d candidates, %d folds, %d workers",
		len(candidates), cfg.Folds, cfg.Workers)

	report, err := tuning.NewSearcher(cfg.Folds, cfg.Workers).Run(ctx, matches, candidates)
	if err != nil {
		telemetry.Fatalf("hyperparameter search: %v", err)
	}

	telemetry.Infof("best candidate (%s): mean log loss %.4f", report.BestParams, report.BestScore)
	return report.BestParams
}

func printRatings(store *elo.Store) {
	type teamRating struct {
		team   string
		rating float64
	}
	ratings := make([]teamRating, 0, store.Len())
	for team, r := range store.Snapshot() {
		ratings = append(ratings, teamRating{team, r})
	}
	sort.Slice(ratings, func(i, j int) bool { return ratings[i].rating > ratings[j].rating })

	fmt.Fprintln(os.Stdout, "Final team ratings:")
	for _, tr := range ratings {
		fmt.Fprintf(os.Stdout, "  %-30s %7.1f\n", tr.team, tr.rating)
	}
}
