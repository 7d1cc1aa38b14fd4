package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/jasonacollins/afl-predictions/internal/config"
	"github.com/jasonacollins/afl-predictions/internal/storage"
	"github.com/jasonacollins/afl-predictions/internal/telemetry"
	"github.com/jasonacollins/afl-predictions/internal/tuning"
)

func main() {
	top := flag.Int("top", 15, "candidates to show in the ranked table")
	flag.Parse()

	cfg := config.Load()
	telemetry.Init(telemetry.ParseLogLevel(cfg.LogLevel))

	// Ctrl-C aborts the whole search; partial results are discarded.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		telemetry.Fatalf("open match database: %v", err)
	}
	defer db.Close()

	matches, err := db.CompletedMatches(ctx, cfg.StartYear, cfg.EndYear)
	if err != nil {
		telemetry.Fatalf("fetch match history: %v", err)
	}
	telemetry.Infof("fetched %d completed matches", len(matches))

	grid := tuning.DefaultGrid()
	if g, err := tuning.LoadGrid(cfg.GridPath); err == nil {
		grid = g
	} else {
		telemetry.Warnf("param grid %s unavailable (%v), using defaults", cfg.GridPath, err)
	}

	candidates := grid.Sample(cfg.MaxCandidates, cfg.SampleSeed)
	if len(candidates) < grid.Size() {
		telemetry.Infof("sampled %d of %d grid candidates (seed %d)",
			len(candidates), grid.Size(), cfg.SampleSeed)
	}

	searcher := tuning.NewSearcher(cfg.Folds, cfg.Workers)
	telemetry.Infof("searching %d candidates x %d folds on %d workers",
		len(candidates), searcher.Folds, searcher.Workers)

	report, err := searcher.Run(ctx, matches, candidates)
	if err != nil {
		telemetry.Fatalf("search: %v", err)
	}

	telemetry.Infof("run %s finished in %s (cell p50=%s p99=%s)",
		report.RunID, report.Elapsed.Round(time.Millisecond),
		telemetry.Metrics.CellLatency.P50(), telemetry.Metrics.CellLatency.P99())
	telemetry.Infof("best: %s  mean log loss %.4f", report.BestParams, report.BestScore)

	printRanked(report, *top)

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		telemetry.Fatalf("marshal report: %v", err)
	}
	if err := os.WriteFile(cfg.ReportPath, data, 0o644); err != nil {
		telemetry.Fatalf("write report: %v", err)
	}
	telemetry.Infof("full report written to %s", cfg.ReportPath)
}

func printRanked(report tuning.Report, top int) {
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "rank\tk\thga\tmargin\tcarryover\tcap\tmean_log_loss")
	for i, cr := range report.Ranked {
		if i >= top {
			break
		}
		fmt.Fprintf(w, "%d\t%.0f\t%.0f\t%.2f\t%.2f\t%.0f\t%.4f\n",
			i+1, cr.Params.KFactor, cr.Params.HomeAdvantage, cr.Params.MarginFactor,
			cr.Params.SeasonCarryover, cr.Params.MaxMargin, cr.MeanLogLoss)
	}
	w.Flush()
}
