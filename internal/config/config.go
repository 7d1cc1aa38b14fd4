package config

import (
	"os"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Match database (SQLite)
	DBPath string

	// Persisted model document
	ModelPath string

	// Training window
	StartYear int
	EndYear   int

	// Hyperparameter search
	GridPath      string
	Folds         int
	Workers       int
	MaxCandidates int // 0 = evaluate the full grid
	SampleSeed    int64

	// Export
	PredictionsCSV string
	LedgerCSV      string
	ReportPath     string

	// Telemetry
	LogLevel string
}

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DBPath:    envStr("AFL_DB_PATH", "data/afl_predictions.db"),
		ModelPath: envStr("AFL_MODEL_PATH", "afl_elo_model.json"),

		StartYear: envInt("AFL_START_YEAR", 1990),
		EndYear:   envInt("AFL_END_YEAR", 0), // 0 = no upper bound

		GridPath:      envStr("AFL_GRID_PATH", "internal/config/param_grid.yaml"),
		Folds:         envInt("AFL_TUNE_FOLDS", 3),
		Workers:       envInt("AFL_TUNE_WORKERS", runtime.NumCPU()),
		MaxCandidates: envInt("AFL_TUNE_MAX_CANDIDATES", 0),
		SampleSeed:    int64(envInt("AFL_TUNE_SEED", 1)),

		PredictionsCSV: envStr("AFL_PREDICTIONS_CSV", "elo_predictions.csv"),
		LedgerCSV:      envStr("AFL_LEDGER_CSV", "elo_rating_ledger.csv"),
		ReportPath:     envStr("AFL_TUNE_REPORT", "elo_tuning_report.json"),

		LogLevel: envStr("LOG_LEVEL", "info"),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
