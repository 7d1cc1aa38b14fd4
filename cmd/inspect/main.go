package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/jasonacollins/afl-predictions/internal/config"
	"github.com/jasonacollins/afl-predictions/internal/modelio"
	"github.com/jasonacollins/afl-predictions/internal/storage"
)

func main() {
	n := flag.Int("n", 10, "number of recent predictions to display")
	topN := flag.Int("top", 18, "number of team ratings to display")
	flag.Parse()

	cfg := config.Load()

	printPredictions(cfg.DBPath, *n)
	fmt.Println()
	printRatings(cfg.ModelPath, *topN)
}

func printPredictions(dbPath string, n int) {
	fmt.Println("=== Stored Predictions ===")

	db, err := storage.Open(dbPath)
	if err != nil {
		fmt.Printf("  (cannot open %s: %v)\n", dbPath, err)
		return
	}
	defer db.Close()

	rows, err := db.RecentPredictions(context.Background(), n)
	if err != nil {
		fmt.Printf("  (query error: %v)\n", err)
		return
	}
	defer rows.Close()

	colNames, _ := rows.Columns()
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(colNames, "\t"))
	fmt.Fprintln(w, strings.Repeat("----\t", len(colNames)))

	vals := make([]any, len(colNames))
	ptrs := make([]any, len(colNames))
	for i := range vals {
		ptrs[i] = &vals[i]
	}

	count := 0
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			fmt.Fprintf(os.Stderr, "  scan error: %v\n", err)
			continue
		}
		cells := make([]string, len(colNames))
		for i, v := range vals {
			cells[i] = fmtCell(v)
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
		count++
	}
	if count == 0 {
		fmt.Println("(no data)")
		return
	}
	w.Flush()
}

func printRatings(modelPath string, topN int) {
	fmt.Println("=== Model Ratings ===")

	model, err := modelio.Load(modelPath)
	if err != nil {
		fmt.Printf("  (cannot load %s: %v)\n", modelPath, err)
		return
	}
	fmt.Printf("Parameters: %s\n", model.Parameters)

	type entry struct {
		team   string
		rating float64
	}
	entries := make([]entry, 0, len(model.TeamRatings))
	for team, r := range model.TeamRatings {
		entries = append(entries, entry{team, r})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].rating > entries[j].rating })

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "team\trating\tvs_base")
	for i, e := range entries {
		if i >= topN {
			break
		}
		fmt.Fprintf(w, "%s\t%.1f\t%+.1f\n", e.team, e.rating, e.rating-model.Parameters.BaseRating)
	}
	w.Flush()
}

func fmtCell(v any) string {
	if v == nil {
		return "-"
	}
	switch x := v.(type) {
	case []byte:
		return string(x)
	case string:
		return x
	case int64:
		return fmt.Sprintf("%d", x)
	case float64:
		return fmt.Sprintf("%.4f", x)
	default:
		return fmt.Sprintf("%v", v)
	}
}
