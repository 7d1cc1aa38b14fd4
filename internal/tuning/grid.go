package tuning

import (
	"fmt"
	"math/rand"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/jasonacollins/afl-predictions/internal/elo"
)

// Grid lists the candidate values per rating parameter. Candidates are the
// Cartesian product of all six lists.
type Grid struct {
	BaseRating      []float64 `yaml:"base_rating"`
	KFactor         []float64 `yaml:"k_factor"`
	HomeAdvantage   []float64 `yaml:"home_advantage"`
	MarginFactor    []float64 `yaml:"margin_factor"`
	SeasonCarryover []float64 `yaml:"season_carryover"`
	MaxMargin       []float64 `yaml:"max_margin"`
}

// DefaultGrid is the search space used when no grid file is supplied.
func DefaultGrid() Grid {
	return Grid{
		BaseRating:      []float64{1500},
		KFactor:         []float64{20, 30, 40},
		HomeAdvantage:   []float64{30, 50, 70},
		MarginFactor:    []float64{0.3, 0.5, 0.7},
		SeasonCarryover: []float64{0.6, 0.75, 0.85},
		MaxMargin:       []float64{80, 100, 120},
	}
}

// LoadGrid reads a grid definition from a YAML file. Any axis left empty
// falls back to the default grid's values for that axis.
func LoadGrid(path string) (Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Grid{}, fmt.Errorf("read param grid: %w", err)
	}

	var g Grid
	if err := yaml.Unmarshal(data, &g); err != nil {
		return Grid{}, fmt.Errorf("parse param grid: %w", err)
	}

	def := DefaultGrid()
	if len(g.BaseRating) == 0 {
		g.BaseRating = def.BaseRating
	}
	if len(g.KFactor) == 0 {
		g.KFactor = def.KFactor
	}
	if len(g.HomeAdvantage) == 0 {
		g.HomeAdvantage = def.HomeAdvantage
	}
	if len(g.MarginFactor) == 0 {
		g.MarginFactor = def.MarginFactor
	}
	if len(g.SeasonCarryover) == 0 {
		g.SeasonCarryover = def.SeasonCarryover
	}
	if len(g.MaxMargin) == 0 {
		g.MaxMargin = def.MaxMargin
	}
	return g, nil
}

// Size returns the number of parameter combinations in the grid.
func (g Grid) Size() int {
	return len(g.BaseRating) * len(g.KFactor) * len(g.HomeAdvantage) *
		len(g.MarginFactor) * len(g.SeasonCarryover) * len(g.MaxMargin)
}

// Candidates expands the grid into parameter tuples in a fixed iteration
// order (base rating outermost, max margin innermost). The order is the
// tie-break order for candidate selection, so it must stay deterministic.
func (g Grid) Candidates() []elo.Parameters {
	out := make([]elo.Parameters, 0, g.Size())
	for _, base := range g.BaseRating {
		for _, k := range g.KFactor {
			for _, hga := range g.HomeAdvantage {
				for _, mf := range g.MarginFactor {
					for _, sc := range g.SeasonCarryover {
						for _, mm := range g.MaxMargin {
							out = append(out, elo.Parameters{
								BaseRating:      base,
								KFactor:         k,
								HomeAdvantage:   hga,
								MarginFactor:    mf,
								SeasonCarryover: sc,
								MaxMargin:       mm,
							})
						}
					}
				}
			}
		}
	}
	return out
}

// Sample returns at most max candidates drawn without replacement, keeping
// grid iteration order among the survivors so tie-breaking stays stable.
// A non-positive max returns the full expansion. Sampling trades search
// quality for cost; it never affects correctness of the scores themselves.
func (g Grid) Sample(max int, seed int64) []elo.Parameters {
	all := g.Candidates()
	if max <= 0 || max >= len(all) {
		return all
	}

	rng := rand.New(rand.NewSource(seed))
	picked := rng.Perm(len(all))[:max]
	sort.Ints(picked)

	out := make([]elo.Parameters, 0, max)
	for _, i := range picked {
		out = append(out, all[i])
	}
	return out
}
