package elo

import "fmt"

// Parameters holds the tunable coefficients of the rating model.
// A Parameters value is fixed for the lifetime of one Store/Updater pair;
// the tuner explores configurations by building fresh instances, never by
// mutating a live one.
type Parameters struct {
	BaseRating      float64 `json:"base_rating" yaml:"base_rating"`
	KFactor         float64 `json:"k_factor" yaml:"k_factor"`
	HomeAdvantage   float64 `json:"home_advantage" yaml:"home_advantage"`
	MarginFactor    float64 `json:"margin_factor" yaml:"margin_factor"`
	SeasonCarryover float64 `json:"season_carryover" yaml:"season_carryover"`
	MaxMargin       float64 `json:"max_margin" yaml:"max_margin"`
}

// DefaultParameters returns the coefficients used before any tuning run.
func DefaultParameters() Parameters {
	return Parameters{
		BaseRating:      1500,
		KFactor:         30,
		HomeAdvantage:   50,
		MarginFactor:    0.5,
		SeasonCarryover: 0.75,
		MaxMargin:       100,
	}
}

func (p Parameters) Validate() error {
	if p.KFactor <= 0 {
		return fmt.Errorf("k_factor must be > 0, got %v", p.KFactor)
	}
	if p.MaxMargin <= 0 {
		return fmt.Errorf("max_margin must be > 0, got %v", p.MaxMargin)
	}
	if p.MarginFactor < 0 {
		return fmt.Errorf("margin_factor must be >= 0, got %v", p.MarginFactor)
	}
	if p.SeasonCarryover < 0 || p.SeasonCarryover > 1 {
		return fmt.Errorf("season_carryover must be in [0,1], got %v", p.SeasonCarryover)
	}
	return nil
}

func (p Parameters) String() string {
	return fmt.Sprintf("base=%.0f k=%.1f hga=%.1f margin=%.2f carryover=%.2f cap=%.0f",
		p.BaseRating, p.KFactor, p.HomeAdvantage, p.MarginFactor, p.SeasonCarryover, p.MaxMargin)
}
