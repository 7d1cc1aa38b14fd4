// Package modelio reads and writes the persisted model document: the six
// rating parameters, the final team ratings, and optional per-season
// snapshots. The file is a single-writer artifact, overwritten wholesale
// on save.
package modelio

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jasonacollins/afl-predictions/internal/elo"
)

type Model struct {
	Parameters  elo.Parameters                `json:"parameters"`
	TeamRatings map[string]float64            `json:"team_ratings"`
	Yearly      map[string]map[string]float64 `json:"yearly_ratings,omitempty"`
}

func Save(path string, m Model) error {
	data, err := json.MarshalIndent(m, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal model: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write model %s: %w", path, err)
	}
	return nil
}

// rawParameters mirrors elo.Parameters with pointer fields so an absent key
// is distinguishable from a zero value.
type rawParameters struct {
	BaseRating      *float64 `json:"base_rating"`
	KFactor         *float64 `json:"k_factor"`
	HomeAdvantage   *float64 `json:"home_advantage"`
	MarginFactor    *float64 `json:"margin_factor"`
	SeasonCarryover *float64 `json:"season_carryover"`
	MaxMargin       *float64 `json:"max_margin"`
}

type rawModel struct {
	Parameters  *rawParameters                `json:"parameters"`
	TeamRatings map[string]float64            `json:"team_ratings"`
	Yearly      map[string]map[string]float64 `json:"yearly_ratings"`
}

// Load reads a model document. A missing file, malformed JSON, or a missing
// required parameter key is an error — flows that depend on a pretrained
// model must not run on defaults.
func Load(path string) (Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Model{}, fmt.Errorf("read model %s: %w", path, err)
	}

	var raw rawModel
	if err := json.Unmarshal(data, &raw); err != nil {
		return Model{}, fmt.Errorf("parse model %s: %w", path, err)
	}

	if raw.Parameters == nil {
		return Model{}, fmt.Errorf("model %s: missing parameters section", path)
	}
	for key, v := range map[string]*float64{
		"base_rating":      raw.Parameters.BaseRating,
		"k_factor":         raw.Parameters.KFactor,
		"home_advantage":   raw.Parameters.HomeAdvantage,
		"margin_factor":    raw.Parameters.MarginFactor,
		"season_carryover": raw.Parameters.SeasonCarryover,
		"max_margin":       raw.Parameters.MaxMargin,
	} {
		if v == nil {
			return Model{}, fmt.Errorf("model %s: missing parameter %q", path, key)
		}
	}
	if raw.TeamRatings == nil {
		return Model{}, fmt.Errorf("model %s: missing team_ratings section", path)
	}

	m := Model{
		Parameters: elo.Parameters{
			BaseRating:      *raw.Parameters.BaseRating,
			KFactor:         *raw.Parameters.KFactor,
			HomeAdvantage:   *raw.Parameters.HomeAdvantage,
			MarginFactor:    *raw.Parameters.MarginFactor,
			SeasonCarryover: *raw.Parameters.SeasonCarryover,
			MaxMargin:       *raw.Parameters.MaxMargin,
		},
		TeamRatings: raw.TeamRatings,
		Yearly:      raw.Yearly,
	}

	if err := m.Parameters.Validate(); err != nil {
		return Model{}, fmt.Errorf("model %s: %w", path, err)
	}
	return m, nil
}
