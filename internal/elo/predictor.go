package elo

import "math"

// Predictor produces forecasts for matches without a known result. It reads
// the store without updating ratings; unseen teams are lazily registered at
// the base rating, which is the only mutation the forecast path performs.
type Predictor struct {
	params Parameters
	store  *Store
}

func NewPredictor(params Parameters, store *Store) *Predictor {
	return &Predictor{params: params, store: store}
}

// Forecast builds a PredictionRecord for a pending match. Outcome fields
// are left nil. The predicted winner is the side with probability above
// 0.5, with an exact tie going to the home side.
func (p *Predictor) Forecast(m MatchResult) PredictionRecord {
	home := p.store.Get(m.HomeTeam)
	away := p.store.Get(m.AwayTeam)

	prob := WinProbability(home, away, p.params.HomeAdvantage)

	predicted := m.HomeTeam
	if prob < 0.5 {
		predicted = m.AwayTeam
	}

	return PredictionRecord{
		MatchID:  m.ID,
		Round:    m.Round,
		Date:     m.Date,
		Venue:    m.Venue,
		Year:     m.Year,
		HomeTeam: m.HomeTeam,
		AwayTeam: m.AwayTeam,

		HomeRating:      home,
		AwayRating:      away,
		RatingDiff:      home - away,
		AdjustedDiff:    (home + p.params.HomeAdvantage) - away,
		HomeWinProb:     prob,
		AwayWinProb:     1 - prob,
		PredictedWinner: predicted,
		Confidence:      math.Max(prob, 1-prob),
	}
}
