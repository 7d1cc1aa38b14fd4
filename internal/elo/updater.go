package elo

import "math"

// Updater applies match results to a Store in chronological order and keeps
// an immutable ledger of every mutation. It is strictly sequential: each
// update reads the state left by the previous one.
type Updater struct {
	params Parameters
	store  *Store
	ledger []Event
	log    []PredictionRecord
}

func NewUpdater(params Parameters, store *Store) *Updater {
	return &Updater{params: params, store: store}
}

func (u *Updater) Store() *Store { return u.store }

// Ledger returns every mutation recorded so far, in application order.
func (u *Updater) Ledger() []Event { return u.ledger }

// Records returns the per-match prediction log, outcome fields populated.
func (u *Updater) Records() []PredictionRecord { return u.log }

// ApplyResult runs one rating update for a completed match:
//
//	delta = kFactor × marginMultiplier × (actual − winProb)
//
// added to the home side and subtracted from the away side, so the sum of
// deltas per match is exactly zero. The margin multiplier grows
// logarithmically with the capped victory margin and is 1 when margin
// weighting is disabled. Note the delta tracks (actual − winProb), not the
// raw result: a heavy underdog that draws, or nearly draws, gains rating.
func (u *Updater) ApplyResult(m MatchResult) MatchEvent {
	homeBefore := u.store.Get(m.HomeTeam)
	awayBefore := u.store.Get(m.AwayTeam)

	p := WinProbability(homeBefore, awayBefore, u.params.HomeAdvantage)

	hs, as := *m.HomeScore, *m.AwayScore
	actual := 0.5
	switch {
	case hs > as:
		actual = 1.0
	case hs < as:
		actual = 0.0
	}

	margin := hs - as
	delta := u.params.KFactor * u.marginMultiplier(margin) * (actual - p)

	u.store.Set(m.HomeTeam, homeBefore+delta)
	u.store.Set(m.AwayTeam, awayBefore-delta)

	ev := MatchEvent{
		MatchID:    m.ID,
		Year:       m.Year,
		HomeTeam:   m.HomeTeam,
		AwayTeam:   m.AwayTeam,
		HomeScore:  hs,
		AwayScore:  as,
		HomeBefore: homeBefore,
		AwayBefore: awayBefore,
		HomeAfter:  homeBefore + delta,
		AwayAfter:  awayBefore - delta,
		WinProb:    p,
		Actual:     actual,
		Margin:     margin,
		Delta:      delta,
	}
	u.ledger = append(u.ledger, ev)
	u.log = append(u.log, u.record(m, ev))

	return ev
}

// marginMultiplier maps a signed score margin to [0,1]. The cap bounds
// blowout influence; the log shape gives diminishing returns per extra
// point. With marginFactor 0 the update is pure win/loss/draw.
func (u *Updater) marginMultiplier(margin int) float64 {
	if u.params.MarginFactor <= 0 {
		return 1.0
	}
	capped := math.Min(math.Abs(float64(margin)), u.params.MaxMargin)
	return math.Log1p(capped*u.params.MarginFactor) /
		math.Log1p(u.params.MaxMargin*u.params.MarginFactor)
}

// ApplyCarryover regresses every registered team toward the base rating and
// ledgers one carryover event per team. year is the season being entered.
func (u *Updater) ApplyCarryover(year int) []SeasonCarryoverEvent {
	teams := u.store.Teams()
	events := make([]SeasonCarryoverEvent, 0, len(teams))

	before := u.store.Snapshot()
	u.store.Regress(u.params.SeasonCarryover)

	for _, team := range teams {
		ev := SeasonCarryoverEvent{
			Year:   year,
			Team:   team,
			Before: before[team],
			After:  u.store.Get(team),
		}
		u.ledger = append(u.ledger, ev)
		events = append(events, ev)
	}
	return events
}

// record fills a PredictionRecord from a completed update.
func (u *Updater) record(m MatchResult, ev MatchEvent) PredictionRecord {
	predicted := m.HomeTeam
	if ev.WinProb < 0.5 {
		predicted = m.AwayTeam
	}

	// Correct iff the predicted side actually won; draws never count.
	correct := (predicted == m.HomeTeam && ev.Actual == 1.0) ||
		(predicted == m.AwayTeam && ev.Actual == 0.0)

	hs, as := ev.HomeScore, ev.AwayScore
	actual := ev.Actual
	margin := ev.Margin
	delta := ev.Delta
	homeAfter := ev.HomeAfter
	awayAfter := ev.AwayAfter

	return PredictionRecord{
		MatchID:  m.ID,
		Round:    m.Round,
		Date:     m.Date,
		Venue:    m.Venue,
		Year:     m.Year,
		HomeTeam: m.HomeTeam,
		AwayTeam: m.AwayTeam,

		HomeRating:      ev.HomeBefore,
		AwayRating:      ev.AwayBefore,
		RatingDiff:      ev.HomeBefore - ev.AwayBefore,
		AdjustedDiff:    (ev.HomeBefore + u.params.HomeAdvantage) - ev.AwayBefore,
		HomeWinProb:     ev.WinProb,
		AwayWinProb:     1 - ev.WinProb,
		PredictedWinner: predicted,
		Confidence:      math.Max(ev.WinProb, 1-ev.WinProb),

		HomeScore:    &hs,
		AwayScore:    &as,
		Actual:       &actual,
		Margin:       &margin,
		RatingChange: &delta,
		HomeAfter:    &homeAfter,
		AwayAfter:    &awayAfter,
		Correct:      &correct,
	}
}
