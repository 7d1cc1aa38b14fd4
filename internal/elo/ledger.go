package elo

// EventKind tags ledger entries.
type EventKind string

const (
	KindMatch           EventKind = "match"
	KindSeasonCarryover EventKind = "season_carryover"
)

// Event is one immutable ledger entry. The two concrete kinds are
// MatchEvent and SeasonCarryoverEvent; consumers type-switch over both.
type Event interface {
	Kind() EventKind
}

// MatchEvent records one zero-sum rating update. Delta is applied to the
// home side and subtracted from the away side.
type MatchEvent struct {
	MatchID   int64
	Year      int
	HomeTeam  string
	AwayTeam  string
	HomeScore int
	AwayScore int

	HomeBefore float64
	AwayBefore float64
	HomeAfter  float64
	AwayAfter  float64

	WinProb float64 // pre-match home win probability
	Actual  float64 // 1, 0 or 0.5
	Margin  int     // signed, uncapped
	Delta   float64
}

func (MatchEvent) Kind() EventKind { return KindMatch }

// SeasonCarryoverEvent records the regression applied to a single team at a
// season boundary. One event is emitted per registered team; there is no
// opposing side.
type SeasonCarryoverEvent struct {
	Year   int // the season being entered
	Team   string
	Before float64
	After  float64
}

func (SeasonCarryoverEvent) Kind() EventKind { return KindSeasonCarryover }

func (e SeasonCarryoverEvent) Delta() float64 { return e.After - e.Before }
