package elo

// SeasonTracker detects season boundaries in the ordered match stream by
// comparing each match's year to the previous match's year. The first match
// overall never triggers a boundary, and a multi-year gap triggers exactly
// one boundary when it is crossed — regression is not compounded per skipped
// year. Input must already be in chronological order; out-of-order input
// produces wrong boundary timing and is a caller precondition, not a
// runtime check.
type SeasonTracker struct {
	lastYear int
	seen     bool
}

// Crossed reports whether year starts a new season relative to the match
// seen before it, and advances the tracker.
func (t *SeasonTracker) Crossed(year int) bool {
	crossed := t.seen && year != t.lastYear
	t.lastYear = year
	t.seen = true
	return crossed
}

// LastYear returns the most recent season year observed, or 0 before any.
func (t *SeasonTracker) LastYear() int { return t.lastYear }
