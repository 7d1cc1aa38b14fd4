package elo

import "sort"

// Store owns the team→rating mapping for one training run. It is plain
// mutable state passed by pointer — never package-level — so the tuner can
// run many independent instances side by side. A Store must only be mutated
// from a single goroutine.
type Store struct {
	base    float64
	ratings map[string]float64
}

func NewStore(base float64) *Store {
	return &Store{
		base:    base,
		ratings: make(map[string]float64),
	}
}

// NewStoreWith seeds a store from previously persisted ratings, for resuming
// an already-trained model. The map is copied.
func NewStoreWith(base float64, ratings map[string]float64) *Store {
	s := NewStore(base)
	for team, r := range ratings {
		s.ratings[team] = r
	}
	return s
}

// Get returns the team's current rating, registering unseen teams at the
// base rating. Team names are opaque, case-sensitive strings.
func (s *Store) Get(team string) float64 {
	r, ok := s.ratings[team]
	if !ok {
		s.ratings[team] = s.base
		return s.base
	}
	return r
}

func (s *Store) Set(team string, rating float64) {
	s.ratings[team] = rating
}

// Regress pulls every registered rating toward the base:
// rating ← base + carryover × (rating − base). carryover 1 is a no-op,
// 0 is a full reset.
func (s *Store) Regress(carryover float64) {
	for team, r := range s.ratings {
		s.ratings[team] = s.base + carryover*(r-s.base)
	}
}

// Teams returns all registered team names in sorted order.
func (s *Store) Teams() []string {
	teams := make([]string, 0, len(s.ratings))
	for team := range s.ratings {
		teams = append(teams, team)
	}
	sort.Strings(teams)
	return teams
}

// Snapshot returns a copy of the current ratings map.
func (s *Store) Snapshot() map[string]float64 {
	out := make(map[string]float64, len(s.ratings))
	for team, r := range s.ratings {
		out[team] = r
	}
	return out
}

func (s *Store) Len() int { return len(s.ratings) }

func (s *Store) Base() float64 { return s.base }
