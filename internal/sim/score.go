package sim

import (
	"math"

	"github.com/vovakirdan/voice-arcade/internal/config"
)

// Tracker derives the score from distance traveled or distinct landings.
// Both counters only ever grow while a run is in progress.
type Tracker struct {
	mode     config.ScoreMode
	unit     float64
	distance float64
	landed   map[uint64]struct{}
}

// NewTracker creates a tracker for the scoring config.
func NewTracker(cfg config.ScoringConfig) *Tracker {
	return &Tracker{
		mode:   cfg.Mode,
		unit:   cfg.DistanceUnit,
		landed: make(map[uint64]struct{}),
	}
}

// Reset zeroes distance and forgets every landing.
func (t *Tracker) Reset() {
	t.distance = 0
	clear(t.landed)
}

// Travel adds dx to the distance. Non-positive or NaN deltas are ignored.
func (t *Tracker) Travel(dx float64) {
	if dx > 0 {
		t.distance += dx
	}
}

// TravelTo raises the distance to total if it is further than the current one.
func (t *Tracker) TravelTo(total float64) {
	if total > t.distance {
		t.distance = total
	}
}

// Land records a landing on the platform with the given identity and
// reports whether it was the first one.
func (t *Tracker) Land(id uint64) bool {
	if _, seen := t.landed[id]; seen {
		return false
	}
	t.landed[id] = struct{}{}
	return true
}

// Distance returns the distance traveled.
func (t *Tracker) Distance() float64 {
	return t.distance
}

// Landings returns the number of distinct platforms landed on.
func (t *Tracker) Landings() int {
	return len(t.landed)
}

// Score returns the current score. It is a pure function of the counters.
func (t *Tracker) Score() int {
	if t.mode == config.ScoreLandings {
		return len(t.landed)
	}
	if t.unit <= 0 {
		return 0
	}
	return int(math.Floor(t.distance / t.unit))
}
