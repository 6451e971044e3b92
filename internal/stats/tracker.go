// Package stats tracks rolling per-team box-score averages.
package stats

import (
	"gonum.org/v1/gonum/stat"
)

// DefaultWindow is how many recent games feed each average.
const DefaultWindow = 9

type key struct {
	season int
	team   int
	field  string
}

// Tracker holds a bounded history of recent values per (season, team, stat).
// When a window is full the oldest value is evicted before the new one is
// appended.
type Tracker struct {
	window  int
	history map[key][]float64
}

// NewTracker returns a Tracker keeping at most window values per stat.
func NewTracker(window int) *Tracker {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Tracker{window: window, history: make(map[key][]float64)}
}

// Average returns the mean of the current window, or 0 when there is no history.
func (t *Tracker) Average(season, team int, field string) float64 {
	vals := t.history[key{season, team, field}]
	if len(vals) == 0 {
		return 0
	}
	return stat.Mean(vals, nil)
}

// Averages returns the averages for fields, in the given order.
func (t *Tracker) Averages(season, team int, fields []string) []float64 {
	out := make([]float64, len(fields))
	for i, f := range fields {
		out[i] = t.Average(season, team, f)
	}
	return out
}

// Update appends one observation for each named stat.
func (t *Tracker) Update(season, team int, values map[string]float64) {
	for field, v := range values {
		k := key{season, team, field}
		vals := t.history[k]
		if len(vals) >= t.window {
			vals = append(vals[:0], vals[len(vals)-t.window+1:]...)
		}
		t.history[k] = append(vals, v)
	}
}

// Window returns a copy of the current window, oldest first.
func (t *Tracker) Window(season, team int, field string) []float64 {
	vals := t.history[key{season, team, field}]
	out := make([]float64, len(vals))
	copy(out, vals)
	return out
}
