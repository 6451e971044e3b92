// Package bracket plays a single-elimination tournament forward slot by slot,
// using precomputed pairwise predictions to pick each winner.
package bracket

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/pable/mmbracket/internal/model"
)

var (
	// ErrMissingMatchup means the prediction table has no entry for a pair.
	// Every pair in the field must be predicted before resolution starts.
	ErrMissingMatchup = errors.New("bracket: no prediction for matchup")
	// ErrUnknownRef means a slot input is neither a seed nor another slot.
	ErrUnknownRef = errors.New("bracket: unknown slot reference")
	// ErrCycle means slot references cannot be ordered.
	ErrCycle = errors.New("bracket: slot references form a cycle")
)

// Oracle picks the winner of a matchup and the winner's probability.
type Oracle interface {
	FindWinner(team1, team2 int) (winner int, prob float64, err error)
}

// Table is an Oracle backed by the pairwise prediction list.
type Table struct {
	probs map[[2]int]model.Prediction
}

// NewTable indexes predictions by (low, high) team id.
func NewTable(preds []model.Prediction) *Table {
	t := &Table{probs: make(map[[2]int]model.Prediction, len(preds))}
	for _, p := range preds {
		t.probs[[2]int{p.Low, p.High}] = p
	}
	return t
}

// FindWinner looks the pair up in either id order. The returned probability
// always refers to the returned winner.
func (t *Table) FindWinner(team1, team2 int) (int, float64, error) {
	low, high := team1, team2
	if low > high {
		low, high = high, low
	}
	p, ok := t.probs[[2]int{low, high}]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %d vs %d", ErrMissingMatchup, team1, team2)
	}
	w, _, prob := p.Winner()
	return w, prob, nil
}

// Len returns the number of indexed matchups.
func (t *Table) Len() int { return len(t.probs) }

// Order returns slots so each one comes after any slot it references.
// Among slots that are ready at the same time, input order is kept.
func Order(slots []model.Slot, seeds map[string]int) ([]model.Slot, error) {
	labels := make(map[string]bool, len(slots))
	for _, s := range slots {
		labels[s.Label] = true
	}
	for _, s := range slots {
		for _, ref := range []string{s.StrongSeed, s.WeakSeed} {
			if !labels[ref] {
				if _, ok := seeds[ref]; !ok {
					return nil, fmt.Errorf("%w: slot %s input %q", ErrUnknownRef, s.Label, ref)
				}
			}
		}
	}

	ready := func(s model.Slot, done map[string]bool) bool {
		for _, ref := range []string{s.StrongSeed, s.WeakSeed} {
			if labels[ref] && !done[ref] {
				return false
			}
		}
		return true
	}

	out := make([]model.Slot, 0, len(slots))
	done := make(map[string]bool, len(slots))
	for len(out) < len(slots) {
		progressed := false
		for _, s := range slots {
			if done[s.Label] || !ready(s, done) {
				continue
			}
			out = append(out, s)
			done[s.Label] = true
			progressed = true
		}
		if !progressed {
			return nil, ErrCycle
		}
	}
	return out, nil
}

// Resolver holds bracket state for one tournament.
type Resolver struct {
	oracle   Oracle
	seeds    map[string]int // seed label -> team
	seedOf   map[int]string // team -> seed label
	resolved map[string]int // slot label -> winner
	results  []model.SlotResult
	log      logrus.FieldLogger
}

// NewResolver seeds a Resolver with the season's bracket entries.
func NewResolver(seeds []model.Seed, oracle Oracle, log logrus.FieldLogger) *Resolver {
	r := &Resolver{
		oracle:   oracle,
		seeds:    make(map[string]int, len(seeds)),
		seedOf:   make(map[int]string, len(seeds)),
		resolved: make(map[string]int),
		log:      log,
	}
	for _, s := range seeds {
		r.seeds[s.Label] = s.TeamID
		r.seedOf[s.TeamID] = s.Label
	}
	return r
}

// SeedMap returns the seed label -> team map.
func (r *Resolver) SeedMap() map[string]int { return r.seeds }

// SeedOf returns a team's seed label, or "" if it is not in the field.
func (r *Resolver) SeedOf(team int) string { return r.seedOf[team] }

// team resolves a slot input: an already-resolved slot wins over a seed.
func (r *Resolver) team(ref string) (int, bool) {
	if t, ok := r.resolved[ref]; ok {
		return t, true
	}
	t, ok := r.seeds[ref]
	return t, ok
}

// Resolve orders the slots and plays each one. It stops at the first
// missing matchup. Each call starts from an empty bracket.
func (r *Resolver) Resolve(slots []model.Slot) ([]model.SlotResult, error) {
	r.resolved = make(map[string]int, len(slots))
	r.results = nil

	ordered, err := Order(slots, r.seeds)
	if err != nil {
		return nil, err
	}
	for _, s := range ordered {
		t1, ok := r.team(s.StrongSeed)
		if !ok {
			return nil, fmt.Errorf("%w: slot %s input %q", ErrUnknownRef, s.Label, s.StrongSeed)
		}
		t2, ok := r.team(s.WeakSeed)
		if !ok {
			return nil, fmt.Errorf("%w: slot %s input %q", ErrUnknownRef, s.Label, s.WeakSeed)
		}

		winner, prob, err := r.oracle.FindWinner(t1, t2)
		if err != nil {
			return nil, fmt.Errorf("slot %s: %w", s.Label, err)
		}
		r.resolved[s.Label] = winner
		res := model.SlotResult{Slot: s.Label, Team1: t1, Team2: t2, Winner: winner, Prob: prob}
		r.results = append(r.results, res)

		r.log.WithFields(logrus.Fields{
			"slot":   s.Label,
			"team1":  t1,
			"team2":  t2,
			"winner": winner,
			"prob":   prob,
		}).Debug("resolved slot")
	}
	return r.results, nil
}

// Results returns the slots resolved so far, in resolution order.
func (r *Resolver) Results() []model.SlotResult { return r.results }

// Champion is the winner of the last resolved slot.
func (r *Resolver) Champion() (int, bool) {
	if len(r.results) == 0 {
		return 0, false
	}
	return r.results[len(r.results)-1].Winner, true
}
