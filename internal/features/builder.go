// Package features replays the game log in order and turns it into a
// labelled training set, advancing rating and stat state as it goes.
package features

import (
	"math/rand/v2"

	"github.com/sirupsen/logrus"

	"github.com/pable/mmbracket/internal/model"
	"github.com/pable/mmbracket/internal/rating"
	"github.com/pable/mmbracket/internal/stats"
)

// Label values. LabelFirstWon means the first team in the vector won.
const (
	LabelFirstWon  = 0
	LabelSecondWon = 1
)

// Dataset holds parallel feature vectors and labels.
type Dataset struct {
	X [][]float64
	Y []int
}

// Len returns the number of examples.
func (d *Dataset) Len() int { return len(d.X) }

// Result is the output of a replay plus its bookkeeping counters.
type Result struct {
	Dataset
	Games              int
	Emitted            int
	Skipped            int // games without enough history on one side
	StatUpdatesSkipped int // games with a zero attempt count on either side
}

// Builder owns the rating engine and stat tracker for one run.
type Builder struct {
	Ratings *rating.Engine
	Stats   *stats.Tracker
	rng     *rand.Rand
	log     logrus.FieldLogger
}

// NewBuilder wires a Builder. rng drives the left/right coin flip.
func NewBuilder(ratings *rating.Engine, tracker *stats.Tracker, rng *rand.Rand, log logrus.FieldLogger) *Builder {
	return &Builder{Ratings: ratings, Stats: tracker, rng: rng, log: log}
}

// side captures one team's pre-game features.
func (b *Builder) side(season, team, rating int) []float64 {
	out := make([]float64, 0, 1+len(model.StatOrder))
	out = append(out, float64(rating))
	return append(out, b.Stats.Averages(season, team, model.StatOrder)...)
}

// hasHistory reports whether every stat of a captured side is non-zero.
// An exact zero stands for "no history yet", which also catches genuine
// zero averages such as a team with no blocks so far.
func hasHistory(side []float64) bool {
	for _, v := range side[1:] {
		if v == 0 {
			return false
		}
	}
	return true
}

// Build walks games in the order given. Features for a game are captured
// before that game's result touches any state.
func (b *Builder) Build(games []model.Game) *Result {
	res := &Result{}
	for _, g := range games {
		res.Games++

		wRating, lRating := b.Ratings.GameRatings(g.Season, g.WTeamID, g.LTeamID, g.WLoc)
		wSide := b.side(g.Season, g.WTeamID, wRating)
		lSide := b.side(g.Season, g.LTeamID, lRating)

		if hasHistory(wSide) && hasHistory(lSide) {
			if b.rng.Float64() > 0.5 {
				res.X = append(res.X, concat(wSide, lSide))
				res.Y = append(res.Y, LabelFirstWon)
			} else {
				res.X = append(res.X, concat(lSide, wSide))
				res.Y = append(res.Y, LabelSecondWon)
			}
			res.Emitted++
		} else {
			res.Skipped++
		}

		// A zero attempt count on either side leaves both teams' windows alone.
		if g.Winner.HasAttempts() && g.Loser.HasAttempts() {
			b.Stats.Update(g.Season, g.WTeamID, g.Winner.StatValues())
			b.Stats.Update(g.Season, g.LTeamID, g.Loser.StatValues())
		} else {
			res.StatUpdatesSkipped++
		}

		b.Ratings.Update(g.Season, g.WTeamID, g.LTeamID)
	}

	b.log.WithFields(logrus.Fields{
		"games":                res.Games,
		"emitted":              res.Emitted,
		"skipped":              res.Skipped,
		"stat_updates_skipped": res.StatUpdatesSkipped,
	}).Info("built training set")
	return res
}

// Vector assembles the feature vector for teamA vs teamB from the current
// state, with no home-court adjustment.
func (b *Builder) Vector(season, teamA, teamB int) []float64 {
	return concat(
		b.side(season, teamA, b.Ratings.Rating(season, teamA)),
		b.side(season, teamB, b.Ratings.Rating(season, teamB)),
	)
}

func concat(a, b []float64) []float64 {
	out := make([]float64, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}
