// Package rating keeps per-season Elo-style team ratings.
package rating

import (
	"math"
	"sort"

	"github.com/pable/mmbracket/internal/model"
)

const (
	// DefaultBase is the rating of a team never seen in this or the prior season.
	DefaultBase = 1600
	// DefaultHomeAdvantage is added to the home side's captured rating.
	DefaultHomeAdvantage = 100
)

// Engine holds the rating table for every season touched during a run.
type Engine struct {
	base   int
	home   int
	tables map[int]map[int]int // season -> team -> rating
}

// NewEngine returns an Engine with the given base rating and home-court bonus.
func NewEngine(base, homeAdvantage int) *Engine {
	return &Engine{
		base:   base,
		home:   homeAdvantage,
		tables: make(map[int]map[int]int),
	}
}

func (e *Engine) season(season int) map[int]int {
	t, ok := e.tables[season]
	if !ok {
		t = make(map[int]int)
		e.tables[season] = t
	}
	return t
}

// Rating returns a team's rating for the season. Lookup falls through in
// order: the season's own table, the previous season's ending rating, the
// base rating. Whatever is found is memoised into the season's table.
func (e *Engine) Rating(season, team int) int {
	cur := e.season(season)
	if r, ok := cur[team]; ok {
		return r
	}
	r := e.base
	if prev, ok := e.tables[season-1]; ok {
		if pr, ok := prev[team]; ok {
			r = pr
		}
	}
	cur[team] = r
	return r
}

// GameRatings returns the winner's and loser's ratings as captured for a
// feature vector, with the home-court bonus applied. The table is not changed
// beyond the memoisation done by Rating.
func (e *Engine) GameRatings(season, winner, loser int, loc model.Location) (w, l int) {
	w = e.Rating(season, winner)
	l = e.Rating(season, loser)
	switch loc {
	case model.LocationHome:
		w += e.home
	case model.LocationAway:
		l += e.home
	}
	return w, l
}

// Update applies one game result and stores both new ratings.
func (e *Engine) Update(season, winner, loser int) (newWinner, newLoser int) {
	w := e.Rating(season, winner)
	l := e.Rating(season, loser)
	newWinner, newLoser = Exchange(w, l)
	t := e.season(season)
	t[winner] = newWinner
	t[loser] = newLoser
	return newWinner, newLoser
}

// Snapshot returns the season's ratings ordered by rating descending, then
// team id.
func (e *Engine) Snapshot(season int) []model.TeamRating {
	t := e.tables[season]
	out := make([]model.TeamRating, 0, len(t))
	for team, r := range t {
		out = append(out, model.TeamRating{Season: season, TeamID: team, Rating: r})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rating != out[j].Rating {
			return out[i].Rating > out[j].Rating
		}
		return out[i].TeamID < out[j].TeamID
	})
	return out
}

// Odds is the expected score of a player rated w against one rated l.
func Odds(w, l int) float64 {
	return 1 / (1 + math.Pow(10, -float64(w-l)/400))
}

// KFactor returns the maximum swing for a winner at the given rating.
func KFactor(winnerRating int) int {
	switch {
	case winnerRating < 2100:
		return 32
	case winnerRating < 2400:
		return 24
	default:
		return 16
	}
}

// Exchange computes the post-game ratings. The winner's new rating rounds
// half to even. The loser gives up exactly what the winner gains.
func Exchange(w, l int) (newWinner, newLoser int) {
	k := KFactor(w)
	newWinner = int(math.RoundToEven(float64(w) + float64(k)*(1-Odds(w, l))))
	delta := newWinner - w
	return newWinner, l - delta
}
