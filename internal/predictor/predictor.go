// Package predictor turns a fitted classifier into pairwise win probabilities.
package predictor

import (
	"sort"

	"github.com/pable/mmbracket/internal/classifier"
	"github.com/pable/mmbracket/internal/model"
)

// FeatureSource assembles the feature vector for teamA vs teamB.
type FeatureSource interface {
	Vector(season, teamA, teamB int) []float64
}

// Predictor answers "does teamA beat teamB" from end-of-replay state.
type Predictor struct {
	features FeatureSource
	model    classifier.Classifier
}

// New returns a Predictor over a fitted classifier.
func New(features FeatureSource, m classifier.Classifier) *Predictor {
	return &Predictor{features: features, model: m}
}

// Predict returns the probability that teamA, placed first, wins.
func (p *Predictor) Predict(season, teamA, teamB int) float64 {
	return p.model.Proba0(p.features.Vector(season, teamA, teamB))
}

// Pairwise predicts every pair of distinct teams once, lower id first.
// Duplicate ids in teams are ignored.
func (p *Predictor) Pairwise(season int, teams []int) []model.Prediction {
	ids := uniqueSorted(teams)
	out := make([]model.Prediction, 0, len(ids)*(len(ids)-1)/2)
	for i, low := range ids {
		for _, high := range ids[i+1:] {
			out = append(out, model.Prediction{
				Season: season,
				Low:    low,
				High:   high,
				Prob:   p.Predict(season, low, high),
			})
		}
	}
	return out
}

func uniqueSorted(teams []int) []int {
	ids := append([]int(nil), teams...)
	sort.Ints(ids)
	out := ids[:0]
	for i, id := range ids {
		if i == 0 || id != ids[i-1] {
			out = append(out, id)
		}
	}
	return out
}
