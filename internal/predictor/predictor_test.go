package predictor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gapFeatures encodes the pair as [teamA, teamB] so the stub model can see
// the ordering.
type gapFeatures struct{ calls [][3]int }

func (g *gapFeatures) Vector(season, a, b int) []float64 {
	g.calls = append(g.calls, [3]int{season, a, b})
	return []float64{float64(a), float64(b)}
}

// lowerWins favours the first team in proportion to how much lower its id is.
type lowerWins struct{}

func (lowerWins) Fit([][]float64, []int) error { return nil }
func (lowerWins) Proba0(x []float64) float64 {
	return 0.5 + (x[1]-x[0])/100
}

func TestPredict_UsesFirstTeamAsClass0(t *testing.T) {
	f := &gapFeatures{}
	p := New(f, lowerWins{})

	assert.InDelta(t, 0.6, p.Predict(2024, 1100, 1110), 1e-12)
	assert.InDelta(t, 0.4, p.Predict(2024, 1110, 1100), 1e-12)
	assert.Equal(t, [3]int{2024, 1100, 1110}, f.calls[0])
}

func TestPairwise_LowerIDFirstEachPairOnce(t *testing.T) {
	p := New(&gapFeatures{}, lowerWins{})
	preds := p.Pairwise(2024, []int{1120, 1100, 1110, 1100})

	require.Len(t, preds, 3)
	want := [][2]int{{1100, 1110}, {1100, 1120}, {1110, 1120}}
	for i, pr := range preds {
		assert.Equal(t, 2024, pr.Season)
		assert.Equal(t, want[i][0], pr.Low)
		assert.Equal(t, want[i][1], pr.High)
		assert.Less(t, pr.Low, pr.High)
	}
	assert.Equal(t, "2024_1100_1120", preds[1].ID())
	assert.InDelta(t, 0.7, preds[1].Prob, 1e-12)
}

func TestPairwise_FieldSize(t *testing.T) {
	teams := make([]int, 68)
	for i := range teams {
		teams[i] = 1100 + i
	}
	preds := New(&gapFeatures{}, lowerWins{}).Pairwise(2024, teams)
	assert.Len(t, preds, 68*67/2)
}

func TestPairwise_Empty(t *testing.T) {
	preds := New(&gapFeatures{}, lowerWins{}).Pairwise(2024, nil)
	assert.Empty(t, preds)
}
