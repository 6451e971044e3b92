package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatValues(t *testing.T) {
	full := BoxScore{
		Score: 80, FGM: 30, FGA: 60, FGM3: 5, FGA3: 20, FTM: 15, FTA: 20,
		OR: 9, DR: 24, Ast: 14, TO: 11, Stl: 6, Blk: 3, PF: 17,
	}

	tests := []struct {
		name    string
		box     BoxScore
		want    map[string]float64
		missing []string
	}{
		{
			name: "full box score",
			box:  full,
			want: map[string]float64{
				StatScore: 80, StatFGA: 60, StatFGPct: 50, StatFGA3: 20, Stat3PPct: 25,
				StatFTPct: 75, StatOffReb: 9, StatDefReb: 24, StatAssists: 14,
				StatTO: 11, StatSteals: 6, StatBlocks: 3, StatFouls: 17,
			},
		},
		{
			name:    "no three-point attempts",
			box:     func() BoxScore { b := full; b.FGM3, b.FGA3 = 0, 0; return b }(),
			want:    map[string]float64{StatFGA3: 0, StatFGPct: 50},
			missing: []string{Stat3PPct},
		},
		{
			name:    "no free throws",
			box:     func() BoxScore { b := full; b.FTM, b.FTA = 0, 0; return b }(),
			want:    map[string]float64{Stat3PPct: 25},
			missing: []string{StatFTPct},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.box.StatValues()
			for k, v := range tt.want {
				assert.InDelta(t, v, got[k], 1e-9, k)
			}
			for _, k := range tt.missing {
				assert.NotContains(t, got, k)
			}
		})
	}
	assert.Len(t, full.StatValues(), len(StatOrder))
}

func TestHasAttempts(t *testing.T) {
	full := BoxScore{FGA: 60, FGA3: 20, FTA: 20}
	assert.True(t, full.HasAttempts())

	for _, zero := range []func(*BoxScore){
		func(b *BoxScore) { b.FGA = 0 },
		func(b *BoxScore) { b.FGA3 = 0 },
		func(b *BoxScore) { b.FTA = 0 },
	} {
		b := full
		zero(&b)
		assert.False(t, b.HasAttempts(), "%+v", b)
	}
}

func TestPrediction(t *testing.T) {
	p := Prediction{Season: 2024, Low: 1101, High: 1102, Prob: 0.3}
	assert.Equal(t, "2024_1101_1102", p.ID())

	w, l, prob := p.Winner()
	assert.Equal(t, 1102, w)
	assert.Equal(t, 1101, l)
	assert.InDelta(t, 0.7, prob, 1e-12)
}
