package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAverage_UnseenIsZero(t *testing.T) {
	tr := NewTracker(DefaultWindow)
	assert.Equal(t, 0.0, tr.Average(2024, 1101, "score"))
	assert.Equal(t, 0.0, tr.Average(2024, 1101, "nonexistent"))
}

func TestUpdate_WindowBoundedAndOldestEvicted(t *testing.T) {
	tr := NewTracker(DefaultWindow)
	for i := 1; i <= 25; i++ {
		tr.Update(2024, 1, map[string]float64{"score": float64(i)})
		w := tr.Window(2024, 1, "score")
		require.LessOrEqual(t, len(w), 9)
	}

	w := tr.Window(2024, 1, "score")
	assert.Equal(t, []float64{17, 18, 19, 20, 21, 22, 23, 24, 25}, w)
	assert.InDelta(t, 21.0, tr.Average(2024, 1, "score"), 1e-12)
}

func TestAverage_MeanOfWindow(t *testing.T) {
	tr := NewTracker(DefaultWindow)
	vals := []float64{60, 72, 81}
	for _, v := range vals {
		tr.Update(2024, 1, map[string]float64{"score": v, "blk": 2})
	}
	assert.InDelta(t, 71.0, tr.Average(2024, 1, "score"), 1e-12)
	assert.InDelta(t, 2.0, tr.Average(2024, 1, "blk"), 1e-12)
}

func TestUpdate_KeyedBySeasonTeamField(t *testing.T) {
	tr := NewTracker(DefaultWindow)
	tr.Update(2023, 1, map[string]float64{"score": 90})
	tr.Update(2024, 1, map[string]float64{"score": 50})
	tr.Update(2024, 2, map[string]float64{"score": 70})

	assert.Equal(t, 90.0, tr.Average(2023, 1, "score"))
	assert.Equal(t, 50.0, tr.Average(2024, 1, "score"))
	assert.Equal(t, 70.0, tr.Average(2024, 2, "score"))
	// Stats do not carry over between seasons.
	assert.Equal(t, 0.0, tr.Average(2025, 1, "score"))
}

func TestAverages_Order(t *testing.T) {
	tr := NewTracker(3)
	tr.Update(2024, 1, map[string]float64{"a": 1, "b": 2, "c": 3})
	assert.Equal(t, []float64{3, 1, 0}, tr.Averages(2024, 1, []string{"c", "a", "missing"}))
}

func TestWindow_ReturnsCopy(t *testing.T) {
	tr := NewTracker(3)
	tr.Update(2024, 1, map[string]float64{"a": 1})
	w := tr.Window(2024, 1, "a")
	w[0] = 99
	assert.Equal(t, 1.0, tr.Average(2024, 1, "a"))
}

func TestNewTracker_NonPositiveWindowUsesDefault(t *testing.T) {
	tr := NewTracker(0)
	for i := 0; i < 20; i++ {
		tr.Update(2024, 1, map[string]float64{"a": 1})
	}
	assert.Len(t, tr.Window(2024, 1, "a"), DefaultWindow)
}
