package classifier

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

// CVResult holds per-fold and mean accuracy.
type CVResult struct {
	Folds []float64
	Mean  float64
}

// StratifiedFolds assigns each row to one of k folds so every fold gets a
// near-equal share of each label. Rows are grouped by label (ascending,
// input order within a label) and dealt round-robin, so the split is
// deterministic and no fold is empty when len(y) >= k.
func StratifiedFolds(y []int, k int) []int {
	order := make([]int, len(y))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return y[order[a]] < y[order[b]] })

	fold := make([]int, len(y))
	for n, i := range order {
		fold[i] = n % k
	}
	return fold
}

// CrossValidate scores k-fold accuracy. Each fold trains a fresh model from
// newModel on the other folds. Folds run concurrently and share only
// read-only inputs.
func CrossValidate(ctx context.Context, X [][]float64, y []int, k int, newModel func() Classifier) (CVResult, error) {
	if k < 2 {
		return CVResult{}, fmt.Errorf("classifier: need at least 2 folds, got %d", k)
	}
	if len(X) < k {
		return CVResult{}, fmt.Errorf("classifier: %d rows is fewer than %d folds", len(X), k)
	}
	if len(y) != len(X) {
		return CVResult{}, fmt.Errorf("classifier: %d rows but %d labels", len(X), len(y))
	}

	assign := StratifiedFolds(y, k)
	acc := make([]float64, k)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for f := 0; f < k; f++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var trainX, testX [][]float64
			var trainY, testY []int
			for i, a := range assign {
				if a == f {
					testX = append(testX, X[i])
					testY = append(testY, y[i])
				} else {
					trainX = append(trainX, X[i])
					trainY = append(trainY, y[i])
				}
			}
			m := newModel()
			if err := m.Fit(trainX, trainY); err != nil {
				return fmt.Errorf("fold %d: %w", f, err)
			}
			acc[f] = Accuracy(m, testX, testY)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return CVResult{}, err
	}
	return CVResult{Folds: acc, Mean: stat.Mean(acc, nil)}, nil
}

// Accuracy is the share of rows whose predicted label matches y. A row is
// predicted as label 0 when Proba0 is at least 0.5.
func Accuracy(m Classifier, X [][]float64, y []int) float64 {
	if len(X) == 0 {
		return 0
	}
	var hits int
	for i, x := range X {
		pred := 1
		if m.Proba0(x) >= 0.5 {
			pred = 0
		}
		if pred == y[i] {
			hits++
		}
	}
	return float64(hits) / float64(len(X))
}
