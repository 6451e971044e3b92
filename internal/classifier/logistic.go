// Package classifier implements the binary logistic regression used to
// predict pairwise game outcomes.
package classifier

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrNotFitted is returned when predicting before Fit.
	ErrNotFitted = errors.New("classifier: model not fitted")
	// ErrEmptyDataset is returned by Fit for a dataset with no rows.
	ErrEmptyDataset = errors.New("classifier: empty dataset")
)

// Classifier is a binary model over labels 0 and 1.
type Classifier interface {
	Fit(X [][]float64, y []int) error
	// Proba0 returns the probability of label 0 for one feature vector.
	Proba0(x []float64) float64
}

// Options configures a Logistic model.
type Options struct {
	C       float64 // inverse L2 strength; the intercept is not penalised
	MaxIter int
}

// DefaultOptions mirror the usual lbfgs logistic regression defaults.
func DefaultOptions() Options {
	return Options{C: 1.0, MaxIter: 1000}
}

// Logistic is an L2-penalised logistic regression fitted with L-BFGS.
// Inputs are standardised with the training mean and standard deviation.
type Logistic struct {
	opts      Options
	mean      []float64
	scale     []float64
	weights   []float64
	intercept float64
	fitted    bool
}

// NewLogistic returns an unfitted model.
func NewLogistic(opts Options) *Logistic {
	if opts.C <= 0 {
		opts.C = 1.0
	}
	if opts.MaxIter <= 0 {
		opts.MaxIter = 1000
	}
	return &Logistic{opts: opts}
}

// Fit trains the model on X and y. y must contain only 0 and 1.
func (m *Logistic) Fit(X [][]float64, y []int) error {
	n := len(X)
	if n == 0 {
		return ErrEmptyDataset
	}
	if len(y) != n {
		return fmt.Errorf("classifier: %d rows but %d labels", n, len(y))
	}
	d := len(X[0])
	for i, row := range X {
		if len(row) != d {
			return fmt.Errorf("classifier: row %d has %d features, want %d", i, len(row), d)
		}
		if y[i] != 0 && y[i] != 1 {
			return fmt.Errorf("classifier: label %d at row %d", y[i], i)
		}
	}

	m.mean, m.scale = columnScale(X)
	Z := make([][]float64, n)
	for i, row := range X {
		Z[i] = m.standardise(row)
	}
	target := make([]float64, n)
	for i, v := range y {
		target[i] = float64(v)
	}

	// Parameters are [w_0 .. w_{d-1}, b]. The objective is the mean log-loss
	// plus ||w||^2 / (2*C*n), which has the same minimiser as C*sum(loss) + ||w||^2/2.
	penalty := 1 / (m.opts.C * float64(n))
	problem := optimize.Problem{
		Func: func(p []float64) float64 {
			w, b := p[:d], p[d]
			var loss float64
			for i, z := range Z {
				s := floats.Dot(w, z) + b
				loss += softplus(s) - target[i]*s
			}
			return loss/float64(n) + 0.5*penalty*floats.Dot(w, w)
		},
		Grad: func(grad, p []float64) {
			w, b := p[:d], p[d]
			for j := range grad {
				grad[j] = 0
			}
			for i, z := range Z {
				r := sigmoid(floats.Dot(w, z)+b) - target[i]
				floats.AddScaled(grad[:d], r, z)
				grad[d] += r
			}
			floats.Scale(1/float64(n), grad)
			floats.AddScaled(grad[:d], penalty, w)
		},
	}

	settings := &optimize.Settings{
		MajorIterations:   m.opts.MaxIter,
		GradientThreshold: 1e-6,
	}
	res, err := optimize.Minimize(problem, make([]float64, d+1), settings, &optimize.LBFGS{})
	if res == nil {
		return fmt.Errorf("classifier: minimize: %w", err)
	}
	// A run that stops on a line-search or iteration limit still carries a
	// usable iterate; only a missing result is fatal.
	for _, v := range res.X {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("classifier: fit diverged (status %v): %v", res.Status, err)
		}
	}

	m.weights = append([]float64(nil), res.X[:d]...)
	m.intercept = res.X[d]
	m.fitted = true
	return nil
}

// Proba0 returns the probability of label 0. It panics if the model has not
// been fitted; use Fitted to check.
func (m *Logistic) Proba0(x []float64) float64 {
	if !m.fitted {
		panic(ErrNotFitted)
	}
	return 1 - sigmoid(floats.Dot(m.weights, m.standardise(x))+m.intercept)
}

// Fitted reports whether Fit has completed.
func (m *Logistic) Fitted() bool { return m.fitted }

// Coefficients returns the weights in standardised feature space and the intercept.
func (m *Logistic) Coefficients() ([]float64, float64) {
	return append([]float64(nil), m.weights...), m.intercept
}

func (m *Logistic) standardise(x []float64) []float64 {
	out := make([]float64, len(x))
	for j, v := range x {
		out[j] = (v - m.mean[j]) / m.scale[j]
	}
	return out
}

// columnScale returns per-column mean and standard deviation. Constant
// columns get a scale of 1.
func columnScale(X [][]float64) (mean, scale []float64) {
	d := len(X[0])
	mean = make([]float64, d)
	scale = make([]float64, d)
	col := make([]float64, len(X))
	for j := 0; j < d; j++ {
		for i, row := range X {
			col[i] = row[j]
		}
		mu, sd := stat.MeanStdDev(col, nil)
		if math.IsNaN(sd) || sd == 0 {
			sd = 1
		}
		mean[j], scale[j] = mu, sd
	}
	return mean, scale
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

// softplus is log(1+e^z) without overflow.
func softplus(z float64) float64 {
	if z > 0 {
		return z + math.Log1p(math.Exp(-z))
	}
	return math.Log1p(math.Exp(z))
}
