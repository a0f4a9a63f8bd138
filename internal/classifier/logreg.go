// Package classifier fits and applies a binary logistic-regression model over
// EXIF feature vectors, and persists fitted models to disk.
package classifier

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrNoSamples   = errors.New("no training samples")
	ErrSingleClass = errors.New("training labels contain a single class")
	ErrShape       = errors.New("inconsistent feature dimensions")
)

// TrainOptions control the L-BFGS solver.
type TrainOptions struct {
	MaxIter int
	// L2 is the inverse of the regularization strength C; 0 disables the penalty.
	L2 float64
	// Tolerance is the gradient norm at which the solver stops.
	Tolerance float64
}

// DefaultTrainOptions mirror the defaults of a standard L2 logistic regression (C=1).
func DefaultTrainOptions() TrainOptions {
	return TrainOptions{
		MaxIter:   1000,
		L2:        1.0,
		Tolerance: 1e-6,
	}
}

// Model is a fitted logistic-regression classifier. Inputs are standardized
// with the training mean and scale before the linear function is applied.
type Model struct {
	ID           uuid.UUID
	FeatureNames []string
	Weights      []float64
	Bias         float64
	Mean         []float64
	Scale        []float64
	Iterations   int
	TrainedAt    time.Time
}

// Fit trains a model on X with labels y in {0,1} by minimizing the
// L2-penalized log-loss with L-BFGS.
func Fit(features []string, X [][]float64, y []int, opts TrainOptions) (*Model, error) {
	n := len(X)
	if n == 0 {
		return nil, ErrNoSamples
	}
	if len(y) != n {
		return nil, fmt.Errorf("%w: %d rows, %d labels", ErrShape, n, len(y))
	}
	d := len(features)
	if d == 0 {
		return nil, fmt.Errorf("%w: no features", ErrShape)
	}
	if err := checkShape(X, d); err != nil {
		return nil, err
	}

	labels := make([]float64, n)
	var pos int
	for i, label := range y {
		switch label {
		case 0:
		case 1:
			pos++
			labels[i] = 1
		default:
			return nil, fmt.Errorf("invalid label %d", label)
		}
	}
	if pos == 0 || pos == n {
		return nil, ErrSingleClass
	}

	if opts.MaxIter <= 0 {
		opts.MaxIter = DefaultTrainOptions().MaxIter
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = DefaultTrainOptions().Tolerance
	}

	m := &Model{
		ID:           uuid.New(),
		FeatureNames: slices.Clone(features),
	}
	m.Mean, m.Scale = standardization(X, d)

	Z := mat.NewDense(n, d, nil)
	for i, x := range X {
		Z.SetRow(i, m.standardize(x))
	}
	loss := newLogLoss(Z, labels, opts.L2)

	// The last parameter is the intercept.
	x0 := make([]float64, d+1)
	settings := &optimize.Settings{
		MajorIterations:   opts.MaxIter,
		GradientThreshold: opts.Tolerance,
	}
	res, err := optimize.Minimize(optimize.Problem{Func: loss.Func, Grad: loss.Grad}, x0, settings, &optimize.LBFGS{})
	if res == nil {
		return nil, fmt.Errorf("fit logistic regression: %w", err)
	}
	if err != nil {
		// Line search failures still leave the best location found.
		log.WithError(err).WithField("status", res.Status).Warn("Solver stopped early")
	}

	m.Weights = slices.Clone(res.X[:d])
	m.Bias = res.X[d]
	m.Iterations = res.Stats.MajorIterations
	m.TrainedAt = time.Now().UTC()

	log.WithFields(log.Fields{
		"model_id":   m.ID,
		"samples":    n,
		"features":   d,
		"iterations": m.Iterations,
		"status":     res.Status,
		"loss":       res.F,
	}).Info("Fitted logistic regression")

	return m, nil
}

// Features returns the feature names the model was trained on.
func (m *Model) Features() []string {
	return slices.Clone(m.FeatureNames)
}

// PredictProba returns the probability of label 1 for every row of X.
func (m *Model) PredictProba(X [][]float64) ([]float64, error) {
	if err := checkShape(X, len(m.Weights)); err != nil {
		return nil, err
	}
	p := make([]float64, len(X))
	for i, x := range X {
		p[i] = sigmoid(m.linear(m.standardize(x)))
	}
	return p, nil
}

// Predict returns the most likely label for every row of X.
func (m *Model) Predict(X [][]float64) ([]int, error) {
	proba, err := m.PredictProba(X)
	if err != nil {
		return nil, err
	}
	labels := make([]int, len(proba))
	for i, p := range proba {
		if p > 0.5 {
			labels[i] = 1
		}
	}
	return labels, nil
}

// Score returns the accuracy of the model on X and y.
func (m *Model) Score(X [][]float64, y []int) (float64, error) {
	if len(X) != len(y) {
		return 0, fmt.Errorf("%w: %d rows, %d labels", ErrShape, len(X), len(y))
	}
	if len(X) == 0 {
		return 0, ErrNoSamples
	}
	pred, err := m.Predict(X)
	if err != nil {
		return 0, err
	}
	return Accuracy(y, pred), nil
}

// Accuracy returns the fraction of positions where want and got agree.
func Accuracy(want, got []int) float64 {
	if len(want) == 0 {
		return 0
	}
	var hits int
	for i := range want {
		if i < len(got) && want[i] == got[i] {
			hits++
		}
	}
	return float64(hits) / float64(len(want))
}

func (m *Model) linear(z []float64) float64 {
	return floats.Dot(m.Weights, z) + m.Bias
}

func (m *Model) standardize(x []float64) []float64 {
	z := make([]float64, len(x))
	for j, v := range x {
		z[j] = (v - m.Mean[j]) / m.Scale[j]
	}
	return z
}

// standardization returns per-column mean and population standard
// deviation. Constant columns get a scale of 1.
func standardization(X [][]float64, d int) (mean, scale []float64) {
	mean = make([]float64, d)
	scale = make([]float64, d)
	col := make([]float64, len(X))
	for j := 0; j < d; j++ {
		for i, x := range X {
			col[i] = x[j]
		}
		mean[j], scale[j] = stat.PopMeanStdDev(col, nil)
		if scale[j] == 0 {
			scale[j] = 1
		}
	}
	return mean, scale
}

func checkShape(X [][]float64, d int) error {
	for i, x := range X {
		if len(x) != d {
			return fmt.Errorf("%w: row %d has %d values, want %d", ErrShape, i, len(x), d)
		}
	}
	return nil
}

func sigmoid(v float64) float64 {
	if v >= 0 {
		return 1 / (1 + math.Exp(-v))
	}
	e := math.Exp(v)
	return e / (1 + e)
}
