package classifier

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// logLoss is the mean log-loss of a logistic model over standardized rows Z
// plus (l2/2n)·‖w‖². Parameters are the weights followed by the intercept,
// which is not penalized.
type logLoss struct {
	z  *mat.Dense
	y  []float64
	l2 float64

	margin *mat.VecDense
	resid  *mat.VecDense
}

func newLogLoss(z *mat.Dense, y []float64, l2 float64) *logLoss {
	n, _ := z.Dims()
	return &logLoss{
		z:      z,
		y:      y,
		l2:     l2,
		margin: mat.NewVecDense(n, nil),
		resid:  mat.NewVecDense(n, nil),
	}
}

func (l *logLoss) margins(x []float64) []float64 {
	_, d := l.z.Dims()
	l.margin.MulVec(l.z, mat.NewVecDense(d, x[:d]))
	m := l.margin.RawVector().Data
	floats.AddConst(x[d], m)
	return m
}

func (l *logLoss) Func(x []float64) float64 {
	_, d := l.z.Dims()
	var sum float64
	for i, m := range l.margins(x) {
		sum += softplus(m) - l.y[i]*m
	}
	n := float64(len(l.y))
	w := x[:d]
	return sum/n + 0.5*l.l2*floats.Dot(w, w)/n
}

func (l *logLoss) Grad(grad, x []float64) {
	_, d := l.z.Dims()
	n := float64(len(l.y))
	for i, m := range l.margins(x) {
		l.resid.SetVec(i, sigmoid(m)-l.y[i])
	}

	g := mat.NewVecDense(d, grad[:d])
	g.MulVec(l.z.T(), l.resid)
	floats.Scale(1/n, grad[:d])
	floats.AddScaled(grad[:d], l.l2/n, x[:d])
	grad[d] = floats.Sum(l.resid.RawVector().Data) / n
}

// softplus returns log(1+e^v) without overflow.
func softplus(v float64) float64 {
	if v > 0 {
		return v + math.Log1p(math.Exp(-v))
	}
	return math.Log1p(math.Exp(v))
}
