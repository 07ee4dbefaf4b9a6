package nn

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// ReLU applies f(x) = max(0, x) element-wise, in place.
func ReLU(m *mat.Dense) {
	m.Apply(func(_, _ int, v float64) float64 {
		return math.Max(0, v)
	}, m)
}

// Softplus computes log(1 + exp(x)) without overflow.
func Softplus(x float64) float64 {
	if x > 0 {
		return x + math.Log1p(math.Exp(-x))
	}
	return math.Log1p(math.Exp(x))
}
