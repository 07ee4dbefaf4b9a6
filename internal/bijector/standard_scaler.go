package bijector

import (
	"fmt"
	"math"
	"slices"

	"github.com/born-ml/bijectors/internal/prng"
	"gonum.org/v1/gonum/mat"
)

// StandardScaler standardizes each column: y = (x - mean) / std.
//
// log|det J| = -sum(log(std)) for every row.
type StandardScaler struct {
	means []float64
	stds  []float64
}

// NewStandardScaler creates a StandardScaler bijector.
//
// means and stds must have equal lengths and every std must be positive.
// Their length is checked against the dimension in Initialize.
func NewStandardScaler(means, stds []float64) (*StandardScaler, error) {
	if len(means) != len(stds) {
		return nil, configErrorf("StandardScaler", "", "got %d means and %d stds", len(means), len(stds))
	}
	for j, s := range stds {
		if !(s > 0) || math.IsInf(s, 1) {
			return nil, configErrorf("StandardScaler", "stds", "std %d must be positive and finite, got %v", j, s)
		}
	}
	return &StandardScaler{means: slices.Clone(means), stds: slices.Clone(stds)}, nil
}

// Descriptor implements Bijector.
func (s *StandardScaler) Descriptor() Descriptor {
	return Descriptor{Name: "StandardScaler", Args: []any{slices.Clone(s.means), slices.Clone(s.stds)}}
}

// Initialize implements Bijector.
func (s *StandardScaler) Initialize(_ prng.Key, dim int) (Params, error) {
	if err := checkDim("StandardScaler", dim); err != nil {
		return nil, err
	}
	if len(s.means) != dim {
		return nil, configErrorf("StandardScaler", "", "configured for %d columns, initialized with dimension %d",
			len(s.means), dim)
	}
	return ShapeParams{D: dim}, nil
}

// Forward implements Bijector.
func (s *StandardScaler) Forward(p Params, x mat.Matrix) (*mat.Dense, *mat.VecDense, error) {
	n, err := s.check(p, x)
	if err != nil {
		return nil, nil, err
	}
	out := mat.NewDense(n, p.Dim(), nil)
	out.Apply(func(_, j int, v float64) float64 {
		return (v - s.means[j]) / s.stds[j]
	}, x)
	return out, constLogDet(n, -s.logStdSum()), nil
}

// Inverse implements Bijector.
func (s *StandardScaler) Inverse(p Params, y mat.Matrix) (*mat.Dense, *mat.VecDense, error) {
	n, err := s.check(p, y)
	if err != nil {
		return nil, nil, err
	}
	out := mat.NewDense(n, p.Dim(), nil)
	out.Apply(func(_, j int, v float64) float64 {
		return v*s.stds[j] + s.means[j]
	}, y)
	return out, constLogDet(n, s.logStdSum()), nil
}

func (s *StandardScaler) check(p Params, x mat.Matrix) (int, error) {
	n, err := checkBatch("StandardScaler", p, x)
	if err != nil {
		return 0, err
	}
	if p.Dim() != len(s.means) {
		return 0, fmt.Errorf("%w: StandardScaler configured for %d columns, params for %d", ErrParams, len(s.means), p.Dim())
	}
	return n, nil
}

func (s *StandardScaler) logStdSum() float64 {
	var sum float64
	for _, v := range s.stds {
		sum += math.Log(v)
	}
	return sum
}
