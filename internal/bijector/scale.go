package bijector

import (
	"math"

	"github.com/born-ml/bijectors/internal/prng"
	"gonum.org/v1/gonum/mat"
)

// Scale multiplies every column by a constant factor.
//
// log|det J| = D * log|factor| for every row.
type Scale struct {
	factor float64
}

// NewScale creates a Scale bijector. The factor must be finite and nonzero.
func NewScale(factor float64) (*Scale, error) {
	if factor == 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return nil, configErrorf("Scale", "factor", "must be finite and nonzero, got %v", factor)
	}
	return &Scale{factor: factor}, nil
}

// Factor returns the configured factor.
func (s *Scale) Factor() float64 {
	return s.factor
}

// Descriptor implements Bijector.
func (s *Scale) Descriptor() Descriptor {
	return Descriptor{Name: "Scale", Args: []any{s.factor}}
}

// Initialize implements Bijector.
func (s *Scale) Initialize(_ prng.Key, dim int) (Params, error) {
	if err := checkDim("Scale", dim); err != nil {
		return nil, err
	}
	return ShapeParams{D: dim}, nil
}

// Forward implements Bijector.
func (s *Scale) Forward(p Params, x mat.Matrix) (*mat.Dense, *mat.VecDense, error) {
	return s.scale(p, x, s.factor)
}

// Inverse implements Bijector.
func (s *Scale) Inverse(p Params, y mat.Matrix) (*mat.Dense, *mat.VecDense, error) {
	return s.scale(p, y, 1/s.factor)
}

func (s *Scale) scale(p Params, x mat.Matrix, factor float64) (*mat.Dense, *mat.VecDense, error) {
	n, err := checkBatch("Scale", p, x)
	if err != nil {
		return nil, nil, err
	}
	var out mat.Dense
	out.Scale(factor, x)
	return &out, constLogDet(n, float64(p.Dim())*math.Log(math.Abs(factor))), nil
}
