package bijector

import (
	"github.com/born-ml/bijectors/internal/prng"
	"gonum.org/v1/gonum/mat"
)

// Reverse reverses the order of the columns.
type Reverse struct{}

// NewReverse creates a Reverse bijector.
func NewReverse() *Reverse {
	return &Reverse{}
}

// Descriptor implements Bijector.
func (r *Reverse) Descriptor() Descriptor {
	return Descriptor{Name: "Reverse", Args: []any{}}
}

// Initialize implements Bijector.
func (r *Reverse) Initialize(_ prng.Key, dim int) (Params, error) {
	if err := checkDim("Reverse", dim); err != nil {
		return nil, err
	}
	return ShapeParams{D: dim}, nil
}

// Forward implements Bijector.
func (r *Reverse) Forward(p Params, x mat.Matrix) (*mat.Dense, *mat.VecDense, error) {
	return r.apply(p, x)
}

// Inverse implements Bijector. Reversal is its own inverse.
func (r *Reverse) Inverse(p Params, y mat.Matrix) (*mat.Dense, *mat.VecDense, error) {
	return r.apply(p, y)
}

func (r *Reverse) apply(p Params, x mat.Matrix) (*mat.Dense, *mat.VecDense, error) {
	n, err := checkBatch("Reverse", p, x)
	if err != nil {
		return nil, nil, err
	}
	d := p.Dim()
	perm := make([]int, d)
	for j := range perm {
		perm[j] = d - 1 - j
	}
	return permuteCols(x, perm), constLogDet(n, 0), nil
}
