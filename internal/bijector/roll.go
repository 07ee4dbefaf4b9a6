package bijector

import (
	"github.com/born-ml/bijectors/internal/prng"
	"gonum.org/v1/gonum/mat"
)

// Roll cyclically shifts the columns: column j moves to (j + shift) mod D.
type Roll struct {
	shift int
}

// NewRoll creates a Roll bijector. Negative shifts roll to the left.
func NewRoll(shift int) *Roll {
	return &Roll{shift: shift}
}

// Shift returns the configured shift.
func (r *Roll) Shift() int {
	return r.shift
}

// Descriptor implements Bijector.
func (r *Roll) Descriptor() Descriptor {
	return Descriptor{Name: "Roll", Args: []any{r.shift}}
}

// Initialize implements Bijector.
func (r *Roll) Initialize(_ prng.Key, dim int) (Params, error) {
	if err := checkDim("Roll", dim); err != nil {
		return nil, err
	}
	return ShapeParams{D: dim}, nil
}

// Forward implements Bijector.
func (r *Roll) Forward(p Params, x mat.Matrix) (*mat.Dense, *mat.VecDense, error) {
	return r.roll(p, x, r.shift)
}

// Inverse implements Bijector.
func (r *Roll) Inverse(p Params, y mat.Matrix) (*mat.Dense, *mat.VecDense, error) {
	return r.roll(p, y, -r.shift)
}

func (r *Roll) roll(p Params, x mat.Matrix, shift int) (*mat.Dense, *mat.VecDense, error) {
	n, err := checkBatch("Roll", p, x)
	if err != nil {
		return nil, nil, err
	}
	d := p.Dim()
	perm := make([]int, d)
	for j := range perm {
		perm[j] = mod(j-shift, d)
	}
	return permuteCols(x, perm), constLogDet(n, 0), nil
}
