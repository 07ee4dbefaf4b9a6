package bijector

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/mat"
)

// checkBatch validates that x is a non-empty [N, p.Dim()] batch and returns N.
func checkBatch(bijector string, p Params, x mat.Matrix) (int, error) {
	if p == nil {
		return 0, fmt.Errorf("%w: %s: nil params", ErrParams, bijector)
	}
	if x == nil {
		return 0, fmt.Errorf("%w: %s: nil batch", ErrDimension, bijector)
	}
	r, c := x.Dims()
	if r == 0 || c == 0 {
		return 0, fmt.Errorf("%w: %s: empty batch", ErrDimension, bijector)
	}
	if c != p.Dim() {
		return 0, fmt.Errorf("%w: %s initialized for %d columns, got %d", ErrDimension, bijector, p.Dim(), c)
	}
	return r, nil
}

func checkDim(bijector string, dim int) error {
	if dim < 1 {
		return fmt.Errorf("%w: %s: dimension must be positive, got %d", ErrDimension, bijector, dim)
	}
	return nil
}

// permuteCols returns a copy of x with out[:, j] = x[:, perm[j]].
func permuteCols(x mat.Matrix, perm []int) *mat.Dense {
	out := mat.DenseCopyOf(x)
	// Lapmt marks visited entries of its permutation argument in place.
	out.PermuteCols(slices.Clone(perm), false)
	return out
}

// gatherCols copies the given columns of x into a new [n, len(cols)] matrix.
// It returns nil when cols is empty.
func gatherCols(x mat.Matrix, n int, cols []int) *mat.Dense {
	if len(cols) == 0 {
		return nil
	}
	out := mat.NewDense(n, len(cols), nil)
	for i := 0; i < n; i++ {
		row := out.RawRowView(i)
		for j, c := range cols {
			row[j] = x.At(i, c)
		}
	}
	return out
}

// constLogDet returns an n-vector filled with v.
func constLogDet(n int, v float64) *mat.VecDense {
	ld := mat.NewVecDense(n, nil)
	if v != 0 {
		for i := 0; i < n; i++ {
			ld.SetVec(i, v)
		}
	}
	return ld
}

// mod returns the non-negative remainder of a/b.
func mod(a, b int) int {
	return ((a % b) + b) % b
}
