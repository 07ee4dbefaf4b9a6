package bijector

import (
	"fmt"

	"github.com/born-ml/bijectors/internal/prng"
	"gonum.org/v1/gonum/mat"
)

// Shuffle applies a fixed random permutation of the columns.
//
// The permutation is drawn once, in Initialize, from the given key.
type Shuffle struct{}

// NewShuffle creates a Shuffle bijector.
func NewShuffle() *Shuffle {
	return &Shuffle{}
}

// Descriptor implements Bijector.
func (s *Shuffle) Descriptor() Descriptor {
	return Descriptor{Name: "Shuffle", Args: []any{}}
}

// Initialize implements Bijector.
func (s *Shuffle) Initialize(key prng.Key, dim int) (Params, error) {
	if err := checkDim("Shuffle", dim); err != nil {
		return nil, err
	}
	perm := key.Rand().Perm(dim)
	inv := make([]int, dim)
	for j, v := range perm {
		inv[v] = j
	}
	return ShuffleParams{D: dim, Perm: perm, Inverse: inv}, nil
}

// Forward implements Bijector.
func (s *Shuffle) Forward(p Params, x mat.Matrix) (*mat.Dense, *mat.VecDense, error) {
	sp, err := paramsAs[ShuffleParams]("Shuffle", p)
	if err != nil {
		return nil, nil, err
	}
	return s.permute(sp, x, sp.Perm)
}

// Inverse implements Bijector.
func (s *Shuffle) Inverse(p Params, y mat.Matrix) (*mat.Dense, *mat.VecDense, error) {
	sp, err := paramsAs[ShuffleParams]("Shuffle", p)
	if err != nil {
		return nil, nil, err
	}
	return s.permute(sp, y, sp.Inverse)
}

func (s *Shuffle) permute(sp ShuffleParams, x mat.Matrix, perm []int) (*mat.Dense, *mat.VecDense, error) {
	n, err := checkBatch("Shuffle", sp, x)
	if err != nil {
		return nil, nil, err
	}
	if len(perm) != sp.D {
		return nil, nil, fmt.Errorf("%w: Shuffle permutation has %d entries for %d columns", ErrParams, len(perm), sp.D)
	}
	return permuteCols(x, perm), constLogDet(n, 0), nil
}
