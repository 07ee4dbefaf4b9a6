// Package bijector implements invertible transforms with tractable Jacobians,
// the building blocks of normalizing flows.
//
// Every bijector follows the same lifecycle:
//
//  1. Configure: a constructor (NewScale, NewRoll, ...) or Configure validates
//     its arguments eagerly and returns a Bijector.
//  2. Initialize: given a prng.Key and the dimension D, the bijector produces
//     its Params, plain data that is never mutated afterwards.
//  3. Forward/Inverse: pure functions of (Params, batch) returning the
//     transformed [N, D] batch and the per-row log|det J|.
//
// Forward and Inverse are safe to call concurrently and to run through Compile.
package bijector

import (
	"github.com/born-ml/bijectors/internal/prng"
	"gonum.org/v1/gonum/mat"
)

// Bijector is an invertible, differentiable map between [N, D] batches.
//
// Invariants:
//   - Forward and Inverse preserve the batch shape and return one
//     log-determinant per row.
//   - Inverse(p, Forward(p, x)) == x and the two log-determinants negate.
//   - Params are never mutated.
type Bijector interface {
	// Descriptor reports how the bijector was configured.
	Descriptor() Descriptor

	// Initialize draws the parameters for dimension dim from key.
	//
	// It returns an ErrConfig error when the configuration cannot serve
	// dim (e.g., StandardScaler means of the wrong length).
	Initialize(key prng.Key, dim int) (Params, error)

	// Forward maps x to y and returns log|det dy/dx| per row.
	Forward(p Params, x mat.Matrix) (*mat.Dense, *mat.VecDense, error)

	// Inverse maps y back to x and returns log|det dx/dy| per row.
	Inverse(p Params, y mat.Matrix) (*mat.Dense, *mat.VecDense, error)
}

// ForwardFunc is the functional form of Bijector.Forward.
type ForwardFunc func(p Params, x mat.Matrix) (*mat.Dense, *mat.VecDense, error)

// InverseFunc is the functional form of Bijector.Inverse.
type InverseFunc = ForwardFunc

// InitFunc initializes a configured bijector for a dimension and returns
// its parameters together with the forward/inverse pair.
type InitFunc func(key prng.Key, dim int) (Params, ForwardFunc, InverseFunc, error)

// Initializer returns the InitFunc of b.
func Initializer(b Bijector) InitFunc {
	return func(key prng.Key, dim int) (Params, ForwardFunc, InverseFunc, error) {
		p, err := b.Initialize(key, dim)
		if err != nil {
			return nil, nil, nil, err
		}
		return p, b.Forward, b.Inverse, nil
	}
}
