package bijector

import (
	"fmt"

	"github.com/born-ml/bijectors/internal/nn"
)

// Params is the data produced by Initialize and threaded through Forward
// and Inverse. Implementations are plain structs; Dim reports the
// dimension the params were initialized for.
type Params interface {
	Dim() int
}

// ShapeParams are the params of bijectors whose behavior is fully set at
// configuration time (Reverse, Roll, Scale, InvSoftplus, StandardScaler).
type ShapeParams struct {
	D int
}

// Dim implements Params.
func (p ShapeParams) Dim() int { return p.D }

// ShuffleParams hold a column permutation and its inverse.
type ShuffleParams struct {
	D       int
	Perm    []int
	Inverse []int
}

// Dim implements Params.
func (p ShuffleParams) Dim() int { return p.D }

// ColorParams hold the column layout resolved for a ColorTransform.
type ColorParams struct {
	D      int
	Front  []int // non-band columns, kept in their original order
	RefPos int   // index of the reference band within the bands
}

// Dim implements Params.
func (p ColorParams) Dim() int { return p.D }

// ChainParams hold the params of every link of a Chain, in order.
type ChainParams struct {
	D     int
	Links []Params
}

// Dim implements Params.
func (p ChainParams) Dim() int { return p.D }

// CouplingParams hold the column split and conditioner weights of a
// NeuralSplineCoupling.
type CouplingParams struct {
	D     int
	Cond  []int // columns passed through and fed to the conditioner
	Trans []int // columns transformed by splines
	Net   nn.MLPParams
}

// Dim implements Params.
func (p CouplingParams) Dim() int { return p.D }

// paramsAs asserts p to the params type a bijector expects.
func paramsAs[T Params](bijector string, p Params) (T, error) {
	v, ok := p.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %s expects %T, got %T", ErrParams, bijector, zero, p)
	}
	return v, nil
}
