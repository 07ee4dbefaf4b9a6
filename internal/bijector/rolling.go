package bijector

import (
	"fmt"

	"github.com/born-ml/bijectors/internal/prng"
	"gonum.org/v1/gonum/mat"
)

// RollingSplineCoupling repeats a NeuralSplineCoupling behind a Roll, so that
// successive repetitions transform different columns.
//
// It is exactly the Chain
//
//	Roll(step), NeuralSplineCoupling, Roll(step), NeuralSplineCoupling, ...
//
// with one (Roll, coupling) pair per repetition, and its params are that
// chain's ChainParams.
type RollingSplineCoupling struct {
	layers int
	shift  int
	cfg    CouplingConfig
}

// NewRollingSplineCoupling creates a RollingSplineCoupling bijector.
//
// layers is the number of repetitions. shift is the roll between
// repetitions; zero picks, at initialization, the smallest roll for which
// the repetitions together transform every column.
func NewRollingSplineCoupling(layers, shift int, cfg CouplingConfig) (*RollingSplineCoupling, error) {
	if layers < 1 {
		return nil, configErrorf("RollingSplineCoupling", "nlayers", "need at least one repetition, got %d", layers)
	}
	if shift < 0 {
		return nil, configErrorf("RollingSplineCoupling", "shift", "must be non-negative, got %d", shift)
	}
	if err := cfg.Validate("RollingSplineCoupling"); err != nil {
		return nil, err
	}
	return &RollingSplineCoupling{layers: layers, shift: shift, cfg: cfg}, nil
}

// Descriptor implements Bijector.
func (r *RollingSplineCoupling) Descriptor() Descriptor {
	return Descriptor{Name: "RollingSplineCoupling", Args: append([]any{r.layers, r.shift}, r.cfg.args()...)}
}

// Step returns the roll applied before each repetition for dimension dim.
func (r *RollingSplineCoupling) Step(dim int) int {
	if r.shift > 0 {
		return r.shift
	}
	for s := 1; s < dim; s++ {
		if r.covers(dim, s) {
			return s
		}
	}
	return 1
}

// covers reports whether rolling by step before each repetition lets the
// repetitions transform every column at least once.
func (r *RollingSplineCoupling) covers(dim, step int) bool {
	_, trans := r.cfg.Split.Partition(dim)
	isTrans := make([]bool, dim)
	for _, j := range trans {
		isTrans[j] = true
	}

	covered := 0
	seen := make([]bool, dim)
	for rep := 1; rep <= r.layers; rep++ {
		for col := 0; col < dim; col++ {
			if !seen[col] && isTrans[mod(col+rep*step, dim)] {
				seen[col] = true
				covered++
			}
		}
	}
	return covered == dim
}

// chain returns the equivalent Chain for dimension dim.
func (r *RollingSplineCoupling) chain(dim int) *Chain {
	roll := NewRoll(r.Step(dim))
	coupling := &NeuralSplineCoupling{cfg: r.cfg}

	links := make([]Bijector, 0, 2*r.layers)
	for i := 0; i < r.layers; i++ {
		links = append(links, roll, coupling)
	}
	return &Chain{links: links}
}

// Initialize implements Bijector.
func (r *RollingSplineCoupling) Initialize(key prng.Key, dim int) (Params, error) {
	if err := checkDim("RollingSplineCoupling", dim); err != nil {
		return nil, err
	}
	return r.chain(dim).Initialize(key, dim)
}

// Forward implements Bijector.
func (r *RollingSplineCoupling) Forward(p Params, x mat.Matrix) (*mat.Dense, *mat.VecDense, error) {
	if p == nil {
		return nil, nil, fmt.Errorf("%w: RollingSplineCoupling: nil params", ErrParams)
	}
	return r.chain(p.Dim()).Forward(p, x)
}

// Inverse implements Bijector.
func (r *RollingSplineCoupling) Inverse(p Params, y mat.Matrix) (*mat.Dense, *mat.VecDense, error) {
	if p == nil {
		return nil, nil, fmt.Errorf("%w: RollingSplineCoupling: nil params", ErrParams)
	}
	return r.chain(p.Dim()).Inverse(p, y)
}
