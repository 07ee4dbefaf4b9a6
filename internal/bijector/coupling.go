package bijector

import (
	"fmt"
	"math"

	"github.com/born-ml/bijectors/internal/nn"
	"github.com/born-ml/bijectors/internal/prng"
	"github.com/born-ml/bijectors/internal/spline"
	"gonum.org/v1/gonum/mat"
)

// Split selects how a coupling layer partitions the columns into a
// conditioning subset and a transformed subset.
type Split int

const (
	// SplitInterleaved transforms the even columns (the larger half when D is
	// odd) conditioned on the odd columns.
	SplitInterleaved Split = iota

	// SplitHalves conditions on the first D/2 columns and transforms the rest.
	SplitHalves
)

// String returns the name used in descriptors.
func (s Split) String() string {
	switch s {
	case SplitInterleaved:
		return "interleaved"
	case SplitHalves:
		return "halves"
	default:
		return fmt.Sprintf("Split(%d)", int(s))
	}
}

// ParseSplit parses a split name produced by Split.String.
func ParseSplit(name string) (Split, error) {
	switch name {
	case "interleaved":
		return SplitInterleaved, nil
	case "halves":
		return SplitHalves, nil
	}
	return 0, fmt.Errorf("unknown split %q", name)
}

// Partition returns the conditioning and transformed columns for dimension d.
// The transformed subset is never empty.
func (s Split) Partition(d int) (cond, trans []int) {
	switch s {
	case SplitHalves:
		for j := 0; j < d; j++ {
			if j < d/2 {
				cond = append(cond, j)
			} else {
				trans = append(trans, j)
			}
		}
	default:
		for j := 0; j < d; j++ {
			if j%2 == 0 {
				trans = append(trans, j)
			} else {
				cond = append(cond, j)
			}
		}
	}
	return cond, trans
}

// CouplingConfig configures a NeuralSplineCoupling layer.
type CouplingConfig struct {
	K            int     // Number of spline bins.
	Bound        float64 // Splines act on [-Bound, Bound]; identity outside.
	HiddenLayers int     // Hidden layers in the conditioner.
	HiddenDim    int     // Width of each hidden layer.
	Split        Split   // Column partition.
}

// DefaultCouplingConfig returns the standard coupling configuration.
func DefaultCouplingConfig() CouplingConfig {
	return CouplingConfig{
		K:            16,
		Bound:        5,
		HiddenLayers: 2,
		HiddenDim:    128,
		Split:        SplitInterleaved,
	}
}

// Validate checks the configuration.
func (c CouplingConfig) Validate(bijector string) error {
	switch {
	case c.K < 1:
		return configErrorf(bijector, "K", "need at least one bin, got %d", c.K)
	case float64(c.K)*math.Max(spline.MinBinWidth, spline.MinBinHeight) >= 1:
		return configErrorf(bijector, "K", "%d bins exceed the minimum bin size", c.K)
	case !(c.Bound > 0) || math.IsInf(c.Bound, 1):
		return configErrorf(bijector, "B", "must be positive and finite, got %v", c.Bound)
	case c.HiddenLayers < 0:
		return configErrorf(bijector, "hidden_layers", "must be non-negative, got %d", c.HiddenLayers)
	case c.HiddenDim < 1:
		return configErrorf(bijector, "hidden_dim", "must be positive, got %d", c.HiddenDim)
	case c.Split != SplitInterleaved && c.Split != SplitHalves:
		return configErrorf(bijector, "split", "unknown split %v", c.Split)
	}
	return nil
}

// args returns the descriptor arguments of the configuration.
func (c CouplingConfig) args() []any {
	return []any{c.K, c.Bound, c.HiddenLayers, c.HiddenDim, c.Split.String()}
}

// NeuralSplineCoupling is a coupling layer with rational-quadratic spline
// transforms.
//
// The conditioning columns pass through unchanged and feed a DenseReLU
// conditioner, which emits 3K-1 spline parameters per transformed column
// (K width-logits, K height-logits, K-1 derivative-logits). Each transformed
// column goes through its own spline; conditioning columns add nothing to the
// log-determinant. Because the conditioning columns are untouched, Inverse
// recomputes the same spline parameters from y and inverts each spline.
type NeuralSplineCoupling struct {
	cfg CouplingConfig
}

// NewNeuralSplineCoupling creates a NeuralSplineCoupling bijector.
func NewNeuralSplineCoupling(cfg CouplingConfig) (*NeuralSplineCoupling, error) {
	if err := cfg.Validate("NeuralSplineCoupling"); err != nil {
		return nil, err
	}
	return &NeuralSplineCoupling{cfg: cfg}, nil
}

// Config returns the coupling configuration.
func (c *NeuralSplineCoupling) Config() CouplingConfig {
	return c.cfg
}

// Descriptor implements Bijector.
func (c *NeuralSplineCoupling) Descriptor() Descriptor {
	return Descriptor{Name: "NeuralSplineCoupling", Args: c.cfg.args()}
}

// Initialize implements Bijector.
func (c *NeuralSplineCoupling) Initialize(key prng.Key, dim int) (Params, error) {
	if err := checkDim("NeuralSplineCoupling", dim); err != nil {
		return nil, err
	}
	cond, trans := c.cfg.Split.Partition(dim)
	return CouplingParams{
		D:     dim,
		Cond:  cond,
		Trans: trans,
		Net:   c.network(len(cond), len(trans)).Init(key),
	}, nil
}

// Forward implements Bijector.
func (c *NeuralSplineCoupling) Forward(p Params, x mat.Matrix) (*mat.Dense, *mat.VecDense, error) {
	return c.transform(p, x, (*spline.Knots).Forward)
}

// Inverse implements Bijector.
func (c *NeuralSplineCoupling) Inverse(p Params, y mat.Matrix) (*mat.Dense, *mat.VecDense, error) {
	return c.transform(p, y, (*spline.Knots).Inverse)
}

// network returns the conditioner for the given subset sizes.
func (c *NeuralSplineCoupling) network(condDim, transDim int) nn.DenseReLU {
	return nn.DenseReLU{
		In:           condDim,
		Out:          transDim * spline.NumParams(c.cfg.K),
		HiddenLayers: c.cfg.HiddenLayers,
		HiddenDim:    c.cfg.HiddenDim,
	}
}

func (c *NeuralSplineCoupling) transform(
	p Params,
	x mat.Matrix,
	eval func(*spline.Knots, float64) (float64, float64),
) (*mat.Dense, *mat.VecDense, error) {
	cp, err := paramsAs[CouplingParams]("NeuralSplineCoupling", p)
	if err != nil {
		return nil, nil, err
	}
	if len(cp.Cond)+len(cp.Trans) != cp.D || len(cp.Trans) == 0 {
		return nil, nil, fmt.Errorf("%w: NeuralSplineCoupling split %d+%d does not cover %d columns",
			ErrParams, len(cp.Cond), len(cp.Trans), cp.D)
	}
	n, err := checkBatch("NeuralSplineCoupling", cp, x)
	if err != nil {
		return nil, nil, err
	}

	theta, err := c.network(len(cp.Cond), len(cp.Trans)).Forward(cp.Net, n, gatherCols(x, n, cp.Cond))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: NeuralSplineCoupling conditioner: %w", ErrParams, err)
	}

	width := spline.NumParams(c.cfg.K)
	out := mat.DenseCopyOf(x)
	logDet := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		row := theta.RawRowView(i)
		var ld float64
		for t, col := range cp.Trans {
			w, h, d, err := spline.Unpack(row[t*width:(t+1)*width], c.cfg.K)
			if err != nil {
				return nil, nil, err
			}
			kn, err := spline.NewKnots(w, h, d, c.cfg.Bound)
			if err != nil {
				return nil, nil, err
			}
			v, l := eval(kn, out.At(i, col))
			out.Set(i, col, v)
			ld += l
		}
		logDet.SetVec(i, ld)
	}
	return out, logDet, nil
}
