package nn

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// LinearParams holds the weights of a fully connected layer.
//
// Weight has shape [out_features, in_features] and is nil for a layer
// with no inputs. Bias has length out_features.
type LinearParams struct {
	Weight *mat.Dense
	Bias   []float64
}

// Linear implements a fully connected (dense) layer.
//
// Performs the transformation: y = x @ W.T + b
// where:
//   - x is the input batch with shape [batch_size, in_features]
//   - W is the weight matrix with shape [out_features, in_features]
//   - b is the bias vector with shape [out_features]
//
// Linear is a description of the layer; its weights live in LinearParams
// so the same layer can be evaluated against any parameter value.
type Linear struct {
	InFeatures  int
	OutFeatures int
}

// NewLinear creates a new Linear layer description.
func NewLinear(inFeatures, outFeatures int) Linear {
	return Linear{InFeatures: inFeatures, OutFeatures: outFeatures}
}

// Init draws Xavier/Glorot uniform weights from src. Biases are zero.
func (l Linear) Init(src rand.Source) LinearParams {
	return LinearParams{
		Weight: Xavier(l.InFeatures, l.OutFeatures, src),
		Bias:   Zeros(l.OutFeatures),
	}
}

// Forward computes x @ W.T + b into a new matrix.
//
// Input shape: [batch_size, in_features]
// Output shape: [batch_size, out_features]
func (l Linear) Forward(p LinearParams, batch int, x mat.Matrix) (*mat.Dense, error) {
	if len(p.Bias) != l.OutFeatures {
		return nil, fmt.Errorf("linear: expected bias of length %d, got %d", l.OutFeatures, len(p.Bias))
	}

	out := mat.NewDense(batch, l.OutFeatures, nil)
	if l.InFeatures > 0 {
		if x == nil || p.Weight == nil {
			return nil, fmt.Errorf("linear: missing input or weight for %d input features", l.InFeatures)
		}
		r, c := x.Dims()
		if r != batch || c != l.InFeatures {
			return nil, fmt.Errorf("linear: expected input [%d, %d], got [%d, %d]", batch, l.InFeatures, r, c)
		}
		wr, wc := p.Weight.Dims()
		if wr != l.OutFeatures || wc != l.InFeatures {
			return nil, fmt.Errorf("linear: weight shape mismatch: expected [%d, %d], got [%d, %d]",
				l.OutFeatures, l.InFeatures, wr, wc)
		}
	}

	// Rows are evaluated independently so that any split of a batch
	// produces bit-identical outputs.
	row := make([]float64, l.InFeatures)
	for i := 0; i < batch; i++ {
		dst := out.RawRowView(i)
		if l.InFeatures > 0 {
			mat.Row(row, i, x)
			for o := range dst {
				dst[o] = floats.Dot(row, p.Weight.RawRowView(o))
			}
		}
		floats.Add(dst, p.Bias)
	}
	return out, nil
}
