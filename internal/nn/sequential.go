package nn

import (
	"fmt"

	"github.com/born-ml/bijectors/internal/prng"
	"gonum.org/v1/gonum/mat"
)

// MLPParams holds the weights of every layer of a DenseReLU network,
// in evaluation order.
type MLPParams struct {
	Layers []LinearParams
}

// DenseReLU is a feed-forward network of Linear layers with ReLU
// activations between them:
//
//	Linear(in → hidden) → ReLU → ... → Linear(hidden → hidden) → ReLU → Linear(hidden → out)
//
// With HiddenLayers == 0 the network is a single Linear(in → out).
type DenseReLU struct {
	In           int
	Out          int
	HiddenLayers int
	HiddenDim    int
}

// Layers returns the Linear layers of the network in order.
func (n DenseReLU) Layers() []Linear {
	layers := make([]Linear, 0, n.HiddenLayers+1)
	in := n.In
	for i := 0; i < n.HiddenLayers; i++ {
		layers = append(layers, NewLinear(in, n.HiddenDim))
		in = n.HiddenDim
	}
	return append(layers, NewLinear(in, n.Out))
}

// Init initializes every layer from an independent child of key.
func (n DenseReLU) Init(key prng.Key) MLPParams {
	layers := n.Layers()
	keys := key.Split(len(layers))

	params := MLPParams{Layers: make([]LinearParams, len(layers))}
	for i, l := range layers {
		params.Layers[i] = l.Init(keys[i].Source())
	}
	return params
}

// Forward evaluates the network on a [batch, In] input.
//
// x may be nil when In is zero; the output then depends on biases only.
func (n DenseReLU) Forward(p MLPParams, batch int, x mat.Matrix) (*mat.Dense, error) {
	layers := n.Layers()
	if len(p.Layers) != len(layers) {
		return nil, fmt.Errorf("dense relu: expected %d layers, got %d", len(layers), len(p.Layers))
	}

	h := x
	var out *mat.Dense
	for i, l := range layers {
		var err error
		out, err = l.Forward(p.Layers[i], batch, h)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		if i < len(layers)-1 {
			ReLU(out)
		}
		h = out
	}
	return out, nil
}
