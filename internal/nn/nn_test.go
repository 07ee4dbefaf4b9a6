package nn_test

import (
	"math"
	"testing"

	"github.com/born-ml/bijectors/internal/nn"
	"github.com/born-ml/bijectors/internal/prng"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// TestXavier_Bounds tests that Xavier weights stay inside the Glorot bound.
func TestXavier_Bounds(t *testing.T) {
	w := nn.Xavier(10, 5, prng.NewKey(0).Source())
	require.NotNil(t, w)

	r, c := w.Dims()
	assert.Equal(t, 5, r)
	assert.Equal(t, 10, c)

	bound := math.Sqrt(6.0 / 15.0)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			assert.LessOrEqual(t, math.Abs(w.At(i, j)), bound)
		}
	}
}

func TestXavier_ZeroFan(t *testing.T) {
	assert.Nil(t, nn.Xavier(0, 5, prng.NewKey(0).Source()))
}

// TestLinear_Forward tests y = x @ W.T + b against hand-computed values.
func TestLinear_Forward(t *testing.T) {
	layer := nn.NewLinear(2, 2)
	p := nn.LinearParams{
		Weight: mat.NewDense(2, 2, []float64{1, 2, 3, 4}),
		Bias:   []float64{0.5, 1.0},
	}

	x := mat.NewDense(2, 2, []float64{1, 1, 2, -1})
	out, err := layer.Forward(p, 2, x)
	require.NoError(t, err)

	// Row 0: [1*1+1*2+0.5, 1*3+1*4+1] = [3.5, 8]
	// Row 1: [2*1-1*2+0.5, 2*3-1*4+1] = [0.5, 3]
	assert.Equal(t, []float64{3.5, 8, 0.5, 3}, out.RawMatrix().Data)
}

func TestLinear_ForwardNoInputs(t *testing.T) {
	layer := nn.NewLinear(0, 3)
	p := nn.LinearParams{Bias: []float64{1, 2, 3}}

	out, err := layer.Forward(p, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 1, 2, 3}, out.RawMatrix().Data)
}

func TestLinear_ShapeMismatch(t *testing.T) {
	layer := nn.NewLinear(3, 2)
	p := layer.Init(prng.NewKey(1).Source())

	_, err := layer.Forward(p, 1, mat.NewDense(1, 2, nil))
	assert.Error(t, err)
}

func TestLinear_InitZeroBias(t *testing.T) {
	p := nn.NewLinear(4, 3).Init(prng.NewKey(2).Source())
	assert.Equal(t, []float64{0, 0, 0}, p.Bias)
}

func TestReLU(t *testing.T) {
	m := mat.NewDense(1, 4, []float64{-2, -0.5, 0, 3})
	nn.ReLU(m)
	assert.Equal(t, []float64{0, 0, 0, 3}, m.RawMatrix().Data)
}

func TestSoftplus(t *testing.T) {
	assert.InDelta(t, math.Log(2), nn.Softplus(0), 1e-15)
	assert.InDelta(t, 1000.0, nn.Softplus(1000), 1e-12)
	assert.InDelta(t, math.Exp(-50), nn.Softplus(-50), 1e-30)
}

// TestDenseReLU_Shapes tests layer layout and output shape.
func TestDenseReLU_Shapes(t *testing.T) {
	net := nn.DenseReLU{In: 3, Out: 7, HiddenLayers: 2, HiddenDim: 8}

	layers := net.Layers()
	require.Len(t, layers, 3)
	assert.Equal(t, nn.NewLinear(3, 8), layers[0])
	assert.Equal(t, nn.NewLinear(8, 8), layers[1])
	assert.Equal(t, nn.NewLinear(8, 7), layers[2])

	p := net.Init(prng.NewKey(0))
	out, err := net.Forward(p, 4, mat.NewDense(4, 3, nil))
	require.NoError(t, err)

	r, c := out.Dims()
	assert.Equal(t, 4, r)
	assert.Equal(t, 7, c)
}

func TestDenseReLU_InitReproducible(t *testing.T) {
	net := nn.DenseReLU{In: 2, Out: 3, HiddenLayers: 1, HiddenDim: 4}

	a := net.Init(prng.NewKey(9))
	b := net.Init(prng.NewKey(9))
	c := net.Init(prng.NewKey(10))

	assert.True(t, mat.Equal(a.Layers[0].Weight, b.Layers[0].Weight))
	assert.False(t, mat.Equal(a.Layers[0].Weight, c.Layers[0].Weight))
}

func TestDenseReLU_NoInputs(t *testing.T) {
	net := nn.DenseReLU{In: 0, Out: 5, HiddenLayers: 2, HiddenDim: 4}

	out, err := net.Forward(net.Init(prng.NewKey(3)), 2, nil)
	require.NoError(t, err)

	// With zero biases and no inputs every activation is zero.
	assert.Equal(t, make([]float64, 10), out.RawMatrix().Data)
}

func TestDenseReLU_WrongLayerCount(t *testing.T) {
	net := nn.DenseReLU{In: 2, Out: 2, HiddenLayers: 1, HiddenDim: 2}

	_, err := net.Forward(nn.MLPParams{}, 1, mat.NewDense(1, 2, nil))
	assert.Error(t, err)
}
