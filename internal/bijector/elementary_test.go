package bijector_test

import (
	"math"
	"testing"

	"github.com/born-ml/bijectors/internal/bijector"
	"github.com/born-ml/bijectors/internal/prng"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func forward(t *testing.T, b bijector.Bijector, x *mat.Dense) (*mat.Dense, *mat.VecDense) {
	t.Helper()
	_, d := x.Dims()
	p, err := b.Initialize(prng.NewKey(0), d)
	require.NoError(t, err)
	y, ld, err := b.Forward(p, x)
	require.NoError(t, err)
	return y, ld
}

func TestReverse_Layout(t *testing.T) {
	x := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})
	y, ld := forward(t, bijector.NewReverse(), x)
	assert.Equal(t, []float64{3, 2, 1, 6, 5, 4}, y.RawMatrix().Data)
	assert.Equal(t, []float64{0, 0}, ld.RawVector().Data)
}

// TestRoll_Layout tests that column j moves to (j+shift) mod D.
func TestRoll_Layout(t *testing.T) {
	x := mat.NewDense(1, 4, []float64{1, 2, 3, 4})

	y, _ := forward(t, bijector.NewRoll(1), x)
	assert.Equal(t, []float64{4, 1, 2, 3}, y.RawMatrix().Data)

	y, _ = forward(t, bijector.NewRoll(-1), x)
	assert.Equal(t, []float64{2, 3, 4, 1}, y.RawMatrix().Data)

	y, _ = forward(t, bijector.NewRoll(6), x)
	assert.Equal(t, []float64{3, 4, 1, 2}, y.RawMatrix().Data)
}

func TestScale_LogDet(t *testing.T) {
	x := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})
	y, ld := forward(t, mustScale(t, -2), x)
	assert.Equal(t, []float64{-2, -4, -6, -8, -10, -12}, y.RawMatrix().Data)
	assert.InDelta(t, 3*math.Log(2), ld.AtVec(0), 1e-12)
	assert.InDelta(t, 3*math.Log(2), ld.AtVec(1), 1e-12)
}

func TestScale_Invalid(t *testing.T) {
	for _, f := range []float64{0, math.NaN(), math.Inf(1)} {
		_, err := bijector.NewScale(f)
		assert.ErrorIs(t, err, bijector.ErrConfig)
	}
}

// TestShuffle_Permutation tests that Shuffle only reorders columns.
func TestShuffle_Permutation(t *testing.T) {
	s := bijector.NewShuffle()
	p, err := s.Initialize(prng.NewKey(5), 7)
	require.NoError(t, err)
	sp := p.(bijector.ShuffleParams)
	assert.ElementsMatch(t, []int{0, 1, 2, 3, 4, 5, 6}, sp.Perm)

	x := fixture()
	y, _, err := s.Forward(p, x)
	require.NoError(t, err)
	for j, src := range sp.Perm {
		assert.Equal(t, mat.Col(nil, src, x), mat.Col(nil, j, y))
	}
}

func TestInvSoftplus_Values(t *testing.T) {
	b, err := bijector.NewInvSoftplus([]int{1}, []float64{2})
	require.NoError(t, err)

	x := mat.NewDense(1, 2, []float64{0.5, 0.5})
	y, ld := forward(t, b, x)

	want := math.Log(math.Expm1(1)) / 2
	assert.Equal(t, 0.5, y.At(0, 0))
	assert.InDelta(t, want, y.At(0, 1), 1e-12)
	// d/dx log(exp(kx)-1)/k = 1/(1-exp(-kx))
	assert.InDelta(t, -math.Log(-math.Expm1(-1)), ld.AtVec(0), 1e-12)
}

// TestInvSoftplus_SharedSharpness tests that a single sharpness applies to
// every selected column.
func TestInvSoftplus_SharedSharpness(t *testing.T) {
	x := mat.NewDense(1, 3, []float64{0.5, 0.25, 0.75})

	shared, err := bijector.NewInvSoftplus([]int{0, 2}, []float64{2})
	require.NoError(t, err)
	explicit, err := bijector.NewInvSoftplus([]int{0, 2}, []float64{2, 2})
	require.NoError(t, err)

	y1, ld1 := forward(t, shared, x)
	y2, ld2 := forward(t, explicit, x)
	assert.True(t, mat.Equal(y2, y1))
	assert.True(t, mat.Equal(ld2, ld1))
	assert.Equal(t, 0.25, y1.At(0, 1))

	all, err := bijector.NewInvSoftplus(nil, []float64{3})
	require.NoError(t, err)
	y3, _ := forward(t, all, x)
	for j := 0; j < 3; j++ {
		k := 3.0
		assert.InDelta(t, math.Log(math.Expm1(k*x.At(0, j)))/k, y3.At(0, j), 1e-12)
	}
}

func TestInvSoftplus_Invalid(t *testing.T) {
	_, err := bijector.NewInvSoftplus(nil, []float64{1, 2})
	assert.ErrorIs(t, err, bijector.ErrConfig)
	_, err = bijector.NewInvSoftplus([]int{0, 1, 2}, []float64{1, 2})
	assert.ErrorIs(t, err, bijector.ErrConfig)
	_, err = bijector.NewInvSoftplus([]int{0, 0}, nil)
	assert.ErrorIs(t, err, bijector.ErrConfig)
	_, err = bijector.NewInvSoftplus([]int{-1}, nil)
	assert.ErrorIs(t, err, bijector.ErrConfig)
	_, err = bijector.NewInvSoftplus([]int{0}, []float64{0})
	assert.ErrorIs(t, err, bijector.ErrConfig)
}

func TestStandardScaler_Values(t *testing.T) {
	b, err := bijector.NewStandardScaler([]float64{1, -1}, []float64{2, 4})
	require.NoError(t, err)

	x := mat.NewDense(1, 2, []float64{3, 3})
	y, ld := forward(t, b, x)
	assert.Equal(t, []float64{1, 1}, y.RawMatrix().Data)
	assert.InDelta(t, -math.Log(8), ld.AtVec(0), 1e-12)
}

// TestColorTransform_Layout tests the column layout on a subset of bands.
func TestColorTransform_Layout(t *testing.T) {
	b, err := bijector.NewColorTransform(3, []int{1, 3, 5})
	require.NoError(t, err)

	x := mat.NewDense(1, 7, []float64{10, 21, 30, 23, 40, 26, 50})
	y, ld := forward(t, b, x)
	assert.Equal(t, []float64{10, 30, 40, 50, 23, -2, -3}, y.RawMatrix().Data)
	assert.Equal(t, 0.0, ld.AtVec(0))
}

// TestColorTransform_Photometry tests the documented galaxy-catalog layout.
func TestColorTransform_Photometry(t *testing.T) {
	b, err := bijector.NewColorTransform(4, []int{1, 2, 4, 5, 6, 7})
	require.NoError(t, err)

	// [redshift, u, g, ellipticity, r, i, z, y, mass]
	x := mat.NewDense(1, 9, []float64{0.5, 25, 24, 0.1, 23, 22.5, 22, 21.75, 10})
	y, _ := forward(t, b, x)
	assert.Equal(t, []float64{0.5, 0.1, 10, 23, 1, 1, 0.5, 0.5, 0.25}, y.RawMatrix().Data)
}

func TestColorTransform_Invalid(t *testing.T) {
	_, err := bijector.NewColorTransform(1, []int{1, 1})
	assert.ErrorIs(t, err, bijector.ErrConfig)
	_, err = bijector.NewColorTransform(-1, []int{-1, 2})
	assert.ErrorIs(t, err, bijector.ErrConfig)
}
